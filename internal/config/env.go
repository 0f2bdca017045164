package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends selectable for the scorepad.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Scorepad holds the command-line tool's settings.
type Scorepad struct {
	Store       string
	RedisURL    string
	DatabaseURL string
	Owner       string
	LogLevel    string
	LogFormat   string
	ConfigPath  string
}

// LoadScorepad reads .env files if present, then the SCOREPAD_* variables.
func LoadScorepad(files ...string) Scorepad {
	// Missing .env files are fine.
	_ = godotenv.Load(files...)
	return scorepadFromEnv(os.Getenv)
}

func scorepadFromEnv(getenv func(string) string) Scorepad {
	s := Scorepad{
		Store:     StoreMemory,
		Owner:     "local",
		LogLevel:  "info",
		LogFormat: "text",
	}
	if v := strings.ToLower(strings.TrimSpace(getenv("SCOREPAD_STORE"))); v != "" {
		s.Store = v
	}
	if v := getenv("SCOREPAD_REDIS_URL"); v != "" {
		s.RedisURL = v
	}
	if v := getenv("SCOREPAD_DATABASE_URL"); v != "" {
		s.DatabaseURL = v
	}
	if v := strings.TrimSpace(getenv("SCOREPAD_OWNER")); v != "" {
		s.Owner = v
	}
	if v := getenv("SCOREPAD_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := getenv("SCOREPAD_LOG_FORMAT"); v != "" {
		s.LogFormat = v
	}
	if v := getenv("SCOREPAD_CONFIG"); v != "" {
		s.ConfigPath = v
	}
	return s
}
