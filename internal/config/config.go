package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

type GameConfig struct {
	MaxCards   int `json:"max_cards"`
	BidPoints  int `json:"bid_points"`
	MaxPlayers int `json:"max_players"`
	// ShareTokenTTLSeconds bounds how long a read-only share link stays valid.
	ShareTokenTTLSeconds int    `json:"share_token_ttl_seconds"`
	ShareIssuer          string `json:"share_issuer"`
}

const (
	defaultMaxCards   = 10
	defaultBidPoints  = 10
	defaultMaxPlayers = 10
	defaultShareTTL   = 24 * time.Hour
	defaultIssuer     = "ohhell"
)

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		c, err := ParseGameConfig(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return loadErr
}

// ParseGameConfig decodes and checks a config document.
func ParseGameConfig(data []byte) (*GameConfig, error) {
	var c GameConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if c.MaxCards < 0 || c.BidPoints < 0 || c.MaxPlayers < 0 || c.ShareTokenTTLSeconds < 0 {
		return nil, fmt.Errorf("game config has negative values: %+v", c)
	}
	return &c, nil
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// DefaultMaxCards returns the configured hand cap, or the safe default.
func (c *GameConfig) DefaultMaxCards() int {
	if c == nil || c.MaxCards < 1 {
		return defaultMaxCards
	}
	return c.MaxCards
}

func (c *GameConfig) DefaultBidPoints() int {
	if c == nil || c.BidPoints == 0 {
		return defaultBidPoints
	}
	return c.BidPoints
}

// PlayerLimit caps the roster a client may submit.
func (c *GameConfig) PlayerLimit() int {
	if c == nil || c.MaxPlayers < 2 {
		return defaultMaxPlayers
	}
	return c.MaxPlayers
}

func (c *GameConfig) ShareTTL() time.Duration {
	if c == nil || c.ShareTokenTTLSeconds == 0 {
		return defaultShareTTL
	}
	return time.Duration(c.ShareTokenTTLSeconds) * time.Second
}

func (c *GameConfig) Issuer() string {
	if c == nil || c.ShareIssuer == "" {
		return defaultIssuer
	}
	return c.ShareIssuer
}
