package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"ohhell/internal/app"
)

func newLogger(level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// logAdapter lets the engine log through logrus.
type logAdapter struct {
	entry *logrus.Entry
}

func (l logAdapter) Debug(format string, v ...interface{}) { l.entry.Debugf(format, v...) }
func (l logAdapter) Info(format string, v ...interface{})  { l.entry.Infof(format, v...) }
func (l logAdapter) Warn(format string, v ...interface{})  { l.entry.Warnf(format, v...) }
func (l logAdapter) Error(format string, v ...interface{}) { l.entry.Errorf(format, v...) }

var _ app.Logger = logAdapter{}
