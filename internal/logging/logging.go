// Package logging builds the application logger.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/at-ishikawa/cardsrs/internal/config"
)

// New builds a logrus logger from the log configuration.
// debug forces the debug level regardless of the configured one.
func New(cfg config.LogConfig, out io.Writer, debug bool) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	if debug {
		level = logrus.DebugLevel
		logger.SetReportCaller(true)
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
