package client

import (
	"github.com/zappabad/pctmarket/internal/config"
	"github.com/zappabad/pctmarket/internal/logger"
)

// NewLogger builds the process logger from the environment configuration.
// The terminal client passes console=false since bubbletea owns the screen.
func NewLogger(cfg config.LogConfig, console bool) (*logger.Logger, error) {
	opts := []logger.Options{
		logger.WithLoggingLevel(logger.ParseLevel(cfg.Level)),
		logger.WithConsole(console),
	}
	if cfg.File != "" {
		opts = append(opts, logger.WithFile(logger.FileOptions{
			Filename:   cfg.File,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAgeDays: cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}))
	}
	return logger.NewLogger(opts...)
}
