// Package config loads client settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the whole client configuration.
type Config struct {
	Participant ParticipantConfig `envPrefix:"PARTICIPANT_"`
	Backend     BackendConfig     `envPrefix:"BACKEND_"`
	Market      MarketConfig      `envPrefix:"MARKET_"`
	Web         WebConfig         `envPrefix:"WEB_"`
	Log         LogConfig         `envPrefix:"LOG_"`
}

// ParticipantConfig identifies who is trading.
type ParticipantConfig struct {
	ID string `env:"ID,required"`
}

// BackendConfig points at the experiment's live channel.
type BackendConfig struct {
	URL              string        `env:"URL" envDefault:"ws://localhost:8000/live"`
	HandshakeTimeout time.Duration `env:"HANDSHAKE_TIMEOUT" envDefault:"10s"`
	MinBackoff       time.Duration `env:"MIN_BACKOFF" envDefault:"500ms"`
	MaxBackoff       time.Duration `env:"MAX_BACKOFF" envDefault:"15s"`
	Header           string        `env:"SESSION_HEADER" envDefault:"X-Session-ID"`
}

// MarketConfig mirrors the round settings the page is built with.
type MarketConfig struct {
	Framing    string  `env:"FRAMING" envDefault:"baseline"`
	MarketTime float64 `env:"TIME" envDefault:"210"`
	News       string  `env:"NEWS" envDefault:"latest"`
	Currency   string  `env:"CURRENCY" envDefault:"EUR"`
	Decimals   int     `env:"DECIMALS" envDefault:"2"`
}

// WebConfig configures the browser front end.
type WebConfig struct {
	Addr string `env:"ADDR" envDefault:":8080"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level      string `env:"LEVEL" envDefault:"info"`
	File       string `env:"FILE"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB" envDefault:"25"`
	MaxBackups int    `env:"MAX_BACKUPS" envDefault:"10"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"14"`
	Compress   bool   `env:"COMPRESS" envDefault:"true"`
}

// Load reads .env files (if present) and then the environment.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "PCT_"}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
