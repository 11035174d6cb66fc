package client

import (
	"github.com/zappabad/pctmarket/internal/config"
	"github.com/zappabad/pctmarket/internal/format"
	"github.com/zappabad/pctmarket/internal/render"
	"github.com/zappabad/pctmarket/internal/session"
	"github.com/zappabad/pctmarket/internal/snapshot"
	"github.com/zappabad/pctmarket/internal/transport"
)

// Config holds configuration for a participant client.
type Config struct {
	// Participant is the id of the participant at this client.
	Participant snapshot.ParticipantID
	// Framing selects the asset wording.
	Framing string
	// MarketTime is the round length in seconds, the chart's x range.
	MarketTime float64
	// Transport is the configuration for the live channel.
	Transport transport.Config
	// Session is the configuration for the page session.
	Session session.Config
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Framing:    "baseline",
		MarketTime: 210,
		Transport:  transport.DefaultConfig(),
		Session:    session.DefaultConfig(),
	}
}

// FromEnv maps the loaded environment configuration onto a client Config.
func FromEnv(env *config.Config) Config {
	cfg := DefaultConfig()
	cfg.Participant = snapshot.ParticipantID(env.Participant.ID)
	cfg.Framing = env.Market.Framing
	cfg.MarketTime = env.Market.MarketTime

	cfg.Transport.URL = env.Backend.URL
	cfg.Transport.SessionHeader = env.Backend.Header
	cfg.Transport.HandshakeTimeout = env.Backend.HandshakeTimeout
	cfg.Transport.MinBackoff = env.Backend.MinBackoff
	cfg.Transport.MaxBackoff = env.Backend.MaxBackoff

	cfg.Session.Render = render.Config{
		News:          render.ParseNewsPolicy(env.Market.News),
		Currency:      format.Currency{Decimals: env.Market.Decimals},
		CurrencyLabel: env.Market.Currency,
		NoAlerts:      render.DefaultConfig().NoAlerts,
	}
	return cfg
}
