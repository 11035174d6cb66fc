package web

import (
	"time"

	"github.com/zappabad/pctmarket/internal/chart"
)

// Config holds configuration for the browser front end.
type Config struct {
	// Title is the page heading.
	Title string
	// Framing selects the asset wording.
	Framing string
	// RefreshInterval is how often the page polls for new tables.
	RefreshInterval time.Duration
	// ActivityLines is how many status lines the page shows.
	ActivityLines int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Title:           "Market",
		Framing:         chart.FramingBaseline,
		RefreshInterval: time.Second,
		ActivityLines:   5,
	}
}
