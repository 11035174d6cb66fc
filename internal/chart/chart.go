// Package chart builds the trade-history chart configuration from the series
// pushed with every snapshot.
package chart

import (
	"github.com/zappabad/pctmarket/internal/snapshot"
)

// Framings that switch the wording from assets to carbon credits.
const (
	FramingBaseline      = "baseline"
	FramingEnvironmental = "environmental"
	FramingDestruction   = "destruction"
)

// Drawer paints a chart configuration. The web page hands it to Highcharts,
// the terminal client plots it with lipgloss.
type Drawer interface {
	Draw(cfg Config)
}

// DrawerFunc adapts a function to Drawer.
type DrawerFunc func(cfg Config)

func (f DrawerFunc) Draw(cfg Config) { f(cfg) }

// Text is a Highcharts text block.
type Text struct {
	Text  string            `json:"text"`
	Style map[string]string `json:"style,omitempty"`
}

// Axis is a Highcharts axis.
type Axis struct {
	Title Text     `json:"title"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

// Toggle is any {"enabled": bool} option.
type Toggle struct {
	Enabled bool `json:"enabled"`
}

// PlotOptions holds the per-series defaults.
type PlotOptions struct {
	Series struct {
		Label Toggle `json:"label"`
	} `json:"series"`
}

// Config is a complete chart definition. It marshals to the JSON Highcharts
// expects, so the web page can pass it through unchanged.
type Config struct {
	Title       Text              `json:"title"`
	Subtitle    Text              `json:"subtitle"`
	YAxis       Axis              `json:"yAxis"`
	XAxis       Axis              `json:"xAxis"`
	Legend      Toggle            `json:"legend"`
	PlotOptions PlotOptions       `json:"plotOptions"`
	Series      []snapshot.Series `json:"series"`
	Credits     Toggle            `json:"credits"`
}

// Adapter regenerates the chart on every redraw. It keeps no state between
// calls apart from its settings.
type Adapter struct {
	framing    string
	marketTime float64
	drawer     Drawer
}

// NewAdapter creates an adapter. drawer may be nil when the caller only wants
// the configuration returned from Redraw.
func NewAdapter(framing string, marketTime float64, drawer Drawer) *Adapter {
	return &Adapter{framing: framing, marketTime: marketTime, drawer: drawer}
}

// AssetNoun is the plural noun for the traded asset under a framing.
func AssetNoun(framing string) string {
	if framing == FramingEnvironmental || framing == FramingDestruction {
		return "carbon credits"
	}
	return "assets"
}

// Build is the pure configuration function behind Redraw.
func Build(series []snapshot.Series, framing string, marketTime float64) Config {
	lo, hi := 0.0, marketTime
	cfg := Config{
		Title: Text{Text: "Trade history"},
		Subtitle: Text{
			Text:  "Prices at which group members traded " + AssetNoun(framing) + " this round",
			Style: map[string]string{"fontSize": "0.9em"},
		},
		YAxis:   Axis{Title: Text{Text: "Price"}},
		XAxis:   Axis{Title: Text{Text: "Time (seconds)"}, Min: &lo, Max: &hi},
		Legend:  Toggle{Enabled: true},
		Series:  series,
		Credits: Toggle{Enabled: false},
	}
	if cfg.Series == nil {
		cfg.Series = []snapshot.Series{}
	}
	cfg.PlotOptions.Series.Label.Enabled = true
	return cfg
}

// Redraw builds a fresh configuration for series and hands it to the drawer.
func (a *Adapter) Redraw(series []snapshot.Series) Config {
	cfg := Build(series, a.framing, a.marketTime)
	if a.drawer != nil {
		a.drawer.Draw(cfg)
	}
	return cfg
}
