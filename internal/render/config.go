package render

import "github.com/zappabad/pctmarket/internal/format"

// NewsPolicy controls how the alerts table is filled.
type NewsPolicy int

const (
	// NewsLatestOnly shows only the newest alert (the first item pushed).
	NewsLatestOnly NewsPolicy = iota
	// NewsFullHistory shows every alert pushed.
	NewsFullHistory
)

// ParseNewsPolicy maps "latest" / "full" to a policy; anything else is latest.
func ParseNewsPolicy(s string) NewsPolicy {
	if s == "full" || s == "history" {
		return NewsFullHistory
	}
	return NewsLatestOnly
}

// Config holds configuration for the renderer.
type Config struct {
	// News selects the alerts policy.
	News NewsPolicy
	// Currency formats cash and prices.
	Currency format.Currency
	// CurrencyLabel prefixes trade prices.
	CurrencyLabel string
	// NoAlerts is shown when there is no news.
	NoAlerts string
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		News:          NewsLatestOnly,
		Currency:      format.DefaultCurrency,
		CurrencyLabel: "EUR",
		NoAlerts:      "No alerts",
	}
}
