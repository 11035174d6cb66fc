// Package format turns snapshot values into the strings shown on the market page.
package format

import (
	"math"
	"strconv"
)

// Currency formats money amounts. Amounts are rounded to Decimals places and
// trailing zeros are dropped, so 100 renders as "100" and 10.5 as "10.5".
type Currency struct {
	Decimals int
}

// DefaultCurrency matches the backend, which rounds prices to two decimals.
var DefaultCurrency = Currency{Decimals: 2}

// Format renders v.
func (c Currency) Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	scale := math.Pow(10, float64(c.Decimals))
	rounded := math.Round(v*scale) / scale
	if rounded == 0 {
		rounded = 0 // avoid "-0"
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// Number renders a plain quantity the way the page shows holdings.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Plural returns word for exactly one item and word+"s" otherwise.
func Plural(n float64, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// Count renders "1 asset", "3 assets", ...
func Count(n float64, word string) string {
	return Number(n) + " " + Plural(n, word)
}

// TradeDesc describes a completed trade from the viewer's side. The backend
// only pushes trades the viewer took part in, so anything not sold by the
// viewer was bought by them.
func TradeDesc(sellerID, me string) string {
	if sellerID != "" && sellerID == me {
		return "Sold"
	}
	return "Bought"
}
