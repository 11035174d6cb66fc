package format

import (
	"math"
	"testing"
)

func TestCurrencyFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{100, "100"},
		{10.5, "10.5"},
		{10.456, "10.46"},
		{0, "0"},
		{-0.001, "0"},
		{math.NaN(), "-"},
	}
	for _, c := range cases {
		if got := DefaultCurrency.Format(c.in); got != c.want {
			t.Errorf("Format(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCount(t *testing.T) {
	if got := Count(1, "asset"); got != "1 asset" {
		t.Errorf("got %q", got)
	}
	if got := Count(2, "asset"); got != "2 assets" {
		t.Errorf("got %q", got)
	}
	if got := Count(0, "unit"); got != "0 units" {
		t.Errorf("got %q", got)
	}
}

func TestTradeDesc(t *testing.T) {
	if got := TradeDesc("3", "3"); got != "Sold" {
		t.Errorf("own sale described as %q", got)
	}
	if got := TradeDesc("1", "3"); got != "Bought" {
		t.Errorf("purchase described as %q", got)
	}
	if got := TradeDesc("", ""); got != "Bought" {
		t.Errorf("unknown seller described as %q", got)
	}
}
