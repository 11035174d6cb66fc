// Package snapshot holds the full market state the backend pushes to a
// participant after every operation.
package snapshot

// OfferID identifies an open limit order. The backend sends integers; the
// client treats the value as an opaque string.
type OfferID string

// ParticipantID identifies a participant within the group (the maker of an
// offer, the seller of a trade, the viewer).
type ParticipantID string

// OrderRow is one open bid or ask: [price, volume, offerID, makerID].
type OrderRow struct {
	Price   float64
	Volume  float64
	OfferID OfferID
	MakerID ParticipantID
}

// TradeRow is one completed trade the viewer took part in:
// [price, volume, time, sellerID].
type TradeRow struct {
	Price    float64
	Volume   float64
	Time     float64
	SellerID ParticipantID
}

// NewsItem is one alert for the viewer: [message, msgTime, playerID].
type NewsItem struct {
	Message  string
	Time     float64
	PlayerID ParticipantID
}

// Point is one chart point. Accepts {"x":..,"y":..} or [x, y].
type Point struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Name string  `json:"name,omitempty"`
}

// Series is a chart series as produced by the backend.
type Series struct {
	Name      string         `json:"name"`
	Data      []Point        `json:"data"`
	Type      string         `json:"type,omitempty"`
	ID        string         `json:"id,omitempty"`
	LineWidth int            `json:"lineWidth,omitempty"`
	Marker    map[string]any `json:"marker,omitempty"`
}

// Snapshot is the full state pushed on every update. Optional numeric fields
// are nil when the backend omitted them; the page then keeps what it shows.
type Snapshot struct {
	Bids   []OrderRow `json:"bids"`
	Asks   []OrderRow `json:"asks"`
	Trades []TradeRow `json:"trades"`
	News   []NewsItem `json:"news"`
	Series []Series   `json:"highcharts_series"`

	CashHolding    *float64 `json:"cashHolding,omitempty"`
	AssetsHolding  *float64 `json:"assetsHolding,omitempty"`
	GoodAQty       *float64 `json:"goodA_qty,omitempty"`
	GoodBQty       *float64 `json:"goodB_qty,omitempty"`
	GoodsUtility   *float64 `json:"goods_utility,omitempty"`
	OverallUtility *float64 `json:"overall_utility,omitempty"`

	GoodsTradeGood  string   `json:"goods_trade_good,omitempty"`
	GoodsTradeQty   float64  `json:"goods_trade_qty,omitempty"`
	GoodsTradePrice *float64 `json:"goods_trade_price,omitempty"`
}

// HasGoodsTrade reports whether the snapshot announces a goods purchase made
// by the viewer with the operation that produced it.
func (s *Snapshot) HasGoodsTrade() bool {
	return s.GoodsTradeGood != "" && s.GoodsTradeQty != 0
}

// Float returns a pointer to v, for building snapshots in code.
func Float(v float64) *float64 { return &v }
