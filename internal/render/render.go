// Package render turns a pushed snapshot into the view tree.
package render

import (
	"fmt"

	"github.com/zappabad/pctmarket/internal/chart"
	"github.com/zappabad/pctmarket/internal/format"
	"github.com/zappabad/pctmarket/internal/selection"
	"github.com/zappabad/pctmarket/internal/snapshot"
	"github.com/zappabad/pctmarket/internal/view"
)

const (
	iconAsset = "asset-icon"
	iconGoods = "goods-icon"
)

// RenderContext is the page session state a render needs: who is viewing,
// what they selected and what is currently on screen.
type RenderContext struct {
	Me        snapshot.ParticipantID
	Selection *selection.Tracker
	Current   *view.View
}

// NewRenderContext creates an empty context for participant me.
func NewRenderContext(me snapshot.ParticipantID) *RenderContext {
	return &RenderContext{
		Me:        me,
		Selection: &selection.Tracker{},
		Current:   &view.View{},
	}
}

// Renderer builds views. It keeps no state of its own; everything that
// outlives a render lives in the RenderContext.
type Renderer struct {
	cfg   Config
	chart *chart.Adapter
}

// NewRenderer creates a renderer. adapter may be nil, in which case the chart
// configuration is built without a drawer.
func NewRenderer(cfg Config, adapter *chart.Adapter) *Renderer {
	if cfg.NoAlerts == "" {
		cfg.NoAlerts = DefaultConfig().NoAlerts
	}
	if adapter == nil {
		adapter = chart.NewAdapter("", 0, nil)
	}
	return &Renderer{cfg: cfg, chart: adapter}
}

// Render replaces the tables with ones built from snap, restyles the
// selection and redraws the chart. A nil snapshot leaves the current view
// untouched.
func (r *Renderer) Render(rc *RenderContext, snap *snapshot.Snapshot) *view.View {
	if snap == nil {
		return rc.Current
	}
	prev := rc.Current
	if prev == nil {
		prev = &view.View{}
	}

	v := &view.View{
		Bids:     r.orderTable("bids", snap.Bids, true),
		Asks:     r.orderTable("asks", snap.Asks, false),
		Trades:   r.tradeTable(rc.Me, snap),
		News:     r.newsTable(snap.News),
		Holdings: r.holdings(prev.Holdings, snap),
		Version:  prev.Version + 1,
	}

	view.NormalizeWidths(&v.Bids, &v.Asks)
	rc.Selection.Apply(rc.Me, v.OrderTables()...)
	v.Chart = r.chart.Redraw(snap.Series)

	rc.Current = v
	return v
}

// Restyle re-applies the selection to the current view without a new
// snapshot, e.g. right after a row was clicked.
func (r *Renderer) Restyle(rc *RenderContext) *view.View {
	if rc.Current == nil {
		rc.Current = &view.View{}
	}
	v := rc.Current.Clone()
	rc.Selection.Apply(rc.Me, v.OrderTables()...)
	v.Version++
	rc.Current = v
	return v
}

// ClearSelectionStyles strips selection styling from the current view.
func (r *Renderer) ClearSelectionStyles(rc *RenderContext) *view.View {
	if rc.Current == nil {
		rc.Current = &view.View{}
	}
	v := rc.Current.Clone()
	selection.ClearStyles(v.OrderTables()...)
	v.Version++
	rc.Current = v
	return v
}

func (r *Renderer) orderTable(name string, rows []snapshot.OrderRow, isBid bool) view.Table {
	t := view.Table{Name: name, Rows: make([]view.Row, 0, len(rows))}
	for _, o := range rows {
		t.Rows = append(t.Rows, view.Row{
			ID:      "offerID" + string(o.OfferID),
			Kind:    view.RowOrder,
			OfferID: o.OfferID,
			MakerID: o.MakerID,
			IsBid:   isBid,
			Price:   o.Price,
			Volume:  o.Volume,
			Cells: []view.Cell{
				{Text: format.Number(o.Volume) + " for ", Value: format.Number(o.Volume)},
				{Text: r.cfg.Currency.Format(o.Price), Value: format.Number(o.Price)},
			},
		})
	}
	return t
}

func (r *Renderer) tradeTable(me snapshot.ParticipantID, snap *snapshot.Snapshot) view.Table {
	t := view.Table{Name: "trades", Rows: make([]view.Row, 0, len(snap.Trades)+1)}
	if snap.HasGoodsTrade() {
		msg := fmt.Sprintf("You bought %s of Good %s", format.Count(snap.GoodsTradeQty, "unit"), snap.GoodsTradeGood)
		t.Rows = append(t.Rows, view.Row{
			Kind:   view.RowGoodsTrade,
			Icon:   iconGoods,
			Volume: snap.GoodsTradeQty,
			Cells:  []view.Cell{{Text: msg}, {}, {}},
		})
	}
	for _, tr := range snap.Trades {
		t.Rows = append(t.Rows, view.Row{
			Kind:    view.RowTrade,
			Icon:    iconAsset,
			MakerID: tr.SellerID,
			Price:   tr.Price,
			Volume:  tr.Volume,
			Cells: []view.Cell{
				{Text: format.TradeDesc(string(tr.SellerID), string(me))},
				{Text: format.Count(tr.Volume, "asset") + " for", Value: format.Number(tr.Volume)},
				{Text: r.cfg.CurrencyLabel + " " + r.cfg.Currency.Format(tr.Price), Value: format.Number(tr.Price)},
			},
		})
	}
	return t
}

func (r *Renderer) newsTable(items []snapshot.NewsItem) view.Table {
	t := view.Table{Name: "news"}
	if len(items) == 0 {
		t.Rows = []view.Row{{Kind: view.RowNews, Cells: []view.Cell{{Text: r.cfg.NoAlerts}}}}
		return t
	}
	if r.cfg.News == NewsLatestOnly {
		items = items[:1]
	}
	t.Rows = make([]view.Row, 0, len(items))
	for _, n := range items {
		t.Rows = append(t.Rows, view.Row{Kind: view.RowNews, Cells: []view.Cell{{Text: n.Message}}})
	}
	return t
}

func (r *Renderer) holdings(prev view.Holdings, snap *snapshot.Snapshot) view.Holdings {
	h := prev
	if snap.CashHolding != nil {
		h.Cash = r.cfg.Currency.Format(*snap.CashHolding)
	}
	set := func(dst *string, v *float64) {
		if v != nil {
			*dst = format.Number(*v)
		}
	}
	set(&h.Assets, snap.AssetsHolding)
	set(&h.GoodA, snap.GoodAQty)
	set(&h.GoodB, snap.GoodBQty)
	set(&h.GoodsUtility, snap.GoodsUtility)
	set(&h.OverallUtility, snap.OverallUtility)
	return h
}
