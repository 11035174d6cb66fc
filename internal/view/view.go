// Package view is the declarative view tree painted by the front ends. A View
// is rebuilt from scratch on every snapshot and never mutated after it has
// been published; front ends only read it.
package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/pctmarket/internal/chart"
	"github.com/zappabad/pctmarket/internal/snapshot"
)

// Style is the selection style of an order row. The values are the CSS
// classes the web page uses.
type Style string

const (
	StyleNone            Style = ""
	StyleSelectable      Style = "btn-outline-primary"
	StyleOwn             Style = "btn-outline-danger"
	StyleForeignSelected Style = "btn-primary"
	StyleOwnSelected     Style = "btn-danger"
)

// Selected reports whether s marks the selected row.
func (s Style) Selected() bool {
	return s == StyleForeignSelected || s == StyleOwnSelected
}

// RowKind distinguishes backend rows from rows the client synthesises.
type RowKind int

const (
	RowOrder RowKind = iota
	RowTrade
	RowGoodsTrade
	RowNews
)

// Cell is one table cell. Value keeps the raw value next to its display text.
type Cell struct {
	Text  string
	Value string
}

// Row is one table row. Order rows carry their identity (OfferID) and
// ownership (MakerID) so selection can find and restyle them.
type Row struct {
	ID      string
	Kind    RowKind
	OfferID snapshot.OfferID
	MakerID snapshot.ParticipantID
	IsBid   bool
	Price   float64
	Volume  float64
	Icon    string
	Cells   []Cell
	Style   Style
}

// OwnedBy reports whether the row is an offer made by participant me.
func (r Row) OwnedBy(me snapshot.ParticipantID) bool {
	return r.Kind == RowOrder && r.MakerID == me
}

// Text joins the non-empty cell texts with single spaces.
func (r Row) Text() string {
	parts := make([]string, 0, len(r.Cells))
	for _, c := range r.Cells {
		if s := strings.TrimSpace(c.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Table is one rendered table body.
type Table struct {
	Name   string
	Rows   []Row
	Widths []int
}

// Find returns the index of the row for offer id, or -1.
func (t *Table) Find(id snapshot.OfferID) int {
	for i := range t.Rows {
		if t.Rows[i].Kind == RowOrder && t.Rows[i].OfferID == id {
			return i
		}
	}
	return -1
}

func (t Table) clone() Table {
	out := Table{Name: t.Name}
	if t.Widths != nil {
		out.Widths = append([]int(nil), t.Widths...)
	}
	if t.Rows != nil {
		out.Rows = make([]Row, len(t.Rows))
		for i, r := range t.Rows {
			r.Cells = append([]Cell(nil), r.Cells...)
			out.Rows[i] = r
		}
	}
	return out
}

// Holdings are the numeric fields shown next to the market.
type Holdings struct {
	Cash           string
	Assets         string
	GoodA          string
	GoodB          string
	GoodsUtility   string
	OverallUtility string
}

// View is the whole rendered page state.
type View struct {
	Bids     Table
	Asks     Table
	Trades   Table
	News     Table
	Holdings Holdings
	Chart    chart.Config
	Version  uint64
}

// OrderTables returns the two tables selection operates on.
func (v *View) OrderTables() []*Table {
	return []*Table{&v.Bids, &v.Asks}
}

// FindOffer looks the offer up in the bids, then the asks.
func (v *View) FindOffer(id snapshot.OfferID) (Row, bool) {
	for _, t := range v.OrderTables() {
		if i := t.Find(id); i >= 0 {
			return t.Rows[i], true
		}
	}
	return Row{}, false
}

// SelectedRow returns the row currently styled as selected, if any.
func (v *View) SelectedRow() (Row, bool) {
	for _, t := range v.OrderTables() {
		for _, r := range t.Rows {
			if r.Style.Selected() {
				return r, true
			}
		}
	}
	return Row{}, false
}

// Clone deep-copies the tables so the copy can be restyled without touching
// a published view.
func (v *View) Clone() *View {
	out := *v
	out.Bids = v.Bids.clone()
	out.Asks = v.Asks.clone()
	out.Trades = v.Trades.clone()
	out.News = v.News.clone()
	return &out
}

// NormalizeWidths gives the tables a shared set of column widths so bid and
// ask columns line up.
func NormalizeWidths(tables ...*Table) {
	var widths []int
	for _, t := range tables {
		for _, r := range t.Rows {
			for i, c := range r.Cells {
				for len(widths) <= i {
					widths = append(widths, 0)
				}
				if w := lipgloss.Width(c.Text); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	for _, t := range tables {
		t.Widths = append([]int(nil), widths...)
	}
}
