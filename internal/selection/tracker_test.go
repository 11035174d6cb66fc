package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zappabad/pctmarket/internal/snapshot"
	"github.com/zappabad/pctmarket/internal/view"
)

const me snapshot.ParticipantID = "3"

func tables() (*view.Table, *view.Table) {
	bids := &view.Table{Rows: []view.Row{
		{Kind: view.RowOrder, OfferID: "10", MakerID: "1"},
		{Kind: view.RowOrder, OfferID: "11", MakerID: me},
	}}
	asks := &view.Table{Rows: []view.Row{
		{Kind: view.RowOrder, OfferID: "20", MakerID: "2"},
	}}
	return bids, asks
}

func styles(ts ...*view.Table) []view.Style {
	var out []view.Style
	for _, t := range ts {
		for _, r := range t.Rows {
			out = append(out, r.Style)
		}
	}
	return out
}

func TestApplyWithoutSelection(t *testing.T) {
	var tr Tracker
	bids, asks := tables()
	tr.Apply(me, bids, asks)

	assert.Equal(t, []view.Style{view.StyleSelectable, view.StyleOwn, view.StyleSelectable}, styles(bids, asks))
}

func TestApplyForeignSelection(t *testing.T) {
	var tr Tracker
	tr.Select("20")
	bids, asks := tables()
	tr.Apply(me, bids, asks)

	assert.Equal(t, []view.Style{view.StyleSelectable, view.StyleOwn, view.StyleForeignSelected}, styles(bids, asks))
}

func TestApplyOwnSelectionNeverForeignStyle(t *testing.T) {
	var tr Tracker
	tr.Select("11")
	bids, asks := tables()
	tr.Apply(me, bids, asks)

	assert.Equal(t, view.StyleOwnSelected, bids.Rows[1].Style)
	for _, s := range styles(bids, asks) {
		assert.NotEqual(t, view.StyleForeignSelected, s)
	}
}

func TestApplyStaleSelectionIsSticky(t *testing.T) {
	var tr Tracker
	tr.Select("99")
	bids, asks := tables()

	assert.NotPanics(t, func() { tr.Apply(me, bids, asks) })
	for _, s := range styles(bids, asks) {
		assert.False(t, s.Selected(), "no row may look selected")
	}

	id, ok := tr.Selected()
	assert.True(t, ok)
	assert.Equal(t, snapshot.OfferID("99"), id)

	// The offer comes back: it is selected again.
	asks.Rows = append(asks.Rows, view.Row{Kind: view.RowOrder, OfferID: "99", MakerID: "4"})
	tr.Apply(me, bids, asks)
	assert.Equal(t, view.StyleForeignSelected, asks.Rows[1].Style)
}

func TestApplySkipsNonOrderRows(t *testing.T) {
	var tr Tracker
	trades := &view.Table{Rows: []view.Row{{Kind: view.RowTrade}}}
	tr.Apply(me, trades)
	assert.Equal(t, view.StyleNone, trades.Rows[0].Style)
}

func TestClearStyles(t *testing.T) {
	var tr Tracker
	tr.Select("10")
	bids, asks := tables()
	tr.Apply(me, bids, asks)
	ClearStyles(bids, asks)

	assert.Equal(t, []view.Style{view.StyleNone, view.StyleNone, view.StyleNone}, styles(bids, asks))
	_, ok := tr.Selected()
	assert.True(t, ok, "clearing styles keeps the remembered id")
}

func TestClear(t *testing.T) {
	var tr Tracker
	tr.Select("10")
	tr.Clear()
	_, ok := tr.Selected()
	assert.False(t, ok)
}
