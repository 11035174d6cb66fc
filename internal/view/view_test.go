package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowText(t *testing.T) {
	r := Row{Cells: []Cell{{Text: "Bought "}, {Text: " 2 assets for "}, {Text: ""}, {Text: "EUR 10"}}}
	assert.Equal(t, "Bought 2 assets for EUR 10", r.Text())
}

func TestFindOffer(t *testing.T) {
	v := &View{
		Bids: Table{Rows: []Row{{Kind: RowOrder, OfferID: "1"}}},
		Asks: Table{Rows: []Row{{Kind: RowOrder, OfferID: "2", MakerID: "7"}}},
	}
	r, ok := v.FindOffer("2")
	require.True(t, ok)
	assert.Equal(t, "7", string(r.MakerID))
	_, ok = v.FindOffer("3")
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	v := &View{Bids: Table{Rows: []Row{{Kind: RowOrder, OfferID: "1", Cells: []Cell{{Text: "a"}}}}}}
	c := v.Clone()
	c.Bids.Rows[0].Style = StyleOwnSelected
	c.Bids.Rows[0].Cells[0].Text = "b"

	assert.Equal(t, StyleNone, v.Bids.Rows[0].Style)
	assert.Equal(t, "a", v.Bids.Rows[0].Cells[0].Text)
}

func TestNormalizeWidthsSharesColumns(t *testing.T) {
	bids := Table{Rows: []Row{{Cells: []Cell{{Text: "10 for "}, {Text: "5"}}}}}
	asks := Table{Rows: []Row{{Cells: []Cell{{Text: "1 for "}, {Text: "12.25"}}}}}
	NormalizeWidths(&bids, &asks)

	assert.Equal(t, []int{7, 5}, bids.Widths)
	assert.Equal(t, bids.Widths, asks.Widths)
}

func TestSelectedRow(t *testing.T) {
	v := &View{Asks: Table{Rows: []Row{
		{Kind: RowOrder, OfferID: "1", Style: StyleSelectable},
		{Kind: RowOrder, OfferID: "2", Style: StyleOwnSelected},
	}}}
	r, ok := v.SelectedRow()
	require.True(t, ok)
	assert.Equal(t, "2", string(r.OfferID))
}
