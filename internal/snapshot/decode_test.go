package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeExampleFrame(t *testing.T) {
	frame := []byte(`{
		"bids": [[10, 2, "o1", "m2"]],
		"asks": [],
		"trades": [[10, 2, 0, 1]],
		"cashHolding": 100,
		"assetsHolding": 5,
		"news": [["Round started"]]
	}`)

	snap, err := Decode(frame)
	require.NoError(t, err)
	require.NotNil(t, snap)

	require.Len(t, snap.Bids, 1)
	assert.Equal(t, OrderRow{Price: 10, Volume: 2, OfferID: "o1", MakerID: "m2"}, snap.Bids[0])
	assert.Empty(t, snap.Asks)
	require.Len(t, snap.Trades, 1)
	assert.Equal(t, TradeRow{Price: 10, Volume: 2, Time: 0, SellerID: "1"}, snap.Trades[0])
	require.NotNil(t, snap.CashHolding)
	assert.Equal(t, 100.0, *snap.CashHolding)
	require.Len(t, snap.News, 1)
	assert.Equal(t, "Round started", snap.News[0].Message)
	assert.Nil(t, snap.GoodAQty)
	assert.False(t, snap.HasGoodsTrade())
}

func TestDecodeBackendFrame(t *testing.T) {
	// Shape produced by the experiment backend after a goods purchase.
	frame := []byte(`{
		"bids": [[12.5, 3, 7, 2], [11, 1, 4, 5]],
		"asks": [[13, 1, 9, 5]],
		"trades": [[12, 1, 31.2, 5]],
		"cashHolding": 41.5,
		"assetsHolding": 9,
		"goodA_qty": 1,
		"goodB_qty": 0,
		"goods_utility": 12,
		"overall_utility": 53.5,
		"highcharts_series": [{"name": "Trades", "data": [{"x": 31.2, "y": 12, "name": "Trades"}]}],
		"news": [["Cannot proceed: insufficient funds or assets.", 40.1, 2], ["older", 10.0, 2]],
		"goods_trade_good": "A",
		"goods_trade_qty": 1,
		"goods_trade_price": 3
	}`)

	snap, err := Decode(frame)
	require.NoError(t, err)

	assert.Equal(t, OfferID("7"), snap.Bids[0].OfferID)
	assert.Equal(t, ParticipantID("2"), snap.Bids[0].MakerID)
	assert.Equal(t, ParticipantID("5"), snap.Trades[0].SellerID)
	assert.Equal(t, ParticipantID("2"), snap.News[0].PlayerID)
	require.Len(t, snap.Series, 1)
	assert.Equal(t, []Point{{X: 31.2, Y: 12, Name: "Trades"}}, snap.Series[0].Data)
	assert.True(t, snap.HasGoodsTrade())
	assert.Equal(t, "A", snap.GoodsTradeGood)
}

func TestDecodeNullFrame(t *testing.T) {
	for _, frame := range []string{"", "null", "  null \n"} {
		snap, err := Decode([]byte(frame))
		assert.NoError(t, err)
		assert.Nil(t, snap)
	}
}

func TestDecodeRejectsShortOrderRow(t *testing.T) {
	_, err := Decode([]byte(`{"bids": [[10, 2]]}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShortTuple)
}

func TestDecodeRejectsNullOfferID(t *testing.T) {
	_, err := Decode([]byte(`{"asks": [[10, 2, null, 1]]}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadID)
}

func TestPointAcceptsTuple(t *testing.T) {
	snap, err := Decode([]byte(`{"highcharts_series": [{"name": "Bids", "data": [[1, 9.5], [2, 10]]}]}`))
	require.NoError(t, err)
	assert.Equal(t, []Point{{X: 1, Y: 9.5}, {X: 2, Y: 10}}, snap.Series[0].Data)
}
