package order

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/pctmarket/internal/operation"
	"github.com/zappabad/pctmarket/internal/render"
	"github.com/zappabad/pctmarket/internal/snapshot"
	"github.com/zappabad/pctmarket/internal/view"
)

type recorder struct {
	sent [][]byte
	err  error
}

func (r *recorder) Send(_ context.Context, op operation.Operation) error {
	if r.err != nil {
		return r.err
	}
	b, err := operation.Encode(op)
	if err != nil {
		return err
	}
	r.sent = append(r.sent, b)
	return nil
}

func (r *recorder) last(t *testing.T) map[string]any {
	t.Helper()
	require.NotEmpty(t, r.sent)
	m := map[string]any{}
	require.NoError(t, json.Unmarshal(r.sent[len(r.sent)-1], &m))
	return m
}

const book = `{
	"bids": [[10, 2, "o1", "m2"], [9, 1, "o2", "m1"]],
	"asks": [[12, 3, "o3", "m3"]]
}`

func setup(t *testing.T) (*Handlers, *recorder, *render.RenderContext, *render.Renderer) {
	t.Helper()
	snap, err := snapshot.Decode([]byte(book))
	require.NoError(t, err)

	r := render.NewRenderer(render.DefaultConfig(), nil)
	rc := render.NewRenderContext("m1")
	r.Render(rc, snap)

	rec := &recorder{}
	return NewHandlers(rec, r, rc, nil), rec, rc, r
}

func TestBuyGoodSendsOneUnit(t *testing.T) {
	h, rec, _, _ := setup(t)

	require.NoError(t, h.BuyGood(context.Background(), "B"))

	require.Len(t, rec.sent, 1)
	assert.JSONEq(t, `{"operationType":"buy_good","good":"B","quantity":1}`, string(rec.sent[0]))
	assert.Equal(t, GoodsTrade{Good: "B", Qty: 1}, h.LastGoodsTrade())
}

func TestSendOfferForwardsInput(t *testing.T) {
	h, rec, _, _ := setup(t)

	require.NoError(t, h.SendOffer(context.Background(), true, OfferInput{Price: "10.5", Volume: ""}))
	assert.JSONEq(t, `{"operationType":"limit_order","isBid":1,"limitPrice":"10.5","limitVolume":"1"}`, string(rec.sent[0]))

	require.NoError(t, h.SendOffer(context.Background(), false, OfferInput{Price: "abc", Volume: "-3"}))
	assert.JSONEq(t, `{"operationType":"limit_order","isBid":0,"limitPrice":"abc","limitVolume":"-3"}`, string(rec.sent[1]))
}

func TestSendAccWithoutSelectionIsSilent(t *testing.T) {
	h, rec, _, _ := setup(t)

	err := h.SendAcc(context.Background(), false, "")
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.True(t, IsSilent(err))
	assert.Empty(t, rec.sent)
}

func TestSendAccStaleSelection(t *testing.T) {
	h, rec, rc, _ := setup(t)
	rc.Selection.Select("gone")

	assert.ErrorIs(t, h.SendAcc(context.Background(), false, "2"), ErrNoSelection)
	assert.Empty(t, rec.sent)
}

func TestSendAccForeignOffer(t *testing.T) {
	h, rec, rc, r := setup(t)
	rc.Selection.Select("o1")
	r.Restyle(rc)

	require.NoError(t, h.SendAcc(context.Background(), false, ""))

	m := rec.last(t)
	assert.Equal(t, "market_order", m["operationType"])
	assert.Equal(t, "o1", m["offerID"])
	assert.EqualValues(t, 0, m["isBid"])
	assert.EqualValues(t, 10, m["transactionPrice"])
	assert.Equal(t, "1", m["transactionVolume"])

	for _, tbl := range rc.Current.OrderTables() {
		for _, row := range tbl.Rows {
			assert.Equal(t, view.StyleNone, row.Style, row.ID)
		}
	}
	id, ok := rc.Selection.Selected()
	assert.True(t, ok)
	assert.Equal(t, snapshot.OfferID("o1"), id)
}

func TestSendAccOwnOffer(t *testing.T) {
	h, rec, rc, _ := setup(t)
	rc.Selection.Select("o2")

	assert.ErrorIs(t, h.SendAcc(context.Background(), false, ""), ErrOwnOffer)
	assert.Empty(t, rec.sent)
}

func TestSendAccClearsStylesOnSendError(t *testing.T) {
	h, rec, rc, r := setup(t)
	rec.err = errors.New("socket closed")
	rc.Selection.Select("o3")
	r.Restyle(rc)

	err := h.SendAcc(context.Background(), true, "3")
	assert.ErrorIs(t, err, rec.err)
	_, ok := rc.Current.SelectedRow()
	assert.False(t, ok)
}

func TestCancelOffer(t *testing.T) {
	h, rec, rc, _ := setup(t)

	rc.Selection.Select("o1")
	assert.ErrorIs(t, h.CancelOffer(context.Background()), ErrNotOwnOffer)
	assert.Empty(t, rec.sent)

	rc.Selection.Select("o2")
	require.NoError(t, h.CancelOffer(context.Background()))
	assert.JSONEq(t, `{"operationType":"cancel_limit","offerID":"o2","makerID":"m1"}`, string(rec.sent[0]))

	_, ok := rc.Selection.Selected()
	assert.False(t, ok)
}
