package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/pctmarket/internal/operation"
	"github.com/zappabad/pctmarket/internal/order"
	"github.com/zappabad/pctmarket/internal/view"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeSender) Send(_ context.Context, op operation.Operation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	b, err := operation.Encode(op)
	if err != nil {
		return err
	}
	f.sent = append(f.sent, string(b))
	return nil
}

func (f *fakeSender) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func waitUpdate(t *testing.T, s *Session) *view.View {
	t.Helper()
	select {
	case v := <-s.Updates():
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("no update published")
		return nil
	}
}

const book = `{"bids": [[10, 2, "o1", "m2"]], "asks": [[12, 1, "o2", "m1"]], "cashHolding": 50}`

func TestPushRendersAndPublishes(t *testing.T) {
	s := New(DefaultConfig(), "m1", &fakeSender{}, nil, nil)
	defer s.Close()

	require.True(t, s.Push([]byte(book)))
	v := waitUpdate(t, s)

	require.Len(t, v.Bids.Rows, 1)
	assert.Equal(t, "offerIDo1", v.Bids.Rows[0].ID)
	assert.Equal(t, "50", v.Holdings.Cash)
	assert.Same(t, v, s.View())
	assert.NotEmpty(t, s.ID())
}

func TestBadFramesAreDropped(t *testing.T) {
	s := New(DefaultConfig(), "m1", &fakeSender{}, nil, nil)
	defer s.Close()

	s.Push([]byte(`{"bids": "nope"}`))
	s.Push([]byte(`null`))
	s.Push([]byte(book))

	v := waitUpdate(t, s)
	assert.Len(t, v.Bids.Rows, 1)

	acts := s.Activity(10)
	require.Len(t, acts, 1)
	assert.Equal(t, ActivityDropped, acts[0].Kind)
}

func TestSelectAndAccept(t *testing.T) {
	sender := &fakeSender{}
	s := New(DefaultConfig(), "m1", sender, nil, nil)
	defer s.Close()

	s.Push([]byte(book))
	waitUpdate(t, s)

	v := s.Select("o1")
	assert.Equal(t, view.StyleForeignSelected, v.Bids.Rows[0].Style)
	assert.Equal(t, view.StyleOwn, v.Asks.Rows[0].Style)
	waitUpdate(t, s)

	require.NoError(t, s.Accept(context.Background(), false, "2"))
	msgs := sender.messages()
	require.Len(t, msgs, 1)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(msgs[0]), &m))
	assert.Equal(t, "market_order", m["operationType"])
	assert.Equal(t, "o1", m["offerID"])
	assert.Equal(t, "2", m["transactionVolume"])

	cleared := waitUpdate(t, s)
	_, ok := cleared.SelectedRow()
	assert.False(t, ok)

	acts := s.Activity(10)
	require.Len(t, acts, 1)
	assert.Equal(t, ActivitySent, acts[0].Kind)
}

func TestAcceptWithoutSelectionIsNoop(t *testing.T) {
	sender := &fakeSender{}
	s := New(DefaultConfig(), "m1", sender, nil, nil)
	defer s.Close()

	assert.NoError(t, s.Accept(context.Background(), true, ""))
	assert.Empty(t, sender.messages())
	assert.Empty(t, s.Activity(10))
}

func TestAcceptOwnOfferIsRejected(t *testing.T) {
	sender := &fakeSender{}
	s := New(DefaultConfig(), "m1", sender, nil, nil)
	defer s.Close()

	s.Push([]byte(book))
	waitUpdate(t, s)
	s.Select("o2")

	err := s.Accept(context.Background(), true, "")
	assert.ErrorIs(t, err, order.ErrOwnOffer)
	assert.Empty(t, sender.messages())

	acts := s.Activity(10)
	require.Len(t, acts, 1)
	assert.Equal(t, ActivityRejected, acts[0].Kind)
	assert.Equal(t, "accept bid", acts[0].Action)
}

func TestSendFailureIsRecorded(t *testing.T) {
	sender := &fakeSender{err: errors.New("not connected")}
	s := New(DefaultConfig(), "m1", sender, nil, nil)
	defer s.Close()

	err := s.BuyGood(context.Background(), "A")
	assert.ErrorIs(t, err, sender.err)
	acts := s.Activity(1)
	require.Len(t, acts, 1)
	assert.Equal(t, ActivityRejected, acts[0].Kind)
	assert.Contains(t, acts[0].Err, "not connected")
}

func TestOfferAndCancel(t *testing.T) {
	sender := &fakeSender{}
	s := New(DefaultConfig(), "m1", sender, nil, nil)
	defer s.Close()

	require.NoError(t, s.Offer(context.Background(), false, order.OfferInput{Price: "12", Volume: "1"}))
	s.Push([]byte(book))
	waitUpdate(t, s)
	s.Select("o2")
	require.NoError(t, s.Cancel(context.Background()))

	msgs := sender.messages()
	require.Len(t, msgs, 2)
	assert.JSONEq(t, `{"operationType":"limit_order","isBid":0,"limitPrice":"12","limitVolume":"1"}`, msgs[0])
	assert.JSONEq(t, `{"operationType":"cancel_limit","offerID":"o2","makerID":"m1"}`, msgs[1])

	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestConsumeStopsWhenSourceCloses(t *testing.T) {
	s := New(DefaultConfig(), "m1", &fakeSender{}, nil, nil)
	defer s.Close()

	src := make(chan []byte, 1)
	src <- []byte(book)
	close(src)

	done := make(chan struct{})
	go func() {
		s.Consume(context.Background(), src)
		close(done)
	}()

	waitUpdate(t, s)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Consume did not return")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := New(DefaultConfig(), "m1", &fakeSender{}, nil, nil)
	s.Close()
	s.Close()

	assert.False(t, s.Push([]byte(book)))
	s.Select("o1")
	_, open := <-s.Updates()
	assert.False(t, open)
}

func TestUpdatesNeverGoBackwards(t *testing.T) {
	s := New(DefaultConfig(), "m1", &fakeSender{}, nil, nil)
	defer s.Close()

	// a restyle can reach publish before the render it was based on
	s.publish(&view.View{Version: 3})
	s.publish(&view.View{Version: 2})
	s.publish(&view.View{Version: 3})
	s.publish(&view.View{Version: 4})

	assert.Equal(t, uint64(3), waitUpdate(t, s).Version)
	assert.Equal(t, uint64(4), waitUpdate(t, s).Version)
	select {
	case v := <-s.Updates():
		t.Fatalf("unexpected view version %d", v.Version)
	case <-time.After(50 * time.Millisecond):
	}
}
