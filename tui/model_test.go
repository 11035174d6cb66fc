package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/pctmarket/internal/operation"
	"github.com/zappabad/pctmarket/internal/session"
	"github.com/zappabad/pctmarket/tui/panels"
)

type recorder struct {
	sent []operation.Operation
}

func (r *recorder) Send(_ context.Context, op operation.Operation) error {
	r.sent = append(r.sent, op)
	return nil
}

func newModel(t *testing.T) (*Model, *session.Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	cfg := session.DefaultConfig()
	cfg.DropUpdates = true
	sess := session.New(cfg, "m1", rec, nil, nil)
	t.Cleanup(sess.Close)

	require.True(t, sess.Push([]byte(`{
		"bids": [[10, 2, "o1", "m2"]],
		"asks": [[12, 1, "o2", "m3"]],
		"cashHolding": 100,
		"news": [["Round started"]]
	}`)))
	v := <-sess.Updates()

	m := NewModel(sess, "assets")
	m.Update(viewMsg{view: v})
	m.Update(tea.WindowSizeMsg{Width: 150, Height: 45})
	m.View()
	return m, sess, rec
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press delivers a key and runs the resulting commands until they settle.
func press(m *Model, k tea.KeyMsg) {
	_, cmd := m.Update(k)
	drain(m, cmd)
}

func drain(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			drain(m, c)
		}
	case viewMsg:
		m.applyView(msg.view)
	default:
		_, next := m.Update(msg)
		drain(m, next)
	}
}

func TestViewShowsOffers(t *testing.T) {
	m, _, _ := newModel(t)
	out := m.View()
	assert.Contains(t, out, "2 for 10")
	assert.Contains(t, out, "1 for 12")
	assert.Contains(t, out, "Round started")
	assert.Contains(t, out, "100")
}

func TestEnterSelectsThenBuyAccepts(t *testing.T) {
	m, sess, rec := newModel(t)

	press(m, keyMsg("down"))
	press(m, keyMsg("enter"))

	id, ok := sess.Selected()
	require.True(t, ok)
	assert.Equal(t, "o2", string(id))

	press(m, keyMsg("b"))
	require.Len(t, rec.sent, 1)
	mo, ok := rec.sent[0].(operation.MarketOrder)
	require.True(t, ok)
	assert.Equal(t, "o2", string(mo.OfferID))
	assert.True(t, mo.IsBid.IsBid())
	assert.Equal(t, 12.0, mo.TransactionPrice)
	assert.Equal(t, "1", mo.TransactionVolume)
	assert.True(t, strings.HasPrefix(m.statusMsg, "✓"))
}

func TestBuyGoodKeys(t *testing.T) {
	m, _, rec := newModel(t)

	press(m, keyMsg("B"))
	require.Len(t, rec.sent, 1)
	assert.Equal(t, operation.BuyGood{Good: "B", Quantity: 1}, rec.sent[0])
}

func TestCancelForeignOfferShowsError(t *testing.T) {
	m, _, rec := newModel(t)

	press(m, keyMsg("enter"))
	press(m, keyMsg("c"))

	assert.Empty(t, rec.sent)
	assert.True(t, strings.HasPrefix(m.statusMsg, "❌"))
}

func TestTypingDoesNotTriggerShortcuts(t *testing.T) {
	m, _, rec := newModel(t)
	m.focusedPanel = FocusOrderInput
	m.orderInputPanel.SetFocus(true)

	// Side -> Type -> Price
	press(m, keyMsg("down"))
	press(m, keyMsg("down"))
	require.True(t, m.orderInputPanel.Editing())

	press(m, keyMsg("b"))
	assert.Empty(t, rec.sent)
}

func TestOfferFormSubmits(t *testing.T) {
	m, _, rec := newModel(t)
	m.focusedPanel = FocusOrderInput

	_, cmd := m.Update(panels.OfferSubmitMsg{IsBid: false, Price: "11", Volume: ""})
	drain(m, cmd)

	require.Len(t, rec.sent, 1)
	assert.Equal(t, operation.LimitOrder{IsBid: operation.Ask, LimitPrice: "11", LimitVolume: "1"}, rec.sent[0])
}

func TestFocusCycles(t *testing.T) {
	m, _, _ := newModel(t)
	for i := 0; i < panelCount; i++ {
		press(m, keyMsg("tab"))
	}
	assert.Equal(t, FocusOrderbook, m.focusedPanel)
}

func TestOlderViewIsIgnored(t *testing.T) {
	m, sess, _ := newModel(t)

	current := sess.Select("o1")
	m.Update(viewMsg{view: current})

	stale := current.Clone()
	stale.Version = current.Version - 1
	stale.Bids.Rows = nil
	m.Update(viewMsg{view: stale})

	assert.Equal(t, current.Version, m.version)
	assert.Contains(t, m.View(), "2 for 10")
}
