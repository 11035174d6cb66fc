package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/pctmarket/internal/order"
	"github.com/zappabad/pctmarket/internal/session"
	"github.com/zappabad/pctmarket/internal/snapshot"
	"github.com/zappabad/pctmarket/internal/view"
	"github.com/zappabad/pctmarket/tui/panels"
	"github.com/zappabad/pctmarket/tui/styles"
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusOrderbook  PanelFocus = 0
	FocusTrades     PanelFocus = 1
	FocusNews       PanelFocus = 2
	FocusChart      PanelFocus = 3
	FocusOrderInput PanelFocus = 4

	panelCount = 5
)

// actionTimeout bounds a single outbound action.
const actionTimeout = 5 * time.Second

// Market is the participant session the terminal drives.
type Market interface {
	View() *view.View
	Updates() <-chan *view.View
	Select(id snapshot.OfferID) *view.View
	Offer(ctx context.Context, isBid bool, in order.OfferInput) error
	Accept(ctx context.Context, isBid bool, volume string) error
	Cancel(ctx context.Context) error
	BuyGood(ctx context.Context, good string) error
	Activity(n int) []session.Activity
}

// Model is the main TUI application model.
type Model struct {
	market Market

	// Panels
	orderbookPanel  *panels.OrderbookPanel
	tradesPanel     *panels.TradesPanel
	newsPanel       *panels.NewsPanel
	holdingsPanel   *panels.HoldingsPanel
	chartPanel      *panels.ChartPanel
	orderInputPanel *panels.OrderInputPanel

	// Focus management
	focusedPanel PanelFocus

	// Window dimensions
	width  int
	height int

	// version of the view on screen
	version uint64

	// Status
	statusMsg string
	ready     bool
}

// NewModel creates a new TUI model. assetNoun names the traded asset.
func NewModel(market Market, assetNoun string) *Model {
	m := &Model{
		market:          market,
		orderbookPanel:  panels.NewOrderbookPanel(),
		tradesPanel:     panels.NewTradesPanel(),
		newsPanel:       panels.NewNewsPanel(),
		holdingsPanel:   panels.NewHoldingsPanel(assetNoun),
		chartPanel:      panels.NewChartPanel(),
		orderInputPanel: panels.NewOrderInputPanel(),
		focusedPanel:    FocusOrderbook,
	}
	if v := market.View(); v != nil {
		m.applyView(v)
	}
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.orderbookPanel.Init(),
		m.tradesPanel.Init(),
		m.newsPanel.Init(),
		m.holdingsPanel.Init(),
		m.chartPanel.Init(),
		m.orderInputPanel.Init(),
		m.listenUpdates(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
			return m, tea.Quit
		}
		if key.Matches(msg, key.NewBinding(key.WithKeys("tab"))) {
			m.cycleFocus(1)
			return m, nil
		}
		if key.Matches(msg, key.NewBinding(key.WithKeys("shift+tab"))) {
			m.cycleFocus(-1)
			return m, nil
		}
		// letters belong to the text field being edited
		if !m.orderInputPanel.Editing() {
			switch {
			case key.Matches(msg, key.NewBinding(key.WithKeys("q"))):
				return m, tea.Quit
			case key.Matches(msg, key.NewBinding(key.WithKeys("b"))):
				return m, m.accept(true, "")
			case key.Matches(msg, key.NewBinding(key.WithKeys("s"))):
				return m, m.accept(false, "")
			case key.Matches(msg, key.NewBinding(key.WithKeys("c"))):
				return m, m.cancel()
			case key.Matches(msg, key.NewBinding(key.WithKeys("A"))):
				return m, m.buyGood("A")
			case key.Matches(msg, key.NewBinding(key.WithKeys("B"))):
				return m, m.buyGood("B")
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case viewMsg:
		m.applyView(msg.view)
		cmds = append(cmds, m.listenUpdates())

	case panels.SelectOfferMsg:
		m.applyView(m.market.Select(msg.OfferID))

	case panels.OfferSubmitMsg:
		cmds = append(cmds, m.offer(msg))

	case panels.AcceptSubmitMsg:
		cmds = append(cmds, m.accept(msg.IsBid, msg.Volume))

	case actionResultMsg:
		m.statusMsg = msg.message
	}

	m.updateFocusedPanel(msg, &cmds)

	return m, tea.Batch(cmds...)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusOrderbook:
		m.orderbookPanel, cmd = m.orderbookPanel.Update(msg)
	case FocusTrades:
		m.tradesPanel, cmd = m.tradesPanel.Update(msg)
	case FocusNews:
		m.newsPanel, cmd = m.newsPanel.Update(msg)
	case FocusChart:
		m.chartPanel, cmd = m.chartPanel.Update(msg)
	case FocusOrderInput:
		m.orderInputPanel, cmd = m.orderInputPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Connecting..."
	}

	m.orderbookPanel.SetFocus(m.focusedPanel == FocusOrderbook)
	m.tradesPanel.SetFocus(m.focusedPanel == FocusTrades)
	m.newsPanel.SetFocus(m.focusedPanel == FocusNews)
	m.chartPanel.SetFocus(m.focusedPanel == FocusChart)
	m.orderInputPanel.SetFocus(m.focusedPanel == FocusOrderInput)

	// Layout:
	// ┌──────────┬──────────┬──────────┐
	// │  Offers  │  Trades  │  Chart   │
	// ├──────────┼──────────┼──────────┤
	// │ Holdings │  Alerts  │  Entry   │
	// └──────────┴──────────┴──────────┘

	leftWidth := m.width / 3
	middleWidth := m.width / 3
	rightWidth := m.width - leftWidth - middleWidth

	topHeight := (m.height - 3) * 3 / 5
	bottomHeight := m.height - topHeight - 3

	m.orderbookPanel.SetSize(leftWidth, topHeight)
	m.tradesPanel.SetSize(middleWidth, topHeight)
	m.chartPanel.SetSize(rightWidth, topHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.orderbookPanel.View(),
		m.tradesPanel.View(),
		m.chartPanel.View(),
	)

	m.holdingsPanel.SetSize(leftWidth, bottomHeight)
	m.newsPanel.SetSize(middleWidth, bottomHeight)
	m.orderInputPanel.SetSize(rightWidth, bottomHeight)

	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.holdingsPanel.View(),
		m.newsPanel.View(),
		m.orderInputPanel.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow, m.renderStatusBar())
}

func (m *Model) renderStatusBar() string {
	help := []string{
		styles.StatusBarKeyStyle.Render("Tab") + styles.StatusBarDescStyle.Render(" panels"),
		styles.StatusBarKeyStyle.Render("↑↓/Enter") + styles.StatusBarDescStyle.Render(" select"),
		styles.StatusBarKeyStyle.Render("b/s") + styles.StatusBarDescStyle.Render(" buy/sell selected"),
		styles.StatusBarKeyStyle.Render("c") + styles.StatusBarDescStyle.Render(" cancel"),
		styles.StatusBarKeyStyle.Render("q") + styles.StatusBarDescStyle.Render(" quit"),
	}

	helpStr := help[0]
	for _, h := range help[1:] {
		helpStr += " │ " + h
	}

	status := ""
	if m.statusMsg != "" {
		status = " │ " + m.statusMsg
	}

	return styles.StatusBarStyle.Width(m.width).Render(helpStr + status)
}

func (m *Model) cycleFocus(step int) {
	m.focusedPanel = PanelFocus((int(m.focusedPanel) + step + panelCount) % panelCount)
}

func (m *Model) applyView(v *view.View) {
	if v == nil || v.Version < m.version {
		return
	}
	m.version = v.Version
	m.orderbookPanel.SetTables(v.Bids, v.Asks)
	m.tradesPanel.SetTable(v.Trades)
	m.newsPanel.SetTable(v.News)
	m.holdingsPanel.SetHoldings(v.Holdings)
	m.chartPanel.Draw(v.Chart)
}

func (m *Model) offer(msg panels.OfferSubmitMsg) tea.Cmd {
	return m.run("Offer sent", func(ctx context.Context) error {
		return m.market.Offer(ctx, msg.IsBid, order.OfferInput{Price: msg.Price, Volume: msg.Volume})
	})
}

func (m *Model) accept(isBid bool, volume string) tea.Cmd {
	return m.run("Order sent", func(ctx context.Context) error {
		return m.market.Accept(ctx, isBid, volume)
	})
}

func (m *Model) cancel() tea.Cmd {
	return m.run("Cancel sent", func(ctx context.Context) error {
		return m.market.Cancel(ctx)
	})
}

func (m *Model) buyGood(good string) tea.Cmd {
	return m.run("Buy request for Good "+good+" sent", func(ctx context.Context) error {
		return m.market.BuyGood(ctx, good)
	})
}

func (m *Model) run(ok string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			return actionResultMsg{message: "❌ " + err.Error()}
		}
		return actionResultMsg{message: "✓ " + ok}
	}
}

func (m *Model) listenUpdates() tea.Cmd {
	return func() tea.Msg {
		v, ok := <-m.market.Updates()
		if !ok {
			return nil
		}
		return viewMsg{view: v}
	}
}

// viewMsg carries a freshly rendered view.
type viewMsg struct {
	view *view.View
}

// actionResultMsg is sent after an action is processed.
type actionResultMsg struct {
	message string
}
