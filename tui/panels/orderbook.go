package panels

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/pctmarket/internal/snapshot"
	"github.com/zappabad/pctmarket/internal/view"
	"github.com/zappabad/pctmarket/tui/styles"
)

// OrderbookPanel shows the bids and asks. The cursor walks the bids first,
// then the asks; enter selects the offer under it.
type OrderbookPanel struct {
	bids    view.Table
	asks    view.Table
	cursor  int
	focused bool
	width   int
	height  int
}

// NewOrderbookPanel creates a new orderbook panel.
func NewOrderbookPanel() *OrderbookPanel {
	return &OrderbookPanel{}
}

// Init initializes the panel.
func (p *OrderbookPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *OrderbookPanel) Update(msg tea.Msg) (*OrderbookPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.cursor < p.rowCount()-1 {
				p.cursor++
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if row, ok := p.CursorRow(); ok {
				id := row.OfferID
				return p, func() tea.Msg { return SelectOfferMsg{OfferID: id} }
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *OrderbookPanel) View() string {
	var content strings.Builder

	content.WriteString(styles.HeaderStyle.Render("Bids"))
	content.WriteString("\n")
	p.renderTable(&content, p.bids, 0)

	content.WriteString("\n")
	content.WriteString(styles.HeaderStyle.Render("Asks"))
	content.WriteString("\n")
	p.renderTable(&content, p.asks, len(p.bids.Rows))

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📊 Offers", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *OrderbookPanel) renderTable(b *strings.Builder, t view.Table, offset int) {
	if len(t.Rows) == 0 {
		b.WriteString(styles.PlaceholderStyle.Render("  none"))
		b.WriteString("\n")
		return
	}
	for i, row := range t.Rows {
		marker := "  "
		if p.focused && offset+i == p.cursor {
			marker = styles.SelectedRowStyle.Render("> ")
		}
		b.WriteString(marker)
		b.WriteString(styles.OfferRowStyle(row.Style).Render(styles.RenderCells(row.Cells, t.Widths)))
		b.WriteString("\n")
	}
}

// SetFocus sets the focus state of the panel.
func (p *OrderbookPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *OrderbookPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetTables replaces the displayed offers, keeping the cursor in range.
func (p *OrderbookPanel) SetTables(bids, asks view.Table) {
	p.bids = bids
	p.asks = asks
	if n := p.rowCount(); p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// CursorRow returns the offer under the cursor.
func (p *OrderbookPanel) CursorRow() (view.Row, bool) {
	switch {
	case p.cursor < len(p.bids.Rows):
		return p.bids.Rows[p.cursor], true
	case p.cursor-len(p.bids.Rows) < len(p.asks.Rows):
		return p.asks.Rows[p.cursor-len(p.bids.Rows)], true
	default:
		return view.Row{}, false
	}
}

func (p *OrderbookPanel) rowCount() int {
	return len(p.bids.Rows) + len(p.asks.Rows)
}

// SelectOfferMsg is sent when the participant picks an offer.
type SelectOfferMsg struct {
	OfferID snapshot.OfferID
}
