package panels

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/pctmarket/internal/view"
	"github.com/zappabad/pctmarket/tui/styles"
)

// TradesPanel lists the participant's completed trades, newest goods
// purchase first.
type TradesPanel struct {
	table        view.Table
	scrollOffset int
	focused      bool
	width        int
	height       int
}

// NewTradesPanel creates a new trades panel.
func NewTradesPanel() *TradesPanel {
	return &TradesPanel{}
}

// Init initializes the panel.
func (p *TradesPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *TradesPanel) Update(msg tea.Msg) (*TradesPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.scrollOffset > 0 {
				p.scrollOffset--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.scrollOffset < len(p.table.Rows)-1 {
				p.scrollOffset++
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *TradesPanel) View() string {
	var content strings.Builder

	if len(p.table.Rows) == 0 {
		content.WriteString(styles.NewsEmptyStyle.Render("No trades yet"))
	}

	visible := p.height - 4
	if visible < 1 {
		visible = 1
	}
	end := p.scrollOffset + visible
	if end > len(p.table.Rows) {
		end = len(p.table.Rows)
	}
	for i := p.scrollOffset; i < end; i++ {
		row := p.table.Rows[i]
		switch {
		case row.Kind == view.RowGoodsTrade:
			content.WriteString(styles.GoodsTradeStyle.Render(row.Text()))
		case len(row.Cells) > 0 && row.Cells[0].Text == "Sold":
			content.WriteString(styles.SellStyle.Render(row.Text()))
		default:
			content.WriteString(styles.BuyStyle.Render(row.Text()))
		}
		if i < end-1 {
			content.WriteString("\n")
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("🔁 Your trades", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *TradesPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *TradesPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetTable sets the trade rows.
func (p *TradesPanel) SetTable(t view.Table) {
	p.table = t
	if p.scrollOffset >= len(t.Rows) {
		p.scrollOffset = 0
	}
}
