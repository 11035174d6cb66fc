package panels

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/pctmarket/internal/view"
	"github.com/zappabad/pctmarket/tui/styles"
)

// NewsPanel displays the alerts table.
type NewsPanel struct {
	rows         []view.Row
	scrollOffset int
	focused      bool
	width        int
	height       int
}

// NewNewsPanel creates a new news panel.
func NewNewsPanel() *NewsPanel {
	return &NewsPanel{}
}

// Init initializes the panel.
func (p *NewsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *NewsPanel) Update(msg tea.Msg) (*NewsPanel, tea.Cmd) {
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
			if p.scrollOffset < len(p.rows)-1 {
				p.scrollOffset++
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *NewsPanel) View() string {
	var content strings.Builder

	visible := p.height - 4
	if visible < 1 {
		visible = 1
	}
	end := p.scrollOffset + visible
	if end > len(p.rows) {
		end = len(p.rows)
	}
	for i := p.scrollOffset; i < end; i++ {
		text := p.rows[i].Text()
		if limit := p.width - 6; limit > 3 && lipgloss.Width(text) > limit {
			if r := []rune(text); len(r) > limit-3 {
				text = string(r[:limit-3]) + "..."
			}
		}
		content.WriteString(styles.NewsNormalStyle.Render(text))
		if i < end-1 {
			content.WriteString("\n")
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📰 Alerts", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *NewsPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *NewsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetTable sets the alert rows.
func (p *NewsPanel) SetTable(t view.Table) {
	p.rows = t.Rows
	if p.scrollOffset >= len(p.rows) {
		p.scrollOffset = 0
	}
}
