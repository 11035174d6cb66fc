package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/pctmarket/internal/view"
	"github.com/zappabad/pctmarket/tui/styles"
)

// HoldingsPanel shows cash, assets and the goods market.
type HoldingsPanel struct {
	holdings  view.Holdings
	assetNoun string
	focused   bool
	width     int
	height    int
}

// NewHoldingsPanel creates a holdings panel. assetNoun names the traded asset.
func NewHoldingsPanel(assetNoun string) *HoldingsPanel {
	return &HoldingsPanel{assetNoun: assetNoun}
}

// Init initializes the panel.
func (p *HoldingsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *HoldingsPanel) Update(msg tea.Msg) (*HoldingsPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *HoldingsPanel) View() string {
	var content strings.Builder

	line := func(label, value string, style lipgloss.Style) {
		if value == "" {
			value = "-"
		}
		content.WriteString(styles.LabelStyle.Render(fmt.Sprintf("%-16s", label)))
		content.WriteString(style.Render(value))
		content.WriteString("\n")
	}
	// money in price style, quantities in size style
	line("Cash", p.holdings.Cash, styles.PriceStyle)
	line(capitalise(p.assetNoun), p.holdings.Assets, styles.SizeStyle)
	line("Good A", p.holdings.GoodA, styles.SizeStyle)
	line("Good B", p.holdings.GoodB, styles.SizeStyle)
	line("Goods utility", p.holdings.GoodsUtility, styles.PriceStyle)
	line("Overall utility", p.holdings.OverallUtility, styles.PriceStyle)

	content.WriteString("\n")
	content.WriteString(styles.StatusBarKeyStyle.Render("A") + styles.StatusBarDescStyle.Render(" buy Good A  "))
	content.WriteString(styles.StatusBarKeyStyle.Render("B") + styles.StatusBarDescStyle.Render(" buy Good B"))

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("💼 Holdings", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *HoldingsPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *HoldingsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetHoldings sets the displayed values.
func (p *HoldingsPanel) SetHoldings(h view.Holdings) {
	p.holdings = h
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
