package panels

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/pctmarket/internal/chart"
	"github.com/zappabad/pctmarket/internal/format"
	"github.com/zappabad/pctmarket/internal/snapshot"
	"github.com/zappabad/pctmarket/tui/styles"
)

// ChartPanel plots the trade-history series as a scatter of price over
// time. It implements chart.Drawer.
type ChartPanel struct {
	cfg     chart.Config
	focused bool
	width   int
	height  int
}

// NewChartPanel creates a new chart panel.
func NewChartPanel() *ChartPanel {
	return &ChartPanel{}
}

// Draw replaces the chart configuration.
func (p *ChartPanel) Draw(cfg chart.Config) {
	p.cfg = cfg
}

// Init initializes the panel.
func (p *ChartPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *ChartPanel) Update(msg tea.Msg) (*ChartPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *ChartPanel) View() string {
	var content strings.Builder

	if p.cfg.Subtitle.Text != "" {
		content.WriteString(styles.ChartLabelStyle.Render(p.cfg.Subtitle.Text))
		content.WriteString("\n")
	}

	plotWidth := p.width - 16
	plotHeight := p.height - 8
	if plotWidth < 10 {
		plotWidth = 10
	}
	if plotHeight < 5 {
		plotHeight = 5
	}

	if !p.hasPoints() {
		content.WriteString(styles.PlaceholderStyle.Render("No trades this round yet..."))
	} else {
		content.WriteString(p.renderLast())
		content.WriteString("\n")
		content.WriteString(p.renderPlot(plotWidth, plotHeight))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	name := p.cfg.Title.Text
	if name == "" {
		name = "Chart"
	}
	title := styles.RenderTitle("📉 "+name, p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *ChartPanel) hasPoints() bool {
	for _, s := range p.cfg.Series {
		if len(s.Data) > 0 {
			return true
		}
	}
	return false
}

// renderPlot maps every point onto a width x height grid. The x range comes
// from the configured axis when set, the y range from the data.
func (p *ChartPanel) renderPlot(width, height int) string {
	minX, maxX, minY, maxY := p.bounds()

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	for _, s := range p.cfg.Series {
		for _, pt := range s.Data {
			col := scale(pt.X, minX, maxX, width)
			row := height - 1 - scale(pt.Y, minY, maxY, height)
			grid[row][col] = '●'
		}
	}

	var out strings.Builder
	for row := 0; row < height; row++ {
		label := ""
		switch row {
		case 0:
			label = format.DefaultCurrency.Format(maxY)
		case height - 1:
			label = format.DefaultCurrency.Format(minY)
		}
		out.WriteString(styles.ChartAxisStyle.Render(fmt.Sprintf("%8s │", label)))
		out.WriteString(styles.ChartPointStyle.Render(string(grid[row])))
		out.WriteString("\n")
	}
	out.WriteString(styles.ChartAxisStyle.Render("─────────┴" + strings.Repeat("─", width)))
	out.WriteString("\n")

	left := format.DefaultCurrency.Format(minX)
	right := format.DefaultCurrency.Format(maxX)
	gap := width - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	out.WriteString(styles.TimeStyle.Render("          " + left + strings.Repeat(" ", gap) + right))
	if t := p.cfg.XAxis.Title.Text; t != "" {
		out.WriteString("\n")
		out.WriteString(styles.TimeStyle.Render("          " + t))
	}
	return out.String()
}

// LastMove returns the latest trade price and its change against the trade
// before it. ok is false when there are no points.
func (p *ChartPanel) LastMove() (last, change float64, ok bool) {
	var pts []snapshot.Point
	for _, s := range p.cfg.Series {
		pts = append(pts, s.Data...)
	}
	if len(pts) == 0 {
		return 0, 0, false
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
	last = pts[len(pts)-1].Y
	if len(pts) > 1 {
		change = last - pts[len(pts)-2].Y
	}
	return last, change, true
}

func (p *ChartPanel) renderLast() string {
	last, change, _ := p.LastMove()
	text := "Last " + format.DefaultCurrency.Format(last)
	switch {
	case change > 0:
		return styles.PriceUpStyle.Render(text + " ▲ " + format.DefaultCurrency.Format(change))
	case change < 0:
		return styles.PriceDownStyle.Render(text + " ▼ " + format.DefaultCurrency.Format(-change))
	default:
		return styles.PriceStyle.Render(text)
	}
}

func (p *ChartPanel) bounds() (minX, maxX, minY, maxY float64) {
	first := true
	for _, s := range p.cfg.Series {
		for _, pt := range s.Data {
			if first {
				minX, maxX, minY, maxY = pt.X, pt.X, pt.Y, pt.Y
				first = false
				continue
			}
			minX, maxX = min(minX, pt.X), max(maxX, pt.X)
			minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
		}
	}
	if p.cfg.XAxis.Min != nil {
		minX = min(minX, *p.cfg.XAxis.Min)
	}
	if p.cfg.XAxis.Max != nil && *p.cfg.XAxis.Max > 0 {
		maxX = max(maxX, *p.cfg.XAxis.Max)
	}
	// pad the price range so single-price rounds still plot mid-height
	pad := (maxY - minY) * 0.1
	if pad == 0 {
		pad = 1
	}
	return minX, maxX, minY - pad, maxY + pad
}

func scale(v, lo, hi float64, cells int) int {
	if hi <= lo || cells <= 1 {
		return 0
	}
	i := int((v - lo) / (hi - lo) * float64(cells-1))
	if i < 0 {
		return 0
	}
	if i >= cells {
		return cells - 1
	}
	return i
}

// SetFocus sets the focus state of the panel.
func (p *ChartPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *ChartPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
