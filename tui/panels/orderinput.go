package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/pctmarket/tui/styles"
)

// OrderInputField represents the currently focused input field.
type OrderInputField int

const (
	FieldSide OrderInputField = iota
	FieldKind
	FieldPrice
	FieldVolume
	FieldSubmit
)

const (
	kindOffer  = 0
	kindAccept = 1
)

// OrderInputPanel is the order entry form: a limit offer (price + volume)
// or the acceptance of the selected offer (volume only). Input is passed on
// as typed; the backend validates it.
type OrderInputPanel struct {
	priceInput  textinput.Model
	volumeInput textinput.Model

	sideOptions []string
	sideIndex   int

	kindOptions []string
	kindIndex   int

	currentField OrderInputField

	focused bool
	width   int
	height  int
}

// NewOrderInputPanel creates a new order input panel.
func NewOrderInputPanel() *OrderInputPanel {
	priceInput := textinput.New()
	priceInput.Placeholder = "Price"
	priceInput.PlaceholderStyle = styles.PlaceholderStyle
	priceInput.Width = 10
	priceInput.CharLimit = 15

	volumeInput := textinput.New()
	volumeInput.Placeholder = "1"
	volumeInput.PlaceholderStyle = styles.PlaceholderStyle
	volumeInput.Width = 10
	volumeInput.CharLimit = 15

	return &OrderInputPanel{
		priceInput:   priceInput,
		volumeInput:  volumeInput,
		sideOptions:  []string{"BID", "ASK"},
		kindOptions:  []string{"OFFER", "ACCEPT"},
		currentField: FieldSide,
	}
}

// Init initializes the panel.
func (p *OrderInputPanel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the panel.
func (p *OrderInputPanel) Update(msg tea.Msg) (*OrderInputPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("down"))):
			p.nextField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("up"))):
			p.prevField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if p.currentField == FieldSubmit {
				return p, p.submit()
			}
			p.nextField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("left"))):
			switch p.currentField {
			case FieldSide:
				if p.sideIndex > 0 {
					p.sideIndex--
				}
				return p, nil
			case FieldKind:
				if p.kindIndex > 0 {
					p.kindIndex--
				}
				return p, nil
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("right"))):
			switch p.currentField {
			case FieldSide:
				if p.sideIndex < len(p.sideOptions)-1 {
					p.sideIndex++
				}
				return p, nil
			case FieldKind:
				if p.kindIndex < len(p.kindOptions)-1 {
					p.kindIndex++
				}
				return p, nil
			}
		}
	}

	switch p.currentField {
	case FieldPrice:
		p.priceInput, cmd = p.priceInput.Update(msg)
	case FieldVolume:
		p.volumeInput, cmd = p.volumeInput.Update(msg)
	}

	return p, cmd
}

// View renders the panel.
func (p *OrderInputPanel) View() string {
	var content strings.Builder

	content.WriteString(p.renderField("Side", FieldSide, p.renderOptions(FieldSide, p.sideOptions, p.sideIndex)))
	content.WriteString("\n")

	content.WriteString(p.renderField("Type", FieldKind, p.renderOptions(FieldKind, p.kindOptions, p.kindIndex)))
	content.WriteString("\n")

	if p.kindIndex == kindOffer {
		content.WriteString(p.renderField("Price", FieldPrice, p.priceInput.View()))
		content.WriteString("\n")
	}

	content.WriteString(p.renderField("Volume", FieldVolume, p.volumeInput.View()))
	content.WriteString("\n\n")

	submitStyle := styles.InputStyle
	if p.currentField == FieldSubmit && p.focused {
		submitStyle = styles.FocusedInputStyle.Bold(true).Foreground(styles.PrimaryColor)
	}
	label := "  [Send offer]  "
	if p.kindIndex == kindAccept {
		label = "  [Accept selected]  "
	}
	content.WriteString(submitStyle.Render(label))

	content.WriteString("\n\n")
	content.WriteString(p.renderSummary())

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📝 Order Entry", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *OrderInputPanel) renderField(label string, field OrderInputField, inputView string) string {
	labelStyle := styles.LabelStyle
	if p.currentField == field && p.focused {
		labelStyle = labelStyle.Foreground(styles.PrimaryColor)
	}
	return labelStyle.Render(fmt.Sprintf("%-8s", label)) + inputView
}

func (p *OrderInputPanel) renderOptions(field OrderInputField, options []string, selected int) string {
	items := make([]string, 0, len(options))
	for i, opt := range options {
		style := styles.RowStyle.Padding(0, 1)
		if i == selected {
			style = style.Bold(true)
			if p.currentField == field && p.focused {
				style = style.Background(lipgloss.Color("#374151"))
			}
			if field == FieldSide {
				if opt == "BID" {
					style = style.Foreground(styles.BuyColor)
				} else {
					style = style.Foreground(styles.SellColor)
				}
			}
		}
		items = append(items, style.Render(opt))
	}
	return strings.Join(items, " | ")
}

func (p *OrderInputPanel) renderSummary() string {
	side := p.sideOptions[p.sideIndex]
	sideStyle := styles.BuyStyle
	if side == "ASK" {
		sideStyle = styles.SellStyle
	}
	parts := []string{sideStyle.Render(side), p.kindOptions[p.kindIndex]}
	if p.kindIndex == kindOffer {
		price := p.priceInput.Value()
		if price == "" {
			price = "?"
		}
		parts = append(parts, "@"+price)
	}
	vol := p.volumeInput.Value()
	if vol == "" {
		vol = "1"
	}
	parts = append(parts, "x"+vol)

	return styles.HeaderStyle.Render("Order: ") + strings.Join(parts, " ")
}

func (p *OrderInputPanel) nextField() {
	switch p.currentField {
	case FieldSide:
		p.currentField = FieldKind
	case FieldKind:
		if p.kindIndex == kindOffer {
			p.currentField = FieldPrice
			p.priceInput.Focus()
		} else {
			p.currentField = FieldVolume
			p.volumeInput.Focus()
		}
	case FieldPrice:
		p.currentField = FieldVolume
		p.priceInput.Blur()
		p.volumeInput.Focus()
	case FieldVolume:
		p.currentField = FieldSubmit
		p.volumeInput.Blur()
	case FieldSubmit:
		p.currentField = FieldSide
	}
}

func (p *OrderInputPanel) prevField() {
	switch p.currentField {
	case FieldSide:
		p.currentField = FieldSubmit
	case FieldKind:
		p.currentField = FieldSide
	case FieldPrice:
		p.currentField = FieldKind
		p.priceInput.Blur()
	case FieldVolume:
		if p.kindIndex == kindOffer {
			p.currentField = FieldPrice
			p.priceInput.Focus()
		} else {
			p.currentField = FieldKind
		}
		p.volumeInput.Blur()
	case FieldSubmit:
		p.currentField = FieldVolume
		p.volumeInput.Focus()
	}
}

func (p *OrderInputPanel) submit() tea.Cmd {
	isBid := p.sideIndex == 0
	volume := p.volumeInput.Value()
	if p.kindIndex == kindAccept {
		return func() tea.Msg {
			return AcceptSubmitMsg{IsBid: isBid, Volume: volume}
		}
	}
	price := p.priceInput.Value()
	return func() tea.Msg {
		return OfferSubmitMsg{IsBid: isBid, Price: price, Volume: volume}
	}
}

// Editing reports whether a text field has the keyboard.
func (p *OrderInputPanel) Editing() bool {
	return p.focused && (p.currentField == FieldPrice || p.currentField == FieldVolume)
}

// SetFocus sets the focus state of the panel.
func (p *OrderInputPanel) SetFocus(focused bool) {
	p.focused = focused
	if focused {
		switch p.currentField {
		case FieldPrice:
			p.priceInput.Focus()
		case FieldVolume:
			p.volumeInput.Focus()
		}
	} else {
		p.priceInput.Blur()
		p.volumeInput.Blur()
	}
}

// SetSize sets the panel dimensions.
func (p *OrderInputPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Reset clears the input fields.
func (p *OrderInputPanel) Reset() {
	p.priceInput.SetValue("")
	p.volumeInput.SetValue("")
	p.currentField = FieldSide
	p.sideIndex = 0
	p.kindIndex = 0
}

// OfferSubmitMsg is sent when a limit offer is submitted.
type OfferSubmitMsg struct {
	IsBid  bool
	Price  string
	Volume string
}

// AcceptSubmitMsg is sent when the participant accepts the selected offer
// from the form.
type AcceptSubmitMsg struct {
	IsBid  bool
	Volume string
}
