package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/phongtro/phongtro/internal/query"
	"github.com/phongtro/phongtro/internal/tui/styles"
)

// Rows of the filter panel before the flag checkboxes
const (
	rowText = iota
	rowPrice
	rowArea
	fixedRows
)

// Shown for a range set outside the presets, e.g. from the command line
const customRange = "Tùy chỉnh"

// FilterPanel edits the text, price, area and flag parts of a filter.
// Geo center and region are kept as they are.
type FilterPanel struct {
	visible bool
	filter  query.Filter
	input   textinput.Model
	focus   int
	flags   []query.Flag

	// -1 means the range was set outside the presets and is left untouched
	priceIdx int
	areaIdx  int
}

// NewFilterPanel creates a hidden filter panel
func NewFilterPanel() FilterPanel {
	ti := textinput.New()
	ti.Placeholder = "từ khóa, ví dụ: gần ĐH Bách Khoa"
	ti.CharLimit = 120
	ti.Width = 40
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	flags := make([]query.Flag, 0, len(query.Amenities)+len(query.Rules))
	flags = append(flags, query.Amenities...)
	flags = append(flags, query.Rules...)

	return FilterPanel{input: ti, flags: flags}
}

// Show opens the panel on a copy of f
func (p *FilterPanel) Show(f query.Filter) {
	p.visible = true
	p.filter = f
	p.focus = rowText
	p.priceIdx = f.PricePresetIndex()
	p.areaIdx = f.AreaPresetIndex()
	p.input.SetValue(f.Text)
	p.input.CursorEnd()
	p.input.Focus()
}

// Hide dismisses the panel
func (p *FilterPanel) Hide() {
	p.visible = false
	p.input.Blur()
}

// IsVisible returns whether the panel is shown
func (p FilterPanel) IsVisible() bool {
	return p.visible
}

// Filter returns the filter as currently edited
func (p FilterPanel) Filter() query.Filter {
	f := p.filter.SetText(p.input.Value())
	if p.priceIdx >= 0 {
		f = f.ApplyPricePreset(query.PricePresets[p.priceIdx])
	}
	if p.areaIdx >= 0 {
		f = f.ApplyAreaPreset(query.AreaPresets[p.areaIdx])
	}
	return f
}

// Update handles input events, returns (panel, cmd, applied).
// applied is non-nil when the user confirmed with enter.
func (p FilterPanel) Update(msg tea.Msg) (FilterPanel, tea.Cmd, *query.Filter) {
	if !p.visible {
		return p, nil, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if p.focus == rowText {
			var cmd tea.Cmd
			p.input, cmd = p.input.Update(msg)
			return p, cmd, nil
		}
		return p, nil, nil
	}

	switch keyMsg.String() {
	case "esc":
		p.Hide()
		return p, nil, nil
	case "enter":
		f := p.Filter()
		p.Hide()
		return p, nil, &f
	case "up", "shift+tab":
		p.setFocus(p.focus - 1)
		return p, nil, nil
	case "down", "tab":
		p.setFocus(p.focus + 1)
		return p, nil, nil
	}

	if p.focus == rowText {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd, nil
	}

	switch keyMsg.String() {
	case "k":
		p.setFocus(p.focus - 1)
	case "j":
		p.setFocus(p.focus + 1)
	case "left", "h":
		p.cycle(-1)
	case "right", "l":
		p.cycle(1)
	case " ", "x":
		if p.focus >= fixedRows {
			p.filter = p.filter.Toggle(p.flags[p.focus-fixedRows].Key)
		} else {
			p.cycle(1)
		}
	}
	return p, nil, nil
}

func (p *FilterPanel) setFocus(row int) {
	last := fixedRows + len(p.flags) - 1
	row = max(0, min(last, row))
	p.focus = row
	if row == rowText {
		p.input.Focus()
	} else {
		p.input.Blur()
	}
}

// cycle steps the preset under focus, wrapping around
func (p *FilterPanel) cycle(step int) {
	switch p.focus {
	case rowPrice:
		p.priceIdx = wrap(p.priceIdx+step, len(query.PricePresets))
	case rowArea:
		p.areaIdx = wrap(p.areaIdx+step, len(query.AreaPresets))
	}
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// View renders the panel
func (p FilterPanel) View() string {
	if !p.visible {
		return ""
	}

	const labelWidth = 12
	row := func(i int, label, value string) string {
		cursor := "  "
		labelStyle := styles.SubtitleStyle
		if i == p.focus {
			cursor = styles.AccentStyle.Render("› ")
			labelStyle = styles.TitleStyle
		}
		return cursor + labelStyle.Render(styles.Pad(label, labelWidth)) + value
	}

	var lines []string
	lines = append(lines, styles.ModalTitleStyle.Render("Bộ lọc"))
	lines = append(lines, row(rowText, "Từ khóa", p.input.View()))
	price, area := customRange, customRange
	if p.priceIdx >= 0 {
		price = query.PricePresets[p.priceIdx].Label
	}
	if p.areaIdx >= 0 {
		area = query.AreaPresets[p.areaIdx].Label
	}
	lines = append(lines, row(rowPrice, "Giá thuê", styles.AccentStyle.Render("‹ "+price+" ›")))
	lines = append(lines, row(rowArea, "Diện tích", styles.AccentStyle.Render("‹ "+area+" ›")))
	lines = append(lines, "")

	for i, fl := range p.flags {
		if i == len(query.Amenities) {
			lines = append(lines, "")
		}
		box := "[ ]"
		if p.filter.HasFlag(fl.Key) {
			box = styles.AccentStyle.Render("[x]")
		}
		lines = append(lines, row(fixedRows+i, "", box+" "+fl.Label))
	}

	lines = append(lines, "",
		styles.DimStyle.Render("↑/↓ chọn dòng · ←/→ đổi mức · space bật/tắt · enter áp dụng · esc hủy"))

	return styles.ModalStyle.Render(strings.Join(lines, "\n"))
}
