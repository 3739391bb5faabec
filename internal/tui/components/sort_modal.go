package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/phongtro/phongtro/internal/query"
	"github.com/phongtro/phongtro/internal/tui/styles"
)

// SortModal is a small popup for choosing how the listing page is ordered
type SortModal struct {
	visible bool
	options []query.SortField
	cursor  int
	active  query.Sort
}

// NewSortModal creates a new sort modal
func NewSortModal() SortModal {
	return SortModal{}
}

// Show displays the modal with the given options and current sort state
func (m *SortModal) Show(options []query.SortField, active query.Sort) {
	m.visible = true
	m.options = options
	m.active = active
	// Position cursor on the active field
	m.cursor = 0
	for i, opt := range options {
		if opt == active.Field {
			m.cursor = i
			break
		}
	}
}

// Hide dismisses the modal
func (m *SortModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m SortModal) IsVisible() bool {
	return m.visible
}

// HandleKey processes a key press, returns (handled, selection).
// If selection is non-nil, the user confirmed a choice.
func (m *SortModal) HandleKey(key string) (handled bool, selection *query.Sort) {
	if !m.visible {
		return false, nil
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
		return true, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return true, nil
	case "enter":
		if len(m.options) == 0 {
			m.visible = false
			return true, nil
		}
		chosen := m.active.Select(m.options[m.cursor])
		m.visible = false
		return true, &chosen
	case "esc", "s":
		m.visible = false
		return true, nil
	}

	return true, nil // consume all keys when visible
}

// View renders the sort modal
func (m SortModal) View() string {
	if !m.visible || len(m.options) == 0 {
		return ""
	}

	const lineWidth = 22

	var lines []string
	for i, opt := range m.options {
		selected := i == m.cursor
		isActive := opt == m.active.Field

		prefix := "  "
		if isActive {
			prefix = "✓ "
		}

		var suffix string
		if isActive && opt != query.SortDefault {
			if m.active.Direction == query.SortAsc {
				suffix = " ↑"
			} else {
				suffix = " ↓"
			}
		}

		text := styles.Pad(prefix+opt.String()+suffix, lineWidth)

		switch {
		case selected:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.White).
				Background(styles.SlateLight).
				Render(text))
		case isActive:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.Accent).
				Render(text))
		default:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.LightGray).
				Render(text))
		}
	}

	content := strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(styles.ModalTitleStyle.Render("Sắp xếp theo") + "\n" + content)
}
