package components

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/phongtro/phongtro/internal/tui/styles"
)

const (
	inputModalWidth  = 48
	defaultInputSize = 500
)

// Prompt describes what the input modal asks for
type Prompt struct {
	Title       string
	Hint        string
	Placeholder string
	Limit       int // characters; 0 uses the default

	// Validate runs on enter with the trimmed text. A non-nil error keeps
	// the modal open and is shown under the input.
	Validate func(text string) error
}

// InputModal is a single-line text prompt used for connection messages,
// reports and reviews
type InputModal struct {
	visible bool
	prompt  Prompt
	errText string
	input   textinput.Model
}

// NewInputModal creates a new input modal
func NewInputModal() InputModal {
	ti := textinput.New()
	ti.Width = inputModalWidth - 4
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return InputModal{input: ti}
}

// Show opens the modal with an empty input
func (m *InputModal) Show(p Prompt) {
	if p.Limit <= 0 {
		p.Limit = defaultInputSize
	}
	m.visible = true
	m.prompt = p
	m.errText = ""
	m.input.CharLimit = p.Limit
	m.input.Placeholder = p.Placeholder
	m.input.SetValue("")
	m.input.Focus()
}

// Hide dismisses the modal
func (m *InputModal) Hide() {
	m.visible = false
	m.errText = ""
	m.input.Blur()
}

func (m InputModal) IsVisible() bool {
	return m.visible
}

// Value returns the trimmed input
func (m InputModal) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// Update handles input events, returns (modal, cmd, submitted).
// Enter only submits once the prompt's validator accepts the text.
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if m.prompt.Validate != nil {
				if err := m.prompt.Validate(m.Value()); err != nil {
					m.errText = err.Error()
					return m, nil, false
				}
			}
			m.errText = ""
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

// View renders the input modal
func (m InputModal) View() string {
	if !m.visible {
		return ""
	}

	base := lipgloss.NewStyle().Width(inputModalWidth).Background(styles.SlateDark)
	titleStyle := base.Foreground(styles.White).Bold(true)
	hintStyle := base.Foreground(styles.LightGray)

	counter := fmt.Sprintf("%d/%d", utf8.RuneCountInString(m.input.Value()), m.prompt.Limit)
	status := base.Foreground(styles.LightGray).Align(lipgloss.Right).Render(counter)
	if m.errText != "" {
		status = base.Foreground(styles.Red).Render(m.errText)
	}

	rows := []string{titleStyle.Render(m.prompt.Title)}
	if m.prompt.Hint != "" {
		rows = append(rows, hintStyle.Render(m.prompt.Hint))
	}
	rows = append(rows,
		base.Render(""),
		base.Render(m.input.View()),
		status,
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Background(styles.SlateDark).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
