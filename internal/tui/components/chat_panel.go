package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/tui/styles"
)

// ChatPanel shows one conversation: a scrollback of messages, a connection
// indicator and a line editor
type ChatPanel struct {
	visible   bool
	peerID    string
	peerName  string
	connected bool
	dialing   bool
	messages  []domain.ChatMessage

	viewport viewport.Model
	input    textinput.Model
	width    int
	height   int
}

// NewChatPanel creates a hidden chat panel
func NewChatPanel() ChatPanel {
	ti := textinput.New()
	ti.Placeholder = "nhập tin nhắn..."
	ti.Prompt = "› "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.CharLimit = 1000

	return ChatPanel{
		viewport: viewport.New(60, 15),
		input:    ti,
	}
}

// Show opens the panel for a conversation with peerID
func (p *ChatPanel) Show(peerID, peerName string) {
	p.visible = true
	p.peerID = peerID
	p.peerName = peerName
	p.connected = false
	p.dialing = true
	p.messages = nil
	p.input.SetValue("")
	p.input.Focus()
	p.refresh()
}

// Hide dismisses the panel
func (p *ChatPanel) Hide() {
	p.visible = false
	p.input.Blur()
}

// IsVisible returns whether the panel is shown
func (p ChatPanel) IsVisible() bool {
	return p.visible
}

// PeerID returns the other side of the open conversation
func (p ChatPanel) PeerID() string {
	return p.peerID
}

// SetState replaces the messages and connection flag, keeping the view
// pinned to the newest message
func (p *ChatPanel) SetState(messages []domain.ChatMessage, connected bool) {
	p.messages = messages
	p.connected = connected
	p.refresh()
}

// DialDone ends the connecting state once the dial attempt returned
func (p *ChatPanel) DialDone() {
	p.dialing = false
}

// SetSize fits the panel into the given area
func (p *ChatPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.viewport.Width = max(20, width-6)
	p.viewport.Height = max(3, height-8)
	p.input.Width = max(10, width-10)
	p.refresh()
}

// Update handles input events, returns (panel, cmd, sent).
// sent holds the text to send when the user pressed enter.
func (p ChatPanel) Update(msg tea.Msg) (ChatPanel, tea.Cmd, string) {
	if !p.visible {
		return p, nil, ""
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			text := strings.TrimSpace(p.input.Value())
			p.input.SetValue("")
			return p, nil, text
		case "esc":
			p.Hide()
			return p, nil, ""
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			p.viewport, cmd = p.viewport.Update(msg)
			return p, cmd, ""
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd, ""
}

func (p *ChatPanel) refresh() {
	p.viewport.SetContent(p.renderMessages())
	p.viewport.GotoBottom()
}

func (p ChatPanel) renderMessages() string {
	if len(p.messages) == 0 {
		return styles.DimStyle.Render("Chưa có tin nhắn. Hãy chào " + p.peerName + "!")
	}

	width := p.viewport.Width
	mine := lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight).Padding(0, 1)
	theirs := lipgloss.NewStyle().Foreground(styles.White).Padding(0, 1)
	bubbleWidth := max(10, width*3/4)

	lines := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		stamp := ""
		if !m.SentAt.IsZero() {
			stamp = m.SentAt.Local().Format("15:04")
		}
		if m.Outbound {
			status := "✓"
			if m.ID == "" {
				status = "…"
			}
			bubble := mine.MaxWidth(bubbleWidth).Render(m.Text)
			meta := styles.DimStyle.Render(stamp + " " + status)
			lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Right,
				lipgloss.JoinVertical(lipgloss.Right, bubble, meta)))
			continue
		}
		bubble := theirs.MaxWidth(bubbleWidth).Render(m.Text)
		meta := styles.DimStyle.Render(stamp)
		lines = append(lines, lipgloss.JoinVertical(lipgloss.Left, bubble, meta))
	}
	return strings.Join(lines, "\n")
}

// View renders the panel
func (p ChatPanel) View() string {
	if !p.visible {
		return ""
	}

	var indicator string
	switch {
	case p.connected:
		indicator = styles.SuccessStyle.Render("● trực tuyến")
	case p.dialing:
		indicator = styles.DimStyle.Render("● đang kết nối...")
	default:
		indicator = styles.ErrorStyle.Render("● mất kết nối")
	}
	title := styles.TitleStyle.Render("Trò chuyện với "+p.peerName) + "  " + indicator

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		p.viewport.View(),
		"",
		p.input.View(),
		styles.DimStyle.Render("enter gửi · PgUp/PgDn cuộn · esc đóng"),
	)
	return styles.ModalStyle.Render(content)
}
