package components

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/geo"
	"github.com/phongtro/phongtro/internal/tui/styles"
)

const (
	geocodeTimeout = 10 * time.Second

	minRadiusKm = 0.5
	maxRadiusKm = 50

	// Map canvas in cells; rows are about twice as tall as columns are wide
	canvasCols = 41
	canvasRows = 13
)

// PickerSettledMsg fires SettleDelay after a pan
type PickerSettledMsg struct {
	Ticket uint64
}

// PickerResolvedMsg carries the reverse-geocoded reticle position
type PickerResolvedMsg struct {
	Selection geo.Selection
}

// AddressTickMsg fires after the address search quiet period
type AddressTickMsg struct {
	Ticket uint64
	Text   string
}

// AddressResultsMsg carries forward-geocoding candidates for Text
type AddressResultsMsg struct {
	Text   string
	Places []domain.Place
	Err    error
}

// MapResult is what the picker hands back on close
type MapResult struct {
	Center   domain.Coordinates
	RadiusKm float64
	Address  string
	Clear    bool // Remove the geo filter instead of setting it
}

// MapPicker chooses a search center by panning a reticle or searching an
// address, and a radius around it
type MapPicker struct {
	visible bool

	picker   *geo.Picker
	debounce *geo.Debouncer
	tileURL  string

	radiusKm  float64
	selection geo.Selection
	resolving bool

	input      textinput.Model
	candidates []domain.Place
	cursor     int
	searchErr  bool
	searching  bool
}

// NewMapPicker wraps picker. tileURL is the tile template shown for the
// current view; it may be empty.
func NewMapPicker(picker *geo.Picker, tileURL string) MapPicker {
	ti := textinput.New()
	ti.Placeholder = "tìm địa chỉ, ví dụ: 1 Đại Cồ Việt"
	ti.Prompt = "⌕ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle
	ti.CharLimit = 120
	ti.Width = 40

	return MapPicker{
		picker:   picker,
		debounce: geo.NewDebouncer(geo.SearchDelay),
		tileURL:  tileURL,
		input:    ti,
	}
}

// Show opens the picker centered on at with the given radius and resolves
// the starting address
func (m *MapPicker) Show(at domain.Coordinates, radiusKm float64) tea.Cmd {
	m.visible = true
	m.radiusKm = clampRadius(radiusKm)
	m.picker.MoveTo(at)
	m.selection = geo.Selection{Coordinates: m.picker.Center(), Address: m.picker.Center().String(), Degraded: true}
	m.candidates = nil
	m.searchErr = false
	m.input.SetValue("")
	m.input.Blur()
	m.debounce.Cancel()
	m.resolving = true
	return m.resolveCmd()
}

// Hide dismisses the picker
func (m *MapPicker) Hide() {
	m.visible = false
	m.input.Blur()
	m.debounce.Cancel()
}

// IsVisible returns whether the picker is shown
func (m MapPicker) IsVisible() bool {
	return m.visible
}

// Selection returns the current reticle selection
func (m MapPicker) Selection() geo.Selection {
	return m.selection
}

// RadiusKm returns the chosen radius
func (m MapPicker) RadiusKm() float64 {
	return m.radiusKm
}

// Update handles keys and the picker's own messages. result is non-nil when
// the user confirmed or cleared the location.
func (m MapPicker) Update(msg tea.Msg) (MapPicker, tea.Cmd, *MapResult) {
	if !m.visible {
		return m, nil, nil
	}

	switch msg := msg.(type) {
	case PickerSettledMsg:
		if !m.picker.Settled(msg.Ticket) {
			return m, nil, nil
		}
		m.resolving = true
		return m, m.resolveCmd(), nil

	case PickerResolvedMsg:
		// A later pan or choice has moved the reticle since
		if msg.Selection.Coordinates != m.picker.Center() {
			return m, nil, nil
		}
		m.resolving = false
		m.selection = msg.Selection
		return m, nil, nil

	case AddressTickMsg:
		if !m.debounce.Ready(msg.Ticket) {
			return m, nil, nil
		}
		m.searching = true
		return m, m.searchCmd(msg.Text), nil

	case AddressResultsMsg:
		if msg.Text != m.input.Value() {
			return m, nil, nil
		}
		m.searching = false
		m.candidates = msg.Places
		m.cursor = 0
		m.searchErr = msg.Err != nil
		return m, nil, nil

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateMap(msg)
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd, nil
	}
	return m, nil, nil
}

func (m MapPicker) updateMap(msg tea.KeyMsg) (MapPicker, tea.Cmd, *MapResult) {
	switch {
	case key.Matches(msg, MapKeys.Escape):
		m.Hide()
		return m, nil, nil
	case key.Matches(msg, MapKeys.Enter):
		m.Hide()
		return m, nil, &MapResult{
			Center:   m.selection.Coordinates,
			RadiusKm: m.radiusKm,
			Address:  m.selection.Address,
		}
	case key.Matches(msg, MapKeys.Clear):
		m.Hide()
		return m, nil, &MapResult{Clear: true}
	case key.Matches(msg, MapKeys.Search):
		m.input.Focus()
		return m, textinput.Blink, nil
	case key.Matches(msg, MapKeys.ZoomIn):
		m.picker.ZoomIn()
	case key.Matches(msg, MapKeys.ZoomOut):
		m.picker.ZoomOut()
	case key.Matches(msg, MapKeys.RadiusUp):
		m.radiusKm = clampRadius(m.radiusKm + radiusStep(m.radiusKm, true))
	case key.Matches(msg, MapKeys.RadiusDown):
		m.radiusKm = clampRadius(m.radiusKm - radiusStep(m.radiusKm, false))
	case key.Matches(msg, MapKeys.Up):
		return m, m.pan(0, 1), nil
	case key.Matches(msg, MapKeys.Down):
		return m, m.pan(0, -1), nil
	case key.Matches(msg, MapKeys.Left):
		return m, m.pan(-1, 0), nil
	case key.Matches(msg, MapKeys.Right):
		return m, m.pan(1, 0), nil
	}
	return m, nil, nil
}

func (m MapPicker) updateSearch(msg tea.KeyMsg) (MapPicker, tea.Cmd, *MapResult) {
	switch msg.String() {
	case "esc", "tab":
		m.input.Blur()
		m.debounce.Cancel()
		m.searching = false
		return m, nil, nil
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil, nil
	case "down":
		if m.cursor < len(m.candidates)-1 {
			m.cursor++
		}
		return m, nil, nil
	case "enter":
		if len(m.candidates) == 0 {
			return m, nil, nil
		}
		m.selection = m.picker.Choose(m.candidates[m.cursor])
		m.resolving = false
		m.candidates = nil
		m.input.Blur()
		m.debounce.Cancel()
		return m, nil, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	text := m.input.Value()
	if text == before {
		return m, cmd, nil
	}

	if strings.TrimSpace(text) == "" {
		m.debounce.Cancel()
		m.searching = false
		m.candidates = nil
		m.searchErr = false
		return m, cmd, nil
	}

	ticket := m.debounce.Trigger()
	tick := tea.Tick(m.debounce.Delay(), func(time.Time) tea.Msg {
		return AddressTickMsg{Ticket: ticket, Text: text}
	})
	return m, tea.Batch(cmd, tick), nil
}

// pan moves the reticle; the address is resolved once panning pauses
func (m *MapPicker) pan(dx, dy int) tea.Cmd {
	ticket := m.picker.Pan(dx, dy)
	center := m.picker.Center()
	m.selection = geo.Selection{Coordinates: center, Address: center.String(), Degraded: true}
	m.resolving = false
	return tea.Tick(m.picker.SettleDelay(), func(time.Time) tea.Msg {
		return PickerSettledMsg{Ticket: ticket}
	})
}

func (m MapPicker) resolveCmd() tea.Cmd {
	picker := m.picker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), geocodeTimeout)
		defer cancel()
		return PickerResolvedMsg{Selection: picker.DragEnd(ctx)}
	}
}

func (m MapPicker) searchCmd(text string) tea.Cmd {
	picker := m.picker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), geocodeTimeout)
		defer cancel()
		places, err := picker.SearchAddress(ctx, text)
		return AddressResultsMsg{Text: text, Places: places, Err: err}
	}
}

func clampRadius(km float64) float64 {
	return math.Max(minRadiusKm, math.Min(maxRadiusKm, km))
}

// radiusStep is 0.5 km up to 2 km, then 1 km up to 10 km, then 5 km
func radiusStep(km float64, up bool) float64 {
	switch {
	case km < 2 || (!up && km == 2):
		return 0.5
	case km < 10 || (!up && km == 10):
		return 1
	default:
		return 5
	}
}

// View renders the picker
func (m MapPicker) View() string {
	if !m.visible {
		return ""
	}

	center := m.picker.Center()
	zoom := m.picker.Zoom()

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Chọn vị trí tìm kiếm"))
	b.WriteString("\n")
	b.WriteString(m.renderCanvas())
	b.WriteString("\n\n")

	address := m.selection.Address
	addressStyle := styles.TitleStyle
	switch {
	case m.resolving:
		address = "Đang xác định địa chỉ..."
		addressStyle = styles.DimStyle
	case m.selection.Degraded:
		addressStyle = styles.SubtitleStyle
	}
	b.WriteString(styles.AccentStyle.Render("◎ ") + addressStyle.Render(styles.Truncate(address, 60)))
	b.WriteString("\n")

	x, y := geo.LatLngToTile(center, zoom)
	info := fmt.Sprintf("%s · zoom %d · bán kính %s km", center.String(), zoom, formatKm(m.radiusKm))
	b.WriteString(styles.DimStyle.Render(info))
	if m.tileURL != "" {
		b.WriteString("\n" + styles.DimStyle.Render(styles.Truncate("Bản đồ: "+geo.TileURL(m.tileURL, zoom, x, y), 70)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	switch {
	case m.searching:
		b.WriteString("\n" + styles.DimStyle.Render("Đang tìm..."))
	case m.searchErr:
		b.WriteString("\n" + styles.ErrorStyle.Render("Không tìm được địa chỉ, hãy di chuyển bản đồ"))
	}
	for i, p := range m.candidates {
		line := styles.Truncate(p.DisplayName, 58)
		if i == m.cursor && m.input.Focused() {
			b.WriteString("\n" + styles.SelectedItemStyle.Render(line))
		} else {
			b.WriteString("\n" + styles.NormalItemStyle.Render(line))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(styles.DimStyle.Render("←↑↓→ di chuyển · +/- zoom · [/] bán kính · / tìm địa chỉ · x bỏ vị trí · enter chọn"))

	return styles.ModalStyle.Render(b.String())
}

// renderCanvas draws the reticle and the radius ring scaled to the zoom
func (m MapPicker) renderCanvas() string {
	kmPerCol := m.picker.SpanKm() / float64(canvasCols)
	kmPerRow := kmPerCol * 2
	midCol, midRow := canvasCols/2, canvasRows/2

	ring := styles.AccentStyle.Render("·")
	dot := styles.DimStyle.Render("·")
	var rows []string
	for r := 0; r < canvasRows; r++ {
		var line strings.Builder
		for c := 0; c < canvasCols; c++ {
			dx := float64(c-midCol) * kmPerCol
			dy := float64(r-midRow) * kmPerRow
			dist := math.Hypot(dx, dy)
			switch {
			case r == midRow && c == midCol:
				line.WriteString(styles.AccentStyle.Render("✛"))
			case math.Abs(dist-m.radiusKm) <= kmPerRow/2:
				line.WriteString(ring)
			case (r-midRow)%3 == 0 && (c-midCol)%6 == 0:
				line.WriteString(dot)
			default:
				line.WriteString(" ")
			}
		}
		rows = append(rows, line.String())
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(styles.SlateLight).
		Render(strings.Join(rows, "\n"))
}

func formatKm(km float64) string {
	if km == math.Trunc(km) {
		return fmt.Sprintf("%.0f", km)
	}
	return fmt.Sprintf("%.1f", km)
}
