package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/phongtro/phongtro/internal/tui/styles"
)

// RowRenderer draws one item in exactly the row height of its list
type RowRenderer[T any] func(item T, selected bool, width int) string

// RowList is a bordered, scrollable list of fixed-height rows
type RowList[T any] struct {
	items     []T
	render    RowRenderer[T]
	rowHeight int

	cursor     int
	offset     int
	maxVisible int

	width   int
	height  int
	focused bool

	title     string
	emptyText string
	loading   bool
	spinner   string
}

// NewRowList creates an empty list whose rows are rowHeight lines tall
func NewRowList[T any](title, emptyText string, rowHeight int, render RowRenderer[T]) RowList[T] {
	return RowList[T]{
		render:    render,
		rowHeight: max(1, rowHeight),
		title:     title,
		emptyText: emptyText,
		focused:   true,
	}
}

// SetItems replaces the items, keeping the cursor where it was when possible
func (l *RowList[T]) SetItems(items []T) {
	l.loading = false
	l.items = items
	if l.cursor >= len(items) {
		l.cursor = max(0, len(items)-1)
	}
	l.ensureVisible()
}

// Items returns every item
func (l RowList[T]) Items() []T {
	return l.items
}

// Len returns the number of items
func (l RowList[T]) Len() int {
	return len(l.items)
}

// Selected returns the item under the cursor
func (l RowList[T]) Selected() (T, bool) {
	if l.cursor >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[l.cursor], true
}

// SetTitle sets the header line
func (l *RowList[T]) SetTitle(title string) {
	l.title = title
}

// SetLoading shows a spinner line instead of the items
func (l *RowList[T]) SetLoading(loading bool, spinner string) {
	l.loading = loading
	l.spinner = spinner
}

// SetFocused controls whether keys are handled
func (l *RowList[T]) SetFocused(focused bool) {
	l.focused = focused
}

// SetSize sets the outer size including the border
func (l *RowList[T]) SetSize(width, height int) {
	l.width = width
	l.height = height
	interior := height - BorderHeight - ScrollIndicatorLines - 1
	l.maxVisible = max(1, interior/l.rowHeight)
	l.ensureVisible()
}

// Update handles navigation keys
func (l RowList[T]) Update(msg tea.Msg) (RowList[T], tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !l.focused || len(l.items) == 0 {
		return l, nil
	}

	count := len(l.items)
	switch {
	case key.Matches(keyMsg, ListKeys.Down):
		if l.cursor < count-1 {
			l.cursor++
		}
	case key.Matches(keyMsg, ListKeys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(keyMsg, ListKeys.Home):
		l.cursor = 0
	case key.Matches(keyMsg, ListKeys.End):
		l.cursor = count - 1
	case key.Matches(keyMsg, ListKeys.HalfDown):
		l.cursor = min(count-1, l.cursor+max(1, l.maxVisible/2))
	case key.Matches(keyMsg, ListKeys.HalfUp):
		l.cursor = max(0, l.cursor-max(1, l.maxVisible/2))
	default:
		return l, nil
	}
	l.ensureVisible()
	return l, nil
}

func (l *RowList[T]) ensureVisible() {
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}

// View renders the bordered list
func (l RowList[T]) View() string {
	style := styles.InactiveBorder
	if l.focused {
		style = styles.ActiveBorder
	}
	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(0, l.width-frameW)).
		Height(max(0, l.height-frameH)).
		Render(l.renderContent())
}

func (l RowList[T]) renderContent() string {
	itemWidth := max(l.width-BorderWidth, 20)
	titleLine := styles.AccentStyle.Render(styles.Truncate(l.title, itemWidth))

	if l.loading {
		return titleLine + "\n \n" + styles.DimStyle.Render(l.spinner+" Đang tải...")
	}
	if len(l.items) == 0 {
		return titleLine + "\n \n" + styles.DimStyle.Render(l.emptyText)
	}

	end := min(len(l.items), l.offset+l.maxVisible)
	rows := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		rows = append(rows, l.render(l.items[i], i == l.cursor, itemWidth))
	}

	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ còn nữa")
	}
	footer := " "
	if end < len(l.items) {
		footer = styles.DimStyle.Render("↓ còn nữa")
	}
	return titleLine + "\n" + header + "\n" + strings.Join(rows, "\n") + "\n" + footer
}
