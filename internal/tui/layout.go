package tui

// Layout proportions
const (
	// List column when the detail pane is open beside it
	ListColumnPercent = 40

	// Below this width the detail pane replaces the list instead
	SplitMinWidth = 100

	MinColumnWidth = 30

	// Vertical layout: tab bar, context line and footer
	ChromeHeight = 3
)

// columnLayout holds calculated column widths for the View
type columnLayout struct {
	listWidth   int // 0 if not shown
	detailWidth int // 0 if not shown
}

// calculateColumnLayout computes column widths based on detail visibility
func (m Model) calculateColumnLayout(availableWidth int) columnLayout {
	if !m.Detail.IsVisible() {
		return columnLayout{listWidth: availableWidth}
	}
	if availableWidth < SplitMinWidth {
		return columnLayout{detailWidth: availableWidth}
	}

	listWidth := max(availableWidth*ListColumnPercent/100, MinColumnWidth)
	return columnLayout{
		listWidth:   listWidth,
		detailWidth: availableWidth - listWidth,
	}
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := max(m.Height-ChromeHeight, 1)
	layout := m.calculateColumnLayout(m.Width)

	listWidth := layout.listWidth
	if listWidth == 0 {
		// Hidden behind the detail pane, keep a sensible size for when it returns
		listWidth = m.Width
	}
	m.Listings.SetSize(listWidth, contentHeight)
	m.Favorites.SetSize(listWidth, contentHeight)
	m.Listings.SetFocused(!m.Detail.IsVisible())
	m.Favorites.SetFocused(!m.Detail.IsVisible())

	if layout.detailWidth > 0 {
		m.Detail.SetSize(layout.detailWidth, contentHeight)
	}
	m.Detail.SetFocused(m.Detail.IsVisible())

	m.Connections.SetSize(m.Width, contentHeight)
	m.Notifications.SetSize(m.Width, contentHeight)
	m.Roommates.SetSize(m.Width, contentHeight)

	// Overlays size against the whole window
	m.ChatPanel.SetSize(min(m.Width-4, 80), min(m.Height-4, 30))
}
