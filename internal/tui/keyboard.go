package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/launcher"
	"github.com/phongtro/phongtro/internal/query"
	"github.com/phongtro/phongtro/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Sequence(m.closeChat(), tea.Quit)
	}

	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		m.State = StateBrowsing
		return m, nil

	case StateConfirmLogout:
		switch {
		case key.Matches(msg, Keys.Confirm):
			return m, tea.Sequence(m.closeChat(), LogoutCmd(m.svc.Session))
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil
	}

	// Route to active overlay if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	// Keys acting on the open detail pane
	if m.Detail.IsVisible() {
		if handled, newModel, cmd := m.handleDetailKey(msg); handled {
			return newModel, cmd
		}
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Sequence(m.closeChat(), tea.Quit)

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Logout):
		m.State = StateConfirmLogout
		return m, nil

	case key.Matches(msg, Keys.Screen1):
		return m, m.setScreen(ScreenListings)
	case key.Matches(msg, Keys.Screen2):
		return m, m.setScreen(ScreenFavorites)
	case key.Matches(msg, Keys.Screen3):
		return m, m.setScreen(ScreenConnections)
	case key.Matches(msg, Keys.Screen4):
		return m, m.setScreen(ScreenNotifications)
	case key.Matches(msg, Keys.Screen5):
		return m, m.setScreen(ScreenAnalytics)
	case key.Matches(msg, Keys.Screen6):
		return m, m.setScreen(ScreenRoommates)

	case key.Matches(msg, Keys.NextTab):
		return m, m.setScreen((m.Screen + 1) % screenCount)
	case key.Matches(msg, Keys.PrevTab):
		return m, m.setScreen((m.Screen + screenCount - 1) % screenCount)
	}

	switch m.Screen {
	case ScreenListings:
		return m.handleListingsKey(msg)
	case ScreenFavorites:
		return m.handleFavoritesKey(msg)
	case ScreenConnections:
		return m.handleConnectionsKey(msg)
	case ScreenNotifications:
		return m.handleNotificationsKey(msg)
	case ScreenAnalytics:
		if key.Matches(msg, Keys.Refresh) {
			return m, m.loadScreen(ScreenAnalytics, true)
		}
	case ScreenRoommates:
		return m.handleRoommatesKey(msg)
	}
	return m, nil
}

// routeToModal routes key input to active overlays
// Returns (handled, model, cmd) where handled is true if an overlay consumed the input
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	// Chat panel
	if m.ChatPanel.IsVisible() {
		var cmd tea.Cmd
		var text string
		m.ChatPanel, cmd, text = m.ChatPanel.Update(msg)
		if !m.ChatPanel.IsVisible() {
			closeCmd := m.closeChat()
			m.updateLayout()
			return true, m, closeCmd
		}
		if text != "" && m.chat != nil {
			return true, m, tea.Batch(cmd, SendChatCmd(m.chat, text))
		}
		return true, m, cmd
	}

	// Map picker
	if m.MapPicker.IsVisible() {
		var cmd tea.Cmd
		var result *components.MapResult
		m.MapPicker, cmd, result = m.MapPicker.Update(msg)
		if result != nil {
			m.MapPicker.Hide()
			if result.Clear {
				return true, m, m.applyFilter(m.Filter.ClearGeo())
			}
			f := m.Filter.SetGeo(result.Center.Lat, result.Center.Lng, result.RadiusKm)
			return true, m, tea.Batch(cmd, m.toast("Tìm quanh "+result.Address), m.applyFilter(f))
		}
		return true, m, cmd
	}

	// Filter panel
	if m.FilterPanel.IsVisible() {
		var cmd tea.Cmd
		var applied *query.Filter
		m.FilterPanel, cmd, applied = m.FilterPanel.Update(msg)
		if applied != nil {
			return true, m, tea.Batch(cmd, m.applyFilter(*applied))
		}
		return true, m, cmd
	}

	// Sort modal
	if m.SortModal.IsVisible() {
		handled, selection := m.SortModal.HandleKey(msg.String())
		if handled {
			if selection != nil {
				m.Sort = *selection
				m.Filter = m.Filter.WithPage(1)
				return true, m, m.search(false)
			}
			return true, m, nil
		}
	}

	// Input modal
	if m.InputModal.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.InputModal, cmd, submitted = m.InputModal.Update(msg)
		if submitted {
			text := m.InputModal.Value()
			m.InputModal.Hide()
			return true, m, m.submitInput(text)
		}
		if !m.InputModal.IsVisible() {
			m.inputPurpose = inputNone
		}
		return true, m, cmd
	}

	// Quick filter typing
	switch {
	case m.Screen == ScreenListings && m.Listings.IsFilterTyping():
		var cmd tea.Cmd
		m.Listings, cmd = m.Listings.Update(msg)
		return true, m, cmd
	case m.Screen == ScreenFavorites && m.Favorites.IsFilterTyping():
		var cmd tea.Cmd
		m.Favorites, cmd = m.Favorites.Update(msg)
		return true, m, cmd
	}

	return false, m, nil
}

// handleDetailKey handles keys while the detail pane is open
func (m Model) handleDetailKey(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	data := m.Detail.Data()
	l := data.Listing
	if l == nil {
		return false, m, nil
	}

	switch {
	case key.Matches(msg, Keys.Back):
		m.Detail.Hide()
		m.updateLayout()
		return true, m, nil

	case key.Matches(msg, Keys.Favorite):
		return true, m, m.toggleFavorite(l)

	case key.Matches(msg, Keys.Connect):
		if data.IsOwner {
			return true, m, m.setStatus("Đây là tin đăng của bạn", true)
		}
		if status := connectionStatusOf(data); status == domain.ConnectionPending || status == domain.ConnectionAccepted {
			return true, m, m.toast("Yêu cầu kết nối: " + status.String())
		}
		return true, m, m.showInput(inputConnect, l.ID)

	case key.Matches(msg, Keys.Chat):
		if data.IsOwner {
			return true, m, nil
		}
		return true, m, m.openChat(l.OwnerID, l.OwnerName)

	case key.Matches(msg, Keys.Review):
		if data.IsOwner {
			return true, m, m.setStatus("Không thể tự đánh giá tin đăng của mình", true)
		}
		return true, m, m.showInput(inputReview, l.ID)

	case key.Matches(msg, Keys.Report):
		return true, m, m.showInput(inputReport, l.ID)

	case key.Matches(msg, Keys.Photos):
		if m.opts.Opener == nil {
			return true, m, m.setStatus("Chưa cấu hình trình xem ảnh", true)
		}
		if len(l.Images) == 0 {
			return true, m, m.toast("Tin chưa có ảnh")
		}
		return true, m, OpenImagesCmd(m.opts.Opener, l.Images)

	case key.Matches(msg, Keys.MapLink):
		c, ok := l.Coordinates()
		if !ok {
			return true, m, m.toast("Tin chưa có vị trí trên bản đồ")
		}
		if m.opts.Opener == nil {
			return true, m, m.setStatus("Chưa cấu hình trình duyệt", true)
		}
		return true, m, OpenURLCmd(m.opts.Opener, launcher.MapURL(c))

	case key.Matches(msg, Keys.Refresh):
		return true, m, m.reloadDetail()

	case msg.String() == "j", msg.String() == "k", msg.String() == "g", msg.String() == "G",
		msg.String() == "pgup", msg.String() == "pgdown":
		var cmd tea.Cmd
		m.Detail, cmd = m.Detail.Update(msg)
		return true, m, cmd
	}

	// Up/down arrows keep moving through the list and follow with the detail
	if msg.String() == "up" || msg.String() == "down" {
		return true, m, m.followSelection(msg)
	}
	return false, m, nil
}

// followSelection moves the list cursor and opens the newly selected listing
func (m *Model) followSelection(msg tea.KeyMsg) tea.Cmd {
	list := &m.Listings
	if m.Screen == ScreenFavorites {
		list = &m.Favorites
	} else if m.Screen != ScreenListings {
		return nil
	}

	// The list is unfocused while the detail is open
	before := list.Selected()
	list.SetFocused(true)
	*list, _ = list.Update(msg)
	list.SetFocused(false)
	after := list.Selected()
	if after == nil || (before != nil && before.ID == after.ID) {
		return nil
	}
	return m.openDetail(after)
}

func (m Model) handleListingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Enter):
		return m, m.openDetail(m.Listings.Selected())

	case key.Matches(msg, Keys.Escape):
		if m.Listings.IsFiltering() {
			m.Listings.ClearFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.Filter):
		m.Listings.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.FilterPanel):
		m.FilterPanel.Show(m.Filter)
		return m, nil

	case key.Matches(msg, Keys.Sort):
		m.SortModal.Show(query.SortFields(), m.Sort)
		return m, nil

	case key.Matches(msg, Keys.Map):
		if m.opts.Geocoder == nil {
			return m, m.setStatus("Bản đồ chưa được cấu hình", true)
		}
		at := domain.Coordinates{Lat: m.cfg.Geo.DefaultLat, Lng: m.cfg.Geo.DefaultLng}
		radius := m.cfg.Geo.DefaultRadiusKm
		if g := m.Filter.Geo; g != nil {
			at = domain.Coordinates{Lat: g.Lat, Lng: g.Lng}
			radius = g.RadiusKm
		}
		return m, m.MapPicker.Show(at, radius)

	case key.Matches(msg, Keys.ClearFilter):
		if m.Filter.IsEmpty() {
			return m, nil
		}
		return m, m.applyFilter(m.Filter.Clear())

	case key.Matches(msg, Keys.NextPage):
		if m.Page == nil || m.Filter.Page >= m.Page.TotalPages() {
			return m, nil
		}
		m.Filter = m.Filter.WithPage(m.Filter.Page + 1)
		return m, m.search(false)

	case key.Matches(msg, Keys.PrevPage):
		if m.Filter.Page <= 1 {
			return m, nil
		}
		m.Filter = m.Filter.WithPage(m.Filter.Page - 1)
		return m, m.search(false)

	case key.Matches(msg, Keys.Favorite):
		return m, m.toggleFavorite(m.Listings.Selected())

	case key.Matches(msg, Keys.Refresh):
		return m, m.search(true)
	}

	var cmd tea.Cmd
	m.Listings, cmd = m.Listings.Update(msg)
	return m, cmd
}

func (m Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Enter):
		return m, m.openDetail(m.Favorites.Selected())

	case key.Matches(msg, Keys.Escape):
		if m.Favorites.IsFiltering() {
			m.Favorites.ClearFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.Filter):
		m.Favorites.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Favorite):
		return m, m.toggleFavorite(m.Favorites.Selected())

	case key.Matches(msg, Keys.Refresh):
		return m, m.loadScreen(ScreenFavorites, true)
	}

	var cmd tea.Cmd
	m.Favorites, cmd = m.Favorites.Update(msg)
	return m, cmd
}

func (m Model) handleConnectionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	row, ok := m.Connections.Selected()

	switch {
	case key.Matches(msg, Keys.Refresh):
		return m, m.loadScreen(ScreenConnections, true)

	case !ok:
	case key.Matches(msg, Keys.Accept):
		if !row.Incoming || !row.Conn.IsOpen() {
			return m, nil
		}
		return m, RespondConnectionCmd(m.svc.Connections, row.Conn.ID, domain.ConnectionAccepted)

	case key.Matches(msg, Keys.Reject):
		if !row.Conn.IsOpen() {
			return m, nil
		}
		status := domain.ConnectionCancelled
		if row.Incoming {
			status = domain.ConnectionRejected
		}
		return m, RespondConnectionCmd(m.svc.Connections, row.Conn.ID, status)

	case key.Matches(msg, Keys.Chat):
		if row.Incoming {
			return m, m.openChat(row.Conn.RenterID, row.Conn.RenterName)
		}
		return m, m.openChat(row.Conn.OwnerID, row.Conn.OwnerName)

	case key.Matches(msg, Keys.Enter):
		screenCmd := m.setScreen(ScreenListings)
		return m, tea.Batch(screenCmd, m.openDetailByID(row.Conn.ListingID, row.Conn.ListingTitle))
	}

	var cmd tea.Cmd
	m.Connections, cmd = m.Connections.Update(msg)
	return m, cmd
}

func (m Model) handleNotificationsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n, ok := m.Notifications.Selected()

	switch {
	case key.Matches(msg, Keys.Refresh):
		return m, m.loadScreen(ScreenNotifications, true)

	case key.Matches(msg, Keys.ReadAll):
		if m.Unread == 0 {
			return m, nil
		}
		return m, MarkAllReadCmd(m.svc.Notifications)

	case !ok:
	case key.Matches(msg, Keys.MarkRead):
		var cmds []tea.Cmd
		if !n.Read {
			cmds = append(cmds, MarkReadCmd(m.svc.Notifications, n.ID))
		}
		if id, isListing := listingIDFromLink(n.Link); isListing {
			cmds = append(cmds, m.setScreen(ScreenListings), m.openDetailByID(id, n.Title))
		}
		return m, tea.Batch(cmds...)

	case key.Matches(msg, Keys.Delete):
		return m, DeleteNotificationCmd(m.svc.Notifications, n.ID)
	}

	var cmd tea.Cmd
	m.Notifications, cmd = m.Notifications.Update(msg)
	return m, cmd
}

func (m Model) handleRoommatesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Refresh):
		return m, m.loadScreen(ScreenRoommates, true)

	case key.Matches(msg, Keys.Chat):
		if match, ok := m.Roommates.Selected(); ok {
			return m, m.openChat(match.Profile.UserID, match.Profile.Name)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.Roommates, cmd = m.Roommates.Update(msg)
	return m, cmd
}

func connectionStatusOf(data components.DetailData) domain.ConnectionStatus {
	if data.Connection == nil {
		return ""
	}
	return data.Connection.Status()
}
