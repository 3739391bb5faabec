package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/phongtro/phongtro/internal/api"
	"github.com/phongtro/phongtro/internal/chat"
	"github.com/phongtro/phongtro/internal/config"
	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/geo"
	"github.com/phongtro/phongtro/internal/query"
	"github.com/phongtro/phongtro/internal/service"
	"github.com/phongtro/phongtro/internal/tui/components"
	"github.com/phongtro/phongtro/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
	StateConfirmLogout
)

// Screen is one of the top-level tabs
type Screen int

const (
	ScreenListings Screen = iota
	ScreenFavorites
	ScreenConnections
	ScreenNotifications
	ScreenAnalytics
	ScreenRoommates
	screenCount
)

// String returns the tab label
func (s Screen) String() string {
	switch s {
	case ScreenListings:
		return "Phòng"
	case ScreenFavorites:
		return "Yêu thích"
	case ScreenConnections:
		return "Kết nối"
	case ScreenNotifications:
		return "Thông báo"
	case ScreenAnalytics:
		return "Thống kê"
	case ScreenRoommates:
		return "Ở ghép"
	default:
		return "?"
	}
}

// inputPurpose records what the shared input modal was opened for
type inputPurpose int

const (
	inputNone inputPurpose = iota
	inputConnect
	inputReview
	inputReport
)

const (
	// Unread badge refresh interval
	pollInterval = time.Minute

	// Roommate suggestions requested per load
	roommateLimit = 20
)

// Services groups everything the TUI calls into
type Services struct {
	Listings      *service.ListingService
	Favorites     *service.FavoriteService
	Connections   *service.ConnectionService
	Reviews       *service.ReviewService
	Notifications *service.NotificationService
	Reports       *service.ReportService
	Analytics     *service.AnalyticsService
	Matching      *service.MatchingService
	Session       *service.SessionService
}

// Options configures the parts of the TUI that talk to something other
// than the marketplace API
type Options struct {
	Config      *config.Config
	Geocoder    domain.Geocoder       // nil disables the map picker
	ChatDialer  chat.Dialer           // nil disables chat
	ChatHistory domain.ChatRepository // optional
	ChatURL     func(peerID string) (string, error)
	Opener      Opener // nil disables photos and map links
	SelfID      string
	Logger      *slog.Logger
}

// Opener shows listing photos and map links outside the terminal
type Opener interface {
	OpenImages(urls []string) error
	OpenURL(link string) error
}

// connectionRow is one line of the connections screen
type connectionRow struct {
	Conn     *domain.Connection
	Incoming bool
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State  ApplicationState
	Screen Screen
	Ready  bool

	svc    Services
	opts   Options
	cfg    *config.Config
	logger *slog.Logger

	// UI Components
	Listings      components.ListingList
	Favorites     components.ListingList
	Connections   components.RowList[connectionRow]
	Notifications components.RowList[*domain.Notification]
	Roommates     components.RowList[*domain.RoommateMatch]
	Detail        components.Detail
	FilterPanel   components.FilterPanel
	SortModal     components.SortModal
	MapPicker     components.MapPicker
	InputModal    components.InputModal
	ChatPanel     components.ChatPanel
	spinner       spinner.Model

	// Search state
	Filter     query.Filter
	Sort       query.Sort
	Page       *domain.ListingPage
	pendingKey string

	// Data
	Dashboard *domain.Dashboard
	Unread    int
	loaded    map[Screen]bool
	loading   map[Screen]bool

	// Input modal target
	inputPurpose inputPurpose
	inputTarget  string

	// Open conversation
	chat       *chat.Hook
	chatCancel context.CancelFunc

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	statusSeq   int
}

// NewModel creates a new application model
func NewModel(svcs Services, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	m := Model{
		State:         StateBrowsing,
		Screen:        ScreenListings,
		svc:           svcs,
		opts:          opts,
		cfg:           cfg,
		logger:        logger,
		Listings:      components.NewListingList("Phòng trọ"),
		Favorites:     components.NewListingList("Phòng đã lưu"),
		Connections:   components.NewRowList[connectionRow]("Yêu cầu kết nối", "Chưa có yêu cầu kết nối nào", 2, renderConnectionRow),
		Notifications: components.NewRowList[*domain.Notification]("Thông báo", "Không có thông báo", 2, renderNotificationRow),
		Roommates:     components.NewRowList[*domain.RoommateMatch]("Gợi ý bạn ở ghép", "Chưa có gợi ý. Hãy cập nhật hồ sơ của bạn", 3, renderRoommateRow),
		Detail:        components.NewDetail(),
		FilterPanel:   components.NewFilterPanel(),
		SortModal:     components.NewSortModal(),
		InputModal:    components.NewInputModal(),
		ChatPanel:     components.NewChatPanel(),
		spinner:       sp,
		Filter:        query.New(cfg.UI.PageSize),
		loaded:        make(map[Screen]bool),
		loading:       make(map[Screen]bool),
	}

	if opts.Geocoder != nil {
		start := domain.Coordinates{Lat: cfg.Geo.DefaultLat, Lng: cfg.Geo.DefaultLng}
		picker := geo.NewPicker(opts.Geocoder, start, logger)
		m.MapPicker = components.NewMapPicker(picker, cfg.Geo.TileURL)
	}

	m.Listings.SetFavoriteLookup(m.isFavorite)
	m.Favorites.SetFavoriteLookup(m.isFavorite)
	m.Favorites.SetEmptyText("Chưa lưu phòng nào. Nhấn * trên một tin để lưu")
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, PollCmd(pollInterval)}
	if m.svc.Listings != nil {
		cmds = append(cmds, m.search(false))
	}
	if m.svc.Favorites != nil {
		cmds = append(cmds, LoadFavoritesCmd(m.svc.Favorites))
	}
	if m.svc.Notifications != nil {
		cmds = append(cmds, UnreadCountCmd(m.svc.Notifications, m.logger))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !m.anyLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.syncSpinner()
		return m, cmd

	case PollMsg:
		var cmds []tea.Cmd
		if m.svc.Notifications != nil {
			cmds = append(cmds, UnreadCountCmd(m.svc.Notifications, m.logger))
		}
		cmds = append(cmds, PollCmd(pollInterval))
		return m, tea.Batch(cmds...)

	case ListingsLoadedMsg:
		if msg.Key != m.pendingKey {
			m.logger.Debug("dropping stale search result")
			return m, nil
		}
		m.setLoading(ScreenListings, false)
		if msg.Err != nil {
			return m, m.toastError(msg.Err, "tìm phòng")
		}
		m.Page = msg.Page
		m.Listings.SetListings(msg.Page.Items)
		m.Listings.SetTitle(m.listingsTitle())
		return m, nil

	case DetailLoadedMsg:
		if !m.Detail.IsVisible() || m.Detail.Listing() == nil || m.Detail.Listing().ID != msg.Data.Listing.ID {
			return m, nil
		}
		m.Detail.SetData(msg.Data)
		return m, nil

	case FavoritesLoadedMsg:
		m.setLoading(ScreenFavorites, false)
		m.loaded[ScreenFavorites] = true
		m.Favorites.SetListings(favoriteListings(msg.Favorites))
		return m, nil

	case FavoriteToggledMsg:
		m.refreshDetailFavorite()
		if msg.Err != nil {
			return m, m.toastError(msg.Err, "lưu phòng")
		}
		text := "Đã bỏ lưu phòng"
		if msg.Saved {
			text = "Đã lưu phòng"
		}
		cmds := []tea.Cmd{m.toast(text)}
		m.loaded[ScreenFavorites] = false
		if m.Screen == ScreenFavorites {
			cmds = append(cmds, m.loadScreen(ScreenFavorites, false))
		}
		return m, tea.Batch(cmds...)

	case ConnectionsLoadedMsg:
		m.setLoading(ScreenConnections, false)
		m.loaded[ScreenConnections] = true
		rows := make([]connectionRow, 0, len(msg.Incoming)+len(msg.Outgoing))
		for _, c := range msg.Incoming {
			rows = append(rows, connectionRow{Conn: c, Incoming: true})
		}
		for _, c := range msg.Outgoing {
			rows = append(rows, connectionRow{Conn: c})
		}
		m.Connections.SetItems(rows)
		return m, nil

	case ConnectionRequestedMsg:
		m.loaded[ScreenConnections] = false
		return m, tea.Batch(m.toast("Đã gửi yêu cầu kết nối, chờ chủ nhà phản hồi"), m.reloadDetail())

	case ConnectionRespondedMsg:
		text := "Đã cập nhật kết nối"
		if msg.Connection != nil {
			text = "Kết nối: " + strings.ToLower(msg.Connection.Status.String())
		}
		return m, tea.Batch(m.toast(text), m.loadScreen(ScreenConnections, true))

	case NotificationsLoadedMsg:
		m.setLoading(ScreenNotifications, false)
		m.loaded[ScreenNotifications] = true
		m.Notifications.SetItems(msg.Notifications)
		m.Unread = countUnread(msg.Notifications)
		return m, nil

	case NotificationsChangedMsg:
		cmds := []tea.Cmd{m.loadScreen(ScreenNotifications, true)}
		if msg.Message != "" {
			cmds = append(cmds, m.toast(msg.Message))
		}
		return m, tea.Batch(cmds...)

	case UnreadCountMsg:
		m.Unread = msg.Count
		return m, nil

	case AnalyticsLoadedMsg:
		m.setLoading(ScreenAnalytics, false)
		m.loaded[ScreenAnalytics] = true
		m.Dashboard = msg.Dashboard
		return m, nil

	case RoommatesLoadedMsg:
		m.setLoading(ScreenRoommates, false)
		m.loaded[ScreenRoommates] = true
		m.Roommates.SetItems(msg.Matches)
		return m, nil

	case ReportCreatedMsg:
		return m, m.toast("Đã gửi báo cáo, cảm ơn bạn")

	case ReviewCreatedMsg:
		return m, tea.Batch(m.toast("Đã gửi đánh giá"), m.reloadDetail())

	case ChatConnectedMsg:
		if msg.Hook != m.chat {
			return m, nil
		}
		m.ChatPanel.DialDone()
		m.ChatPanel.SetState(msg.Hook.Messages(), msg.Hook.Connected())
		if msg.Err != nil {
			return m, m.toastError(msg.Err, "kết nối trò chuyện")
		}
		return m, nil

	case ChatHistoryMsg:
		if msg.Hook != m.chat {
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Warn("chat history unavailable", "peer_id", msg.Hook.PeerID(), "error", msg.Err)
		}
		m.ChatPanel.SetState(msg.Hook.Messages(), msg.Hook.Connected())
		return m, nil

	case ChatUpdateMsg:
		if msg.Hook != m.chat || msg.Closed {
			return m, nil
		}
		m.ChatPanel.SetState(msg.Hook.Messages(), msg.Hook.Connected())
		return m, WaitChatCmd(msg.Hook)

	case components.PickerSettledMsg, components.PickerResolvedMsg,
		components.AddressTickMsg, components.AddressResultsMsg:
		var cmd tea.Cmd
		m.MapPicker, cmd, _ = m.MapPicker.Update(msg)
		return m, cmd

	case ErrMsg:
		m.clearLoading()
		return m, m.toastError(msg.Err, msg.Context)

	case StatusMsg:
		if msg.IsError {
			return m, m.setStatus(msg.Message, true)
		}
		return m, m.toast(msg.Message)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil

	case LogoutCompleteMsg:
		if msg.Error != nil {
			m.State = StateBrowsing
			return m, m.toastError(msg.Error, "đăng xuất")
		}
		return m, tea.Sequence(m.closeChat(), tea.Quit)
	}

	// Cursor blinks and other input plumbing go to whatever has focus
	return m.forwardToFocused(msg)
}

// forwardToFocused hands a non-key message to the topmost focused input
func (m Model) forwardToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.ChatPanel.IsVisible():
		m.ChatPanel, cmd, _ = m.ChatPanel.Update(msg)
	case m.MapPicker.IsVisible():
		m.MapPicker, cmd, _ = m.MapPicker.Update(msg)
	case m.FilterPanel.IsVisible():
		m.FilterPanel, cmd, _ = m.FilterPanel.Update(msg)
	case m.InputModal.IsVisible():
		m.InputModal, cmd, _ = m.InputModal.Update(msg)
	case m.Screen == ScreenListings && m.Listings.IsFilterTyping():
		m.Listings, cmd = m.Listings.Update(msg)
	case m.Screen == ScreenFavorites && m.Favorites.IsFilterTyping():
		m.Favorites, cmd = m.Favorites.Update(msg)
	}
	return m, cmd
}

// search starts loading the page for the current filter and sort
func (m *Model) search(refresh bool) tea.Cmd {
	m.pendingKey = searchKey(m.Filter, m.Sort)
	m.setLoading(ScreenListings, true)
	m.Listings.SetTitle(m.listingsTitle())
	if refresh {
		return tea.Batch(RefreshListingsCmd(m.svc.Listings, m.Filter, m.Sort), m.spinner.Tick)
	}
	return tea.Batch(SearchListingsCmd(m.svc.Listings, m.Filter, m.Sort), m.spinner.Tick)
}

// applyFilter replaces the filter, resetting to page 1, and searches
func (m *Model) applyFilter(f query.Filter) tea.Cmd {
	m.Filter = f.WithPage(1)
	m.Listings.ClearFilter()
	return m.search(false)
}

// loadScreen loads the data behind s unless it is already loaded
func (m *Model) loadScreen(s Screen, force bool) tea.Cmd {
	if m.loaded[s] && !force {
		return nil
	}

	var cmd tea.Cmd
	switch s {
	case ScreenListings:
		return m.search(force)
	case ScreenFavorites:
		cmd = LoadFavoritesCmd(m.svc.Favorites)
	case ScreenConnections:
		if force {
			m.svc.Connections.Refresh()
		}
		cmd = LoadConnectionsCmd(m.svc.Connections)
	case ScreenNotifications:
		cmd = tea.Batch(LoadNotificationsCmd(m.svc.Notifications), UnreadCountCmd(m.svc.Notifications, m.logger))
	case ScreenAnalytics:
		cmd = LoadAnalyticsCmd(m.svc.Analytics, force)
	case ScreenRoommates:
		cmd = LoadRoommatesCmd(m.svc.Matching, roommateLimit)
	default:
		return nil
	}
	m.setLoading(s, true)
	return tea.Batch(cmd, m.spinner.Tick)
}

// setScreen switches tabs, closing the detail pane
func (m *Model) setScreen(s Screen) tea.Cmd {
	if s == m.Screen {
		return nil
	}
	m.Screen = s
	m.Detail.Hide()
	m.updateLayout()
	return m.loadScreen(s, false)
}

// openDetail shows what is known about l right away and loads the rest
func (m *Model) openDetail(l *domain.Listing) tea.Cmd {
	if l == nil {
		return nil
	}
	m.Detail.Show(components.DetailData{
		Listing:  l,
		IsOwner:  m.opts.SelfID != "" && l.OwnerID == m.opts.SelfID,
		Favorite: m.isFavorite(l.ID),
	})
	m.updateLayout()
	return LoadDetailCmd(m.svc, l.ID, m.opts.SelfID, m.logger)
}

// openDetailByID opens a listing known only by ID
func (m *Model) openDetailByID(id, title string) tea.Cmd {
	return m.openDetail(&domain.Listing{ID: id, Title: title})
}

func (m *Model) reloadDetail() tea.Cmd {
	l := m.Detail.Listing()
	if !m.Detail.IsVisible() || l == nil {
		return nil
	}
	return LoadDetailCmd(m.svc, l.ID, m.opts.SelfID, m.logger)
}

func (m *Model) refreshDetailFavorite() {
	if l := m.Detail.Listing(); l != nil {
		data := m.Detail.Data()
		data.Favorite = m.isFavorite(l.ID)
		m.Detail.SetData(data)
	}
}

// toggleFavorite flips the saved state locally and sends it
func (m *Model) toggleFavorite(l *domain.Listing) tea.Cmd {
	if l == nil || m.svc.Favorites == nil {
		return nil
	}
	saved := m.svc.Favorites.Begin(l.ID)
	m.refreshDetailFavorite()
	return CommitFavoriteCmd(m.svc.Favorites, l.ID, saved)
}

// openChat starts a conversation with peerID, replacing any open one
func (m *Model) openChat(peerID, peerName string) tea.Cmd {
	if m.opts.ChatDialer == nil || m.opts.ChatURL == nil {
		return m.setStatus("Tính năng trò chuyện chưa được cấu hình", true)
	}
	if peerID == "" || peerID == m.opts.SelfID {
		return nil
	}
	url, err := m.opts.ChatURL(peerID)
	if err != nil {
		return m.toastError(err, "mở trò chuyện")
	}

	closeCmd := m.closeChat()

	ctx, cancel := context.WithCancel(context.Background())
	hook := chat.NewHook(m.opts.ChatDialer, url, peerID, m.opts.SelfID, m.logger)
	m.chat = hook
	m.chatCancel = cancel

	if peerName == "" {
		peerName = "người dùng"
	}
	m.ChatPanel.Show(peerID, peerName)
	m.updateLayout()

	cmds := []tea.Cmd{closeCmd, ConnectChatCmd(ctx, hook), WaitChatCmd(hook)}
	if m.opts.ChatHistory != nil {
		cmds = append(cmds, LoadChatHistoryCmd(m.opts.ChatHistory, hook))
	}
	return tea.Batch(cmds...)
}

// closeChat ends the open conversation, if any
func (m *Model) closeChat() tea.Cmd {
	if m.chat == nil {
		return nil
	}
	hook := m.chat
	m.chatCancel()
	m.chat = nil
	m.chatCancel = nil
	m.ChatPanel.Hide()
	return CloseChatCmd(hook)
}

// showInput opens the shared input modal for purpose on target
func (m *Model) showInput(purpose inputPurpose, target string) tea.Cmd {
	m.inputPurpose = purpose
	m.inputTarget = target
	switch purpose {
	case inputConnect:
		m.InputModal.Show(components.Prompt{
			Title:       "Gửi yêu cầu kết nối",
			Hint:        "Lời nhắn cho chủ nhà (không bắt buộc)",
			Placeholder: "Chào anh/chị, em muốn xem phòng...",
			Limit:       300,
		})
	case inputReview:
		m.InputModal.Show(components.Prompt{
			Title:       "Đánh giá phòng",
			Hint:        "Số sao 1-5, sau đó là nhận xét",
			Placeholder: "5 Phòng sạch, chủ nhà thân thiện",
			Validate: func(text string) error {
				if _, _, ok := parseReview(text); !ok {
					return errors.New(reviewFormatText)
				}
				return nil
			},
		})
	case inputReport:
		m.InputModal.Show(components.Prompt{
			Title:       "Báo cáo tin đăng",
			Hint:        "Lý do báo cáo",
			Placeholder: "Tin giả, sai giá, lừa đảo...",
			Validate: func(text string) error {
				if text == "" {
					return errors.New(reportReasonText)
				}
				return nil
			},
		})
	}
	return nil
}

// submitInput acts on the text entered in the input modal
func (m *Model) submitInput(text string) tea.Cmd {
	purpose, target := m.inputPurpose, m.inputTarget
	m.inputPurpose = inputNone
	m.inputTarget = ""
	text = strings.TrimSpace(text)

	switch purpose {
	case inputConnect:
		return RequestConnectionCmd(m.svc.Connections, target, text)
	case inputReview:
		rating, comment, ok := parseReview(text)
		if !ok {
			return m.setStatus(reviewFormatText, true)
		}
		return CreateReviewCmd(m.svc.Reviews, domain.ReviewInput{ListingID: target, Rating: rating, Comment: comment})
	case inputReport:
		if text == "" {
			return m.setStatus(reportReasonText, true)
		}
		return CreateReportCmd(m.svc.Reports, domain.ReportInput{TargetType: "listing", TargetID: target, Reason: text})
	}
	return nil
}

const (
	reviewFormatText = "Đánh giá cần bắt đầu bằng số sao từ 1 đến 5"
	reportReasonText = "Vui lòng nhập lý do báo cáo"
)

// parseReview splits "4 nice room" into a rating and a comment
func parseReview(text string) (int, string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, "", false
	}
	r := text[0]
	if r < '1' || r > '5' {
		return 0, "", false
	}
	rest := text[1:]
	if rest != "" && rest[0] != ' ' {
		return 0, "", false
	}
	return int(r - '0'), strings.TrimSpace(rest), true
}

// Status line

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusSeq, m.cfg.ToastDuration())
}

func (m *Model) toast(text string) tea.Cmd {
	return m.setStatus(text, false)
}

func (m *Model) toastError(err error, context string) tea.Cmd {
	m.logger.Error("operation failed", "context", context, "error", err)
	text := api.UserMessage(err)
	if context != "" {
		text = "Không thể " + context + ": " + text
	}
	return m.setStatus(text, true)
}

// Loading state

func (m *Model) setLoading(s Screen, loading bool) {
	m.loading[s] = loading
	frame := m.spinner.View()
	switch s {
	case ScreenListings:
		m.Listings.SetLoading(loading, frame)
	case ScreenFavorites:
		m.Favorites.SetLoading(loading, frame)
	case ScreenConnections:
		m.Connections.SetLoading(loading, frame)
	case ScreenNotifications:
		m.Notifications.SetLoading(loading, frame)
	case ScreenRoommates:
		m.Roommates.SetLoading(loading, frame)
	}
}

func (m *Model) syncSpinner() {
	for s, loading := range m.loading {
		if loading {
			m.setLoading(s, true)
		}
	}
}

func (m *Model) clearLoading() {
	for s := range m.loading {
		m.setLoading(s, false)
	}
}

func (m Model) anyLoading() bool {
	for _, loading := range m.loading {
		if loading {
			return true
		}
	}
	return false
}

func (m Model) isFavorite(id string) bool {
	if m.svc.Favorites == nil {
		return false
	}
	return m.svc.Favorites.IsFavorite(id)
}

// favoriteListings unwraps saved listings, keeping a stub for favorites the
// backend returned without the listing expanded
func favoriteListings(favorites []*domain.Favorite) []*domain.Listing {
	listings := make([]*domain.Listing, 0, len(favorites))
	for _, f := range favorites {
		if f.Listing != nil {
			listings = append(listings, f.Listing)
			continue
		}
		listings = append(listings, &domain.Listing{ID: f.ListingID, Title: "Tin đăng #" + f.ListingID})
	}
	return listings
}

func countUnread(notifications []*domain.Notification) int {
	n := 0
	for _, item := range notifications {
		if !item.Read {
			n++
		}
	}
	return n
}

// listingIDFromLink extracts the listing ID from links like "/listings/42"
func listingIDFromLink(link string) (string, bool) {
	const prefix = "/listings/"
	if !strings.HasPrefix(link, prefix) {
		return "", false
	}
	id := strings.Trim(strings.TrimPrefix(link, prefix), "/")
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
