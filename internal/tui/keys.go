package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Screens
	Screen1  key.Binding
	Screen2  key.Binding
	Screen3  key.Binding
	Screen4  key.Binding
	Screen5  key.Binding
	Screen6  key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Enter    key.Binding
	Back     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Quit     key.Binding
	Help     key.Binding
	Escape   key.Binding
	Refresh  key.Binding
	Logout   key.Binding

	// Search
	Filter      key.Binding
	FilterPanel key.Binding
	Sort        key.Binding
	Map         key.Binding
	ClearFilter key.Binding

	// Listing actions
	Favorite key.Binding
	Connect  key.Binding
	Chat     key.Binding
	Review   key.Binding
	Report   key.Binding
	Photos   key.Binding
	MapLink  key.Binding

	// Connections and notifications
	Accept   key.Binding
	Reject   key.Binding
	MarkRead key.Binding
	ReadAll  key.Binding
	Delete   key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Screen1: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "phòng")),
		Screen2: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "yêu thích")),
		Screen3: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "kết nối")),
		Screen4: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "thông báo")),
		Screen5: key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "thống kê")),
		Screen6: key.NewBinding(key.WithKeys("6"), key.WithHelp("6", "ở ghép")),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "màn hình sau"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "màn hình trước"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter", "xem chi tiết"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "h", "left", "backspace"),
			key.WithHelp("esc", "quay lại"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "]"),
			key.WithHelp("n", "trang sau"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "["),
			key.WithHelp("p", "trang trước"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "thoát"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "trợ giúp"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "đóng"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "tải lại"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "đăng xuất"),
		),

		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "lọc nhanh"),
		),
		FilterPanel: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "bộ lọc"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sắp xếp"),
		),
		Map: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "chọn trên bản đồ"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "xóa bộ lọc"),
		),

		Favorite: key.NewBinding(
			key.WithKeys("*"),
			key.WithHelp("*", "lưu / bỏ lưu"),
		),
		Connect: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "gửi yêu cầu kết nối"),
		),
		Chat: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "nhắn tin"),
		),
		Review: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "đánh giá"),
		),
		Report: key.NewBinding(
			key.WithKeys("!"),
			key.WithHelp("!", "báo cáo"),
		),
		Photos: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "xem ảnh"),
		),
		MapLink: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "mở bản đồ"),
		),

		Accept: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "chấp nhận"),
		),
		Reject: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "từ chối / hủy"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "đánh dấu đã đọc"),
		),
		ReadAll: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "đọc tất cả"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete", "X"),
			key.WithHelp("X", "xóa"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "đồng ý"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "hủy"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
