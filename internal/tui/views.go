package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Đang tải..."
	}

	// Handle modal states
	if m.State == StateHelp {
		return m.renderHelp()
	}

	if m.State == StateConfirmLogout {
		return m.renderLogoutConfirmation()
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTabs(),
		m.renderContextLine(),
		m.renderContent(),
		m.renderFooter(),
	)

	// Overlays, topmost last
	var overlay string
	switch {
	case m.ChatPanel.IsVisible():
		overlay = m.ChatPanel.View()
	case m.MapPicker.IsVisible():
		overlay = m.MapPicker.View()
	case m.FilterPanel.IsVisible():
		overlay = m.FilterPanel.View()
	case m.SortModal.IsVisible():
		overlay = m.SortModal.View()
	case m.InputModal.IsVisible():
		overlay = m.InputModal.View()
	}
	if overlay != "" {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			overlay)
	}

	return view
}

// renderTabs renders the screen tabs with the unread badge
func (m Model) renderTabs() string {
	tabs := make([]string, 0, screenCount)
	for s := ScreenListings; s < screenCount; s++ {
		label := fmt.Sprintf("%d %s", int(s)+1, s)
		if s == ScreenNotifications && m.Unread > 0 {
			label += fmt.Sprintf(" (%d)", m.Unread)
		}
		if s == m.Screen {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(label))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	if who := m.cfg.Server.Username; who != "" {
		right := styles.DimStyle.Render(who)
		gap := m.Width - lipgloss.Width(line) - lipgloss.Width(right) - 1
		if gap > 0 {
			line += strings.Repeat(" ", gap) + right
		}
	}
	return line
}

// renderContextLine shows what the current screen is looking at
func (m Model) renderContextLine() string {
	var text string
	switch m.Screen {
	case ScreenListings:
		summary := m.Filter.Summary()
		if summary == "" {
			summary = "Tất cả phòng"
		}
		parts := []string{summary, m.Sort.String()}
		if m.Page != nil {
			parts = append(parts, fmt.Sprintf("Trang %d/%d", m.Filter.Page, m.Page.TotalPages()))
		}
		text = strings.Join(parts, " · ")
	case ScreenFavorites:
		text = fmt.Sprintf("%d phòng đã lưu", m.Favorites.Len())
	case ScreenConnections:
		text = "Yêu cầu gửi đến tin của bạn và yêu cầu bạn đã gửi"
	case ScreenNotifications:
		text = fmt.Sprintf("%d chưa đọc", m.Unread)
	case ScreenAnalytics:
		text = "Thị trường phòng trọ"
	case ScreenRoommates:
		text = "Xếp theo mức độ phù hợp với hồ sơ của bạn"
	}
	return styles.DimStyle.Render(styles.Truncate(text, m.Width))
}

// renderContent renders the body of the current screen
func (m Model) renderContent() string {
	switch m.Screen {
	case ScreenListings, ScreenFavorites:
		list := m.Listings
		if m.Screen == ScreenFavorites {
			list = m.Favorites
		}
		layout := m.calculateColumnLayout(m.Width)
		switch {
		case layout.listWidth > 0 && layout.detailWidth > 0:
			return lipgloss.JoinHorizontal(lipgloss.Top, list.View(), m.Detail.View())
		case layout.detailWidth > 0:
			return m.Detail.View()
		default:
			return list.View()
		}
	case ScreenConnections:
		return m.Connections.View()
	case ScreenNotifications:
		return m.Notifications.View()
	case ScreenAnalytics:
		return m.renderAnalytics()
	case ScreenRoommates:
		return m.Roommates.View()
	}
	return ""
}

// renderAnalytics renders the market dashboard
func (m Model) renderAnalytics() string {
	height := max(m.Height-ChromeHeight, 1)
	frameW, frameH := styles.ActiveBorder.GetFrameSize()
	box := styles.ActiveBorder.
		Width(max(0, m.Width-frameW)).
		Height(max(0, height-frameH))

	if m.loading[ScreenAnalytics] && m.Dashboard == nil {
		return box.Render(styles.DimStyle.Render(m.spinner.View() + " Đang tải thống kê..."))
	}
	if m.Dashboard == nil {
		return box.Render(styles.DimStyle.Render("Chưa có dữ liệu thống kê. Nhấn r để tải"))
	}

	d := m.Dashboard
	width := max(m.Width-frameW-2, 20)
	var b strings.Builder

	o := d.Overview
	b.WriteString(styles.TitleStyle.Render("Tổng quan"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		stat("Tin đăng", fmt.Sprintf("%d", o.TotalListings)),
		stat("Đang hiển thị", fmt.Sprintf("%d", o.ActiveListings)),
		stat("Mới tuần này", fmt.Sprintf("%d", o.NewThisWeek))))
	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		stat("Giá trung bình", domain.FormatVND(o.AveragePrice)),
		stat("Giá trung vị", domain.FormatVND(o.MedianPrice)),
		stat("Diện tích TB", fmt.Sprintf("%.0f m²", o.AverageArea))))
	b.WriteString(fmt.Sprintf("%s  %s\n\n",
		stat("Đã xác minh", percent(o.VerifiedRatio)),
		stat("Tỷ lệ kết nối", percent(o.ConnectionsRate))))

	b.WriteString(styles.TitleStyle.Render("Phân bố giá"))
	b.WriteString("\n")
	rows := make([]styles.BarRow, 0, len(d.Distribution))
	for _, bucket := range d.Distribution {
		rows = append(rows, styles.BarRow{Label: bucket.Label, Value: bucket.Count})
	}
	b.WriteString(styles.BarChart(rows, width))
	b.WriteString("\n\n")

	b.WriteString(styles.TitleStyle.Render("Theo quận"))
	b.WriteString("\n")
	rows = make([]styles.BarRow, 0, len(d.Districts))
	for _, ds := range d.Districts {
		rows = append(rows, styles.BarRow{
			Label: ds.District,
			Value: ds.Count,
			Note:  domain.FormatVND(ds.AveragePrice),
		})
	}
	b.WriteString(styles.BarChart(rows, width))

	if len(d.Trend) > 0 {
		values := make([]float64, len(d.Trend))
		for i, p := range d.Trend {
			values[i] = float64(p.AveragePrice)
		}
		first, last := d.Trend[0], d.Trend[len(d.Trend)-1]
		b.WriteString("\n\n")
		b.WriteString(styles.TitleStyle.Render("Xu hướng giá"))
		b.WriteString("\n")
		b.WriteString(styles.Sparkline(values))
		b.WriteString("  ")
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%s → %s  (%s → %s)",
			first.Period.Format("01/2006"), last.Period.Format("01/2006"),
			domain.FormatVND(first.AveragePrice), domain.FormatVND(last.AveragePrice))))
	}

	return box.Render(b.String())
}

func stat(label, value string) string {
	return styles.DimStyle.Render(label+": ") + styles.PriceStyle.Render(value)
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

// listingsTitle is the header of the search results column
func (m Model) listingsTitle() string {
	if m.Page == nil || m.loading[ScreenListings] {
		return "Phòng trọ"
	}
	return fmt.Sprintf("Phòng trọ · %d kết quả", m.Page.Total)
}

// renderConnectionRow renders one connection request in two lines
func renderConnectionRow(row connectionRow, selected bool, width int) string {
	style := styles.NormalItemStyle
	if selected {
		style = styles.SelectedItemStyle
	}
	c := row.Conn

	direction := styles.AccentStyle.Render("→")
	who := c.OwnerName
	if row.Incoming {
		direction = styles.SuccessStyle.Render("←")
		who = c.RenterName
	}

	var status string
	switch c.Status {
	case domain.ConnectionAccepted:
		status = styles.SuccessStyle.Render(c.Status.String())
	case domain.ConnectionRejected, domain.ConnectionCancelled:
		status = styles.ErrorStyle.Render(c.Status.String())
	default:
		status = styles.AccentStyle.Render(c.Status.String())
	}

	inner := max(width-2, 10)
	title := styles.Truncate(c.ListingTitle, inner-lipgloss.Width(status)-4)
	line1 := direction + " " + title + " " + status

	meta := []string{who, ago(c.CreatedAt)}
	if c.Message != "" {
		meta = append(meta, "“"+c.Message+"”")
	}
	line2 := styles.DimStyle.Render(styles.Truncate("  "+strings.Join(nonBlank(meta), " · "), inner))

	return style.Width(width).Render(line1 + "\n" + line2)
}

// renderNotificationRow renders one notification in two lines
func renderNotificationRow(n *domain.Notification, selected bool, width int) string {
	style := styles.NormalItemStyle
	if selected {
		style = styles.SelectedItemStyle
	}

	inner := max(width-2, 10)
	when := styles.DimStyle.Render(ago(n.CreatedAt))
	dot := " "
	title := styles.Truncate(n.Title, inner-lipgloss.Width(when)-3)
	if !n.Read {
		dot = styles.AccentStyle.Render("●")
		title = styles.TitleStyle.Render(title)
	}
	line1 := dot + " " + title + " " + when
	line2 := styles.DimStyle.Render(styles.Truncate("  "+n.Body, inner))

	return style.Width(width).Render(line1 + "\n" + line2)
}

// renderRoommateRow renders one roommate suggestion in three lines
func renderRoommateRow(match *domain.RoommateMatch, selected bool, width int) string {
	style := styles.NormalItemStyle
	if selected {
		style = styles.SelectedItemStyle
	}
	p := match.Profile
	inner := max(width-2, 10)

	name := p.Name
	if p.Age > 0 {
		name = fmt.Sprintf("%s, %d", name, p.Age)
	}
	score := styles.PriceStyle.Render(fmt.Sprintf("%.0f%%", match.Score))
	line1 := score + " " + styles.Truncate(name, inner-8)

	habits := []string{p.Occupation, "Ngân sách " + p.BudgetLabel()}
	if len(p.PreferredDistricts) > 0 {
		habits = append(habits, strings.Join(p.PreferredDistricts, ", "))
	}
	line2 := styles.DimStyle.Render(styles.Truncate("  "+strings.Join(nonBlank(habits), " · "), inner))

	reasons := "  " + strings.Join(match.Reasons, " · ")
	line3 := styles.SubtitleStyle.Render(styles.Truncate(reasons, inner))

	return style.Width(width).Render(line1 + "\n" + line2 + "\n" + line3)
}

func nonBlank(parts []string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// ago renders a coarse relative time such as "3 giờ trước"
func ago(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "vừa xong"
	case d < time.Hour:
		return fmt.Sprintf("%d phút trước", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d giờ trước", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%d ngày trước", int(d.Hours()/24))
	default:
		return t.Format("02/01/2006")
	}
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: spinner while loading, otherwise the status message
	var left string
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.SuccessStyle.Render(m.StatusMsg)
		}
	} else if m.anyLoading() {
		left = m.spinner.View() + " " + styles.DimStyle.Render("Đang tải...")
	}

	// Center section: hints for the current screen
	center := m.footerHints()

	// Right side: "? help" hint
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" trợ giúp")

	// Layout: left + centered hints + right
	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	totalContent := leftWidth + centerWidth + rightWidth
	if totalContent >= m.Width {
		// Not enough space - just left + right
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	// Center the hints in available space
	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

func (m Model) footerHints() string {
	hint := func(k, desc string) string {
		return styles.AccentStyle.Render(k) + styles.DimStyle.Render(" "+desc)
	}

	var hints []string
	switch {
	case m.Detail.IsVisible():
		hints = []string{hint("*", "lưu"), hint("x", "kết nối"), hint("t", "nhắn tin"), hint("esc", "đóng")}
	case m.Screen == ScreenListings:
		hints = []string{hint("f", "bộ lọc"), hint("s", "sắp xếp"), hint("m", "bản đồ"), hint("n/p", "trang")}
	case m.Screen == ScreenConnections:
		hints = []string{hint("a", "chấp nhận"), hint("d", "từ chối/hủy"), hint("t", "nhắn tin")}
	case m.Screen == ScreenNotifications:
		hints = []string{hint("enter", "đã đọc"), hint("M", "đọc tất cả"), hint("X", "xóa")}
	case m.Screen == ScreenRoommates:
		hints = []string{hint("t", "nhắn tin")}
	}
	return strings.Join(hints, "  ")
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
DI CHUYỂN                       TIN ĐĂNG
  j/k        Lên/xuống             Enter  Xem chi tiết
  g/G        Đầu/cuối              *      Lưu / bỏ lưu
  Ctrl+u/d   Nửa trang             x      Gửi yêu cầu kết nối
  1-6, Tab   Đổi màn hình          t      Nhắn tin với chủ nhà
  n/p        Trang sau/trước       v      Đánh giá
                                   !      Báo cáo
                                   o      Xem ảnh
                                   w      Mở bản đồ

TÌM KIẾM                        KẾT NỐI & THÔNG BÁO
  /          Lọc nhanh             a      Chấp nhận
  f          Bộ lọc                d      Từ chối / hủy
  s          Sắp xếp               M      Đọc tất cả
  m          Chọn trên bản đồ      X      Xóa thông báo
  c          Xóa bộ lọc

KHÁC
  r          Tải lại               L      Đăng xuất
  q          Thoát                 Esc    Đóng / hủy

Nhấn phím bất kỳ để quay lại...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// renderLogoutConfirmation renders the logout confirmation modal
func (m Model) renderLogoutConfirmation() string {
	modal := `
              Đăng xuất?

  Phiên đăng nhập và dữ liệu đã lưu
  trên máy này sẽ bị xóa.

        [Y] Đồng ý      [N] Hủy
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(modal))
}
