package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/query"
	"github.com/phongtro/phongtro/internal/tui/styles"
)

// Number of reviews shown below the histogram
const recentReviews = 5

// DetailData is everything shown for one listing. Only Listing is required;
// the other parts are nil when they could not be loaded.
type DetailData struct {
	Listing    *domain.Listing
	Summary    *domain.ReviewSummary
	Reviews    []*domain.Review
	Connection *domain.ConnectionCheck
	IsOwner    bool
	Favorite   bool
}

// Detail displays a listing with its description, reviews and connection state
type Detail struct {
	data     DetailData
	visible  bool
	focused  bool
	viewport viewport.Model
	width    int
	height   int

	// glamour renderers are tied to a wrap width, rebuilt on resize
	renderer      *glamour.TermRenderer
	rendererWidth int
}

// NewDetail creates a hidden detail pane
func NewDetail() Detail {
	return Detail{viewport: viewport.New(40, 10), focused: true}
}

// Show opens the pane on data, scrolled to the top
func (d *Detail) Show(data DetailData) {
	d.visible = true
	d.data = data
	d.refresh()
	d.viewport.GotoTop()
}

// SetData replaces the content keeping the scroll position
func (d *Detail) SetData(data DetailData) {
	d.data = data
	d.refresh()
}

// Data returns what is currently shown
func (d Detail) Data() DetailData {
	return d.data
}

// Listing returns the listing shown, or nil
func (d Detail) Listing() *domain.Listing {
	return d.data.Listing
}

// Hide closes the pane
func (d *Detail) Hide() {
	d.visible = false
}

// IsVisible returns whether the pane is open
func (d Detail) IsVisible() bool {
	return d.visible
}

// SetFocused controls the border color
func (d *Detail) SetFocused(focused bool) {
	d.focused = focused
}

// SetSize sets the outer size including the border
func (d *Detail) SetSize(width, height int) {
	if width == d.width && height == d.height {
		return
	}
	d.width = width
	d.height = height
	d.viewport.Width = max(10, width-BorderWidth-2)
	d.viewport.Height = max(1, height-BorderHeight-1)
	d.refresh()
}

// Update scrolls the content
func (d Detail) Update(msg tea.Msg) (Detail, tea.Cmd) {
	if !d.visible {
		return d, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMsg.String() == "j" || keyMsg.String() == "down":
			d.viewport.ScrollDown(1)
			return d, nil
		case keyMsg.String() == "k" || keyMsg.String() == "up":
			d.viewport.ScrollUp(1)
			return d, nil
		case keyMsg.String() == "g" || keyMsg.String() == "home":
			d.viewport.GotoTop()
			return d, nil
		case keyMsg.String() == "G" || keyMsg.String() == "end":
			d.viewport.GotoBottom()
			return d, nil
		}
	}
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

// View renders the bordered pane
func (d Detail) View() string {
	style := styles.InactiveBorder
	if d.focused {
		style = styles.ActiveBorder
	}

	title := styles.AccentStyle.Render("Chi tiết")
	if d.viewport.TotalLineCount() > d.viewport.Height {
		title += styles.DimStyle.Render(fmt.Sprintf("  %d%%", int(d.viewport.ScrollPercent()*100)))
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(0, d.width-frameW)).
		Height(max(0, d.height-frameH)).
		Render(title + "\n" + d.viewport.View())
}

func (d *Detail) refresh() {
	if d.data.Listing == nil {
		d.viewport.SetContent(styles.DimStyle.Render("Chưa chọn phòng"))
		return
	}
	d.viewport.SetContent(RenderDetail(d.data, d.viewport.Width, d.markdown))
}

// markdown renders the description, falling back to wrapped plain text
func (d *Detail) markdown(text string, width int) string {
	if d.renderer == nil || d.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return styles.SubtitleStyle.Render(wordWrap(text, width))
		}
		d.renderer = r
		d.rendererWidth = width
	}
	out, err := d.renderer.Render(text)
	if err != nil {
		return styles.SubtitleStyle.Render(wordWrap(text, width))
	}
	return strings.Trim(out, "\n")
}

// RenderDetail lays out a listing. md renders the markdown description;
// nil renders it as wrapped plain text.
func RenderDetail(data DetailData, width int, md func(text string, width int) string) string {
	l := data.Listing
	width = max(width, 20)
	var sections []string

	// Header
	var header strings.Builder
	mark := ""
	if data.Favorite {
		mark = styles.ErrorStyle.Render("♥ ")
	}
	header.WriteString(mark + styles.TitleStyle.Render(wordWrap(l.Title, width-2)))
	if l.Verified {
		header.WriteString("\n" + styles.VerifiedBadge)
	}
	header.WriteString("\n" + styles.SubtitleStyle.Render(wordWrap(nonEmptyJoin(", ", l.Address, l.Ward, l.District, l.Province), width)))
	sections = append(sections, header.String())

	// Facts
	facts := []string{
		factLine("Giá thuê", styles.PriceStyle.Render(l.FormattedPrice()+"/tháng")),
	}
	if a := l.FormattedArea(); a != "" {
		facts = append(facts, factLine("Diện tích", a))
	}
	if per := l.PricePerM2(); per > 0 && l.Price > 0 {
		facts = append(facts, factLine("Giá/m²", domain.FormatVND(per)))
	}
	if l.Deposit > 0 {
		facts = append(facts, factLine("Đặt cọc", domain.FormatVND(l.Deposit)))
	}
	if dist := l.FormattedDistance(); dist != "" {
		facts = append(facts, factLine("Khoảng cách", dist))
	}
	if l.OwnerName != "" {
		facts = append(facts, factLine("Chủ nhà", l.OwnerName))
	}
	if l.ViewCount > 0 {
		facts = append(facts, factLine("Lượt xem", fmt.Sprintf("%d", l.ViewCount)))
	}
	sections = append(sections, strings.Join(facts, "\n"))

	if tags := flagLabels(l.Amenities); len(tags) > 0 {
		sections = append(sections, styles.SubtitleStyle.Render("Tiện ích")+"\n"+renderTags(tags, width))
	}
	if tags := flagLabels(l.Rules); len(tags) > 0 {
		sections = append(sections, styles.SubtitleStyle.Render("Quy định")+"\n"+renderTags(tags, width))
	}

	if desc := strings.TrimSpace(l.Description); desc != "" {
		body := styles.SubtitleStyle.Render(wordWrap(desc, width))
		if md != nil {
			body = md(desc, width)
		}
		sections = append(sections, styles.SubtitleStyle.Render("Mô tả")+"\n"+body)
	}

	sections = append(sections, renderContact(data, width))

	if data.Summary != nil {
		sections = append(sections, renderReviews(*data.Summary, data.Reviews, width))
	}

	sections = append(sections, styles.DimStyle.Render(wordWrap(detailHints(data), width)))

	return strings.Join(sections, "\n\n")
}

func factLine(label, value string) string {
	return styles.DimStyle.Render(styles.Pad(label, 13)) + value
}

func renderContact(data DetailData, width int) string {
	l := data.Listing
	var lines []string
	lines = append(lines, styles.SubtitleStyle.Render("Liên hệ"))

	switch status := connectionStatus(data); {
	case data.IsOwner:
		lines = append(lines, styles.DimStyle.Render("Đây là tin đăng của bạn"))
	case status == domain.ConnectionAccepted || l.HasContact():
		if l.ContactPhone != "" {
			lines = append(lines, factLine("Điện thoại", styles.SuccessStyle.Render(l.ContactPhone)))
		}
		if l.ContactEmail != "" {
			lines = append(lines, factLine("Email", styles.SuccessStyle.Render(l.ContactEmail)))
		}
		if !l.HasContact() {
			lines = append(lines, styles.DimStyle.Render("Chủ nhà đã chấp nhận, tải lại để xem liên hệ"))
		}
	case status == domain.ConnectionPending:
		lines = append(lines, styles.AccentStyle.Render("● "+status.String()),
			styles.DimStyle.Render(wordWrap("Thông tin liên hệ sẽ hiện khi chủ nhà chấp nhận yêu cầu", width)))
	case status != "":
		lines = append(lines, styles.ErrorStyle.Render("● "+status.String()),
			styles.DimStyle.Render("x gửi lại yêu cầu kết nối"))
	case data.Connection == nil:
		lines = append(lines, styles.DimStyle.Render("Không kiểm tra được trạng thái kết nối"))
	default:
		lines = append(lines, styles.DimStyle.Render(wordWrap("Chưa kết nối. Nhấn x để gửi yêu cầu xem liên hệ", width)))
	}
	return strings.Join(lines, "\n")
}

func connectionStatus(data DetailData) domain.ConnectionStatus {
	if data.Connection == nil {
		return ""
	}
	return data.Connection.Status()
}

func renderReviews(s domain.ReviewSummary, reviews []*domain.Review, width int) string {
	var lines []string
	lines = append(lines, styles.SubtitleStyle.Render("Đánh giá"))
	lines = append(lines, styles.StarStyle.Render(s.Stars())+" "+s.Label())

	if s.Count > 0 {
		peak := 0
		for _, n := range s.Histogram {
			peak = max(peak, n)
		}
		barWidth := min(24, max(6, width-14))
		for star := 5; star >= 1; star-- {
			n := s.Histogram[star-1]
			lines = append(lines, fmt.Sprintf("%d★ %s %s", star, styles.Bar(n, peak, barWidth), styles.DimStyle.Render(fmt.Sprintf("%d", n))))
		}
	}

	for i, r := range reviews {
		if i == recentReviews {
			lines = append(lines, styles.DimStyle.Render(fmt.Sprintf("… và %d đánh giá khác", len(reviews)-recentReviews)))
			break
		}
		who := r.UserName
		if who == "" {
			who = "Ẩn danh"
		}
		head := styles.StarStyle.Render(strings.Repeat("★", r.Rating)) + " " + styles.TitleStyle.Render(who)
		if !r.CreatedAt.IsZero() {
			head += styles.DimStyle.Render(" · " + r.CreatedAt.Local().Format("02/01/2006"))
		}
		lines = append(lines, "", head)
		if c := strings.TrimSpace(r.Comment); c != "" {
			lines = append(lines, styles.SubtitleStyle.Render(wordWrap(c, width)))
		}
	}
	return strings.Join(lines, "\n")
}

func detailHints(data DetailData) string {
	hints := []string{"* lưu"}
	if !data.IsOwner {
		if s := connectionStatus(data); s == "" || s == domain.ConnectionRejected || s == domain.ConnectionCancelled {
			hints = append(hints, "x kết nối")
		}
		hints = append(hints, "t nhắn tin", "v đánh giá")
	}
	if len(data.Listing.Images) > 0 {
		hints = append(hints, "o xem ảnh")
	}
	if _, ok := data.Listing.Coordinates(); ok {
		hints = append(hints, "w bản đồ")
	}
	hints = append(hints, "! báo cáo", "r tải lại", "esc quay lại")
	return strings.Join(hints, " · ")
}

func flagLabels(keys []string) []string {
	labels := make([]string, 0, len(keys))
	for _, k := range keys {
		if label, ok := query.FlagLabel(k); ok {
			labels = append(labels, label)
		} else if k != "" {
			labels = append(labels, k)
		}
	}
	return labels
}

// renderTags flows badges across lines no wider than width
func renderTags(tags []string, width int) string {
	var lines []string
	var line string
	for _, t := range tags {
		tag := styles.DimBadgeStyle.Render(t)
		if line != "" && lipgloss.Width(line)+1+lipgloss.Width(tag) > width {
			lines = append(lines, line)
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += tag
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func nonEmptyJoin(sep string, parts ...string) string {
	return strings.Join(nonEmpty(parts), sep)
}

// wordWrap wraps text to the specified width, keeping paragraph breaks
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	paragraphs := strings.Split(text, "\n")
	for p, para := range paragraphs {
		var result strings.Builder
		lineLen := 0
		for _, word := range strings.Fields(para) {
			wordLen := lipgloss.Width(word)
			if lineLen > 0 && lineLen+wordLen+1 > width {
				result.WriteString("\n")
				lineLen = 0
			}
			if lineLen > 0 {
				result.WriteString(" ")
				lineLen++
			}
			result.WriteString(word)
			lineLen += wordLen
		}
		paragraphs[p] = result.String()
	}
	return strings.Join(paragraphs, "\n")
}
