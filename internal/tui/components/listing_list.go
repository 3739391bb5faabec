package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/search"
	"github.com/phongtro/phongtro/internal/tui/styles"
)

// Layout constants for listing lists
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ còn nữa" and "↓ còn nữa") each take 1 line
	ScrollIndicatorLines = 2

	// Each card is three lines plus a blank separator
	CardHeight = 4
)

// EmptyListingsText is shown when a search returns nothing
const EmptyListingsText = "Không tìm thấy phòng phù hợp"

// ListingList is a scrollable list of listing cards with a local quick filter
type ListingList struct {
	listings []*domain.Listing
	index    *search.Index

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title     string
	emptyText string

	loading bool
	spinner string

	isFavorite func(id string) bool

	// Filter state; results is nil when no filter query is set
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	results      []search.Result
}

// NewListingList creates an empty list with the given title
func NewListingList(title string) ListingList {
	ti := textinput.New()
	ti.Placeholder = "gõ để lọc trang này..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return ListingList{
		title:       title,
		emptyText:   EmptyListingsText,
		filterInput: ti,
		focused:     true,
	}
}

// SetListings replaces the items. The cursor resets and an active filter
// query is applied to the new items.
func (c *ListingList) SetListings(listings []*domain.Listing) {
	c.loading = false
	c.listings = listings
	c.index = search.NewIndex(listings)
	c.cursor = 0
	c.offset = 0
	c.applyFilter()
}

// Listings returns every item, ignoring the quick filter
func (c ListingList) Listings() []*domain.Listing {
	return c.listings
}

// SetFavoriteLookup sets the function used to mark saved listings
func (c *ListingList) SetFavoriteLookup(fn func(id string) bool) {
	c.isFavorite = fn
}

// SetTitle sets the header line
func (c *ListingList) SetTitle(title string) {
	c.title = title
}

// SetEmptyText sets the text shown when there are no items
func (c *ListingList) SetEmptyText(text string) {
	c.emptyText = text
}

// SetLoading shows a spinner line instead of the items
func (c *ListingList) SetLoading(loading bool, spinner string) {
	c.loading = loading
	c.spinner = spinner
}

// SetFocused controls whether keys are handled
func (c *ListingList) SetFocused(focused bool) {
	c.focused = focused
}

// SetSize sets the outer size including the border
func (c *ListingList) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

// Len returns the number of visible items (after the quick filter)
func (c ListingList) Len() int {
	if c.results != nil {
		return len(c.results)
	}
	return len(c.listings)
}

// Selected returns the listing under the cursor
func (c ListingList) Selected() *domain.Listing {
	if c.cursor >= c.Len() {
		return nil
	}
	if c.results != nil {
		return c.results[c.cursor].Listing
	}
	return c.listings[c.cursor]
}

// Select moves the cursor to the listing with id, if visible
func (c *ListingList) Select(id string) {
	for i := 0; i < c.Len(); i++ {
		if c.at(i).Listing.ID == id {
			c.cursor = i
			c.ensureVisible()
			return
		}
	}
}

// ToggleFilter activates the quick filter input
func (c *ListingList) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFiltering returns true if the quick filter is active
func (c ListingList) IsFiltering() bool {
	return c.filterActive
}

// IsFilterTyping returns true if the filter is active and its input focused
func (c ListingList) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the quick filter and shows all items
func (c *ListingList) ClearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.results = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
}

// Update handles navigation and quick filter typing
func (c ListingList) Update(msg tea.Msg) (ListingList, tea.Cmd) {
	if !c.focused {
		return c, nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)

	// Typing mode: keys go to the filter input
	if c.IsFilterTyping() {
		if isKey {
			switch {
			case key.Matches(keyMsg, ListKeys.Escape):
				c.ClearFilter()
				return c, nil
			case key.Matches(keyMsg, ListKeys.Enter):
				// Accept filter, blur input to allow navigation
				c.filterInput.Blur()
				return c, nil
			case keyMsg.String() == "backspace" && c.filterInput.Value() == "":
				c.ClearFilter()
				return c, nil
			}
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		if c.filterInput.Value() != c.filterQuery {
			c.applyFilter()
		}
		return c, cmd
	}

	if !isKey {
		return c, nil
	}

	// Filter active but blurred: navigation over the results
	if c.filterActive {
		switch {
		case key.Matches(keyMsg, ListKeys.Escape):
			c.ClearFilter()
			return c, nil
		case key.Matches(keyMsg, ListKeys.Filter):
			c.filterInput.Focus()
			return c, nil
		}
	}

	count := c.Len()
	if count == 0 {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, ListKeys.Down):
		if c.cursor < count-1 {
			c.cursor++
			c.ensureVisible()
		}
	case key.Matches(keyMsg, ListKeys.Up):
		if c.cursor > 0 {
			c.cursor--
			c.ensureVisible()
		}
	case key.Matches(keyMsg, ListKeys.Home):
		c.cursor = 0
		c.offset = 0
	case key.Matches(keyMsg, ListKeys.End):
		c.cursor = count - 1
		c.ensureVisible()
	case key.Matches(keyMsg, ListKeys.HalfDown):
		c.cursor = min(count-1, c.cursor+max(1, c.maxVisible/2))
		c.ensureVisible()
	case key.Matches(keyMsg, ListKeys.HalfUp):
		c.cursor = max(0, c.cursor-max(1, c.maxVisible/2))
		c.ensureVisible()
	}
	return c, nil
}

// View renders the bordered list
func (c ListingList) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(0, c.width-frameW)).
		Height(max(0, c.height-frameH)).
		Render(c.renderContent())
}

func (c *ListingList) recalcMaxVisible() {
	// Interior minus title line and scroll indicators
	interior := c.height - BorderHeight - ScrollIndicatorLines - 1
	if c.filterActive {
		interior--
	}
	c.maxVisible = max(1, interior/CardHeight)
}

func (c *ListingList) ensureVisible() {
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *ListingList) applyFilter() {
	query := strings.TrimSpace(c.filterInput.Value())
	c.filterQuery = c.filterInput.Value()

	if query == "" || c.index == nil {
		c.results = nil
	} else {
		c.results = c.index.Filter(query)
	}
	c.cursor = 0
	c.offset = 0
}

// at returns item i of the visible items as a search result
func (c ListingList) at(i int) search.Result {
	if c.results != nil {
		return c.results[i]
	}
	return search.Result{Listing: c.listings[i], Index: i}
}

// Rendering

func (c ListingList) renderContent() string {
	itemWidth := max(c.width-BorderWidth, 20)

	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	if c.loading {
		loadingLine := styles.DimStyle.Render(c.spinner + " Đang tải...")
		return titleLine + "\n \n" + loadingLine
	}

	count := c.Len()
	if count == 0 {
		empty := c.emptyText
		if c.filterActive && c.filterQuery != "" {
			empty = "Không có kết quả khớp"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(empty)
		if c.filterActive {
			content += "\n\n" + c.renderFilterBar()
		}
		return content
	}

	end := min(count, c.offset+c.maxVisible)

	var cards []string
	for i := c.offset; i < end; i++ {
		cards = append(cards, c.renderCard(c.at(i), i == c.cursor, itemWidth))
	}

	// Always reserve the indicator lines to prevent layout shifts
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ còn nữa")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ còn nữa")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(cards, "\n\n") + "\n" + footer
	if c.filterActive {
		content += "\n" + c.renderFilterBar()
	}
	return content
}

func (c ListingList) renderCard(r search.Result, selected bool, width int) string {
	l := r.Listing

	markFg := styles.Red
	mark := "  "
	if c.isFavorite != nil && c.isFavorite(l.ID) {
		mark = "♥ "
	}

	// Line 1: favorite mark, title, verified mark
	titleRoom := width - 4
	var verified []styles.RowPart
	if l.Verified {
		green := styles.Green
		verified = []styles.RowPart{{Text: " ✓", Foreground: &green, Bold: true}}
		titleRoom -= 2
	}
	line1 := []styles.RowPart{{Text: mark, Foreground: &markFg}}
	line1 = append(line1, styles.HighlightParts(styles.Truncate(l.Title, max(titleRoom, 5)), r.TitleMatches, nil)...)
	for i := range line1[1:] {
		if line1[1+i].Foreground == nil {
			line1[1+i].Bold = true
		}
	}
	line1 = append(line1, verified...)

	// Line 2: price, area, distance
	accent := styles.Accent
	dim := styles.LightGray
	facts := []string{l.FormattedArea()}
	if d := l.FormattedDistance(); d != "" {
		facts = append(facts, "cách "+d)
	}
	line2 := []styles.RowPart{
		{Text: "  "},
		{Text: l.FormattedPrice() + "/tháng", Foreground: &accent, Bold: true},
	}
	if facts = nonEmpty(facts); len(facts) > 0 {
		line2 = append(line2, styles.RowPart{Text: " · " + strings.Join(facts, " · "), Foreground: &dim})
	}

	// Line 3: address
	address := l.Address
	matches := r.AddressMatches
	if address == "" {
		address = l.Location()
		matches = nil
	}
	line3 := append([]styles.RowPart{{Text: "  "}},
		styles.HighlightParts(styles.Truncate(address, max(width-4, 5)), matches, &dim)...)

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.RenderListRow(line1, selected, width),
		styles.RenderListRow(line2, selected, width),
		styles.RenderListRow(line3, selected, width),
	)
}

func (c ListingList) renderFilterBar() string {
	bar := c.filterInput.View()
	if c.filterQuery != "" {
		bar += styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", c.Len(), len(c.listings)))
	}
	return bar
}

func nonEmpty(parts []string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
