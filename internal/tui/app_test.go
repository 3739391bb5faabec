package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/query"
	"github.com/phongtro/phongtro/internal/tui/components"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(Services{}, Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func testPage(n int) *domain.ListingPage {
	items := make([]*domain.Listing, n)
	for i := range items {
		items[i] = &domain.Listing{ID: fmt.Sprint(i + 1), Title: fmt.Sprintf("Phòng %d", i+1), Price: int64(i+1) * 1_000_000}
	}
	return &domain.ListingPage{Items: items, Total: n, Page: 1, Limit: 20}
}

func TestSearchResults(t *testing.T) {
	t.Run("current search fills the list", func(t *testing.T) {
		m := newTestModel(t)
		m.pendingKey = searchKey(m.Filter, m.Sort)

		next, _ := m.Update(ListingsLoadedMsg{Page: testPage(3), Key: m.pendingKey})
		m = next.(Model)

		assert.Equal(t, 3, m.Listings.Len())
		require.NotNil(t, m.Page)
		assert.Equal(t, 3, m.Page.Total)
	})

	t.Run("stale result is dropped", func(t *testing.T) {
		m := newTestModel(t)
		m.pendingKey = searchKey(m.Filter, m.Sort)

		next, _ := m.Update(ListingsLoadedMsg{Page: testPage(3), Key: "outdated"})
		m = next.(Model)

		assert.Zero(t, m.Listings.Len())
		assert.Nil(t, m.Page)
	})

	t.Run("error shows a toast and keeps the old page", func(t *testing.T) {
		m := newTestModel(t)
		m.pendingKey = searchKey(m.Filter, m.Sort)
		next, _ := m.Update(ListingsLoadedMsg{Page: testPage(2), Key: m.pendingKey})
		m = next.(Model)

		next, cmd := m.Update(ListingsLoadedMsg{Key: m.pendingKey, Err: domain.ErrServerOffline})
		m = next.(Model)

		assert.NotNil(t, cmd)
		assert.True(t, m.StatusIsErr)
		assert.True(t, strings.HasPrefix(m.StatusMsg, "Không thể tìm phòng"), m.StatusMsg)
		assert.Equal(t, 2, m.Listings.Len())
	})
}

func TestStatusClearsOnlyItsOwnToast(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(StatusMsg{Message: "Đã lưu phòng"})
	m = next.(Model)
	first := m.statusSeq

	next, _ = m.Update(StatusMsg{Message: "Đã gửi yêu cầu"})
	m = next.(Model)

	next, _ = m.Update(ClearStatusMsg{Seq: first})
	m = next.(Model)
	assert.Equal(t, "Đã gửi yêu cầu", m.StatusMsg)

	next, _ = m.Update(ClearStatusMsg{Seq: m.statusSeq})
	m = next.(Model)
	assert.Empty(t, m.StatusMsg)
}

func TestErrMsgClearsLoading(t *testing.T) {
	m := newTestModel(t)
	m.setLoading(ScreenListings, true)
	require.True(t, m.anyLoading())

	next, _ := m.Update(ErrMsg{Err: errors.New("boom"), Context: "tải thông báo"})
	m = next.(Model)

	assert.False(t, m.anyLoading())
	assert.True(t, m.StatusIsErr)
	assert.Contains(t, m.StatusMsg, "tải thông báo")
}

func TestHelpAndLogoutStates(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "?")
	assert.Equal(t, StateHelp, m.State)
	assert.NotEmpty(t, m.View())
	m = press(t, m, "x")
	assert.Equal(t, StateBrowsing, m.State)

	m = press(t, m, "L")
	assert.Equal(t, StateConfirmLogout, m.State)
	m = press(t, m, "n")
	assert.Equal(t, StateBrowsing, m.State)
}

func TestSortModalStartsNewSearch(t *testing.T) {
	m := newTestModel(t)
	m.Filter = m.Filter.WithPage(3)
	before := m.pendingKey

	m = press(t, m, "s")
	require.True(t, m.SortModal.IsVisible())

	m = press(t, m, "j", "enter")
	assert.False(t, m.SortModal.IsVisible())
	assert.Equal(t, query.Sort{Field: query.SortPrice, Direction: query.SortAsc}, m.Sort)
	assert.Equal(t, 1, m.Filter.Page)
	assert.NotEqual(t, before, m.pendingKey)
	assert.True(t, m.loading[ScreenListings])
}

func TestPagingStopsAtBounds(t *testing.T) {
	m := newTestModel(t)
	m.pendingKey = searchKey(m.Filter, m.Sort)
	next, _ := m.Update(ListingsLoadedMsg{Page: testPage(3), Key: m.pendingKey})
	m = next.(Model)

	// A single page: neither direction moves
	m = press(t, m, "n")
	assert.Equal(t, 1, m.Filter.Page)
	m = press(t, m, "p")
	assert.Equal(t, 1, m.Filter.Page)
}

func TestMapWithoutGeocoder(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "m")
	assert.False(t, m.MapPicker.IsVisible())
	assert.True(t, m.StatusIsErr)
}

func TestDetailLayout(t *testing.T) {
	m := newTestModel(t)
	m.pendingKey = searchKey(m.Filter, m.Sort)
	next, _ := m.Update(ListingsLoadedMsg{Page: testPage(2), Key: m.pendingKey})
	m = next.(Model)

	assert.Equal(t, columnLayout{listWidth: 120}, m.calculateColumnLayout(120))

	m = press(t, m, "enter")
	require.True(t, m.Detail.IsVisible())
	assert.Equal(t, "1", m.Detail.Listing().ID)
	assert.Equal(t, columnLayout{listWidth: 48, detailWidth: 72}, m.calculateColumnLayout(120))
	assert.Equal(t, columnLayout{detailWidth: 80}, m.calculateColumnLayout(80))

	// Detail for another listing is ignored
	next, _ = m.Update(DetailLoadedMsg{Data: detailData("2")})
	m = next.(Model)
	assert.Equal(t, "Phòng 1", m.Detail.Listing().Title)

	m = press(t, m, "esc")
	assert.False(t, m.Detail.IsVisible())
}

func TestScreenSwitchClosesDetail(t *testing.T) {
	m := newTestModel(t)
	m.pendingKey = searchKey(m.Filter, m.Sort)
	next, _ := m.Update(ListingsLoadedMsg{Page: testPage(1), Key: m.pendingKey})
	m = next.(Model)
	m = press(t, m, "enter")
	require.True(t, m.Detail.IsVisible())

	m = press(t, m, "2")
	assert.Equal(t, ScreenFavorites, m.Screen)
	assert.False(t, m.Detail.IsVisible())

	next, _ = m.Update(FavoritesLoadedMsg{Favorites: []*domain.Favorite{{ListingID: "9"}}})
	m = next.(Model)
	require.Equal(t, 1, m.Favorites.Len())
	assert.Equal(t, "9", m.Favorites.Selected().ID)
}

func TestNotificationsUnreadCount(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(NotificationsLoadedMsg{Notifications: []*domain.Notification{
		{ID: "a", Read: false},
		{ID: "b", Read: true},
		{ID: "c", Read: false},
	}})
	m = next.(Model)

	assert.Equal(t, 2, m.Unread)
	assert.Equal(t, 3, m.Notifications.Len())
	assert.Contains(t, m.renderTabs(), "(2)")
}

func TestParseReview(t *testing.T) {
	tests := []struct {
		in      string
		rating  int
		comment string
		ok      bool
	}{
		{"5 phòng sạch, chủ nhà dễ tính", 5, "phòng sạch, chủ nhà dễ tính", true},
		{"3", 3, "", true},
		{"  4   ổn  ", 4, "ổn", true},
		{"6 quá tốt", 0, "", false},
		{"0", 0, "", false},
		{"45 phòng", 0, "", false},
		{"tốt", 0, "", false},
		{"", 0, "", false},
	}
	for _, tt := range tests {
		rating, comment, ok := parseReview(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.rating, rating, tt.in)
		assert.Equal(t, tt.comment, comment, tt.in)
	}
}

func TestListingIDFromLink(t *testing.T) {
	tests := map[string]string{
		"/listings/42":  "42",
		"/listings/42/": "42",
		"/listings/":    "",
		"/listings/4/x": "",
		"/profiles/42":  "",
		"":              "",
	}
	for link, want := range tests {
		id, ok := listingIDFromLink(link)
		assert.Equal(t, want != "", ok, link)
		assert.Equal(t, want, id, link)
	}
}

func TestAgo(t *testing.T) {
	now := time.Now()
	assert.Empty(t, ago(time.Time{}))
	assert.Equal(t, "vừa xong", ago(now.Add(-10*time.Second)))
	assert.Equal(t, "5 phút trước", ago(now.Add(-5*time.Minute-time.Second)))
	assert.Equal(t, "3 giờ trước", ago(now.Add(-3*time.Hour-time.Second)))
	assert.Equal(t, "2 ngày trước", ago(now.Add(-49*time.Hour)))

	old := now.AddDate(0, -3, 0)
	assert.Equal(t, old.Format("02/01/2006"), ago(old))
}

func detailData(id string) components.DetailData {
	return components.DetailData{Listing: &domain.Listing{ID: id, Title: "other"}}
}

func TestArrowsFollowSelectionWithDetailOpen(t *testing.T) {
	m := newTestModel(t)
	m.pendingKey = searchKey(m.Filter, m.Sort)
	next, _ := m.Update(ListingsLoadedMsg{Page: testPage(3), Key: m.pendingKey})
	m = next.(Model)
	m = press(t, m, "enter")
	require.Equal(t, "1", m.Detail.Listing().ID)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	assert.Equal(t, "2", m.Detail.Listing().ID)
	assert.Equal(t, "2", m.Listings.Selected().ID)
}

type fakeOpener struct {
	images []string
	links  []string
}

func (f *fakeOpener) OpenImages(urls []string) error {
	f.images = append(f.images, urls...)
	return nil
}

func (f *fakeOpener) OpenURL(link string) error {
	f.links = append(f.links, link)
	return nil
}

func TestDetailOpensPhotosAndMap(t *testing.T) {
	opener := &fakeOpener{}
	m := NewModel(Services{}, Options{Opener: opener})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	page := testPage(2)
	page.Items[0].Images = []string{"https://cdn.example.com/a.jpg"}
	page.Items[0].Lat, page.Items[0].Lng = 21.0285, 105.8542
	m.pendingKey = searchKey(m.Filter, m.Sort)
	next, _ = m.Update(ListingsLoadedMsg{Page: page, Key: m.pendingKey})
	m = next.(Model)
	m = press(t, m, "enter")
	require.True(t, m.Detail.IsVisible())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	require.NotNil(t, cmd)
	assert.Equal(t, StatusMsg{Message: "Đã mở 1 ảnh"}, cmd())
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, opener.images)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	require.NotNil(t, cmd)
	cmd()
	require.Len(t, opener.links, 1)
	assert.Contains(t, opener.links[0], "mlat=21.028500")

	// The second listing has neither photos nor a position
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	require.Equal(t, "2", m.Detail.Listing().ID)
	m = press(t, m, "o")
	assert.Equal(t, "Tin chưa có ảnh", m.StatusMsg)
	m = press(t, m, "w")
	assert.Equal(t, "Tin chưa có vị trí trên bản đồ", m.StatusMsg)
	assert.Len(t, opener.images, 1)
}

func TestReviewPromptRejectsMissingRating(t *testing.T) {
	m := newTestModel(t)
	m.pendingKey = searchKey(m.Filter, m.Sort)
	next, _ := m.Update(ListingsLoadedMsg{Page: testPage(1), Key: m.pendingKey})
	m = next.(Model)
	m = press(t, m, "enter", "v")
	require.True(t, m.InputModal.IsVisible())

	m = press(t, m, "t", "ố", "t", "enter")
	assert.True(t, m.InputModal.IsVisible(), "text without a rating stays in the modal")
	assert.Contains(t, m.View(), reviewFormatText)

	m = press(t, m, "esc")
	assert.False(t, m.InputModal.IsVisible())
	assert.Equal(t, inputNone, m.inputPurpose)
}
