package components

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/geo"
	"github.com/phongtro/phongtro/internal/query"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(l ListingList, text string) ListingList {
	for _, r := range text {
		l, _ = l.Update(keyPress(string(r)))
	}
	return l
}

func sampleListings() []*domain.Listing {
	return []*domain.Listing{
		{ID: "l1", Title: "Phòng gần Bách Khoa", Address: "12 Tạ Quang Bửu", District: "Hai Bà Trưng", Price: 3_000_000, Area: 20},
		{ID: "l2", Title: "Căn hộ mini Cầu Giấy", Address: "5 Trần Thái Tông", District: "Cầu Giấy", Price: 5_500_000, Area: 35},
		{ID: "l3", Title: "Phòng trọ giá rẻ", Address: "88 Kim Mã", District: "Ba Đình", Price: 1_800_000, Area: 15},
	}
}

func TestSortModal(t *testing.T) {
	t.Run("enter selects the field under the cursor", func(t *testing.T) {
		m := NewSortModal()
		m.Show(query.SortFields(), query.Sort{})
		require.True(t, m.IsVisible())

		handled, sel := m.HandleKey("j")
		assert.True(t, handled)
		assert.Nil(t, sel)

		handled, sel = m.HandleKey("enter")
		assert.True(t, handled)
		require.NotNil(t, sel)
		assert.Equal(t, query.Sort{Field: query.SortPrice, Direction: query.SortAsc}, *sel)
		assert.False(t, m.IsVisible())
	})

	t.Run("choosing the active field flips direction", func(t *testing.T) {
		m := NewSortModal()
		m.Show(query.SortFields(), query.Sort{Field: query.SortArea, Direction: query.SortAsc})

		_, sel := m.HandleKey("enter")
		require.NotNil(t, sel)
		assert.Equal(t, query.SortDesc, sel.Direction)
		assert.Equal(t, query.SortArea, sel.Field)
	})

	t.Run("esc closes without a selection", func(t *testing.T) {
		m := NewSortModal()
		m.Show(query.SortFields(), query.Sort{})

		handled, sel := m.HandleKey("esc")
		assert.True(t, handled)
		assert.Nil(t, sel)
		assert.False(t, m.IsVisible())
	})

	t.Run("hidden modal ignores keys", func(t *testing.T) {
		m := NewSortModal()
		handled, sel := m.HandleKey("enter")
		assert.False(t, handled)
		assert.Nil(t, sel)
	})
}

func TestFilterPanel(t *testing.T) {
	t.Run("price preset cycles and applies", func(t *testing.T) {
		p := NewFilterPanel()
		p.Show(query.New(20))

		p, _, _ = p.Update(keyPress("down"))
		p, _, _ = p.Update(keyPress("right"))
		p, _, applied := p.Update(keyPress("enter"))

		require.NotNil(t, applied)
		assert.Equal(t, query.PricePresets[1].Max, applied.MaxPrice)
		assert.Zero(t, applied.MinPrice)
		assert.False(t, p.IsVisible())
	})

	t.Run("space toggles the focused flag", func(t *testing.T) {
		p := NewFilterPanel()
		p.Show(query.New(20))

		for i := 0; i < fixedRows; i++ {
			p, _, _ = p.Update(keyPress("down"))
		}
		p, _, _ = p.Update(keyPress(" "))
		_, _, applied := p.Update(keyPress("enter"))

		require.NotNil(t, applied)
		assert.True(t, applied.HasFlag(query.Amenities[0].Key))
	})

	t.Run("custom range is left untouched", func(t *testing.T) {
		f := query.New(20).SetPriceRange(1_234_000, 0)
		p := NewFilterPanel()
		p.Show(f)

		_, _, applied := p.Update(keyPress("enter"))
		require.NotNil(t, applied)
		assert.Equal(t, int64(1_234_000), applied.MinPrice)
	})

	t.Run("esc discards edits", func(t *testing.T) {
		p := NewFilterPanel()
		p.Show(query.New(20))

		p, _, _ = p.Update(keyPress("x"))
		p, _, applied := p.Update(keyPress("esc"))
		assert.Nil(t, applied)
		assert.False(t, p.IsVisible())
	})
}

func TestInputModal(t *testing.T) {
	t.Run("submit and dismiss", func(t *testing.T) {
		m := NewInputModal()
		m.Show(Prompt{Title: "Gửi yêu cầu", Hint: "Lời nhắn cho chủ nhà"})

		for _, r := range "xin chào " {
			m, _, _ = m.Update(keyPress(string(r)))
		}
		assert.Contains(t, m.View(), "9/500")

		m, _, submitted := m.Update(keyPress("enter"))
		assert.True(t, submitted)
		assert.Equal(t, "xin chào", m.Value())

		m, _, submitted = m.Update(keyPress("esc"))
		assert.False(t, submitted)
		assert.False(t, m.IsVisible())
	})

	t.Run("validator keeps the modal open", func(t *testing.T) {
		m := NewInputModal()
		m.Show(Prompt{
			Title: "Báo cáo",
			Validate: func(text string) error {
				if text == "" {
					return errors.New("cần lý do")
				}
				return nil
			},
		})

		m, _, submitted := m.Update(keyPress("enter"))
		assert.False(t, submitted)
		assert.True(t, m.IsVisible())
		assert.Contains(t, m.View(), "cần lý do")

		m, _, _ = m.Update(keyPress("x"))
		_, _, submitted = m.Update(keyPress("enter"))
		assert.True(t, submitted)
	})
}

func TestRowList(t *testing.T) {
	render := func(s string, selected bool, width int) string {
		if selected {
			return "> " + s
		}
		return "  " + s
	}
	l := NewRowList[string]("Thông báo", "Không có thông báo", 1, render)
	l.SetSize(40, 8)

	_, ok := l.Selected()
	assert.False(t, ok)
	assert.Contains(t, l.View(), "Không có thông báo")

	l.SetItems([]string{"a", "b", "c", "d", "e", "f"})
	l, _ = l.Update(keyPress("j"))
	l, _ = l.Update(keyPress("j"))
	sel, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "c", sel)

	l, _ = l.Update(keyPress("G"))
	sel, _ = l.Selected()
	assert.Equal(t, "f", sel)
	view := l.View()
	assert.Contains(t, view, "> f")
	assert.Contains(t, view, "↑ còn nữa")

	// Shrinking the items clamps the cursor
	l.SetItems([]string{"a", "b"})
	sel, _ = l.Selected()
	assert.Equal(t, "b", sel)

	l.SetFocused(false)
	l, _ = l.Update(keyPress("k"))
	sel, _ = l.Selected()
	assert.Equal(t, "b", sel)
}

func TestListingListQuickFilter(t *testing.T) {
	l := NewListingList("Phòng")
	l.SetSize(60, 30)
	l.SetListings(sampleListings())
	require.Equal(t, 3, l.Len())

	l.ToggleFilter()
	require.True(t, l.IsFilterTyping())
	l = typeText(l, "cau giay")

	require.Equal(t, 1, l.Len())
	require.NotNil(t, l.Selected())
	assert.Equal(t, "l2", l.Selected().ID)

	// Enter keeps the results and returns to navigation
	l, _ = l.Update(keyPress("enter"))
	assert.True(t, l.IsFiltering())
	assert.False(t, l.IsFilterTyping())
	assert.Equal(t, 1, l.Len())

	l, _ = l.Update(keyPress("esc"))
	assert.False(t, l.IsFiltering())
	assert.Equal(t, 3, l.Len())
}

func TestListingListSelect(t *testing.T) {
	l := NewListingList("Phòng")
	l.SetSize(60, 30)
	l.SetListings(sampleListings())

	l.Select("l3")
	require.NotNil(t, l.Selected())
	assert.Equal(t, "l3", l.Selected().ID)

	l, _ = l.Update(keyPress("g"))
	assert.Equal(t, "l1", l.Selected().ID)

	l.SetListings(nil)
	assert.Nil(t, l.Selected())
	assert.Contains(t, l.View(), EmptyListingsText)
}

func TestRenderDetail(t *testing.T) {
	listing := &domain.Listing{
		ID:          "l1",
		Title:       "Phòng gần chợ",
		Address:     "12 Tạ Quang Bửu",
		District:    "Hai Bà Trưng",
		Province:    "Hà Nội",
		Price:       3_000_000,
		Area:        20,
		Description: "Phòng sạch sẽ, có cửa sổ.",
		Amenities:   []string{"wifi"},
	}

	t.Run("contact hidden until connected", func(t *testing.T) {
		out := RenderDetail(DetailData{Listing: listing, Connection: &domain.ConnectionCheck{}}, 100, nil)
		assert.Contains(t, out, "Phòng gần chợ")
		assert.Contains(t, out, "Phòng sạch sẽ")
		assert.Contains(t, out, "Wifi")
		assert.Contains(t, out, "Nhấn x")
		assert.Contains(t, out, "x kết nối")
	})

	t.Run("pending request", func(t *testing.T) {
		check := &domain.ConnectionCheck{Exists: true, Connection: &domain.Connection{Status: domain.ConnectionPending}}
		out := RenderDetail(DetailData{Listing: listing, Connection: check}, 100, nil)
		assert.Contains(t, out, "Đang chờ")
		assert.NotContains(t, out, "x kết nối")
	})

	t.Run("accepted shows contact", func(t *testing.T) {
		withContact := *listing
		withContact.ContactPhone = "0912345678"
		check := &domain.ConnectionCheck{Exists: true, Connection: &domain.Connection{Status: domain.ConnectionAccepted}}
		out := RenderDetail(DetailData{Listing: &withContact, Connection: check}, 100, nil)
		assert.Contains(t, out, "0912345678")
	})

	t.Run("owner view", func(t *testing.T) {
		out := RenderDetail(DetailData{Listing: listing, IsOwner: true}, 100, nil)
		assert.Contains(t, out, "tin đăng của bạn")
		assert.NotContains(t, out, "v đánh giá")
	})

	t.Run("photo and map hints follow the listing", func(t *testing.T) {
		out := RenderDetail(DetailData{Listing: listing, IsOwner: true}, 100, nil)
		assert.NotContains(t, out, "o xem ảnh")
		assert.NotContains(t, out, "w bản đồ")

		pinned := *listing
		pinned.Images = []string{"https://cdn.example.com/a.jpg"}
		pinned.Lat, pinned.Lng = 21.0, 105.8
		out = RenderDetail(DetailData{Listing: &pinned, IsOwner: true}, 100, nil)
		assert.Contains(t, out, "o xem ảnh")
		assert.Contains(t, out, "w bản đồ")
	})

	t.Run("markdown renderer is used", func(t *testing.T) {
		md := func(text string, width int) string { return "MD:" + strings.ToUpper(text) }
		out := RenderDetail(DetailData{Listing: listing}, 100, md)
		assert.Contains(t, out, "MD:PHÒNG SẠCH SẼ")
	})
}

type fakeGeocoder struct {
	reverseErr error
	places     []domain.Place
	searches   []string
}

func (g *fakeGeocoder) Reverse(ctx context.Context, at domain.Coordinates) (*domain.Place, error) {
	if g.reverseErr != nil {
		return nil, g.reverseErr
	}
	return &domain.Place{DisplayName: "Hoàn Kiếm, Hà Nội", Coordinates: at}, nil
}

func (g *fakeGeocoder) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	g.searches = append(g.searches, query)
	return g.places, nil
}

// collect runs cmd and any batched commands, keeping messages of type T
func collect[T any](cmd tea.Cmd) []T {
	if cmd == nil {
		return nil
	}
	var out []T
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, collect[T](c)...)
		}
	case T:
		out = append(out, msg)
	}
	return out
}

func TestMapPickerPanAndDegradedSelection(t *testing.T) {
	start := domain.Coordinates{Lat: 21.0285, Lng: 105.8542}
	g := &fakeGeocoder{reverseErr: errors.New("offline")}
	m := NewMapPicker(geo.NewPicker(g, start, nil), "")

	initial := collect[PickerResolvedMsg](m.Show(start, 2))
	require.Len(t, initial, 1)
	assert.True(t, initial[0].Selection.Degraded)
	assert.Equal(t, start.String(), initial[0].Selection.Address)

	// Panning moves the reticle; the older resolution no longer applies
	m, settle, _ := m.Update(keyPress("right"))
	moved := m.picker.Center()
	require.NotEqual(t, start, moved)
	m, _, _ = m.Update(initial[0])
	assert.Equal(t, moved, m.Selection().Coordinates)

	_, cmd, _ := m.Update(PickerSettledMsg{Ticket: 0})
	assert.Nil(t, cmd, "unknown pan ticket")

	settled := collect[PickerSettledMsg](settle)
	require.Len(t, settled, 1)
	m, cmd, _ = m.Update(settled[0])
	resolved := collect[PickerResolvedMsg](cmd)
	require.Len(t, resolved, 1)
	m, _, _ = m.Update(resolved[0])

	m, _, result := m.Update(keyPress("enter"))
	require.NotNil(t, result)
	assert.False(t, m.IsVisible())
	assert.Equal(t, moved, result.Center)
	assert.Equal(t, moved.String(), result.Address)
	assert.Equal(t, 2.0, result.RadiusKm)
}

func TestMapPickerAddressSearchUsesLatestText(t *testing.T) {
	start := domain.Coordinates{Lat: 21.0285, Lng: 105.8542}
	bachKhoa := domain.Place{DisplayName: "1 Đại Cồ Việt", Coordinates: domain.Coordinates{Lat: 21.007, Lng: 105.843}}
	g := &fakeGeocoder{places: []domain.Place{bachKhoa}}
	m := NewMapPicker(geo.NewPicker(g, start, nil), "")
	m.Show(start, 2)

	m, _, _ = m.Update(keyPress("/"))
	m, first, _ := m.Update(keyPress("a"))
	m, second, _ := m.Update(keyPress("b"))
	firstTicks := collect[AddressTickMsg](first)
	secondTicks := collect[AddressTickMsg](second)
	require.Len(t, firstTicks, 1)
	require.Len(t, secondTicks, 1)

	m, cmd, _ := m.Update(firstTicks[0])
	assert.Nil(t, cmd, "superseded keystroke")

	m, cmd, _ = m.Update(secondTicks[0])
	results := collect[AddressResultsMsg](cmd)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"ab"}, g.searches)

	// Results for older text are ignored
	m, _, _ = m.Update(AddressResultsMsg{Text: "a", Places: []domain.Place{{DisplayName: "khác"}}})
	assert.Empty(t, m.candidates)

	m, _, _ = m.Update(results[0])
	require.Len(t, m.candidates, 1)

	m, _, result := m.Update(keyPress("enter"))
	assert.Nil(t, result, "choosing a candidate keeps the picker open")
	assert.Equal(t, "1 Đại Cồ Việt", m.Selection().Address)
	assert.False(t, m.Selection().Degraded)
	assert.Equal(t, bachKhoa.Coordinates, m.picker.Center())
}
