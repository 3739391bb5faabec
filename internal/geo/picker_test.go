package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hanoi = domain.Coordinates{Lat: 21.0285, Lng: 105.8542}

func TestPickerDragEndResolvesAddress(t *testing.T) {
	base := &stubGeocoder{place: &domain.Place{DisplayName: "Hoàn Kiếm, Hà Nội", District: "Hoàn Kiếm"}}
	p := NewPicker(base, hanoi, log.NullLogger())

	sel := p.DragEnd(context.Background())
	assert.False(t, sel.Degraded)
	assert.Equal(t, "Hoàn Kiếm, Hà Nội", sel.Address)
	assert.Equal(t, hanoi, sel.Coordinates)
	require.NotNil(t, sel.Place)
	assert.Equal(t, "Hoàn Kiếm", sel.Place.District)
}

func TestPickerDegradesToCoordinates(t *testing.T) {
	base := &stubGeocoder{err: errors.New("geocoder down")}
	p := NewPicker(base, hanoi, log.NullLogger())

	sel := p.DragEnd(context.Background())
	assert.True(t, sel.Degraded)
	assert.Equal(t, "21.028500, 105.854200", sel.Address)
	assert.Equal(t, hanoi, sel.Coordinates)
	assert.Nil(t, sel.Place)

	empty := &stubGeocoder{place: &domain.Place{}}
	sel = NewPicker(empty, hanoi, log.NullLogger()).DragEnd(context.Background())
	assert.True(t, sel.Degraded)

	sel = NewPicker(nil, hanoi, log.NullLogger()).DragEnd(context.Background())
	assert.True(t, sel.Degraded)
}

func TestPickerPanSettlesOnLastTicket(t *testing.T) {
	p := NewPicker(nil, hanoi, log.NullLogger())

	first := p.Pan(1, 0)
	second := p.Pan(0, 1)

	assert.False(t, p.Settled(first))
	assert.True(t, p.Settled(second))

	c := p.Center()
	assert.Greater(t, c.Lng, hanoi.Lng)
	assert.Greater(t, c.Lat, hanoi.Lat)

	p.MoveTo(hanoi)
	assert.False(t, p.Settled(second), "recentering cancels a pending drag end")
	assert.Equal(t, hanoi, p.Center())
}

func TestPickerPanClampsAndWraps(t *testing.T) {
	p := NewPicker(nil, domain.Coordinates{Lat: 84.9, Lng: 179.99}, log.NullLogger())
	for range 4 {
		p.ZoomOut()
	}
	p.Pan(4, 40)

	c := p.Center()
	assert.LessOrEqual(t, c.Lat, 85.0)
	assert.True(t, c.Valid())
	assert.Less(t, c.Lng, 0.0, "longitude wraps past the antimeridian")
}

func TestPickerZoomBounds(t *testing.T) {
	p := NewPicker(nil, hanoi, log.NullLogger())
	for range 30 {
		p.ZoomIn()
	}
	assert.Equal(t, MaxZoom, p.Zoom())
	for range 30 {
		p.ZoomOut()
	}
	assert.Equal(t, MinZoom, p.Zoom())
	assert.Greater(t, p.SpanKm(), 1000.0)
}

func TestPickerSearchAndChoose(t *testing.T) {
	candidate := domain.Place{DisplayName: "Hồ Tây", Coordinates: domain.Coordinates{Lat: 21.0583, Lng: 105.8189}}
	base := &stubGeocoder{places: []domain.Place{candidate}}
	p := NewPicker(base, hanoi, log.NullLogger())

	places, err := p.SearchAddress(context.Background(), "ho tay")
	require.NoError(t, err)
	require.Len(t, places, 1)

	sel := p.Choose(places[0])
	assert.Equal(t, candidate.Coordinates, p.Center())
	assert.Equal(t, "Hồ Tây", sel.Address)
	assert.False(t, sel.Degraded)

	places, err = p.SearchAddress(context.Background(), "  ")
	require.NoError(t, err)
	assert.Nil(t, places)
	assert.Equal(t, 1, base.search)
}

func TestPickerSearchError(t *testing.T) {
	base := &stubGeocoder{err: domain.ErrGeocodeFailed}
	p := NewPicker(base, hanoi, log.NullLogger())

	_, err := p.SearchAddress(context.Background(), "cầu giấy")
	assert.ErrorIs(t, err, domain.ErrGeocodeFailed)
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(0)
	assert.Equal(t, SearchDelay, d.Delay())
	assert.False(t, d.Ready(0))

	a := d.Trigger()
	b := d.Trigger()
	assert.False(t, d.Ready(a))
	assert.True(t, d.Ready(b))

	d.Cancel()
	assert.False(t, d.Ready(b))
}

func TestLatLngToTile(t *testing.T) {
	x, y := LatLngToTile(hanoi, 10)
	assert.Equal(t, 813, x)
	assert.Equal(t, 450, y)

	x, y = LatLngToTile(domain.Coordinates{}, 1)
	assert.Equal(t, 1, x)
	assert.Equal(t, 1, y)

	x, y = LatLngToTile(domain.Coordinates{Lat: 89, Lng: 180}, 3)
	assert.Equal(t, 7, x)
	assert.Equal(t, 0, y)
}

func TestTileURL(t *testing.T) {
	assert.Equal(t,
		"https://tile.openstreetmap.org/10/813/450.png",
		TileURL("https://tile.openstreetmap.org/{z}/{x}/{y}.png", 10, 813, 450))
	assert.Equal(t,
		"https://a.tile.example.com/3/1/2.png",
		TileURL("https://{s}.tile.example.com/{z}/{x}/{y}.png", 3, 1, 2))
}
