package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	place   *domain.Place
	places  []domain.Place
	err     error
	reverse int
	search  int
}

func (s *stubGeocoder) Reverse(context.Context, domain.Coordinates) (*domain.Place, error) {
	s.reverse++
	if s.err != nil {
		return nil, s.err
	}
	place := *s.place
	return &place, nil
}

func (s *stubGeocoder) Search(context.Context, string, int) ([]domain.Place, error) {
	s.search++
	if s.err != nil {
		return nil, s.err
	}
	return s.places, nil
}

func TestCachingGeocoderReverse(t *testing.T) {
	base := &stubGeocoder{place: &domain.Place{DisplayName: "Cầu Giấy, Hà Nội"}}
	cache := NewCachingGeocoder(base, time.Minute)
	ctx := context.Background()

	_, err := cache.Reverse(ctx, domain.Coordinates{Lat: 21.036201, Lng: 105.790601})
	require.NoError(t, err)

	// Within rounding distance of the first point
	place, err := cache.Reverse(ctx, domain.Coordinates{Lat: 21.036204, Lng: 105.790603})
	require.NoError(t, err)
	assert.Equal(t, "Cầu Giấy, Hà Nội", place.DisplayName)
	assert.Equal(t, 1, base.reverse)

	_, err = cache.Reverse(ctx, domain.Coordinates{Lat: 21.04, Lng: 105.79})
	require.NoError(t, err)
	assert.Equal(t, 2, base.reverse)
}

func TestCachingGeocoderExpires(t *testing.T) {
	base := &stubGeocoder{places: []domain.Place{{DisplayName: "Hà Nội"}}}
	cache := NewCachingGeocoder(base, time.Minute)

	now := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	_, err := cache.Search(ctx, "Hà  Nội", 5)
	require.NoError(t, err)
	_, err = cache.Search(ctx, "hà nội", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, base.search, "normalized query hits the cache")

	_, err = cache.Search(ctx, "hà nội", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, base.search, "limit is part of the key")

	now = now.Add(2 * time.Minute)
	_, err = cache.Search(ctx, "hà nội", 5)
	require.NoError(t, err)
	assert.Equal(t, 3, base.search)
}

func TestCachingGeocoderDoesNotCacheErrors(t *testing.T) {
	base := &stubGeocoder{err: errors.New("boom")}
	cache := NewCachingGeocoder(base, time.Minute)

	_, err := cache.Reverse(context.Background(), domain.Coordinates{Lat: 1, Lng: 1})
	require.Error(t, err)
	_, err = cache.Reverse(context.Background(), domain.Coordinates{Lat: 1, Lng: 1})
	require.Error(t, err)
	assert.Equal(t, 2, base.reverse)
}

func TestCachingGeocoderReturnsCopies(t *testing.T) {
	base := &stubGeocoder{places: []domain.Place{{DisplayName: "A"}}}
	cache := NewCachingGeocoder(base, time.Minute)

	first, err := cache.Search(context.Background(), "a", 1)
	require.NoError(t, err)
	first[0].DisplayName = "changed"

	second, err := cache.Search(context.Background(), "a", 1)
	require.NoError(t, err)
	assert.Equal(t, "A", second[0].DisplayName)
}
