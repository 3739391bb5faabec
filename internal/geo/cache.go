package geo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/phongtro/phongtro/internal/domain"
)

type reverseEntry struct {
	place   domain.Place
	expires time.Time
}

type searchEntry struct {
	places  []domain.Place
	expires time.Time
}

// CachingGeocoder wraps another Geocoder with a TTL-based in-memory cache.
// Reverse lookups are keyed by coordinates rounded to ~1m, searches by the
// normalized query text. Failures are never cached.
type CachingGeocoder struct {
	base domain.Geocoder
	ttl  time.Duration
	now  func() time.Time

	mu       sync.RWMutex
	reverse  map[string]reverseEntry
	searches map[string]searchEntry
}

var _ domain.Geocoder = (*CachingGeocoder)(nil)

// NewCachingGeocoder returns a Geocoder that caches lookups for ttl
func NewCachingGeocoder(base domain.Geocoder, ttl time.Duration) *CachingGeocoder {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachingGeocoder{
		base:     base,
		ttl:      ttl,
		now:      time.Now,
		reverse:  make(map[string]reverseEntry),
		searches: make(map[string]searchEntry),
	}
}

// Reverse returns a cached address when available, otherwise it delegates
// to the underlying geocoder and stores the result
func (c *CachingGeocoder) Reverse(ctx context.Context, at domain.Coordinates) (*domain.Place, error) {
	key := reverseKey(at)
	now := c.now()

	c.mu.RLock()
	entry, ok := c.reverse[key]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		place := entry.place
		return &place, nil
	}

	place, err := c.base.Reverse(ctx, at)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.reverse[key] = reverseEntry{place: *place, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return place, nil
}

// Search returns cached candidates when available
func (c *CachingGeocoder) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	key := searchKey(query, limit)
	now := c.now()

	c.mu.RLock()
	entry, ok := c.searches[key]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return append([]domain.Place(nil), entry.places...), nil
	}

	places, err := c.base.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.searches[key] = searchEntry{places: places, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return append([]domain.Place(nil), places...), nil
}

func reverseKey(at domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f", at.Lat, at.Lng)
}

func searchKey(query string, limit int) string {
	return fmt.Sprintf("%s|%d", strings.Join(strings.Fields(strings.ToLower(query)), " "), limit)
}
