package geo

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/phongtro/phongtro/internal/domain"
)

const (
	MinZoom     = 5
	MaxZoom     = 18
	DefaultZoom = 14

	maxLatitude     = 85.0
	searchLimit     = 5
	panTilesPerStep = 0.25
)

// Selection is the outcome of picking a point on the map
type Selection struct {
	Coordinates domain.Coordinates
	Address     string
	Place       *domain.Place
	Degraded    bool // Address is raw coordinates because geocoding failed
}

// Picker holds the reticle state of the map picker. Panning moves the map
// under a fixed reticle; when panning settles the center is reverse-geocoded.
type Picker struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
	settle   *Debouncer

	mu     sync.RWMutex
	center domain.Coordinates
	zoom   int
}

// NewPicker creates a picker centered on start
func NewPicker(geocoder domain.Geocoder, start domain.Coordinates, logger *slog.Logger) *Picker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Picker{
		geocoder: geocoder,
		logger:   logger,
		settle:   NewDebouncer(SearchDelay),
		center:   start,
		zoom:     DefaultZoom,
	}
}

// Center returns the point under the reticle
func (p *Picker) Center() domain.Coordinates {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.center
}

// Zoom returns the current zoom level
func (p *Picker) Zoom() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.zoom
}

// SpanKm returns the approximate east-west width of one tile at the
// current zoom and latitude
func (p *Picker) SpanKm() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return tileSpanKm(p.center.Lat, p.zoom)
}

// ZoomIn zooms one level in
func (p *Picker) ZoomIn() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.zoom < MaxZoom {
		p.zoom++
	}
}

// ZoomOut zooms one level out
func (p *Picker) ZoomOut() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.zoom > MinZoom {
		p.zoom--
	}
}

// Pan moves the map by dx steps east and dy steps north and returns a
// settle ticket. Pass the ticket to Settled once SettleDelay has passed.
func (p *Picker) Pan(dx, dy int) uint64 {
	p.mu.Lock()
	step := 360.0 / math.Exp2(float64(p.zoom)) * panTilesPerStep
	p.center = normalize(domain.Coordinates{
		Lat: p.center.Lat + float64(dy)*step*math.Cos(p.center.Lat*math.Pi/180),
		Lng: p.center.Lng + float64(dx)*step,
	})
	p.mu.Unlock()
	return p.settle.Trigger()
}

// MoveTo recenters the reticle without geocoding
func (p *Picker) MoveTo(at domain.Coordinates) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.center = normalize(at)
	p.settle.Cancel()
}

// SettleDelay is how long panning must pause before the drag ends
func (p *Picker) SettleDelay() time.Duration {
	return p.settle.Delay()
}

// Settled reports whether ticket belongs to the last pan
func (p *Picker) Settled(ticket uint64) bool {
	return p.settle.Ready(ticket)
}

// DragEnd resolves the point under the reticle
func (p *Picker) DragEnd(ctx context.Context) Selection {
	return p.Resolve(ctx, p.Center())
}

// Resolve reverse-geocodes at. Geocoding failures degrade to the formatted
// coordinates so a point can always be selected.
func (p *Picker) Resolve(ctx context.Context, at domain.Coordinates) Selection {
	sel := Selection{Coordinates: at, Address: at.String(), Degraded: true}
	if p.geocoder == nil {
		return sel
	}

	place, err := p.geocoder.Reverse(ctx, at)
	if err != nil {
		p.logger.Warn("reverse geocoding failed", "error", err, "coords", at.String())
		return sel
	}
	if place == nil || strings.TrimSpace(place.DisplayName) == "" {
		return sel
	}

	sel.Place = place
	sel.Address = place.DisplayName
	sel.Degraded = false
	return sel
}

// SearchAddress forward-geocodes text into candidate places
func (p *Picker) SearchAddress(ctx context.Context, text string) ([]domain.Place, error) {
	text = strings.TrimSpace(text)
	if text == "" || p.geocoder == nil {
		return nil, nil
	}
	places, err := p.geocoder.Search(ctx, text, searchLimit)
	if err != nil {
		p.logger.Warn("address search failed", "error", err, "query", text)
		return nil, err
	}
	return places, nil
}

// Choose recenters on a search candidate and returns it as the selection
func (p *Picker) Choose(place domain.Place) Selection {
	p.MoveTo(place.Coordinates)
	chosen := place
	address := place.DisplayName
	if address == "" {
		address = place.Coordinates.String()
	}
	return Selection{
		Coordinates: p.Center(),
		Address:     address,
		Place:       &chosen,
		Degraded:    place.DisplayName == "",
	}
}

func normalize(c domain.Coordinates) domain.Coordinates {
	c.Lat = math.Max(-maxLatitude, math.Min(maxLatitude, c.Lat))
	for c.Lng > 180 {
		c.Lng -= 360
	}
	for c.Lng < -180 {
		c.Lng += 360
	}
	return c
}

func tileSpanKm(lat float64, zoom int) float64 {
	const equatorKm = 40075.016686
	return equatorKm * math.Cos(lat*math.Pi/180) / math.Exp2(float64(zoom))
}
