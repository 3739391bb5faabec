package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/phongtro/phongtro/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultUserAgent = "phongtro-cli/1.0"
	defaultTimeout   = 10 * time.Second
	acceptLanguage   = "vi"
	countryCodes     = "vn"
)

// Nominatim is a geocoder backed by an OpenStreetMap Nominatim instance.
// Requests are throttled to stay within the public usage policy.
type Nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var _ domain.Geocoder = (*Nominatim)(nil)

// NewNominatim creates a geocoder for baseURL allowing ratePerSecond requests
// (at most one in flight burst). A non-positive rate disables throttling.
func NewNominatim(baseURL, userAgent string, ratePerSecond float64, logger *slog.Logger) *Nominatim {
	if logger == nil {
		logger = slog.Default()
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	return &Nominatim{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// nominatimPlace is one result of /search or the body of /reverse
type nominatimPlace struct {
	DisplayName string            `json:"display_name"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	Address     map[string]string `json:"address"`
	Error       string            `json:"error,omitempty"`
}

// Reverse resolves a point to the nearest address
func (n *Nominatim) Reverse(ctx context.Context, at domain.Coordinates) (*domain.Place, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(at.Lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(at.Lng, 'f', 6, 64))
	params.Set("addressdetails", "1")
	params.Set("accept-language", acceptLanguage)

	var result nominatimPlace
	if err := n.get(ctx, "/reverse", params, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrGeocodeFailed, result.Error)
	}

	place := mapPlace(result)
	if !place.Coordinates.Valid() || (place.Coordinates == domain.Coordinates{}) {
		place.Coordinates = at
	}
	return &place, nil
}

// Search forward-geocodes free text within Vietnam
func (n *Nominatim) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("countrycodes", countryCodes)
	params.Set("addressdetails", "1")
	params.Set("accept-language", acceptLanguage)

	var results []nominatimPlace
	if err := n.get(ctx, "/search", params, &results); err != nil {
		return nil, err
	}

	places := make([]domain.Place, 0, len(results))
	for _, r := range results {
		places = append(places, mapPlace(r))
	}
	return places, nil
}

func (n *Nominatim) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s%s?%s", n.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)

	n.logger.Debug("geocoder request", "path", path)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		n.logger.Warn("geocoder request failed", "path", path, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrGeocodeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		n.logger.Warn("geocoder rejected request", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("%w: status %d", domain.ErrGeocodeFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrGeocodeFailed, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to parse response: %v", domain.ErrGeocodeFailed, err)
	}
	return nil
}

func mapPlace(p nominatimPlace) domain.Place {
	lat, _ := strconv.ParseFloat(p.Lat, 64)
	lng, _ := strconv.ParseFloat(p.Lon, 64)
	return domain.Place{
		DisplayName: p.DisplayName,
		Coordinates: domain.Coordinates{Lat: lat, Lng: lng},
		Province:    firstOf(p.Address, "state", "province", "city"),
		District:    firstOf(p.Address, "city_district", "county", "district", "town"),
		Ward:        firstOf(p.Address, "quarter", "suburb", "village", "neighbourhood"),
		Road:        firstOf(p.Address, "road", "pedestrian", "residential"),
	}
}

func firstOf(address map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(address[k]); v != "" {
			return v
		}
	}
	return ""
}
