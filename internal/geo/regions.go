package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/phongtro/phongtro/internal/domain"
)

// regionDTO is a province, district or ward from the administrative-regions API
type regionDTO struct {
	Name         string      `json:"name"`
	Code         int         `json:"code"`
	DivisionType string      `json:"division_type"`
	ProvinceCode int         `json:"province_code,omitempty"`
	DistrictCode int         `json:"district_code,omitempty"`
	Districts    []regionDTO `json:"districts,omitempty"`
	Wards        []regionDTO `json:"wards,omitempty"`
}

// Regions lists Vietnamese administrative units. The directory changes
// rarely, so every response is kept in memory for the process lifetime.
type Regions struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu        sync.RWMutex
	provinces []domain.Region
	districts map[int][]domain.Region
	wards     map[int][]domain.Region
}

var _ domain.RegionDirectory = (*Regions)(nil)

// NewRegions creates a region directory client for baseURL
func NewRegions(baseURL string, logger *slog.Logger) *Regions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Regions{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
		districts:  make(map[int][]domain.Region),
		wards:      make(map[int][]domain.Region),
	}
}

// Provinces returns every province and centrally-governed city
func (r *Regions) Provinces(ctx context.Context) ([]domain.Region, error) {
	r.mu.RLock()
	cached := r.provinces
	r.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	var dtos []regionDTO
	if err := r.get(ctx, "/p/", &dtos); err != nil {
		return nil, err
	}

	provinces := mapRegions(dtos, 0)
	r.mu.Lock()
	r.provinces = provinces
	r.mu.Unlock()

	r.logger.Debug("loaded provinces", "count", len(provinces))
	return provinces, nil
}

// Districts returns the districts of a province
func (r *Regions) Districts(ctx context.Context, provinceCode int) ([]domain.Region, error) {
	r.mu.RLock()
	cached, ok := r.districts[provinceCode]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	var dto regionDTO
	if err := r.get(ctx, fmt.Sprintf("/p/%d?depth=2", provinceCode), &dto); err != nil {
		return nil, err
	}

	districts := mapRegions(dto.Districts, provinceCode)
	r.mu.Lock()
	r.districts[provinceCode] = districts
	r.mu.Unlock()
	return districts, nil
}

// Wards returns the wards of a district
func (r *Regions) Wards(ctx context.Context, districtCode int) ([]domain.Region, error) {
	r.mu.RLock()
	cached, ok := r.wards[districtCode]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	var dto regionDTO
	if err := r.get(ctx, fmt.Sprintf("/d/%d?depth=2", districtCode), &dto); err != nil {
		return nil, err
	}

	wards := mapRegions(dto.Wards, districtCode)
	r.mu.Lock()
	r.wards[districtCode] = wards
	r.mu.Unlock()
	return wards, nil
}

// MatchProvince finds the province best matching name, ignoring diacritics,
// case and the "Tỉnh"/"Thành phố" prefix
func (r *Regions) MatchProvince(ctx context.Context, name string) (domain.Region, bool, error) {
	provinces, err := r.Provinces(ctx)
	if err != nil {
		return domain.Region{}, false, err
	}
	region, ok := MatchRegion(name, provinces)
	return region, ok, nil
}

// MatchDistrict finds the district of provinceCode best matching name
func (r *Regions) MatchDistrict(ctx context.Context, provinceCode int, name string) (domain.Region, bool, error) {
	districts, err := r.Districts(ctx, provinceCode)
	if err != nil {
		return domain.Region{}, false, err
	}
	region, ok := MatchRegion(name, districts)
	return region, ok, nil
}

// MatchRegion ranks regions against name. An exact (folded) name wins,
// otherwise the closest fuzzy match does.
func MatchRegion(name string, regions []domain.Region) (domain.Region, bool) {
	needle := foldRegionName(name)
	if needle == "" || len(regions) == 0 {
		return domain.Region{}, false
	}

	targets := make([]string, len(regions))
	for i, region := range regions {
		targets[i] = foldRegionName(region.Name)
		if targets[i] == needle {
			return region, true
		}
	}

	matches := fuzzy.RankFindNormalizedFold(needle, targets)
	if len(matches) == 0 {
		return domain.Region{}, false
	}
	sort.Sort(matches)
	return regions[matches[0].OriginalIndex], true
}

var regionPrefixes = []string{
	"thanh pho ", "thành phố ", "tp. ", "tp ",
	"tinh ", "tỉnh ",
	"quan ", "quận ", "huyen ", "huyện ", "thi xa ", "thị xã ",
	"phuong ", "phường ", "xa ", "xã ", "thi tran ", "thị trấn ",
}

// foldRegionName lowercases, strips the division prefix and replaces đ,
// which Unicode normalization does not decompose
func foldRegionName(name string) string {
	s := strings.ToLower(strings.Join(strings.Fields(name), " "))
	s = strings.NewReplacer("đ", "d", "Đ", "d").Replace(s)
	for _, prefix := range regionPrefixes {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			break
		}
	}
	return s
}

func (r *Regions) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		r.logger.Warn("regions request failed", "path", path, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		r.logger.Warn("regions request rejected", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("regions api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func mapRegions(dtos []regionDTO, parent int) []domain.Region {
	regions := make([]domain.Region, 0, len(dtos))
	for _, d := range dtos {
		p := parent
		if p == 0 {
			if d.ProvinceCode != 0 {
				p = d.ProvinceCode
			} else {
				p = d.DistrictCode
			}
		}
		regions = append(regions, domain.Region{
			Code:     d.Code,
			Name:     d.Name,
			Division: d.DivisionType,
			Parent:   p,
		})
	}
	return regions
}
