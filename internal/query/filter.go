package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query parameter keys understood by GET /listings
const (
	ParamText     = "q"
	ParamMinPrice = "min_price"
	ParamMaxPrice = "max_price"
	ParamMinArea  = "min_area"
	ParamMaxArea  = "max_area"
	ParamLat      = "lat"
	ParamLng      = "lng"
	ParamRadius   = "radius"
	ParamProvince = "province"
	ParamDistrict = "district"
	ParamOwner    = "owner_id"
	ParamPage     = "page"
	ParamLimit    = "limit"
)

// DefaultLimit is the page size used when none is given
const DefaultLimit = 20

// GeoFilter restricts results to a radius around a center point
type GeoFilter struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// Filter is the active listing search state.
// Zero values mean "not set"; Params emits only what is set.
type Filter struct {
	Text     string
	MinPrice int64 // VND
	MaxPrice int64 // VND
	MinArea  float64
	MaxArea  float64
	Flags    map[string]bool // amenity and rule keys
	Geo      *GeoFilter
	Province string
	District string
	OwnerID  string
	Page     int
	Limit    int
}

// New returns an empty filter on page 1
func New(limit int) Filter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Filter{Page: 1, Limit: limit}
}

// Clear drops every filter, keeping only the page size
func (f Filter) Clear() Filter {
	return New(f.Limit)
}

// IsEmpty reports whether no filter is active
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Text) == "" &&
		f.MinPrice == 0 && f.MaxPrice == 0 &&
		f.MinArea == 0 && f.MaxArea == 0 &&
		len(f.ActiveFlags()) == 0 &&
		f.Geo == nil &&
		f.Province == "" && f.District == "" && f.OwnerID == ""
}

// SetText sets the free-text query
func (f Filter) SetText(text string) Filter {
	f.Text = text
	f.Page = 1
	return f
}

// SetPriceRange sets the price bounds in VND; 0 leaves a bound open
func (f Filter) SetPriceRange(min, max int64) Filter {
	min, max = max64(min, 0), max64(max, 0)
	if min > 0 && max > 0 && min > max {
		min, max = max, min
	}
	f.MinPrice, f.MaxPrice = min, max
	f.Page = 1
	return f
}

// SetAreaRange sets the area bounds in m²; 0 leaves a bound open
func (f Filter) SetAreaRange(min, max float64) Filter {
	if min < 0 {
		min = 0
	}
	if max < 0 {
		max = 0
	}
	if min > 0 && max > 0 && min > max {
		min, max = max, min
	}
	f.MinArea, f.MaxArea = min, max
	f.Page = 1
	return f
}

// Toggle flips an amenity or rule flag. Unknown keys are ignored.
func (f Filter) Toggle(key string) Filter {
	if !IsKnownFlag(key) {
		return f
	}
	flags := make(map[string]bool, len(f.Flags)+1)
	for k, v := range f.Flags {
		if v {
			flags[k] = true
		}
	}
	if flags[key] {
		delete(flags, key)
	} else {
		flags[key] = true
	}
	f.Flags = flags
	f.Page = 1
	return f
}

// HasFlag reports whether the flag is active
func (f Filter) HasFlag(key string) bool {
	return f.Flags[key]
}

// ActiveFlags returns the active flag keys in sorted order
func (f Filter) ActiveFlags() []string {
	var keys []string
	for k, v := range f.Flags {
		if v {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// SetGeo restricts results to radiusKm around a point
func (f Filter) SetGeo(lat, lng, radiusKm float64) Filter {
	if radiusKm <= 0 {
		radiusKm = 1
	}
	f.Geo = &GeoFilter{Lat: lat, Lng: lng, RadiusKm: radiusKm}
	f.Page = 1
	return f
}

// ClearGeo removes the radius restriction
func (f Filter) ClearGeo() Filter {
	f.Geo = nil
	f.Page = 1
	return f
}

// SetRegion restricts results to a province and optionally a district
func (f Filter) SetRegion(province, district string) Filter {
	f.Province = strings.TrimSpace(province)
	f.District = strings.TrimSpace(district)
	if f.Province == "" {
		f.District = ""
	}
	f.Page = 1
	return f
}

// SetOwner restricts results to one owner's listings
func (f Filter) SetOwner(ownerID string) Filter {
	f.OwnerID = ownerID
	f.Page = 1
	return f
}

// WithPage moves to page (1-based)
func (f Filter) WithPage(page int) Filter {
	if page < 1 {
		page = 1
	}
	f.Page = page
	return f
}

// Params builds the query parameters for GET /listings.
// The result reflects exactly the active state: unset fields produce no key.
func (f Filter) Params() url.Values {
	params := url.Values{}

	if text := strings.TrimSpace(f.Text); text != "" {
		params.Set(ParamText, text)
	}
	if f.MinPrice > 0 {
		params.Set(ParamMinPrice, strconv.FormatInt(f.MinPrice, 10))
	}
	if f.MaxPrice > 0 {
		params.Set(ParamMaxPrice, strconv.FormatInt(f.MaxPrice, 10))
	}
	if f.MinArea > 0 {
		params.Set(ParamMinArea, formatFloat(f.MinArea))
	}
	if f.MaxArea > 0 {
		params.Set(ParamMaxArea, formatFloat(f.MaxArea))
	}
	for _, key := range f.ActiveFlags() {
		params.Set(key, "true")
	}
	if f.Geo != nil {
		params.Set(ParamLat, strconv.FormatFloat(f.Geo.Lat, 'f', 6, 64))
		params.Set(ParamLng, strconv.FormatFloat(f.Geo.Lng, 'f', 6, 64))
		params.Set(ParamRadius, formatFloat(f.Geo.RadiusKm))
	}
	if f.Province != "" {
		params.Set(ParamProvince, f.Province)
	}
	if f.District != "" {
		params.Set(ParamDistrict, f.District)
	}
	if f.OwnerID != "" {
		params.Set(ParamOwner, f.OwnerID)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	params.Set(ParamPage, strconv.Itoa(page))
	params.Set(ParamLimit, strconv.Itoa(limit))

	return params
}

// Key returns a canonical cache key for the filter (sorted, encoded params)
func (f Filter) Key() string {
	return f.Params().Encode()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
