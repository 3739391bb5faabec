package query

import (
	"fmt"
	"strings"

	"github.com/phongtro/phongtro/internal/domain"
)

const million = 1_000_000

// PricePreset is one entry of the price range selector
type PricePreset struct {
	Label string
	Min   int64
	Max   int64
}

// PricePresets are the price ranges offered by the filter panel.
// The first entry clears the price filter.
var PricePresets = []PricePreset{
	{Label: "Tất cả"},
	{Label: "Dưới 1 triệu", Max: 1 * million},
	{Label: "1 - 2 triệu", Min: 1 * million, Max: 2 * million},
	{Label: "2 - 3 triệu", Min: 2 * million, Max: 3 * million},
	{Label: "3 - 5 triệu", Min: 3 * million, Max: 5 * million},
	{Label: "5 - 7 triệu", Min: 5 * million, Max: 7 * million},
	{Label: "7 - 10 triệu", Min: 7 * million, Max: 10 * million},
	{Label: "Trên 10 triệu", Min: 10 * million},
}

// AreaPreset is one entry of the area range selector
type AreaPreset struct {
	Label string
	Min   float64
	Max   float64
}

// AreaPresets are the area ranges offered by the filter panel.
// The first entry clears the area filter.
var AreaPresets = []AreaPreset{
	{Label: "Tất cả"},
	{Label: "Dưới 20 m²", Max: 20},
	{Label: "20 - 30 m²", Min: 20, Max: 30},
	{Label: "30 - 50 m²", Min: 30, Max: 50},
	{Label: "50 - 70 m²", Min: 50, Max: 70},
	{Label: "Trên 70 m²", Min: 70},
}

// ApplyPricePreset sets the price range from a preset
func (f Filter) ApplyPricePreset(p PricePreset) Filter {
	return f.SetPriceRange(p.Min, p.Max)
}

// ApplyAreaPreset sets the area range from a preset
func (f Filter) ApplyAreaPreset(p AreaPreset) Filter {
	return f.SetAreaRange(p.Min, p.Max)
}

// PricePresetIndex returns the preset matching the current price range, or -1
func (f Filter) PricePresetIndex() int {
	for i, p := range PricePresets {
		if p.Min == f.MinPrice && p.Max == f.MaxPrice {
			return i
		}
	}
	return -1
}

// AreaPresetIndex returns the preset matching the current area range, or -1
func (f Filter) AreaPresetIndex() int {
	for i, p := range AreaPresets {
		if p.Min == f.MinArea && p.Max == f.MaxArea {
			return i
		}
	}
	return -1
}

// FindPricePreset looks a preset up by label. Dash variants and spacing are ignored.
func FindPricePreset(label string) (PricePreset, bool) {
	want := normalizeLabel(label)
	for _, p := range PricePresets {
		if normalizeLabel(p.Label) == want {
			return p, true
		}
	}
	return PricePreset{}, false
}

// FindAreaPreset looks a preset up by label. Dash variants and spacing are ignored.
func FindAreaPreset(label string) (AreaPreset, bool) {
	want := normalizeLabel(label)
	for _, p := range AreaPresets {
		if normalizeLabel(p.Label) == want {
			return p, true
		}
	}
	return AreaPreset{}, false
}

func normalizeLabel(s string) string {
	s = strings.NewReplacer("–", "-", "—", "-", " ", "").Replace(s)
	return strings.ToLower(s)
}

// Flag is a boolean amenity or house-rule filter
type Flag struct {
	Key   string
	Label string
}

// Amenities offered by the filter panel
var Amenities = []Flag{
	{Key: "wifi", Label: "Wifi"},
	{Key: "air_conditioner", Label: "Điều hòa"},
	{Key: "parking", Label: "Chỗ để xe"},
	{Key: "washing_machine", Label: "Máy giặt"},
	{Key: "fridge", Label: "Tủ lạnh"},
	{Key: "private_wc", Label: "WC riêng"},
	{Key: "kitchen", Label: "Bếp"},
	{Key: "balcony", Label: "Ban công"},
	{Key: "elevator", Label: "Thang máy"},
	{Key: "security", Label: "Bảo vệ 24/7"},
}

// Rules offered by the filter panel
var Rules = []Flag{
	{Key: "allow_pets", Label: "Cho nuôi thú cưng"},
	{Key: "allow_cooking", Label: "Cho nấu ăn"},
	{Key: "free_hours", Label: "Giờ giấc tự do"},
	{Key: "owner_not_shared", Label: "Không chung chủ"},
	{Key: "no_smoking", Label: "Không hút thuốc"},
}

// IsKnownFlag reports whether key is an amenity or rule
func IsKnownFlag(key string) bool {
	_, ok := FlagLabel(key)
	return ok
}

// FlagLabel returns the display label for an amenity or rule key
func FlagLabel(key string) (string, bool) {
	for _, group := range [][]Flag{Amenities, Rules} {
		for _, fl := range group {
			if fl.Key == key {
				return fl.Label, true
			}
		}
	}
	return "", false
}

// Summary describes the active filters on one line, or "" when none are set
func (f Filter) Summary() string {
	var parts []string

	if text := strings.TrimSpace(f.Text); text != "" {
		parts = append(parts, fmt.Sprintf("%q", text))
	}
	if f.MinPrice > 0 || f.MaxPrice > 0 {
		if i := f.PricePresetIndex(); i > 0 {
			parts = append(parts, PricePresets[i].Label)
		} else {
			parts = append(parts, rangeLabel(domain.FormatVND(f.MinPrice), domain.FormatVND(f.MaxPrice), f.MinPrice > 0, f.MaxPrice > 0))
		}
	}
	if f.MinArea > 0 || f.MaxArea > 0 {
		if i := f.AreaPresetIndex(); i > 0 {
			parts = append(parts, AreaPresets[i].Label)
		} else {
			parts = append(parts, rangeLabel(formatFloat(f.MinArea)+" m²", formatFloat(f.MaxArea)+" m²", f.MinArea > 0, f.MaxArea > 0))
		}
	}
	for _, key := range f.ActiveFlags() {
		label, _ := FlagLabel(key)
		parts = append(parts, label)
	}
	if f.District != "" {
		parts = append(parts, f.District+", "+f.Province)
	} else if f.Province != "" {
		parts = append(parts, f.Province)
	}
	if f.Geo != nil {
		parts = append(parts, fmt.Sprintf("%s km quanh %.4f, %.4f", formatFloat(f.Geo.RadiusKm), f.Geo.Lat, f.Geo.Lng))
	}

	return strings.Join(parts, " · ")
}

func rangeLabel(min, max string, hasMin, hasMax bool) string {
	switch {
	case hasMin && hasMax:
		return min + " - " + max
	case hasMin:
		return "≥ " + min
	default:
		return "≤ " + max
	}
}
