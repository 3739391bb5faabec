package query

import (
	"sort"

	"github.com/phongtro/phongtro/internal/domain"
)

// SortField represents a field to sort by
type SortField int

const (
	SortDefault SortField = iota // backend order
	SortPrice
	SortArea
)

// String returns the display name for the sort field
func (f SortField) String() string {
	switch f {
	case SortDefault:
		return "Mặc định"
	case SortPrice:
		return "Giá"
	case SortArea:
		return "Diện tích"
	default:
		return "Unknown"
	}
}

// SortDirection represents sort direction
type SortDirection int

const (
	SortAsc SortDirection = iota
	SortDesc
)

// String returns the display name for the direction
func (d SortDirection) String() string {
	if d == SortDesc {
		return "giảm dần"
	}
	return "tăng dần"
}

// SortFields returns the options offered by the sort modal
func SortFields() []SortField {
	return []SortField{SortDefault, SortPrice, SortArea}
}

// Sort is the user's sort choice
type Sort struct {
	Field     SortField
	Direction SortDirection
}

// String describes the sort (e.g. "Giá tăng dần")
func (s Sort) String() string {
	if s.Field == SortDefault {
		return s.Field.String()
	}
	return s.Field.String() + " " + s.Direction.String()
}

// Select returns the sort after choosing field in the sort modal:
// choosing the active field again flips its direction, a new field starts ascending.
func (s Sort) Select(field SortField) Sort {
	if field == s.Field && field != SortDefault {
		if s.Direction == SortAsc {
			return Sort{Field: field, Direction: SortDesc}
		}
		return Sort{Field: field, Direction: SortAsc}
	}
	return Sort{Field: field, Direction: SortAsc}
}

// SortListings returns a re-sorted copy of items. The input slice is not
// modified. SortDefault keeps the backend order; ties keep their relative
// order, so sorting an already sorted page by the same key changes nothing.
func SortListings(items []*domain.Listing, s Sort) []*domain.Listing {
	out := make([]*domain.Listing, len(items))
	copy(out, items)

	var less func(a, b *domain.Listing) bool
	switch s.Field {
	case SortPrice:
		less = func(a, b *domain.Listing) bool { return a.Price < b.Price }
	case SortArea:
		less = func(a, b *domain.Listing) bool { return a.Area < b.Area }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		if s.Direction == SortDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}
