package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ListingStatus is the moderation state of a listing
type ListingStatus string

const (
	ListingStatusPending  ListingStatus = "pending"
	ListingStatusActive   ListingStatus = "active"
	ListingStatusHidden   ListingStatus = "hidden"
	ListingStatusRejected ListingStatus = "rejected"
)

// Listing represents a rentable room or unit
type Listing struct {
	ID          string // Server-specific unique identifier
	OwnerID     string // User who posted the listing
	OwnerName   string // Display name of the owner
	Title       string // Display title
	Description string // Markdown description
	Address     string // Street address as entered by the owner
	Province    string // Province / city name
	District    string // District name
	Ward        string // Ward name
	Lat         float64
	Lng         float64
	Price       int64   // Monthly rent in VND
	Area        float64 // Floor area in m²
	Deposit     int64   // Deposit in VND (0 = none)
	Amenities   []string
	Rules       []string
	Images      []string // Image URLs
	Verified    bool     // Verified by the platform
	Status      ListingStatus
	Distance    float64 // Distance from the geo filter center in km (0 = not computed)
	ViewCount   int

	// Contact details are only returned once a connection is accepted
	ContactPhone string
	ContactEmail string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FormattedPrice returns the rent in the form used on listing cards (e.g. "2,5 triệu")
func (l Listing) FormattedPrice() string {
	return FormatVND(l.Price)
}

// FormattedArea returns the floor area (e.g. "25 m²")
func (l Listing) FormattedArea() string {
	if l.Area <= 0 {
		return ""
	}
	if l.Area == float64(int64(l.Area)) {
		return fmt.Sprintf("%d m²", int64(l.Area))
	}
	return fmt.Sprintf("%.1f m²", l.Area)
}

// PricePerM2 returns the monthly rent per square metre, or 0 when area is unknown
func (l Listing) PricePerM2() int64 {
	if l.Area <= 0 {
		return 0
	}
	return int64(float64(l.Price) / l.Area)
}

// FormattedDistance returns the distance from the search center (e.g. "1.2 km")
func (l Listing) FormattedDistance() string {
	switch {
	case l.Distance <= 0:
		return ""
	case l.Distance < 1:
		return fmt.Sprintf("%d m", int(l.Distance*1000))
	default:
		return fmt.Sprintf("%.1f km", l.Distance)
	}
}

// Location returns the most specific human-readable location
func (l Listing) Location() string {
	var parts []string
	for _, p := range []string{l.District, l.Province} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return l.Address
	}
	return strings.Join(parts, ", ")
}

// Coordinates returns the pinned position; ok is false when the owner never set one
func (l Listing) Coordinates() (c Coordinates, ok bool) {
	c = Coordinates{Lat: l.Lat, Lng: l.Lng}
	return c, (l.Lat != 0 || l.Lng != 0) && c.Valid()
}

// HasContact reports whether the owner's contact details were disclosed
func (l Listing) HasContact() bool {
	return l.ContactPhone != "" || l.ContactEmail != ""
}

// FormatVND formats a VND amount the way Vietnamese rental sites do:
// amounts of one million or more use "triệu", smaller amounts use "nghìn".
func FormatVND(amount int64) string {
	if amount <= 0 {
		return "Thỏa thuận"
	}
	if amount >= 1_000_000 {
		millions := float64(amount) / 1_000_000
		s := strconv.FormatFloat(millions, 'f', 1, 64)
		s = strings.TrimSuffix(s, ".0")
		return strings.Replace(s, ".", ",", 1) + " triệu"
	}
	return fmt.Sprintf("%d nghìn", amount/1000)
}

// ListingPage is one page of search results
type ListingPage struct {
	Items []*Listing
	Total int // Total matches across all pages
	Page  int // 1-based page number
	Limit int // Page size requested
}

// IsEmpty reports whether the page holds no listings
func (p ListingPage) IsEmpty() bool {
	return len(p.Items) == 0
}

// TotalPages returns the page count implied by Total and Limit
func (p ListingPage) TotalPages() int {
	if p.Limit <= 0 || p.Total <= 0 {
		return 1
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// HasNext reports whether another page exists after this one
func (p ListingPage) HasNext() bool {
	return p.Page < p.TotalPages()
}

// ListingInput is the payload for creating or updating a listing.
// Nil pointer fields are omitted from PATCH requests.
type ListingInput struct {
	Title       *string
	Description *string
	Address     *string
	Province    *string
	District    *string
	Ward        *string
	Lat         *float64
	Lng         *float64
	Price       *int64
	Area        *float64
	Deposit     *int64
	Amenities   []string
	Rules       []string
	Images      []string
	Status      *ListingStatus
}

// User is an authenticated account
type User struct {
	ID       string
	Email    string
	Name     string
	Phone    string
	Role     string // "renter", "landlord", "admin"
	Verified bool   // Email verified
}

// IsAdmin reports whether the user may resolve reports and verify listings
func (u User) IsAdmin() bool {
	return u.Role == "admin"
}

// Session is the locally stored identity used on every request
type Session struct {
	Token string
	User  User
}

// Valid reports whether the session carries credentials
func (s Session) Valid() bool {
	return s.Token != "" && s.User.ID != ""
}

// Registration holds the fields required to create an account
type Registration struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Role     string
}
