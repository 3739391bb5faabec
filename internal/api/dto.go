package api

import "time"

// errorDTO is the body of a non-2xx response
type errorDTO struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// UserDTO represents an account
type UserDTO struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
	Verified bool   `json:"is_verified,omitempty"`
}

// AuthResponse is returned by /auth/login and /auth/register
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"`
}

// ListingDTO represents a listing as returned by the API
type ListingDTO struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	OwnerName    string    `json:"owner_name,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Address      string    `json:"address,omitempty"`
	Province     string    `json:"province,omitempty"`
	District     string    `json:"district,omitempty"`
	Ward         string    `json:"ward,omitempty"`
	Lat          float64   `json:"lat,omitempty"`
	Lng          float64   `json:"lng,omitempty"`
	Price        int64     `json:"price"`
	Area         float64   `json:"area,omitempty"`
	Deposit      int64     `json:"deposit,omitempty"`
	Amenities    []string  `json:"amenities,omitempty"`
	Rules        []string  `json:"rules,omitempty"`
	Images       []string  `json:"images,omitempty"`
	IsVerified   bool      `json:"is_verified,omitempty"`
	Status       string    `json:"status,omitempty"`
	Distance     float64   `json:"distance,omitempty"` // km, only with a geo filter
	ViewCount    int       `json:"view_count,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListingPageDTO is one page of GET /listings
type ListingPageDTO struct {
	Items []ListingDTO `json:"items"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

// listingInputDTO is the body of POST /listings and PATCH /listings/:id
type listingInputDTO struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Address     *string  `json:"address,omitempty"`
	Province    *string  `json:"province,omitempty"`
	District    *string  `json:"district,omitempty"`
	Ward        *string  `json:"ward,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	Price       *int64   `json:"price,omitempty"`
	Area        *float64 `json:"area,omitempty"`
	Deposit     *int64   `json:"deposit,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
	Rules       []string `json:"rules,omitempty"`
	Images      []string `json:"images,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

// FavoriteDTO represents a saved listing
type FavoriteDTO struct {
	ID        string      `json:"id"`
	ListingID string      `json:"listing_id"`
	Listing   *ListingDTO `json:"listing,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// ConnectionDTO represents a renter→owner request
type ConnectionDTO struct {
	ID           string    `json:"id"`
	ListingID    string    `json:"listing_id"`
	ListingTitle string    `json:"listing_title,omitempty"`
	RenterID     string    `json:"renter_id"`
	RenterName   string    `json:"renter_name,omitempty"`
	OwnerID      string    `json:"owner_id"`
	OwnerName    string    `json:"owner_name,omitempty"`
	Status       string    `json:"status"`
	Message      string    `json:"message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ConnectionCheckDTO is the body of GET /connections/check/:listingId
type ConnectionCheckDTO struct {
	Exists     bool           `json:"exists"`
	Connection *ConnectionDTO `json:"connection,omitempty"`
}

// ProfileDTO represents a roommate profile
type ProfileDTO struct {
	UserID             string    `json:"user_id"`
	Name               string    `json:"name,omitempty"`
	Gender             string    `json:"gender,omitempty"`
	Age                int       `json:"age,omitempty"`
	Occupation         string    `json:"occupation,omitempty"`
	Bio                string    `json:"bio,omitempty"`
	AvatarURL          string    `json:"avatar_url,omitempty"`
	BudgetMin          int64     `json:"budget_min,omitempty"`
	BudgetMax          int64     `json:"budget_max,omitempty"`
	PreferredDistricts []string  `json:"preferred_districts,omitempty"`
	Smoking            bool      `json:"smoking"`
	Pets               bool      `json:"pets"`
	SleepSchedule      string    `json:"sleep_schedule,omitempty"`
	Cleanliness        int       `json:"cleanliness,omitempty"`
	GenderPreference   string    `json:"gender_preference,omitempty"`
	UpdatedAt          time.Time `json:"updated_at,omitempty"`
}

// ReviewDTO represents a review
type ReviewDTO struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewSummaryDTO is the body of GET /reviews/summary
type ReviewSummaryDTO struct {
	ListingID    string         `json:"listing_id"`
	Average      float64        `json:"average"`
	Count        int            `json:"count"`
	Distribution map[string]int `json:"distribution,omitempty"` // "1".."5" → count
}

// NotificationDTO represents a notification
type NotificationDTO struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Link      string    `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type unreadCountDTO struct {
	Count int `json:"count"`
}

// ReportDTO represents a moderation report
type ReportDTO struct {
	ID         string     `json:"id"`
	TargetType string     `json:"target_type"`
	TargetID   string     `json:"target_id"`
	ReporterID string     `json:"reporter_id,omitempty"`
	Reason     string     `json:"reason"`
	Details    string     `json:"details,omitempty"`
	Status     string     `json:"status"`
	Resolution string     `json:"resolution,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

type uploadResponseDTO struct {
	URLs []string `json:"urls"`
}

// OverviewDTO is the body of GET /analytics/overview
type OverviewDTO struct {
	TotalListings   int     `json:"total_listings"`
	ActiveListings  int     `json:"active_listings"`
	VerifiedRatio   float64 `json:"verified_ratio"`
	AveragePrice    int64   `json:"average_price"`
	MedianPrice     int64   `json:"median_price"`
	AverageArea     float64 `json:"average_area"`
	NewThisWeek     int     `json:"new_this_week"`
	ConnectionsRate float64 `json:"connections_rate"`
}

// PriceBucketDTO is one bucket of GET /analytics/price-distribution
type PriceBucketDTO struct {
	Label string `json:"label"`
	Min   int64  `json:"min"`
	Max   int64  `json:"max"`
	Count int    `json:"count"`
}

// DistrictStatDTO is one row of GET /analytics/districts
type DistrictStatDTO struct {
	District     string  `json:"district"`
	Province     string  `json:"province"`
	Count        int     `json:"count"`
	AveragePrice int64   `json:"average_price"`
	AverageArea  float64 `json:"average_area"`
}

// TrendPointDTO is one point of GET /analytics/trends
type TrendPointDTO struct {
	Period       string `json:"period"` // "2006-01" or RFC 3339
	AveragePrice int64  `json:"average_price"`
	Count        int    `json:"count"`
}

// RoommateMatchDTO is one candidate of GET /matching/roommates
type RoommateMatchDTO struct {
	Profile ProfileDTO `json:"profile"`
	Score   float64    `json:"score"`
	Reasons []string   `json:"reasons,omitempty"`
}

// ChatFrame is a chat message on the wire, used by both the history
// endpoint and the chat socket
type ChatFrame struct {
	Type     string    `json:"type,omitempty"` // "message" or "error"
	ID       string    `json:"id,omitempty"`
	ClientID string    `json:"client_id,omitempty"`
	FromID   string    `json:"from_id,omitempty"`
	ToID     string    `json:"to_id"`
	Text     string    `json:"text"`
	SentAt   time.Time `json:"sent_at,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Chat frame types
const (
	FrameMessage = "message"
	FrameError   = "error"
)
