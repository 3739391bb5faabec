package domain

import (
	"context"
	"io"
	"net/url"
)

// AuthRepository issues sessions
type AuthRepository interface {
	Register(ctx context.Context, reg Registration) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
}

// ListingRepository provides access to listings.
// SearchListings receives the composed query parameters verbatim.
type ListingRepository interface {
	SearchListings(ctx context.Context, params url.Values) (*ListingPage, error)
	GetListing(ctx context.Context, id string) (*Listing, error)
	CreateListing(ctx context.Context, in ListingInput) (*Listing, error)
	UpdateListing(ctx context.Context, id string, in ListingInput) (*Listing, error)
	DeleteListing(ctx context.Context, id string) error
	VerifyListing(ctx context.Context, id string) (*Listing, error)
}

// FavoriteRepository manages saved listings
type FavoriteRepository interface {
	ListFavorites(ctx context.Context) ([]*Favorite, error)
	AddFavorite(ctx context.Context, listingID string) (*Favorite, error)
	RemoveFavorite(ctx context.Context, listingID string) error
}

// ConnectionRepository manages renter→owner requests
type ConnectionRepository interface {
	CreateConnection(ctx context.Context, listingID, message string) (*Connection, error)
	ListOutgoing(ctx context.Context) ([]*Connection, error)
	ListIncoming(ctx context.Context) ([]*Connection, error)
	UpdateConnectionStatus(ctx context.Context, id string, status ConnectionStatus) (*Connection, error)
	CheckConnection(ctx context.Context, listingID string) (*ConnectionCheck, error)
}

// ProfileRepository manages roommate profiles
type ProfileRepository interface {
	GetMyProfile(ctx context.Context) (*Profile, error)
	UpdateMyProfile(ctx context.Context, p Profile) (*Profile, error)
	GetProfile(ctx context.Context, userID string) (*Profile, error)
}

// ReviewRepository manages listing reviews
type ReviewRepository interface {
	ListReviews(ctx context.Context, listingID string) ([]*Review, error)
	CreateReview(ctx context.Context, in ReviewInput) (*Review, error)
	ReviewSummary(ctx context.Context, listingID string) (*ReviewSummary, error)
}

// NotificationRepository manages user notifications
type NotificationRepository interface {
	ListNotifications(ctx context.Context, unreadOnly bool) ([]*Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
}

// ReportRepository manages moderation reports
type ReportRepository interface {
	CreateReport(ctx context.Context, in ReportInput) (*Report, error)
	ListReports(ctx context.Context, status ReportStatus) ([]*Report, error)
	ResolveReport(ctx context.Context, id, resolution string) (*Report, error)
}

// ImageFile is one file to upload
type ImageFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// UploadRepository stores images and returns their public URLs
type UploadRepository interface {
	UploadImages(ctx context.Context, files []ImageFile) ([]string, error)
}

// AnalyticsRepository exposes pre-aggregated market data
type AnalyticsRepository interface {
	MarketOverview(ctx context.Context) (*MarketOverview, error)
	PriceDistribution(ctx context.Context) ([]PriceBucket, error)
	DistrictStats(ctx context.Context) ([]DistrictStat, error)
	PriceTrend(ctx context.Context, months int) ([]TrendPoint, error)
}

// MatchingRepository returns roommate candidates scored by the backend
type MatchingRepository interface {
	Roommates(ctx context.Context, limit int) ([]*RoommateMatch, error)
}

// ChatRepository returns stored chat history
type ChatRepository interface {
	ChatHistory(ctx context.Context, peerID string, limit int) ([]ChatMessage, error)
}

// Geocoder converts between coordinates and addresses
type Geocoder interface {
	Reverse(ctx context.Context, at Coordinates) (*Place, error)
	Search(ctx context.Context, query string, limit int) ([]Place, error)
}

// RegionDirectory lists administrative regions
type RegionDirectory interface {
	Provinces(ctx context.Context) ([]Region, error)
	Districts(ctx context.Context, provinceCode int) ([]Region, error)
	Wards(ctx context.Context, districtCode int) ([]Region, error)
}
