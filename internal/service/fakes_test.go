package service

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/log"
	"github.com/phongtro/phongtro/internal/store"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) domain.Cache {
	t.Helper()
	cache, err := store.NewResponseStore("", "", "")
	require.NoError(t, err)
	return cache
}

var testLogger = log.NullLogger()

// fakeRepo is an in-memory backend covering every repository interface the
// services use. Calls are counted per method.
type fakeRepo struct {
	mu    sync.Mutex
	calls map[string]int

	page      *domain.ListingPage
	pages     map[string]*domain.ListingPage // by "page" param
	lastQuery url.Values
	listing   *domain.Listing

	favorites []*domain.Favorite
	favErr    error

	connections []*domain.Connection
	check       *domain.ConnectionCheck
	updated     *domain.Connection

	profile *domain.Profile

	reviews []*domain.Review
	summary *domain.ReviewSummary

	notifications []*domain.Notification
	unread        int
	unreadErr     error

	overview     *domain.MarketOverview
	distribution []domain.PriceBucket
	districts    []domain.DistrictStat
	trend        []domain.TrendPoint
	analyticsErr error

	matches []*domain.RoommateMatch

	uploaded []domain.ImageFile
	urls     []string

	session *domain.Session
	err     error // returned by every mutation when set
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{calls: make(map[string]int)}
}

func (f *fakeRepo) called(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeRepo) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRepo) SearchListings(ctx context.Context, params url.Values) (*domain.ListingPage, error) {
	f.called("SearchListings")
	f.mu.Lock()
	f.lastQuery = params
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.pages[params.Get("page")]; ok {
		return p, nil
	}
	return f.page, nil
}

func (f *fakeRepo) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	f.called("GetListing")
	if f.listing == nil {
		return nil, domain.ErrNotFound
	}
	return f.listing, nil
}

func (f *fakeRepo) CreateListing(ctx context.Context, in domain.ListingInput) (*domain.Listing, error) {
	f.called("CreateListing")
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Listing{ID: "new", Title: *in.Title, Price: *in.Price}, nil
}

func (f *fakeRepo) UpdateListing(ctx context.Context, id string, in domain.ListingInput) (*domain.Listing, error) {
	f.called("UpdateListing")
	return &domain.Listing{ID: id}, f.err
}

func (f *fakeRepo) DeleteListing(ctx context.Context, id string) error {
	f.called("DeleteListing")
	return f.err
}

func (f *fakeRepo) VerifyListing(ctx context.Context, id string) (*domain.Listing, error) {
	f.called("VerifyListing")
	return &domain.Listing{ID: id, Verified: true}, f.err
}

func (f *fakeRepo) ListFavorites(ctx context.Context) ([]*domain.Favorite, error) {
	f.called("ListFavorites")
	return f.favorites, nil
}

func (f *fakeRepo) AddFavorite(ctx context.Context, listingID string) (*domain.Favorite, error) {
	f.called("AddFavorite")
	if f.favErr != nil {
		return nil, f.favErr
	}
	return &domain.Favorite{ListingID: listingID}, nil
}

func (f *fakeRepo) RemoveFavorite(ctx context.Context, listingID string) error {
	f.called("RemoveFavorite")
	return f.favErr
}

func (f *fakeRepo) CreateConnection(ctx context.Context, listingID, message string) (*domain.Connection, error) {
	f.called("CreateConnection")
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Connection{ID: "c-new", ListingID: listingID, Message: message, Status: domain.ConnectionPending}, nil
}

func (f *fakeRepo) ListOutgoing(ctx context.Context) ([]*domain.Connection, error) {
	f.called("ListOutgoing")
	return f.connections, nil
}

func (f *fakeRepo) ListIncoming(ctx context.Context) ([]*domain.Connection, error) {
	f.called("ListIncoming")
	return f.connections, nil
}

func (f *fakeRepo) UpdateConnectionStatus(ctx context.Context, id string, status domain.ConnectionStatus) (*domain.Connection, error) {
	f.called("UpdateConnectionStatus")
	if f.err != nil {
		return nil, f.err
	}
	return f.updated, nil
}

func (f *fakeRepo) CheckConnection(ctx context.Context, listingID string) (*domain.ConnectionCheck, error) {
	f.called("CheckConnection")
	return f.check, nil
}

func (f *fakeRepo) GetMyProfile(ctx context.Context) (*domain.Profile, error) {
	f.called("GetMyProfile")
	return f.profile, nil
}

func (f *fakeRepo) UpdateMyProfile(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	f.called("UpdateMyProfile")
	return &p, f.err
}

func (f *fakeRepo) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	f.called("GetProfile")
	return &domain.Profile{UserID: userID}, nil
}

func (f *fakeRepo) ListReviews(ctx context.Context, listingID string) ([]*domain.Review, error) {
	f.called("ListReviews")
	return f.reviews, nil
}

func (f *fakeRepo) CreateReview(ctx context.Context, in domain.ReviewInput) (*domain.Review, error) {
	f.called("CreateReview")
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Review{ID: "r-new", ListingID: in.ListingID, Rating: in.Rating, Comment: in.Comment}, nil
}

func (f *fakeRepo) ReviewSummary(ctx context.Context, listingID string) (*domain.ReviewSummary, error) {
	f.called("ReviewSummary")
	return f.summary, nil
}

func (f *fakeRepo) ListNotifications(ctx context.Context, unreadOnly bool) ([]*domain.Notification, error) {
	f.called("ListNotifications")
	return f.notifications, nil
}

func (f *fakeRepo) UnreadCount(ctx context.Context) (int, error) {
	f.called("UnreadCount")
	return f.unread, f.unreadErr
}

func (f *fakeRepo) MarkRead(ctx context.Context, id string) error {
	f.called("MarkRead")
	return f.err
}

func (f *fakeRepo) MarkAllRead(ctx context.Context) error {
	f.called("MarkAllRead")
	return f.err
}

func (f *fakeRepo) DeleteNotification(ctx context.Context, id string) error {
	f.called("DeleteNotification")
	return f.err
}

func (f *fakeRepo) CreateReport(ctx context.Context, in domain.ReportInput) (*domain.Report, error) {
	f.called("CreateReport")
	return &domain.Report{ID: "rep-1", TargetType: in.TargetType, TargetID: in.TargetID, Reason: in.Reason, Status: domain.ReportOpen}, f.err
}

func (f *fakeRepo) ListReports(ctx context.Context, status domain.ReportStatus) ([]*domain.Report, error) {
	f.called("ListReports")
	return []*domain.Report{{ID: "rep-1", Status: domain.ReportOpen}}, nil
}

func (f *fakeRepo) ResolveReport(ctx context.Context, id, resolution string) (*domain.Report, error) {
	f.called("ResolveReport")
	return &domain.Report{ID: id, Status: domain.ReportResolved, Resolution: resolution}, f.err
}

func (f *fakeRepo) UploadImages(ctx context.Context, files []domain.ImageFile) ([]string, error) {
	f.called("UploadImages")
	f.uploaded = files
	return f.urls, f.err
}

func (f *fakeRepo) MarketOverview(ctx context.Context) (*domain.MarketOverview, error) {
	f.called("MarketOverview")
	if f.analyticsErr != nil {
		return nil, f.analyticsErr
	}
	return f.overview, nil
}

func (f *fakeRepo) PriceDistribution(ctx context.Context) ([]domain.PriceBucket, error) {
	f.called("PriceDistribution")
	return f.distribution, nil
}

func (f *fakeRepo) DistrictStats(ctx context.Context) ([]domain.DistrictStat, error) {
	f.called("DistrictStats")
	return f.districts, nil
}

func (f *fakeRepo) PriceTrend(ctx context.Context, months int) ([]domain.TrendPoint, error) {
	f.called("PriceTrend")
	return f.trend, nil
}

func (f *fakeRepo) Roommates(ctx context.Context, limit int) ([]*domain.RoommateMatch, error) {
	f.called("Roommates")
	if len(f.matches) > limit {
		return f.matches[:limit], nil
	}
	return f.matches, nil
}

func (f *fakeRepo) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	f.called("Login")
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakeRepo) Register(ctx context.Context, reg domain.Registration) (*domain.Session, error) {
	f.called("Register")
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakeRepo) SetSession(token, userID string) {
	f.called("SetSession")
}
