package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/phongtro/phongtro/internal/config"
	"github.com/phongtro/phongtro/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionRespond(t *testing.T) {
	repo := newFakeRepo()
	repo.updated = &domain.Connection{ID: "c1", ListingID: "42", Status: domain.ConnectionAccepted}
	repo.listing = &domain.Listing{ID: "42"}
	cache := newCache(t)
	svc := NewConnectionService(repo, cache, testLogger)
	listings := NewListingService(repo, cache, testLogger)
	ctx := context.Background()

	_, err := svc.Respond(ctx, "c1", domain.ConnectionPending)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, repo.count("UpdateConnectionStatus"))

	_, err = svc.Incoming(ctx)
	require.NoError(t, err)
	_, err = listings.Get(ctx, "42")
	require.NoError(t, err)

	conn, err := svc.Respond(ctx, "c1", domain.ConnectionAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.ConnectionAccepted, conn.Status)

	_, err = svc.Incoming(ctx)
	require.NoError(t, err)
	_, err = listings.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.count("ListIncoming"))
	assert.Equal(t, 2, repo.count("GetListing"), "contact details are refetched")
}

func TestConnectionRequestInvalidatesCheck(t *testing.T) {
	repo := newFakeRepo()
	repo.check = &domain.ConnectionCheck{}
	svc := NewConnectionService(repo, newCache(t), testLogger)
	ctx := context.Background()

	check, err := svc.Check(ctx, "42")
	require.NoError(t, err)
	assert.False(t, check.Exists)

	_, err = svc.Request(ctx, "42", "Cho mình xin số điện thoại")
	require.NoError(t, err)

	_, err = svc.Check(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.count("CheckConnection"))
}

func TestReviewRatingValidatedLocally(t *testing.T) {
	repo := newFakeRepo()
	svc := NewReviewService(repo, newCache(t), testLogger)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), domain.ReviewInput{ListingID: "42", Rating: rating})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, rating)
	}
	assert.Zero(t, repo.count("CreateReview"))

	review, err := svc.Create(context.Background(), domain.ReviewInput{ListingID: "42", Rating: 5, Comment: "  Sạch sẽ  "})
	require.NoError(t, err)
	assert.Equal(t, "Sạch sẽ", review.Comment)
}

func TestReviewCreateInvalidatesListingReviewsOnly(t *testing.T) {
	repo := newFakeRepo()
	repo.summary = &domain.ReviewSummary{Average: 4}
	svc := NewReviewService(repo, newCache(t), testLogger)
	ctx := context.Background()

	_, err := svc.Summary(ctx, "42")
	require.NoError(t, err)
	_, err = svc.Summary(ctx, "7")
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.ReviewInput{ListingID: "42", Rating: 4})
	require.NoError(t, err)

	_, err = svc.Summary(ctx, "42")
	require.NoError(t, err)
	_, err = svc.Summary(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, 3, repo.count("ReviewSummary"))
}

func TestUnreadCountFallsBackToCache(t *testing.T) {
	repo := newFakeRepo()
	repo.unread = 4
	svc := NewNotificationService(repo, newCache(t), testLogger)
	ctx := context.Background()

	_, err := svc.UnreadCount(ctx)
	require.NoError(t, err)

	repo.unreadErr = domain.ErrServerOffline
	n, err := svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestMarkAllReadInvalidates(t *testing.T) {
	repo := newFakeRepo()
	repo.notifications = []*domain.Notification{{ID: "n1"}}
	svc := NewNotificationService(repo, newCache(t), testLogger)
	ctx := context.Background()

	_, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.NoError(t, svc.MarkAllRead(ctx))
	_, err = svc.List(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.count("ListNotifications"))
}

func TestReportValidation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewReportService(repo, newCache(t), testLogger)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.ReportInput{TargetType: "listing", TargetID: "42", Reason: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Create(ctx, domain.ReportInput{TargetType: "review", TargetID: "42", Reason: "spam"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Resolve(ctx, "rep-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	report, err := svc.Create(ctx, domain.ReportInput{TargetType: "listing", TargetID: "42", Reason: "Tin lừa đảo"})
	require.NoError(t, err)
	assert.Equal(t, domain.ReportOpen, report.Status)

	resolved, err := svc.Resolve(ctx, "rep-1", "Đã gỡ tin")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportResolved, resolved.Status)
}

func TestDashboardLoadsAllSections(t *testing.T) {
	repo := newFakeRepo()
	repo.overview = &domain.MarketOverview{TotalListings: 120}
	repo.distribution = []domain.PriceBucket{{Label: "1 - 2 triệu", Count: 40}}
	repo.districts = []domain.DistrictStat{{District: "Cầu Giấy", Count: 30}}
	repo.trend = []domain.TrendPoint{{AveragePrice: 2_800_000}}
	svc := NewAnalyticsService(repo, newCache(t), testLogger)
	ctx := context.Background()

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 120, dash.Overview.TotalListings)
	assert.Len(t, dash.Distribution, 1)
	assert.Len(t, dash.Districts, 1)
	assert.Len(t, dash.Trend, 1)

	_, err = svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.count("MarketOverview"), "second load is cached")
}

func TestDashboardFailsAsAWhole(t *testing.T) {
	repo := newFakeRepo()
	repo.analyticsErr = domain.ErrForbidden
	svc := NewAnalyticsService(repo, newCache(t), testLogger)

	dash, err := svc.Dashboard(context.Background())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Nil(t, dash)
}

func TestRoommatesDefaultLimit(t *testing.T) {
	repo := newFakeRepo()
	for i := 0; i < 30; i++ {
		repo.matches = append(repo.matches, &domain.RoommateMatch{Score: float64(100 - i)})
	}
	svc := NewMatchingService(repo, newCache(t), testLogger)

	matches, err := svc.Roommates(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, matches, defaultRoommateLimit)
}

func TestProfileUpdateValidatesAndInvalidatesMatches(t *testing.T) {
	repo := newFakeRepo()
	cache := newCache(t)
	profiles := NewProfileService(repo, cache, testLogger)
	matching := NewMatchingService(repo, cache, testLogger)
	ctx := context.Background()

	_, err := profiles.UpdateMe(ctx, domain.Profile{Cleanliness: 9})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = profiles.UpdateMe(ctx, domain.Profile{BudgetMin: 5_000_000, BudgetMax: 2_000_000})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = matching.Roommates(ctx, 5)
	require.NoError(t, err)

	updated, err := profiles.UpdateMe(ctx, domain.Profile{Name: "Lan", Cleanliness: 4})
	require.NoError(t, err)
	assert.Equal(t, "Lan", updated.Name)

	me, err := profiles.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Lan", me.Name)
	assert.Zero(t, repo.count("GetMyProfile"), "profile served from the updated cache")

	_, err = matching.Roommates(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.count("Roommates"))
}

func TestUploadReadsFiles(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "phong.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg"), 0o644))

	repo := newFakeRepo()
	repo.urls = []string{"https://cdn/phong.jpg"}
	svc := NewUploadService(repo, testLogger)

	urls, err := svc.Upload(context.Background(), []string{photo})
	require.NoError(t, err)
	assert.Equal(t, repo.urls, urls)
	require.Len(t, repo.uploaded, 1)
	assert.Equal(t, "phong.jpg", repo.uploaded[0].Name)
	assert.Equal(t, "image/jpeg", repo.uploaded[0].ContentType)

	_, err = svc.Upload(context.Background(), []string{filepath.Join(dir, "notes.txt")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Upload(context.Background(), []string{filepath.Join(dir, "missing.png")})
	assert.Error(t, err)
}

func TestSessionLoginAndLogout(t *testing.T) {
	cfg, err := config.LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	repo := newFakeRepo()
	repo.session = &domain.Session{Token: "tok", User: domain.User{ID: "u-1", Name: "An", Email: "an@x.vn", Role: "renter"}}
	cache := newCache(t)
	require.NoError(t, cache.Set(domain.BucketFavorites, KeyFavorites, []string{"stale"}))

	svc := NewSessionService(repo, cfg, cache, testLogger)

	_, err = svc.Login(context.Background(), "an@x.vn", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.Server.Token)
	assert.Equal(t, "u-1", cfg.Server.UserID)

	var v []string
	assert.False(t, cache.Get(domain.BucketFavorites, KeyFavorites, &v), "cache is wiped on login")

	current, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, "An", current.User.Name)

	reloaded, err := config.LoadConfigFrom(cfg.Dir())
	require.NoError(t, err)
	assert.Equal(t, "tok", reloaded.Server.Token)

	require.NoError(t, svc.Logout())
	_, ok = svc.Current()
	assert.False(t, ok)
	assert.Equal(t, 1, repo.count("SetSession"))
}

func TestSessionLoginFailureKeepsConfig(t *testing.T) {
	cfg, err := config.LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	repo := newFakeRepo()
	repo.err = errors.New("wrong password")
	svc := NewSessionService(repo, cfg, newCache(t), testLogger)

	_, err = svc.Login(context.Background(), "an@x.vn", "bad")
	assert.Error(t, err)
	assert.Empty(t, cfg.Server.Token)
}
