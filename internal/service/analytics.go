package service

import (
	"context"
	"log/slog"

	"github.com/phongtro/phongtro/internal/domain"
	"golang.org/x/sync/errgroup"
)

// trendMonths is how much price history the dashboard shows
const trendMonths = 12

// AnalyticsService assembles the market dashboard
type AnalyticsService struct {
	repo   domain.AnalyticsRepository
	cache  domain.Cache
	logger *slog.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(repo domain.AnalyticsRepository, cache domain.Cache, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{repo: repo, cache: cache, logger: logger}
}

// Dashboard loads the four analytics endpoints concurrently. Any failure
// fails the whole dashboard and cancels the other requests.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	return cached(ctx, s.cache, s.logger, domain.BucketAnalytics, KeyDashboard, s.load)
}

// Refresh drops the cached dashboard and reloads it
func (s *AnalyticsService) Refresh(ctx context.Context) (*domain.Dashboard, error) {
	s.cache.InvalidateBucket(domain.BucketAnalytics)
	return s.Dashboard(ctx)
}

func (s *AnalyticsService) load(ctx context.Context) (*domain.Dashboard, error) {
	var dash domain.Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		overview, err := s.repo.MarketOverview(ctx)
		if err != nil {
			return err
		}
		dash.Overview = *overview
		return nil
	})
	g.Go(func() error {
		buckets, err := s.repo.PriceDistribution(ctx)
		dash.Distribution = buckets
		return err
	})
	g.Go(func() error {
		districts, err := s.repo.DistrictStats(ctx)
		dash.Districts = districts
		return err
	})
	g.Go(func() error {
		trend, err := s.repo.PriceTrend(ctx, trendMonths)
		dash.Trend = trend
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load dashboard", "error", err)
		return nil, err
	}
	return &dash, nil
}
