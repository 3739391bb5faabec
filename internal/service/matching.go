package service

import (
	"context"
	"log/slog"

	"github.com/phongtro/phongtro/internal/domain"
)

const defaultRoommateLimit = 20

// MatchingService returns roommate candidates
type MatchingService struct {
	repo   domain.MatchingRepository
	cache  domain.Cache
	logger *slog.Logger
}

// NewMatchingService creates a new matching service
func NewMatchingService(repo domain.MatchingRepository, cache domain.Cache, logger *slog.Logger) *MatchingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchingService{repo: repo, cache: cache, logger: logger}
}

// Roommates returns up to limit candidates, best match first
func (s *MatchingService) Roommates(ctx context.Context, limit int) ([]*domain.RoommateMatch, error) {
	if limit <= 0 {
		limit = defaultRoommateLimit
	}
	return cached(ctx, s.cache, s.logger, domain.BucketMatching, roommatesKey(limit),
		func(ctx context.Context) ([]*domain.RoommateMatch, error) {
			return s.repo.Roommates(ctx, limit)
		})
}
