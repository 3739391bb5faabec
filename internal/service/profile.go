package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phongtro/phongtro/internal/domain"
)

// ProfileService manages roommate profiles
type ProfileService struct {
	repo   domain.ProfileRepository
	cache  domain.Cache
	logger *slog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(repo domain.ProfileRepository, cache domain.Cache, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{repo: repo, cache: cache, logger: logger}
}

// Me returns the current user's profile
func (s *ProfileService) Me(ctx context.Context) (*domain.Profile, error) {
	return cached(ctx, s.cache, s.logger, domain.BucketProfiles, KeyMyProfile, s.repo.GetMyProfile)
}

// Get returns another user's profile
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	return cached(ctx, s.cache, s.logger, domain.BucketProfiles, PrefixUser+userID,
		func(ctx context.Context) (*domain.Profile, error) {
			return s.repo.GetProfile(ctx, userID)
		})
}

// UpdateMe replaces the current user's profile
func (s *ProfileService) UpdateMe(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	if p.Cleanliness < 0 || p.Cleanliness > 5 {
		return nil, fmt.Errorf("%w: cleanliness must be between 1 and 5", domain.ErrInvalidInput)
	}
	if p.BudgetMin < 0 || p.BudgetMax < 0 || (p.BudgetMax > 0 && p.BudgetMin > p.BudgetMax) {
		return nil, fmt.Errorf("%w: invalid budget range", domain.ErrInvalidInput)
	}

	updated, err := s.repo.UpdateMyProfile(ctx, p)
	if err != nil {
		s.logger.Error("failed to update profile", "error", err)
		return nil, err
	}

	if err := s.cache.Set(domain.BucketProfiles, KeyMyProfile, updated); err != nil {
		s.logger.Error("failed to cache profile", "error", err)
	}
	// Match scores depend on the profile
	s.cache.InvalidateBucket(domain.BucketMatching)
	return updated, nil
}
