package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phongtro/phongtro/internal/domain"
)

// ReviewService reads and posts listing reviews
type ReviewService struct {
	repo   domain.ReviewRepository
	cache  domain.Cache
	logger *slog.Logger
}

// NewReviewService creates a new review service
func NewReviewService(repo domain.ReviewRepository, cache domain.Cache, logger *slog.Logger) *ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{repo: repo, cache: cache, logger: logger}
}

// List returns the reviews of a listing
func (s *ReviewService) List(ctx context.Context, listingID string) ([]*domain.Review, error) {
	return cached(ctx, s.cache, s.logger, domain.BucketReviews, PrefixReviewList+listingID,
		func(ctx context.Context) ([]*domain.Review, error) {
			return s.repo.ListReviews(ctx, listingID)
		})
}

// Summary returns the rating aggregate of a listing
func (s *ReviewService) Summary(ctx context.Context, listingID string) (*domain.ReviewSummary, error) {
	return cached(ctx, s.cache, s.logger, domain.BucketReviews, PrefixReviewSummary+listingID,
		func(ctx context.Context) (*domain.ReviewSummary, error) {
			return s.repo.ReviewSummary(ctx, listingID)
		})
}

// Create posts a review. Ratings outside 1..5 are rejected without a request.
func (s *ReviewService) Create(ctx context.Context, in domain.ReviewInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.ListingID) == "" {
		return nil, fmt.Errorf("%w: listing is required", domain.ErrInvalidInput)
	}
	in.Comment = strings.TrimSpace(in.Comment)

	review, err := s.repo.CreateReview(ctx, in)
	if err != nil {
		s.logger.Error("failed to create review", "error", err, "listingID", in.ListingID)
		return nil, err
	}

	s.cache.InvalidatePrefix(domain.BucketReviews, PrefixReviewList+in.ListingID)
	s.cache.InvalidatePrefix(domain.BucketReviews, PrefixReviewSummary+in.ListingID)
	return review, nil
}
