package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/query"
)

// ListingService searches and manages listings.
// Search pages are cached under the filter's canonical key; sorting is
// applied locally so re-sorting never hits the network.
type ListingService struct {
	repo   domain.ListingRepository
	cache  domain.Cache
	logger *slog.Logger
}

// NewListingService creates a new listing service
func NewListingService(repo domain.ListingRepository, cache domain.Cache, logger *slog.Logger) *ListingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingService{repo: repo, cache: cache, logger: logger}
}

// Search returns the page matching f, sorted by s
func (s *ListingService) Search(ctx context.Context, f query.Filter, sort query.Sort) (*domain.ListingPage, error) {
	page, err := cached(ctx, s.cache, s.logger, domain.BucketListings, f.Key(),
		func(ctx context.Context) (*domain.ListingPage, error) {
			page, err := s.repo.SearchListings(ctx, f.Params())
			if err != nil {
				s.logger.Error("failed to search listings", "error", err, "query", f.Key())
				return nil, err
			}
			s.logger.Debug("searched listings", "count", len(page.Items), "total", page.Total, "query", f.Key())
			return page, nil
		})
	if err != nil {
		return nil, err
	}
	return sorted(page, sort), nil
}

// CachedSearch returns the cached page for f without touching the network
func (s *ListingService) CachedSearch(f query.Filter, sort query.Sort) (*domain.ListingPage, bool) {
	var page *domain.ListingPage
	if !s.cache.Get(domain.BucketListings, f.Key(), &page) || page == nil {
		return nil, false
	}
	return sorted(page, sort), true
}

// Refresh drops every cached search page and reloads f
func (s *ListingService) Refresh(ctx context.Context, f query.Filter, sort query.Sort) (*domain.ListingPage, error) {
	s.cache.InvalidateBucket(domain.BucketListings)
	s.logger.Info("invalidated listing search cache")
	return s.Search(ctx, f, sort)
}

// SearchAll walks every page matching f. Pages are not cached.
func (s *ListingService) SearchAll(ctx context.Context, f query.Filter, onProgress func(loaded, total int)) ([]*domain.Listing, error) {
	return fetchAll(ctx,
		func(ctx context.Context, page, limit int) ([]*domain.Listing, int, error) {
			f.Limit = limit
			result, err := s.repo.SearchListings(ctx, f.WithPage(page).Params())
			if err != nil {
				return nil, 0, err
			}
			return result.Items, result.Total, nil
		},
		f.Limit,
		onProgress,
	)
}

// Get returns a listing by ID
func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return cached(ctx, s.cache, s.logger, domain.BucketListing, id,
		func(ctx context.Context) (*domain.Listing, error) {
			listing, err := s.repo.GetListing(ctx, id)
			if err != nil {
				s.logger.Error("failed to fetch listing", "error", err, "listingID", id)
			}
			return listing, err
		})
}

// Create posts a new listing. Title and a positive price are required.
func (s *ListingService) Create(ctx context.Context, in domain.ListingInput) (*domain.Listing, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if in.Price == nil || *in.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
	}
	if err := validateListingInput(in); err != nil {
		return nil, err
	}

	listing, err := s.repo.CreateListing(ctx, in)
	if err != nil {
		s.logger.Error("failed to create listing", "error", err)
		return nil, err
	}
	s.invalidate(listing.ID)
	s.logger.Info("created listing", "listingID", listing.ID)
	return listing, nil
}

// Update patches a listing
func (s *ListingService) Update(ctx context.Context, id string, in domain.ListingInput) (*domain.Listing, error) {
	if err := validateListingInput(in); err != nil {
		return nil, err
	}

	listing, err := s.repo.UpdateListing(ctx, id, in)
	if err != nil {
		s.logger.Error("failed to update listing", "error", err, "listingID", id)
		return nil, err
	}
	s.invalidate(id)
	return listing, nil
}

// Delete removes a listing
func (s *ListingService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteListing(ctx, id); err != nil {
		s.logger.Error("failed to delete listing", "error", err, "listingID", id)
		return err
	}
	s.invalidate(id)
	s.logger.Info("deleted listing", "listingID", id)
	return nil
}

// Verify marks a listing verified (admin only)
func (s *ListingService) Verify(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := s.repo.VerifyListing(ctx, id)
	if err != nil {
		s.logger.Error("failed to verify listing", "error", err, "listingID", id)
		return nil, err
	}
	s.invalidate(id)
	return listing, nil
}

func (s *ListingService) invalidate(id string) {
	s.cache.InvalidatePrefix(domain.BucketListing, id)
	for _, bucket := range ListingMutationBuckets() {
		s.cache.InvalidateBucket(bucket)
	}
}

func validateListingInput(in domain.ListingInput) error {
	if in.Price != nil && *in.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if in.Area != nil && *in.Area < 0 {
		return fmt.Errorf("%w: area must not be negative", domain.ErrInvalidInput)
	}
	if (in.Lat == nil) != (in.Lng == nil) {
		return fmt.Errorf("%w: lat and lng must be set together", domain.ErrInvalidInput)
	}
	if in.Lat != nil && !(domain.Coordinates{Lat: *in.Lat, Lng: *in.Lng}).Valid() {
		return fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidInput)
	}
	return nil
}

// sorted returns a copy of page with its items re-sorted
func sorted(page *domain.ListingPage, sort query.Sort) *domain.ListingPage {
	out := *page
	out.Items = query.SortListings(page.Items, sort)
	return &out
}
