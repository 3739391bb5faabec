package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/phongtro/phongtro/internal/domain"
)

// FavoriteService keeps the set of saved listings. Toggles are optimistic:
// the local set flips immediately and rolls back if the request fails.
type FavoriteService struct {
	repo   domain.FavoriteRepository
	cache  domain.Cache
	logger *slog.Logger

	mu     sync.RWMutex
	saved  map[string]bool
	loaded bool
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(repo domain.FavoriteRepository, cache domain.Cache, logger *slog.Logger) *FavoriteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FavoriteService{
		repo:   repo,
		cache:  cache,
		logger: logger,
		saved:  make(map[string]bool),
	}
}

// List returns the saved listings and refreshes the local set
func (s *FavoriteService) List(ctx context.Context) ([]*domain.Favorite, error) {
	favorites, err := cached(ctx, s.cache, s.logger, domain.BucketFavorites, KeyFavorites,
		func(ctx context.Context) ([]*domain.Favorite, error) {
			favs, err := s.repo.ListFavorites(ctx)
			if err != nil {
				s.logger.Error("failed to fetch favorites", "error", err)
			}
			return favs, err
		})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.saved = make(map[string]bool, len(favorites))
	for _, f := range favorites {
		s.saved[f.ListingID] = true
	}
	s.loaded = true
	s.mu.Unlock()

	return favorites, nil
}

// Loaded reports whether the local set has been populated
func (s *FavoriteService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// IsFavorite reports whether listingID is in the local set
func (s *FavoriteService) IsFavorite(listingID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved[listingID]
}

// Begin flips listingID in the local set and returns the new state.
// It must be followed by Commit with the same state.
func (s *FavoriteService) Begin(listingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := !s.saved[listingID]
	s.set(listingID, now)
	return now
}

// Commit sends the state chosen by Begin. On failure the local flip is
// undone, unless a later toggle already changed it again.
func (s *FavoriteService) Commit(ctx context.Context, listingID string, want bool) error {
	var err error
	if want {
		_, err = s.repo.AddFavorite(ctx, listingID)
		if errors.Is(err, domain.ErrConflict) {
			err = nil
		}
	} else {
		err = s.repo.RemoveFavorite(ctx, listingID)
		if errors.Is(err, domain.ErrNotFound) {
			err = nil
		}
	}

	if err != nil {
		s.mu.Lock()
		if s.saved[listingID] == want {
			s.set(listingID, !want)
		}
		s.mu.Unlock()
		s.logger.Error("failed to toggle favorite, rolled back", "error", err, "listingID", listingID, "want", want)
		return err
	}

	s.cache.InvalidateBucket(domain.BucketFavorites)
	s.logger.Debug("toggled favorite", "listingID", listingID, "saved", want)
	return nil
}

// Toggle flips listingID and sends the change, returning the final state
func (s *FavoriteService) Toggle(ctx context.Context, listingID string) (bool, error) {
	want := s.Begin(listingID)
	if err := s.Commit(ctx, listingID, want); err != nil {
		return !want, err
	}
	return want, nil
}

func (s *FavoriteService) set(listingID string, saved bool) {
	if saved {
		s.saved[listingID] = true
	} else {
		delete(s.saved, listingID)
	}
}
