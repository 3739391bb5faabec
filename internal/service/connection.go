package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phongtro/phongtro/internal/domain"
)

// ConnectionService manages renter→owner contact requests
type ConnectionService struct {
	repo   domain.ConnectionRepository
	cache  domain.Cache
	logger *slog.Logger
}

// NewConnectionService creates a new connection service
func NewConnectionService(repo domain.ConnectionRepository, cache domain.Cache, logger *slog.Logger) *ConnectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConnectionService{repo: repo, cache: cache, logger: logger}
}

// Request asks the owner of listingID to share their contact details
func (s *ConnectionService) Request(ctx context.Context, listingID, message string) (*domain.Connection, error) {
	conn, err := s.repo.CreateConnection(ctx, listingID, message)
	if err != nil {
		s.logger.Error("failed to request connection", "error", err, "listingID", listingID)
		return nil, err
	}
	s.cache.InvalidateBucket(domain.BucketConnections)
	s.logger.Info("requested connection", "listingID", listingID, "connectionID", conn.ID)
	return conn, nil
}

// Outgoing returns the requests the user has sent
func (s *ConnectionService) Outgoing(ctx context.Context) ([]*domain.Connection, error) {
	return cached(ctx, s.cache, s.logger, domain.BucketConnections, KeyOutgoing, s.repo.ListOutgoing)
}

// Incoming returns the requests on the user's listings
func (s *ConnectionService) Incoming(ctx context.Context) ([]*domain.Connection, error) {
	return cached(ctx, s.cache, s.logger, domain.BucketConnections, KeyIncoming, s.repo.ListIncoming)
}

// Respond accepts or rejects an incoming request, or cancels an outgoing one
func (s *ConnectionService) Respond(ctx context.Context, id string, status domain.ConnectionStatus) (*domain.Connection, error) {
	if status == domain.ConnectionPending || !status.Valid() {
		return nil, fmt.Errorf("%w: cannot set connection to %q", domain.ErrInvalidInput, status)
	}

	conn, err := s.repo.UpdateConnectionStatus(ctx, id, status)
	if err != nil {
		s.logger.Error("failed to update connection", "error", err, "connectionID", id, "status", status)
		return nil, err
	}

	s.cache.InvalidateBucket(domain.BucketConnections)
	// Accepting discloses contact details on the listing
	if conn.ListingID != "" {
		s.cache.InvalidatePrefix(domain.BucketListing, conn.ListingID)
	}
	return conn, nil
}

// Check reports whether the user already has a request for listingID
func (s *ConnectionService) Check(ctx context.Context, listingID string) (*domain.ConnectionCheck, error) {
	return cached(ctx, s.cache, s.logger, domain.BucketConnections, PrefixCheck+listingID,
		func(ctx context.Context) (*domain.ConnectionCheck, error) {
			return s.repo.CheckConnection(ctx, listingID)
		})
}

// Refresh drops cached connection lists
func (s *ConnectionService) Refresh() {
	s.cache.InvalidateBucket(domain.BucketConnections)
}
