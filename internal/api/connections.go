package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/phongtro/phongtro/internal/domain"
)

// CreateConnection asks a listing owner to share their contact details
func (c *Client) CreateConnection(ctx context.Context, listingID, message string) (*domain.Connection, error) {
	body := map[string]string{"listing_id": listingID, "message": message}

	var resp ConnectionDTO
	if err := c.doJSON(ctx, http.MethodPost, "/connections", nil, body, &resp); err != nil {
		return nil, err
	}
	return MapConnection(resp), nil
}

// ListOutgoing returns requests the user has sent
func (c *Client) ListOutgoing(ctx context.Context) ([]*domain.Connection, error) {
	var resp []ConnectionDTO
	if err := c.doJSON(ctx, http.MethodGet, "/connections/outgoing", nil, nil, &resp); err != nil {
		return nil, err
	}
	return MapConnections(resp), nil
}

// ListIncoming returns requests on the user's listings
func (c *Client) ListIncoming(ctx context.Context) ([]*domain.Connection, error) {
	var resp []ConnectionDTO
	if err := c.doJSON(ctx, http.MethodGet, "/connections/incoming", nil, nil, &resp); err != nil {
		return nil, err
	}
	return MapConnections(resp), nil
}

// UpdateConnectionStatus accepts, rejects or cancels a request
func (c *Client) UpdateConnectionStatus(ctx context.Context, id string, status domain.ConnectionStatus) (*domain.Connection, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown connection status %q", domain.ErrInvalidInput, status)
	}
	body := map[string]string{"status": string(status)}

	var resp ConnectionDTO
	if err := c.doJSON(ctx, http.MethodPatch, "/connections/"+escape(id), nil, body, &resp); err != nil {
		return nil, err
	}
	return MapConnection(resp), nil
}

// CheckConnection reports whether the user already has a request for a listing
func (c *Client) CheckConnection(ctx context.Context, listingID string) (*domain.ConnectionCheck, error) {
	var resp ConnectionCheckDTO
	if err := c.doJSON(ctx, http.MethodGet, "/connections/check/"+escape(listingID), nil, nil, &resp); err != nil {
		return nil, err
	}

	check := &domain.ConnectionCheck{Exists: resp.Exists}
	if resp.Connection != nil {
		check.Connection = MapConnection(*resp.Connection)
		check.Exists = true
	}
	return check, nil
}
