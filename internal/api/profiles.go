package api

import (
	"context"
	"net/http"

	"github.com/phongtro/phongtro/internal/domain"
)

// GetMyProfile returns the current user's roommate profile
func (c *Client) GetMyProfile(ctx context.Context) (*domain.Profile, error) {
	var resp ProfileDTO
	if err := c.doJSON(ctx, http.MethodGet, "/profiles/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	return MapProfile(resp), nil
}

// UpdateMyProfile replaces the current user's roommate profile
func (c *Client) UpdateMyProfile(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	var resp ProfileDTO
	if err := c.doJSON(ctx, http.MethodPut, "/profiles/me", nil, profileToDTO(p), &resp); err != nil {
		return nil, err
	}
	return MapProfile(resp), nil
}

// GetProfile returns another user's profile
func (c *Client) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var resp ProfileDTO
	if err := c.doJSON(ctx, http.MethodGet, "/profiles/"+escape(userID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return MapProfile(resp), nil
}
