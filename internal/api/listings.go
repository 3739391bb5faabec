package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/phongtro/phongtro/internal/domain"
)

// SearchListings returns one page of GET /listings. params is sent verbatim.
func (c *Client) SearchListings(ctx context.Context, params url.Values) (*domain.ListingPage, error) {
	var resp ListingPageDTO
	if err := c.doJSON(ctx, http.MethodGet, "/listings", params, nil, &resp); err != nil {
		return nil, err
	}

	page, _ := strconv.Atoi(params.Get("page"))
	limit, _ := strconv.Atoi(params.Get("limit"))
	return MapListingPage(resp, page, limit), nil
}

// GetListing returns a single listing
func (c *Client) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	var resp ListingDTO
	if err := c.doJSON(ctx, http.MethodGet, "/listings/"+escape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return MapListing(resp), nil
}

// CreateListing posts a new listing
func (c *Client) CreateListing(ctx context.Context, in domain.ListingInput) (*domain.Listing, error) {
	var resp ListingDTO
	if err := c.doJSON(ctx, http.MethodPost, "/listings", nil, mapListingInput(in), &resp); err != nil {
		return nil, err
	}
	return MapListing(resp), nil
}

// UpdateListing patches the fields set in in
func (c *Client) UpdateListing(ctx context.Context, id string, in domain.ListingInput) (*domain.Listing, error) {
	var resp ListingDTO
	if err := c.doJSON(ctx, http.MethodPatch, "/listings/"+escape(id), nil, mapListingInput(in), &resp); err != nil {
		return nil, err
	}
	return MapListing(resp), nil
}

// DeleteListing removes a listing
func (c *Client) DeleteListing(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/listings/"+escape(id), nil, nil, nil)
}

// VerifyListing marks a listing verified (admin only)
func (c *Client) VerifyListing(ctx context.Context, id string) (*domain.Listing, error) {
	var resp ListingDTO
	if err := c.doJSON(ctx, http.MethodPost, "/listings/"+escape(id)+"/verify", nil, nil, &resp); err != nil {
		return nil, err
	}
	return MapListing(resp), nil
}
