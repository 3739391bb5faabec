package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/phongtro/phongtro/internal/domain"
)

// ListReviews returns the reviews of a listing, newest first
func (c *Client) ListReviews(ctx context.Context, listingID string) ([]*domain.Review, error) {
	var resp []ReviewDTO
	query := url.Values{"listing_id": {listingID}}
	if err := c.doJSON(ctx, http.MethodGet, "/reviews", query, nil, &resp); err != nil {
		return nil, err
	}

	reviews := make([]*domain.Review, 0, len(resp))
	for _, r := range resp {
		reviews = append(reviews, MapReview(r))
	}
	return reviews, nil
}

// CreateReview posts a review
func (c *Client) CreateReview(ctx context.Context, in domain.ReviewInput) (*domain.Review, error) {
	body := ReviewDTO{ListingID: in.ListingID, Rating: in.Rating, Comment: in.Comment}

	var resp ReviewDTO
	if err := c.doJSON(ctx, http.MethodPost, "/reviews", nil, body, &resp); err != nil {
		return nil, err
	}
	return MapReview(resp), nil
}

// ReviewSummary returns the rating aggregate of a listing
func (c *Client) ReviewSummary(ctx context.Context, listingID string) (*domain.ReviewSummary, error) {
	var resp ReviewSummaryDTO
	query := url.Values{"listing_id": {listingID}}
	if err := c.doJSON(ctx, http.MethodGet, "/reviews/summary", query, nil, &resp); err != nil {
		return nil, err
	}

	summary := MapReviewSummary(resp)
	if summary.ListingID == "" {
		summary.ListingID = listingID
	}
	return summary, nil
}
