package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/phongtro/phongtro/internal/domain"
)

// ListFavorites returns the user's saved listings
func (c *Client) ListFavorites(ctx context.Context) ([]*domain.Favorite, error) {
	var resp []FavoriteDTO
	if err := c.doJSON(ctx, http.MethodGet, "/favorites", nil, nil, &resp); err != nil {
		return nil, err
	}

	favorites := make([]*domain.Favorite, 0, len(resp))
	for _, f := range resp {
		favorites = append(favorites, MapFavorite(f))
	}
	return favorites, nil
}

// AddFavorite saves a listing
func (c *Client) AddFavorite(ctx context.Context, listingID string) (*domain.Favorite, error) {
	body := map[string]string{"listing_id": listingID}

	var resp FavoriteDTO
	if err := c.doJSON(ctx, http.MethodPost, "/favorites", nil, body, &resp); err != nil {
		return nil, err
	}
	fav := MapFavorite(resp)
	if fav.ListingID == "" {
		fav.ListingID = listingID
	}
	return fav, nil
}

// RemoveFavorite un-saves a listing
func (c *Client) RemoveFavorite(ctx context.Context, listingID string) error {
	query := url.Values{"listing_id": {listingID}}
	return c.doJSON(ctx, http.MethodDelete, "/favorites", query, nil, nil)
}
