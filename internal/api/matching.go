package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/phongtro/phongtro/internal/domain"
)

// Roommates returns candidate roommates, best match first
func (c *Client) Roommates(ctx context.Context, limit int) ([]*domain.RoommateMatch, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": {strconv.Itoa(limit)}}
	}

	var resp []RoommateMatchDTO
	if err := c.doJSON(ctx, http.MethodGet, "/matching/roommates", query, nil, &resp); err != nil {
		return nil, err
	}

	matches := make([]*domain.RoommateMatch, 0, len(resp))
	for _, m := range resp {
		matches = append(matches, MapRoommateMatch(m))
	}
	return matches, nil
}
