package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/phongtro/phongtro/internal/domain"
)

// MarketOverview returns the headline market numbers
func (c *Client) MarketOverview(ctx context.Context) (*domain.MarketOverview, error) {
	var resp OverviewDTO
	if err := c.doJSON(ctx, http.MethodGet, "/analytics/overview", nil, nil, &resp); err != nil {
		return nil, err
	}
	return MapOverview(resp), nil
}

// PriceDistribution returns listing counts per price bucket
func (c *Client) PriceDistribution(ctx context.Context) ([]domain.PriceBucket, error) {
	var resp []PriceBucketDTO
	if err := c.doJSON(ctx, http.MethodGet, "/analytics/price-distribution", nil, nil, &resp); err != nil {
		return nil, err
	}

	buckets := make([]domain.PriceBucket, 0, len(resp))
	for _, b := range resp {
		buckets = append(buckets, domain.PriceBucket{Label: b.Label, Min: b.Min, Max: b.Max, Count: b.Count})
	}
	return buckets, nil
}

// DistrictStats returns per-district aggregates
func (c *Client) DistrictStats(ctx context.Context) ([]domain.DistrictStat, error) {
	var resp []DistrictStatDTO
	if err := c.doJSON(ctx, http.MethodGet, "/analytics/districts", nil, nil, &resp); err != nil {
		return nil, err
	}

	stats := make([]domain.DistrictStat, 0, len(resp))
	for _, d := range resp {
		stats = append(stats, domain.DistrictStat{
			District:     d.District,
			Province:     d.Province,
			Count:        d.Count,
			AveragePrice: d.AveragePrice,
			AverageArea:  d.AverageArea,
		})
	}
	return stats, nil
}

// PriceTrend returns the monthly average price for the last months
func (c *Client) PriceTrend(ctx context.Context, months int) ([]domain.TrendPoint, error) {
	var query url.Values
	if months > 0 {
		query = url.Values{"months": {strconv.Itoa(months)}}
	}

	var resp []TrendPointDTO
	if err := c.doJSON(ctx, http.MethodGet, "/analytics/trends", query, nil, &resp); err != nil {
		return nil, err
	}

	points := make([]domain.TrendPoint, 0, len(resp))
	for _, t := range resp {
		points = append(points, MapTrendPoint(t))
	}
	return points, nil
}
