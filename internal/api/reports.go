package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/phongtro/phongtro/internal/domain"
)

// CreateReport files a moderation report
func (c *Client) CreateReport(ctx context.Context, in domain.ReportInput) (*domain.Report, error) {
	body := ReportDTO{
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		Reason:     in.Reason,
		Details:    in.Details,
	}

	var resp ReportDTO
	if err := c.doJSON(ctx, http.MethodPost, "/reports", nil, body, &resp); err != nil {
		return nil, err
	}
	return MapReport(resp), nil
}

// ListReports returns reports in a given status; "" returns all (admin only)
func (c *Client) ListReports(ctx context.Context, status domain.ReportStatus) ([]*domain.Report, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {string(status)}}
	}

	var resp []ReportDTO
	if err := c.doJSON(ctx, http.MethodGet, "/reports", query, nil, &resp); err != nil {
		return nil, err
	}

	reports := make([]*domain.Report, 0, len(resp))
	for _, r := range resp {
		reports = append(reports, MapReport(r))
	}
	return reports, nil
}

// ResolveReport closes a report with a resolution note (admin only)
func (c *Client) ResolveReport(ctx context.Context, id, resolution string) (*domain.Report, error) {
	body := map[string]string{"resolution": resolution}

	var resp ReportDTO
	if err := c.doJSON(ctx, http.MethodPatch, "/reports/"+escape(id)+"/resolve", nil, body, &resp); err != nil {
		return nil, err
	}
	return MapReport(resp), nil
}
