package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phongtro/phongtro/internal/domain"
)

// ReportService files and moderates reports
type ReportService struct {
	repo   domain.ReportRepository
	cache  domain.Cache
	logger *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(repo domain.ReportRepository, cache domain.Cache, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{repo: repo, cache: cache, logger: logger}
}

// Create files a report. A reason and a listing or user target are required.
func (s *ReportService) Create(ctx context.Context, in domain.ReportInput) (*domain.Report, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	if in.Reason == "" {
		return nil, fmt.Errorf("%w: reason is required", domain.ErrInvalidInput)
	}
	if in.TargetID == "" || (in.TargetType != "listing" && in.TargetType != "user") {
		return nil, fmt.Errorf("%w: report target must be a listing or user", domain.ErrInvalidInput)
	}

	report, err := s.repo.CreateReport(ctx, in)
	if err != nil {
		s.logger.Error("failed to create report", "error", err, "target", in.TargetID)
		return nil, err
	}
	s.cache.InvalidateBucket(domain.BucketReports)
	s.logger.Info("filed report", "reportID", report.ID, "target", in.TargetID)
	return report, nil
}

// List returns reports in status; "" returns all
func (s *ReportService) List(ctx context.Context, status domain.ReportStatus) ([]*domain.Report, error) {
	return cached(ctx, s.cache, s.logger, domain.BucketReports, reportsKey(status),
		func(ctx context.Context) ([]*domain.Report, error) {
			return s.repo.ListReports(ctx, status)
		})
}

// Resolve closes a report
func (s *ReportService) Resolve(ctx context.Context, id, resolution string) (*domain.Report, error) {
	resolution = strings.TrimSpace(resolution)
	if resolution == "" {
		return nil, fmt.Errorf("%w: resolution is required", domain.ErrInvalidInput)
	}

	report, err := s.repo.ResolveReport(ctx, id, resolution)
	if err != nil {
		s.logger.Error("failed to resolve report", "error", err, "reportID", id)
		return nil, err
	}
	s.cache.InvalidateBucket(domain.BucketReports)
	return report, nil
}
