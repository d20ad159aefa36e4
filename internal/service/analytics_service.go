package service

import (
	"context"
	"time"

	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

type AnalyticsService interface {
	Summary(ctx context.Context, userID int64) (*transfer.AnalyticsSummary, error)
}

type analyticsService struct {
	pp repository.PublishedPostRepository
}

func NewAnalyticsService(pp repository.PublishedPostRepository) AnalyticsService {
	return &analyticsService{
		pp: pp,
	}
}

func (s *analyticsService) Summary(ctx context.Context, userID int64) (*transfer.AnalyticsSummary, error) {
	since := time.Now().AddDate(0, 0, -30)

	counts, err := s.pp.CountByPlatform(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	summary := &transfer.AnalyticsSummary{Platforms: counts}
	for _, c := range counts {
		summary.Published += c.Published
		summary.Failed += c.Failed
	}
	summary.Total = summary.Published + summary.Failed

	return summary, nil
}
