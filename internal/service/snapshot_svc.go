package service

import (
	"context"

	"github.com/trendlens/trendlens-go/internal/model"
	"github.com/trendlens/trendlens-go/internal/repository"
)

// SnapshotService serves snapshot pages together with the cohort's trend
// chart data.
type SnapshotService struct {
	repo  *repository.SnapshotRepo
	trend *TrendService
}

func NewSnapshotService(repo *repository.SnapshotRepo, trend *TrendService) *SnapshotService {
	return &SnapshotService{repo: repo, trend: trend}
}

// Page returns one page of snapshots for a cohort plus the trend series
// over the most recent TrendWindow snapshots of that cohort.
func (s *SnapshotService) Page(ctx context.Context, f model.SnapshotFilter) (*model.SnapshotListResponse, error) {
	snapshots, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	trendData, err := s.trend.Series(ctx, f.RegionCode, f.CategoryID, f.SnapshotType, TrendWindow)
	if err != nil {
		return nil, err
	}

	return &model.SnapshotListResponse{
		Snapshots: snapshots,
		Total:     total,
		Limit:     f.Limit,
		Offset:    f.Offset,
		TrendData: trendData,
	}, nil
}
