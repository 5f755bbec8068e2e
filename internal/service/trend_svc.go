package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/trendlens/trendlens-go/internal/model"
	"github.com/trendlens/trendlens-go/internal/repository"
)

// TrendWindow is the snapshot count behind the standard trend chart served
// with snapshot listings. Only series of this window are cached.
const TrendWindow = 30

// TrendService reconstructs cohort aggregate time series from stored
// snapshots. Pure read-side composition over the snapshot repo — no
// independent storage.
type TrendService struct {
	repo  *repository.SnapshotRepo
	cache *CacheService
}

func NewTrendService(repo *repository.SnapshotRepo, cache *CacheService) *TrendService {
	return &TrendService{repo: repo, cache: cache}
}

// Series returns three parallel series (avg views, avg engagement, outlier
// count) over the most recent window snapshots of a cohort, ordered
// ascending by timestamp. The three series always have identical length and
// ordering since they come from the same snapshot page. An empty cohort
// yields empty-but-valid series, not an error.
func (s *TrendService) Series(ctx context.Context, regionCode, categoryID, snapshotType string, window int) (model.TrendData, error) {
	cacheable := s.cache != nil && window == TrendWindow

	if cacheable {
		if cached, err := s.cache.GetTrendSeries(ctx, regionCode, categoryID, snapshotType); err != nil {
			log.Printf("cache: trend series get error: %v", err)
		} else if cached != nil {
			var data model.TrendData
			if err := json.Unmarshal(cached, &data); err == nil {
				return data, nil
			}
		}
	}

	points, err := s.repo.SeriesFor(ctx, regionCode, categoryID, snapshotType, window)
	if err != nil {
		return model.TrendData{}, err
	}

	data := reshapeAscending(points)

	if cacheable {
		if err := s.cache.SetTrendSeries(ctx, regionCode, categoryID, snapshotType, data); err != nil {
			log.Printf("cache: trend series set error: %v", err)
		}
	}

	return data, nil
}

// reshapeAscending turns a newest-first snapshot page into the three
// parallel ascending series the chart consumes.
func reshapeAscending(points []model.TrendPoint) model.TrendData {
	data := model.TrendData{
		Timestamps:    make([]time.Time, 0, len(points)),
		AvgViews:      make([]float64, 0, len(points)),
		AvgEngagement: make([]float64, 0, len(points)),
		OutlierCounts: make([]int, 0, len(points)),
	}
	for i := len(points) - 1; i >= 0; i-- {
		p := points[i]
		data.Timestamps = append(data.Timestamps, p.Timestamp)
		data.AvgViews = append(data.AvgViews, p.AvgViews)
		data.AvgEngagement = append(data.AvgEngagement, p.AvgEngagementRate)
		data.OutlierCounts = append(data.OutlierCounts, p.OutlierCount)
	}
	return data
}
