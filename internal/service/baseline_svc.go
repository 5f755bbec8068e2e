package service

import (
	"github.com/trendlens/trendlens-go/internal/model"
	"github.com/trendlens/trendlens-go/pkg/stats"
)

// BaselineService computes the statistical baseline of one cohort's samples.
type BaselineService struct{}

func NewBaselineService() *BaselineService {
	return &BaselineService{}
}

// Compute builds the cohort baseline from a batch of samples sharing a
// region and category. Requires at least one sample. With exactly one
// sample the view stddev is 0 by definition, which makes any deviating
// second sample score past every threshold — the detector's epsilon floor
// keeps the score finite, so this is a documented property rather than a
// special case.
func (s *BaselineService) Compute(samples []model.VideoSample) (model.CohortBaseline, error) {
	if len(samples) == 0 {
		return model.CohortBaseline{}, model.ErrNoSamples
	}

	views := make([]float64, len(samples))
	var engagementSum float64
	for i, sample := range samples {
		views[i] = float64(sample.ViewCount)
		engagementSum += sample.EngagementRate()
	}

	// A trending run mixes category IDs, so the cohort's category identity
	// comes from the run parameters, not the samples; the collect service
	// stamps it onto the baseline.
	return model.CohortBaseline{
		RegionCode:         samples[0].RegionCode,
		SampleCount:        len(samples),
		MeanViews:          stats.Mean(views),
		MedianViews:        stats.Median(views),
		StdDevViews:        stats.StdDev(views),
		MeanEngagementRate: engagementSum / float64(len(samples)),
	}, nil
}
