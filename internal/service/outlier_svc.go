package service

import (
	"github.com/trendlens/trendlens-go/internal/config"
	"github.com/trendlens/trendlens-go/internal/model"
)

// deviationEpsilon is the floor applied to the view stddev when scoring,
// so a perfectly homogeneous cohort yields finite scores instead of a
// division by zero.
const deviationEpsilon = 1e-9

// OutlierDetector scores samples against their cohort baseline and
// classifies them into zero or more outlier types. Detection is a pure
// function of samples, baseline, and thresholds — no hidden state, fully
// deterministic.
type OutlierDetector struct {
	thresholds config.OutlierThresholds
}

func NewOutlierDetector(thresholds config.OutlierThresholds) *OutlierDetector {
	return &OutlierDetector{thresholds: thresholds}
}

// Detect returns one Detection per sample. A sample can carry several
// outlier types at once; an empty type set means "not an outlier" and the
// sample is excluded from snapshot flagging and ledger writes.
func (d *OutlierDetector) Detect(samples []model.VideoSample, baseline model.CohortBaseline) []model.Detection {
	detections := make([]model.Detection, 0, len(samples))
	for _, sample := range samples {
		detections = append(detections, model.Detection{
			Sample:  sample,
			Verdict: d.score(sample, baseline),
		})
	}
	return detections
}

func (d *OutlierDetector) score(sample model.VideoSample, baseline model.CohortBaseline) model.OutlierVerdict {
	spread := baseline.StdDevViews
	if spread < deviationEpsilon {
		spread = deviationEpsilon
	}
	deviation := (float64(sample.ViewCount) - baseline.MeanViews) / spread

	var types []string

	// View spike: far above the cohort mean AND past an absolute floor,
	// so small-audience videos with naturally high relative variance do
	// not flood the ledger.
	if deviation >= d.thresholds.ViewSpikeZ && sample.ViewCount >= d.thresholds.ViewSpikeMinViews {
		types = append(types, model.OutlierTypeViewSpike)
	}

	// Rapid growth: views per hour since publish. Samples published in
	// the future (clock skew) are not eligible rather than an error.
	if elapsed := sample.CollectedAt.Sub(sample.PublishedAt).Hours(); elapsed > 0 {
		if float64(sample.ViewCount)/elapsed >= d.thresholds.RapidGrowthRatePerHour {
			types = append(types, model.OutlierTypeRapidGrowth)
		}
	}

	// Engagement spike: a multiple of the cohort's mean engagement rate,
	// independent of view-spike status. A zero baseline rate would make
	// every sample trip the multiple, so such cohorts are skipped.
	if baseline.MeanEngagementRate > 0 &&
		sample.EngagementRate() >= d.thresholds.EngagementSpikeMultiple*baseline.MeanEngagementRate {
		types = append(types, model.OutlierTypeEngagementSpike)
	}

	return model.OutlierVerdict{
		Types:          types,
		DeviationScore: deviation,
	}
}
