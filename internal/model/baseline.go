package model

// CohortBaseline is the statistical summary of one cohort's samples at
// collection time. Computed once per run and embedded into the Snapshot;
// never persisted standalone.
type CohortBaseline struct {
	RegionCode         string  `json:"regionCode"`
	CategoryID         string  `json:"categoryId,omitempty"`
	SampleCount        int     `json:"sampleCount"`
	MeanViews          float64 `json:"meanViews"`
	MedianViews        float64 `json:"medianViews"`
	StdDevViews        float64 `json:"stdDevViews"`
	MeanEngagementRate float64 `json:"meanEngagementRate"`
}
