package model

import "time"

// Outlier type values, in precedence order for the ledger's single
// outlier_type column (a verdict can carry several types at once).
const (
	OutlierTypeViewSpike       = "view_spike"
	OutlierTypeRapidGrowth     = "rapid_growth"
	OutlierTypeEngagementSpike = "engagement_spike"
)

// ValidOutlierTypes are the allowed outlier type values.
var ValidOutlierTypes = map[string]bool{
	OutlierTypeViewSpike:       true,
	OutlierTypeRapidGrowth:     true,
	OutlierTypeEngagementSpike: true,
}

// OutlierVerdict is the detector's decision for a single sample: the set of
// outlier types triggered plus the deviation score that drove the view-spike
// check. An empty Types set means the sample is not an outlier.
type OutlierVerdict struct {
	Types          []string `json:"types"`
	DeviationScore float64  `json:"deviationScore"`
}

// IsOutlier reports whether any outlier type was triggered.
func (v OutlierVerdict) IsOutlier() bool {
	return len(v.Types) > 0
}

// Has reports whether the verdict includes the given outlier type.
func (v OutlierVerdict) Has(outlierType string) bool {
	for _, t := range v.Types {
		if t == outlierType {
			return true
		}
	}
	return false
}

// Primary returns the highest-precedence triggered type, or "" when the
// verdict is empty. Precedence: view_spike, rapid_growth, engagement_spike.
func (v OutlierVerdict) Primary() string {
	for _, t := range []string{OutlierTypeViewSpike, OutlierTypeRapidGrowth, OutlierTypeEngagementSpike} {
		if v.Has(t) {
			return t
		}
	}
	return ""
}

// Detection pairs a sample with its verdict.
type Detection struct {
	Sample  VideoSample    `json:"sample"`
	Verdict OutlierVerdict `json:"verdict"`
}

// OutlierRecord is one row of the outlier ledger, keyed by platform video ID.
// Re-detection refreshes the metrics snapshot and outlier type but preserves
// DetectedAt and any human review flags. The ledger, not the snapshot's
// embedded copy, is the source of truth for current verification state.
type OutlierRecord struct {
	VideoID         string     `json:"videoId"`
	ChannelID       string     `json:"channelId,omitempty"`
	Title           string     `json:"title,omitempty"`
	RegionCode      string     `json:"regionCode"`
	OutlierType     string     `json:"outlierType"`
	DetectedAt      time.Time  `json:"detectedAt"`
	IsVerified      bool       `json:"isVerified"`
	IsFalsePositive bool       `json:"isFalsePositive"`
	VerifiedAt      *time.Time `json:"verifiedAt,omitempty"`
	ViewCount       int64      `json:"viewCount"`
	LikeCount       int64      `json:"likeCount"`
	CommentCount    int64      `json:"commentCount"`
	EngagementRate  float64    `json:"engagementRate"`
	PublishedAt     time.Time  `json:"publishedAt"`
}

// OutlierFilter selects a page of ledger entries.
type OutlierFilter struct {
	Type                 string // empty = all types
	RegionCode           string
	ExcludeFalsePositive bool
	Limit                int
	Offset               int
}

// VerificationRequest is the API request body for PUT /api/outliers.
// Nil pointers mean "leave unchanged".
type VerificationRequest struct {
	VideoID         string `json:"videoId"`
	IsVerified      *bool  `json:"isVerified,omitempty"`
	IsFalsePositive *bool  `json:"isFalsePositive,omitempty"`
}

// OutlierListResponse is the API response for GET /api/outliers.
type OutlierListResponse struct {
	Outliers []OutlierRecord `json:"outliers"`
	Total    int             `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}
