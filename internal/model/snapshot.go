package model

import "time"

// Snapshot type values. "trending" is the default cohort type; "search" and
// "category" distinguish runs seeded from other upstream listings.
const (
	SnapshotTypeTrending = "trending"
	SnapshotTypeSearch   = "search"
	SnapshotTypeCategory = "category"
)

// ValidSnapshotTypes are the allowed snapshot type values.
var ValidSnapshotTypes = map[string]bool{
	SnapshotTypeTrending: true,
	SnapshotTypeSearch:   true,
	SnapshotTypeCategory: true,
}

// FlaggedVideo is the denormalized copy of an outlier's metrics embedded in a
// snapshot at capture time. It can diverge from the ledger afterwards;
// consumers needing current verification state must query the ledger.
type FlaggedVideo struct {
	VideoID        string    `json:"videoId"`
	ChannelID      string    `json:"channelId,omitempty"`
	Title          string    `json:"title,omitempty"`
	OutlierTypes   []string  `json:"outlierTypes"`
	DeviationScore float64   `json:"deviationScore"`
	ViewCount      int64     `json:"viewCount"`
	LikeCount      int64     `json:"likeCount"`
	CommentCount   int64     `json:"commentCount"`
	EngagementRate float64   `json:"engagementRate"`
	PublishedAt    time.Time `json:"publishedAt"`
}

// Snapshot is one immutable record of a single collection run: cohort
// aggregates plus the flagged video list. Never updated after insert.
type Snapshot struct {
	ID                string         `json:"id"`
	CapturedAt        time.Time      `json:"capturedAt"`
	RegionCode        string         `json:"regionCode"`
	CategoryID        *string        `json:"categoryId,omitempty"`
	SnapshotType      string         `json:"snapshotType"`
	AvgViews          float64        `json:"avgViews"`
	AvgEngagementRate float64        `json:"avgEngagementRate"`
	OutlierCount      int            `json:"outlierCount"`
	Flagged           []FlaggedVideo `json:"flagged"`
}

// SnapshotFilter selects a page of snapshots for one cohort.
type SnapshotFilter struct {
	RegionCode   string
	CategoryID   string // empty = all categories
	SnapshotType string
	Limit        int
	Offset       int
}

// TrendPoint is one step of a cohort's aggregate time series.
type TrendPoint struct {
	Timestamp         time.Time `json:"timestamp"`
	AvgViews          float64   `json:"avgViews"`
	AvgEngagementRate float64   `json:"avgEngagementRate"`
	OutlierCount      int       `json:"outlierCount"`
}

// TrendData holds three parallel series over a shared timestamp axis,
// ordered ascending, suitable for direct charting.
type TrendData struct {
	Timestamps    []time.Time `json:"timestamps"`
	AvgViews      []float64   `json:"avgViews"`
	AvgEngagement []float64   `json:"avgEngagement"`
	OutlierCounts []int       `json:"outlierCounts"`
}

// SnapshotListResponse is the API response for GET /api/snapshots.
type SnapshotListResponse struct {
	Snapshots []Snapshot `json:"snapshots"`
	Total     int        `json:"total"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	TrendData TrendData  `json:"trendData"`
}
