package model

import "time"

// VideoSample is one trending video's metrics as returned by the upstream
// platform for a single collection run. Samples are never persisted directly;
// they feed the baseline calculator and outlier detector.
type VideoSample struct {
	VideoID      string    `json:"videoId"`
	ChannelID    string    `json:"channelId"`
	Title        string    `json:"title"`
	CategoryID   string    `json:"categoryId"`
	RegionCode   string    `json:"regionCode"`
	ViewCount    int64     `json:"viewCount"`
	LikeCount    int64     `json:"likeCount"`
	CommentCount int64     `json:"commentCount"`
	PublishedAt  time.Time `json:"publishedAt"`
	CollectedAt  time.Time `json:"collectedAt"`
}

// EngagementRate returns (likes + comments) / views for the sample.
// Views are floored at 1 so videos with zero recorded views yield a
// finite rate instead of dividing by zero.
func (s VideoSample) EngagementRate() float64 {
	views := s.ViewCount
	if views < 1 {
		views = 1
	}
	return float64(s.LikeCount+s.CommentCount) / float64(views)
}

// VideoCategory is one entry of the upstream category list for a region.
type VideoCategory struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
