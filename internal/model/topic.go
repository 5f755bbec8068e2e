package model

import "time"

// Topic source type values: platform-derived topics come out of the
// collection pipeline; manual ones are entered through the API.
const (
	TopicSourcePlatform = "platform"
	TopicSourceManual   = "manual"
)

// TrendingTopic is an independent persisted entity describing a content topic
// surfaced either by the collection pipeline or an external caller. Mutated
// only by full replacement.
type TrendingTopic struct {
	ID                 string    `json:"id"`
	Topic              string    `json:"topic"`
	NicheID            *string   `json:"nicheId,omitempty"`
	SearchVolume       int       `json:"searchVolume"`
	GrowthRate         float64   `json:"growthRate"`
	Category           string    `json:"category,omitempty"`
	IsViral            bool      `json:"isViral"`
	IsEvergreen        bool      `json:"isEvergreen"`
	ContentIdeas       []string  `json:"contentIdeas"`
	TargetDemographics string    `json:"targetDemographics,omitempty"`
	SourceType         string    `json:"sourceType"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// TopicFilter selects trending topics for listing.
type TopicFilter struct {
	Category string
	NicheID  string
	Viral    *bool
	Limit    int
	Offset   int
}

// TopicListResponse is the API response for GET /api/topics.
type TopicListResponse struct {
	Topics []TrendingTopic `json:"topics"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
