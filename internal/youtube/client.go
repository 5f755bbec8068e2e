package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trendlens/trendlens-go/internal/model"
)

// TrendingSource is the metadata source consumed by the collection pipeline.
// The production implementation is the YouTube Data API v3 client below;
// tests substitute a fake.
type TrendingSource interface {
	FetchTrending(ctx context.Context, regionCode, categoryID string, maxResults int) ([]model.VideoSample, error)
	ListCategories(ctx context.Context, regionCode string) ([]model.VideoCategory, error)
}

// Client fetches trending video metadata from the YouTube Data API v3.
// It applies no retry policy of its own; callers bound each call with a
// context timeout and treat timeouts as source-unavailable.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
	}
}

// FetchTrending returns up to maxResults currently-trending videos for a
// region (optionally narrowed to one category). The caller is responsible
// for clamping maxResults to the configured ceiling before invoking this.
func (c *Client) FetchTrending(ctx context.Context, regionCode, categoryID string, maxResults int) ([]model.VideoSample, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("chart", "mostPopular")
	params.Set("regionCode", regionCode)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("key", c.apiKey)
	if categoryID != "" {
		params.Set("videoCategoryId", categoryID)
	}

	var resp videoListResponse
	if err := c.get(ctx, "/videos", params, &resp); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	samples := make([]model.VideoSample, 0, len(resp.Items))
	for _, item := range resp.Items {
		publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		samples = append(samples, model.VideoSample{
			VideoID:      item.ID,
			ChannelID:    item.Snippet.ChannelID,
			Title:        item.Snippet.Title,
			CategoryID:   item.Snippet.CategoryID,
			RegionCode:   regionCode,
			ViewCount:    parseCount(item.Statistics.ViewCount),
			LikeCount:    parseCount(item.Statistics.LikeCount),
			CommentCount: parseCount(item.Statistics.CommentCount),
			PublishedAt:  publishedAt,
			CollectedAt:  now,
		})
		if len(samples) == maxResults {
			break
		}
	}
	return samples, nil
}

// ListCategories returns the upstream video category list for a region.
func (c *Client) ListCategories(ctx context.Context, regionCode string) ([]model.VideoCategory, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("regionCode", regionCode)
	params.Set("key", c.apiKey)

	var resp categoryListResponse
	if err := c.get(ctx, "/videoCategories", params, &resp); err != nil {
		return nil, err
	}

	categories := make([]model.VideoCategory, 0, len(resp.Items))
	for _, item := range resp.Items {
		categories = append(categories, model.VideoCategory{
			ID:    item.ID,
			Title: item.Snippet.Title,
		})
	}
	return categories, nil
}

// get performs one API request and maps failures onto the core error
// taxonomy. Transport errors and 5xx/auth responses become
// ErrSourceUnavailable; the API's invalid-region and invalid-category
// rejections become their typed equivalents.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", model.ErrSourceUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return c.mapAPIError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", model.ErrSourceUnavailable, err)
	}
	return nil
}

func (c *Client) mapAPIError(status int, body []byte) error {
	var apiErr apiErrorResponse
	_ = json.Unmarshal(body, &apiErr)

	if status == http.StatusBadRequest {
		for _, e := range apiErr.Error.Errors {
			switch e.Reason {
			case "invalidRegionCode":
				return fmt.Errorf("%w: %s", model.ErrInvalidRegion, e.Message)
			case "videoChartNotFound", "invalidVideoCategoryId":
				return fmt.Errorf("%w: %s", model.ErrInvalidCategory, e.Message)
			}
		}
	}

	// Auth failures, quota exhaustion, and 5xx all surface as
	// source-unavailable; the scheduler owns retry policy.
	return fmt.Errorf("%w: upstream status %d: %s", model.ErrSourceUnavailable, status, apiErr.Error.Message)
}

// parseCount converts the API's string-typed counters; missing or
// malformed values count as 0.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// --- YouTube Data API v3 wire types ---

type videoListResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		PublishedAt string `json:"publishedAt"`
		ChannelID   string `json:"channelId"`
		Title       string `json:"title"`
		CategoryID  string `json:"categoryId"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount    string `json:"viewCount"`
		LikeCount    string `json:"likeCount"`
		CommentCount string `json:"commentCount"`
	} `json:"statistics"`
}

type categoryListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}
