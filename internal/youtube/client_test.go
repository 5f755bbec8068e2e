package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/trendlens/trendlens-go/internal/model"
)

const trendingBody = `{
	"items": [
		{
			"id": "vid00000001",
			"snippet": {
				"publishedAt": "2026-08-01T10:00:00Z",
				"channelId": "chan-1",
				"title": "First video",
				"categoryId": "10"
			},
			"statistics": {
				"viewCount": "120000",
				"likeCount": "4500",
				"commentCount": "320"
			}
		},
		{
			"id": "vid00000002",
			"snippet": {
				"publishedAt": "2026-08-02T08:30:00Z",
				"channelId": "chan-2",
				"title": "Second video",
				"categoryId": "24"
			},
			"statistics": {
				"viewCount": "98000",
				"likeCount": "2100"
			}
		}
	]
}`

func TestFetchTrendingParsesSamples(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"chart":      q.Get("chart"),
			"regionCode": q.Get("regionCode"),
			"maxResults": q.Get("maxResults"),
			"key":        q.Get("key"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(trendingBody))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	samples, err := client.FetchTrending(context.Background(), "US", "", 50)
	if err != nil {
		t.Fatalf("FetchTrending returned error: %v", err)
	}

	if gotQuery["chart"] != "mostPopular" {
		t.Errorf("chart param = %q, want mostPopular", gotQuery["chart"])
	}
	if gotQuery["regionCode"] != "US" {
		t.Errorf("regionCode param = %q, want US", gotQuery["regionCode"])
	}
	if gotQuery["key"] != "test-key" {
		t.Errorf("key param = %q, want test-key", gotQuery["key"])
	}

	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}

	first := samples[0]
	if first.VideoID != "vid00000001" {
		t.Errorf("VideoID = %q, want vid00000001", first.VideoID)
	}
	if first.ViewCount != 120000 || first.LikeCount != 4500 || first.CommentCount != 320 {
		t.Errorf("counts = %d/%d/%d, want 120000/4500/320", first.ViewCount, first.LikeCount, first.CommentCount)
	}
	if first.RegionCode != "US" {
		t.Errorf("RegionCode = %q, want US", first.RegionCode)
	}
	if first.PublishedAt.IsZero() {
		t.Error("PublishedAt not parsed")
	}
	if first.CollectedAt.IsZero() {
		t.Error("CollectedAt not stamped")
	}

	// Second item carries no commentCount field; missing counters are 0.
	if samples[1].CommentCount != 0 {
		t.Errorf("missing commentCount parsed as %d, want 0", samples[1].CommentCount)
	}
}

func TestFetchTrendingCapsAtMaxResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(trendingBody))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	samples, err := client.FetchTrending(context.Background(), "US", "", 1)
	if err != nil {
		t.Fatalf("FetchTrending returned error: %v", err)
	}
	if len(samples) != 1 {
		t.Errorf("got %d samples with maxResults=1, want 1", len(samples))
	}
}

func TestFetchTrendingErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			"invalid region",
			http.StatusBadRequest,
			`{"error":{"code":400,"message":"bad region","errors":[{"reason":"invalidRegionCode","message":"bad region"}]}}`,
			model.ErrInvalidRegion,
		},
		{
			"invalid category",
			http.StatusBadRequest,
			`{"error":{"code":400,"message":"bad category","errors":[{"reason":"invalidVideoCategoryId","message":"bad category"}]}}`,
			model.ErrInvalidCategory,
		},
		{
			"chart not found for category",
			http.StatusBadRequest,
			`{"error":{"code":400,"message":"no chart","errors":[{"reason":"videoChartNotFound","message":"no chart"}]}}`,
			model.ErrInvalidCategory,
		},
		{
			"auth failure",
			http.StatusForbidden,
			`{"error":{"code":403,"message":"quota exceeded","errors":[{"reason":"quotaExceeded","message":"quota exceeded"}]}}`,
			model.ErrSourceUnavailable,
		},
		{
			"bad key",
			http.StatusUnauthorized,
			`{"error":{"code":401,"message":"invalid key"}}`,
			model.ErrSourceUnavailable,
		},
		{
			"upstream outage",
			http.StatusInternalServerError,
			`oops`,
			model.ErrSourceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient("test-key", server.URL)
			_, err := client.FetchTrending(context.Background(), "XX", "", 10)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FetchTrending error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetchTrendingTransportFailure(t *testing.T) {
	// Server closed before the call: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient("test-key", server.URL)
	_, err := client.FetchTrending(context.Background(), "US", "", 10)
	if !errors.Is(err, model.ErrSourceUnavailable) {
		t.Errorf("FetchTrending error = %v, want ErrSourceUnavailable", err)
	}
}

func TestListCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/videoCategories" {
			t.Errorf("path = %q, want /videoCategories", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"items":[{"id":"10","snippet":{"title":"Music"}},{"id":"24","snippet":{"title":"Entertainment"}}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	cats, err := client.ListCategories(context.Background(), "US")
	if err != nil {
		t.Fatalf("ListCategories returned error: %v", err)
	}

	if len(cats) != 2 {
		t.Fatalf("got %d categories, want 2", len(cats))
	}
	if cats[0].ID != "10" || cats[0].Title != "Music" {
		t.Errorf("first category = %+v, want {10 Music}", cats[0])
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"12345", 12345},
		{"", 0},
		{"not-a-number", 0},
		{"0", 0},
	}

	for _, tt := range tests {
		if got := parseCount(tt.in); got != tt.want {
			t.Errorf("parseCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
