package service

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/trendlens/trendlens-go/internal/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func sampleWith(videoID string, views, likes, comments int64) model.VideoSample {
	now := time.Now().UTC()
	return model.VideoSample{
		VideoID:      videoID,
		ChannelID:    "chan-1",
		Title:        "title " + videoID,
		RegionCode:   "US",
		ViewCount:    views,
		LikeCount:    likes,
		CommentCount: comments,
		PublishedAt:  now.Add(-24 * time.Hour),
		CollectedAt:  now,
	}
}

func TestComputeBaselineEmpty(t *testing.T) {
	svc := NewBaselineService()

	_, err := svc.Compute(nil)
	if !errors.Is(err, model.ErrNoSamples) {
		t.Errorf("Compute(nil) error = %v, want ErrNoSamples", err)
	}
}

func TestComputeBaselineSingleSample(t *testing.T) {
	svc := NewBaselineService()

	b, err := svc.Compute([]model.VideoSample{sampleWith("a", 1000, 100, 10)})
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	if b.SampleCount != 1 {
		t.Errorf("SampleCount = %d, want 1", b.SampleCount)
	}
	if !almostEqual(b.MeanViews, 1000) {
		t.Errorf("MeanViews = %.2f, want 1000", b.MeanViews)
	}
	if !almostEqual(b.MedianViews, 1000) {
		t.Errorf("MedianViews = %.2f, want 1000", b.MedianViews)
	}
	// A single sample has zero spread by definition.
	if !almostEqual(b.StdDevViews, 0) {
		t.Errorf("StdDevViews = %.4f, want 0", b.StdDevViews)
	}
	// (100+10)/1000 = 0.11
	if !almostEqual(b.MeanEngagementRate, 0.11) {
		t.Errorf("MeanEngagementRate = %.4f, want 0.11", b.MeanEngagementRate)
	}
}

func TestComputeBaselineIdenticalViews(t *testing.T) {
	svc := NewBaselineService()

	samples := []model.VideoSample{
		sampleWith("a", 5000, 0, 0),
		sampleWith("b", 5000, 0, 0),
		sampleWith("c", 5000, 0, 0),
	}

	b, err := svc.Compute(samples)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	if !almostEqual(b.StdDevViews, 0) {
		t.Errorf("StdDevViews = %.4f, want 0 for identical view counts", b.StdDevViews)
	}
	if !almostEqual(b.MeanViews, 5000) {
		t.Errorf("MeanViews = %.2f, want 5000", b.MeanViews)
	}
}

func TestComputeBaselineMixedCohort(t *testing.T) {
	svc := NewBaselineService()

	// views: 100, 200, 300 → mean 200, median 200
	// engagement: 10/100=0.1, 40/200=0.2, 90/300=0.3 → mean 0.2
	samples := []model.VideoSample{
		sampleWith("a", 100, 10, 0),
		sampleWith("b", 200, 40, 0),
		sampleWith("c", 300, 90, 0),
	}

	b, err := svc.Compute(samples)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	if !almostEqual(b.MeanViews, 200) {
		t.Errorf("MeanViews = %.2f, want 200", b.MeanViews)
	}
	if !almostEqual(b.MedianViews, 200) {
		t.Errorf("MedianViews = %.2f, want 200", b.MedianViews)
	}
	if !almostEqual(b.MeanEngagementRate, 0.2) {
		t.Errorf("MeanEngagementRate = %.4f, want 0.2", b.MeanEngagementRate)
	}
	// population stddev of [100,200,300] = sqrt(20000/3)
	want := math.Sqrt(20000.0 / 3.0)
	if !almostEqual(b.StdDevViews, want) {
		t.Errorf("StdDevViews = %.4f, want %.4f", b.StdDevViews, want)
	}
	if b.RegionCode != "US" {
		t.Errorf("RegionCode = %q, want US", b.RegionCode)
	}
}

func TestEngagementRateZeroViews(t *testing.T) {
	// Views floored at 1 so a zero-view video yields a finite rate.
	s := sampleWith("a", 0, 5, 5)
	if !almostEqual(s.EngagementRate(), 10) {
		t.Errorf("EngagementRate() = %.4f, want 10 (floored denominator)", s.EngagementRate())
	}
}
