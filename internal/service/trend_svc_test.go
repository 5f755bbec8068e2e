package service

import (
	"testing"
	"time"

	"github.com/trendlens/trendlens-go/internal/model"
)

func TestReshapeAscendingEmpty(t *testing.T) {
	data := reshapeAscending(nil)

	// Empty but valid: non-nil zero-length series, safe to chart directly.
	if data.Timestamps == nil || data.AvgViews == nil || data.AvgEngagement == nil || data.OutlierCounts == nil {
		t.Fatal("reshapeAscending(nil) returned nil slices, want empty non-nil")
	}
	if len(data.Timestamps) != 0 {
		t.Errorf("Timestamps length = %d, want 0", len(data.Timestamps))
	}
}

func TestReshapeAscendingOrderAndParallel(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// Repo pages are newest-first; the chart needs oldest-first.
	points := []model.TrendPoint{
		{Timestamp: base.Add(2 * time.Hour), AvgViews: 300, AvgEngagementRate: 0.3, OutlierCount: 3},
		{Timestamp: base.Add(1 * time.Hour), AvgViews: 200, AvgEngagementRate: 0.2, OutlierCount: 2},
		{Timestamp: base, AvgViews: 100, AvgEngagementRate: 0.1, OutlierCount: 1},
	}

	data := reshapeAscending(points)

	n := len(data.Timestamps)
	if n != 3 || len(data.AvgViews) != n || len(data.AvgEngagement) != n || len(data.OutlierCounts) != n {
		t.Fatalf("series lengths = %d/%d/%d/%d, want all 3",
			len(data.Timestamps), len(data.AvgViews), len(data.AvgEngagement), len(data.OutlierCounts))
	}

	for i := 1; i < n; i++ {
		if !data.Timestamps[i].After(data.Timestamps[i-1]) {
			t.Errorf("timestamps not ascending at index %d", i)
		}
	}

	// Each position lines up across all three series.
	if !almostEqual(data.AvgViews[0], 100) || !almostEqual(data.AvgEngagement[0], 0.1) || data.OutlierCounts[0] != 1 {
		t.Errorf("position 0 = (%.0f, %.2f, %d), want (100, 0.10, 1)",
			data.AvgViews[0], data.AvgEngagement[0], data.OutlierCounts[0])
	}
	if !almostEqual(data.AvgViews[2], 300) || !almostEqual(data.AvgEngagement[2], 0.3) || data.OutlierCounts[2] != 3 {
		t.Errorf("position 2 = (%.0f, %.2f, %d), want (300, 0.30, 3)",
			data.AvgViews[2], data.AvgEngagement[2], data.OutlierCounts[2])
	}
}

func TestReshapeAscendingSinglePoint(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	data := reshapeAscending([]model.TrendPoint{
		{Timestamp: ts, AvgViews: 42, AvgEngagementRate: 0.05, OutlierCount: 0},
	})

	if len(data.Timestamps) != 1 {
		t.Fatalf("Timestamps length = %d, want 1", len(data.Timestamps))
	}
	if !data.Timestamps[0].Equal(ts) {
		t.Errorf("Timestamps[0] = %v, want %v", data.Timestamps[0], ts)
	}
}
