package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/trendlens/trendlens-go/internal/config"
	"github.com/trendlens/trendlens-go/internal/model"
)

type fakeSource struct {
	samples        []model.VideoSample
	err            error
	gotMaxResults  int
	gotRegionCode  string
	gotCategoryID  string
	fetchCallCount int
}

func (f *fakeSource) FetchTrending(ctx context.Context, regionCode, categoryID string, maxResults int) ([]model.VideoSample, error) {
	f.fetchCallCount++
	f.gotRegionCode = regionCode
	f.gotCategoryID = categoryID
	f.gotMaxResults = maxResults
	return f.samples, f.err
}

func (f *fakeSource) ListCategories(ctx context.Context, regionCode string) ([]model.VideoCategory, error) {
	return nil, nil
}

type fakeStore struct {
	snap     *model.Snapshot
	outliers []model.OutlierRecord
	calls    int
	err      error
}

func (f *fakeStore) InsertRun(ctx context.Context, snap model.Snapshot, outliers []model.OutlierRecord) error {
	f.calls++
	f.snap = &snap
	f.outliers = outliers
	return f.err
}

type fakeTopics struct {
	inserted []model.TrendingTopic
}

func (f *fakeTopics) Insert(ctx context.Context, t model.TrendingTopic) error {
	f.inserted = append(f.inserted, t)
	return nil
}

func collectConfig() *config.Config {
	return &config.Config{
		MaxResultsCeiling: 50,
		SourceTimeout:     time.Second,
		Thresholds: config.OutlierThresholds{
			ViewSpikeZ:              2.0,
			ViewSpikeMinViews:       10000,
			EngagementSpikeMultiple: 2.0,
			RapidGrowthRatePerHour:  5000,
		},
	}
}

// staleSamples returns a homogeneous cohort published long ago, so no
// detector rule can trigger.
func staleSamples(n int) []model.VideoSample {
	samples := make([]model.VideoSample, 0, n)
	for i := 0; i < n; i++ {
		s := sampleWith(string(rune('a'+i)), 5000, 0, 0)
		s.PublishedAt = s.CollectedAt.Add(-90 * 24 * time.Hour)
		samples = append(samples, s)
	}
	return samples
}

func TestRunClampsMaxResults(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"over ceiling", 500, 50},
		{"zero falls back", 0, 50},
		{"negative falls back", -3, 50},
		{"under ceiling kept", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &fakeSource{samples: staleSamples(3)}
			store := &fakeStore{}
			svc := NewCollectService(source, store, nil, nil, collectConfig())

			if _, err := svc.Run(context.Background(), "US", "", tt.requested); err != nil {
				t.Fatalf("Run returned error: %v", err)
			}
			if source.gotMaxResults != tt.want {
				t.Errorf("source received maxResults = %d, want %d", source.gotMaxResults, tt.want)
			}
		})
	}
}

func TestRunNoOutliersNoLedgerWrites(t *testing.T) {
	source := &fakeSource{samples: staleSamples(5)}
	store := &fakeStore{}
	svc := NewCollectService(source, store, nil, nil, collectConfig())

	snap, err := svc.Run(context.Background(), "US", "", 0)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if store.calls != 1 {
		t.Fatalf("InsertRun called %d times, want 1", store.calls)
	}
	if len(store.outliers) != 0 {
		t.Errorf("ledger received %d records for a cohort with no outliers", len(store.outliers))
	}
	if snap.OutlierCount != 0 {
		t.Errorf("snapshot OutlierCount = %d, want 0", snap.OutlierCount)
	}
	if snap.Flagged == nil || len(snap.Flagged) != 0 {
		t.Errorf("snapshot Flagged = %v, want empty non-nil list", snap.Flagged)
	}
}

func TestRunFlagsSpikeIntoSnapshotAndLedger(t *testing.T) {
	samples := staleSamples(9)
	spike := sampleWith("spike", 500000, 0, 0)
	spike.PublishedAt = spike.CollectedAt.Add(-90 * 24 * time.Hour)
	samples = append(samples, spike)

	source := &fakeSource{samples: samples}
	store := &fakeStore{}
	topics := &fakeTopics{}
	svc := NewCollectService(source, store, topics, nil, collectConfig())

	snap, err := svc.Run(context.Background(), "US", "", 0)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(store.outliers) != 1 {
		t.Fatalf("ledger received %d records, want 1", len(store.outliers))
	}
	rec := store.outliers[0]
	if rec.VideoID != "spike" {
		t.Errorf("ledger record VideoID = %q, want spike", rec.VideoID)
	}
	if rec.OutlierType != model.OutlierTypeViewSpike {
		t.Errorf("ledger record OutlierType = %q, want %q", rec.OutlierType, model.OutlierTypeViewSpike)
	}
	if rec.RegionCode != "US" {
		t.Errorf("ledger record RegionCode = %q, want US", rec.RegionCode)
	}

	if snap.OutlierCount != 1 {
		t.Errorf("snapshot OutlierCount = %d, want 1", snap.OutlierCount)
	}
	if len(snap.Flagged) != 1 || snap.Flagged[0].VideoID != "spike" {
		t.Errorf("snapshot Flagged = %v, want single entry for spike", snap.Flagged)
	}
	if snap.SnapshotType != model.SnapshotTypeTrending {
		t.Errorf("SnapshotType = %q, want trending", snap.SnapshotType)
	}
	if snap.ID == "" {
		t.Error("snapshot ID not assigned")
	}

	// A flagged video also yields a platform-derived topic.
	if len(topics.inserted) != 1 {
		t.Fatalf("derived %d topics, want 1", len(topics.inserted))
	}
	if topics.inserted[0].SourceType != model.TopicSourcePlatform {
		t.Errorf("derived topic SourceType = %q, want platform", topics.inserted[0].SourceType)
	}
}

func TestRunCategoryScopedSnapshot(t *testing.T) {
	source := &fakeSource{samples: staleSamples(3)}
	store := &fakeStore{}
	svc := NewCollectService(source, store, nil, nil, collectConfig())

	snap, err := svc.Run(context.Background(), "US", "10", 0)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if snap.SnapshotType != model.SnapshotTypeCategory {
		t.Errorf("SnapshotType = %q, want category", snap.SnapshotType)
	}
	if snap.CategoryID == nil || *snap.CategoryID != "10" {
		t.Errorf("CategoryID = %v, want 10", snap.CategoryID)
	}
	if source.gotCategoryID != "10" {
		t.Errorf("source received categoryID = %q, want 10", source.gotCategoryID)
	}
}

func TestRunSourceErrorPropagates(t *testing.T) {
	source := &fakeSource{err: model.ErrSourceUnavailable}
	store := &fakeStore{}
	svc := NewCollectService(source, store, nil, nil, collectConfig())

	_, err := svc.Run(context.Background(), "US", "", 0)
	if !errors.Is(err, model.ErrSourceUnavailable) {
		t.Errorf("Run error = %v, want ErrSourceUnavailable", err)
	}
	if store.calls != 0 {
		t.Errorf("InsertRun called %d times after a fetch failure, want 0", store.calls)
	}
}

func TestRunEmptyFetchFails(t *testing.T) {
	source := &fakeSource{samples: nil}
	store := &fakeStore{}
	svc := NewCollectService(source, store, nil, nil, collectConfig())

	_, err := svc.Run(context.Background(), "US", "", 0)
	if !errors.Is(err, model.ErrNoSamples) {
		t.Errorf("Run error = %v, want ErrNoSamples", err)
	}
	if store.calls != 0 {
		t.Errorf("InsertRun called %d times for an empty fetch, want 0", store.calls)
	}
}

func TestRunFlaggedListCappedAndSorted(t *testing.T) {
	// 30 fresh videos all qualify as rapid growth; the ledger gets all 30
	// but the snapshot embeds only the strongest deviations.
	now := time.Now().UTC()
	samples := make([]model.VideoSample, 0, 30)
	for i := 0; i < 30; i++ {
		s := sampleWith(string(rune('A'+i)), int64(100000+i*1000), 0, 0)
		s.PublishedAt = now.Add(-1 * time.Hour)
		s.CollectedAt = now
		samples = append(samples, s)
	}

	source := &fakeSource{samples: samples}
	store := &fakeStore{}
	svc := NewCollectService(source, store, nil, nil, collectConfig())

	snap, err := svc.Run(context.Background(), "US", "", 0)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(store.outliers) != 30 {
		t.Errorf("ledger received %d records, want all 30", len(store.outliers))
	}
	if len(snap.Flagged) != maxFlaggedPerSnapshot {
		t.Errorf("snapshot embeds %d flagged videos, want %d", len(snap.Flagged), maxFlaggedPerSnapshot)
	}
	if snap.OutlierCount != 30 {
		t.Errorf("snapshot OutlierCount = %d, want 30", snap.OutlierCount)
	}
	for i := 1; i < len(snap.Flagged); i++ {
		if snap.Flagged[i].DeviationScore > snap.Flagged[i-1].DeviationScore {
			t.Errorf("flagged list not sorted by deviation at index %d", i)
		}
	}
}
