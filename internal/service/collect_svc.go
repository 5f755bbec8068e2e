package service

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trendlens/trendlens-go/internal/config"
	"github.com/trendlens/trendlens-go/internal/model"
	"github.com/trendlens/trendlens-go/internal/youtube"
)

// maxFlaggedPerSnapshot caps the denormalized flagged list embedded in a
// snapshot. The ledger keeps every outlier; the snapshot keeps the
// strongest deviations for fast reads.
const maxFlaggedPerSnapshot = 20

// SnapshotWriter persists one collection run atomically.
type SnapshotWriter interface {
	InsertRun(ctx context.Context, snap model.Snapshot, outliers []model.OutlierRecord) error
}

// TopicWriter receives topics derived from flagged videos.
type TopicWriter interface {
	Insert(ctx context.Context, t model.TrendingTopic) error
}

// CollectService runs one collection pass: fetch a cohort's trending
// samples, compute the baseline, detect outliers, and persist the snapshot
// plus ledger upserts. Retry policy belongs to the scheduler, not here.
type CollectService struct {
	source   youtube.TrendingSource
	store    SnapshotWriter
	topics   TopicWriter
	baseline *BaselineService
	detector *OutlierDetector
	cache    *CacheService

	maxResultsCeiling int
	sourceTimeout     time.Duration
}

func NewCollectService(
	source youtube.TrendingSource,
	store SnapshotWriter,
	topics TopicWriter,
	cache *CacheService,
	cfg *config.Config,
) *CollectService {
	return &CollectService{
		source:            source,
		store:             store,
		topics:            topics,
		baseline:          NewBaselineService(),
		detector:          NewOutlierDetector(cfg.Thresholds),
		cache:             cache,
		maxResultsCeiling: cfg.MaxResultsCeiling,
		sourceTimeout:     cfg.SourceTimeout,
	}
}

// Run executes one collection pass for a cohort and returns the written
// snapshot. maxResults is clamped to the configured ceiling before the
// source is invoked (the ceiling protects the upstream quota regardless of
// what was requested); values <= 0 also fall back to the ceiling.
func (s *CollectService) Run(ctx context.Context, regionCode, categoryID string, maxResults int) (*model.Snapshot, error) {
	if maxResults <= 0 || maxResults > s.maxResultsCeiling {
		maxResults = s.maxResultsCeiling
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	// The client maps transport failures, including this deadline firing,
	// onto ErrSourceUnavailable.
	samples, err := s.source.FetchTrending(fetchCtx, regionCode, categoryID, maxResults)
	if err != nil {
		return nil, err
	}

	baseline, err := s.baseline.Compute(samples)
	if err != nil {
		return nil, err
	}
	baseline.RegionCode = regionCode
	baseline.CategoryID = categoryID

	detections := s.detector.Detect(samples, baseline)

	flagged := make([]model.FlaggedVideo, 0)
	outliers := make([]model.OutlierRecord, 0)
	for _, det := range detections {
		if !det.Verdict.IsOutlier() {
			continue
		}
		flagged = append(flagged, model.FlaggedVideo{
			VideoID:        det.Sample.VideoID,
			ChannelID:      det.Sample.ChannelID,
			Title:          det.Sample.Title,
			OutlierTypes:   det.Verdict.Types,
			DeviationScore: det.Verdict.DeviationScore,
			ViewCount:      det.Sample.ViewCount,
			LikeCount:      det.Sample.LikeCount,
			CommentCount:   det.Sample.CommentCount,
			EngagementRate: det.Sample.EngagementRate(),
			PublishedAt:    det.Sample.PublishedAt,
		})
		outliers = append(outliers, model.OutlierRecord{
			VideoID:        det.Sample.VideoID,
			ChannelID:      det.Sample.ChannelID,
			Title:          det.Sample.Title,
			RegionCode:     regionCode,
			OutlierType:    det.Verdict.Primary(),
			ViewCount:      det.Sample.ViewCount,
			LikeCount:      det.Sample.LikeCount,
			CommentCount:   det.Sample.CommentCount,
			EngagementRate: det.Sample.EngagementRate(),
			PublishedAt:    det.Sample.PublishedAt,
		})
	}

	// Strongest deviations first; the snapshot embeds at most
	// maxFlaggedPerSnapshot of them while every outlier reaches the ledger.
	sort.Slice(flagged, func(i, j int) bool {
		return flagged[i].DeviationScore > flagged[j].DeviationScore
	})
	if len(flagged) > maxFlaggedPerSnapshot {
		flagged = flagged[:maxFlaggedPerSnapshot]
	}

	snap := model.Snapshot{
		ID:                uuid.NewString(),
		CapturedAt:        time.Now().UTC(),
		RegionCode:        regionCode,
		SnapshotType:      snapshotTypeFor(categoryID),
		AvgViews:          baseline.MeanViews,
		AvgEngagementRate: baseline.MeanEngagementRate,
		OutlierCount:      len(outliers),
		Flagged:           flagged,
	}
	if categoryID != "" {
		snap.CategoryID = &categoryID
	}

	if err := s.store.InsertRun(ctx, snap, outliers); err != nil {
		return nil, err
	}

	s.deriveTopics(ctx, flagged)

	if s.cache != nil {
		if err := s.cache.InvalidateTrendSeries(ctx, regionCode, categoryID, snap.SnapshotType); err != nil {
			log.Printf("cache: trend series invalidate error: %v", err)
		}
	}

	return &snap, nil
}

// snapshotTypeFor distinguishes full trending runs from category-scoped ones.
func snapshotTypeFor(categoryID string) string {
	if categoryID != "" {
		return model.SnapshotTypeCategory
	}
	return model.SnapshotTypeTrending
}

// deriveTopics records platform-derived topics from the flagged list.
// Best effort: failures are logged, never fail the run.
func (s *CollectService) deriveTopics(ctx context.Context, flagged []model.FlaggedVideo) {
	if s.topics == nil {
		return
	}
	now := time.Now().UTC()
	for _, fv := range flagged {
		if fv.Title == "" {
			continue
		}
		topic := model.TrendingTopic{
			ID:           uuid.NewString(),
			Topic:        fv.Title,
			SearchVolume: int(fv.ViewCount / 1000),
			GrowthRate:   fv.DeviationScore,
			IsViral:      true,
			ContentIdeas: []string{},
			SourceType:   model.TopicSourcePlatform,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.topics.Insert(ctx, topic); err != nil {
			log.Printf("collect: derive topic for %s: %v", fv.VideoID, err)
		}
	}
}
