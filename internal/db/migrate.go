package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is the idempotent DDL for the trendlens tables. Snapshots are
// append-only; outlier_videos is the mutable ledger keyed by video ID.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS trend_snapshots (
		id                  UUID PRIMARY KEY,
		captured_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		region_code         VARCHAR(2) NOT NULL,
		category_id         VARCHAR(8),
		snapshot_type       VARCHAR(16) NOT NULL DEFAULT 'trending',
		avg_views           DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_engagement_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		outlier_count       INTEGER NOT NULL DEFAULT 0,
		flagged             JSONB NOT NULL DEFAULT '[]'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_cohort
		ON trend_snapshots (region_code, snapshot_type, captured_at DESC)`,
	`CREATE TABLE IF NOT EXISTS outlier_videos (
		video_id          VARCHAR(16) PRIMARY KEY,
		channel_id        VARCHAR(32),
		title             TEXT,
		region_code       VARCHAR(2) NOT NULL,
		outlier_type      VARCHAR(24) NOT NULL,
		detected_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		is_verified       BOOLEAN NOT NULL DEFAULT FALSE,
		is_false_positive BOOLEAN NOT NULL DEFAULT FALSE,
		verified_at       TIMESTAMPTZ,
		view_count        BIGINT NOT NULL DEFAULT 0,
		like_count        BIGINT NOT NULL DEFAULT 0,
		comment_count     BIGINT NOT NULL DEFAULT 0,
		engagement_rate   DOUBLE PRECISION NOT NULL DEFAULT 0,
		published_at      TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outliers_region_detected
		ON outlier_videos (region_code, detected_at DESC)`,
	`CREATE TABLE IF NOT EXISTS trending_topics (
		id                  UUID PRIMARY KEY,
		topic               TEXT NOT NULL,
		niche_id            VARCHAR(64),
		search_volume       INTEGER NOT NULL DEFAULT 0,
		growth_rate         DOUBLE PRECISION NOT NULL DEFAULT 0,
		category            VARCHAR(64),
		is_viral            BOOLEAN NOT NULL DEFAULT FALSE,
		is_evergreen        BOOLEAN NOT NULL DEFAULT FALSE,
		content_ideas       TEXT[] NOT NULL DEFAULT '{}',
		target_demographics TEXT,
		source_type         VARCHAR(16) NOT NULL DEFAULT 'manual',
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate applies the schema statements in order. Safe to run on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}
