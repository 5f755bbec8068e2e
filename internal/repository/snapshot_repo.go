package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trendlens/trendlens-go/internal/model"
)

const snapshotColumns = `
	id, captured_at, region_code, category_id, snapshot_type,
	avg_views, avg_engagement_rate, outlier_count, flagged`

type SnapshotRepo struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepo(pool *pgxpool.Pool) *SnapshotRepo {
	return &SnapshotRepo{pool: pool}
}

// InsertRun writes one collection run atomically: the snapshot row plus one
// ledger upsert per flagged video, in a single transaction. Readers never
// observe a partial run.
func (r *SnapshotRepo) InsertRun(ctx context.Context, snap model.Snapshot, outliers []model.OutlierRecord) error {
	flagged, err := json.Marshal(snap.Flagged)
	if err != nil {
		return fmt.Errorf("marshal flagged list: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO trend_snapshots (
			id, captured_at, region_code, category_id, snapshot_type,
			avg_views, avg_engagement_rate, outlier_count, flagged
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		snap.ID, snap.CapturedAt, snap.RegionCode, snap.CategoryID, snap.SnapshotType,
		snap.AvgViews, snap.AvgEngagementRate, snap.OutlierCount, flagged,
	)
	if err != nil {
		return err
	}

	for _, rec := range outliers {
		if _, err := tx.Exec(ctx, upsertOutlierSQL, upsertArgs(rec)...); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// List returns a page of snapshots for a cohort ordered by capture time
// descending, plus the total count.
func (r *SnapshotRepo) List(ctx context.Context, f model.SnapshotFilter) ([]model.Snapshot, int, error) {
	where := ` WHERE region_code = $1 AND snapshot_type = $2`
	args := []any{f.RegionCode, f.SnapshotType}

	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		where += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM trend_snapshots`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT%s
		FROM trend_snapshots%s
		ORDER BY captured_at DESC
		LIMIT $%d OFFSET $%d`, snapshotColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	snapshots := make([]model.Snapshot, 0, f.Limit)
	for rows.Next() {
		var snap model.Snapshot
		var flagged []byte
		err := rows.Scan(
			&snap.ID, &snap.CapturedAt, &snap.RegionCode, &snap.CategoryID, &snap.SnapshotType,
			&snap.AvgViews, &snap.AvgEngagementRate, &snap.OutlierCount, &flagged,
		)
		if err != nil {
			return nil, 0, err
		}
		if len(flagged) > 0 {
			if err := json.Unmarshal(flagged, &snap.Flagged); err != nil {
				return nil, 0, fmt.Errorf("unmarshal flagged list: %w", err)
			}
		}
		if snap.Flagged == nil {
			snap.Flagged = []model.FlaggedVideo{}
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, total, rows.Err()
}

// SeriesFor returns the cohort aggregates of the most recent window
// snapshots, newest first. The trend service reverses them into the
// ascending series it serves; no separate persisted structure exists.
func (r *SnapshotRepo) SeriesFor(ctx context.Context, regionCode, categoryID, snapshotType string, window int) ([]model.TrendPoint, error) {
	where := ` WHERE region_code = $1 AND snapshot_type = $2`
	args := []any{regionCode, snapshotType}

	if categoryID != "" {
		args = append(args, categoryID)
		where += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}

	args = append(args, window)
	query := fmt.Sprintf(`
		SELECT captured_at, avg_views, avg_engagement_rate, outlier_count
		FROM trend_snapshots%s
		ORDER BY captured_at DESC
		LIMIT $%d`, where, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]model.TrendPoint, 0, window)
	for rows.Next() {
		var p model.TrendPoint
		if err := rows.Scan(&p.Timestamp, &p.AvgViews, &p.AvgEngagementRate, &p.OutlierCount); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
