package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trendlens/trendlens-go/internal/model"
)

// upsertOutlierSQL refreshes the metrics snapshot, outlier type, and region
// on re-detection while preserving the original detection timestamp and any
// human review flags. The single-statement upsert also serializes concurrent
// collection runs hitting the same video ID (last writer wins on metrics).
const upsertOutlierSQL = `
	INSERT INTO outlier_videos (
		video_id, channel_id, title, region_code, outlier_type, detected_at,
		view_count, like_count, comment_count, engagement_rate, published_at
	)
	VALUES ($1, $2, $3, $4, $5, NOW(), $6, $7, $8, $9, $10)
	ON CONFLICT (video_id) DO UPDATE
	SET channel_id      = EXCLUDED.channel_id,
	    title           = EXCLUDED.title,
	    region_code     = EXCLUDED.region_code,
	    outlier_type    = EXCLUDED.outlier_type,
	    view_count      = EXCLUDED.view_count,
	    like_count      = EXCLUDED.like_count,
	    comment_count   = EXCLUDED.comment_count,
	    engagement_rate = EXCLUDED.engagement_rate,
	    published_at    = EXCLUDED.published_at`

const outlierColumns = `
	video_id, channel_id, title, region_code, outlier_type, detected_at,
	is_verified, is_false_positive, verified_at,
	view_count, like_count, comment_count, engagement_rate, published_at`

type OutlierRepo struct {
	pool *pgxpool.Pool
}

func NewOutlierRepo(pool *pgxpool.Pool) *OutlierRepo {
	return &OutlierRepo{pool: pool}
}

// Upsert inserts a newly detected outlier or refreshes an existing entry.
func (r *OutlierRepo) Upsert(ctx context.Context, rec model.OutlierRecord) error {
	_, err := r.pool.Exec(ctx, upsertOutlierSQL, upsertArgs(rec)...)
	return err
}

// upsertArgs builds the argument list for upsertOutlierSQL. Shared with the
// snapshot repo, which replays the same upsert inside its collection-run
// transaction.
func upsertArgs(rec model.OutlierRecord) []any {
	return []any{
		rec.VideoID, nullIfEmpty(rec.ChannelID), nullIfEmpty(rec.Title),
		rec.RegionCode, rec.OutlierType,
		rec.ViewCount, rec.LikeCount, rec.CommentCount, rec.EngagementRate, rec.PublishedAt,
	}
}

// MarkVerification updates the human review flags on a ledger entry.
// Nil fields are left unchanged; setting isVerified=true stamps verified_at.
// Returns ErrNotFound if no entry exists for the video ID.
func (r *OutlierRepo) MarkVerification(ctx context.Context, videoID string, isVerified, isFalsePositive *bool) (*model.OutlierRecord, error) {
	query := `
		UPDATE outlier_videos
		SET is_verified       = COALESCE($2, is_verified),
		    is_false_positive = COALESCE($3, is_false_positive),
		    verified_at       = CASE WHEN $2 = TRUE THEN NOW() ELSE verified_at END
		WHERE video_id = $1
		RETURNING` + outlierColumns

	rec, err := scanOutlier(r.pool.QueryRow(ctx, query, videoID, isVerified, isFalsePositive))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns a page of ledger entries ordered by detection time descending,
// plus the total count matching the filter.
func (r *OutlierRepo) List(ctx context.Context, f model.OutlierFilter) ([]model.OutlierRecord, int, error) {
	where := ` WHERE region_code = $1`
	args := []any{f.RegionCode}

	if f.ExcludeFalsePositive {
		where += ` AND is_false_positive = FALSE`
	}
	if f.Type != "" {
		args = append(args, f.Type)
		where += fmt.Sprintf(` AND outlier_type = $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM outlier_videos`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT%s
		FROM outlier_videos%s
		ORDER BY detected_at DESC
		LIMIT $%d OFFSET $%d`, outlierColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]model.OutlierRecord, 0, f.Limit)
	for rows.Next() {
		rec, err := scanOutlier(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *rec)
	}
	return records, total, rows.Err()
}

// scanOutlier reads one ledger row in outlierColumns order.
func scanOutlier(row pgx.Row) (*model.OutlierRecord, error) {
	var rec model.OutlierRecord
	var channelID, title *string
	err := row.Scan(
		&rec.VideoID, &channelID, &title, &rec.RegionCode, &rec.OutlierType, &rec.DetectedAt,
		&rec.IsVerified, &rec.IsFalsePositive, &rec.VerifiedAt,
		&rec.ViewCount, &rec.LikeCount, &rec.CommentCount, &rec.EngagementRate, &rec.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	if channelID != nil {
		rec.ChannelID = *channelID
	}
	if title != nil {
		rec.Title = *title
	}
	return &rec, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
