package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trendlens/trendlens-go/internal/model"
)

const topicColumns = `
	id, topic, niche_id, search_volume, growth_rate, category,
	is_viral, is_evergreen, content_ideas, target_demographics,
	source_type, created_at, updated_at`

type TopicRepo struct {
	pool *pgxpool.Pool
}

func NewTopicRepo(pool *pgxpool.Pool) *TopicRepo {
	return &TopicRepo{pool: pool}
}

// Insert persists a new trending topic. ID and timestamps must be set by
// the caller.
func (r *TopicRepo) Insert(ctx context.Context, t model.TrendingTopic) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO trending_topics (
			id, topic, niche_id, search_volume, growth_rate, category,
			is_viral, is_evergreen, content_ideas, target_demographics,
			source_type, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		t.ID, t.Topic, t.NicheID, t.SearchVolume, t.GrowthRate, nullIfEmpty(t.Category),
		t.IsViral, t.IsEvergreen, t.ContentIdeas, nullIfEmpty(t.TargetDemographics),
		t.SourceType, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

// Replace overwrites every mutable field of an existing topic (no
// partial-field semantics). Returns ErrNotFound for an unknown ID.
func (r *TopicRepo) Replace(ctx context.Context, t model.TrendingTopic) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE trending_topics
		SET topic = $2, niche_id = $3, search_volume = $4, growth_rate = $5,
		    category = $6, is_viral = $7, is_evergreen = $8, content_ideas = $9,
		    target_demographics = $10, source_type = $11, updated_at = NOW()
		WHERE id = $1`,
		t.ID, t.Topic, t.NicheID, t.SearchVolume, t.GrowthRate, nullIfEmpty(t.Category),
		t.IsViral, t.IsEvergreen, t.ContentIdeas, nullIfEmpty(t.TargetDemographics),
		t.SourceType,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Delete removes a topic. Returns ErrNotFound for an unknown ID.
func (r *TopicRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM trending_topics WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// FindByID returns a single topic or ErrNotFound.
func (r *TopicRepo) FindByID(ctx context.Context, id string) (*model.TrendingTopic, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+topicColumns+` FROM trending_topics WHERE id = $1`, id)
	t, err := scanTopic(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return t, err
}

// List returns a page of topics newest first, plus the total count.
func (r *TopicRepo) List(ctx context.Context, f model.TopicFilter) ([]model.TrendingTopic, int, error) {
	where := ` WHERE TRUE`
	var args []any

	if f.Category != "" {
		args = append(args, f.Category)
		where += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if f.NicheID != "" {
		args = append(args, f.NicheID)
		where += fmt.Sprintf(` AND niche_id = $%d`, len(args))
	}
	if f.Viral != nil {
		args = append(args, *f.Viral)
		where += fmt.Sprintf(` AND is_viral = $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM trending_topics`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT%s
		FROM trending_topics%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, topicColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	topics := make([]model.TrendingTopic, 0, f.Limit)
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, 0, err
		}
		topics = append(topics, *t)
	}
	return topics, total, rows.Err()
}

func scanTopic(row pgx.Row) (*model.TrendingTopic, error) {
	var t model.TrendingTopic
	var category, demographics *string
	err := row.Scan(
		&t.ID, &t.Topic, &t.NicheID, &t.SearchVolume, &t.GrowthRate, &category,
		&t.IsViral, &t.IsEvergreen, &t.ContentIdeas, &demographics,
		&t.SourceType, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if category != nil {
		t.Category = *category
	}
	if demographics != nil {
		t.TargetDemographics = *demographics
	}
	if t.ContentIdeas == nil {
		t.ContentIdeas = []string{}
	}
	return &t, nil
}
