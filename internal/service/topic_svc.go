package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trendlens/trendlens-go/internal/model"
	"github.com/trendlens/trendlens-go/internal/repository"
)

// TopicService manages the trending topic registry.
type TopicService struct {
	repo *repository.TopicRepo
}

func NewTopicService(repo *repository.TopicRepo) *TopicService {
	return &TopicService{repo: repo}
}

// Create persists a manually entered topic, assigning identity and
// timestamps. Platform-derived topics go through the collect service
// instead.
func (s *TopicService) Create(ctx context.Context, t model.TrendingTopic) (*model.TrendingTopic, error) {
	now := time.Now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.SourceType == "" {
		t.SourceType = model.TopicSourceManual
	}
	if t.ContentIdeas == nil {
		t.ContentIdeas = []string{}
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Replace overwrites an existing topic in full and returns the stored row.
func (s *TopicService) Replace(ctx context.Context, t model.TrendingTopic) (*model.TrendingTopic, error) {
	if t.ContentIdeas == nil {
		t.ContentIdeas = []string{}
	}
	if err := s.repo.Replace(ctx, t); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, t.ID)
}

// Delete removes a topic by ID.
func (s *TopicService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List returns one page of topics with the total count.
func (s *TopicService) List(ctx context.Context, f model.TopicFilter) (*model.TopicListResponse, error) {
	topics, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &model.TopicListResponse{
		Topics: topics,
		Total:  total,
		Limit:  f.Limit,
		Offset: f.Offset,
	}, nil
}
