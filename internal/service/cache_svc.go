package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key TTLs. Category lists are near-static upstream data; trend
// series change only when a collection run lands (and are invalidated
// then), so the TTL is just a backstop.
const (
	CategoryCacheTTL    = time.Hour
	TrendSeriesCacheTTL = 5 * time.Minute
)

// CacheService provides a Redis cache-aside layer for upstream category
// lists and cohort trend series.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or
// connection fails, it returns a CacheService with a nil client (cache
// operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetCategories retrieves a cached category list for a region. Returns nil
// if not cached or cache is disabled.
func (c *CacheService) GetCategories(ctx context.Context, regionCode string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, categoryKey(regionCode)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetCategories stores a region's category list.
func (c *CacheService) SetCategories(ctx context.Context, regionCode string, data any) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, categoryKey(regionCode), b, CategoryCacheTTL).Err()
}

// GetTrendSeries retrieves a cached trend series for a cohort. Returns nil
// if not cached.
func (c *CacheService) GetTrendSeries(ctx context.Context, regionCode, categoryID, snapshotType string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, trendKey(regionCode, categoryID, snapshotType)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetTrendSeries stores a cohort's trend series.
func (c *CacheService) SetTrendSeries(ctx context.Context, regionCode, categoryID, snapshotType string, data any) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, trendKey(regionCode, categoryID, snapshotType), b, TrendSeriesCacheTTL).Err()
}

// InvalidateTrendSeries removes a cohort's trend series (called after a
// collection run writes a new snapshot).
func (c *CacheService) InvalidateTrendSeries(ctx context.Context, regionCode, categoryID, snapshotType string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, trendKey(regionCode, categoryID, snapshotType)).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func categoryKey(regionCode string) string {
	return fmt.Sprintf("categories:%s", regionCode)
}

func trendKey(regionCode, categoryID, snapshotType string) string {
	if categoryID == "" {
		categoryID = "all"
	}
	return fmt.Sprintf("trends:%s:%s:%s", regionCode, categoryID, snapshotType)
}
