package shopping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HammerMeetNail/giftmatch/internal/logging"
	"github.com/HammerMeetNail/giftmatch/internal/models"
)

const (
	resultKeyPrefix = "shopping:results:"
	popularKey      = "shopping:popular"
)

// Searcher is the provider contract the cache decorates.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.ExternalProduct, error)
}

// CachedSearcher serves provider results from redis and records how often
// each query is requested so the warmer can refresh the popular ones. Redis
// failures fall through to the provider.
type CachedSearcher struct {
	next  Searcher
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedSearcher(next Searcher, redisClient *redis.Client, ttl time.Duration) *CachedSearcher {
	return &CachedSearcher{next: next, redis: redisClient, ttl: ttl}
}

// CacheKey returns the redis key for query and limit.
func CacheKey(query string, limit int) string {
	return resultKeyPrefix + strconv.Itoa(limit) + ":" + strings.ToLower(SanitizeQuery(query))
}

func (c *CachedSearcher) Search(ctx context.Context, query string, limit int) ([]models.ExternalProduct, error) {
	normalized := strings.ToLower(SanitizeQuery(query))
	if normalized == "" {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, ErrEmptyQuery)
	}
	log := logging.FromContext(ctx)

	if err := c.redis.ZIncrBy(ctx, popularKey, 1, normalized).Err(); err != nil {
		log.Warn("Failed to record popular query", logging.Fields{"error": err.Error()})
	}

	cached, err := c.redis.Get(ctx, CacheKey(normalized, limit)).Bytes()
	switch {
	case err == nil:
		var products []models.ExternalProduct
		if jsonErr := json.Unmarshal(cached, &products); jsonErr == nil {
			return products, nil
		}
		log.Warn("Discarding undecodable cached results", logging.Fields{"query": normalized})
	case !errors.Is(err, redis.Nil):
		log.Warn("Shopping cache read failed", logging.Fields{"error": err.Error()})
	}

	return c.fetch(ctx, normalized, limit)
}

// Refresh bypasses the cache, queries the provider and stores the result.
func (c *CachedSearcher) Refresh(ctx context.Context, query string, limit int) error {
	_, err := c.fetch(ctx, strings.ToLower(SanitizeQuery(query)), limit)
	return err
}

func (c *CachedSearcher) fetch(ctx context.Context, query string, limit int) ([]models.ExternalProduct, error) {
	products, err := c.next.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(products)
	if err != nil {
		return products, nil
	}
	if err := c.redis.Set(ctx, CacheKey(query, limit), data, c.ttl).Err(); err != nil {
		logging.FromContext(ctx).Warn("Shopping cache write failed", logging.Fields{"error": err.Error()})
	}
	return products, nil
}

// PopularQueries returns up to n queries ordered by request count.
func (c *CachedSearcher) PopularQueries(ctx context.Context, n int) ([]string, error) {
	if n < 1 {
		return nil, nil
	}
	queries, err := c.redis.ZRevRange(ctx, popularKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading popular queries: %w", err)
	}
	return queries, nil
}
