package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parikshahq/pariksha-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// AnswerCache buffers a student's partial answers during an attempt so a
// forced submission can use whatever was last transmitted. An explicit
// submit payload always takes precedence over the cache.
type AnswerCache interface {
	Save(ctx context.Context, userID int, examID uuid.UUID, answers map[string]string) error
	Load(ctx context.Context, userID int, examID uuid.UUID) (map[string]string, error)
	Clear(ctx context.Context, userID int, examID uuid.UUID) error
}

// ─── Redis-backed cache ─────────────────────────────────────────────────

type redisAnswerCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisAnswerCache returns an AnswerCache backed by a Redis hash per
// (user, exam) attempt.
func NewRedisAnswerCache(rdb *redis.Client, ttl time.Duration) AnswerCache {
	return &redisAnswerCache{rdb: rdb, ttl: ttl}
}

func (c *redisAnswerCache) Save(ctx context.Context, userID int, examID uuid.UUID, answers map[string]string) error {
	if len(answers) == 0 {
		return nil
	}

	key := config.CacheKey.AttemptAnswersKey(userID, examID)
	flat := make([]any, 0, len(answers)*2)
	for q, a := range answers {
		flat = append(flat, q, a)
	}

	pipe := c.rdb.Pipeline()
	pipe.HSet(ctx, key, flat...)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save answers: %w", err)
	}
	return nil
}

func (c *redisAnswerCache) Load(ctx context.Context, userID int, examID uuid.UUID) (map[string]string, error) {
	answers, err := c.rdb.HGetAll(ctx, config.CacheKey.AttemptAnswersKey(userID, examID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	return answers, nil
}

func (c *redisAnswerCache) Clear(ctx context.Context, userID int, examID uuid.UUID) error {
	return c.rdb.Del(ctx, config.CacheKey.AttemptAnswersKey(userID, examID)).Err()
}

// ─── In-memory cache ────────────────────────────────────────────────────

type memoryAnswerCache struct {
	mu      sync.Mutex
	answers map[string]map[string]string
}

// NewMemoryAnswerCache returns a process-local AnswerCache for tests and
// single-process deployments.
func NewMemoryAnswerCache() AnswerCache {
	return &memoryAnswerCache{answers: make(map[string]map[string]string)}
}

func memoryAnswerCacheKey(userID int, examID uuid.UUID) string {
	return fmt.Sprintf("%d:%s", userID, examID)
}

func (c *memoryAnswerCache) Save(_ context.Context, userID int, examID uuid.UUID, answers map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := memoryAnswerCacheKey(userID, examID)
	stored, ok := c.answers[key]
	if !ok {
		stored = make(map[string]string, len(answers))
		c.answers[key] = stored
	}
	for q, a := range answers {
		stored[q] = a
	}
	return nil
}

func (c *memoryAnswerCache) Load(_ context.Context, userID int, examID uuid.UUID) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]string)
	for q, a := range c.answers[memoryAnswerCacheKey(userID, examID)] {
		out[q] = a
	}
	return out, nil
}

func (c *memoryAnswerCache) Clear(_ context.Context, userID int, examID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.answers, memoryAnswerCacheKey(userID, examID))
	return nil
}
