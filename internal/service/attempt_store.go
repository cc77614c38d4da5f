package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/parikshahq/pariksha-backend/internal/config"
	"github.com/parikshahq/pariksha-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// AttemptStore is the keyed store backing the exam session manager.
// One live session per user. Creation must be a compare-and-set so that
// two concurrent begin calls cannot both install their own deadline.
type AttemptStore interface {
	// Get returns the user's live session, or nil when none exists.
	Get(ctx context.Context, userID int) (*model.AttemptSession, error)
	// PutIfAbsent installs sess only when the user has no live session,
	// and returns whichever session is stored afterwards (the existing
	// one when another caller won the race).
	PutIfAbsent(ctx context.Context, sess *model.AttemptSession) (*model.AttemptSession, error)
	// Replace unconditionally overwrites the user's session.
	Replace(ctx context.Context, sess *model.AttemptSession) error
	// Delete removes the user's session. Deleting a non-existent
	// session is not an error.
	Delete(ctx context.Context, userID int) error
}

// ─── Redis-backed store ─────────────────────────────────────────────────

type redisAttemptStore struct {
	rdb   *redis.Client
	grace time.Duration
}

// NewRedisAttemptStore returns an AttemptStore backed by Redis. Sessions
// are kept for their remaining duration plus grace, so an expired session
// is still observable long enough to force a submission.
func NewRedisAttemptStore(rdb *redis.Client, grace time.Duration) AttemptStore {
	return &redisAttemptStore{rdb: rdb, grace: grace}
}

func (s *redisAttemptStore) Get(ctx context.Context, userID int) (*model.AttemptSession, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.AttemptSessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt session: %w", err)
	}

	var sess model.AttemptSession
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode attempt session: %w", err)
	}
	return &sess, nil
}

func (s *redisAttemptStore) PutIfAbsent(ctx context.Context, sess *model.AttemptSession) (*model.AttemptSession, error) {
	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode attempt session: %w", err)
	}

	key := config.CacheKey.AttemptSessionKey(sess.UserID)
	ttl := time.Until(sess.EndsAt) + s.grace

	// SETNX is the compare-and-set: the first caller wins, later callers
	// read the winner's session. A bounded retry covers the rare window
	// where the winner's key vanishes between SETNX and GET.
	for i := 0; i < 3; i++ {
		ok, err := s.rdb.SetNX(ctx, key, raw, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("setnx attempt session: %w", err)
		}
		if ok {
			return sess, nil
		}
		existing, err := s.Get(ctx, sess.UserID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}
	return nil, errors.New("attempt session create contended")
}

func (s *redisAttemptStore) Replace(ctx context.Context, sess *model.AttemptSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode attempt session: %w", err)
	}

	key := config.CacheKey.AttemptSessionKey(sess.UserID)
	ttl := time.Until(sess.EndsAt) + s.grace
	if err := s.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("set attempt session: %w", err)
	}
	return nil
}

func (s *redisAttemptStore) Delete(ctx context.Context, userID int) error {
	return s.rdb.Del(ctx, config.CacheKey.AttemptSessionKey(userID)).Err()
}

// ─── In-memory store ────────────────────────────────────────────────────

type memoryAttemptStore struct {
	mu       sync.Mutex
	sessions map[int]model.AttemptSession
}

// NewMemoryAttemptStore returns a process-local AttemptStore. Suitable for
// tests and single-process deployments.
func NewMemoryAttemptStore() AttemptStore {
	return &memoryAttemptStore{sessions: make(map[int]model.AttemptSession)}
}

func (s *memoryAttemptStore) Get(_ context.Context, userID int) (*model.AttemptSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *memoryAttemptStore) PutIfAbsent(_ context.Context, sess *model.AttemptSession) (*model.AttemptSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[sess.UserID]; ok {
		return &existing, nil
	}
	s.sessions[sess.UserID] = *sess
	return sess, nil
}

func (s *memoryAttemptStore) Replace(_ context.Context, sess *model.AttemptSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.UserID] = *sess
	return nil
}

func (s *memoryAttemptStore) Delete(_ context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}
