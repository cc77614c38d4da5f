package config

import (
	"fmt"

	"github.com/google/uuid"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// LoginSessionKey returns the cache key holding a student's active JWT ID.
func (r *CacheKeyStruct) LoginSessionKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// AttemptSessionKey returns the cache key for a user's live attempt session.
// One live session per user, so the key is not exam-scoped.
func (r *CacheKeyStruct) AttemptSessionKey(userID int) string {
	return fmt.Sprintf("user:%d:attempt", userID)
}

// AttemptAnswersKey returns the cache key for a user's autosaved answers
// within one exam attempt.
func (r *CacheKeyStruct) AttemptAnswersKey(userID int, examID uuid.UUID) string {
	return fmt.Sprintf("user:%d:exam:%s:answers", userID, examID)
}

var CacheKey = NewCacheKeyStruct()
