package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/parikshahq/pariksha-backend/internal/model"
)

// ExamSessionManager owns the authoritative per-user attempt countdown.
// The deadline is a single absolute timestamp fixed when the session is
// created; every read derives remaining time from it, so page reloads can
// never reset the clock and no background ticker is needed.
type ExamSessionManager struct {
	store AttemptStore
	now   func() time.Time
}

// NewExamSessionManager creates an ExamSessionManager on the given store.
func NewExamSessionManager(store AttemptStore) *ExamSessionManager {
	return &ExamSessionManager{store: store, now: time.Now}
}

// BeginOrResume returns the remaining seconds for the user's attempt of
// examID, creating a session when none exists. A live session for the same
// exam is resumed untouched; a live session for a different exam is
// replaced with a fresh deadline computed from durationMinutes.
func (m *ExamSessionManager) BeginOrResume(ctx context.Context, userID int, examID uuid.UUID, durationMinutes int) (int, error) {
	existing, err := m.store.Get(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load session: %w", err)
	}

	if existing != nil && existing.ExamID == examID {
		return m.remaining(existing), nil
	}

	now := m.now()
	fresh := &model.AttemptSession{
		UserID:    userID,
		ExamID:    examID,
		StartedAt: now,
		EndsAt:    now.Add(time.Duration(durationMinutes) * time.Minute),
	}

	if existing == nil {
		stored, err := m.store.PutIfAbsent(ctx, fresh)
		if err != nil {
			return 0, fmt.Errorf("create session: %w", err)
		}
		// A concurrent begin for the same exam may have won; its deadline
		// is the authoritative one either way.
		if stored.ExamID == examID {
			return m.remaining(stored), nil
		}
		return m.remaining(fresh), m.store.Replace(ctx, fresh)
	}

	// The user abandoned a different exam mid-timer; it must not bleed
	// its deadline into this one.
	if err := m.store.Replace(ctx, fresh); err != nil {
		return 0, fmt.Errorf("replace session: %w", err)
	}
	return m.remaining(fresh), nil
}

// Remaining returns the seconds left for the user's live session of examID.
// The second return is false when no such session exists.
func (m *ExamSessionManager) Remaining(ctx context.Context, userID int, examID uuid.UUID) (int, bool, error) {
	sess, err := m.store.Get(ctx, userID)
	if err != nil {
		return 0, false, fmt.Errorf("load session: %w", err)
	}
	if sess == nil || sess.ExamID != examID {
		return 0, false, nil
	}
	return m.remaining(sess), true, nil
}

// IsExpired reports whether the user's live session for examID has run out.
// A missing session is not expired; it simply does not exist yet.
func (m *ExamSessionManager) IsExpired(ctx context.Context, userID int, examID uuid.UUID) (bool, error) {
	remaining, ok, err := m.Remaining(ctx, userID, examID)
	if err != nil {
		return false, err
	}
	return ok && remaining <= 0, nil
}

// Clear removes the user's session if it belongs to examID. Idempotent:
// clearing a missing session, or one owned by another exam, is a no-op.
// A stale forced submission for exam A must not kill a live timer for B.
func (m *ExamSessionManager) Clear(ctx context.Context, userID int, examID uuid.UUID) error {
	sess, err := m.store.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess == nil || sess.ExamID != examID {
		return nil
	}
	return m.store.Delete(ctx, userID)
}

// ClearActive removes whatever session the user holds. Used by the quit
// endpoint, which is not exam-scoped. Idempotent.
func (m *ExamSessionManager) ClearActive(ctx context.Context, userID int) error {
	return m.store.Delete(ctx, userID)
}

// ActiveExam returns the exam the user currently has a live session for,
// or uuid.Nil when there is none.
func (m *ExamSessionManager) ActiveExam(ctx context.Context, userID int) (uuid.UUID, error) {
	sess, err := m.store.Get(ctx, userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return uuid.Nil, nil
	}
	return sess.ExamID, nil
}

func (m *ExamSessionManager) remaining(sess *model.AttemptSession) int {
	left := sess.EndsAt.Sub(m.now()) / time.Second
	if left < 0 {
		return 0
	}
	return int(left)
}
