package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestSessionManager(t *testing.T) (*ExamSessionManager, *time.Time) {
	t.Helper()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	m := NewExamSessionManager(NewMemoryAttemptStore())
	m.now = func() time.Time { return now }
	return m, &now
}

func TestBeginOrResumeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m, now := newTestSessionManager(t)
	examID := uuid.New()

	first, err := m.BeginOrResume(ctx, 1, examID, 30)
	if err != nil {
		t.Fatalf("first begin: %v", err)
	}
	if first != 30*60 {
		t.Fatalf("expected %d remaining seconds, got %d", 30*60, first)
	}

	// Ten minutes pass; a reload must see the original deadline, not a
	// fresh one.
	*now = now.Add(10 * time.Minute)
	second, err := m.BeginOrResume(ctx, 1, examID, 30)
	if err != nil {
		t.Fatalf("second begin: %v", err)
	}
	if second != 20*60 {
		t.Fatalf("expected %d remaining seconds after resume, got %d", 20*60, second)
	}
}

func TestBeginOrResumeSwitchingExamsGetsFreshDeadline(t *testing.T) {
	ctx := context.Background()
	m, now := newTestSessionManager(t)
	examA, examB := uuid.New(), uuid.New()

	if _, err := m.BeginOrResume(ctx, 1, examA, 10); err != nil {
		t.Fatalf("begin exam A: %v", err)
	}

	*now = now.Add(8 * time.Minute)
	remaining, err := m.BeginOrResume(ctx, 1, examB, 45)
	if err != nil {
		t.Fatalf("begin exam B: %v", err)
	}
	if remaining != 45*60 {
		t.Fatalf("exam B inherited exam A's clock: got %d, want %d", remaining, 45*60)
	}

	// Exam A's session is gone; only B is live.
	active, err := m.ActiveExam(ctx, 1)
	if err != nil {
		t.Fatalf("active exam: %v", err)
	}
	if active != examB {
		t.Fatalf("expected active exam %s, got %s", examB, active)
	}
}

func TestBeginOrResumePerUserIsolation(t *testing.T) {
	ctx := context.Background()
	m, now := newTestSessionManager(t)
	examID := uuid.New()

	if _, err := m.BeginOrResume(ctx, 1, examID, 30); err != nil {
		t.Fatalf("user 1 begin: %v", err)
	}

	*now = now.Add(15 * time.Minute)
	remaining, err := m.BeginOrResume(ctx, 2, examID, 30)
	if err != nil {
		t.Fatalf("user 2 begin: %v", err)
	}
	if remaining != 30*60 {
		t.Fatalf("user 2 inherited user 1's clock: got %d", remaining)
	}
}

func TestConcurrentBeginAgreesOnOneDeadline(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestSessionManager(t)
	examID := uuid.New()

	const n = 16
	results := make([]int, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			remaining, err := m.BeginOrResume(ctx, 7, examID, 30)
			if err != nil {
				t.Errorf("begin %d: %v", i, err)
				return
			}
			results[i] = remaining
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatalf("concurrent begins disagree: %d vs %d", results[i], results[0])
		}
	}
}

func TestExpiryAndRemainingFloor(t *testing.T) {
	ctx := context.Background()
	m, now := newTestSessionManager(t)
	examID := uuid.New()

	if _, err := m.BeginOrResume(ctx, 1, examID, 10); err != nil {
		t.Fatalf("begin: %v", err)
	}

	*now = now.Add(10*time.Minute + time.Second)

	expired, err := m.IsExpired(ctx, 1, examID)
	if err != nil {
		t.Fatalf("is expired: %v", err)
	}
	if !expired {
		t.Fatal("session past its deadline not reported expired")
	}

	remaining, ok, err := m.Remaining(ctx, 1, examID)
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if !ok || remaining != 0 {
		t.Fatalf("expected remaining 0 for expired session, got %d (ok=%v)", remaining, ok)
	}

	// A missing session is not expired.
	expired, err = m.IsExpired(ctx, 99, examID)
	if err != nil {
		t.Fatalf("is expired (missing): %v", err)
	}
	if expired {
		t.Fatal("missing session reported expired")
	}
}

func TestClearIsExamScopedAndIdempotent(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestSessionManager(t)
	examA, examB := uuid.New(), uuid.New()

	if _, err := m.BeginOrResume(ctx, 1, examB, 30); err != nil {
		t.Fatalf("begin: %v", err)
	}

	// A stale clear for exam A must not kill exam B's live timer.
	if err := m.Clear(ctx, 1, examA); err != nil {
		t.Fatalf("clear stale exam: %v", err)
	}
	if _, ok, _ := m.Remaining(ctx, 1, examB); !ok {
		t.Fatal("clear for another exam removed the live session")
	}

	if err := m.Clear(ctx, 1, examB); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := m.Remaining(ctx, 1, examB); ok {
		t.Fatal("session survived clear")
	}

	// Clearing again is a no-op.
	if err := m.Clear(ctx, 1, examB); err != nil {
		t.Fatalf("repeat clear: %v", err)
	}
}

func TestClearActiveRemovesWhateverIsLive(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestSessionManager(t)

	if _, err := m.BeginOrResume(ctx, 1, uuid.New(), 30); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := m.ClearActive(ctx, 1); err != nil {
		t.Fatalf("clear active: %v", err)
	}

	active, err := m.ActiveExam(ctx, 1)
	if err != nil {
		t.Fatalf("active exam: %v", err)
	}
	if active != uuid.Nil {
		t.Fatalf("expected no active exam, got %s", active)
	}

	// No session at all is fine too.
	if err := m.ClearActive(ctx, 2); err != nil {
		t.Fatalf("clear active without session: %v", err)
	}
}
