package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/parikshahq/pariksha-backend/internal/model"
)

func TestGuardAllowsFirstAttempt(t *testing.T) {
	guard := NewAttemptGuard(newFakeResultStore())

	ok, err := guard.CanAttempt(context.Background(), 1, uuid.New())
	if err != nil {
		t.Fatalf("can attempt: %v", err)
	}
	if !ok {
		t.Fatal("first attempt denied")
	}
}

func TestGuardDeniesOnceResultExists(t *testing.T) {
	ctx := context.Background()
	store := newFakeResultStore()
	guard := NewAttemptGuard(store)
	examID := uuid.New()

	if err := store.Create(ctx, &model.Result{
		UserID: 1,
		ExamID: examID,
		Status: model.ResultStatusFailed,
	}); err != nil {
		t.Fatalf("seed result: %v", err)
	}

	ok, err := guard.CanAttempt(ctx, 1, examID)
	if err != nil {
		t.Fatalf("can attempt: %v", err)
	}
	if ok {
		t.Fatal("attempt allowed despite existing result")
	}

	// Other users and other exams stay unaffected.
	if ok, _ := guard.CanAttempt(ctx, 2, examID); !ok {
		t.Fatal("other user's attempt denied")
	}
	if ok, _ := guard.CanAttempt(ctx, 1, uuid.New()); !ok {
		t.Fatal("other exam's attempt denied")
	}
}

func TestGuardFailsClosedOnStoreError(t *testing.T) {
	store := newFakeResultStore()
	store.failing = true
	guard := NewAttemptGuard(store)

	ok, err := guard.CanAttempt(context.Background(), 1, uuid.New())
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
	if ok {
		t.Fatal("guard failed open")
	}
}
