package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/parikshahq/pariksha-backend/internal/model"
)

// ResultStore is the durable result store consulted by the guard and
// written by the scoring engine. Satisfied by repository.ResultRepository.
type ResultStore interface {
	Exists(ctx context.Context, userID int, examID uuid.UUID) (bool, error)
	Create(ctx context.Context, res *model.Result) error
}

// AttemptGuard enforces the one-attempt-per-user-per-exam rule. The
// presence of a result row is the ground truth for "already attempted".
type AttemptGuard struct {
	results ResultStore
}

// NewAttemptGuard creates a new AttemptGuard.
func NewAttemptGuard(results ResultStore) *AttemptGuard {
	return &AttemptGuard{results: results}
}

// CanAttempt reports whether the user may still view or continue examID.
// Read-only. A store error is returned as-is and callers must deny the
// attempt; the guard fails closed, never open.
func (g *AttemptGuard) CanAttempt(ctx context.Context, userID int, examID uuid.UUID) (bool, error) {
	exists, err := g.results.Exists(ctx, userID, examID)
	if err != nil {
		return false, fmt.Errorf("check existing result: %w", err)
	}
	return !exists, nil
}
