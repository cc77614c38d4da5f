package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptSession is the ephemeral timer state for a user's live attempt.
// At most one live session exists per user; the deadline is an absolute
// timestamp fixed at creation, so remaining time is computed, never ticked.
type AttemptSession struct {
	UserID    int       `json:"user_id"`
	ExamID    uuid.UUID `json:"exam_id"`
	StartedAt time.Time `json:"started_at"`
	EndsAt    time.Time `json:"ends_at"`
}

// SaveAnswersRequest is the payload for autosaving partial answers.
type SaveAnswersRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}
