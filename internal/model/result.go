package model

import (
	"time"

	"github.com/google/uuid"
)

// ResultStatus is the pass/fail verdict of a finalized attempt.
type ResultStatus string

const (
	ResultStatusPassed ResultStatus = "PASSED"
	ResultStatusFailed ResultStatus = "FAILED"
)

// Result is the durable record of one finished exam attempt.
// At most one row exists per (user, exam) pair; the row's existence is
// what makes an attempt "used up".
type Result struct {
	ID             uuid.UUID    `json:"id"`
	UserID         int          `json:"user_id"`
	ExamID         uuid.UUID    `json:"exam_id"`
	Score          int          `json:"score"`
	TotalQuestions int          `json:"total_questions"`
	Status         ResultStatus `json:"status"`
	SubmittedAt    time.Time    `json:"submitted_at"`
}

// ResultRow is a result joined with user and exam context for admin listings.
type ResultRow struct {
	Result
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	RollNo    string `json:"roll_no"`
	ClassName string `json:"class_name"`
	ExamName  string `json:"exam_name"`
}

// HistoryEntry is a result joined with the exam name for a student's own view.
type HistoryEntry struct {
	Result
	ExamName string `json:"exam_name"`
}

// SubmitRequest is the payload for submitting an attempt: a mapping from
// question ID to the chosen option label. Unknown question IDs are ignored.
type SubmitRequest struct {
	Answers map[string]string `json:"answers"`
}
