package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamStatus enumerates the possible states of an exam.
type ExamStatus string

const (
	ExamStatusDraft     ExamStatus = "DRAFT"
	ExamStatusPublished ExamStatus = "PUBLISHED"
)

// Exam represents an exam entity.
type Exam struct {
	ID              uuid.UUID  `json:"id"`
	SubjectID       int        `json:"subject_id"`
	SubjectName     string     `json:"subject_name,omitempty"`
	CourseName      string     `json:"course_name,omitempty"`
	Name            string     `json:"name"`
	DurationMinutes int        `json:"duration_minutes"`
	TotalMarks      int        `json:"total_marks"`
	PassMark        int        `json:"pass_mark"`
	Status          ExamStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CreateExamRequest is the payload for creating a new exam.
type CreateExamRequest struct {
	SubjectID       int    `json:"subject_id" binding:"required"`
	Name            string `json:"name" binding:"required,min=3,max=255"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=480"`
	TotalMarks      int    `json:"total_marks" binding:"required,min=1"`
	PassMark        int    `json:"pass_mark" binding:"required,min=0"`
}

// UpdateExamRequest is the payload for updating an existing exam.
type UpdateExamRequest struct {
	Name            string `json:"name" binding:"omitempty,min=3,max=255"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	TotalMarks      int    `json:"total_marks" binding:"omitempty,min=1"`
	PassMark        int    `json:"pass_mark" binding:"omitempty,min=0"`
}

// ExamOverview is what a student sees before starting an attempt.
type ExamOverview struct {
	Exam          Exam `json:"exam"`
	QuestionCount int  `json:"question_count"`
}

// AttemptPaper is the exam content handed to a student mid-attempt:
// questions without correct options, plus the authoritative countdown.
type AttemptPaper struct {
	Exam             Exam              `json:"exam"`
	Questions        []StudentQuestion `json:"questions"`
	RemainingSeconds int               `json:"remaining_seconds"`
}
