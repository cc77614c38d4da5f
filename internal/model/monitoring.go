package model

import (
	"time"

	"github.com/google/uuid"
)

// MonitoringEvent is one proctoring event recorded during an attempt.
// Events are stored verbatim and independently of the attempt lifecycle.
type MonitoringEvent struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"user_id"`
	ExamID    uuid.UUID `json:"exam_id"`
	EventType string    `json:"event_type"`
	Details   string    `json:"details"`
	LoggedAt  time.Time `json:"logged_at"`
}

// LogEventRequest is the payload for the proctoring log endpoint.
type LogEventRequest struct {
	ExamID    uuid.UUID `json:"exam_id" binding:"required"`
	EventType string    `json:"event_type" binding:"required,min=1,max=100"`
	Details   string    `json:"details" binding:"max=2000"`
}
