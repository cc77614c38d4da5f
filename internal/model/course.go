package model

import "time"

// Course represents a program of study (BBA, MBA, ...).
type Course struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// UpdateCourseRequest is the payload for renaming a course.
type UpdateCourseRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}
