package model

import "time"

// Subject represents an academic subject within a course year.
type Subject struct {
	ID         int       `json:"id"`
	CourseID   int       `json:"course_id"`
	CourseName string    `json:"course_name,omitempty"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	Year       int       `json:"year"`
	CreatedBy  int       `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	CourseID int    `json:"course_id" binding:"required"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Code     string `json:"code" binding:"required,min=2,max=20"`
	Year     int    `json:"year" binding:"required,min=1,max=6"`
}

// UpdateSubjectRequest is the payload for updating a subject.
type UpdateSubjectRequest struct {
	CourseID int    `json:"course_id" binding:"required"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Code     string `json:"code" binding:"required,min=2,max=20"`
	Year     int    `json:"year" binding:"required,min=1,max=6"`
}
