package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parikshahq/pariksha-backend/internal/model"
)

// SubjectRepository handles subject data access.
type SubjectRepository struct {
	pool *pgxpool.Pool
}

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

// Create inserts a new subject.
func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO subjects (course_id, name, code, year, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		s.CourseID, s.Name, s.Code, s.Year, s.CreatedBy,
	).Scan(&s.ID, &s.CreatedAt)
}

// List retrieves subjects joined with their course name. Pass courseID=0
// and year=0 to list everything; either filter may be set independently.
func (r *SubjectRepository) List(ctx context.Context, courseID, year int) ([]model.Subject, error) {
	query := `SELECT s.id, s.course_id, c.name, s.name, s.code, s.year, s.created_by, s.created_at
	          FROM subjects s JOIN courses c ON s.course_id = c.id`
	var args []any
	switch {
	case courseID > 0 && year > 0:
		query += ` WHERE s.course_id = $1 AND s.year = $2`
		args = append(args, courseID, year)
	case courseID > 0:
		query += ` WHERE s.course_id = $1`
		args = append(args, courseID)
	case year > 0:
		query += ` WHERE s.year = $1`
		args = append(args, year)
	}
	query += ` ORDER BY s.name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.CourseID, &s.CourseName, &s.Name, &s.Code, &s.Year, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// Update edits a subject's name, code, and owning course.
func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE subjects SET name = $1, code = $2, course_id = $3, year = $4 WHERE id = $5`,
		s.Name, s.Code, s.CourseID, s.Year, s.ID)
	return err
}

// Delete removes a subject. Fails with a foreign-key violation while
// exams still reference it.
func (r *SubjectRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	return err
}
