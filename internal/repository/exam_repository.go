package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parikshahq/pariksha-backend/internal/model"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// GetByID retrieves an exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	e := &model.Exam{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, subject_id, name, duration_minutes, total_marks, pass_mark, status, created_at, updated_at
		 FROM exams WHERE id = $1`, id,
	).Scan(&e.ID, &e.SubjectID, &e.Name, &e.DurationMinutes,
		&e.TotalMarks, &e.PassMark, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List retrieves all exams joined with subject and course names.
func (r *ExamRepository) List(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.subject_id, s.name, c.name, e.name,
		        e.duration_minutes, e.total_marks, e.pass_mark, e.status, e.created_at, e.updated_at
		 FROM exams e
		 JOIN subjects s ON e.subject_id = s.id
		 JOIN courses c ON s.course_id = c.id
		 ORDER BY e.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.SubjectID, &e.SubjectName, &e.CourseName, &e.Name,
			&e.DurationMinutes, &e.TotalMarks, &e.PassMark, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// ListPublished retrieves all published exams with subject names,
// for the student dashboard.
func (r *ExamRepository) ListPublished(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.subject_id, s.name, e.name,
		        e.duration_minutes, e.total_marks, e.pass_mark, e.status, e.created_at, e.updated_at
		 FROM exams e
		 JOIN subjects s ON e.subject_id = s.id
		 WHERE e.status = $1
		 ORDER BY e.created_at DESC`, model.ExamStatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.SubjectID, &e.SubjectName, &e.Name,
			&e.DurationMinutes, &e.TotalMarks, &e.PassMark, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// Create inserts a new exam in DRAFT status.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (subject_id, name, duration_minutes, total_marks, pass_mark, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		e.SubjectID, e.Name, e.DurationMinutes, e.TotalMarks, e.PassMark, e.Status,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// Update edits an exam's mutable fields.
func (r *ExamRepository) Update(ctx context.Context, e *model.Exam) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exams
		 SET name = $1, duration_minutes = $2, total_marks = $3, pass_mark = $4, updated_at = NOW()
		 WHERE id = $5`,
		e.Name, e.DurationMinutes, e.TotalMarks, e.PassMark, e.ID)
	return err
}

// UpdateStatus updates an exam's status.
func (r *ExamRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ExamStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exams SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	return err
}

// DeleteCascade removes an exam along with its monitoring logs, results,
// and questions in one transaction.
func (r *ExamRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		`DELETE FROM monitoring_logs WHERE exam_id = $1`,
		`DELETE FROM results WHERE exam_id = $1`,
		`DELETE FROM questions WHERE exam_id = $1`,
		`DELETE FROM exams WHERE id = $1`,
	} {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
