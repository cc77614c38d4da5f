package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parikshahq/pariksha-backend/internal/model"
)

// ErrDuplicateResult is returned when a result row already exists for the
// (user, exam) pair. The unique constraint on that pair, not the guard's
// pre-check, is what makes scoring exactly-once under concurrent submits.
var ErrDuplicateResult = errors.New("result already exists for this user and exam")

// ResultRepository handles the durable, append-only result store.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Exists reports whether a result row exists for the (user, exam) pair.
func (r *ResultRepository) Exists(ctx context.Context, userID int, examID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM results WHERE user_id = $1 AND exam_id = $2)`,
		userID, examID,
	).Scan(&exists)
	return exists, err
}

// Create inserts a result row, conditionally: the insert is a no-op when a
// row for the (user, exam) pair already exists, in which case
// ErrDuplicateResult is returned.
func (r *ResultRepository) Create(ctx context.Context, res *model.Result) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO results (user_id, exam_id, score, total_questions, status)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, exam_id) DO NOTHING
		 RETURNING id, submitted_at`,
		res.UserID, res.ExamID, res.Score, res.TotalQuestions, res.Status,
	).Scan(&res.ID, &res.SubmittedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicateResult
	}
	return err
}

// ListAll retrieves all results joined with user and exam context,
// newest first. Admin view.
func (r *ResultRepository) ListAll(ctx context.Context) ([]model.ResultRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.user_id, r.exam_id, r.score, r.total_questions, r.status, r.submitted_at,
		        u.first_name, u.last_name, u.roll_no, u.class_name, e.name
		 FROM results r
		 JOIN users u ON r.user_id = u.id
		 JOIN exams e ON r.exam_id = e.id
		 ORDER BY r.submitted_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.ResultRow
	for rows.Next() {
		var row model.ResultRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.ExamID, &row.Score, &row.TotalQuestions, &row.Status, &row.SubmittedAt,
			&row.FirstName, &row.LastName, &row.RollNo, &row.ClassName, &row.ExamName); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ListByUser retrieves one student's results with exam names, newest first.
func (r *ResultRepository) ListByUser(ctx context.Context, userID int) ([]model.HistoryEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.user_id, r.exam_id, r.score, r.total_questions, r.status, r.submitted_at, e.name
		 FROM results r
		 JOIN exams e ON r.exam_id = e.id
		 WHERE r.user_id = $1
		 ORDER BY r.submitted_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ExamID, &e.Score, &e.TotalQuestions, &e.Status, &e.SubmittedAt, &e.ExamName); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
