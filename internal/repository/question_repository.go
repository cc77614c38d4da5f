package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parikshahq/pariksha-backend/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByExam retrieves all questions for a given exam.
func (r *QuestionRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, text, option_a, option_b, option_c, option_d, correct_option
		 FROM questions WHERE exam_id = $1
		 ORDER BY created_at, id`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.ExamID, &q.Text, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.CorrectOption); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// AnswerKey retrieves only the correct option per question for an exam.
func (r *QuestionRepository) AnswerKey(ctx context.Context, examID uuid.UUID) (map[uuid.UUID]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, correct_option FROM questions WHERE exam_id = $1`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	key := make(map[uuid.UUID]string)
	for rows.Next() {
		var id uuid.UUID
		var correct string
		if err := rows.Scan(&id, &correct); err != nil {
			return nil, err
		}
		key[id] = correct
	}
	return key, rows.Err()
}

// CountByExam returns the number of questions in an exam.
func (r *QuestionRepository) CountByExam(ctx context.Context, examID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE exam_id = $1`, examID).Scan(&count)
	return count, err
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (exam_id, text, option_a, option_b, option_c, option_d, correct_option)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		q.ExamID, q.Text, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption,
	).Scan(&q.ID)
}

// BulkInsert loads a batch of questions via the COPY protocol.
// Used by the CSV importer.
func (r *QuestionRepository) BulkInsert(ctx context.Context, examID uuid.UUID, questions []model.Question) (int64, error) {
	rows := make([][]any, len(questions))
	for i, q := range questions {
		rows[i] = []any{examID, q.Text, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption}
	}

	return r.pool.CopyFrom(ctx,
		pgx.Identifier{"questions"},
		[]string{"exam_id", "text", "option_a", "option_b", "option_c", "option_d", "correct_option"},
		pgx.CopyFromRows(rows),
	)
}

// Update edits a question.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET text = $1, option_a = $2, option_b = $3, option_c = $4, option_d = $5, correct_option = $6
		 WHERE id = $7`,
		q.Text, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption, q.ID)
	return err
}

// Delete removes a single question.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return err
}

// DeleteAllByExam clears an exam's question bank.
func (r *QuestionRepository) DeleteAllByExam(ctx context.Context, examID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE exam_id = $1`, examID)
	return err
}
