package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parikshahq/pariksha-backend/internal/model"
	"github.com/parikshahq/pariksha-backend/internal/repository"
	"github.com/rs/zerolog"
)

// ErrMalformedCSV wraps any structural problem in an uploaded question file.
var ErrMalformedCSV = errors.New("malformed csv")

// csvHeader is the required first row of a question import file.
var csvHeader = []string{"text", "a", "b", "c", "d", "correct"}

type QuestionService struct {
	questionRepo *repository.QuestionRepository
	examRepo     *repository.ExamRepository
	log          zerolog.Logger
}

func NewQuestionService(
	questionRepo *repository.QuestionRepository,
	examRepo *repository.ExamRepository,
	log zerolog.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		examRepo:     examRepo,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

func (s *QuestionService) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	if _, err := s.getEditableExam(ctx, examID, false); err != nil {
		return nil, err
	}
	return s.questionRepo.ListByExam(ctx, examID)
}

func (s *QuestionService) Add(ctx context.Context, examID uuid.UUID, req *model.AddQuestionRequest) (*model.Question, error) {
	if _, err := s.getEditableExam(ctx, examID, true); err != nil {
		return nil, err
	}
	q := &model.Question{
		ExamID:        examID,
		Text:          req.Text,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: req.CorrectOption,
	}
	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) Update(ctx context.Context, examID, questionID uuid.UUID, req *model.UpdateQuestionRequest) error {
	if _, err := s.getEditableExam(ctx, examID, true); err != nil {
		return err
	}
	q := &model.Question{
		ID:            questionID,
		ExamID:        examID,
		Text:          req.Text,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: req.CorrectOption,
	}
	return s.questionRepo.Update(ctx, q)
}

func (s *QuestionService) Delete(ctx context.Context, examID, questionID uuid.UUID) error {
	if _, err := s.getEditableExam(ctx, examID, true); err != nil {
		return err
	}
	return s.questionRepo.Delete(ctx, questionID)
}

// DeleteAll clears an exam's entire question bank, typically before a
// fresh CSV import.
func (s *QuestionService) DeleteAll(ctx context.Context, examID uuid.UUID) error {
	if _, err := s.getEditableExam(ctx, examID, true); err != nil {
		return err
	}
	if err := s.questionRepo.DeleteAllByExam(ctx, examID); err != nil {
		return err
	}
	s.log.Info().Str("exam_id", examID.String()).Msg("question bank cleared")
	return nil
}

// ImportCSV bulk-loads questions from a csv stream with the header
// text,a,b,c,d,correct.
func (s *QuestionService) ImportCSV(ctx context.Context, examID uuid.UUID, r io.Reader) (int64, error) {
	if _, err := s.getEditableExam(ctx, examID, true); err != nil {
		return 0, err
	}

	questions, err := parseQuestionsCSV(examID, r)
	if err != nil {
		return 0, err
	}

	inserted, err := s.questionRepo.BulkInsert(ctx, examID, questions)
	if err != nil {
		return 0, err
	}
	s.log.Info().
		Str("exam_id", examID.String()).
		Int64("count", inserted).
		Msg("questions imported")
	return inserted, nil
}

// getEditableExam loads an exam and, when mutating is true, rejects
// edits to published exams.
func (s *QuestionService) getEditableExam(ctx context.Context, examID uuid.UUID, mutating bool) (*model.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	if mutating && exam.Status == model.ExamStatusPublished {
		return nil, ErrExamPublished
	}
	return exam, nil
}

// parseQuestionsCSV reads and validates the whole file before anything is
// written, so a bad row rejects the upload entirely.
func parseQuestionsCSV(examID uuid.UUID, r io.Reader) ([]model.Question, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformedCSV)
	}
	if err := checkCSVHeader(header); err != nil {
		return nil, err
	}

	var questions []model.Question
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
		}
		q, err := questionFromRecord(examID, record, line)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrMalformedCSV)
	}
	return questions, nil
}

func checkCSVHeader(header []string) error {
	if len(header) != len(csvHeader) {
		return fmt.Errorf("%w: expected header %s", ErrMalformedCSV, strings.Join(csvHeader, ","))
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(col), csvHeader[i]) {
			return fmt.Errorf("%w: expected header %s", ErrMalformedCSV, strings.Join(csvHeader, ","))
		}
	}
	return nil
}

func questionFromRecord(examID uuid.UUID, record []string, line int) (model.Question, error) {
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	for i, field := range record {
		if field == "" {
			return model.Question{}, fmt.Errorf("%w: line %d: empty %s column", ErrMalformedCSV, line, csvHeader[i])
		}
	}
	correct := strings.ToUpper(record[5])
	switch correct {
	case "A", "B", "C", "D":
	default:
		return model.Question{}, fmt.Errorf("%w: line %d: correct option must be A, B, C or D", ErrMalformedCSV, line)
	}
	return model.Question{
		ExamID:        examID,
		Text:          record[0],
		OptionA:       record[1],
		OptionB:       record[2],
		OptionC:       record[3],
		OptionD:       record[4],
		CorrectOption: correct,
	}, nil
}
