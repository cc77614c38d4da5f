package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parikshahq/pariksha-backend/internal/model"
	"github.com/parikshahq/pariksha-backend/internal/repository"
	"github.com/rs/zerolog"
)

var (
	// ErrNoQuestions blocks publishing an exam that has no questions.
	ErrNoQuestions = errors.New("exam has no questions")
	// ErrExamPublished blocks destructive edits on a published exam.
	ErrExamPublished = errors.New("exam is already published")
)

type ExamService struct {
	examRepo     *repository.ExamRepository
	questionRepo *repository.QuestionRepository
	log          zerolog.Logger
}

func NewExamService(
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		log:          log.With().Str("component", "exam_service").Logger(),
	}
}

func (s *ExamService) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) List(ctx context.Context) ([]model.Exam, error) {
	return s.examRepo.List(ctx)
}

// ListPublished returns the exams students are allowed to see.
func (s *ExamService) ListPublished(ctx context.Context) ([]model.Exam, error) {
	return s.examRepo.ListPublished(ctx)
}

// Overview pairs a published exam with its question count for the
// pre-attempt screen.
func (s *ExamService) Overview(ctx context.Context, id uuid.UUID) (*model.ExamOverview, error) {
	exam, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.questionRepo.CountByExam(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.ExamOverview{Exam: *exam, QuestionCount: count}, nil
}

func (s *ExamService) Create(ctx context.Context, e *model.Exam) error {
	e.Status = model.ExamStatusDraft
	return s.examRepo.Create(ctx, e)
}

func (s *ExamService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateExamRequest) (*model.Exam, error) {
	exam, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		exam.Name = req.Name
	}
	if req.DurationMinutes != 0 {
		exam.DurationMinutes = req.DurationMinutes
	}
	if req.TotalMarks != 0 {
		exam.TotalMarks = req.TotalMarks
	}
	if req.PassMark != 0 {
		exam.PassMark = req.PassMark
	}
	if err := s.examRepo.Update(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

// Publish transitions an exam from DRAFT to PUBLISHED. Exams without
// questions cannot be published.
func (s *ExamService) Publish(ctx context.Context, id uuid.UUID) error {
	exam, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exam.Status == model.ExamStatusPublished {
		return ErrExamPublished
	}
	count, err := s.questionRepo.CountByExam(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNoQuestions
	}
	if err := s.examRepo.UpdateStatus(ctx, id, model.ExamStatusPublished); err != nil {
		return err
	}
	s.log.Info().Str("exam_id", id.String()).Msg("exam published")
	return nil
}

// Delete removes an exam together with its questions, results and
// monitoring logs.
func (s *ExamService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.examRepo.DeleteCascade(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("exam_id", id.String()).Msg("exam deleted")
	return nil
}
