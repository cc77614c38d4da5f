package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parikshahq/pariksha-backend/internal/model"
	"github.com/parikshahq/pariksha-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Scoring errors.
var (
	// ErrAlreadyAttempted is returned when the guard denies the attempt or
	// the conditional result insert lost a duplicate race.
	ErrAlreadyAttempted = errors.New("exam already attempted")
	// ErrExamNotFound is returned when the exam does not exist.
	ErrExamNotFound = errors.New("exam not found")
)

// ExamSource provides exam definitions. Satisfied by repository.ExamRepository.
type ExamSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
}

// AnswerKeySource provides the correct option per question for an exam.
// Satisfied by repository.QuestionRepository.
type AnswerKeySource interface {
	AnswerKey(ctx context.Context, examID uuid.UUID) (map[uuid.UUID]string, error)
}

// ScoringService turns a raw submission into exactly one durable result.
type ScoringService struct {
	guard     *AttemptGuard
	exams     ExamSource
	questions AnswerKeySource
	results   ResultStore
	sessions  *ExamSessionManager
	answers   AnswerCache
	log       zerolog.Logger
}

// NewScoringService creates a new ScoringService.
func NewScoringService(
	guard *AttemptGuard,
	exams ExamSource,
	questions AnswerKeySource,
	results ResultStore,
	sessions *ExamSessionManager,
	answers AnswerCache,
	log zerolog.Logger,
) *ScoringService {
	return &ScoringService{
		guard:     guard,
		exams:     exams,
		questions: questions,
		results:   results,
		sessions:  sessions,
		answers:   answers,
		log:       log.With().Str("component", "scoring_service").Logger(),
	}
}

// Submit scores the submitted answers against the authoritative key and
// commits exactly one result row. submitted maps question ID strings to
// option labels; unanswered and unknown question IDs count as incorrect,
// never as errors.
//
// On a persistence failure the attempt session is left intact so the
// student's timer keeps running and a retry stays possible. The session is
// cleared only after the result write succeeds.
func (s *ScoringService) Submit(ctx context.Context, userID int, examID uuid.UUID, submitted map[string]string) (*model.Result, error) {
	// Pre-check. This is an optimization for the common path; the unique
	// constraint behind ResultStore.Create is the actual race safeguard.
	ok, err := s.guard.CanAttempt(ctx, userID, examID)
	if err != nil {
		return nil, fmt.Errorf("attempt guard: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyAttempted
	}

	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("load exam: %w", err)
	}

	key, err := s.questions.AnswerKey(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("load answer key: %w", err)
	}

	score := 0
	for questionID, correct := range key {
		if chosen, answered := submitted[questionID.String()]; answered && chosen == correct {
			score++
		}
	}

	status := model.ResultStatusFailed
	if score >= exam.PassMark { // Equality passes.
		status = model.ResultStatusPassed
	}

	result := &model.Result{
		UserID:         userID,
		ExamID:         examID,
		Score:          score,
		TotalQuestions: len(key),
		Status:         status,
	}

	if err := s.results.Create(ctx, result); err != nil {
		if errors.Is(err, repository.ErrDuplicateResult) {
			// A concurrent submission won; this one changes nothing.
			return nil, ErrAlreadyAttempted
		}
		return nil, fmt.Errorf("persist result: %w", err)
	}

	// The result is durable; a fresh access must never resume this
	// attempt. Cleanup failures are logged, not surfaced: the timer
	// state is now irrelevant and the guard blocks re-entry regardless.
	if err := s.sessions.Clear(ctx, userID, examID); err != nil {
		s.log.Warn().Err(err).Int("user_id", userID).Str("exam_id", examID.String()).
			Msg("Failed to clear attempt session after submit")
	}
	if err := s.answers.Clear(ctx, userID, examID); err != nil {
		s.log.Warn().Err(err).Int("user_id", userID).Str("exam_id", examID.String()).
			Msg("Failed to clear autosaved answers after submit")
	}

	s.log.Info().
		Int("user_id", userID).
		Str("exam_id", examID.String()).
		Int("score", score).
		Int("total", len(key)).
		Str("status", string(status)).
		Msg("Attempt scored")

	return result, nil
}

// ForceSubmit finalizes an expired attempt using the last autosaved
// answers, or none when the client never transmitted any. Same contract
// as Submit.
func (s *ScoringService) ForceSubmit(ctx context.Context, userID int, examID uuid.UUID) (*model.Result, error) {
	autosaved, err := s.answers.Load(ctx, userID, examID)
	if err != nil {
		s.log.Warn().Err(err).Int("user_id", userID).Str("exam_id", examID.String()).
			Msg("Autosaved answers unavailable, forcing submission with none")
		autosaved = nil
	}
	return s.Submit(ctx, userID, examID, autosaved)
}
