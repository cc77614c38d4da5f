package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parikshahq/pariksha-backend/internal/model"
	"github.com/parikshahq/pariksha-backend/internal/repository"
	"github.com/rs/zerolog"
)

// fakeResultStore mimics the results table: the map key doubles as the
// unique constraint on (user_id, exam_id).
type fakeResultStore struct {
	mu      sync.Mutex
	rows    map[string]*model.Result
	failing bool
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{rows: make(map[string]*model.Result)}
}

func resultKey(userID int, examID uuid.UUID) string {
	return fmt.Sprintf("%d/%s", userID, examID)
}

func (s *fakeResultStore) Exists(_ context.Context, userID int, examID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return false, errors.New("store down")
	}
	_, ok := s.rows[resultKey(userID, examID)]
	return ok, nil
}

func (s *fakeResultStore) Create(_ context.Context, res *model.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("store down")
	}
	key := resultKey(res.UserID, res.ExamID)
	if _, ok := s.rows[key]; ok {
		return repository.ErrDuplicateResult
	}
	res.ID = uuid.New()
	res.SubmittedAt = time.Now()
	s.rows[key] = res
	return nil
}

type fakeExamSource struct {
	exams map[uuid.UUID]*model.Exam
}

func (s *fakeExamSource) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	exam, ok := s.exams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return exam, nil
}

type fakeAnswerKeySource struct {
	keys map[uuid.UUID]map[uuid.UUID]string
}

func (s *fakeAnswerKeySource) AnswerKey(_ context.Context, examID uuid.UUID) (map[uuid.UUID]string, error) {
	return s.keys[examID], nil
}

type scoringFixture struct {
	scoring    *ScoringService
	sessions   *ExamSessionManager
	answers    AnswerCache
	results    *fakeResultStore
	examID     uuid.UUID
	q1, q2, q3 uuid.UUID
}

// newScoringFixture wires a three-question exam with pass mark 2 and key
// q1:A, q2:B, q3:C.
func newScoringFixture(t *testing.T) *scoringFixture {
	t.Helper()

	examID := uuid.New()
	q1, q2, q3 := uuid.New(), uuid.New(), uuid.New()

	exams := &fakeExamSource{exams: map[uuid.UUID]*model.Exam{
		examID: {
			ID:              examID,
			Name:            "Databases Midterm",
			DurationMinutes: 30,
			TotalMarks:      3,
			PassMark:        2,
			Status:          model.ExamStatusPublished,
		},
	}}
	keys := &fakeAnswerKeySource{keys: map[uuid.UUID]map[uuid.UUID]string{
		examID: {q1: "A", q2: "B", q3: "C"},
	}}

	results := newFakeResultStore()
	sessions := NewExamSessionManager(NewMemoryAttemptStore())
	answers := NewMemoryAnswerCache()

	scoring := NewScoringService(
		NewAttemptGuard(results), exams, keys, results, sessions, answers, zerolog.Nop())

	return &scoringFixture{
		scoring:  scoring,
		sessions: sessions,
		answers:  answers,
		results:  results,
		examID:   examID,
		q1:       q1,
		q2:       q2,
		q3:       q3,
	}
}

func TestSubmitScoresAndPassesOnEquality(t *testing.T) {
	ctx := context.Background()
	f := newScoringFixture(t)

	// Two correct, one wrong: score 2 equals the pass mark, which passes.
	result, err := f.scoring.Submit(ctx, 1, f.examID, map[string]string{
		f.q1.String(): "A",
		f.q2.String(): "B",
		f.q3.String(): "D",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 2 {
		t.Fatalf("expected score 2, got %d", result.Score)
	}
	if result.TotalQuestions != 3 {
		t.Fatalf("expected 3 total questions, got %d", result.TotalQuestions)
	}
	if result.Status != model.ResultStatusPassed {
		t.Fatalf("score equal to pass mark must pass, got %s", result.Status)
	}
}

func TestSubmitCountsMissingAnswersAsIncorrect(t *testing.T) {
	ctx := context.Background()
	f := newScoringFixture(t)

	result, err := f.scoring.Submit(ctx, 1, f.examID, map[string]string{
		f.q1.String(): "A",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 1 {
		t.Fatalf("expected score 1, got %d", result.Score)
	}
	if result.Status != model.ResultStatusFailed {
		t.Fatalf("expected FAILED, got %s", result.Status)
	}
}

func TestSubmitIgnoresUnknownQuestionIDs(t *testing.T) {
	ctx := context.Background()
	f := newScoringFixture(t)

	result, err := f.scoring.Submit(ctx, 1, f.examID, map[string]string{
		f.q1.String():       "A",
		uuid.New().String(): "A", // not part of the exam
		"not-a-uuid":        "B",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 1 {
		t.Fatalf("unknown IDs must not score: got %d, want 1", result.Score)
	}
}

func TestSubmitWithNoAnswersProducesZeroFailedResult(t *testing.T) {
	ctx := context.Background()
	f := newScoringFixture(t)

	result, err := f.scoring.Submit(ctx, 1, f.examID, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 0 || result.Status != model.ResultStatusFailed {
		t.Fatalf("expected 0/FAILED, got %d/%s", result.Score, result.Status)
	}
}

func TestSubmitUnknownExam(t *testing.T) {
	ctx := context.Background()
	f := newScoringFixture(t)

	if _, err := f.scoring.Submit(ctx, 1, uuid.New(), nil); !errors.Is(err, ErrExamNotFound) {
		t.Fatalf("expected ErrExamNotFound, got %v", err)
	}
}

func TestSubmitExactlyOnceUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	f := newScoringFixture(t)

	const n = 10
	var wg sync.WaitGroup
	wg.Add(n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.scoring.Submit(ctx, 1, f.examID, map[string]string{
				f.q1.String(): "A",
				f.q2.String(): "B",
			})
		}(i)
	}
	wg.Wait()

	succeeded, duplicates := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrAlreadyAttempted):
			duplicates++
		default:
			t.Fatalf("unexpected submit error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly 1 successful submit, got %d", succeeded)
	}
	if duplicates != n-1 {
		t.Fatalf("expected %d duplicate rejections, got %d", n-1, duplicates)
	}
	if len(f.results.rows) != 1 {
		t.Fatalf("expected 1 result row, got %d", len(f.results.rows))
	}
}

func TestSubmitClearsSessionOnlyAfterDurableWrite(t *testing.T) {
	ctx := context.Background()
	f := newScoringFixture(t)

	if _, err := f.sessions.BeginOrResume(ctx, 1, f.examID, 30); err != nil {
		t.Fatalf("begin: %v", err)
	}

	// The result store is down: the submit fails without producing a
	// duplicate error, and the session must survive so a retry stays
	// possible.
	f.results.failing = true
	if _, err := f.scoring.Submit(ctx, 1, f.examID, nil); err == nil {
		t.Fatal("expected persistence error")
	} else if errors.Is(err, ErrAlreadyAttempted) {
		t.Fatalf("persistence failure misreported as duplicate: %v", err)
	}

	if _, ok, _ := f.sessions.Remaining(ctx, 1, f.examID); !ok {
		t.Fatal("session cleared despite failed result write")
	}

	// Retry after the store recovers succeeds and clears the session.
	f.results.failing = false
	if _, err := f.scoring.Submit(ctx, 1, f.examID, nil); err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	if _, ok, _ := f.sessions.Remaining(ctx, 1, f.examID); ok {
		t.Fatal("session not cleared after successful submit")
	}
}

func TestForceSubmitUsesAutosavedAnswers(t *testing.T) {
	ctx := context.Background()
	f := newScoringFixture(t)

	if err := f.answers.Save(ctx, 1, f.examID, map[string]string{
		f.q1.String(): "A",
		f.q2.String(): "B",
	}); err != nil {
		t.Fatalf("autosave: %v", err)
	}

	result, err := f.scoring.ForceSubmit(ctx, 1, f.examID)
	if err != nil {
		t.Fatalf("force submit: %v", err)
	}
	if result.Score != 2 || result.Status != model.ResultStatusPassed {
		t.Fatalf("expected 2/PASSED from autosaved answers, got %d/%s", result.Score, result.Status)
	}

	// Once forced, the attempt is used up.
	if _, err := f.scoring.Submit(ctx, 1, f.examID, nil); !errors.Is(err, ErrAlreadyAttempted) {
		t.Fatalf("expected ErrAlreadyAttempted after forced submission, got %v", err)
	}
}

func TestForceSubmitWithoutAutosaveScoresZero(t *testing.T) {
	ctx := context.Background()
	f := newScoringFixture(t)

	result, err := f.scoring.ForceSubmit(ctx, 1, f.examID)
	if err != nil {
		t.Fatalf("force submit: %v", err)
	}
	if result.Score != 0 || result.Status != model.ResultStatusFailed {
		t.Fatalf("expected 0/FAILED, got %d/%s", result.Score, result.Status)
	}
}
