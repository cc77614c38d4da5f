package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/parikshahq/pariksha-backend/internal/middleware"
	"github.com/parikshahq/pariksha-backend/internal/model"
	"github.com/parikshahq/pariksha-backend/internal/repository"
	"github.com/parikshahq/pariksha-backend/internal/response"
	"github.com/parikshahq/pariksha-backend/internal/service"
	"github.com/parikshahq/pariksha-backend/internal/validator"
)

// StudentPortalHandler drives the student-facing attempt lifecycle: exam
// discovery, start/resume, autosave, submission and history.
type StudentPortalHandler struct {
	examService    *service.ExamService
	questionRepo   *repository.QuestionRepository
	guard          *service.AttemptGuard
	sessions       *service.ExamSessionManager
	scoringService *service.ScoringService
	answerCache    service.AnswerCache
	resultService  *service.ResultService
}

// NewStudentPortalHandler creates a new StudentPortalHandler.
func NewStudentPortalHandler(
	examService *service.ExamService,
	questionRepo *repository.QuestionRepository,
	guard *service.AttemptGuard,
	sessions *service.ExamSessionManager,
	scoringService *service.ScoringService,
	answerCache service.AnswerCache,
	resultService *service.ResultService,
) *StudentPortalHandler {
	return &StudentPortalHandler{
		examService:    examService,
		questionRepo:   questionRepo,
		guard:          guard,
		sessions:       sessions,
		scoringService: scoringService,
		answerCache:    answerCache,
		resultService:  resultService,
	}
}

// ListExams godoc
// GET /student/exams
// Lists published exams together with the caller's active exam, if any.
func (h *StudentPortalHandler) ListExams(c *gin.Context) {
	claims := middleware.GetClaims(c)

	exams, err := h.examService.ListPublished(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	activeExamID := ""
	if active, err := h.sessions.ActiveExam(c.Request.Context(), claims.UserID); err == nil && active != uuid.Nil {
		activeExamID = active.String()
	}

	response.Success(c, http.StatusOK, gin.H{
		"exams":          exams,
		"active_exam_id": activeExamID,
	})
}

// StartExam godoc
// GET /student/exam/:exam_id/start
// Pre-attempt screen: exam metadata and question count. Denied with 409
// once a result exists, so the client can redirect to history.
func (h *StudentPortalHandler) StartExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseExamID(c)
	if !ok {
		return
	}

	allowed, err := h.guard.CanAttempt(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !allowed {
		response.Fail(c, http.StatusConflict, response.ErrAlreadyAttempted)
		return
	}

	overview, err := h.examService.Overview(c.Request.Context(), examID)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if overview.Exam.Status != model.ExamStatusPublished {
		response.Fail(c, http.StatusForbidden, response.ErrExamNotPublished)
		return
	}

	response.Success(c, http.StatusOK, overview)
}

// AttemptExam godoc
// GET /student/exam/:exam_id/attempt
// Starts or resumes the attempt: returns the questions (without correct
// options) and the authoritative remaining seconds. When the deadline has
// already passed, the attempt is force-submitted with the last autosaved
// answers and the result is returned instead.
func (h *StudentPortalHandler) AttemptExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseExamID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	allowed, err := h.guard.CanAttempt(ctx, claims.UserID, examID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !allowed {
		response.Fail(c, http.StatusConflict, response.ErrAlreadyAttempted)
		return
	}

	exam, err := h.examService.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if exam.Status != model.ExamStatusPublished {
		response.Fail(c, http.StatusForbidden, response.ErrExamNotPublished)
		return
	}

	remaining, err := h.sessions.BeginOrResume(ctx, claims.UserID, examID, exam.DurationMinutes)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if remaining <= 0 {
		h.finalizeExpired(c, claims.UserID, examID)
		return
	}

	questions, err := h.questionRepo.ListByExam(ctx, examID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	studentQuestions := make([]model.StudentQuestion, 0, len(questions))
	for _, q := range questions {
		studentQuestions = append(studentQuestions, q.ForStudent())
	}

	response.Success(c, http.StatusOK, model.AttemptPaper{
		Exam:             *exam,
		Questions:        studentQuestions,
		RemainingSeconds: remaining,
	})
}

// SaveAnswers godoc
// PUT /student/exam/:exam_id/answers
// Autosaves partial answers for use by forced submission. Rejected once
// the attempt deadline has passed.
func (h *StudentPortalHandler) SaveAnswers(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseExamID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req model.SaveAnswersRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	expired, err := h.sessions.IsExpired(ctx, claims.UserID, examID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if expired {
		h.finalizeExpired(c, claims.UserID, examID)
		return
	}

	if err := h.answerCache.Save(ctx, claims.UserID, examID, req.Answers); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"saved": len(req.Answers)})
}

// SubmitExam godoc
// POST /student/exam/:exam_id/submit
// Finalizes the attempt with the submitted answers.
func (h *StudentPortalHandler) SubmitExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := parseExamID(c)
	if !ok {
		return
	}

	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.scoringService.Submit(c.Request.Context(), claims.UserID, examID, req.Answers)
	if err != nil {
		failScoring(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// QuitExam godoc
// GET /student/exam/quit
// Abandons the live attempt without scoring. The attempt stays available
// until a result exists.
func (h *StudentPortalHandler) QuitExam(c *gin.Context) {
	claims := middleware.GetClaims(c)

	if err := h.sessions.ClearActive(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// History godoc
// GET /student/results
// Returns the caller's finished attempts.
func (h *StudentPortalHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)

	history, err := h.resultService.History(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": history})
}

// finalizeExpired force-submits an attempt whose deadline passed, using
// whatever answers were autosaved.
func (h *StudentPortalHandler) finalizeExpired(c *gin.Context, userID int, examID uuid.UUID) {
	result, err := h.scoringService.ForceSubmit(c.Request.Context(), userID, examID)
	if err != nil {
		failScoring(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"result":  result,
		"expired": true,
	})
}

func failScoring(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAlreadyAttempted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyAttempted)
	case errors.Is(err, service.ErrExamNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrPersistence)
	}
}

func parseExamID(c *gin.Context) (uuid.UUID, bool) {
	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return examID, true
}
