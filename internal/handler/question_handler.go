package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/parikshahq/pariksha-backend/internal/config"
	"github.com/parikshahq/pariksha-backend/internal/model"
	"github.com/parikshahq/pariksha-backend/internal/response"
	"github.com/parikshahq/pariksha-backend/internal/service"
	"github.com/parikshahq/pariksha-backend/internal/validator"
)

// QuestionHandler handles admin-facing question management, including CSV
// bulk import.
type QuestionHandler struct {
	questionService *service.QuestionService
	cfg             *config.Config
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService, cfg *config.Config) *QuestionHandler {
	return &QuestionHandler{questionService: questionService, cfg: cfg}
}

// ListQuestions godoc
// GET /api/v1/admin/exams/:exam_id/questions
// Lists an exam's questions including correct options.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	examID, ok := parseExamID(c)
	if !ok {
		return
	}

	questions, err := h.questionService.ListByExam(c.Request.Context(), examID)
	if err != nil {
		failQuestion(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// AddQuestion godoc
// POST /api/v1/admin/exams/:exam_id/questions
// Adds one question to a draft exam.
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	examID, ok := parseExamID(c)
	if !ok {
		return
	}

	var req model.AddQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Add(c.Request.Context(), examID, &req)
	if err != nil {
		failQuestion(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// UpdateQuestion godoc
// PUT /api/v1/admin/exams/:exam_id/questions/:question_id
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	examID, ok := parseExamID(c)
	if !ok {
		return
	}
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.questionService.Update(c.Request.Context(), examID, questionID, &req); err != nil {
		failQuestion(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// DeleteQuestion godoc
// DELETE /api/v1/admin/exams/:exam_id/questions/:question_id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	examID, ok := parseExamID(c)
	if !ok {
		return
	}
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), examID, questionID); err != nil {
		failQuestion(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// DeleteAllQuestions godoc
// DELETE /api/v1/admin/exams/:exam_id/questions
// Clears the whole question bank of a draft exam.
func (h *QuestionHandler) DeleteAllQuestions(c *gin.Context) {
	examID, ok := parseExamID(c)
	if !ok {
		return
	}

	if err := h.questionService.DeleteAll(c.Request.Context(), examID); err != nil {
		failQuestion(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ImportQuestions godoc
// POST /api/v1/admin/exams/:exam_id/questions/import
// Bulk-loads questions from a multipart csv upload (field name "file",
// header text,a,b,c,d,correct). The upload is atomic: one bad row rejects
// the whole file.
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	examID, ok := parseExamID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	if fileHeader.Size > h.cfg.MaxImportBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer file.Close()

	count, err := h.questionService.ImportCSV(c.Request.Context(), examID, file)
	if err != nil {
		if errors.Is(err, service.ErrMalformedCSV) {
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrMalformedCSV)
			return
		}
		failQuestion(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"imported": count})
}

func failQuestion(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrExamPublished):
		response.Fail(c, http.StatusConflict, response.ErrActionForbidden)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
