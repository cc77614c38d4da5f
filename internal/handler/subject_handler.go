package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/parikshahq/pariksha-backend/internal/middleware"
	"github.com/parikshahq/pariksha-backend/internal/model"
	"github.com/parikshahq/pariksha-backend/internal/response"
	"github.com/parikshahq/pariksha-backend/internal/service"
	"github.com/parikshahq/pariksha-backend/internal/validator"
)

// SubjectHandler handles admin-facing subject management (CRUD).
type SubjectHandler struct {
	subjectService *service.SubjectService
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(subjectService *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService}
}

// ListSubjects godoc
// GET /api/v1/admin/subjects?course_id=&year=
// Lists subjects, optionally filtered by course and year for the chained
// course → year → subject dropdowns.
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	courseID, _ := strconv.Atoi(c.Query("course_id"))
	year, _ := strconv.Atoi(c.Query("year"))

	subjects, err := h.subjectService.List(c.Request.Context(), courseID, year)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"subjects": subjects})
}

// CreateSubject godoc
// POST /api/v1/admin/subjects
// Creates a new subject.
func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	var req model.CreateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	subject := &model.Subject{
		CourseID:  req.CourseID,
		Name:      req.Name,
		Code:      req.Code,
		Year:      req.Year,
		CreatedBy: claims.UserID,
	}

	if err := h.subjectService.Create(c.Request.Context(), subject); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"subject": subject})
}

// UpdateSubject godoc
// PUT /api/v1/admin/subjects/:id
// Updates an existing subject.
func (h *SubjectHandler) UpdateSubject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	subject := &model.Subject{
		ID:       id,
		CourseID: req.CourseID,
		Name:     req.Name,
		Code:     req.Code,
		Year:     req.Year,
	}
	if err := h.subjectService.Update(c.Request.Context(), subject); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"subject": subject})
}

// DeleteSubject godoc
// DELETE /api/v1/admin/subjects/:id
// Deletes a subject. Fails with 409 while exams still reference it.
func (h *SubjectHandler) DeleteSubject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.subjectService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrRecordInUse) {
			response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
