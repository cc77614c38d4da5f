package handler

import (
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

// MonitorHandler records proctoring events and exposes them to staff.
type MonitorHandler struct {
	monitorService *service.MonitorService
	monitorRepo    *repository.MonitorRepository
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(monitorService *service.MonitorService, monitorRepo *repository.MonitorRepository) *MonitorHandler {
	return &MonitorHandler{monitorService: monitorService, monitorRepo: monitorRepo}
}

// LogEvent godoc
// POST /api/monitor/log
// Best-effort event ingestion. The outcome is reported only through the
// success flag; a failed write never disturbs the caller's attempt.
func (h *MonitorHandler) LogEvent(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.LogEventRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err := h.monitorService.LogEvent(c.Request.Context(), claims.UserID, &req)
	response.Success(c, http.StatusOK, gin.H{"success": err == nil})
}

// ListByExam godoc
// GET /api/v1/admin/exams/:exam_id/monitoring
// Lists recorded events for one exam.
func (h *MonitorHandler) ListByExam(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	events, err := h.monitorRepo.ListByExam(c.Request.Context(), examID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"events": events})
}
