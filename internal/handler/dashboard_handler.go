package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parikshahq/pariksha-backend/internal/response"
	"github.com/parikshahq/pariksha-backend/internal/service"
)

// DashboardHandler serves the admin landing-page summary.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary godoc
// GET /api/v1/admin/dashboard
// Returns entity counts and the most recently created subjects.
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, summary)
}
