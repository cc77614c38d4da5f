package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parikshahq/pariksha-backend/internal/response"
	"github.com/parikshahq/pariksha-backend/internal/service"
)

// ResultHandler exposes finished attempts to staff.
type ResultHandler struct {
	resultService *service.ResultService
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// ListResults godoc
// GET /api/v1/admin/results
// Lists all results joined with student and exam context.
func (h *ResultHandler) ListResults(c *gin.Context) {
	results, err := h.resultService.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}
