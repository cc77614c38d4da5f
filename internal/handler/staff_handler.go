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

// StaffHandler handles staff account management (super admin only).
type StaffHandler struct {
	userService *service.UserService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(userService *service.UserService) *StaffHandler {
	return &StaffHandler{userService: userService}
}

// ListStaff godoc
// GET /api/v1/admin/staff
// Lists staff and admin accounts.
func (h *StaffHandler) ListStaff(c *gin.Context) {
	staff, err := h.userService.ListStaff(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"staff": staff})
}

// CreateStaff godoc
// POST /api/v1/admin/staff
// Creates a staff or admin account.
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req model.CreateStaffRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.CreateStaff(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": user})
}

// ToggleStaffStatus godoc
// PATCH /api/v1/admin/staff/:id/status
// Flips a staff account between active and inactive. Super admins cannot
// deactivate themselves.
func (h *StaffHandler) ToggleStaffStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	claims := middleware.GetClaims(c)
	if err := h.userService.ToggleStaffStatus(c.Request.Context(), claims.UserID, id); err != nil {
		if errors.Is(err, service.ErrSelfDeactivation) {
			response.Fail(c, http.StatusForbidden, response.ErrActionForbidden)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
