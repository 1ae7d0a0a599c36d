package handler

import (
	"errors"
	"net/http"

	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/aiassess/assessment-backend/internal/response"
	"github.com/aiassess/assessment-backend/internal/service"
	"github.com/aiassess/assessment-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// CandidateHandler handles candidate profile and account endpoints.
// The candidate is identified by the user_email query parameter.
type CandidateHandler struct {
	userService *service.UserService
}

// NewCandidateHandler creates a new CandidateHandler.
func NewCandidateHandler(userService *service.UserService) *CandidateHandler {
	return &CandidateHandler{userService: userService}
}

// candidateEmail extracts the user_email query parameter, failing the
// request when it is missing.
func candidateEmail(c *gin.Context) (string, bool) {
	email := c.Query("user_email")
	if email == "" {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"user_email": "user_email is a required query parameter",
		})
		return "", false
	}
	return email, true
}

// GetProfile godoc
// GET /api/candidate/profile?user_email=...
func (h *CandidateHandler) GetProfile(c *gin.Context) {
	email, ok := candidateEmail(c)
	if !ok {
		return
	}

	user, err := h.userService.GetCandidateProfile(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": user})
}

// UpdateProfile godoc
// PUT /api/candidate/profile?user_email=...
func (h *CandidateHandler) UpdateProfile(c *gin.Context) {
	email, ok := candidateEmail(c)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.UpdateCandidateProfile(c.Request.Context(), email, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Profile updated successfully.",
		"profile": user,
	})
}

// UpdateNotifications godoc
// PUT /api/candidate/settings/notifications?user_email=...
func (h *CandidateHandler) UpdateNotifications(c *gin.Context) {
	email, ok := candidateEmail(c)
	if !ok {
		return
	}

	var req model.Notifications
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.userService.UpdateCandidateNotifications(c.Request.Context(), email, &req); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Notification settings saved."})
}

// DeleteAccount godoc
// DELETE /api/candidate/account?user_email=...
func (h *CandidateHandler) DeleteAccount(c *gin.Context) {
	email, ok := candidateEmail(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteCandidateAccount(c.Request.Context(), email); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Account deleted successfully."})
}
