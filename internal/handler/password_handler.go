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

// PasswordHandler handles the forgot/reset password flow for every role.
type PasswordHandler struct {
	passwordService *service.PasswordService
}

// NewPasswordHandler creates a new PasswordHandler.
func NewPasswordHandler(passwordService *service.PasswordService) *PasswordHandler {
	return &PasswordHandler{passwordService: passwordService}
}

// Forgot returns a role-bound gin handler for the forgot-password endpoint.
// Delivery of the queued email is best-effort; a 200 here only means the
// token was issued and the job enqueued.
func (h *PasswordHandler) Forgot(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.ForgotPasswordRequest
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}

		if err := h.passwordService.Forgot(c.Request.Context(), role, req.Email); err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
				return
			}
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		response.Success(c, http.StatusOK, gin.H{
			"message": "A password reset link has been sent to your email.",
		})
	}
}

// Reset godoc
// POST /auth/reset-password
// Tokens are single use and expire; the role is carried by the token record.
func (h *PasswordHandler) Reset(c *gin.Context) {
	var req model.ResetPasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.passwordService.Reset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) {
			response.Fail(c, http.StatusBadRequest, response.ErrResetTokenInvalid)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Password has been reset successfully."})
}
