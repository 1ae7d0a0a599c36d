package handler

import (
	"errors"
	"net/http"

	"github.com/aiassess/assessment-backend/internal/middleware"
	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/aiassess/assessment-backend/internal/response"
	"github.com/aiassess/assessment-backend/internal/service"
	"github.com/aiassess/assessment-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles login and profile-of-token endpoints.
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Login godoc
// POST /auth/login
// Validates credentials for the given role and returns a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Role, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	token, err := h.authService.GenerateToken(user.Role, user.Email, user.Username)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me godoc
// GET /auth/me
// Returns the account behind the presented token.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"role":     claims.Role,
		"email":    claims.Email,
		"username": claims.Username,
	})
}
