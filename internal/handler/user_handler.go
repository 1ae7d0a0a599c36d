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

// UserHandler handles admin-facing user management endpoints.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// AddUser godoc
// POST /admin/add-user
// The new account's initial password is its username.
func (h *UserHandler) AddUser(c *gin.Context) {
	var req model.AddUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.AddUser(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Fail(c, http.StatusConflict, response.ErrEmailTaken)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "User added successfully.",
		"user":    user,
	})
}

// ListUsers godoc
// GET /admin/users?email=...&role=...
// Both filters are optional; role must be a known role or "all" when present.
func (h *UserHandler) ListUsers(c *gin.Context) {
	role := model.Role(c.Query("role"))
	if role == "all" {
		role = ""
	}
	if role != "" && !model.ValidRole(role) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidRole)
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), c.Query("email"), role)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// UpdateUser godoc
// PUT /admin/users/:email
// Partial edit of the account holding the email, in any role.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req model.AdminUpdateUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("email"), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "User updated successfully.",
		"user":    user,
	})
}

// DeactivateUser godoc
// PATCH /admin/users/:email/deactivate
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	err := h.userService.SetUserStatus(c.Request.Context(), c.Param("email"), model.StatusDeactivated)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "User deactivated successfully."})
}

// ReactivateUser godoc
// PATCH /admin/users/:email/reactivate
func (h *UserHandler) ReactivateUser(c *gin.Context) {
	err := h.userService.SetUserStatus(c.Request.Context(), c.Param("email"), model.StatusActive)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "User reactivated successfully."})
}

// DeleteUser godoc
// DELETE /admin/users/:email
func (h *UserHandler) DeleteUser(c *gin.Context) {
	err := h.userService.DeleteUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "User deleted successfully."})
}
