package model

import (
	"time"

	"github.com/google/uuid"
)

// Role enumerates account types. Each role keeps its own email namespace, so
// the same address may exist once per role.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCandidate Role = "candidate"
	RoleEducator  Role = "educator"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleCandidate, RoleEducator:
		return true
	}
	return false
}

// Notifications holds a candidate's notification preferences.
type Notifications struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
}

// User is an account of any role.
type User struct {
	ID            uuid.UUID      `json:"id"`
	Role          Role           `json:"role"`
	Username      string         `json:"username"`
	Email         string         `json:"email"`
	PasswordHash  string         `json:"-"`
	Mobile        string         `json:"mobile,omitempty"`
	DOB           string         `json:"dob,omitempty"`
	Location      string         `json:"location,omitempty"`
	Status        string         `json:"status"`
	Notifications *Notifications `json:"notifications,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// AddUserRequest is the admin payload for creating an account.
// The initial password is the username, hashed; users change it via the
// password-reset flow.
type AddUserRequest struct {
	Username string `json:"username" binding:"required,min=1,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Role     Role   `json:"role" binding:"required,oneof=admin candidate educator"`
}

// LoginRequest is the credential payload for any role.
type LoginRequest struct {
	Role     Role   `json:"role" binding:"required,oneof=admin candidate educator"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=1"`
}

// UpdateProfileRequest is a partial candidate profile update; nil fields are
// left untouched.
type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=1,max=255"`
	Mobile   *string `json:"mobile" binding:"omitempty,max=32"`
	DOB      *string `json:"dob" binding:"omitempty,max=32"`
	Location *string `json:"location" binding:"omitempty,max=255"`
}

// AdminUpdateUserRequest is the admin payload for editing any account,
// looked up by email across every role. Nil fields are left untouched; a
// provided password is re-hashed before storage.
type AdminUpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=1,max=255"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6,max=128"`
	Mobile   *string `json:"mobile" binding:"omitempty,max=32"`
	DOB      *string `json:"dob" binding:"omitempty,max=32"`
	Location *string `json:"location" binding:"omitempty,max=255"`
	Role     *Role   `json:"role" binding:"omitempty,oneof=admin candidate educator"`
	Status   *string `json:"status" binding:"omitempty,oneof=active deactivated"`
}

// User account statuses.
const (
	StatusActive      = "active"
	StatusDeactivated = "deactivated"
)

// ForgotPasswordRequest asks for a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest consumes a reset token.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=128"`
}
