package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden          ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly    ErrCode = "ADMIN_ACCESS_ONLY"
	ErrEducatorAccessOnly ErrCode = "EDUCATOR_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation  ErrCode = "VALIDATION_ERROR"
	ErrInvalidRole ErrCode = "INVALID_ROLE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrAssessmentNotFound ErrCode = "ASSESSMENT_NOT_FOUND"
	ErrScheduleNotFound   ErrCode = "SCHEDULE_NOT_FOUND"
	ErrUserNotFound       ErrCode = "USER_NOT_FOUND"
	ErrEmailTaken         ErrCode = "EMAIL_ALREADY_REGISTERED"
	ErrConflict           ErrCode = "CONFLICT"

	// ─── Exam lifecycle ────────────────────────────────────────────────
	ErrNoActiveSession   ErrCode = "NO_ACTIVE_SESSION"
	ErrNoQuestions       ErrCode = "NO_QUESTIONS"
	ErrInvalidTimeWindow ErrCode = "INVALID_TIME_WINDOW"

	// ─── Password reset ────────────────────────────────────────────────
	ErrResetTokenInvalid ErrCode = "RESET_TOKEN_INVALID"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Incorrect email or password."
	case ErrTokenRequired:
		return "Authentication token required."
	case ErrTokenInvalid:
		return "Authentication token is invalid or expired."
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."
	case ErrEducatorAccessOnly:
		return "This resource is restricted to educators."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidRole:
		return "Invalid role."
	case ErrNotFound:
		return "Resource not found."
	case ErrAssessmentNotFound:
		return "Assessment not found."
	case ErrScheduleNotFound:
		return "No schedule settings found for this assessment."
	case ErrUserNotFound:
		return "User not found."
	case ErrEmailTaken:
		return "This email is already registered."
	case ErrConflict:
		return "Resource already exists."
	case ErrNoActiveSession:
		return "No active session found for this candidate."
	case ErrNoQuestions:
		return "No questions found for this assessment."
	case ErrInvalidTimeWindow:
		return "Start time must be before end time."
	case ErrResetTokenInvalid:
		return "Invalid or expired reset token."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
