package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType enumerates the supported question kinds. All of them grade by
// exact string comparison; the type only affects how the frontend renders the
// question.
type QuestionType string

const (
	QuestionTypeMultipleChoice  QuestionType = "multiple-choice"
	QuestionTypeShortAnswer     QuestionType = "short-answer"
	QuestionTypeCodingChallenge QuestionType = "coding-challenge"
)

// AssessmentStatus enumerates authoring lifecycle states.
type AssessmentStatus string

const (
	AssessmentStatusActive   AssessmentStatus = "Active"
	AssessmentStatusArchived AssessmentStatus = "Archived"
)

// RunCase is an input/output pair attached to coding-challenge questions.
// Run cases are stored and delivered but never executed server-side.
type RunCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Question is a single authored question, embedded in its assessment.
type Question struct {
	Type     QuestionType `json:"type"`
	Question string       `json:"question"`
	Options  []string     `json:"options,omitempty"`
	Answer   string       `json:"answer,omitempty"`
	RunCases []RunCase    `json:"runCases,omitempty"`
}

// Assessment is an authored set of questions, identified by title.
// Titles are the lookup key throughout the system, not the surrogate id.
type Assessment struct {
	ID            uuid.UUID        `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	EducatorEmail string           `json:"educator_email,omitempty"`
	Status        AssessmentStatus `json:"status"`
	Duration      int              `json:"duration"`
	Questions     []Question       `json:"questions"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// QuestionPayload is the authoring payload for a single question.
type QuestionPayload struct {
	Type     QuestionType `json:"type" binding:"required,oneof=multiple-choice short-answer coding-challenge"`
	Question string       `json:"question" binding:"required,min=1,max=2000"`
	Options  []string     `json:"options" binding:"omitempty,max=10"`
	Answer   string       `json:"answer" binding:"omitempty,max=2000"`
	RunCases []RunCase    `json:"runCases" binding:"omitempty,dive"`
}

// CreateAssessmentRequest is the payload for creating a new assessment.
type CreateAssessmentRequest struct {
	Title         string            `json:"title" binding:"required,min=1,max=255"`
	Description   string            `json:"description" binding:"max=4000"`
	EducatorEmail string            `json:"educator_email" binding:"required,email"`
	Duration      int               `json:"duration" binding:"omitempty,min=1,max=600"`
	Questions     []QuestionPayload `json:"questions" binding:"required,min=1,dive"`
}

// BulkActionRequest selects assessments by title for bulk delete/archive.
type BulkActionRequest struct {
	Titles []string `json:"titles" binding:"required,min=1,dive,required"`
}

// ─── Delivery view (candidate-facing) ──────────────────────────────────────

// DeliveryOption wraps an option string for the exam delivery payload.
type DeliveryOption struct {
	Text string `json:"text"`
}

// DeliveryQuestion is a question as rendered in the exam detail view.
// The canonical answer is included as-is; the delivery surface has never
// redacted it and clients depend on the shape.
type DeliveryQuestion struct {
	Type     QuestionType     `json:"type"`
	Question string           `json:"question"`
	Options  []DeliveryOption `json:"options"`
	Answer   string           `json:"answer"`
	RunCases []RunCase        `json:"runCases,omitempty"`
}

// AssessmentDetail is the content half of the exam detail view. Duration is
// the exam length in minutes.
type AssessmentDetail struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Duration    int                `json:"duration"`
	Questions   []DeliveryQuestion `json:"questions"`
}

// DefaultExamDuration is the exam length in minutes assumed when an
// assessment does not set one.
const DefaultExamDuration = 60

// ExamDetail combines assessment content with the schedule window and
// proctoring flags. Timestamps are ISO-8601 strings at this boundary.
type ExamDetail struct {
	Assessment    AssessmentDetail `json:"assessment"`
	StartTime     string           `json:"start_time"`
	EndTime       string           `json:"end_time"`
	Webcam        bool             `json:"webcam"`
	Microphone    bool             `json:"microphone"`
	ScreenSharing bool             `json:"screen_sharing"`
}
