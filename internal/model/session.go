package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamSession is one candidate's attempt at an assessment. A session is open
// until a submission closes it; nothing prevents multiple open sessions for
// the same (candidate, title) pair, so the submit path filters on completed.
type ExamSession struct {
	ID              uuid.UUID  `json:"id"`
	CandidateEmail  string     `json:"candidate_email"`
	AssessmentTitle string     `json:"assessment_title"`
	StartedAt       time.Time  `json:"start_time"`
	FinishedAt      *time.Time `json:"end_time,omitempty"`
	Completed       bool       `json:"completed"`
}

// StartSessionQuery carries the candidate identity for session start.
type StartSessionQuery struct {
	Email string `form:"email" binding:"required,email"`
}

// SubmitExamRequest is the submission payload. Responses map question text to
// the candidate's answer; an empty map is a valid (all-unanswered) submission.
type SubmitExamRequest struct {
	Email     string            `json:"email" binding:"required,email"`
	Responses map[string]string `json:"responses"`
}
