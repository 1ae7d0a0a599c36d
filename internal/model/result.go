package model

import (
	"time"

	"github.com/google/uuid"
)

// NoAnswerSentinel marks unanswered questions in detailed results.
const NoAnswerSentinel = "No answer"

// QuestionResult is the per-question outcome of a scored submission.
type QuestionResult struct {
	Question      string `json:"question"`
	Correct       bool   `json:"correct"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
}

// Result is the persisted, immutable outcome of a scored submission.
// MaxScore is always the assessment's question count; unanswered questions
// still count toward the denominator.
type Result struct {
	ID              uuid.UUID        `json:"-"`
	CandidateEmail  string           `json:"user_email"`
	AssessmentTitle string           `json:"assessment_title"`
	TotalScore      int              `json:"total_score"`
	MaxScore        int              `json:"max_score"`
	DetailedResults []QuestionResult `json:"detailed_results"`
	CreatedAt       time.Time        `json:"-"`
}
