package model

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleSettings is the delivery window and proctoring requirements for a
// named assessment slot. One record per title, upserted in place.
// SelectedAssessment names the assessment actually served, which may differ
// from the record's own title.
type ScheduleSettings struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	Webcam             bool      `json:"webcam"`
	Microphone         bool      `json:"microphone"`
	ScreenSharing      bool      `json:"screen_sharing"`
	SelectedAssessment string    `json:"selected_assessment"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// SaveScheduleRequest is the payload for saving or updating schedule settings.
// The start < end check lives in the service so it returns a domain error
// rather than a field validation failure.
type SaveScheduleRequest struct {
	Title              string    `json:"title" binding:"required,min=1,max=255"`
	StartTime          time.Time `json:"start_time" binding:"required"`
	EndTime            time.Time `json:"end_time" binding:"required"`
	Webcam             bool      `json:"webcam"`
	Microphone         bool      `json:"microphone"`
	ScreenSharing      bool      `json:"screen_sharing"`
	SelectedAssessment string    `json:"selected_assessment" binding:"omitempty,max=255"`
}
