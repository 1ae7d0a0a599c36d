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

// ExamHandler handles candidate-facing exam delivery endpoints.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// GetExamDetails godoc
// GET /exam/title/:title
// Returns the delivery view: schedule window, proctoring flags, and the
// question content of the schedule's selected assessment. Canonical answers
// ride along in the payload; the client is trusted not to look.
func (h *ExamHandler) GetExamDetails(c *gin.Context) {
	title := c.Param("title")

	detail, err := h.examService.GetExamDetails(c.Request.Context(), title)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScheduleNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrScheduleNotFound)
		case errors.Is(err, service.ErrAssessmentNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrAssessmentNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// StartSession godoc
// POST /api/candidate/exam/title/:title/start-session?email=...
// Opens a new attempt and returns the store-assigned session id.
func (h *ExamHandler) StartSession(c *gin.Context) {
	title := c.Param("title")

	var q model.StartSessionQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.examService.StartSession(c.Request.Context(), title, q.Email)
	if err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrAssessmentNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"session_id": session.ID.String(),
		"message":    "Session started successfully.",
	})
}

// SubmitExam godoc
// POST /api/candidate/exam/title/:title/submit
// Scores the submission, persists the result, and closes the session. The
// echoed body is exactly what was persisted.
func (h *ExamHandler) SubmitExam(c *gin.Context) {
	title := c.Param("title")

	var req model.SubmitExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.examService.SubmitExam(c.Request.Context(), title, req.Email, req.Responses)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveSession):
			response.Fail(c, http.StatusBadRequest, response.ErrNoActiveSession)
		case errors.Is(err, service.ErrAssessmentNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrAssessmentNotFound)
		case errors.Is(err, service.ErrNoQuestions):
			response.Fail(c, http.StatusNotFound, response.ErrNoQuestions)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ListResults godoc
// GET /api/candidate/results?user_email=...
// Returns the candidate's scored submissions, newest first.
func (h *ExamHandler) ListResults(c *gin.Context) {
	email := c.Query("user_email")
	if email == "" {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"user_email": "user_email is a required query parameter",
		})
		return
	}

	results, err := h.examService.ResultsForCandidate(c.Request.Context(), email)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}
