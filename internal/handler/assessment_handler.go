package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/aiassess/assessment-backend/internal/response"
	"github.com/aiassess/assessment-backend/internal/service"
	"github.com/aiassess/assessment-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AssessmentHandler handles educator authoring endpoints: assessment CRUD,
// bulk actions, and schedule settings.
type AssessmentHandler struct {
	assessmentService *service.AssessmentService
	scheduleService   *service.ScheduleService
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(assessmentService *service.AssessmentService, scheduleService *service.ScheduleService) *AssessmentHandler {
	return &AssessmentHandler{
		assessmentService: assessmentService,
		scheduleService:   scheduleService,
	}
}

// Create godoc
// POST /auth/assessments
func (h *AssessmentHandler) Create(c *gin.Context) {
	var req model.CreateAssessmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	assessment, err := h.assessmentService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateTitle) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":       "Assessment created successfully!",
		"assessment_id": assessment.ID.String(),
	})
}

// List godoc
// GET /auth/assessments?title=...
// Case-insensitive substring search; 404 when nothing matches.
func (h *AssessmentHandler) List(c *gin.Context) {
	assessments, err := h.assessmentService.List(c.Request.Context(), c.Query("title"))
	if err != nil {
		if errors.Is(err, service.ErrNoAssessments) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessments": assessments})
}

// BulkDelete godoc
// POST /auth/assessments/bulk-delete
func (h *AssessmentHandler) BulkDelete(c *gin.Context) {
	var req model.BulkActionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	count, err := h.assessmentService.BulkDelete(c.Request.Context(), req.Titles)
	if err != nil {
		if errors.Is(err, service.ErrNothingToDelete) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("Deleted %d assessments successfully.", count),
	})
}

// BulkArchive godoc
// POST /auth/assessments/bulk-archive
func (h *AssessmentHandler) BulkArchive(c *gin.Context) {
	var req model.BulkActionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	count, err := h.assessmentService.BulkArchive(c.Request.Context(), req.Titles)
	if err != nil {
		if errors.Is(err, service.ErrNothingToArchive) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("Archived %d assessments successfully.", count),
	})
}

// SaveSettings godoc
// POST /auth/assessments/settings
// Upserts the schedule settings record for a title.
func (h *AssessmentHandler) SaveSettings(c *gin.Context) {
	var req model.SaveScheduleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	settings, err := h.scheduleService.Save(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTimeWindow):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidTimeWindow)
		case errors.Is(err, service.ErrAssessmentNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrAssessmentNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":  "Assessment settings saved successfully!",
		"saved_id": settings.ID.String(),
	})
}

// GetSettings godoc
// GET /auth/assessments/settings/:title
func (h *AssessmentHandler) GetSettings(c *gin.Context) {
	settings, err := h.scheduleService.GetByTitle(c.Request.Context(), c.Param("title"))
	if err != nil {
		if errors.Is(err, service.ErrScheduleNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrScheduleNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessment_settings": settings})
}

// ListStatus godoc
// GET /auth/assessments/status?title=...
// Fuzzy listing over schedule records.
func (h *AssessmentHandler) ListStatus(c *gin.Context) {
	list, err := h.scheduleService.List(c.Request.Context(), c.Query("title"))
	if err != nil {
		if errors.Is(err, service.ErrNoScheduleRecords) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"settings": list})
}
