package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aiassess/assessment-backend/internal/config"
	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrInvalidTimeWindow is returned when a schedule's start is not before its end.
var ErrInvalidTimeWindow = errors.New("start time must be before end time")

// ScheduleWriter is the write surface of the schedule settings store.
type ScheduleWriter interface {
	GetByTitle(ctx context.Context, title string) (*model.ScheduleSettings, error)
	Upsert(ctx context.Context, s *model.ScheduleSettings) error
	ListByTitle(ctx context.Context, fragment string) ([]model.ScheduleSettings, error)
}

// ScheduleService manages per-assessment delivery settings. Settings are
// keyed by title with upsert semantics; the selected_assessment reference is
// deliberately not validated here; it resolves at exam-detail time.
type ScheduleService struct {
	schedules   ScheduleWriter
	assessments AssessmentStore
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewScheduleService creates a new ScheduleService. rdb may be nil.
func NewScheduleService(schedules ScheduleWriter, assessments AssessmentStore, rdb *redis.Client, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		schedules:   schedules,
		assessments: assessments,
		rdb:         rdb,
		log:         log.With().Str("component", "schedule_service").Logger(),
	}
}

// Save upserts the settings record for a title. The named assessment must
// exist and the time window must be well-formed.
func (s *ScheduleService) Save(ctx context.Context, req *model.SaveScheduleRequest) (*model.ScheduleSettings, error) {
	if !req.StartTime.Before(req.EndTime) {
		return nil, ErrInvalidTimeWindow
	}

	if _, err := s.assessments.GetByTitle(ctx, req.Title); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("get assessment: %w", err)
	}

	settings := &model.ScheduleSettings{
		Title:              req.Title,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		Webcam:             req.Webcam,
		Microphone:         req.Microphone,
		ScreenSharing:      req.ScreenSharing,
		SelectedAssessment: req.SelectedAssessment,
	}
	if err := s.schedules.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("upsert schedule: %w", err)
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, config.CacheKey.ExamDetailKey(req.Title)).Err(); err != nil {
			s.log.Warn().Err(err).Str("title", req.Title).Msg("Detail cache invalidation failed")
		}
	}

	s.log.Info().Str("title", settings.Title).Msg("Schedule settings saved")
	return settings, nil
}

// GetByTitle retrieves the settings record for an exact title.
func (s *ScheduleService) GetByTitle(ctx context.Context, title string) (*model.ScheduleSettings, error) {
	settings, err := s.schedules.GetByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return settings, nil
}

// List retrieves settings matching a case-insensitive title fragment.
func (s *ScheduleService) List(ctx context.Context, titleFragment string) ([]model.ScheduleSettings, error) {
	list, err := s.schedules.ListByTitle(ctx, titleFragment)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	if len(list) == 0 {
		return nil, ErrNoScheduleRecords
	}
	return list, nil
}
