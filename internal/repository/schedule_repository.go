package repository

import (
	"context"

	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScheduleRepository handles assessment schedule settings data access.
type ScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

const scheduleColumns = `id, title, start_time, end_time, webcam, microphone, screen_sharing, selected_assessment, updated_at`

// GetByTitle retrieves the settings record for an exact title.
func (r *ScheduleRepository) GetByTitle(ctx context.Context, title string) (*model.ScheduleSettings, error) {
	s := &model.ScheduleSettings{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+scheduleColumns+` FROM assessment_schedules WHERE title = $1`, title,
	).Scan(&s.ID, &s.Title, &s.StartTime, &s.EndTime, &s.Webcam, &s.Microphone, &s.ScreenSharing, &s.SelectedAssessment, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Upsert saves the settings for a title, updating the existing record in
// place when one exists.
func (r *ScheduleRepository) Upsert(ctx context.Context, s *model.ScheduleSettings) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO assessment_schedules
		     (title, start_time, end_time, webcam, microphone, screen_sharing, selected_assessment)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (title) DO UPDATE SET
		     start_time = EXCLUDED.start_time,
		     end_time = EXCLUDED.end_time,
		     webcam = EXCLUDED.webcam,
		     microphone = EXCLUDED.microphone,
		     screen_sharing = EXCLUDED.screen_sharing,
		     selected_assessment = EXCLUDED.selected_assessment,
		     updated_at = NOW()
		 RETURNING id, updated_at`,
		s.Title, s.StartTime, s.EndTime, s.Webcam, s.Microphone, s.ScreenSharing, s.SelectedAssessment,
	).Scan(&s.ID, &s.UpdatedAt)
}

// TitlesSelecting retrieves the titles of schedules whose selected
// assessment is one of the given assessment titles.
func (r *ScheduleRepository) TitlesSelecting(ctx context.Context, assessmentTitles []string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT title FROM assessment_schedules WHERE selected_assessment = ANY($1)`, assessmentTitles,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// ListByTitle retrieves settings whose title contains the given fragment,
// case-insensitive. An empty fragment lists everything.
func (r *ScheduleRepository) ListByTitle(ctx context.Context, fragment string) ([]model.ScheduleSettings, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+scheduleColumns+`
		 FROM assessment_schedules
		 WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
		 ORDER BY title ASC`, fragment,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.ScheduleSettings
	for rows.Next() {
		var s model.ScheduleSettings
		if err := rows.Scan(&s.ID, &s.Title, &s.StartTime, &s.EndTime, &s.Webcam, &s.Microphone, &s.ScreenSharing, &s.SelectedAssessment, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
