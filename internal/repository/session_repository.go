package repository

import (
	"context"
	"time"

	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository handles exam session ledger data access.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// FindOpen retrieves the most recent open session for a candidate on a title.
func (r *SessionRepository) FindOpen(ctx context.Context, email, title string) (*model.ExamSession, error) {
	s := &model.ExamSession{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, candidate_email, assessment_title, started_at, finished_at, completed
		 FROM exam_sessions
		 WHERE candidate_email = $1 AND assessment_title = $2 AND completed = FALSE
		 ORDER BY started_at DESC
		 LIMIT 1`, email, title,
	).Scan(&s.ID, &s.CandidateEmail, &s.AssessmentTitle, &s.StartedAt, &s.FinishedAt, &s.Completed)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new open session. The store assigns id and start time.
func (r *SessionRepository) Create(ctx context.Context, s *model.ExamSession) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exam_sessions (candidate_email, assessment_title)
		 VALUES ($1, $2)
		 RETURNING id, started_at`,
		s.CandidateEmail, s.AssessmentTitle,
	).Scan(&s.ID, &s.StartedAt)
}

// Complete marks a session as completed and records the end time.
func (r *SessionRepository) Complete(ctx context.Context, id uuid.UUID, finishedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exam_sessions
		 SET completed = TRUE, finished_at = $1
		 WHERE id = $2`,
		finishedAt, id)
	return err
}
