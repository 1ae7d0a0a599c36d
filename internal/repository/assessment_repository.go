package repository

import (
	"context"

	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssessmentRepository handles assessment catalog data access.
// Questions are embedded in the row as jsonb, mirroring their authored order.
type AssessmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssessmentRepository creates a new AssessmentRepository.
func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

const assessmentColumns = `id, title, description, educator_email, status, duration, questions, created_at, updated_at`

// GetByTitle retrieves an assessment by its exact title.
func (r *AssessmentRepository) GetByTitle(ctx context.Context, title string) (*model.Assessment, error) {
	a := &model.Assessment{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+assessmentColumns+` FROM assessments WHERE title = $1`, title,
	).Scan(&a.ID, &a.Title, &a.Description, &a.EducatorEmail, &a.Status, &a.Duration, &a.Questions, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new assessment.
func (r *AssessmentRepository) Create(ctx context.Context, a *model.Assessment) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO assessments (title, description, educator_email, status, duration, questions)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		a.Title, a.Description, a.EducatorEmail, a.Status, a.Duration, a.Questions,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// ListByTitle retrieves assessments whose title contains the given fragment,
// case-insensitive. An empty fragment lists everything.
func (r *AssessmentRepository) ListByTitle(ctx context.Context, fragment string) ([]model.Assessment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+assessmentColumns+`
		 FROM assessments
		 WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
		 ORDER BY created_at DESC`, fragment,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []model.Assessment
	for rows.Next() {
		var a model.Assessment
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.EducatorEmail, &a.Status, &a.Duration, &a.Questions, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}

// DeleteByTitles removes all assessments whose title is in the list and
// returns how many rows were deleted.
func (r *AssessmentRepository) DeleteByTitles(ctx context.Context, titles []string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM assessments WHERE title = ANY($1)`, titles)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ArchiveByTitles flips the status of the named assessments to Archived and
// returns how many rows changed.
func (r *AssessmentRepository) ArchiveByTitles(ctx context.Context, titles []string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE assessments SET status = $1, updated_at = NOW() WHERE title = ANY($2)`,
		model.AssessmentStatusArchived, titles)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
