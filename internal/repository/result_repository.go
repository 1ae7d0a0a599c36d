package repository

import (
	"context"

	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResultRepository handles the append-only result store.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Insert appends a scored result. Results are never updated or deleted.
func (r *ResultRepository) Insert(ctx context.Context, res *model.Result) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO results (candidate_email, assessment_title, total_score, max_score, details)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		res.CandidateEmail, res.AssessmentTitle, res.TotalScore, res.MaxScore, res.DetailedResults,
	).Scan(&res.ID, &res.CreatedAt)
}

// ListByCandidate retrieves all results for a candidate, newest first.
func (r *ResultRepository) ListByCandidate(ctx context.Context, email string) ([]model.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, candidate_email, assessment_title, total_score, max_score, details, created_at
		 FROM results
		 WHERE candidate_email = $1
		 ORDER BY created_at DESC`, email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		var res model.Result
		if err := rows.Scan(&res.ID, &res.CandidateEmail, &res.AssessmentTitle, &res.TotalScore, &res.MaxScore, &res.DetailedResults, &res.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
