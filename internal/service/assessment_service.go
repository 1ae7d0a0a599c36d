package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aiassess/assessment-backend/internal/config"
	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/aiassess/assessment-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Authoring errors.
var (
	ErrDuplicateTitle    = errors.New("an assessment with this title already exists")
	ErrNoAssessments     = errors.New("no assessments found")
	ErrNothingToDelete   = errors.New("no assessments found to delete")
	ErrNothingToArchive  = errors.New("no assessments found to archive")
	ErrNoScheduleRecords = errors.New("no settings found")
)

// ScheduleTitleStore resolves which schedules deliver a set of assessments.
// Satisfied by repository.ScheduleRepository.
type ScheduleTitleStore interface {
	TitlesSelecting(ctx context.Context, assessmentTitles []string) ([]string, error)
}

// AssessmentService handles the authoring side of the catalog: creation,
// listing, and bulk actions. The session engine never writes through here.
type AssessmentService struct {
	repo      *repository.AssessmentRepository
	schedules ScheduleTitleStore
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewAssessmentService creates a new AssessmentService.
func NewAssessmentService(repo *repository.AssessmentRepository, schedules ScheduleTitleStore, rdb *redis.Client, log zerolog.Logger) *AssessmentService {
	return &AssessmentService{
		repo:      repo,
		schedules: schedules,
		rdb:       rdb,
		log:       log.With().Str("component", "assessment_service").Logger(),
	}
}

// Create stores a new assessment. Titles are the lookup key everywhere, so
// duplicates are rejected.
func (s *AssessmentService) Create(ctx context.Context, req *model.CreateAssessmentRequest) (*model.Assessment, error) {
	if _, err := s.repo.GetByTitle(ctx, req.Title); err == nil {
		return nil, ErrDuplicateTitle
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check title: %w", err)
	}

	questions := make([]model.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, model.Question{
			Type:     q.Type,
			Question: q.Question,
			Options:  q.Options,
			Answer:   q.Answer,
			RunCases: q.RunCases,
		})
	}

	duration := req.Duration
	if duration == 0 {
		duration = model.DefaultExamDuration
	}

	assessment := &model.Assessment{
		Title:         req.Title,
		Description:   req.Description,
		EducatorEmail: req.EducatorEmail,
		Status:        model.AssessmentStatusActive,
		Duration:      duration,
		Questions:     questions,
	}
	if err := s.repo.Create(ctx, assessment); err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}

	s.log.Info().Str("title", assessment.Title).Int("questions", len(questions)).Msg("Assessment created")
	return assessment, nil
}

// List retrieves assessments matching a case-insensitive title fragment.
func (s *AssessmentService) List(ctx context.Context, titleFragment string) ([]model.Assessment, error) {
	assessments, err := s.repo.ListByTitle(ctx, titleFragment)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	if len(assessments) == 0 {
		return nil, ErrNoAssessments
	}
	return assessments, nil
}

// BulkDelete removes the named assessments and returns the count.
func (s *AssessmentService) BulkDelete(ctx context.Context, titles []string) (int64, error) {
	count, err := s.repo.DeleteByTitles(ctx, titles)
	if err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}
	if count == 0 {
		return 0, ErrNothingToDelete
	}
	s.invalidateDetails(ctx, titles)
	return count, nil
}

// BulkArchive marks the named assessments as Archived and returns the count.
func (s *AssessmentService) BulkArchive(ctx context.Context, titles []string) (int64, error) {
	count, err := s.repo.ArchiveByTitles(ctx, titles)
	if err != nil {
		return 0, fmt.Errorf("bulk archive: %w", err)
	}
	if count == 0 {
		return 0, ErrNothingToArchive
	}
	s.invalidateDetails(ctx, titles)
	return count, nil
}

// invalidateDetails drops cached exam detail views that embed these
// assessments. Best effort; the cache TTL bounds staleness anyway.
func (s *AssessmentService) invalidateDetails(ctx context.Context, titles []string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, s.detailCacheKeys(ctx, titles)...).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Detail cache invalidation failed")
	}
}

// detailCacheKeys maps assessment titles to the cache keys of the detail
// views built from them. Detail views are cached under the schedule title,
// which need not match the assessment title, so the schedules selecting
// these assessments are resolved first. The assessment titles themselves are
// included too, covering schedules named after their assessment even when
// the lookup fails.
func (s *AssessmentService) detailCacheKeys(ctx context.Context, titles []string) []string {
	keys := make([]string, 0, len(titles))
	for _, t := range titles {
		keys = append(keys, config.CacheKey.ExamDetailKey(t))
	}

	scheduleTitles, err := s.schedules.TitlesSelecting(ctx, titles)
	if err != nil {
		s.log.Warn().Err(err).Msg("Schedule lookup for cache invalidation failed")
		return keys
	}
	seen := make(map[string]bool, len(titles))
	for _, t := range titles {
		seen[t] = true
	}
	for _, t := range scheduleTitles {
		if !seen[t] {
			keys = append(keys, config.CacheKey.ExamDetailKey(t))
		}
	}
	return keys
}
