package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aiassess/assessment-backend/internal/config"
	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Exam lifecycle errors.
var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrScheduleNotFound   = errors.New("schedule settings not found")
	ErrNoActiveSession    = errors.New("no active session found for this candidate")
	ErrNoQuestions        = errors.New("no questions found for this assessment")
)

// examDetailTTL bounds how long an assembled exam detail view may stay cached.
const examDetailTTL = 5 * time.Minute

// AssessmentStore is the read surface of the assessment catalog.
type AssessmentStore interface {
	GetByTitle(ctx context.Context, title string) (*model.Assessment, error)
}

// ScheduleStore is the read surface of the schedule settings store.
type ScheduleStore interface {
	GetByTitle(ctx context.Context, title string) (*model.ScheduleSettings, error)
}

// SessionStore is the session ledger, owned exclusively by this service.
type SessionStore interface {
	FindOpen(ctx context.Context, email, title string) (*model.ExamSession, error)
	Create(ctx context.Context, s *model.ExamSession) error
	Complete(ctx context.Context, id uuid.UUID, finishedAt time.Time) error
}

// ResultStore is the append-only result store.
type ResultStore interface {
	Insert(ctx context.Context, r *model.Result) error
	ListByCandidate(ctx context.Context, email string) ([]model.Result, error)
}

// ExamService orchestrates the exam session lifecycle: detail assembly,
// session start, and submission scoring.
type ExamService struct {
	assessments AssessmentStore
	schedules   ScheduleStore
	sessions    SessionStore
	results     ResultStore
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewExamService creates a new ExamService. rdb may be nil, which disables
// the detail cache.
func NewExamService(
	assessments AssessmentStore,
	schedules ScheduleStore,
	sessions SessionStore,
	results ResultStore,
	rdb *redis.Client,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		assessments: assessments,
		schedules:   schedules,
		sessions:    sessions,
		results:     results,
		rdb:         rdb,
		log:         log.With().Str("component", "exam_service").Logger(),
	}
}

// GetExamDetails assembles the delivery-ready view for a scheduled title:
// the schedule record found by exact title match, combined with the question
// content of whichever assessment its selected_assessment names.
func (s *ExamService) GetExamDetails(ctx context.Context, title string) (*model.ExamDetail, error) {
	if detail := s.cachedDetail(ctx, title); detail != nil {
		return detail, nil
	}

	sched, err := s.schedules.GetByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	assessment, err := s.assessments.GetByTitle(ctx, sched.SelectedAssessment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("get assessment: %w", err)
	}

	questions := make([]model.DeliveryQuestion, 0, len(assessment.Questions))
	for _, q := range assessment.Questions {
		options := make([]model.DeliveryOption, 0, len(q.Options))
		for _, o := range q.Options {
			options = append(options, model.DeliveryOption{Text: o})
		}
		questions = append(questions, model.DeliveryQuestion{
			Type:     q.Type,
			Question: q.Question,
			Options:  options,
			Answer:   q.Answer,
			RunCases: q.RunCases,
		})
	}

	duration := assessment.Duration
	if duration == 0 {
		duration = model.DefaultExamDuration
	}

	detail := &model.ExamDetail{
		Assessment: model.AssessmentDetail{
			ID:          assessment.ID.String(),
			Title:       assessment.Title,
			Description: assessment.Description,
			Duration:    duration,
			Questions:   questions,
		},
		StartTime:     sched.StartTime.Format(time.RFC3339),
		EndTime:       sched.EndTime.Format(time.RFC3339),
		Webcam:        sched.Webcam,
		Microphone:    sched.Microphone,
		ScreenSharing: sched.ScreenSharing,
	}

	s.cacheDetail(ctx, title, detail)

	return detail, nil
}

// StartSession opens a new attempt for a candidate on a named assessment.
// Nothing prevents multiple concurrent open sessions for the same pair; the
// submit path resolves them by taking the most recent open one.
func (s *ExamService) StartSession(ctx context.Context, title, email string) (*model.ExamSession, error) {
	if _, err := s.assessments.GetByTitle(ctx, title); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("get assessment: %w", err)
	}

	session := &model.ExamSession{
		CandidateEmail:  email,
		AssessmentTitle: title,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info().
		Str("candidate", email).
		Str("title", title).
		Str("session_id", session.ID.String()).
		Msg("Session started")

	return session, nil
}

// SubmitExam scores a submission against the assessment's canonical answers,
// persists the result, and closes the session.
//
// Answers join on exact question text. A question missing from the responses
// map scores as incorrect with the no-answer sentinel; a present answer is
// correct only on exact string equality. MaxScore is the question count.
//
// The result insert and the session completion are two separate writes. If
// the second fails the session stays open and the caller sees an error even
// though the result row exists; a retry then appends a duplicate result.
func (s *ExamService) SubmitExam(ctx context.Context, title, email string, responses map[string]string) (*model.Result, error) {
	session, err := s.sessions.FindOpen(ctx, email, title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("find open session: %w", err)
	}

	assessment, err := s.assessments.GetByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("get assessment: %w", err)
	}

	if len(assessment.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	totalScore := 0
	detailed := make([]model.QuestionResult, 0, len(assessment.Questions))

	for _, q := range assessment.Questions {
		userAnswer, answered := responses[q.Question]
		if !answered {
			detailed = append(detailed, model.QuestionResult{
				Question:      q.Question,
				Correct:       false,
				UserAnswer:    model.NoAnswerSentinel,
				CorrectAnswer: q.Answer,
			})
			continue
		}

		correct := userAnswer == q.Answer
		if correct {
			totalScore++
		}
		detailed = append(detailed, model.QuestionResult{
			Question:      q.Question,
			Correct:       correct,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.Answer,
		})
	}

	result := &model.Result{
		CandidateEmail:  email,
		AssessmentTitle: title,
		TotalScore:      totalScore,
		MaxScore:        len(assessment.Questions),
		DetailedResults: detailed,
	}
	if err := s.results.Insert(ctx, result); err != nil {
		return nil, fmt.Errorf("insert result: %w", err)
	}

	if err := s.sessions.Complete(ctx, session.ID, time.Now().UTC()); err != nil {
		// The result row already exists at this point; the open session will
		// accept another submission and duplicate it.
		s.log.Error().Err(err).
			Str("session_id", session.ID.String()).
			Msg("Result persisted but session completion failed")
		return nil, fmt.Errorf("complete session: %w", err)
	}

	s.log.Info().
		Str("candidate", email).
		Str("title", title).
		Int("total_score", totalScore).
		Int("max_score", result.MaxScore).
		Msg("Submission scored")

	return result, nil
}

// ResultsForCandidate returns a candidate's scored submissions, newest first.
// An empty list is not an error; a candidate with no attempts just has none.
func (s *ExamService) ResultsForCandidate(ctx context.Context, email string) ([]model.Result, error) {
	results, err := s.results.ListByCandidate(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

// cachedDetail returns the cached detail view for a title, or nil.
func (s *ExamService) cachedDetail(ctx context.Context, title string) *model.ExamDetail {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, config.CacheKey.ExamDetailKey(title)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("title", title).Msg("Detail cache read failed")
		}
		return nil
	}
	detail := &model.ExamDetail{}
	if err := json.Unmarshal([]byte(raw), detail); err != nil {
		return nil
	}
	return detail
}

// cacheDetail stores the assembled view best-effort; failures are logged only.
func (s *ExamService) cacheDetail(ctx context.Context, title string, detail *model.ExamDetail) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.ExamDetailKey(title), raw, examDetailTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("title", title).Msg("Detail cache write failed")
	}
}
