package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ─── Fakes ─────────────────────────────────────────────────────────────────

type fakeAssessmentStore struct {
	assessments map[string]*model.Assessment
}

func (f *fakeAssessmentStore) GetByTitle(_ context.Context, title string) (*model.Assessment, error) {
	a, ok := f.assessments[title]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return a, nil
}

type fakeScheduleStore struct {
	schedules map[string]*model.ScheduleSettings
}

func (f *fakeScheduleStore) GetByTitle(_ context.Context, title string) (*model.ScheduleSettings, error) {
	s, ok := f.schedules[title]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

type fakeSessionStore struct {
	sessions    []*model.ExamSession
	createErr   error
	completeErr error
}

func (f *fakeSessionStore) FindOpen(_ context.Context, email, title string) (*model.ExamSession, error) {
	// Most recent open session wins, mirroring the ORDER BY started_at DESC query.
	for i := len(f.sessions) - 1; i >= 0; i-- {
		s := f.sessions[i]
		if s.CandidateEmail == email && s.AssessmentTitle == title && !s.Completed {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSessionStore) Create(_ context.Context, s *model.ExamSession) error {
	if f.createErr != nil {
		return f.createErr
	}
	s.ID = uuid.New()
	s.StartedAt = time.Now().UTC()
	f.sessions = append(f.sessions, s)
	return nil
}

func (f *fakeSessionStore) Complete(_ context.Context, id uuid.UUID, finishedAt time.Time) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	for _, s := range f.sessions {
		if s.ID == id {
			s.Completed = true
			s.FinishedAt = &finishedAt
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeResultStore struct {
	inserted  []*model.Result
	insertErr error
}

func (f *fakeResultStore) Insert(_ context.Context, r *model.Result) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	r.ID = uuid.New()
	r.CreatedAt = time.Now().UTC()
	f.inserted = append(f.inserted, r)
	return nil
}

func (f *fakeResultStore) ListByCandidate(_ context.Context, email string) ([]model.Result, error) {
	var out []model.Result
	for i := len(f.inserted) - 1; i >= 0; i-- {
		if f.inserted[i].CandidateEmail == email {
			out = append(out, *f.inserted[i])
		}
	}
	return out, nil
}

// ─── Fixtures ──────────────────────────────────────────────────────────────

func mathAssessment() *model.Assessment {
	return &model.Assessment{
		ID:          uuid.New(),
		Title:       "Math101",
		Description: "Basic arithmetic",
		Status:      model.AssessmentStatusActive,
		Questions: []model.Question{
			{
				Type:     model.QuestionTypeMultipleChoice,
				Question: "2+2?",
				Options:  []string{"3", "4", "5"},
				Answer:   "4",
			},
			{
				Type:     model.QuestionTypeShortAnswer,
				Question: "Capital of France?",
				Answer:   "Paris",
			},
		},
	}
}

func newTestService(as *fakeAssessmentStore, ss *fakeScheduleStore, sess *fakeSessionStore, rs *fakeResultStore) *ExamService {
	return NewExamService(as, ss, sess, rs, nil, zerolog.Nop())
}

// ─── GetExamDetails ────────────────────────────────────────────────────────

func TestGetExamDetails(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	assessments := &fakeAssessmentStore{assessments: map[string]*model.Assessment{
		"Math101": mathAssessment(),
	}}
	schedules := &fakeScheduleStore{schedules: map[string]*model.ScheduleSettings{
		"Midterm": {
			Title:              "Midterm",
			StartTime:          start,
			EndTime:            end,
			Webcam:             true,
			ScreenSharing:      true,
			SelectedAssessment: "Math101",
		},
	}}
	svc := newTestService(assessments, schedules, &fakeSessionStore{}, &fakeResultStore{})

	t.Run("AssemblesViewThroughSelectedAssessment", func(t *testing.T) {
		detail, err := svc.GetExamDetails(ctx, "Midterm")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if detail.Assessment.Title != "Math101" {
			t.Errorf("assessment title = %q, want Math101", detail.Assessment.Title)
		}
		if len(detail.Assessment.Questions) != 2 {
			t.Fatalf("question count = %d, want 2", len(detail.Assessment.Questions))
		}
		if detail.StartTime != start.Format(time.RFC3339) {
			t.Errorf("start_time = %q, want %q", detail.StartTime, start.Format(time.RFC3339))
		}
		if !detail.Webcam || !detail.ScreenSharing || detail.Microphone {
			t.Errorf("proctoring flags = %v/%v/%v, want true/false/true",
				detail.Webcam, detail.Microphone, detail.ScreenSharing)
		}
	})

	t.Run("OptionsWrappedAndAnswerIncluded", func(t *testing.T) {
		detail, err := svc.GetExamDetails(ctx, "Midterm")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		q := detail.Assessment.Questions[0]
		if len(q.Options) != 3 || q.Options[1].Text != "4" {
			t.Errorf("options = %v, want three wrapped texts", q.Options)
		}
		if q.Answer != "4" {
			t.Errorf("answer = %q, want it carried through verbatim", q.Answer)
		}
	})

	t.Run("DurationDefaultsTo60", func(t *testing.T) {
		detail, err := svc.GetExamDetails(ctx, "Midterm")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if detail.Assessment.Duration != 60 {
			t.Errorf("duration = %d, want the 60 minute default", detail.Assessment.Duration)
		}
	})

	t.Run("AuthoredDurationCarriedThrough", func(t *testing.T) {
		timed := mathAssessment()
		timed.Duration = 90
		svc := newTestService(
			&fakeAssessmentStore{assessments: map[string]*model.Assessment{"Math101": timed}},
			schedules, &fakeSessionStore{}, &fakeResultStore{})

		detail, err := svc.GetExamDetails(ctx, "Midterm")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if detail.Assessment.Duration != 90 {
			t.Errorf("duration = %d, want 90", detail.Assessment.Duration)
		}
	})

	t.Run("UnknownScheduleTitle", func(t *testing.T) {
		if _, err := svc.GetExamDetails(ctx, "Nope"); !errors.Is(err, ErrScheduleNotFound) {
			t.Errorf("err = %v, want ErrScheduleNotFound", err)
		}
	})

	t.Run("DanglingSelectedAssessment", func(t *testing.T) {
		schedules.schedules["Orphan"] = &model.ScheduleSettings{
			Title:              "Orphan",
			StartTime:          start,
			EndTime:            end,
			SelectedAssessment: "Deleted101",
		}
		if _, err := svc.GetExamDetails(ctx, "Orphan"); !errors.Is(err, ErrAssessmentNotFound) {
			t.Errorf("err = %v, want ErrAssessmentNotFound", err)
		}
	})
}

// ─── StartSession ──────────────────────────────────────────────────────────

func TestStartSession(t *testing.T) {
	ctx := context.Background()
	assessments := &fakeAssessmentStore{assessments: map[string]*model.Assessment{
		"Math101": mathAssessment(),
	}}
	sessions := &fakeSessionStore{}
	svc := newTestService(assessments, &fakeScheduleStore{}, sessions, &fakeResultStore{})

	t.Run("CreatesOpenSession", func(t *testing.T) {
		session, err := svc.StartSession(ctx, "Math101", "alice@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if session.ID == uuid.Nil {
			t.Error("session ID not assigned")
		}
		if session.Completed {
			t.Error("new session should be open")
		}
	})

	t.Run("AllowsConcurrentSessionsForSamePair", func(t *testing.T) {
		first, err := svc.StartSession(ctx, "Math101", "bob@example.com")
		if err != nil {
			t.Fatalf("first start: %v", err)
		}
		second, err := svc.StartSession(ctx, "Math101", "bob@example.com")
		if err != nil {
			t.Fatalf("second start: %v", err)
		}
		if first.ID == second.ID {
			t.Error("expected two distinct sessions")
		}
	})

	t.Run("UnknownAssessment", func(t *testing.T) {
		if _, err := svc.StartSession(ctx, "Nope", "alice@example.com"); !errors.Is(err, ErrAssessmentNotFound) {
			t.Errorf("err = %v, want ErrAssessmentNotFound", err)
		}
	})
}

// ─── SubmitExam ────────────────────────────────────────────────────────────

func TestSubmitExam(t *testing.T) {
	ctx := context.Background()

	setup := func() (*ExamService, *fakeSessionStore, *fakeResultStore) {
		assessments := &fakeAssessmentStore{assessments: map[string]*model.Assessment{
			"Math101": mathAssessment(),
		}}
		sessions := &fakeSessionStore{}
		results := &fakeResultStore{}
		svc := newTestService(assessments, &fakeScheduleStore{}, sessions, results)
		return svc, sessions, results
	}

	t.Run("PerfectScore", func(t *testing.T) {
		svc, _, _ := setup()
		if _, err := svc.StartSession(ctx, "Math101", "alice@example.com"); err != nil {
			t.Fatalf("start: %v", err)
		}

		result, err := svc.SubmitExam(ctx, "Math101", "alice@example.com", map[string]string{
			"2+2?":               "4",
			"Capital of France?": "Paris",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TotalScore != 2 || result.MaxScore != 2 {
			t.Errorf("score = %d/%d, want 2/2", result.TotalScore, result.MaxScore)
		}
		for _, d := range result.DetailedResults {
			if !d.Correct {
				t.Errorf("question %q marked incorrect", d.Question)
			}
		}
	})

	t.Run("PartialAndCaseSensitive", func(t *testing.T) {
		svc, _, _ := setup()
		if _, err := svc.StartSession(ctx, "Math101", "alice@example.com"); err != nil {
			t.Fatalf("start: %v", err)
		}

		// "five" is semantically right but not an exact string match.
		result, err := svc.SubmitExam(ctx, "Math101", "alice@example.com", map[string]string{
			"2+2?":               "five",
			"Capital of France?": "Paris",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TotalScore != 1 {
			t.Errorf("total score = %d, want 1", result.TotalScore)
		}
		if result.DetailedResults[0].Correct {
			t.Error("inexact answer scored as correct")
		}
		if result.DetailedResults[0].UserAnswer != "five" {
			t.Errorf("user answer = %q, want the submitted text preserved", result.DetailedResults[0].UserAnswer)
		}
	})

	t.Run("EmptyResponsesScoreZeroWithSentinel", func(t *testing.T) {
		svc, _, _ := setup()
		if _, err := svc.StartSession(ctx, "Math101", "alice@example.com"); err != nil {
			t.Fatalf("start: %v", err)
		}

		result, err := svc.SubmitExam(ctx, "Math101", "alice@example.com", map[string]string{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TotalScore != 0 {
			t.Errorf("total score = %d, want 0", result.TotalScore)
		}
		if result.MaxScore != 2 {
			t.Errorf("max score = %d, want question count 2", result.MaxScore)
		}
		for _, d := range result.DetailedResults {
			if d.UserAnswer != model.NoAnswerSentinel {
				t.Errorf("user answer = %q, want %q", d.UserAnswer, model.NoAnswerSentinel)
			}
		}
	})

	t.Run("UnmatchedResponseKeysIgnored", func(t *testing.T) {
		svc, _, _ := setup()
		if _, err := svc.StartSession(ctx, "Math101", "alice@example.com"); err != nil {
			t.Fatalf("start: %v", err)
		}

		result, err := svc.SubmitExam(ctx, "Math101", "alice@example.com", map[string]string{
			"2+2":  "4", // missing the question mark, does not join
			"2+2?": "4",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TotalScore != 1 {
			t.Errorf("total score = %d, want 1", result.TotalScore)
		}
		if len(result.DetailedResults) != 2 {
			t.Errorf("detailed results = %d entries, want one per question", len(result.DetailedResults))
		}
	})

	t.Run("NoOpenSession", func(t *testing.T) {
		svc, _, _ := setup()
		_, err := svc.SubmitExam(ctx, "Math101", "alice@example.com", map[string]string{"2+2?": "4"})
		if !errors.Is(err, ErrNoActiveSession) {
			t.Errorf("err = %v, want ErrNoActiveSession", err)
		}
	})

	t.Run("SecondSubmitAfterCompletionFails", func(t *testing.T) {
		svc, _, results := setup()
		if _, err := svc.StartSession(ctx, "Math101", "alice@example.com"); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := svc.SubmitExam(ctx, "Math101", "alice@example.com", map[string]string{"2+2?": "4"}); err != nil {
			t.Fatalf("first submit: %v", err)
		}
		_, err := svc.SubmitExam(ctx, "Math101", "alice@example.com", map[string]string{"2+2?": "4"})
		if !errors.Is(err, ErrNoActiveSession) {
			t.Errorf("second submit err = %v, want ErrNoActiveSession", err)
		}
		if len(results.inserted) != 1 {
			t.Errorf("results inserted = %d, want 1", len(results.inserted))
		}
	})

	t.Run("MostRecentOpenSessionCompleted", func(t *testing.T) {
		svc, sessions, _ := setup()
		first, _ := svc.StartSession(ctx, "Math101", "alice@example.com")
		second, _ := svc.StartSession(ctx, "Math101", "alice@example.com")

		if _, err := svc.SubmitExam(ctx, "Math101", "alice@example.com", map[string]string{"2+2?": "4"}); err != nil {
			t.Fatalf("submit: %v", err)
		}

		for _, s := range sessions.sessions {
			switch s.ID {
			case second.ID:
				if !s.Completed {
					t.Error("most recent session should be completed")
				}
			case first.ID:
				if s.Completed {
					t.Error("older session should stay open")
				}
			}
		}
	})

	t.Run("CompletionFailureLeavesResultPersisted", func(t *testing.T) {
		svc, sessions, results := setup()
		if _, err := svc.StartSession(ctx, "Math101", "alice@example.com"); err != nil {
			t.Fatalf("start: %v", err)
		}
		sessions.completeErr = errors.New("connection reset")

		_, err := svc.SubmitExam(ctx, "Math101", "alice@example.com", map[string]string{"2+2?": "4"})
		if err == nil {
			t.Fatal("expected error when completion fails")
		}
		// The two writes are not atomic; the result row survives the failure.
		if len(results.inserted) != 1 {
			t.Errorf("results inserted = %d, want 1", len(results.inserted))
		}
	})

	t.Run("ResultsHistoryAccumulates", func(t *testing.T) {
		svc, _, _ := setup()
		for i := 0; i < 2; i++ {
			if _, err := svc.StartSession(ctx, "Math101", "alice@example.com"); err != nil {
				t.Fatalf("start: %v", err)
			}
			if _, err := svc.SubmitExam(ctx, "Math101", "alice@example.com", nil); err != nil {
				t.Fatalf("submit: %v", err)
			}
		}
		history, err := svc.ResultsForCandidate(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		if len(history) != 2 {
			t.Errorf("history = %d entries, want 2", len(history))
		}
		other, err := svc.ResultsForCandidate(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		if len(other) != 0 {
			t.Errorf("history for unknown candidate = %d entries, want 0", len(other))
		}
	})

	t.Run("NoQuestions", func(t *testing.T) {
		assessments := &fakeAssessmentStore{assessments: map[string]*model.Assessment{
			"Empty": {ID: uuid.New(), Title: "Empty", Status: model.AssessmentStatusActive},
		}}
		sessions := &fakeSessionStore{}
		svc := newTestService(assessments, &fakeScheduleStore{}, sessions, &fakeResultStore{})
		if _, err := svc.StartSession(ctx, "Empty", "alice@example.com"); err != nil {
			t.Fatalf("start: %v", err)
		}
		_, err := svc.SubmitExam(ctx, "Empty", "alice@example.com", map[string]string{})
		if !errors.Is(err, ErrNoQuestions) {
			t.Errorf("err = %v, want ErrNoQuestions", err)
		}
	})
}
