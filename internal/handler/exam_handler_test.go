package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/aiassess/assessment-backend/internal/response"
	"github.com/aiassess/assessment-backend/internal/service"
	"github.com/aiassess/assessment-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ─── In-memory stores ──────────────────────────────────────────────────────

type memAssessments struct {
	byTitle map[string]*model.Assessment
}

func (m *memAssessments) GetByTitle(_ context.Context, title string) (*model.Assessment, error) {
	a, ok := m.byTitle[title]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return a, nil
}

type memSchedules struct {
	byTitle map[string]*model.ScheduleSettings
}

func (m *memSchedules) GetByTitle(_ context.Context, title string) (*model.ScheduleSettings, error) {
	s, ok := m.byTitle[title]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

type memSessions struct {
	sessions []*model.ExamSession
}

func (m *memSessions) FindOpen(_ context.Context, email, title string) (*model.ExamSession, error) {
	for i := len(m.sessions) - 1; i >= 0; i-- {
		s := m.sessions[i]
		if s.CandidateEmail == email && s.AssessmentTitle == title && !s.Completed {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memSessions) Create(_ context.Context, s *model.ExamSession) error {
	s.ID = uuid.New()
	s.StartedAt = time.Now().UTC()
	m.sessions = append(m.sessions, s)
	return nil
}

func (m *memSessions) Complete(_ context.Context, id uuid.UUID, finishedAt time.Time) error {
	for _, s := range m.sessions {
		if s.ID == id {
			s.Completed = true
			s.FinishedAt = &finishedAt
			return nil
		}
	}
	return pgx.ErrNoRows
}

type memResults struct {
	inserted []*model.Result
}

func (m *memResults) Insert(_ context.Context, r *model.Result) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now().UTC()
	m.inserted = append(m.inserted, r)
	return nil
}

func (m *memResults) ListByCandidate(_ context.Context, email string) ([]model.Result, error) {
	var out []model.Result
	for i := len(m.inserted) - 1; i >= 0; i-- {
		if m.inserted[i].CandidateEmail == email {
			out = append(out, *m.inserted[i])
		}
	}
	return out, nil
}

// ─── Harness ───────────────────────────────────────────────────────────────

type examEnv struct {
	router   *gin.Engine
	sessions *memSessions
	results  *memResults
}

func newExamEnv(t *testing.T) *examEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Setup()

	assessments := &memAssessments{byTitle: map[string]*model.Assessment{
		"Math101": {
			ID:    uuid.New(),
			Title: "Math101",
			Questions: []model.Question{
				{Type: model.QuestionTypeMultipleChoice, Question: "2+2?", Options: []string{"3", "4"}, Answer: "4"},
			},
		},
	}}
	schedules := &memSchedules{byTitle: map[string]*model.ScheduleSettings{
		"Math101": {
			Title:              "Math101",
			StartTime:          time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			EndTime:            time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
			Webcam:             true,
			SelectedAssessment: "Math101",
		},
	}}
	sessions := &memSessions{}
	results := &memResults{}

	svc := service.NewExamService(assessments, schedules, sessions, results, nil, zerolog.Nop())
	h := NewExamHandler(svc)

	r := gin.New()
	r.Use(response.RequestIDMiddleware())
	r.GET("/exam/title/:title", h.GetExamDetails)
	r.POST("/api/candidate/exam/title/:title/start-session", h.StartSession)
	r.POST("/api/candidate/exam/title/:title/submit", h.SubmitExam)

	return &examEnv{router: r, sessions: sessions, results: results}
}

func (e *examEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

// ─── Tests ─────────────────────────────────────────────────────────────────

func TestGetExamDetailsEndpoint(t *testing.T) {
	env := newExamEnv(t)

	t.Run("OK", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/exam/title/Math101", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		data := decodeData(t, w)
		assessment, ok := data["assessment"].(map[string]interface{})
		if !ok {
			t.Fatalf("missing assessment in %v", data)
		}
		if assessment["title"] != "Math101" {
			t.Errorf("title = %v", assessment["title"])
		}
		if data["webcam"] != true {
			t.Errorf("webcam = %v, want true", data["webcam"])
		}
		if _, ok := data["start_time"].(string); !ok {
			t.Errorf("start_time not a string: %v", data["start_time"])
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/exam/title/Unknown", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})
}

func TestStartSessionEndpoint(t *testing.T) {
	env := newExamEnv(t)

	t.Run("OK", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/candidate/exam/title/Math101/start-session?email=alice%40example.com", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		data := decodeData(t, w)
		if data["session_id"] == "" || data["session_id"] == nil {
			t.Error("missing session_id")
		}
	})

	t.Run("MissingEmail", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/candidate/exam/title/Math101/start-session", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("MalformedEmail", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/candidate/exam/title/Math101/start-session?email=nope", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("UnknownAssessment", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/candidate/exam/title/Unknown/start-session?email=alice%40example.com", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})
}

func TestSubmitExamEndpoint(t *testing.T) {
	env := newExamEnv(t)

	start := func(t *testing.T) {
		t.Helper()
		w := env.do(t, http.MethodPost, "/api/candidate/exam/title/Math101/start-session?email=alice%40example.com", "")
		if w.Code != http.StatusOK {
			t.Fatalf("start-session status = %d", w.Code)
		}
	}

	t.Run("ScoredAndEchoed", func(t *testing.T) {
		start(t)
		w := env.do(t, http.MethodPost, "/api/candidate/exam/title/Math101/submit",
			`{"email":"alice@example.com","responses":{"2+2?":"4"}}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		data := decodeData(t, w)
		if data["total_score"] != float64(1) {
			t.Errorf("total_score = %v, want 1", data["total_score"])
		}
		if data["max_score"] != float64(1) {
			t.Errorf("max_score = %v, want 1", data["max_score"])
		}
		if data["user_email"] != "alice@example.com" {
			t.Errorf("user_email = %v", data["user_email"])
		}
	})

	t.Run("EmptyResponsesAccepted", func(t *testing.T) {
		start(t)
		w := env.do(t, http.MethodPost, "/api/candidate/exam/title/Math101/submit",
			`{"email":"alice@example.com","responses":{}}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		data := decodeData(t, w)
		if data["total_score"] != float64(0) {
			t.Errorf("total_score = %v, want 0", data["total_score"])
		}
		detailed, ok := data["detailed_results"].([]interface{})
		if !ok || len(detailed) != 1 {
			t.Fatalf("detailed_results = %v", data["detailed_results"])
		}
		entry := detailed[0].(map[string]interface{})
		if entry["user_answer"] != model.NoAnswerSentinel {
			t.Errorf("user_answer = %v, want %q", entry["user_answer"], model.NoAnswerSentinel)
		}
	})

	t.Run("NoSession", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/candidate/exam/title/Math101/submit",
			`{"email":"nobody@example.com","responses":{"2+2?":"4"}}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("MissingEmail", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/candidate/exam/title/Math101/submit",
			`{"responses":{"2+2?":"4"}}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}
