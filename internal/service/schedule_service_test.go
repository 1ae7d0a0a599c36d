package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aiassess/assessment-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type fakeScheduleWriter struct {
	records map[string]*model.ScheduleSettings
}

func newFakeScheduleWriter() *fakeScheduleWriter {
	return &fakeScheduleWriter{records: make(map[string]*model.ScheduleSettings)}
}

func (f *fakeScheduleWriter) GetByTitle(_ context.Context, title string) (*model.ScheduleSettings, error) {
	s, ok := f.records[title]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeScheduleWriter) Upsert(_ context.Context, s *model.ScheduleSettings) error {
	f.records[s.Title] = s
	return nil
}

func (f *fakeScheduleWriter) ListByTitle(_ context.Context, fragment string) ([]model.ScheduleSettings, error) {
	var out []model.ScheduleSettings
	for _, s := range f.records {
		out = append(out, *s)
	}
	_ = fragment
	return out, nil
}

func TestScheduleSave(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	assessments := &fakeAssessmentStore{assessments: map[string]*model.Assessment{
		"Math101": mathAssessment(),
	}}

	t.Run("UpsertReplacesInPlace", func(t *testing.T) {
		writer := newFakeScheduleWriter()
		svc := NewScheduleService(writer, assessments, nil, zerolog.Nop())

		first, err := svc.Save(ctx, &model.SaveScheduleRequest{
			Title:     "Math101",
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			Webcam:    true,
		})
		if err != nil {
			t.Fatalf("first save: %v", err)
		}
		if !first.Webcam {
			t.Error("webcam flag lost")
		}

		second, err := svc.Save(ctx, &model.SaveScheduleRequest{
			Title:     "Math101",
			StartTime: start,
			EndTime:   start.Add(2 * time.Hour),
		})
		if err != nil {
			t.Fatalf("second save: %v", err)
		}
		if second.Webcam {
			t.Error("second save should overwrite flags, not merge")
		}
		if len(writer.records) != 1 {
			t.Errorf("records = %d, want a single upserted row", len(writer.records))
		}
	})

	t.Run("RejectsInvertedWindow", func(t *testing.T) {
		svc := NewScheduleService(newFakeScheduleWriter(), assessments, nil, zerolog.Nop())
		_, err := svc.Save(ctx, &model.SaveScheduleRequest{
			Title:     "Math101",
			StartTime: start.Add(time.Hour),
			EndTime:   start,
		})
		if !errors.Is(err, ErrInvalidTimeWindow) {
			t.Errorf("err = %v, want ErrInvalidTimeWindow", err)
		}
	})

	t.Run("RejectsEqualWindow", func(t *testing.T) {
		svc := NewScheduleService(newFakeScheduleWriter(), assessments, nil, zerolog.Nop())
		_, err := svc.Save(ctx, &model.SaveScheduleRequest{
			Title:     "Math101",
			StartTime: start,
			EndTime:   start,
		})
		if !errors.Is(err, ErrInvalidTimeWindow) {
			t.Errorf("err = %v, want ErrInvalidTimeWindow", err)
		}
	})

	t.Run("RejectsUnknownAssessment", func(t *testing.T) {
		svc := NewScheduleService(newFakeScheduleWriter(), assessments, nil, zerolog.Nop())
		_, err := svc.Save(ctx, &model.SaveScheduleRequest{
			Title:     "Nope",
			StartTime: start,
			EndTime:   start.Add(time.Hour),
		})
		if !errors.Is(err, ErrAssessmentNotFound) {
			t.Errorf("err = %v, want ErrAssessmentNotFound", err)
		}
	})

	t.Run("SelectedAssessmentNotResolvedAtSaveTime", func(t *testing.T) {
		// The reference is resolved when the detail view is assembled, so a
		// dangling selected_assessment saves fine.
		writer := newFakeScheduleWriter()
		svc := NewScheduleService(writer, assessments, nil, zerolog.Nop())
		_, err := svc.Save(ctx, &model.SaveScheduleRequest{
			Title:              "Math101",
			StartTime:          start,
			EndTime:            start.Add(time.Hour),
			SelectedAssessment: "DoesNotExistYet",
		})
		if err != nil {
			t.Fatalf("save: %v", err)
		}
	})
}

func TestScheduleGetByTitle(t *testing.T) {
	ctx := context.Background()
	writer := newFakeScheduleWriter()
	writer.records["Midterm"] = &model.ScheduleSettings{Title: "Midterm"}
	svc := NewScheduleService(writer, &fakeAssessmentStore{}, nil, zerolog.Nop())

	if _, err := svc.GetByTitle(ctx, "Midterm"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := svc.GetByTitle(ctx, "Nope"); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("err = %v, want ErrScheduleNotFound", err)
	}
}

func TestScheduleListEmpty(t *testing.T) {
	svc := NewScheduleService(newFakeScheduleWriter(), &fakeAssessmentStore{}, nil, zerolog.Nop())
	if _, err := svc.List(context.Background(), ""); !errors.Is(err, ErrNoScheduleRecords) {
		t.Errorf("err = %v, want ErrNoScheduleRecords", err)
	}
}
