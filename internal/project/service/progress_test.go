package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"buildpro/internal/project/model"
	"buildpro/pkg/apperr"
)

type fakeProgressStore struct {
	progress   map[int]float64
	phase      map[int]string
	historyAt  map[string]float64
	applyCalls int
}

func newFakeProgressStore(projectIDs ...int) *fakeProgressStore {
	s := &fakeProgressStore{
		progress:  make(map[int]float64),
		phase:     make(map[int]string),
		historyAt: make(map[string]float64),
	}
	for _, id := range projectIDs {
		s.progress[id] = 0
	}
	return s
}

func (s *fakeProgressStore) ApplyProgress(_ context.Context, projectID int, progress float64, phase string, recordDate time.Time, _ string) (bool, error) {
	if _, ok := s.progress[projectID]; !ok {
		return false, nil
	}
	s.applyCalls++
	s.progress[projectID] = progress
	if phase != "" {
		s.phase[projectID] = phase
	}
	key := recordDate.Format("2006-01-02")
	s.historyAt[key] = progress
	return true, nil
}

type fakeLogStore struct {
	sums map[int]float64
}

func (s *fakeLogStore) SumProgress(_ context.Context, projectID int) (float64, error) {
	return s.sums[projectID], nil
}

type fakeMilestoneClient struct {
	calls []float64
	err   error
}

func (c *fakeMilestoneClient) ProcessMilestone(_ context.Context, _ int, progress float64) error {
	c.calls = append(c.calls, progress)
	return c.err
}

func TestRecomputeProgress(t *testing.T) {
	ctx := context.Background()
	today := time.Now()

	t.Run("progress is the clamped log sum", func(t *testing.T) {
		store := newFakeProgressStore(1)
		logs := &fakeLogStore{sums: map[int]float64{1: 0}}
		client := &fakeMilestoneClient{}
		svc := NewProgressService(store, logs, client, zap.NewNop())

		for _, tc := range []struct {
			sum  float64
			want float64
		}{
			{0, 0},
			{37.5, 37.5},
			{120, 100},
		} {
			logs.sums[1] = tc.sum
			got, err := svc.RecomputeProgress(ctx, 1, today, "log change")
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("sum %v: expected %v, got %v", tc.sum, tc.want, got)
			}
			if store.progress[1] != tc.want {
				t.Fatalf("sum %v: store has %v", tc.sum, store.progress[1])
			}
		}
	})

	t.Run("deleting all logs resets to zero", func(t *testing.T) {
		store := newFakeProgressStore(1)
		logs := &fakeLogStore{sums: map[int]float64{1: 60}}
		svc := NewProgressService(store, logs, &fakeMilestoneClient{}, zap.NewNop())

		if _, err := svc.RecomputeProgress(ctx, 1, today, ""); err != nil {
			t.Fatal(err)
		}
		logs.sums[1] = 0
		got, err := svc.RecomputeProgress(ctx, 1, today, "")
		if err != nil {
			t.Fatal(err)
		}
		if got != 0 {
			t.Fatalf("expected 0, got %v", got)
		}
	})

	t.Run("unknown project is not found", func(t *testing.T) {
		svc := NewProgressService(newFakeProgressStore(), &fakeLogStore{sums: map[int]float64{}}, &fakeMilestoneClient{}, zap.NewNop())
		_, err := svc.RecomputeProgress(ctx, 42, today, "")
		if apperr.KindOf(err) != apperr.KindNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("milestone call failure does not fail the recompute", func(t *testing.T) {
		store := newFakeProgressStore(1)
		logs := &fakeLogStore{sums: map[int]float64{1: 40}}
		client := &fakeMilestoneClient{err: errors.New("connection refused")}
		svc := NewProgressService(store, logs, client, zap.NewNop())

		got, err := svc.RecomputeProgress(ctx, 1, today, "")
		if err != nil {
			t.Fatal(err)
		}
		if got != 40 {
			t.Fatalf("expected 40, got %v", got)
		}
		if store.progress[1] != 40 {
			t.Fatal("progress must be persisted even when the milestone call fails")
		}
		if len(client.calls) != 1 {
			t.Fatalf("expected 1 milestone call, got %d", len(client.calls))
		}
	})

	t.Run("milestone client receives the new progress", func(t *testing.T) {
		store := newFakeProgressStore(1)
		logs := &fakeLogStore{sums: map[int]float64{1: 55}}
		client := &fakeMilestoneClient{}
		svc := NewProgressService(store, logs, client, zap.NewNop())

		if _, err := svc.RecomputeProgress(ctx, 1, today, ""); err != nil {
			t.Fatal(err)
		}
		if len(client.calls) != 1 || client.calls[0] != 55 {
			t.Fatalf("expected milestone call with 55, got %v", client.calls)
		}
	})
}

func TestOverrideProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects out-of-range values", func(t *testing.T) {
		svc := NewProgressService(newFakeProgressStore(1), &fakeLogStore{sums: map[int]float64{}}, &fakeMilestoneClient{}, zap.NewNop())
		for _, progress := range []float64{-0.1, 100.1} {
			err := svc.OverrideProgress(ctx, 1, progress)
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Fatalf("progress %v: expected validation error, got %v", progress, err)
			}
		}
	})

	t.Run("writes value directly and derives phase", func(t *testing.T) {
		for _, tc := range []struct {
			progress  float64
			wantPhase string
		}{
			{0, model.PhasePlanning},
			{15, model.PhaseFoundation},
			{45, model.PhaseStructure},
			{85, model.PhaseFinishing},
			{100, model.PhaseDone},
		} {
			store := newFakeProgressStore(1)
			svc := NewProgressService(store, &fakeLogStore{sums: map[int]float64{1: 5}}, &fakeMilestoneClient{}, zap.NewNop())

			if err := svc.OverrideProgress(ctx, 1, tc.progress); err != nil {
				t.Fatal(err)
			}
			if store.progress[1] != tc.progress {
				t.Fatalf("progress %v: store has %v", tc.progress, store.progress[1])
			}
			if store.phase[1] != tc.wantPhase {
				t.Fatalf("progress %v: expected phase %s, got %s", tc.progress, tc.wantPhase, store.phase[1])
			}
		}
	})

	t.Run("override is replaced by the next recompute", func(t *testing.T) {
		store := newFakeProgressStore(1)
		logs := &fakeLogStore{sums: map[int]float64{1: 30}}
		svc := NewProgressService(store, logs, &fakeMilestoneClient{}, zap.NewNop())

		if err := svc.OverrideProgress(ctx, 1, 90); err != nil {
			t.Fatal(err)
		}
		if store.progress[1] != 90 {
			t.Fatalf("expected 90 after override, got %v", store.progress[1])
		}

		got, err := svc.RecomputeProgress(ctx, 1, time.Now(), "log change")
		if err != nil {
			t.Fatal(err)
		}
		if got != 30 || store.progress[1] != 30 {
			t.Fatalf("recompute must overwrite the override, got %v", store.progress[1])
		}
	})

	t.Run("unknown project is not found", func(t *testing.T) {
		svc := NewProgressService(newFakeProgressStore(), &fakeLogStore{sums: map[int]float64{}}, &fakeMilestoneClient{}, zap.NewNop())
		err := svc.OverrideProgress(ctx, 42, 50)
		if apperr.KindOf(err) != apperr.KindNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestPlannedProgressFor(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	if got := model.PlannedProgressFor(start, end, start.AddDate(0, 0, -10)); got != 0 {
		t.Fatalf("before start: expected 0, got %v", got)
	}
	if got := model.PlannedProgressFor(start, end, end.AddDate(0, 0, 10)); got != 100 {
		t.Fatalf("after end: expected 100, got %v", got)
	}
	mid := start.Add(end.Sub(start) / 2)
	if got := model.PlannedProgressFor(start, end, mid); got < 49 || got > 51 {
		t.Fatalf("midpoint: expected ~50, got %v", got)
	}
}
