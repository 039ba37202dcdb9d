package funnel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tonkolab/astrobot/core/telegram/state"
	"github.com/tonkolab/astrobot/internal/birthdata"
	"github.com/tonkolab/astrobot/internal/followup"
	"github.com/tonkolab/astrobot/internal/forecast"
	"github.com/tonkolab/astrobot/internal/store"
)

type scriptedGenerator struct {
	mu         sync.Mutex
	previewErr error
	inputs     []string

	// users, when set, is inspected at call time to verify the record
	// was durable before generation started.
	users           store.Store
	sawPersisted    bool
	persistedUserID int64
}

func (g *scriptedGenerator) Preview(ctx context.Context, data birthdata.BirthData) (string, error) {
	g.mu.Lock()
	g.inputs = append(g.inputs, data.String())
	if g.users != nil {
		_, err := g.users.Get(ctx, g.persistedUserID)
		g.sawPersisted = err == nil
	}
	g.mu.Unlock()
	if g.previewErr != nil {
		return "", g.previewErr
	}
	return "preview for " + data.String(), nil
}

func (g *scriptedGenerator) Full(context.Context, birthdata.BirthData) (string, error) {
	return "", nil
}

type failingStore struct {
	store.Store
}

func (failingStore) Upsert(context.Context, int64, string) error {
	return errors.New("db down")
}

func newTestService(gen forecast.Generator, users store.Store) (*Service, state.Manager, *followup.Scheduler) {
	states := state.NewMemoryManager()
	sched := followup.NewScheduler(followup.Options{Workers: 1})
	svc := NewService(states, users, gen, sched, 10*time.Millisecond)
	return svc, states, sched
}

func TestBeginCaptureSetsState(t *testing.T) {
	svc, states, sched := newTestService(&scriptedGenerator{}, store.NewMemoryStore())
	defer sched.Close()

	svc.BeginCapture(context.Background(), 7)
	if states.GetState(7) != StateAwaitingBirthDate {
		t.Fatalf("state = %q", states.GetState(7))
	}
	if !svc.InCapture(7) {
		t.Error("InCapture = false")
	}
}

func TestSubmitPersistsBeforeGenerating(t *testing.T) {
	ctx := context.Background()
	users := store.NewMemoryStore()
	gen := &scriptedGenerator{users: users, persistedUserID: 7}
	svc, states, sched := newTestService(gen, users)
	defer sched.Close()

	svc.BeginCapture(ctx, 7)
	preview, err := svc.SubmitBirthData(ctx, 7, 7, "born 15.03.1990 in Riga")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if preview != "preview for 15.03.1990 12:00" {
		t.Errorf("preview = %q", preview)
	}
	if !gen.sawPersisted {
		t.Error("generation started before the record was durable")
	}

	rec, err := users.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.BirthData != "15.03.1990 12:00" {
		t.Errorf("birth_data = %q", rec.BirthData)
	}
	if rec.Fulfilled {
		t.Error("fresh record marked fulfilled")
	}
	if states.GetState(7) != state.StateIdle {
		t.Errorf("state = %q, want idle", states.GetState(7))
	}
}

func TestSubmitInvalidKeepsState(t *testing.T) {
	ctx := context.Background()
	users := store.NewMemoryStore()
	svc, states, sched := newTestService(&scriptedGenerator{}, users)
	defer sched.Close()

	svc.BeginCapture(ctx, 7)
	_, err := svc.SubmitBirthData(ctx, 7, 7, "tomorrow maybe")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if states.GetState(7) != StateAwaitingBirthDate {
		t.Error("session left the waiting state on invalid input")
	}
	if _, err := users.Get(ctx, 7); !errors.Is(err, store.ErrNotFound) {
		t.Error("record written for rejected input")
	}
}

func TestSubmitGenerationFailureAfterPersist(t *testing.T) {
	ctx := context.Background()
	gen := &scriptedGenerator{previewErr: forecast.ErrUnavailable}
	users := store.NewMemoryStore()
	svc, states, sched := newTestService(gen, users)
	defer sched.Close()

	svc.BeginCapture(ctx, 7)
	_, err := svc.SubmitBirthData(ctx, 7, 7, "15.03.1990")
	if !errors.Is(err, forecast.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}

	// The record survived even though generation failed.
	rec, err := users.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.BirthData != "15.03.1990 12:00" {
		t.Errorf("birth_data = %q", rec.BirthData)
	}
	if states.GetState(7) != state.StateIdle {
		t.Error("capture stayed open after accepted input")
	}
}

func TestSubmitStoreFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	svc, states, sched := newTestService(&scriptedGenerator{}, failingStore{})
	defer sched.Close()

	svc.BeginCapture(ctx, 7)
	_, err := svc.SubmitBirthData(ctx, 7, 7, "15.03.1990")
	if err == nil || errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want persistence failure", err)
	}
	if states.GetState(7) != StateAwaitingBirthDate {
		t.Error("state cleared although the record was not saved")
	}
}

func TestSubmitSchedulesFollowup(t *testing.T) {
	ctx := context.Background()
	users := store.NewMemoryStore()

	states := state.NewMemoryManager()
	sched := followup.NewScheduler(followup.Options{Workers: 1})
	delivered := make(chan followup.Job, 1)
	sched.Start(func(_ context.Context, job followup.Job) error {
		delivered <- job
		return nil
	})
	defer sched.Close()

	svc := NewService(states, users, &scriptedGenerator{}, sched, 5*time.Millisecond)
	svc.BeginCapture(ctx, 7)
	if _, err := svc.SubmitBirthData(ctx, 7, 99, "15.03.1990"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case job := <-delivered:
		if job.UserID != 7 || job.ChatID != 99 {
			t.Errorf("job = %+v", job)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("follow-up never fired")
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	users := store.NewMemoryStore()
	svc, _, sched := newTestService(&scriptedGenerator{}, users)
	defer sched.Close()

	_ = users.Upsert(ctx, 1, "01.01.2000 12:00")
	_ = users.Upsert(ctx, 2, "02.01.2000 12:00")
	_ = users.MarkFulfilled(ctx, 1)

	total, fulfilled, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if total != 2 || fulfilled != 1 {
		t.Errorf("total=%d fulfilled=%d", total, fulfilled)
	}
}
