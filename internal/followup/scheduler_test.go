package followup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu   sync.Mutex
	jobs []Job
	done chan struct{}
}

func newRecorder(expect int) *recorder {
	return &recorder{done: make(chan struct{}, expect)}
}

func (r *recorder) deliver(_ context.Context, job Job) error {
	r.mu.Lock()
	r.jobs = append(r.jobs, job)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func (r *recorder) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d/%d", i+1, n)
		}
	}
}

func TestScheduleDeliversAfterDelay(t *testing.T) {
	rec := newRecorder(1)
	s := NewScheduler(Options{})
	s.Start(rec.deliver)
	defer s.Close()

	start := time.Now()
	id, err := s.Schedule(context.Background(), 7, 9, 30*time.Millisecond)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if id == "" {
		t.Fatal("empty job id")
	}

	rec.wait(t, 1)
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("delivered after %v, before the delay elapsed", elapsed)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(rec.jobs))
	}
	if rec.jobs[0].UserID != 7 || rec.jobs[0].ChatID != 9 {
		t.Errorf("job = %+v", rec.jobs[0])
	}
}

func TestScheduleNoDedup(t *testing.T) {
	rec := newRecorder(2)
	s := NewScheduler(Options{})
	s.Start(rec.deliver)
	defer s.Close()

	ctx := context.Background()
	if _, err := s.Schedule(ctx, 7, 9, 10*time.Millisecond); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if _, err := s.Schedule(ctx, 7, 9, 10*time.Millisecond); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	rec.wait(t, 2)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.jobs) != 2 {
		t.Fatalf("got %d jobs, want 2 (no deduplication)", len(rec.jobs))
	}
	if rec.jobs[0].ID == rec.jobs[1].ID {
		t.Error("job ids collided")
	}
}

func TestScheduleAfterClose(t *testing.T) {
	s := NewScheduler(Options{})
	s.Start(func(context.Context, Job) error { return nil })
	s.Close()

	if _, err := s.Schedule(context.Background(), 1, 1, time.Millisecond); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}

func TestLateTimerAfterCloseIsDropped(t *testing.T) {
	rec := newRecorder(1)
	s := NewScheduler(Options{})
	s.Start(rec.deliver)

	if _, err := s.Schedule(context.Background(), 1, 1, 50*time.Millisecond); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	s.Close()

	select {
	case <-rec.done:
		t.Fatal("job delivered after close")
	case <-time.After(120 * time.Millisecond):
	}
}

func TestDeliveryErrorDoesNotStopWorkers(t *testing.T) {
	rec := newRecorder(1)
	var first sync.Once
	failThenRecord := func(ctx context.Context, job Job) error {
		var failed bool
		first.Do(func() { failed = true })
		if failed {
			return errors.New("send failed")
		}
		return rec.deliver(ctx, job)
	}

	s := NewScheduler(Options{Workers: 1})
	s.Start(failThenRecord)
	defer s.Close()

	ctx := context.Background()
	if _, err := s.Schedule(ctx, 1, 1, time.Millisecond); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if _, err := s.Schedule(ctx, 2, 2, 5*time.Millisecond); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	rec.wait(t, 1)
}
