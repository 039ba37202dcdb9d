// Package followup schedules the delayed upsell message that follows a
// free preview.
package followup

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"log/slog"

	"github.com/tonkolab/astrobot/core/logger"
)

// ErrClosed is returned when scheduling is attempted after shutdown.
var ErrClosed = errors.New("followup: scheduler closed")

// Job identifies one pending follow-up delivery.
type Job struct {
	ID     string
	UserID int64
	ChatID int64
}

// DeliverFunc sends the follow-up message for a due job.
type DeliverFunc func(ctx context.Context, job Job) error

// Options tunes the scheduler queue.
type Options struct {
	QueueSize int
	Workers   int
}

// Scheduler arms one-shot timers and delivers due jobs through a worker
// pool. Jobs fire regardless of what the user did in the meantime; there
// is no deduplication or cancellation. Pending timers do not survive a
// process restart.
type Scheduler struct {
	opts    Options
	deliver DeliverFunc

	mu     sync.RWMutex
	closed bool
	jobs   chan Job
	wg     sync.WaitGroup
}

// NewScheduler constructs a stopped scheduler; call Start before Schedule.
func NewScheduler(opts Options) *Scheduler {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	return &Scheduler{
		opts: opts,
		jobs: make(chan Job, opts.QueueSize),
	}
}

// Start binds the delivery function and launches workers.
func (s *Scheduler) Start(deliver DeliverFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deliver != nil || s.closed {
		return
	}
	s.deliver = deliver

	s.wg.Add(s.opts.Workers)
	for i := 0; i < s.opts.Workers; i++ {
		go s.worker()
	}
}

// Schedule arms a one-shot timer that enqueues the job after delay.
// The returned job ID is for log correlation only.
func (s *Scheduler) Schedule(ctx context.Context, userID, chatID int64, delay time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", ErrClosed
	}

	job := Job{
		ID:     uuid.NewString(),
		UserID: userID,
		ChatID: chatID,
	}

	logger.Info(ctx, "service.followup", "job.scheduled",
		slog.String("status", "ok"),
		slog.String("job_id", job.ID),
		slog.Int64("user_id", userID),
		slog.Int64("chat_id", chatID),
		slog.Int64("delay_ms", delay.Milliseconds()),
		slog.Int("jobs_pending", len(s.jobs)),
	)

	time.AfterFunc(delay, func() {
		s.enqueue(job)
	})
	return job.ID, nil
}

func (s *Scheduler) enqueue(job Job) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		logger.Warn(logger.Background(), "service.followup", "job.dropped",
			slog.String("status", "skip"),
			slog.String("job_id", job.ID),
			slog.String("reason", "closed"),
		)
		return
	}
	select {
	case s.jobs <- job:
	default:
		logger.Error(logger.Background(), "service.followup", "job.dropped",
			slog.String("status", "fail"),
			slog.String("job_id", job.ID),
			slog.String("reason", "queue_full"),
		)
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()
	for job := range s.jobs {
		s.handle(job)
	}
}

func (s *Scheduler) handle(job Job) {
	ctx := logger.Background()
	start := time.Now()
	if err := s.deliver(ctx, job); err != nil {
		logger.Error(ctx, "service.followup", "job.fail",
			slog.String("status", "fail"),
			slog.String("job_id", job.ID),
			slog.Int64("user_id", job.UserID),
			slog.Int64("chat_id", job.ChatID),
			slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
			slog.String("err", err.Error()),
		)
		return
	}
	logger.Info(ctx, "service.followup", "job.delivered",
		slog.String("status", "ok"),
		slog.String("job_id", job.ID),
		slog.Int64("user_id", job.UserID),
		slog.Int64("chat_id", job.ChatID),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
}

// Close stops accepting jobs and waits for queued deliveries to finish.
// Timers that fire later are dropped.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	started := s.deliver != nil
	s.mu.Unlock()

	close(s.jobs)
	if started {
		s.wg.Wait()
	}
}
