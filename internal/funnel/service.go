// Package funnel implements the conversational sales funnel: birth data
// capture, free preview, delayed upsell, and paid fulfillment.
package funnel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/tonkolab/astrobot/core/logger"
	"github.com/tonkolab/astrobot/core/telegram/state"
	"github.com/tonkolab/astrobot/internal/birthdata"
	"github.com/tonkolab/astrobot/internal/followup"
	"github.com/tonkolab/astrobot/internal/forecast"
	"github.com/tonkolab/astrobot/internal/store"
)

// StateAwaitingBirthDate marks a user who was asked for their birth date.
const StateAwaitingBirthDate state.State = "awaiting_birth_date"

// ErrInvalidInput indicates the message could not be parsed as birth data.
// The session stays in the waiting state so the user can retry.
var ErrInvalidInput = errors.New("funnel: invalid birth data input")

// Service holds the transport-free funnel logic.
type Service struct {
	states    state.Manager
	users     store.Store
	generator forecast.Generator
	scheduler *followup.Scheduler
	delay     time.Duration
}

// NewService wires the funnel dependencies.
func NewService(states state.Manager, users store.Store, generator forecast.Generator, scheduler *followup.Scheduler, delay time.Duration) *Service {
	return &Service{
		states:    states,
		users:     users,
		generator: generator,
		scheduler: scheduler,
		delay:     delay,
	}
}

// BeginCapture puts the user into the birth data waiting state.
func (s *Service) BeginCapture(ctx context.Context, userID int64) {
	s.states.SetState(userID, StateAwaitingBirthDate)
	logger.Info(ctx, "service.users", "capture.begin",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(StateAwaitingBirthDate)),
	)
}

// SubmitBirthData handles a text message from a user in the waiting state.
//
// The record is persisted before the generation call starts, so a crash
// mid-generation cannot lose the submitted input. The session returns to
// idle as soon as the record is durable; generation failures after that
// point surface to the user but do not reopen the capture.
func (s *Service) SubmitBirthData(ctx context.Context, userID, chatID int64, text string) (string, error) {
	data, err := birthdata.Parse(text)
	if err != nil {
		logger.Debug(ctx, "service.users", "capture.rejected",
			slog.String("status", "skip"),
			slog.Int64("user_id", userID),
			slog.String("payload", logger.SanitizeLimit(text, 128)),
		)
		return "", ErrInvalidInput
	}

	normalized := data.String()
	if err := s.users.Upsert(ctx, userID, normalized); err != nil {
		return "", fmt.Errorf("funnel: persist birth data: %w", err)
	}
	s.states.ClearState(userID)

	logger.Info(ctx, "service.users", "capture.accepted",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("birth_data", normalized),
	)

	preview, err := s.generator.Preview(ctx, data)
	if err != nil {
		return "", err
	}

	if _, err := s.scheduler.Schedule(ctx, userID, chatID, s.delay); err != nil {
		// The preview was produced; a lost upsell must not fail the reply.
		logger.Warn(ctx, "service.followup", "schedule.skipped",
			slog.String("status", "skip"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
	return preview, nil
}

// InCapture reports whether the user is currently expected to send birth data.
func (s *Service) InCapture(userID int64) bool {
	return s.states.GetState(userID) == StateAwaitingBirthDate
}

// Stats returns funnel totals for the admin report.
func (s *Service) Stats(ctx context.Context) (total, fulfilled int64, err error) {
	total, err = s.users.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	fulfilled, err = s.users.CountFulfilled(ctx)
	if err != nil {
		return 0, 0, err
	}
	return total, fulfilled, nil
}
