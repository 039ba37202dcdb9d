// Package billing drives the Telegram Stars purchase flow.
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"
	"log/slog"

	"github.com/tonkolab/astrobot/core/logger"
	"github.com/tonkolab/astrobot/internal/birthdata"
	"github.com/tonkolab/astrobot/internal/config"
	"github.com/tonkolab/astrobot/internal/forecast"
	"github.com/tonkolab/astrobot/internal/store"
)

// ErrNoRecord indicates a payment arrived for a user with no stored birth data.
var ErrNoRecord = errors.New("billing: no user record for payment")

// StarsCurrency is the Telegram Stars currency code.
const StarsCurrency = "XTR"

// Product describes the single purchasable item.
type Product struct {
	Title       string
	Description string
	PayloadTag  string
	PriceStars  int
}

// Orchestrator validates checkouts and fulfills paid orders.
type Orchestrator struct {
	product   Product
	users     store.Store
	generator forecast.Generator
}

// NewOrchestrator builds an Orchestrator from funnel configuration.
func NewOrchestrator(cfg config.FunnelConfig, users store.Store, generator forecast.Generator) *Orchestrator {
	return &Orchestrator{
		product: Product{
			Title:       "Personal forecast for 2026",
			Description: "Your complete astrological forecast for 2026: love, career, money, health and the pivotal month.",
			PayloadTag:  cfg.PayloadTag,
			PriceStars:  cfg.PriceStars,
		},
		users:     users,
		generator: generator,
	}
}

// Invoice builds the Stars invoice for the forecast. Stars invoices carry
// no provider token.
func (o *Orchestrator) Invoice() *tele.Invoice {
	return &tele.Invoice{
		Title:       o.product.Title,
		Description: o.product.Description,
		Payload:     o.product.PayloadTag,
		Currency:    StarsCurrency,
		Prices: []tele.Price{
			{Label: o.product.Title, Amount: o.product.PriceStars},
		},
	}
}

// Approve answers a pre-checkout query. Every query is accepted; the
// stored record is only consulted at fulfillment time.
func (o *Orchestrator) Approve(ctx context.Context, userID int64, payload string) bool {
	logger.Info(ctx, "service.billing", "checkout.approved",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("payload", payload),
		slog.Int("price", o.product.PriceStars),
		slog.String("currency", StarsCurrency),
	)
	return true
}

// Fulfill generates the full forecast for a paid user and marks the
// record fulfilled. A repeated payment for an already fulfilled record
// regenerates and redelivers without error.
func (o *Orchestrator) Fulfill(ctx context.Context, userID int64) (string, error) {
	start := time.Now()

	rec, err := o.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Error(ctx, "service.billing", "fulfill.no_record",
				slog.String("status", "fail"),
				slog.Int64("user_id", userID),
			)
			return "", ErrNoRecord
		}
		return "", fmt.Errorf("billing: load record: %w", err)
	}

	data, err := birthdata.Parse(rec.BirthData)
	if err != nil {
		return "", fmt.Errorf("billing: stored birth data %q: %w", rec.BirthData, err)
	}

	text, err := o.generator.Full(ctx, data)
	if err != nil {
		return "", fmt.Errorf("billing: generate full forecast: %w", err)
	}

	if err := o.users.MarkFulfilled(ctx, userID); err != nil {
		return "", fmt.Errorf("billing: mark fulfilled: %w", err)
	}

	logger.Info(ctx, "service.billing", "fulfill.ok",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Bool("fulfilled", true),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	return text, nil
}
