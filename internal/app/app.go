// Package app assembles the bot's services and transport wiring.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"
	"log/slog"

	"github.com/tonkolab/astrobot/core/bootstrap"
	corecmd "github.com/tonkolab/astrobot/core/cmd"
	coreconfig "github.com/tonkolab/astrobot/core/config"
	"github.com/tonkolab/astrobot/core/logger"
	coretelegram "github.com/tonkolab/astrobot/core/telegram"
	"github.com/tonkolab/astrobot/core/telegram/router"
	"github.com/tonkolab/astrobot/core/telegram/state"
	"github.com/tonkolab/astrobot/internal/billing"
	"github.com/tonkolab/astrobot/internal/config"
	"github.com/tonkolab/astrobot/internal/followup"
	"github.com/tonkolab/astrobot/internal/forecast"
	"github.com/tonkolab/astrobot/internal/funnel"
	"github.com/tonkolab/astrobot/internal/store"
)

// App is the service root owning every constructed dependency.
type App struct {
	cfg *config.Config
	db  *sqlx.DB

	states    state.Manager
	users     store.Store
	scheduler *followup.Scheduler
	handlers  *funnel.Handlers
}

// New bootstraps infrastructure and wires the funnel services.
func New(cfg *config.Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	states := state.NewMemoryManager()
	users := store.NewPostgresStore(res.DB)
	generator := forecast.NewClient(cfg.OpenAI)
	scheduler := followup.NewScheduler(followup.Options{
		QueueSize: cfg.Funnel.FollowupQueueSize,
		Workers:   cfg.Funnel.FollowupWorkers,
	})

	delay := time.Duration(cfg.Funnel.FollowupDelaySeconds) * time.Second
	svc := funnel.NewService(states, users, generator, scheduler, delay)
	orch := billing.NewOrchestrator(cfg.Funnel, users, generator)

	return &App{
		cfg:       cfg,
		db:        res.DB,
		states:    states,
		users:     users,
		scheduler: scheduler,
		handlers:  funnel.NewHandlers(svc, orch),
	}, nil
}

// CoreConfig implements corecmd.ConfigCarrier.
func (a *App) CoreConfig() *coreconfig.Config {
	return a.cfg.CoreConfig()
}

// TelegramRunOptions builds the transport wiring for the bot runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.handlers.Register(reg)

	core := a.cfg.CoreConfig()

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: core.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoute(a.states, reg, router.TextOptions{}))
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.PaymentRoutes(router.PaymentOptions{
		Checkout: a.handlers.Checkout,
		Payment:  a.handlers.Payment,
	})...)

	return coretelegram.RunOptions{
		Config:      core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(core, nil),
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

// onStart binds the follow-up delivery path to the live bot handle.
func (a *App) onStart(ctx context.Context, rt coretelegram.Runtime) error {
	bot := rt.Bot
	if bot == nil {
		return fmt.Errorf("app: runtime has no bot handle")
	}

	a.scheduler.Start(func(ctx context.Context, job followup.Job) error {
		text, markup := funnel.FollowupMessage()
		_, err := bot.Send(tele.ChatID(job.ChatID), text, markup)
		return err
	})

	logger.Info(ctx, "app", "funnel.ready",
		slog.String("status", "ok"),
		slog.Int("price", a.cfg.Funnel.PriceStars),
		slog.Int64("delay_ms", (time.Duration(a.cfg.Funnel.FollowupDelaySeconds)*time.Second).Milliseconds()),
	)
	return nil
}

// onStop drains the follow-up queue and releases the database pool.
func (a *App) onStop(ctx context.Context, _ coretelegram.Runtime) error {
	a.scheduler.Close()
	if err := a.db.Close(); err != nil {
		logger.Warn(ctx, "app", "db.close_failed",
			slog.String("err", err.Error()),
		)
	}
	return nil
}

var _ corecmd.ConfigCarrier = (*App)(nil)
var _ corecmd.TelegramApp = (*App)(nil)
