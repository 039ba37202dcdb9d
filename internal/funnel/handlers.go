package funnel

import (
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"
	"log/slog"

	"github.com/tonkolab/astrobot/core/logger"
	coretelegram "github.com/tonkolab/astrobot/core/telegram"
	"github.com/tonkolab/astrobot/core/telegram/commands"
	tghelpers "github.com/tonkolab/astrobot/core/telegram/helpers"
	"github.com/tonkolab/astrobot/core/telegram/keyboard"
	"github.com/tonkolab/astrobot/core/telegram/state"
	"github.com/tonkolab/astrobot/core/telegram/ui"
	"github.com/tonkolab/astrobot/internal/billing"
	"github.com/tonkolab/astrobot/internal/forecast"
	"github.com/tonkolab/astrobot/internal/store"
)

// Callback keys of the funnel keyboards.
const (
	cbGetForecast = "get_forecast"
	cbBuyForecast = "buy_forecast"
)

// Handlers binds the funnel service to the Telegram transport.
// It doubles as the ui.FallbackProvider for unmatched updates.
type Handlers struct {
	svc  *Service
	orch *billing.Orchestrator
}

// NewHandlers constructs the transport binding.
func NewHandlers(svc *Service, orch *billing.Orchestrator) *Handlers {
	return &Handlers{svc: svc, orch: orch}
}

// Register wires commands, callbacks and the FSM handler into the registry.
func (h *Handlers) Register(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Begin your 2026 forecast",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     h.Stats,
		Description: "Funnel totals",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback(cbGetForecast, h.BeginCapture)
	_ = reg.RegisterCallback(cbBuyForecast, h.SendInvoice)

	reg.SetTextFallback(h.UnknownText())
	reg.SetCallbackNotFound(h.UnknownCallback())

	state.RegisterHandler(StateAwaitingBirthDate, h.BirthDataMessage)
}

// Start greets the user and presents the funnel entry button.
func (h *Handlers) Start(c tele.Context) error {
	markup := keyboard.SingleButtonMarkup(btnGetForecast, cbGetForecast, "")
	return tghelpers.SendWithKeyboard(c, msgWelcome, markup)
}

// BeginCapture reacts to the entry button and asks for birth data.
func (h *Handlers) BeginCapture(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	h.svc.BeginCapture(ctx, c.Sender().ID)
	return tghelpers.SendText(c, msgAskBirthData)
}

// BirthDataMessage handles text from users in the waiting state.
func (h *Handlers) BirthDataMessage(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	preview, err := h.svc.SubmitBirthData(ctx, c.Sender().ID, c.Chat().ID, c.Text())
	switch {
	case errors.Is(err, ErrInvalidInput):
		return tghelpers.SendText(c, msgRetryBirthData)
	case errors.Is(err, forecast.ErrUnavailable):
		return tghelpers.SendText(c, msgGenerationFailed)
	case err != nil:
		if sendErr := tghelpers.SendText(c, msgStoreFailed); sendErr != nil {
			return sendErr
		}
		return err
	}
	return tghelpers.SendText(c, preview)
}

// SendInvoice issues the Stars invoice for the full forecast.
func (h *Handlers) SendInvoice(c tele.Context) error {
	return c.Send(h.orch.Invoice())
}

// Checkout answers the pre-checkout query.
func (h *Handlers) Checkout(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	q := c.PreCheckoutQuery()
	if q == nil {
		return nil
	}
	if h.orch.Approve(ctx, q.Sender.ID, q.Payload) {
		return c.Accept()
	}
	return c.Accept("Purchase unavailable")
}

// Payment fulfills a confirmed payment.
func (h *Handlers) Payment(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	text, err := h.orch.Fulfill(ctx, c.Sender().ID)
	switch {
	case errors.Is(err, billing.ErrNoRecord):
		return tghelpers.SendText(c, msgNoRecord)
	case errors.Is(err, forecast.ErrUnavailable):
		return tghelpers.SendText(c, msgGenerationFailed)
	case errors.Is(err, store.ErrNotFound):
		return tghelpers.SendText(c, msgNoRecord)
	case err != nil:
		if sendErr := tghelpers.SendText(c, msgGenerationFailed); sendErr != nil {
			return sendErr
		}
		return err
	}
	return tghelpers.SendText(c, text)
}

// Stats reports funnel totals to the admin.
func (h *Handlers) Stats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	total, fulfilled, err := h.svc.Stats(ctx)
	if err != nil {
		return err
	}
	logger.Info(ctx, "service.users", "stats.report",
		slog.String("status", "ok"),
		slog.Int64("users_total", total),
		slog.Int64("fulfilled", fulfilled),
	)
	return tghelpers.SendText(c, fmt.Sprintf("Users: %d\nPaid: %d", total, fulfilled))
}

// UnknownText nudges stray messages back into the funnel.
func (h *Handlers) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, msgUnknownText)
	}
}

// UnknownCallback answers stale keyboard presses.
func (h *Handlers) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "This button has expired"})
	}
}

var _ ui.FallbackProvider = (*Handlers)(nil)

// FollowupMessage is the delayed upsell text with its purchase button.
func FollowupMessage() (string, *tele.ReplyMarkup) {
	return msgUpsell, keyboard.SingleButtonMarkup(btnUnlockForecast, cbBuyForecast, "")
}
