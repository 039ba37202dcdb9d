package router

import (
	"time"

	tg "github.com/tonkolab/astrobot/core/telegram"
	"github.com/tonkolab/astrobot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// PaymentOptions holds the handlers for the two payment endpoints.
type PaymentOptions struct {
	Checkout tele.HandlerFunc
	Payment  tele.HandlerFunc
}

// PaymentRoutes builds routes for pre-checkout queries and successful payments.
func PaymentRoutes(opts PaymentOptions) []tg.Route {
	var routes []tg.Route

	if opts.Checkout != nil {
		h := opts.Checkout
		routes = append(routes, tg.Route{
			Endpoint: tele.OnCheckout,
			Handler: middleware.RecoverMiddleware(middleware.LoggerMiddleware(func(c tele.Context) error {
				start := time.Now()
				return handleWithSummary(c, "checkout", start, "", "", func() error {
					return h(c)
				})
			})),
		})
	}

	if opts.Payment != nil {
		h := opts.Payment
		routes = append(routes, tg.Route{
			Endpoint: tele.OnPayment,
			Handler: middleware.RecoverMiddleware(middleware.LoggerMiddleware(func(c tele.Context) error {
				start := time.Now()
				return handleWithSummary(c, "payment", start, "", "", func() error {
					return h(c)
				})
			})),
		})
	}

	return routes
}
