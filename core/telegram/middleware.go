package telegram

import (
	"context"
	"log/slog"
	"runtime/debug"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/logger"
)

const contextKey = "logger_ctx"

// RecoverMiddleware catches panics in handlers so one bad update cannot
// crash the bot process.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(context.Background(), "tg", "panic.recovered",
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()
		return next(c)
	}
}

// LoggerMiddleware builds the per-update context (rid plus update metadata),
// stores it on the telebot context, and logs one receipt line.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		chatID, userID := int64(0), int64(0)
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		if user := c.Sender(); user != nil {
			userID = user.ID
		}

		rid := logger.BuildRID(upd.ID, chatID, userID)
		ctx := logger.WithRID(context.Background(), rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		ctx = logger.WithLogger(ctx, logger.TG)
		c.Set(contextKey, ctx)

		attrs := []slog.Attr{
			slog.String("rid", rid),
			slog.Int("update_id", upd.ID),
		}
		switch {
		case upd.Callback != nil:
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(callbackToken(upd.Callback), 256)))
		case upd.Message != nil:
			if t := c.Text(); t != "" {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
			}
		}
		logger.Debug(ctx, "tg", "update.received", attrs...)

		return next(c)
	}
}

// updateContext returns the context stored by LoggerMiddleware, or builds a
// fresh one when a handler runs without the middleware.
func updateContext(c tele.Context) context.Context {
	if v := c.Get(contextKey); v != nil {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}
	return context.Background()
}

// callbackToken extracts the raw token from telebot's callback data,
// dropping the "\f" prefix telebot prepends for registered uniques.
func callbackToken(cb *tele.Callback) string {
	if cb == nil {
		return ""
	}
	return strings.TrimPrefix(cb.Data, "\f")
}
