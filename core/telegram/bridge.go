package telegram

import (
	"context"
	"errors"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/flow"
	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/logger"
)

// Bridge binds the transport-agnostic flow core to telebot endpoints. It is
// the only place where telebot types and flow types meet.
type Bridge struct {
	handlers *flow.Handlers
	sender   *Sender
}

// NewBridge wires the flow handlers to the outbound sender.
func NewBridge(handlers *flow.Handlers, sender *Sender) *Bridge {
	return &Bridge{handlers: handlers, sender: sender}
}

// Routes returns the three endpoints the bot serves, each wrapped with the
// recover and logging middleware.
func (b *Bridge) Routes() []Route {
	wrap := func(h tele.HandlerFunc) tele.HandlerFunc {
		return RecoverMiddleware(LoggerMiddleware(h))
	}
	return []Route{
		{Endpoint: "/start", Handler: wrap(b.onStart)},
		{Endpoint: tele.OnText, Handler: wrap(b.onText)},
		{Endpoint: tele.OnCallback, Handler: wrap(b.onCallback)},
	}
}

func (b *Bridge) onStart(c tele.Context) error {
	return b.respond(c, flow.StartCommand{})
}

func (b *Bridge) onText(c tele.Context) error {
	return b.respond(c, flow.TextMessage{Text: c.Text()})
}

func (b *Bridge) onCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	// Stop the client's loading spinner before doing any work.
	_ = c.Respond()
	return b.respond(c, flow.Callback{Token: callbackToken(cb)})
}

func (b *Bridge) respond(c tele.Context, u flow.Update) error {
	ctx := updateContext(c)

	switch r := b.handlers.Handle(ctx, u).(type) {
	case flow.Text:
		markup := RenderKeyboard(r.Keyboard)
		return b.send(ctx, "send.text", func() error {
			if markup != nil {
				return c.Send(r.Body, markup)
			}
			return c.Send(r.Body)
		})
	case flow.Location:
		loc := &tele.Location{Lat: float32(r.Lat), Lng: float32(r.Lon)}
		return b.send(ctx, "send.location", func() error {
			return c.Send(loc)
		})
	case flow.NoOp:
		return nil
	}
	return nil
}

// send runs the outbound call through the async sender, falling back to a
// synchronous send when the queue is saturated or closed.
func (b *Bridge) send(ctx context.Context, action string, run func() error) error {
	if b.sender == nil {
		return run()
	}
	if err := b.sender.Enqueue(ctx, action, run); err != nil {
		if errors.Is(err, ErrQueueFull) || errors.Is(err, ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}
