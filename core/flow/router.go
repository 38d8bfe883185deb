package flow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/callbacks"
	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/catalog"
	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/logger"
	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/store"
)

// Handle is the single entry point for the interaction core. Routing is
// stateless per update: everything a handler needs is in the token or the
// store, so the bot survives restarts and every screen replays from its
// token. Handle never returns an error; every failure becomes a user-visible
// message so one malformed update cannot take down the per-update task.
func (h *Handlers) Handle(ctx context.Context, u Update) Response {
	start := time.Now()
	name, resp := h.dispatch(ctx, u)
	logger.Info(logger.WithHandler(ctx, name), "flow", "handler.handled",
		slog.Int64("duration_ms", logger.Took(start).Milliseconds()),
	)
	return resp
}

// dispatch applies the routing precedence: exact command, then region text
// match, then callback token.
func (h *Handlers) dispatch(ctx context.Context, u Update) (string, Response) {
	switch u := u.(type) {
	case StartCommand:
		return "start", h.regionList(ctx)
	case TextMessage:
		snap := h.snapshot(ctx)
		if region, ok := snap.FindRegion(u.Text); ok {
			return "region." + region, h.restaurantList(snap, region)
		}
		return "unknown_text", Text{Body: msgNotUnderstood}
	case Callback:
		return h.dispatchCallback(ctx, u.Token)
	}
	return "noop", NoOp{}
}

func (h *Handlers) dispatchCallback(ctx context.Context, token string) (string, Response) {
	action, fields, err := callbacks.Decode(token)
	if err != nil {
		logger.Warn(ctx, "flow", "callback.rejected",
			slog.String("token", logger.SanitizeLimit(token, 128)),
			slog.String("err", err.Error()),
		)
		return "callback.rejected", Text{Body: msgNotUnderstood}
	}

	name := "callback." + string(action)
	switch action {
	case callbacks.ActionRestaurant:
		return name, h.withRef(ctx, fields[0], fields[1], h.restaurantDetail)
	case callbacks.ActionMenu:
		return name, h.withRef(ctx, fields[0], fields[1], h.menu)
	case callbacks.ActionLocation:
		return name, h.withRef(ctx, fields[0], fields[1], h.location)
	case callbacks.ActionOrder:
		return name, h.withRef(ctx, fields[0], fields[1], h.orderItemList)
	case callbacks.ActionBuy:
		return name, h.orderConfirm(fields[2])
	case callbacks.ActionRating:
		return name, h.withRef(ctx, fields[0], fields[1], h.ratingPrompt)
	case callbacks.ActionRate:
		return name, h.ratingCommit(ctx, fields[0], fields[1])
	}
	// Unreachable while Decode and this switch cover the same action set.
	return "callback.rejected", Text{Body: msgNotUnderstood}
}

// withRef resolves the (region, index) token fields against a fresh snapshot
// and hands both to the screen handler. A stale ref degrades to a not-found
// reply instead of crashing.
func (h *Handlers) withRef(ctx context.Context, region, index string, fn func(catalog.Snapshot, catalog.Ref, catalog.Restaurant) Response) Response {
	ref, err := catalog.ParseRef(region, index)
	if err != nil {
		return Text{Body: msgNotFound}
	}
	snap := h.snapshot(ctx)
	rest, err := snap.Restaurant(ref)
	if err != nil {
		logger.Warn(ctx, "flow", "ref.stale",
			slog.String("ref", ref.ID()),
			slog.String("err", err.Error()),
		)
		return Text{Body: msgNotFound}
	}
	return fn(snap, ref, rest)
}

// snapshot loads the catalog, degrading to an empty one on store failure.
// The failure is logged for operators but never reaches the user as an error.
func (h *Handlers) snapshot(ctx context.Context) catalog.Snapshot {
	snap, err := h.store.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			logger.Warn(ctx, "flow", "catalog.degraded",
				slog.String("err", err.Error()),
			)
		} else {
			logger.Error(ctx, "flow", "catalog.load_failed",
				slog.String("err", err.Error()),
			)
		}
		return catalog.NewSnapshot()
	}
	return snap
}
