package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/logger"
)

// ErrInvalidRating reports a rating value outside [1,5]. Tokens are generated
// with in-range values only, but the handler side must not trust them.
var ErrInvalidRating = errors.New("catalog: rating out of range")

// Strategy selects how submitted ratings are aggregated. The choice is fixed
// per deployment: the two strategies persist different shapes and are not
// interchangeable once data exists.
type Strategy string

const (
	// StrategyAppend keeps every sample; the average is the arithmetic mean.
	StrategyAppend Strategy = "append"
	// StrategyOverwrite keeps the last value only; the average equals it.
	StrategyOverwrite Strategy = "overwrite"
)

// RatingStore is the slice of the data store the aggregator needs.
type RatingStore interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// Aggregator records rating submissions and keeps the stored state and the
// reported average consistent under concurrent updates.
type Aggregator struct {
	store    RatingStore
	strategy Strategy

	// mu linearizes the load-mutate-save cycle so concurrent submissions for
	// the same restaurant never lose samples.
	mu sync.Mutex
}

// NewAggregator builds an aggregator over the given store.
func NewAggregator(store RatingStore, strategy Strategy) *Aggregator {
	if strategy != StrategyOverwrite {
		strategy = StrategyAppend
	}
	return &Aggregator{store: store, strategy: strategy}
}

// Strategy returns the configured aggregation strategy.
func (a *Aggregator) Strategy() Strategy {
	return a.strategy
}

// Average reports the current average for a restaurant to match the
// configured strategy. Zero recorded values yield 0.0.
func (a *Aggregator) Average(r Restaurant) float64 {
	switch a.strategy {
	case StrategyOverwrite:
		return float64(r.Rating)
	default:
		if len(r.Samples) == 0 {
			return 0
		}
		sum := 0
		for _, v := range r.Samples {
			sum += v
		}
		return float64(sum) / float64(len(r.Samples))
	}
}

// Record validates and stores one rating submission, returning the new
// average. On a save failure the computed average is still returned alongside
// the error so callers can acknowledge without losing the displayed value.
func (a *Aggregator) Record(ctx context.Context, ref Ref, value int) (float64, error) {
	if value < 1 || value > 5 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRating, value)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	snap, err := a.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("rating load: %w", err)
	}

	var avg float64
	err = snap.Update(ref, func(r *Restaurant) {
		switch a.strategy {
		case StrategyOverwrite:
			r.Rating = value
		default:
			r.Samples = append(r.Samples, value)
		}
		avg = a.Average(*r)
	})
	if err != nil {
		return 0, err
	}

	if err := a.store.Save(ctx, snap); err != nil {
		logger.Error(ctx, "ratings", "rating.save_failed",
			slog.String("ref", ref.ID()),
			slog.Int("value", value),
			slog.String("err", err.Error()),
		)
		return avg, fmt.Errorf("rating save: %w", err)
	}

	logger.Debug(ctx, "ratings", "rating.recorded",
		slog.String("ref", ref.ID()),
		slog.Int("value", value),
		slog.String("strategy", string(a.strategy)),
	)
	return avg, nil
}
