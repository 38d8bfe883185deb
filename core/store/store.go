// Package store owns catalog persistence. All backings expose the same
// load/save contract so the flow core stays agnostic of where the catalog
// lives.
package store

import (
	"context"
	"errors"

	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/catalog"
)

var (
	// ErrUnavailable reports a missing or corrupt backing medium. Load still
	// returns an empty snapshot in that case so callers degrade to an empty
	// catalog; the error exists to make the failure visible to operators.
	ErrUnavailable = errors.New("store: catalog unavailable")
	// ErrWrite reports an I/O failure while persisting a snapshot. It is
	// always surfaced to the caller, never swallowed.
	ErrWrite = errors.New("store: write failed")
)

// Store provides atomic read/update access to the persisted catalog.
type Store interface {
	Load(ctx context.Context) (catalog.Snapshot, error)
	Save(ctx context.Context, snap catalog.Snapshot) error
}
