package store

import (
	"context"
	"sync"

	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/catalog"
)

// Memory keeps the catalog for the lifetime of the process. Ratings recorded
// against it are lost on restart.
type Memory struct {
	mu   sync.RWMutex
	snap catalog.Snapshot
}

// NewMemory builds a memory store seeded with the given snapshot.
func NewMemory(seed catalog.Snapshot) *Memory {
	if seed.Regions == nil {
		seed = catalog.NewSnapshot()
	}
	return &Memory{snap: seed.Clone()}
}

// Load returns a deep copy of the current snapshot.
func (m *Memory) Load(_ context.Context) (catalog.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap.Clone(), nil
}

// Save replaces the snapshot wholesale. Last writer wins.
func (m *Memory) Save(_ context.Context, snap catalog.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap.Clone()
	return nil
}
