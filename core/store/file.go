package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/catalog"
	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/logger"
)

// File persists the whole catalog as a single JSON document with the shape
// {"<REGION>": [{"name","menu",...}]}. Every mutation is a full
// read-modify-write; Save rewrites the file atomically under a process-wide
// lock, so interleaved rating submissions cannot shred each other's writes.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile builds a file store over the given path. The file does not have to
// exist yet; a missing file loads as an empty catalog.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads and decodes the catalog file. A missing or corrupt file yields
// an empty snapshot together with ErrUnavailable, matching the historical
// forgiving-load behaviour while keeping the failure observable.
func (f *File) Load(ctx context.Context) (catalog.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadLocked(ctx)
}

func (f *File) loadLocked(ctx context.Context) (catalog.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		logger.Warn(ctx, "store", "catalog.load_failed",
			slog.String("path", f.path),
			slog.String("err", err.Error()),
		)
		return catalog.NewSnapshot(), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var regions map[string][]catalog.Restaurant
	if err := json.Unmarshal(data, &regions); err != nil {
		logger.Warn(ctx, "store", "catalog.corrupt",
			slog.String("path", f.path),
			slog.String("err", err.Error()),
		)
		return catalog.NewSnapshot(), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if regions == nil {
		regions = make(map[string][]catalog.Restaurant)
	}
	return catalog.Snapshot{Regions: regions}, nil
}

// Save rewrites the catalog file via a temp file and rename so a crash never
// leaves a half-written catalog behind.
func (f *File) Save(ctx context.Context, snap catalog.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(snap.Regions, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	logger.Debug(ctx, "store", "catalog.saved",
		slog.String("path", f.path),
		slog.Int("regions", len(snap.Regions)),
	)
	return nil
}

// ReadSnapshotFile decodes a catalog file once, without keeping a store
// around. Used to seed the memory backend from a file.
func ReadSnapshotFile(path string) (catalog.Snapshot, error) {
	f := NewFile(path)
	return f.Load(context.Background())
}
