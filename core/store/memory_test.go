package store

import (
	"context"
	"sync"
	"testing"

	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/catalog"
)

func TestMemoryLoadReturnsCopy(t *testing.T) {
	m := NewMemory(catalog.Seed())
	ctx := context.Background()

	snap, err := m.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap.Regions["NY"][0].Name = "mutated"

	again, _ := m.Load(ctx)
	if again.Regions["NY"][0].Name != "Halal Food NYC" {
		t.Error("Load leaked a reference to the owned snapshot")
	}
}

func TestMemorySaveReplaces(t *testing.T) {
	m := NewMemory(catalog.Seed())
	ctx := context.Background()

	snap := catalog.NewSnapshot()
	snap.Regions["TX"] = []catalog.Restaurant{{Name: "Halal Austin", Menu: []string{"Tacos"}}}
	if err := m.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, _ := m.Load(ctx)
	if _, ok := got.Regions["NY"]; ok {
		t.Error("Save should replace the snapshot wholesale")
	}
	if _, err := got.Restaurant(catalog.Ref{Region: "TX", Index: 0}); err != nil {
		t.Errorf("saved entry missing: %v", err)
	}
}

func TestMemoryNilSeed(t *testing.T) {
	m := NewMemory(catalog.Snapshot{})
	snap, err := m.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Regions == nil || len(snap.Regions) != 0 {
		t.Errorf("want empty catalog, got %v", snap.Regions)
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewMemory(catalog.Seed())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := m.Load(ctx); err != nil {
				t.Errorf("Load: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			snap, _ := m.Load(ctx)
			if err := m.Save(ctx, snap); err != nil {
				t.Errorf("Save: %v", err)
			}
		}()
	}
	wg.Wait()
}
