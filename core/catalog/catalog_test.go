package catalog

import (
	"errors"
	"testing"
)

func testSnapshot() Snapshot {
	return Snapshot{Regions: map[string][]Restaurant{
		"NY": {
			{Name: "Halal Food NYC", Menu: []string{"Burger", "Shawarma"}},
		},
		"CA": {
			{Name: "Halal LA", Menu: []string{"Chicken"}},
		},
	}}
}

func TestRegionKeysSorted(t *testing.T) {
	snap := testSnapshot()
	keys := snap.RegionKeys()
	if len(keys) != 2 || keys[0] != "CA" || keys[1] != "NY" {
		t.Errorf("RegionKeys = %v, want [CA NY]", keys)
	}
}

func TestFindRegionCaseInsensitive(t *testing.T) {
	snap := testSnapshot()
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"NY", "NY", true},
		{"ny", "NY", true},
		{" ca ", "CA", true},
		{"TX", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := snap.FindRegion(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FindRegion(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRestaurantLookup(t *testing.T) {
	snap := testSnapshot()
	r, err := snap.Restaurant(Ref{Region: "NY", Index: 0})
	if err != nil {
		t.Fatalf("Restaurant: %v", err)
	}
	if r.Name != "Halal Food NYC" {
		t.Errorf("Name = %q", r.Name)
	}

	for _, ref := range []Ref{
		{Region: "NY", Index: 1},
		{Region: "NY", Index: -1},
		{Region: "TX", Index: 0},
	} {
		if _, err := snap.Restaurant(ref); !errors.Is(err, ErrEntityNotFound) {
			t.Errorf("Restaurant(%v) err = %v, want ErrEntityNotFound", ref, err)
		}
	}
}

func TestParseIDSplitsOnLastUnderscore(t *testing.T) {
	tests := []struct {
		id     string
		region string
		index  int
		ok     bool
	}{
		{"NY_0", "NY", 0, true},
		{"NEW_YORK_12", "NEW_YORK", 12, true},
		{"NY", "", 0, false},
		{"NY_", "", 0, false},
		{"_0", "", 0, false},
		{"NY_x", "", 0, false},
	}
	for _, tt := range tests {
		ref, err := ParseID(tt.id)
		if tt.ok {
			if err != nil {
				t.Errorf("ParseID(%q): %v", tt.id, err)
				continue
			}
			if ref.Region != tt.region || ref.Index != tt.index {
				t.Errorf("ParseID(%q) = %+v", tt.id, ref)
			}
			if ref.ID() != tt.id {
				t.Errorf("round-trip %q -> %q", tt.id, ref.ID())
			}
		} else if !errors.Is(err, ErrEntityNotFound) {
			t.Errorf("ParseID(%q) err = %v, want ErrEntityNotFound", tt.id, err)
		}
	}
}

func TestCloneIsolation(t *testing.T) {
	lat := 40.7
	snap := Snapshot{Regions: map[string][]Restaurant{
		"NY": {{Name: "A", Menu: []string{"x"}, Lat: &lat, Samples: []int{5}}},
	}}
	clone := snap.Clone()

	clone.Regions["NY"][0].Name = "B"
	clone.Regions["NY"][0].Menu[0] = "y"
	clone.Regions["NY"][0].Samples[0] = 1
	*clone.Regions["NY"][0].Lat = 0

	orig := snap.Regions["NY"][0]
	if orig.Name != "A" || orig.Menu[0] != "x" || orig.Samples[0] != 5 || *orig.Lat != 40.7 {
		t.Errorf("Clone shares state with original: %+v", orig)
	}
}
