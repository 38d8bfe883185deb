package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrEntityNotFound reports that a referenced region or restaurant does not
// exist in the current snapshot. Stale inline keyboards produce this after
// the catalog changed between render and click.
var ErrEntityNotFound = errors.New("catalog: entity not found")

// Restaurant is a single catalog entry. The json tags define the persisted
// file schema and must stay compatible with existing catalog files.
type Restaurant struct {
	Name    string   `json:"name"`
	Menu    []string `json:"menu"`
	Address string   `json:"address,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
	// Rating is the cached scalar used by the overwrite strategy; it is the
	// only rating state the file schema carries.
	Rating int `json:"rating,omitempty"`
	// Samples is the append-strategy history. It never reaches the JSON file.
	Samples []int `json:"-"`
}

// HasLocation reports whether both coordinates are present.
func (r Restaurant) HasLocation() bool {
	return r.Lat != nil && r.Lon != nil
}

// Snapshot is the full catalog state at a point in time. Flow handlers only
// ever see transient snapshots scoped to one update; the store owns the truth.
type Snapshot struct {
	Regions map[string][]Restaurant
}

// NewSnapshot returns an empty catalog snapshot.
func NewSnapshot() Snapshot {
	return Snapshot{Regions: make(map[string][]Restaurant)}
}

// RegionKeys returns region keys in sorted order for stable rendering.
func (s Snapshot) RegionKeys() []string {
	keys := make([]string, 0, len(s.Regions))
	for k := range s.Regions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FindRegion resolves free text to a region key, case-insensitively.
func (s Snapshot) FindRegion(text string) (string, bool) {
	text = strings.TrimSpace(text)
	for k := range s.Regions {
		if strings.EqualFold(k, text) {
			return k, true
		}
	}
	return "", false
}

// Restaurant resolves a ref against the snapshot.
func (s Snapshot) Restaurant(ref Ref) (Restaurant, error) {
	list, ok := s.Regions[ref.Region]
	if !ok {
		return Restaurant{}, fmt.Errorf("%w: region %q", ErrEntityNotFound, ref.Region)
	}
	if ref.Index < 0 || ref.Index >= len(list) {
		return Restaurant{}, fmt.Errorf("%w: %s", ErrEntityNotFound, ref.ID())
	}
	return list[ref.Index], nil
}

// Update applies fn to the referenced restaurant in place.
func (s Snapshot) Update(ref Ref, fn func(*Restaurant)) error {
	list, ok := s.Regions[ref.Region]
	if !ok || ref.Index < 0 || ref.Index >= len(list) {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, ref.ID())
	}
	fn(&list[ref.Index])
	return nil
}

// Clone returns a deep copy so callers can hand snapshots out without
// aliasing the store's state.
func (s Snapshot) Clone() Snapshot {
	out := NewSnapshot()
	for region, list := range s.Regions {
		copied := make([]Restaurant, len(list))
		for i, r := range list {
			copied[i] = r
			copied[i].Menu = append([]string(nil), r.Menu...)
			copied[i].Samples = append([]int(nil), r.Samples...)
			if r.Lat != nil {
				lat := *r.Lat
				copied[i].Lat = &lat
			}
			if r.Lon != nil {
				lon := *r.Lon
				copied[i].Lon = &lon
			}
		}
		out.Regions[region] = copied
	}
	return out
}

// Ref addresses a restaurant by region key and position. Refs round-trip
// through callback tokens, so region keys must not contain the token
// delimiter.
type Ref struct {
	Region string
	Index  int
}

// ID renders the ref as the historical "<region>_<index>" form.
func (r Ref) ID() string {
	return r.Region + "_" + strconv.Itoa(r.Index)
}

// ParseRef builds a ref from separate region and index token fields.
func ParseRef(region, index string) (Ref, error) {
	idx, err := strconv.Atoi(index)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: bad index %q", ErrEntityNotFound, index)
	}
	return Ref{Region: region, Index: idx}, nil
}

// ParseID parses the joined "<region>_<index>" form. The split happens on the
// last underscore so region keys themselves may contain underscores.
func ParseID(id string) (Ref, error) {
	cut := strings.LastIndex(id, "_")
	if cut <= 0 || cut == len(id)-1 {
		return Ref{}, fmt.Errorf("%w: bad id %q", ErrEntityNotFound, id)
	}
	return ParseRef(id[:cut], id[cut+1:])
}
