package flow

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/catalog"
	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/store"
)

func coord(v float64) *float64 { return &v }

func testCatalog() catalog.Snapshot {
	return catalog.Snapshot{Regions: map[string][]catalog.Restaurant{
		"NY": {
			{
				Name: "Halal Food NYC",
				Menu: []string{"Burger", "Shawarma"},
				Lat:  coord(40.7128),
				Lon:  coord(-74.0060),
			},
		},
		"CA": {
			{Name: "Halal LA", Menu: []string{"Chicken"}},
		},
	}}
}

func newTestHandlers(t *testing.T, strategy catalog.Strategy) (*Handlers, *store.Memory) {
	t.Helper()
	st := store.NewMemory(testCatalog())
	return New(st, catalog.NewAggregator(st, strategy)), st
}

func textResponse(t *testing.T, resp Response) Text {
	t.Helper()
	txt, ok := resp.(Text)
	if !ok {
		t.Fatalf("response = %T, want Text", resp)
	}
	return txt
}

func buttons(kb *Keyboard) []Button {
	if kb == nil {
		return nil
	}
	var out []Button
	for _, row := range kb.Rows {
		out = append(out, row...)
	}
	return out
}

func TestStartListsRegions(t *testing.T) {
	h, _ := newTestHandlers(t, catalog.StrategyAppend)
	txt := textResponse(t, h.Handle(context.Background(), StartCommand{}))

	bs := buttons(txt.Keyboard)
	if len(bs) != 2 || bs[0].Label != "CA" || bs[1].Label != "NY" {
		t.Fatalf("region buttons = %v", bs)
	}
	for _, b := range bs {
		if b.Token != "" {
			t.Errorf("region button %q should be a plain reply button, got token %q", b.Label, b.Token)
		}
	}
}

func TestStartEmptyCatalog(t *testing.T) {
	st := store.NewMemory(catalog.NewSnapshot())
	h := New(st, catalog.NewAggregator(st, catalog.StrategyAppend))

	txt := textResponse(t, h.Handle(context.Background(), StartCommand{}))
	if got := buttons(txt.Keyboard); len(got) != 0 {
		t.Errorf("empty catalog should yield an empty keyboard, got %v", got)
	}
}

func TestRegionTextListsRestaurants(t *testing.T) {
	h, _ := newTestHandlers(t, catalog.StrategyAppend)

	for _, text := range []string{"NY", "ny", " Ny "} {
		txt := textResponse(t, h.Handle(context.Background(), TextMessage{Text: text}))
		bs := buttons(txt.Keyboard)
		if len(bs) != 1 || bs[0].Label != "Halal Food NYC" {
			t.Fatalf("TextMessage(%q) buttons = %v", text, bs)
		}
		if bs[0].Token != "rest:NY:0" {
			t.Errorf("restaurant token = %q, want rest:NY:0", bs[0].Token)
		}
	}
}

func TestUnknownTextGetsFriendlyReply(t *testing.T) {
	h, _ := newTestHandlers(t, catalog.StrategyAppend)
	txt := textResponse(t, h.Handle(context.Background(), TextMessage{Text: "where is the food"}))
	if txt.Body != msgNotUnderstood {
		t.Errorf("body = %q", txt.Body)
	}
}

func TestRestaurantDetailShowsZeroAverage(t *testing.T) {
	h, _ := newTestHandlers(t, catalog.StrategyAppend)
	txt := textResponse(t, h.Handle(context.Background(), Callback{Token: "rest:NY:0"}))

	if !strings.Contains(txt.Body, "Halal Food NYC") {
		t.Errorf("body missing name: %q", txt.Body)
	}
	if !strings.Contains(txt.Body, "0.0") {
		t.Errorf("body missing zero average: %q", txt.Body)
	}
	if got := len(buttons(txt.Keyboard)); got != 4 {
		t.Errorf("detail keyboard buttons = %d, want 4", got)
	}
}

func TestRestaurantDetailIdempotent(t *testing.T) {
	h, _ := newTestHandlers(t, catalog.StrategyAppend)
	ctx := context.Background()

	first := textResponse(t, h.Handle(ctx, Callback{Token: "rest:NY:0"}))
	second := textResponse(t, h.Handle(ctx, Callback{Token: "rest:NY:0"}))
	if first.Body != second.Body {
		t.Errorf("detail not idempotent:\n%q\n%q", first.Body, second.Body)
	}
}

func TestMenuListsItemsVerbatim(t *testing.T) {
	h, _ := newTestHandlers(t, catalog.StrategyAppend)
	txt := textResponse(t, h.Handle(context.Background(), Callback{Token: "menu:NY:0"}))
	if !strings.Contains(txt.Body, "Burger\nShawarma") {
		t.Errorf("menu body = %q", txt.Body)
	}
}

func TestLocationIsStructured(t *testing.T) {
	h, _ := newTestHandlers(t, catalog.StrategyAppend)

	loc, ok := h.Handle(context.Background(), Callback{Token: "loc:NY:0"}).(Location)
	if !ok {
		t.Fatal("location response should not be plain text")
	}
	if loc.Lat != 40.7128 || loc.Lon != -74.0060 {
		t.Errorf("coords = %v,%v", loc.Lat, loc.Lon)
	}

	// CA has no coordinates in the fixture.
	txt := textResponse(t, h.Handle(context.Background(), Callback{Token: "loc:CA:0"}))
	if txt.Body != msgNoLocation {
		t.Errorf("body = %q", txt.Body)
	}
}

func TestOrderConfirmEchoesItemWithoutMutation(t *testing.T) {
	h, st := newTestHandlers(t, catalog.StrategyAppend)
	ctx := context.Background()

	list := textResponse(t, h.Handle(ctx, Callback{Token: "order:NY:0"}))
	bs := buttons(list.Keyboard)
	if len(bs) != 2 {
		t.Fatalf("order buttons = %v", bs)
	}
	if bs[0].Token != "buy:NY:0:Burger" {
		t.Errorf("order token = %q", bs[0].Token)
	}

	before, _ := st.Load(ctx)
	confirm := textResponse(t, h.Handle(ctx, Callback{Token: bs[0].Token}))
	if !strings.Contains(confirm.Body, "Burger") {
		t.Errorf("confirmation missing item: %q", confirm.Body)
	}
	after, _ := st.Load(ctx)
	if fmt.Sprintf("%+v", before.Regions) != fmt.Sprintf("%+v", after.Regions) {
		t.Error("order confirmation mutated the catalog")
	}
}

func TestOrderItemKeepsDelimiter(t *testing.T) {
	snap := catalog.NewSnapshot()
	snap.Regions["NY"] = []catalog.Restaurant{{Name: "A", Menu: []string{"Combo: burger + fries"}}}
	st := store.NewMemory(snap)
	h := New(st, catalog.NewAggregator(st, catalog.StrategyAppend))
	ctx := context.Background()

	list := textResponse(t, h.Handle(ctx, Callback{Token: "order:NY:0"}))
	token := buttons(list.Keyboard)[0].Token
	confirm := textResponse(t, h.Handle(ctx, Callback{Token: token}))
	if !strings.Contains(confirm.Body, "Combo: burger + fries") {
		t.Errorf("item with delimiter mangled: %q", confirm.Body)
	}
}

func TestRatingPromptFiveStars(t *testing.T) {
	h, _ := newTestHandlers(t, catalog.StrategyAppend)
	txt := textResponse(t, h.Handle(context.Background(), Callback{Token: "rating:NY:0"}))

	if len(txt.Keyboard.Rows) != 1 {
		t.Fatalf("star buttons should share one row, got %d rows", len(txt.Keyboard.Rows))
	}
	row := txt.Keyboard.Rows[0]
	if len(row) != 5 {
		t.Fatalf("star buttons = %d, want 5", len(row))
	}
	if row[0].Token != "rate:NY_0:1" || row[4].Token != "rate:NY_0:5" {
		t.Errorf("star tokens = %q .. %q", row[0].Token, row[4].Token)
	}
}

func TestRatingCommitAppendAverage(t *testing.T) {
	h, _ := newTestHandlers(t, catalog.StrategyAppend)
	ctx := context.Background()

	textResponse(t, h.Handle(ctx, Callback{Token: "rate:NY_0:4"}))
	second := textResponse(t, h.Handle(ctx, Callback{Token: "rate:NY_0:2"}))
	if !strings.Contains(second.Body, "3.0") {
		t.Errorf("append average body = %q, want 3.0", second.Body)
	}
}

func TestRatingCommitOverwriteAverage(t *testing.T) {
	h, _ := newTestHandlers(t, catalog.StrategyOverwrite)
	ctx := context.Background()

	textResponse(t, h.Handle(ctx, Callback{Token: "rate:NY_0:4"}))
	second := textResponse(t, h.Handle(ctx, Callback{Token: "rate:NY_0:2"}))
	if !strings.Contains(second.Body, "2.0") {
		t.Errorf("overwrite average body = %q, want 2.0", second.Body)
	}
}

func TestRatingOutOfRangeRejected(t *testing.T) {
	h, st := newTestHandlers(t, catalog.StrategyAppend)
	ctx := context.Background()

	txt := textResponse(t, h.Handle(ctx, Callback{Token: "rate:NY_0:7"}))
	if txt.Body != msgInvalidRating {
		t.Errorf("body = %q", txt.Body)
	}

	snap, _ := st.Load(ctx)
	r, _ := snap.Restaurant(catalog.Ref{Region: "NY", Index: 0})
	if len(r.Samples) != 0 {
		t.Errorf("rejected rating reached storage: %v", r.Samples)
	}
}

func TestStaleRefGetsNotFound(t *testing.T) {
	h, _ := newTestHandlers(t, catalog.StrategyAppend)
	for _, token := range []string{"menu:CA:9", "rest:TX:0", "rate:TX_3:5", "order:NY:-1"} {
		txt := textResponse(t, h.Handle(context.Background(), Callback{Token: token}))
		if txt.Body != msgNotFound {
			t.Errorf("Handle(%q) body = %q, want not-found reply", token, txt.Body)
		}
	}
}

type failingWriteStore struct {
	*store.Memory
}

func (f failingWriteStore) Save(context.Context, catalog.Snapshot) error {
	return fmt.Errorf("%w: disk full", store.ErrWrite)
}

func TestRatingSaveFailureAcknowledged(t *testing.T) {
	st := failingWriteStore{Memory: store.NewMemory(testCatalog())}
	h := New(st, catalog.NewAggregator(st, catalog.StrategyAppend))

	txt := textResponse(t, h.Handle(context.Background(), Callback{Token: "rate:NY_0:5"}))
	if txt.Body != msgRatingSaveFailed {
		t.Errorf("body = %q, want save-failed acknowledgement", txt.Body)
	}
}
