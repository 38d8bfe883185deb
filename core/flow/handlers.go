package flow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/callbacks"
	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/catalog"
	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/store"
)

// Handlers hosts one handler per screen. The store and aggregator are the
// only collaborators; both are injected so tests can substitute doubles.
type Handlers struct {
	store store.Store
	agg   *catalog.Aggregator
}

// New wires the screen handlers over the given store and aggregator.
func New(st store.Store, agg *catalog.Aggregator) *Handlers {
	return &Handlers{store: st, agg: agg}
}

// regionList renders one reply button per region. An empty catalog yields an
// empty keyboard, not a failure.
func (h *Handlers) regionList(ctx context.Context) Response {
	snap := h.snapshot(ctx)
	buttons := make([]Button, 0, len(snap.Regions))
	for _, key := range snap.RegionKeys() {
		buttons = append(buttons, Button{Label: key})
	}
	return Text{Body: msgChooseState, Keyboard: column(buttons)}
}

// restaurantList renders one inline button per restaurant of the region.
func (h *Handlers) restaurantList(snap catalog.Snapshot, region string) Response {
	list := snap.Regions[region]
	buttons := make([]Button, 0, len(list))
	for i, r := range list {
		ref := catalog.Ref{Region: region, Index: i}
		buttons = append(buttons, Button{
			Label: r.Name,
			Token: callbacks.Encode(callbacks.ActionRestaurant, ref.Region, strconv.Itoa(ref.Index)),
		})
	}
	return Text{Body: msgChooseRestaurant, Keyboard: column(buttons)}
}

// restaurantDetail shows the card with the current average rating and the
// four follow-up actions.
func (h *Handlers) restaurantDetail(_ catalog.Snapshot, ref catalog.Ref, r catalog.Restaurant) Response {
	var b strings.Builder
	fmt.Fprintf(&b, "🍽 %s\n", r.Name)
	fmt.Fprintf(&b, "⭐ Рейтинг: %.1f", h.agg.Average(r))
	if r.Address != "" {
		fmt.Fprintf(&b, "\n🏠 %s", r.Address)
	}
	if r.Phone != "" {
		fmt.Fprintf(&b, "\n📞 %s", r.Phone)
	}

	region, index := ref.Region, strconv.Itoa(ref.Index)
	kb := column([]Button{
		{Label: labelMenu, Token: callbacks.Encode(callbacks.ActionMenu, region, index)},
		{Label: labelLocation, Token: callbacks.Encode(callbacks.ActionLocation, region, index)},
		{Label: labelOrder, Token: callbacks.Encode(callbacks.ActionOrder, region, index)},
		{Label: labelRating, Token: callbacks.Encode(callbacks.ActionRating, region, index)},
	})
	return Text{Body: b.String(), Keyboard: kb}
}

// menu lists the items verbatim, one per line.
func (h *Handlers) menu(_ catalog.Snapshot, _ catalog.Ref, r catalog.Restaurant) Response {
	return Text{Body: "📋 Меню:\n\n" + strings.Join(r.Menu, "\n")}
}

// location emits the coordinates as a structured payload for a map pin.
func (h *Handlers) location(_ catalog.Snapshot, _ catalog.Ref, r catalog.Restaurant) Response {
	if !r.HasLocation() {
		return Text{Body: msgNoLocation}
	}
	return Location{Lat: *r.Lat, Lon: *r.Lon}
}

// orderItemList renders one button per menu item; the token carries the
// literal item text in the final field.
func (h *Handlers) orderItemList(_ catalog.Snapshot, ref catalog.Ref, r catalog.Restaurant) Response {
	buttons := make([]Button, 0, len(r.Menu))
	for _, item := range r.Menu {
		buttons = append(buttons, Button{
			Label: item,
			Token: callbacks.Encode(callbacks.ActionBuy, ref.Region, strconv.Itoa(ref.Index), item),
		})
	}
	return Text{Body: msgChooseDish, Keyboard: column(buttons)}
}

// orderConfirm acknowledges the order. Nothing is persisted; fulfilment is
// out of scope.
func (h *Handlers) orderConfirm(item string) Response {
	return Text{Body: fmt.Sprintf("🛒 %s\n\n✅ Фармоиши шумо қабул шуд!\n📞 Мо ба зудӣ бо шумо тамос мегирем.", item)}
}

// ratingPrompt renders the five star buttons on a single row.
func (h *Handlers) ratingPrompt(_ catalog.Snapshot, ref catalog.Ref, _ catalog.Restaurant) Response {
	buttons := make([]Button, 0, 5)
	for i := 1; i <= 5; i++ {
		buttons = append(buttons, Button{
			Label: fmt.Sprintf("%d⭐", i),
			Token: callbacks.Encode(callbacks.ActionRate, ref.ID(), strconv.Itoa(i)),
		})
	}
	return Text{Body: msgRatePrompt, Keyboard: row(buttons)}
}

// ratingCommit records the submitted value and replies with the new average.
// The token is not trusted: the value is re-validated before it touches the
// store.
func (h *Handlers) ratingCommit(ctx context.Context, id, rawValue string) Response {
	value, err := strconv.Atoi(rawValue)
	if err != nil {
		return Text{Body: msgInvalidRating}
	}
	ref, err := catalog.ParseID(id)
	if err != nil {
		return Text{Body: msgNotFound}
	}

	avg, err := h.agg.Record(ctx, ref, value)
	switch {
	case err == nil:
		return Text{Body: fmt.Sprintf("✅ Ташаккур!\n⭐ Рейтинги нав: %.1f", avg)}
	case errors.Is(err, catalog.ErrInvalidRating):
		return Text{Body: msgInvalidRating}
	case errors.Is(err, catalog.ErrEntityNotFound):
		return Text{Body: msgNotFound}
	case errors.Is(err, store.ErrWrite):
		// The value was computed but not persisted; acknowledge the failure
		// instead of pretending the rating landed.
		return Text{Body: msgRatingSaveFailed}
	default:
		return Text{Body: msgRatingSaveFailed}
	}
}
