// Package callbacks encodes the inline-button tokens that drive the whole
// interaction flow. A token is "<action>:<field>:...:<field>"; because every
// screen is reachable from its token alone, the bot needs no per-chat session
// state.
package callbacks

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter separates the action tag and its fields. Region keys and
// restaurant ids must never contain it; that is a catalog-authoring
// invariant, not checked at runtime.
const Delimiter = ":"

// Action is a closed set of token tags. Decode rejects anything else, so
// handlers only ever see these.
type Action string

const (
	// ActionRestaurant opens the restaurant detail screen.
	ActionRestaurant Action = "rest"
	// ActionMenu shows the menu item list.
	ActionMenu Action = "menu"
	// ActionLocation sends the restaurant coordinates as a map pin.
	ActionLocation Action = "loc"
	// ActionOrder opens the order item list.
	ActionOrder Action = "order"
	// ActionBuy confirms an order for one literal menu item.
	ActionBuy Action = "buy"
	// ActionRating opens the 1-5 star prompt.
	ActionRating Action = "rating"
	// ActionRate commits one star value.
	ActionRate Action = "rate"
)

// fieldCounts pins the arity of every action. The final field is split with
// a bounded SplitN, so free text there (the literal menu item in "buy") keeps
// embedded delimiters intact.
var fieldCounts = map[Action]int{
	ActionRestaurant: 2, // region, index
	ActionMenu:       2, // region, index
	ActionLocation:   2, // region, index
	ActionOrder:      2, // region, index
	ActionBuy:        3, // region, index, item
	ActionRating:     2, // region, index
	ActionRate:       2, // restaurant id, value
}

var (
	// ErrUnknownAction reports a token whose tag is not in the action set.
	ErrUnknownAction = errors.New("callbacks: unknown action")
	// ErrMalformedToken reports a recognised tag with the wrong field count.
	ErrMalformedToken = errors.New("callbacks: malformed token")
)

// Encode joins an action tag and its ordered fields into a token.
func Encode(action Action, fields ...string) string {
	parts := make([]string, 0, 1+len(fields))
	parts = append(parts, string(action))
	parts = append(parts, fields...)
	return strings.Join(parts, Delimiter)
}

// Decode is the exact inverse of Encode for every token Encode produces.
func Decode(token string) (Action, []string, error) {
	tag, rest, found := strings.Cut(token, Delimiter)
	action := Action(tag)
	n, ok := fieldCounts[action]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownAction, tag)
	}
	if !found {
		return "", nil, fmt.Errorf("%w: %q wants %d fields", ErrMalformedToken, tag, n)
	}
	fields := strings.SplitN(rest, Delimiter, n)
	if len(fields) != n {
		return "", nil, fmt.Errorf("%w: %q wants %d fields, got %d", ErrMalformedToken, tag, n, len(fields))
	}
	return action, fields, nil
}
