// Package flow is the transport-agnostic interaction core: it routes
// incoming updates to screen handlers and renders their responses as plain
// data. The Telegram layer only converts between these types and the wire.
package flow

// Update is one inbound user interaction. The variant set is closed; the
// transport adapter constructs exactly one of these per received update.
type Update interface{ update() }

// StartCommand is the /start command.
type StartCommand struct{}

// TextMessage is a plain text message, matched against region names.
type TextMessage struct {
	Text string
}

// Callback is an inline-button press carrying an encoded token.
type Callback struct {
	Token string
}

func (StartCommand) update() {}
func (TextMessage) update()  {}
func (Callback) update()     {}

// Response is what a handler produces for one update.
type Response interface{ response() }

// Text is a message body with an optional next keyboard.
type Text struct {
	Body     string
	Keyboard *Keyboard
}

// Location is a structured coordinate payload; transports render it as a map
// pin rather than text.
type Location struct {
	Lat float64
	Lon float64
}

// NoOp produces no outbound message.
type NoOp struct{}

func (Text) response()     {}
func (Location) response() {}
func (NoOp) response()     {}

// Button is one keyboard entry. An empty token marks a plain reply button
// whose label is sent back as text; otherwise the token rides in the
// callback payload.
type Button struct {
	Label string
	Token string
}

// Keyboard is an ordered grid of buttons, transport-agnostic.
type Keyboard struct {
	Rows [][]Button
}

// column lays the buttons out one per row.
func column(buttons []Button) *Keyboard {
	kb := &Keyboard{Rows: make([][]Button, 0, len(buttons))}
	for _, b := range buttons {
		kb.Rows = append(kb.Rows, []Button{b})
	}
	return kb
}

// row lays all buttons out on a single row.
func row(buttons []Button) *Keyboard {
	return &Keyboard{Rows: [][]Button{buttons}}
}
