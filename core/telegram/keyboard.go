package telegram

import (
	tele "gopkg.in/telebot.v4"

	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/flow"
)

// RenderKeyboard converts a flow keyboard into a telebot markup. Buttons with
// tokens become inline buttons carrying the token in the callback payload;
// keyboards whose buttons have no tokens become a resized reply keyboard
// whose labels are echoed back as text. A nil or empty keyboard renders as
// no markup at all.
func RenderKeyboard(kb *flow.Keyboard) *tele.ReplyMarkup {
	if kb == nil || len(kb.Rows) == 0 {
		return nil
	}
	if keyboardIsInline(kb) {
		return renderInline(kb)
	}
	return renderReply(kb)
}

func keyboardIsInline(kb *flow.Keyboard) bool {
	for _, row := range kb.Rows {
		for _, b := range row {
			if b.Token != "" {
				return true
			}
		}
	}
	return false
}

func renderInline(kb *flow.Keyboard) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		r := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			r = append(r, tele.InlineButton{Text: b.Label, Data: b.Token})
		}
		inline = append(inline, r)
	}
	markup.InlineKeyboard = inline
	return markup
}

func renderReply(kb *flow.Keyboard) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	rows := make([]tele.Row, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tele.Btn, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, markup.Text(b.Label))
		}
		rows = append(rows, markup.Row(buttons...))
	}
	markup.Reply(rows...)
	return markup
}
