package bot

import (
	"bytes"
	"context"

	tghelpers "github.com/parsertg/parsertg/core/telegram/helpers"
	"github.com/parsertg/parsertg/core/telegram/keyboard"
	"github.com/parsertg/parsertg/internal/flow"

	tele "gopkg.in/telebot.v4"
)

// teleOutbox adapts a telebot context to the flow.Outbox interface. It stays
// valid after the triggering handler returns, so export workers can deliver
// results through it.
type teleOutbox struct {
	c tele.Context
}

func newOutbox(c tele.Context) flow.Outbox {
	return &teleOutbox{c: c}
}

func (o *teleOutbox) Prompt(ctx context.Context, p flow.Prompt) error {
	markup := buildMarkup(p.Keyboard)

	// Callback-triggered prompts edit the menu message in place so the chat
	// does not fill up with stale keyboards.
	if o.c.Callback() != nil {
		return tghelpers.EditOrSend(o.c, p.Text, markup)
	}
	if markup == nil {
		return tghelpers.SendText(o.c, p.Text)
	}
	return tghelpers.SendWithMarkup(o.c, p.Text, markup)
}

func (o *teleOutbox) SendFile(ctx context.Context, f flow.File) error {
	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(f.Content)),
		FileName: f.Name,
		Caption:  f.Caption,
	}
	return tghelpers.SendDocument(o.c, doc)
}

// buildMarkup converts transport-neutral button rows into an inline keyboard.
// Button actions become callback uniques, payloads become callback data.
func buildMarkup(rows [][]flow.Button) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	btnRows := make([][]keyboard.InlineBtn, len(rows))
	for i, row := range rows {
		r := make([]keyboard.InlineBtn, len(row))
		for j, b := range row {
			r[j] = keyboard.InlineBtn{
				Text:   b.Label,
				Unique: string(b.Action),
				Data:   b.Payload,
			}
		}
		btnRows[i] = r
	}
	return keyboard.InlineButtonsRows(btnRows...)
}
