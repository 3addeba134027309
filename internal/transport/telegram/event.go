package telegram

import (
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/dtroode/catalog-bot/internal/model"
)

// ToEvent converts an update into an engine event. Updates the engine does not
// handle are reported with ok=false.
func ToEvent(u tele.Update) (model.Event, bool) {
	if cb := u.Callback; cb != nil {
		if cb.Sender == nil {
			return model.Event{}, false
		}
		ev := model.Event{
			UpdateID:   int64(u.ID),
			SenderID:   cb.Sender.ID,
			ChatID:     cb.Sender.ID,
			Kind:       model.EventButton,
			Data:       cb.Data,
			CallbackID: cb.ID,
		}
		if cb.Message != nil {
			ev.MessageID = cb.Message.ID
			if cb.Message.Chat != nil {
				ev.ChatID = cb.Message.Chat.ID
			}
		}
		return ev, true
	}

	m := u.Message
	if m == nil || m.Sender == nil || m.Chat == nil {
		return model.Event{}, false
	}
	ev := model.Event{
		UpdateID:  int64(u.ID),
		SenderID:  m.Sender.ID,
		ChatID:    m.Chat.ID,
		MessageID: m.ID,
	}

	switch {
	case m.Photo != nil:
		ev.Kind, ev.MediaID, ev.Text = model.EventPhoto, m.Photo.FileID, m.Caption
	case m.Video != nil:
		ev.Kind, ev.MediaID, ev.Text = model.EventVideo, m.Video.FileID, m.Caption
	case strings.HasPrefix(m.Text, "/"):
		ev.Kind = model.EventCommand
		ev.Command, ev.Text = parseCommand(m.Text)
	case m.Text != "":
		ev.Kind, ev.Text = model.EventText, m.Text
	default:
		return model.Event{}, false
	}
	return ev, true
}

// parseCommand splits "/name@bot payload" into the lower-cased name and the payload.
func parseCommand(text string) (string, string) {
	name, payload, _ := strings.Cut(strings.TrimPrefix(text, "/"), " ")
	name, _, _ = strings.Cut(name, "@")
	return strings.ToLower(name), strings.TrimSpace(payload)
}
