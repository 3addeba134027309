package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"

	"github.com/dtroode/catalog-bot/internal/model"
)

func TestToEvent(t *testing.T) {
	user := &tele.User{ID: 42}
	chat := &tele.Chat{ID: 42}

	tests := []struct {
		name   string
		update tele.Update
		want   model.Event
		ok     bool
	}{
		{
			name:   "text",
			update: tele.Update{ID: 1, Message: &tele.Message{ID: 10, Sender: user, Chat: chat, Text: "Apple"}},
			want:   model.Event{UpdateID: 1, SenderID: 42, ChatID: 42, MessageID: 10, Kind: model.EventText, Text: "Apple"},
			ok:     true,
		},
		{
			name:   "command with payload and bot name",
			update: tele.Update{ID: 2, Message: &tele.Message{ID: 11, Sender: user, Chat: chat, Text: "/Ban@catalog_bot  123 "}},
			want:   model.Event{UpdateID: 2, SenderID: 42, ChatID: 42, MessageID: 11, Kind: model.EventCommand, Command: "ban", Text: "123"},
			ok:     true,
		},
		{
			name: "photo with caption",
			update: tele.Update{ID: 3, Message: &tele.Message{ID: 12, Sender: user, Chat: chat, Caption: "hello",
				Photo: &tele.Photo{File: tele.File{FileID: "p1"}}}},
			want: model.Event{UpdateID: 3, SenderID: 42, ChatID: 42, MessageID: 12, Kind: model.EventPhoto, MediaID: "p1", Text: "hello"},
			ok:   true,
		},
		{
			name:   "video",
			update: tele.Update{ID: 4, Message: &tele.Message{ID: 13, Sender: user, Chat: chat, Video: &tele.Video{File: tele.File{FileID: "v1"}}}},
			want:   model.Event{UpdateID: 4, SenderID: 42, ChatID: 42, MessageID: 13, Kind: model.EventVideo, MediaID: "v1"},
			ok:     true,
		},
		{
			name: "button",
			update: tele.Update{ID: 5, Callback: &tele.Callback{ID: "cb", Sender: user, Data: "cat:abc",
				Message: &tele.Message{ID: 14, Chat: chat}}},
			want: model.Event{UpdateID: 5, SenderID: 42, ChatID: 42, MessageID: 14, Kind: model.EventButton, Data: "cat:abc", CallbackID: "cb"},
			ok:   true,
		},
		{
			name:   "sticker is ignored",
			update: tele.Update{ID: 6, Message: &tele.Message{ID: 15, Sender: user, Chat: chat, Sticker: &tele.Sticker{}}},
		},
		{
			name:   "channel post is ignored",
			update: tele.Update{ID: 7, ChannelPost: &tele.Message{ID: 16, Chat: chat, Text: "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToEvent(tt.update)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
