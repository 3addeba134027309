// Package telegram adapts the Telegram Bot API to the transport-neutral bot engine.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v3"

	"github.com/dtroode/catalog-bot/internal/logger"
	"github.com/dtroode/catalog-bot/internal/model"
)

var _ model.Transport = (*Transport)(nil)

// botAPI is the subset of *tele.Bot the transport calls.
type botAPI interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
	Respond(c *tele.Callback, resp ...*tele.CallbackResponse) error
}

// Transport executes engine actions against the Bot API.
type Transport struct {
	api    botAPI
	logger *logger.Logger
}

func NewTransport(api botAPI, logger *logger.Logger) *Transport {
	return &Transport{api: api, logger: logger}
}

// Execute performs one action and returns the ref of the delivered message, if any.
// Edits of unchanged messages and deletes of missing messages succeed.
func (t *Transport) Execute(_ context.Context, action model.Action) (model.MessageRef, error) {
	switch action.Kind {
	case model.ActionSend:
		msg, err := t.api.Send(tele.ChatID(action.ChatID), action.Text, sendOptions(action.Keyboard))
		return refOf(msg, err, "send message")

	case model.ActionSendPhoto:
		photo := &tele.Photo{File: tele.File{FileID: action.MediaID}, Caption: action.Text}
		msg, err := t.api.Send(tele.ChatID(action.ChatID), photo, sendOptions(action.Keyboard))
		return refOf(msg, err, "send photo")

	case model.ActionSendVideo:
		video := &tele.Video{File: tele.File{FileID: action.MediaID}, Caption: action.Text}
		msg, err := t.api.Send(tele.ChatID(action.ChatID), video, sendOptions(action.Keyboard))
		return refOf(msg, err, "send video")

	case model.ActionEdit:
		msg, err := t.api.Edit(stored(action.Target), action.Text, sendOptions(action.Keyboard))
		if errors.Is(err, tele.ErrMessageNotModified) {
			return action.Target, nil
		}
		return refOf(msg, err, "edit message")

	case model.ActionDelete:
		err := t.api.Delete(stored(action.Target))
		if err != nil && !errors.Is(err, tele.ErrNotFoundToDelete) {
			return model.MessageRef{}, fmt.Errorf("failed to delete message: %w", err)
		}
		return model.MessageRef{}, nil

	case model.ActionAnswerCallback:
		resp := &tele.CallbackResponse{Text: action.Text, ShowAlert: action.Alert}
		if err := t.api.Respond(&tele.Callback{ID: action.CallbackID}, resp); err != nil {
			return model.MessageRef{}, fmt.Errorf("failed to answer callback: %w", err)
		}
		return model.MessageRef{}, nil
	}

	return model.MessageRef{}, fmt.Errorf("unknown action kind %d", action.Kind)
}

func sendOptions(kb model.Keyboard) *tele.SendOptions {
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML}
	if len(kb) > 0 {
		opts.ReplyMarkup = &tele.ReplyMarkup{InlineKeyboard: inlineKeyboard(kb)}
	}
	return opts
}

func inlineKeyboard(kb model.Keyboard) [][]tele.InlineButton {
	rows := make([][]tele.InlineButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tele.InlineButton{Text: b.Text, Data: b.Data, URL: b.URL})
		}
		rows = append(rows, buttons)
	}
	return rows
}

func stored(ref model.MessageRef) tele.StoredMessage {
	return tele.StoredMessage{MessageID: strconv.Itoa(ref.MessageID), ChatID: ref.ChatID}
}

func refOf(msg *tele.Message, err error, op string) (model.MessageRef, error) {
	if err != nil {
		return model.MessageRef{}, fmt.Errorf("failed to %s: %w", op, err)
	}
	if msg == nil || msg.Chat == nil {
		return model.MessageRef{}, nil
	}
	return model.MessageRef{ChatID: msg.Chat.ID, MessageID: msg.ID}, nil
}
