package model

import (
	"context"
	"time"
)

// EventKind is the shape of an incoming transport event.
type EventKind int

const (
	EventText EventKind = iota
	EventCommand
	EventPhoto
	EventVideo
	EventButton
)

// Event is a transport-neutral incoming update.
type Event struct {
	UpdateID   int64
	SenderID   int64
	ChatID     int64
	Kind       EventKind
	Command    string
	Text       string
	MediaID    string
	Data       string
	CallbackID string
	MessageID  int
}

// MessageRef is an opaque handle to a delivered message.
type MessageRef struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int   `json:"message_id"`
}

// IsZero reports whether the ref is unset.
func (r MessageRef) IsZero() bool {
	return r.MessageID == 0
}

// ActionKind is the kind of an outbound action.
type ActionKind int

const (
	ActionSend ActionKind = iota
	ActionEdit
	ActionDelete
	ActionSendPhoto
	ActionSendVideo
	ActionAnswerCallback
)

// Button is an inline button. Exactly one of Data and URL is set.
type Button struct {
	Text string
	Data string
	URL  string
}

// Keyboard is a grid of inline buttons.
type Keyboard [][]Button

// Action describes one outbound side effect.
type Action struct {
	Kind       ActionKind
	ChatID     int64
	Text       string
	Keyboard   Keyboard
	MediaID    string
	Target     MessageRef
	CallbackID string
	Alert      bool
	// Track records the delivered message so the next session start can remove it.
	Track       bool
	DeleteAfter time.Duration
}

// Transport executes outbound actions.
type Transport interface {
	Execute(ctx context.Context, action Action) (MessageRef, error)
}
