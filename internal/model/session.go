package model

import "context"

// State is a conversation state.
type State string

// PendingKind identifies the multi-step flow in progress.
type PendingKind string

// ProductDraft accumulates product fields across turns.
type ProductDraft struct {
	Name        string     `json:"name,omitempty"`
	OwnerGroup  string     `json:"owner_group,omitempty"`
	Price       string     `json:"price,omitempty"`
	Description string     `json:"description,omitempty"`
	Media       []MediaRef `json:"media,omitempty"`
}

// PendingEdit is the scratch state of an in-flight flow.
type PendingEdit struct {
	Kind     PendingKind  `json:"kind,omitempty"`
	Category string       `json:"category,omitempty"`
	Product  string       `json:"product,omitempty"`
	Field    ProductField `json:"field,omitempty"`
	Group    string       `json:"group,omitempty"`
	ButtonID string       `json:"button_id,omitempty"`
	Local    string       `json:"local,omitempty"`
	Draft    ProductDraft `json:"draft"`
}

// Session is the per-user conversation state.
type Session struct {
	UserID  int64             `json:"user_id"`
	State   State             `json:"state"`
	Pending PendingEdit       `json:"pending"`
	Refs    map[string]string `json:"refs,omitempty"`
	Tracked []MessageRef      `json:"tracked,omitempty"`
}

// Reset clears the flow and its scratch state.
func (s *Session) Reset(state State) {
	s.State = state
	s.Pending = PendingEdit{}
}

// SessionStore persists conversation sessions.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (Session, error)
	Put(ctx context.Context, session Session) error
	Delete(ctx context.Context, userID int64) error
}
