package model

import (
	"context"
	"time"
)

// BroadcastRequest asks the external broadcaster to deliver a message to recipients.
type BroadcastRequest struct {
	ID         string    `json:"id"`
	AdminID    int64     `json:"admin_id"`
	Text       string    `json:"text,omitempty"`
	MediaID    string    `json:"media_id,omitempty"`
	MediaKind  MediaKind `json:"media_kind,omitempty"`
	Recipients []int64   `json:"recipients"`
	CreatedAt  time.Time `json:"created_at"`
}

// Broadcaster hands broadcast requests to the delivery backend.
type Broadcaster interface {
	Broadcast(ctx context.Context, req BroadcastRequest) error
}
