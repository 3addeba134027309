// Package events hands broadcast requests to the external delivery service over NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dtroode/catalog-bot/internal/logger"
	"github.com/dtroode/catalog-bot/internal/model"
)

const flushTimeout = 5 * time.Second

// natsConn is the subset of *nats.Conn used by Broadcaster.
type natsConn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

var _ model.Broadcaster = (*Broadcaster)(nil)

// Broadcaster publishes broadcast requests on a NATS subject.
type Broadcaster struct {
	conn    natsConn
	subject string
	logger  *logger.Logger
}

// Connect dials NATS and returns a Broadcaster publishing on subject.
func Connect(url, subject string, logger *logger.Logger) (*Broadcaster, error) {
	conn, err := nats.Connect(url, nats.Name("catalog-bot"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return NewBroadcaster(conn, subject, logger), nil
}

func NewBroadcaster(conn natsConn, subject string, logger *logger.Logger) *Broadcaster {
	return &Broadcaster{conn: conn, subject: subject, logger: logger}
}

// Broadcast publishes req and waits for the server to acknowledge the flush.
func (b *Broadcaster) Broadcast(ctx context.Context, req model.BroadcastRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast request: %w", err)
	}

	b.logger.DebugContext(ctx, "Broadcaster: publishing request",
		"subject", b.subject,
		"request_id", req.ID,
		"recipients", len(req.Recipients))

	if err := b.conn.Publish(b.subject, payload); err != nil {
		return fmt.Errorf("failed to publish broadcast request: %w", err)
	}
	flushCtx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := b.conn.FlushWithContext(flushCtx); err != nil {
		return fmt.Errorf("failed to flush broadcast request: %w", err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (b *Broadcaster) Close() error {
	return b.conn.Drain()
}

// Disabled is used when no NATS server is configured.
type Disabled struct{}

func (Disabled) Broadcast(context.Context, model.BroadcastRequest) error {
	return model.ErrBroadcastDisabled
}
