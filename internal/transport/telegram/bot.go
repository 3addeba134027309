package telegram

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/dtroode/catalog-bot/internal/logger"
	"github.com/dtroode/catalog-bot/internal/model"
)

// Dispatcher receives converted events.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev model.Event)
}

// NewBot creates a long-polling bot.
func NewBot(token string, pollTimeout time.Duration, logger *logger.Logger) (*tele.Bot, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
		OnError: func(err error, c tele.Context) {
			logger.Error("Telegram: handler error", "error", err.Error())
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return b, nil
}

// Register routes every supported update kind to d. Commands reach the text
// handler because none is registered on its own.
func Register(ctx context.Context, b *tele.Bot, d Dispatcher) {
	handler := func(c tele.Context) error {
		if ev, ok := ToEvent(c.Update()); ok {
			d.Dispatch(ctx, ev)
		}
		return nil
	}
	for _, endpoint := range []string{tele.OnText, tele.OnPhoto, tele.OnVideo, tele.OnCallback} {
		b.Handle(endpoint, handler)
	}
}

// Run polls until ctx is cancelled.
func Run(ctx context.Context, b *tele.Bot, logger *logger.Logger) error {
	go func() {
		<-ctx.Done()
		logger.Info("Telegram: stopping poller")
		b.Stop()
	}()

	logger.Info("Telegram: polling started", "bot", b.Me.Username)
	b.Start()
	return nil
}
