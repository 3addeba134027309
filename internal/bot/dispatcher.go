package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dtroode/catalog-bot/internal/logger"
	"github.com/dtroode/catalog-bot/internal/model"
)

const maxTracked = 20

// Dispatcher feeds transport events through the engine one user at a time and
// executes the resulting actions.
type Dispatcher struct {
	engine    *Engine
	sessions  model.SessionStore
	transport model.Transport
	dedup     *Dedup
	locks     *userLocks
	logger    *logger.Logger

	afterFunc func(d time.Duration, f func())
}

func NewDispatcher(engine *Engine, sessions model.SessionStore, transport model.Transport, dedup *Dedup, logger *logger.Logger) *Dispatcher {
	return &Dispatcher{
		engine:    engine,
		sessions:  sessions,
		transport: transport,
		dedup:     dedup,
		locks:     newUserLocks(),
		logger:    logger,
		afterFunc: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// Dispatch handles one event to completion. Events of the same user are serialized.
func (d *Dispatcher) Dispatch(ctx context.Context, ev model.Event) {
	if d.dedup != nil && d.dedup.Seen(ev.UpdateID) {
		d.logger.Debug("Dispatcher: duplicate update dropped", "update_id", ev.UpdateID, "user_id", ev.SenderID)
		return
	}

	unlock := d.locks.lock(ev.SenderID)
	defer unlock()

	sess, err := d.sessions.Get(ctx, ev.SenderID)
	if errors.Is(err, model.ErrNotFound) {
		sess = model.Session{UserID: ev.SenderID}
	} else if err != nil {
		d.logger.Error("Dispatcher: failed to load session", "user_id", ev.SenderID, "error", err.Error())
		sess = model.Session{UserID: ev.SenderID}
	}

	actions := d.engine.Handle(ctx, &sess, ev)
	for _, action := range actions {
		d.execute(ctx, &sess, action)
	}

	if err := d.sessions.Put(ctx, sess); err != nil {
		d.logger.Error("Dispatcher: failed to save session", "user_id", ev.SenderID, "error", err.Error())
	}
}

// execute runs one action. Transport failures are logged and never reach handlers.
func (d *Dispatcher) execute(ctx context.Context, sess *model.Session, action model.Action) {
	ref, err := d.transport.Execute(ctx, action)
	if err != nil && action.Kind == model.ActionEdit {
		d.logger.Debug("Dispatcher: edit failed, sending instead", "user_id", sess.UserID, "error", err.Error())
		action.Kind = model.ActionSend
		action.Target = model.MessageRef{}
		action.Track = true
		ref, err = d.transport.Execute(ctx, action)
	}
	if err != nil {
		d.logger.Warn("Dispatcher: transport action failed",
			"user_id", sess.UserID,
			"action", int(action.Kind),
			"error", err.Error())
		return
	}

	if action.Kind == model.ActionDelete {
		sess.Tracked = removeRef(sess.Tracked, action.Target)
	}
	if action.Track && !ref.IsZero() {
		sess.Tracked = append(sess.Tracked, ref)
		if len(sess.Tracked) > maxTracked {
			sess.Tracked = sess.Tracked[len(sess.Tracked)-maxTracked:]
		}
	}
	if action.DeleteAfter > 0 && !ref.IsZero() {
		d.scheduleDelete(ref, action.DeleteAfter)
	}
}

// scheduleDelete removes a confirmation later. Failures are swallowed.
func (d *Dispatcher) scheduleDelete(ref model.MessageRef, after time.Duration) {
	d.afterFunc(after, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := d.transport.Execute(ctx, model.Action{Kind: model.ActionDelete, ChatID: ref.ChatID, Target: ref}); err != nil {
			d.logger.Debug("Dispatcher: scheduled delete failed", "message_id", ref.MessageID, "error", err.Error())
		}
	})
}

func removeRef(refs []model.MessageRef, ref model.MessageRef) []model.MessageRef {
	out := refs[:0]
	for _, r := range refs {
		if r != ref {
			out = append(out, r)
		}
	}
	return out
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// userLocks hands out one mutex per user and drops it when unused.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

func newUserLocks() *userLocks {
	return &userLocks{locks: map[int64]*userLock{}}
}

func (l *userLocks) lock(userID int64) func() {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
