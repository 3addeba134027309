// Package session persists per-user conversation state.
package session

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/dtroode/catalog-bot/internal/model"
)

var _ model.SessionStore = (*MemoryStore)(nil)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]model.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]model.Session)}
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return model.Session{}, model.ErrNotFound
	}
	return clone(sess), nil
}

func (s *MemoryStore) Put(_ context.Context, sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.UserID] = clone(sess)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

func clone(sess model.Session) model.Session {
	sess.Refs = maps.Clone(sess.Refs)
	sess.Tracked = slices.Clone(sess.Tracked)
	sess.Pending.Draft.Media = slices.Clone(sess.Pending.Draft.Media)
	return sess
}
