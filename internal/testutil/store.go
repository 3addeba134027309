package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dtroode/catalog-bot/internal/model"
)

// DocumentStore is an in-memory catalog and config repository.
type DocumentStore struct {
	mu      sync.Mutex
	catalog *model.Catalog
	config  *model.Config
	Saves   int
	SaveErr error
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

func (s *DocumentStore) LoadCatalog(context.Context) (model.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog == nil {
		return model.NewCatalog(), nil
	}
	return s.catalog.Clone(), nil
}

func (s *DocumentStore) SaveCatalog(_ context.Context, c model.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	cc := c.Clone()
	s.catalog = &cc
	s.Saves++
	return nil
}

func (s *DocumentStore) LoadConfig(context.Context) (model.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		return model.NewConfig(), nil
	}
	return s.config.Clone(), nil
}

func (s *DocumentStore) SaveConfig(_ context.Context, c model.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	cc := c.Clone()
	s.config = &cc
	s.Saves++
	return nil
}

// AccessCodeStore is an in-memory access code repository.
type AccessCodeStore struct {
	mu    sync.Mutex
	codes map[string]model.AccessCode
}

func NewAccessCodeStore() *AccessCodeStore {
	return &AccessCodeStore{codes: map[string]model.AccessCode{}}
}

func (s *AccessCodeStore) Create(_ context.Context, code model.AccessCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.codes[code.Code]; ok {
		return model.ErrConflict
	}
	s.codes[code.Code] = code
	return nil
}

func (s *AccessCodeStore) GetByCode(_ context.Context, code string) (model.AccessCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ac, ok := s.codes[code]
	if !ok {
		return model.AccessCode{}, model.ErrNotFound
	}
	return ac, nil
}

func (s *AccessCodeStore) ListActive(_ context.Context, now time.Time) ([]model.AccessCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.AccessCode{}
	for _, ac := range s.codes {
		if !ac.Expired(now) {
			out = append(out, ac)
		}
	}
	slices.SortFunc(out, func(a, b model.AccessCode) int { return a.ExpiresAt.Compare(b.ExpiresAt) })
	return out, nil
}

func (s *AccessCodeStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, ac := range s.codes {
		if ac.Expired(now) {
			delete(s.codes, k)
			n++
		}
	}
	return n, nil
}
