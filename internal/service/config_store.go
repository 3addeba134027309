package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/dtroode/catalog-bot/internal/logger"
	"github.com/dtroode/catalog-bot/internal/model"
)

// ConfigStore serializes read-modify-write cycles on the config document.
type ConfigStore struct {
	repo   model.ConfigRepository
	mu     sync.Mutex
	logger *logger.Logger
}

func NewConfigStore(repo model.ConfigRepository, logger *logger.Logger) *ConfigStore {
	return &ConfigStore{repo: repo, logger: logger}
}

// Get returns the latest persisted config.
func (s *ConfigStore) Get(ctx context.Context) (model.Config, error) {
	cfg, err := s.repo.LoadConfig(ctx)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Update applies fn to a copy of the latest config and persists the result.
// Nothing is saved when fn fails.
func (s *ConfigStore) Update(ctx context.Context, fn func(cfg *model.Config) error) (model.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.LoadConfig(ctx)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	next := current.Clone()
	if err := fn(&next); err != nil {
		return current, err
	}

	if err := s.repo.SaveConfig(ctx, next); err != nil {
		s.logger.Error("Config store: failed to save config", "error", err.Error())
		return current, fmt.Errorf("failed to save config: %w", err)
	}
	return next, nil
}

// Replace persists cfg as the whole config document.
func (s *ConfigStore) Replace(ctx context.Context, cfg model.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SaveConfig(ctx, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}
