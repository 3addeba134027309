package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/catalog-bot/internal/mocks"
	"github.com/dtroode/catalog-bot/internal/model"
	"github.com/dtroode/catalog-bot/internal/testutil"
)

func TestConfigStore_Update(t *testing.T) {
	ctx := context.Background()
	errDB := errors.New("db down")

	t.Run("persists the modified copy", func(t *testing.T) {
		repo := mocks.NewConfigRepository(t)
		repo.On("LoadConfig", mock.Anything).Return(model.NewConfig(), nil).Once()
		repo.On("SaveConfig", mock.Anything, mock.MatchedBy(func(cfg model.Config) bool {
			return cfg.WelcomeMessage == "hello"
		})).Return(nil).Once()

		store := NewConfigStore(repo, testutil.MakeNoopLogger())
		cfg, err := store.Update(ctx, func(cfg *model.Config) error {
			cfg.WelcomeMessage = "hello"
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "hello", cfg.WelcomeMessage)
	})

	t.Run("callback error skips save", func(t *testing.T) {
		repo := mocks.NewConfigRepository(t)
		repo.On("LoadConfig", mock.Anything).Return(model.NewConfig(), nil).Once()

		store := NewConfigStore(repo, testutil.MakeNoopLogger())
		_, err := store.Update(ctx, func(cfg *model.Config) error {
			cfg.WelcomeMessage = "ignored"
			return model.ErrConflict
		})
		assert.ErrorIs(t, err, model.ErrConflict)
		repo.AssertNotCalled(t, "SaveConfig", mock.Anything, mock.Anything)
	})

	t.Run("load error", func(t *testing.T) {
		repo := mocks.NewConfigRepository(t)
		repo.On("LoadConfig", mock.Anything).Return(model.Config{}, errDB).Once()

		store := NewConfigStore(repo, testutil.MakeNoopLogger())
		_, err := store.Update(ctx, func(*model.Config) error { return nil })
		assert.ErrorIs(t, err, errDB)
	})

	t.Run("save error returns the previous config", func(t *testing.T) {
		repo := mocks.NewConfigRepository(t)
		repo.On("LoadConfig", mock.Anything).Return(model.NewConfig(), nil).Once()
		repo.On("SaveConfig", mock.Anything, mock.Anything).Return(errDB).Once()

		store := NewConfigStore(repo, testutil.MakeNoopLogger())
		cfg, err := store.Update(ctx, func(cfg *model.Config) error {
			cfg.WelcomeMessage = "lost"
			return nil
		})
		assert.ErrorIs(t, err, errDB)
		assert.Empty(t, cfg.WelcomeMessage)
	})
}
