package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/catalog-bot/internal/mocks"
	"github.com/dtroode/catalog-bot/internal/model"
	"github.com/dtroode/catalog-bot/internal/testutil"
)

func TestBackup_SnapshotAndRestore(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	_, err := f.catalog.CreateCategory(ctx, adminID, model.ScopedName{Local: "Fruits"})
	require.NoError(t, err)
	require.NoError(t, f.settings.SetWelcome(ctx, "hello"))

	storage := mocks.NewStorage(t)
	var uploaded []byte
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "snapshots/20240301T120000Z-")
	}), mock.Anything).Return(nil).Once()
	storage.On("Upload", mock.Anything, "latest.json", mock.Anything).
		Run(func(args mock.Arguments) {
			data, err := io.ReadAll(args.Get(2).(io.Reader))
			require.NoError(t, err)
			uploaded = data
		}).Return(nil).Once()

	b := NewBackup(storage, f.catalog, f.config, f.clock.Now, testutil.MakeNoopLogger())
	key, err := b.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".json"))

	var doc backupDocument
	require.NoError(t, json.Unmarshal(uploaded, &doc))
	assert.Equal(t, "hello", doc.Config.WelcomeMessage)

	restored := newFixture()
	storage.On("Exists", mock.Anything, "latest.json").Return(true, nil).Once()
	storage.On("Download", mock.Anything, "latest.json").Return(io.NopCloser(bytes.NewReader(uploaded)), nil).Once()

	rb := NewBackup(storage, restored.catalog, restored.config, restored.clock.Now, testutil.MakeNoopLogger())
	ok, err := rb.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	cat, err := restored.catalog.Get(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cat.Category("Fruits"), 0)
	cfg, err := restored.config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", cfg.WelcomeMessage)
}

func TestBackup_RestoreWithoutSnapshot(t *testing.T) {
	f := newFixture()
	storage := mocks.NewStorage(t)
	storage.On("Exists", mock.Anything, "latest.json").Return(false, nil).Once()

	b := NewBackup(storage, f.catalog, f.config, f.clock.Now, testutil.MakeNoopLogger())
	ok, err := b.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, f.docs.Saves)
}
