package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/catalog-bot/internal/logger"
	"github.com/dtroode/catalog-bot/internal/model"
)

const (
	latestBackupKey = "latest.json"
	snapshotPrefix  = "snapshots/"
)

type backupDocument struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Catalog   model.Catalog `json:"catalog"`
	Config    model.Config  `json:"config"`
}

// Backup copies the catalog and config documents to object storage.
type Backup struct {
	storage model.Storage
	catalog *Catalog
	config  *ConfigStore
	now     func() time.Time
	logger  *logger.Logger
}

func NewBackup(storage model.Storage, catalog *Catalog, config *ConfigStore, now func() time.Time, logger *logger.Logger) *Backup {
	if now == nil {
		now = time.Now
	}
	return &Backup{storage: storage, catalog: catalog, config: config, now: now, logger: logger}
}

// Snapshot uploads a timestamped snapshot and replaces the latest pointer.
// It returns the snapshot object key.
func (b *Backup) Snapshot(ctx context.Context) (string, error) {
	cat, err := b.catalog.Get(ctx)
	if err != nil {
		return "", err
	}
	cfg, err := b.config.Get(ctx)
	if err != nil {
		return "", err
	}

	doc := backupDocument{ID: uuid.NewString(), CreatedAt: b.now().UTC(), Catalog: cat, Config: cfg}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	key := snapshotPrefix + doc.CreatedAt.Format("20060102T150405Z") + "-" + doc.ID + ".json"
	if err := b.storage.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}
	if err := b.storage.Upload(ctx, latestBackupKey, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to upload latest backup: %w", err)
	}

	b.logger.Info("Backup service: snapshot uploaded", "key", key, "categories", len(cat.Categories))
	return key, nil
}

// Restore loads the latest snapshot into the stores. It reports false when no snapshot exists.
func (b *Backup) Restore(ctx context.Context) (bool, error) {
	ok, err := b.storage.Exists(ctx, latestBackupKey)
	if err != nil {
		return false, fmt.Errorf("failed to check backup: %w", err)
	}
	if !ok {
		return false, nil
	}

	rc, err := b.storage.Download(ctx, latestBackupKey)
	if err != nil {
		return false, fmt.Errorf("failed to download backup: %w", err)
	}
	defer rc.Close()

	var doc backupDocument
	if err := json.NewDecoder(rc).Decode(&doc); err != nil {
		return false, fmt.Errorf("failed to decode backup: %w", err)
	}

	if err := b.config.Replace(ctx, doc.Config); err != nil {
		return false, err
	}
	if err := b.catalog.Replace(ctx, doc.Catalog); err != nil {
		return false, err
	}

	b.logger.Info("Backup service: snapshot restored", "id", doc.ID, "created_at", doc.CreatedAt)
	return true, nil
}

// Run takes a snapshot every interval until ctx is done.
func (b *Backup) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := b.Snapshot(ctx); err != nil {
				b.logger.Error("Backup service: snapshot failed", "error", err.Error())
			}
		}
	}
}
