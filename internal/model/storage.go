package model

import (
	"context"
	"io"
	"time"
)

// CatalogRepository persists the catalog document atomically.
type CatalogRepository interface {
	LoadCatalog(ctx context.Context) (Catalog, error)
	SaveCatalog(ctx context.Context, catalog Catalog) error
}

// ConfigRepository persists the configuration document atomically.
type ConfigRepository interface {
	LoadConfig(ctx context.Context) (Config, error)
	SaveConfig(ctx context.Context, config Config) error
}

// AccessCodeRepository persists access codes.
type AccessCodeRepository interface {
	Create(ctx context.Context, code AccessCode) error
	GetByCode(ctx context.Context, code string) (AccessCode, error)
	ListActive(ctx context.Context, now time.Time) ([]AccessCode, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Storage is an object store used for backups.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
}
