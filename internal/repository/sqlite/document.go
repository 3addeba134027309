package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dtroode/catalog-bot/internal/model"
)

const (
	catalogDocument = "catalog"
	configDocument  = "config"
)

var (
	_ model.CatalogRepository = (*DocumentRepository)(nil)
	_ model.ConfigRepository  = (*DocumentRepository)(nil)
)

// DocumentRepository stores the catalog and config as single JSON rows.
type DocumentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) LoadCatalog(ctx context.Context) (model.Catalog, error) {
	catalog := model.NewCatalog()
	found, err := r.load(ctx, catalogDocument, &catalog)
	if err != nil {
		return model.Catalog{}, err
	}
	if found {
		catalog.EnsureStats()
	}
	return catalog, nil
}

func (r *DocumentRepository) SaveCatalog(ctx context.Context, catalog model.Catalog) error {
	return r.save(ctx, catalogDocument, catalog)
}

func (r *DocumentRepository) LoadConfig(ctx context.Context) (model.Config, error) {
	config := model.NewConfig()
	if _, err := r.load(ctx, configDocument, &config); err != nil {
		return model.Config{}, err
	}
	return config, nil
}

func (r *DocumentRepository) SaveConfig(ctx context.Context, config model.Config) error {
	return r.save(ctx, configDocument, config)
}

func (r *DocumentRepository) load(ctx context.Context, name string, dst any) (bool, error) {
	var body string
	err := r.db.GetContext(ctx, &body, `SELECT body FROM documents WHERE name = ?`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load %s document: %w", name, err)
	}

	if err := json.Unmarshal([]byte(body), dst); err != nil {
		return false, fmt.Errorf("failed to decode %s document: %w", name, err)
	}
	return true, nil
}

func (r *DocumentRepository) save(ctx context.Context, name string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", name, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		name, string(body), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save %s document: %w", name, err)
	}
	return nil
}
