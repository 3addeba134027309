package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dtroode/catalog-bot/internal/model"
)

var _ model.AccessCodeRepository = (*AccessCodeRepository)(nil)

type AccessCodeRepository struct {
	db *sqlx.DB
}

func NewAccessCodeRepository(db *sqlx.DB) *AccessCodeRepository {
	return &AccessCodeRepository{db: db}
}

type accessCodeRow struct {
	Code      string `db:"code"`
	Issuer    int64  `db:"issuer"`
	CreatedAt int64  `db:"created_at"`
	ExpiresAt int64  `db:"expires_at"`
}

func (r accessCodeRow) toModel() model.AccessCode {
	return model.AccessCode{
		Code:      r.Code,
		Issuer:    r.Issuer,
		CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
		ExpiresAt: time.UnixMilli(r.ExpiresAt).UTC(),
	}
}

func (r *AccessCodeRepository) Create(ctx context.Context, code model.AccessCode) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO access_codes (code, issuer, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		code.Code, code.Issuer, code.CreatedAt.UnixMilli(), code.ExpiresAt.UnixMilli())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return model.ErrConflict
		}
		return fmt.Errorf("failed to create access code: %w", err)
	}
	return nil
}

func (r *AccessCodeRepository) GetByCode(ctx context.Context, code string) (model.AccessCode, error) {
	var row accessCodeRow
	err := r.db.GetContext(ctx, &row,
		`SELECT code, issuer, created_at, expires_at FROM access_codes WHERE code = ?`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.AccessCode{}, model.ErrNotFound
		}
		return model.AccessCode{}, fmt.Errorf("failed to get access code: %w", err)
	}
	return row.toModel(), nil
}

func (r *AccessCodeRepository) ListActive(ctx context.Context, now time.Time) ([]model.AccessCode, error) {
	var rows []accessCodeRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT code, issuer, created_at, expires_at
		FROM access_codes
		WHERE expires_at >= ?
		ORDER BY expires_at ASC, code ASC`, now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to list access codes: %w", err)
	}

	codes := make([]model.AccessCode, 0, len(rows))
	for _, row := range rows {
		codes = append(codes, row.toModel())
	}
	return codes, nil
}

func (r *AccessCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM access_codes WHERE expires_at < ?`, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired access codes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted access codes: %w", err)
	}
	return n, nil
}
