package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/catalog-bot/internal/model"
)

var _ model.AccessCodeRepository = (*AccessCodeRepository)(nil)

type AccessCodeRepository struct {
	db querier
}

func NewAccessCodeRepository(db *Connection) *AccessCodeRepository {
	return &AccessCodeRepository{db: db}
}

func (r *AccessCodeRepository) Create(ctx context.Context, code model.AccessCode) error {
	const query = `
		INSERT INTO access_codes (code, issuer, created_at, expires_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, code.Code, code.Issuer, code.CreatedAt, code.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrConflict
		}
		return fmt.Errorf("failed to create access code: %w", err)
	}
	return nil
}

func (r *AccessCodeRepository) GetByCode(ctx context.Context, code string) (model.AccessCode, error) {
	const query = `
		SELECT code, issuer, created_at, expires_at
		FROM access_codes WHERE code = $1`

	var ac model.AccessCode
	err := r.db.QueryRow(ctx, query, code).Scan(&ac.Code, &ac.Issuer, &ac.CreatedAt, &ac.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.AccessCode{}, model.ErrNotFound
		}
		return model.AccessCode{}, fmt.Errorf("failed to get access code: %w", err)
	}
	return ac, nil
}

func (r *AccessCodeRepository) ListActive(ctx context.Context, now time.Time) ([]model.AccessCode, error) {
	const query = `
		SELECT code, issuer, created_at, expires_at
		FROM access_codes
		WHERE expires_at >= $1
		ORDER BY expires_at ASC, code ASC`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list access codes: %w", err)
	}
	defer rows.Close()

	codes := []model.AccessCode{}
	for rows.Next() {
		var ac model.AccessCode
		if err := rows.Scan(&ac.Code, &ac.Issuer, &ac.CreatedAt, &ac.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan access code: %w", err)
		}
		codes = append(codes, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate access codes: %w", err)
	}
	return codes, nil
}

func (r *AccessCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM access_codes WHERE expires_at < $1`

	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired access codes: %w", err)
	}
	return tag.RowsAffected(), nil
}
