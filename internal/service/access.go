package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"
	"time"

	"github.com/dtroode/catalog-bot/internal/logger"
	"github.com/dtroode/catalog-bot/internal/model"
)

const (
	codeAlphabet      = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeGenerateTries = 5
)

// Access owns access codes and the authorized and banned user sets.
type Access struct {
	codes      model.AccessCodeRepository
	config     *ConfigStore
	admins     []int64
	ttl        time.Duration
	codeLength int
	now        func() time.Time
	logger     *logger.Logger
}

func NewAccess(
	codes model.AccessCodeRepository,
	config *ConfigStore,
	admins []int64,
	ttl time.Duration,
	codeLength int,
	now func() time.Time,
	logger *logger.Logger,
) *Access {
	if now == nil {
		now = time.Now
	}
	if codeLength <= 0 {
		codeLength = 8
	}
	return &Access{
		codes:      codes,
		config:     config,
		admins:     slices.Clone(admins),
		ttl:        ttl,
		codeLength: codeLength,
		now:        now,
		logger:     logger,
	}
}

// IsAdmin reports whether userID is a configured admin.
func (a *Access) IsAdmin(userID int64) bool {
	return slices.Contains(a.admins, userID)
}

// GenerateCode issues a new code valid for the configured TTL.
func (a *Access) GenerateCode(ctx context.Context, issuer int64) (model.AccessCode, error) {
	if !a.IsAdmin(issuer) {
		return model.AccessCode{}, model.ErrUnauthorized
	}

	now := a.now()
	if _, err := a.codes.DeleteExpired(ctx, now); err != nil {
		a.logger.Warn("Access service: failed to purge expired codes", "error", err.Error())
	}

	for range codeGenerateTries {
		value, err := randomCode(a.codeLength)
		if err != nil {
			return model.AccessCode{}, fmt.Errorf("failed to generate code: %w", err)
		}

		code := model.AccessCode{
			Code:      value,
			Issuer:    issuer,
			CreatedAt: now,
			ExpiresAt: now.Add(a.ttl),
		}
		err = a.codes.Create(ctx, code)
		if errors.Is(err, model.ErrConflict) {
			continue
		}
		if err != nil {
			return model.AccessCode{}, fmt.Errorf("failed to store code: %w", err)
		}

		a.logger.Info("Access service: code generated",
			"issuer", issuer,
			"expires_at", code.ExpiresAt.Format(time.RFC3339))
		return code, nil
	}

	return model.AccessCode{}, fmt.Errorf("failed to generate a unique code after %d attempts", codeGenerateTries)
}

// Verify redeems code for userID. Codes are shared and stay valid until expiry.
func (a *Access) Verify(ctx context.Context, code string, userID int64) (model.VerifyResult, error) {
	cfg, err := a.config.Get(ctx)
	if err != nil {
		return model.VerifyInvalid, err
	}
	if !cfg.CodeRequired || cfg.IsAuthorized(userID) || a.IsAdmin(userID) {
		return model.VerifyAuthorized, nil
	}

	ac, err := a.codes.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if errors.Is(err, model.ErrNotFound) {
		return model.VerifyInvalid, nil
	}
	if err != nil {
		return model.VerifyInvalid, fmt.Errorf("failed to look up code: %w", err)
	}
	if ac.Expired(a.now()) {
		return model.VerifyExpired, nil
	}

	_, err = a.config.Update(ctx, func(cfg *model.Config) error {
		cfg.AuthorizedUsers = model.AddID(cfg.AuthorizedUsers, userID)
		return nil
	})
	if err != nil {
		return model.VerifyInvalid, err
	}

	a.logger.Info("Access service: user authorized", "user_id", userID)
	return model.VerifyAuthorized, nil
}

// IsAuthorized reports whether userID may use the bot without a code.
func (a *Access) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	if a.IsAdmin(userID) {
		return true, nil
	}
	cfg, err := a.config.Get(ctx)
	if err != nil {
		return false, err
	}
	return !cfg.CodeRequired || cfg.IsAuthorized(userID), nil
}

// Toggle flips whether codes are required and returns the new value.
func (a *Access) Toggle(ctx context.Context) (bool, error) {
	cfg, err := a.config.Update(ctx, func(cfg *model.Config) error {
		cfg.CodeRequired = !cfg.CodeRequired
		return nil
	})
	if err != nil {
		return false, err
	}
	a.logger.Info("Access service: code requirement toggled", "code_required", cfg.CodeRequired)
	return cfg.CodeRequired, nil
}

// CodeRequired returns the current gate state.
func (a *Access) CodeRequired(ctx context.Context) (bool, error) {
	cfg, err := a.config.Get(ctx)
	if err != nil {
		return false, err
	}
	return cfg.CodeRequired, nil
}

// ListActive returns non-expired codes ordered by expiry.
func (a *Access) ListActive(ctx context.Context) ([]model.AccessCode, error) {
	codes, err := a.codes.ListActive(ctx, a.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list codes: %w", err)
	}
	slices.SortStableFunc(codes, func(x, y model.AccessCode) int {
		if c := x.ExpiresAt.Compare(y.ExpiresAt); c != 0 {
			return c
		}
		return strings.Compare(x.Code, y.Code)
	})
	return codes, nil
}

func (a *Access) IsBanned(ctx context.Context, userID int64) (bool, error) {
	cfg, err := a.config.Get(ctx)
	if err != nil {
		return false, err
	}
	return cfg.IsBanned(userID), nil
}

// Ban excludes userID and revokes its authorization.
func (a *Access) Ban(ctx context.Context, userID int64) error {
	if a.IsAdmin(userID) {
		return model.ErrForbidden
	}
	_, err := a.config.Update(ctx, func(cfg *model.Config) error {
		cfg.BannedUsers = model.AddID(cfg.BannedUsers, userID)
		cfg.AuthorizedUsers = model.RemoveID(cfg.AuthorizedUsers, userID)
		return nil
	})
	if err != nil {
		return err
	}
	a.logger.Info("Access service: user banned", "user_id", userID)
	return nil
}

func (a *Access) Unban(ctx context.Context, userID int64) error {
	_, err := a.config.Update(ctx, func(cfg *model.Config) error {
		if !cfg.IsBanned(userID) {
			return model.ErrNotFound
		}
		cfg.BannedUsers = model.RemoveID(cfg.BannedUsers, userID)
		return nil
	})
	if err != nil {
		return err
	}
	a.logger.Info("Access service: user unbanned", "user_id", userID)
	return nil
}

// AuthorizedUsers returns the users that redeemed a code.
func (a *Access) AuthorizedUsers(ctx context.Context) ([]int64, error) {
	cfg, err := a.config.Get(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.AuthorizedUsers, nil
}

func randomCode(n int) (string, error) {
	var sb strings.Builder
	limit := big.NewInt(int64(len(codeAlphabet)))
	for range n {
		i, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		sb.WriteByte(codeAlphabet[i.Int64()])
	}
	return sb.String(), nil
}
