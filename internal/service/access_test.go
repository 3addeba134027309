package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/catalog-bot/internal/mocks"
	"github.com/dtroode/catalog-bot/internal/model"
	"github.com/dtroode/catalog-bot/internal/testutil"
)

func TestAccess_GenerateCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	code, err := f.access.GenerateCode(ctx, adminID)
	require.NoError(t, err)
	assert.Len(t, code.Code, 8)
	assert.Equal(t, testStart.Add(24*time.Hour), code.ExpiresAt)
	assert.Equal(t, adminID, code.Issuer)

	_, err = f.access.GenerateCode(ctx, otherID)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestAccess_Verify(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		want    model.VerifyResult
	}{
		{name: "within ttl", advance: time.Hour, want: model.VerifyAuthorized},
		{name: "after ttl", advance: 25 * time.Hour, want: model.VerifyExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture()

			code, err := f.access.GenerateCode(ctx, adminID)
			require.NoError(t, err)

			f.clock.Advance(tt.advance)
			got, err := f.access.Verify(ctx, code.Code, otherID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			authorized, err := f.access.IsAuthorized(ctx, otherID)
			require.NoError(t, err)
			assert.Equal(t, tt.want == model.VerifyAuthorized, authorized)
		})
	}
}

func TestAccess_Verify_InvalidAndShared(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	got, err := f.access.Verify(ctx, "NOPE", otherID)
	require.NoError(t, err)
	assert.Equal(t, model.VerifyInvalid, got)

	code, err := f.access.GenerateCode(ctx, adminID)
	require.NoError(t, err)

	for _, uid := range []int64{otherID, memberID} {
		got, err := f.access.Verify(ctx, " "+code.Code+" ", uid)
		require.NoError(t, err)
		assert.Equal(t, model.VerifyAuthorized, got)
	}
}

func TestAccess_Verify_IdempotentOnceAuthorized(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	code, err := f.access.GenerateCode(ctx, adminID)
	require.NoError(t, err)
	got, err := f.access.Verify(ctx, code.Code, otherID)
	require.NoError(t, err)
	require.Equal(t, model.VerifyAuthorized, got)

	f.clock.Advance(48 * time.Hour)
	for _, c := range []string{code.Code, "garbage"} {
		got, err := f.access.Verify(ctx, c, otherID)
		require.NoError(t, err)
		assert.Equal(t, model.VerifyAuthorized, got)
	}
}

func TestAccess_Toggle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	required, err := f.access.Toggle(ctx)
	require.NoError(t, err)
	assert.False(t, required)

	got, err := f.access.Verify(ctx, "anything", otherID)
	require.NoError(t, err)
	assert.Equal(t, model.VerifyAuthorized, got)

	required, err = f.access.Toggle(ctx)
	require.NoError(t, err)
	assert.True(t, required)

	authorized, err := f.access.IsAuthorized(ctx, otherID)
	require.NoError(t, err)
	assert.False(t, authorized, "bypass does not persist authorization")
}

func TestAccess_ListActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	first, err := f.access.GenerateCode(ctx, adminID)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	second, err := f.access.GenerateCode(ctx, adminID)
	require.NoError(t, err)

	codes, err := f.access.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, first.Code, codes[0].Code)
	assert.Equal(t, second.Code, codes[1].Code)

	f.clock.Advance(23*time.Hour + time.Minute)
	codes, err = f.access.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, second.Code, codes[0].Code)
}

func TestAccess_BanUnban(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	code, err := f.access.GenerateCode(ctx, adminID)
	require.NoError(t, err)
	_, err = f.access.Verify(ctx, code.Code, otherID)
	require.NoError(t, err)

	require.NoError(t, f.access.Ban(ctx, otherID))
	banned, err := f.access.IsBanned(ctx, otherID)
	require.NoError(t, err)
	assert.True(t, banned)
	authorized, err := f.access.IsAuthorized(ctx, otherID)
	require.NoError(t, err)
	assert.False(t, authorized)

	assert.ErrorIs(t, f.access.Ban(ctx, adminID), model.ErrForbidden)

	require.NoError(t, f.access.Unban(ctx, otherID))
	assert.ErrorIs(t, f.access.Unban(ctx, otherID), model.ErrNotFound)
}

func TestAccess_RepositoryFailures(t *testing.T) {
	ctx := context.Background()
	errDB := errors.New("db down")

	t.Run("code collisions exhaust retries", func(t *testing.T) {
		codes := mocks.NewAccessCodeRepository(t)
		codes.On("DeleteExpired", mock.Anything, testStart).Return(int64(0), nil).Once()
		codes.On("Create", mock.Anything, mock.Anything).Return(model.ErrConflict).Times(codeGenerateTries)

		f := newFixture()
		access := NewAccess(codes, f.config, []int64{adminID}, 24*time.Hour, 8, f.clock.Now, testutil.MakeNoopLogger())
		_, err := access.GenerateCode(ctx, adminID)
		assert.Error(t, err)
	})

	t.Run("purge failure does not block generation", func(t *testing.T) {
		codes := mocks.NewAccessCodeRepository(t)
		codes.On("DeleteExpired", mock.Anything, testStart).Return(int64(0), errDB).Once()
		codes.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		f := newFixture()
		access := NewAccess(codes, f.config, []int64{adminID}, 24*time.Hour, 8, f.clock.Now, testutil.MakeNoopLogger())
		_, err := access.GenerateCode(ctx, adminID)
		assert.NoError(t, err)
	})

	t.Run("lookup failure is an error, not a result", func(t *testing.T) {
		codes := mocks.NewAccessCodeRepository(t)
		codes.On("GetByCode", mock.Anything, "ABCD").Return(model.AccessCode{}, errDB).Once()

		f := newFixture()
		access := NewAccess(codes, f.config, []int64{adminID}, 24*time.Hour, 8, f.clock.Now, testutil.MakeNoopLogger())
		_, err := access.Verify(ctx, " abcd ", otherID)
		assert.ErrorIs(t, err, errDB)
	})
}
