package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/catalog-bot/internal/model"
)

func TestGroups_Create(t *testing.T) {
	tests := []struct {
		name    string
		group   string
		wantErr error
	}{
		{name: "valid", group: "VIP"},
		{name: "reserved", group: "stats", wantErr: model.ErrInvalidName},
		{name: "reserved case insensitive", group: "Stats", wantErr: model.ErrInvalidName},
		{name: "separator", group: "V_IP", wantErr: model.ErrInvalidName},
		{name: "empty", group: "  ", wantErr: model.ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			err := f.groups.Create(context.Background(), tt.group)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestGroups_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	require.NoError(t, f.groups.Create(ctx, "VIP"))
	require.NoError(t, f.groups.Create(ctx, "Bronze"))
	assert.ErrorIs(t, f.groups.Create(ctx, "VIP"), model.ErrConflict)

	require.NoError(t, f.groups.AddMember(ctx, "VIP", memberID))
	require.NoError(t, f.groups.AddMember(ctx, "Bronze", memberID))
	assert.ErrorIs(t, f.groups.AddMember(ctx, "VIP", memberID), model.ErrConflict)
	assert.ErrorIs(t, f.groups.AddMember(ctx, "Gold", memberID), model.ErrNotFound)

	groups, err := f.groups.GroupsOf(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bronze", "VIP"}, groups)

	list, err := f.groups.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bronze", list[0].Name)

	require.NoError(t, f.groups.RemoveMember(ctx, "VIP", memberID))
	ok, err := f.groups.IsMember(ctx, memberID, "VIP")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, f.groups.RemoveMember(ctx, "VIP", memberID), model.ErrNotFound)

	require.NoError(t, f.groups.Delete(ctx, "Bronze"))
	assert.ErrorIs(t, f.groups.Delete(ctx, "Bronze"), model.ErrNotFound)
}

func TestDirectory_Resolve(t *testing.T) {
	dir := NewDirectory([]model.Group{{Name: "VIP"}, {Name: "VIPPlus"}})

	name, ok := dir.Resolve("VIPPlus_Deals")
	require.True(t, ok)
	assert.Equal(t, model.ScopedName{Group: "VIPPlus", Local: "Deals"}, name)

	name, ok = dir.Resolve("VIP_Deals")
	require.True(t, ok)
	assert.Equal(t, "VIP", name.Group)

	_, ok = dir.Resolve("Fruits")
	assert.False(t, ok)
}
