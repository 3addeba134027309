package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/catalog-bot/internal/model"
)

func visibilityCatalog() model.Catalog {
	cat := model.NewCatalog()
	cat.Categories = []model.Category{
		{Key: "Fruits", Products: []model.Product{
			{Name: "Apple"},
			{Name: "VIP_Truffle", OwnerGroup: "VIP"},
		}},
		{Key: "VIP_Deals", OwnerGroup: "VIP", Products: []model.Product{
			{Name: "Ring"},
			{Name: "Gold_Bar", OwnerGroup: "Gold"},
		}},
		{Key: "Gold_Vault", OwnerGroup: "Gold", Products: []model.Product{model.SoldOutProduct()}},
	}
	return cat
}

func TestVisibleCategories(t *testing.T) {
	cat := visibilityCatalog()
	dir := NewDirectory([]model.Group{{Name: "VIP", Members: []int64{memberID}}, {Name: "Gold"}})

	assert.Equal(t, []CategoryView{
		{Key: "Fruits", DisplayName: "Fruits"},
		{Key: "VIP_Deals", DisplayName: "Deals"},
	}, VisibleCategories(cat, dir, memberID))

	assert.Equal(t, []CategoryView{{Key: "Fruits", DisplayName: "Fruits"}}, VisibleCategories(cat, dir, otherID))

	dir = NewDirectory([]model.Group{{Name: "VIP"}, {Name: "Gold", Members: []int64{otherID}}})
	assert.Contains(t, VisibleCategories(cat, dir, otherID), CategoryView{Key: "Gold_Vault", DisplayName: "Vault", SoldOut: true})
}

func TestVisibleProducts_TwoLevelRule(t *testing.T) {
	cat := visibilityCatalog()
	dir := NewDirectory([]model.Group{{Name: "VIP", Members: []int64{memberID}}, {Name: "Gold"}})

	views, err := VisibleProducts(cat, dir, "Fruits", otherID)
	require.NoError(t, err)
	assert.Equal(t, []ProductView{{Name: "Apple", DisplayName: "Apple"}}, views)

	views, err = VisibleProducts(cat, dir, "Fruits", memberID)
	require.NoError(t, err)
	assert.Equal(t, []ProductView{
		{Name: "Apple", DisplayName: "Apple"},
		{Name: "VIP_Truffle", DisplayName: "Truffle"},
	}, views)

	views, err = VisibleProducts(cat, dir, "VIP_Deals", memberID)
	require.NoError(t, err)
	assert.Len(t, views, 2, "products inside a private category are not filtered again")

	_, err = VisibleProducts(cat, dir, "VIP_Deals", otherID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = VisibleProducts(cat, dir, "Missing", memberID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestVisibility_MonotonicInMembership(t *testing.T) {
	cat := visibilityCatalog()
	before := NewDirectory([]model.Group{{Name: "VIP"}, {Name: "Gold"}})
	after := NewDirectory([]model.Group{{Name: "VIP", Members: []int64{otherID}}, {Name: "Gold"}})

	visibleBefore := VisibleCategories(cat, before, otherID)
	visibleAfter := VisibleCategories(cat, after, otherID)
	for _, v := range visibleBefore {
		assert.Contains(t, visibleAfter, v)
	}
	assert.Contains(t, visibleAfter, CategoryView{Key: "VIP_Deals", DisplayName: "Deals"})

	productsBefore, err := VisibleProducts(cat, before, "Fruits", otherID)
	require.NoError(t, err)
	productsAfter, err := VisibleProducts(cat, after, "Fruits", otherID)
	require.NoError(t, err)
	for _, v := range productsBefore {
		assert.Contains(t, productsAfter, v)
	}
	assert.Len(t, productsAfter, 2)
}

func TestVisibility_DeletedGroupStaysHidden(t *testing.T) {
	cat := visibilityCatalog()
	dir := NewDirectory([]model.Group{{Name: "VIP", Members: []int64{memberID}}})

	for _, v := range VisibleCategories(cat, dir, memberID) {
		assert.NotEqual(t, "Gold_Vault", v.Key)
	}
}

func TestManageableCategories(t *testing.T) {
	cat := visibilityCatalog()
	dir := NewDirectory([]model.Group{{Name: "VIP", Members: []int64{memberID}}, {Name: "Gold"}})

	assert.Equal(t, []CategoryView{
		{Key: "Fruits", DisplayName: "Fruits"},
		{Key: "VIP_Deals", DisplayName: "Deals"},
	}, ManageableCategories(cat, dir, memberID))
	assert.Equal(t, []CategoryView{{Key: "Fruits", DisplayName: "Fruits"}}, ManageableCategories(cat, dir, adminID))
}

func TestManageableCategories_DeletedGroup(t *testing.T) {
	cat := visibilityCatalog()
	dir := NewDirectory([]model.Group{{Name: "VIP", Members: []int64{memberID}}})

	assert.Equal(t, []CategoryView{
		{Key: "Fruits", DisplayName: "Fruits"},
		{Key: "Gold_Vault", DisplayName: "Vault", SoldOut: true},
	}, ManageableCategories(cat, dir, adminID), "admins outside any group can clean up")
	assert.Equal(t, []CategoryView{
		{Key: "Fruits", DisplayName: "Fruits"},
		{Key: "VIP_Deals", DisplayName: "Deals"},
	}, ManageableCategories(cat, dir, memberID))
}

func TestManageableProducts(t *testing.T) {
	cat := visibilityCatalog()
	dir := NewDirectory([]model.Group{{Name: "VIP", Members: []int64{memberID}}, {Name: "Gold"}})

	tests := []struct {
		name    string
		key     string
		userID  int64
		want    []ProductView
		wantErr error
	}{
		{
			name:   "public category without groups",
			key:    "Fruits",
			userID: adminID,
			want:   []ProductView{{Name: "Apple", DisplayName: "Apple"}},
		},
		{
			name:   "public category as member",
			key:    "Fruits",
			userID: memberID,
			want: []ProductView{
				{Name: "Apple", DisplayName: "Apple"},
				{Name: "VIP_Truffle", DisplayName: "Truffle"},
			},
		},
		{
			name:   "group category hides other groups",
			key:    "VIP_Deals",
			userID: memberID,
			want:   []ProductView{{Name: "Ring", DisplayName: "Ring"}},
		},
		{
			name:    "group without the admin",
			key:     "Gold_Vault",
			userID:  adminID,
			wantErr: model.ErrForbidden,
		},
		{
			name:    "foreign group category",
			key:     "VIP_Deals",
			userID:  adminID,
			wantErr: model.ErrForbidden,
		},
		{
			name:    "missing",
			key:     "Missing",
			userID:  adminID,
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ManageableProducts(cat, dir, tt.key, tt.userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	dir = NewDirectory([]model.Group{{Name: "VIP"}, {Name: "Gold", Members: []int64{otherID}}})
	got, err := ManageableProducts(cat, dir, "Gold_Vault", otherID)
	require.NoError(t, err)
	assert.Empty(t, got, "the sold-out marker is not a product")
}
