package service

import (
	"context"

	"github.com/dtroode/catalog-bot/internal/model"
)

// CategoryView is a category as shown to a viewer.
type CategoryView struct {
	Key         string
	DisplayName string
	SoldOut     bool
}

// ProductView is a product as shown to a viewer.
type ProductView struct {
	Name        string
	DisplayName string
}

func categoryVisible(c model.Category, dir Directory, userID int64) bool {
	return c.OwnerGroup == "" || dir.IsMember(userID, c.OwnerGroup)
}

func viewOf(c model.Category) CategoryView {
	return CategoryView{Key: c.Key, DisplayName: c.DisplayName(), SoldOut: c.IsSoldOut()}
}

// VisibleCategories returns the categories userID may see, in catalog order.
func VisibleCategories(cat model.Catalog, dir Directory, userID int64) []CategoryView {
	out := []CategoryView{}
	for _, c := range cat.Categories {
		if categoryVisible(c, dir, userID) {
			out = append(out, viewOf(c))
		}
	}
	return out
}

// VisibleProducts returns the products of key that userID may see.
// Products inside a group-owned category are not filtered again; products of a
// public category are filtered by their own owner.
func VisibleProducts(cat model.Catalog, dir Directory, key string, userID int64) ([]ProductView, error) {
	i := cat.Category(key)
	if i < 0 || !categoryVisible(cat.Categories[i], dir, userID) {
		return nil, model.ErrNotFound
	}

	category := cat.Categories[i]
	out := []ProductView{}
	for _, p := range category.Products {
		if category.OwnerGroup == "" && p.OwnerGroup != "" && !dir.IsMember(userID, p.OwnerGroup) {
			continue
		}
		out = append(out, ProductView{Name: p.Name, DisplayName: model.StripOwner(p.Name, p.OwnerGroup)})
	}
	return out, nil
}

// ManageableCategories returns the categories an admin may edit: public ones and
// those owned by the admin's groups.
func ManageableCategories(cat model.Catalog, dir Directory, userID int64) []CategoryView {
	out := []CategoryView{}
	for _, c := range cat.Categories {
		if canManage(dir, userID, c.OwnerGroup) {
			out = append(out, viewOf(c))
		}
	}
	return out
}

// ManageableProducts returns the products of key an admin may delete or edit.
func ManageableProducts(cat model.Catalog, dir Directory, key string, userID int64) ([]ProductView, error) {
	i := cat.Category(key)
	if i < 0 {
		return nil, model.ErrNotFound
	}
	category := cat.Categories[i]
	if !canManage(dir, userID, category.OwnerGroup) {
		return nil, model.ErrForbidden
	}

	out := []ProductView{}
	for _, p := range category.Products {
		if p.Name == model.SoldOutMarker || !canManage(dir, userID, p.OwnerGroup) {
			continue
		}
		out = append(out, ProductView{Name: p.Name, DisplayName: model.StripOwner(p.Name, p.OwnerGroup)})
	}
	return out, nil
}

// VisibleCategories loads the catalog and membership and filters for userID.
func (c *Catalog) VisibleCategories(ctx context.Context, userID int64) ([]CategoryView, error) {
	cat, dir, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return VisibleCategories(cat, dir, userID), nil
}

// VisibleProducts loads the catalog and membership and filters key for userID.
func (c *Catalog) VisibleProducts(ctx context.Context, key string, userID int64) ([]ProductView, error) {
	cat, dir, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return VisibleProducts(cat, dir, key, userID)
}

// ManageableCategories loads the catalog and membership and filters for an admin.
func (c *Catalog) ManageableCategories(ctx context.Context, userID int64) ([]CategoryView, error) {
	cat, dir, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ManageableCategories(cat, dir, userID), nil
}

// ManageableProducts loads the catalog and membership and filters key for an admin.
func (c *Catalog) ManageableProducts(ctx context.Context, key string, userID int64) ([]ProductView, error) {
	cat, dir, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ManageableProducts(cat, dir, key, userID)
}

// Product returns a product if userID may see it.
func (c *Catalog) Product(ctx context.Context, key, name string, userID int64) (model.Product, error) {
	cat, dir, err := c.snapshot(ctx)
	if err != nil {
		return model.Product{}, err
	}
	views, err := VisibleProducts(cat, dir, key, userID)
	if err != nil {
		return model.Product{}, err
	}
	for _, v := range views {
		if v.Name == name {
			category := cat.Categories[cat.Category(key)]
			return category.Products[category.Product(name)], nil
		}
	}
	return model.Product{}, model.ErrNotFound
}

func (c *Catalog) snapshot(ctx context.Context) (model.Catalog, Directory, error) {
	cat, err := c.Get(ctx)
	if err != nil {
		return model.Catalog{}, Directory{}, err
	}
	dir, err := c.groups.Directory(ctx)
	if err != nil {
		return model.Catalog{}, Directory{}, err
	}
	return cat, dir, nil
}
