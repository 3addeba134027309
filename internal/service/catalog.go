package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dtroode/catalog-bot/internal/logger"
	"github.com/dtroode/catalog-bot/internal/model"
)

const topProducts = 5

// DirectorySource provides the current group membership snapshot.
type DirectorySource interface {
	Directory(ctx context.Context) (Directory, error)
}

// Catalog owns the category tree and view statistics.
// Every mutation loads the latest document, applies the change to a copy and saves it.
type Catalog struct {
	repo   model.CatalogRepository
	groups DirectorySource
	mu     sync.Mutex
	now    func() time.Time
	logger *logger.Logger
}

func NewCatalog(repo model.CatalogRepository, groups DirectorySource, now func() time.Time, logger *logger.Logger) *Catalog {
	if now == nil {
		now = time.Now
	}
	return &Catalog{repo: repo, groups: groups, now: now, logger: logger}
}

// Get returns the latest persisted catalog.
func (c *Catalog) Get(ctx context.Context) (model.Catalog, error) {
	cat, err := c.repo.LoadCatalog(ctx)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("failed to load catalog: %w", err)
	}
	cat.EnsureStats()
	return cat, nil
}

func (c *Catalog) update(ctx context.Context, fn func(cat *model.Catalog) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.repo.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	next := current.Clone()
	next.EnsureStats()
	if err := fn(&next); err != nil {
		return err
	}

	if err := c.repo.SaveCatalog(ctx, next); err != nil {
		c.logger.Error("Catalog service: failed to save catalog", "error", err.Error())
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	return nil
}

// Replace persists cat as the whole catalog document.
func (c *Catalog) Replace(ctx context.Context, cat model.Catalog) error {
	return c.update(ctx, func(current *model.Catalog) error {
		*current = cat.Clone()
		current.EnsureStats()
		return nil
	})
}

// canManage reports whether requester may change an entry owned by owner. Entries of a
// deleted group are left to admins outside any group so they can be cleaned up.
func canManage(dir Directory, requester int64, owner string) bool {
	switch {
	case owner == "":
		return true
	case dir.Exists(owner):
		return dir.IsMember(requester, owner)
	default:
		return len(dir.GroupsOf(requester)) == 0
	}
}

func localName(text, owner string) string {
	return strings.TrimSpace(model.StripOwner(strings.TrimSpace(text), owner))
}

// CreateCategory adds an empty category.
func (c *Catalog) CreateCategory(ctx context.Context, requester int64, name model.ScopedName) (model.Category, error) {
	name.Local = localName(name.Local, name.Group)
	if name.Local == "" || name.Local == model.SoldOutMarker {
		return model.Category{}, model.ErrInvalidName
	}

	dir, err := c.groups.Directory(ctx)
	if err != nil {
		return model.Category{}, err
	}
	if name.Group != "" && !dir.IsMember(requester, name.Group) {
		return model.Category{}, model.ErrForbidden
	}

	category := model.Category{Key: name.Key(), OwnerGroup: name.Group, Products: []model.Product{}}
	err = c.update(ctx, func(cat *model.Catalog) error {
		if cat.Category(category.Key) >= 0 {
			return model.ErrConflict
		}
		cat.Categories = append(cat.Categories, category)
		return nil
	})
	if err != nil {
		return model.Category{}, err
	}

	c.logger.Info("Catalog service: category created", "category", category.Key, "user_id", requester)
	return category, nil
}

// DeleteCategory removes a category and its counters.
func (c *Catalog) DeleteCategory(ctx context.Context, key string, requester int64) error {
	dir, err := c.groups.Directory(ctx)
	if err != nil {
		return err
	}

	err = c.update(ctx, func(cat *model.Catalog) error {
		i := cat.Category(key)
		if i < 0 {
			return model.ErrNotFound
		}
		if !canManage(dir, requester, cat.Categories[i].OwnerGroup) {
			return model.ErrForbidden
		}
		cat.Categories = slices.Delete(cat.Categories, i, i+1)
		delete(cat.Stats.CategoryViews, key)
		delete(cat.Stats.ProductViews, key)
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Info("Catalog service: category deleted", "category", key, "user_id", requester)
	return nil
}

// RenameCategory changes the local name of a category. The owner group is kept.
func (c *Catalog) RenameCategory(ctx context.Context, oldKey, newLocal string, requester int64) (string, error) {
	dir, err := c.groups.Directory(ctx)
	if err != nil {
		return "", err
	}

	var newKey string
	err = c.update(ctx, func(cat *model.Catalog) error {
		i := cat.Category(oldKey)
		if i < 0 {
			return model.ErrNotFound
		}
		category := &cat.Categories[i]
		if !canManage(dir, requester, category.OwnerGroup) {
			return model.ErrForbidden
		}

		local := localName(newLocal, category.OwnerGroup)
		if local == "" || local == model.SoldOutMarker {
			return model.ErrInvalidName
		}
		newKey = model.ScopedName{Group: category.OwnerGroup, Local: local}.Key()
		if newKey == oldKey {
			return nil
		}
		if cat.Category(newKey) >= 0 {
			return model.ErrConflict
		}

		category.Key = newKey
		if v, ok := cat.Stats.CategoryViews[oldKey]; ok {
			cat.Stats.CategoryViews[newKey] = v
			delete(cat.Stats.CategoryViews, oldKey)
		}
		if v, ok := cat.Stats.ProductViews[oldKey]; ok {
			cat.Stats.ProductViews[newKey] = v
			delete(cat.Stats.ProductViews, oldKey)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	c.logger.Info("Catalog service: category renamed", "from", oldKey, "to", newKey, "user_id", requester)
	return newKey, nil
}

// SetSoldOut replaces all products of the category with the sold-out sentinel.
func (c *Catalog) SetSoldOut(ctx context.Context, key string, requester int64) error {
	dir, err := c.groups.Directory(ctx)
	if err != nil {
		return err
	}

	err = c.update(ctx, func(cat *model.Catalog) error {
		i := cat.Category(key)
		if i < 0 {
			return model.ErrNotFound
		}
		if !canManage(dir, requester, cat.Categories[i].OwnerGroup) {
			return model.ErrForbidden
		}
		cat.Categories[i].Products = []model.Product{model.SoldOutProduct()}
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Info("Catalog service: category marked sold out", "category", key, "user_id", requester)
	return nil
}

// AddProduct appends a product. A sold-out category is cleared first.
func (c *Catalog) AddProduct(ctx context.Context, key string, product model.Product) error {
	if localName(product.Name, product.OwnerGroup) == "" || product.Name == model.SoldOutMarker {
		return model.ErrInvalidName
	}

	err := c.update(ctx, func(cat *model.Catalog) error {
		i := cat.Category(key)
		if i < 0 {
			return model.ErrNotFound
		}
		category := &cat.Categories[i]
		if category.IsSoldOut() {
			category.Products = []model.Product{}
		}
		if category.Product(product.Name) >= 0 {
			return model.ErrConflict
		}
		product.Media = reindexMedia(product.Media)
		category.Products = append(category.Products, product)
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Info("Catalog service: product added", "category", key, "product", product.Name)
	return nil
}

// DeleteProduct removes a product. Removing the last product leaves an empty category.
func (c *Catalog) DeleteProduct(ctx context.Context, key, name string, requester int64) error {
	dir, err := c.groups.Directory(ctx)
	if err != nil {
		return err
	}

	err = c.update(ctx, func(cat *model.Catalog) error {
		i := cat.Category(key)
		if i < 0 {
			return model.ErrNotFound
		}
		category := &cat.Categories[i]
		if category.IsSoldOut() {
			return model.ErrSoldOut
		}
		j := category.Product(name)
		if j < 0 {
			return model.ErrNotFound
		}
		if !canManage(dir, requester, category.OwnerGroup) || !canManage(dir, requester, category.Products[j].OwnerGroup) {
			return model.ErrForbidden
		}
		category.Products = slices.Delete(category.Products, j, j+1)
		if views, ok := cat.Stats.ProductViews[key]; ok {
			delete(views, name)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Info("Catalog service: product deleted", "category", key, "product", name, "user_id", requester)
	return nil
}

// EditProductField changes one field of a product and returns the updated product.
// A new name keeps the product's owner prefix. An unowned product edited by a group
// member takes the member's first group.
func (c *Catalog) EditProductField(ctx context.Context, key, name string, requester int64, edit model.ProductEdit) (model.Product, error) {
	if !edit.Field.Valid() {
		return model.Product{}, model.ErrInvalidValue
	}

	dir, err := c.groups.Directory(ctx)
	if err != nil {
		return model.Product{}, err
	}

	var updated model.Product
	err = c.update(ctx, func(cat *model.Catalog) error {
		i := cat.Category(key)
		if i < 0 {
			return model.ErrNotFound
		}
		category := &cat.Categories[i]
		if category.IsSoldOut() {
			return model.ErrSoldOut
		}
		j := category.Product(name)
		if j < 0 {
			return model.ErrNotFound
		}
		product := &category.Products[j]
		if !canManage(dir, requester, category.OwnerGroup) || !canManage(dir, requester, product.OwnerGroup) {
			return model.ErrForbidden
		}

		switch edit.Field {
		case model.FieldName:
			owner := product.OwnerGroup
			if owner == "" {
				if groups := dir.GroupsOf(requester); len(groups) > 0 {
					owner = groups[0]
				}
			}
			local := localName(edit.Text, owner)
			if local == "" || local == model.SoldOutMarker {
				return model.ErrInvalidName
			}
			newName := model.ScopedName{Group: owner, Local: local}.Key()
			if newName != product.Name && category.Product(newName) >= 0 {
				return model.ErrConflict
			}
			if views, ok := cat.Stats.ProductViews[key]; ok {
				if v, ok := views[product.Name]; ok && newName != product.Name {
					views[newName] = v
					delete(views, product.Name)
				}
			}
			product.Name = newName
			product.OwnerGroup = owner
		case model.FieldPrice:
			if strings.TrimSpace(edit.Text) == "" {
				return model.ErrInvalidValue
			}
			product.Price = edit.Text
		case model.FieldDescription:
			if strings.TrimSpace(edit.Text) == "" {
				return model.ErrInvalidValue
			}
			product.Description = edit.Text
		case model.FieldMedia:
			product.Media = reindexMedia(edit.Media)
		}

		updated = *product
		updated.Media = slices.Clone(product.Media)
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}

	c.logger.Info("Catalog service: product edited",
		"category", key, "product", name, "field", string(edit.Field), "user_id", requester)
	return updated, nil
}

// reindexMedia orders media by their current index and numbers them from zero.
func reindexMedia(media []model.MediaRef) []model.MediaRef {
	if len(media) == 0 {
		return nil
	}
	sorted := model.Product{Media: media}.SortedMedia()
	for i := range sorted {
		sorted[i].OrderIndex = i
	}
	return sorted
}

// RecordCategoryView increments the counters of a category.
func (c *Catalog) RecordCategoryView(ctx context.Context, key string) error {
	return c.update(ctx, func(cat *model.Catalog) error {
		cat.Stats.TotalViews++
		cat.Stats.CategoryViews[key]++
		cat.Stats.LastUpdated = c.now()
		return nil
	})
}

// RecordProductView increments the counters of a product.
func (c *Catalog) RecordProductView(ctx context.Context, key, name string) error {
	return c.update(ctx, func(cat *model.Catalog) error {
		views, ok := cat.Stats.ProductViews[key]
		if !ok {
			views = map[string]int{}
			cat.Stats.ProductViews[key] = views
		}
		views[name]++
		cat.Stats.TotalViews++
		cat.Stats.LastUpdated = c.now()
		return nil
	})
}

// PruneStats drops counters for categories and products that no longer exist.
func (c *Catalog) PruneStats(ctx context.Context) (int, error) {
	var removed int
	err := c.update(ctx, func(cat *model.Catalog) error {
		removed = pruneStats(cat)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		c.logger.Info("Catalog service: stale stats pruned", "removed", removed)
	}
	return removed, nil
}

func pruneStats(cat *model.Catalog) int {
	var removed int
	for key := range cat.Stats.CategoryViews {
		if cat.Category(key) < 0 {
			delete(cat.Stats.CategoryViews, key)
			removed++
		}
	}
	for key, views := range cat.Stats.ProductViews {
		i := cat.Category(key)
		if i < 0 {
			removed += len(views)
			delete(cat.Stats.ProductViews, key)
			continue
		}
		for name := range views {
			if cat.Categories[i].Product(name) < 0 {
				delete(views, name)
				removed++
			}
		}
		if len(views) == 0 {
			delete(cat.Stats.ProductViews, key)
		}
	}
	return removed
}

// ResetStats zeroes all counters and records today as the reset date.
func (c *Catalog) ResetStats(ctx context.Context, requester int64) error {
	err := c.update(ctx, func(cat *model.Catalog) error {
		now := c.now()
		cat.Stats = model.NewStats()
		cat.Stats.LastUpdated = now
		cat.Stats.LastReset = now.Format(time.DateOnly)
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Info("Catalog service: stats reset", "user_id", requester)
	return nil
}

// ViewCount is a counter for one catalog entry.
type ViewCount struct {
	Category string
	Product  string
	Views    int
}

// StatsReport summarizes view counters.
type StatsReport struct {
	TotalViews  int
	Categories  []ViewCount
	Products    []ViewCount
	LastUpdated time.Time
	LastReset   string
}

// StatsReport returns categories by views and the most viewed products.
func (c *Catalog) StatsReport(ctx context.Context) (StatsReport, error) {
	cat, err := c.Get(ctx)
	if err != nil {
		return StatsReport{}, err
	}

	report := StatsReport{
		TotalViews:  cat.Stats.TotalViews,
		LastUpdated: cat.Stats.LastUpdated,
		LastReset:   cat.Stats.LastReset,
	}
	for _, key := range slices.Sorted(maps.Keys(cat.Stats.CategoryViews)) {
		report.Categories = append(report.Categories, ViewCount{Category: key, Views: cat.Stats.CategoryViews[key]})
	}
	for key, views := range cat.Stats.ProductViews {
		for name, v := range views {
			report.Products = append(report.Products, ViewCount{Category: key, Product: name, Views: v})
		}
	}

	byViews := func(a, b ViewCount) int {
		if n := cmp.Compare(b.Views, a.Views); n != 0 {
			return n
		}
		if n := strings.Compare(a.Category, b.Category); n != 0 {
			return n
		}
		return strings.Compare(a.Product, b.Product)
	}
	slices.SortStableFunc(report.Categories, byViews)
	slices.SortFunc(report.Products, byViews)
	if len(report.Products) > topProducts {
		report.Products = report.Products[:topProducts]
	}
	return report, nil
}

// MigrateOwnership assigns owner groups to catalogs written before ownership was explicit.
// Keys are resolved against the configured group names by longest prefix.
func (c *Catalog) MigrateOwnership(ctx context.Context) (int, error) {
	dir, err := c.groups.Directory(ctx)
	if err != nil {
		return 0, err
	}
	groups := dir.Names()

	var migrated int
	errUpToDate := errors.New("up to date")
	err = c.update(ctx, func(cat *model.Catalog) error {
		if cat.Version >= model.CatalogVersion {
			return errUpToDate
		}
		for i := range cat.Categories {
			category := &cat.Categories[i]
			if category.OwnerGroup == "" {
				if name, ok := model.ResolvePrefix(category.Key, groups); ok {
					category.OwnerGroup = name.Group
					migrated++
				}
			}
			for j := range category.Products {
				product := &category.Products[j]
				if product.OwnerGroup != "" {
					continue
				}
				if name, ok := model.ResolvePrefix(product.Name, groups); ok {
					product.OwnerGroup = name.Group
					migrated++
				}
			}
		}
		cat.Version = model.CatalogVersion
		pruneStats(cat)
		return nil
	})
	if errors.Is(err, errUpToDate) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	c.logger.Info("Catalog service: ownership migrated", "entries", migrated)
	return migrated, nil
}
