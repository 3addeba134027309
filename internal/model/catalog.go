package model

import (
	"slices"
	"time"
)

// CatalogVersion is the document version written by this build.
// Version 0 documents predate explicit ownership and are migrated on startup.
const CatalogVersion = 1

// Sold-out sentinel values.
const (
	SoldOutMarker      = "SOLD OUT ! ❌"
	SoldOutPrice       = "Not available"
	SoldOutDescription = "This category is temporarily out of stock."
)

// MediaKind is the kind of an attached media file.
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// MediaRef references a media file held by the transport.
type MediaRef struct {
	MediaID    string    `json:"media_id"`
	Kind       MediaKind `json:"media_type"`
	OrderIndex int       `json:"order_index"`
}

// Product is a catalog entry. Name carries the owner prefix when OwnerGroup is set.
type Product struct {
	Name        string     `json:"name"`
	OwnerGroup  string     `json:"owner_group,omitempty"`
	Price       string     `json:"price"`
	Description string     `json:"description"`
	Media       []MediaRef `json:"media,omitempty"`
}

// SortedMedia returns media ordered by OrderIndex.
func (p Product) SortedMedia() []MediaRef {
	media := slices.Clone(p.Media)
	slices.SortStableFunc(media, func(a, b MediaRef) int { return a.OrderIndex - b.OrderIndex })
	return media
}

// SoldOutProduct returns the sentinel product.
func SoldOutProduct() Product {
	return Product{
		Name:        SoldOutMarker,
		Price:       SoldOutPrice,
		Description: SoldOutDescription,
	}
}

// Category is a named product list. Key carries the owner prefix when OwnerGroup is set.
type Category struct {
	Key        string    `json:"key"`
	OwnerGroup string    `json:"owner_group,omitempty"`
	Products   []Product `json:"products"`
}

// IsSoldOut reports whether the category holds exactly the sold-out sentinel.
func (c Category) IsSoldOut() bool {
	return len(c.Products) == 1 && c.Products[0].Name == SoldOutMarker
}

// DisplayName returns the key without the owner prefix.
func (c Category) DisplayName() string {
	return StripOwner(c.Key, c.OwnerGroup)
}

// Product returns the index of the named product or -1.
func (c Category) Product(name string) int {
	return slices.IndexFunc(c.Products, func(p Product) bool { return p.Name == name })
}

// Stats holds view counters.
type Stats struct {
	TotalViews    int                       `json:"total_views"`
	CategoryViews map[string]int            `json:"category_views"`
	ProductViews  map[string]map[string]int `json:"product_views"`
	LastUpdated   time.Time                 `json:"last_updated"`
	LastReset     string                    `json:"last_reset,omitempty"`
}

// Catalog is the persisted catalog document.
type Catalog struct {
	Version    int        `json:"version"`
	Categories []Category `json:"categories"`
	Stats      Stats      `json:"stats"`
}

// NewCatalog returns an empty catalog with initialized stats.
func NewCatalog() Catalog {
	return Catalog{
		Version:    CatalogVersion,
		Categories: []Category{},
		Stats:      NewStats(),
	}
}

// NewStats returns zeroed stats.
func NewStats() Stats {
	return Stats{
		CategoryViews: map[string]int{},
		ProductViews:  map[string]map[string]int{},
	}
}

// Category returns the index of the category with the given key or -1.
func (c Catalog) Category(key string) int {
	return slices.IndexFunc(c.Categories, func(cat Category) bool { return cat.Key == key })
}

// Clone returns a deep copy.
func (c Catalog) Clone() Catalog {
	out := Catalog{
		Version:    c.Version,
		Categories: make([]Category, len(c.Categories)),
		Stats: Stats{
			TotalViews:    c.Stats.TotalViews,
			CategoryViews: make(map[string]int, len(c.Stats.CategoryViews)),
			ProductViews:  make(map[string]map[string]int, len(c.Stats.ProductViews)),
			LastUpdated:   c.Stats.LastUpdated,
			LastReset:     c.Stats.LastReset,
		},
	}
	for i, cat := range c.Categories {
		products := make([]Product, len(cat.Products))
		for j, p := range cat.Products {
			p.Media = slices.Clone(p.Media)
			products[j] = p
		}
		cat.Products = products
		out.Categories[i] = cat
	}
	for k, v := range c.Stats.CategoryViews {
		out.Stats.CategoryViews[k] = v
	}
	for k, views := range c.Stats.ProductViews {
		m := make(map[string]int, len(views))
		for p, v := range views {
			m[p] = v
		}
		out.Stats.ProductViews[k] = m
	}
	return out
}

// EnsureStats initializes nil stats maps.
func (c *Catalog) EnsureStats() {
	if c.Stats.CategoryViews == nil {
		c.Stats.CategoryViews = map[string]int{}
	}
	if c.Stats.ProductViews == nil {
		c.Stats.ProductViews = map[string]map[string]int{}
	}
	if c.Categories == nil {
		c.Categories = []Category{}
	}
}

// ProductField names an editable product field.
type ProductField string

const (
	FieldName        ProductField = "name"
	FieldPrice       ProductField = "price"
	FieldDescription ProductField = "description"
	FieldMedia       ProductField = "media"
)

// Valid reports whether f is a known field.
func (f ProductField) Valid() bool {
	switch f {
	case FieldName, FieldPrice, FieldDescription, FieldMedia:
		return true
	}
	return false
}

// ProductEdit is a single field change.
type ProductEdit struct {
	Field ProductField
	Text  string
	Media []MediaRef
}
