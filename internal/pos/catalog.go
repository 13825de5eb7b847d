package pos

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductSource lists the sellable products, normally GET /pos on the
// backend.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]Product, error)
}

// Catalog is the page-load snapshot of the product list. It is read-only
// for the sale session; Refresh replaces the snapshot wholesale instead of
// patching it in place.
type Catalog struct {
	src      ProductSource
	products []Product
	byID     map[string]Product
}

// LoadCatalog fetches the product list and builds the lookup index.
func LoadCatalog(ctx context.Context, src ProductSource) (*Catalog, error) {
	c := &Catalog{src: src}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Refresh discards the cached snapshot and refetches it from the source.
func (c *Catalog) Refresh(ctx context.Context) error {
	products, err := c.src.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	c.products = products
	c.byID = byID
	return nil
}

// Lookup returns the product with the given ID.
// Returns ErrNotFound if the product is not in the snapshot.
func (c *Catalog) Lookup(id string) (Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

// Products returns the cached product list in backend order.
func (c *Catalog) Products() []Product {
	return c.products
}

// UnitPrice resolves a product's price under the given sale system.
func (c *Catalog) UnitPrice(id string, system SaleSystem) (decimal.Decimal, error) {
	p, err := c.Lookup(id)
	if err != nil {
		return decimal.Zero, err
	}
	return p.UnitPrice(system), nil
}

// Categories returns the distinct product categories, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories
}

// Filter returns the products matching a case-insensitive name search and a
// category. An empty category or "All" matches every category.
func (c *Catalog) Filter(search string, category string) []Product {
	search = strings.ToLower(strings.TrimSpace(search))
	matched := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && category != "All" && p.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.ProductName), search) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}
