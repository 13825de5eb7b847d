package pos

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swappableSource lets a test replace the product list between refreshes.
type swappableSource struct {
	products []Product
	err      error
	calls    int
}

func (s *swappableSource) ListProducts(ctx context.Context) ([]Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func catalogFixture() []Product {
	return []Product{
		{ID: "p1", ProductName: "Cappuccino", ProductCode: 101, Category: "Beverage", RetailPrice: decimal.NewFromInt(180), WholesalePrice: decimal.NewFromInt(150)},
		{ID: "p2", ProductName: "Latte", ProductCode: 102, Category: "Beverage", RetailPrice: decimal.NewFromInt(200), WholesalePrice: decimal.NewFromInt(170)},
		{ID: "p3", ProductName: "Croissant", ProductCode: 103, Category: "Bakery", RetailPrice: decimal.NewFromInt(90), WholesalePrice: decimal.NewFromInt(70)},
	}
}

func TestLoadCatalog(t *testing.T) {
	src := &swappableSource{products: catalogFixture()}
	catalog, err := LoadCatalog(context.Background(), src)
	require.NoError(t, err)

	assert.Len(t, catalog.Products(), 3)
	assert.Equal(t, 1, src.calls)

	p, err := catalog.Lookup("p2")
	require.NoError(t, err)
	assert.Equal(t, "Latte", p.ProductName)

	_, err = catalog.Lookup("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadCatalogSourceError(t *testing.T) {
	src := &swappableSource{err: errors.New("connection refused")}
	_, err := LoadCatalog(context.Background(), src)
	assert.Error(t, err)
}

func TestCatalogRefreshReplacesSnapshot(t *testing.T) {
	src := &swappableSource{products: catalogFixture()}
	catalog, err := LoadCatalog(context.Background(), src)
	require.NoError(t, err)

	src.products = []Product{
		{ID: "p9", ProductName: "Espresso", Category: "Beverage", RetailPrice: decimal.NewFromInt(120)},
	}
	require.NoError(t, catalog.Refresh(context.Background()))

	assert.Len(t, catalog.Products(), 1)
	_, err = catalog.Lookup("p1")
	assert.ErrorIs(t, err, ErrNotFound, "the old snapshot is discarded, not merged")
	_, err = catalog.Lookup("p9")
	assert.NoError(t, err)
}

func TestCatalogRefreshFailureKeepsSnapshot(t *testing.T) {
	src := &swappableSource{products: catalogFixture()}
	catalog, err := LoadCatalog(context.Background(), src)
	require.NoError(t, err)

	src.err = errors.New("timeout")
	require.Error(t, catalog.Refresh(context.Background()))
	assert.Len(t, catalog.Products(), 3, "a failed refresh leaves the last good snapshot in place")
}

func TestCatalogUnitPrice(t *testing.T) {
	src := &swappableSource{products: catalogFixture()}
	catalog, err := LoadCatalog(context.Background(), src)
	require.NoError(t, err)

	retail, err := catalog.UnitPrice("p1", SaleSystemRetail)
	require.NoError(t, err)
	assert.True(t, retail.Equal(decimal.NewFromInt(180)))

	wholesale, err := catalog.UnitPrice("p1", SaleSystemWholesale)
	require.NoError(t, err)
	assert.True(t, wholesale.Equal(decimal.NewFromInt(150)))

	_, err = catalog.UnitPrice("nope", SaleSystemRetail)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogCategories(t *testing.T) {
	src := &swappableSource{products: catalogFixture()}
	catalog, err := LoadCatalog(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bakery", "Beverage"}, catalog.Categories())
}

func TestCatalogFilter(t *testing.T) {
	src := &swappableSource{products: catalogFixture()}
	catalog, err := LoadCatalog(context.Background(), src)
	require.NoError(t, err)

	t.Run("by name, case-insensitive", func(t *testing.T) {
		got := catalog.Filter("CAPP", "")
		require.Len(t, got, 1)
		assert.Equal(t, "Cappuccino", got[0].ProductName)
	})

	t.Run("by category", func(t *testing.T) {
		got := catalog.Filter("", "Beverage")
		assert.Len(t, got, 2)
	})

	t.Run("all category matches everything", func(t *testing.T) {
		assert.Len(t, catalog.Filter("", "All"), 3)
		assert.Len(t, catalog.Filter("", ""), 3)
	})

	t.Run("name and category combine", func(t *testing.T) {
		assert.Len(t, catalog.Filter("latte", "Bakery"), 0)
		assert.Len(t, catalog.Filter("latte", "Beverage"), 1)
	})
}
