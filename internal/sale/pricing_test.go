package sale

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos_sales/internal/pos"
)

// productList is an in-memory ProductSource for tests.
type productList []pos.Product

func (l productList) ListProducts(ctx context.Context) ([]pos.Product, error) {
	return l, nil
}

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testCatalog(t *testing.T) *pos.Catalog {
	t.Helper()
	catalog, err := pos.LoadCatalog(context.Background(), productList{
		{ID: "prod-a", ProductName: "Product A", ProductCode: 101, Category: "Beverage", RetailPrice: price(100), WholesalePrice: price(80), Quantity: 50},
		{ID: "prod-b", ProductName: "Product B", ProductCode: 102, Category: "Snacks", RetailPrice: price(50), WholesalePrice: price(40), Quantity: 30},
		{ID: "prod-c", ProductName: "Product C", ProductCode: 103, Category: "Snacks", RetailPrice: price(30), WholesalePrice: price(25), Quantity: 10},
	})
	require.NoError(t, err)
	return catalog
}

func TestComputeTotalsRetail(t *testing.T) {
	catalog := testCatalog(t)
	cart := NewCart()
	cart.Add("prod-a")
	cart.Add("prod-a")
	cart.Add("prod-b")

	totals := ComputeTotals(cart, catalog, pos.SaleSystemRetail, price(20))

	assert.True(t, totals.Subtotal.Equal(price(250)), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.ReturnAdjustment.IsZero())
	assert.True(t, totals.GrandTotal.Equal(price(270)), "grand total %s", totals.GrandTotal)
}

func TestComputeTotalsWholesalePricing(t *testing.T) {
	catalog := testCatalog(t)
	cart := NewCart()
	cart.Add("prod-a")
	cart.Add("prod-a")
	cart.Add("prod-b")

	totals := ComputeTotals(cart, catalog, pos.SaleSystemWholesale, decimal.Zero)

	// 2×80 + 1×40 under the wholesale column.
	assert.True(t, totals.Subtotal.Equal(price(200)), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.GrandTotal.Equal(price(200)))
}

func TestComputeTotalsReturnLinesAccumulate(t *testing.T) {
	catalog := testCatalog(t)
	cart := NewCart()
	cart.Add("prod-a") // 100
	cart.Add("prod-b") // 50, returned
	cart.Add("prod-c") // 30, returned
	require.NoError(t, cart.SetReturn("prod-b", true))
	require.NoError(t, cart.SetReturn("prod-c", true))

	totals := ComputeTotals(cart, catalog, pos.SaleSystemRetail, price(10))

	assert.True(t, totals.Subtotal.Equal(price(100)))
	assert.True(t, totals.ReturnAdjustment.Equal(price(80)), "both return lines count, adjustment %s", totals.ReturnAdjustment)
	assert.True(t, totals.GrandTotal.Equal(price(30)))
}

func TestComputeTotalsGrandTotalFloorsAtZero(t *testing.T) {
	catalog := testCatalog(t)
	cart := NewCart()
	cart.Add("prod-c") // 30
	cart.Add("prod-a") // 100, returned
	require.NoError(t, cart.SetReturn("prod-a", true))

	totals := ComputeTotals(cart, catalog, pos.SaleSystemRetail, decimal.Zero)

	assert.True(t, totals.GrandTotal.IsZero(), "returns beyond the sale floor the total at zero, got %s", totals.GrandTotal)
	assert.True(t, totals.ReturnAdjustment.Equal(price(100)))
}

func TestComputeTotalsReturnQuantityScales(t *testing.T) {
	catalog := testCatalog(t)
	cart := NewCart()
	cart.Add("prod-a")
	cart.Add("prod-a")
	cart.Add("prod-b")
	require.NoError(t, cart.SetReturn("prod-b", true))
	require.NoError(t, cart.UpdateQuantity("prod-b", 2))

	totals := ComputeTotals(cart, catalog, pos.SaleSystemRetail, decimal.Zero)

	assert.True(t, totals.ReturnAdjustment.Equal(price(150)), "return lines price per unit like sale lines")
	assert.True(t, totals.GrandTotal.Equal(price(50)))
}

func TestComputeTotalsSkipsUnknownProducts(t *testing.T) {
	catalog := testCatalog(t)
	cart := NewCart()
	cart.Add("prod-a")
	cart.Add("ghost")

	totals := ComputeTotals(cart, catalog, pos.SaleSystemRetail, decimal.Zero)

	assert.True(t, totals.Subtotal.Equal(price(100)), "a line missing from the catalog prices at zero")
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	catalog := testCatalog(t)
	totals := ComputeTotals(NewCart(), catalog, pos.SaleSystemRetail, decimal.Zero)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
}
