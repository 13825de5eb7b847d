package tests

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"pos_sales/api"
	"pos_sales/internal/backend"
	"pos_sales/internal/history"
	"pos_sales/internal/pos"
	"pos_sales/internal/sale"
)

// newTestBackend serves the contract stub over a real HTTP listener and
// returns a client pointed at it.
func newTestBackend(t *testing.T) *backend.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api.InitRoutes(router, api.NewSeededStorage(), zaptest.NewLogger(t))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return backend.NewClient(srv.URL, 5*time.Second, zaptest.NewLogger(t))
}

// TestRetailSale_FullFlow walks a retail sale end to end: load the catalog,
// build a cart, check out with a partial payment and read it back from the
// transaction history.
func TestRetailSale_FullFlow(t *testing.T) {
	ctx := context.Background()
	client := newTestBackend(t)
	logger := zaptest.NewLogger(t)

	catalog, err := pos.LoadCatalog(ctx, client)
	require.NoError(t, err, "Expected the product catalog to load from the stub")
	require.Len(t, catalog.Products(), 5)

	directory, err := pos.LoadDirectory(ctx, client)
	require.NoError(t, err, "Expected the customer directory to load from the stub")
	require.NotEmpty(t, directory.Customers())

	session := sale.NewSession(pos.SaleSystemRetail, catalog, logger)
	var invoiceID string

	t.Run("BuildCart", func(t *testing.T) {
		latte := catalog.Filter("latte", "")[0]
		croissant := catalog.Filter("croissant", "")[0]

		require.NoError(t, session.AddProduct(latte.ID))
		require.NoError(t, session.AddProduct(latte.ID))
		require.NoError(t, session.AddProduct(croissant.ID))
		require.NoError(t, session.SetShipping(decimal.NewFromInt(2)))

		totals := session.Totals()
		// 2×4.25 + 3.25 + 2 shipping.
		assert.True(t, totals.Subtotal.Equal(decimal.NewFromFloat(11.75)), "Expected subtotal 11.75, got %s", totals.Subtotal)
		assert.True(t, totals.GrandTotal.Equal(decimal.NewFromFloat(13.75)), "Expected grand total 13.75, got %s", totals.GrandTotal)
	})

	t.Run("CheckoutWithDue", func(t *testing.T) {
		session.SelectCustomer(directory.Customers()[0])

		checkout := session.BeginCheckout(client)
		require.NoError(t, checkout.SetPaymentMethod(pos.PaymentBkash))
		require.NoError(t, checkout.SetPaid(decimal.NewFromInt(10)))

		_, err := checkout.Submit(ctx)
		assert.ErrorIs(t, err, sale.ErrDueDateRequired, "Expected the outstanding balance to demand a due date")

		require.NoError(t, checkout.SetDueDate("2026-09-15"))
		invoice, err := checkout.Submit(ctx)
		require.NoError(t, err, "Expected the checkout to complete once the due date is set")

		assert.Equal(t, 1, invoice.TransactionID)
		assert.Equal(t, pos.SaleSystemRetail, invoice.SaleSystem)
		assert.True(t, invoice.Totals.Due.Equal(decimal.NewFromFloat(3.75)), "Expected due 3.75, got %s", invoice.Totals.Due)
		require.NotNil(t, invoice.DueDate)
		assert.Equal(t, "2026-09-15", *invoice.DueDate)
		assert.Equal(t, sale.StateCompleted, checkout.State())

		_, err = checkout.Submit(ctx)
		assert.ErrorIs(t, err, sale.ErrAlreadySubmitted, "Expected the completed checkout to refuse a second submission")

		invoiceID = invoice.ID
	})

	t.Run("StockDecremented", func(t *testing.T) {
		require.NoError(t, catalog.Refresh(ctx))
		latte := catalog.Filter("latte", "")[0]
		assert.Equal(t, 98, latte.Quantity, "Expected the sale to decrement latte stock from 100 to 98")
	})

	t.Run("HistoryAndDuePayment", func(t *testing.T) {
		view, err := history.LoadView(ctx, client, pos.SaleSystemRetail, 10, logger)
		require.NoError(t, err)
		require.Len(t, view.Invoices(), 1)

		due := view.Filter("", history.StatusDue)
		require.Len(t, due, 1, "Expected the invoice to show up under the due filter")
		assert.Equal(t, invoiceID, due[0].ID)

		updated, err := view.ApplyDuePayment(ctx, invoiceID, decimal.NewFromFloat(3.75), decimal.Zero, "")
		require.NoError(t, err, "Expected the full settlement to go through")
		assert.True(t, updated.Totals.Due.IsZero())
		assert.Nil(t, updated.DueDate)

		assert.Empty(t, view.Filter("", history.StatusDue), "Expected no due invoices after settlement")
	})
}

// TestWalkingCustomer_Flow covers the walking-customer path: the customer is
// registered before the invoice and a duplicate phone aborts the sale.
func TestWalkingCustomer_Flow(t *testing.T) {
	ctx := context.Background()
	client := newTestBackend(t)
	logger := zaptest.NewLogger(t)

	catalog, err := pos.LoadCatalog(ctx, client)
	require.NoError(t, err)

	t.Run("DuplicatePhoneAborts", func(t *testing.T) {
		session := sale.NewSession(pos.SaleSystemRetail, catalog, logger)
		require.NoError(t, session.AddProduct(catalog.Products()[0].ID))
		// Seeded customer phone.
		require.NoError(t, session.SelectWalking("Impostor", "01711000001", ""))

		checkout := session.BeginCheckout(client)
		require.NoError(t, checkout.SetPaid(decimal.NewFromInt(100)))

		_, err := checkout.Submit(ctx)
		assert.ErrorIs(t, err, pos.ErrCustomerExists, "Expected the taken phone number to abort the checkout")
		assert.Equal(t, sale.StateEditing, checkout.State())

		view, err := history.LoadView(ctx, client, pos.SaleSystemRetail, 10, logger)
		require.NoError(t, err)
		assert.Empty(t, view.Invoices(), "Expected no invoice after the aborted checkout")
	})

	t.Run("FreshPhoneSucceeds", func(t *testing.T) {
		session := sale.NewSession(pos.SaleSystemWholesale, catalog, logger)
		water := catalog.Filter("mineral water", "")[0]
		require.NoError(t, session.AddProduct(water.ID))
		require.NoError(t, session.Cart().UpdateQuantity(water.ID, 23))
		require.NoError(t, session.SelectWalking("Nazmul Haque", "01555000009", "Khulna"))

		checkout := session.BeginCheckout(client)
		// 24 × 0.60 wholesale.
		require.NoError(t, checkout.SetPaid(decimal.NewFromFloat(14.40)))

		invoice, err := checkout.Submit(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Nazmul Haque", invoice.Customer.Name)
		assert.True(t, invoice.Totals.Change.IsZero())

		directory, err := pos.LoadDirectory(ctx, client)
		require.NoError(t, err)
		found := directory.Search("01555000009")
		require.Len(t, found, 1, "Expected the walking customer to land in the directory")
		assert.Equal(t, "Nazmul Haque", found[0].CustomerName)

		view, err := history.LoadView(ctx, client, pos.SaleSystemWholesale, 10, logger)
		require.NoError(t, err)
		require.Len(t, view.Invoices(), 1)
		assert.Equal(t, pos.SaleSystemWholesale, view.Invoices()[0].SaleSystem)
	})
}
