package invoice

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos_sales/internal/pos"
)

func sampleInvoice() pos.Invoice {
	return pos.Invoice{
		ID:            "inv-1",
		TransactionID: 1042,
		SaleSystem:    pos.SaleSystemRetail,
		Customer:      pos.InvoiceCustomer{Name: "Rahim Uddin", Phone: "01711111111"},
		PaymentMethod: pos.PaymentCash,
		Items: []pos.InvoiceItem{
			{Name: "Cappuccino", Quantity: 2, Price: decimal.NewFromInt(180), Total: decimal.NewFromInt(360)},
			{Name: "Croissant", Quantity: 1, Price: decimal.NewFromInt(90), Total: decimal.NewFromInt(90), Return: true},
		},
		Totals: pos.InvoiceTotals{
			Total:    decimal.NewFromInt(270),
			Discount: decimal.NewFromInt(20),
			Payable:  decimal.NewFromInt(250),
			Paid:     decimal.NewFromInt(250),
			Due:      decimal.Zero,
			Change:   decimal.Zero,
		},
		CreatedAt: time.Date(2026, 8, 30, 14, 45, 0, 0, time.UTC),
	}
}

func TestRenderReceipt(t *testing.T) {
	var buf bytes.Buffer
	inv := sampleInvoice()
	require.NoError(t, NewRenderer(&buf).Render(inv))

	out := buf.String()
	assert.Contains(t, out, "Invoice #1042")
	assert.Contains(t, out, "2026-08-30 14:45")
	assert.Contains(t, out, "Payment:  cash")
	assert.Contains(t, out, "Rahim Uddin | 01711111111")
	assert.Contains(t, out, "Cappuccino x 2  ৳360.00")
	assert.Contains(t, out, "Croissant x 1 (return)  ৳90.00")
	assert.Contains(t, out, "Payable    ৳250.00")
	assert.NotContains(t, out, "Due ", "a settled sale renders no due block")
	assert.NotContains(t, out, "Change")
}

func TestRenderReceiptDueBlock(t *testing.T) {
	var buf bytes.Buffer
	inv := sampleInvoice()
	inv.Totals.Paid = decimal.NewFromInt(200)
	inv.Totals.Due = decimal.NewFromInt(50)
	dueDate := "2026-09-15"
	inv.DueDate = &dueDate

	require.NoError(t, NewRenderer(&buf).Render(inv))

	out := buf.String()
	assert.Contains(t, out, "Due        ৳50.00")
	assert.Contains(t, out, "Due Date   2026-09-15")
}

func TestRenderReceiptChangeLine(t *testing.T) {
	var buf bytes.Buffer
	inv := sampleInvoice()
	inv.Totals.Paid = decimal.NewFromInt(300)
	inv.Totals.Change = decimal.NewFromInt(50)

	require.NoError(t, NewRenderer(&buf).Render(inv))

	assert.Contains(t, buf.String(), "Change     ৳50.00")
}

func TestPrintWritesOnce(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	require.NoError(t, r.Print(sampleInvoice()))

	first := buf.String()
	buf.Reset()
	require.NoError(t, r.Print(sampleInvoice()))
	assert.Equal(t, first, buf.String(), "printing is repeatable with identical output")
}
