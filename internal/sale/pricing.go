package sale

import (
	"github.com/shopspring/decimal"

	"pos_sales/internal/pos"
)

// Totals is the derived pricing of a cart. It is recomputed from scratch on
// every input change and never stored; only the invoice snapshot persists it.
type Totals struct {
	Subtotal         decimal.Decimal
	Shipping         decimal.Decimal
	ReturnAdjustment decimal.Decimal
	GrandTotal       decimal.Decimal
}

// ComputeTotals derives the sale totals for the cart under the given sale
// system.
//
//	subtotal   = Σ quantity × unit price over non-return lines
//	adjustment = Σ quantity × unit price over return lines
//	grand      = max(subtotal + shipping − adjustment, 0)
//
// Return lines each contribute their full line amount to the adjustment, so
// returning several products accumulates. Lines whose product is missing
// from the catalog price at zero, matching the till display.
func ComputeTotals(cart *Cart, catalog *pos.Catalog, system pos.SaleSystem, shipping decimal.Decimal) Totals {
	subtotal := decimal.Zero
	adjustment := decimal.Zero

	for _, line := range cart.Lines() {
		product, err := catalog.Lookup(line.ProductID)
		if err != nil {
			continue
		}
		amount := product.UnitPrice(system).Mul(decimal.NewFromInt(int64(line.Quantity)))
		if line.Return {
			adjustment = adjustment.Add(amount)
		} else {
			subtotal = subtotal.Add(amount)
		}
	}

	grand := subtotal.Add(shipping).Sub(adjustment)
	if grand.IsNegative() {
		grand = decimal.Zero
	}

	return Totals{
		Subtotal:         subtotal,
		Shipping:         shipping,
		ReturnAdjustment: adjustment,
		GrandTotal:       grand,
	}
}
