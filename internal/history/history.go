// Package history is the transaction-history view over persisted invoices:
// listing, search, status filtering, pagination and after-sale due payments.
package history

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos_sales/internal/pos"
)

// ErrNegativeAmount is returned for a negative paid or discount input.
var ErrNegativeAmount = errors.New("amount must not be negative")

// ErrExceedsDue is returned when paid plus discount would overshoot the
// outstanding due amount.
var ErrExceedsDue = errors.New("paid plus discount exceeds due amount")

// ErrDueDateRequired is returned when a partial settlement leaves a balance
// but no next due date was supplied.
var ErrDueDateRequired = errors.New("next due date required while a balance remains")

// StatusFilter narrows the history list by settlement state.
type StatusFilter string

const (
	StatusAll  StatusFilter = "all"
	StatusPaid StatusFilter = "paid"
	StatusDue  StatusFilter = "due"
)

// Source is the slice of the REST API the history view consumes.
type Source interface {
	ListInvoicesBySystem(ctx context.Context, system pos.SaleSystem) ([]pos.Invoice, error)
	UpdateInvoice(ctx context.Context, id string, update pos.DuePaymentUpdate) (pos.Invoice, error)
	DeleteInvoice(ctx context.Context, id string) error
}

// View is a client-side cache of one sale system's invoices. Mutations go
// through the backend first and then patch the cache from the response;
// Refresh is the explicit invalidate-and-refetch.
type View struct {
	src      Source
	system   pos.SaleSystem
	pageSize int
	invoices []pos.Invoice
	logger   *zap.Logger
}

// DefaultPageSize matches the history table's fixed page length.
const DefaultPageSize = 10

// LoadView fetches the invoice list for a sale system.
func LoadView(ctx context.Context, src Source, system pos.SaleSystem, pageSize int, logger *zap.Logger) (*View, error) {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	v := &View{src: src, system: system, pageSize: pageSize, logger: logger}
	if err := v.Refresh(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

// Refresh refetches the full list from the backend, replacing the cache.
func (v *View) Refresh(ctx context.Context) error {
	invoices, err := v.src.ListInvoicesBySystem(ctx, v.system)
	if err != nil {
		return fmt.Errorf("refresh %s history: %w", v.system, err)
	}
	v.invoices = invoices
	return nil
}

// Invoices returns the cached list in backend order.
func (v *View) Invoices() []pos.Invoice {
	return v.invoices
}

// Filter narrows the cached list by a free-text search over transaction ID,
// customer name and phone, and by settlement status. An invoice counts as
// paid when nothing remains due on it.
func (v *View) Filter(search string, status StatusFilter) []pos.Invoice {
	search = strings.ToLower(strings.TrimSpace(search))
	matched := make([]pos.Invoice, 0, len(v.invoices))
	for _, inv := range v.invoices {
		target := strings.ToLower(strconv.Itoa(inv.TransactionID) + inv.Customer.Name + inv.Customer.Phone)
		if search != "" && !strings.Contains(target, search) {
			continue
		}
		switch status {
		case StatusPaid:
			if inv.Totals.Due.IsPositive() {
				continue
			}
		case StatusDue:
			if !inv.Totals.Due.IsPositive() {
				continue
			}
		}
		matched = append(matched, inv)
	}
	return matched
}

// Page slices a filtered list into the view's fixed page size. Pages are
// numbered from 1; an out-of-range page is empty.
func (v *View) Page(list []pos.Invoice, page int) []pos.Invoice {
	if page < 1 {
		return nil
	}
	start := (page - 1) * v.pageSize
	if start >= len(list) {
		return nil
	}
	end := start + v.pageSize
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// Pages reports how many pages the list spans.
func (v *View) Pages(list []pos.Invoice) int {
	if len(list) == 0 {
		return 0
	}
	return (len(list) + v.pageSize - 1) / v.pageSize
}

// Get returns an invoice from the cache by ID.
func (v *View) Get(id string) (pos.Invoice, error) {
	for _, inv := range v.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return pos.Invoice{}, pos.ErrNotFound
}

// Delete removes the invoice through the backend, then drops it from the
// cache once the call succeeded.
func (v *View) Delete(ctx context.Context, id string) error {
	if err := v.src.DeleteInvoice(ctx, id); err != nil {
		return err
	}
	kept := v.invoices[:0]
	for _, inv := range v.invoices {
		if inv.ID != id {
			kept = append(kept, inv)
		}
	}
	v.invoices = kept
	return nil
}

// ApplyDuePayment settles part of an invoice's outstanding balance. With
// due D, extra discount d and payment p, the remaining balance is
//
//	nextDue = max(max(D − d, 0) − p, 0)
//
// p and d must be non-negative and p + d must not exceed D; when a balance
// remains a next due date is mandatory. The backend is updated first and
// the cached row is patched from its response.
func (v *View) ApplyDuePayment(ctx context.Context, id string, paid, discount decimal.Decimal, nextDueDate string) (pos.Invoice, error) {
	inv, err := v.Get(id)
	if err != nil {
		return pos.Invoice{}, err
	}
	if paid.IsNegative() || discount.IsNegative() {
		return pos.Invoice{}, ErrNegativeAmount
	}
	due := inv.Totals.Due
	if paid.Add(discount).GreaterThan(due) {
		return pos.Invoice{}, ErrExceedsDue
	}

	payable := due.Sub(discount)
	if payable.IsNegative() {
		payable = decimal.Zero
	}
	nextDue := payable.Sub(paid)
	if nextDue.IsNegative() {
		nextDue = decimal.Zero
	}

	update := pos.DuePaymentUpdate{Paid: paid, Discount: discount, NextDueAmount: nextDue}
	if nextDue.IsPositive() {
		if strings.TrimSpace(nextDueDate) == "" {
			return pos.Invoice{}, ErrDueDateRequired
		}
		update.NextDueDate = &nextDueDate
	}

	updated, err := v.src.UpdateInvoice(ctx, id, update)
	if err != nil {
		return pos.Invoice{}, err
	}
	for i := range v.invoices {
		if v.invoices[i].ID == id {
			v.invoices[i] = updated
			break
		}
	}
	v.logger.Info("due payment applied",
		zap.String("invoice_id", id),
		zap.String("paid", paid.String()),
		zap.String("next_due", nextDue.String()))
	return updated, nil
}
