package api

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pos_sales/internal/pos"
)

// ErrNotFound is returned when no record matches the given ID.
var ErrNotFound = errors.New("not found")

// ErrPhoneExists is returned when a customer with the same phone number is
// already stored.
var ErrPhoneExists = errors.New("phone already exists")

// ErrInvalidInvoice is returned for an invoice draft the stub cannot accept.
var ErrInvalidInvoice = errors.New("invalid invoice")

// LocalStorage is the in-memory store behind the contract stub. It exists
// so the engine can be exercised end to end without the real backend; it is
// not a system of record and forgets everything on restart.
type LocalStorage struct {
	mu           sync.Mutex
	products     []*pos.Product
	productsByID map[string]*pos.Product
	customers    []*pos.Customer
	phones       map[string]string
	invoices     []*pos.Invoice
	invoicesByID map[string]*pos.Invoice
	idemKeys     map[string]string
	nextTx       int
}

// NewLocalStorage instantiates an empty stub store.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		productsByID: map[string]*pos.Product{},
		phones:       map[string]string{},
		invoicesByID: map[string]*pos.Invoice{},
		idemKeys:     map[string]string{},
	}
}

// SetProduct stores or replaces a product. An empty ID gets one assigned.
func (l *LocalStorage) SetProduct(p pos.Product) pos.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if existing, ok := l.productsByID[p.ID]; ok {
		*existing = p
		return p
	}
	stored := p
	l.products = append(l.products, &stored)
	l.productsByID[p.ID] = &stored
	return stored
}

// ListProducts returns all products in insertion order.
func (l *LocalStorage) ListProducts() []pos.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]pos.Product, 0, len(l.products))
	for _, p := range l.products {
		out = append(out, *p)
	}
	return out
}

// CreateCustomer stores a customer, enforcing phone uniqueness.
// Returns ErrPhoneExists when the phone number is already taken.
func (l *LocalStorage) CreateCustomer(in pos.CustomerInput) (pos.Customer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, taken := l.phones[in.Phone]; taken {
		return pos.Customer{}, ErrPhoneExists
	}
	c := pos.Customer{
		CustomerID:   uuid.NewString(),
		CustomerName: in.CustomerName,
		Phone:        in.Phone,
		Address:      in.Address,
	}
	l.customers = append(l.customers, &c)
	l.phones[c.Phone] = c.CustomerID
	return c, nil
}

// ListCustomers returns all customers in insertion order.
func (l *LocalStorage) ListCustomers() []pos.Customer {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]pos.Customer, 0, len(l.customers))
	for _, c := range l.customers {
		out = append(out, *c)
	}
	return out
}

// CreateInvoice persists an invoice draft: it assigns identity and the next
// transaction number, stamps the creation time and adjusts stock. Sale
// lines decrement the product's quantity, return lines restock it. A draft
// carrying an idempotency key seen before returns the invoice stored for
// that key instead of creating a second one.
func (l *LocalStorage) CreateInvoice(draft pos.InvoiceDraft) (pos.Invoice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !draft.SaleSystem.Valid() || len(draft.Items) == 0 {
		return pos.Invoice{}, ErrInvalidInvoice
	}
	if draft.IdempotencyKey != "" {
		if id, ok := l.idemKeys[draft.IdempotencyKey]; ok {
			return *l.invoicesByID[id], nil
		}
	}

	l.nextTx++
	inv := pos.Invoice{
		ID:            uuid.NewString(),
		TransactionID: l.nextTx,
		SaleSystem:    draft.SaleSystem,
		Customer:      draft.Customer,
		PaymentMethod: draft.PaymentMethod,
		Items:         draft.Items,
		Totals:        draft.Totals,
		DueDate:       draft.DueDate,
		CreatedAt:     time.Now().UTC(),
	}

	for _, item := range inv.Items {
		for _, p := range l.products {
			if p.ProductName != item.Name {
				continue
			}
			if item.Return {
				p.Quantity += item.Quantity
			} else {
				p.Quantity -= item.Quantity
			}
			break
		}
	}

	stored := inv
	l.invoices = append(l.invoices, &stored)
	l.invoicesByID[inv.ID] = &stored
	if draft.IdempotencyKey != "" {
		l.idemKeys[draft.IdempotencyKey] = inv.ID
	}
	return inv, nil
}

// ListInvoicesBySystem returns the invoices of one sale system, newest last.
func (l *LocalStorage) ListInvoicesBySystem(system pos.SaleSystem) []pos.Invoice {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]pos.Invoice, 0, len(l.invoices))
	for _, inv := range l.invoices {
		if inv.SaleSystem == system {
			out = append(out, *inv)
		}
	}
	return out
}

// GetInvoice retrieves an invoice by ID.
func (l *LocalStorage) GetInvoice(id string) (pos.Invoice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	inv, ok := l.invoicesByID[id]
	if !ok {
		return pos.Invoice{}, ErrNotFound
	}
	return *inv, nil
}

// UpdateInvoice applies a due payment: the extra paid and discount amounts
// accumulate on the totals block and the due amount is replaced by the
// remaining balance. The due date clears once nothing remains outstanding.
func (l *LocalStorage) UpdateInvoice(id string, update pos.DuePaymentUpdate) (pos.Invoice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	inv, ok := l.invoicesByID[id]
	if !ok {
		return pos.Invoice{}, ErrNotFound
	}
	inv.Totals.Paid = inv.Totals.Paid.Add(update.Paid)
	inv.Totals.Discount = inv.Totals.Discount.Add(update.Discount)
	inv.Totals.Due = update.NextDueAmount
	if update.NextDueAmount.IsPositive() {
		inv.DueDate = update.NextDueDate
	} else {
		inv.Totals.Due = decimal.Zero
		inv.DueDate = nil
	}
	return *inv, nil
}

// DeleteInvoice removes an invoice by ID.
func (l *LocalStorage) DeleteInvoice(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.invoicesByID[id]; !ok {
		return ErrNotFound
	}
	delete(l.invoicesByID, id)
	kept := l.invoices[:0]
	for _, inv := range l.invoices {
		if inv.ID != id {
			kept = append(kept, inv)
		}
	}
	l.invoices = kept
	return nil
}
