package sale

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos_sales/internal/pos"
)

// ErrNegativeAmount is returned when a monetary input is below zero.
var ErrNegativeAmount = errors.New("amount must not be negative")

// ErrNoCustomer is returned when checkout starts without a counterparty.
var ErrNoCustomer = errors.New("no customer selected")

// ErrWalkingCustomer is returned when a walking customer is missing a name
// or phone number.
var ErrWalkingCustomer = errors.New("walking customer requires name and phone")

// WalkingCustomer is an ad hoc counterparty captured inline instead of
// picked from the directory. It is registered with the backend only when
// the checkout is confirmed.
type WalkingCustomer struct {
	Name    string
	Phone   string
	Address string
}

// Selection resolves the sale's counterparty: either a known directory
// customer or a walking customer. Exactly one side is set.
type Selection struct {
	Customer *pos.Customer
	Walking  *WalkingCustomer
}

// IsWalking reports whether the selection is an inline walking customer.
func (s Selection) IsWalking() bool {
	return s.Walking != nil
}

// Snapshot returns the counterparty fields embedded in the invoice.
func (s Selection) Snapshot() pos.InvoiceCustomer {
	if s.Walking != nil {
		return pos.InvoiceCustomer{Name: s.Walking.Name, Phone: s.Walking.Phone}
	}
	return pos.InvoiceCustomer{Name: s.Customer.CustomerName, Phone: s.Customer.Phone}
}

// Session is one sale workflow: the cart and its pricing inputs, scoped to a
// single sale system. Each till page owns its own session; the retail and
// wholesale carts never interact. A session is confined to the event loop
// driving it and is not safe for concurrent use.
type Session struct {
	id        string
	system    pos.SaleSystem
	catalog   *pos.Catalog
	cart      *Cart
	shipping  decimal.Decimal
	selection *Selection
	logger    *zap.Logger
}

// NewSession creates a sale session over a loaded catalog.
func NewSession(system pos.SaleSystem, catalog *pos.Catalog, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		id:      uuid.NewString(),
		system:  system,
		catalog: catalog,
		cart:    NewCart(),
		logger:  logger,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// System returns the sale system the session prices against.
func (s *Session) System() pos.SaleSystem { return s.system }

// Cart exposes the session's cart.
func (s *Session) Cart() *Cart { return s.cart }

// AddProduct puts one unit of a catalog product into the cart.
// Returns pos.ErrNotFound for a product the catalog does not know.
func (s *Session) AddProduct(productID string) error {
	if _, err := s.catalog.Lookup(productID); err != nil {
		return err
	}
	s.cart.Add(productID)
	return nil
}

// SetShipping sets the user-entered shipping cost.
func (s *Session) SetShipping(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	s.shipping = amount
	return nil
}

// Shipping returns the current shipping cost.
func (s *Session) Shipping() decimal.Decimal { return s.shipping }

// ClearCart empties the cart and resets the dependent inputs, shipping
// included, back to zero.
func (s *Session) ClearCart() {
	s.cart.Clear()
	s.shipping = decimal.Zero
}

// SelectCustomer picks a known directory customer as the counterparty.
func (s *Session) SelectCustomer(c pos.Customer) {
	s.selection = &Selection{Customer: &c}
}

// SelectWalking captures an inline walking customer as the counterparty.
func (s *Session) SelectWalking(name, phone, address string) error {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return ErrWalkingCustomer
	}
	s.selection = &Selection{Walking: &WalkingCustomer{
		Name:    name,
		Phone:   phone,
		Address: strings.TrimSpace(address),
	}}
	return nil
}

// Selection returns the active counterparty, or nil when none is chosen.
func (s *Session) Selection() *Selection { return s.selection }

// Totals derives the current sale totals from the cart, shipping and return
// flags. Every call recomputes from scratch.
func (s *Session) Totals() Totals {
	return ComputeTotals(s.cart, s.catalog, s.system, s.shipping)
}
