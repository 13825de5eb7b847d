package sale

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos_sales/internal/pos"
)

// ErrDueDateRequired blocks submission while a balance remains outstanding
// and no due date has been supplied.
var ErrDueDateRequired = errors.New("due date required while due amount is outstanding")

// ErrAlreadySubmitted is returned when a checkout is confirmed again while a
// submission is in flight or after it completed. The session never issues a
// second invoice-create call.
var ErrAlreadySubmitted = errors.New("checkout already submitted")

// ErrInvalidPayment is returned for an unsupported payment method.
var ErrInvalidPayment = errors.New("invalid payment method")

// State is the checkout lifecycle. Submission moves Editing to Submitting;
// a recoverable failure moves back to Editing, success ends in the terminal
// Completed state.
type State string

const (
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
)

// Backend is the slice of the REST API the checkout needs: registering a
// walking customer and persisting the invoice.
type Backend interface {
	CreateCustomer(ctx context.Context, in pos.CustomerInput) (pos.Customer, error)
	CreateInvoice(ctx context.Context, draft pos.InvoiceDraft) (pos.Invoice, error)
}

// Checkout collects the payment inputs for a session's grand total and, on
// confirmation, persists the invoice through the backend exactly once.
type Checkout struct {
	session *Session
	backend Backend
	logger  *zap.Logger

	state              State
	paymentMethod      pos.PaymentMethod
	discount           decimal.Decimal
	paid               decimal.Decimal
	dueDate            string
	idempotencyKey     string
	customerRegistered bool
	invoice            *pos.Invoice
}

// BeginCheckout opens a checkout over the session's current totals. Payment
// defaults to cash.
func (s *Session) BeginCheckout(backend Backend) *Checkout {
	return &Checkout{
		session:        s,
		backend:        backend,
		logger:         s.logger,
		state:          StateEditing,
		paymentMethod:  pos.PaymentCash,
		idempotencyKey: uuid.NewString(),
	}
}

// State returns the checkout lifecycle state.
func (c *Checkout) State() State { return c.state }

// Invoice returns the persisted invoice once the checkout has completed.
func (c *Checkout) Invoice() *pos.Invoice { return c.invoice }

// SetPaymentMethod selects one of the supported payment options.
func (c *Checkout) SetPaymentMethod(m pos.PaymentMethod) error {
	if c.state != StateEditing {
		return ErrAlreadySubmitted
	}
	if !m.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPayment, m)
	}
	c.paymentMethod = m
	return nil
}

// SetDiscount sets the user-entered discount.
func (c *Checkout) SetDiscount(amount decimal.Decimal) error {
	if c.state != StateEditing {
		return ErrAlreadySubmitted
	}
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	c.discount = amount
	return nil
}

// SetPaid sets the amount the customer handed over.
func (c *Checkout) SetPaid(amount decimal.Decimal) error {
	if c.state != StateEditing {
		return ErrAlreadySubmitted
	}
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	c.paid = amount
	return nil
}

// SetDueDate sets the settlement date for an outstanding balance, in
// YYYY-MM-DD form. An empty string clears it.
func (c *Checkout) SetDueDate(date string) error {
	if c.state != StateEditing {
		return ErrAlreadySubmitted
	}
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("invalid due date %q: %w", date, err)
		}
	}
	c.dueDate = date
	return nil
}

// GrandTotal returns the session's grand total the checkout settles.
func (c *Checkout) GrandTotal() decimal.Decimal {
	return c.session.Totals().GrandTotal
}

// Payable is the grand total after discount, floored at zero.
func (c *Checkout) Payable() decimal.Decimal {
	payable := c.GrandTotal().Sub(c.discount)
	if payable.IsNegative() {
		return decimal.Zero
	}
	return payable
}

// Due is the unpaid remainder of the payable amount.
func (c *Checkout) Due() decimal.Decimal {
	due := c.Payable().Sub(c.paid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// Change is the excess payment beyond the payable amount.
func (c *Checkout) Change() decimal.Decimal {
	change := c.paid.Sub(c.Payable())
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

// CanSubmit reports whether the confirm action is currently allowed. It
// mirrors the disabled state of the checkout button: blocked while a
// submission is running and while a due amount lacks a due date.
func (c *Checkout) CanSubmit() bool {
	if c.state != StateEditing {
		return false
	}
	if c.session.Cart().Len() == 0 || c.session.Selection() == nil {
		return false
	}
	return !(c.Due().IsPositive() && c.dueDate == "")
}

// Submit confirms the checkout: it registers a walking customer first when
// needed, then issues the invoice-create call. The state moves to
// Submitting before any request goes out, so a re-triggered confirmation
// cannot produce a second invoice; it returns to Editing only on failure.
func (c *Checkout) Submit(ctx context.Context) (*pos.Invoice, error) {
	if c.state != StateEditing {
		return nil, ErrAlreadySubmitted
	}
	if c.session.Cart().Len() == 0 {
		return nil, ErrEmptyCart
	}
	selection := c.session.Selection()
	if selection == nil {
		return nil, ErrNoCustomer
	}
	if c.Due().IsPositive() && c.dueDate == "" {
		return nil, ErrDueDateRequired
	}

	draft, err := c.buildDraft(*selection)
	if err != nil {
		return nil, err
	}

	c.state = StateSubmitting

	// A retry after a failed invoice call must not register the walking
	// customer a second time; the backend would answer 409 for the phone.
	if selection.IsWalking() && !c.customerRegistered {
		_, err := c.backend.CreateCustomer(ctx, pos.CustomerInput{
			CustomerName: selection.Walking.Name,
			Phone:        selection.Walking.Phone,
			Address:      selection.Walking.Address,
		})
		if err != nil {
			c.state = StateEditing
			if errors.Is(err, pos.ErrCustomerExists) {
				c.logger.Warn("walking customer phone already registered",
					zap.String("session_id", c.session.id),
					zap.String("phone", selection.Walking.Phone))
				return nil, err
			}
			c.logger.Error("failed to register walking customer",
				zap.String("session_id", c.session.id), zap.Error(err))
			return nil, fmt.Errorf("register walking customer: %w", err)
		}
		c.customerRegistered = true
	}

	invoice, err := c.backend.CreateInvoice(ctx, draft)
	if err != nil {
		c.state = StateEditing
		c.logger.Error("invoice create failed",
			zap.String("session_id", c.session.id), zap.Error(err))
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	c.state = StateCompleted
	c.invoice = &invoice
	c.logger.Info("checkout completed",
		zap.String("session_id", c.session.id),
		zap.Int("transaction_id", invoice.TransactionID),
		zap.String("sale_system", string(invoice.SaleSystem)),
		zap.String("payment_method", string(invoice.PaymentMethod)),
		zap.String("grand_total", invoice.Totals.Total.String()))
	return c.invoice, nil
}

func (c *Checkout) buildDraft(selection Selection) (pos.InvoiceDraft, error) {
	cart := c.session.Cart()
	items := make([]pos.InvoiceItem, 0, cart.Len())
	for _, line := range cart.Lines() {
		product, err := c.session.catalog.Lookup(line.ProductID)
		if err != nil {
			return pos.InvoiceDraft{}, fmt.Errorf("cart line %s: %w", line.ProductID, err)
		}
		price := product.UnitPrice(c.session.system)
		items = append(items, pos.InvoiceItem{
			Name:     product.ProductName,
			Quantity: line.Quantity,
			Price:    price,
			Total:    price.Mul(decimal.NewFromInt(int64(line.Quantity))),
			Return:   line.Return,
		})
	}

	var dueDate *string
	if c.Due().IsPositive() && c.dueDate != "" {
		d := c.dueDate
		dueDate = &d
	}

	return pos.InvoiceDraft{
		SaleSystem:    c.session.system,
		Customer:      selection.Snapshot(),
		PaymentMethod: c.paymentMethod,
		Items:         items,
		Totals: pos.InvoiceTotals{
			Total:    c.GrandTotal(),
			Discount: c.discount,
			Payable:  c.Payable(),
			Paid:     c.paid,
			Due:      c.Due(),
			Change:   c.Change(),
		},
		DueDate:        dueDate,
		IdempotencyKey: c.idempotencyKey,
	}, nil
}
