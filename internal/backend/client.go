// Package backend is the typed client for the POS REST API. All business
// logic of consequence lives behind these endpoints; the client only moves
// payloads and translates HTTP failures into domain errors.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"

	"pos_sales/internal/pos"
)

// apiError is the error envelope the backend returns on non-2xx responses.
type apiError struct {
	Message string `json:"message"`
}

// Client talks to the POS backend over HTTP.
type Client struct {
	rest   *resty.Client
	logger *zap.Logger
}

// NewClient creates a backend client rooted at baseURL. A zero timeout
// leaves the transport default in place.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	rest := resty.New().SetBaseURL(baseURL)
	if timeout > 0 {
		rest.SetTimeout(timeout)
	}
	return &Client{rest: rest, logger: logger}
}

// ListProducts fetches the sellable product list (GET /pos).
func (c *Client) ListProducts(ctx context.Context) ([]pos.Product, error) {
	var products []pos.Product
	var apiErr apiError
	res, err := c.rest.R().SetContext(ctx).SetResult(&products).SetError(&apiErr).Get("/pos")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if res.IsError() {
		return nil, c.statusError("list products", res, apiErr)
	}
	return products, nil
}

// ListCustomers fetches the customer directory (GET /customer).
func (c *Client) ListCustomers(ctx context.Context) ([]pos.Customer, error) {
	var customers []pos.Customer
	var apiErr apiError
	res, err := c.rest.R().SetContext(ctx).SetResult(&customers).SetError(&apiErr).Get("/customer")
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	if res.IsError() {
		return nil, c.statusError("list customers", res, apiErr)
	}
	return customers, nil
}

// CreateCustomer registers a customer (POST /customer). A 409 response,
// meaning the phone number is already taken, maps to pos.ErrCustomerExists.
func (c *Client) CreateCustomer(ctx context.Context, in pos.CustomerInput) (pos.Customer, error) {
	var customer pos.Customer
	var apiErr apiError
	res, err := c.rest.R().SetContext(ctx).SetBody(in).SetResult(&customer).SetError(&apiErr).Post("/customer")
	if err != nil {
		return pos.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	if res.StatusCode() == http.StatusConflict {
		return pos.Customer{}, fmt.Errorf("create customer %s: %w", in.Phone, pos.ErrCustomerExists)
	}
	if res.IsError() {
		return pos.Customer{}, c.statusError("create customer", res, apiErr)
	}
	return customer, nil
}

// CreateInvoice persists a finalized sale (POST /invoice).
func (c *Client) CreateInvoice(ctx context.Context, draft pos.InvoiceDraft) (pos.Invoice, error) {
	var invoice pos.Invoice
	var apiErr apiError
	res, err := c.rest.R().SetContext(ctx).SetBody(draft).SetResult(&invoice).SetError(&apiErr).Post("/invoice")
	if err != nil {
		return pos.Invoice{}, fmt.Errorf("create invoice: %w", err)
	}
	if res.IsError() {
		return pos.Invoice{}, c.statusError("create invoice", res, apiErr)
	}
	return invoice, nil
}

// ListInvoicesBySystem fetches the transaction history for a sale system
// (GET /invoice/retailsale or GET /invoice/wholesale).
func (c *Client) ListInvoicesBySystem(ctx context.Context, system pos.SaleSystem) ([]pos.Invoice, error) {
	var invoices []pos.Invoice
	var apiErr apiError
	res, err := c.rest.R().SetContext(ctx).SetResult(&invoices).SetError(&apiErr).Get("/invoice/" + string(system))
	if err != nil {
		return nil, fmt.Errorf("list %s invoices: %w", system, err)
	}
	if res.IsError() {
		return nil, c.statusError("list invoices", res, apiErr)
	}
	return invoices, nil
}

// GetInvoice fetches one invoice by ID (GET /invoice/:id).
func (c *Client) GetInvoice(ctx context.Context, id string) (pos.Invoice, error) {
	var invoice pos.Invoice
	var apiErr apiError
	res, err := c.rest.R().SetContext(ctx).SetResult(&invoice).SetError(&apiErr).Get("/invoice/" + id)
	if err != nil {
		return pos.Invoice{}, fmt.Errorf("get invoice: %w", err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return pos.Invoice{}, fmt.Errorf("invoice %s: %w", id, pos.ErrNotFound)
	}
	if res.IsError() {
		return pos.Invoice{}, c.statusError("get invoice", res, apiErr)
	}
	return invoice, nil
}

// UpdateInvoice applies a due payment to an invoice (PUT /invoice/:id) and
// returns the updated record.
func (c *Client) UpdateInvoice(ctx context.Context, id string, update pos.DuePaymentUpdate) (pos.Invoice, error) {
	var invoice pos.Invoice
	var apiErr apiError
	res, err := c.rest.R().SetContext(ctx).SetBody(update).SetResult(&invoice).SetError(&apiErr).Put("/invoice/" + id)
	if err != nil {
		return pos.Invoice{}, fmt.Errorf("update invoice: %w", err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return pos.Invoice{}, fmt.Errorf("invoice %s: %w", id, pos.ErrNotFound)
	}
	if res.IsError() {
		return pos.Invoice{}, c.statusError("update invoice", res, apiErr)
	}
	return invoice, nil
}

// DeleteInvoice removes an invoice (DELETE /invoice/:id).
func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	var apiErr apiError
	res, err := c.rest.R().SetContext(ctx).SetError(&apiErr).Delete("/invoice/" + id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("invoice %s: %w", id, pos.ErrNotFound)
	}
	if res.IsError() {
		return c.statusError("delete invoice", res, apiErr)
	}
	return nil
}

func (c *Client) statusError(op string, res *resty.Response, apiErr apiError) error {
	c.logger.Error("backend request failed",
		zap.String("op", op),
		zap.Int("status", res.StatusCode()),
		zap.String("message", apiErr.Message))
	if apiErr.Message != "" {
		return fmt.Errorf("%s: backend returned %d: %s", op, res.StatusCode(), apiErr.Message)
	}
	return fmt.Errorf("%s: backend returned %d", op, res.StatusCode())
}
