package pos

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a product, customer or invoice cannot be found.
var ErrNotFound = errors.New("not found")

// ErrCustomerExists is returned when a customer with the same phone number
// already exists in the backend directory.
var ErrCustomerExists = errors.New("customer phone already exists")

// SaleSystem tags an invoice with the workflow that produced it. The value
// doubles as the collection segment of the invoice listing endpoints.
type SaleSystem string

const (
	SaleSystemRetail    SaleSystem = "retailsale"
	SaleSystemWholesale SaleSystem = "wholesale"
)

func (s SaleSystem) Valid() bool {
	return s == SaleSystemRetail || s == SaleSystemWholesale
}

// PaymentMethod is one of the payment options offered at checkout.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentBkash PaymentMethod = "bkash"
	PaymentNagad PaymentMethod = "nagad"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentBkash || m == PaymentNagad
}

// Product is a sellable item as served by GET /pos. The sale session treats
// products as immutable; stock and prices are owned by the backend.
type Product struct {
	ID             string          `json:"_id"`
	ProductName    string          `json:"productName"`
	ProductCode    int             `json:"productCode"`
	Description    string          `json:"description,omitempty"`
	Brand          string          `json:"brand,omitempty"`
	Category       string          `json:"category"`
	Unit           string          `json:"unit,omitempty"`
	Quantity       int             `json:"quantity"`
	AlertQuantity  int             `json:"alertQuantity,omitempty"`
	PurchasePrice  decimal.Decimal `json:"purchasePrice"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice"`
	RetailPrice    decimal.Decimal `json:"retailPrice"`
	Tax            decimal.Decimal `json:"tax"`
	TaxType        string          `json:"taxType,omitempty"`
}

// UnitPrice returns the price that applies under the given sale system.
// The tax fields are informational only and never enter this figure.
func (p Product) UnitPrice(system SaleSystem) decimal.Decimal {
	if system == SaleSystemWholesale {
		return p.WholesalePrice
	}
	return p.RetailPrice
}

// Customer is a directory entry as served by GET /customer.
type Customer struct {
	CustomerID   string `json:"customerId"`
	CustomerName string `json:"customerName"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

// CustomerInput is the POST /customer payload used to register a walking
// customer at checkout time.
type CustomerInput struct {
	CustomerName string `json:"customerName"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

// InvoiceCustomer is the counterparty snapshot embedded in an invoice.
type InvoiceCustomer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// InvoiceItem is one finalized sale line with its computed total.
type InvoiceItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
	Return   bool            `json:"return,omitempty"`
}

// InvoiceTotals is the totals block persisted with an invoice.
type InvoiceTotals struct {
	Total    decimal.Decimal `json:"total"`
	Discount decimal.Decimal `json:"discount"`
	Payable  decimal.Decimal `json:"payable"`
	Paid     decimal.Decimal `json:"paid"`
	Due      decimal.Decimal `json:"due"`
	Change   decimal.Decimal `json:"change"`
}

// InvoiceDraft is the POST /invoice payload. The backend assigns identity
// and the transaction number.
type InvoiceDraft struct {
	SaleSystem     SaleSystem      `json:"saleSystem"`
	Customer       InvoiceCustomer `json:"customer"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	Items          []InvoiceItem   `json:"items"`
	Totals         InvoiceTotals   `json:"totals"`
	DueDate        *string         `json:"dueDate"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
}

// Invoice is the persisted sale record returned by the backend.
type Invoice struct {
	ID            string          `json:"_id"`
	TransactionID int             `json:"transactionId"`
	SaleSystem    SaleSystem      `json:"saleSystem"`
	Customer      InvoiceCustomer `json:"customer"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Items         []InvoiceItem   `json:"items"`
	Totals        InvoiceTotals   `json:"totals"`
	DueDate       *string         `json:"dueDate"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// DuePaymentUpdate is the PUT /invoice/:id payload that settles part of an
// outstanding balance after the sale.
type DuePaymentUpdate struct {
	Paid          decimal.Decimal `json:"paid"`
	Discount      decimal.Decimal `json:"discount"`
	NextDueAmount decimal.Decimal `json:"nextDueAmount"`
	NextDueDate   *string         `json:"nextDueDate"`
}
