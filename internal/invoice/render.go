// Package invoice formats a completed sale for display and printing.
package invoice

import (
	"fmt"
	"io"
	"text/template"

	"github.com/shopspring/decimal"

	"pos_sales/internal/pos"
)

const receiptTemplate = `Invoice #{{.TransactionID}}
Date:     {{.CreatedAt.Format "2006-01-02 15:04"}}
Payment:  {{.PaymentMethod}}
Customer: {{.Customer.Name}}{{if .Customer.Phone}} | {{.Customer.Phone}}{{end}}

Items
{{range .Items -}}
  {{.Name}} x {{.Quantity}}{{if .Return}} (return){{end}}  ৳{{money .Total}}
{{end -}}
----------------------------------------
Total      ৳{{money .Totals.Total}}
Discount  -৳{{money .Totals.Discount}}
Payable    ৳{{money .Totals.Payable}}
Paid       ৳{{money .Totals.Paid}}
{{if showDue . -}}
Due        ৳{{money .Totals.Due}}
Due Date   {{deref .DueDate}}
{{end -}}
{{if .Totals.Change.IsPositive -}}
Change     ৳{{money .Totals.Change}}
{{end -}}
`

var receipt = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	// The due line is shown only when a balance is outstanding and a
	// settlement date was captured with it.
	"showDue": func(inv pos.Invoice) bool {
		return inv.Totals.Due.IsPositive() && inv.DueDate != nil
	},
}).Parse(receiptTemplate))

// Renderer writes finalized sales to an output stream. The stream stands in
// for the print target; Print has no side effect beyond the write.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer over the given output stream.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render formats the invoice onto the renderer's stream.
func (r *Renderer) Render(inv pos.Invoice) error {
	if err := receipt.Execute(r.out, inv); err != nil {
		return fmt.Errorf("render invoice %d: %w", inv.TransactionID, err)
	}
	return nil
}

// Print is the explicit print action for a completed sale. It is
// synchronous and returns once the invoice has been written.
func (r *Renderer) Print(inv pos.Invoice) error {
	return r.Render(inv)
}
