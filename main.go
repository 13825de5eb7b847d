package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos_sales/api"
	"pos_sales/internal/backend"
	"pos_sales/internal/config"
	"pos_sales/internal/history"
	"pos_sales/internal/invoice"
	"pos_sales/internal/pos"
	"pos_sales/internal/sale"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pos_sales: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	baseURL := cfg.APIBaseURL
	if cfg.EmbeddedStub {
		url, err := startEmbeddedStub(logger)
		if err != nil {
			return err
		}
		baseURL = url
		fmt.Printf("embedded backend stub at %s\n", baseURL)
	}

	ctx := context.Background()
	client := backend.NewClient(baseURL, cfg.HTTPTimeout, logger)

	catalog, err := pos.LoadCatalog(ctx, client)
	if err != nil {
		return err
	}
	directory, err := pos.LoadDirectory(ctx, client)
	if err != nil {
		return err
	}

	till := &till{
		cfg:       cfg,
		client:    client,
		catalog:   catalog,
		directory: directory,
		session:   sale.NewSession(cfg.SaleSystem, catalog, logger),
		renderer:  invoice.NewRenderer(os.Stdout),
		logger:    logger,
	}

	fmt.Printf("%s till ready, cashier %s. Type 'help' for commands.\n", cfg.SaleSystem, cfg.Cashier)
	return till.loop(ctx, os.Stdin)
}

// startEmbeddedStub serves the seeded contract stub on a loopback port so
// the till can run without the real backend.
func startEmbeddedStub(logger *zap.Logger) (string, error) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	api.InitRoutes(engine, api.NewSeededStorage(), logger)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("start embedded stub: %w", err)
	}
	go func() {
		if err := http.Serve(ln, engine); err != nil {
			logger.Error("embedded stub stopped", zap.Error(err))
		}
	}()
	return "http://" + ln.Addr().String(), nil
}

// till drives one sale session through line commands, the terminal stand-in
// for the sale page.
type till struct {
	cfg       config.Config
	client    *backend.Client
	catalog   *pos.Catalog
	directory *pos.Directory
	session   *sale.Session
	checkout  *sale.Checkout
	renderer  *invoice.Renderer
	logger    *zap.Logger
}

func (t *till) loop(ctx context.Context, in *os.File) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := t.dispatch(ctx, fields[0], fields[1:]); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

func (t *till) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Print(helpText)
		return nil
	case "products":
		return t.showProducts(strings.Join(args, " "))
	case "customers":
		for _, c := range t.directory.Search(strings.Join(args, " ")) {
			fmt.Printf("  %s  %s | %s\n", c.CustomerID, c.CustomerName, c.Phone)
		}
		return nil
	case "add":
		return t.withProduct(args, func(p pos.Product) error { return t.session.AddProduct(p.ID) })
	case "qty":
		if len(args) < 2 {
			return fmt.Errorf("usage: qty <code> <delta>")
		}
		delta, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad delta %q", args[1])
		}
		return t.withProduct(args[:1], func(p pos.Product) error {
			return t.session.Cart().UpdateQuantity(p.ID, delta)
		})
	case "rm":
		return t.withProduct(args, func(p pos.Product) error { return t.session.Cart().Remove(p.ID) })
	case "return":
		if len(args) < 1 {
			return fmt.Errorf("usage: return <code> [off]")
		}
		on := len(args) < 2 || args[1] != "off"
		return t.withProduct(args[:1], func(p pos.Product) error {
			return t.session.Cart().SetReturn(p.ID, on)
		})
	case "ship":
		amount, err := parseAmount(args)
		if err != nil {
			return err
		}
		return t.session.SetShipping(amount)
	case "clear":
		t.session.ClearCart()
		t.checkout = nil
		return nil
	case "cart":
		return t.showCart()
	case "customer":
		if len(args) != 1 {
			return fmt.Errorf("usage: customer <id>")
		}
		c, err := t.directory.Lookup(args[0])
		if err != nil {
			return err
		}
		t.session.SelectCustomer(c)
		return nil
	case "walking":
		if len(args) < 2 {
			return fmt.Errorf("usage: walking <name> <phone> [address]")
		}
		return t.session.SelectWalking(args[0], args[1], strings.Join(args[2:], " "))
	case "checkout":
		t.checkout = t.session.BeginCheckout(t.client)
		fmt.Printf("total ৳%s — set discount/paid/method/duedate, then confirm\n",
			t.checkout.GrandTotal().StringFixed(2))
		return nil
	case "discount", "paid", "method", "duedate", "confirm":
		if t.checkout == nil {
			return fmt.Errorf("no open checkout; run 'checkout' first")
		}
		return t.checkoutCmd(ctx, cmd, args)
	case "history":
		return t.showHistory(ctx, args)
	default:
		return fmt.Errorf("unknown command %q; try 'help'", cmd)
	}
}

func (t *till) checkoutCmd(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "discount":
		amount, err := parseAmount(args)
		if err != nil {
			return err
		}
		return t.checkout.SetDiscount(amount)
	case "paid":
		amount, err := parseAmount(args)
		if err != nil {
			return err
		}
		if err := t.checkout.SetPaid(amount); err != nil {
			return err
		}
		fmt.Printf("payable ৳%s  due ৳%s  change ৳%s\n",
			t.checkout.Payable().StringFixed(2),
			t.checkout.Due().StringFixed(2),
			t.checkout.Change().StringFixed(2))
		return nil
	case "method":
		if len(args) != 1 {
			return fmt.Errorf("usage: method cash|bkash|nagad")
		}
		return t.checkout.SetPaymentMethod(pos.PaymentMethod(args[0]))
	case "duedate":
		if len(args) != 1 {
			return fmt.Errorf("usage: duedate YYYY-MM-DD")
		}
		return t.checkout.SetDueDate(args[0])
	case "confirm":
		inv, err := t.checkout.Submit(ctx)
		if err != nil {
			return err
		}
		if err := t.renderer.Print(*inv); err != nil {
			return err
		}
		// A completed checkout ends the sale; the next one starts fresh.
		t.session = sale.NewSession(t.cfg.SaleSystem, t.catalog, t.logger)
		t.checkout = nil
		return t.catalog.Refresh(ctx)
	}
	return nil
}

func (t *till) showProducts(search string) error {
	for _, p := range t.catalog.Filter(search, "All") {
		fmt.Printf("  [%d] %-28s %-12s ৳%s (stock %d)\n",
			p.ProductCode, p.ProductName, p.Category,
			p.UnitPrice(t.session.System()).StringFixed(2), p.Quantity)
	}
	return nil
}

func (t *till) showCart() error {
	for _, line := range t.session.Cart().Lines() {
		p, err := t.catalog.Lookup(line.ProductID)
		if err != nil {
			continue
		}
		flag := ""
		if line.Return {
			flag = " (return)"
		}
		fmt.Printf("  %s x %d%s\n", p.ProductName, line.Quantity, flag)
	}
	totals := t.session.Totals()
	fmt.Printf("subtotal ৳%s  shipping ৳%s  returns -৳%s  total ৳%s\n",
		totals.Subtotal.StringFixed(2), totals.Shipping.StringFixed(2),
		totals.ReturnAdjustment.StringFixed(2), totals.GrandTotal.StringFixed(2))
	return nil
}

func (t *till) showHistory(ctx context.Context, args []string) error {
	view, err := history.LoadView(ctx, t.client, t.cfg.SaleSystem, t.cfg.PageSize, t.logger)
	if err != nil {
		return err
	}
	status := history.StatusAll
	if len(args) > 0 {
		status = history.StatusFilter(args[0])
	}
	for _, inv := range view.Page(view.Filter("", status), 1) {
		fmt.Printf("  #%d  %s  %s  total ৳%s due ৳%s\n",
			inv.TransactionID, inv.CreatedAt.Format("2006-01-02"),
			inv.Customer.Name, inv.Totals.Total.StringFixed(2), inv.Totals.Due.StringFixed(2))
	}
	return nil
}

// withProduct resolves args[0] as a product code or ID and applies fn.
func (t *till) withProduct(args []string, fn func(pos.Product) error) error {
	if len(args) < 1 {
		return fmt.Errorf("product code required")
	}
	if code, err := strconv.Atoi(args[0]); err == nil {
		for _, p := range t.catalog.Products() {
			if p.ProductCode == code {
				return fn(p)
			}
		}
	}
	p, err := t.catalog.Lookup(args[0])
	if err != nil {
		return fmt.Errorf("no product %q", args[0])
	}
	return fn(p)
}

func parseAmount(args []string) (decimal.Decimal, error) {
	if len(args) != 1 {
		return decimal.Zero, fmt.Errorf("amount required")
	}
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad amount %q", args[0])
	}
	return amount, nil
}

const helpText = `commands:
  products [search]           list catalog
  customers [term]            search customer directory
  add <code>                  add product to cart
  qty <code> <delta>          change line quantity
  return <code> [off]         mark line as return
  rm <code>                   remove line
  ship <amount>               set shipping cost
  cart                        show cart and totals
  clear                       clear cart
  customer <id>               select directory customer
  walking <name> <phone> [address]
  checkout                    open checkout for current total
  discount|paid <amount>      checkout inputs
  method cash|bkash|nagad     payment method
  duedate YYYY-MM-DD          due date for outstanding balance
  confirm                     submit checkout and print invoice
  history [all|paid|due]      show transaction history
  quit
`
