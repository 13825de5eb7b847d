package pos

import (
	"context"
	"fmt"
	"strings"
)

// CustomerSource lists the customer directory, normally GET /customer on
// the backend.
type CustomerSource interface {
	ListCustomers(ctx context.Context) ([]Customer, error)
}

// Directory is the searchable customer list backing the counterparty
// selector.
type Directory struct {
	src       CustomerSource
	customers []Customer
	byID      map[string]Customer
}

// LoadDirectory fetches the customer list and builds the lookup index.
func LoadDirectory(ctx context.Context, src CustomerSource) (*Directory, error) {
	d := &Directory{src: src}
	if err := d.Refresh(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// Refresh refetches the directory, e.g. after a walking customer has been
// registered.
func (d *Directory) Refresh(ctx context.Context) error {
	customers, err := d.src.ListCustomers(ctx)
	if err != nil {
		return fmt.Errorf("refresh customer directory: %w", err)
	}
	byID := make(map[string]Customer, len(customers))
	for _, c := range customers {
		byID[c.CustomerID] = c
	}
	d.customers = customers
	d.byID = byID
	return nil
}

// Lookup returns the customer with the given ID.
// Returns ErrNotFound if the customer is unknown.
func (d *Directory) Lookup(id string) (Customer, error) {
	c, ok := d.byID[id]
	if !ok {
		return Customer{}, ErrNotFound
	}
	return c, nil
}

// Customers returns the cached directory in backend order.
func (d *Directory) Customers() []Customer {
	return d.customers
}

// Search matches customers by name or phone substring, the same filter the
// selector dropdown applies while typing.
func (d *Directory) Search(term string) []Customer {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return d.customers
	}
	matched := make([]Customer, 0)
	for _, c := range d.customers {
		if strings.Contains(strings.ToLower(c.CustomerName), term) || strings.Contains(c.Phone, term) {
			matched = append(matched, c)
		}
	}
	return matched
}
