package sale

import (
	"errors"

	"pos_sales/internal/pos"
)

// ErrEmptyCart is returned when checkout is attempted on a cart with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// Line is one cart entry: a product and how many units of it. A line whose
// Return flag is set counts against the total instead of toward it.
type Line struct {
	ProductID string
	Quantity  int
	Return    bool
}

// Cart is the front-till working set of the sale session. It is not
// persisted anywhere; reloading the session starts from an empty cart.
// One line per product, ordered by first add.
type Cart struct {
	lines []Line
	index map[string]int
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{index: make(map[string]int)}
}

// Add puts one unit of the product into the cart. If a line for the product
// already exists its quantity is incremented, so adding the same product
// twice yields a single line with quantity 2.
func (c *Cart) Add(productID string) {
	if i, ok := c.index[productID]; ok {
		c.lines[i].Quantity++
		return
	}
	c.index[productID] = len(c.lines)
	c.lines = append(c.lines, Line{ProductID: productID, Quantity: 1})
}

// UpdateQuantity applies a quantity delta to the product's line, flooring at
// one unit. The decrement control never removes a line; Remove does that.
// Returns pos.ErrNotFound if the product is not in the cart.
func (c *Cart) UpdateQuantity(productID string, delta int) error {
	i, ok := c.index[productID]
	if !ok {
		return pos.ErrNotFound
	}
	q := c.lines[i].Quantity + delta
	if q < 1 {
		q = 1
	}
	c.lines[i].Quantity = q
	return nil
}

// SetReturn marks or unmarks a line as a return.
// Returns pos.ErrNotFound if the product is not in the cart.
func (c *Cart) SetReturn(productID string, isReturn bool) error {
	i, ok := c.index[productID]
	if !ok {
		return pos.ErrNotFound
	}
	c.lines[i].Return = isReturn
	return nil
}

// Remove deletes the product's line from the cart.
// Returns pos.ErrNotFound if the product is not in the cart.
func (c *Cart) Remove(productID string) error {
	i, ok := c.index[productID]
	if !ok {
		return pos.ErrNotFound
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, productID)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].ProductID] = j
	}
	return nil
}

// RemoveMany deletes every matching line. Unknown IDs are skipped.
func (c *Cart) RemoveMany(productIDs []string) {
	for _, id := range productIDs {
		_ = c.Remove(id)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]int)
}

// Len reports the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns a copy of the cart lines in first-add order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for a product, if present.
func (c *Cart) Line(productID string) (Line, bool) {
	i, ok := c.index[productID]
	if !ok {
		return Line{}, false
	}
	return c.lines[i], true
}
