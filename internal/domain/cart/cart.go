// Package cart implements the in-session shopping cart: an ordered set of
// product/quantity lines with totals derived from the lines on every read,
// so they can never drift out of sync with the cart contents.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/opryshko/bakehouse/internal/domain/product"
)

// Line pairs a product snapshot with a quantity. A cart holds at most one
// line per product ID.
type Line struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal returns price multiplied by quantity for this line.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered collection of lines scoped to one session. Lines keep
// insertion order. The zero value is an empty, usable cart.
//
// Cart methods assume pre-validated input (quantity >= 1 for AddItem); the
// HTTP boundary rejects invalid quantities before they reach the cart.
// Methods are not safe for concurrent use: a cart belongs to a single
// session and is loaded, mutated, and stored within one request.
type Cart struct {
	Lines []Line `json:"lines"`
}

// AddItem adds quantity units of p to the cart. If a line for p.ID already
// exists its quantity is incremented, otherwise a new line is appended.
// It reports whether a new line was created, so callers can tell the user
// "added" apart from "updated".
func (c *Cart) AddItem(p product.Product, quantity int) (added bool) {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == p.ID {
			c.Lines[i].Quantity += quantity
			return false
		}
	}
	c.Lines = append(c.Lines, Line{Product: p, Quantity: quantity})
	return true
}

// RemoveItem deletes the line for productID. Removing an absent product is a
// no-op, not an error. It reports whether a line was removed.
func (c *Cart) RemoveItem(productID int64) bool {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateQuantity sets the line for productID to exactly quantity (absolute
// set, not a delta). A quantity of zero or less removes the line. Unknown
// product IDs are ignored.
func (c *Cart) UpdateQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			c.Lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart. The cart itself remains usable.
func (c *Cart) Clear() {
	c.Lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total returns the sum of line subtotals. Computed from the lines on every
// call; there is no stored total to go stale.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount returns the sum of line quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}

// Snapshot returns an independent copy of the cart lines. Mutating the cart
// afterwards does not affect the returned slice, which makes it safe to hand
// to order creation.
func (c *Cart) Snapshot() []Line {
	if len(c.Lines) == 0 {
		return nil
	}
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return lines
}
