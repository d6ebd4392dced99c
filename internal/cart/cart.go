// Package cart holds the line items of one checkout session.
//
// A Cart is not safe for concurrent use; the owning session serializes access.
package cart

import (
	"errors"
	"fmt"

	"nook-pos/internal/model"
	"nook-pos/internal/pricing"
)

const (
	// MaxQuantity caps a single line. With pricing.MaxUnitPrice and MaxLines
	// it keeps every total well inside int64.
	MaxQuantity = 9999
	MaxLines    = 500
)

var (
	ErrQuantityLimit = fmt.Errorf("line quantity cannot exceed %d", MaxQuantity)
	ErrCartFull      = fmt.Errorf("cart cannot hold more than %d lines", MaxLines)
	ErrInvalidPrice  = errors.New("product price is out of range")
)

type Cart struct {
	items []model.CartItem
}

func New() *Cart {
	return &Cart{}
}

// AddItem snapshots the product into the cart, or bumps the quantity of the
// line already holding it. The cart is unchanged when an error is returned.
func (c *Cart) AddItem(p model.Product) (model.Totals, error) {
	if i := c.indexOf(p.ID); i >= 0 {
		if c.items[i].Quantity >= MaxQuantity {
			return c.Totals(), ErrQuantityLimit
		}
		c.items[i].Quantity++
		return c.Totals(), nil
	}

	if !pricing.ValidUnitPrice(p.Price) {
		return c.Totals(), ErrInvalidPrice
	}
	if len(c.items) >= MaxLines {
		return c.Totals(), ErrCartFull
	}

	c.items = append(c.items, model.CartItem{Product: snapshot(p), Quantity: 1})
	return c.Totals(), nil
}

// RemoveItem drops the line for productID. Unknown ids are ignored.
func (c *Cart) RemoveItem(productID string) model.Totals {
	if i := c.indexOf(productID); i >= 0 {
		c.items = append(c.items[:i:i], c.items[i+1:]...)
	}
	return c.Totals()
}

// ChangeQuantity applies delta to a line's quantity. A result of zero or less
// leaves the line untouched; it is not removed. A result above MaxQuantity is
// rejected.
func (c *Cart) ChangeQuantity(productID string, delta int64) (model.Totals, error) {
	i := c.indexOf(productID)
	if i < 0 {
		return c.Totals(), nil
	}

	// compared before adding so a huge delta cannot wrap around
	if delta > MaxQuantity-c.items[i].Quantity {
		return c.Totals(), ErrQuantityLimit
	}

	// TODO: auto-remove at zero once the till team settles the expected behavior.
	if next := c.items[i].Quantity + delta; next > 0 {
		c.items[i].Quantity = next
	}
	return c.Totals(), nil
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []model.CartItem {
	out := make([]model.CartItem, len(c.items))
	for i, item := range c.items {
		out[i] = model.CartItem{Product: snapshot(item.Product), Quantity: item.Quantity}
	}
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Totals recomputes the derived totals from the current lines.
func (c *Cart) Totals() model.Totals {
	return pricing.ComputeTotals(c.items)
}

func (c *Cart) indexOf(productID string) int {
	for i, item := range c.items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

// snapshot detaches the optional price pointers so later catalog edits
// cannot reach into the cart.
func snapshot(p model.Product) model.Product {
	if p.CostPrice != nil {
		v := *p.CostPrice
		p.CostPrice = &v
	}
	if p.DiscountPrice != nil {
		v := *p.DiscountPrice
		p.DiscountPrice = &v
	}
	return p
}
