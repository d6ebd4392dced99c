// Package pricing derives cart totals. Everything here is pure and works in
// whole currency units.
package pricing

import "nook-pos/internal/model"

// MaxUnitPrice bounds list and discount prices accepted into the catalog and
// the cart.
const MaxUnitPrice = 100_000_000

func ValidUnitPrice(price int64) bool {
	return price > 0 && price <= MaxUnitPrice
}

// EffectivePrice is the unit price actually charged: the discount price when
// one is set, otherwise the list price.
func EffectivePrice(p model.Product) int64 {
	if p.DiscountPrice != nil && *p.DiscountPrice > 0 {
		return *p.DiscountPrice
	}
	return p.Price
}

// ComputeTotals recomputes subtotal, discount and final total from scratch.
func ComputeTotals(items []model.CartItem) model.Totals {
	var sub, final int64
	for _, item := range items {
		sub += item.Price * item.Quantity
		final += EffectivePrice(item.Product) * item.Quantity
	}

	return model.Totals{
		Subtotal:      sub,
		DiscountTotal: sub - final,
		FinalTotal:    final,
	}
}
