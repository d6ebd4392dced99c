package pricing

import (
	"testing"

	"nook-pos/internal/model"

	"github.com/stretchr/testify/assert"
)

func price(v int64) *int64 { return &v }

func TestEffectivePrice(t *testing.T) {
	assert.Equal(t, int64(500), EffectivePrice(model.Product{Price: 500}))
	assert.Equal(t, int64(180), EffectivePrice(model.Product{Price: 200, DiscountPrice: price(180)}))
	// a zero discount price counts as unset
	assert.Equal(t, int64(200), EffectivePrice(model.Product{Price: 200, DiscountPrice: price(0)}))
}

func TestComputeTotals_Empty(t *testing.T) {
	assert.Equal(t, model.Totals{}, ComputeTotals(nil))
}

func TestComputeTotals_MixedCart(t *testing.T) {
	items := []model.CartItem{
		{Product: model.Product{ID: "1", Price: 200, DiscountPrice: price(180)}, Quantity: 2},
		{Product: model.Product{ID: "2", Price: 500}, Quantity: 1},
	}

	totals := ComputeTotals(items)

	assert.Equal(t, int64(900), totals.Subtotal)
	assert.Equal(t, int64(860), totals.FinalTotal)
	assert.Equal(t, int64(40), totals.DiscountTotal)
}

func TestComputeTotals_Invariants(t *testing.T) {
	carts := [][]model.CartItem{
		{{Product: model.Product{Price: 1}, Quantity: 1}},
		{{Product: model.Product{Price: 1500, DiscountPrice: price(1200)}, Quantity: 3}},
		{
			{Product: model.Product{Price: 2000}, Quantity: 7},
			{Product: model.Product{Price: 99, DiscountPrice: price(98)}, Quantity: 11},
		},
	}

	for _, items := range carts {
		totals := ComputeTotals(items)
		assert.GreaterOrEqual(t, totals.Subtotal, totals.FinalTotal)
		assert.GreaterOrEqual(t, totals.FinalTotal, int64(0))
		assert.GreaterOrEqual(t, totals.DiscountTotal, int64(0))
		assert.Equal(t, totals.Subtotal-totals.FinalTotal, totals.DiscountTotal)
	}
}
