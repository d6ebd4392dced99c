package model

// CartItem is a product snapshot taken when it was added to a cart.
type CartItem struct {
	Product
	Quantity int64 `json:"quantity"`
}

// Totals are derived from a cart and never stored on their own.
type Totals struct {
	Subtotal      int64 `json:"subtotal"`
	DiscountTotal int64 `json:"discountTotal"`
	FinalTotal    int64 `json:"finalTotal"`
}

// TransactionDateLayout is the capture-time format used for Transaction.Date.
const TransactionDateLayout = "2006/01/02 15:04:05"
