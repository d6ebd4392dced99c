package checkout

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidTransition  = errors.New("invalid checkout transition")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrCartLocked         = errors.New("cart cannot change in the current checkout state")
	ErrCheckoutAborted    = errors.New("checkout aborted")
	ErrSessionNotFound    = errors.New("session not found")
)
