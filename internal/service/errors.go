package service

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredentials = errors.New("integration credentials are not configured")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSettlementPending  = errors.New("settlement still running")
)

// validationError communicates rule violations back to HTTP handlers.
type validationError struct {
	message string
}

func (e validationError) Error() string { return e.message }

func newValidationError(format string, args ...any) error {
	return validationError{message: fmt.Sprintf(format, args...)}
}

// IsValidation helps callers distinguish between business and infrastructure failures.
func IsValidation(err error) bool {
	var v validationError
	return errors.As(err, &v)
}
