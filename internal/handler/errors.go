package handler

import (
	"errors"
	"net/http"

	"nook-pos/internal/cart"
	"nook-pos/internal/checkout"
	"nook-pos/internal/repository"
	"nook-pos/internal/service"

	"github.com/labstack/echo/v4"
)

// toHTTPError maps domain errors to status codes. Anything unknown is left
// for echo's default handler to report as a 500.
func toHTTPError(err error) error {
	switch {
	case service.IsValidation(err),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, cart.ErrQuantityLimit),
		errors.Is(err, cart.ErrCartFull),
		errors.Is(err, cart.ErrInvalidPrice),
		errors.Is(err, service.ErrMissingCredentials):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, checkout.ErrSessionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, checkout.ErrInvalidTransition),
		errors.Is(err, checkout.ErrCheckoutInProgress),
		errors.Is(err, checkout.ErrCartLocked),
		errors.Is(err, checkout.ErrCheckoutAborted),
		errors.Is(err, repository.ErrStaleMember):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return err
}
