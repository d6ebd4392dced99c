package handler

import (
	"errors"
	"net/http"

	"nook-pos/internal/checkout"
	"nook-pos/internal/dto"
	"nook-pos/internal/service"

	"github.com/labstack/echo/v4"
)

type PosHandler struct {
	posService service.PosService
}

func NewPosHandler(posService service.PosService) *PosHandler {
	return &PosHandler{
		posService: posService,
	}
}

func (h *PosHandler) OpenSession(c echo.Context) error {
	return c.JSON(http.StatusCreated, h.posService.OpenSession())
}

func (h *PosHandler) GetSession(c echo.Context) error {
	return h.snapshot(c)(h.posService.GetSession(c.Param("id")))
}

func (h *PosHandler) CloseSession(c echo.Context) error {
	if err := h.posService.CloseSession(c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PosHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.ProductID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "productId is required")
	}

	return h.snapshot(c)(h.posService.AddItem(ctx, c.Param("id"), req.ProductID))
}

func (h *PosHandler) RemoveItem(c echo.Context) error {
	return h.snapshot(c)(h.posService.RemoveItem(c.Param("id"), c.Param("productID")))
}

func (h *PosHandler) ChangeQuantity(c echo.Context) error {
	var req dto.ChangeQuantityRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	return h.snapshot(c)(h.posService.ChangeQuantity(c.Param("id"), c.Param("productID"), req.Delta))
}

func (h *PosHandler) AttachMember(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AttachMemberRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.MemberID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "memberId is required")
	}

	return h.snapshot(c)(h.posService.AttachMember(ctx, c.Param("id"), req.MemberID))
}

func (h *PosHandler) DetachMember(c echo.Context) error {
	return h.snapshot(c)(h.posService.DetachMember(c.Param("id")))
}

func (h *PosHandler) RequestCheckout(c echo.Context) error {
	return h.snapshot(c)(h.posService.RequestCheckout(c.Param("id")))
}

func (h *PosHandler) CancelCheckout(c echo.Context) error {
	return h.snapshot(c)(h.posService.CancelCheckout(c.Param("id")))
}

// ConfirmCheckout answers 202 with the current snapshot when the settlement
// outlives the wait; clients poll GET /sessions/:id for the receipt.
func (h *PosHandler) ConfirmCheckout(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("id")

	receipt, err := h.posService.Confirm(ctx, sessionID)
	if errors.Is(err, service.ErrSettlementPending) {
		snap, err := h.posService.GetSession(sessionID)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(http.StatusAccepted, snap)
	}
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, receipt)
}

func (h *PosHandler) AbortCheckout(c echo.Context) error {
	return h.snapshot(c)(h.posService.AbortCheckout(c.Param("id")))
}

func (h *PosHandler) DismissReceipt(c echo.Context) error {
	return h.snapshot(c)(h.posService.DismissReceipt(c.Param("id")))
}

func (h *PosHandler) snapshot(c echo.Context) func(checkout.Snapshot, error) error {
	return func(snap checkout.Snapshot, err error) error {
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(http.StatusOK, snap)
	}
}
