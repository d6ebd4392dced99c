package handler

import (
	"net/http"

	"nook-pos/internal/dto"
	"nook-pos/internal/service"

	"github.com/labstack/echo/v4"
)

type SettingsHandler struct {
	settingsService service.SettingsService
}

func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

func (h *SettingsHandler) GetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.settingsService.Get())
}

func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	var req dto.SettingsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, h.settingsService.Update(req.ToModel()))
}

func (h *SettingsHandler) SyncMarketplace(c echo.Context) error {
	ctx := c.Request().Context()

	n, err := h.settingsService.SyncMarketplace(ctx)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.SyncResponse{Synced: n})
}
