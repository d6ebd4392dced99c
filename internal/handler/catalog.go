package handler

import (
	"bytes"
	"io"
	"net/http"

	"nook-pos/internal/dto"
	"nook-pos/internal/service"

	"github.com/labstack/echo/v4"
)

const maxImportSize = 5 << 20

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.catalogService.List(ctx, c.QueryParam("category"), c.QueryParam("search"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.catalogService.Get(ctx, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	product, err := h.catalogService.Create(ctx, req.ToModel(""))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	product, err := h.catalogService.Update(ctx, req.ToModel(c.Param("id")))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.catalogService.Delete(ctx, c.Param("id")); err != nil {
		return toHTTPError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ExportProducts(c echo.Context) error {
	ctx := c.Request().Context()

	var buf bytes.Buffer
	if err := h.catalogService.ExportCSV(ctx, &buf); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ImportProducts accepts either a multipart "file" field or a raw CSV body.
func (h *CatalogHandler) ImportProducts(c echo.Context) error {
	ctx := c.Request().Context()

	var body io.Reader = http.MaxBytesReader(c.Response(), c.Request().Body, maxImportSize)
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()
		body = f
	}

	n, err := h.catalogService.ImportCSV(ctx, body)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ImportResponse{Imported: n})
}

func (h *CatalogHandler) DescribeProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.DescribeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	text, err := h.catalogService.GenerateDescription(ctx, req.Name, req.Category)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.DescribeResponse{Description: text})
}
