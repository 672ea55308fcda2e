package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"printshop/internal/service"
)

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

	grid, err := h.catalogService.ShopGrid(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, grid)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	detail, err := h.catalogService.ProductDetail(ctx, c.Param("slug"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, detail)
}
