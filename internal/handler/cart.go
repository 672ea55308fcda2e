package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"printshop/internal/cart"
	"printshop/internal/dto"
	"printshop/internal/service"
)

type CartHandler struct {
	cartService service.CartService
	store       *cart.Store
	homeCountry string
}

func NewCartHandler(cartService service.CartService, store *cart.Store, homeCountry string) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		store:       store,
		homeCountry: homeCountry,
	}
}

// AddToCart handles the storefront add form. An unparseable quantity
// falls back to 1; a missing size selection is rejected.
func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := strconv.ParseUint(c.Param("productID"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	quantity, err := strconv.Atoi(c.FormValue("quantity"))
	if err != nil || quantity < 1 {
		quantity = 1
	}

	variantID, _ := strconv.ParseUint(c.FormValue("variant_id"), 10, 32)
	framed := parseFlag(c.FormValue("add_frame"))

	in := &dto.AddLineInput{
		ProductID: uint(productID),
		VariantID: uint(variantID),
		Framed:    framed,
		Quantity:  quantity,
	}

	_, err = h.store.Update(c, func(ct *cart.Cart) error {
		return h.cartService.AddLine(ctx, ct, in)
	})
	if err != nil {
		return httpError(err)
	}

	return redirectBack(c)
}

// RemoveFromCart removes one unit of the addressed line; the line
// disappears when the last unit goes.
func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	key, err := cart.ParseKey(c.Param("key"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cart key")
	}

	if _, err := h.store.Update(c, func(ct *cart.Cart) error {
		ct.RemoveOne(key)
		return nil
	}); err != nil {
		return httpError(err)
	}

	return redirectBack(c)
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ct, err := h.store.Cart(c)
	if err != nil {
		return err
	}

	country := h.store.Country(c, h.homeCountry)
	return c.JSON(http.StatusOK, h.cartService.Totals(ct, country))
}

// SetShippingCountry stores the destination the visitor picked on the
// cart page and returns the repriced totals.
func (h *CartHandler) SetShippingCountry(c echo.Context) error {
	var req dto.ShippingCountryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	country := strings.ToUpper(strings.TrimSpace(req.Country))
	if len(country) != 2 {
		return echo.NewHTTPError(http.StatusBadRequest, "country must be a two-letter code")
	}

	if err := h.store.SetCountry(c, country); err != nil {
		return err
	}

	ct, err := h.store.Cart(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.cartService.Totals(ct, country))
}

func parseFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}
