package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"printshop/internal/dto"
	"printshop/internal/model"
	"printshop/internal/repository"
	"printshop/internal/service"
)

// httpError maps the service error taxonomy onto status codes. Anything
// unrecognized bubbles up as a generic 500 through echo.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrVariantNotFound),
		errors.Is(err, repository.ErrOrderNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmptyCart):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSessionUnpaid):
		return echo.NewHTTPError(http.StatusPaymentRequired, err.Error())
	default:
		return err
	}
}

// redirectBack sends the browser to the page the request came from,
// falling back to the storefront root.
func redirectBack(c echo.Context) error {
	target := c.Request().Referer()
	if target == "" {
		target = "/"
	}
	return c.Redirect(http.StatusFound, target)
}

func orderView(o *model.Order) *dto.OrderView {
	view := &dto.OrderView{
		Number:      o.Number,
		Email:       o.Email,
		Country:     o.Country,
		Paid:        o.Paid,
		AmountTotal: decimal.New(o.AmountTotal, -2).StringFixed(2),
		ShippingFee: decimal.New(o.ShippingFee, -2).StringFixed(2),
		Currency:    o.Currency,
	}
	for _, item := range o.Items {
		view.Items = append(view.Items, dto.OrderItemView{
			Title:     item.Title,
			SizeName:  item.SizeName,
			Framed:    item.Framed,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
		})
	}
	return view
}
