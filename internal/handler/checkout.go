package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"printshop/internal/cart"
	"printshop/internal/dto"
	"printshop/internal/service"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	store           *cart.Store
	homeCountry     string
}

func NewCheckoutHandler(checkoutService service.CheckoutService, store *cart.Store, homeCountry string) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		store:           store,
		homeCountry:     homeCountry,
	}
}

// CreateSession opens the embedded payment session for the current
// cart and hands the client secret to the storefront.
func (h *CheckoutHandler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	ct, err := h.store.Cart(c)
	if err != nil {
		return err
	}
	country := h.store.Country(c, h.homeCountry)

	resp, err := h.checkoutService.Begin(ctx, ct.Lines, country)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

// CalculateShipping is called from the hosted flow whenever the payer
// edits the shipping address. The contract is accept/reject, so every
// failure degrades to an explicit reject instead of an error status.
func (h *CheckoutHandler) CalculateShipping(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ShippingCallbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, &dto.ShippingCallbackResponse{
			Type:         "reject",
			ErrorMessage: "invalid request body",
		})
	}

	ct, err := h.store.Cart(c)
	if err != nil {
		ct = cart.New()
	}
	country := req.ShippingDetails.Address.Country

	if err := h.checkoutService.RecalculateShipping(ctx, req.CheckoutSessionID, ct.Lines, country); err != nil {
		zap.L().Warn("shipping recalculation rejected",
			zap.String("session_id", req.CheckoutSessionID),
			zap.String("country", country),
			zap.Error(err))
		return c.JSON(http.StatusOK, &dto.ShippingCallbackResponse{
			Type:         "reject",
			ErrorMessage: "shipping is not available for this address",
		})
	}

	if err := h.store.SetCountry(c, country); err != nil {
		zap.L().Warn("persist shipping country", zap.Error(err))
	}

	return c.JSON(http.StatusOK, &dto.ShippingCallbackResponse{Type: "accept"})
}

// Success is the return URL of the hosted flow. It finalizes the order
// and renders a small confirmation page.
func (h *CheckoutHandler) Success(c echo.Context) error {
	ctx := c.Request().Context()

	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing session id")
	}

	ct, err := h.store.Cart(c)
	if err != nil {
		return err
	}

	order, err := h.checkoutService.Confirm(ctx, sessionID, ct.Lines)
	if err != nil {
		return httpError(err)
	}

	h.finishSession(c, order.ID)

	html := fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="utf-8">
		<title>Order confirmed</title>
		<style>
			body {
				font-family: Arial, sans-serif;
				text-align: center;
				margin-top: 80px;
			}
			.order-number {
				font-size: 20px;
				font-weight: bold;
			}
		</style>
	</head>
	<body>
		<h2>Thank you for your order!</h2>
		<p>Your order number is <span class="order-number">%s</span>.</p>
		<p>A confirmation has been sent to %s.</p>
		<p><a href="/">Back to the shop</a></p>
	</body>
	</html>
	`, order.Number, order.Email)

	return c.HTML(http.StatusOK, html)
}

// Confirm is the JSON variant of the confirmation callback.
func (h *CheckoutHandler) Confirm(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ct, err := h.store.Cart(c)
	if err != nil {
		return err
	}

	order, err := h.checkoutService.Confirm(ctx, req.StripePID, ct.Lines)
	if err != nil {
		return httpError(err)
	}

	h.finishSession(c, order.ID)

	return c.JSON(http.StatusOK, orderView(order))
}

// LastOrder returns the order the session most recently completed, for
// the post-checkout "done" page.
func (h *CheckoutHandler) LastOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, ok := h.store.LastOrderID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no recent order")
	}

	order, err := h.checkoutService.Order(ctx, orderID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orderView(order))
}

// StripeWebhook handles asynchronous provider notifications. Signature
// failures are the caller's fault; everything else returns 500 so the
// provider redelivers.
func (h *CheckoutHandler) StripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	err = h.checkoutService.HandleWebhook(ctx, body, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.NoContent(http.StatusBadRequest)
		}
		return fmt.Errorf("handle webhook: %w", err)
	}

	return c.NoContent(http.StatusOK)
}

// finishSession clears the cart exactly once per recorded order and
// remembers the order for the confirmation page. Failures here are
// logged only; the order is already durable.
func (h *CheckoutHandler) finishSession(c echo.Context, orderID uint) {
	if err := h.store.ClearCart(c); err != nil {
		zap.L().Warn("clear cart after order", zap.Uint("order_id", orderID), zap.Error(err))
	}
	if err := h.store.SetLastOrderID(c, orderID); err != nil {
		zap.L().Warn("remember last order", zap.Uint("order_id", orderID), zap.Error(err))
	}
}
