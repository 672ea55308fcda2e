package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/cart"
	"printshop/internal/client"
	"printshop/internal/repository"
)

const testBaseURL = "http://localhost:8080"

func testLines() []cart.Line {
	return []cart.Line{
		{
			Key:       cart.Key{ProductID: 16, VariantID: 2, Framed: false},
			Title:     "Harbour Lights",
			SizeName:  "A3",
			Quantity:  2,
			UnitPrice: decimal.RequireFromString("12.00"),
		},
	}
}

func newCheckoutService(t *testing.T, stripe *mockStripeClient, products *mockProductRepo, webhooks *mockWebhookEventRepo) (CheckoutService, repository.OrderRepository) {
	t.Helper()
	db := newTestDB(t)
	orderRepo := repository.NewOrderRepository(db)
	svc := NewCheckoutService(db, stripe, orderRepo, products, webhooks, testBaseURL, "eur")
	return svc, orderRepo
}

func TestBegin_EmptyCart(t *testing.T) {
	stripe := &mockStripeClient{}
	products, _ := testCatalog()
	svc, _ := newCheckoutService(t, stripe, products, &mockWebhookEventRepo{})

	_, err := svc.Begin(context.Background(), nil, "AT")

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, stripe.createInput, "no provider call for an empty cart")
}

func TestBegin_BuildsSessionFromSnapshot(t *testing.T) {
	stripe := &mockStripeClient{
		createInfo: &client.CheckoutSessionInfo{ID: "cs_123", ClientSecret: "cs_123_secret"},
	}
	products, _ := testCatalog()
	svc, _ := newCheckoutService(t, stripe, products, &mockWebhookEventRepo{})

	resp, err := svc.Begin(context.Background(), testLines(), "AT")

	require.NoError(t, err)
	assert.Equal(t, "cs_123", resp.SessionID)
	assert.Equal(t, "cs_123_secret", resp.ClientSecret)

	in := stripe.createInput
	require.NotNil(t, in)
	require.Len(t, in.Lines, 1)
	assert.Equal(t, "Harbour Lights (A3)", in.Lines[0].Name)
	assert.Equal(t, int64(1200), in.Lines[0].UnitAmount)
	assert.Equal(t, int64(2), in.Lines[0].Quantity)
	assert.Equal(t, int64(490), in.ShippingFee)
	assert.Equal(t, "European Union", in.ShippingLabel)
	assert.Equal(t, "eur", in.Currency)
	assert.Contains(t, in.ReturnURL, "{CHECKOUT_SESSION_ID}")
}

func TestBegin_ProviderFailurePreservesNothing(t *testing.T) {
	stripe := &mockStripeClient{createErr: errors.New("provider down")}
	products, _ := testCatalog()
	svc, orderRepo := newCheckoutService(t, stripe, products, &mockWebhookEventRepo{})

	_, err := svc.Begin(context.Background(), testLines(), "AT")

	require.Error(t, err)
	_, err = orderRepo.FindByPaymentRef(context.Background(), "cs_123")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestRecalculateShipping_UpdatesSessionInPlace(t *testing.T) {
	stripe := &mockStripeClient{}
	products, _ := testCatalog()
	svc, _ := newCheckoutService(t, stripe, products, &mockWebhookEventRepo{})

	err := svc.RecalculateShipping(context.Background(), "cs_123", testLines(), "CH")

	require.NoError(t, err)
	require.Len(t, stripe.updates, 1)
	assert.Equal(t, "cs_123", stripe.updates[0].sessionID)
	assert.Equal(t, int64(990), stripe.updates[0].fee)
	assert.Equal(t, "Europe (non-EU)", stripe.updates[0].label)
}

func TestRecalculateShipping_MissingSessionID(t *testing.T) {
	stripe := &mockStripeClient{}
	products, _ := testCatalog()
	svc, _ := newCheckoutService(t, stripe, products, &mockWebhookEventRepo{})

	err := svc.RecalculateShipping(context.Background(), "", testLines(), "CH")

	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, stripe.updates)
}

func paidSession(id string) *client.CheckoutSessionInfo {
	return &client.CheckoutSessionInfo{
		ID:            id,
		Status:        "complete",
		PaymentStatus: "paid",
		PaymentIntent: "pi_456",
		AmountTotal:   2890,
		ShippingFee:   490,
		Customer: client.CustomerDetails{
			Name:       "Erika Mustermann",
			Email:      "erika@example.com",
			Address:    "Musterstr. 1",
			PostalCode: "1010",
			City:       "Wien",
			Country:    "AT",
		},
	}
}

func TestConfirm_CreatesOrderOnce(t *testing.T) {
	stripe := &mockStripeClient{getInfo: paidSession("cs_123")}
	products, _ := testCatalog()
	svc, orderRepo := newCheckoutService(t, stripe, products, &mockWebhookEventRepo{})

	order, err := svc.Confirm(context.Background(), "cs_123", testLines())
	require.NoError(t, err)

	assert.True(t, order.Paid)
	assert.Equal(t, "cs_123", order.PaymentRef)
	assert.Equal(t, "pi_456", order.StripePID)
	assert.Equal(t, "Erika", order.FirstName)
	assert.Equal(t, "Mustermann", order.LastName)
	assert.Equal(t, "AT", order.Country)
	assert.Equal(t, int64(2890), order.AmountTotal)
	assert.Equal(t, int64(490), order.ShippingFee)
	assert.NotEmpty(t, order.Number)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Harbour Lights", order.Items[0].Title)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.RequireFromString("12.00")))

	stored, err := orderRepo.FindByPaymentRef(context.Background(), "cs_123")
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.ID)
	assert.Len(t, stored.Items, 1)
}

func TestConfirm_IsIdempotent(t *testing.T) {
	stripe := &mockStripeClient{getInfo: paidSession("cs_123")}
	products, _ := testCatalog()
	svc, _ := newCheckoutService(t, stripe, products, &mockWebhookEventRepo{})

	first, err := svc.Confirm(context.Background(), "cs_123", testLines())
	require.NoError(t, err)

	callsAfterFirst := stripe.getCalls
	second, err := svc.Confirm(context.Background(), "cs_123", testLines())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Items, 1, "no duplicate item rows")
	assert.Equal(t, callsAfterFirst, stripe.getCalls, "duplicate confirmation must not hit the provider")
}

func TestConfirm_UnpaidSession(t *testing.T) {
	info := paidSession("cs_123")
	info.PaymentStatus = "unpaid"
	stripe := &mockStripeClient{getInfo: info}
	products, _ := testCatalog()
	svc, orderRepo := newCheckoutService(t, stripe, products, &mockWebhookEventRepo{})

	_, err := svc.Confirm(context.Background(), "cs_123", testLines())

	assert.ErrorIs(t, err, ErrSessionUnpaid)
	_, err = orderRepo.FindByPaymentRef(context.Background(), "cs_123")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestConfirm_SkipsVanishedProducts(t *testing.T) {
	stripe := &mockStripeClient{getInfo: paidSession("cs_123")}
	products, _ := testCatalog()
	svc, _ := newCheckoutService(t, stripe, products, &mockWebhookEventRepo{})

	lines := append(testLines(), cart.Line{
		Key:       cart.Key{ProductID: 999, VariantID: 2, Framed: true},
		Title:     "Deleted Print",
		SizeName:  "A2",
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("49.90"),
	})

	order, err := svc.Confirm(context.Background(), "cs_123", lines)

	require.NoError(t, err, "a vanished product must not fail the order")
	require.Len(t, order.Items, 1)
	assert.Equal(t, uint(16), order.Items[0].ProductID)
}

func TestHandleWebhook_MarksOrderPaid(t *testing.T) {
	stripe := &mockStripeClient{
		getInfo:   paidSession("cs_123"),
		verifyEvt: &client.WebhookEvent{ID: "evt_1", Type: "checkout.session.completed", SessionID: "cs_123"},
	}
	products, _ := testCatalog()
	webhooks := &mockWebhookEventRepo{}
	svc, _ := newCheckoutService(t, stripe, products, webhooks)

	_, err := svc.Confirm(context.Background(), "cs_123", testLines())
	require.NoError(t, err)

	err = svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	assert.Equal(t, []string{"evt_1"}, webhooks.processed)
}

func TestHandleWebhook_DuplicateDelivery(t *testing.T) {
	stripe := &mockStripeClient{
		verifyEvt: &client.WebhookEvent{ID: "evt_1", Type: "checkout.session.completed", SessionID: "cs_123"},
	}
	products, _ := testCatalog()
	webhooks := &mockWebhookEventRepo{exists: true}
	svc, _ := newCheckoutService(t, stripe, products, webhooks)

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	assert.Empty(t, webhooks.processed, "already-processed events are not re-recorded")
}

func TestHandleWebhook_OrderNotRecordedYet(t *testing.T) {
	stripe := &mockStripeClient{
		verifyEvt: &client.WebhookEvent{ID: "evt_1", Type: "checkout.session.completed", SessionID: "cs_unknown"},
	}
	products, _ := testCatalog()
	webhooks := &mockWebhookEventRepo{}
	svc, _ := newCheckoutService(t, stripe, products, webhooks)

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

	require.Error(t, err, "provider must redeliver until the order exists")
	assert.Empty(t, webhooks.processed)
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	stripe := &mockStripeClient{verifyErr: errors.New("bad signature")}
	products, _ := testCatalog()
	svc, _ := newCheckoutService(t, stripe, products, &mockWebhookEventRepo{})

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

	assert.ErrorIs(t, err, ErrValidation)
}
