package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"printshop/internal/config"
)

// callTimeout bounds every provider call. The shipping recalculation
// hook in particular must answer before the hosted flow gives up.
const callTimeout = 15 * time.Second

// StripeClient wraps the hosted-checkout calls the orchestrator needs.
// Everything else about the provider stays behind this interface.
type StripeClient interface {
	CreateCheckoutSession(ctx context.Context, in *CreateSessionInput) (*CheckoutSessionInfo, error)
	UpdateShippingOption(ctx context.Context, sessionID string, fee int64, label string) error
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSessionInfo, error)
	VerifyWebhookEvent(payload []byte, sigHeader string) (*WebhookEvent, error)
}

// WebhookEvent is the slice of a provider event the orchestrator cares
// about. SessionID is set for checkout.session.* events.
type WebhookEvent struct {
	ID        string
	Type      string
	SessionID string
}

type SessionLine struct {
	Name       string
	UnitAmount int64 // minor units
	Quantity   int64
}

type CreateSessionInput struct {
	Lines         []SessionLine
	ShippingFee   int64
	ShippingLabel string
	Currency      string
	ReturnURL     string
}

type CustomerDetails struct {
	Name       string
	Email      string
	Address    string
	PostalCode string
	City       string
	Country    string
}

type CheckoutSessionInfo struct {
	ID            string
	ClientSecret  string
	Status        string
	PaymentStatus string
	PaymentIntent string
	AmountTotal   int64
	ShippingFee   int64
	Customer      CustomerDetails
}

type stripeClientImpl struct {
	currency      string
	webhookSecret string
}

func NewStripeClient(cfg *config.Stripe, currency string) StripeClient {
	stripe.Key = cfg.SecretKey
	return &stripeClientImpl{
		currency:      currency,
		webhookSecret: cfg.WebhookSecret,
	}
}

func (c *stripeClientImpl) VerifyWebhookEvent(payload []byte, sigHeader string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, c.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("stripe verify webhook signature: %w", err)
	}

	evt := &WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}
	if strings.HasPrefix(evt.Type, "checkout.session.") {
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode webhook session: %w", err)
		}
		evt.SessionID = s.ID
	}
	return evt, nil
}

func (c *stripeClientImpl) CreateCheckoutSession(ctx context.Context, in *CreateSessionInput) (*CheckoutSessionInfo, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, len(in.Lines))
	for i, line := range in.Lines {
		lineItems[i] = &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(in.Currency),
				UnitAmount: stripe.Int64(line.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
			},
			Quantity: stripe.Int64(line.Quantity),
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:            stripe.String(string(stripe.CheckoutSessionModePayment)),
		UIMode:          stripe.String(string(stripe.CheckoutSessionUIModeEmbedded)),
		ReturnURL:       stripe.String(in.ReturnURL),
		LineItems:       lineItems,
		ShippingOptions: shippingOptionParams(in.ShippingFee, in.ShippingLabel, in.Currency),
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}

	return sessionInfo(s), nil
}

// UpdateShippingOption replaces the shipping option on an open session
// in place. The session is never recreated.
func (c *stripeClientImpl) UpdateShippingOption(ctx context.Context, sessionID string, fee int64, label string) error {
	params := &stripe.CheckoutSessionParams{
		ShippingOptions: shippingOptionParams(fee, label, c.currency),
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	params.Context = ctx

	if _, err := session.Update(sessionID, params); err != nil {
		return fmt.Errorf("stripe update checkout session: %w", err)
	}
	return nil
}

func (c *stripeClientImpl) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSessionInfo, error) {
	params := &stripe.CheckoutSessionParams{}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	params.Context = ctx

	s, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe get checkout session: %w", err)
	}
	return sessionInfo(s), nil
}

func shippingOptionParams(fee int64, label, currency string) []*stripe.CheckoutSessionShippingOptionParams {
	return []*stripe.CheckoutSessionShippingOptionParams{
		{
			ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
				Type:        stripe.String("fixed_amount"),
				DisplayName: stripe.String(label),
				FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
					Amount:   stripe.Int64(fee),
					Currency: stripe.String(currency),
				},
			},
		},
	}
}

func sessionInfo(s *stripe.CheckoutSession) *CheckoutSessionInfo {
	info := &CheckoutSessionInfo{
		ID:            s.ID,
		ClientSecret:  s.ClientSecret,
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
	}
	if s.PaymentIntent != nil {
		info.PaymentIntent = s.PaymentIntent.ID
	}
	if s.ShippingCost != nil {
		info.ShippingFee = s.ShippingCost.AmountTotal
	}
	if cd := s.CustomerDetails; cd != nil {
		info.Customer.Name = cd.Name
		info.Customer.Email = cd.Email
		if cd.Address != nil {
			info.Customer.Address = cd.Address.Line1
			info.Customer.PostalCode = cd.Address.PostalCode
			info.Customer.City = cd.Address.City
			info.Customer.Country = cd.Address.Country
		}
	}
	return info
}
