package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"printshop/internal/cart"
	"printshop/internal/client"
	"printshop/internal/dto"
	"printshop/internal/model"
	"printshop/internal/repository"
	"printshop/internal/shipping"
)

type CheckoutService interface {
	Begin(ctx context.Context, lines []cart.Line, country string) (*dto.CheckoutSessionResponse, error)
	RecalculateShipping(ctx context.Context, sessionID string, lines []cart.Line, country string) error
	Confirm(ctx context.Context, sessionID string, lines []cart.Line) (*model.Order, error)
	Order(ctx context.Context, orderID uint) (*model.Order, error)
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

type checkoutServiceImpl struct {
	db               *gorm.DB
	stripeClient     client.StripeClient
	orderRepo        repository.OrderRepository
	productRepo      repository.ProductRepository
	webhookEventRepo repository.WebhookEventRepository
	baseURL          string
	currency         string
}

func NewCheckoutService(
	db *gorm.DB,
	stripeClient client.StripeClient,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	webhookEventRepo repository.WebhookEventRepository,
	baseURL string,
	currency string,
) CheckoutService {
	return &checkoutServiceImpl{
		db:               db,
		stripeClient:     stripeClient,
		orderRepo:        orderRepo,
		productRepo:      productRepo,
		webhookEventRepo: webhookEventRepo,
		baseURL:          baseURL,
		currency:         currency,
	}
}

// Begin opens an embedded checkout session for the cart snapshot. The
// shipping option is provisional, priced for the session's current
// country; the payer's real address arrives later through the
// recalculation callback. Nothing durable is written here.
func (s *checkoutServiceImpl) Begin(ctx context.Context, lines []cart.Line, country string) (*dto.CheckoutSessionResponse, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	fee, label := shipping.Quote(lines, country)

	in := &client.CreateSessionInput{
		ShippingFee:   fee,
		ShippingLabel: label,
		Currency:      s.currency,
		ReturnURL:     s.baseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
	}
	for _, l := range lines {
		in.Lines = append(in.Lines, client.SessionLine{
			Name:       lineName(l),
			UnitAmount: l.UnitPrice.Shift(2).IntPart(),
			Quantity:   int64(l.Quantity),
		})
	}

	info, err := s.stripeClient.CreateCheckoutSession(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &dto.CheckoutSessionResponse{
		SessionID:    info.ID,
		ClientSecret: info.ClientSecret,
	}, nil
}

// RecalculateShipping reprices delivery for the address the payer
// entered inside the hosted flow and mutates the open session in place.
func (s *checkoutServiceImpl) RecalculateShipping(ctx context.Context, sessionID string, lines []cart.Line, country string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: missing checkout session id", ErrValidation)
	}

	fee, label := shipping.Quote(lines, country)

	if err := s.stripeClient.UpdateShippingOption(ctx, sessionID, fee, label); err != nil {
		return fmt.Errorf("update shipping option: %w", err)
	}
	return nil
}

// Confirm turns a paid checkout session into a durable order. It is
// idempotent on the session id: a second confirmation returns the
// existing order untouched. Customer and shipping data come from the
// provider session, never from the client.
func (s *checkoutServiceImpl) Confirm(ctx context.Context, sessionID string, lines []cart.Line) (*model.Order, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: missing checkout session id", ErrValidation)
	}

	existing, err := s.orderRepo.FindByPaymentRef(ctx, sessionID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrOrderNotFound) {
		return nil, fmt.Errorf("look up order: %w", err)
	}

	info, err := s.stripeClient.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get checkout session: %w", err)
	}
	if info.PaymentStatus != "paid" {
		return nil, ErrSessionUnpaid
	}

	order := &model.Order{
		Number:      uuid.NewString(),
		FirstName:   firstName(info.Customer.Name),
		LastName:    lastName(info.Customer.Name),
		Email:       info.Customer.Email,
		Address:     info.Customer.Address,
		PostalCode:  info.Customer.PostalCode,
		City:        info.Customer.City,
		Country:     info.Customer.Country,
		Paid:        true,
		PaymentRef:  info.ID,
		StripePID:   info.PaymentIntent,
		AmountTotal: info.AmountTotal,
		ShippingFee: info.ShippingFee,
		Currency:    s.currency,
	}

	items := make([]*model.OrderItem, 0, len(lines))
	for _, l := range lines {
		if _, err := s.productRepo.FindByID(ctx, l.Key.ProductID); err != nil {
			// The product vanished between add-to-cart and payment. The
			// payment already happened, so skip the line rather than
			// fail the order.
			zap.L().Warn("order item product no longer resolvable, skipping",
				zap.Uint("product_id", l.Key.ProductID),
				zap.String("payment_ref", sessionID),
				zap.Error(err))
			continue
		}
		items = append(items, &model.OrderItem{
			ProductID: l.Key.ProductID,
			Title:     l.Title,
			SizeName:  l.SizeName,
			Framed:    l.Key.Framed,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}
		for _, item := range items {
			item.OrderID = order.ID
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}
		return nil
	})
	if err != nil {
		// A concurrent confirmation may have won the unique payment_ref
		// race; surface the stored order in that case.
		if winner, findErr := s.orderRepo.FindByPaymentRef(ctx, sessionID); findErr == nil {
			return winner, nil
		}
		return nil, err
	}

	order.Items = make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		order.Items = append(order.Items, *item)
	}

	return order, nil
}

// Order looks up a recorded order, e.g. for the confirmation page.
func (s *checkoutServiceImpl) Order(ctx context.Context, orderID uint) (*model.Order, error) {
	return s.orderRepo.FindByID(ctx, orderID)
}

// HandleWebhook processes asynchronous provider notifications. Events
// are deduplicated by id. A completed session whose order has not been
// recorded yet returns an error so the provider redelivers after the
// browser-side confirmation has run.
func (s *checkoutServiceImpl) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	evt, err := s.stripeClient.VerifyWebhookEvent(payload, sigHeader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	processed, err := s.webhookEventRepo.Exists(ctx, evt.ID)
	if err != nil {
		return fmt.Errorf("check webhook event: %w", err)
	}
	if processed {
		return nil
	}

	if evt.Type == "checkout.session.completed" {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.orderRepo.MarkPaid(ctx, tx, evt.SessionID)
		})
		if err != nil {
			return fmt.Errorf("mark order paid: %w", err)
		}
	}

	return s.webhookEventRepo.MarkProcessed(ctx, evt.ID, evt.Type)
}

func lineName(l cart.Line) string {
	name := fmt.Sprintf("%s (%s)", l.Title, l.SizeName)
	if l.Key.Framed {
		name += " framed"
	}
	return name
}

// firstName and lastName split the provider's single name field on the
// last space. Mononyms land entirely in the first name.
func firstName(full string) string {
	full = strings.TrimSpace(full)
	if i := strings.LastIndex(full, " "); i >= 0 {
		return full[:i]
	}
	return full
}

func lastName(full string) string {
	full = strings.TrimSpace(full)
	if i := strings.LastIndex(full, " "); i >= 0 {
		return full[i+1:]
	}
	return ""
}
