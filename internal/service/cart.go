package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"printshop/internal/cart"
	"printshop/internal/dto"
	"printshop/internal/repository"
	"printshop/internal/shipping"
)

type CartService interface {
	AddLine(ctx context.Context, ct *cart.Cart, in *dto.AddLineInput) error
	Totals(ct *cart.Cart, country string) *dto.CartView
}

type cartServiceImpl struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
}

func NewCartService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
) CartService {
	return &cartServiceImpl{
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

// AddLine validates the product and variant, snapshots the unit price
// (base plus frame add-on when framed) and merges the line into the
// cart. An existing line keeps its original snapshot.
func (s *cartServiceImpl) AddLine(ctx context.Context, ct *cart.Cart, in *dto.AddLineInput) error {
	if in.VariantID == 0 {
		return fmt.Errorf("%w: print size is required", ErrValidation)
	}
	quantity := in.Quantity
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.productRepo.FindByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("find product: %w", err)
	}

	variant, err := s.variantRepo.FindByID(ctx, in.VariantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVariantNotFound
		}
		return fmt.Errorf("find print size: %w", err)
	}

	unitPrice := variant.BasePrice
	if in.Framed {
		unitPrice = unitPrice.Add(variant.FrameAddonPrice)
	}

	ct.Add(cart.Line{
		Key: cart.Key{
			ProductID: product.ID,
			VariantID: variant.ID,
			Framed:    in.Framed,
		},
		Title:     product.Title,
		SizeName:  variant.SizeName,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})

	return nil
}

// Totals projects the cart plus a destination country into display
// amounts. Changing the country can only move the fee and label, never
// the subtotal.
func (s *cartServiceImpl) Totals(ct *cart.Cart, country string) *dto.CartView {
	fee, label := shipping.Quote(ct.Lines, country)
	subtotal := shipping.Subtotal(ct.Lines)

	view := &dto.CartView{
		Lines:           make([]dto.CartLineView, 0, len(ct.Lines)),
		Count:           ct.Count(),
		Subtotal:        minorUnits(subtotal),
		ShippingCountry: country,
		ShippingFee:     minorUnits(fee),
		ShippingLabel:   label,
		Total:           minorUnits(subtotal + fee),
	}

	for _, l := range ct.Lines {
		view.Lines = append(view.Lines, dto.CartLineView{
			Key:       l.Key.String(),
			Title:     l.Title,
			SizeName:  l.SizeName,
			Framed:    l.Key.Framed,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
			LineTotal: l.Total().StringFixed(2),
		})
	}

	return view
}

func minorUnits(amount int64) string {
	return decimal.New(amount, -2).StringFixed(2)
}
