package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"printshop/internal/dto"
	"printshop/internal/model"
	"printshop/internal/repository"
)

// gridRowSize is the number of slots per orientation row on the shop
// index. Short rows are nil-padded, long ones truncated.
const gridRowSize = 7

type CatalogService interface {
	ShopGrid(ctx context.Context) (*dto.ShopGridView, error)
	ProductDetail(ctx context.Context, slug string) (*dto.ProductDetailView, error)
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

func (s *catalogServiceImpl) ShopGrid(ctx context.Context) (*dto.ShopGridView, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	byOrientation := map[string][]*dto.ProductView{}
	for _, p := range products {
		byOrientation[p.Orientation] = append(byOrientation[p.Orientation], productView(p))
	}

	slots := make([]*dto.ProductView, 0, 3*gridRowSize)
	for _, orientation := range []string{model.OrientationHorizontal, model.OrientationVertical, model.OrientationSquared} {
		slots = append(slots, padRow(byOrientation[orientation])...)
	}

	variants, err := s.listVariantViews(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ShopGridView{
		GridSlots: slots,
		Variants:  variants,
	}, nil
}

func (s *catalogServiceImpl) ProductDetail(ctx context.Context, slug string) (*dto.ProductDetailView, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	related, err := s.productRepo.ListRelated(ctx, product.ID, 3)
	if err != nil {
		return nil, fmt.Errorf("list related products: %w", err)
	}

	variants, err := s.listVariantViews(ctx)
	if err != nil {
		return nil, err
	}

	view := &dto.ProductDetailView{
		Product:  *productView(product),
		Variants: variants,
	}
	for _, p := range related {
		view.Related = append(view.Related, *productView(p))
	}

	return view, nil
}

func (s *catalogServiceImpl) listVariantViews(ctx context.Context) ([]dto.VariantView, error) {
	variants, err := s.variantRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list print sizes: %w", err)
	}

	views := make([]dto.VariantView, 0, len(variants))
	for _, v := range variants {
		views = append(views, dto.VariantView{
			ID:              v.ID,
			SizeName:        v.SizeName,
			BasePrice:       v.BasePrice.StringFixed(2),
			FrameAddonPrice: v.FrameAddonPrice.StringFixed(2),
		})
	}
	return views, nil
}

func padRow(row []*dto.ProductView) []*dto.ProductView {
	if len(row) > gridRowSize {
		row = row[:gridRowSize]
	}
	for len(row) < gridRowSize {
		row = append(row, nil)
	}
	return row
}

func productView(p *model.Product) *dto.ProductView {
	return &dto.ProductView{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Orientation: p.Orientation,
		ImageURL:    p.ImageURL,
		Description: p.Description,
	}
}
