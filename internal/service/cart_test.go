package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/cart"
	"printshop/internal/dto"
	"printshop/internal/model"
)

func testCatalog() (*mockProductRepo, *mockVariantRepo) {
	products := &mockProductRepo{products: []*model.Product{
		{ID: 16, Title: "Harbour Lights", Slug: "harbour-lights", Orientation: model.OrientationHorizontal},
	}}
	variants := &mockVariantRepo{variants: []*model.PrintVariant{
		{ID: 2, SizeName: "A3", BasePrice: decimal.RequireFromString("12.00"), FrameAddonPrice: decimal.RequireFromString("15.00")},
		{ID: 3, SizeName: "A2", BasePrice: decimal.RequireFromString("29.90"), FrameAddonPrice: decimal.RequireFromString("20.00")},
	}}
	return products, variants
}

func TestAddLine_SnapshotsBasePrice(t *testing.T) {
	products, variants := testCatalog()
	svc := NewCartService(products, variants)
	ct := cart.New()

	err := svc.AddLine(context.Background(), ct, &dto.AddLineInput{
		ProductID: 16, VariantID: 2, Quantity: 2,
	})

	require.NoError(t, err)
	require.Len(t, ct.Lines, 1)
	got := ct.Lines[0]
	assert.Equal(t, "Harbour Lights", got.Title)
	assert.Equal(t, "A3", got.SizeName)
	assert.Equal(t, 2, got.Quantity)
	assert.True(t, got.UnitPrice.Equal(decimal.RequireFromString("12.00")))
}

func TestAddLine_FramedAddsFrameAddon(t *testing.T) {
	products, variants := testCatalog()
	svc := NewCartService(products, variants)
	ct := cart.New()

	err := svc.AddLine(context.Background(), ct, &dto.AddLineInput{
		ProductID: 16, VariantID: 2, Framed: true, Quantity: 1,
	})

	require.NoError(t, err)
	require.Len(t, ct.Lines, 1)
	assert.True(t, ct.Lines[0].UnitPrice.Equal(decimal.RequireFromString("27.00")),
		"unit price must be base plus frame add-on")
}

func TestAddLine_SecondAddKeepsFirstPrice(t *testing.T) {
	products, variants := testCatalog()
	svc := NewCartService(products, variants)
	ct := cart.New()
	in := &dto.AddLineInput{ProductID: 16, VariantID: 2, Quantity: 2}

	require.NoError(t, svc.AddLine(context.Background(), ct, in))

	// Catalog price change between the two adds.
	variants.variants[0].BasePrice = decimal.RequireFromString("99.00")
	in.Quantity = 3
	require.NoError(t, svc.AddLine(context.Background(), ct, in))

	require.Len(t, ct.Lines, 1)
	assert.Equal(t, 5, ct.Lines[0].Quantity)
	assert.True(t, ct.Lines[0].UnitPrice.Equal(decimal.RequireFromString("12.00")))
}

func TestAddLine_UnknownProduct(t *testing.T) {
	products, variants := testCatalog()
	svc := NewCartService(products, variants)
	ct := cart.New()

	err := svc.AddLine(context.Background(), ct, &dto.AddLineInput{
		ProductID: 999, VariantID: 2, Quantity: 1,
	})

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.True(t, ct.IsEmpty(), "cart must be unchanged")
}

func TestAddLine_UnknownVariant(t *testing.T) {
	products, variants := testCatalog()
	svc := NewCartService(products, variants)
	ct := cart.New()

	err := svc.AddLine(context.Background(), ct, &dto.AddLineInput{
		ProductID: 16, VariantID: 999, Quantity: 1,
	})

	assert.ErrorIs(t, err, ErrVariantNotFound)
	assert.True(t, ct.IsEmpty(), "cart must be unchanged")
}

func TestAddLine_MissingVariantIsValidationError(t *testing.T) {
	products, variants := testCatalog()
	svc := NewCartService(products, variants)
	ct := cart.New()

	err := svc.AddLine(context.Background(), ct, &dto.AddLineInput{
		ProductID: 16, Quantity: 1,
	})

	assert.ErrorIs(t, err, ErrValidation)
	assert.True(t, ct.IsEmpty())
}

func TestAddLine_NonPositiveQuantityDefaultsToOne(t *testing.T) {
	products, variants := testCatalog()
	svc := NewCartService(products, variants)
	ct := cart.New()

	err := svc.AddLine(context.Background(), ct, &dto.AddLineInput{
		ProductID: 16, VariantID: 2, Quantity: -4,
	})

	require.NoError(t, err)
	require.Len(t, ct.Lines, 1)
	assert.Equal(t, 1, ct.Lines[0].Quantity)
}

func TestTotals(t *testing.T) {
	products, variants := testCatalog()
	svc := NewCartService(products, variants)
	ct := cart.New()
	require.NoError(t, svc.AddLine(context.Background(), ct, &dto.AddLineInput{
		ProductID: 16, VariantID: 2, Quantity: 2,
	}))

	view := svc.Totals(ct, "AT")

	assert.Equal(t, "24.00", view.Subtotal)
	assert.Equal(t, "4.90", view.ShippingFee)
	assert.Equal(t, "European Union", view.ShippingLabel)
	assert.Equal(t, "28.90", view.Total)
	assert.Equal(t, 2, view.Count)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "16:2:plain", view.Lines[0].Key)
	assert.Equal(t, "24.00", view.Lines[0].LineTotal)
}

func TestTotals_CountryOnlyMovesShipping(t *testing.T) {
	products, variants := testCatalog()
	svc := NewCartService(products, variants)
	ct := cart.New()
	require.NoError(t, svc.AddLine(context.Background(), ct, &dto.AddLineInput{
		ProductID: 16, VariantID: 2, Quantity: 2,
	}))

	at := svc.Totals(ct, "AT")
	us := svc.Totals(ct, "US")

	assert.Equal(t, at.Subtotal, us.Subtotal)
	assert.NotEqual(t, at.ShippingFee, us.ShippingFee)
}
