package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printshop/internal/model"
)

type VariantRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, variantID uint) (*model.PrintVariant, error)
	List(ctx context.Context) ([]*model.PrintVariant, error)
}

type variantRepoImpl struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepoImpl{
		db: db,
	}
}

func (r *variantRepoImpl) Seed(ctx context.Context) error {
	variants := []model.PrintVariant{
		{SizeName: "A3", BasePrice: decimal.NewFromFloat(19.90), FrameAddonPrice: decimal.NewFromFloat(15.00)},
		{SizeName: "A2", BasePrice: decimal.NewFromFloat(29.90), FrameAddonPrice: decimal.NewFromFloat(20.00)},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&variants).Error
}

func (r *variantRepoImpl) FindByID(ctx context.Context, variantID uint) (*model.PrintVariant, error) {
	var variant model.PrintVariant
	err := r.db.WithContext(ctx).
		Where("id = ?", variantID).
		First(&variant).Error

	if err != nil {
		return nil, err
	}

	return &variant, nil
}

func (r *variantRepoImpl) List(ctx context.Context) ([]*model.PrintVariant, error) {
	var variants []*model.PrintVariant
	err := r.db.WithContext(ctx).
		Order("base_price ASC").
		Find(&variants).
		Error

	if err != nil {
		return nil, err
	}

	return variants, nil
}
