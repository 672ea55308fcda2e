package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printshop/internal/model"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, productID uint) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	List(ctx context.Context) ([]*model.Product, error)
	ListRelated(ctx context.Context, excludeID uint, limit int) ([]*model.Product, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Seed(ctx context.Context) error {
	products := []model.Product{
		{Title: "Harbour Lights", Slug: "harbour-lights", Orientation: model.OrientationHorizontal, Description: "Long exposure of the old harbour at dusk"},
		{Title: "Pine Ridge", Slug: "pine-ridge", Orientation: model.OrientationVertical, Description: "Morning fog over the ridge line"},
		{Title: "Cobblestone", Slug: "cobblestone", Orientation: model.OrientationSquared, Description: "Rain on the old town square"},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) List(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) ListRelated(ctx context.Context, excludeID uint, limit int) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id <> ?", excludeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}
