package repository

import (
	"context"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository gives the core read-only access to catalog master data.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindVariantByID(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error)
	List(ctx context.Context) ([]model.Product, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("TaxCategory").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindVariantByID(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("is_active = true").Order("product_name ASC").Find(&products).Error
	return products, err
}
