package repository

import (
	"context"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreRepository and SettingsRepository cover the read-only master data the
// core needs: stores, categories, brands, users, payment methods. All of it
// is owned by external collaborators.
type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error)
	List(ctx context.Context) ([]model.Store, error)
}

type storeRepo struct{ db *gorm.DB }

func NewStoreRepository(db *gorm.DB) StoreRepository { return &storeRepo{db: db} }

func (r *storeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	var s model.Store
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *storeRepo) List(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).Order("store_name ASC").Find(&stores).Error
	return stores, err
}

type SettingsRepository interface {
	ListPaymentMethods(ctx context.Context, activeOnly bool) ([]model.PaymentMethod, error)
	FindPaymentMethodByID(ctx context.Context, id uuid.UUID) (*model.PaymentMethod, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListBrands(ctx context.Context) ([]model.Brand, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) SettingsRepository { return &settingsRepo{db: db} }

func (r *settingsRepo) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]model.PaymentMethod, error) {
	var methods []model.PaymentMethod
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = true")
	}
	err := q.Order("method_name ASC").Find(&methods).Error
	return methods, err
}

func (r *settingsRepo) FindPaymentMethodByID(ctx context.Context, id uuid.UUID) (*model.PaymentMethod, error) {
	var m model.PaymentMethod
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *settingsRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Where("is_active = true").Order("category_name ASC").Find(&categories).Error
	return categories, err
}

func (r *settingsRepo) ListBrands(ctx context.Context) ([]model.Brand, error) {
	var brands []model.Brand
	err := r.db.WithContext(ctx).Where("is_active = true").Order("brand_name ASC").Find(&brands).Error
	return brands, err
}

func (r *settingsRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Where("is_active = true").Order("first_name ASC, last_name ASC").Find(&users).Error
	return users, err
}

func (r *settingsRepo) FindUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}
