package repository

import (
	"context"
	"time"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerRepository exposes the narrow loyalty-points surface the sale and
// returns processors touch. Customer CRUD itself lives with the customer
// collaborator.
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)

	// AddLoyaltyPointsTx applies a signed point delta, clamping the balance
	// at zero, and stamps last_purchase_date for positive deltas.
	AddLoyaltyPointsTx(tx *gorm.DB, id uuid.UUID, delta int) error
	CreateLoyaltyHistoryTx(tx *gorm.DB, h *model.LoyaltyPointsHistory) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) AddLoyaltyPointsTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	updates := map[string]interface{}{
		"total_loyalty_points": gorm.Expr("GREATEST(total_loyalty_points + ?, 0)", delta),
	}
	if delta > 0 {
		updates["last_purchase_date"] = time.Now()
	}
	return tx.Model(&model.Customer{}).Where("id = ?", id).Updates(updates).Error
}

func (r *customerRepo) CreateLoyaltyHistoryTx(tx *gorm.DB, h *model.LoyaltyPointsHistory) error {
	return tx.Create(h).Error
}
