package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is owned by the customer collaborator. The sale processor only
// touches loyalty points (earned on sale, reversed on void/return).
type Customer struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"customer_id"`
	FirstName          string     `gorm:"not null" json:"first_name"`
	LastName           string     `gorm:"not null" json:"last_name"`
	PhoneNumber        *string    `gorm:"index" json:"phone_number"`
	Email              *string    `json:"email"`
	TotalLoyaltyPoints int        `gorm:"not null;default:0" json:"total_loyalty_points"`
	LastPurchaseDate   *time.Time `json:"last_purchase_date"`
	IsActive           bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// LoyaltyPointsHistory is an append-only audit of loyalty point changes,
// positive for awards and negative for reversals.
type LoyaltyPointsHistory struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CustomerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	SaleID       uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	PointsChange int       `gorm:"not null" json:"points_change"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

func (LoyaltyPointsHistory) TableName() string { return "loyalty_points_history" }
