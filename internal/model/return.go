package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Return records one return action against a sale. Immutable after creation;
// RefundAmount equals the sum of quantity_returned x refund_per_item over its
// items.
type Return struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"return_id"`
	SaleID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ReturnDate       time.Time       `gorm:"autoCreateTime;index" json:"return_date"`
	ReturnedByUserID uuid.UUID       `gorm:"type:uuid;not null" json:"returned_by_user_id"`
	Reason           string          `json:"reason"`
	RefundAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"refund_amount"`
	RefundMethodID   uuid.UUID       `gorm:"type:uuid;not null" json:"refund_method_id"`
	Notes            *string         `json:"notes"`

	Sale         *Sale          `gorm:"foreignKey:SaleID" json:"sale,omitempty"`
	ReturnItems  []ReturnItem   `gorm:"foreignKey:ReturnID" json:"return_items"`
	RefundMethod *PaymentMethod `gorm:"foreignKey:RefundMethodID" json:"refund_method,omitempty"`
}

func (Return) TableName() string { return "returns" }

type ReturnItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"return_item_id"`
	ReturnID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"return_id"`
	SaleItemID       uuid.UUID       `gorm:"type:uuid;not null" json:"sale_item_id"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	VariantID        *uuid.UUID      `gorm:"type:uuid" json:"variant_id"`
	QuantityReturned int             `gorm:"not null" json:"quantity_returned"`
	RefundPerItem    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"refund_per_item"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (ReturnItem) TableName() string { return "return_items" }
