package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement types. Quantity sign convention: negative = outflow, positive = inflow.
const (
	MovementSale        = "SALE"
	MovementReturn      = "RETURN"
	MovementPurchase    = "PURCHASE"
	MovementAdjustment  = "ADJUSTMENT"
	MovementTransferOut = "TRANSFER_OUT"
	MovementTransferIn  = "TRANSFER_IN"
	MovementWaste       = "WASTE"
)

// InventoryMovement is an immutable, append-only ledger entry explaining one
// stock change. Created only as a side effect of a successful mutation; never
// updated or deleted in place (audit requirement).
type InventoryMovement struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"movement_id"`
	InventoryID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"inventory_id"`
	ProductID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantID    *uuid.UUID `gorm:"type:uuid" json:"variant_id"`
	StoreID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"store_id"`
	MovementType string     `gorm:"type:varchar(20);not null;index" json:"movement_type"`
	Quantity     int        `gorm:"not null" json:"quantity"`
	ReferenceID  *uuid.UUID `gorm:"type:uuid" json:"reference_id"` // sale_id, return_id, transfer_log_id
	MovementDate time.Time  `gorm:"autoCreateTime;index" json:"movement_date"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	Notes        string     `json:"notes"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Store   *Store   `gorm:"foreignKey:StoreID" json:"store,omitempty"`
}

func (InventoryMovement) TableName() string { return "inventory_movements" }

// TransferLog links the TRANSFER_OUT/TRANSFER_IN pair produced by a single
// transfer request. Immutable after creation.
type TransferLog struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"transfer_log_id"`
	ProductID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantID     *uuid.UUID `gorm:"type:uuid" json:"variant_id"`
	FromStoreID   uuid.UUID  `gorm:"type:uuid;not null" json:"from_store_id"`
	ToStoreID     uuid.UUID  `gorm:"type:uuid;not null" json:"to_store_id"`
	OutMovementID uuid.UUID  `gorm:"type:uuid;not null" json:"out_movement_id"`
	InMovementID  uuid.UUID  `gorm:"type:uuid;not null" json:"in_movement_id"`
	Quantity      int        `gorm:"not null" json:"quantity"`
	Notes         string     `json:"notes"`
	TransferredBy uuid.UUID  `gorm:"type:uuid;not null" json:"transferred_by"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (TransferLog) TableName() string { return "transfer_logs" }
