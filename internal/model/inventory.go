package model

import (
	"time"

	"github.com/google/uuid"
)

// Inventory is the unique stock counter for a (store, product, variant)
// triple. Exactly one record per key; creation with an existing key is a
// conflict. CurrentStock is mutated exclusively through ledger movements and
// always equals the running sum of all signed movement quantities applied
// since creation.
type Inventory struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"inventory_id"`
	ProductID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_inventory_key,unique" json:"product_id"`
	VariantID         *uuid.UUID `gorm:"type:uuid;index:idx_inventory_key,unique" json:"variant_id"`
	StoreID           uuid.UUID  `gorm:"type:uuid;not null;index:idx_inventory_key,unique" json:"store_id"`
	CurrentStock      int        `gorm:"not null;default:0" json:"current_stock"`
	LastReorderDate   *time.Time `json:"last_reorder_date"`
	LastStockTakeDate *time.Time `json:"last_stock_take_date"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Product *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
	Store   *Store          `gorm:"foreignKey:StoreID" json:"store,omitempty"`
}

func (Inventory) TableName() string { return "inventory" }
