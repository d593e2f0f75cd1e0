package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is catalog master data. Owned by the catalog collaborator; the
// ledger core reads it for pricing, tax resolution, and reorder thresholds.
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"product_id"`
	ProductCode   string          `gorm:"uniqueIndex;not null" json:"product_code"`
	ProductName   string          `gorm:"index;not null" json:"product_name"`
	Description   *string         `json:"description"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	BrandID       *uuid.UUID      `gorm:"type:uuid;index" json:"brand_id"`
	SupplierID    *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id"`
	BasePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	RetailPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"retail_price"`
	TaxCategoryID *uuid.UUID      `gorm:"type:uuid" json:"tax_category_id"`
	Barcode       *string         `gorm:"index" json:"barcode"`
	UnitOfMeasure string          `gorm:"not null;default:'unit'" json:"unit_of_measure"`
	ReorderLevel  int             `gorm:"not null;default:0" json:"reorder_level"`
	MaxStockLevel *int            `json:"max_stock_level"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	TaxCategory *TaxCategory `gorm:"foreignKey:TaxCategoryID" json:"tax_category,omitempty"`
}

func (Product) TableName() string { return "products" }

// ProductVariant is a size/color variation of a product. When a variant has
// its own retail price it overrides the parent product's.
type ProductVariant struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"variant_id"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id"`
	Size        *string          `json:"size"`
	Color       *string          `json:"color"`
	SKUSuffix   *string          `gorm:"column:sku_suffix" json:"sku_suffix"`
	Barcode     *string          `gorm:"index" json:"barcode"`
	RetailPrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"retail_price"`
	BasePrice   *decimal.Decimal `gorm:"type:decimal(10,2)" json:"base_price"`
	IsActive    bool             `gorm:"not null;default:true" json:"is_active"`
}

func (ProductVariant) TableName() string { return "product_variants" }

// TaxCategory holds the percentage rate applied to taxable line amounts.
type TaxCategory struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"tax_category_id"`
	Name     string          `gorm:"not null" json:"name"`
	TaxRate  decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"tax_rate"`
	IsActive bool            `gorm:"not null;default:true" json:"is_active"`
}

func (TaxCategory) TableName() string { return "tax_categories" }

type Category struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"category_id"`
	CategoryName string    `gorm:"uniqueIndex;not null" json:"category_name"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
}

func (Category) TableName() string { return "categories" }

type Brand struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"brand_id"`
	BrandName string    `gorm:"uniqueIndex;not null" json:"brand_name"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
}

func (Brand) TableName() string { return "brands" }
