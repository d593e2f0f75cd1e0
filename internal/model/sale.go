package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment status lifecycle: PAID → VOID or PAID → REFUNDED. PARTIAL marks a
// sale whose payments did not cover the grand total at commit time.
const (
	PaymentStatusPaid     = "PAID"
	PaymentStatusPartial  = "PARTIAL"
	PaymentStatusRefunded = "REFUNDED"
	PaymentStatusVoid     = "VOID"
)

// Sale is one committed sales transaction. Created once; sale items are
// immutable afterwards except for QuantityReturned, which only the returns
// processor increments.
type Sale struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"sale_id"`
	InvoiceNumber  string          `gorm:"uniqueIndex;not null" json:"invoice_number"`
	StoreID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"store_id"`
	TerminalID     uuid.UUID       `gorm:"type:uuid;not null" json:"terminal_id"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null" json:"user_id"`
	SaleDate       time.Time       `gorm:"autoCreateTime;index" json:"sale_date"`
	SubTotal       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sub_total"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"discount_amount"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"tax_amount"`
	GrandTotal     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"grand_total"`
	AmountPaid     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount_paid"`
	ChangeGiven    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"change_given"`
	PaymentStatus  string          `gorm:"type:varchar(20);not null;default:'PAID';index" json:"payment_status"`
	Notes          *string         `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	SaleItems []SaleItem `gorm:"foreignKey:SaleID" json:"sale_items"`
	Payments  []Payment  `gorm:"foreignKey:SaleID" json:"payments"`
	Customer  *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

func (Sale) TableName() string { return "sales_transactions" }

// SaleItem invariant: 0 <= QuantityReturned <= Quantity, monotonically
// non-decreasing.
type SaleItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"sale_item_id"`
	SaleID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantID        *uuid.UUID      `gorm:"type:uuid" json:"variant_id"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	DiscountPerItem  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"discount_per_item"`
	TaxPerItem       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"tax_per_item"`
	LineTotal        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"line_total"`
	QuantityReturned int             `gorm:"not null;default:0" json:"quantity_returned"`

	Product *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

func (SaleItem) TableName() string { return "sale_items" }

// Payment records one tender against a sale.
type Payment struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"payment_id"`
	SaleID               uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	PaymentMethodID      uuid.UUID       `gorm:"type:uuid;not null" json:"payment_method_id"`
	Amount               decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	TransactionReference *string         `json:"transaction_reference"`
	PaymentDate          time.Time       `gorm:"autoCreateTime" json:"payment_date"`

	PaymentMethod *PaymentMethod `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
}

func (Payment) TableName() string { return "payments" }

// PaymentMethod is settings master data, referenced read-only.
type PaymentMethod struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"payment_method_id"`
	MethodName string    `gorm:"uniqueIndex;not null" json:"method_name"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
}

func (PaymentMethod) TableName() string { return "payment_methods" }

// POSTerminal identifies the till a sale was rung up on.
type POSTerminal struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"terminal_id"`
	StoreID      uuid.UUID `gorm:"type:uuid;not null;index" json:"store_id"`
	TerminalName string    `gorm:"not null" json:"terminal_name"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
}

func (POSTerminal) TableName() string { return "pos_terminals" }
