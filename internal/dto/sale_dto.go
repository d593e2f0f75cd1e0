package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID       string          `json:"product_id" validate:"required,uuid"`
	VariantID       *string         `json:"variant_id" validate:"omitempty,uuid"`
	Quantity        int             `json:"quantity"   validate:"required,min=1"`
	UnitPrice       decimal.Decimal `json:"unit_price" validate:"min=0"`
	DiscountPerItem decimal.Decimal `json:"discount_per_item" validate:"min=0"`
}

type PaymentRequest struct {
	PaymentMethodID      string          `json:"payment_method_id" validate:"required,uuid"`
	Amount               decimal.Decimal `json:"amount" validate:"required"`
	TransactionReference *string         `json:"transaction_reference"`
}

type CreateSaleRequest struct {
	StoreID        string            `json:"store_id"    validate:"required,uuid"`
	TerminalID     string            `json:"terminal_id" validate:"required,uuid"`
	CustomerID     *string           `json:"customer_id" validate:"omitempty,uuid"`
	DiscountAmount decimal.Decimal   `json:"discount_amount" validate:"min=0"`
	Notes          *string           `json:"notes"`
	SaleItems      []SaleItemRequest `json:"sale_items" validate:"required,min=1,dive"`
	Payments       []PaymentRequest  `json:"payments"   validate:"required,min=1,dive"`
}

type VoidSaleRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	StoreID       string `form:"store_id"       validate:"omitempty,uuid"`
	CustomerID    string `form:"customer_id"    validate:"omitempty,uuid"`
	PaymentStatus string `form:"payment_status" validate:"omitempty,oneof=PAID PARTIAL REFUNDED VOID"`
	StartDate     string `form:"start_date"` // YYYY-MM-DD
	EndDate       string `form:"end_date"`
	Search        string `form:"search"` // matches invoice number
	Page          int    `form:"page,default=1"    validate:"min=1"`
	Limit         int    `form:"limit,default=50"  validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	SaleItemID       string          `json:"sale_item_id"`
	ProductID        string          `json:"product_id"`
	VariantID        *string         `json:"variant_id"`
	ProductName      string          `json:"product_name"`
	ProductCode      string          `json:"product_code"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	DiscountPerItem  decimal.Decimal `json:"discount_per_item"`
	TaxPerItem       decimal.Decimal `json:"tax_per_item"`
	LineTotal        decimal.Decimal `json:"line_total"`
	QuantityReturned int             `json:"quantity_returned"`
}

type PaymentResponse struct {
	PaymentMethodID   string          `json:"payment_method_id"`
	PaymentMethodName string          `json:"payment_method_name"`
	Amount            decimal.Decimal `json:"amount"`
}

type SaleResponse struct {
	SaleID         string             `json:"sale_id"`
	InvoiceNumber  string             `json:"invoice_number"`
	StoreID        string             `json:"store_id"`
	StoreName      string             `json:"store_name,omitempty"`
	TerminalID     string             `json:"terminal_id"`
	CustomerID     *string            `json:"customer_id"`
	CustomerName   string             `json:"customer_name,omitempty"`
	CashierName    string             `json:"cashier_name,omitempty"`
	SaleDate       string             `json:"sale_date"`
	SubTotal       decimal.Decimal    `json:"sub_total"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	GrandTotal     decimal.Decimal    `json:"grand_total"`
	AmountPaid     decimal.Decimal    `json:"amount_paid"`
	ChangeGiven    decimal.Decimal    `json:"change_given"`
	PaymentStatus  string             `json:"payment_status"`
	LoyaltyPoints  int                `json:"loyalty_points_earned"`
	SaleItems      []SaleItemResponse `json:"sale_items"`
	Payments       []PaymentResponse  `json:"payments"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// StatsFilter scopes aggregate sales reads. Dates are YYYY-MM-DD.
type StatsFilter struct {
	StoreID   string `form:"store_id" validate:"omitempty,uuid"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// SalesStats aggregates committed sales; VOID sales are excluded.
type SalesStats struct {
	TotalSales    decimal.Decimal `json:"total_sales"`
	SalesCount    int64           `json:"sales_count"`
	AverageSale   decimal.Decimal `json:"average_sale"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
}

// DailySalesReport breaks one day's takings down by payment method class.
type DailySalesReport struct {
	Date       string          `json:"date"`
	TotalSales decimal.Decimal `json:"total_sales"`
	SalesCount int64           `json:"sales_count"`
	CashSales  decimal.Decimal `json:"cash_sales"`
	CardSales  decimal.Decimal `json:"card_sales"`
	OtherSales decimal.Decimal `json:"other_sales"`
}
