package dto

import "github.com/shopspring/decimal"

type ReturnItemRequest struct {
	SaleItemID       string          `json:"sale_item_id" validate:"required,uuid"`
	QuantityReturned int             `json:"quantity_returned" validate:"required,min=1"`
	RefundPerItem    decimal.Decimal `json:"refund_per_item" validate:"min=0"`
}

type CreateReturnRequest struct {
	SaleID         string              `json:"sale_id" validate:"required,uuid"`
	Reason         string              `json:"reason" validate:"required,min=3"`
	RefundMethodID string              `json:"refund_method_id" validate:"required,uuid"`
	Notes          *string             `json:"notes"`
	ReturnItems    []ReturnItemRequest `json:"return_items" validate:"required,min=1,dive"`
}

type ReturnFilter struct {
	StoreID   string `form:"store_id" validate:"omitempty,uuid"`
	Search    string `form:"search"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ReturnItemResponse struct {
	ReturnItemID     string          `json:"return_item_id"`
	SaleItemID       string          `json:"sale_item_id"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	QuantityReturned int             `json:"quantity_returned"`
	RefundPerItem    decimal.Decimal `json:"refund_per_item"`
}

type ReturnResponse struct {
	ReturnID         string               `json:"return_id"`
	SaleID           string               `json:"sale_id"`
	InvoiceNumber    string               `json:"invoice_number"`
	CustomerName     string               `json:"customer_name,omitempty"`
	ReturnDate       string               `json:"return_date"`
	ReturnedByName   string               `json:"returned_by_name,omitempty"`
	Reason           string               `json:"reason"`
	RefundAmount     decimal.Decimal      `json:"refund_amount"`
	RefundMethodID   string               `json:"refund_method_id"`
	RefundMethodName string               `json:"refund_method_name"`
	Notes            *string              `json:"notes"`
	ReturnItems      []ReturnItemResponse `json:"return_items"`
}

type ReturnListResponse struct {
	Data  []ReturnResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ReturnableSaleItem is one sale line with its remaining returnable quantity.
type ReturnableSaleItem struct {
	SaleItemID        string          `json:"sale_item_id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Quantity          int             `json:"quantity"`
	QuantityReturned  int             `json:"quantity_returned"`
	AvailableToReturn int             `json:"available_to_return"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
}

// ReturnableSale is returned by GET /v1/returns/sales/returnable: a sale with
// at least one item whose available_to_return > 0.
type ReturnableSale struct {
	SaleID          string               `json:"sale_id"`
	InvoiceNumber   string               `json:"invoice_number"`
	StoreID         string               `json:"store_id"`
	CustomerName    string               `json:"customer_name,omitempty"`
	SaleDate        string               `json:"sale_date"`
	GrandTotal      decimal.Decimal      `json:"grand_total"`
	PaymentStatus   string               `json:"payment_status"`
	ReturnableItems []ReturnableSaleItem `json:"returnable_items"`
}

type MostReturnedProduct struct {
	ProductName   string `json:"product_name"`
	ProductCode   string `json:"product_code"`
	TotalReturned int64  `json:"total_returned"`
	ReturnCount   int64  `json:"return_count"`
}

// ReturnsStats aggregates refunds, optionally scoped by store and date range.
type ReturnsStats struct {
	TotalReturns         decimal.Decimal       `json:"total_returns"`
	ReturnsCount         int64                 `json:"returns_count"`
	AverageReturn        decimal.Decimal       `json:"average_return"`
	MostReturnedProducts []MostReturnedProduct `json:"most_returned_products"`
}
