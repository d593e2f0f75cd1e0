package dto

import "github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/model"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateInventoryRequest struct {
	StoreID      string  `json:"store_id"   validate:"required,uuid"`
	ProductID    string  `json:"product_id" validate:"required,uuid"`
	VariantID    *string `json:"variant_id" validate:"omitempty,uuid"`
	CurrentStock int     `json:"current_stock" validate:"min=0"`
}

type AdjustStockRequest struct {
	InventoryID string `json:"inventory_id" validate:"required,uuid"`
	NewStock    int    `json:"new_stock" validate:"min=0"`
	Reason      string `json:"reason" validate:"required,min=3"`
	UserID      string `json:"user_id" validate:"required,uuid"`
}

type StockTakeRequest struct {
	InventoryID string  `json:"inventory_id" validate:"required,uuid"`
	ActualCount int     `json:"actual_count" validate:"min=0"`
	Notes       *string `json:"notes"`
	UserID      string  `json:"user_id" validate:"required,uuid"`
}

type TransferStockRequest struct {
	FromInventoryID string  `json:"from_inventory_id" validate:"required,uuid"`
	ToStoreID       string  `json:"to_store_id" validate:"required,uuid"`
	Quantity        int     `json:"quantity" validate:"required,min=1"`
	Notes           *string `json:"notes"`
	UserID          string  `json:"user_id" validate:"required,uuid"`
}

// InventoryFilter is bound from the query string of inventory reads.
type InventoryFilter struct {
	StoreID        string `form:"store_id"    validate:"omitempty,uuid"`
	CategoryID     string `form:"category_id" validate:"omitempty,uuid"`
	BrandID        string `form:"brand_id"    validate:"omitempty,uuid"`
	Search         string `form:"search"`
	LowStockOnly   bool   `form:"low_stock_only"`
	OutOfStockOnly bool   `form:"out_of_stock_only"`
}

type MovementFilter struct {
	ProductID    string `form:"product_id" validate:"omitempty,uuid"`
	VariantID    string `form:"variant_id" validate:"omitempty,uuid"`
	StoreID      string `form:"store_id"   validate:"omitempty,uuid"`
	MovementType string `form:"movement_type" validate:"omitempty,oneof=SALE RETURN PURCHASE ADJUSTMENT TRANSFER_OUT TRANSFER_IN WASTE"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// InventorySummary mirrors the dashboard counters. Served from the redis
// cache when warm; repeated reads with no intervening writes are identical.
type InventorySummary struct {
	TotalSKUs       int64 `json:"total_skus"`
	TotalStock      int64 `json:"total_stock"`
	LowStockCount   int64 `json:"low_stock_count"`
	OutOfStockCount int64 `json:"out_of_stock_count"`
	OverStockCount  int64 `json:"over_stock_count"`
}

type TransferResponse struct {
	TransferLogID string          `json:"transfer_log_id"`
	FromInventory model.Inventory `json:"from_inventory"`
	ToInventory   model.Inventory `json:"to_inventory"`
	Quantity      int             `json:"quantity"`
}

// BulkInventoryData is the single combined payload the inventory screen loads.
type BulkInventoryData struct {
	Inventory  []model.Inventory `json:"inventory"`
	Stores     []model.Store     `json:"stores"`
	Products   []model.Product   `json:"products"`
	Categories []model.Category  `json:"categories"`
	Brands     []model.Brand     `json:"brands"`
	Users      []model.User      `json:"users"`
	Summary    InventorySummary  `json:"summary"`
}

// AvailableProduct is a (product, variant) pair with no inventory record yet
// at the requested store, so the front-end only offers keys that can still
// be created.
type AvailableProduct struct {
	ProductID   string  `json:"product_id"`
	VariantID   *string `json:"variant_id"`
	ProductName string  `json:"product_name"`
	ProductCode string  `json:"product_code"`
	Size        *string `json:"size,omitempty"`
	Color       *string `json:"color,omitempty"`
}
