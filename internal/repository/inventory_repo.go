package repository

import (
	"context"
	"time"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/dto"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryRepository defines the data access contract for inventory records,
// the append-only movement log, and transfer logs. Services depend on this
// interface, not on the concrete GORM implementation, enabling clean unit
// testing via stubs.
//
// Methods with a Tx suffix run inside a caller-owned transaction and must be
// passed the live *gorm.DB tx. Row locks taken by the ForUpdate variants are
// held until that transaction commits or rolls back.
type InventoryRepository interface {
	Create(ctx context.Context, inv *model.Inventory) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error)
	FindByKey(ctx context.Context, storeID, productID uuid.UUID, variantID *uuid.UUID) (*model.Inventory, error)
	ListWithDetails(ctx context.Context, filter dto.InventoryFilter) ([]model.Inventory, error)
	Summary(ctx context.Context) (dto.InventorySummary, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) ([]model.InventoryMovement, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// AvailableProducts lists active (product, variant) pairs that have no
	// inventory record at the store yet.
	AvailableProducts(ctx context.Context, storeID uuid.UUID) ([]dto.AvailableProduct, error)

	CreateTx(tx *gorm.DB, inv *model.Inventory) error
	FindByKeyTx(tx *gorm.DB, storeID, productID uuid.UUID, variantID *uuid.UUID) (*model.Inventory, error)
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Inventory, error)
	FindByKeyForUpdateTx(tx *gorm.DB, storeID, productID uuid.UUID, variantID *uuid.UUID) (*model.Inventory, error)
	SetStockTx(tx *gorm.DB, id uuid.UUID, newStock int, stockTake bool) error
	CreateMovementTx(tx *gorm.DB, m *model.InventoryMovement) error
	CreateTransferLogTx(tx *gorm.DB, l *model.TransferLog) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) Create(ctx context.Context, inv *model.Inventory) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *inventoryRepo) CreateTx(tx *gorm.DB, inv *model.Inventory) error {
	return tx.Create(inv).Error
}

func (r *inventoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Variant").Preload("Store").
		First(&inv, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// variantCond builds the NULL-safe variant predicate shared by key lookups.
func variantCond(q *gorm.DB, variantID *uuid.UUID) *gorm.DB {
	if variantID == nil {
		return q.Where("variant_id IS NULL")
	}
	return q.Where("variant_id = ?", *variantID)
}

func (r *inventoryRepo) FindByKey(ctx context.Context, storeID, productID uuid.UUID, variantID *uuid.UUID) (*model.Inventory, error) {
	var inv model.Inventory
	q := r.db.WithContext(ctx).Where("store_id = ? AND product_id = ?", storeID, productID)
	err := variantCond(q, variantID).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventoryRepo) FindByKeyTx(tx *gorm.DB, storeID, productID uuid.UUID, variantID *uuid.UUID) (*model.Inventory, error) {
	var inv model.Inventory
	q := tx.Where("store_id = ? AND product_id = ?", storeID, productID)
	err := variantCond(q, variantID).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventoryRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Inventory, error) {
	var inv model.Inventory
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventoryRepo) FindByKeyForUpdateTx(tx *gorm.DB, storeID, productID uuid.UUID, variantID *uuid.UUID) (*model.Inventory, error) {
	var inv model.Inventory
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ? AND product_id = ?", storeID, productID)
	err := variantCond(q, variantID).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *inventoryRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, newStock int, stockTake bool) error {
	updates := map[string]interface{}{
		"current_stock": newStock,
		"updated_at":    time.Now(),
	}
	if stockTake {
		updates["last_stock_take_date"] = time.Now()
	}
	return tx.Model(&model.Inventory{}).Where("id = ?", id).Updates(updates).Error
}

func (r *inventoryRepo) CreateMovementTx(tx *gorm.DB, m *model.InventoryMovement) error {
	return tx.Create(m).Error
}

func (r *inventoryRepo) CreateTransferLogTx(tx *gorm.DB, l *model.TransferLog) error {
	return tx.Create(l).Error
}

func (r *inventoryRepo) ListWithDetails(ctx context.Context, filter dto.InventoryFilter) ([]model.Inventory, error) {
	var items []model.Inventory

	q := r.db.WithContext(ctx).Model(&model.Inventory{}).
		Preload("Product").Preload("Variant").Preload("Store").
		Joins("JOIN products p ON inventory.product_id = p.id")

	if filter.StoreID != "" {
		q = q.Where("inventory.store_id = ?", filter.StoreID)
	}
	if filter.CategoryID != "" {
		q = q.Where("p.category_id = ?", filter.CategoryID)
	}
	if filter.BrandID != "" {
		q = q.Where("p.brand_id = ?", filter.BrandID)
	}
	if filter.Search != "" {
		q = q.Where("p.product_name ILIKE ? OR p.product_code ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.LowStockOnly {
		q = q.Where("inventory.current_stock <= p.reorder_level AND inventory.current_stock > 0")
	}
	if filter.OutOfStockOnly {
		q = q.Where("inventory.current_stock = 0")
	}

	err := q.Order("p.product_name ASC").Find(&items).Error
	return items, err
}

func (r *inventoryRepo) Summary(ctx context.Context) (dto.InventorySummary, error) {
	var s dto.InventorySummary
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Inventory{}).Count(&s.TotalSKUs).Error; err != nil {
		return s, err
	}
	if err := db.Model(&model.Inventory{}).
		Select("COALESCE(SUM(current_stock), 0)").Scan(&s.TotalStock).Error; err != nil {
		return s, err
	}
	if err := db.Model(&model.Inventory{}).
		Joins("JOIN products p ON inventory.product_id = p.id").
		Where("inventory.current_stock <= p.reorder_level AND inventory.current_stock > 0").
		Count(&s.LowStockCount).Error; err != nil {
		return s, err
	}
	if err := db.Model(&model.Inventory{}).
		Where("current_stock = 0").Count(&s.OutOfStockCount).Error; err != nil {
		return s, err
	}
	if err := db.Model(&model.Inventory{}).
		Joins("JOIN products p ON inventory.product_id = p.id").
		Where("inventory.current_stock > COALESCE(p.max_stock_level, 999999)").
		Count(&s.OverStockCount).Error; err != nil {
		return s, err
	}
	return s, nil
}

func (r *inventoryRepo) ListMovements(ctx context.Context, filter dto.MovementFilter) ([]model.InventoryMovement, error) {
	var movements []model.InventoryMovement

	q := r.db.WithContext(ctx).Model(&model.InventoryMovement{}).
		Preload("User").Preload("Product").Preload("Store")

	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.VariantID != "" {
		q = q.Where("variant_id = ?", filter.VariantID)
	}
	if filter.StoreID != "" {
		q = q.Where("store_id = ?", filter.StoreID)
	}
	if filter.MovementType != "" {
		q = q.Where("movement_type = ?", filter.MovementType)
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}

	err := q.Order("movement_date DESC").Limit(limit).Find(&movements).Error
	return movements, err
}

// Delete removes an inventory record together with its movement history and
// transfer logs. Irreversible; only reachable through explicit operator action.
func (r *inventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv model.Inventory
		if err := tx.First(&inv, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("inventory_id = ?", id).Delete(&model.InventoryMovement{}).Error; err != nil {
			return err
		}
		logQ := tx.Where("product_id = ? AND (from_store_id = ? OR to_store_id = ?)",
			inv.ProductID, inv.StoreID, inv.StoreID)
		logQ = variantCond(logQ, inv.VariantID)
		if err := logQ.Delete(&model.TransferLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Inventory{}, "id = ?", id).Error
	})
}

func (r *inventoryRepo) AvailableProducts(ctx context.Context, storeID uuid.UUID) ([]dto.AvailableProduct, error) {
	var rows []struct {
		ProductID   uuid.UUID
		VariantID   *uuid.UUID
		ProductName string
		ProductCode string
		Size        *string
		Color       *string
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.id AS product_id, v.id AS variant_id,
		       p.product_name, p.product_code, v.size, v.color
		FROM products p
		LEFT JOIN product_variants v ON v.product_id = p.id AND v.is_active
		WHERE p.is_active
		  AND NOT EXISTS (
		        SELECT 1 FROM inventory i
		        WHERE i.store_id = ?
		          AND i.product_id = p.id
		          AND (i.variant_id = v.id OR (i.variant_id IS NULL AND v.id IS NULL))
		  )
		ORDER BY p.product_name, v.size, v.color`, storeID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.AvailableProduct, 0, len(rows))
	for _, row := range rows {
		ap := dto.AvailableProduct{
			ProductID:   row.ProductID.String(),
			ProductName: row.ProductName,
			ProductCode: row.ProductCode,
			Size:        row.Size,
			Color:       row.Color,
		}
		if row.VariantID != nil {
			v := row.VariantID.String()
			ap.VariantID = &v
		}
		out = append(out, ap)
	}
	return out, nil
}

func (r *inventoryRepo) DB() *gorm.DB { return r.db }
