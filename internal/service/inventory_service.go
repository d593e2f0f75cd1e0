package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/apierror"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/dto"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/model"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/repository"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const summaryCacheKey = "inventory:summary"

// InventoryService owns inventory records and the movement ledger. Every
// stock change flows through applyMovementTx so the record and its audit
// trail move together or not at all.
type InventoryService interface {
	CreateRecord(ctx context.Context, req dto.CreateInventoryRequest) (*model.Inventory, error)
	GetRecord(ctx context.Context, id uuid.UUID) (*model.Inventory, error)
	ListRecords(ctx context.Context, filter dto.InventoryFilter) ([]model.Inventory, error)
	DeleteRecord(ctx context.Context, id uuid.UUID) error

	AdjustStock(ctx context.Context, req dto.AdjustStockRequest) (*model.Inventory, error)
	StockTake(ctx context.Context, req dto.StockTakeRequest) (*model.Inventory, error)

	ListMovements(ctx context.Context, filter dto.MovementFilter) ([]model.InventoryMovement, error)
	Summary(ctx context.Context) (dto.InventorySummary, error)
	BulkData(ctx context.Context, filter dto.InventoryFilter) (*dto.BulkInventoryData, error)
	LowStockAlerts(ctx context.Context) ([]worker.LowStockAlert, error)
	AvailableProducts(ctx context.Context, storeID string) ([]dto.AvailableProduct, error)

	// ApplyMovementTx mutates one locked record inside the caller's
	// transaction. Sale, return, and transfer services call it so all
	// stock changes share the same bookkeeping.
	ApplyMovementTx(tx *gorm.DB, inv *model.Inventory, movementType string, quantity int, refID *uuid.UUID, userID uuid.UUID, notes string) (*model.InventoryMovement, error)

	// NotifyMutated runs the post-commit side effects (cache invalidation,
	// reorder-level checks) for records touched by another service's
	// transaction. Best effort.
	NotifyMutated(ctx context.Context, inventoryIDs ...uuid.UUID)
}

type inventoryService struct {
	repo         repository.InventoryRepository
	productRepo  repository.ProductRepository
	storeRepo    repository.StoreRepository
	settingsRepo repository.SettingsRepository
	rdb          *redis.Client
	dispatcher   *worker.Dispatcher
	cacheTTL     time.Duration
}

func NewInventoryService(
	repo repository.InventoryRepository,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	settingsRepo repository.SettingsRepository,
	rdb *redis.Client,
	dispatcher *worker.Dispatcher,
	cacheTTLSeconds int,
) InventoryService {
	return &inventoryService{
		repo:         repo,
		productRepo:  productRepo,
		storeRepo:    storeRepo,
		settingsRepo: settingsRepo,
		rdb:          rdb,
		dispatcher:   dispatcher,
		cacheTTL:     time.Duration(cacheTTLSeconds) * time.Second,
	}
}

// ── Record lifecycle ─────────────────────────────────────────────────────────

func (s *inventoryService) CreateRecord(ctx context.Context, req dto.CreateInventoryRequest) (*model.Inventory, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, apierror.Validation("invalid store_id")
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validation("invalid product_id")
	}
	var variantID *uuid.UUID
	if req.VariantID != nil {
		vid, err := uuid.Parse(*req.VariantID)
		if err != nil {
			return nil, apierror.Validation("invalid variant_id")
		}
		variantID = &vid
	}

	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		return nil, apierror.NotFound("store %s not found", req.StoreID)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, apierror.NotFound("product %s not found", req.ProductID)
	}
	if variantID != nil {
		variant, err := s.productRepo.FindVariantByID(ctx, *variantID)
		if err != nil {
			return nil, apierror.NotFound("variant %s not found", *req.VariantID)
		}
		if variant.ProductID != productID {
			return nil, apierror.Validation("variant %s does not belong to product %s", *req.VariantID, req.ProductID)
		}
	}

	if existing, err := s.repo.FindByKey(ctx, storeID, productID, variantID); err == nil && existing != nil {
		return nil, apierror.Conflict("inventory record already exists for product %s at store %s", product.ProductName, req.StoreID)
	}

	inv := &model.Inventory{
		ProductID:    productID,
		VariantID:    variantID,
		StoreID:      storeID,
		CurrentStock: req.CurrentStock,
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx)
	return s.repo.FindByID(ctx, inv.ID)
}

func (s *inventoryService) GetRecord(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("inventory record %s not found", id)
		}
		return nil, err
	}
	return inv, nil
}

func (s *inventoryService) ListRecords(ctx context.Context, filter dto.InventoryFilter) ([]model.Inventory, error) {
	return s.repo.ListWithDetails(ctx, filter)
}

func (s *inventoryService) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("inventory record %s not found", id)
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateSummary(ctx)
	if s.rdb != nil {
		worker.ClearLowStockAlert(ctx, s.rdb, id.String())
	}
	return nil
}

// ── Movement primitive ───────────────────────────────────────────────────────

// ApplyMovementTx assumes inv was fetched with FOR UPDATE inside tx. Quantity
// carries the ledger sign convention (negative for outflows). SALE and
// TRANSFER_OUT may not drive stock negative; ADJUSTMENT and stock takes set
// absolute counts upstream so their deltas always land at >= 0.
func (s *inventoryService) ApplyMovementTx(tx *gorm.DB, inv *model.Inventory, movementType string, quantity int, refID *uuid.UUID, userID uuid.UUID, notes string) (*model.InventoryMovement, error) {
	return s.applyMovement(tx, inv, movementType, quantity, refID, userID, notes, false)
}

// applyMovement carries the explicit stockTake flag so only the stock-take
// flow stamps last_stock_take_date, regardless of what the notes say.
func (s *inventoryService) applyMovement(tx *gorm.DB, inv *model.Inventory, movementType string, quantity int, refID *uuid.UUID, userID uuid.UUID, notes string, stockTake bool) (*model.InventoryMovement, error) {
	newStock := inv.CurrentStock + quantity
	if newStock < 0 && (movementType == model.MovementSale || movementType == model.MovementTransferOut) {
		return nil, apierror.InvalidQuantity(
			"insufficient stock: have %d, requested %d", inv.CurrentStock, -quantity)
	}

	if err := s.repo.SetStockTx(tx, inv.ID, newStock, stockTake); err != nil {
		return nil, err
	}

	mov := &model.InventoryMovement{
		InventoryID:  inv.ID,
		ProductID:    inv.ProductID,
		VariantID:    inv.VariantID,
		StoreID:      inv.StoreID,
		MovementType: movementType,
		Quantity:     quantity,
		ReferenceID:  refID,
		UserID:       userID,
		Notes:        notes,
	}
	if err := s.repo.CreateMovementTx(tx, mov); err != nil {
		return nil, err
	}

	inv.CurrentStock = newStock
	return mov, nil
}

const stockTakePrefix = "Stock take: "

// ── Manual mutations ─────────────────────────────────────────────────────────

func (s *inventoryService) AdjustStock(ctx context.Context, req dto.AdjustStockRequest) (*model.Inventory, error) {
	id, err := uuid.Parse(req.InventoryID)
	if err != nil {
		return nil, apierror.Validation("invalid inventory_id")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, apierror.Validation("invalid user_id")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		inv, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("inventory record %s not found", req.InventoryID)
			}
			return err
		}
		delta := req.NewStock - inv.CurrentStock
		_, err = s.ApplyMovementTx(tx, inv, model.MovementAdjustment, delta, nil, userID, req.Reason)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.afterMutation(ctx, id)
	return s.repo.FindByID(ctx, id)
}

// StockTake records the counted quantity as an ADJUSTMENT whose notes carry
// the stock-take marker, and stamps last_stock_take_date. A count matching
// the book quantity still produces a zero-delta movement for the audit trail.
func (s *inventoryService) StockTake(ctx context.Context, req dto.StockTakeRequest) (*model.Inventory, error) {
	id, err := uuid.Parse(req.InventoryID)
	if err != nil {
		return nil, apierror.Validation("invalid inventory_id")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, apierror.Validation("invalid user_id")
	}

	notes := stockTakePrefix
	if req.Notes != nil && *req.Notes != "" {
		notes += *req.Notes
	} else {
		notes += fmt.Sprintf("counted %d", req.ActualCount)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		inv, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("inventory record %s not found", req.InventoryID)
			}
			return err
		}
		delta := req.ActualCount - inv.CurrentStock
		_, err = s.applyMovement(tx, inv, model.MovementAdjustment, delta, nil, userID, notes, true)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.afterMutation(ctx, id)
	return s.repo.FindByID(ctx, id)
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *inventoryService) ListMovements(ctx context.Context, filter dto.MovementFilter) ([]model.InventoryMovement, error) {
	return s.repo.ListMovements(ctx, filter)
}

// Summary serves the dashboard counters from cache when warm. Mutations
// invalidate the key, so repeated reads between writes are identical.
func (s *inventoryService) Summary(ctx context.Context) (dto.InventorySummary, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, summaryCacheKey).Bytes(); err == nil {
			var summary dto.InventorySummary
			if jsonErr := json.Unmarshal(cached, &summary); jsonErr == nil {
				return summary, nil
			}
		}
	}

	summary, err := s.repo.Summary(ctx)
	if err != nil {
		return dto.InventorySummary{}, err
	}

	// Populate cache, best effort
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(summary); jsonErr == nil {
			_ = s.rdb.Set(ctx, summaryCacheKey, b, s.cacheTTL).Err()
		}
	}
	return summary, nil
}

// BulkData assembles the single payload the inventory screen loads on mount.
func (s *inventoryService) BulkData(ctx context.Context, filter dto.InventoryFilter) (*dto.BulkInventoryData, error) {
	inventory, err := s.repo.ListWithDetails(ctx, filter)
	if err != nil {
		return nil, err
	}
	stores, err := s.storeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.settingsRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	brands, err := s.settingsRepo.ListBrands(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.settingsRepo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.BulkInventoryData{
		Inventory:  inventory,
		Stores:     stores,
		Products:   products,
		Categories: categories,
		Brands:     brands,
		Users:      users,
		Summary:    summary,
	}, nil
}

func (s *inventoryService) LowStockAlerts(ctx context.Context) ([]worker.LowStockAlert, error) {
	if s.rdb == nil {
		return []worker.LowStockAlert{}, nil
	}
	return worker.ListLowStockAlerts(ctx, s.rdb)
}

// AvailableProducts lists active product/variant pairs the store has no
// inventory row for yet, so the UI can offer them when creating records.
func (s *inventoryService) AvailableProducts(ctx context.Context, storeID string) ([]dto.AvailableProduct, error) {
	id, err := uuid.Parse(storeID)
	if err != nil {
		return nil, apierror.Validation("invalid store_id")
	}
	return s.repo.AvailableProducts(ctx, id)
}

// ── Cache and alert plumbing ─────────────────────────────────────────────────

func (s *inventoryService) invalidateSummary(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, summaryCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate inventory summary cache")
	}
}

func (s *inventoryService) NotifyMutated(ctx context.Context, inventoryIDs ...uuid.UUID) {
	for _, id := range inventoryIDs {
		s.afterMutation(ctx, id)
	}
}

// afterMutation runs the post-commit side effects shared by every stock
// write: cache invalidation plus the reorder-level check. Both are best
// effort and never fail the request.
func (s *inventoryService) afterMutation(ctx context.Context, inventoryID uuid.UUID) {
	s.invalidateSummary(ctx)

	inv, err := s.repo.FindByID(ctx, inventoryID)
	if err != nil || inv.Product == nil {
		return
	}

	if inv.CurrentStock <= inv.Product.ReorderLevel {
		if s.dispatcher != nil {
			alert := worker.LowStockAlert{
				InventoryID:  inv.ID.String(),
				ProductID:    inv.ProductID.String(),
				ProductName:  inv.Product.ProductName,
				StoreID:      inv.StoreID.String(),
				CurrentStock: inv.CurrentStock,
				ReorderLevel: inv.Product.ReorderLevel,
			}
			if err := s.dispatcher.EnqueueLowStock(ctx, alert); err != nil {
				log.Warn().Err(err).Str("inventory_id", alert.InventoryID).Msg("failed to enqueue low stock alert")
			}
		}
	} else if s.rdb != nil {
		worker.ClearLowStockAlert(ctx, s.rdb, inventoryID.String())
	}
}
