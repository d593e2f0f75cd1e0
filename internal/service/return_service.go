package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/apierror"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/dto"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/model"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/pricing"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReturnService interface {
	CreateReturn(ctx context.Context, userID uuid.UUID, req dto.CreateReturnRequest) (*dto.ReturnResponse, error)
	GetReturn(ctx context.Context, id uuid.UUID) (*dto.ReturnResponse, error)
	ListReturns(ctx context.Context, filter dto.ReturnFilter) (*dto.ReturnListResponse, error)
	ListReturnable(ctx context.Context, search, storeID string, limit int) ([]dto.ReturnableSale, error)
	ReturnsStats(ctx context.Context, filter dto.StatsFilter) (dto.ReturnsStats, error)
}

type returnService struct {
	repo          repository.ReturnRepository
	saleRepo      repository.SaleRepository
	inventory     InventoryService
	inventoryRepo repository.InventoryRepository
	customerRepo  repository.CustomerRepository
	settingsRepo  repository.SettingsRepository
}

func NewReturnService(
	repo repository.ReturnRepository,
	saleRepo repository.SaleRepository,
	inventory InventoryService,
	inventoryRepo repository.InventoryRepository,
	customerRepo repository.CustomerRepository,
	settingsRepo repository.SettingsRepository,
) ReturnService {
	return &returnService{
		repo:          repo,
		saleRepo:      saleRepo,
		inventory:     inventory,
		inventoryRepo: inventoryRepo,
		customerRepo:  customerRepo,
		settingsRepo:  settingsRepo,
	}
}

// ── CreateReturn ─────────────────────────────────────────────────────────────
// The sale row is locked FOR UPDATE inside the transaction, so concurrent
// returns against the same sale serialize and the over-return bound is
// checked against current quantity_returned. The conditional increment in
// the repository enforces the bound a second time at the row level. RETURN
// movements restore stock at the sale's store; the sale flips to REFUNDED
// once total refunds reach the grand total.

func (s *returnService) CreateReturn(ctx context.Context, userID uuid.UUID, req dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	saleID, err := uuid.Parse(req.SaleID)
	if err != nil {
		return nil, apierror.Validation("invalid sale_id")
	}
	refundMethodID, err := uuid.Parse(req.RefundMethodID)
	if err != nil {
		return nil, apierror.Validation("invalid refund_method_id")
	}
	if _, err := s.settingsRepo.FindPaymentMethodByID(ctx, refundMethodID); err != nil {
		return nil, apierror.NotFound("refund method %s not found", req.RefundMethodID)
	}

	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, apierror.NotFound("sale %s not found", req.SaleID)
	}
	if sale.PaymentStatus == model.PaymentStatusVoid {
		return nil, apierror.Validation("sale %s is void and cannot be returned against", sale.InvoiceNumber)
	}

	itemsByID := make(map[uuid.UUID]*model.SaleItem, len(sale.SaleItems))
	for i := range sale.SaleItems {
		itemsByID[sale.SaleItems[i].ID] = &sale.SaleItems[i]
	}

	// Requested quantities per sale item; reject duplicates so a single
	// request cannot split one line past its bound.
	requested := make(map[uuid.UUID]int, len(req.ReturnItems))
	for _, ri := range req.ReturnItems {
		itemID, err := uuid.Parse(ri.SaleItemID)
		if err != nil {
			return nil, apierror.Validation("invalid sale_item_id")
		}
		if _, ok := itemsByID[itemID]; !ok {
			return nil, apierror.Validation("sale item %s does not belong to sale %s", ri.SaleItemID, sale.InvoiceNumber)
		}
		if _, dup := requested[itemID]; dup {
			return nil, apierror.Validation("sale item %s appears more than once", ri.SaleItemID)
		}
		if ri.QuantityReturned < 1 {
			return nil, apierror.Validation("quantity_returned must be at least 1")
		}
		requested[itemID] = ri.QuantityReturned
	}

	var ret model.Return
	touched := make([]uuid.UUID, 0, len(req.ReturnItems))

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Lock the sale row, then re-read so quantity_returned and the
		// status reflect whatever committed before the lock was granted.
		current, err := s.saleRepo.FindByIDForUpdateTx(tx, saleID)
		if err != nil {
			return err
		}
		if current.PaymentStatus == model.PaymentStatusVoid {
			return apierror.Validation("sale %s is void and cannot be returned against", current.InvoiceNumber)
		}

		currentByID := make(map[uuid.UUID]*model.SaleItem, len(current.SaleItems))
		for i := range current.SaleItems {
			currentByID[current.SaleItems[i].ID] = &current.SaleItems[i]
		}

		refundAmount := decimal.Zero
		var retItems []model.ReturnItem
		for _, ri := range req.ReturnItems {
			itemID, _ := uuid.Parse(ri.SaleItemID)
			item := currentByID[itemID]

			available := item.Quantity - item.QuantityReturned
			if ri.QuantityReturned > available {
				return apierror.OverReturn(
					"cannot return %d of sale item %s: only %d available",
					ri.QuantityReturned, ri.SaleItemID, available)
			}

			refundPerItem := ri.RefundPerItem
			if refundPerItem.IsZero() && item.Quantity > 0 {
				// Default to the effective per-unit price paid
				refundPerItem = item.LineTotal.Div(decimal.NewFromInt(int64(item.Quantity)))
			}
			// Round once so the persisted refund_amount is exactly the sum
			// of quantity x stored refund_per_item.
			refundPerItem = pricing.Round2(refundPerItem)
			refundAmount = refundAmount.Add(refundPerItem.Mul(decimal.NewFromInt(int64(ri.QuantityReturned))))

			retItems = append(retItems, model.ReturnItem{
				SaleItemID:       itemID,
				ProductID:        item.ProductID,
				VariantID:        item.VariantID,
				QuantityReturned: ri.QuantityReturned,
				RefundPerItem:    refundPerItem,
			})
		}

		ret = model.Return{
			SaleID:           saleID,
			ReturnedByUserID: userID,
			Reason:           req.Reason,
			RefundAmount:     pricing.Round2(refundAmount),
			RefundMethodID:   refundMethodID,
			Notes:            req.Notes,
			ReturnItems:      retItems,
		}
		if err := s.repo.CreateTx(tx, &ret); err != nil {
			return err
		}

		// Restore stock and advance quantity_returned per line
		for _, ri := range ret.ReturnItems {
			item := currentByID[ri.SaleItemID]

			inv, err := s.inventoryRepo.FindByKeyForUpdateTx(tx, current.StoreID, item.ProductID, item.VariantID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierror.NotFound("no inventory record for product %s at store %s", item.ProductID, current.StoreID)
				}
				return err
			}
			retRef := ret.ID
			notes := fmt.Sprintf("Return against sale %s", current.InvoiceNumber)
			if _, err := s.inventory.ApplyMovementTx(tx, inv, model.MovementReturn, ri.QuantityReturned, &retRef, userID, notes); err != nil {
				return err
			}
			touched = append(touched, inv.ID)

			affected, err := s.saleRepo.IncrementItemReturnedTx(tx, ri.SaleItemID, ri.QuantityReturned)
			if err != nil {
				return err
			}
			if affected == 0 {
				return apierror.OverReturn(
					"cannot return %d of sale item %s: quantity already returned",
					ri.QuantityReturned, ri.SaleItemID)
			}
		}

		// Refunds covering the grand total flip the sale to REFUNDED; the
		// sum includes the return created above.
		refundedSoFar, err := s.repo.SumRefundsForSaleTx(tx, saleID)
		if err != nil {
			return err
		}
		if refundedSoFar.GreaterThanOrEqual(current.GrandTotal) {
			if err := s.saleRepo.UpdateStatusTx(tx, saleID, model.PaymentStatusRefunded, nil); err != nil {
				return err
			}
		}

		// Claw back loyalty earned on the refunded portion
		if current.CustomerID != nil {
			points := int(ret.RefundAmount.Div(loyaltyDivisor).Floor().IntPart())
			if points > 0 {
				if err := s.customerRepo.AddLoyaltyPointsTx(tx, *current.CustomerID, -points); err != nil {
					return err
				}
				history := &model.LoyaltyPointsHistory{
					CustomerID:   *current.CustomerID,
					SaleID:       saleID,
					PointsChange: -points,
					Description:  fmt.Sprintf("Reversed on return against sale %s", current.InvoiceNumber),
				}
				if err := s.customerRepo.CreateLoyaltyHistoryTx(tx, history); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.inventory.NotifyMutated(ctx, touched...)

	full, err := s.repo.FindByID(ctx, ret.ID)
	if err != nil {
		full = &ret
	}
	return s.returnToResponse(ctx, full), nil
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *returnService) GetReturn(ctx context.Context, id uuid.UUID) (*dto.ReturnResponse, error) {
	ret, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("return %s not found", id)
		}
		return nil, err
	}
	return s.returnToResponse(ctx, ret), nil
}

func (s *returnService) ListReturns(ctx context.Context, filter dto.ReturnFilter) (*dto.ReturnListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	returns, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ReturnResponse, 0, len(returns))
	for i := range returns {
		data = append(data, *s.returnToResponse(ctx, &returns[i]))
	}
	return &dto.ReturnListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ListReturnable filters the repository's PAID/PARTIAL candidates down to
// sales with at least one line still returnable.
func (s *returnService) ListReturnable(ctx context.Context, search, storeID string, limit int) ([]dto.ReturnableSale, error) {
	sales, err := s.saleRepo.FindReturnable(ctx, search, storeID, limit)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ReturnableSale, 0, len(sales))
	for i := range sales {
		sale := &sales[i]

		items := make([]dto.ReturnableSaleItem, 0, len(sale.SaleItems))
		for _, item := range sale.SaleItems {
			available := item.Quantity - item.QuantityReturned
			if available <= 0 {
				continue
			}
			productName := ""
			if item.Product != nil {
				productName = item.Product.ProductName
			}
			items = append(items, dto.ReturnableSaleItem{
				SaleItemID:        item.ID.String(),
				ProductID:         item.ProductID.String(),
				ProductName:       productName,
				Quantity:          item.Quantity,
				QuantityReturned:  item.QuantityReturned,
				AvailableToReturn: available,
				UnitPrice:         item.UnitPrice,
			})
		}
		if len(items) == 0 {
			continue
		}

		customerName := ""
		if sale.Customer != nil {
			customerName = sale.Customer.FirstName + " " + sale.Customer.LastName
		}
		result = append(result, dto.ReturnableSale{
			SaleID:          sale.ID.String(),
			InvoiceNumber:   sale.InvoiceNumber,
			StoreID:         sale.StoreID.String(),
			CustomerName:    customerName,
			SaleDate:        sale.SaleDate.Format(time.RFC3339),
			GrandTotal:      sale.GrandTotal,
			PaymentStatus:   sale.PaymentStatus,
			ReturnableItems: items,
		})
	}
	return result, nil
}

func (s *returnService) ReturnsStats(ctx context.Context, filter dto.StatsFilter) (dto.ReturnsStats, error) {
	return s.repo.Stats(ctx, filter)
}

func (s *returnService) returnToResponse(ctx context.Context, ret *model.Return) *dto.ReturnResponse {
	items := make([]dto.ReturnItemResponse, 0, len(ret.ReturnItems))
	for _, item := range ret.ReturnItems {
		productName := ""
		if item.Product != nil {
			productName = item.Product.ProductName
		}
		items = append(items, dto.ReturnItemResponse{
			ReturnItemID:     item.ID.String(),
			SaleItemID:       item.SaleItemID.String(),
			ProductID:        item.ProductID.String(),
			ProductName:      productName,
			QuantityReturned: item.QuantityReturned,
			RefundPerItem:    item.RefundPerItem,
		})
	}

	invoiceNumber := ""
	customerName := ""
	if ret.Sale != nil {
		invoiceNumber = ret.Sale.InvoiceNumber
		if ret.Sale.Customer != nil {
			customerName = ret.Sale.Customer.FirstName + " " + ret.Sale.Customer.LastName
		}
	}
	refundMethodName := ""
	if ret.RefundMethod != nil {
		refundMethodName = ret.RefundMethod.MethodName
	}
	returnedByName := ""
	if user, err := s.settingsRepo.FindUserByID(ctx, ret.ReturnedByUserID); err == nil {
		returnedByName = user.FirstName + " " + user.LastName
	}

	return &dto.ReturnResponse{
		ReturnID:         ret.ID.String(),
		SaleID:           ret.SaleID.String(),
		InvoiceNumber:    invoiceNumber,
		CustomerName:     customerName,
		ReturnDate:       ret.ReturnDate.Format(time.RFC3339),
		ReturnedByName:   returnedByName,
		Reason:           ret.Reason,
		RefundAmount:     ret.RefundAmount,
		RefundMethodID:   ret.RefundMethodID.String(),
		RefundMethodName: refundMethodName,
		Notes:            ret.Notes,
		ReturnItems:      items,
	}
}
