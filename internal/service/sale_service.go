package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
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

// loyaltyDivisor: one point per 100 currency units of grand total.
var loyaltyDivisor = decimal.NewFromInt(100)

type SaleService interface {
	CommitSale(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	VoidSale(ctx context.Context, id, userID uuid.UUID, reason string) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	SalesStats(ctx context.Context, filter dto.StatsFilter) (dto.SalesStats, error)
	DailyReport(ctx context.Context, day, storeID string) (dto.DailySalesReport, error)
}

type saleService struct {
	repo          repository.SaleRepository
	inventory     InventoryService
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	customerRepo  repository.CustomerRepository
	settingsRepo  repository.SettingsRepository
	storeRepo     repository.StoreRepository
}

func NewSaleService(
	repo repository.SaleRepository,
	inventory InventoryService,
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	settingsRepo repository.SettingsRepository,
	storeRepo repository.StoreRepository,
) SaleService {
	return &saleService{
		repo:          repo,
		inventory:     inventory,
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
		settingsRepo:  settingsRepo,
		storeRepo:     storeRepo,
	}
}

// ── CommitSale ───────────────────────────────────────────────────────────────
// One ACID transaction:
//  1. Resolve products, prices, and tax rates (pre-flight, outside TX)
//  2. Run the calculator; validate sum of payments >= grand total
//  3. BEGIN TX: generate invoice number, create sale+items+payments,
//     lock each inventory row and emit a SALE movement, award loyalty
//  4. COMMIT, then post-commit cache/alert side effects

func (s *saleService) CommitSale(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, apierror.Validation("invalid store_id")
	}
	terminalID, err := uuid.Parse(req.TerminalID)
	if err != nil {
		return nil, apierror.Validation("invalid terminal_id")
	}
	var customerID *uuid.UUID
	if req.CustomerID != nil {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, apierror.Validation("invalid customer_id")
		}
		if _, err := s.customerRepo.FindByID(ctx, cid); err != nil {
			return nil, apierror.NotFound("customer %s not found", *req.CustomerID)
		}
		customerID = &cid
	}
	if req.DiscountAmount.IsNegative() {
		return nil, apierror.Validation("discount_amount must not be negative")
	}

	// Resolve items against the catalog
	type resolvedItem struct {
		productID   uuid.UUID
		variantID   *uuid.UUID
		productName string
		quantity    int
		unitPrice   decimal.Decimal
		discount    decimal.Decimal
		taxRate     decimal.Decimal
	}

	resolved := make([]resolvedItem, 0, len(req.SaleItems))
	lines := make([]pricing.LineItem, 0, len(req.SaleItems))

	for _, item := range req.SaleItems {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.Validation("invalid product_id")
		}
		product, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, apierror.NotFound("product %s not found", item.ProductID)
		}
		if !product.IsActive {
			return nil, apierror.Validation("product %s is inactive", product.ProductName)
		}

		var variantID *uuid.UUID
		unitPrice := product.RetailPrice
		if item.VariantID != nil {
			vid, err := uuid.Parse(*item.VariantID)
			if err != nil {
				return nil, apierror.Validation("invalid variant_id")
			}
			variant, err := s.productRepo.FindVariantByID(ctx, vid)
			if err != nil {
				return nil, apierror.NotFound("variant %s not found", *item.VariantID)
			}
			if variant.ProductID != pid {
				return nil, apierror.Validation("variant %s does not belong to product %s", *item.VariantID, item.ProductID)
			}
			if variant.RetailPrice != nil {
				unitPrice = *variant.RetailPrice
			}
			variantID = &vid
		}
		// Till override wins over the catalog price
		if item.UnitPrice.IsPositive() {
			unitPrice = item.UnitPrice
		}

		taxRate := decimal.Zero
		if product.TaxCategory != nil && product.TaxCategory.IsActive {
			taxRate = product.TaxCategory.TaxRate
		}

		resolved = append(resolved, resolvedItem{
			productID:   pid,
			variantID:   variantID,
			productName: product.ProductName,
			quantity:    item.Quantity,
			unitPrice:   unitPrice,
			discount:    item.DiscountPerItem,
			taxRate:     taxRate,
		})
		lines = append(lines, pricing.LineItem{
			Quantity:        item.Quantity,
			UnitPrice:       unitPrice,
			DiscountPerItem: item.DiscountPerItem,
			TaxRate:         taxRate,
		})
	}

	totals := pricing.Calculate(lines, req.DiscountAmount)

	// Validate payment sufficiency
	amountPaid := decimal.Zero
	for i, p := range req.Payments {
		if !p.Amount.IsPositive() {
			return nil, apierror.Validation("payment amount must be positive")
		}
		pmID, err := uuid.Parse(p.PaymentMethodID)
		if err != nil {
			return nil, apierror.Validation("invalid payment_method_id")
		}
		if _, err := s.settingsRepo.FindPaymentMethodByID(ctx, pmID); err != nil {
			return nil, apierror.NotFound("payment method %s not found", req.Payments[i].PaymentMethodID)
		}
		amountPaid = amountPaid.Add(p.Amount)
	}
	if amountPaid.LessThan(totals.GrandTotal) {
		return nil, apierror.InsufficientPayment(
			"payment %s is below the grand total %s",
			pricing.Round2(amountPaid), pricing.Round2(totals.GrandTotal))
	}
	changeGiven := amountPaid.Sub(totals.GrandTotal)

	loyaltyPoints := 0
	if customerID != nil {
		loyaltyPoints = int(totals.GrandTotal.Div(loyaltyDivisor).Floor().IntPart())
	}

	var sale model.Sale
	touched := make([]uuid.UUID, 0, len(resolved))

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		invoiceNumber, err := s.nextInvoiceNumber(ctx)
		if err != nil {
			return err
		}

		sale = model.Sale{
			InvoiceNumber:  invoiceNumber,
			StoreID:        storeID,
			TerminalID:     terminalID,
			CustomerID:     customerID,
			UserID:         userID,
			SubTotal:       pricing.Round2(totals.Subtotal),
			DiscountAmount: pricing.Round2(totals.ItemDiscount.Add(totals.Discount)),
			TaxAmount:      pricing.Round2(totals.Tax),
			GrandTotal:     pricing.Round2(totals.GrandTotal),
			AmountPaid:     pricing.Round2(amountPaid),
			ChangeGiven:    pricing.Round2(changeGiven),
			PaymentStatus:  model.PaymentStatusPaid,
			Notes:          req.Notes,
		}
		for i, r := range resolved {
			sale.SaleItems = append(sale.SaleItems, model.SaleItem{
				ProductID:       r.productID,
				VariantID:       r.variantID,
				Quantity:        r.quantity,
				UnitPrice:       pricing.Round2(r.unitPrice),
				DiscountPerItem: pricing.Round2(r.discount),
				TaxPerItem:      pricing.Round2(totals.Items[i].TaxPerItem),
				LineTotal:       pricing.Round2(totals.Items[i].LineTotal),
			})
		}
		for _, p := range req.Payments {
			pmID, _ := uuid.Parse(p.PaymentMethodID)
			sale.Payments = append(sale.Payments, model.Payment{
				PaymentMethodID:      pmID,
				Amount:               pricing.Round2(p.Amount),
				TransactionReference: p.TransactionReference,
			})
		}

		if err := s.repo.CreateTx(tx, &sale); err != nil {
			return err
		}

		// Decrement stock per line under row locks
		for _, r := range resolved {
			inv, err := s.inventoryRepo.FindByKeyForUpdateTx(tx, storeID, r.productID, r.variantID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierror.NotFound("no inventory record for %s at store %s", r.productName, req.StoreID)
				}
				return err
			}
			saleRef := sale.ID
			notes := fmt.Sprintf("Sale %s", sale.InvoiceNumber)
			if _, err := s.inventory.ApplyMovementTx(tx, inv, model.MovementSale, -r.quantity, &saleRef, userID, notes); err != nil {
				return err
			}
			touched = append(touched, inv.ID)
		}

		if customerID != nil && loyaltyPoints > 0 {
			if err := s.customerRepo.AddLoyaltyPointsTx(tx, *customerID, loyaltyPoints); err != nil {
				return err
			}
			history := &model.LoyaltyPointsHistory{
				CustomerID:   *customerID,
				SaleID:       sale.ID,
				PointsChange: loyaltyPoints,
				Description:  fmt.Sprintf("Earned on sale %s", sale.InvoiceNumber),
			}
			if err := s.customerRepo.CreateLoyaltyHistoryTx(tx, history); err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.inventory.NotifyMutated(ctx, touched...)

	full, err := s.repo.FindByID(ctx, sale.ID)
	if err != nil {
		full = &sale
	}
	resp := s.saleToResponse(ctx, full)
	resp.LoyaltyPoints = loyaltyPoints
	return resp, nil
}

// nextInvoiceNumber builds INV-YYYYMMDD-NNNN from the per-day sale count,
// falling back to a random suffix when a concurrent commit took the number.
func (s *saleService) nextInvoiceNumber(ctx context.Context) (string, error) {
	now := time.Now()
	count, err := s.repo.CountOnDate(ctx, now)
	if err != nil {
		return "", err
	}
	candidate := fmt.Sprintf("INV-%s-%04d", now.Format("20060102"), count+1)

	exists, err := s.repo.InvoiceNumberExists(ctx, candidate)
	if err != nil {
		return "", err
	}
	if !exists {
		return candidate, nil
	}
	return candidate + "-" + randomSuffix(4), nil
}

const suffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}

// ── VoidSale ─────────────────────────────────────────────────────────────────
// Reverses the committed sale: compensating RETURN movements restore the full
// sold quantity per line, loyalty points are clawed back, and the sale goes
// to VOID with the reason recorded in its notes. Voided sales cannot be
// returned against afterwards.

func (s *saleService) VoidSale(ctx context.Context, id, userID uuid.UUID, reason string) (*dto.SaleResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, apierror.NotFound("sale %s not found", id)
	}

	var touched []uuid.UUID

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Lock the sale row and re-check the status under the lock, so two
		// concurrent voids cannot both restore stock.
		sale, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return err
		}
		if sale.PaymentStatus == model.PaymentStatusVoid {
			return apierror.Validation("sale %s is already void", sale.InvoiceNumber)
		}

		touched = make([]uuid.UUID, 0, len(sale.SaleItems))
		for _, item := range sale.SaleItems {
			inv, err := s.inventoryRepo.FindByKeyForUpdateTx(tx, sale.StoreID, item.ProductID, item.VariantID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierror.NotFound("no inventory record for product %s at store %s", item.ProductID, sale.StoreID)
				}
				return err
			}
			saleRef := sale.ID
			notes := fmt.Sprintf("Void of sale %s", sale.InvoiceNumber)
			if _, err := s.inventory.ApplyMovementTx(tx, inv, model.MovementReturn, item.Quantity, &saleRef, userID, notes); err != nil {
				return err
			}
			touched = append(touched, inv.ID)
		}

		if sale.CustomerID != nil {
			loyaltyPoints := int(sale.GrandTotal.Div(loyaltyDivisor).Floor().IntPart())
			if loyaltyPoints > 0 {
				if err := s.customerRepo.AddLoyaltyPointsTx(tx, *sale.CustomerID, -loyaltyPoints); err != nil {
					return err
				}
				history := &model.LoyaltyPointsHistory{
					CustomerID:   *sale.CustomerID,
					SaleID:       sale.ID,
					PointsChange: -loyaltyPoints,
					Description:  fmt.Sprintf("Reversed on void of sale %s", sale.InvoiceNumber),
				}
				if err := s.customerRepo.CreateLoyaltyHistoryTx(tx, history); err != nil {
					return err
				}
			}
		}

		notes := fmt.Sprintf("VOIDED: %s", reason)
		return s.repo.UpdateStatusTx(tx, sale.ID, model.PaymentStatusVoid, &notes)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.inventory.NotifyMutated(ctx, touched...)

	full, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.saleToResponse(ctx, full), nil
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("sale %s not found", id)
		}
		return nil, err
	}
	return s.saleToResponse(ctx, sale), nil
}

func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *s.saleToResponse(ctx, &sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *saleService) SalesStats(ctx context.Context, filter dto.StatsFilter) (dto.SalesStats, error) {
	return s.repo.Stats(ctx, filter)
}

// DailyReport defaults to today when no date is given.
func (s *saleService) DailyReport(ctx context.Context, day, storeID string) (dto.DailySalesReport, error) {
	reportDay := time.Now()
	if day != "" {
		parsed, err := time.Parse("2006-01-02", day)
		if err != nil {
			return dto.DailySalesReport{}, apierror.Validation("invalid date, expected YYYY-MM-DD")
		}
		reportDay = parsed
	}
	return s.repo.DailyReport(ctx, reportDay, storeID)
}

func (s *saleService) saleToResponse(ctx context.Context, sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.SaleItems))
	for _, item := range sale.SaleItems {
		productName, productCode := "", ""
		if item.Product != nil {
			productName = item.Product.ProductName
			productCode = item.Product.ProductCode
		}
		var variantID *string
		if item.VariantID != nil {
			v := item.VariantID.String()
			variantID = &v
		}
		items = append(items, dto.SaleItemResponse{
			SaleItemID:       item.ID.String(),
			ProductID:        item.ProductID.String(),
			VariantID:        variantID,
			ProductName:      productName,
			ProductCode:      productCode,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			DiscountPerItem:  item.DiscountPerItem,
			TaxPerItem:       item.TaxPerItem,
			LineTotal:        item.LineTotal,
			QuantityReturned: item.QuantityReturned,
		})
	}

	payments := make([]dto.PaymentResponse, 0, len(sale.Payments))
	for _, p := range sale.Payments {
		methodName := ""
		if p.PaymentMethod != nil {
			methodName = p.PaymentMethod.MethodName
		}
		payments = append(payments, dto.PaymentResponse{
			PaymentMethodID:   p.PaymentMethodID.String(),
			PaymentMethodName: methodName,
			Amount:            p.Amount,
		})
	}

	var customerIDStr *string
	customerName := ""
	if sale.CustomerID != nil {
		v := sale.CustomerID.String()
		customerIDStr = &v
	}
	if sale.Customer != nil {
		customerName = sale.Customer.FirstName + " " + sale.Customer.LastName
	}

	storeName := ""
	if store, err := s.storeRepo.FindByID(ctx, sale.StoreID); err == nil {
		storeName = store.StoreName
	}
	cashierName := ""
	if user, err := s.settingsRepo.FindUserByID(ctx, sale.UserID); err == nil {
		cashierName = user.FirstName + " " + user.LastName
	}

	return &dto.SaleResponse{
		SaleID:         sale.ID.String(),
		InvoiceNumber:  sale.InvoiceNumber,
		StoreID:        sale.StoreID.String(),
		StoreName:      storeName,
		TerminalID:     sale.TerminalID.String(),
		CustomerID:     customerIDStr,
		CustomerName:   customerName,
		CashierName:    cashierName,
		SaleDate:       sale.SaleDate.Format(time.RFC3339),
		SubTotal:       sale.SubTotal,
		DiscountAmount: sale.DiscountAmount,
		TaxAmount:      sale.TaxAmount,
		GrandTotal:     sale.GrandTotal,
		AmountPaid:     sale.AmountPaid,
		ChangeGiven:    sale.ChangeGiven,
		PaymentStatus:  sale.PaymentStatus,
		SaleItems:      items,
		Payments:       payments,
	}
}
