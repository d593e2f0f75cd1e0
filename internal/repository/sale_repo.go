package repository

import (
	"context"
	"strings"
	"time"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/dto"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleRepository owns sales_transactions, sale_items, and payments.
type SaleRepository interface {
	CreateTx(tx *gorm.DB, sale *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)

	// FindByIDForUpdateTx locks the sale row so concurrent returns or voids
	// against the same sale serialize before reading quantity_returned.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)

	// CountOnDate supports per-day invoice sequence numbers.
	CountOnDate(ctx context.Context, day time.Time) (int64, error)
	InvoiceNumberExists(ctx context.Context, invoiceNumber string) (bool, error)

	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string, notes *string) error

	// IncrementItemReturnedTx advances quantity_returned only while the
	// result stays within quantity; returns the number of rows updated so
	// the caller can reject an increment the bound refused.
	IncrementItemReturnedTx(tx *gorm.DB, saleItemID uuid.UUID, qty int) (int64, error)

	// FindReturnable returns PAID/PARTIAL sales, newest first, with items and
	// customer preloaded; availability filtering happens in the service.
	FindReturnable(ctx context.Context, search, storeID string, limit int) ([]model.Sale, error)

	Stats(ctx context.Context, filter dto.StatsFilter) (dto.SalesStats, error)
	DailyReport(ctx context.Context, day time.Time, storeID string) (dto.DailySalesReport, error)

	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) CreateTx(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	return findSale(r.db.WithContext(ctx), id)
}

func (r *saleRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	return findSale(tx, id)
}

func (r *saleRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	// Take the row lock first; the preloaded read that follows then sees
	// state committed by whichever transaction held the lock before us.
	var locked model.Sale
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&locked, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return findSale(tx, id)
}

func findSale(db *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := db.
		Preload("SaleItems").Preload("SaleItems.Product").Preload("SaleItems.Variant").
		Preload("Payments").Preload("Payments.PaymentMethod").
		Preload("Customer").
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.StoreID != "" {
		q = q.Where("store_id = ?", filter.StoreID)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.StartDate != "" {
		q = q.Where("sale_date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("sale_date <= ?", filter.EndDate+" 23:59:59")
	}
	if filter.Search != "" {
		q = q.Where("invoice_number ILIKE ?", "%"+filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("SaleItems").Preload("SaleItems.Product").
		Preload("Payments").Preload("Payments.PaymentMethod").
		Preload("Customer").
		Order("sale_date DESC").Limit(filter.Limit).Offset(offset).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) CountOnDate(ctx context.Context, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("sale_date >= ? AND sale_date < ?", start, end).
		Count(&count).Error
	return count, err
}

func (r *saleRepo) InvoiceNumberExists(ctx context.Context, invoiceNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("invoice_number = ?", invoiceNumber).
		Count(&count).Error
	return count > 0, err
}

func (r *saleRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string, notes *string) error {
	updates := map[string]interface{}{"payment_status": status}
	if notes != nil {
		updates["notes"] = *notes
	}
	return tx.Model(&model.Sale{}).Where("id = ?", id).Updates(updates).Error
}

func (r *saleRepo) IncrementItemReturnedTx(tx *gorm.DB, saleItemID uuid.UUID, qty int) (int64, error) {
	res := tx.Model(&model.SaleItem{}).
		Where("id = ? AND quantity_returned + ? <= quantity", saleItemID, qty).
		Update("quantity_returned", gorm.Expr("quantity_returned + ?", qty))
	return res.RowsAffected, res.Error
}

func (r *saleRepo) FindReturnable(ctx context.Context, search, storeID string, limit int) ([]model.Sale, error) {
	var sales []model.Sale

	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Preload("SaleItems").Preload("SaleItems.Product").Preload("Customer").
		Where("payment_status IN ?", []string{model.PaymentStatusPaid, model.PaymentStatusPartial})

	if storeID != "" {
		q = q.Where("store_id = ?", storeID)
	}
	if search != "" {
		term := "%" + search + "%"
		q = q.Where(
			"invoice_number ILIKE ? OR customer_id IN (?)",
			term,
			r.db.Model(&model.Customer{}).Select("id").
				Where("first_name ILIKE ? OR last_name ILIKE ? OR phone_number ILIKE ?", term, term, term),
		)
	}
	if limit < 1 {
		limit = 50
	}

	err := q.Order("sale_date DESC").Limit(limit).Find(&sales).Error
	return sales, err
}

func (r *saleRepo) Stats(ctx context.Context, filter dto.StatsFilter) (dto.SalesStats, error) {
	var row struct {
		TotalSales    decimal.NullDecimal
		SalesCount    int64
		AverageSale   decimal.NullDecimal
		TotalTax      decimal.NullDecimal
		TotalDiscount decimal.NullDecimal
	}

	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("payment_status <> ?", model.PaymentStatusVoid)
	if filter.StoreID != "" {
		q = q.Where("store_id = ?", filter.StoreID)
	}
	if filter.StartDate != "" {
		q = q.Where("sale_date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("sale_date < ?::date + interval '1 day'", filter.EndDate)
	}

	err := q.Select(
		"COALESCE(SUM(grand_total), 0) AS total_sales, " +
			"COUNT(*) AS sales_count, " +
			"COALESCE(AVG(grand_total), 0) AS average_sale, " +
			"COALESCE(SUM(tax_amount), 0) AS total_tax, " +
			"COALESCE(SUM(discount_amount), 0) AS total_discount").
		Scan(&row).Error
	if err != nil {
		return dto.SalesStats{}, err
	}
	return dto.SalesStats{
		TotalSales:    row.TotalSales.Decimal,
		SalesCount:    row.SalesCount,
		AverageSale:   row.AverageSale.Decimal,
		TotalTax:      row.TotalTax.Decimal,
		TotalDiscount: row.TotalDiscount.Decimal,
	}, nil
}

func (r *saleRepo) DailyReport(ctx context.Context, day time.Time, storeID string) (dto.DailySalesReport, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	report := dto.DailySalesReport{
		Date:       start.Format("2006-01-02"),
		TotalSales: decimal.Zero,
		CashSales:  decimal.Zero,
		CardSales:  decimal.Zero,
		OtherSales: decimal.Zero,
	}

	var totals struct {
		Total decimal.NullDecimal
		Count int64
	}
	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("sale_date >= ? AND sale_date < ?", start, end).
		Where("payment_status <> ?", model.PaymentStatusVoid)
	if storeID != "" {
		q = q.Where("store_id = ?", storeID)
	}
	if err := q.Select("COALESCE(SUM(grand_total), 0) AS total, COUNT(*) AS count").Scan(&totals).Error; err != nil {
		return report, err
	}
	report.TotalSales = totals.Total.Decimal
	report.SalesCount = totals.Count

	var byMethod []struct {
		MethodName string
		Total      decimal.NullDecimal
	}
	pq := r.db.WithContext(ctx).Table("payments").
		Select("payment_methods.method_name AS method_name, COALESCE(SUM(payments.amount), 0) AS total").
		Joins("JOIN payment_methods ON payment_methods.id = payments.payment_method_id").
		Joins("JOIN sales_transactions ON sales_transactions.id = payments.sale_id").
		Where("sales_transactions.sale_date >= ? AND sales_transactions.sale_date < ?", start, end).
		Where("sales_transactions.payment_status <> ?", model.PaymentStatusVoid)
	if storeID != "" {
		pq = pq.Where("sales_transactions.store_id = ?", storeID)
	}
	if err := pq.Group("payment_methods.method_name").Scan(&byMethod).Error; err != nil {
		return report, err
	}

	for _, m := range byMethod {
		switch strings.ToLower(m.MethodName) {
		case "cash":
			report.CashSales = report.CashSales.Add(m.Total.Decimal)
		case "credit card", "debit card":
			report.CardSales = report.CardSales.Add(m.Total.Decimal)
		default:
			report.OtherSales = report.OtherSales.Add(m.Total.Decimal)
		}
	}
	return report, nil
}

func (r *saleRepo) DB() *gorm.DB { return r.db }
