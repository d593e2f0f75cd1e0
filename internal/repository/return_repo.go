package repository

import (
	"context"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/dto"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReturnRepository interface {
	CreateTx(tx *gorm.DB, ret *model.Return) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Return, error)
	List(ctx context.Context, filter dto.ReturnFilter) ([]model.Return, int64, error)

	// SumRefundsForSaleTx totals refunds against one sale inside the current
	// transaction; the returns processor uses it to decide the REFUNDED flip.
	SumRefundsForSaleTx(tx *gorm.DB, saleID uuid.UUID) (decimal.Decimal, error)

	Stats(ctx context.Context, filter dto.StatsFilter) (dto.ReturnsStats, error)

	DB() *gorm.DB
}

type returnRepo struct{ db *gorm.DB }

func NewReturnRepository(db *gorm.DB) ReturnRepository { return &returnRepo{db: db} }

func (r *returnRepo) CreateTx(tx *gorm.DB, ret *model.Return) error {
	return tx.Create(ret).Error
}

func (r *returnRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Return, error) {
	var ret model.Return
	err := r.db.WithContext(ctx).
		Preload("ReturnItems").Preload("ReturnItems.Product").
		Preload("Sale").Preload("Sale.Customer").
		Preload("RefundMethod").
		First(&ret, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *returnRepo) List(ctx context.Context, filter dto.ReturnFilter) ([]model.Return, int64, error) {
	var returns []model.Return
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Return{})

	if filter.StoreID != "" {
		q = q.Where("sale_id IN (?)",
			r.db.Model(&model.Sale{}).Select("id").Where("store_id = ?", filter.StoreID))
	}
	if filter.StartDate != "" {
		q = q.Where("return_date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("return_date <= ?", filter.EndDate+" 23:59:59")
	}
	if filter.Search != "" {
		q = q.Where("sale_id IN (?)",
			r.db.Model(&model.Sale{}).Select("id").Where("invoice_number ILIKE ?", "%"+filter.Search+"%"))
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("ReturnItems").Preload("ReturnItems.Product").
		Preload("Sale").Preload("Sale.Customer").
		Preload("RefundMethod").
		Order("return_date DESC").Limit(filter.Limit).Offset(offset).
		Find(&returns).Error
	return returns, total, err
}

func (r *returnRepo) SumRefundsForSaleTx(tx *gorm.DB, saleID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := tx.Model(&model.Return{}).
		Select("COALESCE(SUM(refund_amount), 0)").
		Where("sale_id = ?", saleID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func (r *returnRepo) Stats(ctx context.Context, filter dto.StatsFilter) (dto.ReturnsStats, error) {
	var row struct {
		TotalReturns  decimal.NullDecimal
		ReturnsCount  int64
		AverageReturn decimal.NullDecimal
	}

	q := r.db.WithContext(ctx).Model(&model.Return{}).
		Joins("JOIN sales_transactions ON sales_transactions.id = returns.sale_id")
	if filter.StoreID != "" {
		q = q.Where("sales_transactions.store_id = ?", filter.StoreID)
	}
	if filter.StartDate != "" {
		q = q.Where("returns.return_date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("returns.return_date < ?::date + interval '1 day'", filter.EndDate)
	}
	err := q.Select(
		"COALESCE(SUM(returns.refund_amount), 0) AS total_returns, " +
			"COUNT(*) AS returns_count, " +
			"COALESCE(AVG(returns.refund_amount), 0) AS average_return").
		Scan(&row).Error
	if err != nil {
		return dto.ReturnsStats{}, err
	}

	var top []struct {
		ProductName   string
		ProductCode   string
		TotalReturned int64
		ReturnCount   int64
	}
	pq := r.db.WithContext(ctx).Table("return_items").
		Select("products.product_name AS product_name, products.product_code AS product_code, "+
			"SUM(return_items.quantity_returned) AS total_returned, COUNT(*) AS return_count").
		Joins("JOIN products ON products.id = return_items.product_id").
		Joins("JOIN returns ON returns.id = return_items.return_id").
		Joins("JOIN sales_transactions ON sales_transactions.id = returns.sale_id")
	if filter.StoreID != "" {
		pq = pq.Where("sales_transactions.store_id = ?", filter.StoreID)
	}
	if filter.StartDate != "" {
		pq = pq.Where("returns.return_date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		pq = pq.Where("returns.return_date < ?::date + interval '1 day'", filter.EndDate)
	}
	err = pq.Group("products.id, products.product_name, products.product_code").
		Order("total_returned DESC").
		Limit(10).
		Scan(&top).Error
	if err != nil {
		return dto.ReturnsStats{}, err
	}

	stats := dto.ReturnsStats{
		TotalReturns:         row.TotalReturns.Decimal,
		ReturnsCount:         row.ReturnsCount,
		AverageReturn:        row.AverageReturn.Decimal,
		MostReturnedProducts: make([]dto.MostReturnedProduct, 0, len(top)),
	}
	for _, p := range top {
		stats.MostReturnedProducts = append(stats.MostReturnedProducts, dto.MostReturnedProduct{
			ProductName:   p.ProductName,
			ProductCode:   p.ProductCode,
			TotalReturned: p.TotalReturned,
			ReturnCount:   p.ReturnCount,
		})
	}
	return stats, nil
}

func (r *returnRepo) DB() *gorm.DB { return r.db }
