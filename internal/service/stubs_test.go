package service

import (
	"context"
	"strings"
	"time"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/dto"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/model"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Inventory repository stub ────────────────────────────────────────────────

type stubInventoryRepo struct {
	records      map[uuid.UUID]*model.Inventory
	movements    []model.InventoryMovement
	transferLogs []model.TransferLog
	products     map[uuid.UUID]*model.Product
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{
		records:  make(map[uuid.UUID]*model.Inventory),
		products: make(map[uuid.UUID]*model.Product),
	}
}

func (r *stubInventoryRepo) Create(_ context.Context, inv *model.Inventory) error {
	return r.CreateTx(nil, inv)
}

func (r *stubInventoryRepo) CreateTx(_ *gorm.DB, inv *model.Inventory) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.records[inv.ID] = inv
	return nil
}

func (r *stubInventoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Inventory, error) {
	inv, ok := r.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	inv.Product = r.products[inv.ProductID]
	return inv, nil
}

func (r *stubInventoryRepo) findByKey(storeID, productID uuid.UUID, variantID *uuid.UUID) (*model.Inventory, error) {
	for _, inv := range r.records {
		if inv.StoreID != storeID || inv.ProductID != productID {
			continue
		}
		if (inv.VariantID == nil) != (variantID == nil) {
			continue
		}
		if variantID != nil && *inv.VariantID != *variantID {
			continue
		}
		return inv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInventoryRepo) FindByKey(_ context.Context, storeID, productID uuid.UUID, variantID *uuid.UUID) (*model.Inventory, error) {
	return r.findByKey(storeID, productID, variantID)
}

func (r *stubInventoryRepo) FindByKeyTx(_ *gorm.DB, storeID, productID uuid.UUID, variantID *uuid.UUID) (*model.Inventory, error) {
	return r.findByKey(storeID, productID, variantID)
}

func (r *stubInventoryRepo) FindByKeyForUpdateTx(_ *gorm.DB, storeID, productID uuid.UUID, variantID *uuid.UUID) (*model.Inventory, error) {
	return r.findByKey(storeID, productID, variantID)
}

func (r *stubInventoryRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Inventory, error) {
	inv, ok := r.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *stubInventoryRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, newStock int, stockTake bool) error {
	inv, ok := r.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.CurrentStock = newStock
	if stockTake {
		now := time.Now()
		inv.LastStockTakeDate = &now
	}
	return nil
}

func (r *stubInventoryRepo) CreateMovementTx(_ *gorm.DB, m *model.InventoryMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.MovementDate = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubInventoryRepo) CreateTransferLogTx(_ *gorm.DB, l *model.TransferLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.transferLogs = append(r.transferLogs, *l)
	return nil
}

func (r *stubInventoryRepo) ListWithDetails(_ context.Context, _ dto.InventoryFilter) ([]model.Inventory, error) {
	out := make([]model.Inventory, 0, len(r.records))
	for _, inv := range r.records {
		out = append(out, *inv)
	}
	return out, nil
}

func (r *stubInventoryRepo) Summary(_ context.Context) (dto.InventorySummary, error) {
	var s dto.InventorySummary
	for _, inv := range r.records {
		s.TotalSKUs++
		s.TotalStock += int64(inv.CurrentStock)
		if inv.CurrentStock == 0 {
			s.OutOfStockCount++
		}
		if p, ok := r.products[inv.ProductID]; ok {
			if inv.CurrentStock <= p.ReorderLevel {
				s.LowStockCount++
			}
			if p.MaxStockLevel != nil && inv.CurrentStock > *p.MaxStockLevel {
				s.OverStockCount++
			}
		}
	}
	return s, nil
}

func (r *stubInventoryRepo) ListMovements(_ context.Context, filter dto.MovementFilter) ([]model.InventoryMovement, error) {
	out := make([]model.InventoryMovement, 0, len(r.movements))
	for _, m := range r.movements {
		if filter.MovementType != "" && m.MovementType != filter.MovementType {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *stubInventoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.records, id)
	kept := r.movements[:0]
	for _, m := range r.movements {
		if m.InventoryID != id {
			kept = append(kept, m)
		}
	}
	r.movements = kept
	return nil
}

func (r *stubInventoryRepo) AvailableProducts(_ context.Context, _ uuid.UUID) ([]dto.AvailableProduct, error) {
	return []dto.AvailableProduct{}, nil
}

func (r *stubInventoryRepo) DB() *gorm.DB { return nil }

var _ repository.InventoryRepository = (*stubInventoryRepo)(nil)

// movementsOfType filters the recorded ledger for assertions.
func (r *stubInventoryRepo) movementsOfType(movementType string) []model.InventoryMovement {
	var out []model.InventoryMovement
	for _, m := range r.movements {
		if m.MovementType == movementType {
			out = append(out, m)
		}
	}
	return out
}

// ── Product repository stub ──────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	variants map[uuid.UUID]*model.ProductVariant
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		variants: make(map[uuid.UUID]*model.ProductVariant),
	}
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindVariantByID(_ context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Store / settings repository stubs ────────────────────────────────────────

type stubStoreRepo struct {
	stores map[uuid.UUID]*model.Store
}

func newStubStoreRepo() *stubStoreRepo {
	return &stubStoreRepo{stores: make(map[uuid.UUID]*model.Store)}
}

func (r *stubStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubStoreRepo) List(_ context.Context) ([]model.Store, error) {
	out := make([]model.Store, 0, len(r.stores))
	for _, s := range r.stores {
		out = append(out, *s)
	}
	return out, nil
}

var _ repository.StoreRepository = (*stubStoreRepo)(nil)

type stubSettingsRepo struct {
	paymentMethods map[uuid.UUID]*model.PaymentMethod
	users          map[uuid.UUID]*model.User
}

func newStubSettingsRepo() *stubSettingsRepo {
	return &stubSettingsRepo{
		paymentMethods: make(map[uuid.UUID]*model.PaymentMethod),
		users:          make(map[uuid.UUID]*model.User),
	}
}

func (r *stubSettingsRepo) ListPaymentMethods(_ context.Context, _ bool) ([]model.PaymentMethod, error) {
	out := make([]model.PaymentMethod, 0, len(r.paymentMethods))
	for _, m := range r.paymentMethods {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubSettingsRepo) FindPaymentMethodByID(_ context.Context, id uuid.UUID) (*model.PaymentMethod, error) {
	m, ok := r.paymentMethods[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubSettingsRepo) ListCategories(_ context.Context) ([]model.Category, error) { return nil, nil }
func (r *stubSettingsRepo) ListBrands(_ context.Context) ([]model.Brand, error)        { return nil, nil }

func (r *stubSettingsRepo) ListUsers(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubSettingsRepo) FindUserByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

var _ repository.SettingsRepository = (*stubSettingsRepo)(nil)

// ── Customer repository stub ─────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
	history   []model.LoyaltyPointsHistory
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) AddLoyaltyPointsTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.TotalLoyaltyPoints += delta
	if c.TotalLoyaltyPoints < 0 {
		c.TotalLoyaltyPoints = 0
	}
	if delta > 0 {
		now := time.Now()
		c.LastPurchaseDate = &now
	}
	return nil
}

func (r *stubCustomerRepo) CreateLoyaltyHistoryTx(_ *gorm.DB, h *model.LoyaltyPointsHistory) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	r.history = append(r.history, *h)
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Sale repository stub ─────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale

	// beforeLockedRead runs just before FindByIDForUpdateTx reads, standing
	// in for another transaction committing ahead of this one's lock.
	beforeLockedRead func()
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

// copySale mimics gorm materializing a fresh struct per query, so callers
// mutating the result cannot reach the stored record.
func copySale(s *model.Sale) *model.Sale {
	out := *s
	out.SaleItems = make([]model.SaleItem, len(s.SaleItems))
	copy(out.SaleItems, s.SaleItems)
	out.Payments = make([]model.Payment, len(s.Payments))
	copy(out.Payments, s.Payments)
	return &out
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, sale *model.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	sale.SaleDate = time.Now()
	for i := range sale.SaleItems {
		if sale.SaleItems[i].ID == uuid.Nil {
			sale.SaleItems[i].ID = uuid.New()
		}
		sale.SaleItems[i].SaleID = sale.ID
	}
	for i := range sale.Payments {
		if sale.Payments[i].ID == uuid.Nil {
			sale.Payments[i].ID = uuid.New()
		}
		sale.Payments[i].SaleID = sale.ID
	}
	r.sales[sale.ID] = sale
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copySale(s), nil
}

func (r *stubSaleRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	if r.beforeLockedRead != nil {
		r.beforeLockedRead()
	}
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copySale(s), nil
}

func (r *stubSaleRepo) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		if filter.PaymentStatus != "" && s.PaymentStatus != filter.PaymentStatus {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) CountOnDate(_ context.Context, day time.Time) (int64, error) {
	var count int64
	for _, s := range r.sales {
		if s.SaleDate.Year() == day.Year() && s.SaleDate.YearDay() == day.YearDay() {
			count++
		}
	}
	return count, nil
}

func (r *stubSaleRepo) InvoiceNumberExists(_ context.Context, invoiceNumber string) (bool, error) {
	for _, s := range r.sales {
		if s.InvoiceNumber == invoiceNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubSaleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string, notes *string) error {
	s, ok := r.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.PaymentStatus = status
	if notes != nil {
		s.Notes = notes
	}
	return nil
}

func (r *stubSaleRepo) IncrementItemReturnedTx(_ *gorm.DB, saleItemID uuid.UUID, qty int) (int64, error) {
	for _, s := range r.sales {
		for i := range s.SaleItems {
			if s.SaleItems[i].ID == saleItemID {
				if s.SaleItems[i].QuantityReturned+qty > s.SaleItems[i].Quantity {
					return 0, nil
				}
				s.SaleItems[i].QuantityReturned += qty
				return 1, nil
			}
		}
	}
	return 0, nil
}

func (r *stubSaleRepo) FindReturnable(_ context.Context, search, storeID string, _ int) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.PaymentStatus != model.PaymentStatusPaid && s.PaymentStatus != model.PaymentStatusPartial {
			continue
		}
		if storeID != "" && s.StoreID.String() != storeID {
			continue
		}
		if search != "" && !strings.Contains(s.InvoiceNumber, search) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSaleRepo) Stats(_ context.Context, filter dto.StatsFilter) (dto.SalesStats, error) {
	stats := dto.SalesStats{}
	for _, s := range r.sales {
		if s.PaymentStatus == model.PaymentStatusVoid {
			continue
		}
		if filter.StoreID != "" && s.StoreID.String() != filter.StoreID {
			continue
		}
		stats.TotalSales = stats.TotalSales.Add(s.GrandTotal)
		stats.TotalTax = stats.TotalTax.Add(s.TaxAmount)
		stats.TotalDiscount = stats.TotalDiscount.Add(s.DiscountAmount)
		stats.SalesCount++
	}
	if stats.SalesCount > 0 {
		stats.AverageSale = stats.TotalSales.Div(decimal.NewFromInt(stats.SalesCount))
	}
	return stats, nil
}

func (r *stubSaleRepo) DailyReport(_ context.Context, day time.Time, storeID string) (dto.DailySalesReport, error) {
	report := dto.DailySalesReport{Date: day.Format("2006-01-02")}
	for _, s := range r.sales {
		if s.PaymentStatus == model.PaymentStatusVoid {
			continue
		}
		if storeID != "" && s.StoreID.String() != storeID {
			continue
		}
		if s.SaleDate.Year() != day.Year() || s.SaleDate.YearDay() != day.YearDay() {
			continue
		}
		report.TotalSales = report.TotalSales.Add(s.GrandTotal)
		report.SalesCount++
	}
	return report, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Return repository stub ───────────────────────────────────────────────────

type stubReturnRepo struct {
	returns map[uuid.UUID]*model.Return
}

func newStubReturnRepo() *stubReturnRepo {
	return &stubReturnRepo{returns: make(map[uuid.UUID]*model.Return)}
}

func (r *stubReturnRepo) CreateTx(_ *gorm.DB, ret *model.Return) error {
	if ret.ID == uuid.Nil {
		ret.ID = uuid.New()
	}
	ret.ReturnDate = time.Now()
	for i := range ret.ReturnItems {
		if ret.ReturnItems[i].ID == uuid.Nil {
			ret.ReturnItems[i].ID = uuid.New()
		}
		ret.ReturnItems[i].ReturnID = ret.ID
	}
	r.returns[ret.ID] = ret
	return nil
}

func (r *stubReturnRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Return, error) {
	ret, ok := r.returns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ret, nil
}

func (r *stubReturnRepo) List(_ context.Context, _ dto.ReturnFilter) ([]model.Return, int64, error) {
	out := make([]model.Return, 0, len(r.returns))
	for _, ret := range r.returns {
		out = append(out, *ret)
	}
	return out, int64(len(out)), nil
}

func (r *stubReturnRepo) SumRefundsForSaleTx(_ *gorm.DB, saleID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, ret := range r.returns {
		if ret.SaleID == saleID {
			sum = sum.Add(ret.RefundAmount)
		}
	}
	return sum, nil
}

func (r *stubReturnRepo) Stats(_ context.Context, filter dto.StatsFilter) (dto.ReturnsStats, error) {
	stats := dto.ReturnsStats{MostReturnedProducts: []dto.MostReturnedProduct{}}
	for _, ret := range r.returns {
		stats.TotalReturns = stats.TotalReturns.Add(ret.RefundAmount)
		stats.ReturnsCount++
	}
	if stats.ReturnsCount > 0 {
		stats.AverageReturn = stats.TotalReturns.Div(decimal.NewFromInt(stats.ReturnsCount))
	}
	return stats, nil
}

func (r *stubReturnRepo) DB() *gorm.DB { return nil }

var _ repository.ReturnRepository = (*stubReturnRepo)(nil)

// ── Shared fixtures ──────────────────────────────────────────────────────────

type fixture struct {
	inventoryRepo *stubInventoryRepo
	productRepo   *stubProductRepo
	storeRepo     *stubStoreRepo
	settingsRepo  *stubSettingsRepo
	customerRepo  *stubCustomerRepo
	saleRepo      *stubSaleRepo
	returnRepo    *stubReturnRepo

	inventory InventoryService
	sales     SaleService
	returns   ReturnService
	transfers TransferService

	store   *model.Store
	user    *model.User
	cash    *model.PaymentMethod
	taxed   *model.TaxCategory
	cashier uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		inventoryRepo: newStubInventoryRepo(),
		productRepo:   newStubProductRepo(),
		storeRepo:     newStubStoreRepo(),
		settingsRepo:  newStubSettingsRepo(),
		customerRepo:  newStubCustomerRepo(),
		saleRepo:      newStubSaleRepo(),
		returnRepo:    newStubReturnRepo(),
	}

	f.inventory = NewInventoryService(f.inventoryRepo, f.productRepo, f.storeRepo, f.settingsRepo, nil, nil, 60)
	f.sales = NewSaleService(f.saleRepo, f.inventory, f.inventoryRepo, f.productRepo, f.customerRepo, f.settingsRepo, f.storeRepo)
	f.returns = NewReturnService(f.returnRepo, f.saleRepo, f.inventory, f.inventoryRepo, f.customerRepo, f.settingsRepo)
	f.transfers = NewTransferService(f.inventoryRepo, f.storeRepo, f.inventory)

	f.store = f.seedStore("Main Street")
	f.user = f.seedUser("jdoe")
	f.cashier = f.user.ID
	f.cash = f.seedPaymentMethod("Cash")
	f.taxed = &model.TaxCategory{ID: uuid.New(), Name: "Standard", TaxRate: decimal.NewFromInt(10), IsActive: true}

	return f
}

func (f *fixture) seedStore(name string) *model.Store {
	s := &model.Store{ID: uuid.New(), StoreName: name, Address: "123 High St", IsActive: true}
	f.storeRepo.stores[s.ID] = s
	return s
}

func (f *fixture) seedUser(username string) *model.User {
	u := &model.User{ID: uuid.New(), Username: username, FirstName: "Jane", LastName: "Doe", Email: username + "@example.com", IsActive: true}
	f.settingsRepo.users[u.ID] = u
	return u
}

func (f *fixture) seedPaymentMethod(name string) *model.PaymentMethod {
	m := &model.PaymentMethod{ID: uuid.New(), MethodName: name, IsActive: true}
	f.settingsRepo.paymentMethods[m.ID] = m
	return m
}

func (f *fixture) seedCustomer(first, last string) *model.Customer {
	c := &model.Customer{ID: uuid.New(), FirstName: first, LastName: last, IsActive: true}
	f.customerRepo.customers[c.ID] = c
	return c
}

// seedProduct creates a product priced at price with the given reorder level.
// Pass taxed=true to attach the 10% tax category.
func (f *fixture) seedProduct(name string, price float64, reorderLevel int, taxed bool) *model.Product {
	p := &model.Product{
		ID:           uuid.New(),
		ProductCode:  "P-" + uuid.NewString()[:8],
		ProductName:  name,
		BasePrice:    decimal.NewFromFloat(price),
		RetailPrice:  decimal.NewFromFloat(price),
		ReorderLevel: reorderLevel,
		IsActive:     true,
	}
	if taxed {
		p.TaxCategoryID = &f.taxed.ID
		p.TaxCategory = f.taxed
	}
	f.productRepo.products[p.ID] = p
	f.inventoryRepo.products[p.ID] = p
	return p
}

// seedInventory creates the stock record for product at store.
func (f *fixture) seedInventory(storeID uuid.UUID, product *model.Product, stock int) *model.Inventory {
	inv := &model.Inventory{
		ID:           uuid.New(),
		ProductID:    product.ID,
		StoreID:      storeID,
		CurrentStock: stock,
	}
	f.inventoryRepo.records[inv.ID] = inv
	return inv
}
