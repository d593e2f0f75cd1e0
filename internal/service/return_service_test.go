package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/apierror"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/dto"
	"github.com/tayyabk52/POS-SYSTEM-REACT-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sellAndFetch commits a sale of qty units and returns the stored model.
func sellAndFetch(t *testing.T, f *fixture, product *model.Product, qty int, paid float64) *model.Sale {
	t.Helper()
	resp, err := f.sales.CommitSale(context.Background(), f.cashier, saleRequest(f, product, qty, paid))
	require.NoError(t, err)
	return f.saleRepo.sales[uuid.MustParse(resp.SaleID)]
}

func returnRequest(f *fixture, sale *model.Sale, qty int) dto.CreateReturnRequest {
	return dto.CreateReturnRequest{
		SaleID:         sale.ID.String(),
		Reason:         "defective",
		RefundMethodID: f.cash.ID.String(),
		ReturnItems: []dto.ReturnItemRequest{
			{SaleItemID: sale.SaleItems[0].ID.String(), QuantityReturned: qty},
		},
	}
}

func TestCreateReturn_PartialRestoresStock(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("Desk Lamp", 30.00, 0, false)
	inv := f.seedInventory(f.store.ID, p, 10)
	sale := sellAndFetch(t, f, p, 3, 90.00)
	require.Equal(t, 7, f.inventoryRepo.records[inv.ID].CurrentStock)

	resp, err := f.returns.CreateReturn(context.Background(), f.cashier, returnRequest(f, sale, 2))
	require.NoError(t, err)

	assert.Equal(t, 9, f.inventoryRepo.records[inv.ID].CurrentStock)
	assert.Equal(t, 2, sale.SaleItems[0].QuantityReturned)
	// 2 of 3 returned: the sale stays PAID
	assert.Equal(t, model.PaymentStatusPaid, sale.PaymentStatus)
	assert.Equal(t, "60", resp.RefundAmount.String())

	movements := f.inventoryRepo.movementsOfType(model.MovementReturn)
	require.Len(t, movements, 1)
	assert.Equal(t, 2, movements[0].Quantity)
	require.NotNil(t, movements[0].ReferenceID)
	assert.Equal(t, resp.ReturnID, movements[0].ReferenceID.String())
}

func TestCreateReturn_OverReturnRejected(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("Coffee Mug", 8.00, 0, false)
	inv := f.seedInventory(f.store.ID, p, 10)
	sale := sellAndFetch(t, f, p, 3, 24.00)

	_, err := f.returns.CreateReturn(context.Background(), f.cashier, returnRequest(f, sale, 2))
	require.NoError(t, err)

	// Only 1 remains returnable; asking for 2 must fail with no stock change
	_, err = f.returns.CreateReturn(context.Background(), f.cashier, returnRequest(f, sale, 2))
	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierror.CodeOverReturn, apiErr.Code)
	assert.Equal(t, 9, f.inventoryRepo.records[inv.ID].CurrentStock)
	assert.Equal(t, 2, sale.SaleItems[0].QuantityReturned)
}

func TestCreateReturn_FullReturnMarksRefunded(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("Table Clock", 45.00, 0, false)
	f.seedInventory(f.store.ID, p, 5)
	sale := sellAndFetch(t, f, p, 2, 90.00)

	_, err := f.returns.CreateReturn(context.Background(), f.cashier, returnRequest(f, sale, 2))
	require.NoError(t, err)

	assert.Equal(t, model.PaymentStatusRefunded, sale.PaymentStatus)
}

func TestCreateReturn_VoidSaleRejected(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("Picture Frame", 12.00, 0, false)
	f.seedInventory(f.store.ID, p, 10)
	sale := sellAndFetch(t, f, p, 1, 12.00)

	_, err := f.sales.VoidSale(context.Background(), sale.ID, f.cashier, "rang up twice")
	require.NoError(t, err)

	_, err = f.returns.CreateReturn(context.Background(), f.cashier, returnRequest(f, sale, 1))
	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierror.CodeValidation, apiErr.Code)
}

func TestCreateReturn_ExplicitRefundPerItem(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("Throw Pillow", 20.00, 0, false)
	f.seedInventory(f.store.ID, p, 10)
	sale := sellAndFetch(t, f, p, 2, 40.00)

	req := returnRequest(f, sale, 1)
	req.ReturnItems[0].RefundPerItem = decimal.NewFromFloat(15.00)

	resp, err := f.returns.CreateReturn(context.Background(), f.cashier, req)
	require.NoError(t, err)
	assert.Equal(t, "15", resp.RefundAmount.String())
}

func TestCreateReturn_LoyaltyClawback(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("Area Rug", 150.00, 0, false)
	f.seedInventory(f.store.ID, p, 5)
	customer := f.seedCustomer("Kim", "Park")

	req := saleRequest(f, p, 2, 300.00)
	cid := customer.ID.String()
	req.CustomerID = &cid
	resp, err := f.sales.CommitSale(context.Background(), f.cashier, req)
	require.NoError(t, err)
	require.Equal(t, 3, f.customerRepo.customers[customer.ID].TotalLoyaltyPoints)

	sale := f.saleRepo.sales[uuid.MustParse(resp.SaleID)]
	// Returning one unit refunds 150.00, clawing back floor(150/100) = 1 point
	_, err = f.returns.CreateReturn(context.Background(), f.cashier, returnRequest(f, sale, 1))
	require.NoError(t, err)

	assert.Equal(t, 2, f.customerRepo.customers[customer.ID].TotalLoyaltyPoints)
}

func TestCreateReturn_DuplicateLineRejected(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("Candle Set", 18.00, 0, false)
	f.seedInventory(f.store.ID, p, 10)
	sale := sellAndFetch(t, f, p, 4, 72.00)

	req := returnRequest(f, sale, 1)
	req.ReturnItems = append(req.ReturnItems, dto.ReturnItemRequest{
		SaleItemID:       sale.SaleItems[0].ID.String(),
		QuantityReturned: 1,
	})

	_, err := f.returns.CreateReturn(context.Background(), f.cashier, req)
	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierror.CodeValidation, apiErr.Code)
}

func TestListReturnable_ExcludesFullyReturned(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("Wall Mirror", 60.00, 0, false)
	f.seedInventory(f.store.ID, p, 10)

	keep := sellAndFetch(t, f, p, 2, 120.00)
	exhaust := sellAndFetch(t, f, p, 1, 60.00)

	_, err := f.returns.CreateReturn(context.Background(), f.cashier, returnRequest(f, exhaust, 1))
	require.NoError(t, err)

	returnable, err := f.returns.ListReturnable(context.Background(), "", "", 50)
	require.NoError(t, err)

	require.Len(t, returnable, 1)
	assert.Equal(t, keep.ID.String(), returnable[0].SaleID)
	require.Len(t, returnable[0].ReturnableItems, 1)
	assert.Equal(t, 2, returnable[0].ReturnableItems[0].AvailableToReturn)
}

// A return that raced against another return sees the committed
// quantity_returned once the sale row lock is granted, and must reject
// rather than breach the per-line bound.
func TestCreateReturn_ConcurrentReturnRejectedUnderLock(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("Bike Pump", 25.00, 0, false)
	inv := f.seedInventory(f.store.ID, p, 10)
	sale := sellAndFetch(t, f, p, 3, 75.00)

	// The other till's return of 2 commits after our pre-flight read but
	// before our transaction acquires the row lock.
	f.saleRepo.beforeLockedRead = func() {
		f.saleRepo.sales[sale.ID].SaleItems[0].QuantityReturned = 2
	}

	_, err := f.returns.CreateReturn(context.Background(), f.cashier, returnRequest(f, sale, 2))
	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierror.CodeOverReturn, apiErr.Code)
	assert.Equal(t, 7, f.inventoryRepo.records[inv.ID].CurrentStock)
	assert.Equal(t, 2, sale.SaleItems[0].QuantityReturned)
}

// A void committed between the pre-flight read and the row lock must stop
// the return; the stale PAID snapshot cannot be trusted.
func TestCreateReturn_ConcurrentVoidRejectedUnderLock(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("Yoga Mat", 35.00, 0, false)
	inv := f.seedInventory(f.store.ID, p, 10)
	sale := sellAndFetch(t, f, p, 2, 70.00)

	f.saleRepo.beforeLockedRead = func() {
		f.saleRepo.sales[sale.ID].PaymentStatus = model.PaymentStatusVoid
	}

	_, err := f.returns.CreateReturn(context.Background(), f.cashier, returnRequest(f, sale, 1))
	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierror.CodeValidation, apiErr.Code)
	assert.Equal(t, 8, f.inventoryRepo.records[inv.ID].CurrentStock)
	require.Empty(t, f.inventoryRepo.movementsOfType(model.MovementReturn))
}

// REFUNDED tracks refunded money, not returned units: returning every unit
// at a reduced refund leaves the sale PAID.
func TestCreateReturn_PartialRefundKeepsPaid(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("Floor Lamp", 50.00, 0, false)
	f.seedInventory(f.store.ID, p, 5)
	sale := sellAndFetch(t, f, p, 2, 100.00)

	req := returnRequest(f, sale, 2)
	req.ReturnItems[0].RefundPerItem = decimal.NewFromFloat(25.00)

	resp, err := f.returns.CreateReturn(context.Background(), f.cashier, req)
	require.NoError(t, err)

	assert.Equal(t, "50", resp.RefundAmount.String())
	// 50 refunded of a 100 grand total
	assert.Equal(t, model.PaymentStatusPaid, sale.PaymentStatus)
	assert.Equal(t, 2, sale.SaleItems[0].QuantityReturned)
}

// A second return that pushes the refund sum past the grand total flips
// the sale to REFUNDED even though neither return covered it alone.
func TestCreateReturn_RefundSumReachesTotal(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("Bookshelf", 40.00, 0, false)
	f.seedInventory(f.store.ID, p, 5)
	sale := sellAndFetch(t, f, p, 2, 80.00)

	_, err := f.returns.CreateReturn(context.Background(), f.cashier, returnRequest(f, sale, 1))
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusPaid, sale.PaymentStatus)

	_, err = f.returns.CreateReturn(context.Background(), f.cashier, returnRequest(f, sale, 1))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusRefunded, sale.PaymentStatus)
}

// The defaulted per-unit refund is rounded before it is multiplied, so the
// stored refund_amount equals quantity x the stored refund_per_item.
func TestCreateReturn_DefaultRefundRoundsPerItem(t *testing.T) {
	f := newFixture()
	// 10.25 x 3 at 10% tax gives a line total of 33.83; a third of that
	// rounds to 11.28 per unit.
	p := f.seedProduct("Storage Bin", 10.25, 0, true)
	f.seedInventory(f.store.ID, p, 10)
	sale := sellAndFetch(t, f, p, 3, 33.83)

	resp, err := f.returns.CreateReturn(context.Background(), f.cashier, returnRequest(f, sale, 2))
	require.NoError(t, err)

	require.Len(t, resp.ReturnItems, 1)
	perItem := resp.ReturnItems[0].RefundPerItem
	assert.Equal(t, "11.28", perItem.String())
	assert.True(t, resp.RefundAmount.Equal(perItem.Mul(decimal.NewFromInt(2))),
		"refund_amount %s should equal 2 x %s", resp.RefundAmount, perItem)
}

func TestReturnsStats_Totals(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("Plant Pot", 10.00, 0, false)
	f.seedInventory(f.store.ID, p, 10)

	a := sellAndFetch(t, f, p, 2, 20.00)
	b := sellAndFetch(t, f, p, 1, 10.00)
	_, err := f.returns.CreateReturn(context.Background(), f.cashier, returnRequest(f, a, 1))
	require.NoError(t, err)
	_, err = f.returns.CreateReturn(context.Background(), f.cashier, returnRequest(f, b, 1))
	require.NoError(t, err)

	stats, err := f.returns.ReturnsStats(context.Background(), dto.StatsFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.ReturnsCount)
	assert.Equal(t, "20", stats.TotalReturns.String())
	assert.Equal(t, "10", stats.AverageReturn.String())
}
