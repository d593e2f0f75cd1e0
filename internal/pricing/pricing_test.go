package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculate_TwoItemsWithDiscountAndTax(t *testing.T) {
	// qty 2 @ $10, $1/item discount, 10% tax; qty 1 @ $20, no discount, 10% tax
	items := []LineItem{
		{Quantity: 2, UnitPrice: dec("10"), DiscountPerItem: dec("1"), TaxRate: dec("10")},
		{Quantity: 1, UnitPrice: dec("20"), DiscountPerItem: decimal.Zero, TaxRate: dec("10")},
	}

	got := Calculate(items, decimal.Zero)

	assert.True(t, got.Subtotal.Equal(dec("40")), "subtotal = %s", got.Subtotal)
	assert.True(t, got.ItemDiscount.Equal(dec("2")), "item discount = %s", got.ItemDiscount)
	assert.True(t, got.Tax.Equal(dec("3.80")), "tax = %s", got.Tax)
	assert.True(t, got.GrandTotal.Equal(dec("41.80")), "grand total = %s", got.GrandTotal)

	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[0].Taxable.Equal(dec("18")))
	assert.True(t, got.Items[0].Tax.Equal(dec("1.80")))
	assert.True(t, got.Items[0].TaxPerItem.Equal(dec("0.90")))
	assert.True(t, got.Items[0].LineTotal.Equal(dec("19.80")))
	assert.True(t, got.Items[1].LineTotal.Equal(dec("22")))
}

func TestCalculate_OrderDiscountSubtractedBeforeTaxAddition(t *testing.T) {
	items := []LineItem{
		{Quantity: 3, UnitPrice: dec("5"), DiscountPerItem: decimal.Zero, TaxRate: dec("21")},
	}

	got := Calculate(items, dec("2.50"))

	// grand = 15 - 0 - 2.50 + 3.15
	assert.True(t, got.GrandTotal.Equal(dec("15.65")), "grand total = %s", got.GrandTotal)
}

func TestCalculate_IdentityHoldsForRandomishInputs(t *testing.T) {
	cases := [][]LineItem{
		{},
		{{Quantity: 1, UnitPrice: dec("0.99"), DiscountPerItem: dec("0.10"), TaxRate: dec("7.5")}},
		{
			{Quantity: 7, UnitPrice: dec("13.37"), DiscountPerItem: dec("0.37"), TaxRate: dec("19")},
			{Quantity: 2, UnitPrice: dec("104.50"), DiscountPerItem: decimal.Zero, TaxRate: decimal.Zero},
			{Quantity: 11, UnitPrice: dec("1.05"), DiscountPerItem: dec("0.05"), TaxRate: dec("5")},
		},
	}
	discounts := []decimal.Decimal{decimal.Zero, dec("1"), dec("12.34")}

	for _, items := range cases {
		for _, disc := range discounts {
			got := Calculate(items, disc)
			want := got.Subtotal.Sub(got.ItemDiscount).Sub(disc).Add(got.Tax)
			assert.True(t, got.GrandTotal.Equal(want),
				"grand_total identity violated: got %s want %s", got.GrandTotal, want)
		}
	}
}

func TestCalculate_ZeroQuantityItemContributesNothing(t *testing.T) {
	items := []LineItem{
		{Quantity: 0, UnitPrice: dec("10"), DiscountPerItem: dec("1"), TaxRate: dec("10")},
	}

	got := Calculate(items, decimal.Zero)

	assert.True(t, got.GrandTotal.IsZero())
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].TaxPerItem.IsZero())
}

func TestRound2(t *testing.T) {
	assert.True(t, Round2(dec("1.005")).Equal(dec("1.01")))
	assert.True(t, Round2(dec("41.799999")).Equal(dec("41.80")))
}
