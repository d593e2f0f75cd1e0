// Package pricing computes line-item and order totals. It is a pure
// calculator: no persistence, no error conditions. Monetary values stay
// unrounded during accumulation; callers round to 2 decimals only at the
// persistence boundary to avoid compounding rounding error.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineItem is one sale line as entered at the till. TaxRate is a percentage
// (10 means 10%).
type LineItem struct {
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPerItem decimal.Decimal
	TaxRate         decimal.Decimal
}

// ItemTotals carries the computed amounts for one line.
type ItemTotals struct {
	Subtotal   decimal.Decimal // quantity x unit_price
	Discount   decimal.Decimal // quantity x discount_per_item
	Taxable    decimal.Decimal // subtotal - discount
	Tax        decimal.Decimal // taxable x tax_rate / 100
	TaxPerItem decimal.Decimal // tax / quantity (zero when quantity is 0)
	LineTotal  decimal.Decimal // taxable + tax
}

// Totals aggregates an order.
type Totals struct {
	Items        []ItemTotals
	Subtotal     decimal.Decimal
	ItemDiscount decimal.Decimal
	Discount     decimal.Decimal // order-level discount, echoed back
	Tax          decimal.Decimal
	GrandTotal   decimal.Decimal
}

// Calculate computes per-item and aggregate totals for an ordered list of
// line items plus an order-level discount:
//
//	grand_total = subtotal - total_item_discount - discount + total_tax
func Calculate(items []LineItem, orderDiscount decimal.Decimal) Totals {
	t := Totals{
		Items:        make([]ItemTotals, 0, len(items)),
		Subtotal:     decimal.Zero,
		ItemDiscount: decimal.Zero,
		Discount:     orderDiscount,
		Tax:          decimal.Zero,
	}

	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		sub := qty.Mul(it.UnitPrice)
		disc := qty.Mul(it.DiscountPerItem)
		taxable := sub.Sub(disc)
		tax := taxable.Mul(it.TaxRate).Div(hundred)

		taxPerItem := decimal.Zero
		if it.Quantity > 0 {
			taxPerItem = tax.Div(qty)
		}

		t.Items = append(t.Items, ItemTotals{
			Subtotal:   sub,
			Discount:   disc,
			Taxable:    taxable,
			Tax:        tax,
			TaxPerItem: taxPerItem,
			LineTotal:  taxable.Add(tax),
		})

		t.Subtotal = t.Subtotal.Add(sub)
		t.ItemDiscount = t.ItemDiscount.Add(disc)
		t.Tax = t.Tax.Add(tax)
	}

	t.GrandTotal = t.Subtotal.Sub(t.ItemDiscount).Sub(orderDiscount).Add(t.Tax)
	return t
}

// Round2 rounds a monetary value for persistence.
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
