package orders

import (
	"github.com/shopspring/decimal"

	"sportsgear/internal/models"
)

// Pricing holds the checkout fee rules.
type Pricing struct {
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	TaxRate               decimal.Decimal
}

// Totals are the four order amounts, rounded to cents.
type Totals struct {
	Items    decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Quote prices the snapshotted items. Shipping is free once the items total
// exceeds the threshold.
func (p Pricing) Quote(items []models.OrderItem) Totals {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	sum = sum.Round(2)

	shipping := p.ShippingFee
	if sum.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	shipping = shipping.Round(2)
	tax := sum.Mul(p.TaxRate).Round(2)

	return Totals{
		Items:    sum,
		Shipping: shipping,
		Tax:      tax,
		Total:    sum.Add(shipping).Add(tax),
	}
}

// Matches reports whether two quotes agree to the cent.
func (t Totals) Matches(other Totals) bool {
	return t.Items.Round(2).Equal(other.Items.Round(2)) &&
		t.Shipping.Round(2).Equal(other.Shipping.Round(2)) &&
		t.Tax.Round(2).Equal(other.Tax.Round(2)) &&
		t.Total.Round(2).Equal(other.Total.Round(2))
}

func (t Totals) applyTo(order *models.Order) {
	order.ItemsPrice = t.Items.InexactFloat64()
	order.ShippingPrice = t.Shipping.InexactFloat64()
	order.TaxPrice = t.Tax.InexactFloat64()
	order.TotalPrice = t.Total.InexactFloat64()
}
