package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
)

// Indonesian VAT applied to the goods subtotal.
var taxRate = decimal.RequireFromString("0.11")

// BuildQuote prices the cart against the chosen shipping method. Totals are
// recomputed on every call so a changed cart can never ship stale numbers.
func BuildQuote(items []models.CartItem, method enums.ShippingMethod, currency string) QuoteDTO {
	var subtotal int64
	for i := range items {
		subtotal += items[i].UnitPriceCents * int64(items[i].Quantity)
	}

	tax := decimal.NewFromInt(subtotal).Mul(taxRate).Round(0).IntPart()
	shipping := method.CostCents()

	return QuoteDTO{
		SubtotalCents: subtotal,
		ShippingCents: shipping,
		TaxCents:      tax,
		TotalCents:    subtotal + shipping + tax,
		Currency:      currency,
	}
}
