// Package pricing holds the pure price and stock helpers shared by the cart and
// catalog read paths. Amounts are integer minor currency units (cents).
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/angelmondragon/salonstore-backend/pkg/enums"
)

// LowStockThreshold is the highest remaining quantity still reported as low stock.
const LowStockThreshold = 5

const maxDiscountPercent = 100

var hundred = decimal.NewFromInt(100)

// Availability describes how much of a product is left to sell.
type Availability struct {
	Status    enums.StockStatus `json:"status"`
	Remaining int               `json:"remaining"`
}

// EffectiveUnitPrice applies a percentage discount to a unit price, rounding half up
// to the nearest cent. Missing, non-positive, or out-of-range discounts leave the price unchanged.
func EffectiveUnitPrice(priceCents int, discountPercent *int) int {
	if !discountApplies(discountPercent) || priceCents <= 0 {
		return priceCents
	}
	remaining := decimal.NewFromInt(int64(maxDiscountPercent - *discountPercent))
	price := decimal.NewFromInt(int64(priceCents)).
		Mul(remaining).
		Div(hundred).
		Round(0)
	return int(price.IntPart())
}

// DiscountAmount returns the per-unit discount in cents.
func DiscountAmount(priceCents int, discountPercent *int) int {
	return priceCents - EffectiveUnitPrice(priceCents, discountPercent)
}

// AvailabilityFor classifies quantity against LowStockThreshold.
func AvailabilityFor(quantity int) Availability {
	return AvailabilityWithThreshold(quantity, LowStockThreshold)
}

// AvailabilityWithThreshold classifies quantity against a caller supplied threshold.
func AvailabilityWithThreshold(quantity, threshold int) Availability {
	if threshold < 0 {
		threshold = LowStockThreshold
	}
	switch {
	case quantity <= 0:
		return Availability{Status: enums.StockStatusOutOfStock, Remaining: 0}
	case quantity <= threshold:
		return Availability{Status: enums.StockStatusLowStock, Remaining: quantity}
	default:
		return Availability{Status: enums.StockStatusInStock, Remaining: quantity}
	}
}

// FormatCents renders an amount like "$1,234.50".
func FormatCents(cents int, currency enums.Currency) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	units := message.NewPrinter(language.English).Sprintf("%d", cents/100)
	return fmt.Sprintf("%s%s%s.%02d", sign, currency.Symbol(), units, cents%100)
}

func discountApplies(discountPercent *int) bool {
	if discountPercent == nil {
		return false
	}
	d := *discountPercent
	return d > 0 && d <= maxDiscountPercent
}
