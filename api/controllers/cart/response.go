package cart

import (
	cartdto "github.com/angelmondragon/salonstore-backend/api/controllers/cart/dto"
	cartsvc "github.com/angelmondragon/salonstore-backend/internal/cart"
	"github.com/angelmondragon/salonstore-backend/pkg/enums"
	"github.com/angelmondragon/salonstore-backend/pkg/pricing"
)

// View controls how prices and stock are rendered to shoppers.
type View struct {
	LowStockThreshold int
	Currency          enums.Currency
}

func (v View) normalized() View {
	if v.Currency == "" {
		v.Currency = enums.CurrencyUSD
	}
	if v.LowStockThreshold <= 0 {
		v.LowStockThreshold = pricing.LowStockThreshold
	}
	return v
}

func newCartLine(line cartsvc.Line, view View) cartdto.CartLine {
	out := cartdto.CartLine{
		ID:               line.ID,
		ProductID:        line.ProductID,
		Quantity:         line.Quantity,
		ProductAvailable: line.Resolved(),
		CreatedAt:        line.CreatedAt,
		UpdatedAt:        line.UpdatedAt,
	}
	if !line.Resolved() {
		return out
	}

	product := line.Product
	salonID := product.SalonID
	effective := line.EffectiveUnitPriceCents()
	availability := pricing.AvailabilityWithThreshold(product.AvailableQuantity, view.LowStockThreshold)

	out.ProductName = product.Name
	out.SalonID = &salonID
	out.SalonName = line.MerchantName
	out.UnitPriceCents = line.UnitPriceCents()
	out.EffectiveUnitPriceCents = effective
	out.DiscountPercent = product.DiscountPercent
	out.FormattedUnitPrice = pricing.FormatCents(out.UnitPriceCents, view.Currency)
	out.FormattedEffectiveUnitPrice = pricing.FormatCents(effective, view.Currency)
	out.LineTotalCents = effective * line.Quantity
	out.FormattedLineTotal = pricing.FormatCents(out.LineTotalCents, view.Currency)
	out.Availability = &availability
	return out
}

func newCartTotals(totals cartsvc.Totals, view View) cartdto.CartTotals {
	return cartdto.CartTotals{
		SubtotalCents:       totals.SubtotalCents,
		TotalDiscountCents:  totals.TotalDiscountCents,
		FinalTotalCents:     totals.FinalTotalCents,
		ItemCount:           totals.ItemCount,
		Currency:            view.Currency.String(),
		FormattedSubtotal:   pricing.FormatCents(totals.SubtotalCents, view.Currency),
		FormattedDiscount:   pricing.FormatCents(totals.TotalDiscountCents, view.Currency),
		FormattedFinalTotal: pricing.FormatCents(totals.FinalTotalCents, view.Currency),
	}
}

func newCartSummary(summary *cartsvc.Summary, view View) cartdto.CartSummary {
	out := cartdto.CartSummary{
		Lines:  make([]cartdto.CartLine, 0, len(summary.Lines)),
		Totals: newCartTotals(summary.Totals, view),
		Groups: make([]cartdto.MerchantGroup, 0, len(summary.MerchantOrder)),
	}
	for _, line := range summary.Lines {
		out.Lines = append(out.Lines, newCartLine(line, view))
	}
	for _, name := range summary.MerchantOrder {
		lines := summary.Groups[name]
		group := cartdto.MerchantGroup{SalonName: name, Lines: make([]cartdto.CartLine, 0, len(lines))}
		for _, line := range lines {
			group.Lines = append(group.Lines, newCartLine(line, view))
		}
		out.Groups = append(out.Groups, group)
	}
	return out
}
