package cart

import (
	"time"

	"github.com/angelmondragon/salonstore-backend/pkg/db/models"
	"github.com/angelmondragon/salonstore-backend/pkg/pricing"
	"github.com/google/uuid"
)

// Line is a persisted cart line joined with the current product snapshot.
// Product is nil when the referenced product no longer exists.
type Line struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	ProductID    uuid.UUID
	Quantity     int
	Product      *models.Product
	MerchantName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Totals are derived on every read and never persisted.
type Totals struct {
	SubtotalCents      int `json:"subtotal_cents"`
	TotalDiscountCents int `json:"total_discount_cents"`
	FinalTotalCents    int `json:"final_total_cents"`
	ItemCount          int `json:"item_count"`
}

// NewLine joins a stored line with the product snapshot it references.
func NewLine(stored models.CartLine, product *models.Product) Line {
	return Line{
		ID:           stored.ID,
		UserID:       stored.UserID,
		ProductID:    stored.ProductID,
		Quantity:     stored.Quantity,
		Product:      product,
		MerchantName: product.MerchantName(),
		CreatedAt:    stored.CreatedAt,
		UpdatedAt:    stored.UpdatedAt,
	}
}

// Resolved reports whether the line's product snapshot is present.
func (l Line) Resolved() bool {
	return l.Product != nil
}

// UnitPriceCents is the product's list price, or 0 for unresolved lines.
func (l Line) UnitPriceCents() int {
	if l.Product == nil {
		return 0
	}
	return l.Product.PriceCents
}

// EffectiveUnitPriceCents is the discounted per-unit price, or 0 for unresolved lines.
func (l Line) EffectiveUnitPriceCents() int {
	if l.Product == nil {
		return 0
	}
	return pricing.EffectiveUnitPrice(l.Product.PriceCents, l.Product.DiscountPercent)
}

// ComputeTotals folds lines into cart totals. Unresolved lines contribute nothing.
func ComputeTotals(lines []Line) Totals {
	var totals Totals
	for _, line := range lines {
		if !line.Resolved() {
			continue
		}
		itemSubtotal := line.UnitPriceCents() * line.Quantity
		itemDiscounted := line.EffectiveUnitPriceCents() * line.Quantity

		totals.SubtotalCents += itemSubtotal
		totals.TotalDiscountCents += itemSubtotal - itemDiscounted
		totals.ItemCount += line.Quantity
	}
	totals.FinalTotalCents = totals.SubtotalCents - totals.TotalDiscountCents
	return totals
}

// GroupByMerchant buckets lines by salon name, preserving input order within
// each bucket. Lines without a merchant name are left out.
func GroupByMerchant(lines []Line) map[string][]Line {
	groups := make(map[string][]Line)
	for _, line := range lines {
		if line.MerchantName == "" {
			continue
		}
		groups[line.MerchantName] = append(groups[line.MerchantName], line)
	}
	return groups
}

// MerchantOrder lists merchant names in order of first appearance.
func MerchantOrder(lines []Line) []string {
	seen := make(map[string]struct{})
	order := make([]string, 0)
	for _, line := range lines {
		if line.MerchantName == "" {
			continue
		}
		if _, ok := seen[line.MerchantName]; ok {
			continue
		}
		seen[line.MerchantName] = struct{}{}
		order = append(order, line.MerchantName)
	}
	return order
}
