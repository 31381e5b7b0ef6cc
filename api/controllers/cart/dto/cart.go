package cartdto

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/salonstore-backend/pkg/pricing"
)

// CartLine is one cart row rendered with the product's current values.
// Product fields are empty when the product no longer exists.
type CartLine struct {
	ID                          uuid.UUID             `json:"id"`
	ProductID                   uuid.UUID             `json:"product_id"`
	Quantity                    int                   `json:"quantity"`
	ProductAvailable            bool                  `json:"product_available"`
	ProductName                 string                `json:"product_name,omitempty"`
	SalonID                     *uuid.UUID            `json:"salon_id,omitempty"`
	SalonName                   string                `json:"salon_name,omitempty"`
	UnitPriceCents              int                   `json:"unit_price_cents"`
	EffectiveUnitPriceCents     int                   `json:"effective_unit_price_cents"`
	DiscountPercent             *int                  `json:"discount_percent,omitempty"`
	FormattedUnitPrice          string                `json:"formatted_unit_price,omitempty"`
	FormattedEffectiveUnitPrice string                `json:"formatted_effective_unit_price,omitempty"`
	LineTotalCents              int                   `json:"line_total_cents"`
	FormattedLineTotal          string                `json:"formatted_line_total,omitempty"`
	Availability                *pricing.Availability `json:"availability,omitempty"`
	CreatedAt                   time.Time             `json:"created_at"`
	UpdatedAt                   time.Time             `json:"updated_at"`
}

// CartTotals mirrors cart.Totals with display strings attached.
type CartTotals struct {
	SubtotalCents       int    `json:"subtotal_cents"`
	TotalDiscountCents  int    `json:"total_discount_cents"`
	FinalTotalCents     int    `json:"final_total_cents"`
	ItemCount           int    `json:"item_count"`
	Currency            string `json:"currency"`
	FormattedSubtotal   string `json:"formatted_subtotal"`
	FormattedDiscount   string `json:"formatted_discount"`
	FormattedFinalTotal string `json:"formatted_final_total"`
}

// MerchantGroup is the set of lines sold by a single salon.
type MerchantGroup struct {
	SalonName string     `json:"salon_name"`
	Lines     []CartLine `json:"lines"`
}

// CartSummary is the payload of GET /api/v1/cart.
type CartSummary struct {
	Lines  []CartLine      `json:"lines"`
	Totals CartTotals      `json:"totals"`
	Groups []MerchantGroup `json:"groups"`
}

// RemoveResult reports the outcome of DELETE /api/v1/cart/items/{lineId}.
type RemoveResult struct {
	Removed bool `json:"removed"`
}

// ClearResult reports how many lines DELETE /api/v1/cart removed.
type ClearResult struct {
	Removed int64 `json:"removed"`
}
