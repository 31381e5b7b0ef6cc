package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a salon listing. AvailableQuantity is the sellable stock count;
// DiscountPercent is nil when no discount applies.
type Product struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SalonID           uuid.UUID `gorm:"column:salon_id;type:uuid;not null;index:idx_products_salon_public"`
	Name              string    `gorm:"column:name;not null"`
	PriceCents        int       `gorm:"column:price_cents;not null"`
	AvailableQuantity int       `gorm:"column:available_quantity;not null;default:0"`
	DiscountPercent   *int      `gorm:"column:discount_percent"`
	IsPublic          bool      `gorm:"column:is_public;not null;index:idx_products_salon_public"`
	Salon             *Salon    `gorm:"foreignKey:SalonID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// MerchantName returns the owning salon's name when it was preloaded.
func (p *Product) MerchantName() string {
	if p == nil || p.Salon == nil {
		return ""
	}
	return p.Salon.Name
}
