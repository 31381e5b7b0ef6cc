package catalog

import (
	"context"

	"github.com/angelmondragon/salonstore-backend/internal/repo"
	"github.com/angelmondragon/salonstore-backend/pkg/db/models"
	"github.com/angelmondragon/salonstore-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads salons and products. The catalog never writes.
type Repository struct {
	repo.Base
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// GetSalon loads a salon by id.
func (r *Repository) GetSalon(ctx context.Context, id uuid.UUID) (*models.Salon, error) {
	var salon models.Salon
	if err := r.DB(ctx).Where("id = ?", id).First(&salon).Error; err != nil {
		return nil, err
	}
	return &salon, nil
}

// GetProduct loads a product with its salon, public or not.
func (r *Repository) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.DB(ctx).
		Preload("Salon").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// StockRange bounds available_quantity inclusively. Nil bounds are open.
type StockRange struct {
	Min *int
	Max *int
}

// ListPublicProducts returns up to limit public products for the salon, newest
// first, starting after cursor when provided.
func (r *Repository) ListPublicProducts(ctx context.Context, salonID uuid.UUID, stock StockRange, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	qb := r.DB(ctx).
		Preload("Salon").
		Where("salon_id = ? AND is_public = ?", salonID, true)

	if stock.Min != nil {
		qb = qb.Where("available_quantity >= ?", *stock.Min)
	}
	if stock.Max != nil {
		qb = qb.Where("available_quantity <= ?", *stock.Max)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var products []models.Product
	err := qb.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
