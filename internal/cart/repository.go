package cart

import (
	"context"

	"github.com/angelmondragon/salonstore-backend/internal/repo"
	"github.com/angelmondragon/salonstore-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists cart lines and reads the product snapshots they reference.
type Repository struct {
	repo.Base
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartStore {
	if tx == nil {
		return r
	}
	return &Repository{Base: r.Base.With(tx)}
}

// GetProduct loads a product together with its salon.
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

// LockProduct loads the product row with SELECT ... FOR UPDATE. It must run
// inside a transaction; the lock is released on commit or rollback.
func (r *Repository) LockProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Salon").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetCartLine returns the user's line for the product.
func (r *Repository) GetCartLine(ctx context.Context, userID, productID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.DB(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// GetCartLineByID returns a line regardless of owner; callers check ownership.
func (r *Repository) GetCartLineByID(ctx context.Context, id uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.DB(ctx).Where("id = ?", id).First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// InsertCartLine creates a new line.
func (r *Repository) InsertCartLine(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartLine, error) {
	line := models.CartLine{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := r.DB(ctx).Create(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// UpdateCartLineQuantity overwrites the quantity and returns the refreshed line.
func (r *Repository) UpdateCartLineQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.CartLine, error) {
	res := r.DB(ctx).
		Model(&models.CartLine{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetCartLineByID(ctx, id)
}

// DeleteCartLine removes the line when owned by userID and reports whether a row was removed.
func (r *Repository) DeleteCartLine(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CartLine{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteAllCartLines clears every line owned by userID.
func (r *Repository) DeleteAllCartLines(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.DB(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartLine{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// ListCartLines returns the user's lines joined with the current product and salon,
// oldest first. Product is nil when the referenced row no longer exists.
func (r *Repository) ListCartLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.DB(ctx).
		Preload("Product").
		Preload("Product.Salon").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
