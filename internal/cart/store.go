package cart

import (
	"context"

	"github.com/angelmondragon/salonstore-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartStore defines the persistence surface required by the cart service.
// Lookups return gorm.ErrRecordNotFound when the row is absent.
type CartStore interface {
	WithTx(tx *gorm.DB) CartStore
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	LockProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetCartLine(ctx context.Context, userID, productID uuid.UUID) (*models.CartLine, error)
	GetCartLineByID(ctx context.Context, id uuid.UUID) (*models.CartLine, error)
	InsertCartLine(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartLine, error)
	UpdateCartLineQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.CartLine, error)
	DeleteCartLine(ctx context.Context, userID, id uuid.UUID) (bool, error)
	DeleteAllCartLines(ctx context.Context, userID uuid.UUID) (int64, error)
	ListCartLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
}
