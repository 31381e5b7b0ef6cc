package cartdto

import "github.com/google/uuid"

// AddItemRequest adds quantity units of a product to the shopper's cart.
// Quantity is a pointer so a missing field fails validation while zero and
// negative values reach the cart service and report INVALID_QUANTITY.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  *int      `json:"quantity" validate:"required"`
}

// UpdateQuantityRequest sets an absolute quantity on an existing cart line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}
