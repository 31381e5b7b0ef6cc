package visibility

import (
	"github.com/angelmondragon/salonstore-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/salonstore-backend/pkg/errors"
)

// EnsureProductVisible hides unpublished products from shoppers. Missing and
// hidden products are indistinguishable to the caller.
func EnsureProductVisible(product *models.Product) error {
	if product == nil || !product.IsPublic {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}
