package cart

import (
	"github.com/angelmondragon/salonstore-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/salonstore-backend/pkg/errors"
)

// InsufficientInventoryDetails is attached to INSUFFICIENT_INVENTORY errors.
type InsufficientInventoryDetails struct {
	MaxAllowed int `json:"max_allowed"`
	Requested  int `json:"requested"`
	Available  int `json:"available"`
}

func insufficientInventory(requested, available, current int) *pkgerrors.Error {
	maxAllowed := available - current
	if maxAllowed < 0 {
		maxAllowed = 0
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientInventory, "requested quantity exceeds available stock").
		WithDetails(InsufficientInventoryDetails{
			MaxAllowed: maxAllowed,
			Requested:  requested,
			Available:  available,
		})
}

func invalidQuantity(quantity int) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be at least 1").
		WithDetails(map[string]any{"quantity": quantity})
}

// MaxAllowed extracts the largest quantity that can still be added from an
// INSUFFICIENT_INVENTORY error.
func MaxAllowed(err error) (int, bool) {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientInventory {
		return 0, false
	}
	details, ok := typed.Details().(InsufficientInventoryDetails)
	if !ok {
		return 0, false
	}
	return details.MaxAllowed, true
}

// classify maps repository errors onto the cart error kinds. Typed errors pass through.
func classify(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart line was modified concurrently")
	}
	return pkgerrors.Wrap(pkgerrors.CodeStorageUnavailable, err, "cart storage unavailable")
}
