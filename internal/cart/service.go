package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/salonstore-backend/pkg/db"
	"github.com/angelmondragon/salonstore-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/salonstore-backend/pkg/errors"
	"github.com/angelmondragon/salonstore-backend/pkg/visibility"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Operation names reported to the Recorder.
const (
	OpList    = "list"
	OpSummary = "summary"
	OpAdd     = "add"
	OpUpdate  = "update"
	OpRemove  = "remove"
	OpClear   = "clear"

	OutcomeOK = "ok"
)

const maxAddAttempts = 2

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Recorder observes the outcome of every cart operation.
type Recorder interface {
	ObserveOperation(op, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string) {}

// Summary is the cart view returned to clients: lines, derived totals and
// lines bucketed per salon.
type Summary struct {
	Lines         []Line
	Totals        Totals
	Groups        map[string][]Line
	MerchantOrder []string
}

// Service exposes cart operations for an authenticated user.
type Service interface {
	ListCart(ctx context.Context, userID uuid.UUID) ([]Line, error)
	Summary(ctx context.Context, userID uuid.UUID) (*Summary, error)
	AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*Line, error)
	UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*Line, error)
	RemoveFromCart(ctx context.Context, userID, lineID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	store    CartStore
	tx       txRunner
	recorder Recorder
}

// NewService builds a cart service backed by the provided store. A nil
// recorder disables operation metrics.
func NewService(store CartStore, tx txRunner, recorder Recorder) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &service{
		store:    store,
		tx:       tx,
		recorder: recorder,
	}, nil
}

// ListCart returns the user's lines joined with current product data.
func (s *service) ListCart(ctx context.Context, userID uuid.UUID) (lines []Line, err error) {
	defer func() { s.observe(OpList, err) }()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.listLines(ctx, userID)
}

// Summary lists the cart and folds it into totals and per-salon groups.
func (s *service) Summary(ctx context.Context, userID uuid.UUID) (summary *Summary, err error) {
	defer func() { s.observe(OpSummary, err) }()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	lines, err := s.listLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Lines:         lines,
		Totals:        ComputeTotals(lines),
		Groups:        GroupByMerchant(lines),
		MerchantOrder: MerchantOrder(lines),
	}, nil
}

// AddToCart increments the user's line for the product, creating it when absent.
// The product row stays locked from the stock check until the write commits.
// A first insert that loses a race against a concurrent add is retried once,
// which then increments the line the other request created.
func (s *service) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (line *Line, err error) {
	defer func() { s.observe(OpAdd, err) }()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, invalidQuantity(quantity)
	}

	var (
		stored  *models.CartLine
		product *models.Product
	)
	for attempt := 1; ; attempt++ {
		stored, product, err = s.addOnce(ctx, userID, productID, quantity)
		if err == nil || attempt >= maxAddAttempts || !pkgerrors.Is(err, pkgerrors.CodeConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	result := NewLine(*stored, product)
	return &result, nil
}

func (s *service) addOnce(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartLine, *models.Product, error) {
	var (
		stored  *models.CartLine
		product *models.Product
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.store.WithTx(tx)

		locked, err := loadPublicProduct(ctx, store, productID)
		if err != nil {
			return err
		}

		current := 0
		existing, err := store.GetCartLine(ctx, userID, productID)
		switch {
		case err == nil:
			current = existing.Quantity
		case db.IsNotFound(err):
			existing = nil
		default:
			return classify(err, "cart line not found")
		}

		if quantity > locked.AvailableQuantity-current {
			return insufficientInventory(quantity, locked.AvailableQuantity, current)
		}

		if existing == nil {
			stored, err = store.InsertCartLine(ctx, userID, productID, quantity)
		} else {
			stored, err = store.UpdateCartLineQuantity(ctx, existing.ID, current+quantity)
		}
		if err != nil {
			return classify(err, "cart line not found")
		}
		product = locked
		return nil
	})
	if err != nil {
		return nil, nil, classify(err, "product not found")
	}
	return stored, product, nil
}

// UpdateQuantity overwrites the quantity of a line owned by the user. Quantities
// above current stock are rejected, never clamped.
func (s *service) UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (line *Line, err error) {
	defer func() { s.observe(OpUpdate, err) }()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, invalidQuantity(quantity)
	}

	var (
		stored  *models.CartLine
		product *models.Product
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.store.WithTx(tx)

		existing, err := store.GetCartLineByID(ctx, lineID)
		if err != nil {
			return classify(err, "cart line not found")
		}
		if existing.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}

		locked, err := loadPublicProduct(ctx, store, existing.ProductID)
		if err != nil {
			return err
		}
		if quantity > locked.AvailableQuantity {
			return insufficientInventory(quantity, locked.AvailableQuantity, 0)
		}

		stored, err = store.UpdateCartLineQuantity(ctx, existing.ID, quantity)
		if err != nil {
			return classify(err, "cart line not found")
		}
		product = locked
		return nil
	})
	if err != nil {
		return nil, classify(err, "cart line not found")
	}

	result := NewLine(*stored, product)
	return &result, nil
}

// RemoveFromCart deletes a line owned by the user. Removing a line that is
// already gone reports NOT_FOUND.
func (s *service) RemoveFromCart(ctx context.Context, userID, lineID uuid.UUID) (err error) {
	defer func() { s.observe(OpRemove, err) }()

	if err := requireUser(userID); err != nil {
		return err
	}
	removed, err := s.store.DeleteCartLine(ctx, userID, lineID)
	if err != nil {
		return classify(err, "cart line not found")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return nil
}

// ClearCart deletes every line owned by the user and returns how many were removed.
func (s *service) ClearCart(ctx context.Context, userID uuid.UUID) (removed int64, err error) {
	defer func() { s.observe(OpClear, err) }()

	if err := requireUser(userID); err != nil {
		return 0, err
	}
	removed, err = s.store.DeleteAllCartLines(ctx, userID)
	if err != nil {
		return 0, classify(err, "cart not found")
	}
	return removed, nil
}

func (s *service) listLines(ctx context.Context, userID uuid.UUID) ([]Line, error) {
	stored, err := s.store.ListCartLines(ctx, userID)
	if err != nil {
		return nil, classify(err, "cart not found")
	}
	lines := make([]Line, 0, len(stored))
	for _, row := range stored {
		lines = append(lines, NewLine(row, row.Product))
	}
	return lines, nil
}

func (s *service) observe(op string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = strings.ToLower(string(pkgerrors.CodeOf(err)))
	}
	s.recorder.ObserveOperation(op, outcome)
}

func loadPublicProduct(ctx context.Context, store CartStore, productID uuid.UUID) (*models.Product, error) {
	product, err := store.LockProduct(ctx, productID)
	if err != nil {
		return nil, classify(err, "product not found")
	}
	if err := visibility.EnsureProductVisible(product); err != nil {
		return nil, err
	}
	return product, nil
}

func requireUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	return nil
}
