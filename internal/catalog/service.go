package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/salonstore-backend/pkg/db"
	"github.com/angelmondragon/salonstore-backend/pkg/db/models"
	"github.com/angelmondragon/salonstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/salonstore-backend/pkg/errors"
	"github.com/angelmondragon/salonstore-backend/pkg/pagination"
	"github.com/angelmondragon/salonstore-backend/pkg/pricing"
	"github.com/angelmondragon/salonstore-backend/pkg/visibility"
	"github.com/google/uuid"
)

type productReader interface {
	GetSalon(ctx context.Context, id uuid.UUID) (*models.Salon, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListPublicProducts(ctx context.Context, salonID uuid.UUID, stock StockRange, cursor *pagination.Cursor, limit int) ([]models.Product, error)
}

// ProductSummary is the shopper-facing view of a product.
type ProductSummary struct {
	ID                      uuid.UUID            `json:"id"`
	SalonID                 uuid.UUID            `json:"salon_id"`
	SalonName               string               `json:"salon_name"`
	Name                    string               `json:"name"`
	PriceCents              int                  `json:"price_cents"`
	EffectivePriceCents     int                  `json:"effective_price_cents"`
	DiscountPercent         *int                 `json:"discount_percent,omitempty"`
	FormattedPrice          string               `json:"formatted_price"`
	FormattedEffectivePrice string               `json:"formatted_effective_price"`
	Availability            pricing.Availability `json:"availability"`
	CreatedAt               time.Time            `json:"created_at"`
}

// ListResult is one page of salon products.
type ListResult struct {
	Products   []ProductSummary `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// ListParams selects a page of salon products. An empty Stock lists every
// public product.
type ListParams struct {
	pagination.Params
	Stock enums.StockStatus
}

// Options tunes how products are presented.
type Options struct {
	LowStockThreshold int
	Currency          enums.Currency
}

// Service exposes read-only catalog lookups.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductSummary, error)
	ListSalonProducts(ctx context.Context, salonID uuid.UUID, params ListParams) (*ListResult, error)
}

type service struct {
	repo productReader
	opts Options
}

// NewService builds a catalog service.
func NewService(repo productReader, opts Options) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if opts.Currency == "" {
		opts.Currency = enums.CurrencyUSD
	}
	if !opts.Currency.IsValid() {
		return nil, fmt.Errorf("unsupported currency %q", opts.Currency)
	}
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = pricing.LowStockThreshold
	}
	return &service{repo: repo, opts: opts}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductSummary, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, classify(err, "product not found")
	}
	if err := visibility.EnsureProductVisible(product); err != nil {
		return nil, err
	}
	summary := s.summarize(*product)
	return &summary, nil
}

func (s *service) ListSalonProducts(ctx context.Context, salonID uuid.UUID, params ListParams) (*ListResult, error) {
	if params.Stock != "" && !params.Stock.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid stock filter")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if _, err := s.repo.GetSalon(ctx, salonID); err != nil {
		return nil, classify(err, "salon not found")
	}

	stock := stockRange(params.Stock, s.opts.LowStockThreshold)
	rows, err := s.repo.ListPublicProducts(ctx, salonID, stock, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, classify(err, "salon not found")
	}

	page, next := pagination.Trim(rows, params.Limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})

	products := make([]ProductSummary, 0, len(page))
	for _, p := range page {
		products = append(products, s.summarize(p))
	}
	return &ListResult{Products: products, NextCursor: next}, nil
}

func (s *service) summarize(p models.Product) ProductSummary {
	effective := pricing.EffectiveUnitPrice(p.PriceCents, p.DiscountPercent)
	return ProductSummary{
		ID:                      p.ID,
		SalonID:                 p.SalonID,
		SalonName:               p.MerchantName(),
		Name:                    p.Name,
		PriceCents:              p.PriceCents,
		EffectivePriceCents:     effective,
		DiscountPercent:         p.DiscountPercent,
		FormattedPrice:          pricing.FormatCents(p.PriceCents, s.opts.Currency),
		FormattedEffectivePrice: pricing.FormatCents(effective, s.opts.Currency),
		Availability:            pricing.AvailabilityWithThreshold(p.AvailableQuantity, s.opts.LowStockThreshold),
		CreatedAt:               p.CreatedAt,
	}
}

// stockRange translates a stock status into available_quantity bounds that
// agree with pricing.AvailabilityWithThreshold.
func stockRange(status enums.StockStatus, threshold int) StockRange {
	switch status {
	case enums.StockStatusOutOfStock:
		return StockRange{Max: intPtr(0)}
	case enums.StockStatusLowStock:
		return StockRange{Min: intPtr(1), Max: intPtr(threshold)}
	case enums.StockStatusInStock:
		return StockRange{Min: intPtr(threshold + 1)}
	default:
		return StockRange{}
	}
}

func intPtr(v int) *int { return &v }

func classify(err error, notFoundMessage string) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeStorageUnavailable, err, "catalog storage unavailable")
}
