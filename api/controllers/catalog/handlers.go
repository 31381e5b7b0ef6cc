package catalog

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/salonstore-backend/api/responses"
	"github.com/angelmondragon/salonstore-backend/api/validators"
	catalogsvc "github.com/angelmondragon/salonstore-backend/internal/catalog"
	"github.com/angelmondragon/salonstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/salonstore-backend/pkg/errors"
	"github.com/angelmondragon/salonstore-backend/pkg/logger"
	"github.com/angelmondragon/salonstore-backend/pkg/pagination"
)

const maxCursorLength = 512

// ProductDetail returns a single public product.
func ProductDetail(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// SalonProducts pages through a salon's public products, newest first,
// optionally narrowed by ?stock=in_stock|low_stock|out_of_stock.
func SalonProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		salonID, err := validators.ParseUUIDParam(r, "salonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))
		if len(cursor) > maxCursorLength {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cursor too long"))
			return
		}

		params := catalogsvc.ListParams{Params: pagination.Params{Limit: limit, Cursor: cursor}}
		if raw := strings.TrimSpace(r.URL.Query().Get("stock")); raw != "" {
			stock, err := enums.ParseStockStatus(strings.ToLower(raw))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stock filter"))
				return
			}
			params.Stock = stock
		}

		result, err := svc.ListSalonProducts(r.Context(), salonID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
