package cart

import (
	"net/http"

	"github.com/google/uuid"

	cartdto "github.com/angelmondragon/salonstore-backend/api/controllers/cart/dto"
	"github.com/angelmondragon/salonstore-backend/api/middleware"
	"github.com/angelmondragon/salonstore-backend/api/responses"
	"github.com/angelmondragon/salonstore-backend/api/validators"
	cartsvc "github.com/angelmondragon/salonstore-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/salonstore-backend/pkg/errors"
	"github.com/angelmondragon/salonstore-backend/pkg/logger"
)

const lineIDParam = "lineId"

// CartSummary renders the shopper's cart with totals and salon groups.
func CartSummary(svc cartsvc.Service, view View, logg *logger.Logger) http.HandlerFunc {
	view = view.normalized()
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartSummary(summary, view))
	}
}

// CartAddItem adds units of a product, merging into an existing line.
func CartAddItem(svc cartsvc.Service, view View, logg *logger.Logger) http.HandlerFunc {
	view = view.normalized()
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartdto.AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.AddToCart(r.Context(), userID, payload.ProductID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCartLine(*line, view))
	}
}

// CartUpdateItem sets an absolute quantity on one of the shopper's lines.
func CartUpdateItem(svc cartsvc.Service, view View, logg *logger.Logger) http.HandlerFunc {
	view = view.normalized()
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineID, err := validators.ParseUUIDParam(r, lineIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartdto.UpdateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.UpdateQuantity(r.Context(), userID, lineID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartLine(*line, view))
	}
}

// CartRemoveItem deletes one of the shopper's lines.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineID, err := validators.ParseUUIDParam(r, lineIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveFromCart(r.Context(), userID, lineID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartdto.RemoveResult{Removed: true})
	}
}

// CartClear empties the shopper's cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		removed, err := svc.ClearCart(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartdto.ClearResult{Removed: removed})
	}
}

func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	if r == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID := middleware.UserIDFromContext(r.Context())
	if userID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return userID, nil
}
