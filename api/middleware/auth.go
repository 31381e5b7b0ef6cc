package middleware

import (
	"net/http"

	"github.com/angelmondragon/salonstore-backend/api/responses"
	"github.com/angelmondragon/salonstore-backend/api/validators"
	pkgAuth "github.com/angelmondragon/salonstore-backend/pkg/auth"
	"github.com/angelmondragon/salonstore-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/salonstore-backend/pkg/errors"
	"github.com/angelmondragon/salonstore-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the shopper id.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token, err := validators.BearerToken(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "malformed authorization header"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
