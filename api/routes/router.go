package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/salonstore-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/salonstore-backend/api/controllers/cart"
	catalogcontrollers "github.com/angelmondragon/salonstore-backend/api/controllers/catalog"
	"github.com/angelmondragon/salonstore-backend/api/middleware"
	"github.com/angelmondragon/salonstore-backend/internal/cart"
	"github.com/angelmondragon/salonstore-backend/internal/catalog"
	"github.com/angelmondragon/salonstore-backend/pkg/config"
	"github.com/angelmondragon/salonstore-backend/pkg/logger"
	"github.com/angelmondragon/salonstore-backend/pkg/redis"
)

// Dependencies are the collaborators the HTTP layer is built from. Optional
// fields may be left nil: Idempotency disables replay, RequestMetrics and
// MetricsHandler disable instrumentation.
type Dependencies struct {
	Config         *config.Config
	Logger         *logger.Logger
	Cart           cart.Service
	Catalog        catalog.Service
	Idempotency    redis.IdempotencyStore
	Readiness      []controllers.ReadinessCheck
	RequestMetrics middleware.RequestObserver
	MetricsHandler http.Handler
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger
	view := cartcontrollers.View{
		LowStockThreshold: cfg.Cart.LowStockThreshold,
		Currency:          cfg.Cart.Currency,
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.RequestMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness...))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products/{productId}", catalogcontrollers.ProductDetail(deps.Catalog, logg))
		r.Get("/salons/{salonId}/products", catalogcontrollers.SalonProducts(deps.Catalog, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(deps.Idempotency, cfg.Cart.IdempotencyTTL, logg))

			r.Get("/ping", controllers.PrivatePing())

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartSummary(deps.Cart, view, logg))
				r.Delete("/", cartcontrollers.CartClear(deps.Cart, logg))
				r.Post("/items", cartcontrollers.CartAddItem(deps.Cart, view, logg))
				r.Patch("/items/{lineId}", cartcontrollers.CartUpdateItem(deps.Cart, view, logg))
				r.Delete("/items/{lineId}", cartcontrollers.CartRemoveItem(deps.Cart, logg))
			})
		})
	})

	return r
}
