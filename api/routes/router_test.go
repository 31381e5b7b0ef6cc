package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/salonstore-backend/api/controllers"
	"github.com/angelmondragon/salonstore-backend/internal/cart"
	"github.com/angelmondragon/salonstore-backend/internal/catalog"
	pkgAuth "github.com/angelmondragon/salonstore-backend/pkg/auth"
	"github.com/angelmondragon/salonstore-backend/pkg/config"
	"github.com/angelmondragon/salonstore-backend/pkg/db"
	"github.com/angelmondragon/salonstore-backend/pkg/db/models"
	"github.com/angelmondragon/salonstore-backend/pkg/metrics"
)

type memoryIdempotencyStore struct {
	data map[string]string
}

func (m *memoryIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", goredis.Nil
}

func (m *memoryIdempotencyStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.data[key], _ = value.(string)
	return nil
}

func (m *memoryIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key], _ = value.(string)
	return true, nil
}

func (m *memoryIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "test:" + scope + ":" + id
}

type harness struct {
	handler  http.Handler
	db       *gorm.DB
	cfg      *config.Config
	salon    models.Salon
	registry *prometheus.Registry
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dsn := "file:routes_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(&models.Salon{}, &models.Product{}, &models.CartLine{}))

	client := db.NewFromGorm(conn)
	registry := prometheus.NewRegistry()

	cartService, err := cart.NewService(cart.NewRepository(conn), client, metrics.NewCartMetrics(registry))
	require.NoError(t, err)
	catalogService, err := catalog.NewService(catalog.NewRepository(conn), catalog.Options{LowStockThreshold: 5})
	require.NoError(t, err)

	cfg := &config.Config{
		App:  config.AppConfig{Env: "dev", CORSOrigins: []string{"http://localhost:3000"}},
		JWT:  config.JWTConfig{Secret: "secret", Issuer: "salonstore", ExpirationMinutes: 60},
		Cart: config.CartConfig{LowStockThreshold: 5, Currency: "USD", IdempotencyTTL: time.Hour},
	}

	handler := NewRouter(Dependencies{
		Config:         cfg,
		Cart:           cartService,
		Catalog:        catalogService,
		Idempotency:    &memoryIdempotencyStore{data: map[string]string{}},
		Readiness:      []controllers.ReadinessCheck{{Name: "database", Pinger: client}},
		RequestMetrics: metrics.NewHTTPMetrics(registry),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	salon := models.Salon{Name: "Glow Studio", Slug: "glow-" + uuid.NewString()[:8]}
	require.NoError(t, conn.Create(&salon).Error)

	return &harness{handler: handler, db: conn, cfg: cfg, salon: salon, registry: registry}
}

func (h *harness) product(t *testing.T, name string, price, stock int, discount *int) models.Product {
	t.Helper()
	p := models.Product{
		SalonID:           h.salon.ID,
		Name:              name,
		PriceCents:        price,
		AvailableQuantity: stock,
		DiscountPercent:   discount,
		IsPublic:          true,
	}
	require.NoError(t, h.db.Create(&p).Error)
	return p
}

func (h *harness) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(h.cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: userID})
	require.NoError(t, err)
	return token
}

func (h *harness) do(t *testing.T, method, path, token, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	h.handler.ServeHTTP(resp, req)
	return resp
}

func pct(v int) *int { return &v }

func TestHealthRoutes(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/health/live", "", "", nil).Code)
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/health/ready", "", "", nil).Code)
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/api/public/ping", "", "", nil).Code)
}

func TestCartRoutesRequireAuth(t *testing.T) {
	h := newHarness(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/cart/items"},
		{http.MethodDelete, "/api/v1/cart"},
		{http.MethodPatch, "/api/v1/cart/items/" + uuid.NewString()},
		{http.MethodDelete, "/api/v1/cart/items/" + uuid.NewString()},
		{http.MethodGet, "/api/v1/ping"},
	} {
		resp := h.do(t, tc.method, tc.path, "", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Code, tc.method+" "+tc.path)
	}
}

func TestCartFlowEndToEnd(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()
	token := h.token(t, userID)
	p := h.product(t, "Argan Oil", 1000, 5, pct(10))

	add := h.do(t, http.MethodPost, "/api/v1/cart/items", token,
		fmt.Sprintf(`{"product_id":%q,"quantity":3}`, p.ID), nil)
	require.Equal(t, http.StatusCreated, add.Code, add.Body.String())

	var created struct {
		Data struct {
			ID                      uuid.UUID `json:"id"`
			Quantity                int       `json:"quantity"`
			EffectiveUnitPriceCents int       `json:"effective_unit_price_cents"`
			SalonName               string    `json:"salon_name"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(add.Body).Decode(&created))
	assert.Equal(t, 3, created.Data.Quantity)
	assert.Equal(t, 900, created.Data.EffectiveUnitPriceCents)
	assert.Equal(t, "Glow Studio", created.Data.SalonName)

	summary := h.do(t, http.MethodGet, "/api/v1/cart", token, "", nil)
	require.Equal(t, http.StatusOK, summary.Code)
	var got struct {
		Data struct {
			Totals struct {
				SubtotalCents      int `json:"subtotal_cents"`
				TotalDiscountCents int `json:"total_discount_cents"`
				FinalTotalCents    int `json:"final_total_cents"`
				ItemCount          int `json:"item_count"`
			} `json:"totals"`
			Groups []struct {
				SalonName string `json:"salon_name"`
			} `json:"groups"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(summary.Body).Decode(&got))
	assert.Equal(t, 3000, got.Data.Totals.SubtotalCents)
	assert.Equal(t, 300, got.Data.Totals.TotalDiscountCents)
	assert.Equal(t, 2700, got.Data.Totals.FinalTotalCents)
	assert.Equal(t, 3, got.Data.Totals.ItemCount)
	require.Len(t, got.Data.Groups, 1)

	over := h.do(t, http.MethodPost, "/api/v1/cart/items", token,
		fmt.Sprintf(`{"product_id":%q,"quantity":3}`, p.ID), nil)
	assert.Equal(t, http.StatusConflict, over.Code)
	assert.Contains(t, over.Body.String(), `"max_allowed":2`)

	linePath := "/api/v1/cart/items/" + created.Data.ID.String()
	zero := h.do(t, http.MethodPatch, linePath, token, `{"quantity":0}`, nil)
	assert.Equal(t, http.StatusBadRequest, zero.Code)
	assert.Contains(t, zero.Body.String(), "INVALID_QUANTITY")

	update := h.do(t, http.MethodPatch, linePath, token, `{"quantity":5}`, nil)
	assert.Equal(t, http.StatusOK, update.Code)

	other := h.do(t, http.MethodDelete, linePath, h.token(t, uuid.New()), "", nil)
	assert.Equal(t, http.StatusNotFound, other.Code)

	assert.Equal(t, http.StatusOK, h.do(t, http.MethodDelete, linePath, token, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodDelete, linePath, token, "", nil).Code)

	clear := h.do(t, http.MethodDelete, "/api/v1/cart", token, "", nil)
	require.Equal(t, http.StatusOK, clear.Code)
	assert.JSONEq(t, `{"data":{"removed":0}}`, clear.Body.String())
}

func TestAddToCartReplaysIdempotentRetry(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()
	token := h.token(t, userID)
	p := h.product(t, "Scalp Serum", 2500, 10, nil)
	body := fmt.Sprintf(`{"product_id":%q,"quantity":2}`, p.ID)
	headers := map[string]string{"Idempotency-Key": "retry-1"}

	first := h.do(t, http.MethodPost, "/api/v1/cart/items", token, body, headers)
	require.Equal(t, http.StatusCreated, first.Code)
	second := h.do(t, http.MethodPost, "/api/v1/cart/items", token, body, headers)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replay"))

	var lines []models.CartLine
	require.NoError(t, h.db.Where("user_id = ?", userID).Find(&lines).Error)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCatalogRoutes(t *testing.T) {
	h := newHarness(t)
	visible := h.product(t, "Argan Oil", 1000, 3, nil)
	hidden := models.Product{SalonID: h.salon.ID, Name: "Backbar Shampoo", PriceCents: 500, AvailableQuantity: 10}
	require.NoError(t, h.db.Create(&hidden).Error)

	detail := h.do(t, http.MethodGet, "/api/v1/products/"+visible.ID.String(), "", "", nil)
	require.Equal(t, http.StatusOK, detail.Code)
	assert.Contains(t, detail.Body.String(), `"low_stock"`)

	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/api/v1/products/"+hidden.ID.String(), "", "", nil).Code)

	list := h.do(t, http.MethodGet, "/api/v1/salons/"+h.salon.ID.String()+"/products", "", "", nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), visible.ID.String())
	assert.NotContains(t, list.Body.String(), hidden.ID.String())

	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/api/v1/salons/"+uuid.NewString()+"/products", "", "", nil).Code)
}

func TestMetricsEndpointExposesCounters(t *testing.T) {
	h := newHarness(t)
	token := h.token(t, uuid.New())
	h.do(t, http.MethodGet, "/api/v1/cart", token, "", nil)

	resp := h.do(t, http.MethodGet, "/metrics", "", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, `route="/api/v1/cart`)
	assert.Contains(t, body, "cart_operations_total")
}
