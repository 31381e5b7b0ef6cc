package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogsvc "github.com/angelmondragon/salonstore-backend/internal/catalog"
	"github.com/angelmondragon/salonstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/salonstore-backend/pkg/errors"
	"github.com/angelmondragon/salonstore-backend/pkg/pagination"
)

type stubCatalogService struct {
	product    *catalogsvc.ProductSummary
	list       *catalogsvc.ListResult
	err        error
	lastID     uuid.UUID
	lastParams catalogsvc.ListParams
	calls      int
}

func (s *stubCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*catalogsvc.ProductSummary, error) {
	s.calls++
	s.lastID = id
	return s.product, s.err
}

func (s *stubCatalogService) ListSalonProducts(ctx context.Context, salonID uuid.UUID, params catalogsvc.ListParams) (*catalogsvc.ListResult, error) {
	s.calls++
	s.lastID = salonID
	s.lastParams = params
	return s.list, s.err
}

func withParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestProductDetail(t *testing.T) {
	id := uuid.New()
	svc := &stubCatalogService{product: &catalogsvc.ProductSummary{ID: id, Name: "Argan Oil", PriceCents: 1000}}

	req := withParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id.String(), nil), "productId", id.String())
	resp := httptest.NewRecorder()
	ProductDetail(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var envelope struct {
		Data catalogsvc.ProductSummary `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, id, envelope.Data.ID)
	assert.Equal(t, id, svc.lastID)
}

func TestProductDetailHiddenIsNotFound(t *testing.T) {
	id := uuid.New()
	svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}

	req := withParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id.String(), nil), "productId", id.String())
	resp := httptest.NewRecorder()
	ProductDetail(svc, nil).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSalonProductsPassesPagination(t *testing.T) {
	salonID := uuid.New()
	svc := &stubCatalogService{list: &catalogsvc.ListResult{Products: []catalogsvc.ProductSummary{}, NextCursor: "next"}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/salons/"+salonID.String()+"/products?limit=10&cursor=abc", nil)
	req = withParam(req, "salonId", salonID.String())
	resp := httptest.NewRecorder()
	SalonProducts(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, salonID, svc.lastID)
	assert.Equal(t, catalogsvc.ListParams{Params: pagination.Params{Limit: 10, Cursor: "abc"}}, svc.lastParams)
	assert.JSONEq(t, `{"data":{"products":[],"next_cursor":"next"}}`, resp.Body.String())
}

func TestSalonProductsDefaultsLimit(t *testing.T) {
	salonID := uuid.New()
	svc := &stubCatalogService{list: &catalogsvc.ListResult{}}

	req := withParam(httptest.NewRequest(http.MethodGet, "/api/v1/salons/"+salonID.String()+"/products", nil), "salonId", salonID.String())
	SalonProducts(svc, nil).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, pagination.DefaultLimit, svc.lastParams.Limit)
}

func TestSalonProductsRejectsBadLimit(t *testing.T) {
	salonID := uuid.New()
	svc := &stubCatalogService{}

	for _, limit := range []string{"0", "1000", "ten"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/salons/"+salonID.String()+"/products?limit="+limit, nil)
		req = withParam(req, "salonId", salonID.String())
		resp := httptest.NewRecorder()
		SalonProducts(svc, nil).ServeHTTP(resp, req)
		assert.Equal(t, http.StatusBadRequest, resp.Code, limit)
	}
	assert.Zero(t, svc.calls)
}

func TestSalonProductsStockFilter(t *testing.T) {
	salonID := uuid.New()
	svc := &stubCatalogService{list: &catalogsvc.ListResult{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/salons/"+salonID.String()+"/products?stock=Low_Stock", nil)
	req = withParam(req, "salonId", salonID.String())
	resp := httptest.NewRecorder()
	SalonProducts(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, enums.StockStatusLowStock, svc.lastParams.Stock)
}

func TestSalonProductsRejectsUnknownStockFilter(t *testing.T) {
	salonID := uuid.New()
	svc := &stubCatalogService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/salons/"+salonID.String()+"/products?stock=backorder", nil)
	req = withParam(req, "salonId", salonID.String())
	resp := httptest.NewRecorder()
	SalonProducts(svc, nil).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "VALIDATION_ERROR")
	assert.Zero(t, svc.calls)
}
