package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stroyast/sales-agent/internal/model"
)

type fakeSearcher struct {
	gotQuery model.SearchQuery
	result   model.SearchResult
	err      error
}

func (f *fakeSearcher) Search(_ context.Context, q model.SearchQuery) (model.SearchResult, error) {
	f.gotQuery = q
	return f.result, f.err
}

type fakeSyncer struct {
	refreshErr error
	status     model.SyncStatus
}

func (f *fakeSyncer) Refresh(_ context.Context) error { return f.refreshErr }
func (f *fakeSyncer) Status() model.SyncStatus        { return f.status }

type fakeGroupPricer struct {
	gotCodes []string
	items    []model.SummaryItem
	err      error
}

func (f *fakeGroupPricer) FetchGroupItems(_ context.Context, groupCodes []string) ([]model.SummaryItem, error) {
	f.gotCodes = groupCodes
	return f.items, f.err
}

type fakeOrderService struct {
	priceRes *model.PriceOrderResult
	priceErr error
	order    *model.PricedOrder
	orderErr error
}

func (f *fakeOrderService) Price(_ context.Context, _ model.PriceOrderParams) (*model.PriceOrderResult, error) {
	return f.priceRes, f.priceErr
}

func (f *fakeOrderService) OrderByID(_ context.Context, _ uuid.UUID) (*model.PricedOrder, error) {
	return f.order, f.orderErr
}

func newCatalogRouter(searcher CatalogSearcher, syncer CatalogSyncer) *chi.Mux {
	return newCatalogRouterWithPricer(searcher, syncer, &fakeGroupPricer{})
}

func newCatalogRouterWithPricer(searcher CatalogSearcher, syncer CatalogSyncer, pricer GroupPricer) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		NewCatalogHandler(searcher, syncer, pricer).Register(r)
	})
	return r
}

func newOrderRouter(svc OrderService) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		NewOrderHandler(svc).Register(r)
	})
	return r
}

func TestSearchEndpoint(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{result: model.SearchResult{
		Items: []model.SearchHit{{
			Item:      model.ItemRef{ItemCode: "00-001", DisplayName: "Вагонка Штиль"},
			GroupCode: "00-1",
			GroupName: "Вагонка",
			Score:     23.5,
		}},
		TotalCount:   1,
		StaleCatalog: true,
	}}
	router := newCatalogRouter(searcher, &fakeSyncer{})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/products/search?q=вагонка+штиль&group_code=00-1&offset=5&limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "вагонка штиль", searcher.gotQuery.Keywords)
	assert.Equal(t, map[string]string{"group_code": "00-1"}, searcher.gotQuery.Filters)
	assert.Equal(t, 5, searcher.gotQuery.Offset)
	assert.Equal(t, 10, searcher.gotQuery.Limit)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "00-001", resp.Items[0].ItemCode)
	assert.Equal(t, 1, resp.TotalCount)
	assert.True(t, resp.StaleCatalog)
}

func TestSearchEndpointErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		target     string
		searchErr  error
		wantStatus int
	}{
		{
			name:       "bad offset",
			target:     "/api/v1/products/search?offset=abc",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "validation error from resolver",
			target:     "/api/v1/products/search",
			searchErr:  model.ErrValidation,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "catalog unavailable",
			target:     "/api/v1/products/search?q=вагонка",
			searchErr:  model.ErrCatalogUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newCatalogRouter(&fakeSearcher{err: tt.searchErr}, &fakeSyncer{})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestCatalogStatusEndpoint(t *testing.T) {
	t.Parallel()

	router := newCatalogRouter(&fakeSearcher{}, &fakeSyncer{status: model.SyncStatus{
		Stale:      true,
		LastError:  "erp is down",
		GroupCount: 12,
		ItemCount:  340,
	}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Stale)
	assert.Equal(t, "erp is down", resp.LastError)
	assert.Equal(t, 340, resp.ItemCount)
	assert.Nil(t, resp.FetchedAt, "a never-synced catalog has no fetch time")
}

func TestRefreshEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		router := newCatalogRouter(&fakeSearcher{}, &fakeSyncer{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/refresh", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("upstream down", func(t *testing.T) {
		t.Parallel()

		router := newCatalogRouter(&fakeSearcher{}, &fakeSyncer{refreshErr: model.ErrBadGateway})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/refresh", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestGroupItemsEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		price := decimal.RequireFromString("6000")
		stock := "По предзаказу"
		pricer := &fakeGroupPricer{items: []model.SummaryItem{
			{ItemCode: "00-001", DisplayName: "Вагонка Штиль", Price: &price, StockStatus: &stock},
			{ItemCode: "00-002", DisplayName: "Вагонка Классика"},
		}}
		router := newCatalogRouterWithPricer(&fakeSearcher{}, &fakeSyncer{}, pricer)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/groups/00-1/items", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"00-1"}, pricer.gotCodes)

		var resp groupItemsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 2)
		assert.Equal(t, "6000", resp.Items[0].Price)
		assert.Equal(t, "По предзаказу", resp.Items[0].StockStatus)
		assert.Empty(t, resp.Items[1].Price)
	})

	t.Run("upstream down", func(t *testing.T) {
		t.Parallel()

		pricer := &fakeGroupPricer{err: model.ErrBadGateway}
		router := newCatalogRouterWithPricer(&fakeSearcher{}, &fakeSyncer{}, pricer)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/groups/00-1/items", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestPriceOrderEndpoint(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	unitPrice := decimal.RequireFromString("210.0000034")
	lineTotal := decimal.RequireFromString("2100.00")

	svc := &fakeOrderService{priceRes: &model.PriceOrderResult{
		ID: orderID,
		Lines: []model.OrderLine{{
			ProductCode:   "00-001",
			ProductName:   "Вагонка Штиль",
			Quantity:      decimal.NewFromInt(10),
			RequestedUnit: "шт",
			UnitPrice:     &unitPrice,
			LineTotal:     &lineTotal,
		}},
		Totals: model.OrderTotals{
			Subtotal: lineTotal,
			Currency: model.DefaultCurrency,
		},
		Status: model.StatusPriced,
	}}
	router := newOrderRouter(svc)

	body := `{"lines": [{"product_code": "00-001", "quantity": 10, "requested_unit": "шт"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/price", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp priceOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, orderID.String(), resp.OrderID)
	assert.Equal(t, "2100.00", resp.Subtotal)
	assert.Equal(t, "RUB", resp.Currency)
	assert.Equal(t, "PRICED", resp.Status)
	assert.Empty(t, resp.UnresolvedLineIndices)
	require.Len(t, resp.Lines, 1)
	require.NotNil(t, resp.Lines[0].LineTotal)
	assert.Equal(t, "2100", *resp.Lines[0].LineTotal)
}

func TestPriceOrderEndpointValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "broken json", body: `{"lines": [`},
		{name: "zero quantity", body: `{"lines": [{"product_code": "00-001", "quantity": 0}]}`},
		{name: "negative quantity", body: `{"lines": [{"product_code": "00-001", "quantity": -2}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newOrderRouter(&fakeOrderService{})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/price", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestOrderByIDEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		router := newOrderRouter(&fakeOrderService{orderErr: model.ErrOrderNotFound})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+uuid.NewString(), nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		t.Parallel()

		router := newOrderRouter(&fakeOrderService{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
