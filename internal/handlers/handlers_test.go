package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alltech-pos/internal/cache"
	"alltech-pos/internal/database"
	"alltech-pos/internal/handlers"
	"alltech-pos/internal/models"
	"alltech-pos/internal/reports"
	"alltech-pos/internal/search"
	"alltech-pos/internal/store"
	"alltech-pos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	handler *handlers.Handler
	router  *gin.Engine
	store   *store.Store
	pool    *worker.Pool
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenTest()
	require.NoError(t, err)

	mem := cache.NewMemory()
	s := store.New(db)
	pool := worker.New(1, 16)
	t.Cleanup(pool.Stop)

	h := &handlers.Handler{
		Store:         s,
		Reports:       reports.New(db, mem, time.Hour),
		Cache:         mem,
		Index:         search.Noop{},
		Pool:          pool,
		ServiceAPIKey: "test-api-key",
		StockTTL:      time.Hour,
	}

	r := gin.New()
	r.POST("/service-token", h.ServiceToken)
	api := r.Group("/api")
	{
		api.GET("/stock", h.ListStock)
		api.GET("/stock/:id", h.GetStockOrLow)
		api.POST("/stock", h.AddStock)
		api.PATCH("/stock/:id", h.UpdateStock)
		api.DELETE("/stock/:id", h.DeleteStock)
		api.POST("/sell/:id", h.Sell)
		api.GET("/pending", h.ListPending)
		api.POST("/complete/:id", h.Complete)
		api.POST("/refund/:id", h.Refund)
		api.GET("/customers", h.ListCustomers)
		api.GET("/reports/export", h.ExportCompleted)
	}

	return &testApp{handler: h, router: r, store: s, pool: pool}
}

func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (a *testApp) addProduct(t *testing.T, name string, quantity int, price string) uint {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/stock", gin.H{
		"product_name": name,
		"quantity":     quantity,
		"price":        price,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var p models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p.ID
}

func TestAddStockValidation(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/stock", gin.H{"product_name": "No Price"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	app.addProduct(t, "Phone Case", 5, "8.00")
	w = app.do(t, http.MethodPost, "/api/stock", gin.H{
		"product_name": "Phone Case",
		"quantity":     1,
		"price":        "1.00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "duplicate name rejected")
}

func TestListStockPagination(t *testing.T) {
	app := newTestApp(t)
	for i := 0; i < 25; i++ {
		app.addProduct(t, fmt.Sprintf("Item %02d", i), i, "1.00")
	}

	out := decode(t, app.do(t, http.MethodGet, "/api/stock?page=2&page_size=10", nil))
	assert.EqualValues(t, 25, out["count"])
	assert.EqualValues(t, 2, out["page"])
	assert.Len(t, out["results"], 10)

	// Past the last page yields an empty slice, not an error.
	out = decode(t, app.do(t, http.MethodGet, "/api/stock?page=9", nil))
	assert.Len(t, out["results"], 0)
}

func TestGetStockNotFound(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/stock/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodGet, "/api/stock/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLowStockSharesWildcardRoute(t *testing.T) {
	app := newTestApp(t)
	app.addProduct(t, "Plenty", 50, "1.00")
	app.addProduct(t, "Scarce", 2, "1.00")

	out := decode(t, app.do(t, http.MethodGet, "/api/stock/low", nil))
	assert.EqualValues(t, 1, out["count"])

	w := app.do(t, http.MethodGet, "/api/stock/low?threshold=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSellPipeline(t *testing.T) {
	app := newTestApp(t)
	id := app.addProduct(t, "Phone Case", 10, "8.00")

	w := app.do(t, http.MethodPost, fmt.Sprintf("/api/sell/%d", id), gin.H{
		"product_name":  "Phone Case",
		"price":         "8.00",
		"quantity":      3,
		"customer_name": "Alice",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	txID := decode(t, w)["transaction_id"]
	require.NotNil(t, txID)

	// Oversell on what's left.
	w = app.do(t, http.MethodPost, fmt.Sprintf("/api/sell/%d", id), gin.H{
		"product_name":  "Phone Case",
		"price":         "8.00",
		"quantity":      8,
		"customer_name": "Bob",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, fmt.Sprintf("/api/complete/%v", txID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotNil(t, decode(t, w)["receipt_id"])

	out := decode(t, app.do(t, http.MethodGet, "/api/pending", nil))
	assert.Len(t, out["data"], 0)

	w = app.do(t, http.MethodPost, fmt.Sprintf("/api/complete/%v", txID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "double completion")
}

func TestRefundEndpoint(t *testing.T) {
	app := newTestApp(t)
	id := app.addProduct(t, "Phone Case", 10, "8.00")

	w := app.do(t, http.MethodPost, fmt.Sprintf("/api/sell/%d", id), gin.H{
		"product_name":  "Phone Case",
		"price":         "8.00",
		"quantity":      5,
		"customer_name": "Alice",
	})
	require.Equal(t, http.StatusOK, w.Code)
	txID := decode(t, w)["transaction_id"]

	w = app.do(t, http.MethodPost, fmt.Sprintf("/api/refund/%v", txID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var p models.Product
	require.NoError(t, json.Unmarshal(app.do(t, http.MethodGet, fmt.Sprintf("/api/stock/%d", id), nil).Body.Bytes(), &struct {
		Data *models.Product `json:"data"`
	}{Data: &p}))
	assert.Equal(t, 6, p.Quantity, "refund restores exactly one unit")

	w = app.do(t, http.MethodPost, fmt.Sprintf("/api/refund/%v", txID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportEndpoint(t *testing.T) {
	app := newTestApp(t)
	id := app.addProduct(t, "Phone Case", 10, "8.00")

	w := app.do(t, http.MethodGet, "/api/reports/export", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "empty ledger is a 404")

	w = app.do(t, http.MethodPost, fmt.Sprintf("/api/sell/%d", id), gin.H{
		"product_name":  "Phone Case",
		"price":         "10.00",
		"quantity":      2,
		"customer_name": "Alice",
	})
	require.Equal(t, http.StatusOK, w.Code)
	txID := decode(t, w)["transaction_id"]
	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, fmt.Sprintf("/api/complete/%v", txID), nil).Code)

	var result store.ExportResult
	w = app.do(t, http.MethodGet, "/api/reports/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Transactions, 1)
	assert.True(t, result.Total.Equal(decimal.RequireFromString("20.00")))
}

func TestServiceTokenExchange(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/service-token", gin.H{"api_key": "wrong"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodPost, "/service-token", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/service-token", gin.H{"api_key": "test-api-key"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["access"])

	// An unset server key disables the exchange entirely.
	app.handler.ServiceAPIKey = ""
	w = app.do(t, http.MethodPost, "/service-token", gin.H{"api_key": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = app.do(t, http.MethodPost, "/service-token", gin.H{"api_key": "anything"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
