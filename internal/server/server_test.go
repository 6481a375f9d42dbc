package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ormdemo/internal/config"
	"ormdemo/internal/middlewares"
	"ormdemo/internal/seed"
	"ormdemo/internal/server"
	"ormdemo/internal/testutil"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *struct {
		Count int `json:"count"`
	} `json:"meta"`
	Error string `json:"error"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *seed.Result) {
	t.Helper()
	handle := testutil.NewSQLite(t)
	log := zaptest.NewLogger(t)
	seeder := seed.New(
		seed.WithSeed(8),
		seed.WithClock(func() time.Time { return time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC) }),
		seed.WithLogger(log),
	)

	result, err := seeder.Run(t.Context(), handle.DB)
	require.NoError(t, err)

	cfg := &config.Config{Port: 8080, AppEnv: "test", CORSAllowedOrigins: "*"}
	return server.NewRouter(cfg, handle, seeder, log), result
}

func do(t *testing.T, router http.Handler, method, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func TestRoutes_Lists(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/api/v1/cities", "/api/v1/customers", "/api/v1/orders"} {
		t.Run(path, func(t *testing.T) {
			rec, body := do(t, router, http.MethodGet, path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "success", body.Status)
			require.NotNil(t, body.Meta)
			assert.Equal(t, 3, body.Meta.Count)
		})
	}
}

func TestRoutes_Customer(t *testing.T) {
	router, result := newTestRouter(t)

	rec, body := do(t, router, http.MethodGet, "/api/v1/customers/"+itoa(result.CustomerIDs[0]))
	require.Equal(t, http.StatusOK, rec.Code)

	var customer struct {
		Name   string `json:"name"`
		Age    int    `json:"age"`
		CityID uint   `json:"city_id"`
		City   struct {
			Name string `json:"name"`
		} `json:"city"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &customer))
	assert.Equal(t, "Alice", customer.Name)
	assert.Equal(t, 21, customer.Age)
	assert.Contains(t, result.CityIDs, customer.CityID)
	assert.NotEmpty(t, customer.City.Name)

	rec, _ = do(t, router, http.MethodGet, "/api/v1/customers/"+itoa(result.CustomerIDs[0])+"/orders")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = do(t, router, http.MethodGet, "/api/v1/customers/9999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", body.Status)

	rec, _ = do(t, router, http.MethodGet, "/api/v1/customers/9999/orders")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, router, http.MethodGet, "/api/v1/customers/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoutes_CityCustomers(t *testing.T) {
	router, result := newTestRouter(t)

	total := 0
	for _, id := range result.CityIDs {
		rec, body := do(t, router, http.MethodGet, "/api/v1/cities/"+itoa(id)+"/customers")
		require.Equal(t, http.StatusOK, rec.Code)
		total += body.Meta.Count
	}
	assert.Equal(t, 3, total, "every customer lives in exactly one city")

	rec, _ := do(t, router, http.MethodGet, "/api/v1/cities/9999/customers")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_StatsAndReseed(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, body := do(t, router, http.MethodPost, "/api/v1/seed")
	require.Equal(t, http.StatusCreated, rec.Code)
	var result seed.Result
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.Len(t, result.OrderIDs, 3)

	rec, body = do(t, router, http.MethodGet, "/api/v1/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]int64
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	assert.Equal(t, map[string]int64{
		"cities":           3,
		"customers":        3,
		"orders":           3,
		"orphan_customers": 0,
		"orphan_orders":    0,
	}, stats)
}

func TestRoutes_ConcurrentReseed(t *testing.T) {
	router, _ := newTestRouter(t)

	const requests = 8
	codes := make([]int, requests)

	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/seed", nil))
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusCreated, code)
	}

	rec, body := do(t, router, http.MethodGet, "/api/v1/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]int64
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	assert.Equal(t, int64(3), stats["cities"])
	assert.Equal(t, int64(3), stats["customers"])
	assert.Equal(t, int64(3), stats["orders"])
}

func TestRoutes_HealthAndRequestID(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middlewares.RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
