package mw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"restaurant-availability-backend/internal/cache"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doGet(r http.Handler, path, tenant string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if tenant != "" {
		req.Header.Set(TenantHeader, tenant)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestTenant(t *testing.T) {
	r := gin.New()
	r.GET("/t", Tenant(), func(c *gin.Context) { c.String(http.StatusOK, TenantID(c)) })

	testCases := []struct {
		name     string
		tenant   string
		expected int
	}{
		{name: "Valid", tenant: "acme_01", expected: http.StatusOK},
		{name: "Missing", tenant: "", expected: http.StatusBadRequest},
		{name: "Illegal characters", tenant: "acme:*", expected: http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := doGet(r, "/t", tc.tenant)
			assert.Equal(t, tc.expected, w.Code)
			if tc.expected == http.StatusOK {
				assert.Equal(t, tc.tenant, w.Body.String())
			}
		})
	}
}

func TestCache_HitMissAndTenantScope(t *testing.T) {
	store := cache.NewMemory(time.Minute, time.Minute)
	calls := 0
	r := gin.New()
	r.GET("/slots", Tenant(), Cache(store, time.Minute), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	first := doGet(r, "/slots?party_size=2&date=2024-06-10", "acme")
	assert.Equal(t, "MISS", first.Header().Get(CacheStatusHeader))
	assert.JSONEq(t, `{"calls":1}`, first.Body.String())

	// Same query in a different order hits the cached entry.
	second := doGet(r, "/slots?date=2024-06-10&party_size=2", "acme")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get(CacheStatusHeader))
	assert.JSONEq(t, `{"calls":1}`, second.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))

	// Another tenant never sees acme's entry.
	other := doGet(r, "/slots?date=2024-06-10&party_size=2", "globex")
	assert.Equal(t, "MISS", other.Header().Get(CacheStatusHeader))
	assert.JSONEq(t, `{"calls":2}`, other.Body.String())

	require.NoError(t, cache.InvalidateTenant(context.Background(), store, "acme"))
	third := doGet(r, "/slots?date=2024-06-10&party_size=2", "acme")
	assert.JSONEq(t, `{"calls":3}`, third.Body.String())
}

func TestCache_SkipsErrors(t *testing.T) {
	store := cache.NewMemory(time.Minute, time.Minute)
	r := gin.New()
	r.GET("/bad", Tenant(), Cache(store, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nope"})
	})

	doGet(r, "/bad", "acme")
	assert.Zero(t, store.Len())
}

func TestRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 2)
	r := gin.New()
	r.GET("/", RateLimiter(limiter, "X-Real-IP"), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", ip)
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestIPRateLimiter_Evict(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1)
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.GetLimiter("a")
	now = now.Add(10 * time.Minute)
	limiter.GetLimiter("b")

	assert.Equal(t, 1, limiter.Evict(5*time.Minute))
	assert.Equal(t, 1, limiter.Len())
}
