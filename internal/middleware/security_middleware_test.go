package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"alltech-pos/internal/auth"
	"alltech-pos/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{middleware.AuthMiddleware()}, extra...)
	chain = append(chain, func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/guarded", chain...)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	auth.Init("test-secret")
	r := protectedRouter()

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "garbage").Code)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "NotBearer xyz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := auth.GenerateToken(1, "staff")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(r, token).Code)
}

func TestRequireRole(t *testing.T) {
	auth.Init("test-secret")
	r := protectedRouter(middleware.RequireRole("admin"))

	staff, err := auth.GenerateToken(1, "staff")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, get(r, staff).Code)

	admin, err := auth.GenerateToken(2, "admin")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(r, admin).Code)
}

func TestRequireServiceRejectsUserTokens(t *testing.T) {
	auth.Init("test-secret")
	r := protectedRouter(middleware.RequireService())

	// Even an admin token is not a service token.
	admin, err := auth.GenerateToken(2, "admin")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, get(r, admin).Code)

	svc, err := auth.GenerateServiceToken()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(r, svc).Code)
}

func TestRateLimitReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/limited", middleware.RateLimit(1, 2), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	// Burst of 2, then the bucket is empty.
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
