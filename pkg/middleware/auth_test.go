package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipx-service/pkg/auth"
	"snipx-service/pkg/config"
)

func newEngine(t *testing.T) (*gin.Engine, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tm, err := auth.NewTokenManager(config.JWTConfig{Secret: "test", ExpireTime: time.Hour})
	require.NoError(t, err)

	r := gin.New()
	r.Use(RequestContextMiddleware())
	api := r.Group("/api", JWTAuth(tm))
	api.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, CurrentUserID(c)) })
	api.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r, tm
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r, tm := newEngine(t)
	userToken, _, err := tm.Issue("u-42", "u@x.io", "user")
	require.NoError(t, err)

	w := do(r, "/api/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(r, "/api/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "/api/me", userToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-42", w.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	r, tm := newEngine(t)
	userToken, _, _ := tm.Issue("u-1", "u@x.io", "user")
	adminToken, _, _ := tm.Issue("a-1", "a@x.io", RoleAdmin)

	assert.Equal(t, http.StatusForbidden, do(r, "/api/admin", userToken).Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/api/admin", adminToken).Code)
}
