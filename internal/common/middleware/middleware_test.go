package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Shiggorat/shareit/internal/common/middleware"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		id, _ := middleware.GetUserID(c)
		c.String(http.StatusOK, id.String())
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func serve(r *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentity(t *testing.T) {
	r := newRouter(middleware.Identity())
	id := uuid.New()

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing", "", http.StatusBadRequest},
		{"not a uuid", "42", http.StatusBadRequest},
		{"valid", id.String(), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers[middleware.UserIDHeader] = tt.header
			}
			w := serve(r, "/ping", headers)
			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, id.String(), w.Body.String())
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := newRouter(middleware.RequestIDMiddleware())

	w := serve(r, "/ping", nil)
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)

	w = serve(r, "/ping", map[string]string{"X-Request-ID": "abc"})
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newRouter(middleware.RateLimitMiddleware(rate.NewLimiter(rate.Every(1<<62), 2)))

	assert.Equal(t, http.StatusOK, serve(r, "/ping", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, "/ping", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "/ping", nil).Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	r := newRouter(middleware.RecoveryMiddleware(zap.NewNop()), middleware.LoggerMiddleware(zap.NewNop()))

	assert.Equal(t, http.StatusInternalServerError, serve(r, "/panic", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, "/ping", nil).Code)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	w := serve(newRouter(middleware.SecurityHeadersMiddleware()), "/ping", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
