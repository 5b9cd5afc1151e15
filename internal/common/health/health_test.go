package health_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shiggorat/shareit/internal/common/health"
	"github.com/Shiggorat/shareit/internal/testutil"
)

func TestHealthRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	health.NewHandler(testutil.NewDB(t), "shareit").RegisterRoutes(r)

	for path, status := range map[string]string{"/health": "ok", "/ready": "ready"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, status, body["status"])
		assert.Equal(t, "shareit", body["service"])
	}
}
