package router

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fintrack/config"
	"fintrack/middleware"
	"fintrack/observability"
	"fintrack/service"
	"fintrack/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *observability.Metrics) {
	t.Helper()
	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: gin.TestMode},
		JWT:     config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Profile: config.ProfileConfig{DefaultCurrency: "£"},
	}
	middleware.InitJWT(cfg)
	metrics := observability.NewMetrics()
	svc := service.NewServices(store.NewMemoryStore(), cfg, metrics, zap.NewNop())
	return SetupRouter(cfg, svc, metrics, zap.NewNop()), metrics
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/api/v1/transactions", nil))
	assert.Equal(t, 204, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoginFlowAndMetrics(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := postJSON(r, "/api/v1/auth/register", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, 200, w.Code, w.Body.String())

	w = postJSON(r, "/api/v1/auth/login", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, 200, w.Code, w.Body.String())
	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	req := httptest.NewRequest("GET", "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+login.Data.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `fintrack_http_requests_total{method="GET",route="/api/v1/dashboard",status="200"} 1`)
	assert.Contains(t, body, `fintrack_auth_events_total{event="SIGNED_IN"} 1`)
}

func TestLoginRateLimit(t *testing.T) {
	r, _ := setupTestRouter(t)

	var w *httptest.ResponseRecorder
	for i := 0; i < loginAttempts; i++ {
		w = postJSON(r, "/api/v1/auth/login", `{"username":"nobody","password":"wrong-pass"}`)
		assert.Equal(t, 401, w.Code)
	}
	w = postJSON(r, "/api/v1/auth/login", `{"username":"nobody","password":"wrong-pass"}`)
	assert.Equal(t, 429, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "too many login attempts"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := setupTestRouter(t)

	for _, path := range []string{"/api/v1/categories", "/api/v1/transactions", "/api/v1/profile", "/api/v1/dashboard", "/api/v1/reports"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, 401, w.Code, path)
	}
}
