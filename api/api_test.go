package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/config"
	"fintrack/middleware"
	"fintrack/observability"
	"fintrack/service"
	"fintrack/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	store  *store.MemoryStore
	svc    *service.Services
}

func initTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "test"},
		JWT:     config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Profile: config.ProfileConfig{DefaultCurrency: "£"},
	}
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	t.Cleanup(func() { config.GlobalConfig = nil })
	return cfg
}

// newTestEnv 内存存储上的完整 /api/v1 路由
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := initTestConfig(t)
	st := store.NewMemoryStore()
	svc := service.NewServices(st, cfg, observability.NewMetrics(), zap.NewNop())

	auth := NewAuthHandler(cfg, svc.Auth, svc.Sessions)
	categories := NewCategoryHandler(svc.Categories)
	transactions := NewTransactionHandler(svc.Transactions)
	profile := NewProfileHandler(svc.Profiles)
	dashboard := NewDashboardHandler(svc.Dashboard)
	reports := NewReportHandler(svc.Reports)

	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.POST("/auth/register", auth.Register)
	v1.POST("/auth/login", auth.Login)
	v1.GET("/auth/session", middleware.OptionalJWT(), auth.Session)

	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(), middleware.SessionContext(svc.Sessions, zap.NewNop()))
	authorized.POST("/auth/logout", auth.Logout)
	authorized.PUT("/auth/password", auth.ChangePassword)
	authorized.GET("/categories", categories.List)
	authorized.POST("/categories", categories.Create)
	authorized.DELETE("/categories/:id", categories.Delete)
	authorized.GET("/transactions", transactions.List)
	authorized.POST("/transactions", transactions.Create)
	authorized.GET("/transactions/export", transactions.Export)
	authorized.POST("/transactions/import", transactions.Import)
	authorized.DELETE("/transactions/:id", transactions.Delete)
	authorized.GET("/profile", profile.Get)
	authorized.PUT("/profile", profile.Update)
	authorized.GET("/dashboard", dashboard.Get)
	authorized.GET("/reports", reports.Get)
	authorized.GET("/reports/excel", reports.Excel)
	authorized.GET("/reports/csv", reports.CSV)
	authorized.GET("/reports/pdf", reports.PDF)
	authorized.POST("/reports/email", reports.Email)

	return &testEnv{router: r, store: st, svc: svc}
}

// do 发起请求，body 非空时按 JSON 编码
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login 注册并登录，返回令牌
func (e *testEnv) login(t *testing.T, username string) string {
	t.Helper()
	w := e.do(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"password": "secret123",
		"email":    username + "@example.com",
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	w = e.do(t, "POST", "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "secret123",
	})
	require.Equal(t, 200, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)
	return data["token"].(string)
}

// catID 系统类别ID
func (e *testEnv) catID(t *testing.T, name string) uint {
	t.Helper()
	cats, err := e.store.ListCategories(context.Background(), 0, "")
	require.NoError(t, err)
	for _, c := range cats {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("category %q not found", name)
	return 0
}

// addTx 通过接口录入一笔交易
func (e *testEnv) addTx(t *testing.T, token, date, typ, cat, amount string) uint {
	t.Helper()
	w := e.do(t, "POST", "/api/v1/transactions", token, map[string]any{
		"date":        date,
		"amount":      amount,
		"type_id":     e.catID(t, typ),
		"category_id": e.catID(t, cat),
	})
	require.Equal(t, 200, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)
	return uint(data["id"].(float64))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}
