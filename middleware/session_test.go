package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/config"
	"fintrack/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSessionRouter(reg *session.Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTAuth(), SessionContext(reg, zap.NewNop()))
	router.GET("/me", func(c *gin.Context) {
		s, ok := GetSession(c)
		if !ok {
			c.String(500, "no session")
			return
		}
		c.String(200, "%s %s", s.Username, s.Currency)
	})
	return router
}

func get(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSessionContext(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()
	InitJWT(config.GlobalConfig)

	reg := session.NewRegistry(func(_ context.Context, userID uint) (session.AppContext, error) {
		return session.AppContext{UserID: userID, Username: "alice", Currency: "£"}, nil
	})
	router := newSessionRouter(reg)

	token, claims, err := IssueToken(1, "alice", time.Hour)
	require.NoError(t, err)

	// 服务重启后首次使用，按需建立会话
	w := get(router, token)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "alice £", w.Body.String())
	assert.Equal(t, 1, reg.Active())

	reg.UpdateCurrency(1, "$")
	assert.Equal(t, "alice $", get(router, token).Body.String())

	reg.End(claims.ID, claims.ExpiresAt.Time)
	w = get(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "signed out")
}

func TestSessionContext_LoaderError(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()
	InitJWT(config.GlobalConfig)

	reg := session.NewRegistry(func(context.Context, uint) (session.AppContext, error) {
		return session.AppContext{}, errors.New("store down")
	})
	token, _, _ := IssueToken(1, "alice", time.Hour)

	w := get(newSessionRouter(reg), token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":500`)
}
