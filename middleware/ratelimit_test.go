package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLoginRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 短窗口 200ms，最多 2 次
	router := gin.New()
	router.Use(LoginRateLimit(2, 200*time.Millisecond))
	router.POST("/login", func(c *gin.Context) {
		c.String(200, "ok")
	})

	doReq := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/login", nil)
		req.Header.Set("X-Real-IP", ip)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w1 := doReq("192.168.1.1")
	w2 := doReq("192.168.1.1")
	w3 := doReq("192.168.1.1")

	assert.Equal(t, 200, w1.Code)
	assert.Equal(t, 200, w2.Code)
	assert.Equal(t, http.StatusTooManyRequests, w3.Code)
	assert.Contains(t, w3.Body.String(), "too many login attempts")
	assert.Contains(t, w3.Body.String(), `"code":429`)

	// 不同 IP 互不影响
	assert.Equal(t, 200, doReq("192.168.1.2").Code)
	assert.Equal(t, 200, doReq("192.168.1.2").Code)

	// 窗口过后恢复
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 200, doReq("192.168.1.1").Code)
}

func TestLoginLimiter_Cleanup(t *testing.T) {
	l := newLoginLimiter(1, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, l.allow("a", now))
	assert.False(t, l.allow("a", now.Add(time.Second)))
	assert.True(t, l.allow("b", now.Add(30*time.Second)))

	l.cleanup(now.Add(61 * time.Second))
	assert.NotContains(t, l.attempts, "a")
	assert.Contains(t, l.attempts, "b")

	l.cleanup(now.Add(2 * time.Minute))
	assert.Empty(t, l.attempts)
}
