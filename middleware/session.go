package middleware

import (
	"errors"
	"net/http"

	"fintrack/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ctxSession = "session"

// SessionContext 在 JWTAuth 之后执行，为请求取出会话上下文
// 已退出或已过期的令牌返回 401
func SessionContext(reg *session.Registry, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenID := GetTokenID(c)
		if tokenID == "" {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		s, err := reg.Resolve(c.Request.Context(), tokenID, GetCurrentUserID(c), GetTokenExpiresAt(c))
		switch {
		case errors.Is(err, session.ErrRevoked):
			abortUnauthorized(c, "session has been signed out")
			return
		case errors.Is(err, session.ErrExpired):
			abortUnauthorized(c, "session expired")
			return
		case err != nil:
			log.Error("resolve session failed", zap.Uint("user_id", GetCurrentUserID(c)), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": "failed to load session",
			})
			c.Abort()
			return
		}
		c.Set(ctxSession, s)
		c.Next()
	}
}

// GetSession 当前请求的会话
func GetSession(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(ctxSession)
	if !ok {
		return session.Session{}, false
	}
	s, ok := v.(session.Session)
	return s, ok
}
