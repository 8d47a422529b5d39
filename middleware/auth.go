package middleware

import (
	"context"
	"net/http"
	"strings"

	"bajeti/logger"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey gin.Context 中保存当前用户 ID 的键
const ContextUserIDKey = "userID"

// TokenVerifier 把 Bearer 令牌解析为用户 ID
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Auth 认证中间件，未携带或无法验证令牌时返回 401
func Auth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}

		userID, err := v.Verify(c.Request.Context(), token)
		if err != nil || userID == "" {
			logger.FromContext(c.Request.Context()).Debug("token rejected", "error", err)
			abortUnauthorized(c)
			return
		}

		c.Set(ContextUserIDKey, userID)
		_, ctx := logger.With(c.Request.Context(), "user_id", userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":  http.StatusUnauthorized,
		"error": "unauthorized",
	})
}

// GetCurrentUserID 获取当前用户 ID，未认证时为空字符串
func GetCurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
