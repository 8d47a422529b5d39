package middleware

import (
	"log/slog"
	"time"

	"bajeti/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 请求 ID 头，客户端未提供时生成
const RequestIDHeader = "X-Request-ID"

// RequestLogger 为每个请求创建带 request_id/method/path 的 logger 放入 context，
// 请求结束后按状态码级别记录一行
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(RequestIDHeader, reqID)

		reqLog := log.With(
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		c.Request = c.Request.WithContext(logger.ToContext(c.Request.Context(), reqLog))

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		ctx := c.Request.Context()
		logger.FromContext(ctx).Log(ctx, level, "request completed",
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
