package api

import (
	"errors"
	"net/http"

	"bajeti/config"
	"bajeti/logger"
	"bajeti/middleware"
	"bajeti/service"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Code             int    `json:"code" example:"400"`
	Error            string `json:"error" example:"invalid payload"`
	TransactionCount *int64 `json:"transactionCount,omitempty" example:"3"`
}

// OKResponse 删除等操作的成功响应
type OKResponse struct {
	OK bool `json:"ok" example:"true"`
}

// Success 成功响应，直接返回数据本身
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// OK 返回 {"ok": true}
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, OKResponse{OK: true})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{
		Code:  code,
		Error: message,
	})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401 错误响应
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "unauthorized")
}

// InternalError 500 错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// HandleError 把 service 层错误映射为 HTTP 状态码
// 未知错误记录日志并返回 500，release 模式下不暴露细节
func HandleError(c *gin.Context, err error, fallback string) {
	log := logger.FromContext(c.Request.Context())

	var (
		verr     *service.ValidationError
		nf       *service.NotFoundError
		conflict *service.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		log.Warn("validation failed", "error", verr.Message)
		BadRequest(c, verr.Message)
	case errors.As(err, &nf):
		log.Warn("resource not found", "error", nf.Message)
		NotFound(c, nf.Message)
	case errors.As(err, &conflict):
		log.Warn("conflict", "error", conflict.Message, "transaction_count", conflict.TransactionCount)
		count := conflict.TransactionCount
		c.AbortWithStatusJSON(http.StatusConflict, ErrorResponse{
			Code:             http.StatusConflict,
			Error:            conflict.Message,
			TransactionCount: &count,
		})
	default:
		log.Error("request failed", "error", err)
		InternalError(c, config.SafeErrorMessage(err, fallback))
	}
}

// currentUser 取当前用户，未认证时写 401 并返回 false
func currentUser(c *gin.Context) (string, bool) {
	userID := middleware.GetCurrentUserID(c)
	if userID == "" {
		Unauthorized(c)
		return "", false
	}
	return userID, true
}
