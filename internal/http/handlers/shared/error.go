package shared

import (
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(constants.ContextKeyRequestID); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 按 key 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondAppError(c, response.WrapError(code, key, Message(key), err))
}

// RespondAppError 输出 AppError；内部错误记 error 日志，业务拒绝记 warn 日志，原始错误不返回给调用方。
func RespondAppError(c *gin.Context, appErr *response.AppError) {
	if appErr == nil {
		return
	}
	if appErr.Err != nil {
		fields := []interface{}{"code", appErr.Code, "key", appErr.Key, "error", appErr.Err}
		if appErr.Internal() {
			RequestLog(c).Errorw("handler_error", fields...)
		} else {
			RequestLog(c).Warnw("handler_rejected", fields...)
		}
	}
	response.Error(c, appErr.Code, appErr.Message)
}
