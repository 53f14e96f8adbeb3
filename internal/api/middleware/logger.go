package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 请求日志中间件
//
// 字段以路由模板（如 /check/:guideId）记录，guide_id 单独成字段便于按导游检索。
// 级别策略：
//   - 5xx → Error
//   - 401 / 403 / 409 / 413 / 429 → Warn（调用方或并发问题）
//   - 其余 4xx → Info（可用性冲突、参数校验属于正常业务结果）
//   - /health 成功请求 → Debug
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		fields := []zap.Field{
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.Int("bytes", c.Writer.Size()),
			zap.String("ip", c.ClientIP()),
		}
		if guideID := c.Param("guideId"); guideID != "" {
			fields = append(fields, zap.String("guide_id", guideID))
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if uid := c.GetString("user_id"); uid != "" {
			fields = append(fields, zap.String("user_id", uid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		logger.Log(requestLogLevel(route, status), "请求完成", fields...)
	}
}

func requestLogLevel(route string, status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status == http.StatusUnauthorized,
		status == http.StatusForbidden,
		status == http.StatusConflict,
		status == http.StatusRequestEntityTooLarge,
		status == http.StatusTooManyRequests:
		return zapcore.WarnLevel
	case status >= http.StatusBadRequest:
		return zapcore.InfoLevel
	case route == "/health":
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
