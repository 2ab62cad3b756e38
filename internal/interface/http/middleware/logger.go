package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/pkg/tracing"
)

const tracerName = "bookshelf/http"

// RequestLogger 请求日志中间件
//
// 教学要点：
// 1. 每个请求一个span，trace_id写入日志，日志和链路可以互相检索
// 2. 请求ID优先沿用上游的X-Request-ID，没有时用uuid生成
// 3. 超过slow阈值的请求记Warn
//
// 不记录请求体、密码、Token等敏感信息
func RequestLogger(log *zap.Logger, slow time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		ctx, span := tracing.StartSpan(c.Request.Context(), tracerName, c.Request.Method+" "+c.Request.URL.Path)
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if traceID := tracing.ExtractTraceID(ctx); traceID != "" {
			fields = append(fields,
				zap.String("trace_id", traceID),
				zap.String("span_id", tracing.ExtractSpanID(ctx)),
			)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("http request", fields...)
		case slow > 0 && latency > slow:
			log.Warn("slow request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}
