package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/pkg/response"
)

// RequestIDHeader 请求ID响应头
const RequestIDHeader = "X-Request-ID"

// requestIDKey gin.Context中请求ID的key
const requestIDKey = "request_id"

// slowRequestThreshold 超过该耗时的请求记录为警告
const slowRequestThreshold = 3 * time.Second

// Logger 请求日志中间件
//
// 教学要点：
// 1. 为每个请求分配请求ID（客户端传入X-Request-ID时沿用）
// 2. 把带request_id字段的logger放入Context，handler与response.Error记录的日志可以按请求ID检索
// 3. 请求结束后输出一条结构化日志（方法、路径、状态码、耗时、客户端IP）
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 步骤1: 请求ID
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		reqLog := log.With(zap.String("request_id", requestID))
		response.SetLogger(c, reqLog)

		// 步骤2: 处理请求
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		latency := time.Since(start)

		// 步骤3: 记录请求信息
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			reqLog.Error("HTTP请求", fields...)
		case latency > slowRequestThreshold:
			reqLog.Warn("慢请求", fields...)
		default:
			reqLog.Info("HTTP请求", fields...)
		}
	}
}

// GetRequestID 获取当前请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
