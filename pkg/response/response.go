package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

// TimestampLayout 错误响应中timestamp字段的格式(本地时间,毫秒精度)
const TimestampLayout = "2006-01-02T15:04:05.000"

// loggerKey gin.Context中请求级logger的key
const loggerKey = "response.logger"

// ErrorBody 统一错误响应结构
// 设计说明：
// 1. 成功响应直接返回业务数据(图书/列表)，不再外包一层code/data
// 2. 所有非2xx响应使用同一结构，status与HTTP状态码一致
// 3. 参数校验失败时只返回errors字段映射，不返回message
type ErrorBody struct {
	Timestamp string            `json:"timestamp"`
	Message   string            `json:"message,omitempty"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Path      string            `json:"path"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// statusTable 业务错误码族 → HTTP状态码
// 错误码前三位即HTTP状态码，这里是唯一的映射点
var statusTable = map[int]int{
	http.StatusBadRequest:          http.StatusBadRequest,
	http.StatusNotFound:            http.StatusNotFound,
	http.StatusConflict:            http.StatusConflict,
	http.StatusInternalServerError: http.StatusInternalServerError,
}

// HTTPStatus 业务错误码 → HTTP状态码(未登记的错误码族一律500)
func HTTPStatus(code int) int {
	if status, ok := statusTable[code/100]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// OK 200响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	result, err := h.queryBooks.GetByID(ctx, id)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	// 1. 提取AppError(非AppError视为内部错误)
	appErr := apperrors.GetAppError(err)
	status := HTTPStatus(appErr.Code)

	// 2. 5xx记录完整错误链，客户端只看到通用提示
	message := appErr.Message
	if status >= http.StatusInternalServerError {
		Logger(c).Error("request failed",
			zap.Int("code", appErr.Code),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		message = apperrors.ErrInternal.Message
	}

	body := newErrorBody(c, status, message)
	if appErr.Fields != nil {
		body.Message = ""
		body.Errors = appErr.Fields
	}
	c.AbortWithStatusJSON(status, body)
}

// NotFoundRoute 未匹配路由的404响应
func NotFoundRoute(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound,
		newErrorBody(c, http.StatusNotFound, "No handler found for "+c.Request.Method+" "+c.Request.URL.Path))
}

// SetLogger 注入请求级logger(由日志中间件调用)
func SetLogger(c *gin.Context, log *zap.Logger) {
	c.Set(loggerKey, log)
}

// Logger 获取请求级logger，未注入时返回Nop
func Logger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if log, ok := v.(*zap.Logger); ok {
			return log
		}
	}
	return zap.NewNop()
}

func newErrorBody(c *gin.Context, status int, message string) ErrorBody {
	return ErrorBody{
		Timestamp: time.Now().Format(TimestampLayout),
		Message:   message,
		Status:    status,
		Error:     http.StatusText(status),
		Path:      "uri=" + c.Request.URL.Path,
	}
}
