package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code是业务错误码，前三位即HTTP状态码（40400 → 404），映射表集中在pkg/response
// 2. Message是返回给客户端的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
// 4. Fields仅在参数校验失败时使用（字段名 → 错误提示）
type AppError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Err     error             `json:"-"`
	Fields  map[string]string `json:"errors,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较
// 教学要点：预定义错误（如ErrBookNotFound）与携带具体ID的错误实例错误码相同，
// errors.Is(err, book.ErrBookNotFound) 对两者都成立
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf 格式化创建AppError
func Newf(code int, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// NewValidation 创建参数校验错误（携带字段级错误）
func NewValidation(fields map[string]string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：错误码 = HTTP状态码 * 100 + 序号
// - 400xx: 请求错误（参数校验失败、格式错误）
// - 404xx: 资源不存在
// - 409xx: 资源冲突（唯一约束）
// - 500xx: 服务端错误（数据库异常、内部状态不一致）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeIllegalState  = 50003 // 内部状态不一致

	// 请求错误（40000-40099）
	ErrCodeInvalidParams = 40000 // 参数错误
	ErrCodeValidation    = 40001 // 字段校验失败
	ErrCodeBindError     = 40002 // 请求体解析失败
	ErrCodeInvalidGenre  = 40003 // 图书类型非法

	// 资源错误（40400-40499）
	ErrCodeNotFound     = 40400 // 资源不存在(通用)
	ErrCodeBookNotFound = 40402 // 图书不存在

	// 冲突错误（40900-40999）
	ErrCodeConflict      = 40900 // 资源冲突(通用)
	ErrCodeISBNDuplicate = 40901 // ISBN已存在
	ErrCodeIDConflict    = 40902 // ID已被占用
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "An unexpected error occurred")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 资源不存在
	ErrNotFound = New(ErrCodeNotFound, "Resource not found")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "Invalid request parameters")
	ErrBindError     = New(ErrCodeBindError, "Malformed JSON request")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// Code 返回错误对应的业务错误码，nil返回0
func Code(err error) int {
	if err == nil {
		return 0
	}
	return GetAppError(err).Code
}

// IsServerError 判断是否为服务端错误（5xxxx）
func IsServerError(code int) bool {
	return code >= 50000
}
