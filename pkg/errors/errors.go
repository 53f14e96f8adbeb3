package errors

import (
	"errors"
	"net/http"
)

// AppError 业务可预期错误（operational error）
// 携带面向调用方的错误信息与 HTTP 状态码，由 Handler 层原样输出
type AppError struct {
	Message    string
	StatusCode int
}

// New 创建 AppError
func New(message string, statusCode int) *AppError {
	return &AppError{Message: message, StatusCode: statusCode}
}

func (e *AppError) Error() string { return e.Message }

// Status 返回响应体中的 status 字段：4xx 为 fail，其余为 error
func (e *AppError) Status() string {
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		return "fail"
	}
	return "error"
}

// As 从错误链中提取 AppError
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// BadRequest 400 业务错误
func BadRequest(message string) *AppError {
	return New(message, http.StatusBadRequest)
}
