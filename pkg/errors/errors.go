// Package errors 提供统一的错误定义
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
// 错误码即对外契约：客户端依赖这些字符串做分支，不要随意改名。
type ErrorCode string

// 预定义错误码
const (
	// 通用错误
	CodeInvalidParam    ErrorCode = "INVALID_PARAM"
	CodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"

	// 凭证错误
	CodeMissingAPIKey ErrorCode = "MISSING_API_KEY"

	// 业务错误（精炼流程）
	CodeImageOnlyForNow      ErrorCode = "IMAGE_ONLY_FOR_NOW"
	CodeModelReturnedNonJSON ErrorCode = "MODEL_RETURNED_NON_JSON"
	CodeInvalidModelOutput   ErrorCode = "INVALID_MODEL_OUTPUT"

	// 外部服务错误
	CodeUpstreamError ErrorCode = "UPSTREAM_ERROR"
	CodeCacheError    ErrorCode = "CACHE_ERROR"
	CodeStoreError    ErrorCode = "STORE_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail 添加详细信息
func (e *AppError) WithDetail(detail string) *AppError {
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithError 添加底层错误
func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeInvalidParam, CodeImageOnlyForNow:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeMissingAPIKey:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeModelReturnedNonJSON, CodeInvalidModelOutput, CodeUpstreamError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrInvalidParam    = New(CodeInvalidParam, "invalid parameter")
	ErrUnauthorized    = New(CodeUnauthorized, "unauthorized")
	ErrNotFound        = New(CodeNotFound, "resource not found")
	ErrTooManyRequests = New(CodeTooManyRequests, "too many requests")
	ErrInternalError   = New(CodeInternalError, "internal server error")

	ErrMissingAPIKey = New(CodeMissingAPIKey, "no usable API key for this session")

	ErrImageOnlyForNow      = New(CodeImageOnlyForNow, "only the image family is supported for now")
	ErrModelReturnedNonJSON = New(CodeModelReturnedNonJSON, "model output could not be coerced to JSON")
	ErrInvalidModelOutput   = New(CodeInvalidModelOutput, "model output failed structural validation")

	ErrUpstreamError = New(CodeUpstreamError, "upstream model call failed")
)

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, CodeInternalError, "internal server error")
}

// IsCode 判断错误是否携带指定错误码
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}
