package errors

import (
	stderrors "errors"
	"fmt"
)

// 错误码（与HTTP状态码一致）
const (
	CodeSuccess         = 200
	CodeCreated         = 201
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeInternalError   = 500
	CodeDeliveryFailed  = 502 // 邮件等外部投递失败
	CodeValidationError = CodeBadRequest
	CodeDatabaseError   = CodeInternalError
)

// AppError 应用错误
type AppError struct {
	Code    int         `json:"-"`
	Message string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，便于 errors.Is(err, ErrNotFound)
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New 创建新错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails 附带详细信息（返回副本，避免修改预定义错误）
func WithDetails(err *AppError, details interface{}) *AppError {
	cp := *err
	cp.Details = details
	return &cp
}

// Validation 参数校验错误
func Validation(message string, details interface{}) *AppError {
	return &AppError{Code: CodeValidationError, Message: message, Details: details}
}

// Internal 内部错误，对外只暴露通用信息
func Internal(err error) *AppError {
	return Wrap(CodeInternalError, "Internal server error", err)
}

// As 提取 AppError
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf 获取错误码，非 AppError 视为内部错误
func CodeOf(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return CodeInternalError
}

// 预定义错误
var (
	ErrBadRequest    = New(CodeBadRequest, "Invalid request")
	ErrUnauthorized  = New(CodeUnauthorized, "Unauthorized")
	ErrForbidden     = New(CodeForbidden, "Forbidden")
	ErrNotFound      = New(CodeNotFound, "Not found")
	ErrConflict      = New(CodeConflict, "Conflict")
	ErrInternalError = New(CodeInternalError, "Internal server error")

	// 具体业务错误
	ErrInvalidParams      = New(CodeBadRequest, "Invalid request parameters")
	ErrInvalidCredentials = New(CodeUnauthorized, "Invalid email or password")
	ErrInvalidToken       = New(CodeUnauthorized, "Invalid token")
	ErrTokenExpired       = New(CodeUnauthorized, "Token expired")
	ErrTenantUnresolved   = New(CodeForbidden, "No tenant associated with this session")
	ErrRecordNotFound     = New(CodeNotFound, "Record not found")
	ErrEmailExists        = New(CodeConflict, "Email already registered")
	ErrNoFieldsToUpdate   = New(CodeBadRequest, "No valid fields to update")
)
