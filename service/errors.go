package service

import "fmt"

// ErrorMessage 业务错误的公共部分
type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// ValidationError 参数不合法，对应 400
type ValidationError struct {
	ErrorMessage
}

// NotFoundError 资源不存在或不属于当前用户，对应 404
type NotFoundError struct {
	ErrorMessage
}

// ConflictError 分类下仍有交易且调用方未决定如何处理，对应 409
type ConflictError struct {
	ErrorMessage
	TransactionCount int64
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{ErrorMessage{Message: fmt.Sprintf(format, args...)}}
}

func NewNotFoundError(format string, args ...any) *NotFoundError {
	return &NotFoundError{ErrorMessage{Message: fmt.Sprintf(format, args...)}}
}

func NewConflictError(count int64, message string) *ConflictError {
	return &ConflictError{ErrorMessage: ErrorMessage{Message: message}, TransactionCount: count}
}
