package model

import (
	"errors"
	"fmt"
)

// 错误类别，handler 据此映射 HTTP 状态码
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error 面向客户端的业务错误
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError 资源不存在
func NotFoundError(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

// ConflictError 重复或并发冲突
func ConflictError(format string, args ...interface{}) error {
	return newError(ErrConflict, format, args...)
}

// ValidationError 参数校验失败
func ValidationError(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

// UnauthorizedError 认证失败
func UnauthorizedError(format string, args ...interface{}) error {
	return newError(ErrUnauthorized, format, args...)
}
