package types

import (
	"errors"
	"fmt"
)

// ErrorKind 错误类别
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation_error"
	KindInvalidInput     ErrorKind = "invalid_input"
	KindMissingParameter ErrorKind = "missing_parameter"
	KindComputation      ErrorKind = "computation_error"
)

// 各类别的哨兵错误, 用于 errors.Is 判断
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrInvalidInput     = &Error{Kind: KindInvalidInput}
	ErrMissingParameter = &Error{Kind: KindMissingParameter}
	ErrComputation      = &Error{Kind: KindComputation}
)

// Error 带类别的领域错误
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is 按类别匹配
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewValidationError 创建校验错误
func NewValidationError(field, format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidInputError 创建无效输入错误
func NewInvalidInputError(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NewMissingParameterError 创建缺少参数错误
func NewMissingParameterError(field, format string, args ...interface{}) error {
	return &Error{Kind: KindMissingParameter, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewComputationError 创建计算错误
func NewComputationError(format string, args ...interface{}) error {
	return &Error{Kind: KindComputation, Message: fmt.Sprintf(format, args...)}
}

// KindOf 取出错误类别, 非领域错误返回空
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
