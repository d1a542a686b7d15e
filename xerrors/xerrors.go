// xerrors 包为 shardmeta 提供标准化的错误处理工具。
// 这是一个基础包，不依赖于 shardmeta 的其他组件。
package xerrors

import (
	"errors"
	"fmt"
)

// ============================================================================
// 哨兵错误 - 组件通用的错误类型
// ============================================================================

var (
	// ErrNotFound 表示请求的资源未找到。
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists 表示资源已存在。
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput 表示输入参数无效。
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable 表示服务或资源不可用。
	ErrUnavailable = errors.New("unavailable")

	// ErrInternal 表示内部错误。
	ErrInternal = errors.New("internal error")
)

// ============================================================================
// 错误包装 - 保留带上下文的错误链
// ============================================================================

// Wrap 用额外的上下文信息包装错误。
// 如果 err 为 nil，则返回 nil。
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf 用格式化的上下文信息包装错误。
// 如果 err 为 nil，则返回 nil。
//
// 示例：
//
//	if err != nil {
//	    return xerrors.Wrapf(err, "加载 schema %s 失败", schemaName)
//	}
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// WithCode 用错误码包装错误，便于结构化错误处理。
// 如果 err 为 nil，则返回 nil。
//
// 示例：
//
//	return xerrors.WithCode(ErrInvalidInput, "worker_id_out_of_range")
func WithCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &CodedError{
		Code:  code,
		Cause: err,
	}
}

// CodedError 表示带有机器可读错误码的错误。
type CodedError struct {
	Code  string // 机器可读的错误码，例如 "worker_id_out_of_range"
	Cause error  // 底层错误
}

// Error 实现 error 接口。
func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %v", e.Code, e.Cause)
	}
	return fmt.Sprintf("[%s]", e.Code)
}

// Unwrap 返回底层错误，支持 errors.Is/As。
func (e *CodedError) Unwrap() error {
	return e.Cause
}

// GetCode 从错误链中提取错误码。
// 如果未找到 CodedError，则返回空字符串。
func GetCode(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

// ============================================================================
// MultiError - 合并多个错误为一个
// ============================================================================

// MultiError 用于将多个错误合并为一个错误。
type MultiError struct {
	Errors []error
}

// Error 实现 error 接口。
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("%v (and %d more errors)", m.Errors[0], len(m.Errors)-1)
}

// Unwrap 返回错误列表，支持 errors.Is/As。
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Combine 将多个错误合并为一个。
// 全部为 nil 时返回 nil；只有一个非 nil 时直接返回该错误。
func Combine(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return &MultiError{Errors: nonNil}
	}
}

// ============================================================================
// 标准库常用方法的再导出，便于使用
// ============================================================================

var (
	// New 创建一个带指定消息的新错误。
	New = errors.New

	// Is 判断 err 的错误链中是否有错误与 target 匹配。
	Is = errors.Is

	// As 查找 err 的错误链中第一个与 target 匹配的错误。
	As = errors.As
)
