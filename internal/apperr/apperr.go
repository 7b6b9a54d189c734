// Package apperr 提供统一的业务错误分类
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// 错误类别哨兵，handler 层据此映射 HTTP 状态码
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrUpstream   = errors.New("upstream error")
	ErrAuth       = errors.New("authentication error")
)

// Validation 创建校验错误
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// NotFound 创建未找到错误
func NotFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

// Conflict 创建冲突错误
func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// Upstream 创建上游服务错误
func Upstream(msg string) error {
	return fmt.Errorf("%w: %s", ErrUpstream, msg)
}

// Auth 创建认证错误
func Auth(msg string) error {
	return fmt.Errorf("%w: %s", ErrAuth, msg)
}

// Message 提取面向调用方的错误描述，剥离类别前缀
func Message(err error) string {
	if err == nil {
		return ""
	}
	s := err.Error()
	for _, sentinel := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrUpstream, ErrAuth} {
		if errors.Is(err, sentinel) {
			return strings.TrimPrefix(s, sentinel.Error()+": ")
		}
	}
	return s
}
