// Package service 业务逻辑，位于 HTTP 处理器与存储层之间。
package service

import (
	"errors"
	"fmt"

	"fintrack/importer"
	"fintrack/store"
)

var (
	// ErrNotFound 记录不存在或不属于当前用户
	ErrNotFound = store.ErrNotFound
	// ErrNoMatchingRows 导入文件中没有任何可识别的行
	ErrNoMatchingRows = importer.ErrNoMatchingRows
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrEmailDisabled 邮件服务未启用
	ErrEmailDisabled = errors.New("email service is not enabled")
)

// ValidationError 请求参数不合法，在访问存储之前返回
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ForbiddenError 操作不被允许
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// ConflictError 与现有数据冲突
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }
