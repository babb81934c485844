package util

import (
	"errors"
	"fmt"
)

// 错误分类哨兵，service 层用 %w 包装后返回，response 层据此映射 HTTP 状态码
var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("permission denied")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

func NotFoundError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrNotFound)
}

func ForbiddenError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrForbidden)
}

func ValidationError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrValidation)
}

func UnauthorizedError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrUnauthorized)
}

// CascadeError 级联删除中某个子资源删除失败，记录失败的资源类型和ID
type CascadeError struct {
	Resource string
	ID       uint
	Err      error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("failed to delete %s %d: %v", e.Resource, e.ID, e.Err)
}

func (e *CascadeError) Unwrap() error {
	return e.Err
}
