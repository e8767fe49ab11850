package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ValidationError 校验错误，按字段携带错误信息
// 用于日期包含、区间重叠、学分上限、状态非法迁移等不变量破坏
type ValidationError struct {
	Fields map[string]string
}

// NewValidation 创建单字段校验错误
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// AsValidation 提取错误链中的 ValidationError，不存在返回 nil
func AsValidation(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
