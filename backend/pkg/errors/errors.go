package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicateKey 唯一约束冲突（并发导入写入同一键）
var ErrDuplicateKey = errors.New("唯一键冲突")

// IsDuplicateKey 判断写入错误是否为唯一约束冲突
// 优先识别 GORM TranslateError 的结果，驱动未翻译时按错误文本兜底
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
