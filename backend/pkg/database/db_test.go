package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type recordingWriter struct {
	lines []string
}

func (w *recordingWriter) Printf(format string, args ...interface{}) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

func TestGormLogger_IgnoresRecordNotFound(t *testing.T) {
	w := &recordingWriter{}
	l := newGormLogger(w)
	sql := func() (string, int64) { return "SELECT * FROM work_hour_data", 0 }

	l.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	l.Trace(context.Background(), time.Now(), sql, fmt.Errorf("查询失败: %w", gorm.ErrRecordNotFound))
	assert.Empty(t, w.lines)

	l.Trace(context.Background(), time.Now(), sql, errors.New("connection refused"))
	assert.Len(t, w.lines, 1)
}

func TestGormLogger_SkipsInfo(t *testing.T) {
	w := &recordingWriter{}
	l := newGormLogger(w)

	l.Info(context.Background(), "迁移 %s", "work_hour_data")
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)

	assert.Empty(t, w.lines)
}
