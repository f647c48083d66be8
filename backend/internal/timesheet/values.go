package timesheet

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Hours 可缺省的时长
// 空白或 NaN 视为缺省，缺省按 0 参与计算
type Hours struct {
	Value   float64
	Present bool
}

// OrZero 缺省时返回 0
func (h Hours) OrZero() float64 {
	if !h.Present {
		return 0
	}
	return h.Value
}

// Positive 是否大于 0
func (h Hours) Positive() bool {
	return h.OrZero() > 0
}

var errNotNumber = errors.New("不是有效数字")

// ParseHours 解析时长文本，允许“小时”/“h”后缀
func ParseHours(s string) (Hours, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return Hours{}, nil
	}
	s = strings.TrimSuffix(s, "小时")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "h"), "H")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) {
		return Hours{}, errNotNumber
	}
	if math.IsNaN(v) {
		return Hours{}, nil
	}
	return Hours{Value: v, Present: true}, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006-1-2",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006/1/2",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006.01.02",
	"2006年1月2日",
	"2006年01月02日",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

var errNotDate = errors.New("不是有效日期")

// ParseDate 解析日期文本或 Excel 序列号，丢弃时分秒
// 返回值统一为 UTC 零点
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errNotDate
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		// 1900 日期系统的合理区间（1950-2100）
		if serial < 18264 || serial > 73051 {
			return time.Time{}, errNotDate
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, errNotDate
		}
		return DateOf(t), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return time.Time{}, errNotDate
}

// DateOf 取日期部分（UTC 零点）
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
