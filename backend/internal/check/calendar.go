// Package check 基于已入库工时记录的一致性核对（纯计算，不访问数据库）
package check

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/9dragon/workinghour/backend/internal/model"
)

// DateLayout 明细中日期的序列化格式
const DateLayout = "2006-01-02"

// StandardDayHours 每个工作日的标准工时
const StandardDayHours = 8

// DefaultWorkdays 周一至周五
var DefaultWorkdays = []int{1, 2, 3, 4, 5}

// Range 核对区间（闭区间，已解析为具体日期）
type Range struct {
	Start time.Time
	End   time.Time
}

// Calendar 工作日历：工作日掩码 + 可选节假日
type Calendar struct {
	workdays [8]bool // 下标 1=周一 … 7=周日
	holidays map[time.Time]struct{}
}

// NewCalendar 创建日历，workdays 取值 1-7，越界值忽略
func NewCalendar(workdays []int, holidays []time.Time) Calendar {
	var c Calendar
	for _, d := range workdays {
		if d >= 1 && d <= 7 {
			c.workdays[d] = true
		}
	}
	if len(holidays) > 0 {
		c.holidays = make(map[time.Time]struct{}, len(holidays))
		for _, h := range holidays {
			c.holidays[dateOf(h)] = struct{}{}
		}
	}
	return c
}

// IsWorkday 是否为工作日
func (c Calendar) IsWorkday(d time.Time) bool {
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7
	}
	if !c.workdays[wd] {
		return false
	}
	_, holiday := c.holidays[dateOf(d)]
	return !holiday
}

// CountWorkdays 闭区间内的工作日数，from 晚于 to 时为 0
func (c Calendar) CountWorkdays(from, to time.Time) int {
	from, to = dateOf(from), dateOf(to)
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if c.IsWorkday(d) {
			n++
		}
	}
	return n
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// maxTime 两个日期中较晚者（仅日期部分）
func maxTime(a, b time.Time) time.Time {
	a, b = dateOf(a), dateOf(b)
	if a.After(b) {
		return a
	}
	return b
}

// minTime 两个日期中较早者（仅日期部分）
func minTime(a, b time.Time) time.Time {
	a, b = dateOf(a), dateOf(b)
	if a.Before(b) {
		return a
	}
	return b
}

func formatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ── 工时单 ──

// ticket 一张工时单：序号 + 时间段
type ticket struct {
	SerialNo string
	Start    time.Time
	End      time.Time
}

// distinctTickets 去重并按开始日期排序
func distinctTickets(records []model.WorkHourRecord) []ticket {
	seen := make(map[ticket]struct{})
	var out []ticket
	for _, r := range records {
		t := ticket{SerialNo: r.SerialNo, Start: dateOf(r.StartDate), End: dateOf(r.EndDate)}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if !a.End.Equal(b.End) {
			return a.End.Before(b.End)
		}
		return a.SerialNo < b.SerialNo
	})
	return out
}

// ── 数值 ──

// rate 百分比，保留两位小数；total 为 0 时返回 100
func rate(part, total int) float64 {
	if total == 0 {
		return 100
	}
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2).
		InexactFloat64()
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
