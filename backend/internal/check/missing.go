package check

import (
	"sort"

	"github.com/9dragon/workinghour/backend/internal/model"
)

// MissingDayDetail 两张工时单之间缺报的区间
type MissingDayDetail struct {
	UserName     string `json:"user_name"`
	DeptName     string `json:"dept_name"`
	GapStart     string `json:"gap_start"`
	GapEnd       string `json:"gap_end"`
	Workdays     int    `json:"workdays"`
	PrevSerialNo string `json:"prev_serial_no"`
	NextSerialNo string `json:"next_serial_no"`
}

// MissingDaySummary 缺报核对汇总
type MissingDaySummary struct {
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	TotalWorkdays    int      `json:"total_workdays"`
	TotalUsers       int      `json:"total_users"`
	AbnormalCount    int      `json:"abnormal_count"`
	AbnormalUsers    []string `json:"abnormal_users"`
	TotalMissingDays int      `json:"total_missing_days"`
	IntegrityRate    float64  `json:"integrity_rate"`
}

type userDept struct {
	UserName string
	DeptName string
}

// MissingDays 按（人员, 部门）检查相邻工时单之间的工作日缺口
// 按开始日期排序后逐对比较：前一张的结束日期早于后一张开始日期的前一天即为缺口
func MissingDays(records []model.WorkHourRecord, rng Range, cal Calendar) (MissingDaySummary, []MissingDayDetail) {
	groups := make(map[userDept][]model.WorkHourRecord)
	for _, r := range records {
		k := userDept{UserName: r.UserName, DeptName: r.DeptName}
		groups[k] = append(groups[k], r)
	}

	keys := make([]userDept, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].UserName != keys[j].UserName {
			return keys[i].UserName < keys[j].UserName
		}
		return keys[i].DeptName < keys[j].DeptName
	})

	details := []MissingDayDetail{}
	abnormal := []string{}
	totalMissing := 0

	for _, k := range keys {
		tickets := distinctTickets(groups[k])
		if len(tickets) == 0 {
			continue
		}

		missing := 0
		for i := 1; i < len(tickets); i++ {
			prev, next := tickets[i-1], tickets[i]
			gapEnd := next.Start.AddDate(0, 0, -1)
			if !prev.End.Before(gapEnd) {
				continue
			}
			gapStart := prev.End.AddDate(0, 0, 1)
			if n := cal.CountWorkdays(gapStart, gapEnd); n > 0 {
				missing += n
				details = append(details, MissingDayDetail{
					UserName:     k.UserName,
					DeptName:     k.DeptName,
					GapStart:     formatDate(gapStart),
					GapEnd:       formatDate(gapEnd),
					Workdays:     n,
					PrevSerialNo: prev.SerialNo,
					NextSerialNo: next.SerialNo,
				})
			}
		}

		if missing > 0 {
			totalMissing += missing
			abnormal = append(abnormal, k.UserName)
		}
	}

	summary := MissingDaySummary{
		StartDate:        formatDate(rng.Start),
		EndDate:          formatDate(rng.End),
		TotalWorkdays:    cal.CountWorkdays(rng.Start, rng.End),
		TotalUsers:       len(keys),
		AbnormalCount:    len(abnormal),
		AbnormalUsers:    abnormal,
		TotalMissingDays: totalMissing,
		IntegrityRate:    rate(len(keys)-len(abnormal), len(keys)),
	}
	return summary, details
}
