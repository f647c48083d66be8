package check

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/9dragon/workinghour/backend/internal/model"
)

// ReconcileTolerance 实际与应填工时的允许误差
const ReconcileTolerance = 0.01

// 核对状态
const (
	StatusNormal = "normal"
	StatusShort  = "short"
	StatusExcess = "excess"
)

// TypeHours 分类工时
type TypeHours struct {
	WorkType string  `json:"work_type"`
	Hours    float64 `json:"hours"`
}

// ReconcileDetail 工时与应填工时不符的工时单
type ReconcileDetail struct {
	SerialNo      string      `json:"serial_no"`
	UserName      string      `json:"user_name"`
	DeptName      string      `json:"dept_name"`
	StartDate     string      `json:"start_date"`
	EndDate       string      `json:"end_date"`
	Workdays      int         `json:"workdays"`
	ExpectedHours float64     `json:"expected_hours"`
	ActualHours   float64     `json:"actual_hours"`
	Difference    float64     `json:"difference"`
	Status        string      `json:"status"`
	ByType        []TypeHours `json:"by_type"`
}

// CategoryStat 分类统计
type CategoryStat struct {
	WorkType     string  `json:"work_type"`
	Label        string  `json:"label"`
	TotalHours   float64 `json:"total_hours"`
	AverageHours float64 `json:"average_hours"`
}

// ReconcileSummary 工时核对汇总
type ReconcileSummary struct {
	StartDate     string         `json:"start_date"`
	EndDate       string         `json:"end_date"`
	TotalTickets  int            `json:"total_tickets"`
	NormalTickets int            `json:"normal_tickets"`
	ShortTickets  int            `json:"short_tickets"`
	ExcessTickets int            `json:"excess_tickets"`
	Categories    []CategoryStat `json:"categories"`
}

type ticketKey struct {
	SerialNo string
	UserName string
	Start    time.Time
	End      time.Time
}

type ticketSums struct {
	DeptName string
	ByType   map[model.WorkType]decimal.Decimal
}

// Reconcile 按工时单汇总各分类工时与请假时长，和 工作日数×8 比较
// 加班时长不计入合计
func Reconcile(records []model.WorkHourRecord, rng Range, cal Calendar) (ReconcileSummary, []ReconcileDetail) {
	sums := make(map[ticketKey]*ticketSums)
	var keys []ticketKey
	for _, r := range records {
		k := ticketKey{SerialNo: r.SerialNo, UserName: r.UserName, Start: dateOf(r.StartDate), End: dateOf(r.EndDate)}
		s, ok := sums[k]
		if !ok {
			s = &ticketSums{DeptName: r.DeptName, ByType: make(map[model.WorkType]decimal.Decimal)}
			sums[k] = s
			keys = append(keys, k)
		}
		s.ByType[r.WorkType] = s.ByType[r.WorkType].Add(decimal.NewFromFloat(r.TotalHours()))
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.UserName != b.UserName {
			return a.UserName < b.UserName
		}
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if !a.End.Equal(b.End) {
			return a.End.Before(b.End)
		}
		return a.SerialNo < b.SerialNo
	})

	tolerance := decimal.NewFromFloat(ReconcileTolerance)
	categoryTotals := make(map[model.WorkType]decimal.Decimal)
	details := []ReconcileDetail{}
	summary := ReconcileSummary{
		StartDate:    formatDate(rng.Start),
		EndDate:      formatDate(rng.End),
		TotalTickets: len(keys),
	}

	for _, k := range keys {
		s := sums[k]
		total := decimal.Zero
		var byType []TypeHours
		for _, wt := range model.WorkTypes {
			h, ok := s.ByType[wt]
			if !ok {
				continue
			}
			total = total.Add(h)
			categoryTotals[wt] = categoryTotals[wt].Add(h)
			byType = append(byType, TypeHours{WorkType: string(wt), Hours: round2(h)})
		}

		workdays := cal.CountWorkdays(k.Start, k.End)
		expected := decimal.NewFromInt(int64(workdays * StandardDayHours))
		diff := total.Sub(expected)

		status := StatusNormal
		switch {
		case diff.Abs().LessThanOrEqual(tolerance):
		case diff.IsPositive():
			status = StatusExcess
		default:
			status = StatusShort
		}

		switch status {
		case StatusNormal:
			summary.NormalTickets++
			continue
		case StatusExcess:
			summary.ExcessTickets++
		case StatusShort:
			summary.ShortTickets++
		}

		details = append(details, ReconcileDetail{
			SerialNo:      k.SerialNo,
			UserName:      k.UserName,
			DeptName:      s.DeptName,
			StartDate:     formatDate(k.Start),
			EndDate:       formatDate(k.End),
			Workdays:      workdays,
			ExpectedHours: round2(expected),
			ActualHours:   round2(total),
			Difference:    round2(diff),
			Status:        status,
			ByType:        byType,
		})
	}

	for _, wt := range model.WorkTypes {
		total := categoryTotals[wt]
		avg := decimal.Zero
		if len(keys) > 0 {
			avg = total.Div(decimal.NewFromInt(int64(len(keys))))
		}
		summary.Categories = append(summary.Categories, CategoryStat{
			WorkType:     string(wt),
			Label:        wt.Label(),
			TotalHours:   round2(total),
			AverageHours: round2(avg),
		})
	}

	return summary, details
}
