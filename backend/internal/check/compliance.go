package check

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/9dragon/workinghour/backend/internal/model"
)

// Thresholds 合规阈值
type Thresholds struct {
	StandardHours      float64 `json:"standard_hours"`
	MinHours           float64 `json:"min_hours"`
	MaxOvertime        float64 `json:"max_overtime"`
	MaxMonthlyOvertime float64 `json:"max_monthly_overtime"`
}

// 异常类型
const (
	IssueTooLong           = "too_long"
	IssueTooShort          = "too_short"
	IssueExcessiveOvertime = "excessive_overtime"
	IssueMonthlyOvertime   = "monthly_overtime_exceed"
)

// Issue 一条合规问题
type Issue struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ComplianceDetail 记录级或月度汇总级的合规问题
// 月度汇总行的 Month 非空，ProjectName 为“月度汇总”
type ComplianceDetail struct {
	UserName      string  `json:"user_name"`
	DeptName      string  `json:"dept_name"`
	SerialNo      string  `json:"serial_no,omitempty"`
	StartDate     string  `json:"start_date,omitempty"`
	EndDate       string  `json:"end_date,omitempty"`
	Month         string  `json:"month,omitempty"`
	ProjectName   string  `json:"project_name"`
	WorkType      string  `json:"work_type,omitempty"`
	WorkHours     float64 `json:"work_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	Issues        []Issue `json:"issues"`
}

// ComplianceSummary 合规核对汇总
type ComplianceSummary struct {
	StartDate      string         `json:"start_date"`
	EndDate        string         `json:"end_date"`
	Thresholds     Thresholds     `json:"thresholds"`
	TotalUsers     int            `json:"total_users"`
	AbnormalCount  int            `json:"abnormal_count"`
	AbnormalUsers  []string       `json:"abnormal_users"`
	ComplianceRate float64        `json:"compliance_rate"`
	InvalidTypes   map[string]int `json:"invalid_types"`
}

// MonthlySummaryLabel 月度汇总行的项目名
const MonthlySummaryLabel = "月度汇总"

// Compliance 检查记录级时长阈值与人员月度加班上限
// 请假记录不参与记录级检查
func Compliance(records []model.WorkHourRecord, rng Range, th Thresholds) (ComplianceSummary, []ComplianceDetail) {
	details := []ComplianceDetail{}
	flagged := make(map[string]struct{})
	typeUsers := map[string]map[string]struct{}{
		IssueTooLong:           {},
		IssueTooShort:          {},
		IssueExcessiveOvertime: {},
	}
	users := make(map[string]string) // 人员 → 部门

	sorted := append([]model.WorkHourRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.UserName != b.UserName {
			return a.UserName < b.UserName
		}
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		if a.WorkType != b.WorkType {
			return a.WorkType < b.WorkType
		}
		return a.ProjectName < b.ProjectName
	})

	type monthKey struct {
		UserName string
		Month    string
	}
	monthly := make(map[monthKey]decimal.Decimal)
	var monthOrder []monthKey

	for _, r := range sorted {
		if _, ok := users[r.UserName]; !ok {
			users[r.UserName] = r.DeptName
		}

		mk := monthKey{UserName: r.UserName, Month: r.StartDate.Format("2006-01")}
		if _, ok := monthly[mk]; !ok {
			monthOrder = append(monthOrder, mk)
			monthly[mk] = decimal.Zero
		}
		monthly[mk] = monthly[mk].Add(decimal.NewFromFloat(r.OvertimeHours))

		if r.WorkType == model.WorkTypeLeave {
			continue
		}

		var issues []Issue
		if r.WorkHours > th.StandardHours {
			issues = append(issues, Issue{IssueTooLong, fmt.Sprintf("工作时长%s小时超过标准%s小时", fmtNum(r.WorkHours), fmtNum(th.StandardHours))})
		}
		if r.WorkHours < th.MinHours {
			issues = append(issues, Issue{IssueTooShort, fmt.Sprintf("工作时长%s小时低于最小%s小时", fmtNum(r.WorkHours), fmtNum(th.MinHours))})
		}
		if r.OvertimeHours > th.MaxOvertime {
			issues = append(issues, Issue{IssueExcessiveOvertime, fmt.Sprintf("加班时长%s小时超过限制%s小时", fmtNum(r.OvertimeHours), fmtNum(th.MaxOvertime))})
		}
		if len(issues) == 0 {
			continue
		}

		for _, is := range issues {
			typeUsers[is.Kind][r.UserName] = struct{}{}
		}
		flagged[r.UserName] = struct{}{}
		details = append(details, ComplianceDetail{
			UserName:      r.UserName,
			DeptName:      r.DeptName,
			SerialNo:      r.SerialNo,
			StartDate:     formatDate(r.StartDate),
			EndDate:       formatDate(r.EndDate),
			ProjectName:   r.ProjectName,
			WorkType:      string(r.WorkType),
			WorkHours:     r.WorkHours,
			OvertimeHours: r.OvertimeHours,
			Issues:        issues,
		})
	}

	limit := decimal.NewFromFloat(th.MaxMonthlyOvertime)
	monthlyExceeded := 0
	for _, mk := range monthOrder {
		total := monthly[mk]
		if !total.GreaterThan(limit) {
			continue
		}
		monthlyExceeded++
		flagged[mk.UserName] = struct{}{}
		details = append(details, ComplianceDetail{
			UserName:      mk.UserName,
			DeptName:      users[mk.UserName],
			Month:         mk.Month,
			ProjectName:   MonthlySummaryLabel,
			OvertimeHours: round2(total),
			Issues: []Issue{{
				Kind:    IssueMonthlyOvertime,
				Message: fmt.Sprintf("月度加班%s小时超过限制%s小时", total.Round(2).String(), fmtNum(th.MaxMonthlyOvertime)),
			}},
		})
	}

	abnormal := make([]string, 0, len(flagged))
	for u := range flagged {
		abnormal = append(abnormal, u)
	}
	sort.Strings(abnormal)

	summary := ComplianceSummary{
		StartDate:      formatDate(rng.Start),
		EndDate:        formatDate(rng.End),
		Thresholds:     th,
		TotalUsers:     len(users),
		AbnormalCount:  len(abnormal),
		AbnormalUsers:  abnormal,
		ComplianceRate: rate(len(users)-len(abnormal), len(users)),
		InvalidTypes: map[string]int{
			IssueTooLong:           len(typeUsers[IssueTooLong]),
			IssueTooShort:          len(typeUsers[IssueTooShort]),
			IssueExcessiveOvertime: len(typeUsers[IssueExcessiveOvertime]),
			IssueMonthlyOvertime:   monthlyExceeded,
		},
	}
	return summary, details
}

func fmtNum(v float64) string {
	return decimal.NewFromFloat(v).String()
}
