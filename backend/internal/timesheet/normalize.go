package timesheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/9dragon/workinghour/backend/internal/model"
)

// MaxPeriodHours 单张工时单（一周）工作时长上限
const MaxPeriodHours = 168

// Rules 行校验规则
type Rules struct {
	AcceptedResults  []string
	AcceptedStatuses []string
}

// CategoryValues 一个工作分类的取值
type CategoryValues struct {
	WorkType      model.WorkType
	ProjectName   string
	Manager       string
	Content       string
	WorkHours     Hours
	OvertimeHours Hours
}

// LeaveValues 请假取值
type LeaveValues struct {
	Label string
	Hours Hours
}

// Row 归一化后的一行
type Row struct {
	Number         int
	SerialNo       string
	UserName       string
	StartDate      time.Time
	EndDate        time.Time
	ApprovalResult string
	ApprovalStatus string
	DeptName       string
	Categories     []CategoryValues
	Leave          LeaveValues
}

// Normalizer 逐行归一化，保存部门列的向下填充状态
// 同一文件内必须按行序调用
type Normalizer struct {
	rules       Rules
	lastDept    string
	lastCreator string
}

// NewNormalizer 创建归一化器
func NewNormalizer(rules Rules) *Normalizer {
	return &Normalizer{rules: rules}
}

var requiredFields = []Field{
	FieldSerialNo,
	FieldUserName,
	FieldStartDate,
	FieldEndDate,
	FieldApprovalResult,
	FieldApprovalStatus,
}

// Normalize 校验并转换一行，所有问题一次性收集
// 存在任何诊断时返回 nil 行
func (n *Normalizer) Normalize(raw RawRow) (*Row, []model.RowDiagnostic) {
	var diags []model.RowDiagnostic
	add := func(f Field, format string, args ...interface{}) {
		diags = append(diags, model.RowDiagnostic{
			Row:   raw.Number,
			Field: f.Label(),
			Error: fmt.Sprintf(format, args...),
		})
	}

	// 合并单元格造成的部门空白：沿用上一个非空值
	dept := raw.Text(FieldDept)
	if dept == "" {
		dept = n.lastDept
	} else {
		n.lastDept = dept
	}
	creator := raw.Text(FieldCreatorDept)
	if creator == "" {
		creator = n.lastCreator
	} else {
		n.lastCreator = creator
	}

	for _, f := range requiredFields {
		if raw.Text(f) == "" {
			add(f, "%s不能为空", f.Label())
		}
	}

	row := &Row{
		Number:         raw.Number,
		SerialNo:       normalizeSerial(raw.Text(FieldSerialNo)),
		UserName:       raw.Text(FieldUserName),
		ApprovalResult: raw.Text(FieldApprovalResult),
		ApprovalStatus: raw.Text(FieldApprovalStatus),
		DeptName:       dept,
	}
	if row.DeptName == "" {
		row.DeptName = creator
	}

	if row.ApprovalResult != "" && !contains(n.rules.AcceptedResults, row.ApprovalResult) {
		add(FieldApprovalResult, "审批结果为'%s'，仅支持%s", row.ApprovalResult, quoteList(n.rules.AcceptedResults))
	}
	if row.ApprovalStatus != "" && !contains(n.rules.AcceptedStatuses, row.ApprovalStatus) {
		add(FieldApprovalStatus, "审批状态为'%s'，仅支持%s", row.ApprovalStatus, quoteList(n.rules.AcceptedStatuses))
	}

	startOK, endOK := false, false
	if s := raw.Text(FieldStartDate); s != "" {
		if d, err := ParseDate(s); err != nil {
			add(FieldStartDate, "开始时间格式错误: %s", s)
		} else {
			row.StartDate, startOK = d, true
		}
	}
	if s := raw.Text(FieldEndDate); s != "" {
		if d, err := ParseDate(s); err != nil {
			add(FieldEndDate, "结束时间格式错误: %s", s)
		} else {
			row.EndDate, endOK = d, true
		}
	}
	if startOK && endOK && row.StartDate.After(row.EndDate) {
		add(FieldStartDate, "开始时间晚于结束时间")
	}

	parse := func(f Field) Hours {
		if f == noField {
			return Hours{}
		}
		h, err := ParseHours(raw.Text(f))
		if err != nil {
			add(f, "%s格式错误: %s", f.Label(), raw.Text(f))
		}
		return h
	}

	for _, c := range workCategories {
		work := parse(c.Hours)
		overtime := parse(c.Overtime)
		if work.Present && (work.Value < 0 || work.Value > MaxPeriodHours) {
			add(c.Hours, "工作时长%s超出范围[0,%d]", formatHours(work.Value), MaxPeriodHours)
		}
		if overtime.Present && overtime.Value < 0 {
			add(c.Overtime, "加班时长不能为负数")
		}
		row.Categories = append(row.Categories, CategoryValues{
			WorkType:      c.WorkType,
			ProjectName:   raw.Text(c.Project),
			Manager:       textOf(raw, c.Manager),
			Content:       raw.Text(c.Content),
			WorkHours:     work,
			OvertimeHours: overtime,
		})
	}

	leave := parse(FieldLeaveHours)
	if leave.Present && leave.Value < 0 {
		add(FieldLeaveHours, "请假时长不能为负数")
	}
	row.Leave = LeaveValues{Label: raw.Text(FieldLeaveType), Hours: leave}

	if len(diags) > 0 {
		return nil, diags
	}
	return row, nil
}

func textOf(raw RawRow, f Field) string {
	if f == noField {
		return ""
	}
	return raw.Text(f)
}

// normalizeSerial 数字单元格可能读成 "12.0"
func normalizeSerial(s string) string {
	if strings.HasSuffix(s, ".0") && isDigits(strings.TrimSuffix(s, ".0")) {
		return strings.TrimSuffix(s, ".0")
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func quoteList(list []string) string {
	quoted := make([]string, len(list))
	for i, s := range list {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, "/")
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
