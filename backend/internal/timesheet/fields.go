package timesheet

import (
	"strings"
	"unicode"

	"github.com/9dragon/workinghour/backend/internal/model"
)

// AnchorHeader 用于识别表头行的锚点列
const AnchorHeader = "项目交付-项目名称"

// Field 规范字段
type Field int

const (
	FieldSerialNo Field = iota
	FieldUserName
	FieldStartDate
	FieldEndDate
	FieldApprovalResult
	FieldApprovalStatus
	FieldDept
	FieldCreatorDept

	FieldDeliveryManager
	FieldDeliveryProject
	FieldDeliveryHours
	FieldDeliveryOvertime
	FieldDeliveryContent

	FieldProductManager
	FieldProductProject
	FieldProductHours
	FieldProductOvertime
	FieldProductContent

	FieldPresalesManager
	FieldPresalesProject
	FieldPresalesHours
	FieldPresalesOvertime
	FieldPresalesContent

	FieldInternalProject
	FieldInternalHours
	FieldInternalOvertime
	FieldInternalContent

	FieldLeaveType
	FieldLeaveHours

	fieldCount
)

// Label 字段在诊断信息中展示的列名
func (f Field) Label() string {
	if int(f) >= 0 && int(f) < len(defaultAliases) && len(defaultAliases[f]) > 0 {
		return defaultAliases[f][0]
	}
	switch f {
	case FieldLeaveType:
		return "请假类别"
	case FieldLeaveHours:
		return "请假时长"
	}
	return "未知字段"
}

// defaultAliases 各字段可接受的表头写法（首个为标准写法）
// 请假列的写法来自配置，不在此处固化
var defaultAliases = [fieldCount][]string{
	FieldSerialNo:       {"序号"},
	FieldUserName:       {"姓名"},
	FieldStartDate:      {"开始时间", "开始日期"},
	FieldEndDate:        {"结束时间", "结束日期"},
	FieldApprovalResult: {"审批结果"},
	FieldApprovalStatus: {"审批状态"},
	FieldDept:           {"部门"},
	FieldCreatorDept:    {"创建人部门"},

	FieldDeliveryManager:  {"项目交付-项目经理"},
	FieldDeliveryProject:  {"项目交付-项目名称"},
	FieldDeliveryHours:    {"项目交付-工作时长"},
	FieldDeliveryOvertime: {"项目交付-加班时长"},
	FieldDeliveryContent:  {"项目交付-工作内容"},

	FieldProductManager:  {"产品-项目经理"},
	FieldProductProject:  {"产品-项目名称"},
	FieldProductHours:    {"产品-工作时长"},
	FieldProductOvertime: {"产品-加班时长"},
	FieldProductContent:  {"产品-研发工作内容", "产品-工作内容"},

	FieldPresalesManager:  {"售前-审批人", "售前-项目经理"},
	FieldPresalesProject:  {"售前-项目名称"},
	FieldPresalesHours:    {"售前-工作时长"},
	FieldPresalesOvertime: {"售前-加班时长"},
	FieldPresalesContent:  {"售前-工作内容"},

	FieldInternalProject:  {"部门-项目名称"},
	FieldInternalHours:    {"部门-工作时长"},
	FieldInternalOvertime: {"部门-加班时长"},
	FieldInternalContent:  {"部门-内务工作内容", "部门-工作内容"},
}

// Aliases 字段 → 可接受表头写法
type Aliases [fieldCount][]string

// NewAliases 以内置写法为基础，叠加配置中的请假列写法
func NewAliases(leaveTypeHeaders, leaveHoursHeaders []string) Aliases {
	var a Aliases
	for f := range defaultAliases {
		a[f] = append([]string(nil), defaultAliases[f]...)
	}
	a[FieldLeaveType] = normalizeAll(leaveTypeHeaders)
	a[FieldLeaveHours] = normalizeAll(leaveHoursHeaders)
	return a
}

// category 一个工时分类的字段组
type category struct {
	WorkType model.WorkType
	Prefix   string // 两行表头中字段名缺省前缀
	Manager  Field
	Project  Field
	Hours    Field
	Overtime Field
	Content  Field
}

const noField Field = -1

var workCategories = []category{
	{model.WorkTypeProjectDelivery, "项目交付", FieldDeliveryManager, FieldDeliveryProject, FieldDeliveryHours, FieldDeliveryOvertime, FieldDeliveryContent},
	{model.WorkTypeProductResearch, "产品", FieldProductManager, FieldProductProject, FieldProductHours, FieldProductOvertime, FieldProductContent},
	{model.WorkTypePresalesSupport, "售前", FieldPresalesManager, FieldPresalesProject, FieldPresalesHours, FieldPresalesOvertime, FieldPresalesContent},
	{model.WorkTypeDeptInternal, "部门", noField, FieldInternalProject, FieldInternalHours, FieldInternalOvertime, FieldInternalContent},
}

// groupPrefix 两行表头第一行分组标签 → 字段前缀
func groupPrefix(label string) string {
	switch {
	case strings.Contains(label, "项目交付"):
		return "项目交付"
	case strings.Contains(label, "产研"), strings.Contains(label, "产品"):
		return "产品"
	case strings.Contains(label, "售前"):
		return "售前"
	case strings.Contains(label, "部门内务"):
		return "部门"
	}
	return ""
}

// NormalizeHeader 去除首尾及内部空白（含全角空格）
func NormalizeHeader(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := NormalizeHeader(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}
