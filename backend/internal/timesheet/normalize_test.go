package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleColumns() ColumnMap {
	return DetectHeader([][]string{singleHeader}, AnchorHeader).Resolve(testAliases())
}

func TestNormalize_ValidRow(t *testing.T) {
	v := baseValues()
	v["项目交付-项目名称"] = "A项目"
	v["项目交付-工作时长"] = "32"
	v["项目交付-加班时长"] = "NaN"
	v["开始时间"] = "46027" // Excel 序列号
	v["结束时间"] = "2026/01/09 18:00"

	row, diags := NewNormalizer(testRules()).Normalize(singleColumns().Extract(2, dataRow(v)))

	require.Empty(t, diags)
	require.NotNil(t, row)
	assert.Equal(t, "1001", row.SerialNo)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), row.StartDate)
	assert.Equal(t, time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC), row.EndDate)
	assert.Equal(t, "交付一部", row.DeptName)
	require.Len(t, row.Categories, 4)
	assert.Equal(t, 32.0, row.Categories[0].WorkHours.OrZero())
	assert.False(t, row.Categories[0].OvertimeHours.Present)
}

func TestNormalize_CollectsAllDiagnostics(t *testing.T) {
	v := baseValues()
	v["姓名"] = ""
	v["序号"] = ""
	v["审批结果"] = "拒绝"
	v["审批状态"] = "审批中"

	row, diags := NewNormalizer(testRules()).Normalize(singleColumns().Extract(5, dataRow(v)))

	assert.Nil(t, row)
	require.Len(t, diags, 4)
	fields := []string{diags[0].Field, diags[1].Field, diags[2].Field, diags[3].Field}
	assert.Equal(t, []string{"序号", "姓名", "审批结果", "审批状态"}, fields)
	for _, d := range diags {
		assert.Equal(t, 5, d.Row)
	}
	assert.Contains(t, diags[2].Error, "'通过'/'审批通过'")
}

func TestNormalize_HourBounds(t *testing.T) {
	v := baseValues()
	v["项目交付-工作时长"] = "200"
	v["产品-加班时长"] = "-1"
	v["请假时长"] = "-4"
	v["售前-工作时长"] = "八小时"

	_, diags := NewNormalizer(testRules()).Normalize(singleColumns().Extract(3, dataRow(v)))

	require.Len(t, diags, 4)
	assert.Equal(t, "项目交付-工作时长", diags[0].Field)
	assert.Equal(t, "工作时长200超出范围[0,168]", diags[0].Error)
	assert.Equal(t, "产品-加班时长", diags[1].Field)
	assert.Equal(t, "售前-工作时长", diags[2].Field)
	assert.Equal(t, "请假时长", diags[3].Field)
}

func TestNormalize_StartAfterEnd(t *testing.T) {
	v := baseValues()
	v["开始时间"] = "2026-01-10"

	_, diags := NewNormalizer(testRules()).Normalize(singleColumns().Extract(2, dataRow(v)))

	require.Len(t, diags, 1)
	assert.Equal(t, "开始时间", diags[0].Field)
	assert.Equal(t, "开始时间晚于结束时间", diags[0].Error)
}

func TestNormalize_BadDate(t *testing.T) {
	v := baseValues()
	v["结束时间"] = "下周五"

	_, diags := NewNormalizer(testRules()).Normalize(singleColumns().Extract(2, dataRow(v)))

	require.Len(t, diags, 1)
	assert.Equal(t, "结束时间", diags[0].Field)
}

func TestNormalize_DeptCarryForward(t *testing.T) {
	cols := singleColumns()
	n := NewNormalizer(testRules())

	first := baseValues()
	first["部门"] = "交付一部"
	second := baseValues()
	second["部门"] = ""
	third := baseValues()
	third["部门"] = "研发部"

	r1, _ := n.Normalize(cols.Extract(2, dataRow(first)))
	r2, _ := n.Normalize(cols.Extract(3, dataRow(second)))
	r3, _ := n.Normalize(cols.Extract(4, dataRow(third)))

	assert.Equal(t, "交付一部", r1.DeptName)
	assert.Equal(t, "交付一部", r2.DeptName)
	assert.Equal(t, "研发部", r3.DeptName)
}

func TestNormalize_CarryForwardThroughInvalidRow(t *testing.T) {
	cols := singleColumns()
	n := NewNormalizer(testRules())

	bad := baseValues()
	bad["部门"] = "售前部"
	bad["姓名"] = ""
	next := baseValues()
	next["部门"] = ""

	_, diags := n.Normalize(cols.Extract(2, dataRow(bad)))
	require.NotEmpty(t, diags)

	row, _ := n.Normalize(cols.Extract(3, dataRow(next)))
	assert.Equal(t, "售前部", row.DeptName)
}

func TestNormalize_CreatorDeptFallback(t *testing.T) {
	v := baseValues()
	v["部门"] = ""
	v["创建人部门"] = "综合部"

	row, diags := NewNormalizer(testRules()).Normalize(singleColumns().Extract(2, dataRow(v)))

	require.Empty(t, diags)
	assert.Equal(t, "综合部", row.DeptName)
}

func TestNormalize_SerialFromNumericCell(t *testing.T) {
	v := baseValues()
	v["序号"] = "12.0"

	row, _ := NewNormalizer(testRules()).Normalize(singleColumns().Extract(2, dataRow(v)))

	assert.Equal(t, "12", row.SerialNo)
}
