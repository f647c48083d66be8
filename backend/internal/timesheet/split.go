package timesheet

import "github.com/9dragon/workinghour/backend/internal/model"

// ZeroHoursMessage 所有分类均无工时的行诊断
const ZeroHoursMessage = "所有工时分类均为0，无有效工时"

// UnfilledProject 项目名为空时的占位名称
func UnfilledProject(wt model.WorkType) string {
	return wt.Label() + "-未填写项目"
}

// LeaveLabel 请假类别为空时的项目名
const LeaveLabel = "请假"

// Split 把一行拆成按工时分类的规范记录
// 工作分类仅在工作时长或加班时长大于 0 时产生记录，请假仅在请假时长大于 0 时产生
func Split(row *Row, batchNo string) []model.WorkHourRecord {
	var out []model.WorkHourRecord

	base := model.WorkHourRecord{
		SerialNo:       row.SerialNo,
		UserName:       row.UserName,
		StartDate:      row.StartDate,
		EndDate:        row.EndDate,
		DeptName:       row.DeptName,
		ApprovalResult: row.ApprovalResult,
		ApprovalStatus: row.ApprovalStatus,
		ImportBatchNo:  batchNo,
	}

	for _, c := range row.Categories {
		if !c.WorkHours.Positive() && !c.OvertimeHours.Positive() {
			continue
		}
		rec := base
		rec.WorkType = c.WorkType
		rec.ProjectName = c.ProjectName
		if rec.ProjectName == "" {
			rec.ProjectName = UnfilledProject(c.WorkType)
		}
		rec.ProjectManager = c.Manager
		rec.WorkContent = c.Content
		rec.WorkHours = c.WorkHours.OrZero()
		rec.OvertimeHours = c.OvertimeHours.OrZero()
		out = append(out, rec)
	}

	if row.Leave.Hours.Positive() {
		rec := base
		rec.WorkType = model.WorkTypeLeave
		rec.ProjectName = row.Leave.Label
		if rec.ProjectName == "" {
			rec.ProjectName = LeaveLabel
		}
		rec.LeaveHours = row.Leave.Hours.OrZero()
		out = append(out, rec)
	}

	return out
}
