package model

import "time"

// WorkType 工时分类
type WorkType string

const (
	WorkTypeProjectDelivery WorkType = "project_delivery" // 项目交付
	WorkTypeProductResearch WorkType = "product_research" // 产研项目
	WorkTypePresalesSupport WorkType = "presales_support" // 售前支持
	WorkTypeDeptInternal    WorkType = "dept_internal"    // 部门内务
	WorkTypeLeave           WorkType = "leave"            // 请假
)

// WorkTypes 全部分类（固定顺序，用于统计输出）
var WorkTypes = []WorkType{
	WorkTypeProjectDelivery,
	WorkTypeProductResearch,
	WorkTypePresalesSupport,
	WorkTypeDeptInternal,
	WorkTypeLeave,
}

// Label 分类中文名
func (t WorkType) Label() string {
	switch t {
	case WorkTypeProjectDelivery:
		return "项目交付"
	case WorkTypeProductResearch:
		return "产研项目"
	case WorkTypePresalesSupport:
		return "售前支持"
	case WorkTypeDeptInternal:
		return "部门内务"
	case WorkTypeLeave:
		return "请假"
	}
	return string(t)
}

// Valid 是否为已知分类
func (t WorkType) Valid() bool {
	for _, wt := range WorkTypes {
		if wt == t {
			return true
		}
	}
	return false
}

// WorkHourRecord 规范化工时记录，对应 work_hour_data
// 唯一键 (user_name, start_date, project_name, work_type)，序号不参与
type WorkHourRecord struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"                                      json:"id"`
	SerialNo       string    `gorm:"type:varchar(64);not null;index"                               json:"serial_no"`
	UserName       string    `gorm:"type:varchar(100);not null;uniqueIndex:uk_work_hour_key,priority:1" json:"user_name"`
	StartDate      time.Time `gorm:"type:date;not null;uniqueIndex:uk_work_hour_key,priority:2"    json:"start_date"`
	EndDate        time.Time `gorm:"type:date;not null"                                            json:"end_date"`
	ProjectName    string    `gorm:"type:varchar(200);not null;uniqueIndex:uk_work_hour_key,priority:3" json:"project_name"`
	WorkType       WorkType  `gorm:"type:varchar(32);not null;uniqueIndex:uk_work_hour_key,priority:4" json:"work_type"`
	WorkHours      float64   `gorm:"type:numeric(6,2);not null;default:0"                          json:"work_hours"`
	OvertimeHours  float64   `gorm:"type:numeric(6,2);not null;default:0"                          json:"overtime_hours"`
	LeaveHours     float64   `gorm:"type:numeric(6,2);not null;default:0"                          json:"leave_hours"`
	ProjectManager string    `gorm:"type:varchar(100)"                                             json:"project_manager"`
	WorkContent    string    `gorm:"type:text"                                                     json:"work_content"`
	DeptName       string    `gorm:"type:varchar(200);index"                                       json:"dept_name"`
	ApprovalResult string    `gorm:"type:varchar(50)"                                              json:"approval_result"`
	ApprovalStatus string    `gorm:"type:varchar(50)"                                              json:"approval_status"`
	ImportBatchNo  string    `gorm:"type:varchar(40);not null;index"                               json:"import_batch_no"`
	BaseModel
}

// TableName 指定表名
func (WorkHourRecord) TableName() string { return "work_hour_data" }

// Key 唯一键
func (r *WorkHourRecord) Key() WorkHourKey {
	return WorkHourKey{
		UserName:    r.UserName,
		StartDate:   r.StartDate,
		ProjectName: r.ProjectName,
		WorkType:    r.WorkType,
	}
}

// TotalHours 工作时长 + 请假时长（加班不计入）
func (r *WorkHourRecord) TotalHours() float64 {
	return r.WorkHours + r.LeaveHours
}

// WorkHourKey 工时记录唯一键
type WorkHourKey struct {
	UserName    string
	StartDate   time.Time
	ProjectName string
	WorkType    WorkType
}
