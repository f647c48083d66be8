package model

import "time"

// CheckKind 核对类型
type CheckKind string

const (
	CheckMissingDay          CheckKind = "missing_day"
	CheckOverlap             CheckKind = "overlap"
	CheckCompliance          CheckKind = "compliance"
	CheckHoursReconciliation CheckKind = "hours_reconciliation"
)

// Valid 是否为已知核对类型
func (k CheckKind) Valid() bool {
	switch k {
	case CheckMissingDay, CheckOverlap, CheckCompliance, CheckHoursReconciliation:
		return true
	}
	return false
}

// 触发来源
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
	TriggerImport    = "import"
)

// CheckRun 核对记录，对应 check_runs，不可变
// StartDate/EndDate 为请求边界（可空），实际计算范围记录在 Config 中
type CheckRun struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement"              json:"id"`
	CheckNo   string     `gorm:"type:varchar(40);not null;uniqueIndex" json:"check_no"`
	Kind      CheckKind  `gorm:"type:varchar(32);not null;index"       json:"kind"`
	Trigger   string     `gorm:"column:trigger_source;type:varchar(16);not null" json:"trigger"`
	StartDate *time.Time `gorm:"type:date"                             json:"start_date"`
	EndDate   *time.Time `gorm:"type:date"                             json:"end_date"`
	DeptName  string     `gorm:"type:varchar(200)"                     json:"dept_name"`
	UserName  string     `gorm:"type:varchar(100)"                     json:"user_name"`
	Config    JSONText   `gorm:"type:text"                             json:"config"`
	Summary   JSONText   `gorm:"type:text"                             json:"summary"`
	Details   JSONText   `gorm:"type:text"                             json:"details"`
	Operator  string     `gorm:"type:varchar(100)"                     json:"operator"`
	CheckTime time.Time  `gorm:"not null;index"                        json:"check_time"`
	CreatedAt time.Time  `gorm:"not null"                              json:"created_at"`
}

// TableName 指定表名
func (CheckRun) TableName() string { return "check_runs" }
