package dto

import "github.com/9dragon/workinghour/backend/internal/model"

// ── 核对模块 DTO ──

// CheckRequest 核对请求
// 日期格式 YYYY-MM-DD，为空表示按数据集最早/最晚日期
type CheckRequest struct {
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	DeptName  string   `json:"dept_name"   binding:"omitempty,max=200"`
	UserName  string   `json:"user_name"   binding:"omitempty,max=100"`
	Workdays  []int    `json:"workdays"    binding:"omitempty,dive,min=1,max=7"`
	Holidays  []string `json:"holidays"`
	Trigger   string   `json:"trigger"     binding:"omitempty,oneof=manual scheduled import"`

	// 合规核对阈值，缺省取 sys_config
	StandardHours      *float64 `json:"standard_hours"       binding:"omitempty,min=0"`
	MinHours           *float64 `json:"min_hours"            binding:"omitempty,min=0"`
	MaxOvertime        *float64 `json:"max_overtime"         binding:"omitempty,min=0"`
	MaxMonthlyOvertime *float64 `json:"max_monthly_overtime" binding:"omitempty,min=0"`
}

// CheckResult 核对结果，明细仅返回前 100 条
type CheckResult struct {
	CheckNo     string          `json:"check_no"`
	Kind        model.CheckKind `json:"kind"`
	CheckTime   string          `json:"check_time"`
	Summary     interface{}     `json:"summary"`
	DetailCount int             `json:"detail_count"`
	Details     interface{}     `json:"details"`
}

// CheckHistoryRequest 核对历史查询
type CheckHistoryRequest struct {
	PaginationRequest
	Kind string `form:"kind"`
}

// CheckRunItem 核对历史列表项
type CheckRunItem struct {
	CheckNo   string          `json:"check_no"`
	Kind      model.CheckKind `json:"kind"`
	Trigger   string          `json:"trigger"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	DeptName  string          `json:"dept_name"`
	UserName  string          `json:"user_name"`
	Summary   model.JSONText  `json:"summary"`
	Operator  string          `json:"operator"`
	CheckTime string          `json:"check_time"`
}

// CheckRunDetail 核对记录详情（含完整明细）
type CheckRunDetail struct {
	CheckRunItem
	Config  model.JSONText `json:"config"`
	Details model.JSONText `json:"details"`
}
