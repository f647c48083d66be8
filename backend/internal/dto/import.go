package dto

import "github.com/9dragon/workinghour/backend/internal/model"

// ── 导入模块 DTO ──

// ImportResult 导入结果，诊断列表仅返回前 100 条
type ImportResult struct {
	BatchNo         string                `json:"batch_no"`
	FileName        string                `json:"file_name"`
	TotalRows       int                   `json:"total_rows"`
	SuccessRows     int                   `json:"success_rows"`
	DuplicateRows   int                   `json:"duplicate_rows"`
	InvalidRows     int                   `json:"invalid_rows"`
	DuplicatePolicy string                `json:"duplicate_policy"`
	ErrorCount      int                   `json:"error_count"`
	DuplicateCount  int                   `json:"duplicate_count"`
	Errors          []model.RowDiagnostic `json:"errors"`
	Duplicates      []model.RowDiagnostic `json:"duplicates"`
	ArchiveKey      string                `json:"archive_key,omitempty"`
}

// ImportBatchItem 导入批次列表项
type ImportBatchItem struct {
	BatchNo         string `json:"batch_no"`
	FileName        string `json:"file_name"`
	FileSize        int64  `json:"file_size"`
	TotalRows       int    `json:"total_rows"`
	SuccessRows     int    `json:"success_rows"`
	DuplicateRows   int    `json:"duplicate_rows"`
	InvalidRows     int    `json:"invalid_rows"`
	DuplicatePolicy string `json:"duplicate_policy"`
	Operator        string `json:"operator"`
	ImportTime      string `json:"import_time"`
}

// ImportBatchDetail 导入批次详情（含比率与完整诊断）
type ImportBatchDetail struct {
	ImportBatchItem
	SuccessRate   string                `json:"success_rate"`
	DuplicateRate string                `json:"duplicate_rate"`
	InvalidRate   string                `json:"invalid_rate"`
	ArchiveKey    string                `json:"archive_key,omitempty"`
	Errors        []model.RowDiagnostic `json:"errors"`
	Duplicates    []model.RowDiagnostic `json:"duplicates"`
}

// WorkHourItem 工时记录
type WorkHourItem struct {
	ID             uint64  `json:"id"`
	SerialNo       string  `json:"serial_no"`
	UserName       string  `json:"user_name"`
	DeptName       string  `json:"dept_name"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	WorkType       string  `json:"work_type"`
	WorkTypeLabel  string  `json:"work_type_label"`
	ProjectName    string  `json:"project_name"`
	ProjectManager string  `json:"project_manager"`
	WorkContent    string  `json:"work_content"`
	WorkHours      float64 `json:"work_hours"`
	OvertimeHours  float64 `json:"overtime_hours"`
	LeaveHours     float64 `json:"leave_hours"`
	ApprovalResult string  `json:"approval_result"`
	ApprovalStatus string  `json:"approval_status"`
	ImportBatchNo  string  `json:"import_batch_no"`
	UpdatedAt      string  `json:"updated_at"`
}
