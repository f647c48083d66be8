package dto

import "github.com/9dragon/workinghour/backend/internal/repository"

// ── 查询模块 DTO ──

// 查询维度
const (
	DimensionProject      = "project"
	DimensionOrganization = "organization"
)

// RecordFilter 工时记录筛选条件
// 项目维度使用项目名称/项目经理，组织维度使用部门/姓名，未指定维度时全部生效
type RecordFilter struct {
	Dimension      string `form:"dimension"       json:"dimension"       binding:"omitempty,oneof=project organization"`
	ProjectName    string `form:"project_name"    json:"project_name"`
	ProjectManager string `form:"project_manager" json:"project_manager"`
	DeptName       string `form:"dept_name"       json:"dept_name"`
	UserName       string `form:"user_name"       json:"user_name"`
	WorkType       string `form:"work_type"       json:"work_type"`
	StartDate      string `form:"start_date"      json:"start_date"`
	EndDate        string `form:"end_date"        json:"end_date"`
	SortBy         string `form:"sort_by"         json:"sort_by"`
	SortOrder      string `form:"sort_order"      json:"sort_order"      binding:"omitempty,oneof=asc desc"`
}

// RecordQueryRequest 分页查询
type RecordQueryRequest struct {
	PaginationRequest
	RecordFilter
}

// ExportRequest 导出查询结果
type ExportRequest struct {
	RecordFilter
}

// DataDict 数据字典
type DataDict struct {
	Projects    []string              `json:"projects"`
	Departments []string              `json:"departments"`
	Users       []repository.UserDept `json:"users"`
}
