package dto

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// PreviewLimit 接口响应中诊断与明细的预览条数，完整列表随记录持久化
const PreviewLimit = 100

// Preview 截取前 PreviewLimit 条
func Preview[T any](list []T) []T {
	if len(list) > PreviewLimit {
		return list[:PreviewLimit]
	}
	if list == nil {
		return []T{}
	}
	return list
}
