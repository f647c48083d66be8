package handler

import "github.com/9dragon/workinghour/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Import       *ImportHandler
	Check        *CheckHandler
	Query        *QueryHandler
	Export       *ExportHandler
	SystemConfig *SystemConfigHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Import:       NewImportHandler(svc.Import, svc.Query),
		Check:        NewCheckHandler(svc.Check),
		Query:        NewQueryHandler(svc.Query),
		Export:       NewExportHandler(svc.Export),
		SystemConfig: NewSystemConfigHandler(svc.SystemConfig),
	}
}
