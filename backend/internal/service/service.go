package service

import (
	"go.uber.org/zap"

	"github.com/9dragon/workinghour/backend/internal/repository"
	"github.com/9dragon/workinghour/backend/pkg/storage"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Settings     SettingsService
	Import       ImportService
	Check        CheckService
	Query        QueryService
	Export       ExportService
	SystemConfig SystemConfigService
}

// NewService 创建 Service 聚合
// archiver 为 nil 时不归档上传文件
func NewService(
	repo *repository.Repository,
	archiver storage.Archiver,
	logger *zap.Logger,
) *Service {
	settings := NewSettingsService(repo, logger)
	return &Service{
		Settings:     settings,
		Import:       NewImportService(repo, settings, archiver, logger),
		Check:        NewCheckService(repo, settings, logger),
		Query:        NewQueryService(repo, logger),
		Export:       NewExportService(repo, logger),
		SystemConfig: NewSystemConfigService(repo, logger),
	}
}
