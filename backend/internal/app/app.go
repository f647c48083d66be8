// Package app 组装服务端与命令行共用的依赖：数据库、迁移、归档与 Service。
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/9dragon/workinghour/backend/config"
	"github.com/9dragon/workinghour/backend/internal/model"
	"github.com/9dragon/workinghour/backend/internal/repository"
	"github.com/9dragon/workinghour/backend/internal/service"
	"github.com/9dragon/workinghour/backend/pkg/database"
	"github.com/9dragon/workinghour/backend/pkg/storage"
)

// App 已初始化的依赖
type App struct {
	DB      *gorm.DB
	Repo    *repository.Repository
	Service *service.Service
}

// OpenDB 连接数据库并建表
func OpenDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, cfg.Database.Driver, logger, model.AllModels()...); err != nil {
		Close(db)
		return nil, err
	}
	return db, nil
}

// New 连接数据库、执行迁移、写入默认配置并组装 Service
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := OpenDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	// 归档可选：未启用或连接失败时不归档
	var archiver storage.Archiver
	if cfg.Storage.Enabled {
		a, err := storage.NewMinioArchiver(ctx, &cfg.Storage, logger)
		if err != nil {
			logger.Warn("MinIO 初始化失败，上传文件将不归档", zap.Error(err))
		} else {
			archiver = a
		}
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(repo, archiver, logger)

	if err := svc.Settings.EnsureDefaults(ctx); err != nil {
		Close(db)
		return nil, fmt.Errorf("写入默认配置失败: %w", err)
	}

	return &App{DB: db, Repo: repo, Service: svc}, nil
}

// Ping 数据库连通性检查
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func (a *App) Close() {
	Close(a.DB)
}

// Close 关闭 gorm 底层连接
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
