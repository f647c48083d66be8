package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/9dragon/workinghour/backend/internal/model"
)

// SysConfigRepository 系统配置数据访问接口
type SysConfigRepository interface {
	List(ctx context.Context, category string) ([]model.SysConfig, error)
	GetByKey(ctx context.Context, key string) (*model.SysConfig, error)
	UpdateValue(ctx context.Context, key, value string) error
	EnsureDefaults(ctx context.Context, defaults []model.SysConfig) error
}

type sysConfigRepo struct {
	db *gorm.DB
}

// NewSysConfigRepo 创建 SysConfigRepository 实例
func NewSysConfigRepo(db *gorm.DB) SysConfigRepository {
	return &sysConfigRepo{db: db}
}

// List category 为空时返回全部
func (r *sysConfigRepo) List(ctx context.Context, category string) ([]model.SysConfig, error) {
	query := r.db.WithContext(ctx)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var configs []model.SysConfig
	err := query.Order("category, id").Find(&configs).Error
	return configs, err
}

func (r *sysConfigRepo) GetByKey(ctx context.Context, key string) (*model.SysConfig, error) {
	var cfg model.SysConfig
	err := r.db.WithContext(ctx).Where("config_key = ?", key).First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *sysConfigRepo) UpdateValue(ctx context.Context, key, value string) error {
	res := r.db.WithContext(ctx).
		Model(&model.SysConfig{}).
		Where("config_key = ?", key).
		Updates(map[string]interface{}{
			"config_value": value,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// EnsureDefaults 写入缺失的默认配置，已存在的键保持原值
func (r *sysConfigRepo) EnsureDefaults(ctx context.Context, defaults []model.SysConfig) error {
	if len(defaults) == 0 {
		return nil
	}
	rows := append([]model.SysConfig(nil), defaults...)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "config_key"}}, DoNothing: true}).
		Create(&rows).Error
}
