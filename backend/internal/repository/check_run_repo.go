package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/9dragon/workinghour/backend/internal/model"
)

// CheckRunRepository 核对记录数据访问接口（只增不改）
type CheckRunRepository interface {
	Create(ctx context.Context, run *model.CheckRun) error
	GetByCheckNo(ctx context.Context, checkNo string) (*model.CheckRun, error)
	List(ctx context.Context, kind string, offset, limit int) ([]model.CheckRun, int64, error)
}

type checkRunRepo struct {
	db *gorm.DB
}

// NewCheckRunRepo 创建 CheckRunRepository 实例
func NewCheckRunRepo(db *gorm.DB) CheckRunRepository {
	return &checkRunRepo{db: db}
}

func (r *checkRunRepo) Create(ctx context.Context, run *model.CheckRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *checkRunRepo) GetByCheckNo(ctx context.Context, checkNo string) (*model.CheckRun, error) {
	var run model.CheckRun
	err := r.db.WithContext(ctx).Where("check_no = ?", checkNo).First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List 按核对时间倒序分页，kind 为空时不过滤；列表不加载明细
func (r *checkRunRepo) List(ctx context.Context, kind string, offset, limit int) ([]model.CheckRun, int64, error) {
	query := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&model.CheckRun{})
		if kind != "" {
			q = q.Where("kind = ?", kind)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var runs []model.CheckRun
	err := query().
		Omit("details").
		Order("check_time DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&runs).Error
	return runs, total, err
}
