package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/9dragon/workinghour/backend/internal/model"
)

// ImportBatchRepository 导入批次数据访问接口（只增不改）
type ImportBatchRepository interface {
	Create(ctx context.Context, batch *model.ImportBatch) error
	GetByBatchNo(ctx context.Context, batchNo string) (*model.ImportBatch, error)
	List(ctx context.Context, offset, limit int) ([]model.ImportBatch, int64, error)
}

type importBatchRepo struct {
	db *gorm.DB
}

// NewImportBatchRepo 创建 ImportBatchRepository 实例
func NewImportBatchRepo(db *gorm.DB) ImportBatchRepository {
	return &importBatchRepo{db: db}
}

func (r *importBatchRepo) Create(ctx context.Context, batch *model.ImportBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *importBatchRepo) GetByBatchNo(ctx context.Context, batchNo string) (*model.ImportBatch, error) {
	var batch model.ImportBatch
	err := r.db.WithContext(ctx).Where("batch_no = ?", batchNo).First(&batch).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// List 按导入时间倒序分页，列表不加载诊断明细
func (r *importBatchRepo) List(ctx context.Context, offset, limit int) ([]model.ImportBatch, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.ImportBatch{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var batches []model.ImportBatch
	err := r.db.WithContext(ctx).
		Omit("errors", "duplicates").
		Order("import_time DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&batches).Error
	return batches, total, err
}
