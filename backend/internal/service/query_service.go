package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/9dragon/workinghour/backend/internal/check"
	"github.com/9dragon/workinghour/backend/internal/dto"
	"github.com/9dragon/workinghour/backend/internal/model"
	"github.com/9dragon/workinghour/backend/internal/repository"
)

// ── 查询模块业务错误 ──

var (
	ErrBatchNotFound   = errors.New("导入批次不存在")
	ErrInvalidWorkType = errors.New("工时分类无效")
)

// QueryService 导入批次与工时记录查询接口
type QueryService interface {
	ListBatches(ctx context.Context, page *dto.PaginationRequest) ([]dto.ImportBatchItem, int64, error)
	BatchDetail(ctx context.Context, batchNo string) (*dto.ImportBatchDetail, error)
	BatchData(ctx context.Context, batchNo string, page *dto.PaginationRequest) ([]dto.WorkHourItem, int64, error)
	QueryRecords(ctx context.Context, req *dto.RecordQueryRequest) ([]dto.WorkHourItem, int64, error)
	Dict(ctx context.Context) (*dto.DataDict, error)
}

type queryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewQueryService 创建 QueryService 实例
func NewQueryService(repo *repository.Repository, logger *zap.Logger) QueryService {
	return &queryService{repo: repo, logger: logger}
}

// ────────────────────── 导入批次 ──────────────────────

func (s *queryService) ListBatches(ctx context.Context, page *dto.PaginationRequest) ([]dto.ImportBatchItem, int64, error) {
	batches, total, err := s.repo.ImportBatch.List(ctx, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询导入批次列表失败", zap.Error(err))
		return nil, 0, err
	}
	items := make([]dto.ImportBatchItem, 0, len(batches))
	for i := range batches {
		items = append(items, toBatchItem(&batches[i]))
	}
	return items, total, nil
}

func (s *queryService) BatchDetail(ctx context.Context, batchNo string) (*dto.ImportBatchDetail, error) {
	batch, err := s.getBatch(ctx, batchNo)
	if err != nil {
		return nil, err
	}
	return &dto.ImportBatchDetail{
		ImportBatchItem: toBatchItem(batch),
		SuccessRate:     percent(batch.SuccessRows, batch.TotalRows),
		DuplicateRate:   percent(batch.DuplicateRows, batch.TotalRows),
		InvalidRate:     percent(batch.InvalidRows, batch.TotalRows),
		ArchiveKey:      batch.ArchiveKey,
		Errors:          nonNil([]model.RowDiagnostic(batch.Errors)),
		Duplicates:      nonNil([]model.RowDiagnostic(batch.Duplicates)),
	}, nil
}

func (s *queryService) BatchData(ctx context.Context, batchNo string, page *dto.PaginationRequest) ([]dto.WorkHourItem, int64, error) {
	if _, err := s.getBatch(ctx, batchNo); err != nil {
		return nil, 0, err
	}
	recs, total, err := s.repo.WorkHour.Query(ctx, repository.RecordQuery{
		BatchNo:   batchNo,
		SortBy:    "id",
		SortOrder: "asc",
		Offset:    page.GetOffset(),
		Limit:     page.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("查询批次数据失败", zap.String("batch_no", batchNo), zap.Error(err))
		return nil, 0, err
	}
	return toWorkHourItems(recs), total, nil
}

func (s *queryService) getBatch(ctx context.Context, batchNo string) (*model.ImportBatch, error) {
	batch, err := s.repo.ImportBatch.GetByBatchNo(ctx, batchNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		s.logger.Error("查询导入批次失败", zap.String("batch_no", batchNo), zap.Error(err))
		return nil, err
	}
	return batch, nil
}

// ────────────────────── 工时记录 ──────────────────────

func (s *queryService) QueryRecords(ctx context.Context, req *dto.RecordQueryRequest) ([]dto.WorkHourItem, int64, error) {
	q, err := buildRecordQuery(&req.RecordFilter)
	if err != nil {
		return nil, 0, err
	}
	q.Offset = req.GetOffset()
	q.Limit = req.GetPageSize()

	recs, total, err := s.repo.WorkHour.Query(ctx, q)
	if err != nil {
		s.logger.Error("查询工时记录失败", zap.Error(err))
		return nil, 0, err
	}
	return toWorkHourItems(recs), total, nil
}

func (s *queryService) Dict(ctx context.Context) (*dto.DataDict, error) {
	projects, err := s.repo.WorkHour.DistinctProjects(ctx)
	if err != nil {
		s.logger.Error("查询项目字典失败", zap.Error(err))
		return nil, err
	}
	depts, err := s.repo.WorkHour.DistinctDepartments(ctx)
	if err != nil {
		s.logger.Error("查询部门字典失败", zap.Error(err))
		return nil, err
	}
	users, err := s.repo.WorkHour.DistinctUsers(ctx)
	if err != nil {
		s.logger.Error("查询人员字典失败", zap.Error(err))
		return nil, err
	}
	return &dto.DataDict{
		Projects:    nonNil(projects),
		Departments: nonNil(depts),
		Users:       nonNil(users),
	}, nil
}

// buildRecordQuery 按维度挑选生效的筛选条件
func buildRecordQuery(f *dto.RecordFilter) (repository.RecordQuery, error) {
	q := repository.RecordQuery{
		WorkType:  strings.TrimSpace(f.WorkType),
		SortBy:    f.SortBy,
		SortOrder: f.SortOrder,
	}
	if q.WorkType != "" && !model.WorkType(q.WorkType).Valid() {
		return q, ErrInvalidWorkType
	}
	if f.Dimension != dto.DimensionOrganization {
		q.ProjectName = strings.TrimSpace(f.ProjectName)
		q.ProjectManager = strings.TrimSpace(f.ProjectManager)
	}
	if f.Dimension != dto.DimensionProject {
		q.DeptName = strings.TrimSpace(f.DeptName)
		q.UserName = strings.TrimSpace(f.UserName)
	}

	var err error
	if q.Start, err = parseOptionalDate(f.StartDate); err != nil {
		return q, err
	}
	if q.End, err = parseOptionalDate(f.EndDate); err != nil {
		return q, err
	}
	if q.Start != nil && q.End != nil && q.Start.After(*q.End) {
		return q, ErrInvalidDateRange
	}
	return q, nil
}

// ── 转换 ──

func toBatchItem(b *model.ImportBatch) dto.ImportBatchItem {
	return dto.ImportBatchItem{
		BatchNo:         b.BatchNo,
		FileName:        b.FileName,
		FileSize:        b.FileSize,
		TotalRows:       b.TotalRows,
		SuccessRows:     b.SuccessRows,
		DuplicateRows:   b.DuplicateRows,
		InvalidRows:     b.InvalidRows,
		DuplicatePolicy: string(b.DuplicatePolicy),
		Operator:        b.Operator,
		ImportTime:      b.ImportTime.Format(time.RFC3339),
	}
}

func toWorkHourItems(recs []model.WorkHourRecord) []dto.WorkHourItem {
	items := make([]dto.WorkHourItem, 0, len(recs))
	for _, r := range recs {
		items = append(items, dto.WorkHourItem{
			ID:             r.ID,
			SerialNo:       r.SerialNo,
			UserName:       r.UserName,
			DeptName:       r.DeptName,
			StartDate:      r.StartDate.Format(check.DateLayout),
			EndDate:        r.EndDate.Format(check.DateLayout),
			WorkType:       string(r.WorkType),
			WorkTypeLabel:  r.WorkType.Label(),
			ProjectName:    r.ProjectName,
			ProjectManager: r.ProjectManager,
			WorkContent:    r.WorkContent,
			WorkHours:      r.WorkHours,
			OvertimeHours:  r.OvertimeHours,
			LeaveHours:     r.LeaveHours,
			ApprovalResult: r.ApprovalResult,
			ApprovalStatus: r.ApprovalStatus,
			ImportBatchNo:  r.ImportBatchNo,
			UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
		})
	}
	return items
}

// percent 一位小数的百分比文本，total 为 0 时为 0%
func percent(part, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
