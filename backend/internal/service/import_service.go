package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/9dragon/workinghour/backend/internal/dto"
	"github.com/9dragon/workinghour/backend/internal/model"
	"github.com/9dragon/workinghour/backend/internal/repository"
	"github.com/9dragon/workinghour/backend/internal/timesheet"
	pkgerrors "github.com/9dragon/workinghour/backend/pkg/errors"
	"github.com/9dragon/workinghour/backend/pkg/storage"
)

// ── 导入模块业务错误 ──

var (
	ErrUnsupportedFormat = errors.New("文件格式错误，仅支持.xlsx或.xls格式")
	ErrFileTooLarge      = errors.New("文件大小超过限制")
	ErrUnparsableFile    = errors.New("Excel文件解析失败或没有数据行")
	ErrTooManyRows       = errors.New("数据行数超过限制")
	ErrInvalidPolicy     = errors.New("重复数据处理策略无效，仅支持skip/overwrite")
)

// minSheetRows 表头（最多两行）加至少一行数据
const minSheetRows = 3

// ImportInput 一次上传
type ImportInput struct {
	FileName string
	Data     []byte
	Policy   string // 为空时使用 import.duplicate_strategy
	Operator string
}

// ImportService 工时导入业务接口
type ImportService interface {
	// Import 解析、校验、拆分并写入一份工时表，整个过程在一个事务内完成
	Import(ctx context.Context, in ImportInput) (*dto.ImportResult, error)
}

type importService struct {
	repo     *repository.Repository
	settings SettingsService
	archiver storage.Archiver // 可为 nil
	logger   *zap.Logger
}

// NewImportService 创建 ImportService 实例
func NewImportService(repo *repository.Repository, settings SettingsService, archiver storage.Archiver, logger *zap.Logger) ImportService {
	return &importService{repo: repo, settings: settings, archiver: archiver, logger: logger}
}

// sheetRow 非空数据行
type sheetRow struct {
	number int
	cells  []string
}

// ═══════════════════════════════════════════════════════════
// Import
// ═══════════════════════════════════════════════════════════
//
// 阶段一：文件级校验（格式、大小、可解析、行数），任何一项失败都不产生批次。
// 阶段二：事务内逐行归一化、拆分、去重写入，最后写入批次记录。
// 行级问题只记录诊断，不中断导入；数据库异常回滚整个事务。

func (s *importService) Import(ctx context.Context, in ImportInput) (*dto.ImportResult, error) {
	if !timesheet.SupportedExt(in.FileName) {
		return nil, ErrUnsupportedFormat
	}

	settings, err := s.settings.ImportSettings(ctx)
	if err != nil {
		return nil, err
	}
	if int64(len(in.Data)) > settings.MaxFileSize {
		return nil, ErrFileTooLarge
	}
	policy, ok := model.ParseDuplicatePolicy(strings.TrimSpace(in.Policy), settings.DuplicatePolicy)
	if !ok {
		return nil, ErrInvalidPolicy
	}

	rows, err := timesheet.ReadSheet(in.FileName, in.Data)
	if err != nil {
		if errors.Is(err, timesheet.ErrUnsupportedFormat) {
			return nil, ErrUnsupportedFormat
		}
		s.logger.Warn("解析上传文件失败", zap.String("file", in.FileName), zap.Error(err))
		return nil, ErrUnparsableFile
	}
	if len(rows) < minSheetRows {
		return nil, ErrUnparsableFile
	}

	layout := timesheet.DetectHeader(rows, timesheet.AnchorHeader)
	cols := layout.Resolve(settings.Aliases)

	var data []sheetRow
	for i := layout.DataStart - 1; i < len(rows); i++ {
		if timesheet.BlankRow(rows[i]) {
			continue
		}
		data = append(data, sheetRow{number: i + 1, cells: rows[i]})
	}
	if len(data) == 0 {
		return nil, ErrUnparsableFile
	}
	if len(data) > settings.MaxRows {
		return nil, ErrTooManyRows
	}

	now := time.Now()
	batch := &model.ImportBatch{
		BatchNo:         newSerialNo("IMP", now),
		FileName:        in.FileName,
		FileSize:        int64(len(in.Data)),
		TotalRows:       len(data),
		DuplicatePolicy: policy,
		Operator:        in.Operator,
		ImportTime:      now,
		Errors:          model.JSONList[model.RowDiagnostic]{},
		Duplicates:      model.JSONList[model.RowDiagnostic]{},
	}

	// ── 事务写入 ──
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()
	rollback := func() {
		if tx != nil {
			tx.Rollback()
		}
	}

	txRepo := s.repo.WithTx(tx)
	normalizer := timesheet.NewNormalizer(settings.Rules)

	for _, r := range data {
		row, diags := normalizer.Normalize(cols.Extract(r.number, r.cells))
		if len(diags) > 0 {
			batch.Errors = append(batch.Errors, diags...)
			batch.InvalidRows++
			continue
		}

		records := timesheet.Split(row, batch.BatchNo)
		if len(records) == 0 {
			batch.Errors = append(batch.Errors, model.RowDiagnostic{
				Row: r.number, Field: "工时", Error: timesheet.ZeroHoursMessage,
			})
			batch.InvalidRows++
			continue
		}

		created := 0
		for i := range records {
			rec := &records[i]
			res, priorBatch, err := s.resolveDuplicate(ctx, txRepo, rec, policy)
			if err != nil {
				rollback()
				s.logger.Error("写入工时记录失败",
					zap.String("batch_no", batch.BatchNo),
					zap.Int("row", r.number),
					zap.Error(err),
				)
				return nil, err
			}
			if res == resolvedCreated {
				created++
				continue
			}
			batch.Duplicates = append(batch.Duplicates, duplicateDiagnostic(r.number, rec, priorBatch, res))
		}

		if created > 0 {
			batch.SuccessRows++
		} else {
			batch.DuplicateRows++
		}
	}

	batch.ArchiveKey = s.archive(ctx, batch.BatchNo, in.FileName, in.Data)

	if err := txRepo.ImportBatch.Create(ctx, batch); err != nil {
		rollback()
		s.discardArchive(ctx, batch.BatchNo, batch.ArchiveKey)
		s.logger.Error("写入导入批次失败", zap.String("batch_no", batch.BatchNo), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.discardArchive(ctx, batch.BatchNo, batch.ArchiveKey)
			s.logger.Error("提交事务失败", zap.String("batch_no", batch.BatchNo), zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("工时导入完成",
		zap.String("batch_no", batch.BatchNo),
		zap.String("file", in.FileName),
		zap.String("operator", in.Operator),
		zap.Int("total", batch.TotalRows),
		zap.Int("success", batch.SuccessRows),
		zap.Int("duplicate", batch.DuplicateRows),
		zap.Int("invalid", batch.InvalidRows),
	)

	return &dto.ImportResult{
		BatchNo:         batch.BatchNo,
		FileName:        batch.FileName,
		TotalRows:       batch.TotalRows,
		SuccessRows:     batch.SuccessRows,
		DuplicateRows:   batch.DuplicateRows,
		InvalidRows:     batch.InvalidRows,
		DuplicatePolicy: string(policy),
		ErrorCount:      len(batch.Errors),
		DuplicateCount:  len(batch.Duplicates),
		Errors:          dto.Preview([]model.RowDiagnostic(batch.Errors)),
		Duplicates:      dto.Preview([]model.RowDiagnostic(batch.Duplicates)),
		ArchiveKey:      batch.ArchiveKey,
	}, nil
}

// ────────────────────── 去重 ──────────────────────

type resolution int

const (
	resolvedCreated resolution = iota
	resolvedSkipped
	resolvedOverwritten
)

// resolveDuplicate 按 (姓名, 开始日期, 项目名称, 工时分类) 查重并应用策略
// 插入时的唯一键冲突（并发导入）按“已存在”处理
func (s *importService) resolveDuplicate(ctx context.Context, repo *repository.Repository, rec *model.WorkHourRecord, policy model.DuplicatePolicy) (resolution, string, error) {
	existing, err := repo.WorkHour.FindByKey(ctx, rec.Key())
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = repo.WorkHour.Create(ctx, rec)
		if err == nil {
			return resolvedCreated, "", nil
		}
		if !errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return 0, "", err
		}
		s.logger.Warn("写入时唯一键冲突，按重复数据处理",
			zap.String("user_name", rec.UserName),
			zap.String("project_name", rec.ProjectName),
		)
		if existing, err = repo.WorkHour.FindByKey(ctx, rec.Key()); err != nil {
			return 0, "", fmt.Errorf("唯一键冲突后重新读取失败: %w", err)
		}
	case err != nil:
		return 0, "", err
	}

	priorBatch := existing.ImportBatchNo
	if policy != model.DuplicateOverwrite {
		return resolvedSkipped, priorBatch, nil
	}
	if err := repo.WorkHour.Overwrite(ctx, existing.ID, rec); err != nil {
		return 0, "", err
	}
	return resolvedOverwritten, priorBatch, nil
}

func duplicateDiagnostic(row int, rec *model.WorkHourRecord, priorBatch string, res resolution) model.RowDiagnostic {
	action := "已跳过"
	if res == resolvedOverwritten {
		action = "已覆盖"
	}
	return model.RowDiagnostic{
		Row:   row,
		Field: rec.WorkType.Label(),
		Error: fmt.Sprintf("%s 与批次%s中的记录重复，%s", rec.ProjectName, priorBatch, action),
	}
}

// archive 归档源文件，失败只记录日志
func (s *importService) archive(ctx context.Context, batchNo, fileName string, data []byte) string {
	if s.archiver == nil {
		return ""
	}
	key, err := s.archiver.Archive(ctx, batchNo, fileName, data)
	if err != nil {
		s.logger.Warn("归档导入文件失败", zap.String("batch_no", batchNo), zap.Error(err))
		return ""
	}
	return key
}

// discardArchive 批次未落库时删除已上传的归档对象，删除失败只记录日志
func (s *importService) discardArchive(ctx context.Context, batchNo, key string) {
	if s.archiver == nil || key == "" {
		return
	}
	if err := s.archiver.Remove(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn("删除归档文件失败", zap.String("batch_no", batchNo), zap.String("key", key), zap.Error(err))
	}
}

// newSerialNo 生成 <前缀>_<yyyymmddHHMMSS>_<8位随机十六进制> 编号
func newSerialNo(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s", prefix, now.Format("20060102150405"), uuid.New().String()[:8])
}
