package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/9dragon/workinghour/backend/internal/model"
	pkgerrors "github.com/9dragon/workinghour/backend/pkg/errors"
)

// ScopeFilter 核对范围：时间段与区间相交，部门/人员为模糊匹配
type ScopeFilter struct {
	Start    *time.Time
	End      *time.Time
	DeptName string
	UserName string
}

// RecordQuery 工时记录查询条件
type RecordQuery struct {
	ProjectName    string
	ProjectManager string
	DeptName       string
	UserName       string
	WorkType       string
	BatchNo        string
	Start          *time.Time
	End            *time.Time
	SortBy         string
	SortOrder      string
	Offset         int
	Limit          int
}

// UserDept 人员及其部门
type UserDept struct {
	UserName string `json:"user_name"`
	DeptName string `json:"dept_name"`
}

// WorkHourRepository 工时记录数据访问接口
type WorkHourRepository interface {
	FindByKey(ctx context.Context, key model.WorkHourKey) (*model.WorkHourRecord, error)
	Create(ctx context.Context, rec *model.WorkHourRecord) error
	Overwrite(ctx context.Context, id uint64, rec *model.WorkHourRecord) error
	ListInScope(ctx context.Context, f ScopeFilter) ([]model.WorkHourRecord, error)
	DateBounds(ctx context.Context, f ScopeFilter) (*time.Time, *time.Time, error)
	Query(ctx context.Context, q RecordQuery) ([]model.WorkHourRecord, int64, error)
	QueryAll(ctx context.Context, q RecordQuery) ([]model.WorkHourRecord, error)
	DistinctProjects(ctx context.Context) ([]string, error)
	DistinctDepartments(ctx context.Context) ([]string, error)
	DistinctUsers(ctx context.Context) ([]UserDept, error)
}

type workHourRepo struct {
	db *gorm.DB
}

// NewWorkHourRepo 创建 WorkHourRepository 实例
func NewWorkHourRepo(db *gorm.DB) WorkHourRepository {
	return &workHourRepo{db: db}
}

func (r *workHourRepo) FindByKey(ctx context.Context, key model.WorkHourKey) (*model.WorkHourRecord, error) {
	var rec model.WorkHourRecord
	err := r.db.WithContext(ctx).
		Where("user_name = ? AND start_date = ? AND project_name = ? AND work_type = ?",
			key.UserName, key.StartDate, key.ProjectName, key.WorkType).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create 在保存点内插入，唯一键冲突转换为 ErrDuplicateKey 且不破坏外层事务
func (r *workHourRepo) Create(ctx context.Context, rec *model.WorkHourRecord) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(rec).Error
	})
	if pkgerrors.IsDuplicateKey(err) {
		return pkgerrors.ErrDuplicateKey
	}
	return err
}

// Overwrite 用新记录的可变字段原地覆盖已有记录
func (r *workHourRepo) Overwrite(ctx context.Context, id uint64, rec *model.WorkHourRecord) error {
	res := r.db.WithContext(ctx).
		Model(&model.WorkHourRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"serial_no":       rec.SerialNo,
			"end_date":        rec.EndDate,
			"work_hours":      rec.WorkHours,
			"overtime_hours":  rec.OvertimeHours,
			"leave_hours":     rec.LeaveHours,
			"project_manager": rec.ProjectManager,
			"work_content":    rec.WorkContent,
			"dept_name":       rec.DeptName,
			"approval_result": rec.ApprovalResult,
			"approval_status": rec.ApprovalStatus,
			"import_batch_no": rec.ImportBatchNo,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *workHourRepo) scoped(ctx context.Context, f ScopeFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.WorkHourRecord{})
	if f.Start != nil {
		q = q.Where("end_date >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("start_date <= ?", *f.End)
	}
	if f.DeptName != "" {
		q = q.Where(likeClause("dept_name"), likePattern(f.DeptName))
	}
	if f.UserName != "" {
		q = q.Where(likeClause("user_name"), likePattern(f.UserName))
	}
	return q
}

func (r *workHourRepo) ListInScope(ctx context.Context, f ScopeFilter) ([]model.WorkHourRecord, error) {
	var recs []model.WorkHourRecord
	err := r.scoped(ctx, f).
		Order("user_name ASC, start_date ASC, id ASC").
		Find(&recs).Error
	return recs, err
}

// DateBounds 过滤条件下最早开始日期与最晚结束日期，无数据时均为 nil
func (r *workHourRepo) DateBounds(ctx context.Context, f ScopeFilter) (*time.Time, *time.Time, error) {
	var first, last model.WorkHourRecord
	err := r.scoped(ctx, f).Select("start_date").Order("start_date ASC").Limit(1).Take(&first).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if err := r.scoped(ctx, f).Select("end_date").Order("end_date DESC").Limit(1).Take(&last).Error; err != nil {
		return nil, nil, err
	}
	return &first.StartDate, &last.EndDate, nil
}

// sortColumns 允许排序的列
var sortColumns = map[string]string{
	"id":             "id",
	"start_date":     "start_date",
	"end_date":       "end_date",
	"user_name":      "user_name",
	"dept_name":      "dept_name",
	"project_name":   "project_name",
	"work_type":      "work_type",
	"work_hours":     "work_hours",
	"overtime_hours": "overtime_hours",
	"created_at":     "created_at",
}

func (r *workHourRepo) filtered(ctx context.Context, q RecordQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.WorkHourRecord{})
	if q.ProjectName != "" {
		db = db.Where(likeClause("project_name"), likePattern(q.ProjectName))
	}
	if q.ProjectManager != "" {
		db = db.Where(likeClause("project_manager"), likePattern(q.ProjectManager))
	}
	if q.DeptName != "" {
		db = db.Where(likeClause("dept_name"), likePattern(q.DeptName))
	}
	if q.UserName != "" {
		db = db.Where(likeClause("user_name"), likePattern(q.UserName))
	}
	if q.WorkType != "" {
		db = db.Where("work_type = ?", q.WorkType)
	}
	if q.BatchNo != "" {
		db = db.Where("import_batch_no = ?", q.BatchNo)
	}
	if q.Start != nil {
		db = db.Where("start_date >= ?", *q.Start)
	}
	if q.End != nil {
		db = db.Where("start_date <= ?", *q.End)
	}

	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = "start_date"
	}
	dir := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		dir = "ASC"
	}
	return db.Order(col + " " + dir).Order("id " + dir)
}

func (r *workHourRepo) Query(ctx context.Context, q RecordQuery) ([]model.WorkHourRecord, int64, error) {
	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var recs []model.WorkHourRecord
	err := r.filtered(ctx, q).Offset(q.Offset).Limit(q.Limit).Find(&recs).Error
	return recs, total, err
}

func (r *workHourRepo) QueryAll(ctx context.Context, q RecordQuery) ([]model.WorkHourRecord, error) {
	var recs []model.WorkHourRecord
	err := r.filtered(ctx, q).Find(&recs).Error
	return recs, err
}

func (r *workHourRepo) DistinctProjects(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&model.WorkHourRecord{}).
		Where("project_name <> ''").
		Distinct().Order("project_name").
		Pluck("project_name", &out).Error
	return out, err
}

func (r *workHourRepo) DistinctDepartments(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&model.WorkHourRecord{}).
		Where("dept_name IS NOT NULL AND dept_name <> ''").
		Distinct().Order("dept_name").
		Pluck("dept_name", &out).Error
	return out, err
}

func (r *workHourRepo) DistinctUsers(ctx context.Context) ([]UserDept, error) {
	var out []UserDept
	err := r.db.WithContext(ctx).Model(&model.WorkHourRecord{}).
		Select("DISTINCT user_name, COALESCE(dept_name, '') AS dept_name").
		Where("user_name <> ''").
		Order("user_name, dept_name").
		Scan(&out).Error
	return out, err
}

func likeClause(col string) string {
	return col + ` LIKE ? ESCAPE '\'`
}

// likePattern 转义通配符后构造 %x% 模式
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
