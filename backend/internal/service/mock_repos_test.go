package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/9dragon/workinghour/backend/internal/model"
	"github.com/9dragon/workinghour/backend/internal/repository"
	pkgerrors "github.com/9dragon/workinghour/backend/pkg/errors"
)

// ── Mock WorkHourRepository ──

type mockWorkHourRepo struct {
	records map[uint64]*model.WorkHourRecord
	nextID  uint64
	// hidden 模拟并发导入：FindByKey 看不到，Create 时冲突并变为可见
	hidden    []*model.WorkHourRecord
	createErr error
}

func newMockWorkHourRepo() *mockWorkHourRepo {
	return &mockWorkHourRepo{records: make(map[uint64]*model.WorkHourRecord)}
}

// seed 直接写入一条记录
func (m *mockWorkHourRepo) seed(rec model.WorkHourRecord) *model.WorkHourRecord {
	m.nextID++
	rec.ID = m.nextID
	m.records[rec.ID] = &rec
	return &rec
}

func (m *mockWorkHourRepo) all() []model.WorkHourRecord {
	out := make([]model.WorkHourRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sameKey(a, b model.WorkHourKey) bool {
	return a.UserName == b.UserName && a.StartDate.Equal(b.StartDate) &&
		a.ProjectName == b.ProjectName && a.WorkType == b.WorkType
}

func (m *mockWorkHourRepo) FindByKey(_ context.Context, key model.WorkHourKey) (*model.WorkHourRecord, error) {
	for _, r := range m.records {
		if sameKey(r.Key(), key) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkHourRepo) Create(_ context.Context, rec *model.WorkHourRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	for i, h := range m.hidden {
		if sameKey(h.Key(), rec.Key()) {
			m.hidden = append(m.hidden[:i], m.hidden[i+1:]...)
			m.seed(*h)
			return pkgerrors.ErrDuplicateKey
		}
	}
	for _, r := range m.records {
		if sameKey(r.Key(), rec.Key()) {
			return pkgerrors.ErrDuplicateKey
		}
	}
	saved := m.seed(*rec)
	rec.ID = saved.ID
	return nil
}

func (m *mockWorkHourRepo) Overwrite(_ context.Context, id uint64, rec *model.WorkHourRecord) error {
	r, ok := m.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.SerialNo = rec.SerialNo
	r.EndDate = rec.EndDate
	r.WorkHours = rec.WorkHours
	r.OvertimeHours = rec.OvertimeHours
	r.LeaveHours = rec.LeaveHours
	r.ProjectManager = rec.ProjectManager
	r.WorkContent = rec.WorkContent
	r.DeptName = rec.DeptName
	r.ApprovalResult = rec.ApprovalResult
	r.ApprovalStatus = rec.ApprovalStatus
	r.ImportBatchNo = rec.ImportBatchNo
	r.UpdatedAt = time.Now()
	return nil
}

func (m *mockWorkHourRepo) inScope(r *model.WorkHourRecord, f repository.ScopeFilter) bool {
	if f.Start != nil && r.EndDate.Before(*f.Start) {
		return false
	}
	if f.End != nil && r.StartDate.After(*f.End) {
		return false
	}
	if f.DeptName != "" && !strings.Contains(r.DeptName, f.DeptName) {
		return false
	}
	if f.UserName != "" && !strings.Contains(r.UserName, f.UserName) {
		return false
	}
	return true
}

func (m *mockWorkHourRepo) ListInScope(_ context.Context, f repository.ScopeFilter) ([]model.WorkHourRecord, error) {
	var out []model.WorkHourRecord
	for _, r := range m.all() {
		if m.inScope(&r, f) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UserName != out[j].UserName {
			return out[i].UserName < out[j].UserName
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

func (m *mockWorkHourRepo) DateBounds(_ context.Context, f repository.ScopeFilter) (*time.Time, *time.Time, error) {
	var first, last *time.Time
	for _, r := range m.all() {
		if !m.inScope(&r, f) {
			continue
		}
		start, end := r.StartDate, r.EndDate
		if first == nil || start.Before(*first) {
			first = &start
		}
		if last == nil || end.After(*last) {
			last = &end
		}
	}
	return first, last, nil
}

func (m *mockWorkHourRepo) match(r *model.WorkHourRecord, q repository.RecordQuery) bool {
	switch {
	case q.ProjectName != "" && !strings.Contains(r.ProjectName, q.ProjectName):
	case q.ProjectManager != "" && !strings.Contains(r.ProjectManager, q.ProjectManager):
	case q.DeptName != "" && !strings.Contains(r.DeptName, q.DeptName):
	case q.UserName != "" && !strings.Contains(r.UserName, q.UserName):
	case q.WorkType != "" && string(r.WorkType) != q.WorkType:
	case q.BatchNo != "" && r.ImportBatchNo != q.BatchNo:
	case q.Start != nil && r.StartDate.Before(*q.Start):
	case q.End != nil && r.StartDate.After(*q.End):
	default:
		return true
	}
	return false
}

// QueryAll 只按 id 排序，排序列由真实仓储的测试覆盖
func (m *mockWorkHourRepo) QueryAll(_ context.Context, q repository.RecordQuery) ([]model.WorkHourRecord, error) {
	var out []model.WorkHourRecord
	for _, r := range m.all() {
		if m.match(&r, q) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockWorkHourRepo) Query(ctx context.Context, q repository.RecordQuery) ([]model.WorkHourRecord, int64, error) {
	all, _ := m.QueryAll(ctx, q)
	total := int64(len(all))
	if q.Offset >= len(all) {
		return nil, total, nil
	}
	end := len(all)
	if q.Limit > 0 && q.Offset+q.Limit < end {
		end = q.Offset + q.Limit
	}
	return all[q.Offset:end], total, nil
}

func (m *mockWorkHourRepo) distinct(pick func(r *model.WorkHourRecord) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range m.records {
		v := pick(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (m *mockWorkHourRepo) DistinctProjects(_ context.Context) ([]string, error) {
	return m.distinct(func(r *model.WorkHourRecord) string { return r.ProjectName }), nil
}

func (m *mockWorkHourRepo) DistinctDepartments(_ context.Context) ([]string, error) {
	return m.distinct(func(r *model.WorkHourRecord) string { return r.DeptName }), nil
}

func (m *mockWorkHourRepo) DistinctUsers(_ context.Context) ([]repository.UserDept, error) {
	seen := make(map[repository.UserDept]bool)
	var out []repository.UserDept
	for _, r := range m.records {
		ud := repository.UserDept{UserName: r.UserName, DeptName: r.DeptName}
		if seen[ud] {
			continue
		}
		seen[ud] = true
		out = append(out, ud)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserName != out[j].UserName {
			return out[i].UserName < out[j].UserName
		}
		return out[i].DeptName < out[j].DeptName
	})
	return out, nil
}

// ── Mock ImportBatchRepository ──

type mockImportBatchRepo struct {
	batches   []*model.ImportBatch
	createErr error
}

func newMockImportBatchRepo() *mockImportBatchRepo {
	return &mockImportBatchRepo{}
}

func (m *mockImportBatchRepo) Create(_ context.Context, batch *model.ImportBatch) error {
	if m.createErr != nil {
		return m.createErr
	}
	batch.ID = uint64(len(m.batches) + 1)
	batch.CreatedAt = time.Now()
	m.batches = append(m.batches, batch)
	return nil
}

func (m *mockImportBatchRepo) GetByBatchNo(_ context.Context, batchNo string) (*model.ImportBatch, error) {
	for _, b := range m.batches {
		if b.BatchNo == batchNo {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// List 按导入时间倒序
func (m *mockImportBatchRepo) List(_ context.Context, offset, limit int) ([]model.ImportBatch, int64, error) {
	var out []model.ImportBatch
	for i := len(m.batches) - 1; i >= 0; i-- {
		out = append(out, *m.batches[i])
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := len(out)
	if offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], total, nil
}

// ── Mock CheckRunRepository ──

type mockCheckRunRepo struct {
	runs []*model.CheckRun
}

func newMockCheckRunRepo() *mockCheckRunRepo {
	return &mockCheckRunRepo{}
}

func (m *mockCheckRunRepo) Create(_ context.Context, run *model.CheckRun) error {
	run.ID = uint64(len(m.runs) + 1)
	run.CreatedAt = time.Now()
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockCheckRunRepo) GetByCheckNo(_ context.Context, checkNo string) (*model.CheckRun, error) {
	for _, r := range m.runs {
		if r.CheckNo == checkNo {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCheckRunRepo) List(_ context.Context, kind string, offset, limit int) ([]model.CheckRun, int64, error) {
	var out []model.CheckRun
	for i := len(m.runs) - 1; i >= 0; i-- {
		if kind == "" || string(m.runs[i].Kind) == kind {
			out = append(out, *m.runs[i])
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := len(out)
	if offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], total, nil
}

// ── Mock SysConfigRepository ──

type mockSysConfigRepo struct {
	configs []*model.SysConfig
	listErr error
}

func newMockSysConfigRepo() *mockSysConfigRepo {
	return &mockSysConfigRepo{}
}

// newSeededSysConfigRepo 预置全部默认配置
func newSeededSysConfigRepo() *mockSysConfigRepo {
	m := newMockSysConfigRepo()
	_ = m.EnsureDefaults(context.Background(), DefaultConfigs())
	return m
}

// set 直接修改已有配置值（不存在时追加）
func (m *mockSysConfigRepo) set(key, value string) {
	for _, c := range m.configs {
		if c.ConfigKey == key {
			c.ConfigValue = value
			return
		}
	}
	m.configs = append(m.configs, &model.SysConfig{ID: uint64(len(m.configs) + 1), ConfigKey: key, ConfigValue: value, IsEditable: true})
}

func (m *mockSysConfigRepo) List(_ context.Context, category string) ([]model.SysConfig, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.SysConfig
	for _, c := range m.configs {
		if category == "" || c.Category == category {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockSysConfigRepo) GetByKey(_ context.Context, key string) (*model.SysConfig, error) {
	for _, c := range m.configs {
		if c.ConfigKey == key {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSysConfigRepo) UpdateValue(_ context.Context, key, value string) error {
	for _, c := range m.configs {
		if c.ConfigKey == key {
			c.ConfigValue = value
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockSysConfigRepo) EnsureDefaults(_ context.Context, defaults []model.SysConfig) error {
	for _, d := range defaults {
		if _, err := m.GetByKey(context.Background(), d.ConfigKey); err == nil {
			continue
		}
		cfg := d
		cfg.ID = uint64(len(m.configs) + 1)
		m.configs = append(m.configs, &cfg)
	}
	return nil
}

// ── 测试辅助 ──

type mockRepos struct {
	workHour    *mockWorkHourRepo
	importBatch *mockImportBatchRepo
	checkRun    *mockCheckRunRepo
	sysConfig   *mockSysConfigRepo
}

// newTestRepository 未绑定数据库，BeginTx 返回 nil 事务
func newTestRepository() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		workHour:    newMockWorkHourRepo(),
		importBatch: newMockImportBatchRepo(),
		checkRun:    newMockCheckRunRepo(),
		sysConfig:   newSeededSysConfigRepo(),
	}
	repo := &repository.Repository{
		WorkHour:    m.workHour,
		ImportBatch: m.importBatch,
		CheckRun:    m.checkRun,
		SysConfig:   m.sysConfig,
	}
	return repo, m
}

var testLogger = zap.NewNop()

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
