package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/9dragon/workinghour/backend/internal/model"
	"github.com/9dragon/workinghour/backend/internal/repository"
	pkgerrors "github.com/9dragon/workinghour/backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repository.AutoMigrate(db, model.AllModels()...))
	return db
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func record(user, start, end, project string, wt model.WorkType, hours float64) *model.WorkHourRecord {
	return &model.WorkHourRecord{
		SerialNo:       "S-" + user + start,
		UserName:       user,
		StartDate:      day(start),
		EndDate:        day(end),
		ProjectName:    project,
		WorkType:       wt,
		WorkHours:      hours,
		DeptName:       "交付一部",
		ApprovalResult: "通过",
		ApprovalStatus: "已完成",
		ImportBatchNo:  "IMP_1",
	}
}

// ── 工时记录 ──

func TestWorkHour_CreateAndFindByKey(t *testing.T) {
	repo := repository.NewRepository(newTestDB(t))
	ctx := context.Background()

	rec := record("张三", "2026-01-05", "2026-01-09", "A项目", model.WorkTypeProjectDelivery, 40)
	require.NoError(t, repo.WorkHour.Create(ctx, rec))
	assert.NotZero(t, rec.ID)

	found, err := repo.WorkHour.FindByKey(ctx, rec.Key())
	require.NoError(t, err)
	assert.Equal(t, rec.ID, found.ID)
	assert.True(t, found.StartDate.Equal(day("2026-01-05")))
	assert.True(t, found.EndDate.Equal(day("2026-01-09")))

	other := rec.Key()
	other.WorkType = model.WorkTypeProductResearch
	_, err = repo.WorkHour.FindByKey(ctx, other)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestWorkHour_DuplicateKeyInsideTransaction(t *testing.T) {
	repo := repository.NewRepository(newTestDB(t))
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	txRepo := repo.WithTx(tx)

	first := record("张三", "2026-01-05", "2026-01-09", "A项目", model.WorkTypeProjectDelivery, 40)
	require.NoError(t, txRepo.WorkHour.Create(ctx, first))

	// 序号不同但唯一键相同
	dup := record("张三", "2026-01-05", "2026-01-09", "A项目", model.WorkTypeProjectDelivery, 20)
	dup.SerialNo = "OTHER"
	err = txRepo.WorkHour.Create(ctx, dup)
	require.True(t, errors.Is(err, pkgerrors.ErrDuplicateKey), "期望 ErrDuplicateKey，实际: %v", err)

	// 保存点回滚后外层事务仍可继续
	next := record("张三", "2026-01-12", "2026-01-16", "A项目", model.WorkTypeProjectDelivery, 40)
	require.NoError(t, txRepo.WorkHour.Create(ctx, next))
	require.NoError(t, tx.Commit().Error)

	recs, err := repo.WorkHour.ListInScope(ctx, repository.ScopeFilter{})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestWorkHour_TransactionRollback(t *testing.T) {
	repo := repository.NewRepository(newTestDB(t))
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	txRepo := repo.WithTx(tx)
	require.NoError(t, txRepo.WorkHour.Create(ctx, record("张三", "2026-01-05", "2026-01-09", "A项目", model.WorkTypeProjectDelivery, 40)))
	require.NoError(t, tx.Rollback().Error)

	recs, err := repo.WorkHour.ListInScope(ctx, repository.ScopeFilter{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestWorkHour_Overwrite(t *testing.T) {
	repo := repository.NewRepository(newTestDB(t))
	ctx := context.Background()

	rec := record("张三", "2026-01-05", "2026-01-09", "A项目", model.WorkTypeProjectDelivery, 40)
	require.NoError(t, repo.WorkHour.Create(ctx, rec))

	update := record("张三", "2026-01-05", "2026-01-10", "A项目", model.WorkTypeProjectDelivery, 32)
	update.SerialNo = "NEW"
	update.OvertimeHours = 4
	update.ProjectManager = "李四"
	update.ImportBatchNo = "IMP_2"
	require.NoError(t, repo.WorkHour.Overwrite(ctx, rec.ID, update))

	found, err := repo.WorkHour.FindByKey(ctx, rec.Key())
	require.NoError(t, err)
	assert.Equal(t, rec.ID, found.ID)
	assert.Equal(t, "NEW", found.SerialNo)
	assert.Equal(t, 32.0, found.WorkHours)
	assert.Equal(t, 4.0, found.OvertimeHours)
	assert.Equal(t, "李四", found.ProjectManager)
	assert.Equal(t, "IMP_2", found.ImportBatchNo)
	assert.True(t, found.EndDate.Equal(day("2026-01-10")))

	assert.ErrorIs(t, repo.WorkHour.Overwrite(ctx, 9999, update), gorm.ErrRecordNotFound)
}

func seedScope(t *testing.T, repo *repository.Repository) {
	t.Helper()
	ctx := context.Background()
	recs := []*model.WorkHourRecord{
		record("张三", "2026-01-05", "2026-01-09", "A项目", model.WorkTypeProjectDelivery, 40),
		record("张三", "2026-01-26", "2026-02-03", "A项目", model.WorkTypeProjectDelivery, 56),
		record("李四", "2025-12-29", "2026-01-02", "B产品", model.WorkTypeProductResearch, 24),
		record("王五", "2026-02-09", "2026-02-13", "C投标", model.WorkTypePresalesSupport, 40),
	}
	recs[3].DeptName = "售前部"
	for _, r := range recs {
		require.NoError(t, repo.WorkHour.Create(ctx, r))
	}
}

func TestWorkHour_ListInScope(t *testing.T) {
	repo := repository.NewRepository(newTestDB(t))
	seedScope(t, repo)
	ctx := context.Background()

	start, end := day("2026-01-01"), day("2026-01-31")
	recs, err := repo.WorkHour.ListInScope(ctx, repository.ScopeFilter{Start: &start, End: &end})
	require.NoError(t, err)
	// 跨区间边界的记录同样在范围内
	require.Len(t, recs, 3)
	assert.Equal(t, "张三", recs[0].UserName)
	assert.Equal(t, "李四", recs[2].UserName)

	recs, err = repo.WorkHour.ListInScope(ctx, repository.ScopeFilter{DeptName: "售前"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "王五", recs[0].UserName)

	recs, err = repo.WorkHour.ListInScope(ctx, repository.ScopeFilter{UserName: "%"})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestWorkHour_DateBounds(t *testing.T) {
	repo := repository.NewRepository(newTestDB(t))
	ctx := context.Background()

	min, max, err := repo.WorkHour.DateBounds(ctx, repository.ScopeFilter{})
	require.NoError(t, err)
	assert.Nil(t, min)
	assert.Nil(t, max)

	seedScope(t, repo)
	min, max, err = repo.WorkHour.DateBounds(ctx, repository.ScopeFilter{})
	require.NoError(t, err)
	require.NotNil(t, min)
	assert.True(t, min.Equal(day("2025-12-29")))
	assert.True(t, max.Equal(day("2026-02-13")))

	min, max, err = repo.WorkHour.DateBounds(ctx, repository.ScopeFilter{UserName: "张三"})
	require.NoError(t, err)
	assert.True(t, min.Equal(day("2026-01-05")))
	assert.True(t, max.Equal(day("2026-02-03")))
}

func TestWorkHour_QueryAndDict(t *testing.T) {
	repo := repository.NewRepository(newTestDB(t))
	seedScope(t, repo)
	ctx := context.Background()

	recs, total, err := repo.WorkHour.Query(ctx, repository.RecordQuery{
		SortBy: "work_hours", SortOrder: "asc", Offset: 0, Limit: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, recs, 2)
	assert.Equal(t, 24.0, recs[0].WorkHours)

	recs, total, err = repo.WorkHour.Query(ctx, repository.RecordQuery{ProjectName: "A", SortBy: "drop table", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.True(t, recs[0].StartDate.Equal(day("2026-01-26")))

	all, err := repo.WorkHour.QueryAll(ctx, repository.RecordQuery{WorkType: "presales_support"})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	projects, err := repo.WorkHour.DistinctProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A项目", "B产品", "C投标"}, projects)

	depts, err := repo.WorkHour.DistinctDepartments(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"交付一部", "售前部"}, depts)

	users, err := repo.WorkHour.DistinctUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

// ── 导入批次 ──

func TestImportBatch_CreateGetList(t *testing.T) {
	repo := repository.NewRepository(newTestDB(t))
	ctx := context.Background()

	batch := &model.ImportBatch{
		BatchNo:         "IMP_20260105120000_abcdef12",
		FileName:        "工时.xlsx",
		FileSize:        2048,
		TotalRows:       3,
		SuccessRows:     1,
		DuplicateRows:   1,
		InvalidRows:     1,
		DuplicatePolicy: model.DuplicateSkip,
		Operator:        "admin",
		ImportTime:      time.Now(),
		Errors:          model.JSONList[model.RowDiagnostic]{{Row: 4, Field: "姓名", Error: "姓名不能为空"}},
		Duplicates:      model.JSONList[model.RowDiagnostic]{{Row: 3, Field: "A项目", Error: "与批次IMP_0重复"}},
	}
	require.NoError(t, repo.ImportBatch.Create(ctx, batch))

	got, err := repo.ImportBatch.GetByBatchNo(ctx, batch.BatchNo)
	require.NoError(t, err)
	assert.Equal(t, batch.Errors, got.Errors)
	assert.Equal(t, batch.Duplicates, got.Duplicates)

	_, err = repo.ImportBatch.GetByBatchNo(ctx, "IMP_missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	list, total, err := repo.ImportBatch.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Errors)
}

// ── 核对记录 ──

func TestCheckRun_CreateGetList(t *testing.T) {
	repo := repository.NewRepository(newTestDB(t))
	ctx := context.Background()

	start := day("2026-01-01")
	details, err := model.NewJSONText([]map[string]string{{"userName": "张三"}})
	require.NoError(t, err)

	runs := []*model.CheckRun{
		{CheckNo: "CHK_1", Kind: model.CheckMissingDay, Trigger: model.TriggerManual, StartDate: &start, Details: details, CheckTime: time.Now()},
		{CheckNo: "CHK_2", Kind: model.CheckOverlap, Trigger: model.TriggerImport, CheckTime: time.Now()},
	}
	for _, r := range runs {
		require.NoError(t, repo.CheckRun.Create(ctx, r))
	}

	got, err := repo.CheckRun.GetByCheckNo(ctx, "CHK_1")
	require.NoError(t, err)
	require.NotNil(t, got.StartDate)
	assert.True(t, got.StartDate.Equal(start))
	assert.Nil(t, got.EndDate)
	assert.JSONEq(t, `[{"userName":"张三"}]`, string(got.Details))

	list, total, err := repo.CheckRun.List(ctx, string(model.CheckOverlap), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "CHK_2", list[0].CheckNo)

	_, total, err = repo.CheckRun.List(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

// ── 系统配置 ──

func TestSysConfig_EnsureDefaultsAndUpdate(t *testing.T) {
	repo := repository.NewRepository(newTestDB(t))
	ctx := context.Background()

	defaults := []model.SysConfig{
		{ConfigKey: "import.max_rows", ConfigValue: "1000", ConfigType: model.ConfigTypeNumber, Category: "import", IsEditable: true},
		{ConfigKey: "system.name", ConfigValue: "工时核对系统", ConfigType: model.ConfigTypeString, Category: "system", IsEditable: false},
	}
	require.NoError(t, repo.SysConfig.EnsureDefaults(ctx, defaults))
	require.NoError(t, repo.SysConfig.UpdateValue(ctx, "import.max_rows", "500"))
	// 再次写入默认值不覆盖已有配置
	require.NoError(t, repo.SysConfig.EnsureDefaults(ctx, defaults))

	cfg, err := repo.SysConfig.GetByKey(ctx, "import.max_rows")
	require.NoError(t, err)
	assert.Equal(t, "500", cfg.ConfigValue)

	name, err := repo.SysConfig.GetByKey(ctx, "system.name")
	require.NoError(t, err)
	assert.False(t, name.IsEditable)

	list, err := repo.SysConfig.List(ctx, "import")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, repo.SysConfig.UpdateValue(ctx, "missing", "1"), gorm.ErrRecordNotFound)
}
