package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/9dragon/workinghour/backend/internal/check"
	"github.com/9dragon/workinghour/backend/internal/dto"
	"github.com/9dragon/workinghour/backend/internal/model"
	"github.com/9dragon/workinghour/backend/internal/repository"
)

// ── 核对模块业务错误 ──

var (
	ErrInvalidDate      = errors.New("日期格式错误，应为YYYY-MM-DD")
	ErrInvalidDateRange = errors.New("开始日期不能晚于结束日期")
	ErrInvalidWorkdays  = errors.New("工作日取值必须在1-7之间")
	ErrInvalidCheckKind = errors.New("核对类型无效")
	ErrCheckRunNotFound = errors.New("核对记录不存在")
)

// CheckService 一致性核对业务接口
// 四类核对都会在返回前写入一条核对记录
type CheckService interface {
	MissingDays(ctx context.Context, req *dto.CheckRequest, operator string) (*dto.CheckResult, error)
	Overlaps(ctx context.Context, req *dto.CheckRequest, operator string) (*dto.CheckResult, error)
	Compliance(ctx context.Context, req *dto.CheckRequest, operator string) (*dto.CheckResult, error)
	HoursReconciliation(ctx context.Context, req *dto.CheckRequest, operator string) (*dto.CheckResult, error)
	Run(ctx context.Context, kind model.CheckKind, req *dto.CheckRequest, operator string) (*dto.CheckResult, error)

	History(ctx context.Context, req *dto.CheckHistoryRequest) ([]dto.CheckRunItem, int64, error)
	Detail(ctx context.Context, checkNo string) (*dto.CheckRunDetail, error)
}

type checkService struct {
	repo     *repository.Repository
	settings SettingsService
	logger   *zap.Logger
}

// NewCheckService 创建 CheckService 实例
func NewCheckService(repo *repository.Repository, settings SettingsService, logger *zap.Logger) CheckService {
	return &checkService{repo: repo, settings: settings, logger: logger}
}

// checkConfig 核对记录中保存的实际计算参数
type checkConfig struct {
	StartDate  string            `json:"start_date"`
	EndDate    string            `json:"end_date"`
	DeptName   string            `json:"dept_name,omitempty"`
	UserName   string            `json:"user_name,omitempty"`
	Workdays   []int             `json:"workdays"`
	Holidays   []string          `json:"holidays,omitempty"`
	Thresholds *check.Thresholds `json:"thresholds,omitempty"`
}

// checkParams 解析后的请求
type checkParams struct {
	start    *time.Time
	end      *time.Time
	deptName string
	userName string
	workdays []int
	holidays []time.Time
	trigger  string
}

func (s *checkService) MissingDays(ctx context.Context, req *dto.CheckRequest, operator string) (*dto.CheckResult, error) {
	return s.Run(ctx, model.CheckMissingDay, req, operator)
}

func (s *checkService) Overlaps(ctx context.Context, req *dto.CheckRequest, operator string) (*dto.CheckResult, error) {
	return s.Run(ctx, model.CheckOverlap, req, operator)
}

func (s *checkService) Compliance(ctx context.Context, req *dto.CheckRequest, operator string) (*dto.CheckResult, error) {
	return s.Run(ctx, model.CheckCompliance, req, operator)
}

func (s *checkService) HoursReconciliation(ctx context.Context, req *dto.CheckRequest, operator string) (*dto.CheckResult, error) {
	return s.Run(ctx, model.CheckHoursReconciliation, req, operator)
}

// ═══════════════════════════════════════════════════════════
// Run 核对流程：解析范围 → 读取记录 → 纯计算 → 写入核对记录
// ═══════════════════════════════════════════════════════════

func (s *checkService) Run(ctx context.Context, kind model.CheckKind, req *dto.CheckRequest, operator string) (*dto.CheckResult, error) {
	if !kind.Valid() {
		return nil, ErrInvalidCheckKind
	}

	settings, err := s.settings.CheckSettings(ctx)
	if err != nil {
		return nil, err
	}
	p, err := parseCheckRequest(req, settings.Workdays)
	if err != nil {
		return nil, err
	}

	rng, err := s.resolveRange(ctx, p)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.WorkHour.ListInScope(ctx, repository.ScopeFilter{
		Start:    &rng.Start,
		End:      &rng.End,
		DeptName: p.deptName,
		UserName: p.userName,
	})
	if err != nil {
		s.logger.Error("查询核对范围内工时记录失败", zap.Error(err))
		return nil, err
	}

	cfg := checkConfig{
		StartDate: rng.Start.Format(check.DateLayout),
		EndDate:   rng.End.Format(check.DateLayout),
		DeptName:  p.deptName,
		UserName:  p.userName,
		Workdays:  p.workdays,
	}
	for _, h := range p.holidays {
		cfg.Holidays = append(cfg.Holidays, h.Format(check.DateLayout))
	}

	cal := check.NewCalendar(p.workdays, p.holidays)
	var (
		summary     interface{}
		details     interface{}
		preview     interface{}
		detailCount int
	)
	switch kind {
	case model.CheckMissingDay:
		sum, list := check.MissingDays(records, rng, cal)
		summary, details, preview, detailCount = sum, list, dto.Preview(list), len(list)
	case model.CheckOverlap:
		sum, list := check.Overlaps(records, rng, cal)
		summary, details, preview, detailCount = sum, list, dto.Preview(list), len(list)
	case model.CheckCompliance:
		th := thresholdsFor(req, settings.Thresholds)
		cfg.Thresholds = &th
		sum, list := check.Compliance(records, rng, th)
		summary, details, preview, detailCount = sum, list, dto.Preview(list), len(list)
	case model.CheckHoursReconciliation:
		sum, list := check.Reconcile(records, rng, cal)
		summary, details, preview, detailCount = sum, list, dto.Preview(list), len(list)
	}

	run := &model.CheckRun{
		CheckNo:   newSerialNo("CHK", time.Now()),
		Kind:      kind,
		Trigger:   p.trigger,
		StartDate: p.start,
		EndDate:   p.end,
		DeptName:  p.deptName,
		UserName:  p.userName,
		Operator:  operator,
		CheckTime: time.Now(),
	}
	if run.Config, err = model.NewJSONText(cfg); err != nil {
		return nil, err
	}
	if run.Summary, err = model.NewJSONText(summary); err != nil {
		return nil, err
	}
	if run.Details, err = model.NewJSONText(details); err != nil {
		return nil, err
	}

	if err := s.repo.CheckRun.Create(ctx, run); err != nil {
		s.logger.Error("写入核对记录失败", zap.String("kind", string(kind)), zap.Error(err))
		return nil, err
	}

	s.logger.Info("核对完成",
		zap.String("check_no", run.CheckNo),
		zap.String("kind", string(kind)),
		zap.String("range", cfg.StartDate+"~"+cfg.EndDate),
		zap.Int("records", len(records)),
		zap.Int("details", detailCount),
	)

	return &dto.CheckResult{
		CheckNo:     run.CheckNo,
		Kind:        kind,
		CheckTime:   run.CheckTime.Format(time.RFC3339),
		Summary:     summary,
		DetailCount: detailCount,
		Details:     preview,
	}, nil
}

// resolveRange 开放边界取数据集（同样的部门/人员过滤下）最早开始与最晚结束日期
// 数据集为空时开放边界取今天
func (s *checkService) resolveRange(ctx context.Context, p *checkParams) (check.Range, error) {
	var rng check.Range
	if p.start != nil && p.end != nil {
		return check.Range{Start: *p.start, End: *p.end}, nil
	}

	minStart, maxEnd, err := s.repo.WorkHour.DateBounds(ctx, repository.ScopeFilter{
		DeptName: p.deptName,
		UserName: p.userName,
	})
	if err != nil {
		s.logger.Error("查询数据日期范围失败", zap.Error(err))
		return rng, err
	}

	today := dateOnly(time.Now())
	switch {
	case p.start != nil:
		rng.Start = *p.start
	case minStart != nil:
		rng.Start = dateOnly(*minStart)
	default:
		rng.Start = today
	}
	switch {
	case p.end != nil:
		rng.End = *p.end
	case maxEnd != nil:
		rng.End = dateOnly(*maxEnd)
	default:
		rng.End = today
	}

	// 单侧边界落在数据集之外时收拢为单日
	if rng.Start.After(rng.End) {
		if p.start != nil {
			rng.End = rng.Start
		} else {
			rng.Start = rng.End
		}
	}
	return rng, nil
}

func parseCheckRequest(req *dto.CheckRequest, defaultWorkdays []int) (*checkParams, error) {
	p := &checkParams{
		deptName: strings.TrimSpace(req.DeptName),
		userName: strings.TrimSpace(req.UserName),
		trigger:  req.Trigger,
		workdays: req.Workdays,
	}
	if p.trigger == "" {
		p.trigger = model.TriggerManual
	}

	var err error
	if p.start, err = parseOptionalDate(req.StartDate); err != nil {
		return nil, err
	}
	if p.end, err = parseOptionalDate(req.EndDate); err != nil {
		return nil, err
	}
	if p.start != nil && p.end != nil && p.start.After(*p.end) {
		return nil, ErrInvalidDateRange
	}

	if len(p.workdays) == 0 {
		p.workdays = defaultWorkdays
	}
	if len(p.workdays) == 0 {
		p.workdays = check.DefaultWorkdays
	}
	for _, d := range p.workdays {
		if d < 1 || d > 7 {
			return nil, ErrInvalidWorkdays
		}
	}

	for _, h := range req.Holidays {
		d, err := parseOptionalDate(h)
		if err != nil {
			return nil, err
		}
		if d != nil {
			p.holidays = append(p.holidays, *d)
		}
	}
	return p, nil
}

func thresholdsFor(req *dto.CheckRequest, base check.Thresholds) check.Thresholds {
	th := base
	if req.StandardHours != nil {
		th.StandardHours = *req.StandardHours
	}
	if req.MinHours != nil {
		th.MinHours = *req.MinHours
	}
	if req.MaxOvertime != nil {
		th.MaxOvertime = *req.MaxOvertime
	}
	if req.MaxMonthlyOvertime != nil {
		th.MaxMonthlyOvertime = *req.MaxMonthlyOvertime
	}
	return th
}

// ────────────────────── History / Detail ──────────────────────

func (s *checkService) History(ctx context.Context, req *dto.CheckHistoryRequest) ([]dto.CheckRunItem, int64, error) {
	if req.Kind != "" && !model.CheckKind(req.Kind).Valid() {
		return nil, 0, ErrInvalidCheckKind
	}

	runs, total, err := s.repo.CheckRun.List(ctx, req.Kind, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询核对历史失败", zap.Error(err))
		return nil, 0, err
	}

	items := make([]dto.CheckRunItem, 0, len(runs))
	for i := range runs {
		items = append(items, toCheckRunItem(&runs[i]))
	}
	return items, total, nil
}

func (s *checkService) Detail(ctx context.Context, checkNo string) (*dto.CheckRunDetail, error) {
	run, err := s.repo.CheckRun.GetByCheckNo(ctx, checkNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckRunNotFound
		}
		s.logger.Error("查询核对记录失败", zap.String("check_no", checkNo), zap.Error(err))
		return nil, err
	}
	return &dto.CheckRunDetail{
		CheckRunItem: toCheckRunItem(run),
		Config:       run.Config,
		Details:      run.Details,
	}, nil
}

func toCheckRunItem(run *model.CheckRun) dto.CheckRunItem {
	return dto.CheckRunItem{
		CheckNo:   run.CheckNo,
		Kind:      run.Kind,
		Trigger:   run.Trigger,
		StartDate: formatOptionalDate(run.StartDate),
		EndDate:   formatOptionalDate(run.EndDate),
		DeptName:  run.DeptName,
		UserName:  run.UserName,
		Summary:   run.Summary,
		Operator:  run.Operator,
		CheckTime: run.CheckTime.Format(time.RFC3339),
	}
}

// ── 日期工具 ──

func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(check.DateLayout, s)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(check.DateLayout)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
