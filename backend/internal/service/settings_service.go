package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/9dragon/workinghour/backend/internal/check"
	"github.com/9dragon/workinghour/backend/internal/model"
	"github.com/9dragon/workinghour/backend/internal/repository"
	"github.com/9dragon/workinghour/backend/internal/timesheet"
)

// 配置键
const (
	KeyMaxFileSize       = "import.max_file_size"
	KeyMaxRows           = "import.max_rows"
	KeyDuplicateStrategy = "import.duplicate_strategy"
	KeyAcceptedResults   = "import.accepted_results"
	KeyAcceptedStatuses  = "import.accepted_statuses"
	KeyLeaveTypeHeaders  = "import.leave_type_headers"
	KeyLeaveHoursHeaders = "import.leave_hours_headers"

	KeyStandardHours      = "check.standard_hours"
	KeyMinHours           = "check.min_hours"
	KeyMaxOvertime        = "check.max_overtime"
	KeyMaxMonthlyOvertime = "check.max_monthly_overtime"
	KeyWorkdays           = "check.workdays"

	KeySystemName = "system.name"
)

// DefaultConfigs 启动时补齐的默认配置
// 工时单按周填报，时长阈值以单张工时单为口径
func DefaultConfigs() []model.SysConfig {
	return []model.SysConfig{
		{ConfigKey: KeyMaxFileSize, ConfigValue: "10", ConfigType: model.ConfigTypeNumber, Category: "import", Description: "单次导入最大文件大小(MB)", IsEditable: true},
		{ConfigKey: KeyMaxRows, ConfigValue: "1000", ConfigType: model.ConfigTypeNumber, Category: "import", Description: "单次导入最大行数", IsEditable: true},
		{ConfigKey: KeyDuplicateStrategy, ConfigValue: "skip", ConfigType: model.ConfigTypeString, Category: "import", Description: "重复数据处理策略(skip/overwrite)", IsEditable: true},
		{ConfigKey: KeyAcceptedResults, ConfigValue: `["通过","审批通过"]`, ConfigType: model.ConfigTypeJSON, Category: "import", Description: "允许导入的审批结果", IsEditable: true},
		{ConfigKey: KeyAcceptedStatuses, ConfigValue: `["已完成","已结束"]`, ConfigType: model.ConfigTypeJSON, Category: "import", Description: "允许导入的审批状态", IsEditable: true},
		{ConfigKey: KeyLeaveTypeHeaders, ConfigValue: `["请假类别","请假类型"]`, ConfigType: model.ConfigTypeJSON, Category: "import", Description: "请假类别列的表头写法", IsEditable: true},
		{ConfigKey: KeyLeaveHoursHeaders, ConfigValue: `["请假时长","请假时长(小时)","请假小时数"]`, ConfigType: model.ConfigTypeJSON, Category: "import", Description: "请假时长列的表头写法", IsEditable: true},
		{ConfigKey: KeyStandardHours, ConfigValue: "40", ConfigType: model.ConfigTypeNumber, Category: "check", Description: "单张工时单标准工作时长(小时)", IsEditable: true},
		{ConfigKey: KeyMinHours, ConfigValue: "8", ConfigType: model.ConfigTypeNumber, Category: "check", Description: "单张工时单最小工作时长(小时)", IsEditable: true},
		{ConfigKey: KeyMaxOvertime, ConfigValue: "20", ConfigType: model.ConfigTypeNumber, Category: "check", Description: "单张工时单最大加班时长(小时)", IsEditable: true},
		{ConfigKey: KeyMaxMonthlyOvertime, ConfigValue: "80", ConfigType: model.ConfigTypeNumber, Category: "check", Description: "月度最大加班时长(小时)", IsEditable: true},
		{ConfigKey: KeyWorkdays, ConfigValue: "[1,2,3,4,5]", ConfigType: model.ConfigTypeJSON, Category: "check", Description: "标准工作日(1-7,周一到周日)", IsEditable: true},
		{ConfigKey: KeySystemName, ConfigValue: "工时数据核对系统", ConfigType: model.ConfigTypeString, Category: "system", Description: "系统名称", IsEditable: false},
	}
}

// ImportSettings 一次导入使用的配置快照
type ImportSettings struct {
	MaxFileSize     int64 // 字节
	MaxRows         int
	DuplicatePolicy model.DuplicatePolicy
	Rules           timesheet.Rules
	Aliases         timesheet.Aliases
}

// CheckSettings 一次核对使用的配置快照
type CheckSettings struct {
	Thresholds check.Thresholds
	Workdays   []int
}

// SettingsService 从 sys_config 读取类型化配置，每次请求读取一次
type SettingsService interface {
	EnsureDefaults(ctx context.Context) error
	ImportSettings(ctx context.Context) (*ImportSettings, error)
	CheckSettings(ctx context.Context) (*CheckSettings, error)
}

type settingsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSettingsService 创建 SettingsService 实例
func NewSettingsService(repo *repository.Repository, logger *zap.Logger) SettingsService {
	return &settingsService{repo: repo, logger: logger}
}

func (s *settingsService) EnsureDefaults(ctx context.Context) error {
	if err := s.repo.SysConfig.EnsureDefaults(ctx, DefaultConfigs()); err != nil {
		s.logger.Error("写入默认配置失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *settingsService) ImportSettings(ctx context.Context) (*ImportSettings, error) {
	v, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	policy, ok := model.ParseDuplicatePolicy(v.text(KeyDuplicateStrategy), model.DuplicateSkip)
	if !ok {
		s.logger.Warn("配置值无效，使用默认值", zap.String("key", KeyDuplicateStrategy))
		policy = model.DuplicateSkip
	}

	return &ImportSettings{
		MaxFileSize:     int64(v.number(KeyMaxFileSize) * (1 << 20)),
		MaxRows:         int(v.number(KeyMaxRows)),
		DuplicatePolicy: policy,
		Rules: timesheet.Rules{
			AcceptedResults:  v.list(KeyAcceptedResults),
			AcceptedStatuses: v.list(KeyAcceptedStatuses),
		},
		Aliases: timesheet.NewAliases(v.list(KeyLeaveTypeHeaders), v.list(KeyLeaveHoursHeaders)),
	}, nil
}

func (s *settingsService) CheckSettings(ctx context.Context) (*CheckSettings, error) {
	v, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &CheckSettings{
		Thresholds: check.Thresholds{
			StandardHours:      v.number(KeyStandardHours),
			MinHours:           v.number(KeyMinHours),
			MaxOvertime:        v.number(KeyMaxOvertime),
			MaxMonthlyOvertime: v.number(KeyMaxMonthlyOvertime),
		},
		Workdays: v.ints(KeyWorkdays),
	}, nil
}

// ────────────────────── 取值 ──────────────────────

// configValues 已入库值优先，缺失或无法解析时回落到默认值
type configValues struct {
	stored   map[string]string
	defaults map[string]string
	logger   *zap.Logger
}

func (s *settingsService) load(ctx context.Context) (*configValues, error) {
	configs, err := s.repo.SysConfig.List(ctx, "")
	if err != nil {
		s.logger.Error("读取系统配置失败", zap.Error(err))
		return nil, err
	}
	v := &configValues{
		stored:   make(map[string]string, len(configs)),
		defaults: make(map[string]string),
		logger:   s.logger,
	}
	for _, c := range configs {
		v.stored[c.ConfigKey] = c.ConfigValue
	}
	for _, c := range DefaultConfigs() {
		v.defaults[c.ConfigKey] = c.ConfigValue
	}
	return v, nil
}

func (v *configValues) text(key string) string {
	if raw, ok := v.stored[key]; ok && strings.TrimSpace(raw) != "" {
		return strings.TrimSpace(raw)
	}
	return v.defaults[key]
}

func (v *configValues) number(key string) float64 {
	if raw, ok := v.stored[key]; ok {
		if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && n >= 0 {
			return n
		}
		v.logger.Warn("配置值无效，使用默认值", zap.String("key", key), zap.String("value", raw))
	}
	n, _ := strconv.ParseFloat(v.defaults[key], 64)
	return n
}

func (v *configValues) list(key string) []string {
	var out []string
	if raw, ok := v.stored[key]; ok {
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			return out
		}
		v.logger.Warn("配置值无效，使用默认值", zap.String("key", key), zap.String("value", raw))
	}
	_ = json.Unmarshal([]byte(v.defaults[key]), &out)
	return out
}

func (v *configValues) ints(key string) []int {
	var out []int
	if raw, ok := v.stored[key]; ok {
		if err := json.Unmarshal([]byte(raw), &out); err == nil && len(out) > 0 {
			return out
		}
		v.logger.Warn("配置值无效，使用默认值", zap.String("key", key), zap.String("value", raw))
	}
	_ = json.Unmarshal([]byte(v.defaults[key]), &out)
	return out
}
