package dto

// ── 系统配置模块 DTO ──

// SysConfigItem 配置项
type SysConfigItem struct {
	ConfigKey   string `json:"config_key"`
	ConfigValue string `json:"config_value"`
	ConfigType  string `json:"config_type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	IsEditable  bool   `json:"is_editable"`
	UpdatedAt   string `json:"updated_at"`
}

// ConfigUpdate 单个配置项更新
type ConfigUpdate struct {
	ConfigKey   string `json:"config_key"   binding:"required,max=100"`
	ConfigValue string `json:"config_value"`
}

// UpdateSysConfigRequest 批量更新配置
type UpdateSysConfigRequest struct {
	Configs []ConfigUpdate `json:"configs" binding:"required,min=1,dive"`
}
