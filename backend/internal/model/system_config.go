package model

// 配置值类型
const (
	ConfigTypeString  = "string"
	ConfigTypeNumber  = "number"
	ConfigTypeBoolean = "boolean"
	ConfigTypeJSON    = "json"
)

// SysConfig 系统配置表，对应 sys_config（键值存储）
type SysConfig struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"               json:"id"`
	ConfigKey   string `gorm:"type:varchar(100);not null;uniqueIndex" json:"config_key"`
	ConfigValue string `gorm:"type:text"                              json:"config_value"`
	ConfigType  string `gorm:"type:varchar(16);not null;default:'string'" json:"config_type"`
	Category    string `gorm:"type:varchar(32);not null;index"        json:"category"`
	Description string `gorm:"type:varchar(255)"                      json:"description"`
	IsEditable  bool   `gorm:"not null"                               json:"is_editable"`
	BaseModel
}

// TableName 指定表名
func (SysConfig) TableName() string { return "sys_config" }

// AllModels 需要建表的全部模型（SQLite AutoMigrate 使用）
func AllModels() []interface{} {
	return []interface{}{
		&WorkHourRecord{},
		&ImportBatch{},
		&CheckRun{},
		&SysConfig{},
	}
}
