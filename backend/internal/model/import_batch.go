package model

import "time"

// DuplicatePolicy 重复数据处理策略
type DuplicatePolicy string

const (
	DuplicateSkip      DuplicatePolicy = "skip"
	DuplicateOverwrite DuplicatePolicy = "overwrite"
)

// ParseDuplicatePolicy 解析策略，cover 为 overwrite 的别名；空值返回 fallback
func ParseDuplicatePolicy(s string, fallback DuplicatePolicy) (DuplicatePolicy, bool) {
	switch s {
	case "":
		return fallback, true
	case "skip":
		return DuplicateSkip, true
	case "overwrite", "cover":
		return DuplicateOverwrite, true
	}
	return "", false
}

// RowDiagnostic 行级诊断（错误或重复提示）
// Row 为工作表中的实际行号（从 1 开始，含表头）
type RowDiagnostic struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Error string `json:"error"`
}

// ImportBatch 导入批次，对应 import_batches，创建后不再修改
type ImportBatch struct {
	ID              uint64                  `gorm:"primaryKey;autoIncrement"         json:"id"`
	BatchNo         string                  `gorm:"type:varchar(40);not null;uniqueIndex" json:"batch_no"`
	FileName        string                  `gorm:"type:varchar(255);not null"       json:"file_name"`
	FileSize        int64                   `gorm:"not null;default:0"               json:"file_size"`
	TotalRows       int                     `gorm:"not null;default:0"               json:"total_rows"`
	SuccessRows     int                     `gorm:"not null;default:0"               json:"success_rows"`
	DuplicateRows   int                     `gorm:"not null;default:0"               json:"duplicate_rows"`
	InvalidRows     int                     `gorm:"not null;default:0"               json:"invalid_rows"`
	DuplicatePolicy DuplicatePolicy         `gorm:"type:varchar(16);not null"        json:"duplicate_policy"`
	Operator        string                  `gorm:"type:varchar(100)"                json:"operator"`
	ImportTime      time.Time               `gorm:"not null;index"                   json:"import_time"`
	Errors          JSONList[RowDiagnostic] `gorm:"type:text"                        json:"errors"`
	Duplicates      JSONList[RowDiagnostic] `gorm:"type:text"                        json:"duplicates"`
	ArchiveKey      string                  `gorm:"type:varchar(500)"                json:"archive_key,omitempty"`
	CreatedAt       time.Time               `gorm:"not null"                         json:"created_at"`
}

// TableName 指定表名
func (ImportBatch) TableName() string { return "import_batches" }
