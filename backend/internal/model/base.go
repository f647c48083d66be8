package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ── JSON 文本列 ──

// JSONList 以 JSON 文本存储的有序列表，实现 GORM Scanner/Valuer 接口。
// 同时兼容 PostgreSQL text/jsonb 与 SQLite text。
type JSONList[T any] []T

// Scan 将数据库中的 JSON 文本解析为列表。
func (l *JSONList[T]) Scan(src interface{}) error {
	b, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("JSONList.Scan: %w", err)
	}
	if len(b) == 0 {
		*l = JSONList[T]{}
		return nil
	}
	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("JSONList.Scan: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	*l = out
	return nil
}

// Value 将列表序列化为 JSON 文本，nil 存为 []。
func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// JSONText 原样保存的 JSON 文本（结构由上层决定）
type JSONText json.RawMessage

// Scan 读取 JSON 文本
func (j *JSONText) Scan(src interface{}) error {
	b, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("JSONText.Scan: %w", err)
	}
	*j = append((*j)[:0], b...)
	return nil
}

// Value 写入 JSON 文本，空值存为 null
func (j JSONText) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "null", nil
	}
	return string(j), nil
}

// MarshalJSON 直接输出原始 JSON
func (j JSONText) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON 保存原始 JSON
func (j *JSONText) UnmarshalJSON(b []byte) error {
	*j = append((*j)[:0], b...)
	return nil
}

// NewJSONText 序列化任意值为 JSONText
func NewJSONText(v interface{}) (JSONText, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return JSONText(b), nil
}

// Decode 将 JSONText 解析到目标结构
func (j JSONText) Decode(v interface{}) error {
	if len(j) == 0 {
		return nil
	}
	return json.Unmarshal(j, v)
}

func jsonBytes(src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", src)
	}
}

// BaseModel 通用审计字段
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
