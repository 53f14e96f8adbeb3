package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ── TEXT[] 自定义类型 ──

// StringArray 对应 PostgreSQL TEXT[]，实现 GORM Scanner/Valuer 接口。
// sqlite 下以同样的 {"a","b"} 文本形式存储。
type StringArray []string

// GormDBDataType 按方言返回列类型
func (StringArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// Scan 将 {"a","b c"} 文本解析为 []string。
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("StringArray.Scan: unsupported type %T", src)
	}
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return fmt.Errorf("StringArray.Scan: invalid array literal %q", s)
	}
	s = s[1 : len(s)-1]

	arr := StringArray{}
	var cur strings.Builder
	inQuotes, escaped, quoted := false, false, false
	flush := func() {
		v := cur.String()
		if !quoted {
			v = strings.TrimSpace(v)
		}
		arr = append(arr, v)
		cur.Reset()
		quoted = false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			cur.WriteByte(ch)
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"':
			inQuotes = !inQuotes
			quoted = true
		case ch == ',' && !inQuotes:
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	if len(s) > 0 {
		flush()
	}
	*a = arr
	return nil
}

// Value 将 []string 序列化为 {"a","b c"} 文本。
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	parts := make([]string, len(a))
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	for i, s := range a {
		parts[i] = `"` + r.Replace(s) + `"`
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// BaseModel 通用字段（所有业务模型嵌入）
// 主键在应用侧生成，保证 postgres / sqlite 行为一致
type BaseModel struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null"             json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null"             json:"updatedAt"`
}

// BeforeCreate 生成 UUID 主键
func (b *BaseModel) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}
