package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringList JSON数组列（图片URL、标签）
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported column type for StringList")
}

// Product 商品模型
// 库存只允许被订单引擎扣减/回补，或后台直接调整
type Product struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string     `gorm:"size:100;not null" json:"name"`
	Slug            string     `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Description     string     `gorm:"type:text" json:"description"`
	Price           int64      `gorm:"not null" json:"price"`                // 最小货币单位（分）
	CompareAtPrice  *int64     `gorm:"default:null" json:"compare_at_price"` // 划线价，存在时必须大于Price
	CategoryID      int64      `gorm:"not null;index" json:"category_id"`
	Images          StringList `gorm:"type:json" json:"images"` // 有序图片URL列表
	Inventory       int32      `gorm:"not null;default:0" json:"inventory"`
	IsActive        bool       `gorm:"not null;default:true" json:"is_active"`
	Tags            StringList `gorm:"type:json" json:"tags"`
	AllowCustomNote bool       `gorm:"not null;default:false" json:"allow_custom_note"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*Product) TableName() string {
	return "products"
}

// FirstImage 商品主图（下单快照用）
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
