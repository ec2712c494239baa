package model

import "time"

// CartItem 购物车条目
// (user_id, product_id) 唯一：重复加购合并数量而不是新增一行
type CartItem struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"not null;uniqueIndex:uk_cart_user_product" json:"user_id"`
	ProductID  int64     `gorm:"not null;uniqueIndex:uk_cart_user_product" json:"product_id"`
	Quantity   int32     `gorm:"not null;default:1" json:"quantity"`
	CustomNote string    `gorm:"size:500" json:"custom_note"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*CartItem) TableName() string {
	return "cart_items"
}
