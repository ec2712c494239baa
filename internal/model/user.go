package model

import (
	"time"
)

// 用户角色，后台所有变更接口只认这个字段
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type User struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email          string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PasswordHash   string    `gorm:"size:255;not null" json:"-"`
	Name           string    `gorm:"size:100" json:"name"`
	AuthProviderID string    `gorm:"size:100;index" json:"auth_provider_id"` // 外部身份提供方的用户标识
	Role           string    `gorm:"size:20;not null;default:customer" json:"role"`
	DefaultAddress Address   `gorm:"embedded;embeddedPrefix:addr_" json:"default_address"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
