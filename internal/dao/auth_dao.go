package dao

import (
	"context"
	"errors"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"gorm.io/gorm"
)

type AuthDao struct {
	db *gorm.DB
}

func NewAuthDao(db *gorm.DB) *AuthDao {
	return &AuthDao{db: db}
}

// EmailExists 检查邮箱是否已注册
func (d *AuthDao) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateUser 创建用户
func (d *AuthDao) CreateUser(ctx context.Context, user *model.User) error {
	return d.db.WithContext(ctx).Create(user).Error
}

// GetUserByEmail 根据邮箱获取用户
func (d *AuthDao) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := d.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByProviderID 根据外部身份标识获取用户
func (d *AuthDao) GetUserByProviderID(ctx context.Context, providerID string) (*model.User, error) {
	if providerID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user model.User
	err := d.db.WithContext(ctx).Where("auth_provider_id = ?", providerID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// IsNotFound gorm未找到记录
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
