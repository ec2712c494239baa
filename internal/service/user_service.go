package service

import (
	"context"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/dao"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/utils"
)

type UserService struct {
	userDao *dao.UserDao
}

func NewUserService(userDao *dao.UserDao) *UserService {
	return &UserService{userDao: userDao}
}

// ChangePassword 校验旧密码后更新
func (s *UserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrValidation
	}
	user, err := s.userDao.GetUserByID(ctx, userID)
	if err != nil {
		if dao.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	if !utils.CheckPassword(oldPassword, user.PasswordHash) {
		return ErrBadCredentials
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userDao.UpdateUserPassword(ctx, userID, hash)
}

// GetProfile 获取用户资料
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userDao.GetUserByID(ctx, userID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile 更新姓名与默认收货地址
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, name string, address *model.Address) error {
	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if address != nil {
		updates["addr_full_name"] = address.FullName
		updates["addr_phone"] = address.Phone
		updates["addr_line1"] = address.Line1
		updates["addr_line2"] = address.Line2
		updates["addr_city"] = address.City
		updates["addr_state"] = address.State
		updates["addr_postal_code"] = address.PostalCode
		updates["addr_country"] = address.Country
	}
	if len(updates) == 0 {
		return ErrValidation
	}
	return s.userDao.UpdateUser(ctx, userID, updates)
}
