package service

import (
	"context"
	"net/mail"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/dao"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/utils"
)

type AuthService struct {
	authDao *dao.AuthDao
	jwtUtil *utils.JWTUtil
}

func NewAuthService(authDao *dao.AuthDao, jwtSecret string, jwtExpireHours int) *AuthService {
	return &AuthService{
		authDao: authDao,
		jwtUtil: utils.NewJWTUtil(jwtSecret, jwtExpireHours),
	}
}

// RegisterInput 注册请求
type RegisterInput struct {
	Email          string
	Password       string
	Name           string
	AuthProviderID string
}

// Register 注册新用户，角色固定为customer（管理员走种子数据）
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, "", ErrValidation
	}
	if len(in.Password) < 8 {
		return nil, "", ErrValidation
	}

	// 检查邮箱是否已注册
	exists, err := s.authDao.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrEmailExists
	}

	// 加密密码
	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	newUser := &model.User{
		Email:          in.Email,
		PasswordHash:   passwordHash,
		Name:           in.Name,
		AuthProviderID: in.AuthProviderID,
		Role:           model.RoleCustomer,
	}

	if err := s.authDao.CreateUser(ctx, newUser); err != nil {
		return nil, "", err
	}

	token, err := s.jwtUtil.GenerateToken(newUser.ID, newUser.Email, newUser.Role)
	if err != nil {
		return nil, "", err
	}
	return newUser, token, nil
}

// LoginWithProvider 外部身份登录：已绑定直接登录，首次登录按邮箱建账
func (s *AuthService) LoginWithProvider(ctx context.Context, providerID, email, name string) (*model.User, string, error) {
	if providerID == "" {
		return nil, "", ErrValidation
	}

	user, err := s.authDao.GetUserByProviderID(ctx, providerID)
	if err != nil {
		if !dao.IsNotFound(err) {
			return nil, "", err
		}
		if _, mailErr := mail.ParseAddress(email); mailErr != nil {
			return nil, "", ErrValidation
		}
		// 邮箱已被密码账号占用时拒绝，避免悄悄接管
		exists, err := s.authDao.EmailExists(ctx, email)
		if err != nil {
			return nil, "", err
		}
		if exists {
			return nil, "", ErrEmailExists
		}
		user = &model.User{
			Email:          email,
			Name:           name,
			AuthProviderID: providerID,
			Role:           model.RoleCustomer,
		}
		if err := s.authDao.CreateUser(ctx, user); err != nil {
			return nil, "", err
		}
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login 邮箱密码登录
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	dbUser, err := s.authDao.GetUserByEmail(ctx, email)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, "", ErrBadCredentials
		}
		return nil, "", err
	}

	// 验证密码
	if !utils.CheckPassword(password, dbUser.PasswordHash) {
		return nil, "", ErrBadCredentials
	}

	// 生成 token
	token, err := s.jwtUtil.GenerateToken(dbUser.ID, dbUser.Email, dbUser.Role)
	if err != nil {
		return nil, "", err
	}
	return dbUser, token, nil
}
