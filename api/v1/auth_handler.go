package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/service"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/e"
	"github.com/gin-gonic/gin"
)

// AuthHandler 注册/登录
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes 注册认证路由（无需JWT）
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/provider", h.ProviderLogin)
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, token, err := h.authService.Register(ctx, service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		FailService(c, err, e.ERROR_USER_NOT_EXISTS)
		return
	}
	OK(c, gin.H{"user": user, "token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		FailService(c, err, e.ERROR_USER_NOT_EXISTS)
		return
	}
	OK(c, gin.H{"user": user, "token": token})
}

type providerLoginRequest struct {
	ProviderID string `json:"provider_id" binding:"required"`
	Email      string `json:"email"`
	Name       string `json:"name"`
}

// ProviderLogin 外部身份提供方登录（网关侧已完成身份校验）
func (h *AuthHandler) ProviderLogin(c *gin.Context) {
	var req providerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, token, err := h.authService.LoginWithProvider(ctx, req.ProviderID, req.Email, req.Name)
	if err != nil {
		FailService(c, err, e.ERROR_USER_NOT_EXISTS)
		return
	}
	OK(c, gin.H{"user": user, "token": token})
}
