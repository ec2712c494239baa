package middleware

import (
	"net/http"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/e"
	"github.com/gin-gonic/gin"
)

// RequireAdmin 角色门禁，所有后台变更接口统一挂这个中间件
// 必须在 JWTAuthMiddleware 之后使用
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("user_role") != model.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    e.ERROR_FORBIDDEN,
				"message": e.GetMsg(e.ERROR_FORBIDDEN),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
