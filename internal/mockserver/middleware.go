package mockserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vera-byte/vgo-pushctl/pkg/model"
)

const (
	ctxUser  = "user"
	ctxToken = "token"
)

// AuthMiddleware 认证中间件
// 参数: store 内存数据
// 返回值: gin.HandlerFunc 中间件函数
func AuthMiddleware(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取Authorization头
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Missing authorization header")
			return
		}

		// 检查Bearer token格式
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abort(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		user, ok := store.Authenticate(parts[1])
		if !ok {
			abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		// 将用户信息存储到上下文中
		c.Set(ctxUser, user)
		c.Set(ctxToken, parts[1])
		c.Next()
	}
}

// RequireRole 角色权限中间件
// 参数: roles 需要的角色列表，满足其一即可
// 返回值: gin.HandlerFunc 中间件函数
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "User not authenticated")
			return
		}

		for _, role := range roles {
			if user.HasRole(role) {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "Insufficient permissions")
	}
}

func currentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(ctxUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

// abort 以HTTP状态码终止请求
func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, model.APIResponse{Code: status, Message: msg})
}

// succeed 返回业务成功
func succeed(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, model.APIResponse{Code: model.CodeSuccess, Message: msg, Data: data})
}

// fail 返回业务失败，HTTP状态仍为200
func fail(c *gin.Context, code int, msg string) {
	c.JSON(http.StatusOK, model.APIResponse{Code: code, Message: msg})
}
