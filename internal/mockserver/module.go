package mockserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Module 模拟后端的一组接口
type Module interface {
	// Name 模块名称
	Name() string

	// Description 模块描述
	Description() string

	// RegisterRoutes 在API路由组上注册接口
	// 参数: api 带前缀的路由组, logger 日志器
	// 返回值: error 错误信息
	RegisterRoutes(api *gin.RouterGroup, logger *zap.Logger) error
}

// Modules 默认启用的全部模块
// 参数: store 内存数据, limiter 推送入口限流器，为空时不限流
func Modules(store *Store, limiter Limiter) []Module {
	if limiter == nil {
		limiter = nopLimiter{}
	}
	return []Module{
		&authModule{store: store},
		&userModule{store: store},
		&dictModule{store: store},
		&pushConfigModule{store: store},
		&tagPushModule{store: store},
		&messageModule{store: store, limiter: limiter},
	}
}

// storeError 把存储层错误转换为响应
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		abort(c, http.StatusNotFound, err.Error())
	default:
		fail(c, http.StatusBadRequest, err.Error())
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

// mustUser 取当前用户，只在 AuthMiddleware 之后使用
func mustUser(c *gin.Context) (int64, bool) {
	user, ok := currentUser(c)
	if !ok {
		abort(c, http.StatusUnauthorized, "User not authenticated")
		return 0, false
	}
	return user.ID, true
}
