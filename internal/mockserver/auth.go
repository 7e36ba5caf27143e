package mockserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vera-byte/vgo-pushctl/pkg/model"
	"go.uber.org/zap"
)

// tokenTTL 令牌有效期（秒），与客户端凭据有效期一致
const tokenTTL = 7 * 24 * 3600

type authModule struct {
	store  *Store
	logger *zap.Logger
}

func (m *authModule) Name() string        { return "auth" }
func (m *authModule) Description() string { return "login and logout" }

func (m *authModule) RegisterRoutes(api *gin.RouterGroup, logger *zap.Logger) error {
	m.logger = logger
	g := api.Group("/auth")
	g.POST("/login", m.login)
	g.POST("/logout", AuthMiddleware(m.store), m.logout)
	return nil
}

func (m *authModule) login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "username and password are required")
		return
	}

	token, user, err := m.store.Login(req.Username, req.Password)
	if err != nil {
		m.logger.Info("login rejected", zap.String("username", req.Username))
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	m.logger.Info("login", zap.String("username", user.Username))
	succeed(c, "login successful", model.LoginResponse{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		Nickname:  user.Nickname,
		Email:     user.Email,
		Avatar:    user.Avatar,
		UserKey:   user.UserKey,
		Roles:     user.Roles,
		ExpiresIn: tokenTTL,
	})
}

func (m *authModule) logout(c *gin.Context) {
	m.store.Revoke(c.GetString(ctxToken))
	succeed(c, "logged out", nil)
}

type userModule struct {
	store *Store
}

func (m *userModule) Name() string        { return "user" }
func (m *userModule) Description() string { return "current user profile and keys" }

func (m *userModule) RegisterRoutes(api *gin.RouterGroup, logger *zap.Logger) error {
	g := api.Group("/user", AuthMiddleware(m.store))
	g.GET("/current", m.current)
	g.POST("/change-password", m.changePassword)
	g.POST("/reset-user-key", m.resetUserKey)
	return nil
}

func (m *userModule) current(c *gin.Context) {
	user, exists := currentUser(c)
	if !exists {
		abort(c, http.StatusUnauthorized, "User not authenticated")
		return
	}
	succeed(c, "", user)
}

func (m *userModule) changePassword(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := m.store.ChangePassword(userID, req.CurrentPassword, req.NewPassword, c.GetString(ctxToken)); err != nil {
		storeError(c, err)
		return
	}
	succeed(c, "password changed", nil)
}

func (m *userModule) resetUserKey(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	key, err := m.store.ResetUserKey(userID)
	if err != nil {
		storeError(c, err)
		return
	}
	succeed(c, "user key reset", key)
}
