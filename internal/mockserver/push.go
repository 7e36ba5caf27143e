package mockserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vera-byte/vgo-pushctl/pkg/model"
	"go.uber.org/zap"
)

type pushConfigModule struct {
	store  *Store
	logger *zap.Logger
}

func (m *pushConfigModule) Name() string        { return "push-config" }
func (m *pushConfigModule) Description() string { return "per-user push channel configuration" }

func (m *pushConfigModule) RegisterRoutes(api *gin.RouterGroup, logger *zap.Logger) error {
	m.logger = logger
	g := api.Group("/user/push-config", AuthMiddleware(m.store))
	g.GET("/list", m.list)
	g.GET("/platforms", m.platforms)
	g.GET("/platform/:platform", m.byPlatform)
	g.GET("/:id", m.get)
	g.POST("", m.save(false))
	g.PUT("", m.save(true))
	g.DELETE("/:id", m.delete)
	g.PUT("/:id/toggle", m.toggle)
	g.POST("/:id/test", m.test)
	return nil
}

func (m *pushConfigModule) list(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	succeed(c, "", m.store.PushConfigs(userID, ""))
}

func (m *pushConfigModule) platforms(c *gin.Context) {
	succeed(c, "", SupportedPlatforms)
}

func (m *pushConfigModule) byPlatform(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	succeed(c, "", m.store.PushConfigs(userID, c.Param("platform")))
}

func (m *pushConfigModule) get(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	cfg, err := m.store.PushConfig(userID, id)
	if err != nil {
		storeError(c, err)
		return
	}
	succeed(c, "", cfg)
}

func (m *pushConfigModule) save(update bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := mustUser(c)
		if !exists {
			return
		}
		var cfg model.PushConfig
		if err := c.ShouldBindJSON(&cfg); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if update && cfg.ID == 0 {
			fail(c, http.StatusBadRequest, "id is required")
			return
		}
		if !update {
			cfg.ID = 0
		}
		saved, err := m.store.SavePushConfig(userID, cfg)
		if err != nil {
			storeError(c, err)
			return
		}
		m.logger.Info("push config saved",
			zap.Int64("user_id", userID),
			zap.Int64("id", saved.ID),
			zap.String("platform", saved.Platform))
		succeed(c, saveMessage(update), nil)
	}
}

func (m *pushConfigModule) delete(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := m.store.DeletePushConfig(userID, id); err != nil {
		storeError(c, err)
		return
	}
	succeed(c, "deleted", nil)
}

func (m *pushConfigModule) toggle(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	enabled, err := strconv.ParseBool(c.Query("enabled"))
	if err != nil {
		fail(c, http.StatusBadRequest, "enabled must be true or false")
		return
	}
	if err := m.store.TogglePushConfig(userID, id, enabled); err != nil {
		storeError(c, err)
		return
	}
	if enabled {
		succeed(c, "enabled", nil)
		return
	}
	succeed(c, "disabled", nil)
}

func (m *pushConfigModule) test(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	cfg, err := m.store.TestPushConfig(userID, id)
	if err != nil {
		storeError(c, err)
		return
	}
	m.logger.Info("test push", zap.Int64("id", id), zap.String("platform", cfg.Platform))
	succeed(c, "test message sent via "+cfg.Platform, nil)
}

type tagPushModule struct {
	store *Store
}

func (m *tagPushModule) Name() string        { return "tag-push-config" }
func (m *tagPushModule) Description() string { return "tag based push routing" }

func (m *tagPushModule) RegisterRoutes(api *gin.RouterGroup, logger *zap.Logger) error {
	g := api.Group("/tag-push-config", AuthMiddleware(m.store))
	g.GET("/list", m.list)
	g.GET("/tag-names", m.tagNames)
	g.GET("/user-push-configs", m.userPushConfigs)
	g.POST("/save", m.save)
	g.DELETE("/:id", m.delete)
	return nil
}

func (m *tagPushModule) list(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	succeed(c, "", m.store.TagPushConfigs(userID))
}

func (m *tagPushModule) tagNames(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	succeed(c, "", m.store.TagNames(userID))
}

func (m *tagPushModule) userPushConfigs(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	succeed(c, "", m.store.UserPushConfigs(userID))
}

func (m *tagPushModule) save(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	var t model.TagPushConfig
	if err := c.ShouldBindJSON(&t); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := m.store.SaveTagPushConfig(userID, t); err != nil {
		storeError(c, err)
		return
	}
	succeed(c, "saved", nil)
}

func (m *tagPushModule) delete(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := m.store.DeleteTagPushConfig(userID, id); err != nil {
		storeError(c, err)
		return
	}
	succeed(c, "deleted", nil)
}
