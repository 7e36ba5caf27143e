package mockserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vera-byte/vgo-pushctl/pkg/model"
	"go.uber.org/zap"
)

type messageModule struct {
	store   *Store
	limiter Limiter
	logger  *zap.Logger
}

func (m *messageModule) Name() string        { return "message" }
func (m *messageModule) Description() string { return "message records and push ingestion" }

func (m *messageModule) RegisterRoutes(api *gin.RouterGroup, logger *zap.Logger) error {
	m.logger = logger

	records := api.Group("/message/record", AuthMiddleware(m.store))
	records.GET("/list", m.list)
	records.GET("/statistics", m.statistics)
	records.GET("/:id", m.get)
	records.GET("/:id/push-records", m.pushRecords)

	// 推送入口使用用户密钥鉴权
	push := api.Group("/message/push")
	push.GET("/health", m.health)

	limited := push.Group("", RateLimit(m.limiter, logger))
	limited.POST("/send", m.send)
	limited.POST("/:userKey", m.pushPost)
	limited.GET("/:userKey", m.pushGet)
	limited.GET("/:userKey/:title", m.pushGet)
	limited.GET("/:userKey/:title/:content", m.pushGet)
	limited.GET("/:userKey/:title/:subtitle/:content", m.pushGet)
	return nil
}

func (m *messageModule) list(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	succeed(c, "", m.store.ListMessages(userID, model.MessageQuery{
		Page:        queryInt(c, "page", 1),
		Size:        queryInt(c, "size", 10),
		MessageType: c.Query("messageType"),
		StartTime:   c.Query("startTime"),
		EndTime:     c.Query("endTime"),
	}))
}

func (m *messageModule) get(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	msg, err := m.store.Message(userID, id)
	if err != nil {
		storeError(c, err)
		return
	}
	succeed(c, "", msg)
}

func (m *messageModule) pushRecords(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	records, err := m.store.PushRecords(userID, id)
	if err != nil {
		storeError(c, err)
		return
	}
	succeed(c, "", records)
}

func (m *messageModule) statistics(c *gin.Context) {
	userID, exists := mustUser(c)
	if !exists {
		return
	}
	days := queryInt(c, "days", 7)
	if days <= 0 {
		days = 7
	}
	succeed(c, "", m.store.Statistics(userID, days))
}

func (m *messageModule) health(c *gin.Context) {
	succeed(c, "", gin.H{"status": "UP", "timestamp": time.Now().Unix()})
}

func (m *messageModule) send(c *gin.Context) {
	var req model.MessagePushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserKey == "" {
		fail(c, http.StatusBadRequest, "userKey is required")
		return
	}
	m.push(c, req)
}

func (m *messageModule) pushPost(c *gin.Context) {
	var req model.MessagePushRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	req.UserKey = c.Param("userKey")
	m.push(c, req)
}

func (m *messageModule) pushGet(c *gin.Context) {
	req := model.MessagePushRequest{
		UserKey:  c.Param("userKey"),
		Title:    c.Param("title"),
		Subtitle: c.Param("subtitle"),
		Content:  c.Param("content"),
		Group:    c.Query("group"),
		URL:      c.Query("url"),
		Level:    c.Query("level"),
		Source:   "bark",
	}
	if body := c.Query("body"); body != "" && req.Content == "" {
		req.Content = body
	}
	if tags := c.Query("tags"); tags != "" {
		req.Tags = strings.Split(tags, ",")
	}
	m.push(c, req)
}

func (m *messageModule) push(c *gin.Context, req model.MessagePushRequest) {
	id, err := m.store.Push(req)
	if err != nil {
		m.logger.Warn("push rejected", zap.Error(err))
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	m.logger.Info("message received", zap.Int64("message_id", id))
	succeed(c, "push successful", gin.H{"messageId": id, "timestamp": time.Now().Unix()})
}
