package mockserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vera-byte/vgo-pushctl/pkg/model"
	"go.uber.org/zap"
)

type dictModule struct {
	store  *Store
	logger *zap.Logger
}

func (m *dictModule) Name() string        { return "dict" }
func (m *dictModule) Description() string { return "dictionary management (admin only)" }

func (m *dictModule) RegisterRoutes(api *gin.RouterGroup, logger *zap.Logger) error {
	m.logger = logger
	g := api.Group("/dict", AuthMiddleware(m.store), RequireRole(model.RoleAdmin))

	g.GET("/type/list", m.listTypes)
	g.GET("/type/:id", m.getType)
	g.POST("/type", m.saveType(false))
	g.PUT("/type", m.saveType(true))
	g.DELETE("/type/:id", m.deleteType)

	g.GET("/data/list", m.listData)
	g.GET("/data/type/:dictType", m.dataByType)
	g.GET("/data/label", m.label)
	g.GET("/data/:id", m.getData)
	g.POST("/data", m.saveData(false))
	g.PUT("/data", m.saveData(true))
	g.DELETE("/data/:id", m.deleteData)
	return nil
}

func (m *dictModule) listTypes(c *gin.Context) {
	succeed(c, "", m.store.ListDictTypes(model.DictTypeQuery{
		PageNum:  queryInt(c, "pageNum", 1),
		PageSize: queryInt(c, "pageSize", 10),
		DictName: c.Query("dictName"),
		DictType: c.Query("dictType"),
	}))
}

func (m *dictModule) getType(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	t, err := m.store.DictType(id)
	if err != nil {
		storeError(c, err)
		return
	}
	succeed(c, "", t)
}

func (m *dictModule) saveType(update bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var t model.DictType
		if err := c.ShouldBindJSON(&t); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if update && t.ID == 0 {
			fail(c, http.StatusBadRequest, "id is required")
			return
		}
		if !update {
			t.ID = 0
		}
		saved, err := m.store.SaveDictType(t)
		if err != nil {
			storeError(c, err)
			return
		}
		m.logger.Info("dict type saved", zap.Int64("id", saved.ID), zap.String("type", saved.DictType))
		succeed(c, saveMessage(update), nil)
	}
}

func (m *dictModule) deleteType(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := m.store.DeleteDictType(id); err != nil {
		storeError(c, err)
		return
	}
	succeed(c, "deleted", nil)
}

func (m *dictModule) listData(c *gin.Context) {
	succeed(c, "", m.store.ListDictData(model.DictDataQuery{
		PageNum:   queryInt(c, "pageNum", 1),
		PageSize:  queryInt(c, "pageSize", 10),
		DictType:  c.Query("dictType"),
		DictLabel: c.Query("dictLabel"),
	}))
}

func (m *dictModule) dataByType(c *gin.Context) {
	succeed(c, "", m.store.DictDataByType(c.Param("dictType")))
}

func (m *dictModule) label(c *gin.Context) {
	succeed(c, "", m.store.DictLabel(c.Query("dictType"), c.Query("dictValue")))
}

func (m *dictModule) getData(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	d, err := m.store.DictData(id)
	if err != nil {
		storeError(c, err)
		return
	}
	succeed(c, "", d)
}

func (m *dictModule) saveData(update bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var d model.DictData
		if err := c.ShouldBindJSON(&d); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if update && d.ID == 0 {
			fail(c, http.StatusBadRequest, "id is required")
			return
		}
		if !update {
			d.ID = 0
		}
		saved, err := m.store.SaveDictData(d)
		if err != nil {
			storeError(c, err)
			return
		}
		m.logger.Info("dict data saved", zap.Int64("id", saved.ID), zap.String("type", saved.DictType))
		succeed(c, saveMessage(update), nil)
	}
}

func (m *dictModule) deleteData(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := m.store.DeleteDictData(id); err != nil {
		storeError(c, err)
		return
	}
	succeed(c, "deleted", nil)
}

func saveMessage(update bool) string {
	if update {
		return "updated"
	}
	return "created"
}
