package mockserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vera-byte/vgo-pushctl/internal/config"
	"go.uber.org/zap"
)

// shutdownTimeout 优雅关闭等待时间
const shutdownTimeout = 10 * time.Second

// RouteDetail 路由详细信息
type RouteDetail struct {
	Method  string
	Path    string
	Handler string
}

// Server 模拟推送管理后端
type Server struct {
	cfg     config.MockConfig
	store   *Store
	limiter Limiter
	engine  *gin.Engine
	modules []Module
	logger  *zap.Logger
}

// New 创建模拟后端并注册全部模块
// 参数: cfg 监听配置, store 内存数据, logger 日志器
// 返回值: *Server 服务实例, error 错误信息
func New(cfg config.MockConfig, store *Store, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewStore()
	}

	switch cfg.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	limiter, err := NewLimiter(cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	s := &Server{
		cfg:     cfg,
		store:   store,
		limiter: limiter,
		engine:  engine,
		modules: Modules(store, limiter),
		logger:  logger,
	}

	api := engine.Group("/api")
	for _, m := range s.modules {
		if err := m.RegisterRoutes(api, logger.With(zap.String("module", m.Name()))); err != nil {
			return nil, fmt.Errorf("failed to register routes for module %s: %w", m.Name(), err)
		}
		logger.Debug("Module routes registered", zap.String("name", m.Name()))
	}
	return s, nil
}

// Handler HTTP处理器，测试时配合 httptest 使用
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Store 内存数据
func (s *Server) Store() *Store {
	return s.store
}

// Modules 已注册的模块
func (s *Server) Modules() []Module {
	return s.modules
}

// Routes 获取路由详细信息
func (s *Server) Routes() []RouteDetail {
	routes := s.engine.Routes()
	details := make([]RouteDetail, 0, len(routes))
	for _, route := range routes {
		details = append(details, RouteDetail{
			Method:  route.Method,
			Path:    route.Path,
			Handler: route.Handler,
		})
	}
	return details
}

// Close 释放限流器持有的连接
func (s *Server) Close() error {
	if c, ok := s.limiter.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Run 启动服务，ctx 结束后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	srv := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.engine,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Starting mock server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down mock server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.logger.Info("Mock server exited")
	return nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
