// Package credential 持久化客户端凭据（登录令牌等），相当于浏览器中的 cookie。
package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrNotFound 凭据不存在或已过期
var ErrNotFound = errors.New("credential not found")

// Store 凭据存储接口
type Store interface {
	// Get 读取凭据，不存在或过期时返回 ErrNotFound
	Get(ctx context.Context, name string) (string, error)
	// Set 写入凭据，ttl<=0 表示不过期
	Set(ctx context.Context, name, value string, ttl time.Duration) error
	// Remove 删除凭据，不存在时不报错
	Remove(ctx context.Context, name string) error
}

// Config 凭据存储配置
type Config struct {
	Type      string `mapstructure:"type" json:"type"` // file, redis 或 memory
	Path      string `mapstructure:"path" json:"path"`
	RedisAddr string `mapstructure:"redis_addr" json:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db" json:"redis_db"`
	RedisPass string `mapstructure:"redis_pass" json:"redis_pass"`
	Prefix    string `mapstructure:"prefix" json:"prefix"`
}

// NewStore 根据配置创建凭据存储
// 参数: cfg 凭据配置, logger 日志器
// 返回值: Store 存储实例, error 错误信息
func NewStore(cfg Config, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Type {
	case "", "file":
		path := cfg.Path
		if path == "" {
			path = DefaultPath()
		}
		return NewFileStore(path, logger), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			DB:       cfg.RedisDB,
			Password: cfg.RedisPass,
		})
		return NewRedisStore(client, cfg.Prefix), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported credential store type: %s", cfg.Type)
	}
}

// DefaultPath 默认的凭据文件路径
func DefaultPath() string {
	if dir := os.Getenv("PUSHCTL_CREDENTIAL_DIR"); dir != "" {
		return filepath.Join(dir, "credentials.json")
	}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "pushctl", "credentials.json")
	}
	return filepath.Join(os.TempDir(), "pushctl", "credentials.json")
}
