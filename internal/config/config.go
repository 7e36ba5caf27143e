package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/vera-byte/vgo-pushctl/internal/credential"
	"github.com/vera-byte/vgo-pushctl/pkg/client"
)

// EnvPrefix 环境变量前缀，如 PUSHCTL_SERVER_BASE_URL
const EnvPrefix = "PUSHCTL"

// Config 应用配置结构
type Config struct {
	Server     client.Config     `mapstructure:"server" json:"server"`
	Credential credential.Config `mapstructure:"credential" json:"credential"`
	Log        LogConfig         `mapstructure:"log" json:"log"`
	Mock       MockConfig        `mapstructure:"mock" json:"mock"`
	Output     string            `mapstructure:"output" json:"output"` // table 或 json
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"` // json 或 console
}

// MockConfig 本地模拟后端配置
type MockConfig struct {
	Host string `mapstructure:"host" json:"host"`
	Port string `mapstructure:"port" json:"port"`
	Mode string `mapstructure:"mode" json:"mode"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig 推送入口限流配置
type RateLimitConfig struct {
	Enabled   bool          `mapstructure:"enabled" json:"enabled"`
	Type      string        `mapstructure:"type" json:"type"` // memory 或 redis
	Limit     int           `mapstructure:"limit" json:"limit"`
	Window    time.Duration `mapstructure:"window" json:"window"`
	RedisAddr string        `mapstructure:"redis_addr" json:"redis_addr"`
	RedisDB   int           `mapstructure:"redis_db" json:"redis_db"`
	RedisPass string        `mapstructure:"redis_pass" json:"redis_pass"`
	Prefix    string        `mapstructure:"prefix" json:"prefix"`
}

// Addr 监听地址
func (m MockConfig) Addr() string {
	return m.Host + ":" + m.Port
}

// Load 加载配置文件
// 参数: file 显式指定的配置文件路径，为空时按默认路径搜索
// 返回值: *Config 配置对象, error 错误信息
func Load(file string) (*Config, error) {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "pushctl"))
		}
	}

	setDefaults(v)

	// 读取环境变量
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 如果配置文件不存在，使用默认值
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.api_prefix", "/api")
	v.SetDefault("server.timeout", client.DefaultTimeout)
	v.SetDefault("credential.type", "file")
	v.SetDefault("credential.path", credential.DefaultPath())
	v.SetDefault("credential.redis_addr", "localhost:6379")
	v.SetDefault("credential.redis_db", 0)
	v.SetDefault("credential.redis_pass", "")
	v.SetDefault("credential.prefix", "pushctl:credential")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("mock.host", "127.0.0.1")
	v.SetDefault("mock.port", "8080")
	v.SetDefault("mock.mode", "release")
	v.SetDefault("mock.rate_limit.enabled", true)
	v.SetDefault("mock.rate_limit.type", "memory")
	v.SetDefault("mock.rate_limit.limit", 60)
	v.SetDefault("mock.rate_limit.window", time.Minute)
	v.SetDefault("mock.rate_limit.redis_addr", "localhost:6379")
	v.SetDefault("mock.rate_limit.prefix", "pushctl:ratelimit")
	v.SetDefault("output", "table")
}

// Timeout 请求超时，未配置时使用默认值
func (c *Config) Timeout() time.Duration {
	if c.Server.Timeout <= 0 {
		return client.DefaultTimeout
	}
	return c.Server.Timeout
}
