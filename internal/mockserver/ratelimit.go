package mockserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/vera-byte/vgo-pushctl/internal/config"
	"go.uber.org/zap"
)

// MsgRateLimited 推送过于频繁时的提示
const MsgRateLimited = "too many push requests, please retry later"

// Limiter 推送入口限流器
type Limiter interface {
	// Allow 记录一次请求并判断是否放行
	// 参数: ctx 上下文, key 限流key
	// 返回值: bool 是否放行, int 窗口内剩余次数, error 错误信息
	Allow(ctx context.Context, key string) (bool, int, error)
}

// NewLimiter 按配置创建限流器，未启用时返回不限流的实现
func NewLimiter(cfg config.RateLimitConfig) (Limiter, error) {
	if !cfg.Enabled {
		return nopLimiter{}, nil
	}
	if cfg.Limit <= 0 || cfg.Window <= 0 {
		return nil, fmt.Errorf("invalid rate limit: %d per %s", cfg.Limit, cfg.Window)
	}

	switch cfg.Type {
	case "", "memory":
		return NewMemoryLimiter(cfg.Limit, cfg.Window), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			DB:       cfg.RedisDB,
			Password: cfg.RedisPass,
		})
		return NewRedisLimiter(client, cfg.Limit, cfg.Window, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("unsupported rate limiter type: %s", cfg.Type)
	}
}

type nopLimiter struct{}

func (nopLimiter) Allow(context.Context, string) (bool, int, error) { return true, -1, nil }

// MemoryLimiter 进程内滑动窗口限流
type MemoryLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	now       func() time.Time
	requests  map[string][]time.Time
	lastSweep time.Time
}

// NewMemoryLimiter 创建内存限流器
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:    limit,
		window:   window,
		now:      time.Now,
		requests: make(map[string][]time.Time),
	}
}

// Allow 实现 Limiter
func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	start := now.Add(-m.window)
	m.sweep(now, start)

	kept := m.requests[key][:0]
	for _, t := range m.requests[key] {
		if t.After(start) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= m.limit {
		m.requests[key] = kept
		return false, 0, nil
	}
	m.requests[key] = append(kept, now)
	return true, m.limit - len(kept) - 1, nil
}

// sweep 每个窗口最多一次，删除窗口内已无请求的key
func (m *MemoryLimiter) sweep(now, start time.Time) {
	if now.Sub(m.lastSweep) < m.window {
		return
	}
	m.lastSweep = now
	for key, times := range m.requests {
		if len(times) == 0 || !times[len(times)-1].After(start) {
			delete(m.requests, key)
		}
	}
}

// allowScript 在有序集合上做滑动窗口计数，保证原子性
var allowScript = redis.NewScript(`
local key = KEYS[1]
local window_start = tonumber(ARGV[1])
local now = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])
local member = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, 0, window_start)
local current = redis.call('ZCARD', key)
if current >= limit then
	return {0, 0}
end
redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, ttl)
return {1, limit - current - 1}
`)

// RedisLimiter 基于Redis的滑动窗口限流，多实例共享计数
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	seq    uint64
	mu     sync.Mutex
}

// NewRedisLimiter 创建Redis限流器
// 参数:
//   - client: Redis客户端
//   - limit: 窗口内允许的请求数
//   - window: 时间窗口
//   - prefix: key前缀
//
// 返回值:
//   - *RedisLimiter: 限流器实例
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window, prefix: prefix}
}

// Allow 实现 Limiter
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	now := time.Now().UnixMilli()
	r.mu.Lock()
	r.seq++
	member := strconv.FormatInt(now, 10) + "-" + strconv.FormatUint(r.seq, 10)
	r.mu.Unlock()

	res, err := allowScript.Run(ctx, r.client, []string{r.prefix + ":" + key},
		now-r.window.Milliseconds(), now, r.limit, r.window.Milliseconds(), member).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("rate limit %s: unexpected script result %v", key, res)
	}
	return res[0] == 1, int(res[1]), nil
}

// Close 关闭Redis连接
func (r *RedisLimiter) Close() error {
	return r.client.Close()
}

// pushKey 推送请求按用户密钥限流，没有密钥时按客户端IP
func pushKey(c *gin.Context) string {
	if key := c.Param("userKey"); key != "" {
		return "push:" + key
	}
	return "push:ip:" + c.ClientIP()
}

// RateLimit 限流中间件，超过限制返回 429
func RateLimit(limiter Limiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := pushKey(c)
		allowed, remaining, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// 限流器故障时放行
			logger.Warn("Rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}
		if !allowed {
			abort(c, http.StatusTooManyRequests, MsgRateLimited)
			return
		}
		c.Next()
	}
}
