package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore Redis实现的凭据存储
type RedisStore struct {
	client *redis.Client
	prefix string // key前缀
}

// NewRedisStore 创建Redis凭据存储
// 参数:
//   - client: Redis客户端
//   - prefix: key前缀
// 返回值:
//   - *RedisStore: Redis凭据存储实例
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "pushctl:credential"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

// Get 读取凭据
func (r *RedisStore) Get(ctx context.Context, name string) (string, error) {
	value, err := r.client.Get(ctx, r.getKey(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set 写入凭据，过期交给Redis TTL处理
func (r *RedisStore) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, r.getKey(name), value, ttl).Err()
}

// Remove 删除凭据
func (r *RedisStore) Remove(ctx context.Context, name string) error {
	return r.client.Del(ctx, r.getKey(name)).Err()
}

// Close 关闭Redis连接
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// getKey 获取完整的key
func (r *RedisStore) getKey(name string) string {
	return fmt.Sprintf("%s:%s", r.prefix, name)
}
