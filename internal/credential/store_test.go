package credential

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreSetGetRemove(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	s := NewFileStore(path, nil)

	_, err := s.Get(ctx, "token")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "token", "T", 7*24*time.Hour))
	got, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "T", got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// a second store over the same file sees the value
	again := NewFileStore(path, nil)
	got, err = again.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "T", got)

	require.NoError(t, s.Remove(ctx, "token"))
	_, err = again.Get(ctx, "token")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Remove(ctx, "token"))
}

func TestFileStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"), nil)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.clock = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "token", "T", time.Hour))
	now = now.Add(59 * time.Minute)
	_, err := s.Get(ctx, "token")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = s.Get(ctx, "token")
	require.ErrorIs(t, err, ErrNotFound)

	jar, err := s.load()
	require.NoError(t, err)
	assert.NotContains(t, jar, "token")
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	ctx := context.Background()
	fs := NewFileStore(path, nil)
	_, err := fs.Get(ctx, "token")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	// 写入时丢弃损坏内容
	require.NoError(t, fs.Set(ctx, "token", "T", time.Hour))
	got, err := fs.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "T", got)

	backup, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))
}

func TestFileStoreRemoveOnCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	ctx := context.Background()
	fs := NewFileStore(path, nil)
	require.NoError(t, fs.Remove(ctx, "token"))

	_, err := fs.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	now := time.Now()
	m.clock = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "token", "T", time.Minute))
	require.NoError(t, m.Set(ctx, "forever", "F", 0))

	got, err := m.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "T", got)

	now = now.Add(2 * time.Minute)
	_, err = m.Get(ctx, "token")
	require.ErrorIs(t, err, ErrNotFound)

	got, err = m.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "F", got)

	require.NoError(t, m.Remove(ctx, "forever"))
	_, err = m.Get(ctx, "forever")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewStore(t *testing.T) {
	s, err := NewStore(Config{Type: "memory"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	path := filepath.Join(t.TempDir(), "c.json")
	s, err = NewStore(Config{Type: "file", Path: path}, nil)
	require.NoError(t, err)
	require.IsType(t, &FileStore{}, s)
	assert.Equal(t, path, s.(*FileStore).Path())

	s, err = NewStore(Config{Type: "redis", RedisAddr: "127.0.0.1:0"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)

	_, err = NewStore(Config{Type: "etcd"}, nil)
	require.Error(t, err)
}

func TestDefaultPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PUSHCTL_CREDENTIAL_DIR", dir)
	assert.Equal(t, filepath.Join(dir, "credentials.json"), DefaultPath())
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("PUSHCTL_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PUSHCTL_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	s := NewRedisStore(client, "pushctl-test")
	defer s.Close()

	require.NoError(t, s.Set(ctx, "token", "T", time.Minute))
	got, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "T", got)

	ttl, err := client.TTL(ctx, "pushctl-test:token").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, s.Remove(ctx, "token"))
	_, err = s.Get(ctx, "token")
	require.ErrorIs(t, err, ErrNotFound)
}
