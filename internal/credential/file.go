package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// errCorrupt 凭据文件内容无法解析
var errCorrupt = errors.New("凭据文件已损坏")

// entry 单条凭据记录
type entry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func (e entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// FileStore 基于JSON文件的凭据存储
type FileStore struct {
	// path 凭据文件路径
	path string

	// logger 日志记录器
	logger *zap.Logger

	// clock 时间源
	clock func() time.Time

	// mu 读写锁
	mu sync.Mutex
}

// NewFileStore 创建文件凭据存储
// path: 凭据文件路径
// logger: 日志记录器
// 返回: 文件凭据存储实例
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{
		path:   path,
		logger: logger,
		clock:  time.Now,
	}
}

// Path 返回凭据文件路径
func (s *FileStore) Path() string {
	return s.path
}

// Get 读取凭据
func (s *FileStore) Get(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jar, err := s.load()
	if err != nil {
		return "", err
	}

	e, ok := jar[name]
	if !ok {
		return "", ErrNotFound
	}
	if e.expired(s.clock()) {
		delete(jar, name)
		if err := s.save(jar); err != nil {
			s.logger.Warn("清理过期凭据失败", zap.String("name", name), zap.Error(err))
		}
		return "", ErrNotFound
	}
	return e.Value, nil
}

// Set 写入凭据
func (s *FileStore) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jar, err := s.loadForWrite()
	if err != nil {
		return err
	}

	e := entry{Value: value}
	if ttl > 0 {
		e.ExpiresAt = s.clock().Add(ttl)
	}
	jar[name] = e
	return s.save(jar)
}

// Remove 删除凭据
func (s *FileStore) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jar, err := s.loadForWrite()
	if err != nil {
		return err
	}
	if _, ok := jar[name]; !ok {
		return nil
	}
	delete(jar, name)
	return s.save(jar)
}

// load 读取凭据文件，文件不存在时返回空集合
func (s *FileStore) load() (map[string]entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]entry), nil
		}
		return nil, fmt.Errorf("读取凭据文件失败: %w", err)
	}

	jar := make(map[string]entry)
	if len(data) == 0 {
		return jar, nil
	}
	if err := json.Unmarshal(data, &jar); err != nil {
		return nil, fmt.Errorf("解析凭据文件失败: %w: %w", errCorrupt, err)
	}
	return jar, nil
}

// loadForWrite 写入前读取凭据文件，文件损坏时移到 <path>.corrupt 并从空集合开始
func (s *FileStore) loadForWrite() (map[string]entry, error) {
	jar, err := s.load()
	if !errors.Is(err, errCorrupt) {
		return jar, err
	}

	backup := s.path + ".corrupt"
	if rerr := os.Rename(s.path, backup); rerr != nil {
		return nil, fmt.Errorf("移除损坏的凭据文件失败: %w", rerr)
	}
	s.logger.Warn("凭据文件已损坏，已移到备份并重建",
		zap.String("path", s.path),
		zap.String("backup", backup),
		zap.Error(err))
	return make(map[string]entry), nil
}

// save 写回凭据文件
func (s *FileStore) save(jar map[string]entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("创建凭据目录失败: %w", err)
	}

	data, err := json.MarshalIndent(jar, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化凭据失败: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("写入凭据文件失败: %w", err)
	}
	return nil
}
