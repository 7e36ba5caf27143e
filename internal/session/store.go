// Package session 保存当前操作员的登录状态。
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/vera-byte/vgo-pushctl/internal/credential"
	"github.com/vera-byte/vgo-pushctl/pkg/client"
	"github.com/vera-byte/vgo-pushctl/pkg/model"

	"go.uber.org/zap"
)

// 会话提示
const (
	MsgLoginSuccess = "login successful"
	MsgLoginFailed  = "login failed"
	MsgLoggedOut    = "logged out"
)

// AuthAPI 会话依赖的认证接口
type AuthAPI interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*model.User, error)
}

// Notifier 提示输出接口
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Store 会话状态，只能通过自身方法修改
//
// 不变量: currentUser 非空时 token 一定非空
type Store struct {
	api         AuthAPI
	quiet       AuthAPI
	credentials credential.Store
	notifier    Notifier
	logger      *zap.Logger

	mu          sync.RWMutex
	token       string
	currentUser *model.User
	loading     bool
}

// Option 会话选项
type Option func(*Store)

// WithQuietAPI 设置登出和恢复会话使用的静默接口（失败不提示）
func WithQuietAPI(api AuthAPI) Option {
	return func(s *Store) { s.quiet = api }
}

// WithNotifier 设置提示输出
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithLogger 设置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New 创建会话，令牌从凭据存储中恢复
// 参数: ctx 上下文, api 认证接口, credentials 凭据存储, opts 可选项
// 返回值: *Store 会话实例
func New(ctx context.Context, api AuthAPI, credentials credential.Store, opts ...Option) *Store {
	s := &Store{
		api:         api,
		credentials: credentials,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.quiet == nil {
		s.quiet = api
	}
	s.logger = s.logger.With(zap.String("component", "session"))

	token, err := credentials.Get(ctx, client.TokenName)
	switch {
	case err == nil:
		s.token = token
	case !errors.Is(err, credential.ErrNotFound):
		s.logger.Warn("读取登录令牌失败", zap.Error(err))
	}
	return s
}

// Token 当前令牌
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUser 当前用户信息的拷贝，未获取时为nil
func (s *Store) CurrentUser() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser.Clone()
}

// Loading 是否正在登录
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsAuthenticated 是否已登录
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// IsAdmin 当前用户是否拥有管理员角色
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser.HasRole(model.RoleAdmin)
}

// Login 登录并保存令牌和用户信息
func (s *Store) Login(ctx context.Context, req model.LoginRequest) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		s.notifyFailure(err)
		return err
	}

	if err := s.credentials.Set(ctx, client.TokenName, resp.Token, client.TokenTTL); err != nil {
		s.logger.Warn("保存登录令牌失败", zap.Error(err))
		s.notifyFailure(err)
		return err
	}

	s.mu.Lock()
	s.token = resp.Token
	s.currentUser = resp.User()
	s.mu.Unlock()

	s.logger.Info("登录成功", zap.String("username", resp.Username), zap.Int64("user_id", resp.UserID))
	s.success(MsgLoginSuccess)
	return nil
}

// Logout 登出，服务端失败只记录日志，本地状态总是清空
func (s *Store) Logout(ctx context.Context) error {
	if err := s.quiet.Logout(ctx); err != nil {
		s.logger.Warn("登出接口调用失败", zap.Error(err))
	}

	if err := s.clear(ctx); err != nil {
		s.logger.Warn("删除本地令牌失败", zap.Error(err))
	}
	s.success(MsgLoggedOut)
	return nil
}

// Restore 用已保存的令牌恢复用户信息，令牌失效时静默清理
func (s *Store) Restore(ctx context.Context) error {
	if !s.IsAuthenticated() {
		return nil
	}

	user, err := s.quiet.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn("获取用户信息失败", zap.Error(err))
		return s.clear(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		// cleared while the fetch was in flight
		return nil
	}
	s.currentUser = user.Clone()
	return nil
}

// PatchUser 合并部分用户信息，未登录时不做任何事
func (s *Store) PatchUser(p model.UserPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.currentUser
	if u == nil {
		return
	}
	if p.Nickname != nil {
		u.Nickname = *p.Nickname
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.UserKey != nil {
		u.UserKey = *p.UserKey
	}
}

// Expire 令牌失效时清空会话
func (s *Store) Expire(ctx context.Context) {
	if err := s.clear(ctx); err != nil {
		s.logger.Warn("清理会话失败", zap.Error(err))
	}
}

func (s *Store) clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.currentUser = nil
	s.mu.Unlock()

	if err := s.credentials.Remove(ctx, client.TokenName); err != nil {
		return err
	}
	return nil
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) success(msg string) {
	if s.notifier != nil {
		s.notifier.Success(msg)
	}
}

// notifyFailure 提示登录失败，客户端已提示过的错误不重复提示
func (s *Store) notifyFailure(err error) {
	if s.notifier == nil {
		return
	}
	var presented interface{ Presented() bool }
	if errors.As(err, &presented) && presented.Presented() {
		return
	}
	msg := err.Error()
	if msg == "" {
		msg = MsgLoginFailed
	}
	s.notifier.Error(msg)
}
