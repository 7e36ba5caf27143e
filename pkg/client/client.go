// Package client 消息推送管理后台的HTTP客户端。
//
// 所有接口返回统一的 {code, message, data} 结构，code == 200 表示成功。
// Client 负责携带登录令牌、解包响应，并把失败统一转换为提示和 *APIError。
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// TokenName 登录令牌在凭据存储中的名称
	TokenName = "token"
	// TokenTTL 登录令牌的保存时长
	TokenTTL = 7 * 24 * time.Hour
	// DefaultTimeout 默认请求超时
	DefaultTimeout = 10 * time.Second
)

// Notifier 提示输出接口（在消费端定义）
type Notifier interface {
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

// UnauthorizedHandler 收到401后的处理（清理会话、跳转登录）
type UnauthorizedHandler func(ctx context.Context)

// Config 客户端配置
type Config struct {
	BaseURL   string        `mapstructure:"base_url" json:"base_url"`
	APIPrefix string        `mapstructure:"api_prefix" json:"api_prefix"`
	Timeout   time.Duration `mapstructure:"timeout" json:"timeout"`
}

// Endpoint 返回含API前缀的基础地址
func (c Config) Endpoint() string {
	prefix := c.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.Trim(prefix, "/")
}

// Response 成功响应
type Response[T any] struct {
	Data    T
	Message string
}

// Client 后台API客户端
type Client struct {
	transport *Transport
	tokens    CredentialStore
	notifier  Notifier
	logger    *zap.Logger
	quiet     bool

	mu             sync.RWMutex
	onUnauthorized UnauthorizedHandler
}

// Option 客户端选项
type Option func(*Client)

// WithNotifier 设置提示输出
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithLogger 设置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUnauthorizedHandler 设置401处理
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) { c.onUnauthorized = h }
}

// New 创建客户端
// 参数: cfg 客户端配置, tokens 凭据存储, opts 可选项
// 返回值: *Client 客户端实例
func New(cfg Config, tokens CredentialStore, opts ...Option) *Client {
	c := &Client{
		tokens: tokens,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c.logger = c.logger.With(zap.String("component", "api_client"))
	c.transport = NewTransport(cfg.Endpoint(), &http.Client{Timeout: timeout}, tokens, c.logger)
	return c
}

// NewWithTransport 使用自定义传输层创建客户端
func NewWithTransport(t *Transport, tokens CredentialStore, opts ...Option) *Client {
	c := &Client{
		transport: t,
		tokens:    tokens,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUnauthorizedHandler 设置401处理（会话创建后再注入）
func (c *Client) SetUnauthorizedHandler(h UnauthorizedHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = h
}

// Quiet 返回共享传输层但没有任何副作用的客户端：
// 失败不提示、401不清理凭据也不跳转
func (c *Client) Quiet() *Client {
	return &Client{
		transport: c.transport,
		tokens:    c.tokens,
		logger:    c.logger,
		quiet:     true,
	}
}

// Do 发送请求并处理失败副作用
// 返回值: Result 标记结果, error 失败时为 *APIError
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body interface{}) (Result, error) {
	res := c.transport.Do(ctx, method, path, query, body)
	if res.Kind == KindSuccess {
		return res, nil
	}

	apiErr := newAPIError(res)
	c.logger.Debug("request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Stringer("kind", res.Kind),
		zap.Int("status", res.Status),
		zap.Int("code", res.Code),
		zap.Error(res.Err))

	if c.quiet {
		return res, apiErr
	}

	if c.notifier != nil {
		c.notifier.Error(apiErr.Message)
	}
	apiErr.presented = c.notifier != nil

	if apiErr.Unauthorized() {
		c.expire(ctx)
	}
	return res, apiErr
}

// expire 清除本地令牌并触发401处理
func (c *Client) expire(ctx context.Context) {
	if c.tokens != nil {
		if err := c.tokens.Remove(ctx, TokenName); err != nil {
			c.logger.Warn("failed to remove token", zap.Error(err))
		}
	}

	c.mu.RLock()
	h := c.onUnauthorized
	c.mu.RUnlock()
	if h != nil {
		h(ctx)
	}
}

// Get 发送GET请求
func Get[T any](ctx context.Context, c *Client, path string, query url.Values) (*Response[T], error) {
	return send[T](ctx, c, http.MethodGet, path, query, nil)
}

// Post 发送POST请求
func Post[T any](ctx context.Context, c *Client, path string, body interface{}) (*Response[T], error) {
	return send[T](ctx, c, http.MethodPost, path, nil, body)
}

// Put 发送PUT请求
func Put[T any](ctx context.Context, c *Client, path string, query url.Values, body interface{}) (*Response[T], error) {
	return send[T](ctx, c, http.MethodPut, path, query, body)
}

// Delete 发送DELETE请求
func Delete[T any](ctx context.Context, c *Client, path string) (*Response[T], error) {
	return send[T](ctx, c, http.MethodDelete, path, nil, nil)
}

func send[T any](ctx context.Context, c *Client, method, path string, query url.Values, body interface{}) (*Response[T], error) {
	res, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	out := &Response[T]{Message: res.Message}
	if len(res.Data) == 0 || string(res.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(res.Data, &out.Data); err != nil {
		return nil, fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return out, nil
}
