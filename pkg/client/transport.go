package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vera-byte/vgo-pushctl/pkg/model"

	"go.uber.org/zap"
)

// Kind 请求结果分类
type Kind int

const (
	// KindSuccess 业务成功（code == 200）
	KindSuccess Kind = iota
	// KindBusiness 业务失败（code != 200）
	KindBusiness
	// KindStatus HTTP状态码错误
	KindStatus
	// KindNetwork 未收到响应
	KindNetwork
	// KindConfig 请求未能发出
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindBusiness:
		return "business"
	case KindStatus:
		return "status"
	case KindNetwork:
		return "network"
	case KindConfig:
		return "config"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result 一次请求的标记结果，不带任何副作用
type Result struct {
	Kind    Kind
	Status  int
	Code    int
	Message string
	Data    json.RawMessage
	Err     error
}

// CredentialStore 客户端读取/清除登录令牌所需的凭据存储
type CredentialStore interface {
	Get(ctx context.Context, name string) (string, error)
	Remove(ctx context.Context, name string) error
}

// Transport 纯传输层：发送请求并把响应归类为 Result
type Transport struct {
	baseURL    string
	httpClient *http.Client
	tokens     CredentialStore
	logger     *zap.Logger
}

// NewTransport 创建传输层
// 参数: baseURL 含API前缀的基础地址, httpClient HTTP客户端, tokens 凭据存储(可为nil)
// 返回值: *Transport 传输层实例
func NewTransport(baseURL string, httpClient *http.Client, tokens CredentialStore, logger *zap.Logger) *Transport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transport{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
		logger:     logger,
	}
}

// Do 发送请求
// 参数: ctx 上下文, method HTTP方法, path 接口路径, query 查询参数, body 请求体(可为nil)
// 返回值: Result 标记结果
func (t *Transport) Do(ctx context.Context, method, path string, query url.Values, body interface{}) Result {
	req, err := t.newRequest(ctx, method, path, query, body)
	if err != nil {
		t.logger.Error("请求错误", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return Result{Kind: KindConfig, Err: err}
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Warn("响应错误", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return Result{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Kind: KindNetwork, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	var env model.Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		res := Result{Kind: KindStatus, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
		if decodeErr == nil {
			res.Code = env.Code
			res.Message = env.Message
		}
		t.logger.Debug("HTTP状态错误", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return res
	}

	if decodeErr != nil {
		return Result{Kind: KindBusiness, Status: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", decodeErr)}
	}
	if !env.OK() {
		return Result{
			Kind:    KindBusiness,
			Status:  resp.StatusCode,
			Code:    env.Code,
			Message: env.Message,
			Err:     fmt.Errorf("business code %d", env.Code),
		}
	}

	return Result{
		Kind:    KindSuccess,
		Status:  resp.StatusCode,
		Code:    env.Code,
		Message: env.Message,
		Data:    env.Data,
	}
}

func (t *Transport) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	if t.baseURL == "" {
		return nil, errors.New("base url is empty")
	}

	target := t.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + query.Encode()
	}
	if _, err := url.ParseRequestURI(target); err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json;charset=utf-8")
	req.Header.Set("Accept", "application/json")

	if token := t.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// token 读取当前令牌，读取失败按匿名请求处理
func (t *Transport) token(ctx context.Context) string {
	if t.tokens == nil {
		return ""
	}
	token, err := t.tokens.Get(ctx, TokenName)
	if err != nil {
		return ""
	}
	return token
}
