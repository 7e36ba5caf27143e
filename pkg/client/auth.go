package client

import (
	"context"

	"github.com/vera-byte/vgo-pushctl/pkg/model"
)

// Login 用户登录
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	resp, err := Post[model.LoginResponse](ctx, c, "/auth/login", req)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Logout 用户登出
func (c *Client) Logout(ctx context.Context) error {
	_, err := Post[struct{}](ctx, c, "/auth/logout", nil)
	return err
}

// CurrentUser 获取当前用户信息
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	resp, err := Get[model.User](ctx, c, "/user/current", nil)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ChangePassword 修改密码
func (c *Client) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) (string, error) {
	resp, err := Post[struct{}](ctx, c, "/user/change-password", req)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ResetUserKey 重置用户推送密钥，返回新密钥
func (c *Client) ResetUserKey(ctx context.Context) (string, error) {
	resp, err := Post[string](ctx, c, "/user/reset-user-key", nil)
	if err != nil {
		return "", err
	}
	return resp.Data, nil
}
