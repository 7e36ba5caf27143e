package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/vera-byte/vgo-pushctl/pkg/model"
)

// ListPushConfigs 获取推送配置列表
func (c *Client) ListPushConfigs(ctx context.Context) ([]model.PushConfig, error) {
	resp, err := Get[[]model.PushConfig](ctx, c, "/user/push-config/list", nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// PushConfigsByPlatform 根据平台获取推送配置
func (c *Client) PushConfigsByPlatform(ctx context.Context, platform string) ([]model.PushConfig, error) {
	resp, err := Get[[]model.PushConfig](ctx, c, "/user/push-config/platform/"+url.PathEscape(platform), nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetPushConfig 获取推送配置详情
func (c *Client) GetPushConfig(ctx context.Context, id int64) (*model.PushConfig, error) {
	resp, err := Get[model.PushConfig](ctx, c, fmt.Sprintf("/user/push-config/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CreatePushConfig 新增推送配置
func (c *Client) CreatePushConfig(ctx context.Context, cfg model.PushConfig) (string, error) {
	return message(Post[struct{}](ctx, c, "/user/push-config", cfg))
}

// UpdatePushConfig 修改推送配置
func (c *Client) UpdatePushConfig(ctx context.Context, cfg model.PushConfig) (string, error) {
	return message(Put[struct{}](ctx, c, "/user/push-config", nil, cfg))
}

// DeletePushConfig 删除推送配置
func (c *Client) DeletePushConfig(ctx context.Context, id int64) (string, error) {
	return message(Delete[struct{}](ctx, c, fmt.Sprintf("/user/push-config/%d", id)))
}

// TogglePushConfig 切换推送配置状态
func (c *Client) TogglePushConfig(ctx context.Context, id int64, enabled bool) (string, error) {
	params := url.Values{}
	params.Set("enabled", strconv.FormatBool(enabled))
	return message(Put[struct{}](ctx, c, fmt.Sprintf("/user/push-config/%d/toggle", id), params, nil))
}

// TestPushConfig 发送测试推送
func (c *Client) TestPushConfig(ctx context.Context, id int64) (string, error) {
	return message(Post[struct{}](ctx, c, fmt.Sprintf("/user/push-config/%d/test", id), nil))
}

// SupportedPlatforms 获取支持的推送平台
func (c *Client) SupportedPlatforms(ctx context.Context) ([]string, error) {
	resp, err := Get[[]string](ctx, c, "/user/push-config/platforms", nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListTagPushConfigs 获取标签推送配置列表
func (c *Client) ListTagPushConfigs(ctx context.Context) ([]model.TagPushConfig, error) {
	resp, err := Get[[]model.TagPushConfig](ctx, c, "/tag-push-config/list", nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// TagNames 获取标签名称列表
func (c *Client) TagNames(ctx context.Context) ([]string, error) {
	resp, err := Get[[]string](ctx, c, "/tag-push-config/tag-names", nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UserPushConfigs 获取可供标签选择的推送配置
func (c *Client) UserPushConfigs(ctx context.Context) ([]model.UserPushConfig, error) {
	resp, err := Get[[]model.UserPushConfig](ctx, c, "/tag-push-config/user-push-configs", nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// SaveTagPushConfig 保存标签推送配置
func (c *Client) SaveTagPushConfig(ctx context.Context, cfg model.TagPushConfig) (string, error) {
	return message(Post[struct{}](ctx, c, "/tag-push-config/save", cfg))
}

// DeleteTagPushConfig 删除标签推送配置
func (c *Client) DeleteTagPushConfig(ctx context.Context, id int64) (string, error) {
	return message(Delete[struct{}](ctx, c, fmt.Sprintf("/tag-push-config/%d", id)))
}
