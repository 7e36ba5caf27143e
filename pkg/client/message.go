package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/vera-byte/vgo-pushctl/pkg/model"
)

// ListMessages 分页查询消息记录
func (c *Client) ListMessages(ctx context.Context, q model.MessageQuery) (*model.Page[model.MessageRecord], error) {
	params := url.Values{}
	setInt(params, "page", q.Page)
	setInt(params, "size", q.Size)
	setString(params, "messageType", q.MessageType)
	setString(params, "startTime", q.StartTime)
	setString(params, "endTime", q.EndTime)

	resp, err := Get[model.Page[model.MessageRecord]](ctx, c, "/message/record/list", params)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// GetMessage 查询消息记录详情
func (c *Client) GetMessage(ctx context.Context, id string) (*model.MessageRecord, error) {
	resp, err := Get[model.MessageRecord](ctx, c, "/message/record/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// MessagePushRecords 查询消息的推送记录
func (c *Client) MessagePushRecords(ctx context.Context, messageID int64) ([]model.PushRecord, error) {
	resp, err := Get[[]model.PushRecord](ctx, c, fmt.Sprintf("/message/record/%d/push-records", messageID), nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// MessageStatistics 获取最近days天的消息统计，days<=0时为7天
func (c *Client) MessageStatistics(ctx context.Context, days int) (model.MessageStatistics, error) {
	if days <= 0 {
		days = 7
	}
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))

	resp, err := Get[model.MessageStatistics](ctx, c, "/message/record/statistics", params)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
