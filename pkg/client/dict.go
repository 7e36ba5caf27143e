package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/vera-byte/vgo-pushctl/pkg/model"
)

// ListDictTypes 分页查询字典类型
func (c *Client) ListDictTypes(ctx context.Context, q model.DictTypeQuery) (*model.Page[model.DictType], error) {
	params := url.Values{}
	setInt(params, "pageNum", q.PageNum)
	setInt(params, "pageSize", q.PageSize)
	setString(params, "dictName", q.DictName)
	setString(params, "dictType", q.DictType)

	resp, err := Get[model.Page[model.DictType]](ctx, c, "/dict/type/list", params)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// GetDictType 查询字典类型详情
func (c *Client) GetDictType(ctx context.Context, id int64) (*model.DictType, error) {
	resp, err := Get[model.DictType](ctx, c, fmt.Sprintf("/dict/type/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CreateDictType 新增字典类型
func (c *Client) CreateDictType(ctx context.Context, t model.DictType) (string, error) {
	return message(Post[struct{}](ctx, c, "/dict/type", t))
}

// UpdateDictType 修改字典类型
func (c *Client) UpdateDictType(ctx context.Context, t model.DictType) (string, error) {
	return message(Put[struct{}](ctx, c, "/dict/type", nil, t))
}

// DeleteDictType 删除字典类型
func (c *Client) DeleteDictType(ctx context.Context, id int64) (string, error) {
	return message(Delete[struct{}](ctx, c, fmt.Sprintf("/dict/type/%d", id)))
}

// ListDictData 分页查询字典数据
func (c *Client) ListDictData(ctx context.Context, q model.DictDataQuery) (*model.Page[model.DictData], error) {
	params := url.Values{}
	setInt(params, "pageNum", q.PageNum)
	setInt(params, "pageSize", q.PageSize)
	setString(params, "dictType", q.DictType)
	setString(params, "dictLabel", q.DictLabel)

	resp, err := Get[model.Page[model.DictData]](ctx, c, "/dict/data/list", params)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// DictDataByType 按字典类型查询全部数据
func (c *Client) DictDataByType(ctx context.Context, dictType string) ([]model.DictData, error) {
	resp, err := Get[[]model.DictData](ctx, c, "/dict/data/type/"+url.PathEscape(dictType), nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetDictData 查询字典数据详情
func (c *Client) GetDictData(ctx context.Context, id int64) (*model.DictData, error) {
	resp, err := Get[model.DictData](ctx, c, fmt.Sprintf("/dict/data/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CreateDictData 新增字典数据
func (c *Client) CreateDictData(ctx context.Context, d model.DictData) (string, error) {
	return message(Post[struct{}](ctx, c, "/dict/data", d))
}

// UpdateDictData 修改字典数据
func (c *Client) UpdateDictData(ctx context.Context, d model.DictData) (string, error) {
	return message(Put[struct{}](ctx, c, "/dict/data", nil, d))
}

// DeleteDictData 删除字典数据
func (c *Client) DeleteDictData(ctx context.Context, id int64) (string, error) {
	return message(Delete[struct{}](ctx, c, fmt.Sprintf("/dict/data/%d", id)))
}

// DictLabel 根据字典类型和值查询标签
func (c *Client) DictLabel(ctx context.Context, dictType, dictValue string) (string, error) {
	params := url.Values{}
	params.Set("dictType", dictType)
	params.Set("dictValue", dictValue)

	resp, err := Get[string](ctx, c, "/dict/data/label", params)
	if err != nil {
		return "", err
	}
	return resp.Data, nil
}

func message(resp *Response[struct{}], err error) (string, error) {
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

func setInt(v url.Values, key string, n int) {
	if n > 0 {
		v.Set(key, strconv.Itoa(n))
	}
}

func setString(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}
