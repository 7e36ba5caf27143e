package model

import "encoding/json"

// CodeSuccess 业务成功码
const CodeSuccess = 200

// Envelope 通用API响应结构
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// OK 是否业务成功
func (e *Envelope) OK() bool {
	return e.Code == CodeSuccess
}

// APIResponse 服务端输出使用的响应结构
type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Page 分页响应
type Page[T any] struct {
	Records []T   `json:"records"`
	Total   int64 `json:"total"`
	Page    int64 `json:"page"`
	Size    int64 `json:"size"`
	Pages   int64 `json:"pages"`
}
