package client

import (
	"errors"
	"fmt"
	"net/http"
)

// 面向操作员的固定提示
const (
	MsgRequestFailed  = "request failed"
	MsgSessionExpired = "session expired, please log in again"
	MsgForbidden      = "insufficient permission"
	MsgNotFound       = "requested resource not found"
	MsgServerError    = "internal server error"
	MsgNetwork        = "network unreachable, please check your connection"
	MsgConfig         = "request configuration error"
)

// APIError 请求失败时返回的错误
type APIError struct {
	Kind    Kind
	Status  int
	Code    int
	Message string
	Err     error

	presented bool
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Presented 错误是否已经提示给操作员
func (e *APIError) Presented() bool {
	return e.presented
}

// Unauthorized 是否为401
func (e *APIError) Unauthorized() bool {
	return e.Kind == KindStatus && e.Status == http.StatusUnauthorized
}

// IsUnauthorized 判断错误链中是否为401
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}

// Describe 把失败结果映射为操作员可读的提示，成功结果返回空串
func Describe(res Result) string {
	switch res.Kind {
	case KindSuccess:
		return ""
	case KindBusiness:
		if res.Message != "" {
			return res.Message
		}
		return MsgRequestFailed
	case KindStatus:
		switch res.Status {
		case http.StatusUnauthorized:
			return MsgSessionExpired
		case http.StatusForbidden:
			return MsgForbidden
		case http.StatusNotFound:
			return MsgNotFound
		case http.StatusInternalServerError:
			return MsgServerError
		default:
			if res.Message != "" {
				return res.Message
			}
			return fmt.Sprintf("%s (%d)", MsgRequestFailed, res.Status)
		}
	case KindNetwork:
		return MsgNetwork
	default:
		return MsgConfig
	}
}

func newAPIError(res Result) *APIError {
	return &APIError{
		Kind:    res.Kind,
		Status:  res.Status,
		Code:    res.Code,
		Message: Describe(res),
		Err:     res.Err,
	}
}
