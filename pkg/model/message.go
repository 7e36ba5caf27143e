package model

// MessageRecord 消息记录
type MessageRecord struct {
	ID               string   `json:"id"`
	UserID           int64    `json:"userId"`
	UserCode         string   `json:"userCode"`
	MessageType      string   `json:"messageType"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle,omitempty"`
	Content          string   `json:"content"`
	Group            string   `json:"group,omitempty"`
	URL              string   `json:"url,omitempty"`
	Source           string   `json:"source"`
	Level            string   `json:"level"`
	Tags             []string `json:"tags"`
	ExtraData        string   `json:"extraData"`
	Status           int      `json:"status"`
	PushedPlatforms  []string `json:"pushedPlatforms"`
	PushSuccessCount int      `json:"pushSuccessCount"`
	PushFailCount    int      `json:"pushFailCount"`
	CreateTime       string   `json:"createTime"`
	UpdateTime       string   `json:"updateTime"`
}

// PushRecord 推送记录
type PushRecord struct {
	ID           int64  `json:"id"`
	MessageID    int64  `json:"messageId"`
	UserID       int64  `json:"userId"`
	Platform     string `json:"platform"`
	ConfigName   string `json:"configName"`
	PushStatus   int    `json:"pushStatus"`
	RequestData  string `json:"requestData"`
	ResponseData string `json:"responseData"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	RetryCount   int    `json:"retryCount"`
	PushTime     string `json:"pushTime"`
	CreateTime   string `json:"createTime"`
}

// MessageQuery 消息记录查询条件
type MessageQuery struct {
	Page        int
	Size        int
	MessageType string
	StartTime   string
	EndTime     string
}

// MessageStatistics 消息统计（结构由服务端决定）
type MessageStatistics map[string]interface{}

// 消息类型
const (
	MessageTypeNotification = "notification"
	MessageTypeAlert        = "alert"
	MessageTypeSystem       = "system"
	MessageTypeCustom       = "custom"
)

// MessagePushRequest 通用推送请求
type MessagePushRequest struct {
	UserKey     string                 `json:"userKey"`
	MessageType string                 `json:"messageType,omitempty"`
	Title       string                 `json:"title"`
	Subtitle    string                 `json:"subtitle,omitempty"`
	Content     string                 `json:"content"`
	Group       string                 `json:"group,omitempty"`
	URL         string                 `json:"url,omitempty"`
	Source      string                 `json:"source,omitempty"`
	Level       string                 `json:"level,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	ExtraData   map[string]interface{} `json:"extraData,omitempty"`
	Platforms   []string               `json:"platforms,omitempty"`
}
