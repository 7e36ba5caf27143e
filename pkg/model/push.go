package model

// 支持的推送平台
const (
	PlatformBark     = "bark"
	PlatformEmail    = "email"
	PlatformWxPusher = "wxpusher"
	PlatformPushMe   = "pushme"
)

// PushConfig 推送配置
type PushConfig struct {
	ID         int64           `json:"id,omitempty"`
	Platform   string          `json:"platform"`
	ConfigName string          `json:"configName"`
	IsEnabled  int             `json:"isEnabled"`
	SortOrder  int             `json:"sortOrder,omitempty"`
	Remark     string          `json:"remark,omitempty"`
	Bark       *BarkConfig     `json:"bark,omitempty"`
	Email      *EmailConfig    `json:"email,omitempty"`
	WxPusher   *WxPusherConfig `json:"wxpusher,omitempty"`
	PushMe     *PushMeConfig   `json:"pushme,omitempty"`
}

// Enabled 是否启用
func (p *PushConfig) Enabled() bool {
	return p.IsEnabled == 1
}

// BarkConfig Bark推送配置
type BarkConfig struct {
	DeviceKey string `json:"deviceKey"`
	ServerURL string `json:"serverUrl,omitempty"`
	Sound     string `json:"sound,omitempty"`
	Group     string `json:"group,omitempty"`
	Icon      string `json:"icon,omitempty"`
}

// EmailConfig 邮件推送配置
type EmailConfig struct {
	ToEmail       string `json:"toEmail"`
	SubjectPrefix string `json:"subjectPrefix,omitempty"`
}

// WxPusherConfig WxPusher推送配置
type WxPusherConfig struct {
	AppToken      string `json:"appToken"`
	UID           string `json:"uid,omitempty"`
	TopicID       string `json:"topicId,omitempty"`
	SummaryLength int    `json:"summaryLength,omitempty"`
	ContentType   int    `json:"contentType,omitempty"`
}

// PushMeConfig PushMe推送配置
type PushMeConfig struct {
	PushKey  string `json:"pushKey"`
	Template string `json:"template,omitempty"`
}

// TagPushConfig 标签推送配置
type TagPushConfig struct {
	ID            int64   `json:"id,omitempty"`
	UserID        int64   `json:"userId,omitempty"`
	TagName       string  `json:"tagName"`
	PushConfigIDs []int64 `json:"pushConfigIds"`
	IsEnabled     int     `json:"isEnabled"`
	Remark        string  `json:"remark,omitempty"`
	CreateTime    string  `json:"createTime,omitempty"`
	UpdateTime    string  `json:"updateTime,omitempty"`
}

// UserPushConfig 用户推送配置（原始存储形式）
type UserPushConfig struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"userId"`
	Platform   string `json:"platform"`
	ConfigName string `json:"configName"`
	ConfigData string `json:"configData"`
	IsEnabled  int    `json:"isEnabled"`
	SortOrder  int    `json:"sortOrder,omitempty"`
	Remark     string `json:"remark,omitempty"`
	CreateTime string `json:"createTime,omitempty"`
	UpdateTime string `json:"updateTime,omitempty"`
}
