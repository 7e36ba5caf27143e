package mockserver

import (
	"fmt"

	"github.com/vera-byte/vgo-pushctl/pkg/model"
)

// 默认种子账号
const (
	AdminUsername    = "admin"
	AdminPassword    = "admin123"
	OperatorUsername = "operator"
	OperatorPassword = "operator123"
)

// Seed 写入本地开发使用的默认数据
func Seed(s *Store) error {
	admin := s.AddUser(AdminUsername, AdminPassword, "Administrator", model.RoleAdmin)
	operator := s.AddUser(OperatorUsername, OperatorPassword, "Operator", "user")

	types := []model.DictType{
		{DictName: "Message Type", DictType: "message_type", Remark: "message categories"},
		{DictName: "Push Platform", DictType: "push_platform", Remark: "supported push channels"},
	}
	for _, t := range types {
		if _, err := s.SaveDictType(t); err != nil {
			return fmt.Errorf("seed dict type %s: %w", t.DictType, err)
		}
	}

	data := []model.DictData{
		{DictType: "message_type", DictLabel: "Notification", DictValue: model.MessageTypeNotification, DictSort: 1, IsDefault: 1},
		{DictType: "message_type", DictLabel: "Alert", DictValue: model.MessageTypeAlert, DictSort: 2},
		{DictType: "message_type", DictLabel: "System", DictValue: model.MessageTypeSystem, DictSort: 3},
		{DictType: "message_type", DictLabel: "Custom", DictValue: model.MessageTypeCustom, DictSort: 4},
		{DictType: "push_platform", DictLabel: "Bark", DictValue: model.PlatformBark, DictSort: 1},
		{DictType: "push_platform", DictLabel: "Email", DictValue: model.PlatformEmail, DictSort: 2},
		{DictType: "push_platform", DictLabel: "WxPusher", DictValue: model.PlatformWxPusher, DictSort: 3},
		{DictType: "push_platform", DictLabel: "PushMe", DictValue: model.PlatformPushMe, DictSort: 4},
	}
	for _, d := range data {
		if _, err := s.SaveDictData(d); err != nil {
			return fmt.Errorf("seed dict data %s/%s: %w", d.DictType, d.DictValue, err)
		}
	}

	configs := []struct {
		owner int64
		cfg   model.PushConfig
	}{
		{admin.ID, model.PushConfig{Platform: model.PlatformBark, ConfigName: "iPhone", IsEnabled: 1, SortOrder: 1,
			Bark: &model.BarkConfig{DeviceKey: "demo-device-key", ServerURL: "https://api.day.app"}}},
		{admin.ID, model.PushConfig{Platform: model.PlatformEmail, ConfigName: "Inbox", IsEnabled: 0, SortOrder: 2,
			Email: &model.EmailConfig{ToEmail: "admin@example.com", SubjectPrefix: "[HisMsg]"}}},
		{operator.ID, model.PushConfig{Platform: model.PlatformPushMe, ConfigName: "Phone", IsEnabled: 1, SortOrder: 1,
			PushMe: &model.PushMeConfig{PushKey: "demo-push-key"}}},
	}
	for _, c := range configs {
		if _, err := s.SavePushConfig(c.owner, c.cfg); err != nil {
			return fmt.Errorf("seed push config %s: %w", c.cfg.ConfigName, err)
		}
	}

	messages := []model.MessagePushRequest{
		{UserKey: admin.UserKey, Title: "Welcome", Content: "Push service is ready", Tags: []string{"system"}, MessageType: model.MessageTypeSystem},
		{UserKey: admin.UserKey, Title: "Disk usage", Content: "Disk usage above 90%", Tags: []string{"ops"}, MessageType: model.MessageTypeAlert, Level: "timeSensitive"},
		{UserKey: operator.UserKey, Title: "Hello", Content: "First message"},
	}
	for _, m := range messages {
		if _, err := s.Push(m); err != nil {
			return fmt.Errorf("seed message %s: %w", m.Title, err)
		}
	}
	return nil
}
