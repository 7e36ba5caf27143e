package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vera-byte/vgo-pushctl/internal/router"
	"github.com/vera-byte/vgo-pushctl/pkg/model"
)

var pushConfigCmd = &cobra.Command{
	Use:     "push-config",
	Aliases: []string{"pc"},
	Short:   "Manage push channel configurations",
}

var pushListPlatform string

// pushConfigForm 推送配置表单，平台相关字段按平台取用
var pushConfigForm struct {
	platform string
	name     string
	enabled  bool
	sort     int
	remark   string

	deviceKey string
	serverURL string
	sound     string
	group     string
	icon      string

	toEmail       string
	subjectPrefix string

	appToken      string
	uid           string
	topicID       string
	summaryLength int
	contentType   int

	pushKey  string
	template string
}

func init() {
	list := &cobra.Command{Use: "list", Short: "List push configs", Args: cobra.NoArgs, RunE: runPushConfigList}
	list.Flags().StringVar(&pushListPlatform, "platform", "", "only configs of this platform")

	get := &cobra.Command{Use: "get <id>", Short: "Show a push config", Args: cobra.ExactArgs(1), RunE: runPushConfigGet}
	platforms := &cobra.Command{Use: "platforms", Short: "List supported platforms", Args: cobra.NoArgs, RunE: runPushPlatforms}

	create := &cobra.Command{Use: "create", Short: "Create a push config", Args: cobra.NoArgs, RunE: runPushConfigSave}
	update := &cobra.Command{Use: "update <id>", Short: "Update a push config", Args: cobra.ExactArgs(1), RunE: runPushConfigSave}
	for _, c := range []*cobra.Command{create, update} {
		bindPushConfigFlags(c.Flags())
	}

	del := &cobra.Command{Use: "delete <id>", Short: "Delete a push config", Args: cobra.ExactArgs(1), RunE: runPushConfigDelete}
	enable := &cobra.Command{Use: "enable <id>", Short: "Enable a push config", Args: cobra.ExactArgs(1), RunE: runPushConfigToggle(true)}
	disable := &cobra.Command{Use: "disable <id>", Short: "Disable a push config", Args: cobra.ExactArgs(1), RunE: runPushConfigToggle(false)}
	test := &cobra.Command{Use: "test <id>", Short: "Send a test message through a push config", Args: cobra.ExactArgs(1), RunE: runPushConfigTest}

	pushConfigCmd.AddCommand(list, get, platforms, create, update, del, enable, disable, test)
	RootCmd.AddCommand(routedTree(pushConfigCmd, router.PathPushConfig))
}

func bindPushConfigFlags(f *pflag.FlagSet) {
	f.StringVar(&pushConfigForm.platform, "platform", "", "platform: bark, email, wxpusher or pushme")
	f.StringVar(&pushConfigForm.name, "name", "", "config name")
	f.BoolVar(&pushConfigForm.enabled, "enabled", true, "enable the config")
	f.IntVar(&pushConfigForm.sort, "sort", 0, "sort order")
	f.StringVar(&pushConfigForm.remark, "remark", "", "remark")

	f.StringVar(&pushConfigForm.deviceKey, "device-key", "", "bark: device key")
	f.StringVar(&pushConfigForm.serverURL, "server-url", "", "bark: server url")
	f.StringVar(&pushConfigForm.sound, "sound", "", "bark: sound")
	f.StringVar(&pushConfigForm.group, "group", "", "bark: group")
	f.StringVar(&pushConfigForm.icon, "icon", "", "bark: icon url")

	f.StringVar(&pushConfigForm.toEmail, "to-email", "", "email: recipient")
	f.StringVar(&pushConfigForm.subjectPrefix, "subject-prefix", "", "email: subject prefix")

	f.StringVar(&pushConfigForm.appToken, "app-token", "", "wxpusher: app token")
	f.StringVar(&pushConfigForm.uid, "uid", "", "wxpusher: uid")
	f.StringVar(&pushConfigForm.topicID, "topic-id", "", "wxpusher: topic id")
	f.IntVar(&pushConfigForm.summaryLength, "summary-length", 0, "wxpusher: summary length")
	f.IntVar(&pushConfigForm.contentType, "content-type", 0, "wxpusher: content type")

	f.StringVar(&pushConfigForm.pushKey, "push-key", "", "pushme: push key")
	f.StringVar(&pushConfigForm.template, "template", "", "pushme: template")
}

func runPushConfigList(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}

	var configs []model.PushConfig
	if pushListPlatform != "" {
		configs, err = a.Client.PushConfigsByPlatform(cmd.Context(), pushListPlatform)
	} else {
		configs, err = a.Client.ListPushConfigs(cmd.Context())
	}
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(configs))
	for _, c := range configs {
		rows = append(rows, []string{itoa(c.ID), c.Platform, c.ConfigName, yesNo(c.Enabled()), strconv.Itoa(c.SortOrder), target(c)})
	}
	return a.Printer.Print(configs, []string{"ID", "Platform", "Name", "Enabled", "Sort", "Target"}, rows)
}

func runPushConfigGet(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	c, err := a.Client.GetPushConfig(cmd.Context(), id)
	if err != nil {
		return err
	}
	return a.Printer.Fields(c, [][2]string{
		{"ID", itoa(c.ID)},
		{"Platform", c.Platform},
		{"Name", c.ConfigName},
		{"Enabled", yesNo(c.Enabled())},
		{"Sort", strconv.Itoa(c.SortOrder)},
		{"Target", target(*c)},
		{"Remark", c.Remark},
	})
}

func runPushPlatforms(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	platforms, err := a.Client.SupportedPlatforms(cmd.Context())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(platforms))
	for _, p := range platforms {
		rows = append(rows, []string{p})
	}
	return a.Printer.Print(platforms, []string{"Platform"}, rows)
}

func runPushConfigSave(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var c model.PushConfig
	if len(args) == 1 {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		current, err := a.Client.GetPushConfig(ctx, id)
		if err != nil {
			return err
		}
		c = *current
	}
	if err := applyPushConfigForm(&c, cmd.Flags()); err != nil {
		return err
	}

	var msg string
	if c.ID == 0 {
		msg, err = a.Client.CreatePushConfig(ctx, c)
	} else {
		msg, err = a.Client.UpdatePushConfig(ctx, c)
	}
	if err != nil {
		return err
	}
	a.Notifier.Success(orDefault(msg, "saved"))
	return nil
}

// applyPushConfigForm 把表单写入配置：新建时写入全部字段，修改时只写入显式给出的字段
func applyPushConfigForm(c *model.PushConfig, flags *pflag.FlagSet) error {
	f := &pushConfigForm
	set := func(name string) bool { return c.ID == 0 || flags.Changed(name) }

	if set("platform") {
		c.Platform = strings.ToLower(f.platform)
	}
	if c.Platform == "" {
		return fmt.Errorf("--platform is required")
	}
	// 只保留当前平台的配置块
	prev := *c
	c.Bark, c.Email, c.WxPusher, c.PushMe = nil, nil, nil, nil
	switch c.Platform {
	case model.PlatformBark:
		c.Bark = prev.Bark
	case model.PlatformEmail:
		c.Email = prev.Email
	case model.PlatformWxPusher:
		c.WxPusher = prev.WxPusher
	case model.PlatformPushMe:
		c.PushMe = prev.PushMe
	}
	if set("name") {
		c.ConfigName = f.name
	}
	if set("enabled") {
		c.IsEnabled = boolInt(f.enabled)
	}
	if set("sort") {
		c.SortOrder = f.sort
	}
	if set("remark") {
		c.Remark = f.remark
	}

	switch c.Platform {
	case model.PlatformBark:
		if c.Bark == nil {
			c.Bark = &model.BarkConfig{}
		}
		if set("device-key") {
			c.Bark.DeviceKey = f.deviceKey
		}
		if set("server-url") {
			c.Bark.ServerURL = f.serverURL
		}
		if set("sound") {
			c.Bark.Sound = f.sound
		}
		if set("group") {
			c.Bark.Group = f.group
		}
		if set("icon") {
			c.Bark.Icon = f.icon
		}
	case model.PlatformEmail:
		if c.Email == nil {
			c.Email = &model.EmailConfig{}
		}
		if set("to-email") {
			c.Email.ToEmail = f.toEmail
		}
		if set("subject-prefix") {
			c.Email.SubjectPrefix = f.subjectPrefix
		}
	case model.PlatformWxPusher:
		if c.WxPusher == nil {
			c.WxPusher = &model.WxPusherConfig{}
		}
		if set("app-token") {
			c.WxPusher.AppToken = f.appToken
		}
		if set("uid") {
			c.WxPusher.UID = f.uid
		}
		if set("topic-id") {
			c.WxPusher.TopicID = f.topicID
		}
		if set("summary-length") {
			c.WxPusher.SummaryLength = f.summaryLength
		}
		if set("content-type") {
			c.WxPusher.ContentType = f.contentType
		}
	case model.PlatformPushMe:
		if c.PushMe == nil {
			c.PushMe = &model.PushMeConfig{}
		}
		if set("push-key") {
			c.PushMe.PushKey = f.pushKey
		}
		if set("template") {
			c.PushMe.Template = f.template
		}
	default:
		return fmt.Errorf("unsupported platform %q", c.Platform)
	}
	return nil
}

func runPushConfigDelete(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	msg, err := a.Client.DeletePushConfig(cmd.Context(), id)
	if err != nil {
		return err
	}
	a.Notifier.Success(orDefault(msg, "deleted"))
	return nil
}

func runPushConfigToggle(enabled bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd.Context())
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		msg, err := a.Client.TogglePushConfig(cmd.Context(), id, enabled)
		if err != nil {
			return err
		}
		a.Notifier.Success(orDefault(msg, "updated"))
		return nil
	}
}

func runPushConfigTest(cmd *cobra.Command, args []string) error {
	a, err := appFrom(cmd.Context())
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	msg, err := a.Client.TestPushConfig(cmd.Context(), id)
	if err != nil {
		return err
	}
	a.Notifier.Success(orDefault(msg, "test message sent"))
	return nil
}

// target 推送目标的简短描述
func target(c model.PushConfig) string {
	switch {
	case c.Bark != nil:
		return "device " + mask(c.Bark.DeviceKey)
	case c.Email != nil:
		return c.Email.ToEmail
	case c.WxPusher != nil:
		if c.WxPusher.TopicID != "" {
			return "topic " + c.WxPusher.TopicID
		}
		return "uid " + c.WxPusher.UID
	case c.PushMe != nil:
		return "key " + mask(c.PushMe.PushKey)
	}
	return ""
}

func mask(s string) string {
	if len(s) <= 6 {
		return strings.Repeat("*", len(s))
	}
	return s[:3] + strings.Repeat("*", len(s)-6) + s[len(s)-3:]
}
