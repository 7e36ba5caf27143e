package mockserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vera-byte/vgo-pushctl/internal/config"
	"github.com/vera-byte/vgo-pushctl/internal/credential"
	"github.com/vera-byte/vgo-pushctl/internal/mockserver"
	"github.com/vera-byte/vgo-pushctl/pkg/client"
	"github.com/vera-byte/vgo-pushctl/pkg/model"
)

type backend struct {
	srv *mockserver.Server
	ts  *httptest.Server
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	store := mockserver.NewStore()
	require.NoError(t, mockserver.Seed(store))

	srv, err := mockserver.New(config.MockConfig{Mode: gin.TestMode}, store, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &backend{srv: srv, ts: ts}
}

func (b *backend) client(tokens *credential.MemoryStore) *client.Client {
	return client.New(client.Config{BaseURL: b.ts.URL}, tokens)
}

// loginAs 登录并返回已持有令牌的客户端
func (b *backend) loginAs(t *testing.T, username, password string) (*client.Client, *model.LoginResponse) {
	t.Helper()
	ctx := context.Background()

	tokens := credential.NewMemoryStore()
	c := b.client(tokens)
	resp, err := c.Login(ctx, model.LoginRequest{Username: username, Password: password})
	require.NoError(t, err)
	require.NoError(t, tokens.Set(ctx, client.TokenName, resp.Token, client.TokenTTL))
	return c, resp
}

func (b *backend) pushRaw(t *testing.T, userKey string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(b.ts.URL+"/api/message/push/"+userKey, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestLogin(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	c, resp := b.loginAs(t, mockserver.AdminUsername, mockserver.AdminPassword)
	assert.NotEmpty(t, resp.Token)
	assert.Contains(t, resp.Roles, model.RoleAdmin)
	assert.NotEmpty(t, resp.UserKey)

	user, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, mockserver.AdminUsername, user.Username)
	assert.True(t, user.HasRole(model.RoleAdmin))

	_, err = b.client(credential.NewMemoryStore()).Login(ctx, model.LoginRequest{Username: "admin", Password: "nope"})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, client.KindBusiness, apiErr.Kind)
	assert.Equal(t, mockserver.ErrBadCredentials.Error(), apiErr.Message)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	b := newBackend(t)

	_, err := b.client(credential.NewMemoryStore()).CurrentUser(context.Background())
	assert.True(t, client.IsUnauthorized(err))
}

func TestLogoutRevokesToken(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	c, _ := b.loginAs(t, mockserver.OperatorUsername, mockserver.OperatorPassword)
	require.NoError(t, c.Logout(ctx))

	_, err := c.CurrentUser(ctx)
	assert.True(t, client.IsUnauthorized(err))
}

func TestDictionaryRequiresAdmin(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	operator, _ := b.loginAs(t, mockserver.OperatorUsername, mockserver.OperatorPassword)
	_, err := operator.ListDictTypes(ctx, model.DictTypeQuery{})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, client.MsgForbidden, apiErr.Message)

	admin, _ := b.loginAs(t, mockserver.AdminUsername, mockserver.AdminPassword)
	page, err := admin.ListDictTypes(ctx, model.DictTypeQuery{PageNum: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}

func TestDictionaryCRUD(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	admin, _ := b.loginAs(t, mockserver.AdminUsername, mockserver.AdminPassword)

	msg, err := admin.CreateDictType(ctx, model.DictType{DictName: "Level", DictType: "message_level"})
	require.NoError(t, err)
	assert.Equal(t, "created", msg)

	page, err := admin.ListDictTypes(ctx, model.DictTypeQuery{DictType: "message_level"})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	created := page.Records[0]

	_, err = admin.CreateDictData(ctx, model.DictData{DictType: "message_level", DictLabel: "Active", DictValue: "active", DictSort: 1})
	require.NoError(t, err)

	label, err := admin.DictLabel(ctx, "message_level", "active")
	require.NoError(t, err)
	assert.Equal(t, "Active", label)

	items, err := admin.DictDataByType(ctx, "message_type")
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, model.MessageTypeNotification, items[0].DictValue)

	_, err = admin.CreateDictType(ctx, model.DictType{DictName: "Dup", DictType: "message_level"})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, mockserver.ErrDuplicate.Error(), apiErr.Message)

	_, err = admin.DeleteDictType(ctx, created.ID)
	require.NoError(t, err)
	_, err = admin.GetDictType(ctx, created.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	data, err := admin.ListDictData(ctx, model.DictDataQuery{DictType: "message_level"})
	require.NoError(t, err)
	assert.Zero(t, data.Total)
}

func TestPushConfigLifecycle(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	c, _ := b.loginAs(t, mockserver.OperatorUsername, mockserver.OperatorPassword)

	platforms, err := c.SupportedPlatforms(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, mockserver.SupportedPlatforms, platforms)

	_, err = c.CreatePushConfig(ctx, model.PushConfig{
		Platform:   model.PlatformBark,
		ConfigName: "Tablet",
		IsEnabled:  0,
		Bark:       &model.BarkConfig{DeviceKey: "k"},
	})
	require.NoError(t, err)

	barks, err := c.PushConfigsByPlatform(ctx, model.PlatformBark)
	require.NoError(t, err)
	require.Len(t, barks, 1)
	id := barks[0].ID

	_, err = c.TestPushConfig(ctx, id)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, mockserver.ErrDisabled.Error(), apiErr.Message)

	_, err = c.TogglePushConfig(ctx, id, true)
	require.NoError(t, err)
	msg, err := c.TestPushConfig(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, msg, model.PlatformBark)

	_, err = c.CreatePushConfig(ctx, model.PushConfig{Platform: model.PlatformEmail, ConfigName: "Mail"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, mockserver.ErrMissingSettings.Error(), apiErr.Message)

	stored, err := c.UserPushConfigs(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	_, err = c.DeletePushConfig(ctx, id)
	require.NoError(t, err)
	_, err = c.GetPushConfig(ctx, id)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestPushIngestionRecordsMessages(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	c, login := b.loginAs(t, mockserver.AdminUsername, mockserver.AdminPassword)

	resp := b.pushRaw(t, login.UserKey, model.MessagePushRequest{
		Title:       "Deploy",
		Content:     "v2 rolled out",
		MessageType: model.MessageTypeCustom,
		Tags:        []string{"release"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var env model.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.True(t, env.OK())

	page, err := c.ListMessages(ctx, model.MessageQuery{MessageType: model.MessageTypeCustom})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	msg := page.Records[0]
	assert.Equal(t, "Deploy", msg.Title)
	// 只有启用的 Bark 配置参与推送
	assert.Equal(t, []string{model.PlatformBark}, msg.PushedPlatforms)

	detail, err := c.GetMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, msg.Content, detail.Content)

	var id int64
	require.NoError(t, json.Unmarshal([]byte(msg.ID), &id))
	records, err := c.MessagePushRecords(ctx, id)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.PlatformBark, records[0].Platform)

	stats, err := c.MessageStatistics(ctx, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats["totalCount"])
	assert.EqualValues(t, 7, stats["days"])

	tags, err := c.TagNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, tags, "release")

	bad := b.pushRaw(t, "unknown", model.MessagePushRequest{Title: "x"})
	var badEnv model.Envelope
	require.NoError(t, json.NewDecoder(bad.Body).Decode(&badEnv))
	assert.False(t, badEnv.OK())
}

func TestTagPushConfigRoutesByTag(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()
	c, login := b.loginAs(t, mockserver.AdminUsername, mockserver.AdminPassword)

	configs, err := c.ListPushConfigs(ctx)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	var email model.PushConfig
	for _, cfg := range configs {
		if cfg.Platform == model.PlatformEmail {
			email = cfg
		}
	}
	_, err = c.TogglePushConfig(ctx, email.ID, true)
	require.NoError(t, err)

	_, err = c.SaveTagPushConfig(ctx, model.TagPushConfig{TagName: "ops", PushConfigIDs: []int64{email.ID}, IsEnabled: 1})
	require.NoError(t, err)

	tagConfigs, err := c.ListTagPushConfigs(ctx)
	require.NoError(t, err)
	require.Len(t, tagConfigs, 1)

	b.pushRaw(t, login.UserKey, model.MessagePushRequest{Title: "CPU", Content: "high", Tags: []string{"ops"}})
	page, err := c.ListMessages(ctx, model.MessageQuery{Size: 1})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, []string{model.PlatformEmail}, page.Records[0].PushedPlatforms)

	_, err = c.DeleteTagPushConfig(ctx, tagConfigs[0].ID)
	require.NoError(t, err)
}

func TestChangePasswordAndResetKey(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	first, _ := b.loginAs(t, mockserver.OperatorUsername, mockserver.OperatorPassword)
	second, login := b.loginAs(t, mockserver.OperatorUsername, mockserver.OperatorPassword)

	_, err := second.ChangePassword(ctx, model.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "x"})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, mockserver.ErrWrongPassword.Error(), apiErr.Message)

	_, err = second.ChangePassword(ctx, model.ChangePasswordRequest{CurrentPassword: mockserver.OperatorPassword, NewPassword: "secret"})
	require.NoError(t, err)

	_, err = first.CurrentUser(ctx)
	assert.True(t, client.IsUnauthorized(err))

	key, err := second.ResetUserKey(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, login.UserKey, key)

	user, err := second.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, key, user.UserKey)
}

func TestRoutesListsModules(t *testing.T) {
	b := newBackend(t)

	paths := make(map[string]bool)
	for _, r := range b.srv.Routes() {
		paths[r.Method+" "+r.Path] = true
	}
	assert.True(t, paths["POST /api/auth/login"])
	assert.True(t, paths["GET /api/dict/type/list"])
	assert.True(t, paths["PUT /api/user/push-config/:id/toggle"])
	assert.Len(t, b.srv.Modules(), 6)
}
