package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vera-byte/vgo-pushctl/internal/credential"
	"github.com/vera-byte/vgo-pushctl/internal/notify"
	"github.com/vera-byte/vgo-pushctl/pkg/client"
	"github.com/vera-byte/vgo-pushctl/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server   *httptest.Server
	store    *credential.MemoryStore
	recorder *notify.Recorder
	client   *client.Client
	expired  int
	lastReq  *http.Request
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()
	f := &fixture{
		store:    credential.NewMemoryStore(),
		recorder: notify.NewRecorder(),
	}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.lastReq = r
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)

	f.client = client.New(client.Config{BaseURL: f.server.URL, Timeout: time.Second}, f.store,
		client.WithNotifier(f.recorder),
		client.WithUnauthorizedHandler(func(context.Context) { f.expired++ }),
	)
	return f
}

func writeEnvelope(w http.ResponseWriter, status int, env model.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func TestBearerTokenAttachedOnlyWhenSet(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, model.APIResponse{Code: 200, Message: "ok", Data: []string{"bark"}})
	})
	ctx := context.Background()

	_, err := f.client.SupportedPlatforms(ctx)
	require.NoError(t, err)
	assert.Empty(t, f.lastReq.Header.Get("Authorization"))
	assert.Equal(t, "/api/user/push-config/platforms", f.lastReq.URL.Path)

	require.NoError(t, f.store.Set(ctx, client.TokenName, "T", time.Hour))
	_, err = f.client.SupportedPlatforms(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer T", f.lastReq.Header.Get("Authorization"))
	assert.Equal(t, "application/json;charset=utf-8", f.lastReq.Header.Get("Content-Type"))
}

func TestSuccessUnwrapsEnvelope(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, model.APIResponse{Code: 200, Message: "fetched", Data: model.User{ID: 7, Username: "u"}})
	})

	resp, err := client.Get[model.User](context.Background(), f.client, "/user/current", nil)
	require.NoError(t, err)
	assert.Equal(t, "fetched", resp.Message)
	assert.Equal(t, int64(7), resp.Data.ID)
	assert.Equal(t, "u", resp.Data.Username)
	assert.Empty(t, f.recorder.Entries())
}

func TestBusinessErrorNotifies(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    string
	}{
		{name: "server message", message: "dict type exists", want: "dict type exists"},
		{name: "fallback", message: "", want: client.MsgRequestFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusOK, model.APIResponse{Code: 500, Message: tc.message})
			})

			_, err := f.client.CreateDictType(context.Background(), model.DictType{DictType: "x"})
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())

			var apiErr *client.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, client.KindBusiness, apiErr.Kind)
			assert.Equal(t, 500, apiErr.Code)
			assert.True(t, apiErr.Presented())
			assert.Equal(t, []string{tc.want}, f.recorder.Errors())
			assert.Zero(t, f.expired)
		})
	}
}

func TestUnauthorizedClearsTokenOnce(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, model.APIResponse{Code: 401, Message: "token expired"})
	})
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, client.TokenName, "T", time.Hour))

	_, err := f.client.ListPushConfigs(ctx)
	require.Error(t, err)
	assert.True(t, client.IsUnauthorized(err))
	assert.Equal(t, 1, f.expired)
	assert.Equal(t, []string{client.MsgSessionExpired}, f.recorder.Errors())

	_, err = f.store.Get(ctx, client.TokenName)
	assert.ErrorIs(t, err, credential.ErrNotFound)

	_, err = f.client.ListPushConfigs(ctx)
	require.Error(t, err)
	assert.Equal(t, 2, f.expired)
}

func TestStatusErrors(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   string
	}{
		{status: http.StatusForbidden, want: client.MsgForbidden},
		{status: http.StatusNotFound, want: client.MsgNotFound},
		{status: http.StatusInternalServerError, want: client.MsgServerError},
		{status: http.StatusTeapot, body: `{"code":418,"message":"short and stout"}`, want: "short and stout"},
		{status: http.StatusBadGateway, body: "<html>bad gateway</html>", want: "request failed (502)"},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := f.client.ListTagPushConfigs(context.Background())
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
			assert.Equal(t, []string{tc.want}, f.recorder.Errors())
			assert.Zero(t, f.expired)
		})
	}
}

func TestNetworkError(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	f.server.Close()

	_, err := f.client.TagNames(context.Background())
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, client.KindNetwork, apiErr.Kind)
	assert.Equal(t, []string{client.MsgNetwork}, f.recorder.Errors())
}

func TestConfigError(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not be dispatched")
	})

	_, err := client.Post[struct{}](context.Background(), f.client, "/dict/type", make(chan int))
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, client.KindConfig, apiErr.Kind)
	assert.Equal(t, []string{client.MsgConfig}, f.recorder.Errors())
}

func TestQuietClientHasNoSideEffects(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, model.APIResponse{Code: 401})
	})
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, client.TokenName, "T", time.Hour))

	_, err := f.client.Quiet().CurrentUser(ctx)
	require.Error(t, err)
	assert.True(t, client.IsUnauthorized(err))
	assert.Empty(t, f.recorder.Entries())
	assert.Zero(t, f.expired)

	token, err := f.store.Get(ctx, client.TokenName)
	require.NoError(t, err)
	assert.Equal(t, "T", token)
}

func TestQueryParameters(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, model.APIResponse{Code: 200, Message: "ok", Data: map[string]int{"total": 3}})
	})
	ctx := context.Background()

	stats, err := f.client.MessageStatistics(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "7", f.lastReq.URL.Query().Get("days"))
	assert.EqualValues(t, 3, stats["total"])

	msg, err := f.client.TogglePushConfig(ctx, 5, false)
	require.NoError(t, err)
	assert.Equal(t, "ok", msg)
	assert.Equal(t, http.MethodPut, f.lastReq.Method)
	assert.Equal(t, "/api/user/push-config/5/toggle", f.lastReq.URL.Path)
	assert.Equal(t, "false", f.lastReq.URL.Query().Get("enabled"))

	_, err = f.client.ListMessages(ctx, model.MessageQuery{Page: 2, Size: 20, MessageType: "bark"})
	require.NoError(t, err)
	q := f.lastReq.URL.Query()
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "20", q.Get("size"))
	assert.Equal(t, "bark", q.Get("messageType"))
	assert.False(t, q.Has("startTime"))
}

func TestDescribe(t *testing.T) {
	assert.Empty(t, client.Describe(client.Result{Kind: client.KindSuccess}))
	assert.Equal(t, client.MsgSessionExpired, client.Describe(client.Result{Kind: client.KindStatus, Status: 401, Message: "ignored"}))
	assert.Equal(t, client.MsgNetwork, client.Describe(client.Result{Kind: client.KindNetwork}))
	assert.Equal(t, client.MsgConfig, client.Describe(client.Result{Kind: client.KindConfig}))
	assert.Equal(t, "request failed (409)", client.Describe(client.Result{Kind: client.KindStatus, Status: 409}))
}

func TestConfigEndpoint(t *testing.T) {
	assert.Equal(t, "http://h:1/api", client.Config{BaseURL: "http://h:1/"}.Endpoint())
	assert.Equal(t, "http://h:1/v2/api", client.Config{BaseURL: "http://h:1", APIPrefix: "/v2/api/"}.Endpoint())
}
