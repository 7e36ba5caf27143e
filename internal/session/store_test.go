package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vera-byte/vgo-pushctl/internal/credential"
	"github.com/vera-byte/vgo-pushctl/internal/notify"
	"github.com/vera-byte/vgo-pushctl/pkg/client"
	"github.com/vera-byte/vgo-pushctl/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	loginResp   *model.LoginResponse
	loginErr    error
	logoutErr   error
	user        *model.User
	userErr     error
	logoutCalls int
	userCalls   int
}

func (f *fakeAPI) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAPI) CurrentUser(ctx context.Context) (*model.User, error) {
	f.userCalls++
	return f.user, f.userErr
}

func tokenOf(t *testing.T, store credential.Store) (string, error) {
	t.Helper()
	return store.Get(context.Background(), client.TokenName)
}

func TestLoginAgainstEnvelopeBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":{"token":"T","userId":1,"username":"u","expiresIn":3600}}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	creds := credential.NewMemoryStore()
	rec := notify.NewRecorder()
	c := client.New(client.Config{BaseURL: srv.URL}, creds, client.WithNotifier(rec))
	s := New(ctx, c, creds, WithQuietAPI(c.Quiet()), WithNotifier(rec))

	require.NoError(t, s.Login(ctx, model.LoginRequest{Username: "u", Password: "p"}))

	assert.True(t, s.IsAuthenticated())
	require.NotNil(t, s.CurrentUser())
	assert.Equal(t, int64(1), s.CurrentUser().ID)
	assert.Equal(t, "u", s.CurrentUser().Username)
	assert.False(t, s.Loading())
	assert.False(t, s.IsAdmin())

	token, err := tokenOf(t, creds)
	require.NoError(t, err)
	assert.Equal(t, "T", token)
	assert.Equal(t, []string{MsgLoginSuccess}, rec.Successes())
}

func TestLoginSetsCredentialExpiry(t *testing.T) {
	ctx := context.Background()
	creds := &recordingStore{Store: credential.NewMemoryStore()}
	api := &fakeAPI{loginResp: &model.LoginResponse{Token: "T", UserID: 2, Username: "root", Roles: []string{model.RoleAdmin}}}
	s := New(ctx, api, creds)

	require.NoError(t, s.Login(ctx, model.LoginRequest{Username: "root"}))
	assert.Equal(t, client.TokenTTL, creds.lastTTL)
	assert.Equal(t, 7*24*time.Hour, creds.lastTTL)
	assert.True(t, s.IsAdmin())
}

func TestLoginFailure(t *testing.T) {
	ctx := context.Background()
	creds := credential.NewMemoryStore()
	rec := notify.NewRecorder()
	api := &fakeAPI{loginErr: errors.New("bad credentials")}
	s := New(ctx, api, creds, WithNotifier(rec))

	err := s.Login(ctx, model.LoginRequest{Username: "u", Password: "x"})
	require.EqualError(t, err, "bad credentials")
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.CurrentUser())
	assert.False(t, s.Loading())
	assert.Equal(t, []string{"bad credentials"}, rec.Errors())
}

func TestLoginFailureAlreadyPresented(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":400,"message":"wrong password"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	creds := credential.NewMemoryStore()
	rec := notify.NewRecorder()
	c := client.New(client.Config{BaseURL: srv.URL}, creds, client.WithNotifier(rec))
	s := New(ctx, c, creds, WithNotifier(rec))

	require.Error(t, s.Login(ctx, model.LoginRequest{Username: "u", Password: "x"}))
	assert.Equal(t, []string{"wrong password"}, rec.Errors())
}

func TestLogoutAlwaysClears(t *testing.T) {
	ctx := context.Background()
	creds := credential.NewMemoryStore()
	require.NoError(t, creds.Set(ctx, client.TokenName, "T", time.Hour))
	rec := notify.NewRecorder()
	api := &fakeAPI{logoutErr: errors.New("boom"), user: &model.User{ID: 1, Username: "u"}}
	s := New(ctx, api, creds, WithNotifier(rec))
	require.NoError(t, s.Restore(ctx))
	require.NotNil(t, s.CurrentUser())

	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, 1, api.logoutCalls)
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.CurrentUser())
	_, err := tokenOf(t, creds)
	assert.ErrorIs(t, err, credential.ErrNotFound)
	assert.Empty(t, rec.Errors())
	assert.Equal(t, []string{MsgLoggedOut}, rec.Successes())
}

// brokenJar 删除总是失败的凭据存储
type brokenJar struct {
	credential.Store
}

func (brokenJar) Remove(ctx context.Context, name string) error {
	return errors.New("disk full")
}

func TestLogoutSucceedsWhenTokenRemovalFails(t *testing.T) {
	ctx := context.Background()
	mem := credential.NewMemoryStore()
	require.NoError(t, mem.Set(ctx, client.TokenName, "T", time.Hour))
	rec := notify.NewRecorder()
	api := &fakeAPI{user: &model.User{ID: 1, Username: "u"}}
	s := New(ctx, api, brokenJar{Store: mem}, WithNotifier(rec))
	require.True(t, s.IsAuthenticated())

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.CurrentUser())
	assert.Empty(t, rec.Errors())
	assert.Equal(t, []string{MsgLoggedOut}, rec.Successes())
}

func TestLoginAndLogoutWithCorruptCredentialFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	creds := credential.NewFileStore(path, nil)

	api := &fakeAPI{loginResp: &model.LoginResponse{Token: "T", UserID: 1, Username: "u"}}
	s := New(ctx, api, creds)
	assert.False(t, s.IsAuthenticated())

	require.NoError(t, s.Login(ctx, model.LoginRequest{Username: "u", Password: "p"}))
	assert.True(t, s.IsAuthenticated())
	token, err := tokenOf(t, creds)
	require.NoError(t, err)
	assert.Equal(t, "T", token)

	require.NoError(t, s.Logout(ctx))
	_, err = tokenOf(t, creds)
	assert.ErrorIs(t, err, credential.ErrNotFound)
}

func TestRestoreWithoutTokenIsNoop(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{user: &model.User{ID: 1}}
	s := New(ctx, api, credential.NewMemoryStore())

	require.NoError(t, s.Restore(ctx))
	assert.Zero(t, api.userCalls)
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.CurrentUser())
}

func TestRestoreFetchesProfile(t *testing.T) {
	ctx := context.Background()
	creds := credential.NewMemoryStore()
	require.NoError(t, creds.Set(ctx, client.TokenName, "T", time.Hour))
	api := &fakeAPI{user: &model.User{ID: 3, Username: "ops"}}
	s := New(ctx, api, creds)

	assert.Equal(t, "T", s.Token())
	assert.Nil(t, s.CurrentUser())

	require.NoError(t, s.Restore(ctx))
	assert.Equal(t, 1, api.userCalls)
	assert.Equal(t, "ops", s.CurrentUser().Username)
}

func TestRestoreFailureClearsSilently(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	ctx := context.Background()
	creds := credential.NewMemoryStore()
	require.NoError(t, creds.Set(ctx, client.TokenName, "stale", time.Hour))
	rec := notify.NewRecorder()
	redirected := 0
	c := client.New(client.Config{BaseURL: srv.URL}, creds,
		client.WithNotifier(rec),
		client.WithUnauthorizedHandler(func(context.Context) { redirected++ }))
	s := New(ctx, c, creds, WithQuietAPI(c.Quiet()), WithNotifier(rec))

	require.NoError(t, s.Restore(ctx))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.CurrentUser())
	_, err := tokenOf(t, creds)
	assert.ErrorIs(t, err, credential.ErrNotFound)
	assert.Empty(t, rec.Entries())
	assert.Zero(t, redirected)
}

func TestPatchUser(t *testing.T) {
	ctx := context.Background()
	creds := credential.NewMemoryStore()
	api := &fakeAPI{loginResp: &model.LoginResponse{Token: "T", UserID: 1, Username: "u", Email: "old@example.com"}}
	s := New(ctx, api, creds)

	nick := "Nick"
	s.PatchUser(model.UserPatch{Nickname: &nick})
	assert.Nil(t, s.CurrentUser())

	require.NoError(t, s.Login(ctx, model.LoginRequest{Username: "u"}))
	key := "new-key"
	s.PatchUser(model.UserPatch{Nickname: &nick, UserKey: &key})

	u := s.CurrentUser()
	assert.Equal(t, "Nick", u.Nickname)
	assert.Equal(t, "new-key", u.UserKey)
	assert.Equal(t, "old@example.com", u.Email)
	assert.Equal(t, "u", u.Username)
}

func TestExpire(t *testing.T) {
	ctx := context.Background()
	creds := credential.NewMemoryStore()
	api := &fakeAPI{loginResp: &model.LoginResponse{Token: "T", UserID: 1, Username: "u"}}
	s := New(ctx, api, creds)
	require.NoError(t, s.Login(ctx, model.LoginRequest{Username: "u"}))

	s.Expire(ctx)
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.CurrentUser())
	_, err := tokenOf(t, creds)
	assert.ErrorIs(t, err, credential.ErrNotFound)
}

type recordingStore struct {
	credential.Store
	lastTTL time.Duration
}

func (r *recordingStore) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	r.lastTTL = ttl
	return r.Store.Set(ctx, name, value, ttl)
}
