package router

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	authenticated bool
	admin         bool
}

func (s *fakeSession) IsAuthenticated() bool { return s.authenticated }
func (s *fakeSession) IsAdmin() bool         { return s.admin }

type errorRecorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *errorRecorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *errorRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

func TestResolve(t *testing.T) {
	table := DefaultTable()

	route, full := table.Resolve("/")
	assert.Equal(t, NameDashboard, route.Name)
	assert.Equal(t, "/dashboard", full)

	route, full = table.Resolve("/messages?page=2")
	assert.Equal(t, NameMessages, route.Name)
	assert.Equal(t, "/messages?page=2", full)

	route, _ = table.Resolve("/messages/")
	assert.Equal(t, NameMessages, route.Name)

	route, full = table.Resolve("/nowhere")
	assert.Equal(t, NameNotFound, route.Name)
	assert.Equal(t, "/nowhere", full)
	assert.True(t, route.Meta.AuthRequired())
}

func TestTitle(t *testing.T) {
	table := DefaultTable()

	r, ok := table.ByName(NameMessages)
	require.True(t, ok)
	assert.Equal(t, "Message Records - HisMsg", Title(r))
	assert.Equal(t, FallbackTitle, Title(Route{Path: "/x"}))
}

func TestGuardRedirectsAnonymousToLogin(t *testing.T) {
	g := NewGuard(nil, &fakeSession{}, nil)

	d := g.Check("/messages")
	assert.Equal(t, Redirect, d.Action)
	assert.Equal(t, ReasonLoginRequired, d.Reason)
	assert.Equal(t, "/login?redirect=%2Fmessages", d.Location)

	d = g.Check("/login")
	assert.Equal(t, Proceed, d.Action)
	assert.Equal(t, "Login - HisMsg", d.Title)
}

func TestGuardSendsLoggedInUserAwayFromLogin(t *testing.T) {
	g := NewGuard(nil, &fakeSession{authenticated: true}, nil)

	d := g.Check("/login")
	assert.Equal(t, Redirect, d.Action)
	assert.Equal(t, ReasonAlreadyLogged, d.Reason)
	assert.Equal(t, PathDashboard, d.Location)
}

func TestGuardAdminOnly(t *testing.T) {
	notes := &errorRecorder{}
	g := NewGuard(nil, &fakeSession{authenticated: true}, notes)

	d := g.Check("/dict-management")
	assert.Equal(t, Redirect, d.Action)
	assert.Equal(t, ReasonAdminOnly, d.Reason)
	assert.Equal(t, PathDashboard, d.Location)
	assert.Equal(t, []string{MsgForbidden}, notes.all())

	admin := NewGuard(nil, &fakeSession{authenticated: true, admin: true}, notes)
	d = admin.Check("/dict-management")
	assert.Equal(t, Proceed, d.Action)
	assert.Equal(t, "Dictionary - HisMsg", d.Title)
	assert.Len(t, notes.all(), 1)
}

func TestGuardAnonymousAdminRouteAsksForLoginFirst(t *testing.T) {
	notes := &errorRecorder{}
	g := NewGuard(nil, &fakeSession{}, notes)

	d := g.Check("/dict-management")
	assert.Equal(t, ReasonLoginRequired, d.Reason)
	assert.Empty(t, notes.all())
}

func TestNavigateFollowsRedirects(t *testing.T) {
	sess := &fakeSession{}
	nav := NewNavigator(NewGuard(nil, sess, nil), nil, nil)

	res, err := nav.Navigate(context.Background(), "/push-config")
	require.NoError(t, err)
	assert.True(t, res.Redirected())
	assert.Equal(t, ReasonLoginRequired, res.FirstReason())
	assert.Equal(t, NameLogin, res.Route.Name)
	assert.Equal(t, "/login?redirect=%2Fpush-config", res.Location)
	assert.Equal(t, res.Location, nav.Current().Location)

	sess.authenticated = true
	res, err = nav.Navigate(context.Background(), "/")
	require.NoError(t, err)
	assert.False(t, res.Redirected())
	assert.Equal(t, NameDashboard, res.Route.Name)
	assert.Equal(t, "Dashboard - HisMsg", res.Title)
}

type blockingProgress struct {
	mu      sync.Mutex
	started []string
	done    []string
	block   map[string]chan struct{}
	entered chan string
}

func (p *blockingProgress) Start(path string) {
	p.mu.Lock()
	p.started = append(p.started, path)
	ch := p.block[path]
	p.mu.Unlock()
	if ch != nil {
		p.entered <- path
		<-ch
	}
}

func (p *blockingProgress) Done(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = append(p.done, path)
}

func TestNavigateSupersededByNewerNavigation(t *testing.T) {
	release := make(chan struct{})
	progress := &blockingProgress{
		block:   map[string]chan struct{}{"/messages": release},
		entered: make(chan string, 1),
	}
	nav := NewNavigator(NewGuard(nil, &fakeSession{authenticated: true}, nil), progress, nil)

	errc := make(chan error, 1)
	go func() {
		_, err := nav.Navigate(context.Background(), "/messages")
		errc <- err
	}()
	<-progress.entered

	res, err := nav.Navigate(context.Background(), "/push-docs")
	require.NoError(t, err)
	assert.Equal(t, NamePushDocs, res.Route.Name)

	close(release)
	assert.ErrorIs(t, <-errc, ErrNavigationSuperseded)
	assert.Equal(t, NamePushDocs, nav.Current().Route.Name)

	progress.mu.Lock()
	defer progress.mu.Unlock()
	assert.ElementsMatch(t, []string{"/messages", "/push-docs"}, progress.done)
}

func TestNavigateHonoursCallerCancellation(t *testing.T) {
	nav := NewNavigator(NewGuard(nil, &fakeSession{authenticated: true}, nil), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := nav.Navigate(ctx, "/messages")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, nav.Current())
}

func TestForcedRedirectSkipsGuard(t *testing.T) {
	nav := NewNavigator(NewGuard(nil, &fakeSession{authenticated: true}, nil), nil, nil)

	nav.Redirect(PathLogin)
	cur := nav.Current()
	require.NotNil(t, cur)
	assert.Equal(t, NameLogin, cur.Route.Name)
	assert.Equal(t, "Login - HisMsg", cur.Title)
}
