package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mousybusiness/gsignin/internal/config"
	"github.com/mousybusiness/gsignin/pkg/backend"
	"github.com/mousybusiness/gsignin/pkg/creds"
	"github.com/mousybusiness/gsignin/pkg/google"
	"github.com/mousybusiness/gsignin/pkg/state"
	"github.com/mousybusiness/gsignin/pkg/storage"
	"github.com/mousybusiness/gsignin/pkg/ui"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFlow struct {
	kind creds.Kind
}

func (f fakeFlow) Acquire(context.Context) (creds.Credential, error) {
	return creds.Credential{Kind: f.kind, Token: "tok"}, nil
}

func (f fakeFlow) UserInfo(context.Context, string) (google.UserInfo, error) {
	return google.UserInfo{ID: "1", Email: "ada@example.com"}, nil
}

// fakeServer is a backend that signs everyone in as user 7.
type fakeServer struct {
	mu    sync.Mutex
	paths []string
}

func (s *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.paths = append(s.paths, r.Method+" "+r.URL.Path)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == backend.LinkPath {
		if r.Header.Get("Authorization") != "Bearer A" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Unauthorized"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success":       true,
		"access_token":  "A",
		"refresh_token": "R",
		"user":          map[string]interface{}{"id": 7, "email": "ada@example.com"},
	})
}

func newApp(t *testing.T, vars map[string]string, dir string) *App {
	t.Helper()
	srv := httptest.NewServer(&fakeServer{})
	t.Cleanup(srv.Close)

	env := map[string]string{
		"GOOGLE_CLIENT_ID":     "client-id",
		"GSIGNIN_BACKEND_URL":  srv.URL,
		"GSIGNIN_STORAGE_PATH": filepath.Join(dir, "session.json"),
	}
	for k, v := range vars {
		env[k] = v
	}

	c, err := config.LoadFrom(env)
	require.NoError(t, err)

	a, err := New(c, Options{Acquirers: func(kind creds.Kind) (ui.Acquirer, error) {
		return fakeFlow{kind: kind}, nil
	}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestAppLifecycle(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	a := newApp(t, nil, dir)

	assert.False(t, a.Store().State().Authenticated)
	_, err := a.Link(ctx)
	assert.True(t, errors.Is(err, ErrSignedOut))

	user, _, err := a.SignIn(ctx, ui.SignInMode, ui.Standard)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.False(t, user.GoogleLinked)

	l, err := a.Link(ctx)
	require.NoError(t, err)
	assert.True(t, l.Linked())
	assert.True(t, a.Store().State().User.GoogleLinked)

	// A second process sees the stored session and its link flag.
	b := newApp(t, nil, dir)
	st := b.Store().State()
	require.True(t, st.Authenticated)
	assert.Equal(t, "A", st.AccessToken)
	assert.True(t, st.User.GoogleLinked)

	l, err = b.Unlink(ctx)
	require.NoError(t, err)
	assert.False(t, l.Linked())
	assert.True(t, b.Store().State().Authenticated)

	require.NoError(t, b.Logout(ctx))
	assert.False(t, b.Store().State().Authenticated)
	assert.False(t, newApp(t, nil, dir).Store().State().Authenticated)
}

func TestAppCustomVariant(t *testing.T) {
	a := newApp(t, map[string]string{"GSIGNIN_LANG": "zh-CN"}, t.TempDir())

	user, b, err := a.SignIn(context.Background(), ui.SignUpMode, ui.Custom)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "[ 使用 Google 注册 ]", b.Render())
}

func TestAppWithoutClientID(t *testing.T) {
	a := newApp(t, map[string]string{"GOOGLE_CLIENT_ID": ""}, t.TempDir())

	_, b, err := a.SignIn(context.Background(), ui.SignInMode, ui.Standard)
	assert.True(t, errors.Is(err, ui.ErrNotConfigured))
	assert.True(t, b.Disabled())
	assert.False(t, a.Store().State().Authenticated)
}

func errorEntries(hook *test.Hook) []*log.Entry {
	var out []*log.Entry
	for _, e := range hook.AllEntries() {
		if e.Level <= log.ErrorLevel {
			out = append(out, e)
		}
	}
	return out
}

func TestAppUnlinkAndLogoutWithoutClientID(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	st, err := storage.NewFile(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, creds.Session{
		AccessToken:  "A",
		RefreshToken: "R",
		User:         creds.UserProfile{ID: 7, GoogleLinked: true},
	}))

	hook := test.NewGlobal()
	defer hook.Reset()

	a := newApp(t, map[string]string{"GOOGLE_CLIENT_ID": ""}, dir)

	l, err := a.Unlink(ctx)
	require.NoError(t, err)
	assert.False(t, l.Linked())
	assert.False(t, a.Store().State().User.GoogleLinked)

	require.NoError(t, a.Logout(ctx))
	assert.Empty(t, errorEntries(hook))
}

func TestAppLogsTransitions(t *testing.T) {
	level := log.GetLevel()
	log.SetLevel(log.DebugLevel)
	defer log.SetLevel(level)

	a := newApp(t, nil, t.TempDir())
	hook := test.NewGlobal()
	defer hook.Reset()

	_, _, err := a.SignIn(context.Background(), ui.SignInMode, ui.Standard)
	require.NoError(t, err)

	var found *log.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "auth state changed" {
			found = e
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, true, found.Data["authenticated"])
	assert.Equal(t, int64(7), found.Data["user"])

	// closed apps stop observing the store
	require.NoError(t, a.Close())
	hook.Reset()
	a.Store().Dispatch(state.Logout{})
	assert.Empty(t, hook.AllEntries())
}
