// Package app wires the sign-in components from a Config. The CLI and the
// library bindings drive the same App.
package app

import (
	"context"
	"sync"

	"github.com/mousybusiness/gsignin/internal/config"
	"github.com/mousybusiness/gsignin/internal/i18n"
	"github.com/mousybusiness/gsignin/pkg/backend"
	"github.com/mousybusiness/gsignin/pkg/creds"
	"github.com/mousybusiness/gsignin/pkg/google"
	"github.com/mousybusiness/gsignin/pkg/session"
	"github.com/mousybusiness/gsignin/pkg/state"
	"github.com/mousybusiness/gsignin/pkg/storage"
	"github.com/mousybusiness/gsignin/pkg/ui"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const title = "gsignin"

// ErrSignedOut is returned by operations that need a session.
var ErrSignedOut = errors.New("not signed in")

type (
	Options struct {
		// Navigator receives the dashboard path after sign-in.
		Navigator session.Navigator
		// Acquirers defaults to the browser-based Google flow.
		Acquirers ui.AcquirerFactory
	}

	App struct {
		config    config.Config
		storage   storage.Storage
		store     *state.Store
		client    *backend.Client
		persister *session.Persister
		localizer *i18n.Localizer

		// the provider is built on first use, so flows that never talk to
		// Google do not need a client ID
		build        ui.AcquirerFactory
		providerOnce sync.Once
		provider     *ui.Provider

		unsubscribe func()
	}
)

// New opens the configured storage and hydrates the state from it.
func New(c config.Config, opts Options) (*App, error) {
	st, err := storage.Open(storage.Options{Kind: c.Storage, Path: c.StoragePath, RedisAddr: c.RedisAddr})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open storage")
	}

	initial := state.State{}
	s, err := st.Load(context.Background())
	switch {
	case err == nil:
		initial = state.FromSession(s)
	case !errors.Is(err, storage.ErrNoSession):
		log.Warnf("ignoring stored session: %v", err)
	}
	store := state.New(initial)

	client, err := backend.New(c.BackendURL, c.Timeout)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	persister, err := session.New(st, store, opts.Navigator)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	build := opts.Acquirers
	if build == nil && c.Enabled() {
		build = googleFlows(c)
	}

	return &App{
		config:      c,
		storage:     st,
		store:       store,
		client:      client,
		persister:   persister,
		localizer:   i18n.New(c.Lang),
		build:       build,
		unsubscribe: store.Subscribe(logTransition),
	}, nil
}

func logTransition(st state.State) {
	fields := log.Fields{"authenticated": st.Authenticated}
	if st.User != nil {
		fields["user"] = st.User.ID
		fields["google_linked"] = st.User.GoogleLinked
	}
	log.WithFields(fields).Debug("auth state changed")
}

func googleFlows(c config.Config) ui.AcquirerFactory {
	return func(kind creds.Kind) (ui.Acquirer, error) {
		f, err := google.New(google.Config{
			Title:        title,
			Port:         c.Port,
			ClientID:     c.GoogleClientID,
			ClientSecret: c.GoogleClientSecret,
			Kind:         kind,
			RedirectURL:  c.RedirectURL,
		})
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

func (a *App) googleProvider() *ui.Provider {
	a.providerOnce.Do(func() {
		a.provider = ui.NewProvider(a.config.GoogleClientID, a.build)
	})
	return a.provider
}

func (a *App) Store() *state.Store {
	return a.store
}

// Button returns a sign-in button enabled by the app's provider.
func (a *App) Button(mode ui.Mode, variant ui.Variant) (*ui.Button, error) {
	b, err := ui.NewButton(ui.ButtonConfig{
		Mode:      mode,
		Variant:   variant,
		Exchanger: a.client,
		Sink:      a.persister,
		Localizer: a.localizer,
	})
	if err != nil {
		return nil, err
	}
	a.googleProvider().Wrap(b)
	return b, nil
}

// LinkPanel returns the link panel of the signed-in user.
func (a *App) LinkPanel() (*ui.LinkPanel, error) {
	st := a.store.State()
	if !st.Authenticated || st.User == nil {
		return nil, ErrSignedOut
	}

	l, err := ui.NewLinkPanel(ui.LinkPanelConfig{
		Linker: a.client,
		SessionToken: func() string {
			return a.store.State().AccessToken
		},
		Linked:    st.User.GoogleLinked,
		Localizer: a.localizer,
		OnChange:  a.linkChanged,
	})
	if err != nil {
		return nil, err
	}
	// a linked account only needs Google again once it is unlinked
	if !st.User.GoogleLinked || a.config.Enabled() {
		a.googleProvider().Wrap(l)
	}
	return l, nil
}

func (a *App) linkChanged(linked bool) {
	st := a.store.State()
	if st.User == nil {
		return
	}
	u := *st.User
	u.GoogleLinked = linked
	if err := a.persister.UpdateUser(context.Background(), u); err != nil {
		log.Errorf("failed to store link change: %v", err)
	}
}

// SignIn runs one sign-in with a fresh button and returns the user.
func (a *App) SignIn(ctx context.Context, mode ui.Mode, variant ui.Variant) (creds.UserProfile, *ui.Button, error) {
	b, err := a.Button(mode, variant)
	if err != nil {
		return creds.UserProfile{}, nil, err
	}

	if err := b.Click(ctx); err != nil {
		return creds.UserProfile{}, b, err
	}

	st := a.store.State()
	if st.User == nil {
		return creds.UserProfile{}, b, ErrSignedOut
	}
	return *st.User, b, nil
}

func (a *App) Link(ctx context.Context) (*ui.LinkPanel, error) {
	l, err := a.LinkPanel()
	if err != nil {
		return nil, err
	}
	return l, l.Link(ctx)
}

func (a *App) Unlink(ctx context.Context) (*ui.LinkPanel, error) {
	l, err := a.LinkPanel()
	if err != nil {
		return nil, err
	}
	return l, l.Unlink(ctx)
}

// Logout forgets the local session. The backend is not told.
func (a *App) Logout(ctx context.Context) error {
	return a.persister.Clear(ctx)
}

func (a *App) Close() error {
	a.unsubscribe()
	return a.storage.Close()
}
