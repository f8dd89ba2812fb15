package views

import (
	"context"
	"sync"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/logger"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/ports"
)

const loginAlert = "Error logging in"

type LoginState int

const (
	LoginIdle LoginState = iota
	LoginRedirecting
)

func (s LoginState) String() string {
	if s == LoginRedirecting {
		return "redirecting"
	}
	return "idle"
}

// Login starts a redirect-based sign-in. While a request is pending further submits are inert.
type Login struct {
	auth     ports.Authenticator
	provider string
	opts     domain.SignInOptions
	log      logger.Logger

	mu    sync.Mutex
	state LoginState
	alert string
}

// NewLogin prepares a Google sign-in that returns to callbackURL and always shows the account picker.
func NewLogin(auth ports.Authenticator, callbackURL string, log logger.Logger) *Login {
	return &Login{
		auth:     auth,
		provider: "google",
		opts:     domain.SignInOptions{RedirectTo: callbackURL, SelectAccount: true},
		log:      log,
		state:    LoginIdle,
	}
}

// Submit asks the provider for a consent URL. On success the view stays in
// LoginRedirecting because the browser leaves the app.
func (l *Login) Submit(ctx context.Context) (*domain.Redirect, error) {
	l.mu.Lock()
	if l.state == LoginRedirecting {
		l.mu.Unlock()
		return nil, domain.ErrBusy
	}
	l.state = LoginRedirecting
	l.alert = ""
	l.mu.Unlock()

	redirect, err := l.auth.SignInWithRedirect(ctx, l.provider, l.opts)
	if err != nil {
		l.log.Error("sign-in initiation failed", logger.String("provider", l.provider), logger.Error(err))
		l.mu.Lock()
		l.state = LoginIdle
		l.alert = loginAlert
		l.mu.Unlock()
		return nil, err
	}
	return redirect, nil
}

func (l *Login) State() LoginState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Disabled reports whether the sign-in button should be inert.
func (l *Login) Disabled() bool {
	return l.State() == LoginRedirecting
}

func (l *Login) Alert() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.alert
}

// MarkPending records a sign-in this browser already started, so the next
// Submit is refused with ErrBusy.
func (l *Login) MarkPending() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = LoginRedirecting
}
