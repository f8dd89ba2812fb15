package domain

import (
	"context"
	"time"
)

// User is the identity returned by the sign-in provider
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Session is an authenticated user plus the id of the token that carries it
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SignInOptions tunes a redirect-based sign-in
type SignInOptions struct {
	RedirectTo    string // Where the provider sends the user after consent
	SelectAccount bool   // Force the provider's account picker
}

// Redirect is a pending sign-in: the consent URL and the state it must echo back
type Redirect struct {
	URL   string
	State string
}

type sessionKey struct{}

func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
