package ports

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
)

// BookmarkStore defines storage operations for bookmarks.
// Every call is scoped to a single owner.
type BookmarkStore interface {
	ListBookmarks(ctx context.Context, ownerID string) ([]domain.Bookmark, error) // Newest first
	InsertBookmark(ctx context.Context, bookmark *domain.Bookmark) error         // Assigns ID and CreatedAt
	DeleteBookmark(ctx context.Context, ownerID string, id int64) error
}

// Authenticator is the session boundary the views talk to
type Authenticator interface {
	SignInWithRedirect(ctx context.Context, provider string, opts domain.SignInOptions) (*domain.Redirect, error)
	CurrentUser(ctx context.Context) (*domain.User, error) // nil, nil when signed out
	SignOut(ctx context.Context) error
}

// AuthService is the Authenticator plus the callback and cookie plumbing the HTTP layer needs
type AuthService interface {
	Authenticator

	Complete(ctx context.Context, provider, code string) (*domain.User, error)
	IssueSession(user *domain.User) (string, time.Time, error)
	Verify(ctx context.Context, token string) (*domain.Session, error)
}

// RevocationStore remembers signed-out sessions until their tokens expire
type RevocationStore interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}
