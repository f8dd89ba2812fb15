package views

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
)

var errBackend = errors.New("backend unavailable")

type fakeStore struct {
	mu        sync.Mutex
	rows      []domain.Bookmark
	nextID    int64
	listErr   error
	insertErr error
	deleteErr error
	inserts   int
	deletes   int
}

func (f *fakeStore) ListBookmarks(_ context.Context, ownerID string) ([]domain.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Bookmark
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].OwnerID == ownerID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeStore) InsertBookmark(_ context.Context, b *domain.Bookmark) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Date(2026, 1, 1, 0, 0, int(f.nextID), 0, time.UTC)
	f.rows = append(f.rows, *b)
	return nil
}

func (f *fakeStore) DeleteBookmark(_ context.Context, ownerID string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, b := range f.rows {
		if b.ID == id && b.OwnerID == ownerID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeAuth struct {
	mu          sync.Mutex
	user        *domain.User
	signInErr   error
	signInCalls int
	signOuts    int
	signOutErr  error
	block       chan struct{} // when set, SignInWithRedirect waits on it
	lastOpts    domain.SignInOptions
}

func (f *fakeAuth) SignInWithRedirect(_ context.Context, provider string, opts domain.SignInOptions) (*domain.Redirect, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signInCalls++
	f.lastOpts = opts
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &domain.Redirect{URL: "https://accounts.example/auth?provider=" + provider, State: "state-1"}, nil
}

func (f *fakeAuth) CurrentUser(context.Context) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user, nil
}

func (f *fakeAuth) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts++
	f.user = nil
	return f.signOutErr
}
