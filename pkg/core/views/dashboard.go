package views

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/logger"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/ports"
)

// LoginPath is where the dashboard sends the user after signing out.
const LoginPath = "/"

type DashboardState int

const (
	DashboardLoading DashboardState = iota
	DashboardReady
)

func (s DashboardState) String() string {
	if s == DashboardReady {
		return "ready"
	}
	return "loading"
}

// Dashboard holds one user's bookmark collection in memory.
// Only the dashboard itself mutates the collection, in response to its own completed requests.
type Dashboard struct {
	store ports.BookmarkStore
	auth  ports.Authenticator
	log   logger.Logger

	mu      sync.Mutex
	state   DashboardState
	items   []domain.Bookmark
	loadErr error
	notice  string
}

func NewDashboard(store ports.BookmarkStore, auth ports.Authenticator, log logger.Logger) *Dashboard {
	return &Dashboard{store: store, auth: auth, log: log, state: DashboardLoading}
}

// Load fetches the collection once. Success and failure both end in DashboardReady;
// on failure the collection stays empty and LoadErr reports why.
func (d *Dashboard) Load(ctx context.Context) error {
	items, err := d.fetch(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = DashboardReady
	if err != nil {
		d.items = nil
		d.loadErr = err
		d.notice = "Could not load your bookmarks."
		return err
	}
	d.items = items
	d.loadErr = nil
	return nil
}

func (d *Dashboard) fetch(ctx context.Context) ([]domain.Bookmark, error) {
	user, err := d.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	items, err := d.store.ListBookmarks(ctx, user.ID)
	if err != nil {
		d.log.Error("list bookmarks failed", logger.String("user_id", user.ID), logger.Error(err))
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return items, nil
}

// Add validates the form, inserts the bookmark and puts it at the head of the collection.
// An empty field or a missing identity returns before any store request.
func (d *Dashboard) Add(ctx context.Context, title, link string) (*domain.Bookmark, error) {
	title = strings.TrimSpace(title)
	link = strings.TrimSpace(link)
	if title == "" || link == "" {
		return nil, domain.ErrEmptyField
	}
	if !isLink(link) {
		return nil, domain.ErrInvalidURL
	}

	user, err := d.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	b := &domain.Bookmark{Title: title, URL: link, OwnerID: user.ID}
	if err := d.store.InsertBookmark(ctx, b); err != nil {
		d.log.Error("insert bookmark failed", logger.String("user_id", user.ID), logger.Error(err))
		d.setNotice("Could not save the bookmark. Please try again.")
		return nil, fmt.Errorf("insert bookmark: %w", err)
	}

	d.mu.Lock()
	d.items = append([]domain.Bookmark{*b}, d.items...)
	d.mu.Unlock()

	return b, nil
}

// Remove deletes one bookmark and drops exactly that item from the collection.
// A bookmark already gone from the store is dropped too.
func (d *Dashboard) Remove(ctx context.Context, id int64) error {
	user, err := d.currentUser(ctx)
	if err != nil {
		return err
	}

	err = d.store.DeleteBookmark(ctx, user.ID, id)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		d.log.Warn("bookmark already gone", logger.Int64("id", id), logger.String("user_id", user.ID))
	default:
		d.log.Error("delete bookmark failed", logger.Int64("id", id), logger.String("user_id", user.ID), logger.Error(err))
		d.setNotice("Could not remove the bookmark. Please try again.")
		return fmt.Errorf("delete bookmark: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.items {
		if d.items[i].ID == id {
			d.items = append(d.items[:i:i], d.items[i+1:]...)
			break
		}
	}
	return nil
}

// SignOut ends the session and returns the login path, whatever the outcome.
func (d *Dashboard) SignOut(ctx context.Context) string {
	if err := d.auth.SignOut(ctx); err != nil {
		d.log.Warn("sign out failed", logger.Error(err))
	}
	return LoginPath
}

func (d *Dashboard) State() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Bookmarks returns a copy of the collection, newest first.
func (d *Dashboard) Bookmarks() []domain.Bookmark {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Bookmark, len(d.items))
	copy(out, d.items)
	return out
}

func (d *Dashboard) LoadErr() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loadErr
}

// Notice is the last user-facing failure message, if any.
func (d *Dashboard) Notice() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.notice
}

func (d *Dashboard) setNotice(msg string) {
	d.mu.Lock()
	d.notice = msg
	d.mu.Unlock()
}

func (d *Dashboard) currentUser(ctx context.Context) (*domain.User, error) {
	user, err := d.auth.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	if user == nil || user.ID == "" {
		return nil, domain.ErrNoSession
	}
	return user, nil
}

// isLink mirrors a browser's url input: an absolute URL with scheme and host.
func isLink(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
