package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/config"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/logger"
)

type memStore struct {
	mu      sync.Mutex
	rows    []domain.Bookmark
	nextID  int64
	failAll bool
}

func (m *memStore) ListBookmarks(_ context.Context, ownerID string) ([]domain.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errors.New("connection refused")
	}
	out := []domain.Bookmark{}
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].OwnerID == ownerID {
			out = append(out, m.rows[i])
		}
	}
	return out, nil
}

func (m *memStore) InsertBookmark(_ context.Context, b *domain.Bookmark) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errors.New("connection refused")
	}
	m.nextID++
	b.ID = m.nextID
	b.CreatedAt = time.Now().UTC()
	m.rows = append(m.rows, *b)
	return nil
}

func (m *memStore) DeleteBookmark(_ context.Context, ownerID string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errors.New("connection refused")
	}
	for i, b := range m.rows {
		if b.ID == id && b.OwnerID == ownerID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type testEnv struct {
	router http.Handler
	store  *memStore
	cookie *http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	svc := newTestAuth()
	store := &memStore{}
	cfg := &config.Config{GoogleRedirectURL: "http://localhost:8080/auth/callback", AppEnv: "local"}

	return &testEnv{
		router: NewRouter(cfg, store, svc, logger.Nop()),
		store:  store,
		cookie: &http.Cookie{Name: authCookie, Value: generateTestToken(t, svc)},
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body []byte, contentType string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		req.AddCookie(e.cookie)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func TestLoginRedirect(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/login", nil, "", false)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("POST /login status = %d", rr.Code)
	}

	loc, err := url.Parse(rr.Header().Get("Location"))
	if err != nil {
		t.Fatal(err)
	}
	if loc.Query().Get("prompt") != "select_account" {
		t.Errorf("missing account picker hint: %s", loc)
	}

	var state string
	for _, c := range rr.Result().Cookies() {
		if c.Name == stateCookie {
			state = c.Value
		}
	}
	if state == "" || loc.Query().Get("state") != state {
		t.Errorf("state cookie %q does not match redirect state %q", state, loc.Query().Get("state"))
	}
}

func TestLoginSubmitTwiceIsRefused(t *testing.T) {
	env := newTestEnv(t)

	post := func(cookies ...*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/login", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)
		return rr
	}
	stateOf := func(rr *httptest.ResponseRecorder) *http.Cookie {
		for _, c := range rr.Result().Cookies() {
			if c.Name == stateCookie {
				return c
			}
		}
		return nil
	}

	first := post()
	pending := stateOf(first)
	if first.Code != http.StatusSeeOther || pending == nil {
		t.Fatalf("first submit = %d, state cookie %v", first.Code, pending)
	}

	second := post(pending)
	if second.Code != http.StatusConflict {
		t.Fatalf("second submit status = %d, want %d", second.Code, http.StatusConflict)
	}
	if loc := second.Header().Get("Location"); loc != "" {
		t.Errorf("second submit redirected to %q", loc)
	}
	if stateOf(second) != nil {
		t.Error("second submit must not replace the pending state")
	}
	if body := second.Body.String(); !strings.Contains(body, "<button type=\"submit\" disabled>") || !strings.Contains(body, "already in progress") {
		t.Errorf("expected a disabled sign-in button, got %q", body)
	}

	// Back on the login page the pending sign-in is dropped and a new one may start.
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(pending)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if cleared := stateOf(rr); cleared == nil || cleared.Value != "" {
		t.Errorf("login page should clear the state cookie, got %v", cleared)
	}
	if retry := post(); retry.Code != http.StatusSeeOther {
		t.Errorf("submit after starting over = %d", retry.Code)
	}
}

func TestLoginPage(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/?error=login", nil, "", false)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Error logging in") {
		t.Errorf("login page: %d %q", rr.Code, rr.Body.String())
	}

	rr = env.do(t, "GET", "/", nil, "", true)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/dashboard" {
		t.Errorf("signed-in visit to / = %d -> %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestCallbackRejectsBadState(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/auth/callback?state=forged&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "expected"})
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusTemporaryRedirect || rr.Header().Get("Location") != "/?error=login" {
		t.Errorf("callback = %d -> %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestAPIBookmarkFlow(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/v1/bookmarks", nil, "", true)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}

	body, _ := json.Marshal(CreateBookmarkRequest{Title: "GitHub", URL: "https://github.com"})
	rr = env.do(t, "POST", "/api/v1/bookmarks", body, "application/json", true)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rr.Code, rr.Body.String())
	}
	var created domain.Bookmark
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 || created.OwnerID != "user-1" || created.Title != "GitHub" {
		t.Errorf("created = %+v", created)
	}

	rr = env.do(t, "GET", "/api/v1/bookmarks", nil, "", true)
	var list struct {
		Data  []domain.Bookmark `json:"data"`
		Total int               `json:"total"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if list.Total != 1 || list.Data[0].ID != created.ID {
		t.Errorf("list = %+v", list)
	}

	rr = env.do(t, "DELETE", "/api/v1/bookmarks/1", nil, "", true)
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rr.Code)
	}
	if len(env.store.rows) != 0 {
		t.Error("bookmark still stored after delete")
	}
}

func TestAPIErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		authed bool
		fail   bool
		want   int
	}{
		{name: "unauthenticated", method: "GET", path: "/api/v1/bookmarks", want: http.StatusUnauthorized},
		{name: "empty title", method: "POST", path: "/api/v1/bookmarks", body: `{"title":"","url":"https://x.example"}`, authed: true, want: http.StatusBadRequest},
		{name: "bad json", method: "POST", path: "/api/v1/bookmarks", body: `{`, authed: true, want: http.StatusBadRequest},
		{name: "bad id", method: "DELETE", path: "/api/v1/bookmarks/abc", authed: true, want: http.StatusBadRequest},
		{name: "store down on list", method: "GET", path: "/api/v1/bookmarks", authed: true, fail: true, want: http.StatusBadGateway},
		{name: "store down on create", method: "POST", path: "/api/v1/bookmarks", body: `{"title":"a","url":"https://a.example"}`, authed: true, fail: true, want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.store.failAll = tt.fail
			rr := env.do(t, tt.method, tt.path, []byte(tt.body), "application/json", tt.authed)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestDashboardPage(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/dashboard", nil, "", true)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Your vault is currently empty.") {
		t.Fatalf("empty dashboard: %d", rr.Code)
	}

	form := url.Values{"title": {"GitHub"}, "url": {"https://github.com"}}
	rr = env.do(t, "POST", "/dashboard/bookmarks", []byte(form.Encode()), "application/x-www-form-urlencoded", true)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("create via form = %d", rr.Code)
	}

	rr = env.do(t, "GET", "/dashboard", nil, "", true)
	if !strings.Contains(rr.Body.String(), "GitHub") || !strings.Contains(rr.Body.String(), "github.com") {
		t.Error("new bookmark not rendered")
	}

	// A failed load must not look like an empty vault.
	env.store.failAll = true
	rr = env.do(t, "GET", "/dashboard", nil, "", true)
	if strings.Contains(rr.Body.String(), "currently empty") || !strings.Contains(rr.Body.String(), "could not be loaded") {
		t.Error("load failure rendered as empty vault")
	}
}

func TestDashboardFormKeepsValuesOnError(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"title": {""}, "url": {"https://kept.example"}}
	rr := env.do(t, "POST", "/dashboard/bookmarks", []byte(form.Encode()), "application/x-www-form-urlencoded", true)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "https://kept.example") {
		t.Error("form value lost")
	}
	if len(env.store.rows) != 0 {
		t.Error("empty title must not insert")
	}
}

func TestLogoutAlwaysRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)

	for _, authed := range []bool{true, false} {
		rr := env.do(t, "POST", "/logout", nil, "", authed)
		if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
			t.Errorf("logout (authed=%v) = %d -> %q", authed, rr.Code, rr.Header().Get("Location"))
		}
		cleared := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == authCookie && c.Value == "" {
				cleared = true
			}
		}
		if !cleared {
			t.Errorf("auth cookie not cleared (authed=%v)", authed)
		}
	}
}

func TestLogoutRequiresPost(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/logout", "/auth/logout"} {
		rr := env.do(t, "GET", path, nil, "", true)
		if rr.Code == http.StatusSeeOther {
			t.Errorf("GET %s signed out (Location %q)", path, rr.Header().Get("Location"))
		}
		for _, c := range rr.Result().Cookies() {
			if c.Name == authCookie {
				t.Errorf("GET %s touched the session cookie", path)
			}
		}
	}
}
