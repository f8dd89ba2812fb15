package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/views"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/logger"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/ports"
)

const provider = "google"

// pendingLoginWindow bounds how long a started sign-in blocks another submit.
const pendingLoginWindow = 10 * time.Minute

type AuthHandler struct {
	auth         ports.AuthService
	pages        *pages
	log          logger.Logger
	callbackURL  string
	isProduction bool
}

func NewAuthHandler(auth ports.AuthService, p *pages, log logger.Logger, callbackURL string, isProduction bool) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		pages:        p,
		log:          log,
		callbackURL:  callbackURL,
		isProduction: isProduction,
	}
}

var loginErrors = map[string]string{
	"login":  "Error logging in",
	"denied": "Access denied: your email is not in the allowlist",
}

// LoginPage renders the sign-in screen. Signed-in users go straight to the dashboard.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := domain.SessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	// Coming back to the login page abandons any sign-in still in flight.
	if _, err := r.Cookie(stateCookie); err == nil {
		h.clearCookie(w, stateCookie)
	}
	h.pages.renderLogin(w, http.StatusOK, loginPage{Alert: loginErrors[r.URL.Query().Get("error")]})
}

// Login starts the provider redirect. A browser that still holds the state
// cookie of an earlier submit is refused until it returns to the login page.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	view := views.NewLogin(h.auth, h.callbackURL, h.log)
	if c, err := r.Cookie(stateCookie); err == nil && c.Value != "" {
		view.MarkPending()
	}

	redirect, err := view.Submit(r.Context())
	if errors.Is(err, domain.ErrBusy) {
		h.pages.renderLogin(w, http.StatusConflict, loginPage{Disabled: view.Disabled()})
		return
	}
	if err != nil {
		h.pages.renderLogin(w, http.StatusBadGateway, loginPage{Alert: view.Alert(), Disabled: view.Disabled()})
		return
	}

	h.setCookie(w, stateCookie, redirect.State, time.Now().Add(pendingLoginWindow))
	http.Redirect(w, r, redirect.URL, http.StatusSeeOther)
}

// Callback is the fixed return address registered with the provider.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	oauthState, err := r.Cookie(stateCookie)
	if err != nil {
		h.log.Warn("callback without oauthstate cookie", logger.Error(err))
		http.Redirect(w, r, "/?error=login", http.StatusTemporaryRedirect)
		return
	}
	h.clearCookie(w, stateCookie)

	if r.FormValue("state") != oauthState.Value {
		h.log.Warn("callback with invalid oauth state", logger.Error(domain.ErrInvalidState))
		http.Redirect(w, r, "/?error=login", http.StatusTemporaryRedirect)
		return
	}

	if reason := r.FormValue("error"); reason != "" {
		h.log.Info("provider refused sign-in", logger.String("reason", reason))
		http.Redirect(w, r, "/?error=login", http.StatusTemporaryRedirect)
		return
	}

	user, err := h.auth.Complete(r.Context(), provider, r.FormValue("code"))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			http.Redirect(w, r, "/?error=denied", http.StatusTemporaryRedirect)
			return
		}
		h.log.Error("callback failed", logger.Error(err))
		http.Redirect(w, r, "/?error=login", http.StatusTemporaryRedirect)
		return
	}

	tokenString, expires, err := h.auth.IssueSession(user)
	if err != nil {
		h.log.Error("issue session failed", logger.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.setCookie(w, authCookie, tokenString, expires)

	h.log.Info("login successful", logger.String("user_id", user.ID), logger.String("email", user.Email))
	http.Redirect(w, r, "/dashboard", http.StatusTemporaryRedirect)
}

// Logout ends the session and always lands on the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	view := views.NewDashboard(nil, h.auth, h.log)
	next := view.SignOut(r.Context())
	h.clearCookie(w, authCookie)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter, name string) {
	h.setCookie(w, name, "", time.Now().Add(-1*time.Hour))
}
