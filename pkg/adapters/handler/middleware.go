package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/logger"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/ports"
)

const (
	authCookie  = "auth_token"
	stateCookie = "oauthstate"
)

type Middleware struct {
	auth ports.AuthService
	log  logger.Logger
}

func NewMiddleware(auth ports.AuthService, log logger.Logger) *Middleware {
	return &Middleware{auth: auth, log: log}
}

// AuthMiddleware verifies the session cookie and attaches the session to the request context.
// API callers get 401, browsers are sent back to the login page.
func (m *Middleware) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.session(r)
		if err != nil {
			if isAPIRequest(r) {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
			} else {
				http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(domain.ContextWithSession(r.Context(), sess)))
	})
}

// OptionalSession attaches the session when the cookie is valid and lets every request through.
func (m *Middleware) OptionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, err := m.session(r); err == nil {
			r = r.WithContext(domain.ContextWithSession(r.Context(), sess))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) session(r *http.Request) (*domain.Session, error) {
	cookie, err := r.Cookie(authCookie)
	if err != nil {
		return nil, err
	}
	sess, err := m.auth.Verify(r.Context(), cookie.Value)
	if err != nil && !errors.Is(err, domain.ErrInvalidSession) {
		m.log.Error("session check failed", logger.Error(err))
	}
	return sess, err
}

// Log writes one structured line per request.
func Log(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.Info("http_request",
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", status),
				logger.Int("bytes", ww.BytesWritten()),
				logger.Duration("duration", time.Since(start)),
				logger.String("remote_ip", r.RemoteAddr),
				logger.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
