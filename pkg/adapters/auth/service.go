package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/config"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/logger"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/ports"
)

const (
	ProviderGoogle = "google"

	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Options configures the sign-in provider and the session tokens.
type Options struct {
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	Endpoint      oauth2.Endpoint // Defaults to Google
	UserInfoURL   string          // Defaults to Google's v2 userinfo
	JWTSecret     []byte
	SessionTTL    time.Duration
	AllowedEmails []string
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ClientID:      cfg.GoogleClientID,
		ClientSecret:  cfg.GoogleClientSecret,
		RedirectURL:   cfg.GoogleRedirectURL,
		JWTSecret:     []byte(cfg.JWTSecret),
		SessionTTL:    cfg.SessionTTL,
		AllowedEmails: cfg.AllowedEmails,
	}
}

// Service signs users in through Google and keeps them signed in with an HS256 JWT.
type Service struct {
	providers     map[string]*oauth2.Config
	userInfoURL   string
	jwtSecret     []byte
	ttl           time.Duration
	allowedEmails []string
	revocations   ports.RevocationStore
	log           logger.Logger
	now           func() time.Time
}

type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type sessionClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

func NewService(opts Options, revocations ports.RevocationStore, log logger.Logger) *Service {
	endpoint := opts.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = google.Endpoint
	}
	userInfoURL := opts.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = googleUserInfoURL
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Service{
		providers: map[string]*oauth2.Config{
			ProviderGoogle: {
				ClientID:     opts.ClientID,
				ClientSecret: opts.ClientSecret,
				RedirectURL:  opts.RedirectURL,
				Scopes: []string{
					"https://www.googleapis.com/auth/userinfo.email",
					"https://www.googleapis.com/auth/userinfo.profile",
				},
				Endpoint: endpoint,
			},
		},
		userInfoURL:   userInfoURL,
		jwtSecret:     opts.JWTSecret,
		ttl:           ttl,
		allowedEmails: opts.AllowedEmails,
		revocations:   revocations,
		log:           log,
		now:           time.Now,
	}
}

func (s *Service) provider(name string) (*oauth2.Config, error) {
	conf, ok := s.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, name)
	}
	if conf.ClientID == "" {
		return nil, fmt.Errorf("%s sign-in is not configured", name)
	}
	return conf, nil
}

// SignInWithRedirect returns the consent URL the browser must be sent to.
// The redirect target must match the callback registered with the provider.
func (s *Service) SignInWithRedirect(ctx context.Context, provider string, opts domain.SignInOptions) (*domain.Redirect, error) {
	conf, err := s.provider(provider)
	if err != nil {
		return nil, err
	}

	c := *conf
	if opts.RedirectTo != "" {
		c.RedirectURL = opts.RedirectTo
	}

	var params []oauth2.AuthCodeOption
	if opts.SelectAccount {
		params = append(params, oauth2.SetAuthURLParam("prompt", "select_account"))
	}

	state := uuid.NewString()
	return &domain.Redirect{URL: c.AuthCodeURL(state, params...), State: state}, nil
}

// Complete exchanges the callback code and fetches the user's profile.
func (s *Service) Complete(ctx context.Context, provider, code string) (*domain.User, error) {
	conf, err := s.provider(provider)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, errors.New("missing authorization code")
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	response, err := conf.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed getting user info: status %d", response.StatusCode)
	}

	var googleUser GoogleUser
	if err := json.NewDecoder(response.Body).Decode(&googleUser); err != nil {
		return nil, fmt.Errorf("failed decoding user info: %w", err)
	}
	if googleUser.ID == "" {
		return nil, errors.New("user info has no id")
	}

	// Email Allowlist Check
	if len(s.allowedEmails) > 0 && !slices.Contains(s.allowedEmails, googleUser.Email) {
		s.log.Warn("sign-in rejected by allowlist", logger.String("email", googleUser.Email))
		return nil, domain.ErrForbidden
	}

	return &domain.User{
		ID:      googleUser.ID,
		Email:   googleUser.Email,
		Name:    googleUser.Name,
		Picture: googleUser.Picture,
	}, nil
}

// IssueSession signs a session token for the user.
func (s *Service) IssueSession(user *domain.User) (string, time.Time, error) {
	now := s.now()
	expirationTime := now.Add(s.ttl)
	claims := &sessionClaims{
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed signing JWT: %w", err)
	}
	return tokenString, expirationTime, nil
}

// Verify checks signature, expiry and revocation of a session token.
func (s *Service) Verify(ctx context.Context, tokenString string) (*domain.Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidSession
	}
	if claims.Subject == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, domain.ErrInvalidSession
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domain.ErrInvalidSession
	}

	return &domain.Session{
		ID: claims.ID,
		User: domain.User{
			ID:      claims.Subject,
			Email:   claims.Email,
			Name:    claims.Name,
			Picture: claims.Picture,
		},
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// CurrentUser returns the identity of the session attached to ctx, or nil.
func (s *Service) CurrentUser(ctx context.Context) (*domain.User, error) {
	sess, ok := domain.SessionFromContext(ctx)
	if !ok {
		return nil, nil
	}
	user := sess.User
	return &user, nil
}

// SignOut revokes the session attached to ctx. Without one it does nothing.
func (s *Service) SignOut(ctx context.Context) error {
	sess, ok := domain.SessionFromContext(ctx)
	if !ok {
		return nil
	}
	if err := s.revocations.Revoke(ctx, sess.ID, sess.ExpiresAt); err != nil {
		return err
	}
	s.log.Info("session revoked", logger.String("user_id", sess.User.ID))
	return nil
}

var _ ports.AuthService = (*Service)(nil)
