package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/config"
	"github.com/eaw-compliance/eaw-cli/pkg/keyring"
	"github.com/eaw-compliance/eaw-cli/pkg/logger"
	"github.com/eaw-compliance/eaw-cli/pkg/models"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultLoginError is shown when the server gives no usable reason for a failed login
const DefaultLoginError = "Invalid username or password"

// AuthError represents a failed login; its message is safe to show to the user
type AuthError struct {
	message string
	cause   error
}

func (e *AuthError) Error() string { return e.message }

func (e *AuthError) Unwrap() error { return e.cause }

// Authenticator exchanges credentials for a bearer token and the user it belongs to
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, models.User, error)
}

// Snapshot is a point-in-time copy of the session state
type Snapshot struct {
	Token           string       `json:"-" yaml:"-"`
	User            *models.User `json:"user" yaml:"user"`
	IsAuthenticated bool         `json:"is_authenticated" yaml:"is_authenticated"`
}

// Store holds the authentication state for the process. It is hydrated from durable
// storage when opened and torn down explicitly by Logout.
type Store struct {
	mu    sync.RWMutex
	token string
	user  *models.User

	kv   keyring.Store
	auth Authenticator
	log  *logger.Logger
}

// Open hydrates a store from kv. A missing or corrupt entry yields a logged-out store;
// Open never fails.
func Open(kv keyring.Store, auth Authenticator, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	s := &Store{kv: kv, auth: auth, log: log}

	token, err := kv.Get(config.ServiceName, config.TokenKey)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			log.Debugf("stored token unreadable, starting logged out: %v", err)
		}
		token = ""
	}

	var user *models.User
	raw, err := kv.Get(config.ServiceName, config.UserKey)
	switch {
	case err == nil && raw != "":
		// A stored null decodes to a nil user.
		if jsonErr := json.Unmarshal([]byte(raw), &user); jsonErr != nil {
			log.Debugf("stored user unparsable, starting logged out: %v", jsonErr)
			user = nil
		}
	case err != nil && !errors.Is(err, keyring.ErrNotFound):
		log.Debugf("stored user unreadable, starting logged out: %v", err)
	}

	if token == "" || user == nil {
		// Partial state counts as logged out.
		return s
	}

	s.token = token
	s.user = user
	return s
}

// SetAuthenticator replaces the collaborator used by Login
func (s *Store) SetAuthenticator(auth Authenticator) {
	s.mu.Lock()
	s.auth = auth
	s.mu.Unlock()
}

// Token returns the bearer token, or "" when logged out
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user, or nil when logged out
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated is true when both a token and a user are present
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Token: s.token, IsAuthenticated: s.token != "" && s.user != nil}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Login authenticates against the server. On success the token and user are
// persisted and the store becomes authenticated. On failure an *AuthError is
// returned and the previous state is left untouched.
func (s *Store) Login(ctx context.Context, username, password string) error {
	s.mu.RLock()
	auth := s.auth
	s.mu.RUnlock()
	if auth == nil {
		return fmt.Errorf("no authenticator configured")
	}

	token, user, err := auth.Login(ctx, username, password)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = DefaultLoginError
		}
		return &AuthError{message: msg, cause: err}
	}
	if token == "" {
		return &AuthError{message: DefaultLoginError}
	}

	return s.SetAuth(token, user)
}

// SetAuth unconditionally overwrites the session with token and user
func (s *Store) SetAuth(token string, user models.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(config.ServiceName, config.TokenKey, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if err := s.kv.Set(config.ServiceName, config.UserKey, string(userJSON)); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}

	s.token = token
	s.user = &user
	return nil
}

// Logout clears the persisted and in-memory session. It always succeeds and needs
// no network call; storage failures are only logged.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{config.TokenKey, config.UserKey} {
		if err := s.kv.Delete(config.ServiceName, key); err != nil {
			s.log.Debugf("failed to clear %s: %v", key, err)
		}
	}
	s.token = ""
	s.user = nil
}

// Expiry reads the exp claim of a JWT-shaped token without verifying it.
// It is informational only; nothing is gated on it.
func (s *Store) Expiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
