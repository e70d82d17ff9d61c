package service

import (
	"context"
	"errors"
	"sync"

	"packtrack/internal/remote"

	"github.com/sirupsen/logrus"
)

// Session gate states. The transition out of StateUninitialized happens
// exactly once, when startup session restore completes.
const (
	StateUninitialized   = "uninitialized"
	StateAuthenticated   = "authenticated"
	StateUnauthenticated = "unauthenticated"
)

// AuthResult is the outcome of a sign-in/out style operation.
type AuthResult struct {
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	User    *remote.AuthUser `json:"user,omitempty"`
}

// SessionService owns the current session with the hosted auth provider:
// the three-state gate, the cached bearer tokens, and forced refreshes
// ahead of long-running workflow steps.
type SessionService interface {
	// Initialize restores a persisted session (best effort) and flips the
	// gate out of the uninitialized state. Safe to call once, typically in
	// a startup goroutine.
	Initialize(ctx context.Context)

	// WaitUntilInitialized blocks until the gate has initialized or the
	// context is done.
	WaitUntilInitialized(ctx context.Context) error

	State() string
	IsAuthenticated() bool
	CurrentUser() *remote.AuthUser

	// AccessToken returns the current bearer token, reporting false when
	// no authenticated session exists.
	AccessToken() (string, bool)

	// RefreshToken returns the current refresh token, reporting false when
	// none is cached.
	RefreshToken() (string, bool)

	SignIn(ctx context.Context, email, password string) AuthResult
	SignUp(ctx context.Context, email, password string) AuthResult
	SignOut(ctx context.Context) AuthResult
	ResetPassword(ctx context.Context, email string) AuthResult

	// RefreshSession forces a token refresh, replacing the cached session
	// on success. Callers fall back to the existing token on failure.
	RefreshSession(ctx context.Context) error
}

type sessionService struct {
	auth remote.AuthAPI

	mu          sync.RWMutex
	session     *remote.Session
	initialized chan struct{}
	initOnce    sync.Once

	restoreToken string
}

// NewSessionService returns a SessionService backed by the given auth
// endpoints. restoreToken is the refresh token persisted from a previous
// run, empty when none exists.
func NewSessionService(auth remote.AuthAPI, restoreToken string) SessionService {
	return &sessionService{
		auth:         auth,
		initialized:  make(chan struct{}),
		restoreToken: restoreToken,
	}
}

func (s *sessionService) Initialize(ctx context.Context) {
	if s.restoreToken != "" {
		session, err := s.auth.RefreshSession(ctx, s.restoreToken)
		if err != nil {
			logrus.WithError(err).Warn("session restore failed, starting unauthenticated")
		} else {
			s.mu.Lock()
			s.session = session
			s.mu.Unlock()
		}
	}
	s.markInitialized()
}

func (s *sessionService) markInitialized() {
	s.initOnce.Do(func() { close(s.initialized) })
}

func (s *sessionService) WaitUntilInitialized(ctx context.Context) error {
	select {
	case <-s.initialized:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *sessionService) isInitialized() bool {
	select {
	case <-s.initialized:
		return true
	default:
		return false
	}
}

func (s *sessionService) State() string {
	if !s.isInitialized() {
		return StateUninitialized
	}
	if s.IsAuthenticated() {
		return StateAuthenticated
	}
	return StateUnauthenticated
}

func (s *sessionService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil && s.session.AccessToken != ""
}

func (s *sessionService) CurrentUser() *remote.AuthUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	return s.session.User
}

func (s *sessionService) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil || s.session.AccessToken == "" {
		return "", false
	}
	return s.session.AccessToken, true
}

func (s *sessionService) RefreshToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil || s.session.RefreshToken == "" {
		return "", false
	}
	return s.session.RefreshToken, true
}

func (s *sessionService) SignIn(ctx context.Context, email, password string) AuthResult {
	session, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return AuthResult{Success: false, Error: err.Error()}
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	// A successful sign-in also resolves the gate for deployments that
	// never had a session to restore.
	s.markInitialized()

	return AuthResult{Success: true, User: session.User}
}

func (s *sessionService) SignUp(ctx context.Context, email, password string) AuthResult {
	session, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		return AuthResult{Success: false, Error: err.Error()}
	}
	return AuthResult{Success: true, User: session.User}
}

func (s *sessionService) SignOut(ctx context.Context) AuthResult {
	s.mu.Lock()
	session := s.session
	s.session = nil
	s.mu.Unlock()

	if session == nil || session.AccessToken == "" {
		return AuthResult{Success: true}
	}
	if err := s.auth.SignOut(ctx, session.AccessToken); err != nil {
		// Local state is already cleared; the remote revocation failing is
		// logged but not surfaced as a sign-out failure.
		logrus.WithError(err).Warn("remote sign-out failed")
	}
	return AuthResult{Success: true}
}

func (s *sessionService) ResetPassword(ctx context.Context, email string) AuthResult {
	if err := s.auth.ResetPassword(ctx, email); err != nil {
		return AuthResult{Success: false, Error: err.Error()}
	}
	return AuthResult{Success: true}
}

func (s *sessionService) RefreshSession(ctx context.Context) error {
	s.mu.RLock()
	session := s.session
	s.mu.RUnlock()
	if session == nil || session.RefreshToken == "" {
		return errors.New("no session to refresh")
	}

	fresh, err := s.auth.RefreshSession(ctx, session.RefreshToken)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.session = fresh
	s.mu.Unlock()
	return nil
}
