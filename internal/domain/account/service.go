package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Service holds the authentication state for one client.
type Service struct {
	backend  Backend
	sessions SessionStore
	logger   *slog.Logger

	mu   sync.RWMutex
	user *User
}

// NewService creates a new account service. sessions may be nil.
func NewService(backend Backend, sessions SessionStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{backend: backend, sessions: sessions, logger: logger}
}

// User returns the current user, or nil when logged out.
func (s *Service) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Service) setUser(u *User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

// CheckAuth asks the backend who is logged in. Any failure clears the user.
func (s *Service) CheckAuth(ctx context.Context) (*User, error) {
	u, err := s.backend.Me(ctx)
	if err != nil {
		s.setUser(nil)
		return nil, fmt.Errorf("checking auth: %w", err)
	}
	s.setUser(u)
	return s.User(), nil
}

// Login authenticates with username and password.
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	u, err := s.backend.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	s.setUser(u)
	s.persist(ctx)
	s.logger.Info("logged in", "username", u.Username)
	return s.User(), nil
}

// Register creates an account and logs in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrInvalidInput)
	}
	if !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("%w: email address is not valid", ErrInvalidInput)
	}

	u, err := s.backend.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	s.setUser(u)
	s.persist(ctx)
	s.logger.Info("registered", "username", u.Username)
	return s.User(), nil
}

// Logout ends the backend session. The local user is cleared even when the call fails.
func (s *Service) Logout(ctx context.Context) error {
	err := s.backend.Logout(ctx)
	s.setUser(nil)
	s.forget(ctx)
	if err != nil {
		s.logger.Warn("logout request failed", "error", err)
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// DeleteAccount removes the account after the confirmation matches the username.
func (s *Service) DeleteAccount(ctx context.Context, confirmation string) error {
	u := s.User()
	if u == nil {
		return ErrNotAuthenticated
	}
	if confirmation != u.Username {
		return ErrConfirmationMismatch
	}

	if err := s.backend.DeleteAccount(ctx); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	s.setUser(nil)
	s.forget(ctx)
	s.logger.Info("account deleted", "username", u.Username)
	return nil
}

func (s *Service) persist(ctx context.Context) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.Save(ctx); err != nil {
		s.logger.Warn("failed to persist session", "error", err)
	}
}

func (s *Service) forget(ctx context.Context) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear session", "error", err)
	}
}
