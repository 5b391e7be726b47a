package api

import (
	"context"
	"fmt"
	"net/http"
)

// CookieStore persists cookies per backend base URL.
type CookieStore interface {
	SaveCookies(ctx context.Context, scope string, cookies []*http.Cookie) error
	LoadCookies(ctx context.Context, scope string) ([]*http.Cookie, error)
	DeleteCookies(ctx context.Context, scope string) error
}

// CookieSession carries the backend session cookie across CLI runs.
type CookieSession struct {
	client *Client
	store  CookieStore
}

// NewCookieSession binds a client to a cookie store.
func NewCookieSession(client *Client, store CookieStore) *CookieSession {
	return &CookieSession{client: client, store: store}
}

// Restore loads saved cookies into the client jar.
func (s *CookieSession) Restore(ctx context.Context) error {
	cookies, err := s.store.LoadCookies(ctx, s.client.BaseURL())
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if len(cookies) > 0 {
		s.client.SetCookies(cookies)
	}
	return nil
}

// Save writes the current jar cookies to the store.
func (s *CookieSession) Save(ctx context.Context) error {
	if err := s.store.SaveCookies(ctx, s.client.BaseURL(), s.client.Cookies()); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear forgets the session both in the jar and in the store.
func (s *CookieSession) Clear(ctx context.Context) error {
	s.client.ClearCookies()
	if err := s.store.DeleteCookies(ctx, s.client.BaseURL()); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
