package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"
)

// CookieRepository implements repository.CookieRepository for SQLite
type CookieRepository struct {
	db *DB
}

// NewCookieRepository creates a new CookieRepository
func NewCookieRepository(db *DB) *CookieRepository {
	return &CookieRepository{db: db}
}

// SaveCookies replaces every cookie stored for scope.
func (r *CookieRepository) SaveCookies(ctx context.Context, scope string, cookies []*http.Cookie) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cookies WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}

	for _, c := range cookies {
		var expires sql.NullTime
		if !c.Expires.IsZero() {
			expires = sql.NullTime{Time: c.Expires.UTC(), Valid: true}
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cookies (scope, name, value, path, domain, expires_at, secure, http_only)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(scope, name) DO UPDATE SET value = excluded.value
		`, scope, c.Name, c.Value, path, c.Domain, expires, boolToInt(c.Secure), boolToInt(c.HttpOnly))
		if err != nil {
			return fmt.Errorf("failed to save cookie %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// LoadCookies returns the unexpired cookies stored for scope.
func (r *CookieRepository) LoadCookies(ctx context.Context, scope string) ([]*http.Cookie, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, value, path, domain, expires_at, secure, http_only
		FROM cookies
		WHERE scope = ?
		ORDER BY name
	`, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load cookies: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	var cookies []*http.Cookie
	for rows.Next() {
		var (
			c        http.Cookie
			expires  sql.NullTime
			secure   int
			httpOnly int
		)
		if err := rows.Scan(&c.Name, &c.Value, &c.Path, &c.Domain, &expires, &secure, &httpOnly); err != nil {
			return nil, fmt.Errorf("failed to scan cookie: %w", err)
		}
		if expires.Valid {
			if expires.Time.Before(now) {
				continue
			}
			c.Expires = expires.Time
		}
		c.Secure = secure == 1
		c.HttpOnly = httpOnly == 1
		cookies = append(cookies, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cookie rows: %w", err)
	}
	return cookies, nil
}

// DeleteCookies removes every cookie stored for scope.
func (r *CookieRepository) DeleteCookies(ctx context.Context, scope string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cookies WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("failed to delete cookies: %w", err)
	}
	return nil
}
