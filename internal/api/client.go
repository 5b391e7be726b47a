// Package api is the REST client for the editor backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"
)

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client talks to the backend with a cookie-carrying resty client.
type Client struct {
	resty  *resty.Client
	jar    *cookiejar.Jar
	base   *url.URL
	logger *slog.Logger
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{jar: jar, base: base, logger: cfg.Logger}
	c.resty = resty.New().
		SetBaseURL(base.String()).
		SetTimeout(cfg.Timeout).
		SetCookieJar(jar).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "pyeditor/0.1").
		SetLogger(restyLogger{cfg.Logger}).
		OnAfterResponse(c.logResponse)
	return c, nil
}

// BaseURL returns the normalised backend base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) logResponse(_ *resty.Client, resp *resty.Response) error {
	c.logger.Debug("api response",
		"method", resp.Request.Method,
		"url", resp.Request.URL,
		"status", resp.StatusCode(),
		"duration", resp.Time(),
	)
	return nil
}

// call performs one JSON request and decodes the envelope data into out.
func (c *Client) call(req *resty.Request, method, path string, out any) error {
	var env envelope
	resp, err := req.
		SetResult(&env).
		SetError(&env).
		Execute(method, path)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}

	if resp.IsError() || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		if resp.IsSuccess() && msg == "" && !isJSON(resp) {
			return fmt.Errorf("%w: %s %s: unexpected content type %q", ErrMalformedResponse, method, path, resp.Header().Get("Content-Type"))
		}
		return &Error{Status: resp.StatusCode(), Method: method, Path: path, Message: msg}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrMalformedResponse, method, path, err)
	}
	return nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.resty.R().SetContext(ctx)
}

func isJSON(resp *resty.Response) bool {
	return strings.Contains(resp.Header().Get("Content-Type"), "json")
}

// Cookies returns the session cookies held for the backend.
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.base)
}

// SetCookies restores previously saved session cookies.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.jar.SetCookies(c.base, cookies)
}

// ClearCookies drops the session cookies by expiring them.
func (c *Client) ClearCookies() {
	current := c.jar.Cookies(c.base)
	expired := make([]*http.Cookie, 0, len(current))
	for _, ck := range current {
		expired = append(expired, &http.Cookie{Name: ck.Name, Value: "", Path: "/", MaxAge: -1})
	}
	c.jar.SetCookies(c.base, expired)
}

type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "resty")
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "resty")
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "resty")
}
