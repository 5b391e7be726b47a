package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rpggio/pyeditor/internal/api"
	"github.com/rpggio/pyeditor/internal/config"
	"github.com/rpggio/pyeditor/internal/domain/account"
	"github.com/rpggio/pyeditor/internal/domain/activity"
	"github.com/rpggio/pyeditor/internal/domain/project"
	"github.com/rpggio/pyeditor/internal/domain/session"
	"github.com/rpggio/pyeditor/internal/repository"
	"github.com/rpggio/pyeditor/internal/sqlite"
	"github.com/rpggio/pyeditor/internal/theme"
	"golang.org/x/term"
)

// app holds the wired services for one CLI invocation.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	in     *bufio.Reader
	stdin  io.Reader
	out    io.Writer

	db       *sqlite.DB
	logFile  *os.File
	client   *api.Client
	accounts *account.Service
	projects *project.Service
	activity *activity.Service
	theme    *theme.Service
	intents  repository.IntentRepository
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	// Logs never share stdout with the MCP stdio stream.
	logWriter := stderr
	var logFile *os.File
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(stderr, "log file error: %v\n", err)
		} else {
			logWriter = fileWriter
			logFile = file
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDir(cfg.State.Path); err != nil {
		return nil, fmt.Errorf("prepare state path: %w", err)
	}
	db, err := sqlite.New(cfg.State.Path)
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate state: %w", err)
	}

	client, err := api.New(api.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout, Logger: logger})
	if err != nil {
		db.Close()
		return nil, err
	}
	cookies := api.NewCookieSession(client, sqlite.NewCookieRepository(db))
	if err := cookies.Restore(context.Background()); err != nil {
		logger.Warn("could not restore backend session", "error", err)
	}

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)
	return &app{
		cfg:      cfg,
		logger:   logger,
		in:       bufio.NewReader(stdin),
		stdin:    stdin,
		out:      stdout,
		db:       db,
		logFile:  logFile,
		client:   client,
		accounts: account.NewService(client, cookies, logger),
		projects: project.NewService(client, logger),
		activity: activitySvc,
		theme:    theme.NewService(sqlite.NewPreferenceRepository(db), logger),
		intents:  sqlite.NewIntentRepository(db),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Warn("closing state", "error", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// newSession creates an editor session owned by the logged-in user.
func (a *app) newSession(ctx context.Context, notify session.Notifier) (*session.Service, *account.User, error) {
	u, err := a.accounts.CheckAuth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("not logged in, run 'pyeditor login': %w", err)
	}
	sess := session.NewService(a.client, a.client, notify, a.activity, a.logger)
	sess.SetOwner(u.Username)
	return sess, u, nil
}

// prompt reads one line, printing label first.
func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal.
func (a *app) promptPassword(label string) (string, error) {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.out, label)
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(password), nil
	}
	line, err := a.prompt(label)
	if err != nil {
		return "", err
	}
	return line, nil
}
