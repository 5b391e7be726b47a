package testserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpggio/pyeditor/internal/domain/account"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
	"github.com/rpggio/pyeditor/internal/transport"
)

// ExecFunc produces the result of a run. It stands in for the sandbox.
type ExecFunc func(code string, lang workspace.Language) workspace.Execution

type user struct {
	account.User
	passwordHash string
}

type fileRow struct {
	workspace.FileRecord
	userID string
}

type failure struct {
	status  int
	message string
}

// Backend is an in-memory double of the editor REST backend.
type Backend struct {
	mu       sync.Mutex
	users    map[string]*user
	sessions map[string]string
	files    []*fileRow
	exec     ExecFunc
	failures map[string]failure
	requests map[string]int
	now      func() time.Time
}

// NewBackend creates an empty backend.
func NewBackend() *Backend {
	return &Backend{
		users:    make(map[string]*user),
		sessions: make(map[string]string),
		failures: make(map[string]failure),
		requests: make(map[string]int),
		exec:     DefaultExec,
		now:      time.Now,
	}
}

// AddUser registers a user directly and returns its id.
func (b *Backend) AddUser(username, email, password string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(username, email, password).ID
}

func (b *Backend) addUserLocked(username, email, password string) *user {
	u := &user{
		User: account.User{
			ID:        uuid.NewString(),
			Username:  username,
			Email:     email,
			CreatedAt: b.stamp(),
		},
		passwordHash: hashPassword(password),
	}
	b.users[u.ID] = u
	return u
}

// SetExec replaces the sandbox stand-in.
func (b *Backend) SetExec(fn ExecFunc) {
	b.mu.Lock()
	b.exec = fn
	b.mu.Unlock()
}

// FailNext makes the next request matching method and path fail with status and message.
func (b *Backend) FailNext(method, path string, status int, message string) {
	b.mu.Lock()
	b.failures[method+" "+path] = failure{status: status, message: message}
	b.mu.Unlock()
}

// Requests returns how many requests reached method and path.
func (b *Backend) Requests(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[method+" "+path]
}

// Files returns a copy of the records owned by userID in storage order.
func (b *Backend) Files(userID string) []workspace.FileRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []workspace.FileRecord
	for _, f := range b.files {
		if f.userID == userID {
			out = append(out, f.FileRecord)
		}
	}
	return out
}

// ResolveUser implements transport.UserResolver.
func (b *Backend) ResolveUser(_ context.Context, token string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	userID, ok := b.sessions[token]
	if !ok {
		return "", transport.ErrUnauthorized
	}
	if _, exists := b.users[userID]; !exists {
		return "", transport.ErrUnauthorized
	}
	return userID, nil
}

// Public implements transport.Routes.
func (b *Backend) Public(r chi.Router) {
	r.Use(b.injectFailures)
	r.Post("/auth/register", b.handleRegister)
	r.Post("/auth/login", b.handleLogin)
	r.Post("/auth/logout", b.handleLogout)
}

// Protected implements transport.Routes.
func (b *Backend) Protected(r chi.Router) {
	r.Get("/auth/me", b.handleMe)
	r.Delete("/auth/account", b.handleDeleteAccount)

	r.Get("/files", b.handleListFiles)
	r.Post("/files", b.handleCreateFile)
	r.Get("/files/{id}", b.handleGetContent)
	r.Put("/files/{id}", b.handleUpdateContent)
	r.Delete("/files/{id}", b.handleDelete)
	r.Put("/files/{id}/rename", b.handleRename)
	r.Get("/files/{id}/download", b.handleDownload)

	r.Post("/projects", b.handleCreateProject)
	r.Post("/execute", b.handleExecute)
}

func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
		b.mu.Lock()
		b.requests[key]++
		f, ok := b.failures[key]
		delete(b.failures, key)
		b.mu.Unlock()
		if ok {
			transport.WriteFailure(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) stamp() string {
	return b.now().Format("2006-01-02T15:04:05.000000")
}

func (b *Backend) findLocked(userID, id string) *fileRow {
	for _, f := range b.files {
		if f.ID == id && f.userID == userID {
			return f
		}
	}
	return nil
}

func (b *Backend) insertLocked(userID string, rec workspace.FileRecord) {
	b.files = append(b.files, &fileRow{FileRecord: rec, userID: userID})
}

// removeLocked deletes id and every record below it.
func (b *Backend) removeLocked(userID, id string) {
	doomed := map[string]bool{id: true}
	for changed := true; changed; {
		changed = false
		for _, f := range b.files {
			if f.userID != userID || doomed[f.ID] {
				continue
			}
			if doomed[f.ParentID] || doomed[f.ProjectID] {
				doomed[f.ID] = true
				changed = true
			}
		}
	}
	kept := b.files[:0]
	for _, f := range b.files {
		if f.userID == userID && doomed[f.ID] {
			continue
		}
		kept = append(kept, f)
	}
	b.files = kept
}

func userID(r *http.Request) string {
	id, _ := transport.UserFromContext(r.Context())
	return id
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

var printLiteral = regexp.MustCompile(`print\(\s*["'](.*?)["']\s*\)`)

// DefaultExec echoes string literals passed to print and fails on raise.
func DefaultExec(code string, lang workspace.Language) workspace.Execution {
	start := time.Now()
	res := workspace.Execution{Success: true}
	switch lang {
	case workspace.LanguagePython:
		var lines []string
		for _, m := range printLiteral.FindAllStringSubmatch(code, -1) {
			lines = append(lines, m[1])
		}
		res.Output = strings.Join(lines, "\n")
		if strings.Contains(code, "raise") {
			res.Success = false
			res.Error = "Traceback (most recent call last):\nException"
		}
	default:
		res.Output = fmt.Sprintf("%s kodu işlendi (%d karakter)", strings.ToUpper(string(lang)), len(code))
	}
	res.ExecutionTime = time.Since(start).Seconds()
	return res
}
