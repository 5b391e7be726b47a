// Package testserver runs an in-memory editor backend for integration tests.
package testserver

import (
	"net/http/httptest"
	"testing"

	"github.com/rpggio/pyeditor/internal/transport"
)

// TestServer is a running backend double.
type TestServer struct {
	Server  *httptest.Server
	Backend *Backend
}

// New starts a backend double that is closed when the test ends.
func New(t *testing.T) *TestServer {
	t.Helper()

	backend := NewBackend()
	server := httptest.NewServer(transport.NewServer(backend, transport.AuthMiddleware(backend), nil))
	t.Cleanup(server.Close)

	return &TestServer{Server: server, Backend: backend}
}

// URL returns the API base URL, including the /api prefix.
func (ts *TestServer) URL() string {
	return ts.Server.URL + "/api"
}
