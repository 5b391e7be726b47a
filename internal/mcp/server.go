package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/pyeditor/internal/domain/activity"
	"github.com/rpggio/pyeditor/internal/domain/project"
	"github.com/rpggio/pyeditor/internal/domain/session"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, name string) (*project.Created, error)
	List(ctx context.Context) ([]project.ProjectSummary, error)
}

// SessionService defines the editor session operations needed by MCP.
type SessionService interface {
	Snapshot() session.State
	LoadFiles(ctx context.Context, projectID string) error
	RefreshEditor(ctx context.Context, intent session.Intent) error
	CreateFile(ctx context.Context, req workspace.CreateRequest) (workspace.FileRecord, error)
	CreateFolder(ctx context.Context, name, parentID string) (workspace.FileRecord, error)
	OpenFileByID(ctx context.Context, id string) error
	CloseFile(id string) bool
	SaveFile(ctx context.Context, id, content string) error
	DeleteFile(ctx context.Context, id string) error
	RenameFile(ctx context.Context, id, newName string) error
	RunCode(ctx context.Context, code string, lang workspace.Language) (workspace.Execution, error)
	Output() string
	ClearOutput()
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, owner string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Session  SessionService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services Services
	// Owner scopes activity queries, usually the logged-in username.
	Owner string
	// Token, when set, is required as a bearer token on HTTP requests.
	Token         string
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "pyeditor",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local; only HTTP checks the token.
	if cfg.TransportMode == "http" && cfg.Token != "" {
		server.AddReceivingMiddleware(authMiddleware(cfg.Token))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	t := &tools{services: cfg.Services, owner: cfg.Owner, logger: cfg.Logger}
	t.register(server)

	return server
}
