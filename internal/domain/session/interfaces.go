package session

import (
	"context"
	"io"

	"github.com/rpggio/pyeditor/internal/domain/activity"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
)

// FileAPI is the backend file surface.
type FileAPI interface {
	ListFiles(ctx context.Context, projectID string) ([]workspace.FileRecord, error)
	GetContent(ctx context.Context, id string) (string, error)
	CreateFile(ctx context.Context, req workspace.CreateRequest) (workspace.FileRecord, error)
	UpdateContent(ctx context.Context, id, content string) error
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
	Download(ctx context.Context, id string, w io.Writer) (int64, error)
}

// Executor runs code in the backend sandbox.
type Executor interface {
	Execute(ctx context.Context, code string, lang workspace.Language) (workspace.Execution, error)
}

// Notifier receives transient user-facing messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// ActivityLogger records session events.
type ActivityLogger interface {
	LogActivity(ctx context.Context, owner string, entry *activity.ActivityEntry) error
}
