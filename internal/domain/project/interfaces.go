package project

import (
	"context"

	"github.com/rpggio/pyeditor/internal/domain/workspace"
)

// Backend provides the remote calls the dashboard needs.
type Backend interface {
	CreateProject(ctx context.Context, name, projectType string) (*Created, error)
	ListFiles(ctx context.Context, projectID string) ([]workspace.FileRecord, error)
	Delete(ctx context.Context, id string) error
}
