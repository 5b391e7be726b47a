package project

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/rpggio/pyeditor/internal/domain/workspace"
)

var disallowedNameChars = regexp.MustCompile(`[^a-zA-Z0-9_\-\s]`)

// Service handles project operations.
type Service struct {
	backend Backend
	logger  *slog.Logger
}

// NewService creates a new project service.
func NewService(backend Backend, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{backend: backend, logger: logger}
}

// SanitizeName drops characters outside letters, digits, '_', '-' and spaces.
func SanitizeName(name string) string {
	return strings.TrimSpace(disallowedNameChars.ReplaceAllString(name, ""))
}

// Create creates a new project with its main.py.
func (s *Service) Create(ctx context.Context, name string) (*Created, error) {
	clean := SanitizeName(name)
	if clean == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}

	created, err := s.backend.CreateProject(ctx, clean, DefaultType)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	s.logger.Info("project created", "project_id", created.Project.ID, "name", clean)
	return created, nil
}

// List returns every project with its file and folder counts.
func (s *Service) List(ctx context.Context) ([]ProjectSummary, error) {
	files, err := s.backend.ListFiles(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	tree := workspace.BuildHierarchy(files)
	var out []ProjectSummary
	workspace.Walk(tree, func(n *workspace.Node, _ int) bool {
		if n.Kind == workspace.KindProject {
			out = append(out, summarize(n))
			return false
		}
		return true
	})
	return out, nil
}

// Get returns one project and its tree.
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	files, err := s.backend.ListFiles(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}

	tree := workspace.BuildHierarchy(files)
	node := workspace.FindNode(tree, id)
	if node == nil || node.Kind != workspace.KindProject {
		return nil, ErrProjectNotFound
	}
	return &Detail{ProjectSummary: summarize(node), Tree: node.Children}, nil
}

// Stats counts projects and files across the account.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	files, err := s.backend.ListFiles(ctx, "")
	if err != nil {
		return Stats{}, fmt.Errorf("loading stats: %w", err)
	}

	var st Stats
	for _, f := range files {
		switch f.Kind {
		case workspace.KindProject:
			st.TotalProjects++
		case workspace.KindFile:
			st.TotalFiles++
		case workspace.KindFolder:
			st.TotalFolders++
		}
	}
	return st, nil
}

// Delete removes a project and everything below it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	if err := s.backend.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	s.logger.Info("project deleted", "project_id", id)
	return nil
}

func summarize(n *workspace.Node) ProjectSummary {
	files, folders := workspace.CountNodes(n.Children)
	return ProjectSummary{
		ID:          n.ID,
		Name:        n.Name,
		Path:        n.Path,
		FileCount:   files,
		FolderCount: folders,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}
