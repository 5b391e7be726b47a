package project

import "github.com/rpggio/pyeditor/internal/domain/workspace"

// DefaultType is the project type sent on creation.
const DefaultType = "python"

// Created is the backend answer to a project creation.
type Created struct {
	Project  workspace.FileRecord `json:"project"`
	MainFile workspace.FileRecord `json:"main_file"`
}

// ProjectSummary is a lightweight representation for listing
type ProjectSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Path        string `json:"path,omitempty"`
	FileCount   int    `json:"file_count"`
	FolderCount int    `json:"folder_count"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// Stats summarises the dashboard counters.
type Stats struct {
	TotalProjects int `json:"total_projects"`
	TotalFiles    int `json:"total_files"`
	TotalFolders  int `json:"total_folders"`
}

// Detail is one project with its file tree.
type Detail struct {
	ProjectSummary
	Tree []*workspace.Node `json:"tree"`
}
