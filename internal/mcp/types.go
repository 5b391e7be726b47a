package mcp

import (
	"time"

	"github.com/rpggio/pyeditor/internal/domain/activity"
	"github.com/rpggio/pyeditor/internal/domain/project"
	"github.com/rpggio/pyeditor/internal/domain/session"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
)

type NoParams struct{}

type CreateProjectParams struct {
	Name string `json:"name" jsonschema:"Project name. Characters other than letters, digits, '_', '-' and spaces are dropped."`
}

type OpenProjectParams struct {
	ProjectID string `json:"project_id" jsonschema:"Project id from list_projects"`
}

type FileIDParams struct {
	FileID string `json:"file_id" jsonschema:"File id from get_tree"`
}

type SaveFileParams struct {
	FileID  string `json:"file_id" jsonschema:"File id from get_tree"`
	Content string `json:"content" jsonschema:"New full content of the file"`
}

type CreateFileParams struct {
	Name     string  `json:"name" jsonschema:"File name. The language extension is added when the name has no dot."`
	ParentID string  `json:"parent_id,omitempty" jsonschema:"Parent folder or project id (defaults to the open project)"`
	Language string  `json:"language,omitempty" jsonschema:"python, html, css or javascript (default python)"`
	Content  *string `json:"content,omitempty" jsonschema:"Initial content (defaults to the language template)"`
}

type CreateFolderParams struct {
	Name     string `json:"name" jsonschema:"Folder name"`
	ParentID string `json:"parent_id,omitempty" jsonschema:"Parent folder or project id (defaults to the open project)"`
}

type RenameFileParams struct {
	FileID  string `json:"file_id" jsonschema:"Id of the file, folder or project"`
	NewName string `json:"new_name" jsonschema:"New name"`
}

type DeleteFileParams struct {
	FileID string `json:"file_id" jsonschema:"Id of the file, folder or project. Folders are deleted recursively."`
}

type RunCodeParams struct {
	FileID   string `json:"file_id,omitempty" jsonschema:"Run the content of this open tab (defaults to the active tab)"`
	Code     string `json:"code,omitempty" jsonschema:"Code to run instead of a tab"`
	Language string `json:"language,omitempty" jsonschema:"Language of code (default python)"`
}

type RefreshParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Reset and load this project instead of reloading in place"`
}

type GetRecentActivityParams struct {
	ProjectID    string `json:"project_id,omitempty" jsonschema:"Only activity in this project"`
	FileID       string `json:"file_id,omitempty" jsonschema:"Only activity on this file"`
	ActivityType string `json:"activity_type,omitempty" jsonschema:"Only this activity type, e.g. file_saved"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Maximum entries (default 50)"`
	Offset       int    `json:"offset,omitempty" jsonschema:"Entries to skip"`
}

// FileView is a FileRecord without content.
type FileView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	ParentID  string `json:"parent_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	Path      string `json:"path,omitempty"`
	Language  string `json:"language,omitempty"`
}

// TreeEntry is one line of a depth-first tree listing.
type TreeEntry struct {
	File  FileView `json:"file"`
	Depth int      `json:"depth"`
}

// TabView is an open tab with its content.
type TabView struct {
	File    FileView `json:"file"`
	Content string   `json:"content"`
	Active  bool     `json:"active"`
}

type ProjectView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	FileCount   int    `json:"file_count"`
	FolderCount int    `json:"folder_count"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

type ActivityView struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Summary   string `json:"summary"`
	SessionID string `json:"session_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	FileID    string `json:"file_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ListProjectsResult struct {
	Projects []ProjectView `json:"projects"`
}

type CreateProjectResult struct {
	Project  FileView `json:"project"`
	MainFile FileView `json:"main_file"`
}

type TreeResult struct {
	ProjectID string      `json:"project_id,omitempty"`
	Entries   []TreeEntry `json:"entries"`
}

type TabsResult struct {
	Tabs         []TabView `json:"tabs"`
	ActiveFileID string    `json:"active_file_id,omitempty"`
}

type FileResult struct {
	File FileView `json:"file"`
}

type OKResult struct {
	OK bool `json:"ok"`
}

type RunResult struct {
	Success       bool    `json:"success"`
	Output        string  `json:"output"`
	Error         string  `json:"error,omitempty"`
	ExecutionTime float64 `json:"execution_time"`
}

type OutputResult struct {
	Output string `json:"output"`
}

type ActivityResult struct {
	Entries []ActivityView `json:"entries"`
}

func fileView(r workspace.FileRecord) FileView {
	return FileView{
		ID:        r.ID,
		Name:      r.Name,
		Type:      string(r.Kind),
		ParentID:  r.ParentID,
		ProjectID: r.ProjectID,
		Path:      r.Path,
		Language:  string(r.Language),
	}
}

func treeResult(st session.State) TreeResult {
	out := TreeResult{ProjectID: st.ProjectID(), Entries: []TreeEntry{}}
	workspace.Walk(st.Tree, func(n *workspace.Node, depth int) bool {
		out.Entries = append(out.Entries, TreeEntry{File: fileView(n.FileRecord), Depth: depth})
		return true
	})
	return out
}

func tabsResult(st session.State) TabsResult {
	out := TabsResult{Tabs: make([]TabView, 0, len(st.OpenFiles))}
	if st.ActiveFile != nil {
		out.ActiveFileID = st.ActiveFile.ID
	}
	for _, f := range st.OpenFiles {
		out.Tabs = append(out.Tabs, TabView{File: fileView(f), Content: f.Content, Active: f.ID == out.ActiveFileID})
	}
	return out
}

func projectView(p project.ProjectSummary) ProjectView {
	return ProjectView{ID: p.ID, Name: p.Name, FileCount: p.FileCount, FolderCount: p.FolderCount, UpdatedAt: p.UpdatedAt}
}

func activityView(e activity.ActivityEntry) ActivityView {
	v := ActivityView{
		ID:        e.ID,
		Type:      string(e.ActivityType),
		Summary:   e.Summary,
		SessionID: e.SessionID,
		ProjectID: e.ProjectID,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.FileID != nil {
		v.FileID = *e.FileID
	}
	return v
}
