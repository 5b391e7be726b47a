package session

import (
	"strings"

	"github.com/rpggio/pyeditor/internal/domain/workspace"
)

// OutputRule separates run blocks in the output log.
var OutputRule = strings.Repeat("─", 40)

// Intent is a one-time navigation message handed to a view when it mounts.
type Intent struct {
	OpenProjectID     string                `json:"open_project_id,omitempty"`
	OpenFileID        string                `json:"open_file_id,omitempty"`
	ExampleFile       *workspace.FileRecord `json:"example_file,omitempty"`
	NewProjectCreated bool                  `json:"new_project_created,omitempty"`
}

// IsZero reports whether the intent carries nothing.
func (i Intent) IsZero() bool {
	return i.OpenProjectID == "" && i.OpenFileID == "" && i.ExampleFile == nil && !i.NewProjectCreated
}

// State is a point-in-time copy of the session for views.
type State struct {
	SessionID      string                 `json:"session_id"`
	CurrentProject *workspace.FileRecord  `json:"current_project,omitempty"`
	Files          []workspace.FileRecord `json:"files"`
	Tree           []*workspace.Node      `json:"tree"`
	OpenFiles      []workspace.FileRecord `json:"open_files"`
	ActiveFile     *workspace.FileRecord  `json:"active_file,omitempty"`
	Output         string                 `json:"output"`
	Running        bool                   `json:"running"`
}

// TabIDs returns the ids of the open tabs in order.
func (s State) TabIDs() []string {
	out := make([]string, 0, len(s.OpenFiles))
	for _, f := range s.OpenFiles {
		out = append(out, f.ID)
	}
	return out
}

// ProjectID returns the current project id, or "" when none.
func (s State) ProjectID() string {
	if s.CurrentProject == nil {
		return ""
	}
	return s.CurrentProject.ID
}

type loadMode int

const (
	// loadOpen selects a project and resets tabs.
	loadOpen loadMode = iota
	// loadRefresh reloads in place and keeps tabs.
	loadRefresh
)
