package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeProjectOpened  ActivityType = "project_opened"
	TypeProjectCreated ActivityType = "project_created"
	TypeProjectDeleted ActivityType = "project_deleted"
	TypeFileCreated    ActivityType = "file_created"
	TypeFolderCreated  ActivityType = "folder_created"
	TypeFileSaved      ActivityType = "file_saved"
	TypeFileDeleted    ActivityType = "file_deleted"
	TypeFileRenamed    ActivityType = "file_renamed"
	TypeCodeExecuted   ActivityType = "code_executed"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	Owner        string       `json:"owner"`
	SessionID    string       `json:"session_id,omitempty"`
	ProjectID    string       `json:"project_id,omitempty"`
	FileID       *string      `json:"file_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
