package workspace

// Kind distinguishes the entries of the file tree.
type Kind string

const (
	KindFile    Kind = "file"
	KindFolder  Kind = "folder"
	KindProject Kind = "project"
)

// FileRecord is one entry of the backend file store.
type FileRecord struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Kind      Kind     `json:"type"`
	ParentID  string   `json:"parent_id,omitempty"`
	ProjectID string   `json:"project_id,omitempty"`
	Path      string   `json:"path,omitempty"`
	Content   string   `json:"content,omitempty"`
	Language  Language `json:"language,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

// IsFile reports whether the record holds editable content.
func (r FileRecord) IsFile() bool {
	return r.Kind == KindFile
}

// Lang returns the record language, defaulting to python.
func (r FileRecord) Lang() Language {
	if r.Language == "" {
		return LanguagePython
	}
	return r.Language
}

// Node is a FileRecord with its children in backend order.
type Node struct {
	FileRecord
	Children []*Node `json:"children,omitempty"`
}

// CreateRequest describes a file or folder to create.
type CreateRequest struct {
	Name     string
	ParentID string
	Content  *string
	Kind     Kind
	Language Language
}

// Execution is the outcome of running code in the backend sandbox.
type Execution struct {
	Output        string  `json:"output"`
	Error         string  `json:"error,omitempty"`
	ExecutionTime float64 `json:"execution_time"`
	Success       bool    `json:"success"`
}
