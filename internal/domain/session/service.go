package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/pyeditor/internal/domain/activity"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
)

// Service is one editor session: the loaded file list, open tabs and the run log.
// State changes only after the backend confirms a call.
type Service struct {
	files    FileAPI
	exec     Executor
	notify   Notifier
	activity ActivityLogger
	logger   *slog.Logger
	now      func() time.Time

	id      string
	running atomic.Bool

	mu       sync.Mutex
	owner    string
	closed   bool
	project  *workspace.FileRecord
	flat     []workspace.FileRecord
	tabs     []workspace.FileRecord
	activeID string
	output   string
	issued   uint64
	applied  uint64
}

// NewService creates a new session. notify and activity may be nil.
func NewService(
	files FileAPI,
	exec Executor,
	notify Notifier,
	activityLog ActivityLogger,
	logger *slog.Logger,
) *Service {
	if notify == nil {
		notify = discardNotifier{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := uuid.NewString()
	return &Service{
		files:    files,
		exec:     exec,
		notify:   notify,
		activity: activityLog,
		logger:   logger.With("session_id", id),
		now:      time.Now,
		id:       id,
	}
}

// ID returns the session identifier.
func (s *Service) ID() string {
	return s.id
}

// SetOwner names the user that activity entries are filed under.
func (s *Service) SetOwner(owner string) {
	s.mu.Lock()
	s.owner = owner
	s.mu.Unlock()
}

// Mount initialises the session from a navigation intent.
// An example file is shown on its own without calling the backend.
func (s *Service) Mount(ctx context.Context, intent Intent) error {
	if intent.ExampleFile != nil {
		f := *intent.ExampleFile
		if f.Kind == "" {
			f.Kind = workspace.KindFile
		}
		s.mu.Lock()
		s.invalidateLocked()
		s.project = nil
		s.flat = []workspace.FileRecord{f}
		s.tabs = []workspace.FileRecord{f}
		s.activeID = f.ID
		s.mu.Unlock()
		s.logger.Info("mounted example file", "name", f.Name)
		return nil
	}

	if err := s.LoadFiles(ctx, intent.OpenProjectID); err != nil {
		return err
	}
	if intent.OpenFileID != "" {
		return s.OpenFileByID(ctx, intent.OpenFileID)
	}
	return nil
}

// Close discards the session. Loads still in flight are dropped.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.invalidateLocked()
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		SessionID: s.id,
		Files:     append([]workspace.FileRecord(nil), s.flat...),
		OpenFiles: append([]workspace.FileRecord(nil), s.tabs...),
		Output:    s.output,
		Running:   s.running.Load(),
	}
	if s.project != nil {
		p := *s.project
		st.CurrentProject = &p
	}
	if active, ok := s.tabLocked(s.activeID); ok {
		st.ActiveFile = &active
	}
	st.Tree = workspace.BuildHierarchy(st.Files)
	return st
}

// LoadFiles fetches the file list. With a project id the project becomes current,
// tabs are cleared and its main.py is opened. Without one the current project,
// or everything when there is none, is reloaded in place.
func (s *Service) LoadFiles(ctx context.Context, projectID string) error {
	if projectID != "" {
		return s.load(ctx, projectID, loadOpen)
	}
	return s.load(ctx, "", loadRefresh)
}

// RefreshEditor reconciles after navigation. A pending project or a freshly created
// project resets everything and loads from scratch; otherwise the current project is
// reloaded and tabs and output are kept.
func (s *Service) RefreshEditor(ctx context.Context, intent Intent) error {
	if intent.OpenProjectID != "" || intent.NewProjectCreated {
		s.mu.Lock()
		s.invalidateLocked()
		s.project = nil
		s.flat = nil
		s.tabs = nil
		s.activeID = ""
		s.output = ""
		s.mu.Unlock()
		return s.LoadFiles(ctx, intent.OpenProjectID)
	}
	return s.load(ctx, "", loadRefresh)
}

func (s *Service) load(ctx context.Context, projectID string, mode loadMode) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.issued++
	seq := s.issued
	if mode == loadRefresh && s.project != nil {
		projectID = s.project.ID
	}
	s.mu.Unlock()

	files, err := s.files.ListFiles(ctx, projectID)
	if err != nil {
		s.fail("failed to load files", err)
		return fmt.Errorf("loading files: %w", err)
	}

	var mainFile *workspace.FileRecord
	s.mu.Lock()
	if s.closed || seq < s.applied {
		s.mu.Unlock()
		s.logger.Debug("dropping stale file list", "seq", seq, "applied", s.appliedSeq())
		return nil
	}

	switch mode {
	case loadOpen:
		s.applied = seq
		s.flat = files
		proj, ok := findProject(files, projectID)
		if !ok {
			s.mu.Unlock()
			s.fail("project not found", ErrProjectNotFound)
			return fmt.Errorf("opening project %s: %w", projectID, ErrProjectNotFound)
		}
		s.project = &proj
		s.tabs = nil
		s.activeID = ""
		if m, ok := workspace.FindFileUnder(files, proj.ID, "main.py"); ok {
			mainFile = &m
		}
	case loadRefresh:
		s.applied = seq
		s.flat = files
		if s.project != nil {
			if proj, ok := findProject(files, s.project.ID); ok {
				s.project = &proj
			}
		}
		s.pruneTabsLocked(files)
	}
	s.mu.Unlock()

	s.logger.Debug("file list loaded", "project_id", projectID, "count", len(files), "seq", seq)

	if mode == loadOpen {
		s.record(ctx, activity.TypeProjectOpened, "", "opened project "+projectID)
		if mainFile != nil {
			if err := s.openFile(ctx, *mainFile, seq); err != nil {
				s.logger.Warn("could not open main.py", "error", err)
			}
		}
	}
	return nil
}

func (s *Service) appliedSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied
}

// invalidateLocked makes every load issued so far stale.
func (s *Service) invalidateLocked() {
	s.issued++
	s.applied = s.issued
}

// pruneTabsLocked closes tabs whose records are gone. Example tabs are kept.
func (s *Service) pruneTabsLocked(files []workspace.FileRecord) {
	present := make(map[string]struct{}, len(files))
	for _, f := range files {
		present[f.ID] = struct{}{}
	}
	kept := s.tabs[:0]
	for _, t := range s.tabs {
		if _, ok := present[t.ID]; ok || workspace.IsExample(t) {
			kept = append(kept, t)
		}
	}
	s.tabs = kept
	if _, ok := s.tabLocked(s.activeID); !ok {
		s.activeID = s.lastTabLocked()
	}
}

// CreateFile creates a file or folder. The parent defaults to the current project
// and file content defaults to the language template.
func (s *Service) CreateFile(ctx context.Context, req workspace.CreateRequest) (workspace.FileRecord, error) {
	if req.Kind == "" {
		req.Kind = workspace.KindFile
	}
	if err := workspace.ValidateName(req.Name); err != nil {
		s.fail("invalid name", err)
		return workspace.FileRecord{}, err
	}
	if err := workspace.ValidateKind(req.Kind); err != nil {
		s.fail("invalid kind", err)
		return workspace.FileRecord{}, err
	}

	if req.ParentID == "" {
		s.mu.Lock()
		if s.project != nil {
			req.ParentID = s.project.ID
		}
		s.mu.Unlock()
	}

	if req.Kind == workspace.KindFile {
		if req.Language == "" {
			req.Language = workspace.LanguagePython
		}
		lang, err := workspace.ParseLanguage(string(req.Language))
		if err != nil {
			s.fail("unsupported language", err)
			return workspace.FileRecord{}, err
		}
		req.Language = lang
		req.Name = workspace.EnsureExtension(req.Name, lang)
		if req.Content == nil {
			content := workspace.DefaultContent(lang)
			req.Content = &content
		}
	} else {
		req.Content = nil
		req.Language = ""
	}

	created, err := s.files.CreateFile(ctx, req)
	if err != nil {
		s.fail(fmt.Sprintf("could not create %s", req.Kind), err)
		return workspace.FileRecord{}, fmt.Errorf("creating %s: %w", req.Kind, err)
	}

	typ := activity.TypeFileCreated
	if req.Kind == workspace.KindFolder {
		typ = activity.TypeFolderCreated
	}
	s.notify.Success(fmt.Sprintf("%s created: %s", req.Kind, req.Name))
	s.record(ctx, typ, created.ID, "created "+req.Name)

	if err := s.load(ctx, "", loadRefresh); err != nil {
		s.logger.Warn("reload after create failed", "error", err)
	}
	return created, nil
}

// CreateFolder creates a folder under parentID, or under the current project.
func (s *Service) CreateFolder(ctx context.Context, name, parentID string) (workspace.FileRecord, error) {
	return s.CreateFile(ctx, workspace.CreateRequest{
		Name:     name,
		ParentID: parentID,
		Kind:     workspace.KindFolder,
	})
}

// OpenFile fetches the content of a file and makes it the active tab.
// Folders and projects are ignored.
func (s *Service) OpenFile(ctx context.Context, file workspace.FileRecord) error {
	return s.openFile(ctx, file, 0)
}

// openFile drops the tab when seq is set and a newer load has been applied
// while the content was in flight.
func (s *Service) openFile(ctx context.Context, file workspace.FileRecord, seq uint64) error {
	if file.Kind == workspace.KindFolder || file.Kind == workspace.KindProject {
		return nil
	}
	if file.Kind == "" {
		file.Kind = workspace.KindFile
	}

	if !workspace.IsExample(file) {
		content, err := s.files.GetContent(ctx, file.ID)
		if err != nil {
			s.fail("could not open file", err)
			return fmt.Errorf("opening file: %w", err)
		}
		file.Content = content
	}

	s.mu.Lock()
	if seq != 0 && (s.closed || seq < s.applied) {
		s.mu.Unlock()
		s.logger.Debug("dropping stale tab", "file_id", file.ID, "seq", seq)
		return nil
	}
	replaced := false
	for i := range s.tabs {
		if s.tabs[i].ID == file.ID {
			s.tabs[i] = file
			replaced = true
			break
		}
	}
	if !replaced {
		s.tabs = append(s.tabs, file)
	}
	s.activeID = file.ID
	s.mu.Unlock()
	return nil
}

// OpenFileByID opens a file from the loaded list.
func (s *Service) OpenFileByID(ctx context.Context, id string) error {
	rec, ok := s.lookup(id)
	if !ok {
		s.fail("file not found", ErrFileNotFound)
		return fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	if !rec.IsFile() {
		return fmt.Errorf("%w: %s is a %s", ErrNotAFile, rec.Name, rec.Kind)
	}
	return s.OpenFile(ctx, rec)
}

// CloseFile removes a tab. Closing the active tab activates the last remaining one.
func (s *Service) CloseFile(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeTabLocked(id)
}

func (s *Service) closeTabLocked(id string) bool {
	idx := -1
	for i, t := range s.tabs {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.tabs = append(s.tabs[:idx], s.tabs[idx+1:]...)
	if s.activeID == id {
		s.activeID = s.lastTabLocked()
	}
	return true
}

// SetActive switches to an already open tab.
func (s *Service) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tabLocked(id); !ok {
		return fmt.Errorf("%w: %s is not open", ErrFileNotFound, id)
	}
	s.activeID = id
	return nil
}

// SaveFile persists content and updates the open tab. The list is not reloaded.
func (s *Service) SaveFile(ctx context.Context, id, content string) error {
	rec, _ := s.lookup(id)
	if workspace.IsExampleID(id) {
		s.fail("example files cannot be saved", ErrDetachedFile)
		return ErrDetachedFile
	}

	if err := s.files.UpdateContent(ctx, id, content); err != nil {
		s.fail("could not save file", err)
		return fmt.Errorf("saving file: %w", err)
	}

	s.mu.Lock()
	for i := range s.tabs {
		if s.tabs[i].ID == id {
			s.tabs[i].Content = content
		}
	}
	s.mu.Unlock()

	s.notify.Success("saved " + displayName(rec, id))
	s.record(ctx, activity.TypeFileSaved, id, "saved "+displayName(rec, id))
	return nil
}

// DeleteFile deletes a record, closes its tab and reloads the list.
func (s *Service) DeleteFile(ctx context.Context, id string) error {
	rec, _ := s.lookup(id)
	if workspace.IsExampleID(id) {
		s.fail("example files cannot be deleted", ErrDetachedFile)
		return ErrDetachedFile
	}

	if err := s.files.Delete(ctx, id); err != nil {
		s.fail("could not delete file", err)
		return fmt.Errorf("deleting file: %w", err)
	}

	s.mu.Lock()
	s.closeTabLocked(id)
	if s.project != nil && s.project.ID == id {
		s.project = nil
	}
	s.mu.Unlock()

	s.notify.Success("deleted " + displayName(rec, id))
	s.record(ctx, activity.TypeFileDeleted, id, "deleted "+displayName(rec, id))

	if err := s.load(ctx, "", loadRefresh); err != nil {
		s.logger.Warn("reload after delete failed", "error", err)
	}
	return nil
}

// RenameFile renames a record, patches open tabs and reloads the list.
func (s *Service) RenameFile(ctx context.Context, id, newName string) error {
	if err := workspace.ValidateName(newName); err != nil {
		s.fail("invalid name", err)
		return err
	}
	rec, _ := s.lookup(id)

	if err := s.files.Rename(ctx, id, newName); err != nil {
		s.fail("could not rename file", err)
		return fmt.Errorf("renaming file: %w", err)
	}

	s.mu.Lock()
	for i := range s.tabs {
		if s.tabs[i].ID == id {
			s.tabs[i].Name = newName
		}
	}
	if s.project != nil && s.project.ID == id {
		s.project.Name = newName
	}
	s.mu.Unlock()

	s.notify.Success("renamed to " + newName)
	s.record(ctx, activity.TypeFileRenamed, id, fmt.Sprintf("renamed %s to %s", displayName(rec, id), newName))

	if err := s.load(ctx, "", loadRefresh); err != nil {
		s.logger.Warn("reload after rename failed", "error", err)
	}
	return nil
}

// Download writes the raw content of a file to w.
func (s *Service) Download(ctx context.Context, id string, w io.Writer) (int64, error) {
	rec, ok := s.lookup(id)
	if ok && !rec.IsFile() {
		err := fmt.Errorf("%w: %s cannot be downloaded", ErrNotAFile, rec.Name)
		s.fail("folders cannot be downloaded", err)
		return 0, err
	}
	if workspace.IsExampleID(id) {
		content := rec.Content
		if tab, open := s.tab(id); open {
			content = tab.Content
		}
		n, err := io.WriteString(w, content)
		return int64(n), err
	}

	n, err := s.files.Download(ctx, id, w)
	if err != nil {
		s.fail("could not download file", err)
		return n, fmt.Errorf("downloading file: %w", err)
	}
	return n, nil
}

// ClearOutput empties the run log.
func (s *Service) ClearOutput() {
	s.mu.Lock()
	s.output = ""
	s.mu.Unlock()
}

// Output returns the accumulated run log.
func (s *Service) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output
}

func (s *Service) appendOutput(text string) {
	s.mu.Lock()
	s.output += text
	s.mu.Unlock()
}

func (s *Service) lookup(id string) (workspace.FileRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.flat {
		if f.ID == id {
			return f, true
		}
	}
	if t, ok := s.tabLocked(id); ok {
		return t, true
	}
	return workspace.FileRecord{}, false
}

func (s *Service) tab(id string) (workspace.FileRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tabLocked(id)
}

func (s *Service) tabLocked(id string) (workspace.FileRecord, bool) {
	if id == "" {
		return workspace.FileRecord{}, false
	}
	for _, t := range s.tabs {
		if t.ID == id {
			return t, true
		}
	}
	return workspace.FileRecord{}, false
}

func (s *Service) lastTabLocked() string {
	if len(s.tabs) == 0 {
		return ""
	}
	return s.tabs[len(s.tabs)-1].ID
}

func (s *Service) fail(fallback string, err error) {
	msg := messageFor(err, fallback)
	s.logger.Warn(fallback, "error", err)
	s.notify.Error(msg)
}

func (s *Service) record(ctx context.Context, typ activity.ActivityType, fileID, summary string) {
	if s.activity == nil {
		return
	}
	s.mu.Lock()
	owner := s.owner
	projectID := ""
	if s.project != nil {
		projectID = s.project.ID
	}
	s.mu.Unlock()

	entry := &activity.ActivityEntry{
		SessionID:    s.id,
		ProjectID:    projectID,
		ActivityType: typ,
		Summary:      summary,
	}
	if fileID != "" {
		entry.FileID = &fileID
	}
	if err := s.activity.LogActivity(ctx, owner, entry); err != nil {
		s.logger.Warn("failed to log activity", "type", typ, "error", err)
	}
}

// messageFor prefers the backend message, then validation text, then the fallback.
func messageFor(err error, fallback string) string {
	var backend interface{ BackendMessage() string }
	if errors.As(err, &backend) && backend.BackendMessage() != "" {
		return backend.BackendMessage()
	}
	if errors.Is(err, workspace.ErrInvalidInput) || errors.Is(err, workspace.ErrUnsupportedLanguage) {
		return err.Error()
	}
	return fallback
}

func findProject(files []workspace.FileRecord, id string) (workspace.FileRecord, bool) {
	for _, f := range files {
		if f.ID == id && f.Kind == workspace.KindProject {
			return f, true
		}
	}
	return workspace.FileRecord{}, false
}

func displayName(rec workspace.FileRecord, id string) string {
	if rec.Name != "" {
		return rec.Name
	}
	return id
}

type discardNotifier struct{}

func (discardNotifier) Success(string) {}
func (discardNotifier) Error(string)   {}
