package mocks

import (
	"context"
	"io"

	"github.com/rpggio/pyeditor/internal/domain/account"
	"github.com/rpggio/pyeditor/internal/domain/activity"
	"github.com/rpggio/pyeditor/internal/domain/project"
	"github.com/rpggio/pyeditor/internal/domain/session"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
	"github.com/stretchr/testify/mock"
)

// FileAPI is a mock for session.FileAPI.
type FileAPI struct {
	mock.Mock
}

func (m *FileAPI) ListFiles(ctx context.Context, projectID string) ([]workspace.FileRecord, error) {
	args := m.Called(ctx, projectID)
	if files, ok := args.Get(0).([]workspace.FileRecord); ok {
		return files, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FileAPI) GetContent(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *FileAPI) CreateFile(ctx context.Context, req workspace.CreateRequest) (workspace.FileRecord, error) {
	args := m.Called(ctx, req)
	if rec, ok := args.Get(0).(workspace.FileRecord); ok {
		return rec, args.Error(1)
	}
	return workspace.FileRecord{}, args.Error(1)
}

func (m *FileAPI) UpdateContent(ctx context.Context, id, content string) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

func (m *FileAPI) Rename(ctx context.Context, id, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *FileAPI) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *FileAPI) Download(ctx context.Context, id string, w io.Writer) (int64, error) {
	args := m.Called(ctx, id, w)
	return args.Get(0).(int64), args.Error(1)
}

// Executor is a mock for session.Executor.
type Executor struct {
	mock.Mock
}

func (m *Executor) Execute(ctx context.Context, code string, lang workspace.Language) (workspace.Execution, error) {
	args := m.Called(ctx, code, lang)
	if res, ok := args.Get(0).(workspace.Execution); ok {
		return res, args.Error(1)
	}
	return workspace.Execution{}, args.Error(1)
}

// Notifier is a mock for session.Notifier.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) Success(msg string) {
	m.Called(msg)
}

func (m *Notifier) Error(msg string) {
	m.Called(msg)
}

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, owner string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, owner, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, owner string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, owner, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityLogger is a mock for session.ActivityLogger.
type ActivityLogger struct {
	mock.Mock
}

func (m *ActivityLogger) LogActivity(ctx context.Context, owner string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, owner, entry)
	return args.Error(0)
}

// AccountBackend is a mock for account.Backend.
type AccountBackend struct {
	mock.Mock
}

func (m *AccountBackend) Me(ctx context.Context) (*account.User, error) {
	args := m.Called(ctx)
	if u, ok := args.Get(0).(*account.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AccountBackend) Login(ctx context.Context, username, password string) (*account.User, error) {
	args := m.Called(ctx, username, password)
	if u, ok := args.Get(0).(*account.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AccountBackend) Register(ctx context.Context, req account.RegisterRequest) (*account.User, error) {
	args := m.Called(ctx, req)
	if u, ok := args.Get(0).(*account.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AccountBackend) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *AccountBackend) DeleteAccount(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// SessionStore is a mock for account.SessionStore.
type SessionStore struct {
	mock.Mock
}

func (m *SessionStore) Save(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *SessionStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ProjectBackend is a mock for project.Backend.
type ProjectBackend struct {
	mock.Mock
}

func (m *ProjectBackend) CreateProject(ctx context.Context, name, projectType string) (*project.Created, error) {
	args := m.Called(ctx, name, projectType)
	if c, ok := args.Get(0).(*project.Created); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectBackend) ListFiles(ctx context.Context, projectID string) ([]workspace.FileRecord, error) {
	args := m.Called(ctx, projectID)
	if files, ok := args.Get(0).([]workspace.FileRecord); ok {
		return files, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectBackend) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// IntentRepository is a mock for repository.IntentRepository.
type IntentRepository struct {
	mock.Mock
}

func (m *IntentRepository) Push(ctx context.Context, intent session.Intent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

func (m *IntentRepository) Consume(ctx context.Context) (session.Intent, error) {
	args := m.Called(ctx)
	if intent, ok := args.Get(0).(session.Intent); ok {
		return intent, args.Error(1)
	}
	return session.Intent{}, args.Error(1)
}
