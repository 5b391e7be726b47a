package session_test

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/pyeditor/internal/domain/activity"
	"github.com/rpggio/pyeditor/internal/domain/session"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
	"github.com/rpggio/pyeditor/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    *session.Service
	files  *mocks.FileAPI
	exec   *mocks.Executor
	notify *mocks.Notifier
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	files := &mocks.FileAPI{}
	exec := &mocks.Executor{}
	notify := &mocks.Notifier{}
	notify.On("Success", mock.Anything).Maybe()
	notify.On("Error", mock.Anything).Maybe()
	return fixture{
		svc:    session.NewService(files, exec, notify, nil, nil),
		files:  files,
		exec:   exec,
		notify: notify,
	}
}

type backendErr struct{ msg string }

func (e *backendErr) Error() string          { return "backend: " + e.msg }
func (e *backendErr) BackendMessage() string { return e.msg }

var demoProject = []workspace.FileRecord{
	{ID: "p1", Kind: workspace.KindProject, Name: "demo"},
	{ID: "f1", Kind: workspace.KindFile, Name: "main.py", ParentID: "p1"},
	{ID: "f2", Kind: workspace.KindFile, Name: "util.py", ParentID: "p1"},
}

func TestLoadFiles_OpensProjectAndMainFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("ListFiles", ctx, "p1").Return(demoProject, nil)
	f.files.On("GetContent", ctx, "f1").Return("print('hi')\n", nil)

	require.NoError(t, f.svc.LoadFiles(ctx, "p1"))

	st := f.svc.Snapshot()
	require.Equal(t, "p1", st.ProjectID())
	require.Len(t, st.Files, 3)
	require.Len(t, st.Tree, 1)
	require.Len(t, st.Tree[0].Children, 2)
	require.Equal(t, []string{"f1"}, st.TabIDs())
	require.NotNil(t, st.ActiveFile)
	require.Equal(t, "print('hi')\n", st.ActiveFile.Content)
	f.files.AssertExpectations(t)
}

func TestLoadFiles_ProjectWithoutMainFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("ListFiles", ctx, "p1").Return([]workspace.FileRecord{
		{ID: "p1", Kind: workspace.KindProject, Name: "demo"},
		{ID: "f2", Kind: workspace.KindFile, Name: "app.py", ParentID: "p1"},
	}, nil)

	require.NoError(t, f.svc.LoadFiles(ctx, "p1"))
	st := f.svc.Snapshot()
	require.Empty(t, st.OpenFiles)
	require.Nil(t, st.ActiveFile)
	f.files.AssertNotCalled(t, "GetContent", mock.Anything, mock.Anything)
}

func TestLoadFiles_GlobalForest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("ListFiles", ctx, "").Return([]workspace.FileRecord{
		{ID: "p1", Kind: workspace.KindProject, Name: "demo"},
		{ID: "f1", Kind: workspace.KindFile, Name: "main.py", ParentID: "p1"},
		{ID: "f2", Kind: workspace.KindFile, Name: "x.py", ParentID: "zzz"},
	}, nil)

	require.NoError(t, f.svc.LoadFiles(ctx, ""))
	st := f.svc.Snapshot()
	require.Nil(t, st.CurrentProject)
	require.Len(t, st.Tree, 2)
	require.Equal(t, "f2", st.Tree[1].ID)
}

func TestLoadFiles_FailureKeepsState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("ListFiles", ctx, "p1").Return(demoProject, nil).Once()
	f.files.On("GetContent", ctx, "f1").Return("x", nil)
	require.NoError(t, f.svc.LoadFiles(ctx, "p1"))
	before := f.svc.Snapshot()

	f.files.On("ListFiles", ctx, "p1").Return(nil, &backendErr{msg: "Dosyalar yüklenemedi"}).Once()
	err := f.svc.LoadFiles(ctx, "")
	require.Error(t, err)

	after := f.svc.Snapshot()
	require.Equal(t, before.Files, after.Files)
	require.Equal(t, before.TabIDs(), after.TabIDs())
	f.notify.AssertCalled(t, "Error", "Dosyalar yüklenemedi")
}

func TestLoadFiles_ProjectMissingFromList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("ListFiles", ctx, "").Return([]workspace.FileRecord{{ID: "a", Kind: workspace.KindFile}}, nil)
	f.files.On("ListFiles", ctx, "gone").Return([]workspace.FileRecord{{ID: "b", Kind: workspace.KindFile}}, nil)
	require.NoError(t, f.svc.LoadFiles(ctx, ""))

	err := f.svc.LoadFiles(ctx, "gone")
	require.ErrorIs(t, err, session.ErrProjectNotFound)
	st := f.svc.Snapshot()
	require.Nil(t, st.CurrentProject)
	require.Len(t, st.Files, 1)
	require.Equal(t, "b", st.Files[0].ID)
	f.notify.AssertCalled(t, "Error", "project not found")
}

func TestCreateFile_DefaultsParentAndTemplate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("ListFiles", ctx, "p1").Return(demoProject, nil)
	f.files.On("GetContent", ctx, "f1").Return("", nil)
	require.NoError(t, f.svc.LoadFiles(ctx, "p1"))

	expectedContent := "# Yeni Python dosyası\nprint(\"Merhaba Dünya!\")\n"
	f.files.On("CreateFile", ctx, mock.MatchedBy(func(req workspace.CreateRequest) bool {
		return req.Name == "notes.txt" &&
			req.ParentID == "p1" &&
			req.Kind == workspace.KindFile &&
			req.Language == workspace.LanguagePython &&
			req.Content != nil && *req.Content == expectedContent
	})).Return(workspace.FileRecord{ID: "f3", Name: "notes.txt", Kind: workspace.KindFile, ParentID: "p1"}, nil)

	created, err := f.svc.CreateFile(ctx, workspace.CreateRequest{Name: "notes.txt"})
	require.NoError(t, err)
	require.Equal(t, "f3", created.ID)

	// Reload was scoped to the project and kept the open tab.
	f.files.AssertNumberOfCalls(t, "ListFiles", 2)
	require.Equal(t, []string{"f1"}, f.svc.Snapshot().TabIDs())
}

func TestCreateFile_ExplicitContentAndExtension(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	content := "body{}"
	f.files.On("CreateFile", ctx, mock.MatchedBy(func(req workspace.CreateRequest) bool {
		return req.Name == "site.css" && req.ParentID == "" && *req.Content == content && req.Language == workspace.LanguageCSS
	})).Return(workspace.FileRecord{ID: "c1"}, nil)
	f.files.On("ListFiles", ctx, "").Return([]workspace.FileRecord{{ID: "c1", Name: "site.css", Kind: workspace.KindFile}}, nil)

	_, err := f.svc.CreateFile(ctx, workspace.CreateRequest{Name: "site", Content: &content, Language: workspace.LanguageCSS})
	require.NoError(t, err)
	f.files.AssertExpectations(t)
}

func TestCreateFile_FailureNotifiesAndKeepsState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("CreateFile", ctx, mock.Anything).Return(nil, &backendErr{msg: "Dosya oluşturulamadı"})

	_, err := f.svc.CreateFile(ctx, workspace.CreateRequest{Name: "a.py"})
	require.Error(t, err)
	f.notify.AssertCalled(t, "Error", "Dosya oluşturulamadı")
	f.files.AssertNotCalled(t, "ListFiles", mock.Anything, mock.Anything)
}

func TestCreateFile_ValidationFailure(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateFile(context.Background(), workspace.CreateRequest{Name: "  "})
	require.ErrorIs(t, err, workspace.ErrInvalidInput)
	f.files.AssertNotCalled(t, "CreateFile", mock.Anything, mock.Anything)
}

func TestCreateFolder_NoContentOrLanguage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("CreateFile", ctx, workspace.CreateRequest{Name: "lib", ParentID: "d1", Kind: workspace.KindFolder}).
		Return(workspace.FileRecord{ID: "d2", Kind: workspace.KindFolder}, nil)
	f.files.On("ListFiles", ctx, "").Return([]workspace.FileRecord{}, nil)

	_, err := f.svc.CreateFolder(ctx, "lib", "d1")
	require.NoError(t, err)
	f.files.AssertExpectations(t)
}

func TestOpenFile_IgnoresFoldersAndReplacesTab(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.svc.OpenFile(ctx, workspace.FileRecord{ID: "d1", Kind: workspace.KindFolder}))
	require.NoError(t, f.svc.OpenFile(ctx, workspace.FileRecord{ID: "p1", Kind: workspace.KindProject}))
	require.Empty(t, f.svc.Snapshot().OpenFiles)

	f.files.On("GetContent", ctx, "a").Return("v1", nil).Once()
	f.files.On("GetContent", ctx, "a").Return("v2", nil).Once()
	f.files.On("GetContent", ctx, "b").Return("b", nil).Once()

	fileA := workspace.FileRecord{ID: "a", Kind: workspace.KindFile, Name: "a.py"}
	fileB := workspace.FileRecord{ID: "b", Kind: workspace.KindFile, Name: "b.py"}
	require.NoError(t, f.svc.OpenFile(ctx, fileA))
	require.NoError(t, f.svc.OpenFile(ctx, fileB))
	require.NoError(t, f.svc.OpenFile(ctx, fileA))

	st := f.svc.Snapshot()
	require.Equal(t, []string{"a", "b"}, st.TabIDs())
	require.Equal(t, "a", st.ActiveFile.ID)
	require.Equal(t, "v2", st.OpenFiles[0].Content)
}

func TestCloseFile_BackgroundTabKeepsActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("GetContent", ctx, mock.Anything).Return("", nil)

	fileA := workspace.FileRecord{ID: "a", Kind: workspace.KindFile}
	fileB := workspace.FileRecord{ID: "b", Kind: workspace.KindFile}
	require.NoError(t, f.svc.OpenFile(ctx, fileA))
	require.NoError(t, f.svc.OpenFile(ctx, fileB))

	require.True(t, f.svc.CloseFile("a"))
	st := f.svc.Snapshot()
	require.Equal(t, []string{"b"}, st.TabIDs())
	require.Equal(t, "b", st.ActiveFile.ID)
}

func TestCloseFile_ActiveTabFallsBackToLast(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("GetContent", ctx, mock.Anything).Return("", nil)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, f.svc.OpenFile(ctx, workspace.FileRecord{ID: id, Kind: workspace.KindFile}))
	}
	require.NoError(t, f.svc.SetActive("b"))

	f.svc.CloseFile("b")
	st := f.svc.Snapshot()
	require.Equal(t, "c", st.ActiveFile.ID)

	f.svc.CloseFile("c")
	require.Equal(t, "a", f.svc.Snapshot().ActiveFile.ID)

	f.svc.CloseFile("a")
	st = f.svc.Snapshot()
	require.Nil(t, st.ActiveFile)
	require.Empty(t, st.OpenFiles)

	require.False(t, f.svc.CloseFile("missing"))
}

func TestSaveFile_UpdatesTabsWithoutReload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("GetContent", ctx, mock.Anything).Return("old", nil)
	f.files.On("UpdateContent", ctx, "a", "new").Return(nil)

	require.NoError(t, f.svc.OpenFile(ctx, workspace.FileRecord{ID: "a", Kind: workspace.KindFile}))
	require.NoError(t, f.svc.OpenFile(ctx, workspace.FileRecord{ID: "b", Kind: workspace.KindFile}))
	require.NoError(t, f.svc.SetActive("a"))

	require.NoError(t, f.svc.SaveFile(ctx, "a", "new"))

	st := f.svc.Snapshot()
	require.Equal(t, "new", st.ActiveFile.Content)
	require.Equal(t, "new", st.OpenFiles[0].Content)
	require.Equal(t, "old", st.OpenFiles[1].Content)
	f.files.AssertNotCalled(t, "ListFiles", mock.Anything, mock.Anything)
}

func TestSaveFile_FailureLeavesContent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("GetContent", ctx, "a").Return("old", nil)
	f.files.On("UpdateContent", ctx, "a", "new").Return(errors.New("timeout"))

	require.NoError(t, f.svc.OpenFile(ctx, workspace.FileRecord{ID: "a", Kind: workspace.KindFile}))
	require.Error(t, f.svc.SaveFile(ctx, "a", "new"))
	require.Equal(t, "old", f.svc.Snapshot().ActiveFile.Content)
	f.notify.AssertCalled(t, "Error", "could not save file")
}

func TestDeleteFile_ClosesTabAndReloads(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("ListFiles", ctx, "p1").Return(demoProject, nil).Once()
	f.files.On("GetContent", ctx, mock.Anything).Return("", nil)
	require.NoError(t, f.svc.LoadFiles(ctx, "p1"))
	require.NoError(t, f.svc.OpenFileByID(ctx, "f2"))

	f.files.On("Delete", ctx, "f2").Return(nil)
	f.files.On("ListFiles", ctx, "p1").Return(demoProject[:2], nil).Once()

	require.NoError(t, f.svc.DeleteFile(ctx, "f2"))
	st := f.svc.Snapshot()
	require.Equal(t, []string{"f1"}, st.TabIDs())
	require.Equal(t, "f1", st.ActiveFile.ID)
	require.Len(t, st.Files, 2)
}

func TestDeleteFile_CurrentProjectClosesItsTabs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("ListFiles", ctx, "p1").Return(demoProject, nil).Once()
	f.files.On("GetContent", ctx, mock.Anything).Return("", nil)
	require.NoError(t, f.svc.LoadFiles(ctx, "p1"))
	require.NoError(t, f.svc.OpenFileByID(ctx, "f2"))

	f.files.On("Delete", ctx, "p1").Return(nil)
	f.files.On("ListFiles", ctx, "").Return([]workspace.FileRecord{
		{ID: "p2", Kind: workspace.KindProject, Name: "other"},
	}, nil).Once()

	require.NoError(t, f.svc.DeleteFile(ctx, "p1"))
	st := f.svc.Snapshot()
	require.Nil(t, st.CurrentProject)
	require.Empty(t, st.OpenFiles)
	require.Nil(t, st.ActiveFile)
	require.Len(t, st.Files, 1)
}

func TestRenameFile_PatchesTabs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("ListFiles", ctx, "p1").Return(demoProject, nil).Once()
	f.files.On("GetContent", ctx, "f1").Return("", nil)
	require.NoError(t, f.svc.LoadFiles(ctx, "p1"))

	renamed := append([]workspace.FileRecord(nil), demoProject...)
	renamed[1].Name = "app.py"
	f.files.On("Rename", ctx, "f1", "app.py").Return(nil)
	f.files.On("ListFiles", ctx, "p1").Return(renamed, nil).Once()

	require.NoError(t, f.svc.RenameFile(ctx, "f1", "app.py"))
	st := f.svc.Snapshot()
	require.Equal(t, "app.py", st.ActiveFile.Name)
	require.Equal(t, "app.py", st.OpenFiles[0].Name)
}

func TestRunCode_AppendsOutputAndErrorBlocks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.exec.On("Execute", ctx, "print(1)", workspace.LanguagePython).
		Return(workspace.Execution{Output: "1", Error: "warn", Success: false}, nil)

	_, err := f.svc.RunCode(ctx, "print(1)", "")
	require.NoError(t, err)

	out := f.svc.Output()
	pattern := regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\]\n1\n\[\d{2}:\d{2}:\d{2}\] error:\nwarn\n─{40}\n$`)
	require.Regexp(t, pattern, out)
	f.notify.AssertCalled(t, "Error", "code finished with an error")
	require.False(t, f.svc.Running())
}

func TestRunCode_EmptyResultAppendsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.exec.On("Execute", ctx, "pass", workspace.LanguagePython).
		Return(workspace.Execution{Output: "  \n", Success: true}, nil)

	_, err := f.svc.RunCode(ctx, "pass", workspace.LanguagePython)
	require.NoError(t, err)
	require.Empty(t, f.svc.Output())
}

func TestRunCode_TransportFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.exec.On("Execute", ctx, "x", workspace.LanguagePython).Return(nil, errors.New("dial tcp: refused"))

	_, err := f.svc.RunCode(ctx, "x", workspace.LanguagePython)
	require.Error(t, err)
	require.Regexp(t, `^\[\d{2}:\d{2}:\d{2}\] connection error: could not run code\n─{40}\n$`, f.svc.Output())
	require.False(t, f.svc.Running())
}

func TestRunCode_SingleFlight(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	started := make(chan struct{})
	release := make(chan struct{})
	f.exec.On("Execute", ctx, "slow", workspace.LanguagePython).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(workspace.Execution{Output: "done", Success: true}, nil).Once()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = f.svc.RunCode(ctx, "slow", workspace.LanguagePython)
	}()
	<-started

	require.True(t, f.svc.Running())
	_, err := f.svc.RunCode(ctx, "other", workspace.LanguagePython)
	require.ErrorIs(t, err, session.ErrRunInProgress)
	require.Empty(t, f.svc.Output())

	close(release)
	wg.Wait()
	f.exec.AssertNumberOfCalls(t, "Execute", 1)
	require.True(t, strings.Contains(f.svc.Output(), "done"))
	require.False(t, f.svc.Running())
}

func TestClearOutput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.exec.On("Execute", ctx, "x", workspace.LanguagePython).Return(workspace.Execution{Output: "x", Success: true}, nil)
	_, _ = f.svc.RunCode(ctx, "x", workspace.LanguagePython)
	require.NotEmpty(t, f.svc.Output())

	f.svc.ClearOutput()
	require.Empty(t, f.svc.Output())
}

func TestRefreshEditor_ScopedKeepsTabsAndOutput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("ListFiles", ctx, "p1").Return(demoProject, nil)
	f.files.On("GetContent", ctx, mock.Anything).Return("", nil)
	f.exec.On("Execute", ctx, "x", workspace.LanguagePython).Return(workspace.Execution{Output: "x", Success: true}, nil)

	require.NoError(t, f.svc.LoadFiles(ctx, "p1"))
	require.NoError(t, f.svc.OpenFileByID(ctx, "f2"))
	_, _ = f.svc.RunCode(ctx, "x", workspace.LanguagePython)

	require.NoError(t, f.svc.RefreshEditor(ctx, session.Intent{}))
	st := f.svc.Snapshot()
	require.Equal(t, []string{"f1", "f2"}, st.TabIDs())
	require.Equal(t, "f2", st.ActiveFile.ID)
	require.NotEmpty(t, st.Output)
}

func TestRefreshEditor_PendingProjectResets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("ListFiles", ctx, "p1").Return(demoProject, nil)
	f.files.On("GetContent", ctx, mock.Anything).Return("", nil)
	f.exec.On("Execute", ctx, "x", workspace.LanguagePython).Return(workspace.Execution{Output: "x", Success: true}, nil)
	require.NoError(t, f.svc.LoadFiles(ctx, "p1"))
	require.NoError(t, f.svc.OpenFileByID(ctx, "f2"))
	_, _ = f.svc.RunCode(ctx, "x", workspace.LanguagePython)

	other := []workspace.FileRecord{
		{ID: "p2", Kind: workspace.KindProject, Name: "other"},
		{ID: "m2", Kind: workspace.KindFile, Name: "main.py", ParentID: "p2"},
	}
	f.files.On("ListFiles", ctx, "p2").Return(other, nil)

	require.NoError(t, f.svc.RefreshEditor(ctx, session.Intent{OpenProjectID: "p2"}))
	st := f.svc.Snapshot()
	require.Equal(t, "p2", st.ProjectID())
	require.Equal(t, []string{"m2"}, st.TabIDs())
	require.Empty(t, st.Output)
}

func TestRefreshEditor_NewProjectCreatedLoadsEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("ListFiles", ctx, "p1").Return(demoProject, nil).Once()
	f.files.On("GetContent", ctx, mock.Anything).Return("", nil)
	f.exec.On("Execute", ctx, "x", workspace.LanguagePython).Return(workspace.Execution{Output: "x", Success: true}, nil)
	require.NoError(t, f.svc.LoadFiles(ctx, "p1"))
	_, _ = f.svc.RunCode(ctx, "x", workspace.LanguagePython)

	all := append([]workspace.FileRecord{
		{ID: "p2", Kind: workspace.KindProject, Name: "fresh"},
		{ID: "m2", Kind: workspace.KindFile, Name: "main.py", ParentID: "p2"},
	}, demoProject...)
	f.files.On("ListFiles", ctx, "").Return(all, nil).Once()

	require.NoError(t, f.svc.RefreshEditor(ctx, session.Intent{NewProjectCreated: true}))
	st := f.svc.Snapshot()
	require.Nil(t, st.CurrentProject)
	require.Empty(t, st.OpenFiles)
	require.Nil(t, st.ActiveFile)
	require.Empty(t, st.Output)
	require.Len(t, st.Files, 5)
	require.Len(t, st.Tree, 2)
	f.files.AssertExpectations(t)
}

func TestMount_ExampleFileSkipsBackend(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	example := workspace.ExampleFile("Veri Analizi", "import pandas", time.UnixMilli(1))

	require.NoError(t, f.svc.Mount(ctx, session.Intent{ExampleFile: &example}))
	st := f.svc.Snapshot()
	require.Nil(t, st.CurrentProject)
	require.Equal(t, []string{example.ID}, st.TabIDs())
	require.Equal(t, example.ID, st.ActiveFile.ID)
	require.Len(t, st.Tree, 1)
	f.files.AssertNotCalled(t, "ListFiles", mock.Anything, mock.Anything)

	require.ErrorIs(t, f.svc.SaveFile(ctx, example.ID, "x"), session.ErrDetachedFile)

	var buf bytes.Buffer
	n, err := f.svc.Download(ctx, example.ID, &buf)
	require.NoError(t, err)
	require.Equal(t, int64(len("import pandas")), n)
	require.Equal(t, "import pandas", buf.String())
}

func TestMount_OpensRequestedFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("ListFiles", ctx, "p1").Return(demoProject, nil)
	f.files.On("GetContent", ctx, mock.Anything).Return("", nil)

	require.NoError(t, f.svc.Mount(ctx, session.Intent{OpenProjectID: "p1", OpenFileID: "f2"}))
	st := f.svc.Snapshot()
	require.Equal(t, []string{"f1", "f2"}, st.TabIDs())
	require.Equal(t, "f2", st.ActiveFile.ID)
}

func TestDownload_RejectsFolders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.files.On("ListFiles", ctx, "p1").Return(demoProject, nil)
	f.files.On("GetContent", ctx, mock.Anything).Return("", nil)
	require.NoError(t, f.svc.LoadFiles(ctx, "p1"))

	_, err := f.svc.Download(ctx, "p1", &bytes.Buffer{})
	require.ErrorIs(t, err, session.ErrNotAFile)
	f.files.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
}

func TestStaleReloadIsDropped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})
	f.files.On("ListFiles", ctx, "").
		Run(func(mock.Arguments) {
			close(slowStarted)
			<-releaseSlow
		}).
		Return([]workspace.FileRecord{{ID: "old", Kind: workspace.KindFile}}, nil).Once()
	f.files.On("ListFiles", ctx, "").
		Return([]workspace.FileRecord{{ID: "new", Kind: workspace.KindFile}}, nil).Once()

	done := make(chan error, 1)
	go func() { done <- f.svc.LoadFiles(ctx, "") }()
	<-slowStarted

	require.NoError(t, f.svc.LoadFiles(ctx, ""))
	close(releaseSlow)
	require.NoError(t, <-done)

	st := f.svc.Snapshot()
	require.Len(t, st.Files, 1)
	require.Equal(t, "new", st.Files[0].ID)
}

func TestStaleMainFileOpenIsDropped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	fetchStarted := make(chan struct{})
	releaseFetch := make(chan struct{})
	f.files.On("ListFiles", ctx, "p1").Return(demoProject, nil)
	f.files.On("GetContent", ctx, "f1").
		Run(func(mock.Arguments) {
			close(fetchStarted)
			<-releaseFetch
		}).
		Return("old main", nil).Once()

	other := []workspace.FileRecord{
		{ID: "p2", Kind: workspace.KindProject, Name: "other"},
		{ID: "m2", Kind: workspace.KindFile, Name: "main.py", ParentID: "p2"},
	}
	f.files.On("ListFiles", ctx, "p2").Return(other, nil)
	f.files.On("GetContent", ctx, "m2").Return("new main", nil)

	done := make(chan error, 1)
	go func() { done <- f.svc.LoadFiles(ctx, "p1") }()
	<-fetchStarted

	require.NoError(t, f.svc.RefreshEditor(ctx, session.Intent{OpenProjectID: "p2"}))
	close(releaseFetch)
	require.NoError(t, <-done)

	st := f.svc.Snapshot()
	require.Equal(t, "p2", st.ProjectID())
	require.Equal(t, []string{"m2"}, st.TabIDs())
	require.Equal(t, "m2", st.ActiveFile.ID)
	require.Equal(t, "new main", st.ActiveFile.Content)
}

func TestActivityIsRecorded(t *testing.T) {
	ctx := context.Background()
	files := &mocks.FileAPI{}
	logger := &mocks.ActivityLogger{}
	svc := session.NewService(files, &mocks.Executor{}, nil, logger, nil)
	svc.SetOwner("ayse")

	files.On("UpdateContent", ctx, "a", "x").Return(nil)
	logger.On("LogActivity", ctx, "ayse", mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeFileSaved && e.FileID != nil && *e.FileID == "a" && e.SessionID == svc.ID()
	})).Return(errors.New("ignored"))

	require.NoError(t, svc.SaveFile(ctx, "a", "x"))
	logger.AssertExpectations(t)
}
