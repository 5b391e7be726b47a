package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/pyeditor/internal/domain/activity"
	"github.com/rpggio/pyeditor/internal/domain/session"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
)

type tools struct {
	services Services
	owner    string
	logger   *slog.Logger
}

func (t *tools) register(server *sdkmcp.Server) {
	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects with their file and folder counts",
	}, t.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project with a main.py and open it in the editor",
	}, t.createProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "open_project",
		Description: "Open a project: load its files, reset tabs and open main.py",
	}, t.openProject)

	// Tree and tabs
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_tree",
		Description: "Get the loaded file tree, depth-first, with ids",
	}, t.getTree)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "open_file",
		Description: "Fetch a file's content and make it the active tab",
	}, t.openFile)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "close_file",
		Description: "Close an open tab",
	}, t.closeFile)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_tabs",
		Description: "Get the open tabs with their content and the active tab",
	}, t.getTabs)

	// Mutations
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_file",
		Description: "Replace the content of a file",
	}, t.saveFile)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_file",
		Description: "Create a file, by default in the open project with the language template",
	}, t.createFile)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_folder",
		Description: "Create a folder, by default in the open project",
	}, t.createFolder)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "rename_file",
		Description: "Rename a file, folder or project",
	}, t.renameFile)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_file",
		Description: "Delete a file, folder or project and close its tab",
	}, t.deleteFile)

	// Execution
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "run_code",
		Description: "Run code in the backend sandbox and append the result to the output log. Only one run at a time.",
	}, t.runCode)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_output",
		Description: "Get the accumulated output log",
	}, t.getOutput)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "clear_output",
		Description: "Clear the output log",
	}, t.clearOutput)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "refresh",
		Description: "Reload the file list keeping tabs and output, or reset into project_id",
	}, t.refresh)

	// History
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent editor activity, newest first",
	}, t.getRecentActivity)
}

func (t *tools) fail(tool string, err error) error {
	apiErr := MapError(err)
	t.logger.Debug("tool failed", "tool", tool, "code", apiErr.Code, "error", err)
	return apiErr
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &APIError{Code: CodeValidation, Message: field + " is required"}
	}
	return nil
}

func (t *tools) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, _ NoParams) (*sdkmcp.CallToolResult, ListProjectsResult, error) {
	list, err := t.services.Projects.List(ctx)
	if err != nil {
		return nil, ListProjectsResult{}, t.fail("list_projects", err)
	}
	out := ListProjectsResult{Projects: make([]ProjectView, 0, len(list))}
	for _, p := range list {
		out.Projects = append(out.Projects, projectView(p))
	}
	return nil, out, nil
}

func (t *tools) createProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, CreateProjectResult, error) {
	created, err := t.services.Projects.Create(ctx, in.Name)
	if err != nil {
		return nil, CreateProjectResult{}, t.fail("create_project", err)
	}
	intent := session.Intent{OpenProjectID: created.Project.ID, NewProjectCreated: true}
	if err := t.services.Session.RefreshEditor(ctx, intent); err != nil {
		return nil, CreateProjectResult{}, t.fail("create_project", err)
	}
	return nil, CreateProjectResult{Project: fileView(created.Project), MainFile: fileView(created.MainFile)}, nil
}

func (t *tools) openProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in OpenProjectParams) (*sdkmcp.CallToolResult, TreeResult, error) {
	if err := required("project_id", in.ProjectID); err != nil {
		return nil, TreeResult{}, err
	}
	if err := t.services.Session.LoadFiles(ctx, in.ProjectID); err != nil {
		return nil, TreeResult{}, t.fail("open_project", err)
	}
	return nil, treeResult(t.services.Session.Snapshot()), nil
}

func (t *tools) getTree(_ context.Context, _ *sdkmcp.CallToolRequest, _ NoParams) (*sdkmcp.CallToolResult, TreeResult, error) {
	return nil, treeResult(t.services.Session.Snapshot()), nil
}

func (t *tools) openFile(ctx context.Context, _ *sdkmcp.CallToolRequest, in FileIDParams) (*sdkmcp.CallToolResult, TabsResult, error) {
	if err := required("file_id", in.FileID); err != nil {
		return nil, TabsResult{}, err
	}
	if err := t.services.Session.OpenFileByID(ctx, in.FileID); err != nil {
		return nil, TabsResult{}, t.fail("open_file", err)
	}
	return nil, tabsResult(t.services.Session.Snapshot()), nil
}

func (t *tools) closeFile(_ context.Context, _ *sdkmcp.CallToolRequest, in FileIDParams) (*sdkmcp.CallToolResult, TabsResult, error) {
	if err := required("file_id", in.FileID); err != nil {
		return nil, TabsResult{}, err
	}
	if !t.services.Session.CloseFile(in.FileID) {
		return nil, TabsResult{}, &APIError{
			Code:         CodeValidation,
			Message:      fmt.Sprintf("file %s is not open", in.FileID),
			RecoveryHint: "Call get_tabs for open ids",
		}
	}
	return nil, tabsResult(t.services.Session.Snapshot()), nil
}

func (t *tools) getTabs(_ context.Context, _ *sdkmcp.CallToolRequest, _ NoParams) (*sdkmcp.CallToolResult, TabsResult, error) {
	return nil, tabsResult(t.services.Session.Snapshot()), nil
}

func (t *tools) saveFile(ctx context.Context, _ *sdkmcp.CallToolRequest, in SaveFileParams) (*sdkmcp.CallToolResult, OKResult, error) {
	if err := required("file_id", in.FileID); err != nil {
		return nil, OKResult{}, err
	}
	if err := t.services.Session.SaveFile(ctx, in.FileID, in.Content); err != nil {
		return nil, OKResult{}, t.fail("save_file", err)
	}
	return nil, OKResult{OK: true}, nil
}

func (t *tools) createFile(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateFileParams) (*sdkmcp.CallToolResult, FileResult, error) {
	rec, err := t.services.Session.CreateFile(ctx, workspace.CreateRequest{
		Name:     in.Name,
		ParentID: in.ParentID,
		Content:  in.Content,
		Kind:     workspace.KindFile,
		Language: workspace.Language(in.Language),
	})
	if err != nil {
		return nil, FileResult{}, t.fail("create_file", err)
	}
	return nil, FileResult{File: fileView(rec)}, nil
}

func (t *tools) createFolder(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateFolderParams) (*sdkmcp.CallToolResult, FileResult, error) {
	rec, err := t.services.Session.CreateFolder(ctx, in.Name, in.ParentID)
	if err != nil {
		return nil, FileResult{}, t.fail("create_folder", err)
	}
	return nil, FileResult{File: fileView(rec)}, nil
}

func (t *tools) renameFile(ctx context.Context, _ *sdkmcp.CallToolRequest, in RenameFileParams) (*sdkmcp.CallToolResult, OKResult, error) {
	if err := required("file_id", in.FileID); err != nil {
		return nil, OKResult{}, err
	}
	if err := t.services.Session.RenameFile(ctx, in.FileID, in.NewName); err != nil {
		return nil, OKResult{}, t.fail("rename_file", err)
	}
	return nil, OKResult{OK: true}, nil
}

func (t *tools) deleteFile(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteFileParams) (*sdkmcp.CallToolResult, OKResult, error) {
	if err := required("file_id", in.FileID); err != nil {
		return nil, OKResult{}, err
	}
	if err := t.services.Session.DeleteFile(ctx, in.FileID); err != nil {
		return nil, OKResult{}, t.fail("delete_file", err)
	}
	return nil, OKResult{OK: true}, nil
}

func (t *tools) runCode(ctx context.Context, _ *sdkmcp.CallToolRequest, in RunCodeParams) (*sdkmcp.CallToolResult, RunResult, error) {
	code, lang := in.Code, workspace.Language(in.Language)
	if code == "" {
		tab, err := t.tabToRun(in.FileID)
		if err != nil {
			return nil, RunResult{}, err
		}
		code = tab.Content
		if lang == "" {
			lang = tab.Lang()
		}
	}
	if lang == "" {
		lang = workspace.LanguagePython
	}

	res, err := t.services.Session.RunCode(ctx, code, lang)
	if err != nil {
		return nil, RunResult{}, t.fail("run_code", err)
	}
	return nil, RunResult{
		Success:       res.Success,
		Output:        res.Output,
		Error:         res.Error,
		ExecutionTime: res.ExecutionTime,
	}, nil
}

func (t *tools) tabToRun(fileID string) (workspace.FileRecord, error) {
	st := t.services.Session.Snapshot()
	if fileID == "" {
		if st.ActiveFile == nil {
			return workspace.FileRecord{}, &APIError{Code: CodeValidation, Message: "no active file and no code given", RecoveryHint: "Call open_file or pass code"}
		}
		return *st.ActiveFile, nil
	}
	for _, f := range st.OpenFiles {
		if f.ID == fileID {
			return f, nil
		}
	}
	return workspace.FileRecord{}, &APIError{Code: CodeValidation, Message: fmt.Sprintf("file %s is not open", fileID), RecoveryHint: "Call open_file first"}
}

func (t *tools) getOutput(_ context.Context, _ *sdkmcp.CallToolRequest, _ NoParams) (*sdkmcp.CallToolResult, OutputResult, error) {
	return nil, OutputResult{Output: t.services.Session.Output()}, nil
}

func (t *tools) clearOutput(_ context.Context, _ *sdkmcp.CallToolRequest, _ NoParams) (*sdkmcp.CallToolResult, OKResult, error) {
	t.services.Session.ClearOutput()
	return nil, OKResult{OK: true}, nil
}

func (t *tools) refresh(ctx context.Context, _ *sdkmcp.CallToolRequest, in RefreshParams) (*sdkmcp.CallToolResult, TreeResult, error) {
	if err := t.services.Session.RefreshEditor(ctx, session.Intent{OpenProjectID: in.ProjectID}); err != nil {
		return nil, TreeResult{}, t.fail("refresh", err)
	}
	return nil, treeResult(t.services.Session.Snapshot()), nil
}

func (t *tools) getRecentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetRecentActivityParams) (*sdkmcp.CallToolResult, ActivityResult, error) {
	if t.services.Activity == nil {
		return nil, ActivityResult{Entries: []ActivityView{}}, nil
	}
	opts := activity.ListActivityOptions{
		ProjectID: in.ProjectID,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	if in.FileID != "" {
		opts.FileID = &in.FileID
	}
	if in.ActivityType != "" {
		typ := activity.ActivityType(in.ActivityType)
		opts.ActivityType = &typ
	}
	entries, err := t.services.Activity.GetRecentActivity(ctx, t.owner, opts)
	if err != nil {
		return nil, ActivityResult{}, t.fail("get_recent_activity", err)
	}
	out := ActivityResult{Entries: make([]ActivityView, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, activityView(e))
	}
	return nil, out, nil
}
