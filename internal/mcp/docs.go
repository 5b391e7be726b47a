package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `pyeditor drives one editor session over a Python Web Editor backend.

Model:
- Project: a top-level record with a main.py. Folders and files hang below it by parent_id.
- Tree: the loaded file list as a forest. Ids from get_tree are what every other tool takes.
- Tabs: open files with their content, one of them active.
- Output: an append-only run log, one block per run_code call.

Workflow:
1) list_projects, then open_project (or create_project).
2) get_tree to find ids; open_file to read content.
3) save_file / create_file / create_folder / rename_file / delete_file to change things.
4) run_code runs the active tab by default. Only one run at a time (RUN_IN_PROGRESS).
5) get_output to read the log, clear_output to reset it.

Errors carry a code: VALIDATION, BACKEND, TRANSPORT or RUN_IN_PROGRESS.

Docs:
- pyeditor://docs/workflow
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "pyeditor://docs/workflow",
		Name:        "docs_workflow",
		Title:       "pyeditor editing workflow",
		Description: "How the session behaves: loading, tabs, saving, running and refreshing.",
		Content: `# pyeditor workflow

## Loading

- ` + "`open_project`" + ` makes the project current, closes every tab and opens its main.py when there is one.
- ` + "`refresh`" + ` without arguments reloads the current project in place. Tabs of files that no longer
  exist are closed; tabs and output are otherwise kept.
- ` + "`refresh`" + ` with project_id resets tabs and output and loads that project.

## Files

- New files default to the open project as parent and to the language template as content.
- A name without a dot gets the language extension (.py, .html, .css, .js).
- ` + "`save_file`" + ` does not reload the tree. Create, rename and delete do.
- Deleting a folder or project deletes everything below it.
- Folders and projects cannot be opened as tabs.

## Running

- ` + "`run_code`" + ` sends the active tab (or file_id, or code) to the backend sandbox.
- Each run appends a timestamped block to the output log followed by a rule line.
- A second run while one is in flight fails with RUN_IN_PROGRESS and changes nothing.
- Empty code is rejected by the backend (BACKEND).

## Failures

No tool retries. After a failure the session keeps its last good state, so it is safe to
call get_tree or get_tabs and try again.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
