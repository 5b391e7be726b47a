package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/rpggio/pyeditor/internal/domain/project"
	"github.com/rpggio/pyeditor/internal/domain/session"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
	"github.com/rpggio/pyeditor/internal/theme"
)

// RenderTree draws the forest with box-drawing branches. The active file is starred.
func RenderTree(w io.Writer, nodes []*workspace.Node, p theme.Palette, activeID string) {
	if len(nodes) == 0 {
		fmt.Fprintln(w, p.Muted.Render("(no files)"))
		return
	}
	renderNodes(w, nodes, "", p, activeID)
}

func renderNodes(w io.Writer, nodes []*workspace.Node, prefix string, p theme.Palette, activeID string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch, next := "├── ", "│   "
		if last {
			branch, next = "└── ", "    "
		}
		marker := ""
		if n.ID == activeID {
			marker = " *"
		}
		label := p.ForFile(n.FileRecord).Render(n.Name)
		fmt.Fprintf(w, "%s%s%s %s%s %s\n", prefix, branch, theme.Icon(n.FileRecord), label, marker, p.Muted.Render("["+n.ID+"]"))
		renderNodes(w, n.Children, prefix+next, p, activeID)
	}
}

// RenderTabs draws the open tabs on one line.
func RenderTabs(w io.Writer, st session.State, p theme.Palette) {
	if len(st.OpenFiles) == 0 {
		fmt.Fprintln(w, p.Muted.Render("(no open files)"))
		return
	}
	activeID := ""
	if st.ActiveFile != nil {
		activeID = st.ActiveFile.ID
	}
	parts := make([]string, 0, len(st.OpenFiles))
	for _, f := range st.OpenFiles {
		if f.ID == activeID {
			parts = append(parts, p.ActiveTab.Render("["+f.Name+"]"))
			continue
		}
		parts = append(parts, p.Tab.Render(f.Name))
	}
	fmt.Fprintln(w, strings.Join(parts, " | "))
}

// RenderProjects draws the dashboard list.
func RenderProjects(w io.Writer, list []project.ProjectSummary, p theme.Palette) {
	if len(list) == 0 {
		fmt.Fprintln(w, p.Muted.Render("(no projects)"))
		return
	}
	for _, pr := range list {
		fmt.Fprintf(w, "%s %s  %s\n",
			p.Project.Render(pr.Name),
			p.Muted.Render("["+pr.ID+"]"),
			p.Muted.Render(fmt.Sprintf("%d files, %d folders", pr.FileCount, pr.FolderCount)),
		)
	}
}
