package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rpggio/pyeditor/internal/domain/account"
	"github.com/rpggio/pyeditor/internal/domain/activity"
	"github.com/rpggio/pyeditor/internal/domain/session"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
	"github.com/rpggio/pyeditor/internal/shell"
	"github.com/rpggio/pyeditor/internal/theme"
)

type command struct {
	name        string
	usage       string
	description string
	flags       func(fs *flag.FlagSet) any
	run         func(ctx context.Context, a *app, opts any, args []string) error
}

func noFlags(*flag.FlagSet) any { return nil }

var commandTable []command

func init() {
	commandTable = []command{
		{"login", "login [-u username] [-p password]", "Log in and keep the session for later commands", credentialFlags, runLogin},
		{"register", "register [-u username] [-e email] [-p password]", "Create an account and log in", credentialFlags, runRegister},
		{"logout", "logout", "End the backend session", noFlags, runLogout},
		{"whoami", "whoami", "Show the logged-in user", noFlags, runWhoami},
		{"delete-account", "delete-account -confirm <username>", "Delete the account and everything in it", deleteFlags, runDeleteAccount},
		{"projects", "projects [-stats]", "List projects", projectsFlags, runProjects},
		{"new-project", "new-project <name>", "Create a project; the next shell opens it", noFlags, runNewProject},
		{"open", "open <project-id> [file-id]", "Queue a project (and file) for the next shell", noFlags, runOpen},
		{"example", "example [-title t] <file|->", "Queue a code sample as an unsaved file for the next shell", exampleFlags, runExample},
		{"theme", "theme [light|dark|system|toggle]", "Show or change the color theme", noFlags, runTheme},
		{"history", "history [-project id] [-file id] [-type t] [-limit n]", "Show recent editor activity", historyFlags, runHistory},
		{"shell", "shell", "Start the interactive editor", noFlags, runShell},
		{"mcp", "mcp [-transport stdio|http] [-addr host:port]", "Serve the editor session over MCP", mcpFlags, runMCP},
	}
}

func commandByName(name string) (command, bool) {
	for _, cmd := range commandTable {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

type credentialOptions struct {
	username, email, password string
}

func credentialFlags(fs *flag.FlagSet) any {
	o := &credentialOptions{}
	fs.StringVar(&o.username, "u", "", "username")
	fs.StringVar(&o.email, "e", "", "email (register only)")
	fs.StringVar(&o.password, "p", "", "password (prompted when empty)")
	return o
}

func (o *credentialOptions) fill(a *app, withEmail bool) error {
	var err error
	if o.username == "" {
		if o.username, err = a.prompt("Username: "); err != nil {
			return err
		}
	}
	if withEmail && o.email == "" {
		if o.email, err = a.prompt("Email: "); err != nil {
			return err
		}
	}
	if o.password == "" {
		if o.password, err = a.promptPassword("Password: "); err != nil {
			return err
		}
	}
	return nil
}

func runLogin(ctx context.Context, a *app, opts any, _ []string) error {
	o := opts.(*credentialOptions)
	if err := o.fill(a, false); err != nil {
		return err
	}
	u, err := a.accounts.Login(ctx, o.username, o.password)
	if err != nil {
		return userFacing(err)
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", u.Username)
	return nil
}

func runRegister(ctx context.Context, a *app, opts any, _ []string) error {
	o := opts.(*credentialOptions)
	if err := o.fill(a, true); err != nil {
		return err
	}
	u, err := a.accounts.Register(ctx, account.RegisterRequest{Username: o.username, Email: o.email, Password: o.password})
	if err != nil {
		return userFacing(err)
	}
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", u.Username)
	return nil
}

func runLogout(ctx context.Context, a *app, _ any, _ []string) error {
	if err := a.accounts.Logout(ctx); err != nil {
		// The local session is gone either way.
		a.logger.Warn("logout failed", "error", err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func runWhoami(ctx context.Context, a *app, _ any, _ []string) error {
	u, err := a.accounts.CheckAuth(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s>\n", u.Username, u.Email)
	return nil
}

func deleteFlags(fs *flag.FlagSet) any {
	confirm := new(string)
	fs.StringVar(confirm, "confirm", "", "your username, to confirm")
	return confirm
}

func runDeleteAccount(ctx context.Context, a *app, opts any, _ []string) error {
	confirm := *opts.(*string)
	if _, err := a.accounts.CheckAuth(ctx); err != nil {
		return fmt.Errorf("not logged in: %w", err)
	}
	if confirm == "" {
		var err error
		if confirm, err = a.prompt("Type your username to delete the account: "); err != nil {
			return err
		}
	}
	if err := a.accounts.DeleteAccount(ctx, confirm); err != nil {
		return userFacing(err)
	}
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}

func projectsFlags(fs *flag.FlagSet) any {
	stats := new(bool)
	fs.BoolVar(stats, "stats", false, "show totals instead of the list")
	return stats
}

func runProjects(ctx context.Context, a *app, opts any, _ []string) error {
	palette := a.theme.Palette(ctx)
	if *opts.(*bool) {
		st, err := a.projects.Stats(ctx)
		if err != nil {
			return userFacing(err)
		}
		fmt.Fprintf(a.out, "%d projects, %d files, %d folders\n", st.TotalProjects, st.TotalFiles, st.TotalFolders)
		return nil
	}
	list, err := a.projects.List(ctx)
	if err != nil {
		return userFacing(err)
	}
	shell.RenderProjects(a.out, list, palette)
	return nil
}

func runNewProject(ctx context.Context, a *app, _ any, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: pyeditor new-project <name>")
	}
	created, err := a.projects.Create(ctx, strings.Join(args, " "))
	if err != nil {
		return userFacing(err)
	}
	intent := session.Intent{OpenProjectID: created.Project.ID, NewProjectCreated: true}
	if err := a.intents.Push(ctx, intent); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s [%s]. Run 'pyeditor shell' to open it.\n", created.Project.Name, created.Project.ID)
	return nil
}

func runOpen(ctx context.Context, a *app, _ any, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: pyeditor open <project-id> [file-id]")
	}
	intent := session.Intent{OpenProjectID: args[0]}
	if len(args) > 1 {
		intent.OpenFileID = args[1]
	}
	if err := a.intents.Push(ctx, intent); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Queued. Run 'pyeditor shell' to open it.")
	return nil
}

func exampleFlags(fs *flag.FlagSet) any {
	title := new(string)
	fs.StringVar(title, "title", "", "example title (defaults to the file name)")
	return title
}

func runExample(ctx context.Context, a *app, opts any, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: pyeditor example [-title t] <file|->")
	}
	title := *opts.(*string)
	var code []byte
	var err error
	if args[0] == "-" {
		code, err = io.ReadAll(a.in)
	} else {
		code, err = os.ReadFile(args[0])
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}
	}
	if err != nil {
		return fmt.Errorf("reading example: %w", err)
	}
	if title == "" {
		title = "Example"
	}

	file := workspace.ExampleFile(title, string(code), time.Now())
	if err := a.intents.Push(ctx, session.Intent{ExampleFile: &file}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Queued %s. Run 'pyeditor shell' to try it.\n", file.Name)
	return nil
}

func runTheme(ctx context.Context, a *app, _ any, args []string) error {
	if len(args) == 0 {
		m := a.theme.Current(ctx)
		fmt.Fprintf(a.out, "%s (%s)\n", m, a.theme.Resolve(m))
		return nil
	}
	if args[0] == "toggle" {
		m, err := a.theme.Toggle(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Theme set to %s\n", m)
		return nil
	}
	m, err := theme.ParseMode(args[0])
	if err != nil {
		return err
	}
	if err := a.theme.Set(ctx, m); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Theme set to %s\n", m)
	return nil
}

type historyOptions struct {
	projectID, fileID, typ string
	limit                  int
}

func historyFlags(fs *flag.FlagSet) any {
	o := &historyOptions{}
	fs.StringVar(&o.projectID, "project", "", "only this project")
	fs.StringVar(&o.fileID, "file", "", "only this file")
	fs.StringVar(&o.typ, "type", "", "only this activity type, e.g. file_saved")
	fs.IntVar(&o.limit, "limit", 20, "maximum entries")
	return o
}

func runHistory(ctx context.Context, a *app, opts any, _ []string) error {
	o := opts.(*historyOptions)
	u, err := a.accounts.CheckAuth(ctx)
	if err != nil {
		return fmt.Errorf("not logged in: %w", err)
	}
	list := activity.ListActivityOptions{ProjectID: o.projectID, Limit: o.limit}
	if o.fileID != "" {
		list.FileID = &o.fileID
	}
	if o.typ != "" {
		typ := activity.ActivityType(o.typ)
		list.ActivityType = &typ
	}
	entries, err := a.activity.GetRecentActivity(ctx, u.Username, list)
	if err != nil {
		return err
	}
	palette := a.theme.Palette(ctx)
	if len(entries) == 0 {
		fmt.Fprintln(a.out, palette.Muted.Render("(no activity)"))
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(a.out, "%s  %-16s %s\n",
			palette.Muted.Render(e.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			e.ActivityType,
			e.Summary,
		)
	}
	return nil
}

// mount applies the queued navigation intent, if any.
func (a *app) mount(ctx context.Context, sess *session.Service) error {
	intent, err := a.intents.Consume(ctx)
	if err != nil {
		return fmt.Errorf("reading queued navigation: %w", err)
	}
	if intent.IsZero() {
		return nil
	}
	return sess.Mount(ctx, intent)
}

func runShell(ctx context.Context, a *app, _ any, _ []string) error {
	palette := a.theme.Palette(ctx)
	notifier := shell.NewNotifier(a.out, palette)
	sess, _, err := a.newSession(ctx, notifier)
	if err != nil {
		return err
	}
	defer sess.Close()

	sh := shell.New(shell.Config{
		Session:  sess,
		Projects: a.projects,
		Notifier: notifier,
		Palette:  palette,
		Out:      a.out,
		Logger:   a.logger,
	})
	if err := a.mount(ctx, sess); err != nil {
		a.logger.Warn("could not open queued project", "error", err)
	}

	historyFile := ""
	if a.cfg.State.Path != ":memory:" {
		historyFile = filepath.Join(filepath.Dir(a.cfg.State.Path), "history")
	}
	rl, err := shell.NewReadline(historyFile)
	if err != nil {
		return fmt.Errorf("initialize readline: %w", err)
	}
	defer rl.Close()

	return sh.Run(ctx, rl)
}

// userFacing prefers the backend message for errors shown on the command line.
func userFacing(err error) error {
	var backend interface{ BackendMessage() string }
	if errors.As(err, &backend) && backend.BackendMessage() != "" {
		return errors.New(backend.BackendMessage())
	}
	return err
}
