// Package shell is the interactive editor view: a readline loop over one session.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/rpggio/pyeditor/internal/domain/project"
	"github.com/rpggio/pyeditor/internal/domain/session"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
	"github.com/rpggio/pyeditor/internal/theme"
)

var (
	// ErrExit is returned by Execute when the user asks to leave.
	ErrExit = errors.New("exit requested")
	// ErrUsage indicates a malformed command line.
	ErrUsage = errors.New("usage")
)

// Config holds the shell dependencies.
type Config struct {
	Session  *session.Service
	Projects *project.Service
	Notifier session.Notifier
	Palette  theme.Palette
	Out      io.Writer
	Logger   *slog.Logger
}

// Shell dispatches editor commands against a session.
type Shell struct {
	session  *session.Service
	projects *project.Service
	notify   session.Notifier
	palette  theme.Palette
	out      io.Writer
	logger   *slog.Logger
}

// New creates a shell.
func New(cfg Config) *Shell {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NewNotifier(cfg.Out, cfg.Palette)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Shell{
		session:  cfg.Session,
		projects: cfg.Projects,
		notify:   cfg.Notifier,
		palette:  cfg.Palette,
		out:      cfg.Out,
		logger:   cfg.Logger,
	}
}

type command struct {
	usage string
	help  string
	min   int
	run   func(s *Shell, ctx context.Context, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":        {usage: "help [command]", help: "List commands or describe one.", run: (*Shell).cmdHelp},
		"projects":    {usage: "projects", help: "List projects with file counts.", run: (*Shell).cmdProjects},
		"new-project": {usage: "new-project <name>", help: "Create a project and open it.", min: 1, run: (*Shell).cmdNewProject},
		"open":        {usage: "open <project-id>", help: "Open a project and its main.py.", min: 1, run: (*Shell).cmdOpen},
		"refresh":     {usage: "refresh", help: "Reload the file list, keeping tabs and output.", run: (*Shell).cmdRefresh},
		"tree":        {usage: "tree", help: "Show the file tree.", run: (*Shell).cmdTree},
		"tabs":        {usage: "tabs", help: "Show open tabs.", run: (*Shell).cmdTabs},
		"edit":        {usage: "edit <file-id>", help: "Open a file in a tab.", min: 1, run: (*Shell).cmdEdit},
		"switch":      {usage: "switch <file-id>", help: "Activate an open tab.", min: 1, run: (*Shell).cmdSwitch},
		"close":       {usage: "close [file-id]", help: "Close a tab, the active one by default.", run: (*Shell).cmdClose},
		"show":        {usage: "show [file-id]", help: "Print the content of an open tab.", run: (*Shell).cmdShow},
		"touch":       {usage: "touch <name> [language] [parent-id]", help: "Create a file from the language template.", min: 1, run: (*Shell).cmdTouch},
		"mkdir":       {usage: "mkdir <name> [parent-id]", help: "Create a folder.", min: 1, run: (*Shell).cmdMkdir},
		"write":       {usage: "write <file-id> <text>", help: `Save text as the file content. "\n" starts a new line.`, min: 2, run: (*Shell).cmdWrite},
		"import":      {usage: "import <file-id> <local-path>", help: "Save a local file as the file content.", min: 2, run: (*Shell).cmdImport},
		"rm":          {usage: "rm <id>", help: "Delete a file, folder or project.", min: 1, run: (*Shell).cmdRemove},
		"mv":          {usage: "mv <id> <new-name>", help: "Rename a record.", min: 2, run: (*Shell).cmdRename},
		"run":         {usage: "run [file-id]", help: "Run the active tab, or the given open tab.", run: (*Shell).cmdRun},
		"output":      {usage: "output", help: "Print the run log.", run: (*Shell).cmdOutput},
		"clear":       {usage: "clear", help: "Clear the run log.", run: (*Shell).cmdClear},
		"download":    {usage: "download <file-id> [local-path]", help: "Write a file to disk, or to the screen.", min: 1, run: (*Shell).cmdDownload},
		"exit":        {usage: "exit", help: "Leave the shell.", run: (*Shell).cmdExit},
		"quit":        {usage: "quit", help: "Leave the shell.", run: (*Shell).cmdExit},
	}
}

// Commands returns the command names in order.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs one parsed command line.
func (s *Shell) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q, try help", ErrUsage, args[0])
	}
	if len(args)-1 < cmd.min {
		return fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
	}
	return cmd.run(s, ctx, args[1:])
}

// Prompt returns the prompt for the current project.
func (s *Shell) Prompt() string {
	st := s.session.Snapshot()
	if st.CurrentProject == nil {
		return "pyeditor> "
	}
	return fmt.Sprintf("pyeditor:%s> ", st.CurrentProject.Name)
}

// ParseArgs splits a line on spaces, keeping double-quoted runs together.
func ParseArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	quoted := false

	for _, r := range input {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			quoted = true
		case (r == ' ' || r == '\t') && !inQuotes:
			if current.Len() > 0 || quoted {
				args = append(args, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 || quoted {
		args = append(args, current.String())
	}
	return args
}

func (s *Shell) cmdHelp(_ context.Context, args []string) error {
	if len(args) > 0 {
		cmd, ok := commands[args[0]]
		if !ok {
			return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
		}
		fmt.Fprintf(s.out, "%s\n  %s\n", cmd.usage, cmd.help)
		return nil
	}
	fmt.Fprintln(s.out, s.palette.Title.Render("Commands"))
	for _, name := range Commands() {
		cmd := commands[name]
		fmt.Fprintf(s.out, "  %-36s %s\n", cmd.usage, s.palette.Muted.Render(cmd.help))
	}
	return nil
}

func (s *Shell) cmdProjects(ctx context.Context, _ []string) error {
	list, err := s.projects.List(ctx)
	if err != nil {
		s.notify.Error(messageFor(err, "could not load projects"))
		return err
	}
	RenderProjects(s.out, list, s.palette)
	return nil
}

func (s *Shell) cmdNewProject(ctx context.Context, args []string) error {
	created, err := s.projects.Create(ctx, strings.Join(args, " "))
	if err != nil {
		s.notify.Error(messageFor(err, "could not create project"))
		return err
	}
	s.notify.Success("project created: " + created.Project.Name)
	return s.session.RefreshEditor(ctx, session.Intent{OpenProjectID: created.Project.ID, NewProjectCreated: true})
}

func (s *Shell) cmdOpen(ctx context.Context, args []string) error {
	if err := s.session.LoadFiles(ctx, args[0]); err != nil {
		return err
	}
	return s.cmdTree(ctx, nil)
}

func (s *Shell) cmdRefresh(ctx context.Context, _ []string) error {
	return s.session.RefreshEditor(ctx, session.Intent{})
}

func (s *Shell) cmdTree(_ context.Context, _ []string) error {
	st := s.session.Snapshot()
	activeID := ""
	if st.ActiveFile != nil {
		activeID = st.ActiveFile.ID
	}
	RenderTree(s.out, st.Tree, s.palette, activeID)
	return nil
}

func (s *Shell) cmdTabs(_ context.Context, _ []string) error {
	RenderTabs(s.out, s.session.Snapshot(), s.palette)
	return nil
}

func (s *Shell) cmdEdit(ctx context.Context, args []string) error {
	if err := s.session.OpenFileByID(ctx, args[0]); err != nil {
		return err
	}
	return s.cmdTabs(ctx, nil)
}

func (s *Shell) cmdSwitch(ctx context.Context, args []string) error {
	if err := s.session.SetActive(args[0]); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return s.cmdTabs(ctx, nil)
}

func (s *Shell) cmdClose(ctx context.Context, args []string) error {
	id, err := s.targetTab(args)
	if err != nil {
		return err
	}
	if !s.session.CloseFile(id) {
		return fmt.Errorf("%w: %s is not open", ErrUsage, id)
	}
	return s.cmdTabs(ctx, nil)
}

func (s *Shell) cmdShow(_ context.Context, args []string) error {
	tab, err := s.openTab(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, s.palette.Title.Render(tab.Name))
	fmt.Fprintln(s.out, tab.Content)
	return nil
}

func (s *Shell) cmdTouch(ctx context.Context, args []string) error {
	req := workspace.CreateRequest{Name: args[0], Kind: workspace.KindFile}
	if len(args) > 1 {
		lang, err := workspace.ParseLanguage(args[1])
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		req.Language = lang
	} else if lang, ok := workspace.LanguageForName(args[0]); ok {
		req.Language = lang
	}
	if len(args) > 2 {
		req.ParentID = args[2]
	}
	_, err := s.session.CreateFile(ctx, req)
	return err
}

func (s *Shell) cmdMkdir(ctx context.Context, args []string) error {
	parentID := ""
	if len(args) > 1 {
		parentID = args[1]
	}
	_, err := s.session.CreateFolder(ctx, args[0], parentID)
	return err
}

func (s *Shell) cmdWrite(ctx context.Context, args []string) error {
	text := strings.ReplaceAll(strings.Join(args[1:], " "), `\n`, "\n")
	return s.session.SaveFile(ctx, args[0], text)
}

func (s *Shell) cmdImport(ctx context.Context, args []string) error {
	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return s.session.SaveFile(ctx, args[0], string(data))
}

func (s *Shell) cmdRemove(ctx context.Context, args []string) error {
	return s.session.DeleteFile(ctx, args[0])
}

func (s *Shell) cmdRename(ctx context.Context, args []string) error {
	return s.session.RenameFile(ctx, args[0], strings.Join(args[1:], " "))
}

func (s *Shell) cmdRun(ctx context.Context, args []string) error {
	tab, err := s.openTab(args)
	if err != nil {
		return err
	}
	before := len(s.session.Output())
	if _, err := s.session.RunCode(ctx, tab.Content, tab.Lang()); err != nil {
		if errors.Is(err, session.ErrRunInProgress) {
			s.notify.Error("a run is already in progress")
		}
		return err
	}
	out := s.session.Output()
	if len(out) >= before {
		fmt.Fprint(s.out, out[before:])
	}
	return nil
}

func (s *Shell) cmdOutput(_ context.Context, _ []string) error {
	out := s.session.Output()
	if out == "" {
		fmt.Fprintln(s.out, s.palette.Muted.Render("(no output)"))
		return nil
	}
	fmt.Fprint(s.out, out)
	return nil
}

func (s *Shell) cmdClear(_ context.Context, _ []string) error {
	s.session.ClearOutput()
	return nil
}

func (s *Shell) cmdDownload(ctx context.Context, args []string) error {
	if len(args) < 2 {
		_, err := s.session.Download(ctx, args[0], s.out)
		fmt.Fprintln(s.out)
		return err
	}
	f, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	n, err := s.session.Download(ctx, args[0], f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	s.notify.Success(fmt.Sprintf("wrote %d bytes to %s", n, args[1]))
	return nil
}

func (s *Shell) cmdExit(_ context.Context, _ []string) error {
	return ErrExit
}

// targetTab returns the given id or the active tab.
func (s *Shell) targetTab(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	st := s.session.Snapshot()
	if st.ActiveFile == nil {
		return "", fmt.Errorf("%w: no active file", ErrUsage)
	}
	return st.ActiveFile.ID, nil
}

func (s *Shell) openTab(args []string) (workspace.FileRecord, error) {
	id, err := s.targetTab(args)
	if err != nil {
		return workspace.FileRecord{}, err
	}
	for _, f := range s.session.Snapshot().OpenFiles {
		if f.ID == id {
			return f, nil
		}
	}
	return workspace.FileRecord{}, fmt.Errorf("%w: %s is not open, use edit first", ErrUsage, id)
}

func messageFor(err error, fallback string) string {
	var backend interface{ BackendMessage() string }
	if errors.As(err, &backend) && backend.BackendMessage() != "" {
		return backend.BackendMessage()
	}
	if errors.Is(err, project.ErrInvalidInput) {
		return err.Error()
	}
	return fallback
}
