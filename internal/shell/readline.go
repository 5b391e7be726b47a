package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// NewReadline creates a readline instance with command completion.
func NewReadline(historyFile string) (*readline.Instance, error) {
	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, name := range Commands() {
		items = append(items, readline.PcItem(name))
	}
	return readline.NewEx(&readline.Config{
		Prompt:          "pyeditor> ",
		HistoryFile:     historyFile,
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
}

// Run reads and executes lines until exit, EOF or ctx is done.
func (s *Shell) Run(ctx context.Context, rl *readline.Instance) error {
	fmt.Fprintln(s.out, s.palette.Title.Render("pyeditor shell. Use 'help' for the list of commands."))
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		rl.SetPrompt(s.Prompt())

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(s.out, "Use 'exit' or 'quit' to leave the shell.")
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading line: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		err = s.Execute(ctx, ParseArgs(line))
		switch {
		case errors.Is(err, ErrExit):
			return nil
		case errors.Is(err, ErrUsage):
			fmt.Fprintln(s.out, s.palette.Error.Render(err.Error()))
		case err != nil:
			// Session operations have already notified.
			s.logger.Debug("command failed", "line", line, "error", err)
		}
	}
}
