package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/pyeditor/internal/domain/activity"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
)

// Running reports whether a run is outstanding.
func (s *Service) Running() bool {
	return s.running.Load()
}

// RunCode executes code and appends a timestamped block to the output.
// Only one run may be outstanding; a concurrent call returns ErrRunInProgress
// without issuing a request.
func (s *Service) RunCode(ctx context.Context, code string, lang workspace.Language) (workspace.Execution, error) {
	if !s.running.CompareAndSwap(false, true) {
		return workspace.Execution{}, ErrRunInProgress
	}
	defer s.running.Store(false)

	if lang == "" {
		lang = workspace.LanguagePython
	}
	stamp := s.now().Format("15:04:05")

	result, err := s.exec.Execute(ctx, code, lang)
	if err != nil {
		msg := messageFor(err, "could not run code")
		s.appendOutput(fmt.Sprintf("[%s] connection error: %s\n%s\n", stamp, msg, OutputRule))
		s.fail("could not run code", err)
		return workspace.Execution{}, fmt.Errorf("running code: %w", err)
	}

	s.appendOutput(formatRun(stamp, result))
	if !result.Success && result.Error != "" {
		s.notify.Error("code finished with an error")
	}

	s.record(ctx, activity.TypeCodeExecuted, s.activeFileID(), fmt.Sprintf("ran %s code (success=%t, %.3fs)", lang, result.Success, result.ExecutionTime))
	return result, nil
}

// formatRun renders stdout and stderr blocks followed by the rule, or nothing.
func formatRun(stamp string, result workspace.Execution) string {
	var b strings.Builder
	if strings.TrimSpace(result.Output) != "" {
		fmt.Fprintf(&b, "[%s]\n%s\n", stamp, result.Output)
	}
	if strings.TrimSpace(result.Error) != "" {
		fmt.Fprintf(&b, "[%s] error:\n%s\n", stamp, result.Error)
	}
	if b.Len() > 0 {
		b.WriteString(OutputRule)
		b.WriteString("\n")
	}
	return b.String()
}

func (s *Service) activeFileID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}
