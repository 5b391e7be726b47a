package shell

import (
	"fmt"
	"io"
	"sync"

	"github.com/rpggio/pyeditor/internal/theme"
)

// Notifier prints session toasts as single styled lines.
type Notifier struct {
	mu      sync.Mutex
	w       io.Writer
	palette theme.Palette
}

// NewNotifier creates a notifier writing to w.
func NewNotifier(w io.Writer, p theme.Palette) *Notifier {
	return &Notifier{w: w, palette: p}
}

// Success prints a success line.
func (n *Notifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, n.palette.Success.Render("✓ "+msg))
}

// Error prints an error line.
func (n *Notifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, n.palette.Error.Render("✗ "+msg))
}
