// Package terminal holds helpers for the controlling terminal.
package terminal

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ColorEnv returns environment entries that force colored output from a
// child process when w is a terminal, and nil otherwise.
func ColorEnv(w io.Writer, names ...string) []string {
	if !IsTerminal(w) {
		return nil
	}
	env := make([]string, 0, len(names))
	for _, n := range names {
		env = append(env, n+"=1")
	}
	return env
}

// NotifyContext returns a context canceled on the first interrupt signal.
// Child processes started with exec.CommandContext are killed on cancel.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return notifyContext(parent)
}
