package logger

import "github.com/mattn/go-isatty"

// isTerminal reports whether fd is attached to an interactive terminal,
// including a Cygwin/MSYS pty on Windows. NewColorTextHandler uses this to
// decide whether to emit ANSI color codes.
func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
