// Package ui is the presentation layer: colored status markers, the
// batch progress bar, the welcome gate, and the end-of-run summary.
// It carries no orchestration logic.
package ui

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Interactive reports whether stdout is a terminal; non-interactive
// runs skip the prompt and the animated progress bar.
func Interactive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Info prints an informational marker line.
func Info(format string, args ...interface{}) {
	pterm.Info.Printfln(format, args...)
}

// Success prints a success marker line.
func Success(format string, args ...interface{}) {
	pterm.Success.Printfln(format, args...)
}

// Warning prints a warning marker line.
func Warning(format string, args ...interface{}) {
	pterm.Warning.Printfln(format, args...)
}

// Error prints an error marker line.
func Error(format string, args ...interface{}) {
	pterm.Error.Printfln(format, args...)
}

// RestoreTerminal undoes transient terminal state (hidden cursor)
// before the process exits, interrupt paths included.
func RestoreTerminal() {
	termenv.NewOutput(os.Stdout).ShowCursor()
}
