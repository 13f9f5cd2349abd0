// Package run wraps external process invocation behind a small
// interface so inventory queries and backend installs can be exercised
// in tests without a real system.
package run

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
)

// Runner executes external commands. Every bootstrap action that
// touches a package manager or system tool goes through one of these.
type Runner interface {
	// Run executes the command, streaming its output to the user's
	// terminal. Used for installs where the tool's own progress output
	// is the feedback.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes the command and returns its captured stdout.
	// Used for inventory queries.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// OSRunner is the real implementation backed by os/exec.
type OSRunner struct{}

// NewOSRunner returns a Runner that executes commands on the host.
func NewOSRunner() OSRunner {
	return OSRunner{}
}

func (OSRunner) Run(ctx context.Context, name string, args ...string) error {
	logging.LogCommand(name, args)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

func (OSRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	logging.LogCommand(name, args)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	return strings.TrimRight(string(out), "\n"), err
}

// LookPath reports whether an executable is available on PATH.
func LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
