// Package elevate owns both crossings of the privilege boundary: up to
// root for the deployment-label and PAM phases, and down to the console
// (GUI) user for dock configuration. Escalation re-invokes this same
// binary under sudo with a typed job on the child's stdin, so the
// elevated process receives only the explicit state it needs and never
// ambient shell state.
package elevate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"

	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
)

// geteuid is swappable for tests.
var geteuid = os.Geteuid

// executable is swappable for tests.
var executable = os.Executable

// IsRoot reports whether the current process runs with elevated
// identity. Each caller checks independently; privilege is never
// assumed to persist between calls.
func IsRoot() bool {
	return geteuid() == 0
}

// Handler applies one job kind. Handlers are registered at startup so
// the hidden apply-job command can dispatch whatever a parent process
// serialized.
type Handler func(ctx context.Context, job Job) error

var handlers = map[JobKind]Handler{}

// RegisterHandler binds a handler to a job kind. Later registrations
// replace earlier ones, which tests rely on.
func RegisterHandler(kind JobKind, h Handler) {
	handlers[kind] = h
}

// Apply dispatches a job to its registered handler.
func Apply(ctx context.Context, job Job) error {
	h, ok := handlers[job.Kind]
	if !ok {
		return errors.Newf(errors.ErrInvalidInput, "no handler for job kind %q", job.Kind)
	}
	return h(ctx, job)
}

// RunElevated executes the job with root identity. Already-root callers
// dispatch directly, with no re-invocation and no duplicate side
// effects. Otherwise the same binary is re-invoked under sudo with the
// job JSON on stdin, and the child's exit status becomes this call's
// result.
func RunElevated(ctx context.Context, job Job) error {
	logger := logging.GetLogger("elevate")

	if IsRoot() {
		logger.Debug().Str("kind", string(job.Kind)).Msg("Already elevated, applying directly")
		return Apply(ctx, job)
	}

	self, err := executable()
	if err != nil {
		return errors.Wrap(err, errors.ErrElevation, "cannot resolve own executable path")
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, errors.ErrElevation, "cannot serialize job")
	}

	logger.Info().Str("kind", string(job.Kind)).Msg("Re-invoking under sudo")

	cmd := exec.CommandContext(ctx, "sudo", self, "apply-job")
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrElevation, "elevated %s job failed", job.Kind)
	}
	return nil
}

// PreCacheCredentials prompts for the sudo password up front so later
// escalations within the run do not stop for input. Best effort: a
// refusal surfaces when elevation is actually needed.
func PreCacheCredentials(ctx context.Context) error {
	if IsRoot() {
		return nil
	}
	cmd := exec.CommandContext(ctx, "sudo", "-v")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// ReadJob decodes a job from the given reader, typically the stdin of
// an elevated child process.
func ReadJob(r io.Reader) (Job, error) {
	var job Job
	if err := json.NewDecoder(r).Decode(&job); err != nil {
		return Job{}, errors.Wrap(err, errors.ErrInvalidInput, "cannot decode job from stdin")
	}
	return job, nil
}
