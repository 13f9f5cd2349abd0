// Package dock configures the macOS dock layout through dockutil.
// Dock state is user-scoped: every command runs with the console user's
// identity, never root, so the runner handed to New is expected to be
// wrapped with elevate.AsUser.
package dock

import (
	"context"

	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
	"github.com/bmortens115/macOS-Onboarding/pkg/run"
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"github.com/rs/zerolog"
)

// Dock shells out to dockutil for the console user.
type Dock struct {
	runner run.Runner
	logger zerolog.Logger
}

// New creates a Dock backend on the given (console-user) runner.
func New(runner run.Runner) *Dock {
	return &Dock{
		runner: runner,
		logger: logging.GetLogger("backends.dock"),
	}
}

// Available reports whether dockutil is on PATH.
func (d *Dock) Available() bool {
	return run.LookPath("dockutil")
}

// Clear removes every item from the dock without restarting it; the
// restart happens once after the last add.
func (d *Dock) Clear(ctx context.Context) error {
	d.logger.Info().Msg("Clearing dock")
	return d.runner.Run(ctx, "dockutil", "--remove", "all", "--no-restart")
}

// Install satisfies the executor's Installer interface for dock items,
// whose names are filesystem paths.
func (d *Dock) Install(ctx context.Context, item types.CatalogItem) error {
	if item.Kind != types.DockBackend {
		return errors.Newf(errors.ErrInvalidInput,
			"dock backend cannot add %s item %q", item.Kind, item.Name)
	}
	return d.runner.Run(ctx, "dockutil", "--add", item.Name, "--no-restart")
}

// Restart reloads the dock so the new layout appears. Best effort: a
// missing Dock process is not an error.
func (d *Dock) Restart(ctx context.Context) {
	if err := d.runner.Run(ctx, "killall", "Dock"); err != nil {
		d.logger.Warn().Err(err).Msg("Dock restart failed, layout applies at next login")
	}
}
