// Package brew drives the Homebrew formula/cask backend.
package brew

import (
	"context"

	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
	"github.com/bmortens115/macOS-Onboarding/pkg/run"
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"github.com/rs/zerolog"
)

// Brew shells out to the brew binary for installs and maintenance.
type Brew struct {
	runner run.Runner
	logger zerolog.Logger
}

// New creates a Brew backend on the given runner.
func New(runner run.Runner) *Brew {
	return &Brew{
		runner: runner,
		logger: logging.GetLogger("backends.brew"),
	}
}

// Available reports whether brew is on PATH. Homebrew installs itself
// via an interactive installer this orchestrator does not own, so a
// missing brew is a prerequisite failure, not something to bootstrap.
func (b *Brew) Available() bool {
	return run.LookPath("brew")
}

// Install satisfies the executor's Installer interface for formula and
// cask items.
func (b *Brew) Install(ctx context.Context, item types.CatalogItem) error {
	switch item.Kind {
	case types.FormulaBackend:
		return b.runner.Run(ctx, "brew", "install", item.Name)
	case types.CaskBackend:
		args := []string{"install", "--cask"}
		if item.Options.NoQuarantine {
			args = append(args, "--no-quarantine")
		}
		args = append(args, item.Name)
		return b.runner.Run(ctx, "brew", args...)
	default:
		return errors.Newf(errors.ErrInvalidInput,
			"brew backend cannot install %s item %q", item.Kind, item.Name)
	}
}

// UpgradeAll upgrades every installed formula and cask. Issued
// unconditionally after the install batch; a no-op upgrade is fine.
func (b *Brew) UpgradeAll(ctx context.Context) error {
	b.logger.Info().Msg("Upgrading installed packages")
	return b.runner.Run(ctx, "brew", "upgrade")
}

// Cleanup removes outdated downloads and old versions.
func (b *Brew) Cleanup(ctx context.Context) error {
	b.logger.Info().Msg("Cleaning up old versions and caches")
	return b.runner.Run(ctx, "brew", "cleanup")
}
