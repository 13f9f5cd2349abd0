// Package mas drives the Mac App Store CLI backend.
package mas

import (
	"context"

	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
	"github.com/bmortens115/macOS-Onboarding/pkg/run"
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"github.com/rs/zerolog"
)

// MAS shells out to the mas binary for app store installs.
type MAS struct {
	runner run.Runner
	logger zerolog.Logger
}

// New creates a MAS backend on the given runner.
func New(runner run.Runner) *MAS {
	return &MAS{
		runner: runner,
		logger: logging.GetLogger("backends.mas"),
	}
}

// Available reports whether mas is on PATH.
func (m *MAS) Available() bool {
	return run.LookPath("mas")
}

// Install satisfies the executor's Installer interface for store items,
// whose names are numeric app IDs.
func (m *MAS) Install(ctx context.Context, item types.CatalogItem) error {
	if item.Kind != types.StoreBackend {
		return errors.Newf(errors.ErrInvalidInput,
			"mas backend cannot install %s item %q", item.Kind, item.Name)
	}
	return m.runner.Run(ctx, "mas", "install", item.Name)
}

// UpgradeAll upgrades installed store apps. Best effort: mas upgrade
// fails when the store account is not signed in, which must not fail
// the run.
func (m *MAS) UpgradeAll(ctx context.Context) error {
	m.logger.Info().Msg("Upgrading App Store apps")
	if err := m.runner.Run(ctx, "mas", "upgrade"); err != nil {
		m.logger.Warn().Err(err).Msg("App Store upgrade failed, continuing")
	}
	return nil
}
