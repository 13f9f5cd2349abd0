// Package shellfw installs or updates the user's shell framework and
// wires the shell profile: the framework directory is cloned or pulled
// in place, the profile file is replaced with a symlink to the managed
// copy, and the package-manager eval line is appended to the shell
// environment file when absent.
package shellfw

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmortens115/macOS-Onboarding/pkg/configedit"
	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
	"github.com/bmortens115/macOS-Onboarding/pkg/run"
	"github.com/rs/zerolog"
)

// Shell manages the framework, profile link, and environment line.
type Shell struct {
	runner run.Runner
	logger zerolog.Logger
}

// New creates a Shell on the given runner.
func New(runner run.Runner) *Shell {
	return &Shell{
		runner: runner,
		logger: logging.GetLogger("shellfw"),
	}
}

// InstallOrUpdateFramework clones the framework when its directory is
// missing and fast-forwards it otherwise. Install-or-update-in-place;
// there is no version pinning.
func (s *Shell) InstallOrUpdateFramework(ctx context.Context, dir, repo string) error {
	dir = ExpandHome(dir)
	if _, err := os.Stat(dir); err == nil {
		s.logger.Info().Str("dir", dir).Msg("Updating shell framework")
		if err := s.runner.Run(ctx, "git", "-C", dir, "pull", "--ff-only"); err != nil {
			return errors.Wrapf(err, errors.ErrItemInstall, "framework update in %s failed", dir)
		}
		return nil
	}

	s.logger.Info().Str("dir", dir).Str("repo", repo).Msg("Installing shell framework")
	if err := s.runner.Run(ctx, "git", "clone", "--depth=1", repo, dir); err != nil {
		return errors.Wrapf(err, errors.ErrItemInstall, "framework clone into %s failed", dir)
	}
	return nil
}

// EnsureEnvLine appends the package-manager eval line to the shell
// environment file when absent.
func (s *Shell) EnsureEnvLine(envFile, line string) error {
	if envFile == "" || line == "" {
		return nil
	}
	result, err := configedit.AppendLineIfAbsent(ExpandHome(envFile), line)
	if err != nil {
		return err
	}
	if result == configedit.Inserted {
		s.logger.Info().Str("file", envFile).Msg("Added shell environment line")
	}
	return nil
}

// ExpandHome resolves a leading ~/ against the current user's home.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
