// Package deploy drives the label-based deployment tool: a catalog of
// install recipes addressed by label. Its bootstrap (resolve release,
// download, install) and the label batch itself are both fail-fast,
// because the tool is a prerequisite for every label and later labels
// may depend on earlier ones.
package deploy

import (
	"context"
	"os"
	"path"
	"strings"

	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
	"github.com/bmortens115/macOS-Onboarding/pkg/run"
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures the deployment tool backend.
type Options struct {
	// ToolPath is where the tool lives once installed.
	ToolPath string
	// ReleaseURL is the "latest release" URL that redirects to the
	// tagged release; the final URL carries the version identifier.
	ReleaseURL string
	// PackageURLTemplate builds the installer package download URL;
	// "{version}" is replaced with the resolved version.
	PackageURLTemplate string
}

// Deploy shells out to the deployment tool and, when the tool is
// absent, installs it first.
type Deploy struct {
	runner run.Runner
	logger zerolog.Logger
	opts   Options

	// statFile is swappable for tests.
	statFile func(string) (os.FileInfo, error)
}

// New creates a Deploy backend.
func New(runner run.Runner, opts Options) *Deploy {
	return &Deploy{
		runner:   runner,
		logger:   logging.GetLogger("backends.deploy"),
		opts:     opts,
		statFile: os.Stat,
	}
}

// Installed reports whether the tool is present at its install path.
func (d *Deploy) Installed() bool {
	_, err := d.statFile(d.opts.ToolPath)
	return err == nil
}

// ResolveLatestVersion follows the release URL redirect and extracts
// the version identifier from the final URL's last path segment. A URL
// that does not resolve to a tagged release is a clear failure: without
// a version there is nothing to download.
func (d *Deploy) ResolveLatestVersion(ctx context.Context) (string, error) {
	out, err := d.runner.Output(ctx, "curl", "-fsSLI", "-o", "/dev/null", "-w", "%{url_effective}", d.opts.ReleaseURL)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrPrereqMissing,
			"cannot resolve release URL %s", d.opts.ReleaseURL)
	}

	final := strings.TrimSpace(out)
	version := path.Base(final)
	if final == "" || final == d.opts.ReleaseURL || version == "" || version == "latest" {
		return "", errors.Newf(errors.ErrPrereqMissing,
			"release URL %s did not resolve to a tagged release (got %q)", d.opts.ReleaseURL, final)
	}

	d.logger.Info().Str("version", version).Msg("Resolved deployment tool release")
	return version, nil
}

// Bootstrap installs the deployment tool when it is missing: resolve
// the latest version, download the package, run the system installer.
// Every step is fail-fast; a missing tool makes all label installs
// meaningless.
func (d *Deploy) Bootstrap(ctx context.Context) error {
	if d.Installed() {
		d.logger.Info().Str("tool", d.opts.ToolPath).Msg("Deployment tool already installed")
		return nil
	}

	version, err := d.ResolveLatestVersion(ctx)
	if err != nil {
		return err
	}

	pkgURL := strings.ReplaceAll(d.opts.PackageURLTemplate, "{version}", strings.TrimPrefix(version, "v"))
	pkgPath := "/tmp/" + path.Base(pkgURL)

	d.logger.Info().Str("url", pkgURL).Msg("Downloading deployment tool")
	if err := d.runner.Run(ctx, "curl", "-fSL", "-o", pkgPath, pkgURL); err != nil {
		return errors.Wrapf(err, errors.ErrPrereqMissing, "download of %s failed", pkgURL)
	}

	if err := d.runner.Run(ctx, "installer", "-pkg", pkgPath, "-target", "/"); err != nil {
		return errors.Wrapf(err, errors.ErrPrereqMissing, "install of %s failed", pkgPath)
	}

	if !d.Installed() {
		return errors.Newf(errors.ErrPrereqMissing,
			"deployment tool still missing at %s after install", d.opts.ToolPath)
	}
	return nil
}

// Install satisfies the executor's Installer interface for label items.
// Runs with root identity; the sequencer routes this batch through the
// privilege escalator.
func (d *Deploy) Install(ctx context.Context, item types.CatalogItem) error {
	if item.Kind != types.LabelBackend {
		return errors.Newf(errors.ErrInvalidInput,
			"deploy backend cannot install %s item %q", item.Kind, item.Name)
	}
	if !d.Installed() {
		return errors.Newf(errors.ErrPrereqMissing,
			"deployment tool not installed at %s", d.opts.ToolPath)
	}
	return d.runner.Run(ctx, d.opts.ToolPath, item.Name, "NOTIFY=silent")
}
