// Package bootstrap assembles the full machine-onboarding run: it
// builds the fixed phase list from the loaded configuration and wires
// the inventory reader, reconciler, executor, privilege escalator and
// backends together. The cmd layer stays thin; everything that decides
// what happens in which order lives here.
package bootstrap

import (
	"context"

	"github.com/bmortens115/macOS-Onboarding/pkg/backends/brew"
	"github.com/bmortens115/macOS-Onboarding/pkg/backends/dock"
	"github.com/bmortens115/macOS-Onboarding/pkg/backends/mas"
	"github.com/bmortens115/macOS-Onboarding/pkg/backends/prefs"
	"github.com/bmortens115/macOS-Onboarding/pkg/config"
	"github.com/bmortens115/macOS-Onboarding/pkg/elevate"
	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/executor"
	"github.com/bmortens115/macOS-Onboarding/pkg/inventory"
	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
	"github.com/bmortens115/macOS-Onboarding/pkg/reconcile"
	"github.com/bmortens115/macOS-Onboarding/pkg/run"
	"github.com/bmortens115/macOS-Onboarding/pkg/sequence"
	"github.com/bmortens115/macOS-Onboarding/pkg/shellfw"
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"github.com/bmortens115/macOS-Onboarding/pkg/ui"
	"github.com/rs/zerolog"
)

// Phase names, referenced by the dependency declarations below.
const (
	PhasePreferences = "preferences"
	PhaseHomebrew    = "homebrew"
	PhasePackages    = "packages"
	PhaseStore       = "app-store"
	PhaseDeploy      = "deploy"
	PhaseDock        = "dock"
	PhasePAM         = "pam"
	PhaseShell       = "shell"
)

// Options configures a bootstrap run.
type Options struct {
	Config *config.Config
	DryRun bool
	// Runner overrides the command runner, used by tests. Nil means
	// the real OS runner.
	Runner run.Runner
}

// Bootstrap drives one onboarding run.
type Bootstrap struct {
	cfg     *config.Config
	runner  run.Runner
	dryRun  bool
	logger  zerolog.Logger
	reports []types.BatchReport
}

// New creates a Bootstrap from the given options.
func New(opts Options) *Bootstrap {
	runner := opts.Runner
	if runner == nil {
		runner = run.NewOSRunner()
	}
	return &Bootstrap{
		cfg:    opts.Config,
		runner: runner,
		dryRun: opts.DryRun,
		logger: logging.GetLogger("bootstrap"),
	}
}

// Reports returns the per-batch reports collected so far, for the
// end-of-run summary.
func (b *Bootstrap) Reports() []types.BatchReport {
	return b.reports
}

// Run executes the whole phase sequence. The returned error is non-nil
// when the run was interrupted or any phase failed; best-effort item
// failures only show up in the reports.
func (b *Bootstrap) Run(ctx context.Context) ([]sequence.Result, error) {
	return sequence.New(b.phases()).Run(ctx)
}

// phases builds the fixed phase list. Dependencies are declared
// explicitly: the package batch needs Homebrew, everything else is
// independent and survives a sibling phase's failure.
func (b *Bootstrap) phases() []sequence.Phase {
	return []sequence.Phase{
		{Name: PhasePreferences, Run: b.runPreferences},
		{Name: PhaseHomebrew, Run: b.checkHomebrew},
		{Name: PhasePackages, DependsOn: []string{PhaseHomebrew}, Run: b.runPackages},
		{Name: PhaseStore, Run: b.runStore},
		{Name: PhaseDeploy, Run: b.runDeploy},
		{Name: PhaseDock, Run: b.runDock},
		{Name: PhasePAM, Run: b.runPAM},
		{Name: PhaseShell, Run: b.runShell},
	}
}

// runBatch is the shared reconcile-and-execute path for catalog-driven
// phases: snapshot, plan, execute with a progress bar sized to the
// pending work, collect the report.
func (b *Bootstrap) runBatch(ctx context.Context, reader *inventory.Reader, catalog types.Catalog, installer executor.Installer, policy executor.Policy) (types.BatchReport, error) {
	snapshot := reader.Snapshot(ctx, catalog.Kind)
	plan := reconcile.Plan(catalog, snapshot)

	bar := ui.NewBar(string(catalog.Kind), reconcile.Pending(plan))
	defer bar.Stop()

	exec := executor.New(executor.Options{
		Installer: installer,
		Policy:    policy,
		Progress:  bar.Callback(),
		DryRun:    b.dryRun,
		Logger:    logging.GetLogger("executor." + string(catalog.Kind)),
	})
	report, err := exec.Execute(ctx, catalog.Kind, plan)
	b.reports = append(b.reports, report)
	return report, err
}

func (b *Bootstrap) runPreferences(ctx context.Context) error {
	if len(b.cfg.Preferences) == 0 {
		b.logger.Debug().Msg("No preferences configured")
		return nil
	}
	if b.dryRun {
		ui.Info("Dry run: would write %d preference defaults", len(b.cfg.Preferences))
		return nil
	}
	writer := prefs.NewWriter(b.runner)
	if err := writer.Apply(ctx, b.cfg.Preferences); err != nil {
		return err
	}
	ui.Success("Preferences applied")
	return nil
}

func (b *Bootstrap) checkHomebrew(ctx context.Context) error {
	hasPackages := len(b.cfg.Packages.Formulas) > 0 || len(b.cfg.Packages.Casks) > 0
	if !hasPackages {
		return nil
	}
	if !brew.New(b.runner).Available() {
		return errors.New(errors.ErrPrereqMissing,
			"brew not found on PATH; install Homebrew before running")
	}
	return nil
}

func (b *Bootstrap) runPackages(ctx context.Context) error {
	backend := brew.New(b.runner)
	reader := inventory.NewReader(b.runner)

	installed := 0
	for _, catalog := range []types.Catalog{b.cfg.FormulaCatalog(), b.cfg.CaskCatalog()} {
		if len(catalog.Items) == 0 {
			continue
		}
		report, err := b.runBatch(ctx, reader, catalog, backend, executor.BestEffort)
		if err != nil {
			return err
		}
		installed += report.Succeeded()
	}

	if b.dryRun {
		return nil
	}

	// Upgrade and cleanup run unconditionally; both tolerate a
	// nothing-to-do result, so failures only warn.
	if err := backend.UpgradeAll(ctx); err != nil {
		b.logger.Warn().Err(err).Msg("brew upgrade failed")
	}
	if err := backend.Cleanup(ctx); err != nil {
		b.logger.Warn().Err(err).Msg("brew cleanup failed")
	}

	if installed > 0 {
		ui.Success("Homebrew packages installed")
	}
	return nil
}

func (b *Bootstrap) runStore(ctx context.Context) error {
	catalog := b.cfg.StoreCatalog()
	if len(catalog.Items) == 0 {
		return nil
	}

	backend := mas.New(b.runner)
	if !backend.Available() {
		return errors.New(errors.ErrPrereqMissing,
			"mas not found on PATH; app store items need it")
	}

	reader := inventory.NewReader(b.runner)
	if _, err := b.runBatch(ctx, reader, catalog, backend, executor.BestEffort); err != nil {
		return err
	}

	if b.dryRun {
		return nil
	}
	return backend.UpgradeAll(ctx)
}

// runDeploy hands the label batch to the privilege escalator. The
// elevated child bootstraps the deployment tool when missing and then
// runs the labels fail-fast; this parent only sees the exit status, so
// the report is synthesized from it.
func (b *Bootstrap) runDeploy(ctx context.Context) error {
	catalog := b.cfg.LabelCatalog()
	if len(catalog.Items) == 0 {
		return nil
	}

	if b.dryRun {
		// Labels have no inventory, so a dry run plans every label as
		// an install without elevating.
		_, err := b.runBatch(ctx, inventory.NewReader(b.runner), catalog,
			executor.InstallerFunc(func(context.Context, types.CatalogItem) error { return nil }),
			executor.FailFast)
		return err
	}

	err := elevate.RunElevated(ctx, elevate.Job{
		Kind: elevate.JobDeployLabels,
		Deploy: &elevate.DeployJob{
			Tool:       b.cfg.Deploy.Tool,
			ReleaseURL: b.cfg.Deploy.ReleaseURL,
			PackageURL: b.cfg.Deploy.PackageURL,
			Labels:     b.cfg.Deploy.Labels,
		},
	})
	b.reports = append(b.reports, labelReport(catalog, err))
	if err != nil {
		return err
	}
	ui.Success("Deployment labels installed")
	return nil
}

// labelReport reconstructs a batch report from the elevated child's
// exit status. On failure the child's log names the failing label; the
// parent only knows the batch did not complete.
func labelReport(catalog types.Catalog, err error) types.BatchReport {
	report := types.BatchReport{Kind: catalog.Kind}
	for _, item := range catalog.Items {
		result := types.ActionResult{Item: item, Status: types.StatusSucceeded}
		if err != nil {
			result.Status = types.StatusFailed
			result.Err = err
			result.Reason = "label batch aborted"
		}
		report.Results = append(report.Results, result)
	}
	return report
}

func (b *Bootstrap) runDock(ctx context.Context) error {
	catalog := b.cfg.DockCatalog()
	if len(catalog.Items) == 0 && !b.cfg.Dock.Clear {
		return nil
	}

	user, err := elevate.ConsoleUser(ctx, b.runner)
	if err != nil {
		return err
	}

	runner := elevate.AsUser(b.runner, user)
	backend := dock.New(runner)
	if !backend.Available() {
		return errors.New(errors.ErrPrereqMissing,
			"dockutil not found on PATH; dock items need it")
	}

	reader := inventory.NewReader(runner)
	reader.DockPlistPath = user.DockPlistPath()

	if b.cfg.Dock.Clear && !b.dryRun {
		if err := backend.Clear(ctx); err != nil {
			return err
		}
		// Everything was just removed, skip the inventory query.
		reader = nil
	}

	var report types.BatchReport
	if reader == nil {
		plan := reconcile.Plan(catalog, types.EmptySnapshot(catalog.Kind))
		bar := ui.NewBar(string(catalog.Kind), reconcile.Pending(plan))
		exec := executor.New(executor.Options{
			Installer: backend,
			Policy:    executor.BestEffort,
			Progress:  bar.Callback(),
			DryRun:    b.dryRun,
		})
		report, err = exec.Execute(ctx, catalog.Kind, plan)
		bar.Stop()
		b.reports = append(b.reports, report)
	} else {
		report, err = b.runBatch(ctx, reader, catalog, backend, executor.BestEffort)
	}
	if err != nil {
		return err
	}

	if !b.dryRun && (report.Succeeded() > 0 || b.cfg.Dock.Clear) {
		backend.Restart(ctx)
		ui.Success("Dock configured for %s", user.Name)
	}
	return nil
}

func (b *Bootstrap) runPAM(ctx context.Context) error {
	if b.cfg.PAM.Path == "" || b.cfg.PAM.Line == "" {
		return nil
	}
	if b.dryRun {
		ui.Info("Dry run: would ensure line in %s", b.cfg.PAM.Path)
		return nil
	}
	err := elevate.RunElevated(ctx, elevate.Job{
		Kind: elevate.JobPAMEdit,
		PAM:  &elevate.PAMJob{Path: b.cfg.PAM.Path, Line: b.cfg.PAM.Line},
	})
	if err != nil {
		return err
	}
	ui.Success("PAM configuration ensured")
	return nil
}

func (b *Bootstrap) runShell(ctx context.Context) error {
	shellCfg := b.cfg.Shell
	if shellCfg.FrameworkDir == "" && shellCfg.ProfileSource == "" && shellCfg.EnvFile == "" {
		return nil
	}
	if b.dryRun {
		ui.Info("Dry run: would set up shell framework and profile")
		return nil
	}

	shell := shellfw.New(b.runner)

	if shellCfg.FrameworkDir != "" && shellCfg.FrameworkRepo != "" {
		if err := shell.InstallOrUpdateFramework(ctx, shellCfg.FrameworkDir, shellCfg.FrameworkRepo); err != nil {
			return err
		}
	}
	if shellCfg.ProfileSource != "" && shellCfg.ProfileTarget != "" {
		if err := shell.LinkProfile(ctx, shellCfg.ProfileSource, shellCfg.ProfileTarget); err != nil {
			return err
		}
	}
	if err := shell.EnsureEnvLine(shellCfg.EnvFile, shellCfg.EvalLine); err != nil {
		return err
	}
	ui.Success("Shell environment configured")
	return nil
}
