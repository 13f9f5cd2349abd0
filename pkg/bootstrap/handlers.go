package bootstrap

import (
	"context"

	"github.com/bmortens115/macOS-Onboarding/pkg/backends/deploy"
	"github.com/bmortens115/macOS-Onboarding/pkg/configedit"
	"github.com/bmortens115/macOS-Onboarding/pkg/elevate"
	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/executor"
	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
	"github.com/bmortens115/macOS-Onboarding/pkg/reconcile"
	"github.com/bmortens115/macOS-Onboarding/pkg/run"
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"github.com/bmortens115/macOS-Onboarding/pkg/ui"
)

// RegisterElevatedHandlers binds the handlers the hidden apply-job
// command dispatches to. Called once at startup by both the parent and
// the elevated child, which run the same binary.
func RegisterElevatedHandlers(runner run.Runner) {
	if runner == nil {
		runner = run.NewOSRunner()
	}
	elevate.RegisterHandler(elevate.JobDeployLabels, deployLabelsHandler(runner))
	elevate.RegisterHandler(elevate.JobPAMEdit, pamEditHandler)
}

// deployLabelsHandler bootstraps the deployment tool when missing and
// then runs the label batch fail-fast. Runs with root identity.
func deployLabelsHandler(runner run.Runner) elevate.Handler {
	return func(ctx context.Context, job elevate.Job) error {
		if job.Deploy == nil {
			return errors.New(errors.ErrInvalidInput, "deploy job carries no payload")
		}

		backend := deploy.New(runner, deploy.Options{
			ToolPath:           job.Deploy.Tool,
			ReleaseURL:         job.Deploy.ReleaseURL,
			PackageURLTemplate: job.Deploy.PackageURL,
		})
		if err := backend.Bootstrap(ctx); err != nil {
			return err
		}

		items := make([]types.CatalogItem, 0, len(job.Deploy.Labels))
		for _, label := range job.Deploy.Labels {
			items = append(items, types.CatalogItem{Name: label, Kind: types.LabelBackend})
		}
		catalog := types.Catalog{Kind: types.LabelBackend, Items: items}

		// Labels have no inventory; the tool is idempotent per label,
		// so every item is planned as an install.
		plan := reconcile.Plan(catalog, types.EmptySnapshot(types.LabelBackend))

		bar := ui.NewBar(string(types.LabelBackend), reconcile.Pending(plan))
		defer bar.Stop()

		exec := executor.New(executor.Options{
			Installer: backend,
			Policy:    executor.FailFast,
			Progress:  bar.Callback(),
			Logger:    logging.GetLogger("executor.label"),
		})
		_, err := exec.Execute(ctx, types.LabelBackend, plan)
		return err
	}
}

// pamEditHandler performs the insert-if-absent PAM edit with backup.
// Runs with root identity.
func pamEditHandler(ctx context.Context, job elevate.Job) error {
	if job.PAM == nil {
		return errors.New(errors.ErrInvalidInput, "pam job carries no payload")
	}

	logger := logging.GetLogger("bootstrap.pam")
	result, backup, err := configedit.EnsureLineInFile(job.PAM.Path, job.PAM.Line)
	if err != nil {
		return err
	}

	switch result {
	case configedit.NoOp:
		logger.Info().Str("file", job.PAM.Path).Msg("Line already present")
	case configedit.Inserted:
		logger.Info().
			Str("file", job.PAM.Path).
			Str("backup", backup).
			Msg("Line inserted, original backed up")
	}
	return nil
}
