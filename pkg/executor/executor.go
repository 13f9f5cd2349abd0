package executor

import (
	"context"
	"time"

	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
	"github.com/bmortens115/macOS-Onboarding/pkg/reconcile"
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"github.com/rs/zerolog"
)

// Installer performs the real install work for one catalog item.
type Installer interface {
	Install(ctx context.Context, item types.CatalogItem) error
}

// InstallerFunc adapts a function to the Installer interface.
type InstallerFunc func(ctx context.Context, item types.CatalogItem) error

func (f InstallerFunc) Install(ctx context.Context, item types.CatalogItem) error {
	return f(ctx, item)
}

// Policy selects how a batch reacts to an individual item failure.
type Policy int

const (
	// BestEffort records the failure and continues to the next item.
	BestEffort Policy = iota
	// FailFast aborts the remaining items and propagates the error.
	FailFast
)

// Progress is invoked before and after each non-skip action, carrying
// the item's position within the plan. Skips do not fire it.
type Progress func(index, total int, item types.CatalogItem, done bool)

// Options configures an Executor.
type Options struct {
	Installer Installer
	Policy    Policy
	Progress  Progress
	DryRun    bool
	Logger    zerolog.Logger
}

// Executor applies action plans.
type Executor struct {
	installer Installer
	policy    Policy
	progress  Progress
	dryRun    bool
	logger    zerolog.Logger
}

// New creates an executor.
func New(opts Options) *Executor {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("executor")
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(int, int, types.CatalogItem, bool) {}
	}
	return &Executor{
		installer: opts.Installer,
		policy:    opts.Policy,
		progress:  progress,
		dryRun:    opts.DryRun,
		logger:    logger,
	}
}

// Execute applies the plan in order. Under BestEffort the returned
// error is always nil and the report holds the full picture; under
// FailFast the first failure stops execution and is returned, with the
// report covering only the attempted prefix.
func (e *Executor) Execute(ctx context.Context, kind types.BackendKind, plan []reconcile.PlannedAction) (types.BatchReport, error) {
	report := types.BatchReport{Kind: kind, Results: make([]types.ActionResult, 0, len(plan))}
	total := len(plan)

	for i, action := range plan {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, errors.ErrInterrupted, "run interrupted")
		}

		if action.Op == reconcile.OpSkip {
			e.logger.Info().
				Str("item", action.Item.Name).
				Str("kind", string(kind)).
				Msg("Already satisfied, skipping")
			report.Results = append(report.Results, types.ActionResult{
				Item:   action.Item,
				Status: types.StatusSkipped,
				Reason: "already present",
			})
			continue
		}

		result := e.install(ctx, i, total, action.Item)
		report.Results = append(report.Results, result)

		if result.Status == types.StatusFailed && e.policy == FailFast {
			return report, errors.Wrapf(result.Err, errors.ErrItemInstall,
				"install of %q failed, aborting remaining items", action.Item.Name)
		}
	}

	return report, nil
}

func (e *Executor) install(ctx context.Context, index, total int, item types.CatalogItem) types.ActionResult {
	start := time.Now()
	e.progress(index, total, item, false)

	if e.dryRun {
		e.logger.Info().
			Str("item", item.Name).
			Msg("Dry run, not installing")
		e.progress(index, total, item, true)
		return types.ActionResult{
			Item:     item,
			Status:   types.StatusSkipped,
			Reason:   "dry run",
			Duration: time.Since(start),
		}
	}

	err := e.installer.Install(ctx, item)
	e.progress(index, total, item, true)

	if err != nil {
		e.logger.Error().
			Err(err).
			Str("item", item.Name).
			Str("kind", string(item.Kind)).
			Msg("Install failed")
		return types.ActionResult{
			Item:     item,
			Status:   types.StatusFailed,
			Err:      err,
			Reason:   err.Error(),
			Duration: time.Since(start),
		}
	}

	e.logger.Info().
		Str("item", item.Name).
		Dur("duration", time.Since(start)).
		Msg("Installed")
	return types.ActionResult{
		Item:     item,
		Status:   types.StatusSucceeded,
		Duration: time.Since(start),
	}
}
