package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bmortens115/macOS-Onboarding/pkg/bootstrap"
	"github.com/bmortens115/macOS-Onboarding/pkg/config"
	"github.com/bmortens115/macOS-Onboarding/pkg/elevate"
	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
	"github.com/bmortens115/macOS-Onboarding/pkg/ui"
	"github.com/spf13/cobra"
)

var (
	dryRun    bool
	assumeYes bool

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Apply the full bootstrap sequence",
		Long: `Run every bootstrap phase in order: preferences, Homebrew packages,
App Store apps, deployment labels, dock layout, PAM TouchID, and the
shell environment. Items already satisfied are skipped; package and
store failures are collected and summarized, deployment failures abort
their phase.`,
		RunE: runBootstrap,
	}

	planCmd = &cobra.Command{
		Use:   "plan",
		Short: "Show what a run would change, without changing anything",
		RunE:  runPlan,
	}

	planFormat string
)

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and report every action without executing it")
	runCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the welcome confirmation")
	planCmd.Flags().StringVar(&planFormat, "format", "text", "Output format: text, yaml or json")
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	logger := logging.GetLogger("cmd.run")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	proceed, err := ui.Welcome(assumeYes)
	if err != nil {
		return err
	}
	if !proceed {
		ui.Warning("Aborted before any changes")
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !dryRun {
		// Prompt for sudo once up front so the deploy and PAM phases
		// do not stop mid-run for a password.
		if err := elevate.PreCacheCredentials(ctx); err != nil {
			logger.Warn().Err(err).Msg("Could not pre-cache sudo credentials")
		}
	}

	b := bootstrap.New(bootstrap.Options{Config: cfg, DryRun: dryRun})
	results, runErr := b.Run(ctx)

	if reports := b.Reports(); len(reports) > 0 {
		fmt.Println(ui.RenderSummary(reports))
	}

	if runErr != nil {
		if errors.IsErrorCode(runErr, errors.ErrInterrupted) {
			ui.RestoreTerminal()
			ui.Warning("Interrupted; completed work is kept, rerun to finish")
		}
		return runErr
	}

	for _, res := range results {
		if res.Skipped {
			ui.Warning("Phase %s skipped (dependency %s failed)", res.Phase, res.BlockedBy)
		}
	}
	ui.Success("Bootstrap complete")
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bootstrap.New(bootstrap.Options{Config: cfg})
	plans, err := b.Plan(ctx)
	if err != nil {
		return err
	}

	rendered, err := bootstrap.RenderPlan(plans, planFormat)
	if err != nil {
		return err
	}
	fmt.Print(rendered)
	return nil
}
