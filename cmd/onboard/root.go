package main

import (
	"fmt"

	"github.com/bmortens115/macOS-Onboarding/internal/version"
	"github.com/bmortens115/macOS-Onboarding/pkg/config"
	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	verbosity  int
	configPath string

	rootCmd = &cobra.Command{
		Use:   "onboard",
		Short: "Idempotent macOS machine bootstrap",
		Long: `onboard drives a fresh or half-configured Mac to a desired state
declared in onboard.toml: Homebrew formulas and casks, App Store apps,
label-based deployments, system preferences, the dock layout, TouchID
for sudo, and the shell environment. Every step checks before it acts,
so re-running after a failure or a config change is always safe.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command; called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./onboard.toml, then XDG config dir)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(applyJobCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("onboard version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the fully resolved configuration: embedded defaults layered
with the config file and ONBOARD_ environment overrides.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		rendered, err := config.Render(cfg)
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	},
}
