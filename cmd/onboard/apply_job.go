package main

import (
	"os"

	"github.com/bmortens115/macOS-Onboarding/pkg/elevate"
	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/spf13/cobra"
)

// applyJobCmd is the hidden entry point the privilege escalator
// re-invokes under sudo. It reads one typed job from stdin and
// dispatches it to the handler registered for its kind. Operators
// never call it directly.
var applyJobCmd = &cobra.Command{
	Use:    "apply-job",
	Hidden: true,
	Short:  "Apply a serialized elevated job from stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !elevate.IsRoot() {
			return errors.New(errors.ErrElevation, "apply-job must run with root identity")
		}
		job, err := elevate.ReadJob(os.Stdin)
		if err != nil {
			return err
		}
		return elevate.Apply(cmd.Context(), job)
	},
}
