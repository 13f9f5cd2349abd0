package main

import (
	"os"

	"github.com/bmortens115/macOS-Onboarding/pkg/bootstrap"
	"github.com/bmortens115/macOS-Onboarding/pkg/ui"
)

func main() {
	// Both the operator-facing parent and the sudo-re-invoked child
	// run this binary, so the elevated-job handlers are always bound.
	bootstrap.RegisterElevatedHandlers(nil)

	if err := Execute(); err != nil {
		ui.RestoreTerminal()
		ui.Error("%v", err)
		os.Exit(1)
	}
}
