package ui

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
)

//go:embed welcome.md
var welcomeDoc string

// Welcome renders the welcome document and asks for confirmation to
// proceed. assumeYes (the --yes flag) and non-interactive runs skip
// the prompt and proceed.
func Welcome(assumeYes bool) (bool, error) {
	rendered, err := glamour.Render(welcomeDoc, "auto")
	if err != nil {
		// Styling is cosmetic; fall back to the raw document.
		rendered = welcomeDoc
	}
	fmt.Print(rendered)

	if assumeYes || !Interactive() {
		return true, nil
	}

	proceed := true
	confirm := huh.NewConfirm().
		Title("Start bootstrapping this machine?").
		Description("External package managers will install software and change system settings.").
		Affirmative("Start").
		Negative("Abort").
		Value(&proceed)

	if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
		return false, err
	}
	return proceed, nil
}
