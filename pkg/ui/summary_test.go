package ui_test

import (
	"testing"

	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"github.com/bmortens115/macOS-Onboarding/pkg/ui"
	"github.com/stretchr/testify/assert"
)

func TestRenderSummaryListsFailures(t *testing.T) {
	reports := []types.BatchReport{
		{
			Kind: types.FormulaBackend,
			Results: []types.ActionResult{
				{Item: types.CatalogItem{Name: "wget"}, Status: types.StatusSkipped},
				{Item: types.CatalogItem{Name: "git"}, Status: types.StatusSucceeded},
				{Item: types.CatalogItem{Name: "jq"}, Status: types.StatusFailed, Reason: "exit status 1"},
			},
		},
		{
			Kind: types.StoreBackend,
			Results: []types.ActionResult{
				{Item: types.CatalogItem{Name: "497799835", Options: types.ItemOptions{DisplayName: "Xcode"}}, Status: types.StatusSucceeded},
			},
		},
	}

	out := ui.RenderSummary(reports)

	assert.Contains(t, out, "1 installed, 1 skipped, 1 failed")
	assert.Contains(t, out, "jq")
	assert.Contains(t, out, "exit status 1")
	assert.Contains(t, out, "1 installed, 0 skipped, 0 failed")
}
