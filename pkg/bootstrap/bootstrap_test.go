package bootstrap_test

import (
	"context"
	"testing"

	"github.com/bmortens115/macOS-Onboarding/pkg/backends/prefs"
	"github.com/bmortens115/macOS-Onboarding/pkg/bootstrap"
	"github.com/bmortens115/macOS-Onboarding/pkg/config"
	"github.com/bmortens115/macOS-Onboarding/pkg/run/runtest"
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDryRunPlansLabelsWithoutElevating(t *testing.T) {
	fake := runtest.NewFake()
	cfg := &config.Config{
		Deploy: config.DeployConfig{
			Tool:   "/usr/local/Installomator/Installomator.sh",
			Labels: []string{"firefox", "vscode"},
		},
	}

	b := bootstrap.New(bootstrap.Options{Config: cfg, DryRun: true, Runner: fake})
	results, err := b.Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, results, 8)
	for _, res := range results {
		assert.NoError(t, res.Err, res.Phase)
		assert.False(t, res.Skipped, res.Phase)
	}

	// No sudo, no tool invocation: the dry run must not cross the
	// privilege boundary.
	for _, line := range fake.CommandLines() {
		assert.NotContains(t, line, "sudo")
		assert.NotContains(t, line, "Installomator")
	}

	reports := b.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, types.LabelBackend, reports[0].Kind)
	assert.Equal(t, 2, reports[0].Skipped())
	for _, result := range reports[0].Results {
		assert.Equal(t, "dry run", result.Reason)
	}
}

func TestDryRunPreferencesDoNotWrite(t *testing.T) {
	fake := runtest.NewFake()
	cfg := &config.Config{
		Preferences: []prefs.Preference{
			{Domain: "com.apple.dock", Key: "autohide", Type: "bool", Value: "true"},
		},
	}

	b := bootstrap.New(bootstrap.Options{Config: cfg, DryRun: true, Runner: fake})
	_, err := b.Run(context.Background())

	require.NoError(t, err)
	assert.Empty(t, fake.CommandLines())
}

func TestPlanResolvesAgainstInventory(t *testing.T) {
	fake := runtest.NewFake()
	fake.Script("brew list --formula -1", runtest.Response{Stdout: "wget\ngit"})

	cfg := &config.Config{
		Packages: config.PackagesConfig{Formulas: []string{"wget", "jq"}},
	}

	b := bootstrap.New(bootstrap.Options{Config: cfg, Runner: fake})
	plans, err := b.Plan(context.Background())

	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "formula", plans[0].Kind)
	assert.False(t, plans[0].Partial)

	require.Len(t, plans[0].Items, 2)
	assert.Equal(t, bootstrap.PlannedItem{Name: "wget", Action: "skip", Reason: "already present"}, plans[0].Items[0])
	assert.Equal(t, bootstrap.PlannedItem{Name: "jq", Action: "install"}, plans[0].Items[1])
}

func TestPlanMarksUnqueryableBackendsPartial(t *testing.T) {
	fake := runtest.NewFake()
	cfg := &config.Config{
		Deploy: config.DeployConfig{Labels: []string{"firefox"}},
	}

	b := bootstrap.New(bootstrap.Options{Config: cfg, Runner: fake})
	plans, err := b.Plan(context.Background())

	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "label", plans[0].Kind)
	assert.True(t, plans[0].Partial)
	assert.Equal(t, "install", plans[0].Items[0].Action)
}

func TestRenderPlanFormats(t *testing.T) {
	plans := []bootstrap.BatchPlan{
		{
			Kind: "formula",
			Items: []bootstrap.PlannedItem{
				{Name: "wget", Action: "skip", Reason: "already present"},
				{Name: "jq", Action: "install"},
			},
		},
	}

	text, err := bootstrap.RenderPlan(plans, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "formula:")
	assert.Contains(t, text, "install")
	assert.Contains(t, text, "jq")

	yamlOut, err := bootstrap.RenderPlan(plans, "yaml")
	require.NoError(t, err)
	assert.Contains(t, yamlOut, "kind: formula")
	assert.Contains(t, yamlOut, "name: jq")

	jsonOut, err := bootstrap.RenderPlan(plans, "json")
	require.NoError(t, err)
	assert.Contains(t, jsonOut, `"kind": "formula"`)

	_, err = bootstrap.RenderPlan(plans, "csv")
	assert.Error(t, err)
}

func TestRenderPlanEmptyText(t *testing.T) {
	text, err := bootstrap.RenderPlan(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "Nothing configured.\n", text)
}
