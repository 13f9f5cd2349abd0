package brew_test

import (
	"context"
	"testing"

	"github.com/bmortens115/macOS-Onboarding/pkg/backends/brew"
	"github.com/bmortens115/macOS-Onboarding/pkg/run/runtest"
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallFormula(t *testing.T) {
	fake := runtest.NewFake()
	b := brew.New(fake)

	err := b.Install(context.Background(), types.CatalogItem{Name: "wget", Kind: types.FormulaBackend})

	require.NoError(t, err)
	assert.Equal(t, []string{"brew install wget"}, fake.CommandLines())
}

func TestInstallCask(t *testing.T) {
	fake := runtest.NewFake()
	b := brew.New(fake)

	err := b.Install(context.Background(), types.CatalogItem{Name: "firefox", Kind: types.CaskBackend})

	require.NoError(t, err)
	assert.Equal(t, []string{"brew install --cask firefox"}, fake.CommandLines())
}

func TestInstallCaskNoQuarantine(t *testing.T) {
	fake := runtest.NewFake()
	b := brew.New(fake)

	item := types.CatalogItem{
		Name:    "iterm2",
		Kind:    types.CaskBackend,
		Options: types.ItemOptions{NoQuarantine: true},
	}
	err := b.Install(context.Background(), item)

	require.NoError(t, err)
	assert.Equal(t, []string{"brew install --cask --no-quarantine iterm2"}, fake.CommandLines())
}

func TestInstallRejectsWrongKind(t *testing.T) {
	b := brew.New(runtest.NewFake())
	err := b.Install(context.Background(), types.CatalogItem{Name: "497799835", Kind: types.StoreBackend})
	assert.Error(t, err)
}

func TestInstallPropagatesFailure(t *testing.T) {
	fake := runtest.NewFake().ScriptErr("brew install wget", "exit status 1")
	b := brew.New(fake)

	err := b.Install(context.Background(), types.CatalogItem{Name: "wget", Kind: types.FormulaBackend})
	assert.Error(t, err)
}

func TestUpgradeAndCleanup(t *testing.T) {
	fake := runtest.NewFake()
	b := brew.New(fake)

	require.NoError(t, b.UpgradeAll(context.Background()))
	require.NoError(t, b.Cleanup(context.Background()))
	assert.Equal(t, []string{"brew upgrade", "brew cleanup"}, fake.CommandLines())
}
