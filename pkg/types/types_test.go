package types_test

import (
	"testing"

	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogValidate(t *testing.T) {
	cat := types.Catalog{
		Kind: types.FormulaBackend,
		Items: []types.CatalogItem{
			{Name: "wget", Kind: types.FormulaBackend},
			{Name: "git", Kind: types.FormulaBackend},
		},
	}
	assert.NoError(t, cat.Validate())
}

func TestCatalogValidateDuplicate(t *testing.T) {
	cat := types.Catalog{
		Kind: types.CaskBackend,
		Items: []types.CatalogItem{
			{Name: "iterm2", Kind: types.CaskBackend},
			{Name: "iTerm2", Kind: types.CaskBackend},
		},
	}
	err := cat.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}

func TestCatalogValidateKindMismatch(t *testing.T) {
	cat := types.Catalog{
		Kind: types.FormulaBackend,
		Items: []types.CatalogItem{
			{Name: "iterm2", Kind: types.CaskBackend},
		},
	}
	assert.Error(t, cat.Validate())
}

func TestCatalogValidateEmptyName(t *testing.T) {
	cat := types.Catalog{
		Kind:  types.LabelBackend,
		Items: []types.CatalogItem{{Kind: types.LabelBackend}},
	}
	assert.Error(t, cat.Validate())
}

func TestSnapshotMembership(t *testing.T) {
	snap := types.NewSnapshot(types.FormulaBackend, []string{"wget", "  Git ", ""})

	assert.True(t, snap.Has("wget"))
	assert.True(t, snap.Has("git"))
	assert.True(t, snap.Has("GIT"))
	assert.False(t, snap.Has("curl"))
	assert.Equal(t, 2, snap.Len())
	assert.False(t, snap.Partial)
}

func TestEmptySnapshotIsPartial(t *testing.T) {
	snap := types.EmptySnapshot(types.StoreBackend)
	assert.True(t, snap.Partial)
	assert.Equal(t, 0, snap.Len())
	assert.False(t, snap.Has("497799835"))
}

func TestItemLabel(t *testing.T) {
	plain := types.CatalogItem{Name: "wget", Kind: types.FormulaBackend}
	assert.Equal(t, "wget", plain.Label())

	store := types.CatalogItem{
		Name:    "497799835",
		Kind:    types.StoreBackend,
		Options: types.ItemOptions{DisplayName: "Xcode"},
	}
	assert.Equal(t, "Xcode", store.Label())
}

func TestBatchReportCounts(t *testing.T) {
	report := types.BatchReport{
		Kind: types.FormulaBackend,
		Results: []types.ActionResult{
			{Item: types.CatalogItem{Name: "wget"}, Status: types.StatusSkipped},
			{Item: types.CatalogItem{Name: "git"}, Status: types.StatusSucceeded},
			{Item: types.CatalogItem{Name: "jq"}, Status: types.StatusFailed, Reason: "exit status 1"},
		},
	}

	assert.Equal(t, 1, report.Skipped())
	assert.Equal(t, 1, report.Succeeded())
	assert.Equal(t, 1, report.Failed())

	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "jq", failures[0].Item.Name)
}
