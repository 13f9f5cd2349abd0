package executor_test

import (
	"context"
	"testing"

	"github.com/bmortens115/macOS-Onboarding/pkg/executor"
	"github.com/bmortens115/macOS-Onboarding/pkg/reconcile"
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockInstaller implements executor.Installer for testing
type MockInstaller struct {
	mock.Mock
}

func (m *MockInstaller) Install(ctx context.Context, item types.CatalogItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func formulaPlan(ops map[string]reconcile.Op, order ...string) []reconcile.PlannedAction {
	plan := make([]reconcile.PlannedAction, 0, len(order))
	for _, name := range order {
		plan = append(plan, reconcile.PlannedAction{
			Op:   ops[name],
			Item: types.CatalogItem{Name: name, Kind: types.FormulaBackend},
		})
	}
	return plan
}

func TestExecuteSkipsWithoutInstallerCall(t *testing.T) {
	installer := new(MockInstaller)
	installer.On("Install", mock.Anything, mock.MatchedBy(func(i types.CatalogItem) bool {
		return i.Name == "iterm2"
	})).Return(nil)

	exec := executor.New(executor.Options{Installer: installer, Policy: executor.BestEffort})
	plan := formulaPlan(map[string]reconcile.Op{
		"wget":   reconcile.OpSkip,
		"iterm2": reconcile.OpInstall,
	}, "wget", "iterm2")

	report, err := exec.Execute(context.Background(), types.FormulaBackend, plan)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped())
	assert.Equal(t, 1, report.Succeeded())
	installer.AssertNumberOfCalls(t, "Install", 1)
}

func TestBestEffortContinuesPastFailure(t *testing.T) {
	installer := new(MockInstaller)
	installer.On("Install", mock.Anything, mock.MatchedBy(func(i types.CatalogItem) bool {
		return i.Name == "bad"
	})).Return(assert.AnError)
	installer.On("Install", mock.Anything, mock.Anything).Return(nil)

	exec := executor.New(executor.Options{Installer: installer, Policy: executor.BestEffort})
	ops := map[string]reconcile.Op{"a": reconcile.OpInstall, "bad": reconcile.OpInstall, "c": reconcile.OpInstall}
	plan := formulaPlan(ops, "a", "bad", "c")

	report, err := exec.Execute(context.Background(), types.FormulaBackend, plan)

	require.NoError(t, err, "best-effort batches never fail the run")
	require.Len(t, report.Results, 3)
	assert.Equal(t, types.StatusSucceeded, report.Results[0].Status)
	assert.Equal(t, types.StatusFailed, report.Results[1].Status)
	assert.Equal(t, types.StatusSucceeded, report.Results[2].Status)
	installer.AssertNumberOfCalls(t, "Install", 3)
}

func TestFailFastStopsAtFirstFailure(t *testing.T) {
	installer := new(MockInstaller)
	installer.On("Install", mock.Anything, mock.MatchedBy(func(i types.CatalogItem) bool {
		return i.Name == "bad"
	})).Return(assert.AnError)
	installer.On("Install", mock.Anything, mock.Anything).Return(nil)

	exec := executor.New(executor.Options{Installer: installer, Policy: executor.FailFast})
	ops := map[string]reconcile.Op{"a": reconcile.OpInstall, "bad": reconcile.OpInstall, "never": reconcile.OpInstall}
	plan := formulaPlan(ops, "a", "bad", "never")

	report, err := exec.Execute(context.Background(), types.FormulaBackend, plan)

	require.Error(t, err)
	assert.Len(t, report.Results, 2, "items after the failure are not attempted")
	installer.AssertNumberOfCalls(t, "Install", 2)
}

func TestProgressFiresOnlyForNonSkips(t *testing.T) {
	installer := new(MockInstaller)
	installer.On("Install", mock.Anything, mock.Anything).Return(nil)

	var before, after int
	exec := executor.New(executor.Options{
		Installer: installer,
		Policy:    executor.BestEffort,
		Progress: func(index, total int, item types.CatalogItem, done bool) {
			if done {
				after++
			} else {
				before++
			}
			assert.Equal(t, 3, total)
		},
	})
	ops := map[string]reconcile.Op{"a": reconcile.OpSkip, "b": reconcile.OpInstall, "c": reconcile.OpInstall}
	plan := formulaPlan(ops, "a", "b", "c")

	_, err := exec.Execute(context.Background(), types.FormulaBackend, plan)

	require.NoError(t, err)
	assert.Equal(t, 2, before)
	assert.Equal(t, 2, after)
}

func TestDryRunDoesNotInstall(t *testing.T) {
	installer := new(MockInstaller)

	exec := executor.New(executor.Options{Installer: installer, Policy: executor.BestEffort, DryRun: true})
	plan := formulaPlan(map[string]reconcile.Op{"wget": reconcile.OpInstall}, "wget")

	report, err := exec.Execute(context.Background(), types.FormulaBackend, plan)

	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, types.StatusSkipped, report.Results[0].Status)
	assert.Equal(t, "dry run", report.Results[0].Reason)
	installer.AssertNotCalled(t, "Install", mock.Anything, mock.Anything)
}

func TestExecuteStopsOnCancelledContext(t *testing.T) {
	installer := new(MockInstaller)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := executor.New(executor.Options{Installer: installer, Policy: executor.BestEffort})
	plan := formulaPlan(map[string]reconcile.Op{"wget": reconcile.OpInstall}, "wget")

	_, err := exec.Execute(ctx, types.FormulaBackend, plan)

	require.Error(t, err)
	installer.AssertNotCalled(t, "Install", mock.Anything, mock.Anything)
}
