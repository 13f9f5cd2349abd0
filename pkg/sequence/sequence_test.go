package sequence_test

import (
	"context"
	"testing"

	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExecutesPhasesInOrder(t *testing.T) {
	var order []string
	step := func(name string) sequence.Phase {
		return sequence.Phase{
			Name: name,
			Run: func(ctx context.Context) error {
				order = append(order, name)
				return nil
			},
		}
	}

	seq := sequence.New([]sequence.Phase{step("one"), step("two"), step("three")})
	results, err := seq.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, order)
	assert.Len(t, results, 3)
}

func TestRunFailureBlocksDependentsOnly(t *testing.T) {
	var ran []string
	seq := sequence.New([]sequence.Phase{
		{
			Name: "broken",
			Run: func(ctx context.Context) error {
				return errors.New(errors.ErrPrereqMissing, "tool not found")
			},
		},
		{
			Name:      "dependent",
			DependsOn: []string{"broken"},
			Run: func(ctx context.Context) error {
				ran = append(ran, "dependent")
				return nil
			},
		},
		{
			Name: "independent",
			Run: func(ctx context.Context) error {
				ran = append(ran, "independent")
				return nil
			},
		},
	})

	results, err := seq.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, []string{"independent"}, ran)

	require.Len(t, results, 3)
	assert.Error(t, results[0].Err)
	assert.True(t, results[1].Skipped)
	assert.Equal(t, "broken", results[1].BlockedBy)
	assert.NoError(t, results[2].Err)
}

func TestRunSkippedDependencyCascades(t *testing.T) {
	seq := sequence.New([]sequence.Phase{
		{
			Name: "a",
			Run: func(ctx context.Context) error {
				return errors.New(errors.ErrItemInstall, "boom")
			},
		},
		{
			Name:      "b",
			DependsOn: []string{"a"},
			Run: func(ctx context.Context) error {
				t.Fatal("b must not run")
				return nil
			},
		},
		{
			Name:      "c",
			DependsOn: []string{"b"},
			Run: func(ctx context.Context) error {
				t.Fatal("c must not run")
				return nil
			},
		},
	})

	results, err := seq.Run(context.Background())

	require.Error(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[1].Skipped)
	assert.True(t, results[2].Skipped)
	assert.Equal(t, "b", results[2].BlockedBy)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	seq := sequence.New([]sequence.Phase{
		{
			Name: "first",
			Run: func(ctx context.Context) error {
				cancel()
				return nil
			},
		},
		{
			Name: "second",
			Run: func(ctx context.Context) error {
				t.Fatal("second must not run after cancel")
				return nil
			},
		},
	})

	results, err := seq.Run(ctx)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInterrupted))
	assert.Len(t, results, 1)
}

func TestRunPropagatesInterruptFromPhase(t *testing.T) {
	seq := sequence.New([]sequence.Phase{
		{
			Name: "first",
			Run: func(ctx context.Context) error {
				return errors.New(errors.ErrInterrupted, "interrupted during batch")
			},
		},
		{
			Name: "second",
			Run: func(ctx context.Context) error {
				t.Fatal("second must not run after interrupt")
				return nil
			},
		},
	})

	_, err := seq.Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInterrupted))
}
