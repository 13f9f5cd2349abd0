// Package sequence runs the bootstrap phases in their fixed order.
// Phases declare their dependencies explicitly: a failed phase only
// blocks the phases that depend on it, independent phases still run,
// and any phase failure makes the whole run exit non-zero. Interrupts
// abort immediately between phases.
package sequence

import (
	"context"

	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
	"github.com/rs/zerolog"
)

// Phase is one bootstrap step.
type Phase struct {
	Name string
	// DependsOn lists phases whose success this phase requires. A
	// failed or skipped dependency skips this phase.
	DependsOn []string
	Run       func(ctx context.Context) error
}

// Sequencer executes phases strictly sequentially.
type Sequencer struct {
	phases []Phase
	logger zerolog.Logger
}

// New creates a sequencer over the given phase list.
func New(phases []Phase) *Sequencer {
	return &Sequencer{
		phases: phases,
		logger: logging.GetLogger("sequence"),
	}
}

// Result records what happened to one phase.
type Result struct {
	Phase   string
	Err     error
	Skipped bool
	// BlockedBy names the failed dependency when Skipped.
	BlockedBy string
}

// Run executes every phase in order. The returned results cover all
// phases; the error is non-nil when the run was interrupted or any
// phase failed, which the caller turns into a non-zero exit.
func (s *Sequencer) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(s.phases))
	broken := map[string]bool{}
	var firstErr error

	for _, phase := range s.phases {
		if err := ctx.Err(); err != nil {
			s.logger.Warn().Str("phase", phase.Name).Msg("Interrupted before phase")
			return results, errors.Wrap(err, errors.ErrInterrupted, "bootstrap interrupted")
		}

		if blocker := firstBroken(phase.DependsOn, broken); blocker != "" {
			s.logger.Warn().
				Str("phase", phase.Name).
				Str("failedDependency", blocker).
				Msg("Skipping phase, dependency did not succeed")
			broken[phase.Name] = true
			results = append(results, Result{Phase: phase.Name, Skipped: true, BlockedBy: blocker})
			continue
		}

		s.logger.Info().Str("phase", phase.Name).Msg("Phase starting")
		err := phase.Run(ctx)
		results = append(results, Result{Phase: phase.Name, Err: err})

		if err != nil {
			broken[phase.Name] = true
			if errors.IsErrorCode(err, errors.ErrInterrupted) {
				return results, err
			}
			s.logger.Error().Err(err).Str("phase", phase.Name).Msg("Phase failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		s.logger.Info().Str("phase", phase.Name).Msg("Phase complete")
	}

	if firstErr != nil {
		return results, errors.Wrap(firstErr, errors.ErrItemInstall, "one or more phases failed")
	}
	return results, nil
}

func firstBroken(deps []string, broken map[string]bool) string {
	for _, dep := range deps {
		if broken[dep] {
			return dep
		}
	}
	return ""
}
