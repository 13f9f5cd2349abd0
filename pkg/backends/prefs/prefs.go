// Package prefs applies declarative system-preference writes through
// the defaults command. Each write is an unconditional set, idempotent
// by construction: reapplying the same value is a no-op at the store.
// Affected UI processes are restarted afterwards, best effort.
package prefs

import (
	"context"

	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
	"github.com/bmortens115/macOS-Onboarding/pkg/run"
	"github.com/rs/zerolog"
)

// Preference is one key/value write in a defaults domain.
type Preference struct {
	Domain string `koanf:"domain" toml:"domain"`
	Key    string `koanf:"key" toml:"key"`
	// Type is the defaults value type: bool, int, float, or string.
	Type  string `koanf:"type" toml:"type"`
	Value string `koanf:"value" toml:"value"`
	// Restart lists the UI processes to reload after the batch.
	Restart []string `koanf:"restart" toml:"restart"`
}

// Writer applies preference batches.
type Writer struct {
	runner run.Runner
	logger zerolog.Logger
}

// NewWriter creates a Writer on the given runner.
func NewWriter(runner run.Runner) *Writer {
	return &Writer{
		runner: runner,
		logger: logging.GetLogger("backends.prefs"),
	}
}

// Apply writes every preference in order, then restarts the union of
// affected processes once. A failed write aborts the batch; a failed
// restart is logged and ignored (the process may simply not be
// running yet).
func (w *Writer) Apply(ctx context.Context, prefs []Preference) error {
	restart := make(map[string]struct{})

	for _, p := range prefs {
		args := []string{"write", p.Domain, p.Key}
		if p.Type != "" {
			args = append(args, "-"+p.Type)
		}
		args = append(args, p.Value)

		if err := w.runner.Run(ctx, "defaults", args...); err != nil {
			return errors.Wrapf(err, errors.ErrConfigEdit,
				"defaults write %s %s failed", p.Domain, p.Key)
		}
		w.logger.Debug().
			Str("domain", p.Domain).
			Str("key", p.Key).
			Str("value", p.Value).
			Msg("Preference written")

		for _, proc := range p.Restart {
			restart[proc] = struct{}{}
		}
	}

	for proc := range restart {
		if err := w.runner.Run(ctx, "killall", proc); err != nil {
			w.logger.Warn().
				Err(err).
				Str("process", proc).
				Msg("Restart failed, change applies when the process next starts")
		}
	}
	return nil
}
