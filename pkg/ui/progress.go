package ui

import (
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"github.com/pterm/pterm"
)

// Bar is a progress bar over one install batch. On a non-terminal it
// degrades to plain marker lines.
type Bar struct {
	printer *pterm.ProgressbarPrinter
	phase   string
}

// NewBar starts a progress bar for a phase with the given number of
// pending (non-skip) actions. A zero total returns a bar that only
// prints markers.
func NewBar(phase string, total int) *Bar {
	b := &Bar{phase: phase}
	if total > 0 && Interactive() {
		printer, err := pterm.DefaultProgressbar.
			WithTotal(total).
			WithTitle(phase).
			Start()
		if err == nil {
			b.printer = printer
		}
	}
	return b
}

// Callback returns the executor progress hook backed by this bar.
func (b *Bar) Callback() func(index, total int, item types.CatalogItem, done bool) {
	return func(index, total int, item types.CatalogItem, done bool) {
		if b.printer == nil {
			if !done {
				Info("[%s] installing %s", b.phase, item.Label())
			}
			return
		}
		if done {
			b.printer.Increment()
		} else {
			b.printer.UpdateTitle(b.phase + ": " + item.Label())
		}
	}
}

// Stop tears the bar down; safe to call when no bar was started.
func (b *Bar) Stop() {
	if b.printer != nil {
		_, _ = b.printer.Stop()
	}
}
