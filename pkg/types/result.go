package types

import "time"

// ActionStatus is the outcome classification for one catalog item.
type ActionStatus string

const (
	StatusSkipped   ActionStatus = "skipped"
	StatusSucceeded ActionStatus = "succeeded"
	StatusFailed    ActionStatus = "failed"
)

// ActionResult records the outcome of attempting one catalog item.
type ActionResult struct {
	Item     CatalogItem  `yaml:"item" json:"item"`
	Status   ActionStatus `yaml:"status" json:"status"`
	Err      error        `yaml:"-" json:"-"`
	Reason   string       `yaml:"reason,omitempty" json:"reason,omitempty"`
	Duration time.Duration `yaml:"-" json:"-"`
}

// BatchReport aggregates the results of one catalog's executor pass.
type BatchReport struct {
	Kind    BackendKind    `yaml:"kind" json:"kind"`
	Results []ActionResult `yaml:"results" json:"results"`
}

// Skipped counts items that were already satisfied.
func (r BatchReport) Skipped() int { return r.count(StatusSkipped) }

// Succeeded counts items that were installed during this pass.
func (r BatchReport) Succeeded() int { return r.count(StatusSucceeded) }

// Failed counts items whose install attempt failed.
func (r BatchReport) Failed() int { return r.count(StatusFailed) }

// Failures returns the failed results, for the end-of-run summary.
func (r BatchReport) Failures() []ActionResult {
	var out []ActionResult
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

func (r BatchReport) count(status ActionStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}
