// Package reconcile computes, for one catalog and one inventory
// snapshot, the ordered plan of actions that brings the backend to the
// desired set. Items already present are planned as skips so every
// catalog entry appears in progress output and in the final report.
package reconcile

import (
	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
)

// Op is the planned operation for one catalog item.
type Op string

const (
	OpInstall Op = "install"
	OpSkip    Op = "skip"
)

// PlannedAction pairs a catalog item with the operation the executor
// should take for it.
type PlannedAction struct {
	Op   Op                `yaml:"op" json:"op"`
	Item types.CatalogItem `yaml:"item" json:"item"`
}

// Plan emits exactly one action per catalog item, preserving catalog
// order. An item is a skip iff its normalized identifier is present in
// the snapshot. No fuzzy matching: an item present under a different
// spelling is treated as absent.
func Plan(catalog types.Catalog, snapshot types.InventorySnapshot) []PlannedAction {
	logger := logging.GetLogger("reconcile")

	plan := make([]PlannedAction, 0, len(catalog.Items))
	for _, item := range catalog.Items {
		op := OpInstall
		if snapshot.Has(item.Name) {
			op = OpSkip
		}
		logger.Debug().
			Str("item", item.Name).
			Str("kind", string(item.Kind)).
			Str("op", string(op)).
			Msg("Planned action")
		plan = append(plan, PlannedAction{Op: op, Item: item})
	}

	logger.Info().
		Str("kind", string(catalog.Kind)).
		Int("total", len(plan)).
		Int("pending", Pending(plan)).
		Bool("partialInventory", snapshot.Partial).
		Msg("Reconciled catalog against inventory")

	return plan
}

// Pending counts the non-skip actions in a plan.
func Pending(plan []PlannedAction) int {
	n := 0
	for _, a := range plan {
		if a.Op == OpInstall {
			n++
		}
	}
	return n
}
