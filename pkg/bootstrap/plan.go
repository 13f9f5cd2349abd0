package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bmortens115/macOS-Onboarding/pkg/elevate"
	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/inventory"
	"github.com/bmortens115/macOS-Onboarding/pkg/reconcile"
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"gopkg.in/yaml.v3"
)

// PlannedItem is one catalog entry with its resolved action.
type PlannedItem struct {
	Name   string `json:"name" yaml:"name"`
	Action string `json:"action" yaml:"action"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// BatchPlan is the resolved plan for one catalog-driven batch.
type BatchPlan struct {
	Kind    string        `json:"kind" yaml:"kind"`
	Partial bool          `json:"partialInventory,omitempty" yaml:"partialInventory,omitempty"`
	Items   []PlannedItem `json:"items" yaml:"items"`
}

// Plan resolves every catalog against current inventory without
// mutating anything. Backends that cannot be queried (the label tool,
// a missing GUI session for the dock) come back with every item
// planned and the partial flag set.
func (b *Bootstrap) Plan(ctx context.Context) ([]BatchPlan, error) {
	reader := inventory.NewReader(b.runner)
	if user, err := elevate.ConsoleUser(ctx, b.runner); err == nil {
		reader.DockPlistPath = user.DockPlistPath()
	}

	catalogs := []types.Catalog{
		b.cfg.FormulaCatalog(),
		b.cfg.CaskCatalog(),
		b.cfg.StoreCatalog(),
		b.cfg.LabelCatalog(),
		b.cfg.DockCatalog(),
	}

	plans := make([]BatchPlan, 0, len(catalogs))
	for _, catalog := range catalogs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrInterrupted, "plan interrupted")
		}
		if len(catalog.Items) == 0 {
			continue
		}

		snapshot := reader.Snapshot(ctx, catalog.Kind)
		batch := BatchPlan{Kind: string(catalog.Kind), Partial: snapshot.Partial}
		for _, action := range reconcile.Plan(catalog, snapshot) {
			item := PlannedItem{Name: action.Item.Name, Action: "install"}
			if action.Op == reconcile.OpSkip {
				item.Action = "skip"
				item.Reason = "already present"
			}
			batch.Items = append(batch.Items, item)
		}
		plans = append(plans, batch)
	}
	return plans, nil
}

// RenderPlan formats batch plans as text, yaml or json.
func RenderPlan(plans []BatchPlan, format string) (string, error) {
	switch format {
	case "text", "":
		return renderPlanText(plans), nil
	case "yaml":
		out, err := yaml.Marshal(plans)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrInvalidInput, "cannot render plan as yaml")
		}
		return string(out), nil
	case "json":
		out, err := json.MarshalIndent(plans, "", "  ")
		if err != nil {
			return "", errors.Wrap(err, errors.ErrInvalidInput, "cannot render plan as json")
		}
		return string(out) + "\n", nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput,
			"unknown plan format %q (want text, yaml or json)", format)
	}
}

func renderPlanText(plans []BatchPlan) string {
	var sb strings.Builder
	if len(plans) == 0 {
		sb.WriteString("Nothing configured.\n")
		return sb.String()
	}
	for _, batch := range plans {
		fmt.Fprintf(&sb, "%s:\n", batch.Kind)
		if batch.Partial {
			sb.WriteString("  (inventory unavailable, planning everything)\n")
		}
		for _, item := range batch.Items {
			if item.Reason != "" {
				fmt.Fprintf(&sb, "  %-8s %s (%s)\n", item.Action, item.Name, item.Reason)
			} else {
				fmt.Fprintf(&sb, "  %-8s %s\n", item.Action, item.Name)
			}
		}
	}
	return sb.String()
}
