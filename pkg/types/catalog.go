package types

import (
	"strings"

	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
)

// BackendKind identifies which external tool satisfies a catalog item.
type BackendKind string

const (
	FormulaBackend BackendKind = "formula"
	CaskBackend    BackendKind = "cask"
	StoreBackend   BackendKind = "store"
	LabelBackend   BackendKind = "label"
	DockBackend    BackendKind = "dock"
)

// ItemOptions carries backend-specific flags for a catalog item.
type ItemOptions struct {
	// NoQuarantine passes the quarantine-bypass flag to cask installs.
	NoQuarantine bool `koanf:"no_quarantine" toml:"no_quarantine"`

	// DisplayName is a human-readable label, used for store apps
	// (whose Name is a numeric ID) and dock items.
	DisplayName string `koanf:"display_name" toml:"display_name"`
}

// CatalogItem is one desired installable or configurable unit. Name is
// the identifier the backend understands: a formula or cask name, a
// numeric store ID, a deployment label, or a dock item's filesystem
// path.
type CatalogItem struct {
	Name    string      `koanf:"name" toml:"name"`
	Kind    BackendKind `koanf:"kind" toml:"kind"`
	Options ItemOptions `koanf:"options" toml:"options"`
}

// Label returns the name to show in progress output, preferring the
// display name when one is configured.
func (i CatalogItem) Label() string {
	if i.Options.DisplayName != "" {
		return i.Options.DisplayName
	}
	return i.Name
}

// Catalog is the static, operator-edited list of desired items for one
// backend. It is read-only during a run.
type Catalog struct {
	Kind  BackendKind
	Items []CatalogItem
}

// Validate checks that item names are unique within the catalog and
// that every item carries this catalog's backend kind.
func (c Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Items))
	for _, item := range c.Items {
		if item.Name == "" {
			return errors.Newf(errors.ErrConfigInvalid,
				"catalog %s contains an item with no name", c.Kind)
		}
		if item.Kind != c.Kind {
			return errors.Newf(errors.ErrConfigInvalid,
				"item %q has kind %s, expected %s", item.Name, item.Kind, c.Kind)
		}
		key := NormalizeIdentifier(item.Name)
		if _, dup := seen[key]; dup {
			return errors.Newf(errors.ErrConfigInvalid,
				"catalog %s lists %q more than once", c.Kind, item.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// NormalizeIdentifier maps an item name or backend-reported identifier
// to the form used for membership tests: trimmed and lowercased.
// Store IDs are digit strings, unaffected by the lowercasing.
func NormalizeIdentifier(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
