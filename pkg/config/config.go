// Package config loads the operator-edited bootstrap configuration:
// the catalogs of desired packages, store apps, deployment labels and
// dock items, plus the preference writes and the two config edits.
// Loading is layered: embedded defaults, then the operator's
// onboard.toml, then ONBOARD_-prefixed environment overrides.
package config

import (
	"strconv"

	"github.com/bmortens115/macOS-Onboarding/pkg/backends/prefs"
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
)

// Config is the full, explicit run configuration. It is built once at
// startup and passed into the sequencer; nothing reads it through
// package-level state.
type Config struct {
	Packages    PackagesConfig     `koanf:"packages" toml:"packages"`
	Store       []StoreApp         `koanf:"store" toml:"store"`
	Deploy      DeployConfig       `koanf:"deploy" toml:"deploy"`
	Dock        DockConfig         `koanf:"dock" toml:"dock"`
	Preferences []prefs.Preference `koanf:"preferences" toml:"preferences"`
	PAM         PAMConfig          `koanf:"pam" toml:"pam"`
	Shell       ShellConfig        `koanf:"shell" toml:"shell"`
}

// PackagesConfig is the Homebrew catalog.
type PackagesConfig struct {
	Formulas []string    `koanf:"formulas" toml:"formulas"`
	Casks    []CaskEntry `koanf:"casks" toml:"casks"`
}

// CaskEntry is one cask with its install options.
type CaskEntry struct {
	Name         string `koanf:"name" toml:"name"`
	NoQuarantine bool   `koanf:"no_quarantine" toml:"no_quarantine"`
}

// StoreApp is one Mac App Store item.
type StoreApp struct {
	ID   int64  `koanf:"id" toml:"id"`
	Name string `koanf:"name" toml:"name"`
}

// DeployConfig selects the deployment tool and its label catalog.
type DeployConfig struct {
	Tool       string   `koanf:"tool" toml:"tool"`
	ReleaseURL string   `koanf:"release_url" toml:"release_url"`
	PackageURL string   `koanf:"package_url" toml:"package_url"`
	Labels     []string `koanf:"labels" toml:"labels"`
}

// DockConfig is the dock layout catalog.
type DockConfig struct {
	Clear bool       `koanf:"clear" toml:"clear"`
	Items []DockItem `koanf:"items" toml:"items"`
}

// DockItem is one dock entry, identified by its filesystem path.
type DockItem struct {
	Path  string `koanf:"path" toml:"path"`
	Label string `koanf:"label" toml:"label"`
}

// PAMConfig describes the insert-if-absent PAM edit.
type PAMConfig struct {
	Path string `koanf:"path" toml:"path"`
	Line string `koanf:"line" toml:"line"`
}

// ShellConfig describes the shell framework and profile wiring.
type ShellConfig struct {
	FrameworkDir  string `koanf:"framework_dir" toml:"framework_dir"`
	FrameworkRepo string `koanf:"framework_repo" toml:"framework_repo"`
	ProfileSource string `koanf:"profile_source" toml:"profile_source"`
	ProfileTarget string `koanf:"profile_target" toml:"profile_target"`
	EnvFile       string `koanf:"env_file" toml:"env_file"`
	EvalLine      string `koanf:"eval_line" toml:"eval_line"`
}

// FormulaCatalog builds the formula catalog.
func (c *Config) FormulaCatalog() types.Catalog {
	items := make([]types.CatalogItem, 0, len(c.Packages.Formulas))
	for _, name := range c.Packages.Formulas {
		items = append(items, types.CatalogItem{Name: name, Kind: types.FormulaBackend})
	}
	return types.Catalog{Kind: types.FormulaBackend, Items: items}
}

// CaskCatalog builds the cask catalog.
func (c *Config) CaskCatalog() types.Catalog {
	items := make([]types.CatalogItem, 0, len(c.Packages.Casks))
	for _, cask := range c.Packages.Casks {
		items = append(items, types.CatalogItem{
			Name:    cask.Name,
			Kind:    types.CaskBackend,
			Options: types.ItemOptions{NoQuarantine: cask.NoQuarantine},
		})
	}
	return types.Catalog{Kind: types.CaskBackend, Items: items}
}

// StoreCatalog builds the store catalog; item names are the numeric
// app IDs mas understands.
func (c *Config) StoreCatalog() types.Catalog {
	items := make([]types.CatalogItem, 0, len(c.Store))
	for _, app := range c.Store {
		items = append(items, types.CatalogItem{
			Name:    strconv.FormatInt(app.ID, 10),
			Kind:    types.StoreBackend,
			Options: types.ItemOptions{DisplayName: app.Name},
		})
	}
	return types.Catalog{Kind: types.StoreBackend, Items: items}
}

// LabelCatalog builds the deployment-label catalog.
func (c *Config) LabelCatalog() types.Catalog {
	items := make([]types.CatalogItem, 0, len(c.Deploy.Labels))
	for _, label := range c.Deploy.Labels {
		items = append(items, types.CatalogItem{Name: label, Kind: types.LabelBackend})
	}
	return types.Catalog{Kind: types.LabelBackend, Items: items}
}

// DockCatalog builds the dock catalog; item names are filesystem
// paths, matched against the dock plist inventory.
func (c *Config) DockCatalog() types.Catalog {
	items := make([]types.CatalogItem, 0, len(c.Dock.Items))
	for _, item := range c.Dock.Items {
		items = append(items, types.CatalogItem{
			Name:    item.Path,
			Kind:    types.DockBackend,
			Options: types.ItemOptions{DisplayName: item.Label},
		})
	}
	return types.Catalog{Kind: types.DockBackend, Items: items}
}

// Validate checks every catalog for duplicate or empty names.
func (c *Config) Validate() error {
	for _, cat := range []types.Catalog{
		c.FormulaCatalog(),
		c.CaskCatalog(),
		c.StoreCatalog(),
		c.LabelCatalog(),
		c.DockCatalog(),
	} {
		if err := cat.Validate(); err != nil {
			return err
		}
	}
	return nil
}
