// Package inventory queries each external backend for its current
// installed set. Pure read, no mutation. A backend that cannot answer
// (app store not signed in, tool missing) yields an empty snapshot
// flagged partial plus a logged warning, never a fatal error: the
// reconciler then re-attempts everything, which the backends tolerate.
package inventory

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
	"github.com/bmortens115/macOS-Onboarding/pkg/run"
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"github.com/rs/zerolog"
)

// Reader takes inventory snapshots by shelling out to the backends'
// list commands.
type Reader struct {
	runner run.Runner
	logger zerolog.Logger

	// DockPlistPath is the dock preferences plist of the console user.
	// Empty disables dock inventory (snapshot comes back partial).
	DockPlistPath string
}

// NewReader creates a Reader on the given runner.
func NewReader(runner run.Runner) *Reader {
	return &Reader{
		runner: runner,
		logger: logging.GetLogger("inventory"),
	}
}

// Snapshot queries one backend for its present set. Query failures are
// downgraded to an empty partial snapshot with a warning.
func (r *Reader) Snapshot(ctx context.Context, kind types.BackendKind) types.InventorySnapshot {
	identifiers, err := r.query(ctx, kind)
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("kind", string(kind)).
			Msg("Inventory unavailable, treating everything as not installed")
		return types.EmptySnapshot(kind)
	}

	snap := types.NewSnapshot(kind, identifiers)
	r.logger.Debug().
		Str("kind", string(kind)).
		Int("present", snap.Len()).
		Msg("Inventory snapshot taken")
	return snap
}

func (r *Reader) query(ctx context.Context, kind types.BackendKind) ([]string, error) {
	switch kind {
	case types.FormulaBackend:
		return r.lines(ctx, "brew", "list", "--formula", "-1")
	case types.CaskBackend:
		return r.lines(ctx, "brew", "list", "--cask", "-1")
	case types.StoreBackend:
		return r.storeIDs(ctx)
	case types.DockBackend:
		return r.dockItems(ctx)
	default:
		// Labels have no queryable inventory; the label tool carries
		// its own idempotence.
		return nil, errors.Newf(errors.ErrInventoryUnavailable,
			"backend %s has no inventory listing", kind)
	}
}

func (r *Reader) lines(ctx context.Context, name string, args ...string) ([]string, error) {
	out, err := r.runner.Output(ctx, name, args...)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInventoryUnavailable,
			"%s %s failed", name, strings.Join(args, " "))
	}
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// storeIDs parses `mas list` output, whose lines look like
// "497799835  Xcode  (15.4)". The leading numeric ID is the identity.
func (r *Reader) storeIDs(ctx context.Context) ([]string, error) {
	lines, err := r.lines(ctx, "mas", "list")
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		ids = append(ids, fields[0])
	}
	return ids, nil
}

// dockItems reads the console user's dock plist (converted to XML via
// plutil) and extracts the filesystem paths of persistent apps.
func (r *Reader) dockItems(ctx context.Context) ([]string, error) {
	if r.DockPlistPath == "" {
		return nil, errors.New(errors.ErrInventoryUnavailable, "dock plist path not resolved")
	}
	out, err := r.runner.Output(ctx, "plutil", "-convert", "xml1", "-o", "-", r.DockPlistPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInventoryUnavailable,
			"reading dock plist %s failed", r.DockPlistPath)
	}
	return ParseDockPlist(out)
}

// ParseDockPlist extracts persistent-app paths from the XML form of
// com.apple.dock.plist. Entries carry file URLs in _CFURLString keys;
// the returned identifiers are cleaned filesystem paths, matching the
// dock catalog's item names.
func ParseDockPlist(xmlData string) ([]string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlData); err != nil {
		return nil, errors.Wrap(err, errors.ErrInventoryUnavailable, "dock plist is not valid XML")
	}

	var paths []string
	// <key>_CFURLString</key> is immediately followed by the
	// <string> holding the value.
	for _, key := range doc.FindElements("//key") {
		if key.Text() != "_CFURLString" {
			continue
		}
		parent := key.Parent()
		if parent == nil {
			continue
		}
		children := parent.ChildElements()
		for i, child := range children {
			if child == key && i+1 < len(children) && children[i+1].Tag == "string" {
				if p := cleanDockURL(children[i+1].Text()); p != "" {
					paths = append(paths, p)
				}
			}
		}
	}
	return paths, nil
}

// cleanDockURL turns a dock entry's file URL ("file:///Applications/
// iTerm.app/") into a plain path. Plain paths pass through unchanged.
func cleanDockURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "file://") {
		if u, err := url.Parse(raw); err == nil && u.Path != "" {
			raw = u.Path
		} else {
			raw = strings.TrimPrefix(raw, "file://")
			if unescaped, err := url.PathUnescape(raw); err == nil {
				raw = unescaped
			}
		}
	}
	return filepath.Clean(strings.TrimSuffix(raw, "/"))
}
