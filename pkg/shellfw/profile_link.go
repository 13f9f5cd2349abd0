package shellfw

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"

	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
)

// LinkProfile replaces the user's shell profile with a symlink to the
// managed copy. An existing regular file is backed up first; an
// existing symlink is simply replaced (it points at a previous managed
// copy). A target that already links to source is a no-op. The whole
// replacement runs as one synthfs operation pipeline.
func (s *Shell) LinkProfile(ctx context.Context, source, target string) error {
	source = ExpandHome(source)
	target = ExpandHome(target)

	if _, err := os.Stat(source); err != nil {
		return errors.Wrapf(err, errors.ErrPrereqMissing, "profile source %s missing", source)
	}

	if existing, err := os.Readlink(target); err == nil && existing == source {
		s.logger.Debug().Str("target", target).Msg("Profile already linked")
		return nil
	}

	relSource, err := filepath.Rel("/", source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "cannot relativize %s", source)
	}
	relTarget, err := filepath.Rel("/", target)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "cannot relativize %s", target)
	}

	var ops []synthfs.Operation

	if info, err := os.Lstat(target); err == nil {
		if info.Mode().IsRegular() {
			backup := relTarget + ".backup-" + time.Now().Format(backupTimestamp)
			copyOp := operations.NewCopyOperation(
				core.OperationID(fmt.Sprintf("backup-%s", filepath.Base(target))), backup)
			copyOp.SetPaths(relTarget, backup)
			ops = append(ops, synthfs.NewOperationsPackageAdapter(copyOp))
			s.logger.Info().Str("target", target).Msg("Backing up existing profile before linking")
		}
		deleteOp := operations.NewDeleteOperation(
			core.OperationID(fmt.Sprintf("delete-%s", target)), relTarget)
		ops = append(ops, synthfs.NewOperationsPackageAdapter(deleteOp))
	}

	symlinkOp := operations.NewCreateSymlinkOperation(
		core.OperationID(fmt.Sprintf("symlink-%s", target)), relTarget)
	symlinkOp.SetDescriptionDetail("target", relSource)
	symlinkOp.SetItem(&symlinkItem{path: relTarget, target: relSource})
	ops = append(ops, synthfs.NewOperationsPackageAdapter(symlinkOp))

	pipeline := synthfs.NewMemPipeline()
	for _, op := range ops {
		if err := pipeline.Add(op); err != nil {
			return errors.Wrap(err, errors.ErrSymlinkCreate, "failed to assemble link pipeline")
		}
	}

	result := synthfs.NewExecutor().Run(ctx, pipeline, filesystem.NewOSFileSystem("/"))
	if result.GetError() != nil {
		return errors.Wrapf(result.GetError(), errors.ErrSymlinkCreate,
			"failed to link %s to %s", target, source)
	}

	s.logger.Info().Str("source", source).Str("target", target).Msg("Profile linked")
	return nil
}

const backupTimestamp = "20060102-150405"

type symlinkItem struct {
	path   string
	target string
}

func (s *symlinkItem) Path() string   { return s.path }
func (s *symlinkItem) Type() string   { return "symlink" }
func (s *symlinkItem) Target() string { return s.target }
