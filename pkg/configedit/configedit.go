// Package configedit performs narrow, idempotent text edits on system
// config files: insert-a-line-if-absent with a backup-before-write step
// (the PAM edit) and append-if-absent (shell environment lines). Writes
// are atomic: a temp file in the target directory is renamed over the
// original, so a failure mid-write never leaves a truncated file.
package configedit

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/logging"
)

// EditResult reports what an edit did.
type EditResult int

const (
	// NoOp means the target line was already present; nothing changed
	// and no backup was taken.
	NoOp EditResult = iota
	// Inserted means the file was rewritten with the line added.
	Inserted
)

// backupTimestamp formats the suffix of backup file names.
const backupTimestamp = "20060102-150405"

// EnsureLineInFile inserts line into the file at path unless an exact
// matching line already exists. The line goes immediately after the
// leading run of comment/blank lines (the file's header block); if the
// whole file is header, it is appended at the end. A timestamped backup
// is written before any mutation; backup failure aborts the edit with
// the file untouched. Returns the result and the backup path when one
// was created.
func EnsureLineInFile(path, line string) (EditResult, string, error) {
	logger := logging.GetLogger("configedit")

	original, err := os.ReadFile(path)
	if err != nil {
		return NoOp, "", errors.Wrapf(err, errors.ErrConfigEdit, "cannot read %s", path)
	}

	lines := strings.Split(string(original), "\n")
	for _, existing := range lines {
		if existing == line {
			logger.Debug().Str("path", path).Msg("Line already present, nothing to do")
			return NoOp, "", nil
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return NoOp, "", errors.Wrapf(err, errors.ErrConfigEdit, "cannot stat %s", path)
	}

	backupPath := path + ".backup-" + time.Now().Format(backupTimestamp)
	if err := os.WriteFile(backupPath, original, info.Mode().Perm()); err != nil {
		return NoOp, "", errors.Wrapf(err, errors.ErrBackup,
			"backup of %s failed, refusing to edit", path)
	}

	updated := insertAfterHeader(lines, line)
	if err := atomicWrite(path, []byte(strings.Join(updated, "\n")), info.Mode().Perm()); err != nil {
		return NoOp, backupPath, err
	}

	logger.Info().
		Str("path", path).
		Str("backup", backupPath).
		Msg("Inserted config line")
	return Inserted, backupPath, nil
}

// AppendLineIfAbsent appends line to the file at path when no exact
// matching line exists, creating the file if needed. Used for the shell
// environment eval line; no backup is taken for these append-only
// profile files.
func AppendLineIfAbsent(path, line string) (EditResult, error) {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return NoOp, errors.Wrapf(err, errors.ErrConfigEdit, "cannot read %s", path)
	}

	for _, existing := range strings.Split(string(content), "\n") {
		if existing == line {
			return NoOp, nil
		}
	}

	updated := string(content)
	if updated != "" && !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}
	updated += line + "\n"

	perm := os.FileMode(0644)
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}
	if err := atomicWrite(path, []byte(updated), perm); err != nil {
		return NoOp, err
	}
	return Inserted, nil
}

// insertAfterHeader places line after the leading run of blank or
// comment lines. lines is the file split on newlines, with a possible
// trailing empty element from a final newline.
func insertAfterHeader(lines []string, line string) []string {
	insertAt := 0
	for i, existing := range lines {
		trimmed := strings.TrimSpace(existing)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			insertAt = i + 1
			continue
		}
		insertAt = i
		break
	}

	// Entirely header or blank: append at the end, keeping the final
	// newline if the file had one.
	if insertAt >= len(lines) {
		if n := len(lines); n > 0 && lines[n-1] == "" {
			return append(lines[:n-1], line, "")
		}
		return append(lines, line)
	}

	updated := make([]string, 0, len(lines)+1)
	updated = append(updated, lines[:insertAt]...)
	updated = append(updated, line)
	updated = append(updated, lines[insertAt:]...)
	return updated
}

// atomicWrite writes data to a temp file in the target's directory and
// renames it over the target.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot create temp file in %s", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrFileWrite, "write to %s failed", tmpName)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrFileWrite, "chmod of %s failed", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrFileWrite, "close of %s failed", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrFileWrite, "rename over %s failed", path)
	}
	return nil
}
