// Package fsops is the local-disk implementation of the engine's abstract
// filesystem capability. It adapts the teacher's own filesystem primitives
// (temporary-file case-sensitivity probing, directory listing, path
// normalization) into the shape the backup engine's FileSystem interface expects,
// rather than reimplementing them from scratch.
package fsops

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nalanj/treebackup/pkg/engine"
	"github.com/nalanj/treebackup/pkg/logging"
	"github.com/nalanj/treebackup/pkg/must"
)

// bufferSize is the sequential-read buffer size used for copies, at least
// 1 MiB per the concurrency model's buffer-sizing guidance.
const bufferSize = 1 << 20

// Local is the local-disk FileSystem implementation.
type Local struct {
	casePolicy engine.CasePolicy
	logger     *logging.Logger
}

// New constructs a Local filesystem, probing root once for case
// sensitivity using the same temporary-file technique the teacher uses
// (create under one name, stat under a case-flipped name).
func New(root string) (*Local, error) {
	insensitive, err := probeCaseInsensitive(root)
	if err != nil {
		return nil, errors.Wrap(err, "unable to determine case sensitivity")
	}
	policy := engine.CaseSensitive
	if insensitive {
		policy = engine.CaseInsensitive
	}
	return &Local{casePolicy: policy, logger: logging.RootLogger}, nil
}

// probeCaseInsensitive determines whether the filesystem at root is case
// insensitive by creating a temporary file and attempting to stat it by a
// case-flipped name, mirroring the teacher's filesystem.CaseInsensitive
// probe.
func probeCaseInsensitive(root string) (bool, error) {
	const create = "treebackup_case_probe"
	const check = "TREEBACKUP_CASE_PROBE"

	file, err := os.CreateTemp(root, create)
	if err != nil {
		// root may not exist yet (e.g. the source path turns out to be
		// missing, which the orchestrator surfaces as its own error kind
		// shortly after this call); fall back to the system temporary
		// directory purely to determine the host's case policy.
		file, err = os.CreateTemp("", create)
		if err != nil {
			return false, errors.Wrap(err, "unable to create probe file")
		}
	}
	name := file.Name()
	defer must.OSRemove(name, logging.RootLogger)
	defer must.Close(file, logging.RootLogger)

	flipped := strings.Replace(name, create, check, 1)
	if _, err := os.Stat(flipped); err == nil {
		return true, nil
	}
	return false, nil
}

func (l *Local) CasePolicy() engine.CasePolicy {
	return l.casePolicy
}

func (l *Local) Combine(root string, path engine.RelativePath) string {
	if path.IsRoot() {
		return root
	}
	return filepath.Join(root, path.Native())
}

func (l *Local) DirectoryExists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "unable to stat path")
	}
	return info.IsDir(), nil
}

func (l *Local) CreateDirectory(ctx context.Context, path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return errors.Wrap(err, "unable to create directory")
	}
	return nil
}

// ValidateAndNormalize expands a leading "~" the way the teacher's own
// Normalize does, resolves the result to an absolute path, evaluates
// symlinks in the existing portion of the path (so a symlinked parent
// directory doesn't produce two different canonical forms for the same
// tree), and strips any trailing separator.
func (l *Local) ValidateAndNormalize(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path must not be empty")
	}

	expanded, err := tildeExpand(trimmed)
	if err != nil {
		return "", errors.Wrap(err, "unable to expand path")
	}

	absolute, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrap(err, "unable to compute absolute path")
	}

	if resolved, err := filepath.EvalSymlinks(absolute); err == nil {
		absolute = resolved
	}

	return strings.TrimRight(absolute, string(filepath.Separator)), nil
}

// tildeExpand expands a leading "~/" into the current user's home
// directory. Non-tilde paths, and "~username" forms (which would require
// cgo-based user lookup), pass through unchanged.
func tildeExpand(path string) (string, error) {
	if len(path) < 2 || path[0] != '~' {
		return path, nil
	}
	if !os.IsPathSeparator(path[1]) {
		return path, nil
	}

	self, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "unable to determine home directory")
	}
	return filepath.Join(self, path[2:]), nil
}

func (l *Local) FileMetadata(ctx context.Context, path string) (uint64, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, time.Time{}, errors.Wrap(err, "unable to stat file")
	}
	return uint64(info.Size()), info.ModTime().UTC(), nil
}

func (l *Local) CopyFile(ctx context.Context, src, dst string, overwrite bool, modificationTime *time.Time) error {
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}

	source, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "unable to open source file")
	}
	defer must.Close(source, l.logger)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrap(err, "unable to create destination directory")
	}

	destination, err := os.OpenFile(dst, flags, 0o644)
	if err != nil {
		return errors.Wrap(err, "unable to open destination file")
	}

	if err := copyWithContext(ctx, destination, source); err != nil {
		must.Close(destination, l.logger)
		return err
	}

	if err := destination.Close(); err != nil {
		return errors.Wrap(err, "unable to close destination file")
	}

	if modificationTime != nil {
		if err := os.Chtimes(dst, *modificationTime, *modificationTime); err != nil {
			return errors.Wrap(err, "unable to set destination modification time")
		}
	}

	return nil
}

func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) error {
	buffer := make([]byte, bufferSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, readErr := src.Read(buffer)
		if n > 0 {
			if _, writeErr := dst.Write(buffer[:n]); writeErr != nil {
				return errors.Wrap(writeErr, "unable to write data")
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return errors.Wrap(readErr, "unable to read data")
		}
	}
}

func (l *Local) DeleteFileIfExists(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "unable to remove file")
	}
	return nil
}

func (l *Local) DeleteDirectoryIfExists(ctx context.Context, path string, recursive bool) error {
	var err error
	if recursive {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "unable to remove directory")
	}
	return nil
}
