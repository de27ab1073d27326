package fsops

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/nalanj/treebackup/pkg/engine"
)

// EnumerateDirectories recursively lists every directory beneath root,
// adapting the teacher's DirectoryContents (open + Readdirnames + sort)
// into a recursive walk that builds RelativePath values directly, rather
// than returning raw names for a caller to re-resolve.
func (l *Local) EnumerateDirectories(ctx context.Context, root string, policy engine.CasePolicy, onItem func() error) ([]engine.RelativePath, error) {
	var results []engine.RelativePath
	err := walk(root, func(relative string, isDir bool) error {
		if onItem != nil {
			if err := onItem(); err != nil {
				return err
			}
		}
		if !isDir {
			return nil
		}
		path, err := engine.NewRelativePath(relative, policy)
		if err != nil {
			return err
		}
		if path.IsRoot() {
			return nil
		}
		results = append(results, path)
		return nil
	})
	return results, err
}

// EnumerateFiles recursively lists every regular file beneath root.
// Symlinks are treated as regular files per the engine's scope: no special
// handling, no surfaced reparse points.
func (l *Local) EnumerateFiles(ctx context.Context, root string, policy engine.CasePolicy, onItem func() error) ([]engine.RelativePath, error) {
	var results []engine.RelativePath
	err := walk(root, func(relative string, isDir bool) error {
		if onItem != nil {
			if err := onItem(); err != nil {
				return err
			}
		}
		if isDir {
			return nil
		}
		path, err := engine.NewRelativePath(relative, policy)
		if err != nil {
			return err
		}
		results = append(results, path)
		return nil
	})
	return results, err
}

// walk recursively visits every entry beneath root, reporting its
// root-relative native path and whether it is a directory. Entries it
// cannot stat (permission denied, vanished between listing and stat) are
// skipped rather than aborting the whole walk, per the "skip inaccessible"
// policy chosen for the open enumeration question.
func walk(root string, visit func(relative string, isDir bool) error) error {
	return walkDir(root, root, visit)
}

func walkDir(root, dir string, visit func(relative string, isDir bool) error) error {
	handle, err := os.Open(dir)
	if err != nil {
		if os.IsPermission(err) {
			return nil
		}
		return errors.Wrap(err, "unable to open directory")
	}
	names, err := handle.Readdirnames(0)
	handle.Close()
	if err != nil {
		return errors.Wrap(err, "unable to read directory names")
	}
	sort.Strings(names)

	for _, name := range names {
		full := filepath.Join(dir, name)
		info, err := os.Lstat(full)
		if err != nil {
			if os.IsNotExist(err) || os.IsPermission(err) {
				continue
			}
			return errors.Wrap(err, "unable to stat entry")
		}

		relative, err := filepath.Rel(root, full)
		if err != nil {
			return errors.Wrap(err, "unable to compute relative path")
		}

		// Symlinks are always treated as regular files, never traversed as
		// directories, per the engine's enumeration scope.
		isDir := info.IsDir() && info.Mode()&os.ModeSymlink == 0

		if err := visit(relative, isDir); err != nil {
			return err
		}

		if isDir {
			if err := walkDir(root, full, visit); err != nil {
				return err
			}
		}
	}
	return nil
}
