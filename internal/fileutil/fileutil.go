// Package fileutil provides small filesystem helpers shared by the
// extraction pipeline: atomic writes, directory sizing, and recursive
// directory creation with consistent permissions.
package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// EnsureDir creates dir and any missing parents with 0o755 permissions.
func EnsureDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("ensure dir: empty path")
	}
	return os.MkdirAll(dir, 0o755)
}

// WriteFileAtomic writes data to path via a temporary sibling file and a
// rename, so readers never observe a partially written file. The parent
// directory is created if missing.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// DirSize returns the total size in bytes of all regular files under root.
// Missing roots count as zero.
func DirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil && os.IsNotExist(err) {
		return 0, nil
	}
	return total, err
}

// RemoveAllIfExists removes path and its children, tolerating absence.
func RemoveAllIfExists(path string) error {
	err := os.RemoveAll(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
