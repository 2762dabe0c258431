package health

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"
)

// FilesystemChecker provides filesystem health checks.
type FilesystemChecker struct {
	fs afero.Fs
}

// NewFilesystemChecker creates a new filesystem checker.
func NewFilesystemChecker(fsys afero.Fs) *FilesystemChecker {
	return &FilesystemChecker{fs: fsys}
}

// CheckFolderAccessible verifies that a path exists and is a directory.
func (c *FilesystemChecker) CheckFolderAccessible(path string) error {
	info, err := c.fs.Stat(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("path does not exist: %s", path)
		case errors.Is(err, fs.ErrPermission):
			return fmt.Errorf("permission denied: %s", path)
		}
		return fmt.Errorf("cannot access path: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	return nil
}

// CheckFolderReadable verifies that the entries of a directory can be listed.
func (c *FilesystemChecker) CheckFolderReadable(path string) error {
	if _, err := afero.ReadDir(c.fs, path); err != nil {
		return fmt.Errorf("cannot list folder: %w", err)
	}
	return nil
}

// CheckFolderHealth combines accessibility and readability checks.
// Returns (ok, message) where message describes the issue if not ok.
func (c *FilesystemChecker) CheckFolderHealth(path string) (bool, string) {
	if err := c.CheckFolderAccessible(path); err != nil {
		return false, err.Error()
	}
	if err := c.CheckFolderReadable(path); err != nil {
		return false, err.Error()
	}
	return true, ""
}
