package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

const tempPrefix = ".fmclip"

// CreateTempFile creates a temp file in dir with a unique name and extension.
// Returns the full path and the open file handle.
func CreateTempFile(dir, prefix, ext string) (string, *os.File, error) {
	name := fmt.Sprintf("%s_%s%s", prefix, NewID(), ext)
	fullPath := filepath.Join(dir, name)
	f, err := os.OpenFile(fullPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", nil, err
	}
	return fullPath, f, nil
}

// RemoveTempFile safely deletes a temp file.
func RemoveTempFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// WriteFileAtomic writes data to a temp file next to path and renames it over
// path, so readers see either the old or the new contents.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpPath, f, err := CreateTempFile(dir, tempPrefix, ".tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	// no-op once the rename succeeded
	defer RemoveTempFile(tmpPath)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// RemoveAllTempFiles removes leftovers of interrupted atomic writes in dir.
func RemoveAllTempFiles(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(dir, tempPrefix+"_*.tmp"))
	if err != nil {
		return fmt.Errorf("failed to glob temp files: %w", err)
	}

	var firstErr error
	for _, file := range files {
		if err := os.Remove(file); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to remove temp file %s: %w", file, err)
		}
	}
	return firstErr
}

// FileExists checks if a regular file exists at path.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
