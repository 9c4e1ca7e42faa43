package fsutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for written reports and config files.
const DefaultFileMode os.FileMode = 0o644

// WriteAtomic replaces path with content so readers never see a partial file.
//
// gosch writes every file through it: reports from `parse --output`, the
// starter config from `init`, configs saved by the loader, and the .bak copy
// taken before `init --force` overwrites an existing config.
//
// The content lands in a sibling temp file that is synced and renamed over
// path; a failure removes the temp file and leaves the previous report or
// config as it was. A zero mode means DefaultFileMode.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	tmpPath, err := writeSibling(path, content, mode)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeSibling writes content to a new temp file next to path and returns its name.
func writeSibling(path string, content []byte, mode os.FileMode) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	_, err = tmp.Write(content)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), mode)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return tmp.Name(), nil
}

// WriteAtomicIfChanged is WriteAtomic for reports: rerunning `parse --output`
// over unchanged documents leaves the report file and its mtime alone.
// It reports whether the file was written.
func WriteAtomicIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(existing, content):
		return false, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("read existing %s: %w", filepath.Base(path), err)
	}

	if err := WriteAtomic(ctx, path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}
