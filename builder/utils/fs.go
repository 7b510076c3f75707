package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// WriteFileVFS writes data to path, creating parent directories as needed.
func WriteFileVFS(fs afero.Fs, path string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	return afero.WriteFile(fs, path, data, 0644)
}

// StageFile writes data next to path under a temporary name and returns it.
// CommitFile renames the staged file into place.
func StageFile(fs afero.Fs, path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}
	f, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = fs.Remove(tmp)
		return "", fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Sync(); err != nil && !isUnsupported(err) {
		_ = f.Close()
		_ = fs.Remove(tmp)
		return "", fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		_ = fs.Remove(tmp)
		return "", fmt.Errorf("close %s: %w", tmp, err)
	}
	_ = fs.Chmod(tmp, 0644)
	return tmp, nil
}

// CommitFile moves a staged file over its final path.
func CommitFile(fs afero.Fs, tmp, path string) error {
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("rename %s -> %s: %w", tmp, path, err)
	}
	return nil
}

func isUnsupported(err error) bool {
	return err == os.ErrInvalid || strings.Contains(err.Error(), "not supported")
}

// IsMarkdown reports whether name has the markdown extension.
func IsMarkdown(name string) bool {
	return strings.EqualFold(filepath.Ext(name), MarkdownExt)
}
