package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidPath is returned for paths that would leave the data directory
var ErrInvalidPath = errors.New("invalid path")

// FileSystem stores files under a single data directory. Every path it
// accepts is relative to that directory.
type FileSystem struct {
	baseDir string
}

func NewFileSystem(baseDir string) *FileSystem {
	return &FileSystem{
		baseDir: filepath.Clean(baseDir),
	}
}

// Root returns the data directory
func (fs *FileSystem) Root() string {
	return fs.baseDir
}

// resolve validates a relative path and joins it onto the data directory
func (fs *FileSystem) resolve(path string) (string, error) {
	cleaned := filepath.Clean(path)

	if strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("%w: %q contains a parent directory reference", ErrInvalidPath, path)
	}
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidPath, path)
	}

	full := filepath.Join(fs.baseDir, cleaned)
	if !fs.contains(full) {
		return "", fmt.Errorf("%w: %q is outside the data directory", ErrInvalidPath, path)
	}
	return full, nil
}

func (fs *FileSystem) contains(full string) bool {
	return full == fs.baseDir || strings.HasPrefix(full, fs.baseDir+string(filepath.Separator))
}

// Save writes data to path, creating parent directories. The file is
// written to a temporary sibling first and renamed into place so readers
// never see a partial lexicon or report.
func (fs *FileSystem) Save(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := fs.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), "."+filepath.Base(full)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("replacing file: %w", err)
	}
	return nil
}

func (fs *FileSystem) Load(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := fs.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// List returns the data-directory-relative paths matching a glob pattern
func (fs *FileSystem) List(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleaned := filepath.Clean(pattern)
	if strings.Contains(cleaned, "..") || filepath.IsAbs(cleaned) {
		return nil, fmt.Errorf("%w: pattern %q", ErrInvalidPath, pattern)
	}

	matches, err := filepath.Glob(filepath.Join(fs.baseDir, cleaned))
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	var results []string
	for _, match := range matches {
		if !fs.contains(match) {
			continue
		}
		rel, err := filepath.Rel(fs.baseDir, match)
		if err != nil {
			continue
		}
		results = append(results, rel)
	}
	return results, nil
}

func (fs *FileSystem) Exists(ctx context.Context, path string) bool {
	full, err := fs.resolve(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

// Delete removes a file or an empty directory
func (fs *FileSystem) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := fs.resolve(path)
	if err != nil {
		return err
	}
	if full == fs.baseDir {
		return fmt.Errorf("%w: refusing to delete the data directory", ErrInvalidPath)
	}
	if err := os.Remove(full); err != nil {
		return fmt.Errorf("deleting %s: %w", path, err)
	}
	return nil
}
