package fsxlocal

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/fsx"
)

// LocalFileSystem stores files under a base directory
type LocalFileSystem struct {
	basePath string
}

var _ fsx.FileSystem = (*LocalFileSystem)(nil)

// NewLocalFileSystem creates the base directory if needed
func NewLocalFileSystem(basePath string) (*LocalFileSystem, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, errx.Wrap(err, "failed to resolve upload dir", errx.TypeInternal)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errx.Wrap(err, "failed to create upload dir", errx.TypeInternal).
			WithDetail("path", abs)
	}
	return &LocalFileSystem{basePath: abs}, nil
}

func (l *LocalFileSystem) GetBasePath() string {
	return l.basePath
}

// resolve rejects keys that escape the base directory
func (l *LocalFileSystem) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + strings.TrimSpace(path))
	if clean == "/" {
		return "", fsx.ErrInvalidPath().WithDetail("path", path)
	}
	return filepath.Join(l.basePath, clean), nil
}

func (l *LocalFileSystem) WriteFile(ctx context.Context, path string, data []byte) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errx.Wrap(err, "failed to create directory", errx.TypeInternal).WithDetail("path", path)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return errx.Wrap(err, "failed to write file", errx.TypeInternal).WithDetail("path", path)
	}
	return nil
}

func (l *LocalFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fsx.ErrFileNotFound().WithDetail("path", path)
		}
		return nil, errx.Wrap(err, "failed to read file", errx.TypeInternal).WithDetail("path", path)
	}
	return data, nil
}

// DeleteFile is a no-op for missing files
func (l *LocalFileSystem) DeleteFile(ctx context.Context, path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errx.Wrap(err, "failed to delete file", errx.TypeInternal).WithDetail("path", path)
	}
	return nil
}

func (l *LocalFileSystem) Exists(ctx context.Context, path string) (bool, error) {
	full, err := l.resolve(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errx.Wrap(err, "failed to stat file", errx.TypeInternal).WithDetail("path", path)
}
