package fsxlocal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamalpur-chamber/outbound/pkg/fsx"
)

// ErrNotFound is returned (wrapped) when a path does not exist.
var ErrNotFound = errors.New("file not found")

// LocalFileSystem implements fsx.LocalFileSystem using local disk
type LocalFileSystem struct {
	basePath string // Root directory for all files
}

var _ fsx.LocalFileSystem = (*LocalFileSystem)(nil)

// NewLocalFileSystem creates a new local file system rooted at basePath
// (e.g. "./temp"). The directory itself is created lazily on first write.
func NewLocalFileSystem(basePath string) (*LocalFileSystem, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	return &LocalFileSystem{
		basePath: absPath,
	}, nil
}

// ============================================================================
// FileReader Implementation
// ============================================================================

func (lfs *LocalFileSystem) ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(lfs.LocalPath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (lfs *LocalFileSystem) Stat(ctx context.Context, path string) (fsx.FileInfo, error) {
	fullPath := lfs.LocalPath(path)
	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fsx.FileInfo{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fsx.FileInfo{}, fmt.Errorf("failed to stat file: %w", err)
	}
	return toFileInfo(info), nil
}

// List returns the entries of a directory. A missing directory lists as empty.
func (lfs *LocalFileSystem) List(ctx context.Context, path string) ([]fsx.FileInfo, error) {
	entries, err := os.ReadDir(lfs.LocalPath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	fileInfos := make([]fsx.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue // removed between ReadDir and Info
		}
		fileInfos = append(fileInfos, toFileInfo(info))
	}

	return fileInfos, nil
}

func (lfs *LocalFileSystem) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(lfs.LocalPath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ============================================================================
// FileWriter Implementation
// ============================================================================

func (lfs *LocalFileSystem) WriteFileStream(ctx context.Context, path string, r io.Reader) (int64, error) {
	fullPath := lfs.LocalPath(path)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	n, err := io.Copy(file, r)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return n, fmt.Errorf("failed to write file: %w", err)
	}

	return n, nil
}

// ============================================================================
// FileDeleter Implementation
// ============================================================================

func (lfs *LocalFileSystem) DeleteFile(ctx context.Context, path string) error {
	if err := os.Remove(lfs.LocalPath(path)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ============================================================================
// Path helpers
// ============================================================================

// LocalPath converts a relative path to an absolute path under the root.
// Paths that try to climb out of the root are clamped to it.
func (lfs *LocalFileSystem) LocalPath(path string) string {
	clean := filepath.Clean(string(filepath.Separator) + path)
	return filepath.Join(lfs.basePath, strings.TrimPrefix(clean, string(filepath.Separator)))
}

// Root returns the base path
func (lfs *LocalFileSystem) Root() string {
	return lfs.basePath
}

func toFileInfo(info fs.FileInfo) fsx.FileInfo {
	return fsx.FileInfo{
		Name:        info.Name(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		IsDir:       info.IsDir(),
		ContentType: detectContentType(info.Name()),
	}
}

// detectContentType guesses the MIME type from the file extension
func detectContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
