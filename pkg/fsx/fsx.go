// Package fsx abstracts the local disk used for transient upload staging.
package fsx

import (
	"context"
	"io"
	"time"
)

// FileInfo represents information about a file
type FileInfo struct {
	Name        string    // Base name of the file
	Size        int64     // File size in bytes
	ModTime     time.Time // Modification time
	IsDir       bool      // Is a directory
	ContentType string    // MIME type guessed from the extension
}

// FileReader provides read-only operations
type FileReader interface {
	ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error)
	Stat(ctx context.Context, path string) (FileInfo, error)
	List(ctx context.Context, path string) ([]FileInfo, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// FileWriter provides write operations
type FileWriter interface {
	// WriteFileStream copies r into path and returns the number of bytes written.
	// A partially written file is removed before the error is returned.
	WriteFileStream(ctx context.Context, path string, r io.Reader) (int64, error)
}

// FileDeleter provides deletion operations
type FileDeleter interface {
	// DeleteFile removes path; a missing file is not an error.
	DeleteFile(ctx context.Context, path string) error
}

// FileSystem combines all file operations
type FileSystem interface {
	FileReader
	FileWriter
	FileDeleter
}

// LocalFileSystem is a FileSystem rooted on the local disk, able to hand
// out real paths for SDKs that want to open files themselves.
type LocalFileSystem interface {
	FileSystem
	// LocalPath returns the absolute on-disk path for a relative path.
	LocalPath(path string) string
	// Root returns the absolute base directory.
	Root() string
}
