package mediax

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jamalpur-chamber/outbound/pkg/fsx"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// StagingArtifact is a transient local copy of one upload. It belongs to
// the Accept call that created it and never outlives that call.
type StagingArtifact struct {
	Name string
	Path string
	Size int64
}

// StagingArea hands out uniquely named files in a dedicated directory.
// Anything found in the directory outside an in-flight call is a leftover
// from a failed cleanup.
type StagingArea struct {
	fs     fsx.LocalFileSystem
	now    func() time.Time
	random func() uint32
}

// NewStagingArea creates a staging area on top of a local file system.
func NewStagingArea(lfs fsx.LocalFileSystem) *StagingArea {
	return &StagingArea{
		fs:     lfs,
		now:    time.Now,
		random: func() uint32 { return uuid.New().ID() },
	}
}

// Dir returns the absolute staging directory.
func (a *StagingArea) Dir() string {
	return a.fs.Root()
}

// artifactName builds <field>-<unixmillis>-<random><ext>.
func (a *StagingArea) artifactName(field, ext string) string {
	field = unsafeNameChars.ReplaceAllString(field, "")
	if field == "" {
		field = "file"
	}
	ext = strings.TrimPrefix(ext, ".")
	ext = unsafeNameChars.ReplaceAllString(ext, "")
	if ext != "" {
		ext = "." + ext
	}
	return fmt.Sprintf("%s-%d-%d%s", field, a.now().UnixMilli(), a.random(), ext)
}

// Stage copies the request body into a new file, reading at most maxBytes.
// On failure nothing is left behind.
func (a *StagingArea) Stage(ctx context.Context, req UploadRequest, maxBytes int64) (*StagingArtifact, error) {
	name := a.artifactName(req.FieldName, req.Ext())

	n, err := a.fs.WriteFileStream(ctx, name, newCapReader(req.Body, maxBytes))
	if err != nil {
		// A name collision means the file belongs to another call.
		var cleanupErr error
		if !errors.Is(err, fs.ErrExist) {
			cleanupErr = a.fs.DeleteFile(context.WithoutCancel(ctx), name)
		}

		var out error
		if errors.Is(err, errBodyTooLarge) {
			out = mediaxErrors.New(ErrPayloadTooLarge).
				WithDetail("max_bytes", maxBytes).
				WithDetail("declared_size", req.Size)
		} else {
			out = mediaxErrors.NewWithCause(ErrLocalIOFailed, err).
				WithDetail("path", a.fs.LocalPath(name))
		}
		if cleanupErr != nil {
			return nil, errors.Join(out, cleanupErr)
		}
		return nil, out
	}

	return &StagingArtifact{Name: name, Path: a.fs.LocalPath(name), Size: n}, nil
}

// Open reopens a staged file for reading.
func (a *StagingArea) Open(ctx context.Context, art *StagingArtifact) (io.ReadCloser, error) {
	rc, err := a.fs.ReadFileStream(ctx, art.Name)
	if err != nil {
		return nil, mediaxErrors.NewWithCause(ErrLocalIOFailed, err).WithDetail("path", art.Path)
	}
	return rc, nil
}

// Release deletes a staged file. Releasing twice is harmless.
func (a *StagingArea) Release(ctx context.Context, art *StagingArtifact) error {
	if art == nil {
		return nil
	}
	if err := a.fs.DeleteFile(ctx, art.Name); err != nil {
		return mediaxErrors.NewWithCause(ErrLocalIOFailed, err).WithDetail("path", art.Path)
	}
	return nil
}

// Lingering lists files present in the staging directory. It never deletes
// them; callers report them so the failed cleanup can be investigated.
func (a *StagingArea) Lingering(ctx context.Context) ([]fsx.FileInfo, error) {
	files, err := a.fs.List(ctx, "")
	if err != nil {
		return nil, mediaxErrors.NewWithCause(ErrLocalIOFailed, err).WithDetail("path", a.Dir())
	}
	return files, nil
}
