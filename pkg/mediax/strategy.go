package mediax

import (
	"context"
	"errors"
	"io"

	"github.com/jamalpur-chamber/outbound/pkg/config"
	"github.com/jamalpur-chamber/outbound/pkg/logx"
)

// Strategy persists a validated request into an object store.
type Strategy interface {
	Name() string
	Persist(ctx context.Context, req UploadRequest, store ObjectStore, opts UploadOptions) (StoredObjectReference, error)
}

// Staged writes the body to a local file, uploads the file, and deletes it
// whatever the outcome of the upload.
type Staged struct {
	area     *StagingArea
	maxBytes int64
	logger   *logx.Logger
}

// NewStaged creates the staged strategy.
func NewStaged(area *StagingArea, maxBytes int64, logger *logx.Logger) *Staged {
	if logger == nil {
		logger = logx.GetDefaultLogger()
	}
	return &Staged{area: area, maxBytes: maxBytes, logger: logger}
}

// Name implements Strategy.
func (s *Staged) Name() string { return config.StrategyStaged }

// Area exposes the staging area for lingering-file reports.
func (s *Staged) Area() *StagingArea { return s.area }

// Persist implements Strategy.
func (s *Staged) Persist(ctx context.Context, req UploadRequest, store ObjectStore, opts UploadOptions) (StoredObjectReference, error) {
	art, err := s.area.Stage(ctx, req, s.maxBytes)
	if err != nil {
		return StoredObjectReference{}, err
	}

	// Cleanup must finish before the caller sees a result, even if the
	// caller's context is already cancelled.
	defer func() {
		if err := s.area.Release(context.WithoutCancel(ctx), art); err != nil {
			s.logger.WithFields(logx.Fields{
				"path":  art.Path,
				"field": req.FieldName,
			}).WithError(err).Error("mediax: failed to clean up staging file")
			return
		}
		s.logger.WithField("path", art.Path).Debug("mediax: staging file removed")
	}()

	s.logger.WithFields(logx.Fields{"path": art.Path, "size": art.Size}).Debug("mediax: staged")

	src := UploadSource{
		Path: art.Path,
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			return s.area.Open(ctx, art)
		},
		Filename:    req.OriginalName,
		ContentType: normalizeMimeType(req.MimeType),
		Size:        art.Size,
	}

	ref, err := store.Upload(ctx, src, opts)
	if err != nil {
		return StoredObjectReference{}, storageError(err, store.Name())
	}
	return ref, nil
}

// Direct streams the body straight to the store with no local file.
type Direct struct {
	maxBytes int64
}

// NewDirect creates the direct strategy.
func NewDirect(maxBytes int64) *Direct {
	return &Direct{maxBytes: maxBytes}
}

// Name implements Strategy.
func (d *Direct) Name() string { return config.StrategyDirect }

// Persist implements Strategy.
func (d *Direct) Persist(ctx context.Context, req UploadRequest, store ObjectStore, opts UploadOptions) (StoredObjectReference, error) {
	src := UploadSource{
		Reader:      newCapReader(req.Body, d.maxBytes),
		Filename:    req.OriginalName,
		ContentType: normalizeMimeType(req.MimeType),
		Size:        req.Size,
	}

	ref, err := store.Upload(ctx, src, opts)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			return StoredObjectReference{}, mediaxErrors.New(ErrPayloadTooLarge).
				WithDetail("max_bytes", d.maxBytes).
				WithDetail("declared_size", req.Size)
		}
		return StoredObjectReference{}, storageError(err, store.Name())
	}
	return ref, nil
}
