package mediax

import (
	"context"
	"strings"

	"github.com/jamalpur-chamber/outbound/pkg/config"
	"github.com/jamalpur-chamber/outbound/pkg/fsx/fsxlocal"
	"github.com/jamalpur-chamber/outbound/pkg/logx"
)

// Pipeline is the upload entry point used by request handlers. It is safe
// for concurrent use; each Accept call owns its own state.
type Pipeline struct {
	store    ObjectStore
	urls     ObjectStore
	strategy Strategy
	policy   Policy
	folder   string
	logger   *logx.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger overrides the default logger.
func WithLogger(l *logx.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithStrategy overrides the strategy derived from configuration.
func WithStrategy(s Strategy) Option {
	return func(p *Pipeline) { p.strategy = s }
}

// WithPolicy overrides the default allow-set policy.
func WithPolicy(policy Policy) Option {
	return func(p *Pipeline) { p.policy = policy }
}

// NewPipeline builds a pipeline from configuration. store may be nil, which
// disables uploads the same way missing credentials do.
func NewPipeline(cfg config.MediaConfig, store ObjectStore, opts ...Option) (*Pipeline, error) {
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxUploadBytes
	}

	p := &Pipeline{
		policy: NewPolicy(AllowedMimeTypes, maxBytes),
		folder: cfg.Folder,
		logger: logx.GetDefaultLogger(),
	}
	for _, o := range opts {
		o(p)
	}

	if p.strategy == nil {
		s, err := strategyFromConfig(cfg, p.policy.MaxBytes(), p.logger)
		if err != nil {
			return nil, err
		}
		p.strategy = s
	}

	// URL derivation needs no credentials.
	p.urls = store

	if cfg.Enabled() && store != nil {
		p.store = store
		p.logger.WithFields(logx.Fields{
			"provider": store.Name(),
			"strategy": p.strategy.Name(),
			"folder":   p.folder,
		}).Info("mediax: upload pipeline initialized")
	} else {
		p.logger.WithField("provider", cfg.Provider).Warn("mediax: storage credentials missing, uploads disabled")
	}

	return p, nil
}

func strategyFromConfig(cfg config.MediaConfig, maxBytes int64, logger *logx.Logger) (Strategy, error) {
	switch strings.ToLower(cfg.Strategy) {
	case config.StrategyStaged, "":
		lfs, err := fsxlocal.NewLocalFileSystem(cfg.StagingDir)
		if err != nil {
			return nil, mediaxErrors.NewWithCause(ErrLocalIOFailed, err).WithDetail("path", cfg.StagingDir)
		}
		return NewStaged(NewStagingArea(lfs), maxBytes, logger), nil
	case config.StrategyDirect:
		return NewDirect(maxBytes), nil
	default:
		return nil, mediaxErrors.New(ErrInvalidStrategy).WithDetail("strategy", cfg.Strategy)
	}
}

// Enabled reports whether uploads will reach an object store.
func (p *Pipeline) Enabled() bool {
	return p.store != nil
}

// Strategy returns the active persist strategy.
func (p *Pipeline) Strategy() Strategy {
	return p.strategy
}

// Policy returns the validation policy.
func (p *Pipeline) Policy() Policy {
	return p.policy
}

// Accept validates and stores one file.
func (p *Pipeline) Accept(ctx context.Context, req UploadRequest) (StoredObjectReference, error) {
	log := p.logger.WithFields(logx.Fields{
		"field":     req.FieldName,
		"file":      req.OriginalName,
		"mime_type": req.MimeType,
		"size":      req.Size,
	})

	if p.store == nil {
		return StoredObjectReference{}, mediaxErrors.New(ErrServiceUnavailable)
	}
	log.Debug("mediax: received")

	if err := p.policy.Validate(req); err != nil {
		log.WithError(err).Warn("mediax: upload rejected")
		return StoredObjectReference{}, err
	}
	if req.Body == nil {
		return StoredObjectReference{}, mediaxErrors.New(ErrEmptyBody).WithDetail("field", req.FieldName)
	}
	log.Debug("mediax: validated")

	ref, err := p.strategy.Persist(ctx, req, p.store, UploadOptions{
		Folder:       p.folder,
		ResourceType: ResourceAuto,
		Optimize:     true,
	})
	if err != nil {
		p.logger.WithFields(logx.Fields{
			"field":    req.FieldName,
			"file":     req.OriginalName,
			"strategy": p.strategy.Name(),
		}).WithError(err).Error("mediax: upload failed")
		return StoredObjectReference{}, err
	}

	if ref.ResourceType == "" {
		ref.ResourceType = ResourceAuto
	}

	p.logger.WithFields(logx.Fields{
		"public_id": ref.PublicID,
		"strategy":  p.strategy.Name(),
	}).Info("mediax: file stored")

	return ref, nil
}

// DeleteObject removes an object. An empty id is a no-op. Failures are
// logged and swallowed; orphaned remote objects are reconciled elsewhere.
func (p *Pipeline) DeleteObject(ctx context.Context, publicID string) {
	if publicID == "" || p.store == nil {
		return
	}

	if err := p.store.Destroy(ctx, publicID); err != nil {
		p.logger.WithField("public_id", publicID).WithError(err).Error("mediax: error deleting object")
		return
	}

	p.logger.WithField("public_id", publicID).Info("mediax: deleted object")
}

// ResolveURL derives a delivery URL without any network call. It reports
// false for an empty id or when no store was built. An empty resourceType
// means auto.
func (p *Pipeline) ResolveURL(publicID string, resourceType ResourceType) (string, bool) {
	if publicID == "" || p.urls == nil {
		return "", false
	}
	if resourceType == "" {
		resourceType = ResourceAuto
	}

	u, err := p.urls.URL(publicID, resourceType)
	if err != nil {
		p.logger.WithField("public_id", publicID).WithError(err).Warn("mediax: could not derive url")
		return "", false
	}
	return u, true
}

// StagingArea returns the staging area when the staged strategy is active.
func (p *Pipeline) StagingArea() (*StagingArea, bool) {
	s, ok := p.strategy.(*Staged)
	if !ok {
		return nil, false
	}
	return s.Area(), true
}

// ReportLingering logs every file left in the staging directory and returns
// how many were found. Files are never removed here.
func (p *Pipeline) ReportLingering(ctx context.Context) (int, error) {
	area, ok := p.StagingArea()
	if !ok {
		return 0, nil
	}

	files, err := area.Lingering(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("mediax: could not inspect staging directory")
		return 0, err
	}

	for _, f := range files {
		p.logger.WithFields(logx.Fields{
			"dir":      area.Dir(),
			"file":     f.Name,
			"size":     f.Size,
			"modified": f.ModTime,
		}).Warn("mediax: lingering staging file")
	}
	return len(files), nil
}
