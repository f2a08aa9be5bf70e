// Package mediaxcloudinary stores media objects in Cloudinary.
package mediaxcloudinary

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/asset"
	"github.com/cloudinary/cloudinary-go/v2/config"
	cldlogger "github.com/cloudinary/cloudinary-go/v2/logger"
	"github.com/jamalpur-chamber/outbound/pkg/logx"
	"github.com/jamalpur-chamber/outbound/pkg/mediax"
	"github.com/jamalpur-chamber/outbound/pkg/ptrx"
)

const (
	providerName = "cloudinary"

	// optimizeTransformation selects quality and format automatically.
	optimizeTransformation = "q_auto,f_auto"
)

// Store implements mediax.ObjectStore on top of the Cloudinary SDK.
type Store struct {
	cld *cloudinary.Cloudinary
}

var _ mediax.ObjectStore = (*Store)(nil)

type settings struct {
	conf   *config.Configuration
	logger *logx.Logger
}

// Option customizes the underlying client.
type Option func(*settings)

// WithUploadPrefix points upload and admin calls at another host.
func WithUploadPrefix(prefix string) Option {
	return func(s *settings) { s.conf.API.UploadPrefix = prefix }
}

// WithLogger routes the SDK's own diagnostics through logger.
func WithLogger(logger *logx.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// New creates a store from account credentials. Delivery URLs are always
// https and carry no SDK analytics query.
func New(cloudName, apiKey, apiSecret string, opts ...Option) (*Store, error) {
	conf, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("mediaxcloudinary: %w", err)
	}
	conf.URL.Secure = true
	conf.URL.Analytics = false

	s := &settings{conf: conf, logger: logx.GetDefaultLogger()}
	for _, o := range opts {
		o(s)
	}

	// The SDK copies the configuration into its upload and admin clients.
	cld, err := cloudinary.NewFromConfiguration(*s.conf)
	if err != nil {
		return nil, fmt.Errorf("mediaxcloudinary: %w", err)
	}
	cld.Logger.Writer = sdkLog{logger: s.logger}
	cld.Logger.SetLevel(cldlogger.ERROR)

	return &Store{cld: cld}, nil
}

// sdkLog adapts logx to the SDK's log writer.
type sdkLog struct {
	logger *logx.Logger
}

func (l sdkLog) Debug(v ...interface{}) {
	l.logger.WithField("provider", providerName).Debug(fmt.Sprint(v...))
}

func (l sdkLog) Error(v ...interface{}) {
	l.logger.WithField("provider", providerName).Error(fmt.Sprint(v...))
}

// Name implements mediax.ObjectStore.
func (s *Store) Name() string { return providerName }

// Upload implements mediax.ObjectStore. Staged files are handed to the SDK
// by path; streams are sent as-is.
func (s *Store) Upload(ctx context.Context, src mediax.UploadSource, opts mediax.UploadOptions) (mediax.StoredObjectReference, error) {
	var file interface{} = src.Reader
	if src.Staged() {
		file = src.Path
	}

	rt := opts.ResourceType
	if rt == "" {
		rt = mediax.ResourceAuto
	}

	params := uploader.UploadParams{
		Folder:       opts.Folder,
		ResourceType: string(rt),
	}
	if opts.Optimize {
		params.Transformation = optimizeTransformation
	}

	res, err := s.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return mediax.StoredObjectReference{}, mediax.WrapStorageError(providerName, err)
	}
	if res.Error.Message != "" {
		return mediax.StoredObjectReference{}, mediax.NewStorageError(providerName, res.Error.Message)
	}
	if res.PublicID == "" {
		return mediax.StoredObjectReference{}, mediax.NewStorageError(providerName, "upload response carried no public_id")
	}

	return mediax.StoredObjectReference{
		PublicID:     res.PublicID,
		SecureURL:    res.SecureURL,
		ResourceType: mediax.ParseResourceType(res.ResourceType),
	}, nil
}

// Destroy implements mediax.ObjectStore. Anything other than an "ok" result,
// including "not found", is reported as an error.
func (s *Store) Destroy(ctx context.Context, publicID string) error {
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:   publicID,
		Invalidate: ptrx.Bool(true),
	})
	if err != nil {
		return mediax.WrapStorageError(providerName, err)
	}
	if res.Error.Message != "" {
		return mediax.NewStorageError(providerName, res.Error.Message)
	}
	if res.Result != "ok" {
		return mediax.NewStorageError(providerName, "destroy result: "+res.Result)
	}
	return nil
}

// URL implements mediax.ObjectStore. auto resolves to an image URL; raw
// files are delivered untransformed.
func (s *Store) URL(publicID string, resourceType mediax.ResourceType) (string, error) {
	var (
		a   *asset.Asset
		err error
	)
	switch resourceType {
	case mediax.ResourceRaw:
		a, err = s.cld.File(publicID)
	case mediax.ResourceVideo:
		a, err = s.cld.Video(publicID)
	default:
		a, err = s.cld.Image(publicID)
	}
	if err != nil {
		return "", err
	}

	if resourceType != mediax.ResourceRaw {
		a.Transformation = optimizeTransformation
	}
	return a.String()
}
