// Package mediaxs3 stores media objects in S3 or an S3-compatible bucket
// (R2, MinIO).
package mediaxs3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/jamalpur-chamber/outbound/pkg/mediax"
)

const providerName = "s3"

var errLongerThanDeclared = errors.New("stream is longer than its declared size")

// API is the subset of *s3.Client the store needs.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Options configures client initialization.
type Options struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// PublicURL is the delivery base, e.g. "https://media.example.com".
	// Defaults to the virtual-hosted bucket URL.
	PublicURL string
}

// Store implements mediax.ObjectStore on an S3 bucket.
type Store struct {
	client    API
	bucket    string
	publicURL string
	newKey    func() string
}

var _ mediax.ObjectStore = (*Store)(nil)

// New loads AWS configuration and builds a store. A custom endpoint switches
// to path-style addressing.
func New(ctx context.Context, opts Options) (*Store, error) {
	var cfgOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		cfgOpts = append(cfgOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" || opts.SecretKey != "" {
		cfgOpts = append(cfgOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("mediaxs3: load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := opts.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, cfg.Region)
	}

	return NewWithClient(client, opts.Bucket, publicURL), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client API, bucket, publicURL string) *Store {
	return &Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		newKey:    func() string { return uuid.NewString() },
	}
}

// Name implements mediax.ObjectStore.
func (s *Store) Name() string { return providerName }

// Upload implements mediax.ObjectStore. The object key is
// <folder>/<uuid><ext> and doubles as the public identifier.
func (s *Store) Upload(ctx context.Context, src mediax.UploadSource, opts mediax.UploadOptions) (mediax.StoredObjectReference, error) {
	var (
		body   io.Reader
		stream *exactReader
	)
	if src.Staged() {
		rc, err := src.Open(ctx)
		if err != nil {
			return mediax.StoredObjectReference{}, err
		}
		defer rc.Close()
		body = rc
	} else {
		if src.Size < 0 {
			return mediax.StoredObjectReference{}, mediax.NewStorageError(providerName, "content length is required for streamed uploads")
		}
		stream = &exactReader{r: src.Reader, remaining: src.Size}
		body = stream
	}

	key := s.objectKey(opts.Folder, src.Filename)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(src.Size),
	}
	if src.ContentType != "" {
		input.ContentType = aws.String(src.ContentType)
	}

	_, err := s.client.PutObject(ctx, input)
	if stream != nil && stream.err != nil {
		if err == nil {
			// The object may hold a truncated body.
			_ = s.Destroy(context.WithoutCancel(ctx), key)
		}
		if errors.Is(stream.err, errLongerThanDeclared) {
			return mediax.StoredObjectReference{}, mediax.NewStorageError(providerName, stream.err.Error())
		}
		return mediax.StoredObjectReference{}, fmt.Errorf("failed to read upload body: %w", stream.err)
	}
	if err != nil {
		return mediax.StoredObjectReference{}, fmt.Errorf("failed to upload object: %w", err)
	}

	return mediax.StoredObjectReference{
		PublicID:     key,
		SecureURL:    s.publicURL + "/" + key,
		ResourceType: resourceTypeFor(src.ContentType),
	}, nil
}

// Destroy implements mediax.ObjectStore.
func (s *Store) Destroy(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// URL implements mediax.ObjectStore. Objects are served as stored, so the
// resource type does not change the address.
func (s *Store) URL(publicID string, _ mediax.ResourceType) (string, error) {
	return s.publicURL + "/" + publicID, nil
}

func (s *Store) objectKey(folder, filename string) string {
	name := s.newKey() + strings.ToLower(path.Ext(filename))
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

func resourceTypeFor(contentType string) mediax.ResourceType {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return mediax.ResourceImage
	case strings.HasPrefix(contentType, "video/"):
		return mediax.ResourceVideo
	default:
		return mediax.ResourceRaw
	}
}

// exactReader yields exactly remaining bytes and fails when the underlying
// stream ends early or still has data once they are consumed.
type exactReader struct {
	r         io.Reader
	remaining int64
	err       error
}

func (e *exactReader) Read(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if e.remaining == 0 {
		return 0, e.checkDrained()
	}
	if int64(len(p)) > e.remaining {
		p = p[:e.remaining]
	}

	n, err := e.r.Read(p)
	e.remaining -= int64(n)
	switch {
	case errors.Is(err, io.EOF) && e.remaining > 0:
		e.err = io.ErrUnexpectedEOF
		return n, e.err
	case err != nil && !errors.Is(err, io.EOF):
		e.err = err
		return n, err
	case e.remaining == 0:
		if err := e.checkDrained(); !errors.Is(err, io.EOF) {
			return n, err
		}
		return n, io.EOF
	}
	return n, nil
}

func (e *exactReader) checkDrained() error {
	var one [1]byte
	for {
		n, err := e.r.Read(one[:])
		if n > 0 {
			e.err = errLongerThanDeclared
			return e.err
		}
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		if err != nil {
			e.err = err
			return err
		}
	}
}
