package mediax

import (
	"mime"
	"strings"
)

// AllowedMimeTypes is the allow-set for inbound files.
var AllowedMimeTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
}

// Policy decides whether an upload may enter the pipeline.
type Policy struct {
	allowed  map[string]struct{}
	maxBytes int64
}

// NewPolicy builds a policy from an allow-set and a size ceiling in bytes.
func NewPolicy(allowed []string, maxBytes int64) Policy {
	p := Policy{
		allowed:  make(map[string]struct{}, len(allowed)),
		maxBytes: maxBytes,
	}
	for _, m := range allowed {
		p.allowed[strings.ToLower(m)] = struct{}{}
	}
	return p
}

// MaxBytes returns the size ceiling.
func (p Policy) MaxBytes() int64 {
	return p.maxBytes
}

// Validate checks the declared MIME type and size. It never reads the body.
func (p Policy) Validate(req UploadRequest) error {
	mt := normalizeMimeType(req.MimeType)
	if _, ok := p.allowed[mt]; !ok {
		return mediaxErrors.New(ErrUnsupportedMedia).
			WithDetail("mime_type", req.MimeType).
			WithDetail("field", req.FieldName)
	}

	if p.maxBytes > 0 && req.Size > p.maxBytes {
		return mediaxErrors.New(ErrPayloadTooLarge).
			WithDetail("size", req.Size).
			WithDetail("max_bytes", p.maxBytes)
	}

	return nil
}

// normalizeMimeType lowercases the media type and drops parameters
// such as "; charset=binary".
func normalizeMimeType(s string) string {
	mt, _, err := mime.ParseMediaType(s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return mt
}
