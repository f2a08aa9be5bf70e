// Package mediax turns inbound files into durable objects in a remote store.
//
// Every Accept call runs Received → Validated → (Staged) → Stored, ending in
// Stored, Rejected or Failed. Validation happens before any byte is read.
// With the staged strategy a uniquely named local file is written, uploaded
// and then removed on every exit path before Accept returns; with the direct
// strategy the body is streamed to the store and nothing touches the disk.
package mediax

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// ResourceType is the provider's classification of a stored object.
type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceRaw   ResourceType = "raw"
	ResourceVideo ResourceType = "video"
	ResourceAuto  ResourceType = "auto"
)

// ParseResourceType maps a provider string onto a ResourceType, defaulting to auto.
func ParseResourceType(s string) ResourceType {
	switch ResourceType(strings.ToLower(s)) {
	case ResourceImage:
		return ResourceImage
	case ResourceRaw:
		return ResourceRaw
	case ResourceVideo:
		return ResourceVideo
	default:
		return ResourceAuto
	}
}

// UploadRequest is one inbound file. Size is the declared size in bytes;
// a negative value means unknown and is enforced while reading instead.
type UploadRequest struct {
	FieldName    string
	OriginalName string
	MimeType     string
	Size         int64
	Body         io.Reader
}

// Ext returns the lowercased extension of the original file name, dot included.
func (r UploadRequest) Ext() string {
	return strings.ToLower(filepath.Ext(r.OriginalName))
}

// StoredObjectReference addresses an object after a successful upload.
type StoredObjectReference struct {
	PublicID     string       `json:"public_id"`
	SecureURL    string       `json:"secure_url"`
	ResourceType ResourceType `json:"resource_type"`
}

// UploadSource is what a strategy hands to an ObjectStore: either a staged
// file (Path plus Open) or a live stream (Reader). Exactly one form is set.
type UploadSource struct {
	Path   string
	Open   func(ctx context.Context) (io.ReadCloser, error)
	Reader io.Reader

	Filename    string
	ContentType string
	Size        int64
}

// Staged reports whether the source is a local staging file.
func (s UploadSource) Staged() bool {
	return s.Path != ""
}

// UploadOptions are the hints every upload carries.
type UploadOptions struct {
	// Folder is the logical namespace the object is stored under.
	Folder string
	// ResourceType is requested from the store; auto lets it decide.
	ResourceType ResourceType
	// Optimize asks for automatic quality and format selection on delivery.
	Optimize bool
}

// ObjectStore is a remote object storage provider.
type ObjectStore interface {
	// Name identifies the provider in logs and error details.
	Name() string
	// Upload stores the source and returns its reference.
	Upload(ctx context.Context, src UploadSource, opts UploadOptions) (StoredObjectReference, error)
	// Destroy removes an object by public identifier.
	Destroy(ctx context.Context, publicID string) error
	// URL derives a delivery URL locally, without a network call.
	URL(publicID string, resourceType ResourceType) (string, error)
}
