package mediax

import (
	"errors"

	"github.com/jamalpur-chamber/outbound/pkg/errx"
)

var mediaxErrors = errx.NewRegistry("MEDIAX")

var (
	ErrServiceUnavailable = mediaxErrors.Register("SERVICE_UNAVAILABLE", errx.TypeUnavailable, 503, "Media storage is not configured")
	ErrUnsupportedMedia   = mediaxErrors.Register("UNSUPPORTED_MEDIA", errx.TypeValidation, 415, "Only PDF and image files are allowed")
	ErrPayloadTooLarge    = mediaxErrors.Register("PAYLOAD_TOO_LARGE", errx.TypeValidation, 413, "File exceeds the upload size limit")
	ErrStorageFailed      = mediaxErrors.Register("STORAGE_FAILED", errx.TypeExternal, 502, "Object store rejected the upload")
	ErrLocalIOFailed      = mediaxErrors.Register("LOCAL_IO_FAILED", errx.TypeInternal, 500, "Failed to stage the upload on local disk")
	ErrEmptyBody          = mediaxErrors.Register("EMPTY_BODY", errx.TypeValidation, 400, "Upload has no content")
	ErrInvalidStrategy    = mediaxErrors.Register("INVALID_STRATEGY", errx.TypeInternal, 500, "Unknown upload strategy")
)

// errBodyTooLarge is raised by the size-capping reader once the body
// exceeds the ceiling; strategies translate it into ErrPayloadTooLarge.
var errBodyTooLarge = errors.New("mediax: body exceeds size limit")

// storageError wraps an object store failure, keeping codes the store
// already attached.
func storageError(err error, provider string) error {
	if errx.IsCode(err, ErrStorageFailed) {
		return err
	}
	return mediaxErrors.NewWithCause(ErrStorageFailed, err).WithDetail("provider", provider)
}

// NewStorageError lets ObjectStore implementations report provider-side
// rejections that came back without a transport error.
func NewStorageError(provider, message string) *errx.Error {
	return mediaxErrors.NewWithCause(ErrStorageFailed, errors.New(message)).WithDetail("provider", provider)
}

// WrapStorageError marks a client failure as a storage failure for provider.
func WrapStorageError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return storageError(err, provider)
}
