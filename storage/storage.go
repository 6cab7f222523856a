// Package storage uploads and deletes the binary assets (images, PDFs)
// referenced from project and education records.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
)

// Kind is the resource class of an asset. Images are size checked; raw
// assets are stored as given.
type Kind string

const (
	KindImage Kind = "image"
	KindRaw   Kind = "raw"
)

// MaxImageBytes is the ceiling for an image after normalization.
const MaxImageBytes = 4 << 20

// ErrAssetNotFound is reported alongside ErrDeleteFailed when the asset to
// delete is already gone.
var ErrAssetNotFound = errors.New("asset not found")

type UploadOptions struct {
	// Overwrite replaces an existing asset at the same target in place.
	// Without it an upload to an occupied target fails.
	Overwrite   bool
	Kind        Kind
	ContentType string
}

// Asset identifies an uploaded object. AssetID is what Delete expects.
type Asset struct {
	URL     string `json:"secureUrl"`
	AssetID string `json:"assetId"`
}

// Client is the object storage boundary. Implementations never retry.
type Client interface {
	Upload(ctx context.Context, data []byte, targetID string, opts UploadOptions) (Asset, error)
	Delete(ctx context.Context, assetID string, kind Kind) error
}

func (k Kind) Valid() bool {
	return k == KindImage || k == KindRaw
}

// validateUpload runs the checks that happen before any network I/O.
func validateUpload(data []byte, targetID string, opts UploadOptions) error {
	if strings.Trim(targetID, "/") == "" {
		return fmt.Errorf("%w: target id is required", errs.ErrValidation)
	}
	if !opts.Kind.Valid() {
		return fmt.Errorf("%w: unknown resource kind %q", errs.ErrValidation, opts.Kind)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty upload", errs.ErrValidation)
	}
	if opts.Kind == KindImage && len(data) > MaxImageBytes {
		return fmt.Errorf("%w: image is %d bytes, limit is %d", errs.ErrPayloadTooLarge, len(data), MaxImageBytes)
	}
	return nil
}

// objectKey namespaces an asset by its kind.
func objectKey(kind Kind, assetID string) string {
	return string(kind) + "/" + strings.Trim(assetID, "/")
}

func contentType(opts UploadOptions) string {
	if opts.ContentType != "" {
		return opts.ContentType
	}
	if opts.Kind == KindImage {
		return "image/jpeg"
	}
	return "application/octet-stream"
}

// publicURL joins base and key, escaping each key segment.
func publicURL(base, key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}

func uploadFailed(targetID string, err error) error {
	return fmt.Errorf("%w: %s: %w", errs.ErrUploadFailed, targetID, err)
}

func deleteFailed(assetID string, err error) error {
	return fmt.Errorf("%w: %s: %w", errs.ErrDeleteFailed, assetID, err)
}
