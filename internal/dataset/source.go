package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"vacciprofile/internal/blob"
)

// Bucket names of the four collections a catalogue is built from.
const (
	BucketManufacturers   = "manufacturers"
	BucketViruses         = "viruses"
	BucketVaccines        = "vaccines"
	BucketScientificNames = "scientificNames"
)

// Buckets lists every collection in load order.
func Buckets() []string {
	return []string{BucketManufacturers, BucketViruses, BucketVaccines, BucketScientificNames}
}

// ErrMissingBucket is wrapped by sources when a collection is absent.
var ErrMissingBucket = errors.New("dataset: bucket missing")

// Source fetches the raw JSON document of one collection.
type Source interface {
	Fetch(ctx context.Context, bucket string) ([]byte, error)
}

// Fingerprinter reports a value that changes whenever any collection does.
type Fingerprinter interface {
	Fingerprint(ctx context.Context) (string, error)
}

// BlobSource reads "<prefix><bucket>.json" objects from a blob reader.
type BlobSource struct {
	Reader blob.Reader
	Prefix string
}

// Key returns the object key holding bucket.
func (s BlobSource) Key(bucket string) string { return s.Prefix + bucket + ".json" }

// Fetch implements Source.
func (s BlobSource) Fetch(ctx context.Context, bucket string) ([]byte, error) {
	_, rc, err := s.Reader.Get(ctx, s.Key(bucket))
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", bucket, ErrMissingBucket)
		}
		return nil, fmt.Errorf("fetch %s: %w", bucket, err)
	}
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", bucket, err)
	}
	return b, nil
}

// Fingerprint joins the ETags of every collection object. Absent objects
// contribute "-".
func (s BlobSource) Fingerprint(ctx context.Context) (string, error) {
	parts := make([]string, 0, len(Buckets()))
	for _, b := range Buckets() {
		info, err := s.Reader.Head(ctx, s.Key(b))
		switch {
		case errors.Is(err, blob.ErrNotFound):
			parts = append(parts, "-")
		case err != nil:
			return "", fmt.Errorf("head %s: %w", b, err)
		default:
			parts = append(parts, info.ETag)
		}
	}
	return strings.Join(parts, "|"), nil
}
