package blob

import (
	"context"
	"fmt"

	fsstore "vacciprofile/internal/infra/blob/fs"
	memorystore "vacciprofile/internal/infra/blob/memory"
	s3store "vacciprofile/internal/infra/blob/s3"
)

// S3Config re-exports the infra S3 configuration type.
type S3Config = s3store.Config

// Options selects and configures a blob driver.
type Options struct {
	Driver  Driver
	Root    string            // fs driver
	S3      S3Config          // s3 driver
	Objects map[string][]byte // memory driver
}

// Open returns the Reader for opts.Driver, defaulting to the filesystem.
func Open(ctx context.Context, opts Options) (Reader, error) {
	switch opts.Driver {
	case "", DriverFilesystem:
		return NewFilesystem(opts.Root)
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverMemory:
		return NewMemory(opts.Objects), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", opts.Driver)
	}
}

// NewFilesystem constructs a reader over a local directory.
func NewFilesystem(root string) (Reader, error) {
	s, err := fsstore.New(root)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewS3 constructs an S3-backed reader.
func NewS3(ctx context.Context, cfg S3Config) (Reader, error) {
	s, err := s3store.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemory returns a reader serving the given objects.
func NewMemory(objects map[string][]byte) Reader { return memorystore.New(objects) }

// LocalRoot reports the directory behind a filesystem reader, for callers
// that watch it for changes.
func LocalRoot(r Reader) (string, bool) {
	fsr, ok := r.(interface{ Root() string })
	if !ok {
		return "", false
	}
	return fsr.Root(), true
}
