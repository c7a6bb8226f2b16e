// Package core defines the read-only blob abstractions that dataset sources
// are served from.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a concrete blob backend implementation.
type Driver string

const (
	// DriverFilesystem reads objects from a local directory.
	DriverFilesystem Driver = "fs"
	// DriverS3 reads objects from an S3 / MinIO compatible bucket.
	DriverS3 Driver = "s3"
	// DriverMemory serves objects held in process memory (tests, demo data).
	DriverMemory Driver = "memory"
)

// Info describes a stored blob.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Reader is the read-only S3-like surface dataset loading needs.
type Reader interface {
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

// ErrNotFound is wrapped by every driver when a key does not exist.
var ErrNotFound = errors.New("blobstore: object not found")
