// Package blob re-exports the core blob abstractions and constructs the
// infra-backed readers. Other packages depend on blob.Reader rather than on
// the infra implementations.
package blob

import (
	"vacciprofile/internal/blob/core"
)

type (
	// Driver identifies a blob backend driver.
	Driver = core.Driver
	// Info describes stored blob metadata.
	Info = core.Info
	// Reader is the read-only blob interface.
	Reader = core.Reader
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory driver.
	DriverMemory = core.DriverMemory
)

// ErrNotFound is wrapped by readers when a key does not exist.
var ErrNotFound = core.ErrNotFound
