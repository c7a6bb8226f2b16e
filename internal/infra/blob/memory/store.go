// Package memory implements a read-only blob Reader over objects held in
// process memory.
package memory

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"vacciprofile/internal/blob/core"
)

type blobEntry struct {
	info core.Info
	data []byte
}

// Store implements core.Reader. Its contents are fixed at construction.
type Store struct {
	objs map[string]blobEntry
}

// New returns a store serving a copy of objects.
func New(objects map[string][]byte) *Store {
	now := time.Now().UTC()
	s := &Store{objs: make(map[string]blobEntry, len(objects))}
	for k, v := range objects {
		data := append([]byte(nil), v...)
		sum := sha256.Sum256(data)
		s.objs[k] = blobEntry{
			info: core.Info{Key: k, Size: int64(len(data)), ContentType: "application/json", ETag: hex.EncodeToString(sum[:]), LastModified: now},
			data: data,
		}
	}
	return s
}

// Driver returns the blob driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Get returns blob metadata and a reader over a copy of its content.
func (s *Store) Get(_ context.Context, key string) (core.Info, io.ReadCloser, error) {
	obj, ok := s.objs[key]
	if !ok {
		return core.Info{}, nil, fmt.Errorf("blob %s: %w", key, core.ErrNotFound)
	}
	dataCopy := append([]byte(nil), obj.data...)
	return obj.info, io.NopCloser(bytes.NewReader(dataCopy)), nil
}

// Head returns blob metadata only.
func (s *Store) Head(_ context.Context, key string) (core.Info, error) {
	obj, ok := s.objs[key]
	if !ok {
		return core.Info{}, fmt.Errorf("blob %s: %w", key, core.ErrNotFound)
	}
	return obj.info, nil
}

// List returns all blobs matching prefix, sorted by key.
func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	out := make([]core.Info, 0, len(s.objs))
	for k, v := range s.objs {
		if strings.HasPrefix(k, prefix) {
			out = append(out, v.info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
