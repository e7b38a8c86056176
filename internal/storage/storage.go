// Package storage persists document files in a remote bucket.
// Backends stream bytes over the network and never touch local disk.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// ErrNotFound is returned by backends when the requested object does not exist.
var ErrNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, -1 otherwise.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Backend is the raw, error-returning contract each remote bucket implementation satisfies.
// Keys passed in are already normalised.
type Backend interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Stat returns ErrNotFound when the key is absent; any other error is a transport error.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	Remove(ctx context.Context, key string) error
	// PublicURL builds the public-read address of key without contacting the backend.
	PublicURL(key string) string
}

// Storage is the contract the workflow layer depends on. It is identical for every backend.
type Storage interface {
	// Save persists r under name and returns the name it was stored under.
	Save(ctx context.Context, name string, r io.Reader, opt PutObjectOptions) (string, error)
	// AvailableName returns name unchanged when free, or a free timestamped variant otherwise.
	AvailableName(ctx context.Context, name string, maxLength int) string
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	// Exists never fails; any backend error reads as false.
	Exists(ctx context.Context, name string) bool
	URL(name string) string
	// Size never fails; any backend error reads as 0.
	Size(ctx context.Context, name string) int64
	Stat(ctx context.Context, name string) (ObjectInfo, error)
}

// NormalizeName converts a logical name into a bucket key: backslashes become
// forward slashes and leading slashes are dropped.
func NormalizeName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	return strings.TrimLeft(name, "/")
}
