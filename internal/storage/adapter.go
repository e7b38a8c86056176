package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxNameAttempts bounds the counter suffixes tried before falling back to a random one.
const maxNameAttempts = 100

// Adapter implements Storage on top of any Backend.
// It is safe for concurrent use when the backend is.
type Adapter struct {
	backend Backend
	now     func() time.Time
}

var _ Storage = (*Adapter)(nil)

// NewAdapter wraps backend with the uniform storage contract.
func NewAdapter(backend Backend) *Adapter {
	return &Adapter{backend: backend, now: time.Now}
}

// Save uploads r under name and returns the key it was stored as.
func (a *Adapter) Save(ctx context.Context, name string, r io.Reader, opt PutObjectOptions) (string, error) {
	if r == nil {
		return "", fmt.Errorf("save %q: reader is nil", name)
	}
	key := NormalizeName(name)
	info, err := a.backend.Put(ctx, key, r, opt)
	if err != nil {
		return "", fmt.Errorf("save %q: %w", key, err)
	}
	if info.Key != "" {
		return info.Key, nil
	}
	return key, nil
}

// AvailableName keeps name when nothing is stored under it. Otherwise the unix
// timestamp is appended to the base name, before the extension, followed by a
// counter while the candidate is still taken. Lengths are counted in characters;
// when maxLength is positive the base is trimmed so the suffix and extension fit.
func (a *Adapter) AvailableName(ctx context.Context, name string, maxLength int) string {
	key := truncateName(NormalizeName(name), maxLength)
	if !a.Exists(ctx, key) {
		return key
	}

	ext := path.Ext(key)
	base := strings.TrimSuffix(key, ext)
	ts := a.now().Unix()
	for i := 0; i < maxNameAttempts; i++ {
		suffix := fmt.Sprintf("_%d", ts)
		if i > 0 {
			suffix = fmt.Sprintf("_%d_%d", ts, i)
		}
		candidate := fitName(base, suffix+ext, maxLength)
		if !a.Exists(ctx, candidate) {
			return candidate
		}
	}
	return fitName(base, "_"+uuid.NewString()[:8]+ext, maxLength)
}

// Open streams the object stored under name.
func (a *Adapter) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	rc, _, err := a.backend.Get(ctx, NormalizeName(name))
	if err != nil {
		return nil, err
	}
	return rc, nil
}

// Delete removes the object stored under name.
func (a *Adapter) Delete(ctx context.Context, name string) error {
	key := NormalizeName(name)
	if err := a.backend.Remove(ctx, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Exists reports whether name is stored. Backend errors read as false.
func (a *Adapter) Exists(ctx context.Context, name string) bool {
	_, err := a.backend.Stat(ctx, NormalizeName(name))
	return err == nil
}

// URL is the public address of name. It never calls the backend.
func (a *Adapter) URL(name string) string {
	return a.backend.PublicURL(NormalizeName(name))
}

// Size is the stored byte size of name, or 0 on any backend error.
func (a *Adapter) Size(ctx context.Context, name string) int64 {
	info, err := a.backend.Stat(ctx, NormalizeName(name))
	if err != nil {
		return 0
	}
	return info.Size
}

// Stat returns the backend metadata of name.
func (a *Adapter) Stat(ctx context.Context, name string) (ObjectInfo, error) {
	return a.backend.Stat(ctx, NormalizeName(name))
}

func truncateName(key string, maxLength int) string {
	r := []rune(key)
	if maxLength <= 0 || len(r) <= maxLength {
		return key
	}
	ext := []rune(path.Ext(key))
	if len(ext) >= maxLength {
		return string(r[:maxLength])
	}
	return string(r[:maxLength-len(ext)]) + string(ext)
}

// fitName joins base and tail, trimming base so the result has at most maxLength characters.
func fitName(base, tail string, maxLength int) string {
	if maxLength <= 0 {
		return base + tail
	}
	b, t := []rune(base), []rune(tail)
	if len(t) >= maxLength {
		return string(t[len(t)-maxLength:])
	}
	if keep := maxLength - len(t); len(b) > keep {
		b = b[:keep]
	}
	return string(b) + tail
}
