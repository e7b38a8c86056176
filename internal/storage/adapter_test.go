package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBackend keeps objects in memory and can be told to fail every call.
type memBackend struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    error
	keys    []string
}

func newMemBackend() *memBackend {
	return &memBackend{objects: map[string][]byte{}}
}

func (m *memBackend) record(key string) {
	m.keys = append(m.keys, key)
}

func (m *memBackend) Put(_ context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(key)
	if m.fail != nil {
		return ObjectInfo{}, m.fail
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return ObjectInfo{}, err
	}
	m.objects[key] = b
	return ObjectInfo{Key: key, Size: int64(len(b)), ContentType: opt.ContentType}, nil
}

func (m *memBackend) Get(_ context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(key)
	if m.fail != nil {
		return nil, ObjectInfo{}, m.fail
	}
	b, ok := m.objects[key]
	if !ok {
		return nil, ObjectInfo{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(b)), ObjectInfo{Key: key, Size: int64(len(b))}, nil
}

func (m *memBackend) Stat(_ context.Context, key string) (ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(key)
	if m.fail != nil {
		return ObjectInfo{}, m.fail
	}
	b, ok := m.objects[key]
	if !ok {
		return ObjectInfo{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return ObjectInfo{Key: key, Size: int64(len(b))}, nil
}

func (m *memBackend) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(key)
	if m.fail != nil {
		return m.fail
	}
	delete(m.objects, key)
	return nil
}

func (m *memBackend) PublicURL(key string) string {
	return "https://cdn.example.com/Documentos/" + key
}

func newTestAdapter(b Backend) *Adapter {
	a := NewAdapter(b)
	a.now = func() time.Time { return time.Unix(1736500000, 0) }
	return a
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		`documentos\informe.pdf`:  "documentos/informe.pdf",
		"/documentos/informe.pdf": "documentos/informe.pdf",
		`\\a\b.png`:               "a/b.png",
		"plain.pdf":               "plain.pdf",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeName(in), in)
	}
}

func TestAdapter_SaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	b := newMemBackend()
	a := newTestAdapter(b)

	name, err := a.Save(ctx, `/documentos\cert.pdf`, strings.NewReader("%PDF-1.4\n"), PutObjectOptions{Size: 9})
	require.NoError(t, err)
	assert.Equal(t, "documentos/cert.pdf", name)

	assert.True(t, a.Exists(ctx, name))
	assert.Equal(t, int64(9), a.Size(ctx, name))

	rc, err := a.Open(ctx, name)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "%PDF-1.4\n", string(data))

	require.NoError(t, a.Delete(ctx, name))
	assert.False(t, a.Exists(ctx, name))

	_, err = a.Open(ctx, name)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAdapter_SaveNilReader(t *testing.T) {
	_, err := newTestAdapter(newMemBackend()).Save(context.Background(), "x.pdf", nil, PutObjectOptions{})
	assert.Error(t, err)
}

func TestAdapter_AvailableName(t *testing.T) {
	ctx := context.Background()
	b := newMemBackend()
	a := newTestAdapter(b)

	t.Run("free name unchanged", func(t *testing.T) {
		assert.Equal(t, "documentos/cert.pdf", a.AvailableName(ctx, "documentos/cert.pdf", 100))
	})

	t.Run("taken name gets timestamp", func(t *testing.T) {
		b.objects["documentos/cert.pdf"] = []byte("x")
		assert.Equal(t, "documentos/cert_1736500000.pdf", a.AvailableName(ctx, "documentos/cert.pdf", 100))
	})

	t.Run("truncated keeps extension", func(t *testing.T) {
		long := "documentos/" + strings.Repeat("a", 120) + ".pdf"
		got := a.AvailableName(ctx, long, 100)
		assert.Len(t, got, 100)
		assert.True(t, strings.HasSuffix(got, ".pdf"))
	})

	t.Run("no limit", func(t *testing.T) {
		long := strings.Repeat("b", 150) + ".png"
		assert.Equal(t, long, a.AvailableName(ctx, long, 0))
	})

	t.Run("taken name at max length keeps timestamp", func(t *testing.T) {
		full := "documentos/" + strings.Repeat("a", 85) + ".pdf"
		require.Len(t, full, 100)
		b.objects[full] = []byte("x")

		got := a.AvailableName(ctx, full, 100)
		assert.NotEqual(t, full, got)
		assert.Len(t, got, 100)
		assert.True(t, strings.HasSuffix(got, "_1736500000.pdf"))
		assert.False(t, a.Exists(ctx, got))
	})

	t.Run("same second uploads get a counter", func(t *testing.T) {
		b.objects["documentos/acta.pdf"] = []byte("x")
		b.objects["documentos/acta_1736500000.pdf"] = []byte("x")
		b.objects["documentos/acta_1736500000_1.pdf"] = []byte("x")
		assert.Equal(t, "documentos/acta_1736500000_2.pdf", a.AvailableName(ctx, "documentos/acta.pdf", 100))
	})

	t.Run("accented name under limit is untouched", func(t *testing.T) {
		name := "documentos/" + strings.Repeat("ó", 60) + ".pdf"
		got := a.AvailableName(ctx, name, 100)
		assert.Equal(t, name, got)
		assert.True(t, utf8.ValidString(got))
	})

	t.Run("accented name is cut on characters", func(t *testing.T) {
		name := "documentos/" + strings.Repeat("ñ", 120) + ".png"
		got := a.AvailableName(ctx, name, 100)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, 100, utf8.RuneCountInString(got))
		assert.True(t, strings.HasSuffix(got, "ñ.png"))
	})

	t.Run("taken accented name at max length", func(t *testing.T) {
		full := "documentos/" + strings.Repeat("é", 85) + ".pdf"
		b.objects[full] = []byte("x")

		got := a.AvailableName(ctx, full, 100)
		assert.NotEqual(t, full, got)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, 100, utf8.RuneCountInString(got))
		assert.True(t, strings.HasSuffix(got, "é_1736500000.pdf"))
	})
}

func TestTruncateName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short", in: "a.pdf", max: 10, want: "a.pdf"},
		{name: "ascii", in: "abcdefgh.pdf", max: 8, want: "abcd.pdf"},
		{name: "multibyte", in: "ááááá.pdf", max: 7, want: "ááá.pdf"},
		{name: "extension longer than limit", in: "a.verylongext", max: 4, want: "a.ve"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateName(tt.in, tt.max))
		})
	}
}

func TestAdapter_ExistsAndSizeNeverFail(t *testing.T) {
	ctx := context.Background()
	b := newMemBackend()
	b.objects["documentos/a.pdf"] = []byte("123")
	b.fail = errors.New("connection reset")
	a := newTestAdapter(b)

	assert.False(t, a.Exists(ctx, "documentos/a.pdf"))
	assert.Equal(t, int64(0), a.Size(ctx, "documentos/a.pdf"))

	_, err := a.Stat(ctx, "documentos/a.pdf")
	assert.EqualError(t, err, "connection reset")
}

func TestAdapter_FailuresPropagate(t *testing.T) {
	ctx := context.Background()
	b := newMemBackend()
	b.fail = errors.New("boom")
	a := newTestAdapter(b)

	_, err := a.Save(ctx, "x.pdf", strings.NewReader("x"), PutObjectOptions{})
	assert.ErrorContains(t, err, "boom")
	assert.ErrorContains(t, a.Delete(ctx, "x.pdf"), "boom")
}

func TestAdapter_URLNormalisesWithoutNetwork(t *testing.T) {
	b := newMemBackend()
	a := newTestAdapter(b)

	assert.Equal(t, "https://cdn.example.com/Documentos/documentos/a.pdf", a.URL(`\documentos\a.pdf`))
	assert.Empty(t, b.keys)
}
