package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"justifacil/internal/config"
)

// fakeS3 implements the calls a single-part upload and the read paths make.
// Multipart calls are left to the embedded nil interface and would panic.
type fakeS3 struct {
	s3API
	objects map[string][]byte
	headErr error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{ETag: aws.String(`"etag-1"`)}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(string(b))),
		ContentLength: aws.Int64(int64(len(b))),
	}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(b)))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Backend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	a := NewAdapter(newS3Backend(fake, config.S3Config{Bucket: "Documentos", Region: "us-east-1"}))

	name, err := a.Save(ctx, "documentos/cert.pdf", strings.NewReader("%PDF-1.4\n"), PutObjectOptions{Size: 9, ContentType: "application/pdf"})
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
	_, err = a.Open(ctx, name)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = a.Stat(ctx, name)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestS3Backend_TransportErrorIsNotNotFound(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, headErr: errors.New("dial tcp: timeout")}
	a := NewAdapter(newS3Backend(fake, config.S3Config{Bucket: "Documentos"}))

	_, err := a.Stat(context.Background(), "x.pdf")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.False(t, a.Exists(context.Background(), "x.pdf"))
}

func TestS3BaseURL(t *testing.T) {
	assert.Equal(t, "https://Documentos.s3.eu-west-1.amazonaws.com",
		s3BaseURL(config.S3Config{Bucket: "Documentos", Region: "eu-west-1"}))
	assert.Equal(t, "http://localhost:9000/Documentos",
		s3BaseURL(config.S3Config{Bucket: "Documentos", Endpoint: "http://localhost:9000/"}))
	assert.Equal(t, "https://cdn.example.com",
		s3BaseURL(config.S3Config{Bucket: "Documentos", PublicBaseURL: "https://cdn.example.com/"}))
}

func TestMinioBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000", minioBaseURL(config.MinIOConfig{Endpoint: "localhost:9000"}))
	assert.Equal(t, "https://s3.example.com", minioBaseURL(config.MinIOConfig{Endpoint: "s3.example.com", UseSSL: true}))
	assert.Equal(t, "https://abc.supabase.co/storage/v1/s3",
		minioBaseURL(config.MinIOConfig{Endpoint: "abc.supabase.co", PublicBaseURL: "https://abc.supabase.co/storage/v1/s3/"}))

	m := &minioBackend{bucket: "Documentos", baseURL: "http://localhost:9000"}
	assert.Equal(t, "http://localhost:9000/Documentos/documentos/a%20b.pdf", m.PublicURL("documentos/a b.pdf"))
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := &config.AppConfig{Storage: config.StorageConfig{Backend: "ftp"}}
	_, err := New(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestNew_Supabase(t *testing.T) {
	cfg := &config.AppConfig{
		Storage:  config.StorageConfig{Backend: "Supabase"},
		Supabase: config.SupabaseConfig{URL: "https://abc.supabase.co", Key: "k", Bucket: "Documentos"},
	}
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://abc.supabase.co/storage/v1/object/public/Documentos/x.pdf", a.URL("x.pdf"))
}
