package storage

import (
	"context"
	"fmt"
	"strings"

	"justifacil/internal/config"
)

// Backend names accepted by STORAGE_BACKEND.
const (
	BackendMinIO    = "minio"
	BackendSupabase = "supabase"
	BackendS3       = "s3"
)

// New builds the configured backend and wraps it in an Adapter.
func New(ctx context.Context, cfg *config.AppConfig) (*Adapter, error) {
	var (
		b   Backend
		err error
	)
	switch strings.ToLower(cfg.Storage.Backend) {
	case BackendMinIO:
		b, err = NewMinIO(ctx, cfg.MinIO)
	case BackendSupabase:
		b, err = NewSupabase(cfg.Supabase, nil)
	case BackendS3:
		b, err = NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s storage: %w", cfg.Storage.Backend, err)
	}
	return NewAdapter(b), nil
}
