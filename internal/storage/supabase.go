package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"justifacil/internal/config"
)

// supabaseBackend is a plain REST client for the Supabase Storage object API.
type supabaseBackend struct {
	httpClient *http.Client
	baseURL    string // {project url}/storage/v1
	key        string
	bucket     string
}

var _ Backend = (*supabaseBackend)(nil)

// NewSupabase creates a REST backend. A nil client gets an otelhttp-instrumented default.
func NewSupabase(cfg config.SupabaseConfig, client *http.Client) (Backend, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("supabase key is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("supabase bucket is required")
	}
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &supabaseBackend{
		httpClient: client,
		baseURL:    strings.TrimRight(cfg.URL, "/") + "/storage/v1",
		key:        cfg.Key,
		bucket:     cfg.Bucket,
	}, nil
}

func (s *supabaseBackend) objectURL(key string) string {
	return s.baseURL + "/object/" + url.PathEscape(s.bucket) + "/" + escapeKey(key)
}

func (s *supabaseBackend) newRequest(ctx context.Context, method, key string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.objectURL(key), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("apikey", s.key)
	return req, nil
}

func (s *supabaseBackend) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	req, err := s.newRequest(ctx, http.MethodPost, key, r)
	if err != nil {
		return ObjectInfo{}, err
	}
	if opt.ContentType != "" {
		req.Header.Set("Content-Type", opt.ContentType)
	}
	if opt.Size >= 0 {
		req.ContentLength = opt.Size
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return ObjectInfo{}, fmt.Errorf("upload failed: status %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}
	return ObjectInfo{
		Key:          key,
		Size:         opt.Size,
		ContentType:  opt.ContentType,
		LastModified: time.Now(),
		Metadata:     opt.Metadata,
	}, nil
}

func (s *supabaseBackend) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	req, err := s.newRequest(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("download: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, ObjectInfo{}, statusErr(resp, key)
	}
	return resp.Body, infoFromHeaders(key, resp), nil
}

func (s *supabaseBackend) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	req, err := s.newRequest(ctx, http.MethodHead, key, nil)
	if err != nil {
		return ObjectInfo{}, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("head: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ObjectInfo{}, statusErr(resp, key)
	}
	return infoFromHeaders(key, resp), nil
}

func (s *supabaseBackend) Remove(ctx context.Context, key string) error {
	req, err := s.newRequest(ctx, http.MethodDelete, key, nil)
	if err != nil {
		return err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete failed: status %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}
	return nil
}

func (s *supabaseBackend) PublicURL(key string) string {
	return s.baseURL + "/object/public/" + url.PathEscape(s.bucket) + "/" + escapeKey(key)
}

// statusErr maps a non-200 answer. Supabase reports a missing object either as 404
// or as 400 with a "not found" body.
func statusErr(resp *http.Response, key string) error {
	body := readSnippet(resp.Body)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	case resp.StatusCode == http.StatusBadRequest && strings.Contains(strings.ToLower(body), "not found"):
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	case resp.StatusCode == http.StatusBadRequest && resp.Request != nil && resp.Request.Method == http.MethodHead:
		// HEAD answers carry no body to inspect.
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}
}

func infoFromHeaders(key string, resp *http.Response) ObjectInfo {
	info := ObjectInfo{
		Key:         key,
		Size:        resp.ContentLength,
		ETag:        strings.Trim(resp.Header.Get("ETag"), `"`),
		ContentType: resp.Header.Get("Content-Type"),
	}
	if info.Size < 0 {
		info.Size, _ = strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	}
	if lm, err := http.ParseTime(resp.Header.Get("Last-Modified")); err == nil {
		info.LastModified = lm
	}
	return info
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}
