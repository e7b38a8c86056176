package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"justifacil/internal/storage"
)

type MockStorage struct {
	mock.Mock
}

var _ storage.Storage = (*MockStorage)(nil)

func (m *MockStorage) Save(ctx context.Context, name string, r io.Reader, opt storage.PutObjectOptions) (string, error) {
	args := m.Called(ctx, name, r, opt)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) AvailableName(ctx context.Context, name string, maxLength int) string {
	args := m.Called(ctx, name, maxLength)
	return args.String(0)
}

func (m *MockStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockStorage) Exists(ctx context.Context, name string) bool {
	args := m.Called(ctx, name)
	return args.Bool(0)
}

func (m *MockStorage) URL(name string) string {
	args := m.Called(name)
	return args.String(0)
}

func (m *MockStorage) Size(ctx context.Context, name string) int64 {
	args := m.Called(ctx, name)
	return args.Get(0).(int64)
}

func (m *MockStorage) Stat(ctx context.Context, name string) (storage.ObjectInfo, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}

// MockBackend mocks the raw backend contract.
type MockBackend struct {
	mock.Mock
}

var _ storage.Backend = (*MockBackend)(nil)

func (m *MockBackend) Put(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	args := m.Called(ctx, key, r, opt)
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}

func (m *MockBackend) Get(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.ObjectInfo), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockBackend) Stat(ctx context.Context, key string) (storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}

func (m *MockBackend) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockBackend) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}
