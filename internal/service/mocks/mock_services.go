package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"justifacil/internal/model"
	"justifacil/internal/service"
)

type MockJustificationService struct {
	mock.Mock
}

var _ service.JustificationService = (*MockJustificationService)(nil)

func (m *MockJustificationService) Create(ctx context.Context, actor *model.User, in service.CreateInput) (*model.Justification, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Justification), args.Error(1)
}

func (m *MockJustificationService) ExternalCreate(ctx context.Context, in service.ExternalInput) (*model.Justification, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Justification), args.Error(1)
}

func (m *MockJustificationService) Approve(ctx context.Context, actor *model.User, id int64, comment string) (*model.Justification, error) {
	args := m.Called(ctx, actor, id, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Justification), args.Error(1)
}

func (m *MockJustificationService) Reject(ctx context.Context, actor *model.User, id int64, comment string) (*model.Justification, error) {
	args := m.Called(ctx, actor, id, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Justification), args.Error(1)
}

func (m *MockJustificationService) Get(ctx context.Context, actor *model.User, id int64) (*model.Justification, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Justification), args.Error(1)
}

func (m *MockJustificationService) ListOwn(ctx context.Context, actor *model.User) ([]model.Justification, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Justification), args.Error(1)
}

func (m *MockJustificationService) ListVisible(ctx context.Context, actor *model.User, limit, offset int) (*service.JustificationListResult, error) {
	args := m.Called(ctx, actor, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.JustificationListResult), args.Error(1)
}

func (m *MockJustificationService) ListPending(ctx context.Context, actor *model.User) ([]model.Justification, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Justification), args.Error(1)
}

func (m *MockJustificationService) ListForProfessor(ctx context.Context, actor *model.User, q string) ([]model.Justification, error) {
	args := m.Called(ctx, actor, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Justification), args.Error(1)
}

func (m *MockJustificationService) OpenDocument(ctx context.Context, actor *model.User, documentID int64) (io.ReadCloser, *model.Document, error) {
	args := m.Called(ctx, actor, documentID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.Document), args.Error(2)
}

type MockUserService struct {
	mock.Mock
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockUserService) Get(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}
