package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"justifacil/internal/auth"
	"justifacil/internal/model"
	repoMocks "justifacil/internal/repository/mocks"
)

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	tokens, err := auth.NewTokenManager("secret", time.Hour)
	require.NoError(t, err)
	hash, err := auth.HashPassword("estudiante123")
	require.NoError(t, err)

	active := &model.User{ID: 4, Username: "estudiante1", PasswordHash: hash, Role: model.RoleStudent, IsActive: true}
	inactive := &model.User{ID: 6, Username: "baja", PasswordHash: hash, Role: model.RoleStudent}

	tests := []struct {
		name     string
		username string
		password string
		setup    func(m *repoMocks.MockUserRepository)
		wantErr  error
	}{
		{
			name:     "valid credentials",
			username: "estudiante1",
			password: "estudiante123",
			setup: func(m *repoMocks.MockUserRepository) {
				m.On("FindByUsername", ctx, "estudiante1").Return(active, nil)
			},
		},
		{
			name:     "wrong password",
			username: "estudiante1",
			password: "nope",
			setup: func(m *repoMocks.MockUserRepository) {
				m.On("FindByUsername", ctx, "estudiante1").Return(active, nil)
			},
			wantErr: model.ErrInvalidCredential,
		},
		{
			name:     "unknown user",
			username: "nadie",
			password: "x",
			setup: func(m *repoMocks.MockUserRepository) {
				m.On("FindByUsername", ctx, "nadie").Return(nil, model.ErrNotFound)
			},
			wantErr: model.ErrInvalidCredential,
		},
		{
			name:     "inactive account",
			username: "baja",
			password: "estudiante123",
			setup: func(m *repoMocks.MockUserRepository) {
				m.On("FindByUsername", ctx, "baja").Return(inactive, nil)
			},
			wantErr: model.ErrInvalidCredential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repoMocks.MockUserRepository)
			tt.setup(repo)
			svc := NewUserService(repo, tokens, nil)

			u, token, err := svc.Login(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(4), u.ID)
			claims, err := tokens.Parse(token)
			require.NoError(t, err)
			id, _ := claims.UserID()
			assert.Equal(t, int64(4), id)
			assert.Equal(t, model.RoleStudent, claims.Role)
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_ListByRole(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockUserRepository)
	svc := NewUserService(repo, nil, nil)

	repo.On("ListByRole", ctx, model.RoleProfessor).Return([]model.User{{ID: 3, Username: "profesor1"}}, nil)
	users, err := svc.ListByRole(ctx, model.RoleProfessor)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = svc.ListByRole(ctx, model.Role("DIRECTOR"))
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields["rol"], "DIRECTOR")
	repo.AssertExpectations(t)
}
