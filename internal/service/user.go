package service

import (
	"context"
	"errors"
	"log/slog"

	"justifacil/internal/auth"
	"justifacil/internal/model"
	"justifacil/internal/repository"
)

// UserService covers login and the read-only role views.
type UserService interface {
	// Login checks credentials and returns the user with a signed session token.
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
}

type userService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, tokens *auth.TokenManager, logger *slog.Logger) UserService {
	if logger == nil {
		logger = discardLogger()
	}
	return &userService{users: users, tokens: tokens, logger: logger}
}

func (s *userService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, "", model.ErrInvalidCredential
		}
		return nil, "", err
	}
	if !u.IsActive || !auth.CheckPassword(u.PasswordHash, password) {
		s.logger.InfoContext(ctx, "login rejected", slog.String("username", username))
		return nil, "", model.ErrInvalidCredential
	}
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *userService) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	if _, err := model.ParseRole(string(role)); err != nil {
		return nil, model.NewValidationError().With("rol", err.Error())
	}
	return s.users.ListByRole(ctx, role)
}
