package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"justifacil/internal/mail"
)

type MockMailer struct {
	mock.Mock
}

var _ mail.Mailer = (*MockMailer)(nil)

func (m *MockMailer) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
