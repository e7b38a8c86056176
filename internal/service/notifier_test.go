package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"justifacil/internal/mail"
	mailMocks "justifacil/internal/mail/mocks"
	"justifacil/internal/model"
	"justifacil/internal/realtime"
	repoMocks "justifacil/internal/repository/mocks"
)

type recordingPublisher struct {
	userIDs []int64
	events  []realtime.Event
	err     error
}

func (p *recordingPublisher) PublishUser(_ context.Context, userID int64, ev realtime.Event) error {
	p.userIDs = append(p.userIDs, userID)
	p.events = append(p.events, ev)
	return p.err
}

func TestStatusMessage(t *testing.T) {
	j := &model.Justification{ID: 1, Status: model.StatusApproved, CoordinatorComment: "OK"}
	owner := &model.User{Username: "estudiante1", FirstName: "Ana", LastName: "Soto"}

	assert.Equal(t, "Tu justificación #1 fue aprobada", StatusSubject(j))
	assert.Equal(t,
		"Hola Ana Soto,\n\nEstado: Aprobada\nComentario: OK\n\nSaludos,\nEquipo JustiFácil",
		StatusBody(j, owner))

	j.Status, j.CoordinatorComment = model.StatusRejected, ""
	assert.Equal(t, "Tu justificación #1 fue rechazada", StatusSubject(j))
	assert.Contains(t, StatusBody(j, &model.User{Username: "estudiante2"}), "Hola estudiante2,")
	assert.Contains(t, StatusBody(j, owner), "Comentario: Sin comentarios")
}

func TestNotifier_StatusChanged(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 11, 9, 0, 0, 0, time.UTC)
	j := &model.Justification{ID: 4, StudentID: 4, Status: model.StatusApproved}

	t.Run("publish failure is ignored", func(t *testing.T) {
		mailer := new(mailMocks.MockMailer)
		notifs := new(repoMocks.MockNotificationRepository)
		pub := &recordingPublisher{err: errors.New("redis down")}
		n := NewNotifier(mailer, notifs, pub, nil, nil)
		n.now = func() time.Time { return now }

		mailer.On("Send", ctx, mock.AnythingOfType("mail.Message")).Return(nil)
		notifs.On("Create", ctx, mock.Anything).Return(&model.Notification{ID: 3, RecipientID: 4}, nil)

		rec, err := n.StatusChanged(ctx, j, student)
		require.NoError(t, err)
		assert.Equal(t, int64(3), rec.ID)
		require.Len(t, pub.events, 1)
		assert.Equal(t, realtime.EventDecision, pub.events[0].Type)
		assert.Equal(t, now, pub.events[0].At)
	})

	t.Run("append failure is returned", func(t *testing.T) {
		mailer := new(mailMocks.MockMailer)
		notifs := new(repoMocks.MockNotificationRepository)
		n := NewNotifier(mailer, notifs, nil, nil, nil)

		mailer.On("Send", ctx, mail.Message{
			To:      "est1@example.com",
			Subject: StatusSubject(j),
			Body:    StatusBody(j, student),
		}).Return(nil)
		notifs.On("Create", ctx, mock.Anything).Return(nil, errors.New("insert failed"))

		_, err := n.StatusChanged(ctx, j, student)
		assert.ErrorContains(t, err, "append notification: insert failed")
		mailer.AssertExpectations(t)
	})
}
