package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"justifacil/internal/mail"
	"justifacil/internal/model"
	"justifacil/internal/realtime"
	"justifacil/internal/repository"
)

// FallbackEmail receives status mails for accounts without an address.
const FallbackEmail = "devnull@example.com"

// EventPublisher fans an in-app event out to a user. *realtime.Publisher implements it.
type EventPublisher interface {
	PublishUser(ctx context.Context, userID int64, ev realtime.Event) error
}

// Notifier tells a justification's owner that its status changed.
type Notifier struct {
	mailer        mail.Mailer
	notifications repository.NotificationRepository
	publisher     EventPublisher
	metrics       *Metrics
	logger        *slog.Logger
	now           func() time.Time
}

// NewNotifier builds a Notifier. publisher, metrics and logger may be nil.
func NewNotifier(mailer mail.Mailer, notifications repository.NotificationRepository, publisher EventPublisher, metrics *Metrics, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = discardLogger()
	}
	return &Notifier{
		mailer:        mailer,
		notifications: notifications,
		publisher:     publisher,
		metrics:       metrics,
		logger:        logger,
		now:           time.Now,
	}
}

// StatusSubject is the email subject for a decided justification.
func StatusSubject(j *model.Justification) string {
	return fmt.Sprintf("Tu justificación #%d fue %s", j.ID, strings.ToLower(string(j.Status)))
}

// StatusBody is the plain-text message stored and mailed for a decided justification.
func StatusBody(j *model.Justification, owner *model.User) string {
	comment := j.CoordinatorComment
	if comment == "" {
		comment = "Sin comentarios"
	}
	return fmt.Sprintf("Hola %s,\n\nEstado: %s\nComentario: %s\n\nSaludos,\nEquipo JustiFácil",
		owner.DisplayName(), j.Status.Label(), comment)
}

// StatusChanged mails and publishes the decision on a best-effort basis, then appends
// the Notification row. Only a failure to append the row is returned.
func (n *Notifier) StatusChanged(ctx context.Context, j *model.Justification, owner *model.User) (*model.Notification, error) {
	subject := StatusSubject(j)
	body := StatusBody(j, owner)

	to := owner.Email
	if to == "" {
		to = FallbackEmail
	}
	if err := n.mailer.Send(ctx, mail.Message{To: to, Subject: subject, Body: body}); err != nil {
		n.metrics.emailFailed()
		n.logger.WarnContext(ctx, "status email not sent",
			slog.Int64("justification_id", j.ID),
			slog.String("to", to),
			slog.String("error", err.Error()),
		)
	}

	if n.publisher != nil {
		ev := realtime.Event{
			Type:            realtime.EventDecision,
			JustificationID: j.ID,
			Status:          string(j.Status),
			Message:         subject,
			At:              n.now().UTC(),
		}
		if err := n.publisher.PublishUser(ctx, owner.ID, ev); err != nil {
			n.logger.WarnContext(ctx, "status event not published",
				slog.Int64("justification_id", j.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	rec, err := n.notifications.Create(ctx, &model.Notification{
		RecipientID: owner.ID,
		Message:     body,
		Channel:     model.ChannelEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("append notification: %w", err)
	}
	return rec, nil
}
