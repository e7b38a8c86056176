package postgres

import (
	"context"
	"database/sql"

	"justifacil/internal/model"
	"justifacil/internal/repository"
)

// NotificationPostgres is a PostgreSQL implementation of repository.NotificationRepository.
type NotificationPostgres struct {
	db *sql.DB
}

func NewNotificationPostgres(db *sql.DB) *NotificationPostgres {
	return &NotificationPostgres{db: db}
}

var _ repository.NotificationRepository = (*NotificationPostgres)(nil)

// Create appends a notification. An empty channel is stored as email.
func (r *NotificationPostgres) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	channel := n.Channel
	if channel == "" {
		channel = model.ChannelEmail
	}
	const q = `
		INSERT INTO notifications (recipient_id, message, channel)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	out := *n
	out.Channel = channel
	if err := r.db.QueryRowContext(ctx, q, n.RecipientID, n.Message, channel).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *NotificationPostgres) ListByRecipient(ctx context.Context, recipientID int64) ([]model.Notification, error) {
	const q = `
		SELECT id, recipient_id, message, channel, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Message, &n.Channel, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}
