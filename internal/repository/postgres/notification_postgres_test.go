package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"justifacil/internal/model"
)

func TestNotificationPostgres_Create_DefaultsToEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO notifications").
		WithArgs(int64(4), "Tu justificación #1 fue aprobada", model.ChannelEmail).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

	n, err := NewNotificationPostgres(db).Create(context.Background(), &model.Notification{
		RecipientID: 4,
		Message:     "Tu justificación #1 fue aprobada",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.ID)
	assert.Equal(t, model.ChannelEmail, n.Channel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationPostgres_ListByRecipient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM notifications WHERE recipient_id = ").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "recipient_id", "message", "channel", "created_at"}).
			AddRow(int64(2), int64(4), "b", "app", now).
			AddRow(int64(1), int64(4), "a", "email", now))

	items, err := NewNotificationPostgres(db).ListByRecipient(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, model.ChannelApp, items[0].Channel)
	assert.NoError(t, mock.ExpectationsWereMet())
}
