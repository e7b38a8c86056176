package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"justifacil/internal/model"
)

var userCols = []string{"id", "username", "email", "first_name", "last_name", "password_hash", "role", "is_superuser", "is_active", "created_at"}

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	now := time.Now().UTC()
	u := &model.User{Username: "estudiante1", Email: "est1@example.com", PasswordHash: "hash", Role: model.RoleStudent, IsActive: true}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("estudiante1", "est1@example.com", "", "", "hash", model.RoleStudent, false, true).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(int64(4), "estudiante1", "est1@example.com", "", "", "hash", "ESTUDIANTE", false, true, now))

	got, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.ID)
	assert.Equal(t, model.RoleStudent, got.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE username = ").
			WithArgs("coordinador").
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(int64(2), "coordinador", "coord@example.com", "Carla", "Rojas", "hash", "COORDINADOR", false, true, time.Now()))

		u, err := repo.FindByUsername(ctx, "coordinador")
		require.NoError(t, err)
		assert.Equal(t, model.RoleCoordinator, u.Role)
		assert.Equal(t, "Carla Rojas", u.DisplayName())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE username = ").
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindByUsername(ctx, "ghost")
		assert.Nil(t, u)
		assert.True(t, errors.Is(err, model.ErrNotFound))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err = NewUserPostgres(db).FindByID(context.Background(), 99)
	assert.True(t, errors.Is(err, model.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_ListByRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM users WHERE role = (.+) ORDER BY username").
		WithArgs(model.RoleProfessor).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(int64(3), "profesor1", "prof1@example.com", "", "", "h", "PROFESOR", false, true, now).
			AddRow(int64(5), "profesor2", "prof2@example.com", "", "", "h", "PROFESOR", false, true, now))

	users, err := NewUserPostgres(db).ListByRole(context.Background(), model.RoleProfessor)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "profesor2", users[1].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}
