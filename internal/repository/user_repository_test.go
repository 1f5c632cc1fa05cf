package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(sqlx.NewDb(db, "sqlmock"), zap.NewNop())
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "username", "email", "role", "created_at"}).
			AddRow(3, "mario", "mario@example.com", "citizen", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
			WithArgs(3).
			WillReturnRows(rows)

		user, err := repo.GetByID(ctx, 3)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "mario", user.Username)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
			WithArgs(999).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "role", "created_at"}))

		user, err := repo.GetByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
