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

// Column order matches the joined notification select.
var notificationTestColumns = []string{
	"n_id", "n_title", "n_content", "n_report_id", "n_user_id", "n_created_at", "n_read_at",
	"r_id", "r_title", "r_description", "r_category", "r_latitude", "r_longitude",
	"r_photos", "r_status", "r_rejection_reason", "r_user_id", "r_created_at",
	"u_id", "u_username", "u_email", "u_role", "u_created_at",
}

func notificationTestRow(rows *sqlmock.Rows, id int, title string, userID int, createdAt time.Time, readAt interface{}) *sqlmock.Rows {
	return rows.AddRow(
		id, title, "content", 7, userID, createdAt, readAt,
		7, "Pothole", "Large pothole", "ROADS", 45.07, 7.68,
		"{ref1}", "ASSIGNED", nil, userID, createdAt,
		userID, "mario", "mario@example.com", "citizen", createdAt,
	)
}

func newNotificationRepoTest(t *testing.T) (*NotificationRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewNotificationRepository(sqlxDB, zap.NewNop())

	return repo, mock, func() { db.Close() }
}

func TestNotificationRepository_Create(t *testing.T) {
	repo, mock, cleanup := newNotificationRepoTest(t)
	defer cleanup()

	createdAt := time.Now()

	mock.ExpectQuery("INSERT INTO notifications").
		WithArgs("Report status updated: RESOLVED", "content", 7, 3, createdAt, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	rows := notificationTestRow(sqlmock.NewRows(notificationTestColumns),
		1, "Report status updated: RESOLVED", 3, createdAt, nil)
	mock.ExpectQuery("FROM notifications n").
		WithArgs(1).
		WillReturnRows(rows)

	notification, err := repo.Create(context.Background(),
		"Report status updated: RESOLVED", "content", 7, 3, createdAt, nil)

	require.NoError(t, err)
	require.NotNil(t, notification)
	assert.Equal(t, 1, notification.ID)
	assert.Nil(t, notification.ReadAt)
	require.NotNil(t, notification.Report)
	assert.Equal(t, 7, notification.Report.ID)
	require.NotNil(t, notification.User)
	assert.Equal(t, "mario", notification.User.Username)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_FindByUserID(t *testing.T) {
	repo, mock, cleanup := newNotificationRepoTest(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows(notificationTestColumns)
	notificationTestRow(rows, 2, "newer", 3, now, nil)
	notificationTestRow(rows, 1, "older", 3, now.Add(-time.Hour), now)

	mock.ExpectQuery("WHERE n.user_id").
		WithArgs(3).
		WillReturnRows(rows)

	notifications, err := repo.FindByUserID(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "newer", notifications[0].Title)
	assert.Nil(t, notifications[0].ReadAt)
	assert.NotNil(t, notifications[1].ReadAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_FindByID_NotFound(t *testing.T) {
	repo, mock, cleanup := newNotificationRepoTest(t)
	defer cleanup()

	mock.ExpectQuery("FROM notifications n").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(notificationTestColumns))

	notification, err := repo.FindByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, notification)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkAsRead(t *testing.T) {
	repo, mock, cleanup := newNotificationRepoTest(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("SetsTimestamp", func(t *testing.T) {
		readAt := time.Now()

		mock.ExpectQuery("UPDATE notifications SET read_at").
			WithArgs(1, readAt).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		rows := notificationTestRow(sqlmock.NewRows(notificationTestColumns),
			1, "title", 3, time.Now().Add(-time.Hour), readAt)
		mock.ExpectQuery("FROM notifications n").
			WithArgs(1).
			WillReturnRows(rows)

		notification, err := repo.MarkAsRead(ctx, 1, readAt)
		require.NoError(t, err)
		require.NotNil(t, notification)
		require.NotNil(t, notification.ReadAt)
		assert.WithinDuration(t, readAt, *notification.ReadAt, time.Second)
	})

	t.Run("NotFound", func(t *testing.T) {
		readAt := time.Now()

		mock.ExpectQuery("UPDATE notifications SET read_at").
			WithArgs(42, readAt).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		notification, err := repo.MarkAsRead(ctx, 42, readAt)
		require.NoError(t, err)
		assert.Nil(t, notification)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
