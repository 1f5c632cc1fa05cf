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

	"github.com/andreadp02/participium/internal/model"
)

var reportTestColumns = []string{
	"id", "title", "description", "category", "latitude", "longitude",
	"photos", "status", "rejection_reason", "user_id", "created_at",
}

func newReportRepoTest(t *testing.T) (*ReportRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewReportRepository(sqlxDB, zap.NewNop())

	return repo, mock, func() { db.Close() }
}

func TestReportRepository_Create(t *testing.T) {
	repo, mock, cleanup := newReportRepoTest(t)
	defer cleanup()

	ctx := context.Background()
	createdAt := time.Now()

	t.Run("Owned", func(t *testing.T) {
		rows := sqlmock.NewRows(reportTestColumns).
			AddRow(10, "Pothole", "Large pothole", "ROADS", 45.07, 7.68,
				"{}", "PENDING_APPROVAL", nil, 123, createdAt)

		mock.ExpectQuery("INSERT INTO reports").
			WithArgs("Pothole", "Large pothole", "ROADS", 45.07, 7.68,
				"{}", "PENDING_APPROVAL", 123).
			WillReturnRows(rows)

		userID := 123
		created, err := repo.Create(ctx, &model.ReportCreate{
			Title:       "Pothole",
			Description: "Large pothole",
			Category:    "ROADS",
			Latitude:    45.07,
			Longitude:   7.68,
		}, &userID)

		require.NoError(t, err)
		assert.Equal(t, 10, created.ID)
		assert.Equal(t, model.StatusPendingApproval, created.Status)
		assert.Empty(t, created.Photos)
		require.NotNil(t, created.UserID)
		assert.Equal(t, 123, *created.UserID)
	})

	t.Run("Anonymous", func(t *testing.T) {
		rows := sqlmock.NewRows(reportTestColumns).
			AddRow(11, "Pothole", "Large pothole", "ROADS", 45.07, 7.68,
				"{}", "PENDING_APPROVAL", nil, nil, createdAt)

		mock.ExpectQuery("INSERT INTO reports").
			WithArgs("Pothole", "Large pothole", "ROADS", 45.07, 7.68,
				"{}", "PENDING_APPROVAL", nil).
			WillReturnRows(rows)

		created, err := repo.Create(ctx, &model.ReportCreate{
			Title:       "Pothole",
			Description: "Large pothole",
			Category:    "ROADS",
			Latitude:    45.07,
			Longitude:   7.68,
		}, nil)

		require.NoError(t, err)
		assert.Nil(t, created.UserID)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_FindByID(t *testing.T) {
	repo, mock, cleanup := newReportRepoTest(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows(reportTestColumns).
			AddRow(7, "Pothole", "Large pothole", "ROADS", 45.07, 7.68,
				"{ref1,ref2}", "ASSIGNED", nil, 3, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM reports WHERE id").
			WithArgs(7).
			WillReturnRows(rows)

		report, err := repo.FindByID(ctx, 7)
		require.NoError(t, err)
		require.NotNil(t, report)
		assert.Equal(t, model.StatusAssigned, report.Status)
		assert.Equal(t, []string{"ref1", "ref2"}, []string(report.Photos))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reports WHERE id").
			WithArgs(999).
			WillReturnRows(sqlmock.NewRows(reportTestColumns))

		report, err := repo.FindByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, report)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_FindByStatus(t *testing.T) {
	repo, mock, cleanup := newReportRepoTest(t)
	defer cleanup()

	rows := sqlmock.NewRows(reportTestColumns).
		AddRow(2, "Lamp out", "Broken street lamp", "PUBLIC_LIGHTING", 45.0, 7.6,
			"{ref3}", "ASSIGNED", nil, nil, time.Now()).
		AddRow(1, "Pothole", "Large pothole", "ROADS", 45.07, 7.68,
			"{ref1}", "ASSIGNED", nil, 3, time.Now().Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM reports WHERE status").
		WithArgs("ASSIGNED").
		WillReturnRows(rows)

	reports, err := repo.FindByStatus(context.Background(), model.StatusAssigned)
	require.NoError(t, err)
	assert.Len(t, reports, 2)
	assert.Equal(t, 2, reports[0].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_UpdateStatus(t *testing.T) {
	repo, mock, cleanup := newReportRepoTest(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("RejectedKeepsReason", func(t *testing.T) {
		rows := sqlmock.NewRows(reportTestColumns).
			AddRow(1, "Pothole", "Large pothole", "ROADS", 45.07, 7.68,
				"{ref1}", "REJECTED", "duplicate", 3, time.Now())

		mock.ExpectQuery("UPDATE reports SET status").
			WithArgs(1, "REJECTED", "duplicate").
			WillReturnRows(rows)

		reason := "duplicate"
		updated, err := repo.UpdateStatus(ctx, 1, model.StatusRejected, &reason)
		require.NoError(t, err)
		require.NotNil(t, updated)
		require.NotNil(t, updated.RejectionReason)
		assert.Equal(t, "duplicate", *updated.RejectionReason)
	})

	t.Run("NilReasonClears", func(t *testing.T) {
		rows := sqlmock.NewRows(reportTestColumns).
			AddRow(1, "Pothole", "Large pothole", "ROADS", 45.07, 7.68,
				"{ref1}", "ASSIGNED", nil, 3, time.Now())

		mock.ExpectQuery("UPDATE reports SET status").
			WithArgs(1, "ASSIGNED", nil).
			WillReturnRows(rows)

		updated, err := repo.UpdateStatus(ctx, 1, model.StatusAssigned, nil)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Nil(t, updated.RejectionReason)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("UPDATE reports SET status").
			WithArgs(999, "ASSIGNED", nil).
			WillReturnRows(sqlmock.NewRows(reportTestColumns))

		updated, err := repo.UpdateStatus(ctx, 999, model.StatusAssigned, nil)
		require.NoError(t, err)
		assert.Nil(t, updated)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_Delete(t *testing.T) {
	repo, mock, cleanup := newReportRepoTest(t)
	defer cleanup()

	rows := sqlmock.NewRows(reportTestColumns).
		AddRow(7, "Pothole", "Large pothole", "ROADS", 45.07, 7.68,
			"{ref1}", "RESOLVED", nil, 3, time.Now())

	mock.ExpectQuery("DELETE FROM reports WHERE id").
		WithArgs(7).
		WillReturnRows(rows)

	deleted, err := repo.Delete(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, 7, deleted.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_UpdatePhotos(t *testing.T) {
	repo, mock, cleanup := newReportRepoTest(t)
	defer cleanup()

	rows := sqlmock.NewRows(reportTestColumns).
		AddRow(10, "Pothole", "Large pothole", "ROADS", 45.07, 7.68,
			"{stored/k1,stored/k2}", "PENDING_APPROVAL", nil, 123, time.Now())

	mock.ExpectQuery("UPDATE reports SET photos").
		WithArgs(10, sqlmock.AnyArg()).
		WillReturnRows(rows)

	updated, err := repo.UpdatePhotos(context.Background(), 10, []string{"stored/k1", "stored/k2"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, []string{"stored/k1", "stored/k2"}, []string(updated.Photos))

	require.NoError(t, mock.ExpectationsWereMet())
}
