package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/andreadp02/participium/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const notificationSelect = `
	SELECT
		n.id, n.title, n.content, n.report_id, n.user_id, n.created_at, n.read_at,
		r.id, r.title, r.description, r.category, r.latitude, r.longitude,
		r.photos, r.status, r.rejection_reason, r.user_id, r.created_at,
		u.id, u.username, u.email, u.role, u.created_at
	FROM notifications n
	JOIN reports r ON r.id = n.report_id
	JOIN users u ON u.id = n.user_id`

// NotificationRepository handles database operations for notifications.
// Every read joins the referenced report and user so rows come back with
// their relational includes inline.
type NotificationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sqlx.DB, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a notification and returns it hydrated with its report and
// user rows
func (r *NotificationRepository) Create(
	ctx context.Context,
	title string,
	content string,
	reportID int,
	userID int,
	createdAt time.Time,
	readAt *time.Time,
) (*model.Notification, error) {
	query := `
		INSERT INTO notifications (title, content, report_id, user_id, created_at, read_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int
	err := r.db.GetContext(ctx, &id, query, title, content, reportID, userID, createdAt, readAt)
	if err != nil {
		r.logger.Error("Failed to create notification", zap.Error(err))
		return nil, err
	}

	return r.FindByID(ctx, id)
}

// FindByUserID retrieves notifications for a user, newest first
func (r *NotificationRepository) FindByUserID(ctx context.Context, userID int) ([]model.Notification, error) {
	query := notificationSelect + ` WHERE n.user_id = $1 ORDER BY n.created_at DESC`

	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to get notifications for user", zap.Error(err), zap.Int("user_id", userID))
		return nil, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		notification, err := scanNotification(rows.Scan)
		if err != nil {
			r.logger.Error("Failed to scan notification row", zap.Error(err))
			return nil, err
		}
		notifications = append(notifications, *notification)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating notification rows", zap.Error(err))
		return nil, err
	}

	return notifications, nil
}

// FindByID retrieves a notification by ID, returning nil when absent
func (r *NotificationRepository) FindByID(ctx context.Context, id int) (*model.Notification, error) {
	query := notificationSelect + ` WHERE n.id = $1`

	row := r.db.QueryRowxContext(ctx, query, id)
	notification, err := scanNotification(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found is not an error
		}
		r.logger.Error("Failed to get notification by ID", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return notification, nil
}

// MarkAsRead sets the read timestamp of a notification. The timestamp is
// written once; re-marking an already-read notification keeps the original
// value. Returns the updated notification, or nil when no such row exists.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id int, readAt time.Time) (*model.Notification, error) {
	query := `UPDATE notifications SET read_at = COALESCE(read_at, $2) WHERE id = $1 RETURNING id`

	var updatedID int
	err := r.db.GetContext(ctx, &updatedID, query, id, readAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to mark notification as read", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return r.FindByID(ctx, updatedID)
}

// scanNotification reads one joined notification row into a Notification
// with its report and user includes attached
func scanNotification(scan func(dest ...interface{}) error) (*model.Notification, error) {
	var (
		notification model.Notification
		report       model.Report
		user         model.User
		readAt       sql.NullTime
		rejection    sql.NullString
		reportUserID sql.NullInt64
	)

	err := scan(
		&notification.ID,
		&notification.Title,
		&notification.Content,
		&notification.ReportID,
		&notification.UserID,
		&notification.CreatedAt,
		&readAt,
		&report.ID,
		&report.Title,
		&report.Description,
		&report.Category,
		&report.Latitude,
		&report.Longitude,
		&report.Photos,
		&report.Status,
		&rejection,
		&reportUserID,
		&report.CreatedAt,
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if readAt.Valid {
		notification.ReadAt = &readAt.Time
	}
	if rejection.Valid {
		report.RejectionReason = &rejection.String
	}
	if reportUserID.Valid {
		ownerID := int(reportUserID.Int64)
		report.UserID = &ownerID
	}

	notification.Report = &report
	notification.User = &user

	return &notification, nil
}
