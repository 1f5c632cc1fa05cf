package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andreadp02/participium/internal/model"
	"github.com/andreadp02/participium/internal/repository"

	"go.uber.org/zap"
)

// UserLookup resolves a user id to a user record, nil when absent
type UserLookup interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
}

// NotificationService handles notification operations
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	reportRepo       *repository.ReportRepository
	users            UserLookup
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	reportRepo *repository.ReportRepository,
	users UserLookup,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		reportRepo:       reportRepo,
		users:            users,
		logger:           logger,
	}
}

// SendNotification creates a notification for a user regarding a report.
// Both the report and the recipient must exist.
func (s *NotificationService) SendNotification(ctx context.Context, data *model.NotificationCreate, reportID, userID int) (*model.NotificationResponse, error) {
	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, &model.NotFoundError{Message: "Report not found"}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &model.NotFoundError{Message: "User not found"}
	}

	createdAt := time.Now()
	if data.CreatedAt != nil {
		createdAt = *data.CreatedAt
	}

	notification, err := s.notificationRepo.Create(ctx, data.Title, data.Content, reportID, userID, createdAt, data.ReadAt)
	if err != nil {
		return nil, err
	}

	return model.NewNotificationResponse(notification), nil
}

// NotifyReportStatusChange records a notification for the report owner about
// a status transition. The prior status is included in the content only when
// it was known.
func (s *NotificationService) NotifyReportStatusChange(ctx context.Context, reportID int, oldStatus, newStatus string, userID int) (*model.NotificationResponse, error) {
	title := fmt.Sprintf("Report status updated: %s", newStatus)

	var content string
	if oldStatus != "" {
		content = fmt.Sprintf("The report %q changed status from %s to %s.", fmt.Sprint(reportID), oldStatus, newStatus)
	} else {
		content = fmt.Sprintf("The report %q changed status to %s.", fmt.Sprint(reportID), newStatus)
	}

	now := time.Now()
	data := &model.NotificationCreate{
		Title:     title,
		Content:   content,
		CreatedAt: &now,
	}

	return s.SendNotification(ctx, data, reportID, userID)
}

// GetNotificationsForUser retrieves the notifications addressed to a user,
// newest first
func (s *NotificationService) GetNotificationsForUser(ctx context.Context, userID int) ([]model.NotificationResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &model.NotFoundError{Message: "User not found"}
	}

	notifications, err := s.notificationRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]model.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, *model.NewNotificationResponse(&notifications[i]))
	}
	return responses, nil
}

// GetNotificationByID retrieves a notification by ID
func (s *NotificationService) GetNotificationByID(ctx context.Context, id int) (*model.NotificationResponse, error) {
	notification, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, &model.NotFoundError{Message: fmt.Sprintf("Notification with id %d not found", id)}
	}

	return model.NewNotificationResponse(notification), nil
}

// MarkNotificationAsRead flips a notification to read on behalf of its
// recipient. Only the addressed user may mark it; re-marking an already-read
// notification succeeds and keeps the original read timestamp.
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, id, userID int) (*model.NotificationResponse, error) {
	notification, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, &model.NotFoundError{Message: fmt.Sprintf("Notification with id %d not found", id)}
	}

	if notification.UserID != userID {
		return nil, &model.ForbiddenError{Message: "Not authorized to mark this notification as read"}
	}

	updated, err := s.notificationRepo.MarkAsRead(ctx, id, time.Now())
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, &model.NotFoundError{Message: fmt.Sprintf("Notification with id %d not found", id)}
	}

	s.logger.Debug("Notification marked as read", zap.Int("id", id), zap.Int("user_id", userID))

	return model.NewNotificationResponse(updated), nil
}
