package model

import (
	"encoding/json"
	"time"
)

// Notification represents a stored notification addressed to a single user
// about a single report. Report and User carry the relational includes
// loaded alongside the row; ReadAt is nil while the notification is unread.
type Notification struct {
	ID        int        `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	Content   string     `json:"content" db:"content"`
	ReportID  int        `json:"report_id" db:"report_id"`
	UserID    int        `json:"user_id" db:"user_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty" db:"read_at"`

	Report *Report `json:"report,omitempty"`
	User   *User   `json:"user,omitempty"`
}

// NotificationCreate represents the payload for sending a notification
type NotificationCreate struct {
	Title     string     `json:"title" binding:"required"`
	Content   string     `json:"content" binding:"required"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// NotificationResponse is the external notification shape. Null-valued
// optional fields are omitted from the serialized output.
type NotificationResponse struct {
	ID        int             `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Report    *ReportResponse `json:"report,omitempty"`
	User      *UserResponse   `json:"user,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	ReadAt    *time.Time      `json:"read_at,omitempty"`
}

// NewNotificationResponse builds the external notification shape. The nested
// report keeps its stored photo references; URL resolution happens only on
// the report endpoints.
func NewNotificationResponse(notification *Notification) *NotificationResponse {
	response := &NotificationResponse{
		ID:        notification.ID,
		Title:     notification.Title,
		Content:   notification.Content,
		CreatedAt: notification.CreatedAt,
		ReadAt:    notification.ReadAt,
	}
	if notification.Report != nil {
		response.Report = NewReportResponse(notification.Report, notification.Report.Photos)
	}
	if notification.User != nil {
		response.User = NewUserResponse(notification.User)
	}
	return response
}

// UnmarshalJSON accepts both snake_case and camelCase timestamp keys so a
// notification can be re-read regardless of which producer serialized it.
func (r *NotificationResponse) UnmarshalJSON(data []byte) error {
	type alias NotificationResponse
	aux := struct {
		*alias
		CreatedAtCamel *time.Time `json:"createdAt"`
		ReadAtCamel    *time.Time `json:"readAt"`
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.CreatedAt.IsZero() && aux.CreatedAtCamel != nil {
		r.CreatedAt = *aux.CreatedAtCamel
	}
	if r.ReadAt == nil && aux.ReadAtCamel != nil {
		r.ReadAt = aux.ReadAtCamel
	}
	return nil
}
