package model

import (
	"time"

	"github.com/lib/pq"
)

// Report represents a citizen-submitted civic issue as stored. Photos holds
// the stored image references, not retrievable URLs; it is empty only in the
// window between record creation and image attachment.
type Report struct {
	ID              int            `json:"id" db:"id"`
	Title           string         `json:"title" db:"title"`
	Description     string         `json:"description" db:"description"`
	Category        string         `json:"category" db:"category"`
	Latitude        float64        `json:"latitude" db:"latitude"`
	Longitude       float64        `json:"longitude" db:"longitude"`
	Photos          pq.StringArray `json:"photos" db:"photos"`
	Status          Status         `json:"status" db:"status"`
	RejectionReason *string        `json:"rejection_reason,omitempty" db:"rejection_reason"`
	UserID          *int           `json:"user_id,omitempty" db:"user_id"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
}

// ReportCreate represents the submission payload for a new report. When
// Anonymous is true the created report carries no owner reference.
type ReportCreate struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	PhotoKeys   []string `json:"photo_keys"`
	Anonymous   bool     `json:"anonymous"`
}

// ReportStatusUpdate represents a staff status transition request
type ReportStatusUpdate struct {
	Status          string  `json:"status" binding:"required"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

// ReportResponse is the external shape of a report with photos resolved to
// retrievable URLs. Absent optional fields are omitted from the serialized
// output.
type ReportResponse struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Photos          []string  `json:"photos"`
	Status          Status    `json:"status"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	UserID          *int      `json:"user_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewReportResponse builds the external report shape from a stored row and
// its resolved photo URLs.
func NewReportResponse(report *Report, photoURLs []string) *ReportResponse {
	if photoURLs == nil {
		photoURLs = []string{}
	}
	return &ReportResponse{
		ID:              report.ID,
		Title:           report.Title,
		Description:     report.Description,
		Category:        report.Category,
		Latitude:        report.Latitude,
		Longitude:       report.Longitude,
		Photos:          photoURLs,
		Status:          report.Status,
		RejectionReason: report.RejectionReason,
		UserID:          report.UserID,
		CreatedAt:       report.CreatedAt,
	}
}
