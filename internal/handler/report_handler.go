package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/andreadp02/participium/internal/kafka"
	"github.com/andreadp02/participium/internal/model"
	"github.com/andreadp02/participium/internal/service"
	"github.com/andreadp02/participium/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventPublisher publishes report lifecycle events
type EventPublisher interface {
	PublishStatusChange(ctx context.Context, topic string, event kafka.ReportStatusEvent) error
}

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	reportService       *service.ReportService
	notificationService *service.NotificationService
	events              EventPublisher
	eventsTopic         string
	logger              *zap.Logger
}

// NewReportHandler creates a new report handler. The event publisher may be
// nil when event publishing is disabled.
func NewReportHandler(
	reportService *service.ReportService,
	notificationService *service.NotificationService,
	events EventPublisher,
	eventsTopic string,
	logger *zap.Logger,
) *ReportHandler {
	return &ReportHandler{
		reportService:       reportService,
		notificationService: notificationService,
		events:              events,
		eventsTopic:         eventsTopic,
		logger:              logger,
	}
}

// SubmitReport handles submitting a new report
// POST /api/v1/reports
func (h *ReportHandler) SubmitReport(c *gin.Context) {
	var request model.ReportCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	report, err := h.reportService.SubmitReport(c.Request.Context(), &request, userID.(int))
	if err != nil {
		h.logger.Error("Failed to submit report", zap.Error(err))
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": report})
}

// GetAllReports handles listing all reports
// GET /api/v1/reports
func (h *ReportHandler) GetAllReports(c *gin.Context) {
	reports, err := h.reportService.FindAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get reports", zap.Error(err))
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reports})
}

// GetReportByID handles retrieving a report by ID
// GET /api/v1/reports/{id}
func (h *ReportHandler) GetReportByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid report ID")
		return
	}

	report, err := h.reportService.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get report", zap.Error(err), zap.Int("id", id))
		utils.SendServiceError(c, err)
		return
	}
	if report == nil {
		utils.SendErrorResponse(c, http.StatusNotFound, "Report not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

// GetReportsByStatus handles listing reports by status
// GET /api/v1/reports/status/{status}
func (h *ReportHandler) GetReportsByStatus(c *gin.Context) {
	reports, err := h.reportService.FindByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reports})
}

// UpdateReportStatus handles a staff status transition. After the status is
// durably updated, the report owner (when the report is not anonymous) gets
// a status-change notification and an event is published; failures in those
// follow-ups are logged but do not undo the transition.
// PATCH /api/v1/reports/{id}/status
func (h *ReportHandler) UpdateReportStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid report ID")
		return
	}

	var request model.ReportStatusUpdate
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	// Load the report first to capture the prior status and the owner.
	report, err := h.reportService.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get report", zap.Error(err), zap.Int("id", id))
		utils.SendServiceError(c, err)
		return
	}
	if report == nil {
		utils.SendErrorResponse(c, http.StatusNotFound, "Report not found")
		return
	}
	oldStatus := report.Status

	newStatus, err := h.reportService.UpdateStatus(c.Request.Context(), id, request.Status, request.RejectionReason)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	if report.UserID != nil {
		_, err := h.notificationService.NotifyReportStatusChange(
			c.Request.Context(), id, string(oldStatus), string(newStatus), *report.UserID)
		if err != nil {
			h.logger.Error("Failed to record status-change notification",
				zap.Error(err),
				zap.Int("report_id", id),
				zap.Int("user_id", *report.UserID))
		}
	}

	if h.events != nil {
		event := kafka.ReportStatusEvent{
			ReportID:   id,
			OldStatus:  string(oldStatus),
			NewStatus:  string(newStatus),
			OwnerID:    report.UserID,
			OccurredAt: time.Now(),
		}
		if err := h.events.PublishStatusChange(c.Request.Context(), h.eventsTopic, event); err != nil {
			h.logger.Error("Failed to publish status-change event",
				zap.Error(err),
				zap.Int("report_id", id))
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": newStatus}})
}

// DeleteReport handles deleting a report and its images
// DELETE /api/v1/reports/{id}
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid report ID")
		return
	}

	deleted, err := h.reportService.DeleteReport(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to delete report", zap.Error(err), zap.Int("id", id))
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": deleted})
}
