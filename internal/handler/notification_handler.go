package handler

import (
	"net/http"
	"strconv"

	"github.com/andreadp02/participium/internal/model"
	"github.com/andreadp02/participium/internal/service"
	"github.com/andreadp02/participium/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

type sendNotificationRequest struct {
	model.NotificationCreate
	ReportID int `json:"report_id" binding:"required"`
	UserID   int `json:"user_id" binding:"required"`
}

// SendNotification handles a staff request to notify a user about a report
// POST /api/v1/notifications
func (h *NotificationHandler) SendNotification(c *gin.Context) {
	var request sendNotificationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	notification, err := h.notificationService.SendNotification(
		c.Request.Context(), &request.NotificationCreate, request.ReportID, request.UserID)
	if err != nil {
		h.logger.Error("Failed to send notification", zap.Error(err))
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": notification})
}

// GetNotifications handles listing the caller's notifications
// GET /api/v1/notifications
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notifications, err := h.notificationService.GetNotificationsForUser(c.Request.Context(), userID.(int))
	if err != nil {
		h.logger.Error("Failed to get notifications", zap.Error(err))
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

// GetNotificationByID handles retrieving one of the caller's notifications.
// A notification is visible only to its recipient, regardless of role.
// GET /api/v1/notifications/{id}
func (h *NotificationHandler) GetNotificationByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notification, err := h.notificationService.GetNotificationByID(c.Request.Context(), id)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	if notification.User == nil || notification.User.ID != userID.(int) {
		utils.SendErrorResponse(c, http.StatusForbidden, "Not authorized to view this notification")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notification})
}

// MarkNotificationRead handles marking a notification as read
// PATCH /api/v1/notifications/{id}/read
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notification, err := h.notificationService.MarkNotificationAsRead(c.Request.Context(), id, userID.(int))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notification})
}
