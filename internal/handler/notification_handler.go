package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/meeton-app/meeton-server/internal/service"
)

type NotificationHandler struct {
	S *service.NotificationService
}

// GetNotificationsHandler godoc
// @Summary List notifications
// @Description Returns the authenticated user's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.NotificationsResponse
// @Router /notifications/ [get]
func (h *NotificationHandler) GetNotificationsHandler(c *gin.Context) {
	response, err := h.S.GetUserNotifications(c.Request.Context(), loggedUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, response)
}

// MarkNotificationReadHandler godoc
// @Summary Mark notification read
// @Description Mark a single notification as read, idempotent
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.NotificationResponse
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkNotificationReadHandler(c *gin.Context) {
	notificationID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	notification, err := h.S.MarkNotificationRead(c.Request.Context(), loggedUserID(c), notificationID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(200, notification)
}

// MarkAllNotificationsReadHandler godoc
// @Summary Mark all notifications read
// @Description Mark every unread notification of the authenticated user as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 204 {object} nil
// @Router /notifications/ [put]
func (h *NotificationHandler) MarkAllNotificationsReadHandler(c *gin.Context) {
	if err := h.S.MarkAllNotificationsRead(c.Request.Context(), loggedUserID(c)); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(204)
}
