package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transport-broker-api/middleware"
	"transport-broker-api/models"
)

// audienceScope maps the caller's role to the rows they may touch.
// Admin notifications are shared (recipient 0).
func audienceScope(c *gin.Context) (models.Audience, uint) {
	claims := middleware.GetClaims(c)
	if claims.Role == models.RoleAdmin {
		return models.AudienceAdmin, 0
	}
	return models.Audience(claims.Role), claims.UserID
}

// GetNotifications lists the caller's notifications, newest first
func (h *Handler) GetNotifications(c *gin.Context) {
	audience, recipientID := audienceScope(c)

	var notifications []models.Notification
	query := h.DB.Where("audience = ? AND recipient_id = ?", audience, recipientID)
	if unread := c.Query("unread"); unread == "true" {
		query = query.Where("is_read = ?", false)
	}
	query.Order("created_at desc").Limit(100).Find(&notifications)

	var unreadCount int64
	h.DB.Model(&models.Notification{}).
		Where("audience = ? AND recipient_id = ? AND is_read = ?", audience, recipientID, false).
		Count(&unreadCount)

	c.JSON(http.StatusOK, gin.H{
		"count":         len(notifications),
		"unread":        unreadCount,
		"notifications": notifications,
	})
}

// MarkNotificationRead marks one of the caller's notifications as read
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	audience, recipientID := audienceScope(c)

	result := h.DB.Model(&models.Notification{}).
		Where("id = ? AND audience = ? AND recipient_id = ?", c.Param("id"), audience, recipientID).
		Update("is_read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}

// MarkAllNotificationsRead flips every unread row for the caller's
// audience and recipient; other audiences are untouched.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	audience, recipientID := audienceScope(c)

	result := h.DB.Model(&models.Notification{}).
		Where("audience = ? AND recipient_id = ? AND is_read = ?", audience, recipientID, false).
		Update("is_read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "All notifications marked read",
		"updated": result.RowsAffected,
	})
}
